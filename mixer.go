package engine

import "fmt"

// Sample is a single-channel floating-point amplitude. Values outside
// [-1, 1] are permitted but may clip downstream (spec.md §3).
type Sample = float32

// Mixer owns every track of a project plus the tempo/sample-rate/channel
// parameters that govern rendering. node_positions and track_colors are
// deliberately NOT fields here: spec.md §3 assigns their ownership to the
// actor, not the Mixer, so they live in actor.go's MixerActor instead.
type Mixer struct {
	Tempo      float32
	SampleRate int
	Channels   int

	tracks map[TrackId]Track
	order  []TrackId
	nextID TrackId
}

// NewMixer creates a Mixer with the actor-fixed defaults from spec.md §6
// (tempo=120.0, sample_rate=48000, channels=2) unless overridden by the
// caller afterward.
func NewMixer() *Mixer {
	return &Mixer{
		Tempo:      120.0,
		SampleRate: 48000,
		Channels:   2,
		tracks:     make(map[TrackId]Track),
	}
}

// SamplesPerBeat returns sample_rate * 60 / tempo for the mixer's current
// tempo and sample rate.
func (m *Mixer) SamplesPerBeat() float32 {
	return SamplesPerBeat(m.Tempo, m.SampleRate)
}

// AddTrack appends t under its own id and advances the next-id counter past
// that id. The track's graph wiring is whatever its constructor created.
func (m *Mixer) AddTrack(t Track) TrackId {
	id := t.ID()
	m.tracks[id] = t
	m.order = append(m.order, id)
	if id >= m.nextID {
		m.nextID = id + 1
	}
	return id
}

// NextTrackID reserves the next monotonic track id without inserting a
// track, for callers that need the id before constructing one.
func (m *Mixer) NextTrackID() TrackId {
	id := m.nextID
	m.nextID++
	return id
}

// RemoveTrack deletes a track by id; removing a missing id is a no-op.
func (m *Mixer) RemoveTrack(id TrackId) {
	if _, ok := m.tracks[id]; !ok {
		return
	}
	delete(m.tracks, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}

// Track looks up a track by id.
func (m *Mixer) Track(id TrackId) (Track, bool) {
	t, ok := m.tracks[id]
	return t, ok
}

// Tracks returns every track in insertion order.
func (m *Mixer) Tracks() []Track {
	out := make([]Track, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.tracks[id])
	}
	return out
}

// Duration is the max start_time+duration across every region of every
// track (spec.md §3).
func (m *Mixer) Duration() Beats {
	var max Beats
	for _, t := range m.tracks {
		if d := t.Duration(); d > max {
			max = d
		}
	}
	return max
}

// Prepare validates every track's graph (tag consistency; acyclicity is
// already guaranteed by Connect) and returns an error if any graph is
// invalid, per spec.md §4.4.
func (m *Mixer) Prepare() error {
	for _, id := range m.order {
		t := m.tracks[id]
		if err := t.Graph().Validate(); err != nil {
			return fmt.Errorf("track %d: %w", id, err)
		}
	}
	return nil
}

// MixCallback receives one rendered sample and the beat position it was
// rendered at. Returning false terminates the mix pass (spec.md §4.4).
type MixCallback func(sample Sample, currentBeats Beats) bool

// StopSignal is polled between samples so a mix pass can be cooperatively
// cancelled (spec.md §9: relaxed reads from the worker's hot loop).
type StopSignal interface {
	Stopped() bool
}

// Mix renders an in-order sequence of interleaved (sample, current_beats)
// frames starting at beat at, advancing current_beats by 1/samples_per_beat
// per sample per channel, until cb returns false or stop reports true
// (spec.md §4.4, §9). stop may be nil for a pass with no external
// cancellation source.
func (m *Mixer) Mix(at Beats, stop StopSignal, cb MixCallback) {
	samplesPerBeat := m.SamplesPerBeat()
	if samplesPerBeat <= 0 {
		return
	}
	beatStep := Beats(1.0 / float64(samplesPerBeat))

	current := at
	for {
		if stop != nil && stop.Stopped() {
			return
		}

		frame := make([]float32, m.Channels)
		for _, id := range m.order {
			t := m.tracks[id]
			rendered := t.Render(current, samplesPerBeat)
			for ch := 0; ch < m.Channels; ch++ {
				if ch < len(rendered) {
					frame[ch] += rendered[ch]
				} else if len(rendered) == 1 {
					// Mono track feeding a multi-channel mixer: duplicate.
					frame[ch] += rendered[0]
				}
			}
		}

		for ch := 0; ch < m.Channels; ch++ {
			if stop != nil && stop.Stopped() {
				return
			}
			if !cb(frame[ch], current) {
				return
			}
			current += beatStep
		}
	}
}

// Clone returns a deep, independent copy of the mixer, suitable for handing
// to a mix worker without the worker sharing any mutable state with the
// actor's master copy (spec.md §4.4). Tracks compose their own explicit
// Clone() rather than being reflected over by huandu/go-clone, for the same
// reason Graph.Clone does (see graph.go, DESIGN.md): a Track's Graph may
// hold an AudioShaderNode wrapping an arbitrary ShaderEvaluator
// implementation that reflection cannot reconstruct.
func (m *Mixer) Clone() *Mixer {
	cp := &Mixer{
		Tempo:      m.Tempo,
		SampleRate: m.SampleRate,
		Channels:   m.Channels,
		tracks:     make(map[TrackId]Track, len(m.tracks)),
		order:      append([]TrackId(nil), m.order...),
		nextID:     m.nextID,
	}
	for id, t := range m.tracks {
		cp.tracks[id] = t.Clone()
	}
	return cp
}
