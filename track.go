package engine

import "fmt"

// TrackId uniquely identifies a Track within its owning Mixer.
type TrackId uint32

// TrackType distinguishes the two concrete Track flavors.
type TrackType int

const (
	TrackBuffer TrackType = iota
	TrackNote
)

func (t TrackType) String() string {
	if t == TrackNote {
		return "NoteTrack"
	}
	return "BufferTrack"
}

// Track owns a processing Graph and a set of Regions placed on the
// timeline. BufferTrack accepts only BufferRegions; NoteTrack only
// NoteRegions.
type Track interface {
	ID() TrackId
	Name() string
	SetName(string)
	Channels() int
	Type() TrackType
	Graph() *Graph

	// AddRegion inserts a region. Adding one that overlaps an existing
	// region is permitted (spec.md §4.3).
	AddRegion(r Region) error
	// RemoveRegion deletes a region by id; removing a missing id is a
	// no-op (spec.md §4.3).
	RemoveRegion(id RegionId)
	Region(id RegionId) (Region, bool)
	Regions() []Region

	// Render produces the track's per-channel sample at beat b by summing
	// active regions and running the track's graph (spec.md §4.3).
	Render(b Beats, mixerSamplesPerBeat float32) []float32

	// Duration is the max start_time+duration across this track's regions.
	Duration() Beats

	// ReserveRegionID hands out the next monotonic RegionId for this track.
	ReserveRegionID() RegionId

	Clone() Track
}

type trackBase struct {
	id           TrackId
	name         string
	channels     int
	order        []RegionId
	nextRegionID RegionId
}

func (t *trackBase) ID() TrackId      { return t.id }
func (t *trackBase) Name() string     { return t.name }
func (t *trackBase) SetName(n string) { t.name = n }
func (t *trackBase) Channels() int    { return t.channels }

func (t *trackBase) ReserveRegionID() RegionId {
	t.nextRegionID++
	return t.nextRegionID
}

func (t *trackBase) removeFromOrder(id RegionId) {
	for i, oid := range t.order {
		if oid == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			return
		}
	}
}

// BufferTrack holds BufferRegions and renders audio clip content through a
// BufferInput -> ... -> BufferOutput graph.
type BufferTrack struct {
	trackBase
	regions map[RegionId]*BufferRegion
	graph   *Graph
}

// NewBufferTrack creates a track with a fresh graph wired input->output by
// a default audio->audio connector (spec.md §3).
func NewBufferTrack(id TrackId, name string, channels int) *BufferTrack {
	input := NewBufferInputNode()
	output := NewBufferOutputNode()
	return &BufferTrack{
		trackBase: trackBase{id: id, name: name, channels: channels},
		regions:   make(map[RegionId]*BufferRegion),
		graph:     NewGraph(input, output, portAudio, portAudio),
	}
}

func (t *BufferTrack) Type() TrackType { return TrackBuffer }
func (t *BufferTrack) Graph() *Graph   { return t.graph }

func (t *BufferTrack) AddRegion(r Region) error {
	br, ok := r.(*BufferRegion)
	if !ok {
		return fmt.Errorf("%w: BufferTrack only accepts BufferRegion", ErrWrongTrackType)
	}
	t.regions[br.ID()] = br
	t.order = append(t.order, br.ID())
	return nil
}

func (t *BufferTrack) RemoveRegion(id RegionId) {
	if _, ok := t.regions[id]; !ok {
		return
	}
	delete(t.regions, id)
	t.removeFromOrder(id)
}

func (t *BufferTrack) Region(id RegionId) (Region, bool) {
	r, ok := t.regions[id]
	return r, ok
}

func (t *BufferTrack) Regions() []Region {
	out := make([]Region, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.regions[id])
	}
	return out
}

func (t *BufferTrack) Duration() Beats {
	var max Beats
	for _, r := range t.regions {
		end := r.StartTime() + r.Duration()
		if end > max {
			max = end
		}
	}
	return max
}

// Render implements spec.md §4.3's BufferTrack algorithm: sum every active
// region's sample per channel (additively, no normalization), feed the sum
// into the graph's BufferInput node, evaluate, and read BufferOutput.
func (t *BufferTrack) Render(b Beats, mixerSamplesPerBeat float32) []float32 {
	out := make([]float32, t.channels)

	inputNode, _ := t.graph.Node(t.graph.InputNode())
	outputNode, _ := t.graph.Node(t.graph.OutputNode())
	bin, _ := inputNode.(*BufferInputNode)
	bout, _ := outputNode.(*BufferOutputNode)
	t.graph.setShaderBeats(b)

	for ch := 0; ch < t.channels; ch++ {
		var sum float32
		for _, r := range t.regions {
			if !r.ActiveAt(b) {
				continue
			}
			sum += r.SampleAt(b, mixerSamplesPerBeat, ch)
		}

		if bin != nil {
			bin.SetInput(portAudio, FloatValue(sum))
		}
		results := t.graph.Evaluate()

		if bout != nil {
			if nodeOut, ok := results[bout.ID()]; ok {
				f, _ := nodeOut[portAudio].Float()
				out[ch] = f
				continue
			}
		}
		out[ch] = sum
	}
	return out
}

func (t *BufferTrack) Clone() Track {
	cp := &BufferTrack{
		trackBase: trackBase{id: t.id, name: t.name, channels: t.channels, order: append([]RegionId(nil), t.order...), nextRegionID: t.nextRegionID},
		regions:   make(map[RegionId]*BufferRegion, len(t.regions)),
		graph:     t.graph.Clone(),
	}
	for id, r := range t.regions {
		cp.regions[id] = r.Clone().(*BufferRegion)
	}
	return cp
}

// NoteTrack holds NoteRegions and renders note-sequence content through a
// NoteInput -> (shader/synth) -> BufferOutput graph.
type NoteTrack struct {
	trackBase
	regions map[RegionId]*NoteRegion
	graph   *Graph
}

// NewNoteTrack creates a track with a fresh graph. Unlike BufferTrack, its
// input (NoteInputNode, port "notes") and output (BufferOutputNode, port
// "audio") ports have different tags, so no default connector is possible;
// a synth/shader node must be added and wired by the caller before the
// track renders anything but silence.
func NewNoteTrack(id TrackId, name string, channels int) *NoteTrack {
	input := NewNoteInputNode()
	output := NewBufferOutputNode()
	return &NoteTrack{
		trackBase: trackBase{id: id, name: name, channels: channels},
		regions:   make(map[RegionId]*NoteRegion),
		graph:     NewGraph(input, output, "", ""),
	}
}

func (t *NoteTrack) Type() TrackType { return TrackNote }
func (t *NoteTrack) Graph() *Graph   { return t.graph }

func (t *NoteTrack) AddRegion(r Region) error {
	nr, ok := r.(*NoteRegion)
	if !ok {
		return fmt.Errorf("%w: NoteTrack only accepts NoteRegion", ErrWrongTrackType)
	}
	t.regions[nr.ID()] = nr
	t.order = append(t.order, nr.ID())
	return nil
}

func (t *NoteTrack) RemoveRegion(id RegionId) {
	if _, ok := t.regions[id]; !ok {
		return
	}
	delete(t.regions, id)
	t.removeFromOrder(id)
}

func (t *NoteTrack) Region(id RegionId) (Region, bool) {
	r, ok := t.regions[id]
	return r, ok
}

func (t *NoteTrack) Regions() []Region {
	out := make([]Region, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.regions[id])
	}
	return out
}

func (t *NoteTrack) Duration() Beats {
	var max Beats
	for _, r := range t.regions {
		end := r.StartTime() + r.Duration()
		if end > max {
			max = end
		}
	}
	return max
}

// Render implements spec.md §4.3's NoteTrack algorithm: collect notes
// starting exactly at b across all active regions, inject them into
// NoteInput, evaluate the graph, and read BufferOutput.
func (t *NoteTrack) Render(b Beats, mixerSamplesPerBeat float32) []float32 {
	out := make([]float32, t.channels)

	inputNode, _ := t.graph.Node(t.graph.InputNode())
	outputNode, _ := t.graph.Node(t.graph.OutputNode())
	nin, _ := inputNode.(*NoteInputNode)
	bout, _ := outputNode.(*BufferOutputNode)
	t.graph.setShaderBeats(b)

	var triggered []Note
	for _, r := range t.regions {
		if !r.activeAt(b) {
			continue
		}
		triggered = append(triggered, r.NotesStartingAt(b-r.StartTime())...)
	}

	if nin != nil {
		nin.SetInput(portNotes, NoteListValue(triggered))
	}
	results := t.graph.Evaluate()

	var f float32
	if bout != nil {
		if nodeOut, ok := results[bout.ID()]; ok {
			f, _ = nodeOut[portAudio].Float()
		}
	}
	for ch := range out {
		out[ch] = f
	}
	return out
}

func (t *NoteTrack) Clone() Track {
	cp := &NoteTrack{
		trackBase: trackBase{id: t.id, name: t.name, channels: t.channels, order: append([]RegionId(nil), t.order...), nextRegionID: t.nextRegionID},
		regions:   make(map[RegionId]*NoteRegion, len(t.regions)),
		graph:     t.graph.Clone(),
	}
	for id, r := range t.regions {
		cp.regions[id] = r.Clone().(*NoteRegion)
	}
	return cp
}
