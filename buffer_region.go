package engine

// BufferRegion references an audio buffer (possibly unset, in which case it
// contributes silence) placed on the timeline.
type BufferRegion struct {
	regionBase

	buffer             *AudioBuffer
	samplesPerBeatHint float32 // 0 = unset: play back 1:1 against the mixer's sample domain
}

// NewBufferRegion creates an empty (silent) buffer region at the given
// timeline position.
func NewBufferRegion(id RegionId, name string, start, duration Beats) *BufferRegion {
	return &BufferRegion{
		regionBase: regionBase{id: id, name: name, startTime: start, duration: duration},
	}
}

// SetAudioSource binds buf to this region and records the conversion ratio
// between the buffer's native tempo/sample-rate-derived samples-per-beat and
// the mixer's, per spec.md §4.2. A zero samplesPerBeatHint means "assume the
// buffer already matches the mixer's output sample domain".
func (r *BufferRegion) SetAudioSource(buf *AudioBuffer, samplesPerBeatHint float32) {
	r.buffer = buf
	r.samplesPerBeatHint = samplesPerBeatHint
}

// HasAudio reports whether a buffer has been bound.
func (r *BufferRegion) HasAudio() bool { return r.buffer != nil }

// ActiveAt reports whether the region is sounding at beat b.
func (r *BufferRegion) ActiveAt(b Beats) bool { return r.activeAt(b) }

// SampleAt renders one channel's sample at beat b (which must satisfy
// ActiveAt(b)), given the mixer's samples-per-beat. An unbound region (or a
// beat outside the buffer's length) contributes silence.
func (r *BufferRegion) SampleAt(b Beats, mixerSamplesPerBeat float32, channel int) float32 {
	if r.buffer == nil {
		return 0
	}
	localBeat := b - r.startTime
	frame := r.frameIndex(localBeat, mixerSamplesPerBeat)
	return r.buffer.SampleAt(channel, frame)
}

// frameIndex maps a region-local beat offset to a buffer frame index,
// applying the stretch ratio between the region's native samples-per-beat
// hint and the mixer's. This generalizes the teacher's fixed-point
// position/rate-advance idea (mixer_scalar.go's pos += dr) from a streaming
// per-tick cursor to a direct index computation, since regions here are
// rendered by absolute beat rather than a persistent stream cursor.
func (r *BufferRegion) frameIndex(localBeat Beats, mixerSamplesPerBeat float32) int {
	stretch := float64(1)
	if r.samplesPerBeatHint != 0 && mixerSamplesPerBeat != 0 {
		stretch = float64(r.samplesPerBeatHint) / float64(mixerSamplesPerBeat)
	}
	return int(float64(localBeat) * float64(mixerSamplesPerBeat) * stretch)
}

// Scale multiplies Duration by factor and adjusts the region's
// samples-per-beat hint so the bound buffer stretches or compresses to fit
// the new duration (spec.md §4.2's buffer-region branch of Scale).
func (r *BufferRegion) Scale(factor float64) {
	if factor == 0 {
		return
	}
	r.duration = Beats(float64(r.duration) * factor)
	if r.samplesPerBeatHint != 0 {
		r.samplesPerBeatHint = float32(float64(r.samplesPerBeatHint) / factor)
	}
}

// Clone returns an independent copy; the bound AudioBuffer is shared (it is
// immutable sample data owned by the decoder, not the mixer) but the region
// struct itself is not.
func (r *BufferRegion) Clone() Region {
	return &BufferRegion{
		regionBase:         r.regionBase,
		buffer:             r.buffer,
		samplesPerBeatHint: r.samplesPerBeatHint,
	}
}
