package engine

import (
	"fmt"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// AudioBuffer is a multi-channel sample store, per-channel rather than
// interleaved (interleaving happens only when the Mixer emits frames to a
// Sink, per spec.md §4.4).
type AudioBuffer struct {
	Channels   int
	SampleRate int
	Data       [][]float32 // Data[channel][frame]
}

// NewSilentBuffer allocates a buffer of the given shape with all samples
// zeroed.
func NewSilentBuffer(channels, sampleRate, frames int) *AudioBuffer {
	b := &AudioBuffer{Channels: channels, SampleRate: sampleRate, Data: make([][]float32, channels)}
	for c := range b.Data {
		b.Data[c] = make([]float32, frames)
	}
	return b
}

// Frames reports how many samples each channel holds.
func (b *AudioBuffer) Frames() int {
	if b == nil || len(b.Data) == 0 {
		return 0
	}
	return len(b.Data[0])
}

// SampleAt returns the sample at the given channel and frame, or silence if
// out of range or b is nil (an unbound BufferRegion contributes silence).
func (b *AudioBuffer) SampleAt(channel, frame int) float32 {
	if b == nil || channel < 0 || channel >= len(b.Data) {
		return 0
	}
	if frame < 0 || frame >= len(b.Data[channel]) {
		return 0
	}
	return b.Data[channel][frame]
}

// Decoder turns an on-disk audio file into an AudioBuffer. The real decoder
// is an external collaborator per spec.md §1; Decoder is the seam external
// code plugs into, and WAVDecoder is one concrete, exercisable adapter.
type Decoder interface {
	Decode(path string, trackIndex int) (*AudioBuffer, error)
}

// WAVDecoder decodes PCM WAV files via go-audio/wav, mirroring the decode
// pipeline tphakala-birdnet-go uses for its own audio ingestion
// (wav.NewDecoder + audio.IntBuffer).
type WAVDecoder struct{}

// Decode implements Decoder. trackIndex is accepted for interface
// compatibility with spec.md's decode(path, track_index) contract (e.g. a
// future multi-track container format); a plain WAV file ignores it.
func (WAVDecoder) Decode(path string, trackIndex int) (*AudioBuffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("wav decode %s: %w", path, err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("wav decode %s: not a valid WAV file", path)
	}

	intBuf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("wav decode %s: %w", path, err)
	}
	return fromIntBuffer(intBuf), nil
}

// fromIntBuffer converts a go-audio/audio.IntBuffer (interleaved) into an
// AudioBuffer (per-channel, float32 in roughly [-1, 1]).
func fromIntBuffer(buf *goaudio.IntBuffer) *AudioBuffer {
	format := buf.Format
	channels := 1
	if format != nil && format.NumChannels > 0 {
		channels = format.NumChannels
	}
	sampleRate := 44100
	if format != nil && format.SampleRate > 0 {
		sampleRate = format.SampleRate
	}

	frames := len(buf.Data) / channels
	out := NewSilentBuffer(channels, sampleRate, frames)

	scale := float32(1.0)
	if buf.SourceBitDepth > 0 {
		scale = float32(int(1) << (buf.SourceBitDepth - 1))
	}

	for i, s := range buf.Data {
		ch := i % channels
		frame := i / channels
		if frame >= frames {
			break
		}
		out.Data[ch][frame] = float32(s) / scale
	}
	return out
}
