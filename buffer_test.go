package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewSilentBufferShape(t *testing.T) {
	b := NewSilentBuffer(2, 48000, 100)
	assert.Equal(t, 2, b.Channels)
	assert.Equal(t, 48000, b.SampleRate)
	assert.Equal(t, 100, b.Frames())
	for ch := 0; ch < 2; ch++ {
		for f := 0; f < 100; f++ {
			assert.Zero(t, b.SampleAt(ch, f))
		}
	}
}

func TestAudioBufferSampleAtOutOfRangeIsSilent(t *testing.T) {
	b := NewSilentBuffer(1, 48000, 10)
	assert.Zero(t, b.SampleAt(5, 0))
	assert.Zero(t, b.SampleAt(0, -1))
	assert.Zero(t, b.SampleAt(0, 10))

	var nilBuf *AudioBuffer
	assert.Zero(t, nilBuf.SampleAt(0, 0))
	assert.Equal(t, 0, nilBuf.Frames())
}

func TestWAVDecoderRejectsMissingFile(t *testing.T) {
	var d WAVDecoder
	_, err := d.Decode("/nonexistent/path/to/file.wav", 0)
	assert.Error(t, err)
}
