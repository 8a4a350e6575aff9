package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStopFlagResetSetStopped(t *testing.T) {
	var f stopFlag
	assert.False(t, f.Stopped())
	f.set()
	assert.True(t, f.Stopped())
	f.reset()
	assert.False(t, f.Stopped())
}

func TestStartMixWorkerRunsToCompletion(t *testing.T) {
	m := NewMixer()
	tr := NewBufferTrack(m.NextTrackID(), "a", 1)
	r := NewBufferRegion(tr.ReserveRegionID(), "clip", 0, 4)
	buf := NewSilentBuffer(1, 48000, 4)
	r.SetAudioSource(buf, m.SamplesPerBeat())
	assert.NoError(t, tr.AddRegion(r))
	m.AddTrack(tr)
	assert.NoError(t, m.Prepare())

	var n int
	w := startMixWorker(m, 0, func(Sample, Beats) bool {
		n++
		return n < 4 // stop after a few samples; the generator never ends on its own
	})
	w.join()
	assert.True(t, w.finished())
}

func TestStartMixWorkerHonorsRequestStop(t *testing.T) {
	m := NewMixer()
	tr := NewBufferTrack(m.NextTrackID(), "a", 1)
	m.AddTrack(tr)
	assert.NoError(t, m.Prepare())

	started := make(chan struct{})
	w := startMixWorker(m, 0, func(Sample, Beats) bool {
		select {
		case <-started:
		default:
			close(started)
		}
		return true
	})

	<-started
	w.requestStop()
	w.join()
	assert.True(t, w.finished())
}

func TestStartMixWorkerClonesMixerIndependently(t *testing.T) {
	m := NewMixer()
	tr := NewBufferTrack(m.NextTrackID(), "a", 1)
	id := m.AddTrack(tr)
	assert.NoError(t, m.Prepare())

	w := startMixWorker(m, 0, func(Sample, Beats) bool { return false })
	w.join()

	m.RemoveTrack(id)
	assert.Empty(t, m.Tracks())

	select {
	case <-w.done:
	case <-time.After(time.Second):
		t.Fatal("worker never finished")
	}
}
