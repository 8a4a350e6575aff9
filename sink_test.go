package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestChannelSinkSendAndReceive(t *testing.T) {
	s := NewChannelSink(1)
	assert.True(t, s.Send(Sample(0.5)))

	select {
	case got := <-s.Samples():
		assert.Equal(t, Sample(0.5), got)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for sample")
	}
}

func TestChannelSinkBackpressureBlocksUntilDrained(t *testing.T) {
	s := NewChannelSink(1)
	assert.True(t, s.Send(Sample(0)))

	sent := make(chan bool, 1)
	go func() { sent <- s.Send(Sample(0)) }()

	select {
	case <-sent:
		t.Fatal("Send must block while the sink's single slot is full")
	case <-time.After(20 * time.Millisecond):
	}

	<-s.Samples()
	select {
	case ok := <-sent:
		assert.True(t, ok)
	case <-time.After(time.Second):
		t.Fatal("Send should have unblocked after a slot was drained")
	}
}

func TestChannelSinkCloseIsIdempotentAndRejectsSend(t *testing.T) {
	s := NewChannelSink(1)
	s.Close()
	s.Close() // must not panic

	assert.False(t, s.Send(Sample(0)))
}
