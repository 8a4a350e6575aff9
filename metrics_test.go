package engine

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
)

func TestNilActorMetricsToleratesEveryMethod(t *testing.T) {
	var m *ActorMetrics
	assert.NotPanics(t, func() {
		m.observeCommand("Mix")
		m.setQueueDepth(3)
		m.observeMixStarted()
		m.observeMixPreempted()
		m.observeSnapshot(true)
		m.observeSnapshot(false)
		m.setNeedsMix(true)
		m.setNeedsMix(false)
	})
}

func TestNewActorMetricsRegistersCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewActorMetrics(reg)
	assert.NotPanics(t, func() {
		m.observeCommand("AddTrack")
		m.setQueueDepth(1)
		m.observeMixStarted()
		m.observeMixPreempted()
		m.observeSnapshot(true)
		m.setNeedsMix(true)
	})

	families, err := reg.Gather()
	assert.NoError(t, err)
	assert.NotEmpty(t, families)
}
