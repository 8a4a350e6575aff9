package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ActorMetrics instruments a MixerActor's command loop with prometheus
// collectors, grounded on the client_golang dependency the example pack
// reaches for elsewhere (tphakala-birdnet-go's telemetry package). A nil
// *ActorMetrics is valid everywhere it's used (see actor.go) so tests that
// don't care about metrics can skip registering a registry.
type ActorMetrics struct {
	commandsProcessed *prometheus.CounterVec
	commandQueueDepth prometheus.Gauge
	mixesStarted      prometheus.Counter
	mixesPreempted    prometheus.Counter
	snapshotsEmitted  *prometheus.CounterVec
	needsMix          prometheus.Gauge
}

// NewActorMetrics registers a fresh set of collectors against reg. Passing
// a dedicated registry (rather than prometheus.DefaultRegisterer) keeps
// multiple actors in the same process from colliding on metric names.
func NewActorMetrics(reg prometheus.Registerer) *ActorMetrics {
	factory := promauto.With(reg)
	return &ActorMetrics{
		commandsProcessed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "knodiq",
			Subsystem: "actor",
			Name:      "commands_processed_total",
			Help:      "Commands processed by the mixer actor, by command kind.",
		}, []string{"kind"}),
		commandQueueDepth: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "knodiq",
			Subsystem: "actor",
			Name:      "command_queue_depth",
			Help:      "Commands currently buffered in the actor's inbox channel.",
		}),
		mixesStarted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "knodiq",
			Subsystem: "actor",
			Name:      "mixes_started_total",
			Help:      "Mix passes started by the actor.",
		}),
		mixesPreempted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "knodiq",
			Subsystem: "actor",
			Name:      "mixes_preempted_total",
			Help:      "Mix passes that were stopped because a fresh Mix pre-empted them.",
		}),
		snapshotsEmitted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "knodiq",
			Subsystem: "actor",
			Name:      "snapshots_emitted_total",
			Help:      "Snapshots published, split by whether the emission was throttled.",
		}, []string{"throttled"}),
		needsMix: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "knodiq",
			Subsystem: "actor",
			Name:      "needs_mix",
			Help:      "1 if the mixer has unmixed rendering-relevant mutations pending, else 0.",
		}),
	}
}

func (m *ActorMetrics) observeCommand(kind string) {
	if m == nil {
		return
	}
	m.commandsProcessed.WithLabelValues(kind).Inc()
}

func (m *ActorMetrics) setQueueDepth(n int) {
	if m == nil {
		return
	}
	m.commandQueueDepth.Set(float64(n))
}

func (m *ActorMetrics) observeMixStarted() {
	if m == nil {
		return
	}
	m.mixesStarted.Inc()
}

func (m *ActorMetrics) observeMixPreempted() {
	if m == nil {
		return
	}
	m.mixesPreempted.Inc()
}

func (m *ActorMetrics) observeSnapshot(throttled bool) {
	if m == nil {
		return
	}
	label := "false"
	if throttled {
		label = "true"
	}
	m.snapshotsEmitted.WithLabelValues(label).Inc()
}

func (m *ActorMetrics) setNeedsMix(needed bool) {
	if m == nil {
		return
	}
	if needed {
		m.needsMix.Set(1)
	} else {
		m.needsMix.Set(0)
	}
}
