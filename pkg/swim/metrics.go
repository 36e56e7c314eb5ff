package swim

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds the collectors of the swim package. Mount it with
// promhttp in the serving layer.
var Registry = prometheus.NewRegistry()

var (
	memberCount = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "fsswim",
			Subsystem: "membership",
			Name:      "members",
			Help:      "Number of known remote members by status.",
		},
		[]string{"status"},
	)

	packetsSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fsswim",
			Subsystem: "detector",
			Name:      "packets_sent_total",
			Help:      "Total packets handed to the transport by message type.",
		},
		[]string{"type"},
	)

	suspicions = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "fsswim",
			Subsystem: "detector",
			Name:      "suspicions_total",
			Help:      "Total direct probe failures escalated to suspicion.",
		},
	)

	refutations = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "fsswim",
			Subsystem: "membership",
			Name:      "refutations_total",
			Help:      "Total remote claims against the local member answered by refutation.",
		},
	)

	eventsEvicted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "fsswim",
			Subsystem: "dissemination",
			Name:      "events_evicted_total",
			Help:      "Total gossip events evicted from the queue under pressure.",
		},
	)
)

func init() {
	Registry.MustRegister(memberCount, packetsSent, suspicions, refutations, eventsEvicted)
}

// trackTransition keeps the per-status member gauge in step with an
// accepted membership transition.
func trackTransition(old *Member, new Member) {
	if old != nil {
		memberCount.WithLabelValues(old.Status.String()).Dec()
	}
	memberCount.WithLabelValues(new.Status.String()).Inc()
}
