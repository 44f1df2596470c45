// Package metrics exposes Prometheus counters for the parameter registries
// and the keyframe edits flowing through them.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Lookup results.
const (
	ResultHit      = "hit"
	ResultMiss     = "miss"
	ResultMismatch = "mismatch"
	ResultError    = "error"
)

// Recorder holds the counters. A nil *Recorder is valid and records nothing.
type Recorder struct {
	Lookups  *prometheus.CounterVec
	KeyEdits *prometheus.CounterVec
}

// NewRecorder creates the counters and registers them with reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		Lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "paramgrid",
			Name:      "registry_lookups_total",
			Help:      "Registry define/fetch requests by phase and result.",
		}, []string{"phase", "result"}),
		KeyEdits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "paramgrid",
			Name:      "key_edits_total",
			Help:      "Keyframe mutations by operation.",
		}, []string{"op"}),
	}
	if reg != nil {
		reg.MustRegister(r.Lookups, r.KeyEdits)
	}
	return r
}

func (r *Recorder) Lookup(phase, result string) {
	if r == nil {
		return
	}
	r.Lookups.WithLabelValues(phase, result).Inc()
}

func (r *Recorder) KeyEdit(op string) {
	if r == nil {
		return
	}
	r.KeyEdits.WithLabelValues(op).Inc()
}
