// Package metrics records translation outcomes as Prometheus counters.
package metrics

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "errtranslate"

// Recorder counts translated error outcomes.
// A nil *Recorder is valid and records nothing.
type Recorder struct {
	outcomes *prometheus.CounterVec
	misuse   *prometheus.CounterVec
}

// New creates a Recorder and registers its collectors with reg.
// A nil reg uses a fresh private registry.
func New(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	r := &Recorder{
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outcomes_total",
			Help:      "Translated error responses by kind and HTTP status",
		}, []string{"kind", "status"}),
		misuse: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invalid_arguments_total",
			Help:      "Translator calls rejected for invalid arguments",
		}, []string{"argument"}),
	}

	reg.MustRegister(r.outcomes, r.misuse)

	return r
}

var (
	defaultRecorder *Recorder
	defaultOnce     sync.Once
)

// Default returns the process-wide Recorder registered with the default
// Prometheus registry, which /-/metrics serves.
func Default() *Recorder {
	defaultOnce.Do(func() {
		defaultRecorder = New(prometheus.DefaultRegisterer)
	})

	return defaultRecorder
}

// ObserveOutcome counts one translated response.
// Boxed pass-through errors have no kind and are counted as "boxed".
func (r *Recorder) ObserveOutcome(kind string, status int) {
	if r == nil {
		return
	}

	if kind == "" {
		kind = "boxed"
	}

	r.outcomes.WithLabelValues(kind, strconv.Itoa(status)).Inc()
}

// ObserveInvalidArgument counts one rejected translator call.
func (r *Recorder) ObserveInvalidArgument(argument string) {
	if r == nil {
		return
	}

	r.misuse.WithLabelValues(argument).Inc()
}
