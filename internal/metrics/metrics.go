// package metrics exposes prometheus counters for control dispatch and property publication
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Drop reasons recorded by [Collector.Dropped].
const (
	ReasonGate    = "gate"
	ReasonStopped = "stopped"
	ReasonStale   = "stale"
	ReasonBounds  = "bounds"
)

// Collector groups the counters. A nil *Collector is valid and records nothing.
type Collector struct {
	dispatched     *prometheus.CounterVec
	dropped        *prometheus.CounterVec
	callbackErrors *prometheus.CounterVec
	published      *prometheus.CounterVec
	publishErrors  *prometheus.CounterVec
}

// New creates a Collector and registers it on reg. A nil reg leaves the counters unregistered.
func New(reg prometheus.Registerer) *Collector {
	c := &Collector{
		dispatched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nowplaying",
			Name:      "control_dispatched_total",
			Help:      "Inbound control requests handed to the application.",
		}, []string{"action"}),
		dropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nowplaying",
			Name:      "control_dropped_total",
			Help:      "Inbound control requests dropped before reaching the application.",
		}, []string{"action", "reason"}),
		callbackErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nowplaying",
			Name:      "control_callback_errors_total",
			Help:      "Application callbacks that returned an error or panicked.",
		}, []string{"action"}),
		published: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nowplaying",
			Name:      "property_published_total",
			Help:      "Property writes mirrored to the native surface.",
		}, []string{"platform", "scope"}),
		publishErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nowplaying",
			Name:      "property_publish_errors_total",
			Help:      "Property writes the native surface rejected.",
		}, []string{"platform"}),
	}

	if reg != nil {
		reg.MustRegister(c.dispatched, c.dropped, c.callbackErrors, c.published, c.publishErrors)
	}
	return c
}

func (c *Collector) Dispatched(action string) {
	if c == nil {
		return
	}
	c.dispatched.WithLabelValues(action).Inc()
}

func (c *Collector) Dropped(action, reason string) {
	if c == nil {
		return
	}
	c.dropped.WithLabelValues(action, reason).Inc()
}

func (c *Collector) CallbackError(action string) {
	if c == nil {
		return
	}
	c.callbackErrors.WithLabelValues(action).Inc()
}

func (c *Collector) Published(platform, scope string) {
	if c == nil {
		return
	}
	c.published.WithLabelValues(platform, scope).Inc()
}

func (c *Collector) PublishError(platform string) {
	if c == nil {
		return
	}
	c.publishErrors.WithLabelValues(platform).Inc()
}
