// Package metrics exposes Prometheus collectors for router calls and the
// event relay.
//
// Metrics implements zenoss.Observer, so it can be attached to a client with
// SetObserver and every router call is counted and timed.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/nerrad567/zenoss-client/pkg/zenoss"
)

// Call outcomes used as the "outcome" label.
const (
	OutcomeSuccess    = "success"
	OutcomeAuth       = "auth"
	OutcomeTransport  = "transport"
	OutcomeRemote     = "remote"
	OutcomeValidation = "validation"
	OutcomeNotFound   = "not_found"
	OutcomeError      = "error"
)

// Metrics holds the collectors registered by New.
//
// Thread Safety: Prometheus collectors are safe for concurrent use.
type Metrics struct {
	buildInfo    *prometheus.GaugeVec
	calls        *prometheus.CounterVec
	callDuration *prometheus.HistogramVec

	polls         *prometheus.CounterVec
	eventsRelayed prometheus.Counter
	openEvents    *prometheus.GaugeVec
	commands      *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
// It panics if registration fails, like prometheus.MustRegister.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		buildInfo: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "zenossctl_build_info",
			Help: "Build information for zenossctl",
		}, []string{"version"}),
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "zenossctl_router_calls_total",
			Help: "Router calls by router, method and outcome",
		}, []string{"router", "method", "outcome"}),
		callDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "zenossctl_router_call_duration_seconds",
			Help:    "Router call latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"router", "method"}),
		polls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "zenossctl_relay_polls_total",
			Help: "Relay poll cycles by result",
		}, []string{"result"}),
		eventsRelayed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "zenossctl_relay_events_total",
			Help: "Events forwarded by the relay",
		}),
		openEvents: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "zenossctl_open_events",
			Help: "Open events seen in the last poll by severity",
		}, []string{"severity"}),
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "zenossctl_relay_commands_total",
			Help: "Event commands received over MQTT by action and result",
		}, []string{"action", "result"}),
	}

	reg.MustRegister(
		m.buildInfo,
		m.calls,
		m.callDuration,
		m.polls,
		m.eventsRelayed,
		m.openEvents,
		m.commands,
	)
	return m
}

// SetBuildInfo records the running version.
func (m *Metrics) SetBuildInfo(version string) {
	m.buildInfo.WithLabelValues(version).Set(1)
}

// ObserveCall implements zenoss.Observer.
func (m *Metrics) ObserveCall(router, method string, elapsed time.Duration, err error) {
	m.calls.WithLabelValues(router, method, Outcome(err)).Inc()
	m.callDuration.WithLabelValues(router, method).Observe(elapsed.Seconds())
}

// PollCompleted counts a relay poll cycle.
func (m *Metrics) PollCompleted(err error) {
	result := OutcomeSuccess
	if err != nil {
		result = OutcomeError
	}
	m.polls.WithLabelValues(result).Inc()
}

// EventsRelayed adds n forwarded events.
func (m *Metrics) EventsRelayed(n int) {
	m.eventsRelayed.Add(float64(n))
}

// SetOpenEvents replaces the per-severity open event gauge.
// Severities missing from counts are reset to zero.
func (m *Metrics) SetOpenEvents(counts map[string]int) {
	m.openEvents.Reset()
	for severity, n := range counts {
		m.openEvents.WithLabelValues(severity).Set(float64(n))
	}
}

// CommandHandled counts an event command received over MQTT.
func (m *Metrics) CommandHandled(action string, err error) {
	m.commands.WithLabelValues(action, Outcome(err)).Inc()
}

// Outcome classifies a router call error for the outcome label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, zenoss.ErrAuthentication):
		return OutcomeAuth
	case errors.Is(err, zenoss.ErrTransport):
		return OutcomeTransport
	case errors.Is(err, zenoss.ErrValidation):
		return OutcomeValidation
	case errors.Is(err, zenoss.ErrNotFound):
		return OutcomeNotFound
	case errors.Is(err, zenoss.ErrRemote):
		return OutcomeRemote
	default:
		return OutcomeError
	}
}
