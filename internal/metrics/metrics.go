// Package metrics exposes Prometheus counters for tool invocations and
// grid arrangements. All methods are safe to call on a nil *Metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Tool invocation outcomes.
const (
	OutcomeOK      = "ok"
	OutcomeFailed  = "failed"
	OutcomeTimeout = "timeout"
	OutcomeMissing = "missing"
)

// Metrics holds all Prometheus collectors for wingrid.
type Metrics struct {
	registry *prometheus.Registry

	ToolInvocations *prometheus.CounterVec
	ToolDuration    *prometheus.HistogramVec

	ArrangeRequests *prometheus.CounterVec
	WindowsArranged prometheus.Counter
	WindowsListed   prometheus.Gauge
	DisplaysSeen    prometheus.Gauge
}

// New creates a metrics set registered on its own registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		ToolInvocations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wingrid_tool_invocations_total",
				Help: "External tool invocations by tool and outcome",
			},
			[]string{"tool", "outcome"},
		),
		ToolDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "wingrid_tool_duration_seconds",
				Help:    "External tool invocation latency",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2, 5},
			},
			[]string{"tool"},
		),
		ArrangeRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wingrid_arrange_requests_total",
				Help: "Grid arrangement requests by mode and outcome",
			},
			[]string{"mode", "outcome"},
		),
		WindowsArranged: factory.NewCounter(prometheus.CounterOpts{
			Name: "wingrid_windows_arranged_total",
			Help: "Windows for which a move-resize command was issued",
		}),
		WindowsListed: factory.NewGauge(prometheus.GaugeOpts{
			Name: "wingrid_windows_listed",
			Help: "Windows returned by the most recent enumeration",
		}),
		DisplaysSeen: factory.NewGauge(prometheus.GaugeOpts{
			Name: "wingrid_displays",
			Help: "Displays returned by the most recent topology read",
		}),
	}
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveTool records one external tool invocation.
func (m *Metrics) ObserveTool(tool, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.ToolInvocations.WithLabelValues(tool, outcome).Inc()
	if outcome != OutcomeMissing {
		m.ToolDuration.WithLabelValues(tool).Observe(elapsed.Seconds())
	}
}

// ObserveArrange records the result of one arrangement request.
func (m *Metrics) ObserveArrange(mode string, success bool, arranged int) {
	if m == nil {
		return
	}
	outcome := "success"
	if !success {
		outcome = "error"
	}
	m.ArrangeRequests.WithLabelValues(mode, outcome).Inc()
	m.WindowsArranged.Add(float64(arranged))
}

// SetWindowsListed records the size of the latest enumeration.
func (m *Metrics) SetWindowsListed(n int) {
	if m == nil {
		return
	}
	m.WindowsListed.Set(float64(n))
}

// SetDisplays records the number of displays in the latest topology read.
func (m *Metrics) SetDisplays(n int) {
	if m == nil {
		return
	}
	m.DisplaysSeen.Set(float64(n))
}
