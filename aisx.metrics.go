package aisx

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// renderMetrics holds the Prometheus collectors for an Engine.
// A nil *renderMetrics records nothing.
type renderMetrics struct {
	rendersTotal       *prometheus.CounterVec
	renderDuration     *prometheus.HistogramVec
	rejectionsTotal    prometheus.Counter
	pendingErrorsTotal prometheus.Counter
	issuesTotal        prometheus.Counter
}

// newRenderMetrics registers the collectors on registerer, or returns nil when
// metrics are disabled.
func newRenderMetrics(registerer prometheus.Registerer, namespace string) *renderMetrics {
	if registerer == nil {
		return nil
	}
	factory := promauto.With(registerer)

	return &renderMetrics{
		rendersTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      MetricRendersTotal,
			Help:      "Total number of root renders by mode and path taken",
		}, []string{MetricLabelMode, MetricLabelPath}),

		renderDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      MetricRenderDuration,
			Help:      "Time from render start until the root result settled",
			Buckets:   prometheus.DefBuckets,
		}, []string{MetricLabelMode}),

		rejectionsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      MetricRejectionsTotal,
			Help:      "Total number of pending values that failed and rendered empty",
		}),

		pendingErrorsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      MetricPendingErrorsTotal,
			Help:      "Total number of deferred results inspected before they settled",
		}),

		issuesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      MetricIssuesTotal,
			Help:      "Total number of render tree async mismatches reported",
		}),
	}
}

func (m *renderMetrics) observeRender(mode, path string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.rendersTotal.WithLabelValues(mode, path).Inc()
	m.renderDuration.WithLabelValues(mode).Observe(elapsed.Seconds())
}

func (m *renderMetrics) incRejection() {
	if m == nil {
		return
	}
	m.rejectionsTotal.Inc()
}

func (m *renderMetrics) incPendingError() {
	if m == nil {
		return
	}
	m.pendingErrorsTotal.Inc()
}

func (m *renderMetrics) addIssues(n int) {
	if m == nil || n == 0 {
		return
	}
	m.issuesTotal.Add(float64(n))
}
