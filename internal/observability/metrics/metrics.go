package metrics

import "github.com/prometheus/client_golang/prometheus"

// AssistantMetrics exposes counters/histograms for the chat routing and
// completion flows.
type AssistantMetrics struct {
	chatTotal         *prometheus.CounterVec
	completionLatency *prometheus.HistogramVec
}

func NewAssistantMetrics(reg prometheus.Registerer) *AssistantMetrics {
	m := &AssistantMetrics{
		chatTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "realty",
			Subsystem: "assistant",
			Name:      "chat_total",
			Help:      "Total chat turns by route and outcome",
		}, []string{"route", "status"}),
		completionLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "realty",
			Subsystem: "assistant",
			Name:      "completion_latency_seconds",
			Help:      "Latency of completion provider calls",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.chatTotal, m.completionLatency)
	return m
}

func (m *AssistantMetrics) ObserveChat(route, status string) {
	if m == nil {
		return
	}
	m.chatTotal.WithLabelValues(route, status).Inc()
}

func (m *AssistantMetrics) ObserveCompletionLatency(kind string, seconds float64) {
	if m == nil {
		return
	}
	m.completionLatency.WithLabelValues(kind).Observe(seconds)
}

// DispatchMetrics exposes counters for the callback dispatch sweep.
type DispatchMetrics struct {
	callbacksTotal *prometheus.CounterVec
	sweepDuration  prometheus.Histogram
}

func NewDispatchMetrics(reg prometheus.Registerer) *DispatchMetrics {
	m := &DispatchMetrics{
		callbacksTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "realty",
			Subsystem: "callbacks",
			Name:      "dispatched_total",
			Help:      "Total callback dispatch attempts by outcome",
		}, []string{"outcome"}),
		sweepDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "realty",
			Subsystem: "callbacks",
			Name:      "sweep_duration_seconds",
			Help:      "Duration of dispatch sweeps",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.callbacksTotal, m.sweepDuration)
	return m
}

func (m *DispatchMetrics) ObserveDispatch(outcome string) {
	if m == nil {
		return
	}
	m.callbacksTotal.WithLabelValues(outcome).Inc()
}

func (m *DispatchMetrics) ObserveSweepDuration(seconds float64) {
	if m == nil {
		return
	}
	m.sweepDuration.Observe(seconds)
}
