// Package metrics exposes Prometheus counters for parse outcomes.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics handles Prometheus metrics collection for the parser
type Metrics struct {
	parsesTotal    *prometheus.CounterVec
	fallbacksTotal prometheus.Counter
	parseFailures  prometheus.Counter
	streamChunks   prometheus.Counter
	toolCallsTotal *prometheus.CounterVec
}

// New creates the parser metrics set
func New() *Metrics {
	return &Metrics{
		parsesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "response_parser_parses_total",
				Help: "Total number of parse calls",
			},
			[]string{"format", "provider"},
		),

		fallbacksTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "response_parser_fallbacks_total",
				Help: "Total number of structured decodes that fell back to text parsing",
			},
		),

		parseFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "response_parser_failures_total",
				Help: "Total number of parses that ended in a terminal error node",
			},
		),

		streamChunks: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "response_parser_stream_chunks_total",
				Help: "Total number of streaming fragments consumed",
			},
		),

		toolCallsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "response_parser_tool_calls_total",
				Help: "Total number of tool calls extracted",
			},
			[]string{"complete"},
		),
	}
}

// Register registers all metrics with the given registerer
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{
		m.parsesTotal,
		m.fallbacksTotal,
		m.parseFailures,
		m.streamChunks,
		m.toolCallsTotal,
	} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// RecordParse counts one parse call by input format and resolved provider
func (m *Metrics) RecordParse(format, provider string) {
	m.parsesTotal.WithLabelValues(format, provider).Inc()
}

// RecordFallback counts a structured decode that fell back to text parsing
func (m *Metrics) RecordFallback() {
	m.fallbacksTotal.Inc()
}

// RecordFailure counts a parse that produced a terminal error node
func (m *Metrics) RecordFailure() {
	m.parseFailures.Inc()
}

// RecordStreamChunk counts one consumed streaming fragment
func (m *Metrics) RecordStreamChunk() {
	m.streamChunks.Inc()
}

// RecordToolCall counts one extracted tool call
func (m *Metrics) RecordToolCall(complete bool) {
	label := "true"
	if !complete {
		label = "false"
	}
	m.toolCallsTotal.WithLabelValues(label).Inc()
}
