// Package metrics holds the prometheus collector of orcaobra server.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "orcaobra"

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Collector is a prometheus.Collector that collects metrics about
// assisted generation and document rendering.
type Collector struct {
	llmCalls         *prometheus.CounterVec
	llmLatency       *prometheus.HistogramVec
	budgetsGenerated prometheus.Counter
	documents        *prometheus.CounterVec
}

// New returns a new Collector.
func New() *Collector {
	return &Collector{
		llmCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "llm_calls_total",
				Help:      "The number of calls to LLM providers.",
			}, []string{"provider", "outcome"},
		),
		llmLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "llm_call_seconds",
				Help:      "The time taken by a call to a LLM provider.",
				Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 60},
			}, []string{"provider"},
		),
		budgetsGenerated: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "budgets_generated_total",
				Help:      "The number of budgets generated with AI assistance.",
			},
		),
		documents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "documents_rendered_total",
				Help:      "The number of rendered documents.",
			}, []string{"kind"},
		),
	}
}

// ObserveLLM records a call to the provider.
//
// A nil receiver is a no-op.
func (c *Collector) ObserveLLM(provider string, err error, d time.Duration) {
	if c == nil {
		return
	}
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}
	c.llmCalls.WithLabelValues(provider, outcome).Inc()
	c.llmLatency.WithLabelValues(provider).Observe(d.Seconds())
}

func (c *Collector) BudgetGenerated() {
	if c == nil {
		return
	}
	c.budgetsGenerated.Inc()
}

func (c *Collector) DocumentRendered(kind string) {
	if c == nil {
		return
	}
	c.documents.WithLabelValues(kind).Inc()
}

// Describe is part of the prometheus.Collector interface.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	c.llmCalls.Describe(ch)
	c.llmLatency.Describe(ch)
	c.budgetsGenerated.Describe(ch)
	c.documents.Describe(ch)
}

// Collect is part of the prometheus.Collector interface.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.llmCalls.Collect(ch)
	c.llmLatency.Collect(ch)
	c.budgetsGenerated.Collect(ch)
	c.documents.Collect(ch)
}
