// Package metrics exposes pipeline counters on the default prometheus
// registry, served at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ReportsGenerated counts pipeline runs by outcome status.
	ReportsGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "recruitcli_reports_generated_total",
		Help: "Number of report generation runs by status.",
	}, []string{"status"})

	// EmailsSent counts delivery attempts by outcome.
	EmailsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "recruitcli_emails_sent_total",
		Help: "Number of report email deliveries by outcome.",
	}, []string{"outcome"})

	// NarrativeBySource counts which path produced the analysis text.
	NarrativeBySource = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "recruitcli_narrative_total",
		Help: "Number of narratives by producing path (model or fallback).",
	}, []string{"source"})
)
