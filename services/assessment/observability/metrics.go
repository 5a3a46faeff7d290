// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package observability provides Prometheus metrics for the assessment
// engine: per-run counters and score distributions, per-detector
// finding counts and failures, and enrichment fallbacks.
//
// Metrics are exposed via the /metrics endpoint. All operations are
// thread-safe via Prometheus's internal locking.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "sentinel"

const engineSubsystem = "engine"

// EngineMetrics holds all Prometheus metrics for assessment runs.
// Initialize once at startup via InitMetrics().
type EngineMetrics struct {
	// AssessmentsTotal counts engine runs by terminal outcome.
	// Labels: status (done, degraded, failed)
	AssessmentsTotal *prometheus.CounterVec

	// AssessmentScore observes the aggregate score distribution.
	AssessmentScore prometheus.Histogram

	// AssessmentDurationSeconds measures full engine pass duration.
	// Labels: status (done, degraded, failed)
	AssessmentDurationSeconds *prometheus.HistogramVec

	// FindingsTotal counts findings by detector and severity.
	// Labels: detector, level
	FindingsTotal *prometheus.CounterVec

	// DetectorFailuresTotal counts isolated detector failures.
	// Labels: detector
	DetectorFailuresTotal *prometheus.CounterVec

	// EnrichmentFallbacksTotal counts remedy enrichment attempts that
	// fell back to rule-derived text.
	EnrichmentFallbacksTotal prometheus.Counter

	// AmendmentTransitionsTotal counts lifecycle transitions.
	// Labels: status (proposed, approved, implemented), outcome (ok, rejected)
	AmendmentTransitionsTotal *prometheus.CounterVec
}

// DefaultMetrics is the singleton instance, initialized by InitMetrics().
var DefaultMetrics *EngineMetrics

// InitMetrics creates and registers all engine metrics against the
// default registry. Call once at startup; a second call panics on
// duplicate registration.
func InitMetrics() *EngineMetrics {
	DefaultMetrics = &EngineMetrics{
		AssessmentsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: engineSubsystem,
				Name:      "assessments_total",
				Help:      "Total engine runs by terminal outcome",
			},
			[]string{"status"},
		),

		AssessmentScore: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: engineSubsystem,
				Name:      "assessment_score",
				Help:      "Distribution of aggregate risk scores",
				Buckets:   []float64{10, 25, 40, 50, 60, 75, 90, 100},
			},
		),

		AssessmentDurationSeconds: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: engineSubsystem,
				Name:      "assessment_duration_seconds",
				Help:      "Full engine pass duration in seconds",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60},
			},
			[]string{"status"},
		),

		FindingsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: engineSubsystem,
				Name:      "findings_total",
				Help:      "Findings produced by detector and severity level",
			},
			[]string{"detector", "level"},
		),

		DetectorFailuresTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: engineSubsystem,
				Name:      "detector_failures_total",
				Help:      "Isolated detector failures by detector",
			},
			[]string{"detector"},
		),

		EnrichmentFallbacksTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: engineSubsystem,
				Name:      "enrichment_fallbacks_total",
				Help:      "Remedy enrichment attempts that fell back to rule text",
			},
		),

		AmendmentTransitionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: engineSubsystem,
				Name:      "amendment_transitions_total",
				Help:      "Amendment lifecycle transitions by target status and outcome",
			},
			[]string{"status", "outcome"},
		),
	}

	return DefaultMetrics
}

// RecordAssessment records one completed engine run.
func (m *EngineMetrics) RecordAssessment(status string, score, seconds float64) {
	m.AssessmentsTotal.WithLabelValues(status).Inc()
	m.AssessmentDurationSeconds.WithLabelValues(status).Observe(seconds)
	if status != "failed" {
		m.AssessmentScore.Observe(score)
	}
}

// RecordFinding counts one finding.
func (m *EngineMetrics) RecordFinding(detector, level string) {
	m.FindingsTotal.WithLabelValues(detector, level).Inc()
}

// RecordDetectorFailure counts one isolated detector failure.
func (m *EngineMetrics) RecordDetectorFailure(detector string) {
	m.DetectorFailuresTotal.WithLabelValues(detector).Inc()
}

// RecordEnrichmentFallback counts one enrichment fallback.
func (m *EngineMetrics) RecordEnrichmentFallback() {
	m.EnrichmentFallbacksTotal.Inc()
}

// RecordAmendmentTransition counts one lifecycle transition attempt.
func (m *EngineMetrics) RecordAmendmentTransition(status string, ok bool) {
	outcome := "ok"
	if !ok {
		outcome = "rejected"
	}
	m.AmendmentTransitionsTotal.WithLabelValues(status, outcome).Inc()
}
