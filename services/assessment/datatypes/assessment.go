// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package datatypes

import "time"

// Priority orders recommendations for remediation work.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// priorityRanks orders priorities for sorting (lower sorts first).
var priorityRanks = map[Priority]int{
	PriorityHigh:   0,
	PriorityMedium: 1,
	PriorityLow:    2,
}

// Rank returns the sort position of the priority: high=0, medium=1, low=2.
func (p Priority) Rank() int {
	return priorityRanks[p]
}

// Recommendation is one actionable remediation item, derived
// deterministically from a single finding.
type Recommendation struct {
	Priority Priority `json:"priority"`
	Category Category `json:"category"`

	// Issue restates the finding's description.
	Issue string `json:"issue"`

	// Recommendation is the remedy text, possibly enriched by the
	// text-generation collaborator.
	Recommendation string `json:"recommendation"`

	// Impact explains the consequence of leaving the issue unaddressed.
	Impact string `json:"impact"`

	// SourceLevel is the severity of the originating finding. It is a
	// sort key (severity rank descending within equal priority), not
	// part of the wire format.
	SourceLevel SeverityLevel `json:"-"`
}

// ComplianceStatus is the simplified status for the compliance
// category. It takes precedence over the numeric score bucket.
type ComplianceStatus string

const (
	StatusCompliant          ComplianceStatus = "compliant"
	StatusPartiallyCompliant ComplianceStatus = "partially_compliant"
	StatusNonCompliant       ComplianceStatus = "non_compliant"
)

// Assessment is the immutable result of one engine pass over one
// contract snapshot.
//
// The sequence of Assessments for a contract ID forms an append-only
// history used for trend and amendment comparison. An Assessment may
// be freely shared and read concurrently once produced.
type Assessment struct {
	ContractID string    `json:"contract_id"`
	Timestamp  time.Time `json:"timestamp"`

	// Findings holds every finding in deterministic merge order:
	// fixed detector order, then discovery order within a detector.
	Findings []Finding `json:"findings"`

	// CategoryBreakdown maps each category to the IDs of its findings,
	// preserving Findings order.
	CategoryBreakdown map[Category][]string `json:"category_breakdown"`

	// Score is the aggregate weighted severity in [0,100]; exactly 0
	// when Findings is empty.
	Score float64 `json:"score"`

	// Level is the bucket derived from Score.
	Level SeverityLevel `json:"level"`

	// ComplianceStatus applies the compliance-specific status rule to
	// the compliance-category findings.
	ComplianceStatus ComplianceStatus `json:"compliance_status"`

	// Recommendations is sorted by priority rank ascending, severity
	// rank descending, discovery order (stable).
	Recommendations []Recommendation `json:"recommendations"`

	// Degraded is true when any detector or external collaborator
	// failed in a recoverable way.
	Degraded bool `json:"degraded"`

	// FailedDetectors names detectors whose whole scan failed.
	FailedDetectors []string `json:"failed_detectors"`
}

// FindingsInCategory returns the findings belonging to one category,
// in assessment order.
func (a *Assessment) FindingsInCategory(c Category) []Finding {
	var out []Finding
	for _, f := range a.Findings {
		if f.Category == c {
			out = append(out, f)
		}
	}
	return out
}

// HighPriorityRecommendations returns only the high-priority items,
// preserving order. Used by the condensed summary views.
func (a *Assessment) HighPriorityRecommendations() []Recommendation {
	var out []Recommendation
	for _, r := range a.Recommendations {
		if r.Priority == PriorityHigh {
			out = append(out, r)
		}
	}
	return out
}

// AssessmentSummary is the condensed view of an Assessment for status
// dashboards and CLI output.
type AssessmentSummary struct {
	ContractID         string           `json:"contract_id"`
	Timestamp          time.Time        `json:"timestamp"`
	Level              SeverityLevel    `json:"level"`
	Score              float64          `json:"score"`
	ComplianceStatus   ComplianceStatus `json:"compliance_status"`
	TotalFindings      int              `json:"total_findings"`
	HighSeverityIssues []string         `json:"high_severity_issues"`
	KeyRecommendations []string         `json:"key_recommendations"`
	Degraded           bool             `json:"degraded,omitempty"`
}

// Summarize condenses the assessment: every HIGH or CRITICAL finding
// description, and at most the first three recommendation texts in
// priority order.
func (a *Assessment) Summarize() AssessmentSummary {
	s := AssessmentSummary{
		ContractID:       a.ContractID,
		Timestamp:        a.Timestamp,
		Level:            a.Level,
		Score:            a.Score,
		ComplianceStatus: a.ComplianceStatus,
		TotalFindings:    len(a.Findings),
		Degraded:         a.Degraded,
	}
	for _, f := range a.Findings {
		if f.Level.AtLeast(SeverityHigh) {
			s.HighSeverityIssues = append(s.HighSeverityIssues, f.Description)
		}
	}
	for _, r := range a.Recommendations {
		if len(s.KeyRecommendations) == 3 {
			break
		}
		s.KeyRecommendations = append(s.KeyRecommendations, r.Recommendation)
	}
	return s
}
