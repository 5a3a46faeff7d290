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

// ClauseRef locates a finding within a contract. A zero ClauseRef
// marks a document-level finding (liability imbalance, ambiguity).
type ClauseRef struct {
	Section string `json:"section,omitempty"`
	Heading string `json:"heading,omitempty"`
}

// IsDocumentLevel reports whether the reference points at the whole
// document rather than a specific clause.
func (r ClauseRef) IsDocumentLevel() bool {
	return r.Section == "" && r.Heading == ""
}

// String renders the reference as "section: heading" for logs and
// recommendation text, or "document" for document-level findings.
func (r ClauseRef) String() string {
	if r.IsDocumentLevel() {
		return "document"
	}
	if r.Section == "" {
		return r.Heading
	}
	if r.Heading == "" {
		return r.Section
	}
	return r.Section + ": " + r.Heading
}

// Finding is a single detected issue.
//
// Findings are created by detectors and never mutated afterward.
// Probability is always clamped to [0,1] at creation time and Level is
// always one of the five defined severity levels; downstream scoring
// relies on both.
type Finding struct {
	// ID is a unique identifier assigned at creation.
	ID string `json:"finding_id"`

	// Category is the issue class (legal, financial, operational,
	// bias, compliance).
	Category Category `json:"category"`

	// Level is the severity taken from the matching rule.
	Level SeverityLevel `json:"level"`

	// Probability is the detector's confidence that the matched text
	// is a real instance of the issue, in [0,1].
	Probability float64 `json:"probability"`

	// Description explains what was detected.
	Description string `json:"description"`

	// Clause locates the finding; zero value for document-level issues.
	Clause ClauseRef `json:"clause_reference"`

	// Remedy is the rule-derived mitigation text.
	Remedy string `json:"remedy"`

	// Justification cites why the issue matters (statute, practice
	// note, or retrieved reference).
	Justification string `json:"justification"`
}

// ClampProbability forces p into [0,1].
func ClampProbability(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
