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

// ImpactLevel grades how strongly a legal update affects contracts.
type ImpactLevel string

const (
	ImpactLow    ImpactLevel = "low"
	ImpactMedium ImpactLevel = "medium"
	ImpactHigh   ImpactLevel = "high"
)

// Severity maps the update's declared impact to a finding severity:
// high→HIGH, medium→MEDIUM, low→LOW. Unknown impacts map to LOW so a
// sloppy feed can never silently escalate severity.
func (i ImpactLevel) Severity() SeverityLevel {
	switch i {
	case ImpactHigh:
		return SeverityHigh
	case ImpactMedium:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// LegalUpdate is an external notice of a legal change (new law,
// regulation, or case law) that drives the legal-change detector.
type LegalUpdate struct {
	UpdateID      string      `json:"update_id" yaml:"update_id"`
	Jurisdiction  string      `json:"jurisdiction" yaml:"jurisdiction" validate:"required"`
	Category      string      `json:"category" yaml:"category" validate:"required,oneof=law regulation case_law"`
	Title         string      `json:"title" yaml:"title" validate:"required"`
	Description   string      `json:"description" yaml:"description"`
	EffectiveDate time.Time   `json:"effective_date" yaml:"effective_date"`
	Source        string      `json:"source,omitempty" yaml:"source,omitempty"`
	ImpactLevel   ImpactLevel `json:"impact_level" yaml:"impact_level" validate:"required,oneof=low medium high"`

	// AffectedAreas lists keywords naming the contract areas the
	// change touches, e.g. "termination", "data protection".
	AffectedAreas []string `json:"affected_areas" yaml:"affected_areas" validate:"required,min=1"`
}

// AmendmentStatus is the lifecycle state of a proposed amendment.
//
// Transitions are strictly forward-only:
//
//	proposed → approved → implemented
//
// Any other requested transition is rejected with a
// StateTransitionError and leaves the amendment unchanged.
type AmendmentStatus string

const (
	AmendmentProposed    AmendmentStatus = "proposed"
	AmendmentApproved    AmendmentStatus = "approved"
	AmendmentImplemented AmendmentStatus = "implemented"
)

// next returns the only status that may follow s, or "" if s is terminal.
func (s AmendmentStatus) next() AmendmentStatus {
	switch s {
	case AmendmentProposed:
		return AmendmentApproved
	case AmendmentApproved:
		return AmendmentImplemented
	default:
		return ""
	}
}

// CanAdvanceTo reports whether a transition from s to target is legal.
func (s AmendmentStatus) CanAdvanceTo(target AmendmentStatus) bool {
	return s.next() == target && target != ""
}

// Amendment links a contract to a legal update with a proposed text
// change. Amendments are retained for audit and never deleted; only
// their status advances, and only through the tracker's transition
// operations.
type Amendment struct {
	AmendmentID     string          `json:"amendment_id"`
	ContractID      string          `json:"contract_id"`
	LegalUpdateID   string          `json:"legal_update_id"`
	AffectedClauses []string        `json:"affected_clauses"`
	OriginalText    string          `json:"original_text"`
	ProposedText    string          `json:"proposed_text"`
	Status          AmendmentStatus `json:"status"`
	Justification   string          `json:"justification"`
	Timestamp       time.Time       `json:"timestamp"`
}

// AmendmentStatusSummary aggregates a contract's amendments by status.
type AmendmentStatusSummary struct {
	ContractID      string    `json:"contract_id"`
	TotalAmendments int       `json:"total_amendments"`
	Proposed        int       `json:"proposed"`
	Approved        int       `json:"approved"`
	Implemented     int       `json:"implemented"`
	LatestUpdate    time.Time `json:"latest_update"`
}
