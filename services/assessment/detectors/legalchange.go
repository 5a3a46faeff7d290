// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package detectors

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/AleutianAI/ContractSentinel/services/assessment/datatypes"
)

// LegalChangeDetector matches clause content against the affected-area
// keywords of a set of legal updates.
//
// On a match it emits a compliance finding at the severity implied by
// the update's impact level, and drafts one proposed Amendment per
// affected update. The engine creates a fresh instance per assessment
// because the update set varies per call; Drafts() hands the collected
// amendments to the caller after Scan.
type LegalChangeDetector struct {
	updates []datatypes.LegalUpdate
	drafts  []datatypes.Amendment

	// now stamps drafted amendments; injected for deterministic tests.
	now func() time.Time
}

// NewLegalChangeDetector builds a detector for one assessment pass.
func NewLegalChangeDetector(updates []datatypes.LegalUpdate) *LegalChangeDetector {
	return &LegalChangeDetector{updates: updates, now: time.Now}
}

// Name implements Detector.
func (d *LegalChangeDetector) Name() string { return "legal_change" }

// Scan implements Detector.
//
// A clause is affected by an update when any of the update's
// affected-area keywords occurs in its content (case-insensitive). At
// most one finding is produced per (clause, update) pair. The finding
// probability reflects the update's impact level rather than pattern
// confidence: declared impact is taken at face value.
func (d *LegalChangeDetector) Scan(ctx context.Context, contract *datatypes.Contract) ([]datatypes.Finding, error) {
	if len(d.updates) == 0 {
		return nil, nil
	}

	var findings []datatypes.Finding
	d.drafts = d.drafts[:0]

	for _, update := range d.updates {
		if err := ctx.Err(); err != nil {
			return nil, &datatypes.DetectionError{Detector: d.Name(), Err: err}
		}
		if len(update.AffectedAreas) == 0 {
			return nil, &datatypes.DetectionError{
				Detector: d.Name(),
				Err:      fmt.Errorf("legal update %s has no affected areas", update.UpdateID),
			}
		}

		severity := update.ImpactLevel.Severity()
		var affectedRefs []string
		var originalText string

		for _, section := range contract.Sections {
			for _, clause := range section.Clauses {
				if clause.Content == "" {
					continue
				}
				if !clauseAffected(clause.Content, update.AffectedAreas) {
					continue
				}
				ref := datatypes.ClauseRef{Section: section.Name, Heading: clause.Heading}
				affectedRefs = append(affectedRefs, ref.String())
				if originalText == "" {
					originalText = clause.Content
				}
				findings = append(findings, datatypes.Finding{
					ID:            findingID(d.Name(), contract.ID, update.UpdateID, section.Name, clause.Heading),
					Category:      datatypes.CategoryCompliance,
					Level:         severity,
					Probability:   impactProbability(update.ImpactLevel),
					Description:   fmt.Sprintf("Clause affected by legal change: %s", update.Title),
					Clause:        ref,
					Remedy:        fmt.Sprintf("Revise clause to comply with %s (%s, effective %s)", update.Title, update.Jurisdiction, update.EffectiveDate.Format("2006-01-02")),
					Justification: update.Description,
				})
			}
		}

		if len(affectedRefs) > 0 {
			d.drafts = append(d.drafts, datatypes.Amendment{
				AmendmentID:     findingID("amendment", contract.ID, update.UpdateID),
				ContractID:      contract.ID,
				LegalUpdateID:   update.UpdateID,
				AffectedClauses: affectedRefs,
				OriginalText:    originalText,
				ProposedText:    fmt.Sprintf("Amend affected clauses to satisfy %s.", update.Title),
				Status:          datatypes.AmendmentProposed,
				Justification: update.Description,
				Timestamp:       d.now(),
			})
		}
	}
	return findings, nil
}

// Drafts returns the amendments drafted by the most recent Scan, in
// update order.
func (d *LegalChangeDetector) Drafts() []datatypes.Amendment {
	return d.drafts
}

// clauseAffected reports whether any affected-area keyword occurs in
// the clause content.
func clauseAffected(content string, areas []string) bool {
	lowered := strings.ToLower(content)
	for _, area := range areas {
		if area == "" {
			continue
		}
		if strings.Contains(lowered, strings.ToLower(area)) {
			return true
		}
	}
	return false
}

// impactProbability maps declared impact to a match probability.
// Declared impact carries more signal than a keyword hit alone, so the
// scale sits above the pattern-rule defaults.
func impactProbability(impact datatypes.ImpactLevel) float64 {
	switch impact {
	case datatypes.ImpactHigh:
		return 0.95
	case datatypes.ImpactMedium:
		return 0.85
	default:
		return 0.75
	}
}
