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

	"github.com/AleutianAI/ContractSentinel/services/assessment/datatypes"
	"github.com/AleutianAI/ContractSentinel/services/assessment/rules"
)

// RuleDetector scans a contract against one or more categories of the
// rule table. The legal-risk, bias, and compliance detectors are all
// RuleDetector instances over different category slices; they share the
// same scanning algorithm.
type RuleDetector struct {
	name       string
	categories []datatypes.Category
	table      *rules.RuleTable
}

// NewRiskDetector covers the legal, financial, and operational
// categories, mirroring the risk assessment's three rule groups.
func NewRiskDetector(table *rules.RuleTable) *RuleDetector {
	return &RuleDetector{
		name:       "risk",
		categories: []datatypes.Category{datatypes.CategoryLegal, datatypes.CategoryFinancial, datatypes.CategoryOperational},
		table:      table,
	}
}

// NewBiasDetector covers the bias/fairness category.
func NewBiasDetector(table *rules.RuleTable) *RuleDetector {
	return &RuleDetector{
		name:       "bias",
		categories: []datatypes.Category{datatypes.CategoryBias},
		table:      table,
	}
}

// NewComplianceDetector covers the compliance category.
func NewComplianceDetector(table *rules.RuleTable) *RuleDetector {
	return &RuleDetector{
		name:       "compliance",
		categories: []datatypes.Category{datatypes.CategoryCompliance},
		table:      table,
	}
}

// Name implements Detector.
func (d *RuleDetector) Name() string { return d.name }

// Scan implements Detector.
//
// For every clause and every rule in the detector's categories, a
// pattern match yields at most one finding per (clause, rule) pair with
//
//	probability = base_confidence(rule) × context_multiplier(clause, rule)
//
// clamped to [0,1]. Severity is taken directly from the rule. Clauses
// without content are skipped; they produce nothing and do not abort
// the scan.
func (d *RuleDetector) Scan(ctx context.Context, contract *datatypes.Contract) ([]datatypes.Finding, error) {
	snapshot := d.table.Current()
	if snapshot == nil {
		return nil, &datatypes.DetectionError{Detector: d.name, Err: fmt.Errorf("no rule table loaded")}
	}

	ruleCount := 0
	for _, cat := range d.categories {
		ruleCount += len(snapshot.Rules(cat))
	}
	if ruleCount == 0 {
		return nil, &datatypes.DetectionError{
			Detector: d.name,
			Err:      fmt.Errorf("rule table %s has no rules for categories %v", snapshot.Source(), d.categories),
		}
	}

	var findings []datatypes.Finding
	for _, section := range contract.Sections {
		if err := ctx.Err(); err != nil {
			return nil, &datatypes.DetectionError{Detector: d.name, Err: err}
		}
		for _, clause := range section.Clauses {
			if clause.Content == "" {
				// Malformed clause: skip it, keep scanning.
				continue
			}
			for _, cat := range d.categories {
				catRules := snapshot.Rules(cat)
				for i := range catRules {
					rule := &catRules[i]
					if !rule.Compiled().MatchString(clause.Content) {
						continue
					}
					probability := datatypes.ClampProbability(
						rule.BaseConfidence * ContextMultiplier(clause.Content, rule))
					findings = append(findings, datatypes.Finding{
						ID:          findingID(d.name, contract.ID, rule.Id, section.Name, clause.Heading),
						Category:    cat,
						Level:       rule.Severity,
						Probability: probability,
						Description: rule.Description,
						Clause: datatypes.ClauseRef{
							Section: section.Name,
							Heading: clause.Heading,
						},
						Remedy:        rule.Remedy,
						Justification: rule.Justification,
					})
				}
			}
		}
	}
	return findings, nil
}
