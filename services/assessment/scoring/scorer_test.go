// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package scoring

import (
	"testing"

	"github.com/AleutianAI/ContractSentinel/services/assessment/datatypes"
	"github.com/stretchr/testify/assert"
)

func finding(level datatypes.SeverityLevel, prob float64) datatypes.Finding {
	return datatypes.Finding{Level: level, Probability: prob}
}

func TestScore(t *testing.T) {
	tests := []struct {
		name     string
		findings []datatypes.Finding
		want     float64
	}{
		{"empty input scores zero", nil, 0},
		{"single certain critical scores 100", []datatypes.Finding{finding(datatypes.SeverityCritical, 1.0)}, 100},
		{"single certain low", []datatypes.Finding{finding(datatypes.SeverityLow, 1.0)}, 25},
		{"probability discounts weight", []datatypes.Finding{finding(datatypes.SeverityCritical, 0.5)}, 50},
		{
			"mixed severities average",
			[]datatypes.Finding{
				finding(datatypes.SeverityCritical, 1.0),
				finding(datatypes.SeverityLow, 1.0),
			},
			62.5,
		},
		{
			"out-of-range probability is clamped",
			[]datatypes.Finding{finding(datatypes.SeverityCritical, 1.7)},
			100,
		},
		{
			"none severity contributes nothing but counts in the denominator",
			[]datatypes.Finding{
				finding(datatypes.SeverityCritical, 1.0),
				finding(datatypes.SeverityNone, 1.0),
			},
			50,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Score(tt.findings), 1e-9)
		})
	}
}

func TestScore_NonEmptyNeverZero(t *testing.T) {
	score := Score([]datatypes.Finding{finding(datatypes.SeverityLow, 0.01)})
	assert.Greater(t, score, 0.0)
}

func TestLevelForScore(t *testing.T) {
	tests := []struct {
		score float64
		want  datatypes.SeverityLevel
	}{
		{0, datatypes.SeverityLow},
		{24.999, datatypes.SeverityLow},
		{25, datatypes.SeverityMedium},
		{49.999, datatypes.SeverityMedium},
		{50, datatypes.SeverityHigh},
		{74.999, datatypes.SeverityHigh},
		{75, datatypes.SeverityCritical},
		{100, datatypes.SeverityCritical},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LevelForScore(tt.score), "score %v", tt.score)
	}
}

func TestLevelForScore_BoundaryTakesHigherBucket(t *testing.T) {
	// A critical finding at probability 0.5 lands exactly on 50.
	findings := []datatypes.Finding{finding(datatypes.SeverityCritical, 0.5)}
	assert.Equal(t, datatypes.SeverityHigh, LevelForScore(Score(findings)))
}

func TestComplianceStatus(t *testing.T) {
	tests := []struct {
		name     string
		findings []datatypes.Finding
		want     datatypes.ComplianceStatus
	}{
		{"no findings is compliant", nil, datatypes.StatusCompliant},
		{
			"any critical is non-compliant",
			[]datatypes.Finding{
				finding(datatypes.SeverityLow, 1.0),
				finding(datatypes.SeverityCritical, 0.1),
			},
			datatypes.StatusNonCompliant,
		},
		{
			"findings without critical are partially compliant",
			[]datatypes.Finding{
				finding(datatypes.SeverityHigh, 1.0),
				finding(datatypes.SeverityMedium, 1.0),
			},
			datatypes.StatusPartiallyCompliant,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComplianceStatus(tt.findings))
		})
	}
}

func TestWeight(t *testing.T) {
	assert.Equal(t, 0.0, Weight(datatypes.SeverityNone))
	assert.Equal(t, 1.0, Weight(datatypes.SeverityLow))
	assert.Equal(t, 4.0, Weight(datatypes.SeverityCritical))
	assert.Equal(t, 0.0, Weight(datatypes.SeverityLevel("bogus")))
}
