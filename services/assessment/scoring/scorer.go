// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// # Description
//
// Package scoring turns a set of findings into a single aggregate risk
// score on a 0-100 scale, maps the score to a coarse risk level, and
// derives the compliance status of the contract.
//
// The score is probability-weighted severity normalized against the
// worst case: a contract whose every finding is CRITICAL at certainty
// scores exactly 100, and an empty finding set scores exactly 0. The
// two are the only ways to reach either extreme.
package scoring

import (
	"github.com/AleutianAI/ContractSentinel/services/assessment/datatypes"
)

// severityWeights assigns each actionable severity its contribution to
// the aggregate score. NONE carries no weight and is excluded from
// scoring entirely.
var severityWeights = map[datatypes.SeverityLevel]float64{
	datatypes.SeverityLow:      1,
	datatypes.SeverityMedium:   2,
	datatypes.SeverityHigh:     3,
	datatypes.SeverityCritical: 4,
}

// maxWeight is the per-finding worst case used for normalization.
const maxWeight = 4.0

// Weight returns the scoring weight of a severity level. Unknown or
// NONE levels weigh zero.
func Weight(level datatypes.SeverityLevel) float64 {
	return severityWeights[level]
}

// Score aggregates findings into a risk score in [0, 100].
//
//	score = sum(weight(f) * probability(f)) / (len(findings) * 4) * 100
//
// An empty input scores 0, and 0 is returned only for empty input:
// any finding with positive weight and probability pulls the score
// above zero. Probabilities are clamped to [0, 1] before use so a
// single out-of-range finding cannot push the score past 100.
func Score(findings []datatypes.Finding) float64 {
	if len(findings) == 0 {
		return 0
	}
	var total float64
	for _, f := range findings {
		total += Weight(f.Level) * datatypes.ClampProbability(f.Probability)
	}
	return total / (float64(len(findings)) * maxWeight) * 100
}

// LevelForScore maps an aggregate score to the coarse risk level used
// in reports. Buckets are inclusive on their lower bound, so a score
// sitting exactly on a boundary takes the higher bucket.
func LevelForScore(score float64) datatypes.SeverityLevel {
	switch {
	case score >= 75:
		return datatypes.SeverityCritical
	case score >= 50:
		return datatypes.SeverityHigh
	case score >= 25:
		return datatypes.SeverityMedium
	default:
		return datatypes.SeverityLow
	}
}

// ComplianceStatus derives the contract's compliance standing from its
// findings. Any CRITICAL finding makes the contract non-compliant
// regardless of the aggregate score; any finding at all rules out full
// compliance.
func ComplianceStatus(findings []datatypes.Finding) datatypes.ComplianceStatus {
	if len(findings) == 0 {
		return datatypes.StatusCompliant
	}
	for _, f := range findings {
		if f.Level == datatypes.SeverityCritical {
			return datatypes.StatusNonCompliant
		}
	}
	return datatypes.StatusPartiallyCompliant
}
