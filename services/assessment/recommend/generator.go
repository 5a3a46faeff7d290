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
// Package recommend turns findings into a prioritized, ordered action
// list. Every finding above NONE yields exactly one recommendation;
// the ordering contract is priority rank ascending, originating
// severity rank descending, discovery order as the stable tiebreak.
//
// Remedy prose may optionally be rewritten by a text-generation
// collaborator under a hard deadline. The collaborator is never load
// bearing: any non-success outcome keeps the rule-derived remedy and
// marks the pass degraded.
package recommend

import (
	"context"
	"fmt"
	"sort"

	"github.com/AleutianAI/ContractSentinel/pkg/logging"
	"github.com/AleutianAI/ContractSentinel/services/assessment/datatypes"
	"github.com/AleutianAI/ContractSentinel/services/llm"
)

// Generator builds recommendations from findings. A nil enricher
// disables prose enrichment entirely.
type Generator struct {
	enricher *llm.BoundedGenerator
	logger   *logging.Logger
}

func NewGenerator(enricher *llm.BoundedGenerator, logger *logging.Logger) *Generator {
	if logger == nil {
		logger = logging.Default()
	}
	return &Generator{enricher: enricher, logger: logger}
}

// priorityFor maps a finding's severity to its remediation priority.
// NONE findings are dropped before this is consulted.
func priorityFor(level datatypes.SeverityLevel) datatypes.Priority {
	if level.AtLeast(datatypes.SeverityHigh) {
		return datatypes.PriorityHigh
	}
	return datatypes.PriorityMedium
}

// Generate derives the ordered recommendation list for the given
// findings. The boolean result is true when enrichment was attempted
// and at least one attempt did not succeed, which callers surface as
// a degraded assessment.
func (g *Generator) Generate(ctx context.Context, findings []datatypes.Finding) ([]datatypes.Recommendation, bool) {
	recs := make([]datatypes.Recommendation, 0, len(findings))
	for _, f := range findings {
		if f.Level == datatypes.SeverityNone {
			continue
		}
		recs = append(recs, datatypes.Recommendation{
			Priority:       priorityFor(f.Level),
			Category:       f.Category,
			Issue:          f.Description,
			Recommendation: f.Remedy,
			Impact:         f.Justification,
			SourceLevel:    f.Level,
		})
	}

	// Stable sort preserves discovery order for full ties.
	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].Priority != recs[j].Priority {
			return recs[i].Priority.Rank() < recs[j].Priority.Rank()
		}
		return recs[i].SourceLevel.Rank() > recs[j].SourceLevel.Rank()
	})

	degraded := false
	if g.enricher != nil {
		degraded = g.enrich(ctx, recs)
	}
	return recs, degraded
}

// enrich rewrites each remedy through the collaborator, keeping the
// rule-derived text on anything but a clean success. Returns true when
// any attempt fell back.
func (g *Generator) enrich(ctx context.Context, recs []datatypes.Recommendation) bool {
	fellBack := false
	for i := range recs {
		prompt := fmt.Sprintf(
			"Contract issue (%s, priority %s): %s\nCurrent remediation: %s\nRewrite the remediation as one concrete instruction.",
			recs[i].Category, recs[i].Priority, recs[i].Issue, recs[i].Recommendation)

		out := g.enricher.Generate(ctx, prompt, llm.GenerationParams{})
		switch out.Kind {
		case llm.OutcomeSuccess:
			if out.Text != "" {
				recs[i].Recommendation = out.Text
			}
		case llm.OutcomeTimeout:
			g.logger.Warn("remedy enrichment timed out, keeping rule text", "issue", recs[i].Issue)
			fellBack = true
		default:
			g.logger.Warn("remedy enrichment failed, keeping rule text", "issue", recs[i].Issue, "reason", out.Reason)
			fellBack = true
		}
	}
	return fellBack
}
