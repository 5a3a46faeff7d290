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
	"strings"

	"github.com/AleutianAI/ContractSentinel/services/assessment/rules"
)

// mitigatedMultiplier applies when a clause contains any of the rule's
// mitigating terms. A single application regardless of how many terms
// match: qualification either exists in the clause or it doesn't.
const mitigatedMultiplier = 0.5

// ContextMultiplier is the deterministic confidence adjustment for a
// rule match within a clause.
//
// It inspects only signals declared on the rule itself: if any of the
// rule's mitigator terms is present in the clause (case-insensitive),
// the match confidence is halved; otherwise the base confidence stands.
// Repeated occurrences of the pattern or of mitigators within the same
// clause do not compound.
func ContextMultiplier(clauseContent string, rule *rules.Rule) float64 {
	if len(rule.Mitigators) == 0 {
		return 1.0
	}
	lowered := strings.ToLower(clauseContent)
	for _, term := range rule.Mitigators {
		if term == "" {
			continue
		}
		if strings.Contains(lowered, strings.ToLower(term)) {
			return mitigatedMultiplier
		}
	}
	return 1.0
}
