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
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/AleutianAI/ContractSentinel/services/assessment/datatypes"
)

// Document-level analyses. Unlike the rule detectors these do not tie
// findings to a single clause: they look at the balance and clarity of
// the document as a whole and produce synthetic MEDIUM findings that
// enter recommendation generation alongside clause-level findings, but
// do not contribute to the aggregate score.

// partyTerms are the contract roles liability attribution recognizes.
// Fixed order keeps the analysis deterministic.
var partyTerms = []string{
	"client", "customer", "supplier", "vendor", "contractor",
	"employee", "employer", "licensee", "licensor",
	"tenant", "landlord", "buyer", "seller",
}

// obligationPatterns maps each party term to a compiled
// "<party> ... shall" matcher. Built once at package init.
var obligationPatterns = func() map[string]*regexp.Regexp {
	out := make(map[string]*regexp.Regexp, len(partyTerms))
	for _, term := range partyTerms {
		out[term] = regexp.MustCompile(`(?i)\b(?:the\s+)?` + term + `\b[^.]{0,40}?\bshall\b`)
	}
	return out
}()

// AnalyzeLiability counts "shall" obligations attributed to each
// recognized party role and reports a synthetic finding when the
// distribution is lopsided: the most burdened party carries at least
// twice the obligations of the least burdened, with a gap of three or
// more.
func AnalyzeLiability(contract *datatypes.Contract) []datatypes.Finding {
	counts := make(map[string]int)
	for _, section := range contract.Sections {
		for _, clause := range section.Clauses {
			if clause.Content == "" {
				continue
			}
			for _, term := range partyTerms {
				counts[term] += len(obligationPatterns[term].FindAllString(clause.Content, -1))
			}
		}
	}

	// Only roles that actually appear participate in the comparison.
	var present []string
	for term, n := range counts {
		if n > 0 {
			present = append(present, term)
		}
	}
	if len(present) < 2 {
		return nil
	}
	sort.Strings(present)

	maxParty, minParty := present[0], present[0]
	for _, term := range present {
		if counts[term] > counts[maxParty] {
			maxParty = term
		}
		if counts[term] < counts[minParty] {
			minParty = term
		}
	}

	maxN, minN := counts[maxParty], counts[minParty]
	if maxN < 2*minN || maxN-minN < 3 {
		return nil
	}

	return []datatypes.Finding{{
		ID:          findingID("liability", contract.ID, maxParty, minParty),
		Category:    datatypes.CategoryLegal,
		Level:       datatypes.SeverityMedium,
		Probability: 0.7,
		Description: fmt.Sprintf("Obligations are imbalanced: %q carries %d obligations against %d for %q",
			maxParty, maxN, minN, minParty),
		Remedy:        fmt.Sprintf("Rebalance obligations between %q and %q or add reciprocal protections", maxParty, minParty),
		Justification: "Potential legal disputes and unfair risk allocation",
	}}
}

// vagueTerms is the ambiguity lexicon. A clause using two or more
// distinct vague terms is counted as ambiguous.
var vagueTerms = []string{
	"reasonable", "appropriate", "timely", "promptly", "material",
	"substantially", "good faith", "satisfactory", "adequate", "as needed",
}

// ambiguityThreshold is the number of distinct vague terms that makes
// a clause count as ambiguous.
const ambiguityThreshold = 2

// DetectAmbiguities scans for clauses leaning on vague language and
// reports a single document-level synthetic finding listing them.
func DetectAmbiguities(contract *datatypes.Contract) []datatypes.Finding {
	var ambiguous []string
	for _, section := range contract.Sections {
		for _, clause := range section.Clauses {
			if clause.Content == "" {
				continue
			}
			lowered := strings.ToLower(clause.Content)
			distinct := 0
			for _, term := range vagueTerms {
				if strings.Contains(lowered, term) {
					distinct++
				}
			}
			if distinct >= ambiguityThreshold {
				ref := datatypes.ClauseRef{Section: section.Name, Heading: clause.Heading}
				ambiguous = append(ambiguous, ref.String())
			}
		}
	}
	if len(ambiguous) == 0 {
		return nil
	}

	return []datatypes.Finding{{
		ID:            findingID("ambiguity", contract.ID, strings.Join(ambiguous, ";")),
		Category:      datatypes.CategoryOperational,
		Level:         datatypes.SeverityMedium,
		Probability:   datatypes.ClampProbability(0.4 + 0.1*float64(len(ambiguous))),
		Description:   fmt.Sprintf("Ambiguous language in %d clause(s): %s", len(ambiguous), strings.Join(ambiguous, "; ")),
		Remedy:        "Replace vague terms with measurable definitions and deadlines",
		Justification: "Potential misinterpretation and disputes",
	}}
}
