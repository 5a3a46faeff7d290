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
	"testing"

	"github.com/AleutianAI/ContractSentinel/services/assessment/datatypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeLiability_ImbalanceDetected(t *testing.T) {
	contract := &datatypes.Contract{
		ID: "C-L",
		Sections: []datatypes.Section{
			{Name: "Obligations", Clauses: []datatypes.Clause{
				{Heading: "Supplier Duties", Content: "The Supplier shall deliver weekly. The Supplier shall insure the goods. The Supplier shall indemnify the Client. The Supplier shall maintain records."},
				{Heading: "Client Duties", Content: "The Client shall pay invoices within 30 days."},
			}},
		},
	}

	findings := AnalyzeLiability(contract)
	require.Len(t, findings, 1)

	f := findings[0]
	assert.Equal(t, datatypes.CategoryLegal, f.Category)
	assert.Equal(t, datatypes.SeverityMedium, f.Level, "synthetic analyses default to MEDIUM")
	assert.True(t, f.Clause.IsDocumentLevel())
	assert.Contains(t, f.Description, "supplier")
	assert.Contains(t, f.Description, "client")
}

func TestAnalyzeLiability_BalancedContract(t *testing.T) {
	contract := &datatypes.Contract{
		ID: "C-B",
		Sections: []datatypes.Section{
			{Name: "Obligations", Clauses: []datatypes.Clause{
				{Heading: "Mutual", Content: "The Supplier shall deliver monthly. The Client shall pay monthly."},
			}},
		},
	}
	assert.Empty(t, AnalyzeLiability(contract))
}

func TestAnalyzeLiability_SinglePartyIsNotImbalance(t *testing.T) {
	contract := &datatypes.Contract{
		ID: "C-S",
		Sections: []datatypes.Section{
			{Name: "Obligations", Clauses: []datatypes.Clause{
				{Heading: "Duties", Content: "The Supplier shall deliver. The Supplier shall insure. The Supplier shall report."},
			}},
		},
	}
	assert.Empty(t, AnalyzeLiability(contract), "imbalance needs at least two parties present")
}

func TestDetectAmbiguities(t *testing.T) {
	contract := &datatypes.Contract{
		ID: "C-A",
		Sections: []datatypes.Section{
			{Name: "Service", Clauses: []datatypes.Clause{
				{Heading: "Performance", Content: "Provider will use reasonable efforts to respond in a timely manner."},
				{Heading: "Fees", Content: "Fees are 100 EUR per month."},
			}},
		},
	}

	findings := DetectAmbiguities(contract)
	require.Len(t, findings, 1)

	f := findings[0]
	assert.Equal(t, datatypes.CategoryOperational, f.Category)
	assert.Equal(t, datatypes.SeverityMedium, f.Level)
	assert.True(t, f.Clause.IsDocumentLevel())
	assert.Contains(t, f.Description, "Service: Performance")
	assert.NotContains(t, f.Description, "Fees")
}

func TestDetectAmbiguities_SingleVagueTermBelowThreshold(t *testing.T) {
	contract := contractWithClause("Performance", "Provider responds within a reasonable period of 5 days.")
	assert.Empty(t, DetectAmbiguities(contract))
}

func TestDocumentAnalyses_Deterministic(t *testing.T) {
	contract := &datatypes.Contract{
		ID: "C-D",
		Sections: []datatypes.Section{
			{Name: "Obligations", Clauses: []datatypes.Clause{
				{Heading: "Duties", Content: "The Vendor shall deliver. The Vendor shall insure. The Vendor shall report. The Buyer shall pay. Responses must be timely and appropriate."},
			}},
		},
	}

	assert.Equal(t, AnalyzeLiability(contract), AnalyzeLiability(contract))
	assert.Equal(t, DetectAmbiguities(contract), DetectAmbiguities(contract))
}
