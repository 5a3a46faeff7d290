// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package validation

import (
	"testing"
	"time"

	"github.com/AleutianAI/ContractSentinel/services/assessment/datatypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validContract() *datatypes.Contract {
	return &datatypes.Contract{
		ID: "C-1",
		Sections: []datatypes.Section{
			{Name: "Liability", Clauses: []datatypes.Clause{
				{Heading: "Indemnity", Content: "Each party shall indemnify the other."},
			}},
		},
	}
}

func validUpdate() *datatypes.LegalUpdate {
	return &datatypes.LegalUpdate{
		UpdateID:      "LU-1",
		Jurisdiction:  "EU",
		Category:      "regulation",
		Title:         "Data transfer rules",
		EffectiveDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		ImpactLevel:   datatypes.ImpactHigh,
		AffectedAreas: []string{"data protection"},
	}
}

func TestContract_Valid(t *testing.T) {
	assert.NoError(t, Contract(validContract()))
}

func TestContract_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*datatypes.Contract)
	}{
		{"nil sections", func(c *datatypes.Contract) { c.Sections = nil }},
		{"empty id", func(c *datatypes.Contract) { c.ID = "  " }},
		{"unnamed section", func(c *datatypes.Contract) { c.Sections[0].Name = "" }},
		{"section without clauses", func(c *datatypes.Contract) { c.Sections[0].Clauses = nil }},
		{"clause without heading", func(c *datatypes.Contract) { c.Sections[0].Clauses[0].Heading = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validContract()
			tt.mutate(c)
			err := Contract(c)
			require.Error(t, err)
			assert.ErrorIs(t, err, datatypes.ErrValidation)
		})
	}
}

func TestContract_Nil(t *testing.T) {
	assert.ErrorIs(t, Contract(nil), datatypes.ErrValidation)
}

func TestLegalUpdate_Valid(t *testing.T) {
	assert.NoError(t, LegalUpdate(validUpdate()))
}

func TestLegalUpdate_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*datatypes.LegalUpdate)
	}{
		{"missing jurisdiction", func(u *datatypes.LegalUpdate) { u.Jurisdiction = "" }},
		{"unknown category", func(u *datatypes.LegalUpdate) { u.Category = "rumor" }},
		{"missing title", func(u *datatypes.LegalUpdate) { u.Title = "" }},
		{"unknown impact level", func(u *datatypes.LegalUpdate) { u.ImpactLevel = "catastrophic" }},
		{"no affected areas", func(u *datatypes.LegalUpdate) { u.AffectedAreas = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := validUpdate()
			tt.mutate(u)
			err := LegalUpdate(u)
			require.Error(t, err)
			assert.ErrorIs(t, err, datatypes.ErrValidation)
		})
	}
}

func TestLegalUpdates_Batch(t *testing.T) {
	good := validUpdate()
	bad := validUpdate()
	bad.Category = "rumor"

	assert.NoError(t, LegalUpdates([]datatypes.LegalUpdate{*good}))
	assert.ErrorIs(t, LegalUpdates([]datatypes.LegalUpdate{*good, *bad}), datatypes.ErrValidation)
	assert.NoError(t, LegalUpdates(nil))
}
