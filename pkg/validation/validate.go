// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package validation checks ingress payloads before they reach the
// engine. All failures are reported as ValidationError so callers can
// map them to a 4xx response without inspecting message text.
package validation

import (
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/AleutianAI/ContractSentinel/services/assessment/datatypes"
)

// validate is the shared validator instance. It caches struct
// metadata, so one instance serves all goroutines.
var validate = validator.New(validator.WithRequiredStructEnabled())

// Contract checks a contract payload for structural problems: missing
// ID, missing or empty sections, sections without names.
func Contract(c *datatypes.Contract) error {
	if c == nil {
		return &datatypes.ValidationError{Field: "contract", Reason: "must not be nil"}
	}
	if strings.TrimSpace(c.ID) == "" {
		return &datatypes.ValidationError{Field: "id", Reason: "must not be empty"}
	}
	if len(c.Sections) == 0 {
		return &datatypes.ValidationError{Field: "sections", Reason: "must contain at least one section"}
	}
	for i, s := range c.Sections {
		if strings.TrimSpace(s.Name) == "" {
			return &datatypes.ValidationError{Field: "sections", Reason: "section " + strconv.Itoa(i) + " has no name"}
		}
	}
	if err := validate.Struct(c); err != nil {
		return asValidationError(err)
	}
	return nil
}

// LegalUpdate checks a legal-update payload against its declared
// constraints (required fields, category and impact enumerations,
// non-empty affected areas).
func LegalUpdate(u *datatypes.LegalUpdate) error {
	if u == nil {
		return &datatypes.ValidationError{Field: "legal_update", Reason: "must not be nil"}
	}
	if err := validate.Struct(u); err != nil {
		return asValidationError(err)
	}
	return nil
}

// LegalUpdates validates a batch, failing on the first bad entry.
func LegalUpdates(updates []datatypes.LegalUpdate) error {
	for i := range updates {
		if err := LegalUpdate(&updates[i]); err != nil {
			return err
		}
	}
	return nil
}

// asValidationError converts a validator.ValidationErrors into the
// engine's error taxonomy, keeping the first offending field.
func asValidationError(err error) error {
	if fieldErrs, ok := err.(validator.ValidationErrors); ok && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &datatypes.ValidationError{
			Field:  strings.ToLower(fe.Field()),
			Reason: "failed " + fe.Tag() + " constraint",
		}
	}
	return &datatypes.ValidationError{Field: "payload", Reason: err.Error()}
}
