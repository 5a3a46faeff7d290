// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package datatypes defines the immutable data model for contract
// assessments: contracts, findings, assessments, recommendations,
// legal updates, and amendments.
//
// All records in this package are value types. Once handed to the
// engine (Contract) or produced by it (Finding, Assessment) they are
// never mutated; corrections produce new records. The one exception is
// Amendment, whose status advances through the amendments tracker.
package datatypes

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// SeverityLevel classifies how serious a finding is.
//
// The ordering is total and fixed: NONE < LOW < MEDIUM < HIGH < CRITICAL.
// Use Rank for comparisons; the string values are the wire format.
type SeverityLevel string

const (
	SeverityNone     SeverityLevel = "none"
	SeverityLow      SeverityLevel = "low"
	SeverityMedium   SeverityLevel = "medium"
	SeverityHigh     SeverityLevel = "high"
	SeverityCritical SeverityLevel = "critical"
)

// severityRanks defines the documented comparison order. It is
// independent of declaration order on purpose.
var severityRanks = map[SeverityLevel]int{
	SeverityNone:     0,
	SeverityLow:      1,
	SeverityMedium:   2,
	SeverityHigh:     3,
	SeverityCritical: 4,
}

// Rank returns the position of the level in the severity ordering,
// from 0 (NONE) to 4 (CRITICAL). Unknown levels rank as 0.
func (s SeverityLevel) Rank() int {
	return severityRanks[s]
}

// Valid reports whether s is one of the five defined levels.
func (s SeverityLevel) Valid() bool {
	_, ok := severityRanks[s]
	return ok
}

// AtLeast reports whether s ranks at or above other.
func (s SeverityLevel) AtLeast(other SeverityLevel) bool {
	return s.Rank() >= other.Rank()
}

// UnmarshalYAML validates the level while decoding rule files.
func (s *SeverityLevel) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	incoming := SeverityLevel(raw)
	if !incoming.Valid() {
		return fmt.Errorf("invalid value for severity: %q", incoming)
	}
	*s = incoming
	return nil
}

// Category identifies which class of issue a finding belongs to.
type Category string

const (
	CategoryLegal       Category = "legal"
	CategoryFinancial   Category = "financial"
	CategoryOperational Category = "operational"
	CategoryBias        Category = "bias"
	CategoryCompliance  Category = "compliance"
)

// Categories lists every defined category in the engine's fixed
// detector order. Detector results are always merged in this order so
// assessment output is independent of scan scheduling.
var Categories = []Category{
	CategoryLegal,
	CategoryFinancial,
	CategoryOperational,
	CategoryBias,
	CategoryCompliance,
}

// Valid reports whether c is one of the defined categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// UnmarshalYAML validates the category while decoding rule files.
func (c *Category) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	incoming := Category(raw)
	if !incoming.Valid() {
		return fmt.Errorf("invalid value for category: %q", incoming)
	}
	*c = incoming
	return nil
}
