// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package rules holds the engine's detection rule table.
//
// The table is loaded once at process start, either from the YAML
// embedded in the binary or from an operator-supplied file, and is
// read-only for the rest of its life. Updates replace the whole table
// atomically (swap, not in-place edit), so no assessment ever observes
// a half-updated table. This makes the table safe to share across
// concurrent assessments without locking on the read path.
package rules

import (
	"fmt"
	"os"
	"sync/atomic"

	"github.com/AleutianAI/ContractSentinel/services/assessment/datatypes"
	"github.com/AleutianAI/ContractSentinel/services/assessment/rules/embedded"
	"gopkg.in/yaml.v3"
)

// Table is one immutable, fully compiled rule set.
//
// Construct via ParseTable (or the Load helpers); never modify a
// Table after construction.
type Table struct {
	version    int
	source     string
	byCategory map[datatypes.Category][]Rule
}

// ParseTable decodes and compiles a YAML rule document.
//
// It performs the full set of load-time checks: YAML shape, severity
// and category enum validation (via the datatypes unmarshalers), and
// regex compilation. A document that fails any check yields no Table.
func ParseTable(data []byte, source string) (*Table, error) {
	var file ruleFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to unmarshal rule table %s: %w", source, err)
	}
	if len(file.Categories) == 0 {
		return nil, fmt.Errorf("rule table %s contains no categories", source)
	}
	if err := file.compileRules(); err != nil {
		return nil, fmt.Errorf("failed to compile rule table %s: %w", source, err)
	}

	byCategory := make(map[datatypes.Category][]Rule, len(file.Categories))
	for _, cat := range file.Categories {
		byCategory[cat.Category] = append(byCategory[cat.Category], cat.Rules...)
	}

	return &Table{
		version:    file.Version,
		source:     source,
		byCategory: byCategory,
	}, nil
}

// LoadEmbedded builds a Table from the rule file baked into the binary.
func LoadEmbedded() (*Table, error) {
	return ParseTable(embedded.ContractRiskPatterns, "embedded")
}

// LoadFile builds a Table from an operator-supplied YAML file.
func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rule table %s: %w", path, err)
	}
	return ParseTable(data, path)
}

// Version returns the version declared in the rule file.
func (t *Table) Version() int { return t.version }

// Source names where the table was loaded from ("embedded" or a path).
func (t *Table) Source() string { return t.source }

// Rules returns the rule slice for one category. The returned slice
// must be treated as read-only. A category with no rules returns nil.
func (t *Table) Rules(c datatypes.Category) []Rule {
	return t.byCategory[c]
}

// RuleCount returns the total number of rules across all categories.
func (t *Table) RuleCount() int {
	n := 0
	for _, rs := range t.byCategory {
		n += len(rs)
	}
	return n
}

// RuleTable is the process-wide handle detectors read through.
//
// The current Table is held behind an atomic pointer: readers take a
// snapshot with Current() and keep using that snapshot for the whole
// assessment, while Swap installs a replacement for future assessments.
type RuleTable struct {
	current atomic.Pointer[Table]
}

// NewRuleTable wraps an initial table in a swappable handle.
func NewRuleTable(initial *Table) *RuleTable {
	rt := &RuleTable{}
	rt.current.Store(initial)
	return rt
}

// Current returns the active table snapshot.
func (rt *RuleTable) Current() *Table {
	return rt.current.Load()
}

// Swap atomically installs a replacement table. In-flight assessments
// keep the snapshot they started with.
func (rt *RuleTable) Swap(t *Table) {
	rt.current.Store(t)
}
