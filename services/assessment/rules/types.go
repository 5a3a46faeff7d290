// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package rules

import (
	"fmt"
	"regexp"

	"github.com/AleutianAI/ContractSentinel/services/assessment/datatypes"
)

// Rule is one detection pattern. Rules never mutate at runtime;
// updating rules means replacing the whole table (see Table.Swap).
type Rule struct {
	// Id names the rule for findings and audit, e.g. "UNLIMITED_LIABILITY".
	Id string `yaml:"id"`

	// Pattern is a regular expression tested against clause content.
	// Compiled once at load time.
	Pattern string `yaml:"pattern"`

	// Severity is copied directly onto findings produced by this rule.
	Severity datatypes.SeverityLevel `yaml:"severity"`

	// BaseConfidence is the probability assigned to a match before the
	// context multiplier is applied. Defaults to 0.8 when omitted.
	BaseConfidence float64 `yaml:"base_confidence"`

	// Description explains the issue in finding text.
	Description string `yaml:"description"`

	// Remedy is the suggested mitigation, used verbatim when the
	// text-generation collaborator is unavailable.
	Remedy string `yaml:"remedy"`

	// Justification is the impact or citation text. When empty, the
	// engine may fill it from the reference retriever.
	Justification string `yaml:"justification"`

	// Mitigators are qualifying terms whose presence in a clause
	// halves the match confidence ("except", "capped at", ...).
	Mitigators []string `yaml:"mitigators"`

	compiled *regexp.Regexp `yaml:"-"`
}

// Compiled returns the compiled pattern. Nil until CompileRules runs.
func (r *Rule) Compiled() *regexp.Regexp { return r.compiled }

// CategoryRules groups the rules of one finding category.
type CategoryRules struct {
	Category datatypes.Category `yaml:"category"`
	Rules    []Rule             `yaml:"rules"`
}

// ruleFile is the on-disk (and embedded) YAML document shape.
type ruleFile struct {
	Version    int             `yaml:"version"`
	Categories []CategoryRules `yaml:"categories"`
}

// compileRules compiles every pattern and applies defaults. Returns an
// error naming the first rule whose pattern does not compile.
func (f *ruleFile) compileRules() error {
	for i := range f.Categories {
		for j := range f.Categories[i].Rules {
			rule := &f.Categories[i].Rules[j]
			re, err := regexp.Compile(rule.Pattern)
			if err != nil {
				return fmt.Errorf("failed to compile the pattern for rule %s: %w", rule.Id, err)
			}
			rule.compiled = re
			if rule.BaseConfidence == 0 {
				rule.BaseConfidence = defaultBaseConfidence
			}
			rule.BaseConfidence = datatypes.ClampProbability(rule.BaseConfidence)
		}
	}
	return nil
}

// defaultBaseConfidence applies when a rule omits base_confidence.
const defaultBaseConfidence = 0.8
