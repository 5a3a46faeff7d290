// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"
	"gopkg.in/yaml.v3"

	"github.com/AleutianAI/ContractSentinel/services/assessment"
	"github.com/AleutianAI/ContractSentinel/services/assessment/datatypes"
	"github.com/AleutianAI/ContractSentinel/services/assessment/recommend"
	"github.com/AleutianAI/ContractSentinel/services/assessment/rules"
	"github.com/AleutianAI/ContractSentinel/services/llm"
	"github.com/AleutianAI/ContractSentinel/services/store"
)

// loadRuleTable builds the live rule table from --rules or the
// embedded defaults.
func loadRuleTable() (*rules.RuleTable, error) {
	var (
		table *rules.Table
		err   error
	)
	if rulesPath != "" {
		table, err = rules.LoadFile(rulesPath)
	} else {
		table, err = rules.LoadEmbedded()
	}
	if err != nil {
		return nil, err
	}
	return rules.NewRuleTable(table), nil
}

// newRecommender wires the optional LLM enrichment behind --enrich.
func newRecommender() *recommend.Generator {
	if !enrichRemedy {
		return nil
	}
	client, err := llm.NewOpenAIClient()
	if err != nil {
		fail("--enrich requires an OpenAI configuration: %v", err)
	}
	limiter := rate.NewLimiter(rate.Every(time.Second), 2)
	return recommend.NewGenerator(llm.NewBoundedGenerator(client, 10*time.Second, limiter), nil)
}

func runAssess(cmd *cobra.Command, args []string) {
	contractFile := args[0]

	data, err := os.ReadFile(contractFile)
	if err != nil {
		fail("reading contract file: %v", err)
	}
	var contract datatypes.Contract
	if err := yaml.Unmarshal(data, &contract); err != nil {
		fail("parsing contract file: %v", err)
	}

	var updates []datatypes.LegalUpdate
	if updatesPath != "" {
		raw, err := os.ReadFile(updatesPath)
		if err != nil {
			fail("reading updates file: %v", err)
		}
		if err := yaml.Unmarshal(raw, &updates); err != nil {
			fail("parsing updates file: %v", err)
		}
	}

	table, err := loadRuleTable()
	if err != nil {
		fail("loading rules: %v", err)
	}

	cfg := assessment.Config{
		Table:       table,
		Recommender: newRecommender(),
	}
	if storePath != "" {
		s, err := store.OpenBadger(store.DefaultConfig(storePath))
		if err != nil {
			fail("opening history store: %v", err)
		}
		defer s.Close()
		cfg.Store = s
	}

	engine, err := assessment.NewEngine(cfg)
	if err != nil {
		fail("building engine: %v", err)
	}

	a, err := engine.Assess(context.Background(), &contract, updates)
	if err != nil {
		fail("assessment failed: %v", err)
	}

	if !quietOutput {
		if outputJSON || !stdoutIsTTY() {
			if err := outputResult(a); err != nil {
				fail("encoding output: %v", err)
			}
		} else {
			printAssessmentText(a)
		}
	}

	if len(a.Findings) > 0 {
		os.Exit(CLIExitFindings)
	}
}
