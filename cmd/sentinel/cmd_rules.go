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
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/ContractSentinel/services/assessment/datatypes"
	"github.com/AleutianAI/ContractSentinel/services/assessment/rules"
)

func runRulesValidate(cmd *cobra.Command, args []string) {
	var (
		table *rules.Table
		err   error
	)
	if len(args) == 1 {
		table, err = rules.LoadFile(args[0])
	} else {
		table, err = rules.LoadEmbedded()
	}
	if err != nil {
		fail("rule file is invalid: %v", err)
	}

	if quietOutput {
		return
	}

	if outputJSON || !stdoutIsTTY() {
		counts := make(map[datatypes.Category]int, len(datatypes.Categories))
		for _, c := range datatypes.Categories {
			counts[c] = len(table.Rules(c))
		}
		if err := outputResult(map[string]interface{}{
			"source":      table.Source(),
			"version":     table.Version(),
			"rules":       table.RuleCount(),
			"by_category": counts,
		}); err != nil {
			fail("encoding output: %v", err)
		}
		return
	}

	fmt.Printf("Rule file: %s (version %d)\n", table.Source(), table.Version())
	fmt.Printf("Rules:     %d\n", table.RuleCount())
	for _, c := range datatypes.Categories {
		fmt.Printf("  %-12s %d\n", c, len(table.Rules(c)))
	}
}
