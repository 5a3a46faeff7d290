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
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/AleutianAI/ContractSentinel/services/assessment/datatypes"
)

// Exit codes for CLI commands.
const (
	CLIExitSuccess  = 0 // Operation completed successfully, no findings
	CLIExitFindings = 1 // Operation completed with findings
	CLIExitError    = 2 // Operation failed
)

// stdoutIsTTY reports whether stdout is an interactive terminal.
// Piped output defaults to JSON so scripts get a stable format.
func stdoutIsTTY() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// outputResult prints data as indented JSON on stdout.
func outputResult(data interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// printAssessmentText renders a human-readable assessment report.
func printAssessmentText(a *datatypes.Assessment) {
	fmt.Printf("Contract: %s\n", a.ContractID)
	fmt.Printf("Score:    %.1f/100 (%s)\n", a.Score, a.Level)
	fmt.Printf("Status:   %s\n", a.ComplianceStatus)
	if a.Degraded {
		fmt.Printf("Degraded: yes (failed: %s)\n", strings.Join(a.FailedDetectors, ", "))
	}

	if len(a.Findings) > 0 {
		fmt.Printf("\nFindings (%d):\n", len(a.Findings))
		for _, f := range a.Findings {
			fmt.Printf("  [%s] %s: %s (p=%.2f, %s)\n",
				strings.ToUpper(string(f.Level)), f.Category, f.Description, f.Probability, f.Clause.String())
		}
	}

	if len(a.Recommendations) > 0 {
		fmt.Printf("\nRecommendations (%d):\n", len(a.Recommendations))
		for i, r := range a.Recommendations {
			fmt.Printf("  %d. [%s] %s\n     %s\n", i+1, r.Priority, r.Issue, r.Recommendation)
		}
	}
}

// fail prints an error to stderr and exits with the error code.
func fail(format string, args ...interface{}) {
	if !quietOutput {
		fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	}
	os.Exit(CLIExitError)
}
