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
	"github.com/spf13/cobra"
)

// --- Global Command Variables ---
var (
	rulesPath     string // optional rule file overriding the embedded defaults
	updatesPath   string // optional legal updates YAML applied during assess
	storePath     string // badger directory for assessment history
	serverAddr    string // listen address for serve, target address for amendments
	citationsAddr string // weaviate host for citation backfill
	outputJSON    bool   // force JSON output even on a TTY
	quietOutput   bool   // suppress output, exit code only
	enrichRemedy  bool   // enable LLM remedy enrichment

	rootCmd = &cobra.Command{
		Use:   "sentinel",
		Short: "A cli to assess contracts for legal, financial, and compliance risk",
		Long: `Sentinel scans contracts against a rule table, scores the
				findings, and produces prioritized remediation recommendations,
				including amendments driven by external legal updates.`,
	}

	// --- Assessment ---
	assessCmd = &cobra.Command{
		Use:   "assess [contract.yaml]",
		Short: "Assess a contract file and print findings and recommendations",
		Args:  cobra.ExactArgs(1),
		Run:   runAssess, // Defined in cmd_assess.go
	}

	// --- Server ---
	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Run the assessment HTTP API",
		Run:   runServe, // Defined in cmd_serve.go
	}

	// --- Rules ---
	rulesCmd = &cobra.Command{
		Use:   "rules",
		Short: "Inspect and validate detection rule files",
	}
	rulesValidateCmd = &cobra.Command{
		Use:   "validate [rules.yaml]",
		Short: "Parse a rule file and report its contents without loading it",
		Args:  cobra.MaximumNArgs(1),
		Run:   runRulesValidate, // Defined in cmd_rules.go
	}

	// --- Amendments ---
	amendmentsCmd = &cobra.Command{
		Use:   "amendments",
		Short: "Query the amendment lifecycle on a running server",
	}
	amendmentsStatusCmd = &cobra.Command{
		Use:   "status [contract_id]",
		Short: "Show amendment counts by status for a contract",
		Args:  cobra.ExactArgs(1),
		Run:   runAmendmentsStatus, // Defined in cmd_amendments.go
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "Output results as JSON")
	rootCmd.PersistentFlags().BoolVarP(&quietOutput, "quiet", "q", false, "Suppress output; use exit codes only")

	assessCmd.Flags().StringVar(&rulesPath, "rules", "", "Rule file overriding the embedded defaults")
	assessCmd.Flags().StringVar(&updatesPath, "updates", "", "Legal updates YAML to apply during assessment")
	assessCmd.Flags().StringVar(&storePath, "store", "", "Badger directory for assessment history (off when empty)")
	assessCmd.Flags().BoolVar(&enrichRemedy, "enrich", false, "Enrich remedy text via the configured LLM")

	serveCmd.Flags().StringVar(&rulesPath, "rules", "", "Rule file overriding the embedded defaults (hot reloaded)")
	serveCmd.Flags().StringVar(&storePath, "store", "", "Badger directory for assessment history (off when empty)")
	serveCmd.Flags().StringVar(&serverAddr, "addr", ":8085", "Listen address")
	serveCmd.Flags().StringVar(&citationsAddr, "citations-addr", "", "Weaviate host for citation backfill, e.g. localhost:8080 (off when empty)")
	serveCmd.Flags().BoolVar(&enrichRemedy, "enrich", false, "Enrich remedy text via the configured LLM")

	amendmentsStatusCmd.Flags().StringVar(&serverAddr, "addr", "http://localhost:8085", "Server base URL")

	rulesCmd.AddCommand(rulesValidateCmd)
	amendmentsCmd.AddCommand(amendmentsStatusCmd)

	rootCmd.AddCommand(assessCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(amendmentsCmd)
}
