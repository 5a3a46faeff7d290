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
	"io"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/ContractSentinel/services/assessment/datatypes"
)

func runAmendmentsStatus(cmd *cobra.Command, args []string) {
	contractID := args[0]
	url := fmt.Sprintf("%s/v1/amendments/status/%s", serverAddr, contractID)

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		fail("contacting server: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		fail("reading response: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		fail("server returned %s: %s", resp.Status, string(body))
	}

	var summary datatypes.AmendmentStatusSummary
	if err := json.Unmarshal(body, &summary); err != nil {
		fail("parsing response: %v", err)
	}

	if quietOutput {
		return
	}
	if outputJSON || !stdoutIsTTY() {
		if err := outputResult(summary); err != nil {
			fail("encoding output: %v", err)
		}
		return
	}

	fmt.Printf("Contract: %s\n", summary.ContractID)
	fmt.Printf("Amendments: %d total\n", summary.TotalAmendments)
	fmt.Printf("  proposed:    %d\n", summary.Proposed)
	fmt.Printf("  approved:    %d\n", summary.Approved)
	fmt.Printf("  implemented: %d\n", summary.Implemented)
	if !summary.LatestUpdate.IsZero() {
		fmt.Printf("Last change: %s\n", summary.LatestUpdate.Format(time.RFC3339))
	}
}
