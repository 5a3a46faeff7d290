// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package detectors implements the engine's category scanners.
//
// Every detector walks each clause in each section of a contract and
// tests clause content against its slice of the rule table. Detectors
// are mutually independent: none reads another's output, so the engine
// may run them in parallel and merge results in fixed detector order.
//
// Failure isolation is part of the contract. A malformed clause (no
// content) is skipped without aborting the scan; a detector that
// cannot complete at all returns a DetectionError instead of findings
// and the engine records the failure without blocking the assessment.
package detectors

import (
	"context"
	"strings"

	"github.com/AleutianAI/ContractSentinel/services/assessment/datatypes"
	"github.com/google/uuid"
)

// Detector is the common scanning capability.
type Detector interface {
	// Name identifies the detector in logs and failed_detectors.
	Name() string

	// Scan walks the contract and returns findings in discovery order.
	// Scanning the same contract snapshot against the same rule table
	// must yield byte-identical results on every call.
	Scan(ctx context.Context, contract *datatypes.Contract) ([]datatypes.Finding, error)
}

// findingID derives a deterministic identifier from the finding's
// coordinates. Repeated scans of the same snapshot must produce
// byte-identical finding sequences, so IDs cannot be random.
func findingID(parts ...string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(strings.Join(parts, "\x1f"))).String()
}
