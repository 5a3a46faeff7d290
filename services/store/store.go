// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package store persists the append-only assessment history per
// contract. The engine treats writes as fire-and-forget: a store
// failure is logged and never alters the in-memory assessment result.
package store

import (
	"context"

	"github.com/AleutianAI/ContractSentinel/services/assessment/datatypes"
)

// Store is the persistence contract for assessment history.
//
// Append adds one assessment to the contract's history; History
// returns the full history in append order, oldest first. A contract
// with no history yields an empty slice, not an error.
type Store interface {
	Append(ctx context.Context, contractID string, a *datatypes.Assessment) error
	History(ctx context.Context, contractID string) ([]datatypes.Assessment, error)
	Close() error
}

const (
	TrendImproving           = "improving"
	TrendWorsening           = "worsening"
	TrendSteady              = "steady"
	TrendInsufficientHistory = "insufficient_history"
)

// Trend compares the two most recent assessments of a contract. Delta
// is latest score minus previous score; lower scores are better, so a
// negative delta is an improvement.
type Trend struct {
	Direction string  `json:"direction"`
	Delta     float64 `json:"delta"`
}

// TrendOf derives the trend from a history slice in append order.
func TrendOf(history []datatypes.Assessment) Trend {
	if len(history) < 2 {
		return Trend{Direction: TrendInsufficientHistory}
	}
	latest := history[len(history)-1].Score
	previous := history[len(history)-2].Score
	t := Trend{Delta: latest - previous}
	switch {
	case t.Delta < 0:
		t.Direction = TrendImproving
	case t.Delta > 0:
		t.Direction = TrendWorsening
	default:
		t.Direction = TrendSteady
	}
	return t
}
