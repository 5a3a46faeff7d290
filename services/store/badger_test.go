// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package store

import (
	"context"
	"testing"
	"time"

	"github.com/AleutianAI/ContractSentinel/services/assessment/datatypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *BadgerStore {
	t.Helper()
	s, err := OpenBadger(InMemoryConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func assessment(contractID string, score float64) *datatypes.Assessment {
	return &datatypes.Assessment{
		ContractID: contractID,
		Timestamp:  time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		Score:      score,
		Level:      datatypes.SeverityLow,
	}
}

func TestBadgerStore_AppendAndHistory(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, "C-1", assessment("C-1", 10)))
	require.NoError(t, s.Append(ctx, "C-1", assessment("C-1", 40)))
	require.NoError(t, s.Append(ctx, "C-2", assessment("C-2", 99)))

	history, err := s.History(ctx, "C-1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, 10.0, history[0].Score, "history is ordered oldest first")
	assert.Equal(t, 40.0, history[1].Score)

	other, err := s.History(ctx, "C-2")
	require.NoError(t, err)
	require.Len(t, other, 1)
	assert.Equal(t, 99.0, other[0].Score)
}

func TestBadgerStore_HistoryEmptyForUnknownContract(t *testing.T) {
	s := openTestStore(t)

	history, err := s.History(context.Background(), "never-seen")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestBadgerStore_Latest(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, ok, err := s.Latest(ctx, "C-1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Append(ctx, "C-1", assessment("C-1", 10)))
	require.NoError(t, s.Append(ctx, "C-1", assessment("C-1", 75)))

	latest, ok, err := s.Latest(ctx, "C-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 75.0, latest.Score)
}

func TestBadgerStore_AppendValidation(t *testing.T) {
	s := openTestStore(t)

	err := s.Append(context.Background(), "", assessment("", 1))
	assert.ErrorIs(t, err, datatypes.ErrValidation)
}

func TestBadgerStore_CancelledContext(t *testing.T) {
	s := openTestStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Append(ctx, "C-1", assessment("C-1", 1))
	assert.ErrorIs(t, err, datatypes.ErrExternalService)

	_, err = s.History(ctx, "C-1")
	assert.ErrorIs(t, err, datatypes.ErrExternalService)
}

func TestBadgerStore_RoundTripPreservesAssessment(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	in := &datatypes.Assessment{
		ContractID: "C-1",
		Timestamp:  time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC),
		Findings: []datatypes.Finding{{
			ID:          "f-1",
			Category:    datatypes.CategoryFinancial,
			Level:       datatypes.SeverityCritical,
			Probability: 1.0,
			Description: "unlimited liability",
		}},
		CategoryBreakdown: map[datatypes.Category][]string{
			datatypes.CategoryFinancial: {"f-1"},
		},
		Score:            100,
		Level:            datatypes.SeverityCritical,
		ComplianceStatus: datatypes.StatusCompliant,
		Degraded:         true,
		FailedDetectors:  []string{"bias_detector"},
	}
	require.NoError(t, s.Append(ctx, "C-1", in))

	history, err := s.History(ctx, "C-1")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, *in, history[0])
}

func TestBadgerStore_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig(dir)
	cfg.GCInterval = 0

	s, err := OpenBadger(cfg)
	require.NoError(t, err)
	require.NoError(t, s.Append(context.Background(), "C-1", assessment("C-1", 42)))
	require.NoError(t, s.Close())

	s, err = OpenBadger(cfg)
	require.NoError(t, err)
	defer s.Close()

	history, err := s.History(context.Background(), "C-1")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, 42.0, history[0].Score)
}

func TestTrendOf(t *testing.T) {
	tests := []struct {
		name      string
		scores    []float64
		direction string
		delta     float64
	}{
		{"empty", nil, TrendInsufficientHistory, 0},
		{"single", []float64{50}, TrendInsufficientHistory, 0},
		{"improving", []float64{80, 30}, TrendImproving, -50},
		{"worsening", []float64{10, 35}, TrendWorsening, 25},
		{"steady", []float64{25, 25}, TrendSteady, 0},
		{"only last two matter", []float64{90, 10, 60}, TrendWorsening, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var history []datatypes.Assessment
			for _, score := range tt.scores {
				history = append(history, *assessment("C-1", score))
			}
			trend := TrendOf(history)
			assert.Equal(t, tt.direction, trend.Direction)
			assert.Equal(t, tt.delta, trend.Delta)
		})
	}
}
