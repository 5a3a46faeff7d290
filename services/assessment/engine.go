// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package assessment wires detectors, scoring, recommendation
// generation, and the amendment lifecycle into one engine.
//
// One call to Assess processes one immutable contract snapshot to
// completion through a fixed sequence of states:
//
//	collecting → scanning → scoring → recommending → done | failed
//
// Detector scans fan out in parallel but merge in a fixed order, so
// output never depends on scheduling. A detector failure is isolated:
// the run continues degraded with the detector listed in the failure
// list. Only a scoring or recommending failure aborts the run, and an
// aborted run returns no partial assessment.
package assessment

import (
	"context"
	"fmt"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/AleutianAI/ContractSentinel/pkg/logging"
	"github.com/AleutianAI/ContractSentinel/pkg/validation"
	"github.com/AleutianAI/ContractSentinel/services/assessment/amendments"
	"github.com/AleutianAI/ContractSentinel/services/assessment/datatypes"
	"github.com/AleutianAI/ContractSentinel/services/assessment/detectors"
	"github.com/AleutianAI/ContractSentinel/services/assessment/observability"
	"github.com/AleutianAI/ContractSentinel/services/assessment/recommend"
	"github.com/AleutianAI/ContractSentinel/services/assessment/rules"
	"github.com/AleutianAI/ContractSentinel/services/assessment/scoring"
	"github.com/AleutianAI/ContractSentinel/services/retriever"
	"github.com/AleutianAI/ContractSentinel/services/store"
)

// State is one step of the engine's per-run state machine.
type State string

const (
	StateCollecting   State = "collecting"
	StateScanning     State = "scanning"
	StateScoring      State = "scoring"
	StateRecommending State = "recommending"
	StateDone         State = "done"
	StateFailed       State = "failed"
)

// Config assembles an Engine. Table is required; everything else has
// a working default or is optional.
type Config struct {
	// Table is the shared rule table handle. Read-only during scans;
	// hot reloads swap the snapshot between runs.
	Table *rules.RuleTable

	// Recommender builds the ordered action list. Defaults to a
	// generator without prose enrichment.
	Recommender *recommend.Generator

	// Tracker owns the amendment lifecycle. Defaults to a fresh
	// in-memory tracker.
	Tracker *amendments.Tracker

	// Store receives fire-and-forget history writes. Optional.
	Store store.Store

	// Citations fills empty finding justifications. Optional.
	Citations retriever.Retriever

	// Metrics records run outcomes. Optional.
	Metrics *observability.EngineMetrics

	Logger *logging.Logger
}

// Engine runs assessments. Safe for concurrent use: per-run state
// lives on the stack, and the shared rule table is read-only.
type Engine struct {
	table       *rules.RuleTable
	recommender *recommend.Generator
	tracker     *amendments.Tracker
	store       store.Store
	citations   retriever.Retriever
	metrics     *observability.EngineMetrics
	logger      *logging.Logger
	now         func() time.Time
}

func NewEngine(cfg Config) (*Engine, error) {
	if cfg.Table == nil {
		return nil, fmt.Errorf("assessment: rule table is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	recommender := cfg.Recommender
	if recommender == nil {
		recommender = recommend.NewGenerator(nil, logger)
	}
	tracker := cfg.Tracker
	if tracker == nil {
		tracker = amendments.NewTracker(logger)
	}
	return &Engine{
		table:       cfg.Table,
		recommender: recommender,
		tracker:     tracker,
		store:       cfg.Store,
		citations:   cfg.Citations,
		metrics:     cfg.Metrics,
		logger:      logger,
		now:         time.Now,
	}, nil
}

// Tracker exposes the amendment lifecycle owned by this engine.
func (e *Engine) Tracker() *amendments.Tracker { return e.tracker }

// Store exposes the history store, or nil when persistence is off.
func (e *Engine) Store() store.Store { return e.store }

// Rules exposes the live rule table handle.
func (e *Engine) Rules() *rules.RuleTable { return e.table }

// Assess runs one full engine pass over a contract snapshot,
// optionally applying pending legal updates through the legal-change
// detector. The returned assessment is immutable; repeated calls with
// the same snapshot and rule table produce identical findings and
// scores.
func (e *Engine) Assess(ctx context.Context, contract *datatypes.Contract, updates []datatypes.LegalUpdate) (*datatypes.Assessment, error) {
	started := e.now()
	state := e.transition("", StateCollecting, "")

	if err := validation.Contract(contract); err != nil {
		return nil, err
	}
	if err := validation.LegalUpdates(updates); err != nil {
		return nil, err
	}

	// Scanning: fan out, merge by fixed detector slot so completion
	// order never shows in the output.
	state = e.transition(state, StateScanning, contract.ID)

	legalChange := detectors.NewLegalChangeDetector(updates)
	dets := []detectors.Detector{
		detectors.NewRiskDetector(e.table),
		detectors.NewBiasDetector(e.table),
		detectors.NewComplianceDetector(e.table),
		legalChange,
	}

	type scanResult struct {
		findings []datatypes.Finding
		err      error
	}
	results := make([]scanResult, len(dets))

	g, gctx := errgroup.WithContext(ctx)
	for i, d := range dets {
		g.Go(func() error {
			results[i].findings, results[i].err = d.Scan(gctx, contract)
			return nil
		})
	}
	// Goroutines report through their slot, never through the group.
	_ = g.Wait()

	var (
		findings        []datatypes.Finding
		failedDetectors []string
		degraded        bool
	)
	for i, d := range dets {
		if results[i].err != nil {
			e.logger.Warn("detector failed, continuing degraded",
				"detector", d.Name(), "contract_id", contract.ID, "error", results[i].err)
			failedDetectors = append(failedDetectors, d.Name())
			degraded = true
			if e.metrics != nil {
				e.metrics.RecordDetectorFailure(d.Name())
			}
			continue
		}
		for _, f := range results[i].findings {
			if e.metrics != nil {
				e.metrics.RecordFinding(d.Name(), string(f.Level))
			}
			findings = append(findings, f)
		}
	}

	if e.fillCitations(ctx, contract, findings) {
		degraded = true
	}

	// Scoring.
	state = e.transition(state, StateScoring, contract.ID)

	score := scoring.Score(findings)
	if math.IsNaN(score) || score < 0 || score > 100 {
		e.transition(state, StateFailed, contract.ID)
		e.recordRun("failed", 0, started)
		return nil, &datatypes.AggregationError{
			Stage: "scoring",
			Err:   fmt.Errorf("score %v out of range", score),
		}
	}
	level := scoring.LevelForScore(score)
	compliance := scoring.ComplianceStatus(findingsInCategory(findings, datatypes.CategoryCompliance))

	// Recommending: document-level analyses join the detector findings
	// here, not in scoring.
	state = e.transition(state, StateRecommending, contract.ID)

	recInput := make([]datatypes.Finding, 0, len(findings)+2)
	recInput = append(recInput, findings...)
	recInput = append(recInput, detectors.AnalyzeLiability(contract)...)
	recInput = append(recInput, detectors.DetectAmbiguities(contract)...)

	recs, fellBack := e.recommender.Generate(ctx, recInput)
	if fellBack {
		degraded = true
		if e.metrics != nil {
			e.metrics.RecordEnrichmentFallback()
		}
	}

	// Register amendment drafts produced by the legal-change scan.
	for _, draft := range legalChange.Drafts() {
		if _, err := e.tracker.Propose(draft); err != nil {
			e.logger.Error("failed to register amendment draft",
				"amendment_id", draft.AmendmentID, "error", err)
		}
	}

	a := &datatypes.Assessment{
		ContractID:        contract.ID,
		Timestamp:         e.now().UTC(),
		Findings:          findings,
		CategoryBreakdown: categoryBreakdown(findings),
		Score:             score,
		Level:             level,
		ComplianceStatus:  compliance,
		Recommendations:   recs,
		Degraded:          degraded,
		FailedDetectors:   failedDetectors,
	}

	e.transition(state, StateDone, contract.ID)
	status := "done"
	if degraded {
		status = "degraded"
	}
	e.recordRun(status, score, started)

	// History writes are fire-and-forget; a store failure never alters
	// the returned assessment.
	if e.store != nil {
		if err := e.store.Append(ctx, contract.ID, a); err != nil {
			e.logger.Error("failed to append assessment history",
				"contract_id", contract.ID, "error", err)
		}
	}

	e.logger.Info("assessment complete",
		"contract_id", contract.ID,
		"score", score,
		"level", level,
		"findings", len(findings),
		"recommendations", len(recs),
		"degraded", degraded)
	return a, nil
}

// fillCitations backfills empty justifications from the citation
// corpus. A retrieval failure leaves that justification empty and
// marks the run degraded; the remaining findings are still tried.
func (e *Engine) fillCitations(ctx context.Context, contract *datatypes.Contract, findings []datatypes.Finding) (degraded bool) {
	if e.citations == nil {
		return false
	}
	for i := range findings {
		if findings[i].Justification != "" {
			continue
		}
		cits, err := e.citations.Citations(ctx, findings[i].Description, contract.Jurisdiction(), 1)
		if err != nil {
			e.logger.Warn("citation lookup failed", "error", err)
			degraded = true
			continue
		}
		if len(cits) > 0 {
			findings[i].Justification = cits[0].Title
			if cits[0].Reference != "" {
				findings[i].Justification += " (" + cits[0].Reference + ")"
			}
		}
	}
	return degraded
}

func (e *Engine) transition(from, to State, contractID string) State {
	if from == "" {
		e.logger.Debug("engine state", "state", to, "contract_id", contractID)
	} else {
		e.logger.Debug("engine state", "from", from, "state", to, "contract_id", contractID)
	}
	return to
}

func (e *Engine) recordRun(status string, score float64, started time.Time) {
	if e.metrics == nil {
		return
	}
	e.metrics.RecordAssessment(status, score, e.now().Sub(started).Seconds())
}

// categoryBreakdown maps each category to its finding IDs in finding
// order, iterating categories in their fixed order. Categories with
// no findings are omitted.
func categoryBreakdown(findings []datatypes.Finding) map[datatypes.Category][]string {
	breakdown := make(map[datatypes.Category][]string)
	for _, c := range datatypes.Categories {
		for _, f := range findings {
			if f.Category == c {
				breakdown[c] = append(breakdown[c], f.ID)
			}
		}
	}
	return breakdown
}

func findingsInCategory(findings []datatypes.Finding, c datatypes.Category) []datatypes.Finding {
	var out []datatypes.Finding
	for _, f := range findings {
		if f.Category == c {
			out = append(out, f)
		}
	}
	return out
}
