// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package amendments owns the amendment lifecycle: drafts proposed by
// the legal-change detector are registered here and advance through
// proposed → approved → implemented, never backward and never deleted.
package amendments

import (
	"sort"
	"sync"
	"time"

	"github.com/AleutianAI/ContractSentinel/pkg/logging"
	"github.com/AleutianAI/ContractSentinel/services/assessment/datatypes"
)

// Tracker is the in-memory amendment registry. All methods are safe
// for concurrent use. Returned amendments are copies; callers cannot
// mutate tracker state through them.
type Tracker struct {
	mu     sync.Mutex
	byID   map[string]*datatypes.Amendment
	logger *logging.Logger
	now    func() time.Time
}

func NewTracker(logger *logging.Logger) *Tracker {
	if logger == nil {
		logger = logging.Default()
	}
	return &Tracker{
		byID:   make(map[string]*datatypes.Amendment),
		logger: logger,
		now:    time.Now,
	}
}

// Propose registers a draft amendment with status proposed. Proposing
// an ID that already exists returns the existing record unchanged, so
// re-running an assessment cannot duplicate or reset amendments.
func (t *Tracker) Propose(draft datatypes.Amendment) (datatypes.Amendment, error) {
	if draft.AmendmentID == "" {
		return datatypes.Amendment{}, &datatypes.ValidationError{Field: "amendment_id", Reason: "must not be empty"}
	}
	if draft.ContractID == "" {
		return datatypes.Amendment{}, &datatypes.ValidationError{Field: "contract_id", Reason: "must not be empty"}
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if existing, ok := t.byID[draft.AmendmentID]; ok {
		return *existing, nil
	}

	draft.Status = datatypes.AmendmentProposed
	if draft.Timestamp.IsZero() {
		draft.Timestamp = t.now()
	}
	stored := draft
	t.byID[stored.AmendmentID] = &stored
	t.logger.Info("amendment proposed",
		"amendment_id", stored.AmendmentID,
		"contract_id", stored.ContractID,
		"legal_update_id", stored.LegalUpdateID)
	return stored, nil
}

// Approve advances a proposed amendment to approved.
func (t *Tracker) Approve(amendmentID string) (datatypes.Amendment, error) {
	return t.advance(amendmentID, datatypes.AmendmentApproved)
}

// Implement advances an approved amendment to implemented.
func (t *Tracker) Implement(amendmentID string) (datatypes.Amendment, error) {
	return t.advance(amendmentID, datatypes.AmendmentImplemented)
}

// advance performs one forward transition. An illegal transition fails
// with StateTransitionError and leaves the stored record untouched.
func (t *Tracker) advance(amendmentID string, target datatypes.AmendmentStatus) (datatypes.Amendment, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	a, ok := t.byID[amendmentID]
	if !ok {
		return datatypes.Amendment{}, &datatypes.ValidationError{Field: "amendment_id", Reason: "unknown amendment " + amendmentID}
	}
	if !a.Status.CanAdvanceTo(target) {
		return datatypes.Amendment{}, &datatypes.StateTransitionError{
			AmendmentID: amendmentID,
			From:        a.Status,
			To:          target,
		}
	}

	a.Status = target
	a.Timestamp = t.now()
	t.logger.Info("amendment advanced", "amendment_id", amendmentID, "status", target)
	return *a, nil
}

// Get returns a copy of one amendment.
func (t *Tracker) Get(amendmentID string) (datatypes.Amendment, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	a, ok := t.byID[amendmentID]
	if !ok {
		return datatypes.Amendment{}, false
	}
	return *a, true
}

// ForContract returns all amendments for a contract, ordered by
// amendment ID for stable output.
func (t *Tracker) ForContract(contractID string) []datatypes.Amendment {
	t.mu.Lock()
	defer t.mu.Unlock()

	var out []datatypes.Amendment
	for _, a := range t.byID {
		if a.ContractID == contractID {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AmendmentID < out[j].AmendmentID })
	return out
}

// StatusSummary aggregates a contract's amendments by status along
// with the most recent transition timestamp.
func (t *Tracker) StatusSummary(contractID string) datatypes.AmendmentStatusSummary {
	summary := datatypes.AmendmentStatusSummary{ContractID: contractID}
	for _, a := range t.ForContract(contractID) {
		summary.TotalAmendments++
		switch a.Status {
		case datatypes.AmendmentProposed:
			summary.Proposed++
		case datatypes.AmendmentApproved:
			summary.Approved++
		case datatypes.AmendmentImplemented:
			summary.Implemented++
		}
		if a.Timestamp.After(summary.LatestUpdate) {
			summary.LatestUpdate = a.Timestamp
		}
	}
	return summary
}
