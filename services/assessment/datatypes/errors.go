// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package datatypes

import (
	"errors"
	"fmt"
)

// The engine's error taxonomy. Propagation policy:
//
//   - ValidationError: malformed ingress input. Rejected before
//     scanning; nothing is produced.
//   - DetectionError: a single detector could not complete. Absorbed
//     by the engine, recorded in failed_detectors, assessment continues
//     degraded.
//   - AggregationError: scoring or recommendation generation failed.
//     Fatal; the whole assessment aborts with no partial result.
//   - ExternalServiceError: text-generation, store, or retriever
//     failure. Always recoverable; absorbed with a documented fallback.
//   - StateTransitionError: an amendment transition requested out of
//     order. Rejected; the amendment is left unchanged.
var (
	ErrValidation      = errors.New("validation error")
	ErrDetection       = errors.New("detection error")
	ErrAggregation     = errors.New("aggregation error")
	ErrExternalService = errors.New("external service error")
	ErrStateTransition = errors.New("state transition error")
)

// ValidationError reports malformed Contract or LegalUpdate input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation error: %s", e.Reason)
	}
	return fmt.Sprintf("validation error: field %q: %s", e.Field, e.Reason)
}

// Unwrap lets errors.Is(err, ErrValidation) match.
func (e *ValidationError) Unwrap() error { return ErrValidation }

// DetectionError reports that one detector's whole scan failed.
type DetectionError struct {
	Detector string
	Err      error
}

func (e *DetectionError) Error() string {
	return fmt.Sprintf("detection error: detector %q: %v", e.Detector, e.Err)
}

func (e *DetectionError) Unwrap() error { return ErrDetection }

// AggregationError reports a fatal failure in scoring or
// recommendation generation.
type AggregationError struct {
	Stage string // "scoring" or "recommending"
	Err   error
}

func (e *AggregationError) Error() string {
	return fmt.Sprintf("aggregation error: stage %q: %v", e.Stage, e.Err)
}

func (e *AggregationError) Unwrap() error { return ErrAggregation }

// ExternalServiceError reports a recoverable collaborator failure.
type ExternalServiceError struct {
	Service string // "textgen", "store", "retriever"
	Err     error
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("external service error: %s: %v", e.Service, e.Err)
}

func (e *ExternalServiceError) Unwrap() error { return ErrExternalService }

// StateTransitionError reports an illegal amendment status transition.
type StateTransitionError struct {
	AmendmentID string
	From        AmendmentStatus
	To          AmendmentStatus
}

func (e *StateTransitionError) Error() string {
	return fmt.Sprintf("state transition error: amendment %s: %s -> %s is not allowed",
		e.AmendmentID, e.From, e.To)
}

func (e *StateTransitionError) Unwrap() error { return ErrStateTransition }
