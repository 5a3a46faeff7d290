// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/ContractSentinel/services/assessment"
	"github.com/AleutianAI/ContractSentinel/services/assessment/datatypes"
	"github.com/AleutianAI/ContractSentinel/services/store"
)

// AssessRequest is the POST /v1/assess payload. Sections arrive as an
// ordered array, not a JSON object, so document order survives
// decoding.
type AssessRequest struct {
	Contract     datatypes.Contract      `json:"contract"`
	LegalUpdates []datatypes.LegalUpdate `json:"legal_updates,omitempty"`
}

// HandleAssess runs one full engine pass and returns the assessment.
func HandleAssess(engine *assessment.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AssessRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		a, err := engine.Assess(c.Request.Context(), &req.Contract, req.LegalUpdates)
		if err != nil {
			writeEngineError(c, err)
			return
		}
		c.JSON(http.StatusOK, a)
	}
}

// GetHistory returns the append-only assessment history for one
// contract, oldest first.
func GetHistory(engine *assessment.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		contractID := c.Param("contract_id")
		s := engine.Store()
		if s == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "history persistence is disabled"})
			return
		}

		history, err := s.History(c.Request.Context(), contractID)
		if err != nil {
			slog.Error("Failed to load assessment history", "contract_id", contractID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"contract_id": contractID,
			"count":       len(history),
			"assessments": history,
			"trend":       store.TrendOf(history),
		})
	}
}

// GetSummary returns the condensed view of the most recent assessment
// for one contract.
func GetSummary(engine *assessment.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		contractID := c.Param("contract_id")
		s := engine.Store()
		if s == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "history persistence is disabled"})
			return
		}

		history, err := s.History(c.Request.Context(), contractID)
		if err != nil {
			slog.Error("Failed to load assessment history", "contract_id", contractID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if len(history) == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "no assessments recorded for contract"})
			return
		}
		c.JSON(http.StatusOK, history[len(history)-1].Summarize())
	}
}

// writeEngineError maps the engine's error taxonomy onto HTTP status
// codes: validation problems are the caller's fault, state transition
// conflicts are 409, everything else is a server error.
func writeEngineError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, datatypes.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, datatypes.ErrStateTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		slog.Error("Assessment failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
