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
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/ContractSentinel/services/assessment"
	"github.com/AleutianAI/ContractSentinel/services/assessment/datatypes"
	"github.com/AleutianAI/ContractSentinel/services/assessment/observability"
)

// ApproveAmendment advances a proposed amendment to approved.
func ApproveAmendment(engine *assessment.Engine, metrics *observability.EngineMetrics) gin.HandlerFunc {
	return transitionHandler(engine, metrics, datatypes.AmendmentApproved, engine.Tracker().Approve)
}

// ImplementAmendment advances an approved amendment to implemented.
func ImplementAmendment(engine *assessment.Engine, metrics *observability.EngineMetrics) gin.HandlerFunc {
	return transitionHandler(engine, metrics, datatypes.AmendmentImplemented, engine.Tracker().Implement)
}

func transitionHandler(engine *assessment.Engine, metrics *observability.EngineMetrics, target datatypes.AmendmentStatus, advance func(string) (datatypes.Amendment, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("amendment_id")
		if _, ok := engine.Tracker().Get(id); !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown amendment " + id})
			return
		}

		a, err := advance(id)
		if metrics != nil {
			metrics.RecordAmendmentTransition(string(target), err == nil)
		}
		if err != nil {
			writeEngineError(c, err)
			return
		}
		c.JSON(http.StatusOK, a)
	}
}

// GetAmendment returns a single amendment record.
func GetAmendment(engine *assessment.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("amendment_id")
		a, ok := engine.Tracker().Get(id)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown amendment " + id})
			return
		}
		c.JSON(http.StatusOK, a)
	}
}

// AmendmentStatusSummary aggregates a contract's amendments by status.
func AmendmentStatusSummary(engine *assessment.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		contractID := c.Param("contract_id")
		c.JSON(http.StatusOK, engine.Tracker().StatusSummary(contractID))
	}
}

// ListAmendments returns all amendments for a contract.
func ListAmendments(engine *assessment.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		contractID := c.Param("contract_id")
		amendments := engine.Tracker().ForContract(contractID)
		c.JSON(http.StatusOK, gin.H{
			"contract_id": contractID,
			"count":       len(amendments),
			"amendments":  amendments,
		})
	}
}
