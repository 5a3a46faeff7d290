// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AleutianAI/ContractSentinel/services/assessment"
	"github.com/AleutianAI/ContractSentinel/services/assessment/handlers"
	"github.com/AleutianAI/ContractSentinel/services/assessment/observability"
)

func SetupRoutes(router *gin.Engine, engine *assessment.Engine, metrics *observability.EngineMetrics) {
	router.GET("/healthz", handlers.HealthCheck(engine))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API version 1 group
	v1 := router.Group("/v1")
	{
		v1.POST("/assess", handlers.HandleAssess(engine))
		v1.GET("/assessments/:contract_id", handlers.GetHistory(engine))
		v1.GET("/assessments/:contract_id/summary", handlers.GetSummary(engine))

		amendments := v1.Group("/amendments")
		{
			amendments.GET("/:amendment_id", handlers.GetAmendment(engine))
			amendments.POST("/:amendment_id/approve", handlers.ApproveAmendment(engine, metrics))
			amendments.POST("/:amendment_id/implement", handlers.ImplementAmendment(engine, metrics))
			amendments.GET("/status/:contract_id", handlers.AmendmentStatusSummary(engine))
			amendments.GET("/contract/:contract_id", handlers.ListAmendments(engine))
		}
	}
}
