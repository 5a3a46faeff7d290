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
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/ContractSentinel/services/assessment"
	"github.com/AleutianAI/ContractSentinel/services/assessment/datatypes"
	"github.com/AleutianAI/ContractSentinel/services/assessment/rules"
	"github.com/AleutianAI/ContractSentinel/services/store"
)

func testRouter(t *testing.T, mutate func(*assessment.Config)) (*gin.Engine, *assessment.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	table, err := rules.LoadEmbedded()
	require.NoError(t, err)
	cfg := assessment.Config{Table: rules.NewRuleTable(table)}
	if mutate != nil {
		mutate(&cfg)
	}
	engine, err := assessment.NewEngine(cfg)
	require.NoError(t, err)

	router := gin.New()
	router.GET("/healthz", HealthCheck(engine))
	router.POST("/v1/assess", HandleAssess(engine))
	router.GET("/v1/assessments/:contract_id", GetHistory(engine))
	router.GET("/v1/assessments/:contract_id/summary", GetSummary(engine))
	router.GET("/v1/amendments/:amendment_id", GetAmendment(engine))
	router.POST("/v1/amendments/:amendment_id/approve", ApproveAmendment(engine, nil))
	router.POST("/v1/amendments/:amendment_id/implement", ImplementAmendment(engine, nil))
	router.GET("/v1/amendments/status/:contract_id", AmendmentStatusSummary(engine))
	return router, engine
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func assessBody(contractID, heading, content string) AssessRequest {
	return AssessRequest{
		Contract: datatypes.Contract{
			ID: contractID,
			Sections: []datatypes.Section{
				{Name: "General", Clauses: []datatypes.Clause{{Heading: heading, Content: content}}},
			},
		},
	}
}

func TestHandleAssess_OK(t *testing.T) {
	router, _ := testRouter(t, nil)

	w := doJSON(t, router, http.MethodPost, "/v1/assess",
		assessBody("C-1", "Indemnity", "The Contractor accepts unlimited liability for all damages."))

	require.Equal(t, http.StatusOK, w.Code)

	var a datatypes.Assessment
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &a))
	assert.Equal(t, "C-1", a.ContractID)
	assert.Equal(t, 100.0, a.Score)
	assert.Equal(t, datatypes.SeverityCritical, a.Level)
	require.Len(t, a.Recommendations, 1)
	assert.Equal(t, datatypes.PriorityHigh, a.Recommendations[0].Priority)
}

func TestHandleAssess_ValidationFailure(t *testing.T) {
	router, _ := testRouter(t, nil)

	w := doJSON(t, router, http.MethodPost, "/v1/assess", AssessRequest{
		Contract: datatypes.Contract{ID: "C-1"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "sections")
}

func TestHandleAssess_MalformedBody(t *testing.T) {
	router, _ := testRouter(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/assess", bytes.NewBufferString("{not json"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetHistory(t *testing.T) {
	s, err := store.OpenBadger(store.InMemoryConfig())
	require.NoError(t, err)
	defer s.Close()

	router, _ := testRouter(t, func(cfg *assessment.Config) { cfg.Store = s })

	w := doJSON(t, router, http.MethodPost, "/v1/assess", assessBody("C-1", "H", "plain text"))
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/v1/assessments/C-1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		ContractID  string                 `json:"contract_id"`
		Count       int                    `json:"count"`
		Assessments []datatypes.Assessment `json:"assessments"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Count)
	require.Len(t, resp.Assessments, 1)
	assert.Equal(t, "C-1", resp.Assessments[0].ContractID)
}

func TestGetHistory_ReportsTrend(t *testing.T) {
	s, err := store.OpenBadger(store.InMemoryConfig())
	require.NoError(t, err)
	defer s.Close()

	router, _ := testRouter(t, func(cfg *assessment.Config) { cfg.Store = s })

	w := doJSON(t, router, http.MethodPost, "/v1/assess",
		assessBody("C-1", "Indemnity", "The Contractor accepts unlimited liability for all damages."))
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, router, http.MethodPost, "/v1/assess", assessBody("C-1", "H", "plain text"))
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/v1/assessments/C-1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Count int         `json:"count"`
		Trend store.Trend `json:"trend"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, store.TrendImproving, resp.Trend.Direction)
	assert.Equal(t, -100.0, resp.Trend.Delta)
}

func TestGetSummary(t *testing.T) {
	s, err := store.OpenBadger(store.InMemoryConfig())
	require.NoError(t, err)
	defer s.Close()

	router, _ := testRouter(t, func(cfg *assessment.Config) { cfg.Store = s })

	w := doJSON(t, router, http.MethodGet, "/v1/assessments/C-1/summary", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, router, http.MethodPost, "/v1/assess",
		assessBody("C-1", "Indemnity", "The Contractor accepts unlimited liability for all damages."))
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/v1/assessments/C-1/summary", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var summary datatypes.AssessmentSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, "C-1", summary.ContractID)
	assert.Equal(t, 100.0, summary.Score)
	assert.Equal(t, datatypes.SeverityCritical, summary.Level)
	assert.Equal(t, 1, summary.TotalFindings)
	require.Len(t, summary.HighSeverityIssues, 1)
	require.NotEmpty(t, summary.KeyRecommendations)
}

func TestGetHistory_StoreDisabled(t *testing.T) {
	router, _ := testRouter(t, nil)

	w := doJSON(t, router, http.MethodGet, "/v1/assessments/C-1", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestAmendmentLifecycleOverHTTP(t *testing.T) {
	router, engine := testRouter(t, nil)

	_, err := engine.Tracker().Propose(datatypes.Amendment{
		AmendmentID:   "A-1",
		ContractID:    "C-1",
		LegalUpdateID: "LU-1",
	})
	require.NoError(t, err)

	// Implement before approve is rejected and leaves state untouched.
	w := doJSON(t, router, http.MethodPost, "/v1/amendments/A-1/implement", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, router, http.MethodGet, "/v1/amendments/A-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"proposed"`)

	w = doJSON(t, router, http.MethodPost, "/v1/amendments/A-1/approve", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodPost, "/v1/amendments/A-1/implement", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"implemented"`)

	w = doJSON(t, router, http.MethodGet, "/v1/amendments/status/C-1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var summary datatypes.AmendmentStatusSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, 1, summary.TotalAmendments)
	assert.Equal(t, 1, summary.Implemented)
}

func TestAmendmentTransition_UnknownID(t *testing.T) {
	router, _ := testRouter(t, nil)

	w := doJSON(t, router, http.MethodPost, "/v1/amendments/missing/approve", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealthCheck(t *testing.T) {
	router, _ := testRouter(t, nil)

	w := doJSON(t, router, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"rules_count"`)
	assert.Contains(t, w.Body.String(), `"ok"`)
}
