// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package retriever looks up legal citations backing a finding's
// justification. The engine consults it only to fill justification
// text that the rule table left empty; it is never load bearing.
package retriever

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/weaviate/weaviate-go-client/v5/weaviate"
	"github.com/weaviate/weaviate-go-client/v5/weaviate/filters"
	"github.com/weaviate/weaviate-go-client/v5/weaviate/graphql"

	"github.com/AleutianAI/ContractSentinel/services/assessment/datatypes"
)

// Citation is one retrieved legal reference.
type Citation struct {
	Title        string `json:"title"`
	Reference    string `json:"reference"`
	Jurisdiction string `json:"jurisdiction"`
}

// Retriever finds citations relevant to a risk topic, optionally
// scoped to a jurisdiction.
type Retriever interface {
	Citations(ctx context.Context, topic, jurisdiction string, limit int) ([]Citation, error)
}

// citationClass is the Weaviate class holding the curated citation
// corpus. Expected properties: title, reference, jurisdiction, text.
const citationClass = "LegalCitation"

// WeaviateRetriever implements Retriever against a Weaviate instance
// using BM25 keyword search. Safe for concurrent use; the underlying
// client pools connections.
type WeaviateRetriever struct {
	client *weaviate.Client
}

// NewWeaviateRetriever connects to Weaviate at the given host, e.g.
// "localhost:8080" with scheme "http".
func NewWeaviateRetriever(host, scheme string) (*WeaviateRetriever, error) {
	client, err := weaviate.NewClient(weaviate.Config{Host: host, Scheme: scheme})
	if err != nil {
		return nil, fmt.Errorf("create weaviate client: %w", err)
	}
	return &WeaviateRetriever{client: client}, nil
}

// Citations runs a BM25 search over the citation corpus.
func (r *WeaviateRetriever) Citations(ctx context.Context, topic, jurisdiction string, limit int) ([]Citation, error) {
	if limit <= 0 {
		limit = 3
	}

	fields := []graphql.Field{
		{Name: "title"},
		{Name: "reference"},
		{Name: "jurisdiction"},
	}

	query := r.client.GraphQL().Get().
		WithClassName(citationClass).
		WithFields(fields...).
		WithBM25(r.client.GraphQL().Bm25ArgBuilder().
			WithQuery(topic).
			WithProperties("title", "text")).
		WithLimit(limit)

	if jurisdiction != "" {
		query = query.WithWhere(filters.Where().
			WithPath([]string{"jurisdiction"}).
			WithOperator(filters.Equal).
			WithValueString(jurisdiction))
	}

	result, err := query.Do(ctx)
	if err != nil {
		slog.Error("Citation search failed", "topic", topic, "error", err)
		return nil, &datatypes.ExternalServiceError{Service: "weaviate", Err: err}
	}
	if len(result.Errors) > 0 {
		err := fmt.Errorf("weaviate query error: %s", result.Errors[0].Message)
		return nil, &datatypes.ExternalServiceError{Service: "weaviate", Err: err}
	}

	citations, err := parseCitations(result.Data)
	if err != nil {
		return nil, &datatypes.ExternalServiceError{Service: "weaviate", Err: err}
	}
	return citations, nil
}

// parseCitations reshapes the GraphQL Get response through JSON into
// typed citations: Data["Get"][citationClass] is a list of property
// maps.
func parseCitations(data interface{}) ([]Citation, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshal graphql response: %w", err)
	}

	var envelope struct {
		Get map[string][]Citation `json:"Get"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("parse graphql response: %w", err)
	}

	rows := envelope.Get[citationClass]
	out := make([]Citation, 0, len(rows))
	for _, c := range rows {
		if c.Title == "" && c.Reference == "" {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}
