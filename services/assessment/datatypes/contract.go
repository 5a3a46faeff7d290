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

// Clause is a single provision within a contract section.
type Clause struct {
	// Heading is the clause title, e.g. "Limitation of Liability".
	Heading string `json:"heading" yaml:"heading" validate:"required"`

	// Content is the full clause text. A clause with empty content is
	// malformed; detectors skip it without aborting the scan.
	Content string `json:"content" yaml:"content"`

	// Section is the back-reference to the containing section name.
	// Populated during ingress; clauses own nothing beyond it.
	Section string `json:"section,omitempty" yaml:"section,omitempty"`
}

// Section is a named, ordered group of clauses.
//
// Sections are modeled as a slice rather than a map so that clause
// order and section order survive decoding. Scan output depends on
// this order, and Go map iteration would make it non-deterministic.
type Section struct {
	Name    string   `json:"name" yaml:"name" validate:"required"`
	Clauses []Clause `json:"clauses" yaml:"clauses" validate:"required,min=1,dive"`
}

// Contract is the immutable snapshot of a document under assessment.
//
// The engine never modifies a Contract. A revision is a new Contract
// value carrying the same ID, and each revision yields a new
// Assessment appended to that contract's history.
type Contract struct {
	// ID identifies the contract across revisions and assessments.
	ID string `json:"id" yaml:"id" validate:"required"`

	// Sections holds the document body in document order.
	Sections []Section `json:"sections" yaml:"sections" validate:"required,min=1,dive"`

	// Metadata carries optional context such as contract type and
	// jurisdiction. Keys the engine understands: "contract_type",
	// "jurisdiction".
	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Jurisdiction returns the contract's jurisdiction metadata, or "" if unset.
func (c *Contract) Jurisdiction() string {
	return c.Metadata["jurisdiction"]
}

// ClauseCount returns the total number of clauses across all sections.
func (c *Contract) ClauseCount() int {
	n := 0
	for _, s := range c.Sections {
		n += len(s.Clauses)
	}
	return n
}
