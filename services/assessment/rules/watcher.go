// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package rules

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/AleutianAI/ContractSentinel/pkg/logging"
	"github.com/fsnotify/fsnotify"
)

// Watcher reloads an on-disk rule file whenever it changes and swaps
// the parsed result into a RuleTable.
//
// A file that fails to parse is logged and ignored; the previous table
// stays active. Assessments therefore only ever observe complete,
// valid tables.
type Watcher struct {
	table  *RuleTable
	path   string
	logger *logging.Logger
	fsw    *fsnotify.Watcher
}

// NewWatcher creates a watcher for path feeding table. The watch is
// registered on the parent directory because editors typically replace
// files via rename, which drops inode-level watches.
func NewWatcher(table *RuleTable, path string, logger *logging.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create rule file watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("failed to watch rule file directory: %w", err)
	}
	return &Watcher{
		table:  table,
		path:   path,
		logger: logger,
		fsw:    fsw,
	}, nil
}

// Run blocks processing file events until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() { _ = w.fsw.Close() }()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			w.reload()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("rule file watcher error", "error", err)
		}
	}
}

// reload parses the file and swaps it in on success.
func (w *Watcher) reload() {
	table, err := LoadFile(w.path)
	if err != nil {
		w.logger.Error("rule table reload rejected, keeping previous table",
			"path", w.path, "error", err)
		return
	}
	w.table.Swap(table)
	w.logger.Info("rule table swapped",
		"path", w.path, "version", table.Version(), "rules", table.RuleCount())
}
