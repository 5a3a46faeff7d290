// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/AleutianAI/ContractSentinel/services/assessment/datatypes"
)

// Config holds configuration for the BadgerDB-backed history store.
type Config struct {
	// Path is the directory for BadgerDB files.
	// Ignored when InMemory is true.
	Path string

	// InMemory enables in-memory mode (no disk persistence).
	// Useful for testing.
	InMemory bool

	// SyncWrites enables synchronous writes for durability.
	SyncWrites bool

	// Logger receives BadgerDB's internal log output.
	// If nil, BadgerDB's internal logging is disabled.
	Logger *slog.Logger

	// GCInterval is how often to run value log garbage collection.
	// Set to 0 to disable.
	GCInterval time.Duration

	// GCDiscardRatio is the minimum ratio of discardable data before GC.
	GCDiscardRatio float64
}

// DefaultConfig returns production defaults: synchronous writes and a
// five-minute GC cycle.
func DefaultConfig(path string) Config {
	return Config{
		Path:           path,
		SyncWrites:     true,
		GCInterval:     5 * time.Minute,
		GCDiscardRatio: 0.5,
	}
}

// InMemoryConfig returns a configuration for testing: no disk I/O, no
// GC, data lost on close.
func InMemoryConfig() Config {
	return Config{
		InMemory:   true,
		SyncWrites: false,
	}
}

// badgerLogger adapts slog.Logger to BadgerDB's Logger interface.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

// BadgerStore is the BadgerDB-backed Store implementation.
//
// Each assessment is stored under a per-contract monotonic sequence
// key so history iteration in key order is append order:
//
//	assessment/<contract_id>/<seq16>
//
// Thread Safety: safe for concurrent use.
type BadgerStore struct {
	db   *badger.DB
	cfg  Config
	mu   sync.Mutex
	seqs map[string]*badger.Sequence
	stop chan struct{}
	done chan struct{}
}

// OpenBadger opens the history store with the given configuration,
// creating the directory if needed, and starts the GC loop when
// configured.
func OpenBadger(cfg Config) (*BadgerStore, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("path is required for persistent database")
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0750); err != nil {
			return nil, fmt.Errorf("create database directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites)
	opts = opts.WithNumVersionsToKeep(1)
	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger database: %w", err)
	}

	s := &BadgerStore{
		db:   db,
		cfg:  cfg,
		seqs: make(map[string]*badger.Sequence),
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	if cfg.GCInterval > 0 && !cfg.InMemory {
		go s.runGC()
	} else {
		close(s.done)
	}
	return s, nil
}

func historyKey(contractID string, seq uint64) []byte {
	return []byte(fmt.Sprintf("assessment/%s/%016d", contractID, seq))
}

func historyPrefix(contractID string) []byte {
	return []byte(fmt.Sprintf("assessment/%s/", contractID))
}

// Append stores one assessment at the next sequence slot for the
// contract.
func (s *BadgerStore) Append(ctx context.Context, contractID string, a *datatypes.Assessment) error {
	if err := ctx.Err(); err != nil {
		return &datatypes.ExternalServiceError{Service: "badger", Err: err}
	}
	if contractID == "" {
		return &datatypes.ValidationError{Field: "contract_id", Reason: "must not be empty"}
	}

	seq, err := s.sequence(contractID)
	if err != nil {
		return &datatypes.ExternalServiceError{Service: "badger", Err: err}
	}
	n, err := seq.Next()
	if err != nil {
		return &datatypes.ExternalServiceError{Service: "badger", Err: err}
	}

	payload, err := json.Marshal(a)
	if err != nil {
		return &datatypes.ExternalServiceError{Service: "badger", Err: err}
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(historyKey(contractID, n), payload)
	})
	if err != nil {
		return &datatypes.ExternalServiceError{Service: "badger", Err: err}
	}
	return nil
}

// History returns the contract's assessments oldest first. Missing
// history is an empty result, not an error.
func (s *BadgerStore) History(ctx context.Context, contractID string) ([]datatypes.Assessment, error) {
	if err := ctx.Err(); err != nil {
		return nil, &datatypes.ExternalServiceError{Service: "badger", Err: err}
	}

	var out []datatypes.Assessment
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := historyPrefix(contractID)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var a datatypes.Assessment
				if err := json.Unmarshal(val, &a); err != nil {
					return err
				}
				out = append(out, a)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, &datatypes.ExternalServiceError{Service: "badger", Err: err}
	}
	return out, nil
}

// Latest returns the most recent assessment for a contract, or false
// when no history exists.
func (s *BadgerStore) Latest(ctx context.Context, contractID string) (datatypes.Assessment, bool, error) {
	history, err := s.History(ctx, contractID)
	if err != nil || len(history) == 0 {
		return datatypes.Assessment{}, false, err
	}
	return history[len(history)-1], true, nil
}

// Close releases sequence leases, stops GC, and closes the database.
func (s *BadgerStore) Close() error {
	select {
	case <-s.stop:
	default:
		close(s.stop)
	}
	<-s.done

	s.mu.Lock()
	for _, seq := range s.seqs {
		// Release unclaims unused sequence numbers; failures only leave
		// gaps in the key space, which history iteration tolerates.
		_ = seq.Release()
	}
	s.seqs = make(map[string]*badger.Sequence)
	s.mu.Unlock()

	return s.db.Close()
}

func (s *BadgerStore) sequence(contractID string) (*badger.Sequence, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seq, ok := s.seqs[contractID]; ok {
		return seq, nil
	}
	seq, err := s.db.GetSequence([]byte("seq/"+contractID), 64)
	if err != nil {
		return nil, err
	}
	s.seqs[contractID] = seq
	return seq, nil
}

func (s *BadgerStore) runGC() {
	defer close(s.done)

	ticker := time.NewTicker(s.cfg.GCInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			err := s.db.RunValueLogGC(s.cfg.GCDiscardRatio)
			if err != nil && !errors.Is(err, badger.ErrNoRewrite) {
				if s.cfg.Logger != nil {
					s.cfg.Logger.Warn("badger value log GC error", slog.String("error", err.Error()))
				}
			}
		}
	}
}
