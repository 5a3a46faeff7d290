// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/AleutianAI/ContractSentinel/pkg/logging"
	"github.com/AleutianAI/ContractSentinel/services/assessment"
	"github.com/AleutianAI/ContractSentinel/services/assessment/observability"
	"github.com/AleutianAI/ContractSentinel/services/assessment/routes"
	"github.com/AleutianAI/ContractSentinel/services/assessment/rules"
	"github.com/AleutianAI/ContractSentinel/services/retriever"
	"github.com/AleutianAI/ContractSentinel/services/store"
)

// splitCitationsAddr accepts a bare host:port or a scheme-prefixed URL
// and returns the weaviate host and scheme.
func splitCitationsAddr(addr string) (host, scheme string) {
	if h, ok := strings.CutPrefix(addr, "https://"); ok {
		return h, "https"
	}
	if h, ok := strings.CutPrefix(addr, "http://"); ok {
		return h, "http"
	}
	return addr, "http"
}

func runServe(cmd *cobra.Command, args []string) {
	logger := logging.New(logging.Config{Service: "sentinel", JSON: true})
	defer logger.Close()

	table, err := loadRuleTable()
	if err != nil {
		fail("loading rules: %v", err)
	}

	metrics := observability.InitMetrics()

	cfg := assessment.Config{
		Table:       table,
		Recommender: newRecommender(),
		Metrics:     metrics,
		Logger:      logger,
	}
	if storePath != "" {
		s, err := store.OpenBadger(store.DefaultConfig(storePath))
		if err != nil {
			fail("opening history store: %v", err)
		}
		defer s.Close()
		cfg.Store = s
	}
	if citationsAddr != "" {
		host, scheme := splitCitationsAddr(citationsAddr)
		r, err := retriever.NewWeaviateRetriever(host, scheme)
		if err != nil {
			fail("connecting citation retriever: %v", err)
		}
		cfg.Citations = r
	}

	engine, err := assessment.NewEngine(cfg)
	if err != nil {
		fail("building engine: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Hot reload only applies to an operator-supplied rule file; the
	// embedded table has nothing to watch.
	if rulesPath != "" {
		watcher, err := rules.NewWatcher(table, rulesPath, logger)
		if err != nil {
			fail("watching rule file: %v", err)
		}
		go watcher.Run(ctx)
	}

	router := gin.Default()
	routes.SetupRoutes(router, engine, metrics)

	srv := &http.Server{Addr: serverAddr, Handler: router}
	go func() {
		logger.Info("assessment API listening", "addr", serverAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "error", err)
			os.Exit(CLIExitError)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
}
