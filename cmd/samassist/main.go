package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samassist/chatwidget/internal/assistant"
	"github.com/samassist/chatwidget/internal/config"
	"github.com/samassist/chatwidget/internal/history"
	"github.com/samassist/chatwidget/internal/httpapi"
	"github.com/samassist/chatwidget/internal/leads"
	"github.com/samassist/chatwidget/internal/llm"
	"github.com/samassist/chatwidget/internal/logger"
	"github.com/samassist/chatwidget/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.L.Error("config error", "error", err)
		os.Exit(1)
	}
	logger.SetLevel(cfg.LogLevel)

	metrics := observability.NewMetrics(cfg.MetricsNamespace)

	store := history.NewMemoryStore(cfg.SessionIdleTTL)
	defer store.Close()

	runCtx, runCancel := context.WithCancel(context.Background())
	defer runCancel()
	store.StartJanitor(runCtx, time.Minute)

	var sinks []leads.Sink
	if cfg.SlackWebhookURL != "" {
		sinks = append(sinks, leads.NewSlackSink(cfg.SlackWebhookURL))
	} else {
		logger.L.Info("slack sink disabled: SLACK_WEBHOOK_URL not set")
	}
	if cfg.SpreadsheetID != "" {
		sheets, err := leads.NewSheetsSink(runCtx, cfg.SpreadsheetID, cfg.SheetsCredsFile)
		if err != nil {
			logger.L.Error("sheets sink init failed", "error", err)
			os.Exit(1)
		}
		sinks = append(sinks, sheets)
	} else {
		logger.L.Info("sheets sink disabled: SHEETS_SPREADSHEET_ID not set")
	}
	forwarder := leads.NewForwarder(sinks, cfg.SinkTimeout, metrics)

	orchestrator := assistant.New(
		llm.NewClient(cfg),
		cfg.OpenAIModel,
		store,
		forwarder,
		metrics,
		cfg.CompletionTimeout,
	)

	api := httpapi.New(cfg, orchestrator, store, metrics)
	httpServer := &http.Server{
		Addr:    cfg.BindAddr,
		Handler: api.Router(),
	}

	go func() {
		logger.L.Info("server listening", "addr", cfg.BindAddr, "model", cfg.OpenAIModel, "lead_sinks", forwarder.SinkCount())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L.Error("listen error", "error", err)
			os.Exit(1)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	logger.L.Info("shutdown signal received")

	runCancel()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.L.Warn("graceful shutdown failed", "error", err)
		_ = httpServer.Close()
	}

	logger.L.Info("shutdown complete")
}
