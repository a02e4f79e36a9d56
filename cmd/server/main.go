package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/fnolgest/internal/api"
	"github.com/dgallion1/fnolgest/internal/config"
	"github.com/dgallion1/fnolgest/internal/extract"
	"github.com/dgallion1/fnolgest/internal/parser"
	"github.com/dgallion1/fnolgest/internal/pipeline"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// Field rules.
	var rules []extract.Rule
	if cfg.RulesFile != "" {
		var err error
		rules, err = extract.LoadRulesFile(cfg.RulesFile)
		if err != nil {
			log.Error("invalid field rules", "file", cfg.RulesFile, "error", err)
			os.Exit(1)
		}
		log.Info("loaded field rules", "file", cfg.RulesFile, "fields", len(rules))
	}

	// Initialize pipeline.
	opts := pipeline.Options{
		MaxDocumentBytes: cfg.MaxUploadBytes,
		Parser:           parser.Options{PDFFallbackPdftotext: cfg.PDFFallbackPdftotext},
		Stats:            pipeline.NewStats(cfg.StatsWindow),
	}
	if cfg.ResultCacheTTL > 0 {
		opts.Cache = pipeline.NewCache(cfg.ResultCacheTTL)
	}
	proc := pipeline.NewProcessor(extract.NewExtractor(rules), opts, log.With("component", "pipeline"))

	// Initialize HTTP server.
	srv := api.NewServer(proc, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	done := make(chan struct{})
	go func() {
		defer close(done)
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error("shutdown error", "error", err)
		}
	}()

	log.Info("starting fnolgest",
		"port", cfg.Port,
		"auth", cfg.APIKey != "",
		"cache_ttl", cfg.ResultCacheTTL.String(),
	)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
	<-done
}
