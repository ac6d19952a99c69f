package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mdowning/batchkb/internal/api"
	"github.com/mdowning/batchkb/internal/cleaner"
	"github.com/mdowning/batchkb/internal/config"
	"github.com/mdowning/batchkb/internal/dedupstore"
	"github.com/mdowning/batchkb/internal/orchestrator"
	"github.com/mdowning/batchkb/internal/task"
	"github.com/mdowning/batchkb/internal/textpipeline"
	"github.com/mdowning/batchkb/internal/transcoder"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the batchkb HTTP API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := dedupstore.New(ctx, cfg.RedisEnabled, dedupstore.RedisConfig{
		Host:       cfg.RedisHost,
		Port:       cfg.RedisPort,
		DB:         cfg.RedisDB,
		Password:   cfg.RedisPassword,
		DocKey:     cfg.RedisDocKey,
		ParaKey:    cfg.RedisParaKey,
		SimhashKey: cfg.RedisSimhashKey,
	}, log)

	pipeline, err := textpipeline.New(textpipeline.Config{
		MinParagraphLen:          cfg.MinParagraphLen,
		SimhashDistanceThreshold: cfg.SimhashDistanceThreshold,
		EnableNearDuplicate:      cfg.EnableNearDuplicate,
		CustomNoisePatterns:      cfg.CustomNoisePatterns,
	}, store, log)
	if err != nil {
		return fmt.Errorf("building text pipeline: %w", err)
	}

	tc := transcoder.New(
		[]transcoder.Engine{
			transcoder.ResolveExternalEngine(cfg.LibreOfficePath, cfg.LibreOfficeDefaultPaths),
			&transcoder.COMEngine{},
			&transcoder.NativeTextToDocxEngine{},
			&transcoder.NativePDFToDocxEngine{},
		},
		cfg.ConversionTimeout,
		cfg.TempDir,
		log,
	)

	tasks := task.NewStore(24 * time.Hour)
	cl := cleaner.New(cfg.BatchDir, cfg.TempDir, log)
	orch := orchestrator.New(cfg, store, pipeline, tc, tasks, cl, log)

	srv := api.NewServer(orch, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)
		cancel()
	}()

	log.Info("starting batchkb", "port", cfg.Port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
