package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mdowning/batchkb/internal/cleaner"
	"github.com/mdowning/batchkb/internal/config"
	"github.com/mdowning/batchkb/internal/dedupstore"
)

var flagShowStats bool

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove batch task directories and single-upload temp files older than the retention window",
	RunE:  runClean,
}

func init() {
	cleanCmd.Flags().BoolVar(&flagShowStats, "stats", false, "print storage and dedup-store stats instead of deleting anything")
}

func runClean(cmd *cobra.Command, args []string) error {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	cfg := config.Load()

	cl := cleaner.New(cfg.BatchDir, cfg.TempDir, log)

	if flagShowStats {
		info := cl.StorageInfo()
		fmt.Printf("batch tasks: %d files, %d bytes\n", info.BatchTasks.FileCount, info.BatchTasks.SizeBytes)
		fmt.Printf("temp files:  %d files, %d bytes\n", info.TempFiles.FileCount, info.TempFiles.SizeBytes)
		fmt.Printf("total:       %d files, %d bytes\n", info.Total.FileCount, info.Total.SizeBytes)

		ctx := context.Background()
		store := dedupstore.New(ctx, cfg.RedisEnabled, dedupstore.RedisConfig{
			Host:       cfg.RedisHost,
			Port:       cfg.RedisPort,
			DB:         cfg.RedisDB,
			Password:   cfg.RedisPassword,
			DocKey:     cfg.RedisDocKey,
			ParaKey:    cfg.RedisParaKey,
			SimhashKey: cfg.RedisSimhashKey,
		}, log)
		stats := store.Stats(ctx)
		fmt.Printf("dedup store: %d docs, %d paragraphs, %d simhashes\n", stats.DocCount, stats.ParaCount, stats.SimhashCount)
		return nil
	}

	batchResult := cl.CleanOldBatchTasks(cfg.CleanKeepDays)
	tempResult := cl.CleanOldSingleFiles(cfg.CleanKeepDays)

	fmt.Printf("batch tasks: removed %d, freed %d bytes, %d errors\n", batchResult.DeletedCount, batchResult.BytesFreed, batchResult.ErrorCount)
	fmt.Printf("temp files:  removed %d, freed %d bytes, %d errors\n", tempResult.DeletedCount, tempResult.BytesFreed, tempResult.ErrorCount)

	return nil
}
