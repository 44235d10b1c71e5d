package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/japaniel/c42/pkg/build"
	"github.com/japaniel/c42/pkg/config"
)

func main() {
	configFlag := flag.String("config", "", "Path to YAML config (default $"+config.PathEnv+")")
	dbFlag := flag.String("db", "", "Path to SQLite snapshot database (overrides store.path)")
	dryRunFlag := flag.Bool("dry-run", false, "Compile everything but write no output")
	flag.Parse()

	cfg, err := config.Load(*configFlag)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *dbFlag != "" {
		cfg.Store.Path = *dbFlag
	}
	if *dryRunFlag {
		cfg.DryRun = true
	}

	logger := config.NewLogger(cfg.Log)

	// Setup context for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	summary, err := build.NewPipeline(logger, *cfg).Run(ctx)
	if err != nil {
		logger.Error("build failed", slog.Any("error", err))
		cancel()
		os.Exit(1)
	}

	fmt.Printf("Compiled %d assemblies into %d entries (%d phrases).\n",
		summary.Assemblies, summary.Entries, summary.Phrases)
	fmt.Printf("Hints: %d, associations: %d, rejected roots: %d.\n",
		summary.Hints, summary.Associations, summary.RejectedRoots)
	if summary.BuildID != "" {
		fmt.Printf("Snapshot saved with build ID: %s\n", summary.BuildID)
	}
	if cfg.DryRun {
		fmt.Println("Dry run: no files written.")
	}
	fmt.Printf("Build complete in %v.\n", summary.Duration)
}
