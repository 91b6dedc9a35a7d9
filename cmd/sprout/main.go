package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spachava753/sprout/internal/config"
	"github.com/spachava753/sprout/internal/executor"
)

func main() {
	verbose := flag.Bool("v", false, "enable debug logging")
	dryRun := flag.Bool("n", false, "print the command lines without running them")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: sprout [-v] [-n] <build.yaml>")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	configPath := flag.Arg(0)
	setupLogging(configPath, *verbose)

	// Setup context with manual signal handling
	ctx, cancel := context.WithCancel(context.Background())

	// Listen for interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	defer func() {
		signal.Stop(sigChan)
		cancel()
	}()

	go func() {
		sig := <-sigChan
		slog.Info("interrupt received, shutting down gracefully...", "signal", sig)
		cancel()
	}()

	result, err := executor.RunFromConfig(ctx, configPath, executor.RunOptions{DryRun: *dryRun})
	if err != nil {
		slog.Error("build failed", "error", err)
		os.Exit(1)
	}

	if *dryRun {
		for _, r := range result.Results {
			fmt.Println(r.Command)
		}
		return
	}

	// Print summary
	fmt.Printf("\nBuild: %s\n", result.BuildName)
	fmt.Printf("Total runs: %d\n", result.TotalRuns)
	fmt.Printf("Succeeded: %d\n", result.SucceededRuns)
	fmt.Printf("Failed: %d\n", result.FailedRuns)
	fmt.Printf("Skipped: %d\n", result.SkippedRuns)
	fmt.Printf("Duration: %.2fs\n", result.TotalDurationSec)

	if result.FailedRuns > 0 || result.Cancelled {
		os.Exit(1)
	}
}

// setupLogging installs a text handler on stderr. The level comes from -v or
// the build file's log_level.
func setupLogging(configPath string, verbose bool) {
	level := slog.LevelInfo
	if cfg, err := config.LoadBuildConfig(configPath); err == nil && cfg.LogLevel != "" {
		if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
			fmt.Fprintf(os.Stderr, "invalid log_level %q, using info\n", cfg.LogLevel)
			level = slog.LevelInfo
		}
	}
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}
