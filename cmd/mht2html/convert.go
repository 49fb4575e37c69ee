package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	mht2html "github.com/5ime/mht2html"
	"github.com/5ime/mht2html/internal/config"
)

// Sentinel errors for CLI operations.
var (
	ErrInvalidArgs        = errors.New("usage: mht2html <mht_path> <output_path> [flags]")
	ErrReadArchive        = errors.New("failed to read archive")
	ErrWriteHTML          = errors.New("failed to write HTML file")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// MaxWorkers caps the extraction pool; beyond this the run is I/O bound
// on one disk anyway.
const MaxWorkers = 64

// runConvert orchestrates a single conversion.
func runConvert(ctx context.Context, args []string, flags *cliFlags, env *Environment) error {
	if len(args) != 2 {
		return ErrInvalidArgs
	}
	mhtPath, outputPath := args[0], args[1]

	if flags.work < 0 || flags.work > MaxWorkers {
		return fmt.Errorf("%w: %d (must be between 0 and %d)", ErrInvalidWorkerCount, flags.work, MaxWorkers)
	}

	// Load configuration; flags override config fields.
	cfg := env.Config
	if flags.config != "" {
		loaded, err := config.Load(flags.config)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}
	mergeFlags(flags, cfg)

	archive, err := os.ReadFile(mhtPath) // #nosec G304 -- user-provided input path
	if err != nil {
		return fmt.Errorf("%w: %v", ErrReadArchive, err)
	}

	opts := serviceOptions(cfg, resolveWorkers(cfg.Workers))

	var bar *progressBar
	if !flags.quiet && !flags.noProgress {
		bar = newProgressBar(env.Stderr)
		opts = append(opts, mht2html.WithProgress(bar.update))
	}

	start := time.Now()
	result, err := mht2html.New(opts...).Convert(ctx, mht2html.Input{
		Archive:     archive,
		OutputDir:   filepath.Dir(outputPath),
		ResourceDir: cfg.ResourceDir,
	})
	if bar != nil {
		bar.stop()
	}
	if err != nil {
		return err
	}

	outDir := filepath.Dir(outputPath)
	if err := os.MkdirAll(outDir, dirPermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteHTML, err)
	}
	// #nosec G306 -- HTML files are meant to be readable
	if err := os.WriteFile(outputPath, result.HTML, filePermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteHTML, err)
	}

	printSummary(result, outputPath, time.Since(start), flags, env)
	return nil
}

// mergeFlags applies non-empty flag values over the loaded config.
func mergeFlags(flags *cliFlags, cfg *config.Config) {
	if flags.dir != "" {
		cfg.ResourceDir = flags.dir
	}
	if flags.work > 0 {
		cfg.Workers = flags.work
	}
	if flags.placeholder != "" {
		cfg.Placeholder = flags.placeholder
	}
	if flags.selector != "" {
		cfg.RecordSelector = flags.selector
	}
}

// serviceOptions converts config fields into service options, leaving
// unset fields to the library defaults.
func serviceOptions(cfg *config.Config, workers int) []mht2html.Option {
	opts := []mht2html.Option{mht2html.WithWorkers(workers)}
	if cfg.Placeholder != "" {
		opts = append(opts, mht2html.WithPlaceholder(cfg.Placeholder))
	}
	if cfg.RecordSelector != "" {
		opts = append(opts, mht2html.WithRecordSelector(cfg.RecordSelector))
	}
	return opts
}
