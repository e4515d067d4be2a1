package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/realf/photos-takeout/internal/config"
	applog "github.com/realf/photos-takeout/internal/log"
	"github.com/realf/photos-takeout/internal/model"
	"github.com/realf/photos-takeout/internal/takeout"
	"github.com/spf13/cobra"
)

// NewProcessCmd creates the process command.
func NewProcessCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "process [takeout-dir]",
		Short: "Process a single extracted Takeout directory",
		Long: `Process reads an already-extracted Takeout directory, copies its media
files to the output directory, and writes capture times, GPS coordinates,
and descriptions from the JSON sidecars into the copies with exiftool.

This is the same processing step the batch run performs, without the
extraction and cleanup around it. It never modifies the source tree.

Examples:
  # Process ./Takeout into ./Output
  photos-takeout process

  # Process an explicit tree, eight files at a time
  photos-takeout process /tmp/Takeout --output ~/Photos --workers 8

  # Preview without writing anything
  photos-takeout process --dry-run`,
		Args: cobra.MaximumNArgs(1),
		RunE: runProcessCmd,
	}

	cmd.Flags().StringP("output", "o", config.DefaultOutputDir,
		"Directory processed media files are written to")
	cmd.Flags().String("exiftool", "",
		"Path to the exiftool binary (default: auto-detect)")
	cmd.Flags().Duration("exiftool-timeout", config.DefaultExiftoolTimeout,
		"Timeout for a single exiftool invocation")
	cmd.Flags().IntP("workers", "w", config.DefaultWorkers,
		"Number of media files processed concurrently")
	cmd.Flags().BoolP("dry-run", "n", false,
		"Report what would be done without writing anything")
	cmd.Flags().Bool("skip-no-json", false,
		"Skip media files that have no JSON sidecar")
	cmd.Flags().Bool("skip-disk-check", false,
		"Skip the free-disk-space preflight")
	cmd.Flags().Int("sample-size", config.DefaultSampleSize,
		"Number of processed files to verify by reading EXIF back (0 disables)")

	return cmd
}

// runProcessCmd executes the process command.
func runProcessCmd(cmd *cobra.Command, args []string) error {
	sourceDir := config.TakeoutDirName
	if len(args) == 1 {
		sourceDir = args[0]
	}
	sourceDir, err := filepath.Abs(sourceDir)
	if err != nil {
		return fmt.Errorf("failed to resolve source directory: %w", err)
	}

	flags := cmd.Flags()

	outputDir, err := flags.GetString("output")
	if err != nil {
		return err
	}
	if !filepath.IsAbs(outputDir) {
		outputDir = filepath.Join(filepath.Dir(sourceDir), outputDir)
	}

	exiftoolFlag, err := flags.GetString("exiftool")
	if err != nil {
		return err
	}
	exiftoolTimeout, err := flags.GetDuration("exiftool-timeout")
	if err != nil {
		return err
	}
	workers, err := flags.GetInt("workers")
	if err != nil {
		return err
	}
	dryRun, err := flags.GetBool("dry-run")
	if err != nil {
		return err
	}
	skipNoSidecar, err := flags.GetBool("skip-no-json")
	if err != nil {
		return err
	}
	skipDiskCheck, err := flags.GetBool("skip-disk-check")
	if err != nil {
		return err
	}
	sampleSize, err := flags.GetInt("sample-size")
	if err != nil {
		return err
	}

	logger := applog.NewPrivacyLogger(os.Stderr, getVerboseFlag(cmd))
	slog.SetDefault(logger)

	exiftoolPath, err := takeout.FindExiftool(exiftoolFlag)
	if err != nil {
		return err
	}

	applier := takeout.NewExiftoolApplier(exiftoolPath, takeout.WithTimeout(exiftoolTimeout))
	processor := takeout.New(applier,
		takeout.WithOutputDir(outputDir),
		takeout.WithWorkers(workers),
		takeout.WithDryRun(dryRun),
		takeout.WithSkipNoSidecar(skipNoSidecar),
		takeout.WithSkipDiskCheck(skipDiskCheck),
		takeout.WithSampleSize(sampleSize),
		takeout.WithProcessorLogger(logger),
	)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	fmt.Fprintf(cmd.OutOrStdout(), "Processing %s into %s...\n", sourceDir, outputDir)
	stats, procErr := processor.Process(ctx, sourceDir)
	if stats != nil {
		printStatsSummary(cmd.OutOrStdout(), stats)
	}

	return procErr
}

// printStatsSummary writes the per-tree counters in the same shape the
// batch report uses for a single archive.
func printStatsSummary(w io.Writer, s *model.Stats) {
	fmt.Fprintf(w, "\nTotal files:      %d\n", s.TotalFiles)
	fmt.Fprintf(w, "Processed:        %d\n", s.Processed)
	fmt.Fprintf(w, "Skipped:          %d\n", s.Skipped)
	fmt.Fprintf(w, "With sidecar:     %d\n", s.WithSidecar)
	fmt.Fprintf(w, "Without sidecar:  %d\n", s.WithoutSidecar)
	fmt.Fprintf(w, "Metadata applied: %d\n", s.MetadataApplied)
	fmt.Fprintf(w, "Metadata failed:  %d\n", s.MetadataFailed)
	fmt.Fprintf(w, "GPS applied:      %d\n", s.GPSApplied)
	if len(s.Errors) > 0 {
		fmt.Fprintf(w, "Errors:           %d\n", len(s.Errors))
	}
}
