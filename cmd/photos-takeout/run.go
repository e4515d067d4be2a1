package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/realf/photos-takeout/internal/archive"
	"github.com/realf/photos-takeout/internal/config"
	"github.com/realf/photos-takeout/internal/database"
	applog "github.com/realf/photos-takeout/internal/log"
	"github.com/realf/photos-takeout/internal/model"
	"github.com/realf/photos-takeout/internal/pipeline"
	"github.com/realf/photos-takeout/internal/report"
	"github.com/realf/photos-takeout/internal/takeout"
	"github.com/spf13/cobra"
)

// NewRunCmd creates the run command.
func NewRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Process every Takeout archive in a directory",
		Long: `Run processes every *.zip archive in the working directory, one at a time.

For each archive, in order:
  1. The archive is extracted, producing a Takeout directory.
  2. The Takeout tree is processed: media files are copied to the output
     directory and capture times, GPS coordinates, and descriptions from
     the JSON sidecars are written back into the copies with exiftool.
  3. The Takeout directory is removed.

The batch halts on the first failure. A failed processing step leaves the
Takeout directory on disk for inspection; the archives themselves are never
deleted, so a run can always be retried.

Examples:
  # Process archives in the current directory
  photos-takeout run

  # Process archives on an external drive, four files at a time
  photos-takeout run --dir /Volumes/Backup/takeout --workers 4

  # Preview without writing anything
  photos-takeout run --dry-run

  # Replace the built-in processor with an external command
  photos-takeout run --process-cmd ./process.sh

  # Output a JSON report to a file
  photos-takeout run --json --report-file report.json

Configuration file (.photos-takeout) example:
  output: Processed
  exiftool: /opt/homebrew/bin/exiftool
  workers: 4
  skip_disk_check: true`,
		Args: cobra.NoArgs,
		RunE: runRunCmd,
	}

	cmd.Flags().StringP("dir", "d", ".",
		"Directory scanned for *.zip archives")
	cmd.Flags().StringP("output", "o", config.DefaultOutputDir,
		"Directory processed media files are written to (relative to --dir unless absolute)")
	cmd.Flags().String("exiftool", "",
		"Path to the exiftool binary (default: auto-detect)")
	cmd.Flags().Duration("exiftool-timeout", config.DefaultExiftoolTimeout,
		"Timeout for a single exiftool invocation")
	cmd.Flags().String("process-cmd", "",
		"External command to run instead of the built-in processor")
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
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .photos-takeout in --dir or home directory)")
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().String("report-file", "",
		"Write the report to the specified file path instead of stdout")

	return cmd
}

// runRunCmd executes the run command.
func runRunCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildRunConfig(cmd)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := applog.NewPrivacyLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runBatch(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildRunConfig creates a Config from the run command's flags.
// A config file, when present, is applied first; flags the user explicitly
// set override it.
func buildRunConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	var err error

	cfg.WorkDir, err = flags.GetString("dir")
	if err != nil {
		return nil, err
	}
	cfg.WorkDir, err = filepath.Abs(cfg.WorkDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve working directory: %w", err)
	}

	cfg.ConfigFilePath, err = flags.GetString("config")
	if err != nil {
		return nil, err
	}

	// If the user explicitly specified a config file path, a missing file
	// is an error. A missing default file is not.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath, cfg.WorkDir)
	if configPath != "" {
		cf, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		cf.Apply(cfg)
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	// String and numeric flags override the config file only when the user
	// actually set them, so file values survive a flagless invocation.
	if flags.Changed("output") || cfg.OutputDir == "" {
		if cfg.OutputDir, err = flags.GetString("output"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("exiftool") {
		if cfg.ExiftoolPath, err = flags.GetString("exiftool"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("exiftool-timeout") {
		if cfg.ExiftoolTimeout, err = flags.GetDuration("exiftool-timeout"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("process-cmd") {
		if cfg.ProcessCommand, err = flags.GetString("process-cmd"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("workers") {
		if cfg.Workers, err = flags.GetInt("workers"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("sample-size") {
		if cfg.SampleSize, err = flags.GetInt("sample-size"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("skip-no-json") {
		if cfg.SkipNoSidecar, err = flags.GetBool("skip-no-json"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("skip-disk-check") {
		if cfg.SkipDiskCheck, err = flags.GetBool("skip-disk-check"); err != nil {
			return nil, err
		}
	}

	cfg.DryRun, err = flags.GetBool("dry-run")
	if err != nil {
		return nil, err
	}

	cfg.JSONReport, err = flags.GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = flags.GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = flags.GetString("report-file")
	if err != nil {
		return nil, err
	}

	cfg.Verbose = getVerboseFlag(cmd)

	// Always save run history using the XDG data directory.
	cfg.SaveToDB = true
	cfg.DBDir = config.XDGDataDir()

	return cfg, nil
}

// runBatch executes the batch over cfg.WorkDir.
func runBatch(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting batch run",
		"dir", cfg.WorkDir,
		"output", cfg.OutputDir,
		"workers", cfg.Workers,
		"dryRun", cfg.DryRun,
	)

	var db *database.HistoryDB
	if cfg.SaveToDB {
		var err error
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			// History is best effort: a broken database must not block
			// the batch itself.
			logger.Error("failed to open history database", "dir", cfg.DBDir, "error", err)
			db = nil
		} else {
			defer db.Close()
		}
	}

	processor, err := buildProcessor(cfg, logger)
	if err != nil {
		return err
	}

	extractor := archive.NewZipExtractor(archive.WithLogger(logger))
	factory := func() *pipeline.Pipeline {
		p := pipeline.New(pipeline.WithLogger(logger))
		p.AddSteps(
			pipeline.NewExtractStep(extractor, cfg.WorkDir, pipeline.WithExtractLogger(logger)),
			pipeline.NewProcessStep(processor, cfg.WorkDir),
			pipeline.NewCleanupStep(cfg.WorkDir),
		)
		return p
	}

	batch := pipeline.NewBatch(factory, pipeline.WithBatchLogger(logger))
	batchReport, runErr := batch.Run(ctx, cfg.WorkDir)

	if err := outputReport(cfg, batchReport); err != nil {
		logger.Error("failed to write report", "error", err)
	}

	if db != nil {
		if id, err := db.SaveBatchReport(ctx, batchReport); err != nil {
			logger.Error("failed to save run history", "error", err)
		} else {
			logger.Info("run history saved", "id", id)
		}
	}

	return runErr
}

// buildProcessor selects the processing collaborator: an external command
// when configured, otherwise the built-in exiftool-based processor.
func buildProcessor(cfg *config.Config, logger *slog.Logger) (pipeline.Processor, error) {
	if cfg.ProcessCommand != "" {
		return pipeline.NewCommandProcessor(cfg.ProcessCommand, cfg.WorkDir), nil
	}

	exiftoolPath, err := takeout.FindExiftool(cfg.ExiftoolPath)
	if err != nil {
		return nil, err
	}

	outputDir := cfg.OutputDir
	if !filepath.IsAbs(outputDir) {
		outputDir = filepath.Join(cfg.WorkDir, outputDir)
	}

	applier := takeout.NewExiftoolApplier(exiftoolPath, takeout.WithTimeout(cfg.ExiftoolTimeout))
	return takeout.New(applier,
		takeout.WithOutputDir(outputDir),
		takeout.WithWorkers(cfg.Workers),
		takeout.WithDryRun(cfg.DryRun),
		takeout.WithSkipNoSidecar(cfg.SkipNoSidecar),
		takeout.WithSkipDiskCheck(cfg.SkipDiskCheck),
		takeout.WithSampleSize(cfg.SampleSize),
		takeout.WithProcessorLogger(logger),
	), nil
}

// outputReport writes the batch report in the requested format.
func outputReport(cfg *config.Config, batchReport *model.BatchReport) error {
	var output *os.File
	if cfg.ReportFile != "" {
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create report directory: %w", err)
			}
		}

		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create report file: %w", err)
		}
		defer f.Close()
		output = f
	} else {
		output = os.Stdout
	}

	var w report.Writer
	switch {
	case cfg.JSONReport:
		w = report.NewJSONWriter(output, report.WithPrettyPrint())
	case cfg.MarkdownReport:
		w = report.NewMarkdownWriter(output)
	default:
		w = report.NewSimpleWriter(output, report.WithVerbose(cfg.Verbose))
	}

	if _, err := w.Write(batchReport); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
