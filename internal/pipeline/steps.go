package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/realf/photos-takeout/internal/archive"
	"github.com/realf/photos-takeout/internal/config"
	"github.com/realf/photos-takeout/internal/model"
)

// ExtractStep expands the archive into the working directory.
//
// The extracted Takeout tree is owned exclusively by the current archive's
// iteration: the step refuses to run when a tree already exists, because a
// leftover tree means a previous run failed mid-pipeline and its contents
// would be silently merged into this archive's output.
type ExtractStep struct {
	// extractor expands the archive.
	extractor archive.Extractor

	// workDir is the directory archives are expanded into.
	workDir string

	// treeName is the well-known extraction directory name.
	treeName string

	// logger for structured logging.
	logger *slog.Logger
}

// ExtractStepOption configures an ExtractStep.
type ExtractStepOption func(*ExtractStep)

// WithExtractLogger sets a custom logger for the extract step.
func WithExtractLogger(logger *slog.Logger) ExtractStepOption {
	return func(s *ExtractStep) {
		s.logger = logger
	}
}

// NewExtractStep creates an extract step expanding archives into workDir.
func NewExtractStep(extractor archive.Extractor, workDir string, opts ...ExtractStepOption) *ExtractStep {
	s := &ExtractStep{
		extractor: extractor,
		workDir:   workDir,
		treeName:  config.TakeoutDirName,
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *ExtractStep) Name() string {
	return "extract"
}

// Do expands the archive into the working directory.
func (s *ExtractStep) Do(ctx context.Context, result *model.ArchiveResult) error {
	tree := filepath.Join(s.workDir, s.treeName)
	if _, err := os.Stat(tree); err == nil {
		return fmt.Errorf("%s already exists: remove the leftover directory from a previous run before retrying", tree)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to check %s: %w", tree, err)
	}

	if err := s.extractor.Extract(ctx, result.Path, s.workDir); err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	if _, err := os.Stat(tree); err != nil {
		return fmt.Errorf("archive did not produce a %s directory: %w", s.treeName, err)
	}

	return nil
}

// Processor is the external collaborator contract: it reads the extracted
// Takeout tree and signals success or failure through its error return.
// The built-in implementation is takeout.Processor; CommandProcessor runs
// an arbitrary external program instead.
type Processor interface {
	Process(ctx context.Context, sourceDir string) (*model.Stats, error)
}

// ProcessStep invokes the processing collaborator on the extracted tree.
type ProcessStep struct {
	// processor is the collaborator that consumes the Takeout tree.
	processor Processor

	// workDir is the batch working directory.
	workDir string

	// treeName is the well-known extraction directory name.
	treeName string
}

// NewProcessStep creates a process step running processor against the
// Takeout tree inside workDir.
func NewProcessStep(processor Processor, workDir string) *ProcessStep {
	return &ProcessStep{
		processor: processor,
		workDir:   workDir,
		treeName:  config.TakeoutDirName,
	}
}

// Name returns the step name.
func (s *ProcessStep) Name() string {
	return "process"
}

// Do runs the collaborator. Its statistics, when available, are stored on
// the result for reporting.
func (s *ProcessStep) Do(ctx context.Context, result *model.ArchiveResult) error {
	stats, err := s.processor.Process(ctx, filepath.Join(s.workDir, s.treeName))
	result.Stats = stats
	if err != nil {
		return fmt.Errorf("processing failed: %w", err)
	}
	return nil
}

// CommandProcessor runs an external program as the processing collaborator.
// The program is invoked with no arguments from the working directory; its
// exit status is the success/failure signal. Stats are unavailable in this
// mode.
type CommandProcessor struct {
	// command is the program to run.
	command string

	// workDir is the directory the program runs from.
	workDir string
}

// NewCommandProcessor creates a collaborator that shells out to command.
func NewCommandProcessor(command, workDir string) *CommandProcessor {
	return &CommandProcessor{
		command: command,
		workDir: workDir,
	}
}

// Process runs the external command and propagates its exit status.
func (c *CommandProcessor) Process(ctx context.Context, _ string) (*model.Stats, error) {
	cmd := exec.CommandContext(ctx, c.command) //nolint:gosec // Running a user-specified processor is the point
	cmd.Dir = c.workDir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("command %s: %w", c.command, err)
	}

	return nil, nil
}

// CleanupStep removes the extracted Takeout tree after processing
// succeeds. It runs only when every prior step completed, so a processing
// failure leaves the tree on disk for inspection.
type CleanupStep struct {
	// workDir is the batch working directory.
	workDir string

	// treeName is the well-known extraction directory name.
	treeName string
}

// NewCleanupStep creates a cleanup step removing the Takeout tree in
// workDir.
func NewCleanupStep(workDir string) *CleanupStep {
	return &CleanupStep{
		workDir:  workDir,
		treeName: config.TakeoutDirName,
	}
}

// Name returns the step name.
func (s *CleanupStep) Name() string {
	return "cleanup"
}

// Do recursively and forcibly removes the Takeout tree.
func (s *CleanupStep) Do(_ context.Context, _ *model.ArchiveResult) error {
	tree := filepath.Join(s.workDir, s.treeName)
	if err := os.RemoveAll(tree); err != nil {
		return fmt.Errorf("cleanup failed: %w", err)
	}
	return nil
}
