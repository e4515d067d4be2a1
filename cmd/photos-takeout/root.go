package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for photos-takeout.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "photos-takeout",
		Short: "Batch-process Google Takeout photo archives",
		Long: `photos-takeout restores the metadata Google strips from Takeout exports.

It processes every *.zip archive in the working directory, one at a time:
the archive is extracted, the resulting Takeout tree is processed (capture
times, GPS coordinates, and descriptions from the JSON sidecars are written
back into the media files), and the tree is removed. The batch halts on the
first failure so nothing is silently skipped.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewRunCmd())
	cmd.AddCommand(NewProcessCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
