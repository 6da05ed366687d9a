// Package cli provides the docdash command line interface.
// It is a driving adapter over the core services.
package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docdash/internal/connectors/filesystem"
	"github.com/custodia-labs/docdash/internal/core/ports/driving"
	"github.com/custodia-labs/docdash/internal/logger"
)

// version is reported by the version command.
var version = "dev"

// Services the commands run against. Set once by main via SetServices.
var (
	documentService     driving.DocumentService
	searchSession       driving.SearchSession
	resultActionService driving.ResultActionService
	settingsService     driving.SettingsService
	indexer             *filesystem.Indexer
)

// Persistent flags.
var (
	verbose   bool
	pathFlags []string
)

// errNotConfigured is returned by commands run before SetServices.
var errNotConfigured = errors.New("services not configured")

// Services groups everything the commands need.
type Services struct {
	Document     driving.DocumentService
	Session      driving.SearchSession
	ResultAction driving.ResultActionService
	Settings     driving.SettingsService
	Indexer      *filesystem.Indexer
}

// SetServices installs the services used by every command.
func SetServices(s *Services) {
	if s == nil {
		s = &Services{}
	}
	documentService = s.Document
	searchSession = s.Session
	resultActionService = s.ResultAction
	settingsService = s.Settings
	indexer = s.Indexer
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

var rootCmd = &cobra.Command{
	Use:   "docdash",
	Short: "Search local documents as you type",
	Long: `docdash indexes local text, HTML and Markdown files into an in-memory index and
ranks them against queries by blending character-frequency vector similarity
with literal term overlap.

Files come from the index.paths setting and every --path flag. Use the tui
command for a live, debounced search dashboard.`,
	SilenceUsage:      true,
	PersistentPreRunE: ingestStartupPaths,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log diagnostics to stderr")
	rootCmd.PersistentFlags().StringSliceVar(&pathFlags, "path", nil, "file or directory to index at startup (repeatable)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ingestStartupPaths fills the index from configured and flagged paths
// before any command runs.
func ingestStartupPaths(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	paths := startupPaths()
	if len(paths) == 0 || indexer == nil {
		return nil
	}

	report, err := indexer.IndexPaths(cmd.Context(), paths)
	if err != nil {
		return fmt.Errorf("indexing startup paths: %w", err)
	}
	for path, reason := range report.Failed {
		logger.Warn("Skipped %s: %v", path, reason)
	}
	return nil
}

// startupPaths returns the configured paths followed by the flagged ones.
func startupPaths() []string {
	var paths []string
	if settingsService != nil {
		if settings, err := settingsService.Get(); err == nil {
			paths = append(paths, settings.Index.Paths...)
		}
	}
	return append(paths, pathFlags...)
}
