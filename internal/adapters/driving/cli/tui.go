package cli

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docdash/internal/adapters/driving/tui"
	"github.com/custodia-labs/docdash/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docdash/internal/connectors/filesystem"
)

var tuiWatch bool

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the live search dashboard",
	Long: `Launch the interactive search dashboard.

Results update as you type, once typing pauses for the configured debounce.
With --watch (or index.watch = true) files under the indexed paths are
re-indexed when they change and the current query re-runs.

Controls:
  (type)   - Search
  Enter/↓  - Move to results
  ↑/k, ↓/j - Navigate results
  h        - Recent queries
  Tab      - Indexed documents
  ?        - Help
  Ctrl+C   - Quit`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().BoolVarP(&tuiWatch, "watch", "w", false, "re-index files when they change")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	ports := tui.NewPorts(searchSession, documentService, resultActionService)
	app, err := tui.NewApp(ports)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(ctx)

	var feed <-chan messages.FileChanged
	if watchEnabled() {
		feed, err = watchStartupPaths(ctx)
		if err != nil {
			return err
		}
	}

	if err := app.Run(feed); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// watchEnabled reports whether the flag or the settings ask for watching.
func watchEnabled() bool {
	if tuiWatch {
		return true
	}
	if settingsService == nil {
		return false
	}
	settings, err := settingsService.Get()
	return err == nil && settings.Index.Watch
}

// watchStartupPaths watches the startup paths and translates each change
// into a message for the dashboard. The channel closes when ctx is done.
func watchStartupPaths(ctx context.Context) (<-chan messages.FileChanged, error) {
	paths := startupPaths()
	if len(paths) == 0 || indexer == nil {
		return nil, nil
	}

	changes, err := indexer.Watch(ctx, paths)
	if err != nil {
		return nil, fmt.Errorf("watching paths: %w", err)
	}

	feed := make(chan messages.FileChanged)
	go func() {
		defer close(feed)
		for change := range changes {
			select {
			case feed <- fileChanged(change):
			case <-ctx.Done():
				return
			}
		}
	}()
	return feed, nil
}

func fileChanged(change filesystem.Change) messages.FileChanged {
	return messages.FileChanged{
		Path:    change.File.Path,
		Kind:    change.File.Kind,
		Content: change.File.Content,
		Deleted: change.Type == filesystem.ChangeDeleted,
	}
}
