package cli

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docdash/internal/core/domain"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change settings",
	Long: `Shows the effective settings: the config file, overridden by DOCDASH_*
environment variables, falling back to defaults.

Use 'config set KEY VALUE' to change a value in the config file.`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Change a setting",
	Long: `Changes one setting and saves it to the config file.

Keys:
  index.dimensions        vector length (takes effect for new sessions)
  index.paths             comma separated files or directories
  index.watch             true or false
  ranking.vector_weight   weight of vector similarity
  ranking.lexical_weight  weight of term overlap
  snippet.window_words    snippet length in words
  search.limit            maximum results (0 = no limit)
  search.min_score        score threshold (0 = off)
  session.debounce_ms     typing pause before a query runs
  session.history_size    number of recent queries kept`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

func init() {
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

// settingSetters parse a value into the matching field.
var settingSetters = map[string]func(s *domain.AppSettings, value string) error{
	"index.dimensions": func(s *domain.AppSettings, v string) error {
		return parseInt(v, &s.Index.Dimensions)
	},
	"index.paths": func(s *domain.AppSettings, v string) error {
		s.Index.Paths = nil
		for _, p := range strings.Split(v, ",") {
			if p = strings.TrimSpace(p); p != "" {
				s.Index.Paths = append(s.Index.Paths, p)
			}
		}
		return nil
	},
	"index.watch": func(s *domain.AppSettings, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%q is not a boolean: %w", v, domain.ErrInvalidInput)
		}
		s.Index.Watch = b
		return nil
	},
	"ranking.vector_weight": func(s *domain.AppSettings, v string) error {
		return parseFloat(v, &s.Ranking.Vector)
	},
	"ranking.lexical_weight": func(s *domain.AppSettings, v string) error {
		return parseFloat(v, &s.Ranking.Lexical)
	},
	"snippet.window_words": func(s *domain.AppSettings, v string) error {
		return parseInt(v, &s.Snippet.WindowWords)
	},
	"search.limit": func(s *domain.AppSettings, v string) error {
		return parseInt(v, &s.Search.Limit)
	},
	"search.min_score": func(s *domain.AppSettings, v string) error {
		return parseFloat(v, &s.Search.MinScore)
	},
	"session.debounce_ms": func(s *domain.AppSettings, v string) error {
		var ms int
		if err := parseInt(v, &ms); err != nil {
			return err
		}
		s.Session.Debounce = time.Duration(ms) * time.Millisecond
		return nil
	},
	"session.history_size": func(s *domain.AppSettings, v string) error {
		return parseInt(v, &s.Session.HistorySize)
	},
}

func parseInt(v string, dst *int) error {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return fmt.Errorf("%q is not an integer: %w", v, domain.ErrInvalidInput)
	}
	*dst = n
	return nil
}

func parseFloat(v string, dst *float64) error {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return fmt.Errorf("%q is not a number: %w", v, domain.ErrInvalidInput)
	}
	*dst = f
	return nil
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errNotConfigured
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("[index]")
	cmd.Printf("  dimensions = %d\n", settings.Index.Dimensions)
	cmd.Printf("  paths = %s\n", formatPaths(settings.Index.Paths))
	cmd.Printf("  watch = %t\n", settings.Index.Watch)
	cmd.Println()
	cmd.Println("[ranking]")
	cmd.Printf("  vector_weight = %g\n", settings.Ranking.Vector)
	cmd.Printf("  lexical_weight = %g\n", settings.Ranking.Lexical)
	cmd.Println()
	cmd.Println("[snippet]")
	cmd.Printf("  window_words = %d\n", settings.Snippet.WindowWords)
	cmd.Println()
	cmd.Println("[search]")
	cmd.Printf("  limit = %d\n", settings.Search.Limit)
	cmd.Printf("  min_score = %g\n", settings.Search.MinScore)
	cmd.Println()
	cmd.Println("[session]")
	cmd.Printf("  debounce_ms = %d\n", settings.Session.Debounce.Milliseconds())
	cmd.Printf("  history_size = %d\n", settings.Session.HistorySize)
	return nil
}

func formatPaths(paths []string) string {
	if len(paths) == 0 {
		return "(none)"
	}
	return strings.Join(paths, ", ")
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errNotConfigured
	}

	key, value := args[0], args[1]
	set, ok := settingSetters[key]
	if !ok {
		keys := make([]string, 0, len(settingSetters))
		for k := range settingSetters {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return fmt.Errorf("unknown setting %q (known: %s): %w",
			key, strings.Join(keys, ", "), domain.ErrInvalidInput)
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	if err := set(settings, value); err != nil {
		return err
	}
	if err := settingsService.Save(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	cmd.Printf("Set %s = %s\n", key, value)
	return nil
}
