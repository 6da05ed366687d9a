package cli

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docdash/internal/core/domain"
)

var indexJSON bool

var indexCmd = &cobra.Command{
	Use:   "index PATH...",
	Short: "Index files and list the resulting entries",
	Long: `Walks each path, ingests every text, HTML and Markdown file that is not hidden,
and prints the entries now in the index together with any file that
could not be ingested.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().BoolVar(&indexJSON, "json", false, "output entries as JSON")
	rootCmd.AddCommand(indexCmd)
}

// documentJSON is the JSON shape of an index entry.
type documentJSON struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Source      string    `json:"source"`
	Kind        string    `json:"kind"`
	Words       int       `json:"words"`
	Headings    []string  `json:"headings,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func runIndex(cmd *cobra.Command, args []string) error {
	if indexer == nil || documentService == nil {
		return errNotConfigured
	}

	report, err := indexer.IndexPaths(cmd.Context(), args)
	if err != nil {
		return err
	}

	docs, err := documentService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if indexJSON {
		return outputDocumentsJSON(cmd, docs)
	}

	if len(docs) == 0 {
		cmd.Println("No documents indexed.")
	} else {
		cmd.Println("Documents:")
		cmd.Println()
		for i := range docs {
			d := &docs[i]
			cmd.Printf("  %s\n", d.Title)
			cmd.Printf("    Source: %s (%s, %d words)\n", d.SourceName, d.SourceKind, d.WordCount())
			if len(d.Headings) > 0 {
				cmd.Printf("    Headings: %d\n", len(d.Headings))
			}
		}
		cmd.Println()
		cmd.Printf("Total: %d documents\n", len(docs))
	}

	if len(report.Failed) > 0 {
		failed := make([]string, 0, len(report.Failed))
		for path := range report.Failed {
			failed = append(failed, path)
		}
		sort.Strings(failed)

		cmd.Println()
		cmd.Printf("Skipped %d files:\n", len(failed))
		for _, path := range failed {
			cmd.Printf("  %s: %v\n", path, report.Failed[path])
		}
	}
	return nil
}

func outputDocumentsJSON(cmd *cobra.Command, docs []domain.DocumentEntry) error {
	out := make([]documentJSON, 0, len(docs))
	for i := range docs {
		d := &docs[i]
		out = append(out, documentJSON{
			ID:          d.ID,
			Title:       d.Title,
			Source:      d.SourceName,
			Kind:        d.SourceKind.String(),
			Words:       d.WordCount(),
			Headings:    d.Headings,
			Description: d.Description,
			CreatedAt:   d.CreatedAt,
		})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal documents: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
