package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docdash/internal/core/domain"
)

var (
	searchLimit         int
	searchJSON          bool
	searchVectorWeight  float64
	searchLexicalWeight float64
	searchMinScore      float64
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search indexed documents",
	Long: `Ranks every indexed document against the query. The final score blends
the cosine similarity of character-frequency vectors with the fraction of
query terms found in the document:

  final = vector-weight * vector + lexical-weight * lexical

Weights, limit and threshold default to the configured values.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "maximum number of results (0 = configured)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	searchCmd.Flags().Float64Var(&searchVectorWeight, "vector-weight", 0, "weight of the vector similarity signal")
	searchCmd.Flags().Float64Var(&searchLexicalWeight, "lexical-weight", 0, "weight of the term overlap signal")
	searchCmd.Flags().Float64Var(&searchMinScore, "min-score", 0, "drop results scoring below this (0 disables the configured threshold)")
	rootCmd.AddCommand(searchCmd)
}

// resultJSON is the JSON shape of a search result.
type resultJSON struct {
	DocumentID   string   `json:"document_id"`
	Title        string   `json:"title"`
	Snippet      string   `json:"snippet"`
	FinalScore   float64  `json:"final_score"`
	VectorScore  float64  `json:"vector_score"`
	LexicalScore float64  `json:"lexical_score"`
	Headings     []string `json:"headings,omitempty"`
	Kind         string   `json:"kind"`
	Words        int      `json:"words"`
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	if searchSession == nil {
		return errNotConfigured
	}

	opts, err := searchOptionsFromFlags(cmd, searchSession.Options())
	if err != nil {
		return err
	}
	searchSession.SetOptions(opts)

	results, err := searchSession.RunNow(cmd.Context(), query)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, results)
	}
	return outputSearchTable(cmd, results)
}

// searchOptionsFromFlags overlays the flags the user set on base.
func searchOptionsFromFlags(cmd *cobra.Command, base domain.SearchOptions) (domain.SearchOptions, error) {
	flags := cmd.Flags()
	opts := base

	if flags.Changed("limit") {
		if searchLimit < 0 {
			return opts, fmt.Errorf("limit must not be negative: %w", domain.ErrInvalidInput)
		}
		opts.Limit = searchLimit
	}
	if flags.Changed("min-score") {
		minScore := searchMinScore
		opts.MinScore = &minScore
	}

	if flags.Changed("vector-weight") || flags.Changed("lexical-weight") {
		weights := domain.DefaultRankingWeights()
		if base.Weights != nil {
			weights = *base.Weights
		}
		if flags.Changed("vector-weight") {
			weights.Vector = searchVectorWeight
		}
		if flags.Changed("lexical-weight") {
			weights.Lexical = searchLexicalWeight
		}
		if err := weights.Validate(); err != nil {
			return opts, fmt.Errorf("invalid weights: %w", err)
		}
		opts.Weights = &weights
	}
	return opts, nil
}

func outputSearchJSON(cmd *cobra.Command, results []domain.ScoredResult) error {
	out := make([]resultJSON, 0, len(results))
	for i := range results {
		r := &results[i]
		out = append(out, resultJSON{
			DocumentID:   r.DocumentID,
			Title:        r.Title,
			Snippet:      r.Snippet,
			FinalScore:   r.FinalScore,
			VectorScore:  r.VectorScore,
			LexicalScore: r.LexicalScore,
			Headings:     r.Headings,
			Kind:         r.Metadata.SourceKind.String(),
			Words:        r.Metadata.WordCount,
		})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, results []domain.ScoredResult) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range results {
		r := &results[i]
		title := r.Title
		if title == "" {
			title = r.DocumentID
		}

		cmd.Printf("  [%d] %s (%.2f)\n", i+1, title, r.FinalScore)
		cmd.Printf("      vector %.2f · lexical %.2f · %d words\n",
			r.VectorScore, r.LexicalScore, r.Metadata.WordCount)
		if r.Snippet != "" {
			cmd.Printf("      %s\n", r.Snippet)
		}
		cmd.Println()
	}
	return nil
}
