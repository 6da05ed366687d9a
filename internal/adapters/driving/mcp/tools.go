package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/docdash/internal/core/domain"
)

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query         string   `json:"query" jsonschema:"the search query"`
	Limit         int      `json:"limit,omitempty" jsonschema:"maximum number of results (default: configured limit)"`
	MinScore      *float64 `json:"min_score,omitempty" jsonschema:"drop results whose final score is below this; 0 disables the configured threshold"`
	VectorWeight  *float64 `json:"vector_weight,omitempty" jsonschema:"weight of the vector similarity signal"`
	LexicalWeight *float64 `json:"lexical_weight,omitempty" jsonschema:"weight of the term overlap signal"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single search result.
type SearchResultOutput struct {
	DocumentID   string   `json:"document_id"`
	Title        string   `json:"title"`
	Snippet      string   `json:"snippet"`
	FinalScore   float64  `json:"final_score"`
	VectorScore  float64  `json:"vector_score"`
	LexicalScore float64  `json:"lexical_score"`
	Headings     []string `json:"headings,omitempty"`
	WordCount    int      `json:"word_count"`
}

// IngestInput is the input schema for the ingest tool.
type IngestInput struct {
	Content    string `json:"content" jsonschema:"raw document content"`
	Kind       string `json:"kind,omitempty" jsonschema:"content kind: text, html or markdown (default text)"`
	SourceName string `json:"source_name,omitempty" jsonschema:"name used as the title when the content has none"`
}

// DocumentOutput summarises an index entry.
type DocumentOutput struct {
	DocumentID  string   `json:"document_id"`
	Title       string   `json:"title"`
	Source      string   `json:"source,omitempty"`
	Kind        string   `json:"kind"`
	WordCount   int      `json:"word_count"`
	Headings    []string `json:"headings,omitempty"`
	Description string   `json:"description,omitempty"`
}

// ListDocumentsInput is the input schema for the list_documents tool.
type ListDocumentsInput struct{}

// ListDocumentsOutput is the output schema for the list_documents tool.
type ListDocumentsOutput struct {
	Documents []DocumentOutput `json:"documents"`
	Count     int              `json:"count"`
}

// HistoryInput is the input schema for the history tool.
type HistoryInput struct {
	Clear bool `json:"clear,omitempty" jsonschema:"forget every recent query"`
}

// HistoryOutput is the output schema for the history tool.
type HistoryOutput struct {
	Queries []string `json:"queries"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Rank every indexed document against a query",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ingest",
		Description: "Add text, HTML or Markdown content to the index",
	}, s.handleIngest)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_documents",
		Description: "List the documents in the index in ingestion order",
	}, s.handleListDocuments)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "history",
		Description: "Show recent successful queries, most recent first, or clear them",
	}, s.handleHistory)
}

// handleSearch runs one query with per-call options layered over the
// session defaults.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session := s.ports.Session
	base := session.Options()
	opts := base
	if input.Limit > 0 {
		opts.Limit = input.Limit
	}
	if input.MinScore != nil {
		opts.MinScore = input.MinScore
	}
	if input.VectorWeight != nil || input.LexicalWeight != nil {
		weights := domain.DefaultRankingWeights()
		if base.Weights != nil {
			weights = *base.Weights
		}
		if input.VectorWeight != nil {
			weights.Vector = *input.VectorWeight
		}
		if input.LexicalWeight != nil {
			weights.Lexical = *input.LexicalWeight
		}
		if err := weights.Validate(); err != nil {
			return nil, SearchOutput{}, fmt.Errorf("invalid weights: %w", err)
		}
		opts.Weights = &weights
	}

	session.SetOptions(opts)
	results, err := session.RunNow(ctx, input.Query)
	session.SetOptions(base)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(results)),
		Count:   len(results),
	}
	for i := range results {
		r := &results[i]
		output.Results[i] = SearchResultOutput{
			DocumentID:   r.DocumentID,
			Title:        r.Title,
			Snippet:      r.Snippet,
			FinalScore:   r.FinalScore,
			VectorScore:  r.VectorScore,
			LexicalScore: r.LexicalScore,
			Headings:     r.Headings,
			WordCount:    r.Metadata.WordCount,
		}
	}
	return nil, output, nil
}

// handleIngest adds content to the index.
func (s *Server) handleIngest(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IngestInput,
) (*mcp.CallToolResult, DocumentOutput, error) {
	if s.ports.Document == nil {
		return nil, DocumentOutput{}, ErrMissingDocumentService
	}

	kind := domain.SourceKindPlainText
	if input.Kind != "" {
		parsed, err := domain.ParseSourceKind(input.Kind)
		if err != nil {
			return nil, DocumentOutput{}, err
		}
		kind = parsed
	}

	entry, err := s.ports.Document.Ingest(ctx, input.Content, kind, input.SourceName)
	if err != nil {
		return nil, DocumentOutput{}, fmt.Errorf("ingesting: %w", err)
	}
	return nil, documentOutput(entry), nil
}

// handleListDocuments lists the index.
func (s *Server) handleListDocuments(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListDocumentsInput,
) (*mcp.CallToolResult, ListDocumentsOutput, error) {
	if s.ports.Document == nil {
		return nil, ListDocumentsOutput{}, ErrMissingDocumentService
	}

	docs, err := s.ports.Document.List(ctx)
	if err != nil {
		return nil, ListDocumentsOutput{}, fmt.Errorf("listing documents: %w", err)
	}

	output := ListDocumentsOutput{
		Documents: make([]DocumentOutput, len(docs)),
		Count:     len(docs),
	}
	for i := range docs {
		output.Documents[i] = documentOutput(&docs[i])
	}
	return nil, output, nil
}

// handleHistory returns or clears the recent queries.
func (s *Server) handleHistory(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input HistoryInput,
) (*mcp.CallToolResult, HistoryOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if input.Clear {
		if err := s.ports.Session.ClearHistory(ctx); err != nil {
			return nil, HistoryOutput{}, err
		}
	}

	queries := s.ports.Session.History()
	if queries == nil {
		queries = []string{}
	}
	return nil, HistoryOutput{Queries: queries}, nil
}

func documentOutput(d *domain.DocumentEntry) DocumentOutput {
	return DocumentOutput{
		DocumentID:  d.ID,
		Title:       d.Title,
		Source:      d.SourceName,
		Kind:        d.SourceKind.String(),
		WordCount:   d.WordCount(),
		Headings:    d.Headings,
		Description: d.Description,
	}
}
