package mcp

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docdash/internal/core/domain"
)

func defaultOpts() domain.SearchOptions {
	weights := domain.RankingWeights{Vector: 0.8, Lexical: 0.2}
	return domain.SearchOptions{Limit: 10, Weights: &weights}
}

func floatPtr(f float64) *float64 { return &f }

func TestServer_handleSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("returns search results", func(t *testing.T) {
		search := &mockSearchService{
			results: []domain.ScoredResult{
				{
					DocumentID:   "doc-1",
					Title:        "Test Doc",
					Snippet:      "This is the content",
					FinalScore:   0.95,
					VectorScore:  0.9,
					LexicalScore: 1,
					Headings:     []string{"Intro"},
					Metadata:     domain.ResultMetadata{WordCount: 4},
				},
			},
		}
		server, err := NewServer(&Ports{Session: newSession(search, defaultOpts())})
		require.NoError(t, err)

		_, output, err := server.handleSearch(ctx, nil, SearchInput{Query: "test"})

		require.NoError(t, err)
		assert.Equal(t, 1, output.Count)
		require.Len(t, output.Results, 1)
		r := output.Results[0]
		assert.Equal(t, "doc-1", r.DocumentID)
		assert.Equal(t, "Test Doc", r.Title)
		assert.Equal(t, "This is the content", r.Snippet)
		assert.Equal(t, 0.95, r.FinalScore)
		assert.Equal(t, 0.9, r.VectorScore)
		assert.Equal(t, 1.0, r.LexicalScore)
		assert.Equal(t, []string{"Intro"}, r.Headings)
		assert.Equal(t, 4, r.WordCount)
	})

	t.Run("uses session defaults", func(t *testing.T) {
		search := &mockSearchService{}
		server, err := NewServer(&Ports{Session: newSession(search, defaultOpts())})
		require.NoError(t, err)

		_, _, err = server.handleSearch(ctx, nil, SearchInput{Query: "test"})
		require.NoError(t, err)

		opts := search.lastOptions()
		assert.Equal(t, 10, opts.Limit)
		require.NotNil(t, opts.Weights)
		assert.Equal(t, 0.8, opts.Weights.Vector)
	})

	t.Run("per call options override and are restored", func(t *testing.T) {
		search := &mockSearchService{}
		session := newSession(search, defaultOpts())
		server, err := NewServer(&Ports{Session: session})
		require.NoError(t, err)

		_, _, err = server.handleSearch(ctx, nil, SearchInput{
			Query:         "test",
			Limit:         3,
			MinScore:      floatPtr(0.4),
			LexicalWeight: floatPtr(0.6),
		})
		require.NoError(t, err)

		opts := search.lastOptions()
		assert.Equal(t, 3, opts.Limit)
		require.NotNil(t, opts.MinScore)
		assert.Equal(t, 0.4, *opts.MinScore)
		require.NotNil(t, opts.Weights)
		assert.Equal(t, 0.8, opts.Weights.Vector, "unset weight keeps the session value")
		assert.Equal(t, 0.6, opts.Weights.Lexical)

		assert.Equal(t, 10, session.Options().Limit)
		assert.Equal(t, 0.2, session.Options().Weights.Lexical)
	})

	t.Run("zero min score disables the session threshold", func(t *testing.T) {
		search := &mockSearchService{}
		opts := defaultOpts()
		opts.MinScore = floatPtr(0.3)
		session := newSession(search, opts)
		server, err := NewServer(&Ports{Session: session})
		require.NoError(t, err)

		_, _, err = server.handleSearch(ctx, nil, SearchInput{Query: "test", MinScore: floatPtr(0)})
		require.NoError(t, err)

		got := search.lastOptions().MinScore
		require.NotNil(t, got)
		assert.Zero(t, *got)
		assert.Equal(t, 0.3, *session.Options().MinScore)
	})

	t.Run("empty query returns no results", func(t *testing.T) {
		search := &mockSearchService{}
		server, err := NewServer(&Ports{Session: newSession(search, defaultOpts())})
		require.NoError(t, err)

		_, output, err := server.handleSearch(ctx, nil, SearchInput{Query: "   "})

		require.NoError(t, err)
		assert.Equal(t, 0, output.Count)
		assert.Empty(t, search.calls)
	})

	t.Run("successful queries enter history", func(t *testing.T) {
		server, err := NewServer(&Ports{Session: newSession(&mockSearchService{}, defaultOpts())})
		require.NoError(t, err)

		for _, q := range []string{"alpha", "beta", "alpha"} {
			_, _, err = server.handleSearch(ctx, nil, SearchInput{Query: q})
			require.NoError(t, err)
		}

		_, output, err := server.handleHistory(ctx, nil, HistoryInput{})
		require.NoError(t, err)
		assert.Equal(t, []string{"alpha", "beta"}, output.Queries)
	})

	t.Run("rejects non-finite weights", func(t *testing.T) {
		search := &mockSearchService{}
		server, err := NewServer(&Ports{Session: newSession(search, defaultOpts())})
		require.NoError(t, err)

		inf := math.Inf(1)
		_, _, err = server.handleSearch(ctx, nil, SearchInput{Query: "x", VectorWeight: &inf})

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.Empty(t, search.calls)
	})

	t.Run("returns error on search failure", func(t *testing.T) {
		search := &mockSearchService{err: errors.New("search failed")}
		server, err := NewServer(&Ports{Session: newSession(search, defaultOpts())})
		require.NoError(t, err)

		_, _, err = server.handleSearch(ctx, nil, SearchInput{Query: "test"})

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrQueryFailed)
		assert.Contains(t, err.Error(), "search failed")

		_, history, err := server.handleHistory(ctx, nil, HistoryInput{})
		require.NoError(t, err)
		assert.Empty(t, history.Queries)
	})
}

func TestServer_handleIngest(t *testing.T) {
	ctx := context.Background()

	t.Run("nil document service returns error", func(t *testing.T) {
		server, err := NewServer(&Ports{Session: newSession(&mockSearchService{}, defaultOpts())})
		require.NoError(t, err)

		_, _, err = server.handleIngest(ctx, nil, IngestInput{Content: "x"})
		assert.ErrorIs(t, err, ErrMissingDocumentService)
	})

	t.Run("defaults to plain text", func(t *testing.T) {
		docs := &mockDocumentService{}
		server, err := NewServer(&Ports{Session: newSession(&mockSearchService{}, defaultOpts()), Document: docs})
		require.NoError(t, err)

		_, output, err := server.handleIngest(ctx, nil, IngestInput{Content: "hello world", SourceName: "note"})

		require.NoError(t, err)
		assert.Equal(t, "doc-new", output.DocumentID)
		assert.Equal(t, "note", output.Title)
		assert.Equal(t, "text", output.Kind)
		assert.Equal(t, 2, output.WordCount)
		assert.Equal(t, []string{"hello world"}, docs.ingested)
	})

	t.Run("accepts html", func(t *testing.T) {
		docs := &mockDocumentService{}
		server, err := NewServer(&Ports{Session: newSession(&mockSearchService{}, defaultOpts()), Document: docs})
		require.NoError(t, err)

		_, output, err := server.handleIngest(ctx, nil, IngestInput{Content: "<p>x</p>", Kind: "HTML"})

		require.NoError(t, err)
		assert.Equal(t, "html", output.Kind)
	})

	t.Run("rejects unknown kind", func(t *testing.T) {
		docs := &mockDocumentService{}
		server, err := NewServer(&Ports{Session: newSession(&mockSearchService{}, defaultOpts()), Document: docs})
		require.NoError(t, err)

		_, _, err = server.handleIngest(ctx, nil, IngestInput{Content: "x", Kind: "pdf"})

		assert.ErrorIs(t, err, domain.ErrUnsupportedType)
		assert.Empty(t, docs.ingested)
	})

	t.Run("wraps ingest failure", func(t *testing.T) {
		docs := &mockDocumentService{err: errors.New("index full")}
		server, err := NewServer(&Ports{Session: newSession(&mockSearchService{}, defaultOpts()), Document: docs})
		require.NoError(t, err)

		_, _, err = server.handleIngest(ctx, nil, IngestInput{Content: "x"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "ingesting: index full")
	})
}

func TestServer_handleListDocuments(t *testing.T) {
	ctx := context.Background()

	t.Run("lists documents in order", func(t *testing.T) {
		docs := &mockDocumentService{docs: []domain.DocumentEntry{
			{ID: "a", Title: "First", SourceName: "/a.txt", SourceKind: domain.SourceKindPlainText, NormalizedText: "one two"},
			{ID: "b", Title: "Second", SourceKind: domain.SourceKindHTML, Headings: []string{"H"}},
		}}
		server, err := NewServer(&Ports{Session: newSession(&mockSearchService{}, defaultOpts()), Document: docs})
		require.NoError(t, err)

		_, output, err := server.handleListDocuments(ctx, nil, ListDocumentsInput{})

		require.NoError(t, err)
		assert.Equal(t, 2, output.Count)
		assert.Equal(t, "a", output.Documents[0].DocumentID)
		assert.Equal(t, "/a.txt", output.Documents[0].Source)
		assert.Equal(t, 2, output.Documents[0].WordCount)
		assert.Equal(t, []string{"H"}, output.Documents[1].Headings)
	})

	t.Run("nil document service returns error", func(t *testing.T) {
		server, err := NewServer(&Ports{Session: newSession(&mockSearchService{}, defaultOpts())})
		require.NoError(t, err)

		_, _, err = server.handleListDocuments(ctx, nil, ListDocumentsInput{})
		assert.ErrorIs(t, err, ErrMissingDocumentService)
	})

	t.Run("returns error on list failure", func(t *testing.T) {
		docs := &mockDocumentService{err: errors.New("boom")}
		server, err := NewServer(&Ports{Session: newSession(&mockSearchService{}, defaultOpts()), Document: docs})
		require.NoError(t, err)

		_, _, err = server.handleListDocuments(ctx, nil, ListDocumentsInput{})
		assert.ErrorContains(t, err, "listing documents")
	})
}

func TestServer_handleHistory_Clear(t *testing.T) {
	ctx := context.Background()
	server, err := NewServer(&Ports{Session: newSession(&mockSearchService{}, defaultOpts())})
	require.NoError(t, err)

	_, _, err = server.handleSearch(ctx, nil, SearchInput{Query: "alpha"})
	require.NoError(t, err)

	_, output, err := server.handleHistory(ctx, nil, HistoryInput{Clear: true})

	require.NoError(t, err)
	assert.NotNil(t, output.Queries)
	assert.Empty(t, output.Queries)
}
