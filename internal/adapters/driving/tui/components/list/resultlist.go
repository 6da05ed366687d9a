// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/custodia-labs/docdash/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docdash/internal/core/domain"
	"github.com/custodia-labs/docdash/internal/core/services"
)

const (
	// linesPerResult is the height of one rendered result.
	linesPerResult = 4
	// scoreBarWidth is the number of cells in a score bar.
	scoreBarWidth = 10
	// maxTags is the number of headings shown next to a result.
	maxTags = 3
)

// ResultList displays ranked results in a navigable list, with the query
// terms highlighted in each snippet.
type ResultList struct {
	results  []domain.ScoredResult
	query    string
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewResultList creates a new result list component.
func NewResultList(s *styles.Styles) *ResultList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &ResultList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// Init initialises the result list.
func (r *ResultList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (r *ResultList) Update(msg tea.Msg) (*ResultList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			r.MoveUp()
		case "down", "j":
			r.MoveDown()
		}
	}
	return r, nil
}

// View renders the result list.
func (r *ResultList) View() string {
	if len(r.results) == 0 {
		if strings.TrimSpace(r.query) == "" {
			return r.styles.Muted.Render("Start typing to search")
		}
		return r.styles.Muted.Render("No results")
	}

	lines := make([]string, 0, len(r.results)*linesPerResult+2)
	header := r.styles.Subtitle.Render(fmt.Sprintf("Results (%d)", len(r.results)))
	lines = append(lines, header, "")

	visibleCount := max((r.height-2)/linesPerResult, 1)
	start := 0
	if r.selected >= visibleCount {
		start = r.selected - visibleCount + 1
	}
	end := min(start+visibleCount, len(r.results))

	for i := start; i < end; i++ {
		lines = append(lines, r.renderResult(i, &r.results[i]))
	}

	return strings.Join(lines, "\n")
}

// renderResult formats one result: title with score bar, heading tags,
// highlighted snippet and metadata.
func (r *ResultList) renderResult(index int, result *domain.ScoredResult) string {
	indicator := "  "
	if index == r.selected {
		indicator = "> "
	}

	maxTitleLen := max(r.width-scoreBarWidth-14, 10)
	title := ansi.Truncate(result.Title, maxTitleLen, "...")
	bar := r.scoreBar(result.FinalScore)
	score := fmt.Sprintf("%.2f", result.FinalScore)

	var titleLine string
	if index == r.selected {
		titleLine = r.styles.Selected.Render(fmt.Sprintf("%s%-*s", indicator, maxTitleLen, title)) +
			" " + bar + " " + r.styles.Normal.Render(score)
	} else {
		titleLine = r.styles.Normal.Render(fmt.Sprintf("%s%-*s", indicator, maxTitleLen, title)) +
			" " + bar + " " + r.styles.Muted.Render(score)
	}

	tags := make([]string, 0, maxTags)
	for i, h := range result.Headings {
		if i == maxTags {
			tags = append(tags, r.styles.Muted.Render(fmt.Sprintf("+%d", len(result.Headings)-maxTags)))
			break
		}
		tags = append(tags, r.styles.Tag.Render("#"+h))
	}
	tagLine := "    " + strings.Join(tags, " ")

	snippet := services.HighlightTerms(result.Snippet, r.query, func(term string) string {
		return r.styles.Highlight.Render(term)
	})
	snippetLine := "    " + ansi.Truncate(snippet, max(r.width-6, 20), "...")

	meta := fmt.Sprintf("    %s · %d words · vector %.2f · lexical %.2f",
		result.Metadata.SourceKind, result.Metadata.WordCount, result.VectorScore, result.LexicalScore)

	return strings.Join([]string{titleLine, tagLine, snippetLine, r.styles.Muted.Render(meta)}, "\n")
}

// scoreBar draws score as a bar of scoreBarWidth cells. Scores outside
// [0, 1] are clamped.
func (r *ResultList) scoreBar(score float64) string {
	filled := int(math.Round(math.Max(0, math.Min(1, score)) * scoreBarWidth))
	return r.styles.ScoreBar.Render(strings.Repeat("█", filled)) +
		r.styles.Muted.Render(strings.Repeat("░", scoreBarWidth-filled))
}

// SetResults replaces the results and the query used for highlighting.
func (r *ResultList) SetResults(results []domain.ScoredResult, query string) {
	r.results = results
	r.query = query
	r.selected = 0
}

// Results returns the current results.
func (r *ResultList) Results() []domain.ScoredResult {
	return r.results
}

// Query returns the query the results answer.
func (r *ResultList) Query() string {
	return r.query
}

// Selected returns the index of the selected result.
func (r *ResultList) Selected() int {
	return r.selected
}

// SetSelected sets the selected index.
func (r *ResultList) SetSelected(index int) {
	if index >= 0 && index < len(r.results) {
		r.selected = index
	}
}

// SelectedResult returns the currently selected result, or nil if none.
func (r *ResultList) SelectedResult() *domain.ScoredResult {
	if len(r.results) == 0 || r.selected < 0 || r.selected >= len(r.results) {
		return nil
	}
	return &r.results[r.selected]
}

// MoveUp moves selection up.
func (r *ResultList) MoveUp() {
	if r.selected > 0 {
		r.selected--
	}
}

// MoveDown moves selection down.
func (r *ResultList) MoveDown() {
	if r.selected < len(r.results)-1 {
		r.selected++
	}
}

// SetDimensions sets the component dimensions.
func (r *ResultList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
}

// Width returns the current width.
func (r *ResultList) Width() int {
	return r.width
}

// Height returns the current height.
func (r *ResultList) Height() int {
	return r.height
}

// Count returns the number of results.
func (r *ResultList) Count() int {
	return len(r.results)
}

// IsEmpty returns whether the list is empty.
func (r *ResultList) IsEmpty() bool {
	return len(r.results) == 0
}
