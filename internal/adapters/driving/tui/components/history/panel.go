// Package history provides the recent queries panel for the TUI.
package history

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/custodia-labs/docdash/internal/adapters/driving/tui/styles"
)

// Panel lists recent queries, most recent first, and lets one be picked.
type Panel struct {
	styles   *styles.Styles
	entries  []string
	selected int
	focused  bool
	width    int
}

// NewPanel creates an empty, unfocused panel.
func NewPanel(s *styles.Styles) *Panel {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &Panel{styles: s, width: 30}
}

// SetEntries replaces the listed queries. The selection is kept in range.
func (p *Panel) SetEntries(entries []string) {
	p.entries = entries
	if p.selected >= len(entries) {
		p.selected = max(len(entries)-1, 0)
	}
}

// Entries returns the listed queries.
func (p *Panel) Entries() []string {
	return p.entries
}

// Focus gives the panel keyboard focus and selects the newest query.
func (p *Panel) Focus() {
	p.focused = true
	p.selected = 0
}

// Blur removes keyboard focus.
func (p *Panel) Blur() {
	p.focused = false
}

// Focused returns whether the panel has keyboard focus.
func (p *Panel) Focused() bool {
	return p.focused
}

// MoveUp moves selection towards newer queries.
func (p *Panel) MoveUp() {
	if p.selected > 0 {
		p.selected--
	}
}

// MoveDown moves selection towards older queries.
func (p *Panel) MoveDown() {
	if p.selected < len(p.entries)-1 {
		p.selected++
	}
}

// Selected returns the selected query, or false when the panel is empty.
func (p *Panel) Selected() (string, bool) {
	if len(p.entries) == 0 {
		return "", false
	}
	return p.entries[p.selected], true
}

// SetWidth sets the panel width.
func (p *Panel) SetWidth(width int) {
	p.width = width
}

// View renders the panel.
func (p *Panel) View() string {
	title := p.styles.Subtitle.Render(fmt.Sprintf("Recent (%d)", len(p.entries)))
	lines := []string{title}

	if len(p.entries) == 0 {
		lines = append(lines, p.styles.Muted.Render("No recent queries"))
	}
	for i, q := range p.entries {
		q = ansi.Truncate(q, max(p.width-6, 8), "...")
		switch {
		case p.focused && i == p.selected:
			lines = append(lines, p.styles.Selected.Render("> "+q))
		case p.focused:
			lines = append(lines, p.styles.Normal.Render("  "+q))
		default:
			lines = append(lines, p.styles.Muted.Render("  "+q))
		}
	}

	return p.styles.Border.Width(p.width).Padding(0, 1).Render(strings.Join(lines, "\n"))
}
