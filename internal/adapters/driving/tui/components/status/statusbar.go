// Package status provides status bar components for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/docdash/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/docdash/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docdash/internal/core/domain"
)

// Mode selects which keybinding hints are shown.
type Mode int

const (
	// ModeInput is shown while typing a query.
	ModeInput Mode = iota
	// ModeResults is shown while navigating results.
	ModeResults
	// ModeHistory is shown while the recent queries panel has focus.
	ModeHistory
)

// Bar displays the search session state, index size, a transient message
// and keybinding hints.
type Bar struct {
	styles      *styles.Styles
	keymap      *keymap.KeyMap
	state       domain.SearchState
	mode        Mode
	message     string
	resultCount int
	docCount    int
	width       int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles: s,
		keymap: km,
		state:  domain.SearchStateIdle,
		width:  80,
	}
}

// Init initialises the status bar.
func (s *Bar) Init() tea.Cmd {
	return nil
}

// Update handles status bar messages. The bar is passive.
func (s *Bar) Update(_ tea.Msg) (*Bar, tea.Cmd) {
	return s, nil
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	padding := max(s.width-lipgloss.Width(left)-lipgloss.Width(right), 1)

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

// renderLeft renders the session state, counts and message.
func (s *Bar) renderLeft() string {
	var state string
	switch s.state {
	case domain.SearchStateDebouncing:
		state = s.styles.Warning.Render("● typing")
	case domain.SearchStateQuerying:
		state = s.styles.Subtitle.Render("● searching")
	case domain.SearchStateError:
		state = s.styles.Error.Render("● error")
	default:
		state = s.styles.Success.Render("● idle")
	}

	parts := []string{state, s.styles.Muted.Render(fmt.Sprintf("%d docs", s.docCount))}
	if s.resultCount > 0 {
		parts = append(parts, s.styles.Normal.Render(fmt.Sprintf("%d results", s.resultCount)))
	}
	if s.message != "" {
		msgStyle := s.styles.Normal
		if s.state == domain.SearchStateError {
			msgStyle = s.styles.Error
		}
		parts = append(parts, msgStyle.Render(s.message))
	}
	return strings.Join(parts, "  ")
}

// renderRight renders keybinding hints for the current mode.
func (s *Bar) renderRight() string {
	var bindings []key.Binding
	switch s.mode {
	case ModeResults:
		bindings = s.keymap.ResultsHelp()
	case ModeHistory:
		bindings = s.keymap.HistoryHelp()
	default:
		bindings = s.keymap.ShortHelp()
	}

	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetState sets the session state shown.
func (s *Bar) SetState(state domain.SearchState) {
	s.state = state
}

// State returns the session state shown.
func (s *Bar) State() domain.SearchState {
	return s.state
}

// SetMode sets which hints are shown.
func (s *Bar) SetMode(mode Mode) {
	s.mode = mode
}

// Mode returns the hint mode.
func (s *Bar) Mode() Mode {
	return s.mode
}

// SetMessage sets a transient message.
func (s *Bar) SetMessage(message string) {
	s.message = message
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// SetResultCount sets the result count.
func (s *Bar) SetResultCount(count int) {
	s.resultCount = count
}

// ResultCount returns the current result count.
func (s *Bar) ResultCount() int {
	return s.resultCount
}

// SetDocumentCount sets the number of indexed documents.
func (s *Bar) SetDocumentCount(count int) {
	s.docCount = count
}

// DocumentCount returns the number of indexed documents shown.
func (s *Bar) DocumentCount() int {
	return s.docCount
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width returns the current width.
func (s *Bar) Width() int {
	return s.width
}

// Clear resets the status bar to its idle state. The document count is kept.
func (s *Bar) Clear() {
	s.state = domain.SearchStateIdle
	s.mode = ModeInput
	s.message = ""
	s.resultCount = 0
}
