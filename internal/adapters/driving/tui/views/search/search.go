// Package search provides the live search view for the TUI.
package search

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/docdash/internal/adapters/driving/tui/components/history"
	"github.com/custodia-labs/docdash/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/docdash/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/docdash/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/docdash/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/docdash/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docdash/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docdash/internal/core/domain"
	"github.com/custodia-labs/docdash/internal/core/ports/driving"
)

// sidePanelMinWidth is the narrowest terminal that shows the history panel
// beside the results instead of only while it has focus.
const sidePanelMinWidth = 100

// historyWidth is the width of the recent queries panel.
const historyWidth = 32

// Action menu entries.
const (
	actionCopy   = "Copy snippet"
	actionOpen   = "Open document"
	actionCancel = "Cancel"
)

// focusArea is the part of the view receiving keys.
type focusArea int

const (
	focusInput focusArea = iota
	focusResults
	focusHistory
)

// ActionMenu represents a simple action selection overlay.
type ActionMenu struct {
	actions  []string
	selected int
	visible  bool
	result   *domain.ScoredResult
}

// View is the live search view: the query input drives a debounced
// search session whose results, history and state are shown as they settle.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.QueryInput
	list      *list.ResultList
	history   *history.Panel
	statusbar *status.Bar

	session       driving.SearchSession
	actionService driving.ResultActionService
	ctx           context.Context

	width      int
	height     int
	ready      bool
	focus      focusArea
	actionMenu *ActionMenu
}

// NewView creates a new search view.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	session driving.SearchSession,
	actionService driving.ResultActionService,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	v := &View{
		styles:        s,
		keymap:        km,
		input:         input.NewQueryInput(s),
		list:          list.NewResultList(s),
		history:       history.NewPanel(s),
		statusbar:     status.NewBar(s, km),
		session:       session,
		actionService: actionService,
		ctx:           context.Background(),
		width:         80,
		height:        24,
		focus:         focusInput,
	}
	if session != nil {
		v.history.SetEntries(session.History())
	}
	return v
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the search view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.DebounceElapsed:
		return v, v.dispatch(msg.Token)

	case messages.SearchCompleted:
		v.complete(msg.Response)
		return v, nil

	case messages.HistorySelected:
		v.input.SetValue(msg.Query)
		v.setFocus(focusInput)
		return v, v.setQuery(msg.Query)

	case messages.ErrorOccurred:
		v.statusbar.SetState(domain.SearchStateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return v, nil
	}

	// Cursor blink and other component messages.
	var cmd tea.Cmd
	v.input, cmd, _ = v.input.Update(msg)
	return v, cmd
}

// handleKeyMsg routes keys to the focused area.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if v.actionMenu != nil && v.actionMenu.visible {
		return v.handleActionMenuKey(msg)
	}

	switch v.focus {
	case focusHistory:
		return v.handleHistoryKey(msg)
	case focusResults:
		return v.handleResultsKey(msg)
	default:
		return v.handleInputKey(msg)
	}
}

// handleInputKey processes keys while typing. Every edit re-arms the debounce.
func (v *View) handleInputKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	//nolint:exhaustive // handling only relevant key types
	switch msg.Type {
	case tea.KeyEsc:
		if v.input.Value() == "" {
			return v, nil
		}
		v.input.Reset()
		return v, v.setQuery("")
	case tea.KeyEnter, tea.KeyDown:
		if !v.list.IsEmpty() {
			v.setFocus(focusResults)
		}
		return v, nil
	}

	var cmd tea.Cmd
	var changed bool
	v.input, cmd, changed = v.input.Update(msg)
	if !changed {
		return v, cmd
	}
	return v, tea.Batch(cmd, v.setQuery(v.input.Value()))
}

// handleResultsKey processes keys while navigating results.
func (v *View) handleResultsKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if result := v.list.SelectedResult(); result != nil {
			v.actionMenu = &ActionMenu{
				actions: []string{actionCopy, actionOpen, actionCancel},
				visible: true,
				result:  result,
			}
		}
	case "up", "k":
		v.list.MoveUp()
	case "down", "j":
		v.list.MoveDown()
	case "n", "/", "esc":
		v.setFocus(focusInput)
		return v, v.input.Focus()
	case "h":
		v.setFocus(focusHistory)
	case "?":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewHelp}
		}
	}
	return v, nil
}

// handleHistoryKey processes keys while the recent queries panel has focus.
func (v *View) handleHistoryKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		v.history.MoveUp()
	case "down", "j":
		v.history.MoveDown()
	case "enter":
		if q, ok := v.history.Selected(); ok {
			return v, func() tea.Msg { return messages.HistorySelected{Query: q} }
		}
	case "x":
		v.clearHistory()
	case "esc", "h":
		if v.list.IsEmpty() {
			v.setFocus(focusInput)
			return v, v.input.Focus()
		}
		v.setFocus(focusResults)
	}
	return v, nil
}

// handleActionMenuKey processes keyboard input when action menu is visible.
func (v *View) handleActionMenuKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.actionMenu.selected > 0 {
			v.actionMenu.selected--
		}
	case "down", "j":
		if v.actionMenu.selected < len(v.actionMenu.actions)-1 {
			v.actionMenu.selected++
		}
	case "enter":
		action := v.actionMenu.actions[v.actionMenu.selected]
		result := v.actionMenu.result
		v.actionMenu = nil
		return v.executeAction(action, result)
	case "esc":
		v.actionMenu = nil
	}
	return v, nil
}

// executeAction performs the selected action on a result.
func (v *View) executeAction(action string, result *domain.ScoredResult) (*View, tea.Cmd) {
	if result == nil {
		return v, nil
	}

	switch action {
	case actionCopy:
		if v.actionService == nil {
			v.statusbar.SetMessage("Copy not available")
			break
		}
		if err := v.actionService.CopyToClipboard(v.ctx, result); err != nil {
			v.statusbar.SetMessage("Copy: " + err.Error())
		} else {
			v.statusbar.SetMessage("Copied to clipboard")
		}
	case actionOpen:
		if v.actionService == nil {
			v.statusbar.SetMessage("Open not available")
			break
		}
		if err := v.actionService.OpenDocument(v.ctx, result); err != nil {
			v.statusbar.SetMessage("Open: " + err.Error())
		} else {
			v.statusbar.SetMessage("Opening document...")
		}
	}
	return v, nil
}

// setQuery hands new query text to the session and arms its debounce timer.
func (v *View) setQuery(text string) tea.Cmd {
	if v.session == nil {
		return func() tea.Msg { return messages.ErrorOccurred{Err: ErrNoSearchSession} }
	}
	timer, ok := v.session.SetQuery(text)
	if !ok {
		v.list.SetResults(nil, "")
	}
	v.sync()
	if !ok {
		return nil
	}
	return debounce(timer)
}

// debounce schedules the DebounceElapsed message for timer.
func debounce(timer domain.DebounceTimer) tea.Cmd {
	return tea.Tick(timer.Delay, func(time.Time) tea.Msg {
		return messages.DebounceElapsed{Token: timer.Token}
	})
}

// dispatch releases the query when token is still current and runs it
// off the loop.
func (v *View) dispatch(token uint64) tea.Cmd {
	if v.session == nil {
		return nil
	}
	d, ok := v.session.TimerFired(token)
	if !ok {
		return nil
	}
	v.sync()

	session, ctx := v.session, v.ctx
	return func() tea.Msg {
		return messages.SearchCompleted{Response: session.Execute(ctx, d)}
	}
}

// complete applies a response unless the session reports it stale.
func (v *View) complete(resp domain.QueryResponse) {
	if v.session == nil || !v.session.Complete(v.ctx, resp) {
		return
	}
	v.list.SetResults(v.session.Results(), resp.Query)
	v.history.SetEntries(v.session.History())
	if v.list.IsEmpty() && v.focus == focusResults {
		v.setFocus(focusInput)
	}
	v.sync()
}

// Refresh re-runs the current query, after the index changed.
func (v *View) Refresh() tea.Cmd {
	if v.session == nil {
		return nil
	}
	timer, ok := v.session.Refresh()
	v.sync()
	if !ok {
		return nil
	}
	return debounce(timer)
}

// clearHistory forgets the recent queries.
func (v *View) clearHistory() {
	if v.session == nil {
		return
	}
	if err := v.session.ClearHistory(v.ctx); err != nil {
		v.statusbar.SetMessage("Clear history: " + err.Error())
	} else {
		v.statusbar.SetMessage("History cleared")
	}
	v.history.SetEntries(v.session.History())
}

// sync mirrors the session state into the status bar.
func (v *View) sync() {
	if v.session == nil {
		return
	}
	v.statusbar.SetState(v.session.State())
	v.statusbar.SetResultCount(v.list.Count())
	if err := v.session.Err(); err != nil {
		v.statusbar.SetMessage(err.Error())
	} else if v.session.State() != domain.SearchStateIdle {
		v.statusbar.SetMessage("")
	}
}

// setFocus moves keyboard focus and updates the hints to match.
func (v *View) setFocus(f focusArea) {
	v.focus = f
	switch f {
	case focusInput:
		v.history.Blur()
		v.input.Focus()
		v.statusbar.SetMode(status.ModeInput)
	case focusResults:
		v.input.Blur()
		v.history.Blur()
		v.statusbar.SetMode(status.ModeResults)
	case focusHistory:
		v.input.Blur()
		v.history.Focus()
		v.statusbar.SetMode(status.ModeHistory)
	}
}

// View renders the search view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 10)
	sections = append(sections, v.styles.Title.Render("docdash"), "", v.input.View(), "")

	if v.session != nil && v.session.Err() != nil {
		sections = append(sections, v.styles.Error.Render("Error: "+v.session.Err().Error()), "")
	}

	main := v.list.View()
	switch {
	case v.width >= sidePanelMinWidth:
		main = lipgloss.JoinHorizontal(lipgloss.Top, main, "  ", v.history.View())
	case v.focus == focusHistory:
		main = lipgloss.JoinVertical(lipgloss.Left, v.history.View(), "", main)
	}
	sections = append(sections, main)

	if v.actionMenu != nil && v.actionMenu.visible {
		sections = append(sections, "", v.renderActionMenu())
	}

	sections = append(sections, "", v.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderActionMenu renders the action menu overlay.
func (v *View) renderActionMenu() string {
	lines := make([]string, 0, len(v.actionMenu.actions))
	for i, action := range v.actionMenu.actions {
		if i == v.actionMenu.selected {
			lines = append(lines, v.styles.Selected.Render("> "+action))
		} else {
			lines = append(lines, v.styles.Normal.Render("  "+action))
		}
	}
	return v.styles.Border.Padding(0, 1).Render(strings.Join(lines, "\n"))
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	listWidth := width
	if width >= sidePanelMinWidth {
		listWidth = width - historyWidth - 2
	}
	v.input.SetWidth(width)
	v.list.SetDimensions(listWidth, height-10)
	v.history.SetWidth(historyWidth)
	v.statusbar.SetWidth(width)
}

// SetDocumentCount shows the index size in the status bar.
func (v *View) SetDocumentCount(n int) {
	v.statusbar.SetDocumentCount(n)
}

// SetMessage shows a transient message in the status bar.
func (v *View) SetMessage(msg string) {
	v.statusbar.SetMessage(msg)
}

// Width returns the current width.
func (v *View) Width() int {
	return v.width
}

// Height returns the current height.
func (v *View) Height() int {
	return v.height
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// Query returns the text in the query input.
func (v *View) Query() string {
	return v.input.Value()
}

// Results returns the results on display.
func (v *View) Results() []domain.ScoredResult {
	return v.list.Results()
}

// SelectedIndex returns the index of the selected result.
func (v *View) SelectedIndex() int {
	return v.list.Selected()
}

// SelectedResult returns the currently selected result.
func (v *View) SelectedResult() *domain.ScoredResult {
	return v.list.SelectedResult()
}

// Err returns the failure of the latest query, if any.
func (v *View) Err() error {
	if v.session == nil {
		return nil
	}
	return v.session.Err()
}

// StatusMessage returns the message shown in the status bar.
func (v *View) StatusMessage() string {
	return v.statusbar.Message()
}

// Reset clears the query and returns focus to the input.
func (v *View) Reset() tea.Cmd {
	v.actionMenu = nil
	v.input.Reset()
	v.setFocus(focusInput)
	v.statusbar.SetMessage("")
	cmd := v.setQuery("")
	return tea.Batch(cmd, v.input.Focus())
}

// InputFocused returns whether the query input has focus.
func (v *View) InputFocused() bool {
	return v.focus == focusInput
}

// HistoryFocused returns whether the recent queries panel has focus.
func (v *View) HistoryFocused() bool {
	return v.focus == focusHistory
}

// ActionMenuVisible returns whether the action menu is open.
func (v *View) ActionMenuVisible() bool {
	return v.actionMenu != nil && v.actionMenu.visible
}
