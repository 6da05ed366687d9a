package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/docdash/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/docdash/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docdash/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docdash/internal/adapters/driving/tui/views/documents"
	"github.com/custodia-labs/docdash/internal/adapters/driving/tui/views/search"
	"github.com/custodia-labs/docdash/internal/core/domain"
	"github.com/custodia-labs/docdash/internal/logger"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea. Every search session
// transition happens inside Update, so the session needs no locking.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	// styles holds the TUI styles.
	styles *styles.Styles

	// keymap holds the key bindings shared by the views.
	keymap *keymap.KeyMap

	// searchView is the live search view.
	searchView *search.View

	// documentsView lists the indexed documents.
	documentsView *documents.View

	// currentView tracks which view is active.
	currentView messages.ViewType

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	a := &App{
		ports:         ports,
		ctx:           context.Background(),
		styles:        s,
		keymap:        km,
		searchView:    search.NewView(s, km, ports.Session, ports.ResultAction),
		documentsView: documents.NewView(s, ports.Document),
		currentView:   messages.ViewSearch,
	}
	a.updateDocumentCount()
	return a, nil
}

// WithContext sets the context for the app and its views.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.searchView.WithContext(ctx)
	a.documentsView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("docdash"),
		a.searchView.Init(),
	)
}

// Update implements tea.Model.
//
//nolint:gocyclo // central message handler
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKeyMsg(msg)

	case messages.ViewChanged:
		return a, a.switchView(msg.View)

	case messages.DebounceElapsed, messages.SearchCompleted, messages.HistorySelected:
		// The session is driven from the search view whichever view is shown.
		a.searchView, cmd = a.searchView.Update(msg)
		a.err = a.searchView.Err()
		return a, cmd

	case messages.DocumentsLoaded:
		a.documentsView, cmd = a.documentsView.Update(msg)
		if msg.Err == nil {
			a.searchView.SetDocumentCount(len(msg.Documents))
		}
		return a, cmd

	case messages.FileChanged:
		return a, a.applyFileChange(msg)

	case messages.IndexChanged:
		return a, a.indexChanged(msg)

	case messages.ErrorOccurred:
		a.err = msg.Err
		switch a.currentView {
		case messages.ViewSearch:
			a.searchView, cmd = a.searchView.Update(msg)
		case messages.ViewDocuments:
			a.documentsView, cmd = a.documentsView.Update(msg)
		case messages.ViewHelp:
		}
		return a, cmd

	case messages.Quit:
		return a, tea.Quit
	}

	// Forward other messages to active view
	switch a.currentView {
	case messages.ViewSearch:
		a.searchView, cmd = a.searchView.Update(msg)
	case messages.ViewDocuments:
		a.documentsView, cmd = a.documentsView.Update(msg)
	case messages.ViewHelp:
	}
	return a, cmd
}

// handleKeyMsg applies global keys and forwards the rest to the active view.
func (a *App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}

	var cmd tea.Cmd
	switch a.currentView {
	case messages.ViewSearch:
		if msg.Type == tea.KeyTab {
			return a, a.switchView(messages.ViewDocuments)
		}
		a.searchView, cmd = a.searchView.Update(msg)
		a.err = a.searchView.Err()

	case messages.ViewDocuments:
		if msg.Type == tea.KeyTab {
			return a, a.switchView(messages.ViewSearch)
		}
		a.documentsView, cmd = a.documentsView.Update(msg)

	case messages.ViewHelp:
		switch msg.String() {
		case "esc", "?", "q":
			return a, a.switchView(messages.ViewSearch)
		}
	}
	return a, cmd
}

// switchView activates view and returns its start-up command.
func (a *App) switchView(view messages.ViewType) tea.Cmd {
	a.currentView = view
	switch view {
	case messages.ViewDocuments:
		return a.documentsView.Init()
	case messages.ViewSearch, messages.ViewHelp:
	}
	return nil
}

// applyFileChange brings the index in line with a watched file on the
// update loop, then re-runs the current query against the new index.
func (a *App) applyFileChange(msg messages.FileChanged) tea.Cmd {
	var err error
	if msg.Deleted {
		_, err = a.ports.Document.Remove(a.ctx, msg.Path)
	} else {
		_, err = a.ports.Document.Replace(a.ctx, msg.Content, msg.Kind, msg.Path)
	}
	changed := messages.IndexChanged{Path: msg.Path, Err: err}
	return a.indexChanged(changed)
}

// indexChanged refreshes every view that depends on the index contents.
func (a *App) indexChanged(msg messages.IndexChanged) tea.Cmd {
	if msg.Err != nil {
		logger.Warn("Index update for %s failed: %v", msg.Path, msg.Err)
		a.err = msg.Err
		a.searchView.SetMessage(fmt.Sprintf("%s: %v", msg.Path, msg.Err))
		return nil
	}

	a.updateDocumentCount()
	cmds := []tea.Cmd{a.searchView.Refresh()}
	a.searchView.SetMessage("Reindexed " + msg.Path)

	if a.currentView == messages.ViewDocuments {
		var cmd tea.Cmd
		a.documentsView, cmd = a.documentsView.Update(msg)
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

// updateDocumentCount shows the index size in the status bar.
func (a *App) updateDocumentCount() {
	docs, err := a.ports.Document.List(a.ctx)
	if err != nil {
		logger.Warn("Listing documents failed: %v", err)
		return
	}
	a.searchView.SetDocumentCount(len(docs))
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewDocuments:
		return a.documentsView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.searchView.View()
	}
}

// viewHelp renders the help view.
func (a *App) viewHelp() string {
	return a.styles.Title.Render("Help") + "\n\n" +
		a.styles.Normal.Render(`Search:
  (type)      Search as you type
  enter, ↓    Move to results
  esc         Clear query
  tab         Indexed documents

Results:
  j/k, ↑/↓    Navigate results
  enter       Actions (copy snippet, open document)
  n, /        New search
  h           Recent queries
  ?           This help

Recent queries:
  enter       Run query again
  x           Clear history
  esc         Back

Global:
  ctrl+c      Quit`) + "\n\n" +
		a.styles.Help.Render("[esc] back to search")
}

// Run starts the TUI application. Changes received from watch are applied
// to the index on the update loop; watch may be nil.
func (a *App) Run(watch <-chan messages.FileChanged) error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	if watch != nil {
		go func() {
			for change := range watch {
				p.Send(change)
			}
		}()
	}
	_, err := p.Run()
	return err
}

// Query returns the current search query.
func (a *App) Query() string {
	return a.searchView.Query()
}

// Results returns the current search results.
func (a *App) Results() []domain.ScoredResult {
	return a.searchView.Results()
}

// SelectedIndex returns the currently selected result index.
func (a *App) SelectedIndex() int {
	return a.searchView.SelectedIndex()
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions on the app and its views.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.searchView.SetDimensions(width, height)
	a.documentsView.SetDimensions(width, height)
}
