// Package documents provides the indexed documents view for the TUI.
package documents

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/custodia-labs/docdash/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docdash/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docdash/internal/core/domain"
	"github.com/custodia-labs/docdash/internal/core/ports/driving"
)

// ErrNoDocumentService indicates that no document service was provided.
var ErrNoDocumentService = errors.New("document service not available")

// previewWords is how much normalised text the details pane shows.
const previewWords = 60

// ActionOption represents a document action.
type ActionOption int

const (
	ActionShowDetails ActionOption = iota
	ActionRemove
	ActionCancel
)

// View lists the documents in the index in ingestion order.
type View struct {
	styles          *styles.Styles
	documentService driving.DocumentService
	ctx             context.Context

	documents    []domain.DocumentEntry
	selected     int
	width        int
	height       int
	ready        bool
	err          error
	loading      bool
	showingMenu  bool
	showDetails  bool
	menuSelected ActionOption
	scrollOffset int
}

// NewView creates a new documents view.
func NewView(s *styles.Styles, documentService driving.DocumentService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:          s,
		documentService: documentService,
		ctx:             context.Background(),
		width:           80,
		height:          24,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init loads the documents.
func (v *View) Init() tea.Cmd {
	v.loading = true
	v.showingMenu = false
	v.showDetails = false
	return v.loadDocuments()
}

// loadDocuments returns a command that lists the index.
func (v *View) loadDocuments() tea.Cmd {
	docs, ctx := v.documentService, v.ctx
	return func() tea.Msg {
		if docs == nil {
			return messages.DocumentsLoaded{Err: ErrNoDocumentService}
		}
		entries, err := docs.List(ctx)
		return messages.DocumentsLoaded{Documents: entries, Err: err}
	}
}

// removeDocument returns a command that drops every entry from sourceName.
func (v *View) removeDocument(sourceName string) tea.Cmd {
	docs, ctx := v.documentService, v.ctx
	return func() tea.Msg {
		if docs == nil {
			return messages.IndexChanged{Path: sourceName, Err: ErrNoDocumentService}
		}
		_, err := docs.Remove(ctx, sourceName)
		return messages.IndexChanged{Path: sourceName, Err: err}
	}
}

// Update handles messages for the documents view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		if v.showingMenu {
			return v.handleMenuKeyMsg(msg)
		}
		return v.handleKeyMsg(msg)

	case messages.DocumentsLoaded:
		v.loading = false
		v.err = msg.Err
		if msg.Err == nil {
			v.documents = msg.Documents
			if v.selected >= len(v.documents) {
				v.selected = max(len(v.documents)-1, 0)
			}
			v.adjustScroll()
		}
		return v, nil

	case messages.IndexChanged:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		return v, v.loadDocuments()

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil
	}

	return v, nil
}

// handleKeyMsg handles key presses in list mode.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
			v.adjustScroll()
		}
	case "down", "j":
		if v.selected < len(v.documents)-1 {
			v.selected++
			v.adjustScroll()
		}
	case "enter":
		if len(v.documents) > 0 {
			v.showingMenu = true
			v.menuSelected = ActionShowDetails
		}
	case "esc":
		if v.showDetails {
			v.showDetails = false
			return v, nil
		}
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewSearch}
		}
	case "r":
		v.loading = true
		return v, v.loadDocuments()
	}

	return v, nil
}

// handleMenuKeyMsg handles key presses in action menu mode.
func (v *View) handleMenuKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.menuSelected > ActionShowDetails {
			v.menuSelected--
		}
	case "down", "j":
		if v.menuSelected < ActionCancel {
			v.menuSelected++
		}
	case "enter":
		return v.handleMenuSelect()
	case "esc":
		v.showingMenu = false
	}

	return v, nil
}

// handleMenuSelect handles selection of an action.
func (v *View) handleMenuSelect() (*View, tea.Cmd) {
	v.showingMenu = false
	doc := v.SelectedDocument()
	if doc == nil {
		return v, nil
	}

	switch v.menuSelected {
	case ActionShowDetails:
		v.showDetails = true
	case ActionRemove:
		if doc.SourceName == "" {
			v.err = fmt.Errorf("document %s has no source to remove: %w", doc.ID, domain.ErrInvalidInput)
			return v, nil
		}
		return v, v.removeDocument(doc.SourceName)
	case ActionCancel:
	}

	return v, nil
}

// adjustScroll adjusts the scroll offset to keep the selected item visible.
func (v *View) adjustScroll() {
	visibleItems := v.visibleItemCount()
	if v.selected < v.scrollOffset {
		v.scrollOffset = v.selected
	} else if v.selected >= v.scrollOffset+visibleItems {
		v.scrollOffset = v.selected - visibleItems + 1
	}
}

// visibleItemCount returns the number of items that can be displayed.
func (v *View) visibleItemCount() int {
	// Title, separator, help and padding.
	return max(v.height-8, 1)
}

// View renders the documents view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render(fmt.Sprintf("Indexed documents (%d)", len(v.documents))))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading documents..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
	case len(v.documents) == 0:
		b.WriteString(v.styles.Muted.Render("Nothing indexed yet. Start with --path or the index command."))
	case v.showingMenu:
		return b.String() + v.renderActionMenu()
	case v.showDetails:
		b.WriteString(v.renderDetails(v.SelectedDocument()))
	default:
		visibleItems := v.visibleItemCount()
		for i := v.scrollOffset; i < len(v.documents) && i < v.scrollOffset+visibleItems; i++ {
			b.WriteString(v.renderDocument(i, &v.documents[i]))
			b.WriteString("\n")
		}
		if len(v.documents) > visibleItems {
			b.WriteString("\n")
			b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  [%d-%d of %d]",
				v.scrollOffset+1,
				min(v.scrollOffset+visibleItems, len(v.documents)),
				len(v.documents))))
		}
	}

	b.WriteString("\n\n")
	b.WriteString(v.renderHelp())
	return b.String()
}

// renderDocument renders a single document line.
func (v *View) renderDocument(index int, doc *domain.DocumentEntry) string {
	indicator := "  "
	if index == v.selected {
		indicator = "> "
	}

	half := max(v.width/2-4, 10)
	title := ansi.Truncate(doc.Title, half, "...")
	source := doc.SourceName
	if ansi.StringWidth(source) > half {
		source = "..." + source[len(source)-half+3:]
	}
	info := fmt.Sprintf("%s · %d words", doc.SourceKind, doc.WordCount())

	if index == v.selected {
		return v.styles.Selected.Render(fmt.Sprintf("%s%-*s  %s", indicator, half, title, info))
	}
	return v.styles.Normal.Render(fmt.Sprintf("%s%-*s  ", indicator, half, title)) +
		v.styles.Muted.Render(info+"  "+source)
}

// renderDetails renders the metadata and opening text of doc.
func (v *View) renderDetails(doc *domain.DocumentEntry) string {
	if doc == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(v.styles.Subtitle.Render(doc.Title))
	b.WriteString("\n\n")

	fields := []struct{ label, value string }{
		{"ID", doc.ID},
		{"Source", doc.SourceName},
		{"Kind", doc.SourceKind.String()},
		{"Words", fmt.Sprintf("%d", doc.WordCount())},
		{"Indexed", doc.CreatedAt.Format("2006-01-02 15:04:05")},
		{"Description", doc.Description},
		{"Headings", strings.Join(doc.Headings, ", ")},
	}
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("%-12s", f.label)))
		b.WriteString(v.styles.Normal.Render(f.value))
		b.WriteString("\n")
	}

	words := strings.Fields(doc.NormalizedText)
	preview := strings.Join(words[:min(len(words), previewWords)], " ")
	if len(words) > previewWords {
		preview += domain.DefaultSnippetMarker
	}
	b.WriteString("\n")
	b.WriteString(v.styles.Normal.Width(max(v.width-4, 20)).Render(preview))
	return b.String()
}

// renderActionMenu renders the action menu overlay.
func (v *View) renderActionMenu() string {
	var b strings.Builder

	if doc := v.SelectedDocument(); doc != nil {
		b.WriteString(v.styles.Subtitle.Render("Actions for: " + doc.Title))
		b.WriteString("\n\n")
	}

	options := []struct {
		action ActionOption
		label  string
	}{
		{ActionShowDetails, "Show details"},
		{ActionRemove, "Remove from index"},
		{ActionCancel, "Cancel"},
	}

	for _, opt := range options {
		if v.menuSelected == opt.action {
			b.WriteString(v.styles.Selected.Render("> " + opt.label))
		} else {
			b.WriteString(v.styles.Normal.Render("  " + opt.label))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("[↑/↓] navigate  [enter] select  [esc] cancel"))
	return b.String()
}

// renderHelp renders the help footer.
func (v *View) renderHelp() string {
	if v.showDetails {
		return v.styles.Help.Render("[esc] back to list")
	}
	return v.styles.Help.Render("[↑/↓] navigate  [enter] actions  [r] reload  [esc] search")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Documents returns the current list of documents.
func (v *View) Documents() []domain.DocumentEntry {
	return v.documents
}

// SelectedIndex returns the currently selected document index.
func (v *View) SelectedIndex() int {
	return v.selected
}

// SelectedDocument returns the currently selected document.
func (v *View) SelectedDocument() *domain.DocumentEntry {
	if v.selected < len(v.documents) {
		return &v.documents[v.selected]
	}
	return nil
}

// IsShowingMenu returns true if the action menu is visible.
func (v *View) IsShowingMenu() bool {
	return v.showingMenu
}

// IsShowingDetails returns true if the details pane is visible.
func (v *View) IsShowingDetails() bool {
	return v.showDetails
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
