package html

import (
	"context"
	"regexp"
	"strings"

	nethtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/custodia-labs/docdash/internal/core/domain"
	"github.com/custodia-labs/docdash/internal/core/ports/driven"
	"github.com/custodia-labs/docdash/internal/logger"
	"github.com/custodia-labs/docdash/internal/normalisers/plaintext"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles HTML documents.
type Normaliser struct{}

// New creates a new HTML normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SourceKind returns the kind of content this normaliser handles.
func (n *Normaliser) SourceKind() domain.SourceKind {
	return domain.SourceKindHTML
}

// Normalise extracts text and structure from HTML.
// Malformed markup never fails: the parser repairs what it can, and if it
// gives up entirely the raw input is treated as plain text.
func (n *Normaliser) Normalise(_ context.Context, raw string) (*driven.NormaliseResult, error) {
	root, err := nethtml.Parse(strings.NewReader(raw))
	if err != nil {
		logger.Debug("HTML parse failed, falling back to plain text: %v", err)
		return plaintext.Extract(raw), nil
	}

	e := &extractor{}
	e.walk(root)

	title := e.title
	if title == "" && len(e.h1) > 0 {
		title = e.h1[0]
	}

	return &driven.NormaliseResult{
		Text:        cleanText(e.body.String()),
		Title:       title,
		Headings:    e.headings,
		Description: e.description,
	}, nil
}

// skipped elements never contribute text.
var skipped = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Template: true,
	atom.Svg:      true,
}

// block elements are separated from their neighbours by a line break.
var block = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Br: true, atom.Hr: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Li: true, atom.Ul: true, atom.Ol: true, atom.Tr: true, atom.Td: true, atom.Th: true,
	atom.Table: true, atom.Blockquote: true, atom.Pre: true,
	atom.Section: true, atom.Article: true, atom.Header: true, atom.Footer: true,
	atom.Nav: true, atom.Main: true, atom.Aside: true,
}

var headingLevels = map[atom.Atom]bool{
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
}

// extractor collects everything in a single depth-first pass.
type extractor struct {
	body        strings.Builder
	title       string
	description string
	headings    []string
	h1          []string
	inHead      bool
}

func (e *extractor) walk(n *nethtml.Node) {
	if n.Type == nethtml.ElementNode {
		if skipped[n.DataAtom] {
			return
		}
		switch {
		case n.DataAtom == atom.Title:
			if e.title == "" {
				e.title = collapse(textContent(n))
			}
			return
		case n.DataAtom == atom.Meta:
			if strings.EqualFold(attr(n, "name"), "description") && e.description == "" {
				e.description = strings.TrimSpace(attr(n, "content"))
			}
			return
		case n.DataAtom == atom.Head:
			e.inHead = true
			defer func() { e.inHead = false }()
		case headingLevels[n.DataAtom]:
			if h := collapse(textContent(n)); h != "" {
				e.headings = append(e.headings, h)
				if n.DataAtom == atom.H1 {
					e.h1 = append(e.h1, h)
				}
			}
		}
	}

	if n.Type == nethtml.TextNode && !e.inHead {
		e.body.WriteString(n.Data)
	}

	isBlock := n.Type == nethtml.ElementNode && block[n.DataAtom]
	if isBlock {
		e.body.WriteByte('\n')
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		e.walk(c)
	}
	if isBlock {
		e.body.WriteByte('\n')
	}
}

// textContent concatenates all descendant text, ignoring skipped elements.
func textContent(n *nethtml.Node) string {
	var sb strings.Builder
	var walk func(*nethtml.Node)
	walk = func(n *nethtml.Node) {
		if n.Type == nethtml.ElementNode && skipped[n.DataAtom] {
			return
		}
		if n.Type == nethtml.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

func attr(n *nethtml.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

// collapse joins all whitespace runs into single spaces.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

var multiSpaces = regexp.MustCompile(`[ \t\r\f\v\x{00a0}]+`)

// cleanText collapses spaces within lines, trims every line and drops empty ones.
func cleanText(content string) string {
	lines := strings.Split(content, "\n")
	result := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(multiSpaces.ReplaceAllString(line, " "))
		if line != "" {
			result = append(result, line)
		}
	}
	return strings.Join(result, "\n")
}
