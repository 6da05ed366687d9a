// Package markdown provides the Normaliser for Markdown content.
package markdown

import (
	"context"
	"regexp"
	"strings"

	"github.com/custodia-labs/docdash/internal/core/domain"
	"github.com/custodia-labs/docdash/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles Markdown documents.
type Normaliser struct{}

// New creates a new Markdown normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SourceKind returns the kind of content this normaliser handles.
func (n *Normaliser) SourceKind() domain.SourceKind {
	return domain.SourceKindMarkdown
}

var (
	heading      = regexp.MustCompile(`^\s{0,3}(#{1,6})\s+(.*?)(\s+#+)?\s*$`)
	rule         = regexp.MustCompile(`^\s{0,3}([-*_]\s*){3,}$`)
	blockquote   = regexp.MustCompile(`^\s*(>\s?)+`)
	listMarker   = regexp.MustCompile(`^\s*([-*+]|\d+[.)])\s+`)
	images       = regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)`)
	links        = regexp.MustCompile(`\[([^\]]+)\]\([^)]*\)`)
	inlineCode   = regexp.MustCompile("`([^`]*)`")
	emphasisRuns = regexp.MustCompile(`\*{1,3}|_{2,3}|~~`)
)

// Normalise converts Markdown to plain lines of text.
// ATX headings become the entry headings; the first level one heading is
// the title. Fenced code blocks carry no searchable prose and are dropped.
func (n *Normaliser) Normalise(_ context.Context, raw string) (*driven.NormaliseResult, error) {
	result := &driven.NormaliseResult{}

	var lines []string
	var fence string
	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)

		if fence != "" {
			if strings.HasPrefix(trimmed, fence) {
				fence = ""
			}
			continue
		}
		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			fence = trimmed[:3]
			continue
		}

		if m := heading.FindStringSubmatch(line); m != nil {
			text := collapse(stripInline(m[2]))
			if text == "" {
				continue
			}
			result.Headings = append(result.Headings, text)
			if len(m[1]) == 1 && result.Title == "" {
				result.Title = text
			}
			lines = append(lines, text)
			continue
		}
		if rule.MatchString(line) {
			continue
		}

		line = blockquote.ReplaceAllString(line, "")
		line = listMarker.ReplaceAllString(line, "")
		if text := collapse(stripInline(line)); text != "" {
			lines = append(lines, text)
		}
	}

	result.Text = strings.Join(lines, "\n")
	return result, nil
}

// stripInline removes inline markup, keeping link and code text.
func stripInline(s string) string {
	s = images.ReplaceAllString(s, "")
	s = links.ReplaceAllString(s, "$1")
	s = inlineCode.ReplaceAllString(s, "$1")
	return emphasisRuns.ReplaceAllString(s, "")
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
