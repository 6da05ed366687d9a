package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceKind_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		kind     SourceKind
		expected bool
	}{
		{name: "text is valid", kind: SourceKindPlainText, expected: true},
		{name: "html is valid", kind: SourceKindHTML, expected: true},
		{name: "markdown is valid", kind: SourceKindMarkdown, expected: true},
		{name: "empty is invalid", kind: SourceKind(""), expected: false},
		{name: "pdf is invalid", kind: SourceKind("pdf"), expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.kind.IsValid())
		})
	}
}

func TestParseSourceKind(t *testing.T) {
	tests := []struct {
		input    string
		expected SourceKind
		wantErr  bool
	}{
		{input: "text", expected: SourceKindPlainText},
		{input: "TXT", expected: SourceKindPlainText},
		{input: " plaintext ", expected: SourceKindPlainText},
		{input: "html", expected: SourceKindHTML},
		{input: "HTM", expected: SourceKindHTML},
		{input: "markdown", expected: SourceKindMarkdown},
		{input: "MD", expected: SourceKindMarkdown},
		{input: "pdf", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			kind, err := ParseSourceKind(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnsupportedType)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, kind)
		})
	}
}

func TestDocumentEntry_WordCount(t *testing.T) {
	entry := DocumentEntry{NormalizedText: "  the quick\nbrown\tfox  "}
	assert.Equal(t, 4, entry.WordCount())

	empty := DocumentEntry{}
	assert.Equal(t, 0, empty.WordCount())
}
