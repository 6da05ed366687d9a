package normalisers

import (
	"github.com/custodia-labs/docdash/internal/core/ports/driven"
	"github.com/custodia-labs/docdash/internal/normalisers/html"
	"github.com/custodia-labs/docdash/internal/normalisers/markdown"
	"github.com/custodia-labs/docdash/internal/normalisers/plaintext"
)

// Defaults returns one normaliser per supported source kind.
func Defaults() []driven.Normaliser {
	return []driven.Normaliser{
		html.New(),
		markdown.New(),
		plaintext.New(),
	}
}
