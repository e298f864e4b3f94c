package lsp

import (
	"go.lsp.dev/protocol"

	"github.com/cristianoliveira/htmx-lsp/analysis"
	"github.com/cristianoliveira/htmx-lsp/syntax"
)

// pointRange converts a tree span into an LSP range over text. Tree columns
// count bytes, LSP characters count UTF-16 code units.
func pointRange(text []byte, start, end analysis.Point) protocol.Range {
	return protocol.Range{
		Start: protocol.Position{Line: start.Row, Character: syntax.CharacterAt(text, start)},
		End:   protocol.Position{Line: end.Row, Character: syntax.CharacterAt(text, end)},
	}
}

func rangePtr(r protocol.Range) *protocol.Range {
	return &r
}
