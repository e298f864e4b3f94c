package syntax

import (
	"bytes"
	"unicode/utf8"

	"github.com/cristianoliveira/htmx-lsp/analysis"
)

// PointAt converts an LSP position, whose character offset counts UTF-16 code
// units, into a tree point, whose column counts bytes. Characters past the end
// of the line clamp to the line end; lines past the end of the text clamp to
// the end of the text.
func PointAt(text []byte, line, character uint32) analysis.Point {
	var row uint32

	start := 0

	for row < line {
		i := bytes.IndexByte(text[start:], '\n')
		if i < 0 {
			return analysis.Point{Row: row, Column: uint32(len(text) - start)} //nolint:gosec // line lengths fit
		}

		start += i + 1
		row++
	}

	lineText := text[start:]
	if i := bytes.IndexByte(lineText, '\n'); i >= 0 {
		lineText = lineText[:i]
	}

	var units uint32

	col := 0

	for col < len(lineText) && units < character {
		r, size := utf8.DecodeRune(lineText[col:])
		if r >= 0x10000 {
			units += 2
		} else {
			units++
		}

		col += size
	}

	return analysis.Point{Row: row, Column: uint32(col)} //nolint:gosec // line lengths fit
}

// CharacterAt is the inverse of PointAt: it converts the byte column of p into
// an LSP character offset counted in UTF-16 code units.
func CharacterAt(text []byte, p analysis.Point) uint32 {
	start := 0

	for row := uint32(0); row < p.Row; row++ {
		i := bytes.IndexByte(text[start:], '\n')
		if i < 0 {
			return 0
		}

		start += i + 1
	}

	lineText := text[start:]
	if i := bytes.IndexByte(lineText, '\n'); i >= 0 {
		lineText = lineText[:i]
	}

	lineText = lineText[:min(int(p.Column), len(lineText))]

	var units uint32

	for len(lineText) > 0 {
		r, size := utf8.DecodeRune(lineText)
		if r >= 0x10000 {
			units += 2
		} else {
			units++
		}

		lineText = lineText[size:]
	}

	return units
}
