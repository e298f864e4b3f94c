package lsp

import (
	"context"
	"fmt"
	"strings"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/cristianoliveira/htmx-lsp/analysis"
	"github.com/cristianoliveira/htmx-lsp/catalog"
	"github.com/cristianoliveira/htmx-lsp/syntax"
)

// Hover handles textDocument/hover requests. Hovering an attribute name the
// catalog knows shows its documentation.
func (s *Server) Hover(ctx context.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	uri := params.TextDocument.URI

	s.logger.Debug("Hover",
		zap.String("uri", string(uri)),
		zap.Uint32("line", params.Position.Line),
		zap.Uint32("character", params.Position.Character))

	text, ok := s.documents.Get(uri)
	if !ok {
		return nil, nil //nolint:nilnil
	}

	source := []byte(text)

	tree, err := syntax.Parse(ctx, source)
	if err != nil {
		s.logger.Error("Failed to parse document", zap.String("uri", string(uri)), zap.Error(err))

		return nil, nil //nolint:nilnil
	}
	defer tree.Close()

	point := syntax.PointAt(source, params.Position.Line, params.Position.Character)

	name, ok := analysis.AttributeNameAt(tree.Enclosing(point), source, point)
	if !ok {
		return nil, nil //nolint:nilnil
	}

	attr, ok := s.catalog.Attribute(name.Text)
	if !ok {
		return nil, nil //nolint:nilnil
	}

	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.Markdown,
			Value: hoverAttribute(attr),
		},
		Range: rangePtr(pointRange(source, name.Start, name.End)),
	}, nil
}

// hoverAttribute generates hover markdown for an attribute.
func hoverAttribute(attr catalog.Attribute) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("**%s**", attr.Name))

	if attr.Description != "" {
		b.WriteString("\n\n")
		b.WriteString(attr.Description)
	}

	if len(attr.Values) > 0 {
		b.WriteString("\n\n**Values:**\n")

		for _, v := range attr.Values {
			b.WriteString(fmt.Sprintf("\n- `%s`", v.Name))

			if v.Description != "" {
				b.WriteString(": " + v.Description)
			}
		}
	}

	return b.String()
}
