// Package syntax parses HTML documents with tree-sitter and hands the part of
// the tree around the cursor to the analysis package.
package syntax

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/html"

	"github.com/cristianoliveira/htmx-lsp/analysis"
)

// Grammar node types the analysis package distinguishes.
const (
	typeTagName              = "tag_name"
	typeAttribute            = "attribute"
	typeAttributeName        = "attribute_name"
	typeQuotedAttributeValue = "quoted_attribute_value"
	typeAttributeValue       = "attribute_value"
	typeError                = "ERROR"

	typeStartTag       = "start_tag"
	typeSelfClosingTag = "self_closing_tag"
	typeElement        = "element"
)

var kinds = map[string]analysis.Kind{
	typeTagName:              analysis.KindTagName,
	typeAttribute:            analysis.KindAttribute,
	typeAttributeName:        analysis.KindAttributeName,
	typeQuotedAttributeValue: analysis.KindQuotedAttributeValue,
	typeAttributeValue:       analysis.KindAttributeValue,
	typeError:                analysis.KindError,
}

// Tree is a parsed HTML document. Close must be called once it is no longer
// needed.
type Tree struct {
	raw    *sitter.Tree
	source []byte
}

// Parse parses source as HTML. A parser is created per call since tree-sitter
// parsers must not be shared between goroutines.
func Parse(ctx context.Context, source []byte) (*Tree, error) {
	parser := sitter.NewParser()
	defer parser.Close()

	parser.SetLanguage(html.GetLanguage())

	raw, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	return &Tree{raw: raw, source: source}, nil
}

// Source returns the text the tree was parsed from.
func (t *Tree) Source() []byte {
	return t.source
}

// HasError reports whether the parser had to recover anywhere in the document.
func (t *Tree) HasError() bool {
	return t.raw.RootNode().HasError()
}

// Close releases the native tree.
func (t *Tree) Close() {
	t.raw.Close()
}

// Enclosing returns the smallest subtree relevant to a cursor at p: the start
// tag the cursor is in, otherwise the recovery node holding the tag being
// typed, otherwise the nearest element, otherwise the whole document.
func (t *Tree) Enclosing(p analysis.Point) *analysis.Node {
	root := t.raw.RootNode()
	pt := sitter.Point{Row: p.Row, Column: p.Column}

	var element *sitter.Node

	for cur := root.NamedDescendantForPointRange(pt, pt); cur != nil; cur = cur.Parent() {
		switch cur.Type() {
		case typeStartTag, typeSelfClosingTag:
			return convert(cur)
		case typeError:
			if element == nil && hasTagName(cur) {
				return convertRecovery(cur, p)
			}
		case typeElement:
			if element == nil {
				element = cur
			}
		}
	}

	if element != nil {
		return convert(element)
	}

	return convert(root)
}

// Root returns the whole document.
func (t *Tree) Root() *analysis.Node {
	return convert(t.raw.RootNode())
}

// convert copies n and its named descendants. Anonymous tokens such as "<",
// "=" and quotes are dropped; their text is still reachable through the
// parent's span.
func convert(n *sitter.Node) *analysis.Node {
	out := shallow(n)

	children := namedChildren(n)
	if len(children) > 0 {
		out.Children = make([]*analysis.Node, 0, len(children))
	}

	for _, child := range children {
		out.Children = append(out.Children, convert(child))
	}

	return out
}

// convertRecovery copies an error node that swallowed the tag at p. A single
// recovery node can hold a run of earlier tags, so only the children from the
// last tag name at or before p are kept, minus completed structure that ends
// at or before p.
func convertRecovery(n *sitter.Node, p analysis.Point) *analysis.Node {
	out := shallow(n)
	children := namedChildren(n)

	from := 0

	for i, child := range children {
		if child.Type() == typeTagName && !p.Before(point(child.StartPoint())) {
			from = i
		}
	}

	for _, child := range children[from:] {
		kind := kinds[child.Type()]
		if kind == analysis.KindOther && !p.Before(point(child.EndPoint())) {
			continue
		}

		out.Children = append(out.Children, convert(child))
	}

	return out
}

func shallow(n *sitter.Node) *analysis.Node {
	return &analysis.Node{
		Kind:      kinds[n.Type()],
		Start:     point(n.StartPoint()),
		End:       point(n.EndPoint()),
		StartByte: n.StartByte(),
		EndByte:   n.EndByte(),
	}
}

func namedChildren(n *sitter.Node) []*sitter.Node {
	count := int(n.NamedChildCount())
	out := make([]*sitter.Node, 0, count)

	for i := range count {
		if child := n.NamedChild(i); child != nil {
			out = append(out, child)
		}
	}

	return out
}

func hasTagName(n *sitter.Node) bool {
	for _, child := range namedChildren(n) {
		if child.Type() == typeTagName {
			return true
		}
	}

	return false
}

func point(p sitter.Point) analysis.Point {
	return analysis.Point{Row: p.Row, Column: p.Column}
}
