// Package analysis classifies the cursor context inside an HTML start tag so
// the server knows whether to offer attribute names, attribute values, or
// nothing at all.
//
// Classification works on a small syntax node model rather than on the
// parser's own tree, which keeps this package free of native dependencies
// and lets tests build the malformed shapes the grammar produces mid-edit by
// hand.
package analysis

import (
	"fmt"
	"unicode/utf8"
)

// Kind identifies the grammar production a Node was parsed from.
type Kind int

// Node kinds. KindOther covers every structural container (documents,
// elements, start tags) that patterns only ever match with a wildcard.
const (
	KindOther Kind = iota
	KindTagName
	KindAttribute
	KindAttributeName
	KindQuotedAttributeValue
	KindAttributeValue
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindOther:
		return "other"
	case KindTagName:
		return "tag_name"
	case KindAttribute:
		return "attribute"
	case KindAttributeName:
		return "attribute_name"
	case KindQuotedAttributeValue:
		return "quoted_attribute_value"
	case KindAttributeValue:
		return "attribute_value"
	case KindError:
		return "ERROR"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Point is a 0-based (row, column) location in the source. Columns count
// bytes, matching the parser.
type Point struct {
	Row    uint32
	Column uint32
}

// Compare returns -1, 0 or +1 depending on whether p sorts before, equal to,
// or after q.
func (p Point) Compare(q Point) int {
	switch {
	case p.Row < q.Row:
		return -1
	case p.Row > q.Row:
		return 1
	case p.Column < q.Column:
		return -1
	case p.Column > q.Column:
		return 1
	default:
		return 0
	}
}

// Before reports whether p sorts strictly before q.
func (p Point) Before(q Point) bool {
	return p.Compare(q) < 0
}

func (p Point) String() string {
	return fmt.Sprintf("%d:%d", p.Row, p.Column)
}

// Node is an immutable syntax tree node. Children holds named children only,
// in source order.
type Node struct {
	Kind      Kind
	Start     Point
	End       Point
	StartByte uint32
	EndByte   uint32
	Children  []*Node
}

// Text returns the source text covered by n. A span that is out of range or
// not valid UTF-8 yields the empty string.
func (n *Node) Text(source []byte) string {
	if n.StartByte > n.EndByte || int(n.EndByte) > len(source) {
		return ""
	}

	b := source[n.StartByte:n.EndByte]
	if !utf8.Valid(b) {
		return ""
	}

	return string(b)
}

// sameSpan reports whether n and o cover the same region.
func (n *Node) sameSpan(o *Node) bool {
	return n.Start == o.Start && n.End == o.End
}

// Capture binds a pattern name to the node it matched.
type Capture struct {
	Name  string
	Text  string
	Start Point
	End   Point
}

// Captures maps capture names to the capture that was kept for them.
type Captures map[string]Capture

// Classification is the completion intent for a cursor position. It is one of
// NoCompletion, AttributeNameContext, or AttributeValueContext.
type Classification interface {
	fmt.Stringer
	isClassification()
}

// NoCompletion means nothing should be offered.
type NoCompletion struct{}

// AttributeNameContext means the cursor is on an attribute name being typed.
type AttributeNameContext struct {
	Prefix string
}

// AttributeValueContext means the cursor is inside the value of AttributeName.
type AttributeValueContext struct {
	AttributeName string
	Prefix        string
}

func (NoCompletion) isClassification()          {}
func (AttributeNameContext) isClassification()  {}
func (AttributeValueContext) isClassification() {}

func (NoCompletion) String() string { return "none" }

func (c AttributeNameContext) String() string {
	return fmt.Sprintf("attribute_name(%q)", c.Prefix)
}

func (c AttributeValueContext) String() string {
	return fmt.Sprintf("attribute_value(%q, %q)", c.AttributeName, c.Prefix)
}
