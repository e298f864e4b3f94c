package analysis

import "strings"

// DefaultAttributePrefix is the attribute prefix eligible for value completion
// when Options leaves it empty.
const DefaultAttributePrefix = "hx-"

// keyValueSeparator is what the parser wraps in an error node when a name is
// finished with "=" but no quote has been typed yet, e.g. <div hx-get=|>.
const keyValueSeparator = "="

// Capture names.
const (
	captureAttrName          = "attr_name"
	captureAttrValue         = "attr_value"
	captureErrorChar         = "error_char"
	captureLastItem          = "last_item"
	captureOpenQuoteErr      = "open_quote_err"
	captureEmptyAttribute    = "empty_attribute"
	captureNonEmptyAttribute = "non_empty_attribute"
)

// Options tunes classification.
type Options struct {
	// AttributePrefix restricts value completion to attributes whose name
	// starts with it. Empty means DefaultAttributePrefix.
	AttributePrefix string
}

func (o Options) prefix() string {
	if o.AttributePrefix == "" {
		return DefaultAttributePrefix
	}

	return o.AttributePrefix
}

var tagName = pattern{kind: KindTagName}

// attributeNameQuery finds an attribute name still being typed.
var attributeNameQuery = query{
	shapes: []pattern{
		// <div hx-|>: the attribute is nothing but its name.
		{
			wildcard: true,
			children: []pattern{
				tagName,
				{
					kind:  KindAttribute,
					where: isBareAttribute,
					children: []pattern{
						{kind: KindAttributeName, capture: captureAttrName},
					},
				},
			},
		},
		// <div hx-get=|>: the separator was typed and became an error node.
		{
			wildcard: true,
			children: []pattern{
				tagName,
				{
					kind:     KindAttribute,
					children: []pattern{{kind: KindAttributeName}},
				},
				{kind: KindError, capture: captureErrorChar, adjacent: true},
			},
		},
	},
}

// attributeValueShapes find an attribute value being typed. The name filter
// depends on Options, so the query around them is built per call.
var attributeValueShapes = []pattern{
	// <div hx-get="|: an opening quote with nothing to close it.
	{
		kind:    KindError,
		capture: captureOpenQuoteErr,
		children: []pattern{
			tagName,
			{kind: KindAttributeName, capture: captureAttrName},
			{wildcard: true},
		},
	},
	// A complete attribute followed by a dangling error node.
	{
		wildcard: true,
		children: []pattern{
			tagName,
			{
				kind:    KindAttribute,
				capture: captureLastItem,
				children: []pattern{
					{kind: KindAttributeName, capture: captureAttrName},
					{wildcard: true},
				},
			},
			{kind: KindError, capture: captureErrorChar, adjacent: true},
		},
	},
	// <div hx-get="|">
	{
		wildcard: true,
		children: []pattern{
			tagName,
			{
				kind:    KindAttribute,
				capture: captureEmptyAttribute,
				children: []pattern{
					{kind: KindAttributeName, capture: captureAttrName},
					{kind: KindQuotedAttributeValue, where: isEmptyQuotes},
				},
			},
		},
	},
	// <div hx-get="/foo|">
	{
		wildcard: true,
		children: []pattern{
			tagName,
			{
				kind:    KindAttribute,
				capture: captureNonEmptyAttribute,
				children: []pattern{
					{kind: KindAttributeName, capture: captureAttrName},
					{
						kind: KindQuotedAttributeValue,
						children: []pattern{
							{kind: KindAttributeValue, capture: captureAttrValue},
						},
					},
				},
			},
		},
	},
}

func isBareAttribute(n *Node, _ []byte) bool {
	return len(n.Children) == 1 && n.Children[0].sameSpan(n)
}

func isEmptyQuotes(n *Node, source []byte) bool {
	return n.Text(source) == `""`
}

// ClassifyAttributeName reports whether trigger sits on an attribute name that
// is still being typed under node.
func ClassifyAttributeName(node *Node, source []byte, trigger Point) Classification {
	caps := attributeNameQuery.run(node, source, trigger)

	// The name is finished and nothing has been typed after "=" to filter on.
	if _, ok := caps[captureErrorChar]; ok {
		return NoCompletion{}
	}

	if name, ok := caps[captureAttrName]; ok {
		return AttributeNameContext{Prefix: name.Text}
	}

	return NoCompletion{}
}

// ClassifyAttributeValue reports whether trigger sits inside the value of an
// attribute carrying the configured prefix under node.
//
// The returned prefix is always empty: already typed value text does not
// narrow the candidates.
func ClassifyAttributeValue(node *Node, source []byte, trigger Point, opts Options) Classification {
	prefix := opts.prefix()
	q := query{
		shapes: attributeValueShapes,
		keep: func(b binding, source []byte) bool {
			name, ok := b.text(captureAttrName, source)
			return ok && strings.HasPrefix(name, prefix)
		},
	}

	caps := q.run(node, source, trigger)

	name, ok := caps[captureAttrName]
	if !ok {
		return NoCompletion{}
	}

	_, openQuote := caps[captureOpenQuoteErr]
	_, empty := caps[captureEmptyAttribute]

	if openQuote || empty {
		return AttributeValueContext{AttributeName: name.Text}
	}

	// The cursor is between "=" and the opening quote.
	if errChar, ok := caps[captureErrorChar]; ok && errChar.Text == keyValueSeparator {
		return NoCompletion{}
	}

	if attr, ok := caps[captureNonEmptyAttribute]; ok {
		// Past the closing quote.
		if !trigger.Before(attr.End) {
			return NoCompletion{}
		}

		return AttributeValueContext{AttributeName: name.Text}
	}

	return NoCompletion{}
}

// Classify runs name classification and falls back to value classification
// when the name side has nothing to offer.
func Classify(node *Node, source []byte, trigger Point, opts Options) Classification {
	c := ClassifyAttributeName(node, source, trigger)
	if _, none := c.(NoCompletion); !none {
		return c
	}

	return ClassifyAttributeValue(node, source, trigger, opts)
}
