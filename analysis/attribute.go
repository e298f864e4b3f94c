package analysis

// AttributeNameAt returns the attribute name under p, if any. A point just past
// the last character of a name still counts as on it.
func AttributeNameAt(node *Node, source []byte, p Point) (Capture, bool) {
	var (
		found Capture
		ok    bool
	)

	walk(node, func(n *Node) {
		if ok || n.Kind != KindAttributeName {
			return
		}

		if p.Before(n.Start) || n.End.Before(p) {
			return
		}

		found = Capture{Name: captureAttrName, Text: n.Text(source), Start: n.Start, End: n.End}
		ok = found.Text != ""
	})

	return found, ok
}
