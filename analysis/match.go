package analysis

import "slices"

// pattern describes a node shape. Child patterns match an ordered subsequence
// of the node's children: siblings in between are skipped unless adjacent is
// set, in which case the child must directly follow the previous child match.
type pattern struct {
	kind     Kind
	wildcard bool
	capture  string
	adjacent bool
	where    func(n *Node, source []byte) bool
	children []pattern
}

type bound struct {
	name string
	node *Node
}

// binding is the set of captures produced by one successful match.
type binding []bound

func (b binding) start() Point {
	if len(b) == 0 {
		return Point{}
	}

	start := b[0].node.Start
	for _, c := range b[1:] {
		if c.node.Start.Before(start) {
			start = c.node.Start
		}
	}

	return start
}

func (b binding) text(name string, source []byte) (string, bool) {
	for _, c := range b {
		if c.name == name {
			return c.node.Text(source), true
		}
	}

	return "", false
}

// match returns every binding under which p matches n.
func (p pattern) match(n *Node, source []byte) []binding {
	if !p.wildcard && n.Kind != p.kind {
		return nil
	}

	if p.where != nil && !p.where(n, source) {
		return nil
	}

	var self binding
	if p.capture != "" {
		self = binding{{name: p.capture, node: n}}
	}

	rest := matchChildren(p.children, n.Children, 0, -1, source)
	out := make([]binding, 0, len(rest))

	for _, r := range rest {
		out = append(out, concat(self, r))
	}

	return out
}

func matchChildren(pats []pattern, children []*Node, from, prev int, source []byte) []binding {
	if len(pats) == 0 {
		return []binding{nil}
	}

	p := pats[0]

	var out []binding

	for i := from; i < len(children); i++ {
		if p.adjacent && prev >= 0 && i != prev+1 {
			break
		}

		for _, head := range p.match(children[i], source) {
			for _, tail := range matchChildren(pats[1:], children, i+1, i, source) {
				out = append(out, concat(head, tail))
			}
		}
	}

	return out
}

func concat(a, b binding) binding {
	out := make(binding, 0, len(a)+len(b))
	out = append(out, a...)

	return append(out, b...)
}

// query is a set of alternative shapes run together over a subtree.
type query struct {
	shapes []pattern
	// keep, when set, discards whole matches it rejects.
	keep func(b binding, source []byte) bool
}

// run matches every shape against every node under root and folds the
// resulting captures into a fresh set. Matches are applied in document order
// so a later match overwrites an earlier capture of the same name. Captures
// whose node starts after trigger are dropped.
func (q query) run(root *Node, source []byte, trigger Point) Captures {
	var found []binding

	walk(root, func(n *Node) {
		for _, shape := range q.shapes {
			for _, b := range shape.match(n, source) {
				if q.keep == nil || q.keep(b, source) {
					found = append(found, b)
				}
			}
		}
	})

	slices.SortStableFunc(found, func(a, b binding) int {
		return a.start().Compare(b.start())
	})

	caps := make(Captures)

	for _, b := range found {
		for _, c := range b {
			if trigger.Before(c.node.Start) {
				continue
			}

			caps[c.name] = Capture{
				Name:  c.name,
				Text:  c.node.Text(source),
				Start: c.node.Start,
				End:   c.node.End,
			}
		}
	}

	return caps
}

func walk(n *Node, visit func(*Node)) {
	if n == nil {
		return
	}

	visit(n)

	for _, c := range n.Children {
		walk(c, visit)
	}
}
