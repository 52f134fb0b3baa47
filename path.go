package jsonavro

import "strings"

// Path is the chain of field names leading to the value being converted.
// It is immutable: Enter returns a new Path that shares its parent, so a
// union retry or an error return never has to undo anything.
type Path struct {
	node *pathNode
}

type pathNode struct {
	parent *pathNode
	name   string
	depth  int
}

// RootPath is the empty path.
var RootPath = Path{}

// Enter descends into field name. Entering the field the path already ends
// with returns the path unchanged, so re-dispatching the same field (union
// branches, array elements, map values) does not repeat the segment.
func (p Path) Enter(name string) Path {
	if name == "" || (p.node != nil && p.node.name == name) {
		return p
	}
	d := 1
	if p.node != nil {
		d = p.node.depth + 1
	}
	return Path{node: &pathNode{parent: p.node, name: name, depth: d}}
}

// Last returns the final segment, or "" at the root.
func (p Path) Last() string {
	if p.node == nil {
		return ""
	}
	return p.node.name
}

// Len returns the number of segments.
func (p Path) Len() int {
	if p.node == nil {
		return 0
	}
	return p.node.depth
}

// Segments returns the field names from the root down.
func (p Path) Segments() []string {
	out := make([]string, p.Len())
	for n := p.node; n != nil; n = n.parent {
		out[n.depth-1] = n.name
	}
	return out
}

// String renders the path dotted, e.g. "order.items.price".
func (p Path) String() string {
	return strings.Join(p.Segments(), ".")
}
