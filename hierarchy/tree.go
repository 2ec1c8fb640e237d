// Package hierarchy turns flattened table rows into a selectable tree and
// synthesizes boolean filters from the selection.
//
// Nodes are identified by a composite id built from the ids of their
// ancestors, the formatted label and the level:
//
//	Europe-0
//	Europe-0_Netherlands-1
//	Europe-0_Netherlands-1_Amsterdam-2
//
// Ids are persisted as comma separated lists, so commas are removed from
// labels before they become part of an id.
package hierarchy

import "strings"

// Expr is a filter expression owned by the host. The hierarchy only hands
// expressions to the host's combinators and never inspects them.
type Expr interface{}

// Combinator joins filter expressions.
type Combinator interface {
	And(a, b Expr) Expr
	Or(a, b Expr) Expr
}

// Host provides the predicates a tree is built from.
type Host interface {
	Combinator

	// Equal returns the predicate "column == value". A nil value
	// stands for a missing value.
	Equal(column int, value any) Expr
}

// Node is one unique path prefix of the input rows.
type Node struct {
	ID       string
	ParentID string // empty for level 0
	Level    int
	Label    string
	Leaf     bool

	Selected bool
	Expanded bool
	Hidden   bool

	// Predicate compares this node's column to its value. Path is the
	// conjunction of the predicates from the root down to this node.
	Predicate Expr
	Path      Expr

	// Order is the position at which the node was first discovered.
	Order int
}

// Tree is the node set of one data snapshot.
type Tree struct {
	// Nodes in discovery order.
	Nodes []*Node

	// Levels is the index of the deepest level, i.e. the number of
	// columns minus one.
	Levels int

	byID     map[string]*Node
	children map[string][]*Node // by parent id, "" holds the roots
}

func newTree(levels int) *Tree {
	return &Tree{
		Levels:   levels,
		byID:     make(map[string]*Node),
		children: make(map[string][]*Node),
	}
}

func (t *Tree) add(n *Node) {
	t.Nodes = append(t.Nodes, n)
	t.byID[n.ID] = n
	t.children[n.ParentID] = append(t.children[n.ParentID], n)
}

// reindex rebuilds the lookup maps from t.Nodes.
func (t *Tree) reindex() {
	nodes := t.Nodes
	t.Nodes = nil
	t.byID = make(map[string]*Node, len(nodes))
	t.children = make(map[string][]*Node)
	for _, n := range nodes {
		t.add(n)
	}
}

// Node looks up a node by id.
func (t *Tree) Node(id string) (*Node, bool) {
	n, ok := t.byID[id]
	return n, ok
}

// Roots returns the level 0 nodes.
func (t *Tree) Roots() []*Node { return t.children[""] }

// Children returns the direct children of the node id.
func (t *Tree) Children(id string) []*Node {
	if id == "" {
		return nil
	}
	return t.children[id]
}

// Ancestors returns the ancestors of the node id, nearest first.
func (t *Tree) Ancestors(id string) []*Node {
	var ancestors []*Node
	n, ok := t.byID[id]
	for ok && n.ParentID != "" {
		n, ok = t.byID[n.ParentID]
		if ok {
			ancestors = append(ancestors, n)
		}
	}
	return ancestors
}

// Descendants returns all nodes below id in depth first order.
func (t *Tree) Descendants(id string) []*Node {
	var desc []*Node
	var stack []*Node
	push := func(nodes []*Node) {
		for i := len(nodes) - 1; i >= 0; i-- {
			stack = append(stack, nodes[i])
		}
	}
	push(t.Children(id))
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		desc = append(desc, n)
		push(t.Children(n.ID))
	}
	return desc
}

// SelectedIDs returns the comma separated ids of all selected nodes in
// discovery order. This is the persisted form of the selection.
func (t *Tree) SelectedIDs() string {
	return t.join(func(n *Node) bool { return n.Selected })
}

// ExpandedIDs is the persisted form of the expansion state.
func (t *Tree) ExpandedIDs() string {
	return t.join(func(n *Node) bool { return n.Expanded })
}

func (t *Tree) join(keep func(*Node) bool) string {
	var ids []string
	for _, n := range t.Nodes {
		if keep(n) {
			ids = append(ids, n.ID)
		}
	}
	return strings.Join(ids, ",")
}
