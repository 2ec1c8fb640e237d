package hierarchy

import (
	"fmt"
	"strings"
)

// Mode is the selection behavior of a slicer.
type Mode int

const (
	// Multi toggles nodes independently.
	Multi Mode = iota

	// Single keeps at most one branch selected.
	Single
)

func (m Mode) String() string {
	if m == Single {
		return "single"
	}
	return "multi"
}

// ParseMode reads "single" or "multi". The empty string is Multi.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "multi":
		return Multi, nil
	case "single":
		return Single, nil
	}
	return Multi, fmt.Errorf("hierarchy: unknown selection mode %q", s)
}

// Toggle flips the selection of the node id and propagates the change to
// its descendants and ancestors. Unknown ids leave the tree unchanged and
// report false.
//
// In Multi mode a selected node always has its ancestors selected, and an
// ancestor is deselected once none of its children is selected any more.
// Deselecting the last selected leaf clears the whole selection.
//
// In Single mode the previous selection is cleared and, unless the node
// was selected, the node with its subtree and its ancestors is selected.
func (t *Tree) Toggle(id string, mode Mode) bool {
	n, ok := t.byID[id]
	if !ok {
		return false
	}
	if mode == Single {
		t.toggleSingle(n)
	} else {
		t.toggleMulti(n)
	}
	return true
}

func (t *Tree) toggleMulti(n *Node) {
	was := n.Selected
	n.Selected = !was

	if !was || !n.Leaf {
		for _, d := range t.Descendants(n.ID) {
			d.Selected = n.Selected
		}
	}

	if n.Selected {
		for _, a := range t.Ancestors(n.ID) {
			a.Selected = true
		}
		return
	}

	for _, a := range t.Ancestors(n.ID) {
		if t.anySelected(t.Children(a.ID)) {
			break
		}
		a.Selected = false
	}

	if n.Leaf && !t.anyLeafSelected() {
		t.ClearSelection()
	}
}

func (t *Tree) toggleSingle(n *Node) {
	was := n.Selected
	t.ClearSelection()
	if was {
		return
	}
	n.Selected = true
	for _, d := range t.Descendants(n.ID) {
		d.Selected = true
	}
	for _, a := range t.Ancestors(n.ID) {
		a.Selected = true
	}
}

func (t *Tree) anySelected(nodes []*Node) bool {
	for _, n := range nodes {
		if n.Selected {
			return true
		}
	}
	return false
}

func (t *Tree) anyLeafSelected() bool {
	for _, n := range t.Nodes {
		if n.Leaf && n.Selected {
			return true
		}
	}
	return false
}

// ClearSelection deselects every node.
func (t *Tree) ClearSelection() {
	for _, n := range t.Nodes {
		n.Selected = false
	}
}

// ToggleExpanded flips the expansion of the node id. Leaves cannot be
// expanded.
func (t *Tree) ToggleExpanded(id string) bool {
	n, ok := t.byID[id]
	if !ok || n.Leaf {
		return false
	}
	n.Expanded = !n.Expanded
	t.updateHidden()
	return true
}

// ExpandAll expands every inner node.
func (t *Tree) ExpandAll() {
	for _, n := range t.Nodes {
		n.Expanded = !n.Leaf
	}
	t.updateHidden()
}

func (t *Tree) CollapseAll() {
	for _, n := range t.Nodes {
		n.Expanded = false
	}
	t.updateHidden()
}
