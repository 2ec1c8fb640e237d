package hierarchy

// Filter synthesizes the boolean filter equivalent to the current
// selection, or nil when nothing is selected.
//
// A selected node whose selected children cover all of its children and
// carry no narrower filter of their own is represented by its own
// predicate only. Otherwise the node's predicate is joined with the
// disjunction of its selected children's filters.
func (t *Tree) Filter(c Combinator) Expr {
	var filter Expr
	for _, root := range t.Roots() {
		if !root.Selected {
			continue
		}
		filter = or(c, filter, t.nodeFilter(root, c))
	}
	return filter
}

func (t *Tree) nodeFilter(n *Node, c Combinator) Expr {
	if sub := t.childFilter(n, c); sub != nil {
		return c.And(n.Predicate, sub)
	}
	return n.Predicate
}

// childFilter returns the disjunction of the selected children of n, or
// nil when the children do not restrict n.
func (t *Tree) childFilter(n *Node, c Combinator) Expr {
	var filter Expr
	selected, narrowed := 0, false
	children := t.Children(n.ID)
	for _, child := range children {
		if !child.Selected {
			continue
		}
		selected++
		term := child.Predicate
		if sub := t.childFilter(child, c); sub != nil {
			narrowed = true
			term = c.And(child.Predicate, sub)
		}
		filter = or(c, filter, term)
	}
	if selected == 0 || (selected == len(children) && !narrowed) {
		return nil
	}
	return filter
}

func or(c Combinator, a, b Expr) Expr {
	if a == nil {
		return b
	}
	return c.Or(a, b)
}
