package hierarchy

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrNoColumns = errors.New("hierarchy: no columns")
	ErrRaggedRow = errors.New("hierarchy: row length does not match columns")
	errNilHost   = errors.New("hierarchy: nil host")
)

const (
	blankLabel   = "(blank)"
	levelSep     = "-"
	ancestorSep  = "_"
	persistedSep = ","
)

func defaultFormat(v any, _ string) string { return fmt.Sprint(v) }

// Column describes one hierarchy level.
type Column struct {
	Name   string
	Format string // passed to Options.Format
}

// Options control how a tree is built from rows.
type Options struct {
	// Format turns a cell value into a label. Defaults to fmt.Sprint.
	Format func(v any, format string) string

	// Persisted state from a previous tree. Unknown ids are ignored.
	Selected IDSet
	Expanded IDSet

	// Search keeps only nodes whose label contains Search (case
	// insensitive) plus their ancestors.
	Search string
}

// Build creates the tree of all unique path prefixes of rows. Each row
// holds one value per column, ordered from the top level down.
func Build(rows [][]any, cols []Column, host Host, opts Options) (*Tree, error) {
	if len(cols) == 0 {
		return nil, ErrNoColumns
	}
	if host == nil {
		return nil, errNilHost
	}
	format := opts.Format
	if format == nil {
		format = defaultFormat
	}

	t := newTree(len(cols) - 1)
	order := 0
	for r, row := range rows {
		if len(row) != len(cols) {
			return nil, fmt.Errorf("%w: row %d has %d values, want %d",
				ErrRaggedRow, r, len(row), len(cols))
		}

		parentID := ""
		var path Expr
		for level, v := range row {
			label := blankLabel
			if v != nil {
				label = format(v, cols[level].Format)
			}
			pred := host.Equal(level, v)
			if level == 0 {
				path = pred
			} else {
				path = host.And(path, pred)
			}

			id := nodeID(parentID, label, level)
			if _, seen := t.byID[id]; !seen {
				t.add(&Node{
					ID:        id,
					ParentID:  parentID,
					Level:     level,
					Label:     label,
					Leaf:      level == t.Levels,
					Selected:  opts.Selected.Contains(id),
					Expanded:  opts.Expanded.Contains(id),
					Predicate: pred,
					Path:      path,
					Order:     order,
				})
			}
			order++
			parentID = id
		}
	}

	if opts.Search != "" {
		t.search(opts.Search)
	}
	t.updateHidden()
	return t, nil
}

// nodeID derives the id of a node from its parent's id, its label and its
// level. Commas are dropped so ids survive the persisted list format.
func nodeID(parentID, label string, level int) string {
	var b strings.Builder
	if parentID != "" {
		b.WriteString(parentID)
		b.WriteString(ancestorSep)
	}
	b.WriteString(strings.ReplaceAll(label, persistedSep, ""))
	b.WriteString(levelSep)
	b.WriteString(strconv.Itoa(level))
	return b.String()
}

// search reduces t to the matching nodes and their ancestors. Nodes that
// lose all their children become leaves.
func (t *Tree) search(term string) {
	term = strings.ToLower(term)
	keep := make(map[string]bool)
	for _, n := range t.Nodes {
		if strings.Contains(strings.ToLower(n.Label), term) {
			keep[n.ID] = true
		}
	}
	for level := t.Levels; level >= 1; level-- {
		for _, n := range t.Nodes {
			if n.Level == level && keep[n.ID] {
				keep[n.ParentID] = true
			}
		}
	}

	kept := t.Nodes[:0]
	for _, n := range t.Nodes {
		if keep[n.ID] {
			kept = append(kept, n)
		}
	}
	t.Nodes = kept
	t.reindex()
	for _, n := range t.Nodes {
		n.Leaf = len(t.Children(n.ID)) == 0
	}
}

// updateHidden recomputes visibility level by level: roots are always
// visible, other nodes only below an expanded visible parent.
func (t *Tree) updateHidden() {
	for level := 0; level <= t.Levels; level++ {
		for _, n := range t.Nodes {
			if n.Level != level {
				continue
			}
			if level == 0 {
				n.Hidden = false
				continue
			}
			p, ok := t.byID[n.ParentID]
			n.Hidden = !ok || p.Hidden || !p.Expanded
		}
	}
}
