// Package slicer runs hierarchy slicer visuals: it rebuilds the tree for
// every data snapshot, applies user interactions and persists the
// resulting selection and filter.
package slicer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/vdobler/vizcore/filter"
	"github.com/vdobler/vizcore/hierarchy"
	"github.com/vdobler/vizcore/store"
	"github.com/vdobler/vizcore/table"
)

var (
	ErrNoSnapshot = errors.New("slicer: no data snapshot")
	ErrNoLevels   = errors.New("slicer: no hierarchy levels")
)

type Options struct {
	// Visual is the key of the persisted properties.
	Visual string

	// Levels are the column names of the hierarchy, top level first.
	Levels []string

	Mode hierarchy.Mode

	// SelfFilter enables searching the tree.
	SelfFilter bool
}

// Session is one slicer visual. All methods are safe for concurrent use;
// every interaction completes before the next one starts.
type Session struct {
	opts  Options
	store store.Store
	log   *slog.Logger
	host  filter.Builder

	mu     sync.Mutex
	data   *table.Table
	search string
	tree   *hierarchy.Tree
	stale  []string
}

func New(opts Options, st store.Store, log *slog.Logger) (*Session, error) {
	if len(opts.Levels) == 0 {
		return nil, ErrNoLevels
	}
	if opts.Visual == "" {
		return nil, store.ErrNoVisual
	}
	if log == nil {
		log = slog.Default()
	}
	return &Session{
		opts:  opts,
		store: st,
		log:   log.With("visual", opts.Visual),
		host:  filter.Builder{Columns: opts.Levels},
	}, nil
}

func (s *Session) Options() Options { return s.opts }

// Update replaces the data snapshot and rebuilds the tree with the
// persisted selection and expansion.
func (s *Session) Update(ctx context.Context, t *table.Table) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rebuild(ctx, t, s.search)
}

// Search rebuilds the tree restricted to nodes matching term. Without
// SelfFilter the term is ignored.
func (s *Session) Search(ctx context.Context, term string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		return ErrNoSnapshot
	}
	return s.rebuild(ctx, s.data, term)
}

func (s *Session) rebuild(ctx context.Context, t *table.Table, search string) error {
	if err := t.Validate(); err != nil {
		return err
	}
	idx, err := t.Indices(s.opts.Levels...)
	if err != nil {
		return err
	}
	props, err := s.store.Load(ctx, s.opts.Visual)
	if err != nil {
		return err
	}
	if !s.opts.SelfFilter {
		search = ""
	}

	cols := make([]hierarchy.Column, len(idx))
	for i, j := range idx {
		cols[i] = hierarchy.Column{Name: t.Columns[j].Name, Format: t.Columns[j].Format}
	}
	selected := hierarchy.ParseIDs(props.Selected)
	tree, err := hierarchy.Build(t.Project(idx...), cols, s.host, hierarchy.Options{
		Format:   table.Format,
		Selected: selected,
		Expanded: hierarchy.ParseIDs(props.Expanded),
		Search:   search,
	})
	if err != nil {
		return fmt.Errorf("slicer: %w", err)
	}

	// A searched tree is a subset, so only the full tree tells which
	// persisted ids vanished from the data.
	if search == "" {
		for _, n := range tree.Nodes {
			selected.Del(n.ID)
		}
		s.stale = selected.Elements()
		if len(s.stale) > 0 {
			s.log.Info("persisted selection not in data", "ids", selected.String())
		}
	}

	s.data, s.search, s.tree = t, search, tree
	s.log.Debug("tree rebuilt", "rows", len(t.Rows), "nodes", len(tree.Nodes), "search", search)
	return nil
}

// Toggle changes the selection of node id and persists the new filter.
// Unknown ids are ignored and report false.
func (s *Session) Toggle(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tree == nil {
		return false, ErrNoSnapshot
	}
	if !s.tree.Toggle(id, s.opts.Mode) {
		s.log.Debug("toggle of unknown node", "node", id)
		return false, nil
	}
	return true, s.persistFilter(ctx)
}

// Clear deselects everything and removes the filter.
func (s *Session) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tree == nil {
		return ErrNoSnapshot
	}
	s.tree.ClearSelection()
	return s.persistFilter(ctx)
}

func (s *Session) ToggleExpanded(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tree == nil {
		return false, ErrNoSnapshot
	}
	if !s.tree.ToggleExpanded(id) {
		return false, nil
	}
	return true, s.persistExpanded(ctx)
}

func (s *Session) ExpandAll(ctx context.Context) error {
	return s.expand(ctx, (*hierarchy.Tree).ExpandAll)
}

func (s *Session) CollapseAll(ctx context.Context) error {
	return s.expand(ctx, (*hierarchy.Tree).CollapseAll)
}

func (s *Session) expand(ctx context.Context, f func(*hierarchy.Tree)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tree == nil {
		return ErrNoSnapshot
	}
	f(s.tree)
	return s.persistExpanded(ctx)
}

func (s *Session) persistFilter(ctx context.Context) error {
	expr := filter.Of(s.tree.Filter(s.host))
	data, err := filter.Encode(expr)
	if err != nil {
		return fmt.Errorf("slicer: encoding filter: %w", err)
	}
	return s.update(ctx, func(p *store.Properties) bool {
		p.Selected = s.tree.SelectedIDs()
		p.Filter = data
		s.log.Info("filter changed", "selected", p.Selected, "filter", fmt.Sprint(expr))
		return true
	})
}

func (s *Session) persistExpanded(ctx context.Context) error {
	ids := s.tree.ExpandedIDs()
	return s.update(ctx, func(p *store.Properties) bool {
		if hierarchy.ParseIDs(p.Expanded).Equals(hierarchy.ParseIDs(ids)) {
			return false
		}
		p.Expanded = ids
		return true
	})
}

// update saves the properties if change reports a modification.
func (s *Session) update(ctx context.Context, change func(*store.Properties) bool) error {
	p, err := s.store.Load(ctx, s.opts.Visual)
	if err != nil {
		return err
	}
	if !change(&p) {
		return nil
	}
	p.UpdatedAt = time.Now().UTC()
	return s.store.Save(ctx, s.opts.Visual, p)
}

// Snapshot is a copy of the tree state.
type Snapshot struct {
	Levels int
	Search string
	Nodes  []hierarchy.Node
	Filter filter.Expr

	// Stale are the persisted selected ids missing from the data.
	Stale []string
}

// Snapshot returns a copy of the current tree.
func (s *Session) Snapshot() (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tree == nil {
		return Snapshot{}, ErrNoSnapshot
	}
	snap := Snapshot{
		Levels: s.tree.Levels,
		Search: s.search,
		Nodes:  make([]hierarchy.Node, len(s.tree.Nodes)),
		Filter: filter.Of(s.tree.Filter(s.host)),
		Stale:  append([]string(nil), s.stale...),
	}
	for i, n := range s.tree.Nodes {
		snap.Nodes[i] = *n
	}
	return snap, nil
}
