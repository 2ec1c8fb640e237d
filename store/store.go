// Package store persists the per visual state that a host keeps between
// data snapshots: selected and expanded node ids and the current filter.
package store

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrNoVisual = errors.New("store: empty visual id")

// Properties is the persisted state of one visual.
type Properties struct {
	Selected string // comma separated node ids
	Expanded string
	Filter   []byte // encoded filter expression, nil when nothing is filtered

	UpdatedAt time.Time
}

// Store loads and saves visual properties. Loading an unknown visual
// returns zero Properties.
type Store interface {
	Load(ctx context.Context, visual string) (Properties, error)
	Save(ctx context.Context, visual string, p Properties) error
}

// Memory keeps properties in process memory.
type Memory struct {
	mu    sync.RWMutex
	props map[string]Properties
}

func NewMemory() *Memory {
	return &Memory{props: make(map[string]Properties)}
}

func (m *Memory) Load(_ context.Context, visual string) (Properties, error) {
	if visual == "" {
		return Properties{}, ErrNoVisual
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return clone(m.props[visual]), nil
}

func (m *Memory) Save(_ context.Context, visual string, p Properties) error {
	if visual == "" {
		return ErrNoVisual
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.props[visual] = clone(p)
	return nil
}

func clone(p Properties) Properties {
	if p.Filter != nil {
		p.Filter = append([]byte(nil), p.Filter...)
	}
	return p
}

var (
	_ Store = (*Memory)(nil)
	_ Store = (*SQL)(nil)
)
