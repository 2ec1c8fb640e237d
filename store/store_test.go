package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stores(t *testing.T) map[string]Store {
	t.Helper()
	ctx := context.Background()
	db, err := OpenSQL(ctx, "sqlite3", filepath.Join(t.TempDir(), "props.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mem, err := Open(ctx, "", "")
	require.NoError(t, err)
	return map[string]Store{"memory": mem, "sqlite3": db}
}

func TestStore(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2024, 5, 17, 9, 30, 0, 0, time.UTC)

	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			p, err := s.Load(ctx, "slicer-1")
			require.NoError(t, err)
			assert.Zero(t, p.Selected)
			assert.Nil(t, p.Filter)

			want := Properties{
				Selected:  "A-0,A-0_X-1",
				Expanded:  "A-0",
				Filter:    []byte(`{"op":"eq","column":"region","value":"A"}`),
				UpdatedAt: at,
			}
			require.NoError(t, s.Save(ctx, "slicer-1", want))

			got, err := s.Load(ctx, "slicer-1")
			require.NoError(t, err)
			assert.Equal(t, want.Selected, got.Selected)
			assert.Equal(t, want.Expanded, got.Expanded)
			assert.Equal(t, want.Filter, got.Filter)
			assert.True(t, at.Equal(got.UpdatedAt), "updated at %v", got.UpdatedAt)

			// Overwrite and clear the filter.
			want.Selected, want.Filter = "", nil
			require.NoError(t, s.Save(ctx, "slicer-1", want))
			got, err = s.Load(ctx, "slicer-1")
			require.NoError(t, err)
			assert.Empty(t, got.Selected)
			assert.Nil(t, got.Filter)
			assert.Equal(t, "A-0", got.Expanded)

			other, err := s.Load(ctx, "slicer-2")
			require.NoError(t, err)
			assert.Zero(t, other)

			assert.ErrorIs(t, s.Save(ctx, "", want), ErrNoVisual)
			_, err = s.Load(ctx, "")
			assert.ErrorIs(t, err, ErrNoVisual)
		})
	}
}

func TestMemoryCopiesFilter(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	filter := []byte(`{}`)
	require.NoError(t, m.Save(ctx, "v", Properties{Filter: filter}))
	filter[0] = 'x'

	got, err := m.Load(ctx, "v")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{}`), got.Filter)
}
