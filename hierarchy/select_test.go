package hierarchy

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func selected(tree *Tree) []string {
	var s []string
	for _, n := range tree.Nodes {
		if n.Selected {
			s = append(s, n.ID)
		}
	}
	return s
}

func TestToggleMultiLeaves(t *testing.T) {
	tree := mustBuild(t, twoLevel, Options{})

	assert.True(t, tree.Toggle("A-0_X-1", Multi))
	assert.Equal(t, []string{"A-0", "A-0_X-1"}, selected(tree))

	tree.Toggle("A-0_Y-1", Multi)
	assert.Equal(t, []string{"A-0", "A-0_X-1", "A-0_Y-1"}, selected(tree))

	tree.Toggle("A-0_X-1", Multi)
	assert.Equal(t, []string{"A-0", "A-0_Y-1"}, selected(tree))

	// Deselecting the last leaf clears everything.
	tree.Toggle("A-0_Y-1", Multi)
	assert.Empty(t, selected(tree))
}

func TestToggleMultiInner(t *testing.T) {
	tree := mustBuild(t, twoLevel, Options{})

	tree.Toggle("A-0", Multi)
	assert.Equal(t, []string{"A-0", "A-0_X-1", "A-0_Y-1"}, selected(tree))

	tree.Toggle("B-0", Multi)
	assert.Len(t, selected(tree), 5)

	tree.Toggle("A-0", Multi)
	assert.Equal(t, []string{"B-0", "B-0_Z-1"}, selected(tree))

	tree.Toggle("B-0", Multi)
	assert.Empty(t, selected(tree))
}

func TestToggleMultiPrunesAncestors(t *testing.T) {
	tree := mustBuild(t, geo, Options{})
	tree.Toggle("Europe-0_Netherlands-1_Amsterdam-2", Multi)
	tree.Toggle("Europe-0_France-1_Paris-2", Multi)
	tree.Toggle("Asia-0", Multi)

	tree.Toggle("Europe-0_Netherlands-1_Amsterdam-2", Multi)
	assert.Equal(t, []string{
		"Europe-0",
		"Europe-0_France-1",
		"Europe-0_France-1_Paris-2",
		"Asia-0",
		"Asia-0_Japan-1",
		"Asia-0_Japan-1_Tokyo-2",
	}, selected(tree))

	tree.Toggle("Europe-0_France-1_Paris-2", Multi)
	assert.Equal(t, []string{"Asia-0", "Asia-0_Japan-1", "Asia-0_Japan-1_Tokyo-2"}, selected(tree))
}

func TestToggleSingle(t *testing.T) {
	tree := mustBuild(t, geo, Options{})

	tree.Toggle("Europe-0_Netherlands-1", Single)
	assert.Equal(t, []string{
		"Europe-0",
		"Europe-0_Netherlands-1",
		"Europe-0_Netherlands-1_Amsterdam-2",
		"Europe-0_Netherlands-1_Rotterdam-2",
	}, selected(tree))

	tree.Toggle("Asia-0_Japan-1_Tokyo-2", Single)
	assert.Equal(t, []string{"Asia-0", "Asia-0_Japan-1", "Asia-0_Japan-1_Tokyo-2"}, selected(tree))

	tree.Toggle("Asia-0_Japan-1_Tokyo-2", Single)
	assert.Empty(t, selected(tree))
}

func TestToggleUnknown(t *testing.T) {
	tree := mustBuild(t, twoLevel, Options{Selected: NewIDSet("B-0", "B-0_Z-1")})
	for _, mode := range []Mode{Multi, Single} {
		assert.False(t, tree.Toggle("C-0", mode))
		assert.Equal(t, []string{"B-0", "B-0_Z-1"}, selected(tree))
	}
}

func TestToggleKeepsPaths(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	rows := make([][]any, 200)
	for i := range rows {
		rows[i] = []any{rng.Intn(3), rng.Intn(3), rng.Intn(4)}
	}
	tree := mustBuild(t, rows, Options{})

	for i := 0; i < 1000; i++ {
		n := tree.Nodes[rng.Intn(len(tree.Nodes))]
		require.True(t, tree.Toggle(n.ID, Multi))

		leaves := 0
		for _, n := range tree.Nodes {
			if !n.Selected {
				continue
			}
			if n.Leaf {
				leaves++
			}
			for _, a := range tree.Ancestors(n.ID) {
				require.True(t, a.Selected, "%s selected without ancestor %s", n.ID, a.ID)
			}
		}
		if len(selected(tree)) > 0 {
			require.NotZero(t, leaves, "selection without any leaf after toggling %s", n.ID)
		}
	}
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("Single")
	require.NoError(t, err)
	assert.Equal(t, Single, m)

	m, err = ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, Multi, m)
	assert.Equal(t, "multi", m.String())

	_, err = ParseMode("some")
	assert.Error(t, err)
}
