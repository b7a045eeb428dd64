package menu_test

import (
	"fmt"
	"math"
	"testing"

	"github.com/aretw0/markmenu/pkg/menu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAngularDistance(t *testing.T) {
	assert.InDelta(t, 0, menu.AngularDistance(-90, 270), 1e-9)
	assert.InDelta(t, 20, menu.AngularDistance(350, 10), 1e-9)
	assert.InDelta(t, 180, menu.AngularDistance(0, 180), 1e-9)
	assert.InDelta(t, 90, menu.AngularDistance(-45, 45), 1e-9)
}

func TestChildAt_SectorMidpoints(t *testing.T) {
	for n := 1; n <= 12; n++ {
		items := make([]any, n)
		for i := range items {
			items[i] = fmt.Sprintf("item-%d", i)
		}
		root := menu.MustBuild(items)
		step := 360.0 / float64(n)

		for i := 0; i < n; i++ {
			// The sector of child i is centred on its angle.
			mid := menu.NormalizeAngle(menu.BaseAngle + float64(i)*step)
			got := menu.ChildAt(root, mid)
			require.NotNil(t, got)
			assert.Equal(t, i, got.Index(), "n=%d angle=%v", n, mid)

			// Probing slightly inside either edge keeps the same child.
			if n > 1 {
				assert.Equal(t, i, menu.ChildAt(root, mid+step/2-0.01).Index())
				assert.Equal(t, i, menu.ChildAt(root, mid-step/2+0.01).Index())
			}
		}
	}
}

func TestChildAt_TotalOverCircle(t *testing.T) {
	root := menu.MustBuild([]any{"a", "b", "c", "d", "e"})
	for deg := 0.0; deg < 360; deg += 0.5 {
		assert.NotNil(t, menu.ChildAt(root, deg))
	}
}

func TestChildAt_Degenerate(t *testing.T) {
	single := menu.MustBuild([]any{"only"})
	for _, a := range []float64{-180, 0, 90, 179.9, 720} {
		assert.Equal(t, "only", menu.ChildAt(single, a).Label())
	}

	leaf := single.Child(0)
	assert.Nil(t, menu.ChildAt(leaf, 0))
	assert.Nil(t, menu.ChildAt(nil, 0))
	assert.Nil(t, menu.ChildAt(single, math.NaN()))
}

func TestFindAndLookup(t *testing.T) {
	root := menu.MustBuild([]any{"A", menu.Item{Name: "B", Children: []any{"B1", "B2"}}})

	b2 := menu.Find(root, "B", "B2")
	require.NotNil(t, b2)
	assert.Equal(t, b2, menu.Lookup(root, "1.1"))
	assert.Equal(t, root, menu.Lookup(root, ""))
	assert.Nil(t, menu.Find(root, "B", "missing"))
	assert.Nil(t, menu.Find(root, "A", "deeper"))
	assert.Nil(t, menu.Lookup(root, "9"))

	assert.True(t, menu.IsLeaf(b2))
	assert.False(t, menu.IsLeaf(b2.Parent()))
	assert.False(t, menu.IsLeaf(nil))
}
