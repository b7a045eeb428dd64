package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/markmenu/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunTraceStoreContract runs a suite of tests to verify that a TraceStore
// implementation adheres to the defined interface contract.
func RunTraceStoreContract(t *testing.T, store TraceStore) {
	ctx := context.Background()
	traceID := "contract-test-trace-" + time.Now().Format("20060102150405")

	newTrace := func(id string) *domain.Trace {
		return &domain.Trace{
			ID:      id,
			Name:    "contract",
			Menu:    []any{"A", map[string]any{"name": "B", "children": []any{"B1"}}},
			Options: map[string]any{"minSelectionDist": 30.0},
			Samples: []domain.TraceSample{
				{Kind: domain.SampleDown, X: 0, Y: 0, T: 0},
				{Kind: domain.SampleMove, X: 0, Y: -60, T: 16},
				{Kind: domain.SampleUp, X: 0, Y: -60, T: 32},
			},
		}
	}

	t.Run("Save and Load", func(t *testing.T) {
		trace := newTrace(traceID)

		err := store.Save(ctx, trace)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, traceID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, trace.ID, loaded.ID)
		assert.Equal(t, trace.Name, loaded.Name)
		assert.Equal(t, trace.Samples, loaded.Samples)
		assert.Len(t, loaded.Menu, 2)
		// JSON backends turn numbers into float64, which is what we stored.
		assert.Equal(t, 30.0, loaded.Options["minSelectionDist"])
	})

	t.Run("Overwrite", func(t *testing.T) {
		trace := newTrace(traceID)
		trace.Name = "renamed"
		require.NoError(t, store.Save(ctx, trace))

		loaded, err := store.Load(ctx, traceID)
		require.NoError(t, err)
		assert.Equal(t, "renamed", loaded.Name)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+traceID)
		assert.ErrorIs(t, err, domain.ErrTraceNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, newTrace(traceID)))

		err := store.Delete(ctx, traceID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, traceID)
		assert.ErrorIs(t, err, domain.ErrTraceNotFound, "Load after Delete should return ErrTraceNotFound")

		assert.NoError(t, store.Delete(ctx, traceID), "Deleting twice is not an error")
	})

	t.Run("List", func(t *testing.T) {
		id1 := traceID + "-1"
		id2 := traceID + "-2"
		require.NoError(t, store.Save(ctx, newTrace(id1)))
		require.NoError(t, store.Save(ctx, newTrace(id2)))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, id1)
		assert.Contains(t, ids, id2)
	})
}
