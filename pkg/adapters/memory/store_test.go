package memory_test

import (
	"context"
	"testing"

	"github.com/aretw0/markmenu/pkg/adapters/memory"
	"github.com/aretw0/markmenu/pkg/domain"
	"github.com/aretw0/markmenu/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Contract(t *testing.T) {
	ports.RunTraceStoreContract(t, memory.NewStore())
}

func TestMemoryStore_Isolation(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	trace := &domain.Trace{
		ID:      "t1",
		Options: map[string]any{"strokeWidth": 2.0},
		Samples: []domain.TraceSample{{Kind: domain.SampleDown}},
	}
	require.NoError(t, store.Save(ctx, trace))

	trace.Options["strokeWidth"] = 9.0
	trace.Samples[0].X = 42

	loaded, err := store.Load(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, 2.0, loaded.Options["strokeWidth"])
	assert.Zero(t, loaded.Samples[0].X)

	loaded.Samples[0].Y = 7
	again, err := store.Load(ctx, "t1")
	require.NoError(t, err)
	assert.Zero(t, again.Samples[0].Y)
}
