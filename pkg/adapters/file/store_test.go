package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/markmenu/pkg/adapters/file"
	"github.com/aretw0/markmenu/pkg/domain"
	"github.com/aretw0/markmenu/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_Contract(t *testing.T) {
	ports.RunTraceStoreContract(t, file.New(t.TempDir()))
}

func TestFileStore_Layout(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "nested", "traces")
	store := file.New(dir)

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids, "missing directory lists as empty")

	require.NoError(t, store.Save(ctx, &domain.Trace{ID: "swipe"}))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tmp-half-123.json"), []byte("{"), 0644))

	_, err = os.Stat(filepath.Join(dir, "swipe.json"))
	require.NoError(t, err)

	ids, err = store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"swipe"}, ids)
}

func TestFileStore_RejectsUnsafeIDs(t *testing.T) {
	ctx := context.Background()
	store := file.New(t.TempDir())

	for _, id := range []string{"", "../escape", `a\b`, "..", "tmp-x"} {
		assert.ErrorIs(t, store.Save(ctx, &domain.Trace{ID: id}), domain.ErrInvalidTraceID, "id %q", id)
		_, err := store.Load(ctx, id)
		assert.ErrorIs(t, err, domain.ErrInvalidTraceID, "id %q", id)
		assert.ErrorIs(t, store.Delete(ctx, id), domain.ErrInvalidTraceID, "id %q", id)
	}
}

func TestFileStore_DefaultPath(t *testing.T) {
	assert.Equal(t, filepath.Join(".markmenu", "traces"), file.New("").BasePath)
}
