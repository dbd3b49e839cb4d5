package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageRoundTrip(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	const key = "rental-1-abc123.pdf"
	require.NoError(t, store.Save(ctx, key, strings.NewReader("agreement bytes")))

	ok, size, err := store.Exists(ctx, key)
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(len("agreement bytes")), size)

	reader, err := store.Open(ctx, key)
	require.NoError(t, err)
	data, err := io.ReadAll(reader)
	assert.NoError(t, err)
	assert.NoError(t, reader.Close())
	assert.Equal(t, "agreement bytes", string(data))

	require.NoError(t, store.Delete(ctx, key))
	ok, _, err = store.Exists(ctx, key)
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestLocalStorageMissingKey(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	_, err = store.Open(ctx, "no-such-key")
	assert.Error(t, err)

	// Deleting something already gone is not an error.
	assert.NoError(t, store.Delete(ctx, "no-such-key"))
}

func TestLocalStorageStripsPathComponents(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "../escape.txt", strings.NewReader("x")))
	ok, _, err := store.Exists(ctx, "escape.txt")
	assert.NoError(t, err)
	assert.True(t, ok)
}
