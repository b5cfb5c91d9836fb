package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore_SaveLoad(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "task_1_abc.jpg", []byte("jpeg bytes")))

	got, err := store.Load(ctx, "task_1_abc.jpg")
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg bytes"), got)
}

func TestLocalStore_LoadMissing(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Load(context.Background(), "nope.jpg")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalStore_KeyCannotEscapeDir(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "../../etc/evil.jpg", []byte("x")))

	// the blob lands inside dir under its base name
	got, err := store.Load(ctx, "evil.jpg")
	require.NoError(t, err)
	assert.Equal(t, []byte("x"), got)
}
