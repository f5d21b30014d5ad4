package shardstore

import (
	"context"
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := NewLocalStore(filepath.Join(dir, "shards"))
	require.NoError(t, err)

	w, err := store.Create(ctx, "shard-0")
	require.NoError(t, err)
	_, err = w.Write([]byte("0\t0.1\n4\t0.2\n"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	r, err := store.Open(ctx, "shard-0")
	require.NoError(t, err)
	defer r.Close()
	got, err := ioutil.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "0\t0.1\n4\t0.2\n", string(got))
}

func TestLocalStoreRemoveMissingIsNotError(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	assert.NoError(t, store.Remove(ctx, "does-not-exist"))
}

func TestLocalStoreOpenMissingIsError(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	_, err = store.Open(ctx, "does-not-exist")
	assert.Error(t, err)
}
