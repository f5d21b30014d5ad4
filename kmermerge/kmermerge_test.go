package kmermerge

import (
	"bytes"
	"context"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grailbio/pathcore/blob"
	"github.com/grailbio/pathcore/shardstore"
)

func writeShard(t *testing.T, store *shardstore.LocalStore, key, content string) {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err := gz.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, gz.Close())

	w, err := store.Create(context.Background(), key)
	require.NoError(t, err)
	_, err = w.Write(buf.Bytes())
	require.NoError(t, err)
	require.NoError(t, w.Close())
}

func TestMergeAggregatesDuplicateOccurrences(t *testing.T) {
	// Scenario 6 from the spec: three occurrences of the same canonical
	// k-mer with errors (0.1, 0.2, 0.05) and qualities (20, 25, 22).
	b := blob.NewBuilder()
	b.Add("ACGA", string([]byte{20, 20, 20, 20}))
	b.Add("ACGA", string([]byte{25, 25, 25, 25}))
	b.Add("ACGA", string([]byte{22, 22, 22, 22}))
	a := blob.BuildArena([]*blob.Builder{b}, 4)

	store, err := shardstore.NewLocalStore(t.TempDir())
	require.NoError(t, err)
	writeShard(t, store, "shard0.tsv", "0\t0.1\n4\t0.2\n8\t0.05\n")

	table, err := Merge(context.Background(), a, store, []string{"shard0.tsv"}, Opts{K: 4, QualCap: 1000, Parallelism: 2})
	require.NoError(t, err)
	require.Len(t, table.Entries, 1)

	e := table.Entries[0]
	assert.Equal(t, 3, e.Stat.Count)
	assert.InDelta(t, 0.001, e.Stat.TotalQual, 1e-9)
	assert.Equal(t, uint16(67), e.Stat.Qual[0])
	assert.False(t, e.Stat.Flags.Singleton)
}

func TestMergeMarksSingletons(t *testing.T) {
	b := blob.NewBuilder()
	b.Add("TTTT", string([]byte{30, 30, 30, 30}))
	a := blob.BuildArena([]*blob.Builder{b}, 4)

	store, err := shardstore.NewLocalStore(t.TempDir())
	require.NoError(t, err)
	writeShard(t, store, "shard0.tsv", "0\t0.01\n")

	table, err := Merge(context.Background(), a, store, []string{"shard0.tsv"}, Opts{K: 4, QualCap: 1000, Parallelism: 1})
	require.NoError(t, err)
	require.Len(t, table.Entries, 1)
	assert.True(t, table.Entries[0].Stat.Flags.Singleton)

	idx, ok := table.IndexOf(table.Entries[0].Canonical)
	require.True(t, ok)
	assert.Equal(t, int32(0), idx)
}

func TestMergeQualCap(t *testing.T) {
	b := blob.NewBuilder()
	b.Add("GGGG", string([]byte{255, 255, 255, 255}))
	b.Add("GGGG", string([]byte{255, 255, 255, 255}))
	a := blob.BuildArena([]*blob.Builder{b}, 4)

	store, err := shardstore.NewLocalStore(t.TempDir())
	require.NoError(t, err)
	writeShard(t, store, "shard0.tsv", "0\t0.1\n4\t0.1\n")

	table, err := Merge(context.Background(), a, store, []string{"shard0.tsv"}, Opts{K: 4, QualCap: 300, Parallelism: 1})
	require.NoError(t, err)
	require.Len(t, table.Entries, 1)
	assert.Equal(t, uint16(300), table.Entries[0].Stat.Qual[0])
}
