package kmerexpand

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveRestoreCheckpointRoundTrip(t *testing.T) {
	const k = 3
	ctx := context.Background()
	table := buildTable(k, "AAC", "ACG", "CGA")
	table.Entries[0].Stat.Flags.Good = true
	table.Entries[1].Stat.Flags.GoodIterative = true

	path := filepath.Join(t.TempDir(), "checkpoint.pb")
	require.NoError(t, SaveCheckpoint(ctx, path, table, 3))

	restored := buildTable(k, "AAC", "ACG", "CGA")
	round, err := RestoreCheckpoint(ctx, path, restored)
	require.NoError(t, err)
	assert.Equal(t, 3, round)
	assert.True(t, restored.Entries[0].Stat.Flags.Good)
	assert.False(t, restored.Entries[0].Stat.Flags.GoodIterative)
	assert.True(t, restored.Entries[1].Stat.Flags.GoodIterative)
	assert.False(t, restored.Entries[2].Stat.Flags.Good)
}

func TestRestoreCheckpointRejectsMismatchedK(t *testing.T) {
	ctx := context.Background()
	table := buildTable(3, "AAC")
	path := filepath.Join(t.TempDir(), "checkpoint.pb")
	require.NoError(t, SaveCheckpoint(ctx, path, table, 1))

	other := buildTable(4, "AACG")
	_, err := RestoreCheckpoint(ctx, path, other)
	assert.Error(t, err)
}
