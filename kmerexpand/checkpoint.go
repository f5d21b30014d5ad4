package kmerexpand

import (
	"context"
	"io/ioutil"

	"github.com/golang/snappy"

	"github.com/grailbio/base/file"
	pkgerrors "github.com/pkg/errors"

	"github.com/grailbio/pathcore/corepb"
	"github.com/grailbio/pathcore/kmermerge"
)

// SaveCheckpoint snapshots table's current Good/GoodIterative flags to
// path, tagged with round, so a long-running expansion can resume from
// here instead of restarting from the merged table. This backs the
// "expand_write_each_iteration" mode: kmerpipeline.Run calls it once,
// after Expand has reached its fixed point, not once per round.
// The marshaled snapshot is snappy-compressed on the way to disk, the way
// encoding/bampair spills its distant-mate shards.
func SaveCheckpoint(ctx context.Context, path string, table *kmermerge.Table, round int) (err error) {
	m := &corepb.CoverageMap{
		K:     int32(table.K),
		Round: int32(round),
	}
	for _, e := range table.Entries {
		m.Entries = append(m.Entries, &corepb.CoverageEntry{
			Canonical:     uint64(e.Canonical),
			Good:          e.Stat.Flags.Good,
			GoodIterative: e.Stat.Flags.GoodIterative,
		})
	}
	data, err := corepb.Marshal(m)
	if err != nil {
		return pkgerrors.Wrap(err, "kmerexpand: marshaling checkpoint")
	}
	f, err := file.Create(ctx, path)
	if err != nil {
		return pkgerrors.Wrapf(err, "kmerexpand: creating checkpoint %s", path)
	}
	defer file.CloseAndReport(ctx, f, &err)
	w := snappy.NewBufferedWriter(f.Writer(ctx))
	if _, err = w.Write(data); err != nil {
		return pkgerrors.Wrap(err, "kmerexpand: writing checkpoint")
	}
	return w.Close()
}

// RestoreCheckpoint loads a snapshot written by SaveCheckpoint and applies
// its flags onto table in place, returning the round number it was taken
// at. table's entry order must match the table the checkpoint was taken
// from (the same merge output), since entries are restored positionally.
func RestoreCheckpoint(ctx context.Context, path string, table *kmermerge.Table) (round int, err error) {
	f, err := file.Open(ctx, path)
	if err != nil {
		return 0, pkgerrors.Wrapf(err, "kmerexpand: opening checkpoint %s", path)
	}
	defer file.CloseAndReport(ctx, f, &err)
	data, err := ioutil.ReadAll(snappy.NewReader(f.Reader(ctx)))
	if err != nil {
		return 0, pkgerrors.Wrap(err, "kmerexpand: reading checkpoint")
	}
	m, err := corepb.Unmarshal(data)
	if err != nil {
		return 0, pkgerrors.Wrap(err, "kmerexpand: unmarshaling checkpoint")
	}
	if int(m.K) != table.K {
		return 0, pkgerrors.Errorf("kmerexpand: checkpoint K=%d does not match table K=%d", m.K, table.K)
	}
	if len(m.Entries) != len(table.Entries) {
		return 0, pkgerrors.Errorf("kmerexpand: checkpoint has %d entries, table has %d", len(m.Entries), len(table.Entries))
	}
	for i, ce := range m.Entries {
		table.Entries[i].Stat.Flags.Good = ce.Good
		table.Entries[i].Stat.Flags.GoodIterative = ce.GoodIterative
	}
	return int(m.Round), nil
}
