// Package kmermerge aggregates the per-shard k-mer occurrence records
// produced by kmersplit into a single global k-mer table with stable
// integer ids.
package kmermerge

import (
	"bufio"
	"context"
	"fmt"

	"github.com/klauspost/compress/gzip"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/traverse"
	pkgerrors "github.com/pkg/errors"

	"github.com/grailbio/pathcore/blob"
	"github.com/grailbio/pathcore/kmer"
	"github.com/grailbio/pathcore/shardstore"
)

// Flags captures the per-k-mer boolean state accumulated over the
// expansion and correction passes. Good, GoodIterative and
// MarkedGoodIterative start false at merge time; Merge sets Singleton.
type Flags struct {
	Good                bool // trusted under a static count threshold.
	GoodIterative       bool // promoted to trusted by iterative expansion.
	MarkedGoodIterative bool // visited in the current expansion pass (idempotence guard).
	Singleton           bool // occurred exactly once.
}

// Stat is the per-k-mer accumulator: occurrence count, an optional
// replacement k-mer index, the product of per-occurrence error
// probabilities, and a per-position quality sum capped at QualCap.
type Stat struct {
	Count     int
	ChangeTo  int32 // index into Table.Entries, or -1 if this k-mer is not rewritten.
	TotalQual float64
	Qual      []uint16
	Flags     Flags
}

// Entry pairs a canonical k-mer with its accumulated statistics.
type Entry struct {
	Canonical kmer.KMer
	Stat      Stat
}

// Table is the global, indexed k-mer table produced by Merge. Entries are
// referenced by index everywhere downstream (expansion, correction).
type Table struct {
	K       int
	QualCap uint16
	Entries []Entry

	index map[kmer.KMer]int32
}

// IndexOf returns the table index of k and whether it is present.
func (t *Table) IndexOf(k kmer.KMer) (int32, bool) {
	idx, ok := t.index[k]
	return idx, ok
}

// NewTable returns an empty table for k-mers of length k, ready for Add.
func NewTable(k int, qualCap uint16) *Table {
	return &Table{K: k, QualCap: qualCap, index: make(map[kmer.KMer]int32)}
}

// Add inserts a new entry, returning its stable index. Used by callers
// that build a table outside of Merge (e.g. restoring a persisted table).
func (t *Table) Add(canon kmer.KMer, stat Stat) int32 {
	idx := int32(len(t.Entries))
	t.Entries = append(t.Entries, Entry{Canonical: canon, Stat: stat})
	t.index[canon] = idx
	return idx
}

// Opts configures the merge phase.
type Opts struct {
	K           int
	QualCap     uint16
	Parallelism int
}

// Merge reads every shard record (each produced by kmersplit.Split, keys
// in shard order) out of store, resolving each record's blob offset back
// to its canonical k-mer bytes via a, and returns the combined global
// table. Shards are processed in parallel: since kmersplit assigns every
// canonical k-mer deterministically to exactly one shard, no cross-shard
// deduplication is needed — each shard's partial map is simply appended
// into the final table once all shards finish.
func Merge(ctx context.Context, a *blob.Arena, store shardstore.ShardStore, shardKeys []string, opts Opts) (*Table, error) {
	parallelism := opts.Parallelism
	if parallelism <= 0 {
		parallelism = 1
	}
	perShard := make([]map[kmer.KMer]*Stat, len(shardKeys))

	e := errors.Once{}
	werr := traverse.Each(parallelism, func(i int) error {
		m, err := mergeOneShard(ctx, a, store, shardKeys[i], opts.K, opts.QualCap)
		if err != nil {
			return pkgerrors.Wrapf(err, "kmermerge: shard %d", i)
		}
		perShard[i] = m
		return nil
	})
	e.Set(werr)
	if err := e.Err(); err != nil {
		return nil, err
	}

	table := &Table{K: opts.K, QualCap: opts.QualCap, index: make(map[kmer.KMer]int32)}
	for _, m := range perShard {
		for kv, stat := range m {
			stat.Flags.Singleton = stat.Count == 1
			idx := int32(len(table.Entries))
			table.Entries = append(table.Entries, Entry{Canonical: kv, Stat: *stat})
			table.index[kv] = idx
		}
	}
	return table, nil
}

func mergeOneShard(ctx context.Context, a *blob.Arena, store shardstore.ShardStore, key string, k int, qualCap uint16) (m map[kmer.KMer]*Stat, err error) {
	f, err := store.Open(ctx, key)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "opening shard")
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "opening shard gzip stream")
	}
	defer gz.Close() // nolint: errcheck -- read-side, nothing more to flush.

	m = make(map[kmer.KMer]*Stat)
	sc := bufio.NewScanner(gz)
	for sc.Scan() {
		var offset int
		var errProb float64
		if _, scanErr := fmt.Sscanf(sc.Text(), "%d\t%g", &offset, &errProb); scanErr != nil {
			return nil, pkgerrors.Wrapf(scanErr, "parsing shard line %q", sc.Text())
		}
		kmerBytes := a.BytesAt(offset, k)
		qualBytes := a.QualityBytesAt(offset, k)
		kv := kmer.FromASCII(string(kmerBytes))

		stat, ok := m[kv]
		if !ok {
			stat = &Stat{Count: 1, ChangeTo: -1, TotalQual: errProb, Qual: make([]uint16, k)}
			for j := 0; j < k; j++ {
				stat.Qual[j] = saturatingAdd(0, qualContribution(qualBytes[j]), qualCap)
			}
			m[kv] = stat
			continue
		}
		stat.Count++
		stat.TotalQual *= errProb
		for j := 0; j < k; j++ {
			stat.Qual[j] = saturatingAdd(stat.Qual[j], qualContribution(qualBytes[j]), qualCap)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, pkgerrors.Wrap(err, "reading shard")
	}
	return m, nil
}

// qualContribution turns one raw FASTQ-encoded quality byte into the unit
// contributed to a KMerStat.Qual accumulator: the byte value itself, as
// read directly off the blob. The blob stores quality bytes as they appear
// in the FASTQ input, so the Phred offset is not subtracted here.
func qualContribution(raw byte) uint16 {
	return uint16(raw)
}

// saturatingAdd adds delta to sum, clamping at max so a handful of
// extremely deep k-mers cannot overflow a uint16 accumulator.
func saturatingAdd(sum, delta, max uint16) uint16 {
	if uint32(sum)+uint32(delta) > uint32(max) {
		return max
	}
	return sum + delta
}
