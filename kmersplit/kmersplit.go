// Package kmersplit canonicalizes every valid k-mer window of every read
// in an arena and partitions the resulting (blob_offset, error_probability)
// records into N on-disk shard files, so that kmermerge can later
// aggregate each shard independently and in parallel.
package kmersplit

import (
	"bufio"
	"context"
	"fmt"
	"io"

	seahash "blainsmith.com/go/seahash"
	"github.com/klauspost/compress/gzip"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"
	pkgerrors "github.com/pkg/errors"

	"github.com/grailbio/pathcore/blob"
	"github.com/grailbio/pathcore/kmer"
	"github.com/grailbio/pathcore/shardstore"
)

// Record is one canonicalized k-mer occurrence: the blob offset of its
// canonical strand and the probability that the occurrence is a
// sequencing error (the product of the K per-base error probabilities).
type Record struct {
	BlobOffset int
	ErrorProb  float64
}

// Opts configures the split phase.
type Opts struct {
	K           int
	NumShards   int
	Parallelism int
	QVOffset    int // Phred offset applied to raw quality bytes.
}

// phredErrorProb converts a raw FASTQ-encoded Phred score to an error
// probability.
func phredErrorProb(raw byte, qvOffset int) float64 {
	q := int(raw) - qvOffset
	if q < 0 {
		q = 0
	}
	return phredTable.lookup(q)
}

// Split partitions every read in a into opts.NumShards shard records in
// store, writing one text line "offset\terrorProb\n" per canonicalized
// k-mer occurrence. It returns the store keys of the shard records,
// indexed by shard number, and mutates each PositionRead's RCBits in
// place as canonicalization chooses strands.
func Split(ctx context.Context, a *blob.Arena, store shardstore.ShardStore, opts Opts) ([]string, error) {
	if opts.NumShards <= 0 {
		log.Panicf("kmersplit: NumShards must be positive, got %d", opts.NumShards)
	}
	keys := make([]string, opts.NumShards)
	closers := make([]io.WriteCloser, opts.NumShards)
	gzWriters := make([]*gzip.Writer, opts.NumShards)
	writers := make([]*bufio.Writer, opts.NumShards)
	defer func() {
		for _, c := range closers {
			if c != nil {
				c.Close() // nolint: errcheck -- best effort on the error path
			}
		}
	}()
	for i := range closers {
		keys[i] = fmt.Sprintf("kmershard%04d.tsv.gz", i)
		c, err := store.Create(ctx, keys[i])
		if err != nil {
			return nil, pkgerrors.Wrap(err, "kmersplit: creating shard record")
		}
		closers[i] = c
		gzWriters[i] = gzip.NewWriter(c)
		writers[i] = bufio.NewWriter(gzWriters[i])
	}

	// One mutex per shard serializes the concurrent writers below; reads
	// are partitioned across workers, but any worker may canonicalize a
	// k-mer that hashes to any shard.
	locks := make([]chan struct{}, opts.NumShards)
	for i := range locks {
		locks[i] = make(chan struct{}, 1)
		locks[i] <- struct{}{}
	}

	parallelism := opts.Parallelism
	if parallelism <= 0 {
		parallelism = 1
	}
	nReads := len(a.Reads)

	e := errors.Once{}
	werr := traverse.Each(parallelism, func(worker int) error {
		startIdx := (worker * nReads) / parallelism
		endIdx := ((worker + 1) * nReads) / parallelism
		sc := kmer.NewScanner(opts.K)
		for ri := startIdx; ri < endIdx; ri++ {
			r := &a.Reads[ri]
			seq := string(a.ReadSeq(*r))
			sc.Reset(seq)
			for sc.Scan() {
				w := sc.Get()
				canon, reversed := w.Canonical()
				if reversed {
					r.SetRCBit(w.Pos)
				}
				blobOffset := r.Start + w.Pos
				if reversed {
					blobOffset = r.ReverseComplementOffset(a.RevPos) + (r.Size - w.Pos - opts.K)
				}
				errProb := 1.0
				for j := 0; j < opts.K; j++ {
					errProb *= phredErrorProb(a.QualityAt(*r, w.Pos+j), opts.QVOffset)
				}
				shard := shardOf(canon, opts.NumShards)
				line := fmt.Sprintf("%d\t%g\n", blobOffset, errProb)

				<-locks[shard]
				_, werr := writers[shard].WriteString(line)
				locks[shard] <- struct{}{}
				if werr != nil {
					e.Set(pkgerrors.Wrap(werr, "kmersplit: writing shard record"))
					return nil
				}
			}
		}
		return nil
	})
	e.Set(werr)

	for i, w := range writers {
		if err := w.Flush(); err != nil {
			e.Set(pkgerrors.Wrap(err, "kmersplit: flushing shard record"))
		}
		if err := gzWriters[i].Close(); err != nil {
			e.Set(pkgerrors.Wrap(err, "kmersplit: closing shard gzip stream"))
		}
		if err := closers[i].Close(); err != nil {
			e.Set(pkgerrors.Wrap(err, "kmersplit: closing shard record"))
		}
		closers[i] = nil
	}
	if err := e.Err(); err != nil {
		return nil, err
	}
	return keys, nil
}

// shardOf picks the shard for a canonical k-mer: the SeaHash of its eight
// little-endian bytes, modulo numShards, so every occurrence of the same
// canonical k-mer lands in the same shard.
func shardOf(canon kmer.KMer, numShards int) int {
	var buf [8]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(canon >> (8 * i))
	}
	h := seahash.Sum64(buf[:])
	return int(h % uint64(numShards))
}
