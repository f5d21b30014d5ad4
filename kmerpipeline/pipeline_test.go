package kmerpipeline

import (
	"context"
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grailbio/pathcore/config"
	"github.com/grailbio/pathcore/encoding/fastq"
	"github.com/grailbio/pathcore/shardstore"
)

func writeFastq(t *testing.T, path string, reads []fastq.Read) {
	t.Helper()
	var buf []byte
	for _, r := range reads {
		buf = append(buf, []byte(r.ID+"\n"+r.Seq+"\n"+r.Unk+"\n"+r.Qual+"\n")...)
	}
	require.NoError(t, ioutil.WriteFile(path, buf, 0644))
}

func TestRunCorrectsRepeatedReadPair(t *testing.T) {
	dir := t.TempDir()
	leftPath := filepath.Join(dir, "r1.fastq")
	rightPath := filepath.Join(dir, "r2.fastq")

	// Three identical pairs give every canonical k-mer a count of at least
	// 3 (6 for those occurring twice per read, such as ACGT), well above
	// the static Good threshold, so both mates of every pair correct cleanly.
	qual := string([]byte{40, 40, 40, 40, 40, 40, 40, 40})
	left := fastq.Read{ID: "@r/1", Seq: "ACGTACGT", Unk: "+", Qual: qual}
	right := fastq.Read{ID: "@r/2", Seq: "TTGGCCAA", Unk: "+", Qual: qual}
	writeFastq(t, leftPath, []fastq.Read{left, left, left})
	writeFastq(t, rightPath, []fastq.Read{right, right, right})

	outDir := t.TempDir()
	store, err := shardstore.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	opts := config.DefaultOptions
	opts.KmerLength = 4
	opts.CountNumFiles = 2
	opts.OutputDir = outDir
	opts.InputTrimQuality = 0

	stats, err := Run(context.Background(), opts, store, leftPath, rightPath)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.ReadPairs)
	assert.Equal(t, 3, stats.CorrectedPairs)
	assert.Equal(t, 0, stats.BadPairs)
	assert.Greater(t, stats.GoodKMers, 0)

	corrected, err := ioutil.ReadFile(filepath.Join(outDir, "r1.corrected.fastq"))
	require.NoError(t, err)
	assert.Contains(t, string(corrected), "ACGTACGT")
}

func TestRunRejectsSingleEndInput(t *testing.T) {
	store, err := shardstore.NewLocalStore(t.TempDir())
	require.NoError(t, err)
	opts := config.DefaultOptions
	opts.InputPaired = false

	_, err = Run(context.Background(), opts, store, "left.fastq", "right.fastq")
	assert.Error(t, err)
}

func TestTrimByQualityCutsTrailingLowQualityBases(t *testing.T) {
	// Phred+33: byte 73 is Q40 (high quality), byte 38 is Q5 (low quality).
	r := fastq.Read{ID: "@x", Seq: "ACGTACGT", Unk: "+", Qual: string([]byte{73, 73, 73, 73, 73, 38, 38, 38})}
	trimByQuality(&r, 33, 10)
	assert.Equal(t, "ACGTA", r.Seq)
}

func TestBaseNameStripsDirAndExtension(t *testing.T) {
	assert.Equal(t, "r1", baseName("/tmp/foo/r1.fastq"))
	assert.Equal(t, "r1", baseName("r1.fastq.gz"))
}
