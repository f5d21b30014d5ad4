package correct

import (
	"context"

	"github.com/grailbio/base/file"
	pkgerrors "github.com/pkg/errors"

	"github.com/grailbio/pathcore/encoding/fastq"
)

// PairedWriters bundles the six output files a paired-mode correction
// run produces for one (left, right) input file pair: left/right ×
// corrected/bad/unpaired.
type PairedWriters struct {
	LeftCorrected, RightCorrected *fastq.Writer
	LeftBad, RightBad             *fastq.Writer
	LeftUnpaired, RightUnpaired   *fastq.Writer

	closers []file.File
}

// OpenPairedWriters creates the six output files under outDir, named
// from the given base names (typically derived from the input file
// pair's names).
func OpenPairedWriters(ctx context.Context, outDir, leftBase, rightBase string) (*PairedWriters, error) {
	open := func(name string) (*fastq.Writer, file.File, error) {
		f, err := file.Create(ctx, outDir+"/"+name)
		if err != nil {
			return nil, nil, pkgerrors.Wrapf(err, "creating %s", name)
		}
		return fastq.NewWriter(f.Writer(ctx)), f, nil
	}

	pw := &PairedWriters{}
	var err error
	specs := []struct {
		name string
		dst  **fastq.Writer
	}{
		{leftBase + ".corrected.fastq", &pw.LeftCorrected},
		{rightBase + ".corrected.fastq", &pw.RightCorrected},
		{leftBase + ".bad.fastq", &pw.LeftBad},
		{rightBase + ".bad.fastq", &pw.RightBad},
		{leftBase + ".unpaired.fastq", &pw.LeftUnpaired},
		{rightBase + ".unpaired.fastq", &pw.RightUnpaired},
	}
	for _, spec := range specs {
		var w *fastq.Writer
		var f file.File
		if w, f, err = open(spec.name); err != nil {
			pw.Close(ctx) // nolint: errcheck -- best effort cleanup on the error path
			return nil, err
		}
		*spec.dst = w
		pw.closers = append(pw.closers, f)
	}
	return pw, nil
}

// WritePair routes a corrected read pair to the correct output files per
// ClassifyPair's outcome.
func (pw *PairedWriters) WritePair(left, right Result) error {
	switch ClassifyPair(left, right) {
	case PairCorrected:
		if err := pw.LeftCorrected.Write(&left.Read); err != nil {
			return err
		}
		return pw.RightCorrected.Write(&right.Read)
	case PairLeftUnpaired:
		if err := pw.LeftUnpaired.Write(&left.Read); err != nil {
			return err
		}
		return pw.RightBad.Write(&right.Read)
	case PairRightUnpaired:
		if err := pw.LeftBad.Write(&left.Read); err != nil {
			return err
		}
		return pw.RightUnpaired.Write(&right.Read)
	default:
		if err := pw.LeftBad.Write(&left.Read); err != nil {
			return err
		}
		return pw.RightBad.Write(&right.Read)
	}
}

// Close closes every underlying output file, returning the first error
// encountered.
func (pw *PairedWriters) Close(ctx context.Context) error {
	var first error
	for _, f := range pw.closers {
		if err := f.Close(ctx); err != nil && first == nil {
			first = err
		}
	}
	return first
}
