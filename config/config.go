// Package config declares the recognized pipeline options (§6). Loading
// these from a file or flag set is out of scope (§1); callers construct an
// Options value directly, typically starting from DefaultOptions.
package config

// ExcludingParams tunes the Excluding family of extension choosers (§4.2).
type ExcludingParams struct {
	WeightThreshold float64 // minimum top weight for any decision
	PriorCoeff      float64 // candidates within weight >= wMax/PriorCoeff survive
	MinLongEdgeLen  int     // LongEdge: minimum edge length to keep a position
}

// ScaffoldingParams tunes the Scaffolding chooser.
type ScaffoldingParams struct {
	Scatter            int     // distance-window slack added on both sides of the IS window
	RawWeightThreshold float64 // drop individual (dist, weight) samples below this
	ClusterWeightThres float64 // minimum total weight for a candidate jump edge
}

// LongReadsParams tunes the LongReads chooser.
type LongReadsParams struct {
	MinSignificantOverlap int     // minimum unique-edge length crossed by a long read
	FilteringThreshold    float64 // top candidate weight floor
	WeightPriorityThresh  float64 // top-vs-second selectivity factor
}

// CoordinatedCoverageParams tunes the CoordinatedCoverage chooser.
type CoordinatedCoverageParams struct {
	MinPathLen             int     // minimum path length (bp) to trust a coverage estimate
	MaxEdgeLenInRepeat      int     // BFS expands through edges no longer than this
	CoverageDelta           float64 // repeat edges need coverage >= cov*delta; an exit must be <= cov/delta
}

// ReadCloudParams tunes the TSLR/10x ReadCloud choosers.
type ReadCloudParams struct {
	DistanceBound      int     // Dijkstra search radius from the last unique edge
	Threshold          float64 // TSLR: minimum normalized shared-barcode ratio
	FragmentLen         int     // TSLR: typical fragment length, for gap_coefficient
	SharedBarcodeThresh int     // 10x InitialFilter: minimum shared-barcode count
	AbundancyThresh     float64 // 10x InitialFilter: minimum per-barcode abundancy
	TailThresh          int     // 10x InitialFilter: tail window length
	LenThreshold        float64 // 10x MiddleFilter: "between" evidence fraction cap
	FractionThreshold   float64 // 10x ConjugateFilter: tie-break advantage floor
}

// SimpleCoverageParams tunes the SimpleCoverage chooser.
type SimpleCoverageParams struct {
	CoverageDelta     float64 // delta for the "similar coverage" ratio test
	MinUpperCoverage float64 // at least one candidate must clear this
}

// Options collects every recognized pipeline option (§6).
type Options struct {
	// K-mer counting.
	KmerLength         int // k-mer length shared by split/merge/expand/correct
	GeneralTau         int // sub-k-mer partition count
	CountNumFiles      int // shard count N
	CountMergeNThreads int
	CorrectNThreads    int
	GeneralMaxNThreads int

	// Read I/O.
	InputQVOffset               int  // Phred offset, 33 or 64
	InputTrimQuality            int  // quality floor for trimming
	BayesDiscardOnlySingletons   bool
	CorrectUseThreshold          bool
	ExpandWriteEachIteration     bool
	InputPaired                  bool

	InputWorkingDir string
	OutputDir       string

	// Chooser tuning, §4.
	Excluding          ExcludingParams
	Scaffolding        ScaffoldingParams
	LongReads          LongReadsParams
	CoordinatedCoverage CoordinatedCoverageParams
	ReadCloud          ReadCloudParams
	SimpleCoverage     SimpleCoverageParams
}

// DefaultOptions mirrors pileup.DefaultOpts: sane values for the constants
// named in §4, none of which the spec pins to a single "correct" number.
var DefaultOptions = Options{
	KmerLength:         31,
	GeneralTau:         1,
	CountNumFiles:      16,
	CountMergeNThreads: 4,
	CorrectNThreads:    4,
	GeneralMaxNThreads: 4,

	InputQVOffset:     33,
	InputTrimQuality:  2,
	InputPaired:       true,

	Excluding: ExcludingParams{
		WeightThreshold: 2.0,
		PriorCoeff:      2.0,
		MinLongEdgeLen:  200,
	},
	Scaffolding: ScaffoldingParams{
		Scatter:            100,
		RawWeightThreshold: 0.2,
		ClusterWeightThres: 1.0,
	},
	LongReads: LongReadsParams{
		MinSignificantOverlap: 500,
		FilteringThreshold:    10.0,
		WeightPriorityThresh:  2.0,
	},
	CoordinatedCoverage: CoordinatedCoverageParams{
		MinPathLen:         1500,
		MaxEdgeLenInRepeat: 2000,
		CoverageDelta:      1.5,
	},
	ReadCloud: ReadCloudParams{
		DistanceBound:       10000,
		Threshold:           0.25,
		FragmentLen:         4000,
		SharedBarcodeThresh: 3,
		AbundancyThresh:     0.2,
		TailThresh:          1000,
		LenThreshold:        0.5,
		FractionThreshold:   0.2,
	},
	SimpleCoverage: SimpleCoverageParams{
		CoverageDelta:    0.5,
		MinUpperCoverage: 10,
	},
}
