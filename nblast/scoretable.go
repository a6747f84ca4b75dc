/*
Package nblast implements neuron-to-neuron similarity scoring: a k-d tree
spatial index over point-and-tangent clouds (a "vector cloud"), a 2-D
lookup table over (distance, |cos θ|), and the resulting asymmetric NBLAST
score and all-pairs score matrices. Grounded on
include/xiuli/neuron/nblast.hpp.
*/
package nblast

import "math"

// distThresholds are right-open distance bin edges in nanometers; the
// final bin is unbounded above. This array intentionally starts at 1000,
// not 0, diverging from a commented-out alternative in the original NBLAST
// source — kept as-is rather than "fixed", since it is the table every
// existing score matrix is fit against.
var distThresholds = [22]float64{
	1000, 750, 1500, 2000, 2500, 3000, 3500, 4000, 5000, 6000, 7000, 8000,
	9000, 10000, 12000, 14000, 16000, 20000, 25000, 30000, 40000,
	math.MaxFloat64,
}

// adpThresholds are absolute-dot-product bin edges, in [0,1].
var adpThresholds = [11]float64{0.0, 0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0}

// ScoreTable is a [21,10] lookup over (distance, |cos θ|) bins, built from
// an externally supplied matrix — loading the matrix from e.g. a CSV is an
// I/O concern left to the caller.
type ScoreTable struct {
	table [21][10]float64
}

// NewScoreTable wraps an externally loaded [21,10] score matrix.
func NewScoreTable(matrix [21][10]float64) *ScoreTable {
	return &ScoreTable{table: matrix}
}

// binarySearch returns, by bisection, the largest index i >= 1 such that
// value > thresholds[i], or 0 when there is none, matching
// ScoreTable::binary_search. thresholds[0] is never compared. distThresholds
// is not monotone in its first two entries (1000, then 750), so every
// distance up to 750 lands in bin 0 and (750, 1500] lands in bin 1; from
// index 1 on both arrays are increasing. A value beyond every threshold resolves to
// the final index, clamping out-of-range inputs to the last bin rather
// than panicking.
func binarySearch(thresholds []float64, value float64) int {
	start, stop := 0, len(thresholds)
	for stop-start > 1 {
		mid := (stop + start) / 2
		if value > thresholds[mid] {
			start = mid
		} else {
			stop = mid
		}
	}
	return start
}

// Score returns the table entry at (bin(dist), bin(adp)).
func (t *ScoreTable) Score(dist, adp float64) float64 {
	return t.table[DistanceBin(dist)][DotBin(adp)]
}

// DistanceBin exposes the distance bin index for a given distance, clamped
// to the table's 21 rows. binarySearch itself can return
// len(distThresholds)-1 == 21 (one past the last row) since distThresholds
// carries a trailing math.MaxFloat64 sentinel with no row of its own; any
// distance past the last real edge clamps to row 20.
func DistanceBin(dist float64) int {
	i := binarySearch(distThresholds[:], dist)
	if i > 20 {
		i = 20
	}
	return i
}

// DotBin exposes the dot-product bin index for a given |cos θ|, clamped to
// the table's 10 columns. |cos θ| is mathematically bounded by 1, but
// floating-point round-off on near-parallel unit tangents can push it
// fractionally above 1 (e.g. a point queried against an identical cloud),
// which would otherwise send binarySearch past the last column.
func DotBin(adp float64) int {
	i := binarySearch(adpThresholds[:], adp)
	if i > 9 {
		i = 9
	}
	return i
}
