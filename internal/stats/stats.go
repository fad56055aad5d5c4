// Package stats computes nodata-aware summary statistics over rasters.
package stats

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/kestrel-gis/rasterkit/internal/raster"
)

// Summary describes the distribution of a raster's valid cells.
type Summary struct {
	Min         float64
	Max         float64
	Mean        float64
	Median      float64
	StdDev      float64
	ValidCells  int
	NodataCells int
}

// Collect returns the values of all non-nodata cells in row-major order,
// along with the number of nodata cells skipped.
func Collect(r *raster.Raster) (values []float64, nodataCells int) {
	nodata := r.Nodata()
	for row := 0; row < r.Rows(); row++ {
		for col := 0; col < r.Columns(); col++ {
			z := r.Value(row, col)
			if z == nodata {
				nodataCells++
				continue
			}
			values = append(values, z)
		}
	}
	return values, nodataCells
}

// Summarize computes summary statistics for a raster. A raster with no
// valid cells is an error: there is no distribution to describe.
func Summarize(r *raster.Raster) (Summary, error) {
	values, nodataCells := Collect(r)
	if len(values) == 0 {
		return Summary{}, fmt.Errorf("stats: %s holds no valid cells", r.FileName)
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	return Summary{
		Min:         sorted[0],
		Max:         sorted[len(sorted)-1],
		Mean:        stat.Mean(values, nil),
		Median:      stat.Quantile(0.5, stat.Empirical, sorted, nil),
		StdDev:      stat.StdDev(values, nil),
		ValidCells:  len(values),
		NodataCells: nodataCells,
	}, nil
}

// Bin is one histogram bucket over [Lower, Upper).
type Bin struct {
	Lower float64
	Upper float64
	Count int
}

// HistogramBins divides [min, max] of the values into n equal-width bins
// and counts occupancy with gonum's histogram. Degenerate distributions
// (all values equal) collapse to a single full bin.
func HistogramBins(values []float64, n int) ([]Bin, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("stats: no values to bin")
	}
	if n < 1 {
		return nil, fmt.Errorf("stats: invalid bin count %d", n)
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	lo, hi := sorted[0], sorted[len(sorted)-1]
	if lo == hi {
		return []Bin{{Lower: lo, Upper: hi, Count: len(values)}}, nil
	}

	dividers := make([]float64, n+1)
	width := (hi - lo) / float64(n)
	for i := range dividers {
		dividers[i] = lo + float64(i)*width
	}
	// stat.Histogram bins are half-open, so nudge the top divider past the
	// maximum or the largest value would fall outside the range.
	dividers[n] = math.Nextafter(hi, math.Inf(1))

	counts := stat.Histogram(nil, dividers, sorted, nil)
	bins := make([]Bin, n)
	for i := range bins {
		bins[i] = Bin{
			Lower: dividers[i],
			Upper: dividers[i+1],
			Count: int(counts[i]),
		}
	}
	return bins, nil
}
