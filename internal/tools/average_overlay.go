package tools

import (
	"fmt"
	"log"
	"math"
	"time"

	"github.com/kestrel-gis/rasterkit/internal/grid"
	"github.com/kestrel-gis/rasterkit/internal/raster"
)

// AverageOverlay computes the per-cell mean across a group of
// co-registered rasters. A cell's mean covers only the inputs holding
// valid data there; cells that are nodata in every input stay nodata in
// the output.
type AverageOverlay struct{}

// NewAverageOverlay constructs the tool.
func NewAverageOverlay() *AverageOverlay { return &AverageOverlay{} }

func (t *AverageOverlay) Name() string { return "AverageOverlay" }

func (t *AverageOverlay) Description() string {
	return "Calculates the average for each grid cell from a group of rasters."
}

func (t *AverageOverlay) Parameters() string {
	return "-i, --inputs     Input raster files, separated by semicolons or commas.\n" +
		"-o, --output     Output raster file.\n"
}

func (t *AverageOverlay) ExampleUsage() string {
	return "rasterkit -run=AverageOverlay -wd=/path/to/data -v -i='a.dep;b.dep;c.dep' -o=mean.dep"
}

// overlayParams is the resolved configuration for one overlay run.
type overlayParams struct {
	Inputs []string
	Output string
}

func parseOverlayParams(args []string, workingDir string) (overlayParams, error) {
	if len(args) == 0 {
		return overlayParams{}, fmt.Errorf("%w: tool run with no parameters", ErrInvalidInput)
	}

	var rawInputs, output string
	sc := newArgScanner(args)
	for sc.next() {
		if v, ok := sc.match("-i", "--inputs"); ok {
			rawInputs = v
		} else if v, ok := sc.match("-o", "--output"); ok {
			output = v
		}
	}

	inputs := SplitList(rawInputs)
	if len(inputs) < 2 {
		return overlayParams{}, fmt.Errorf(
			"%w: at least two input rasters are required, got %d", ErrInvalidInput, len(inputs))
	}
	if output == "" {
		return overlayParams{}, fmt.Errorf("%w: no output raster specified", ErrInvalidInput)
	}
	for i := range inputs {
		inputs[i] = resolvePath(workingDir, inputs[i])
	}
	return overlayParams{Inputs: inputs, Output: resolvePath(workingDir, output)}, nil
}

// Run parses the argument list and executes the overlay, writing the
// output raster only after the full two-pass computation succeeds.
func (t *AverageOverlay) Run(args []string, workingDir string, verbose bool) error {
	params, err := parseOverlayParams(args, workingDir)
	if err != nil {
		return err
	}

	start := time.Now()
	prog := newProgress(verbose)
	output, err := averageRasters(params, prog)
	if err != nil {
		return err
	}

	elapsed := time.Since(start).Round(time.Millisecond)
	output.AddMetadataEntry(fmt.Sprintf("Created by rasterkit's %s tool", t.Name()))
	output.AddMetadataEntry(fmt.Sprintf("Elapsed Time (including I/O): %s", elapsed))

	prog.note("Saving data...")
	if err := output.Write(); err != nil {
		return err
	}
	if verbose {
		log.Printf("Elapsed Time (including I/O): %s", time.Since(start).Round(time.Millisecond))
	}
	return nil
}

// maxCellCount is the ceiling on per-cell contributions imposed by the
// int16 count grid. Exceeding it is an error rather than a silent wrap.
const maxCellCount = math.MaxInt16

// averageRasters folds every input into a running sum and count, then
// divides. Dimensions and the output nodata sentinel are fixed from the
// first input; later inputs must match exactly. The count grid doubles as
// the touched mask: a cell with count zero has never received a valid
// contribution and still holds the nodata sentinel.
func averageRasters(params overlayParams, prog *progress) (*raster.Raster, error) {
	var (
		output  *raster.Raster
		counts  *grid.Array2D[int16]
		rows    int
		columns int
	)

	loops := len(params.Inputs) + 1
	for i, path := range params.Inputs {
		prog.note("Reading data...")
		input, err := raster.Open(path)
		if err != nil {
			return nil, err
		}

		if output == nil {
			rows = input.Rows()
			columns = input.Columns()
			output = raster.NewFromTemplate(params.Output, input)
			counts, err = grid.NewArray2D[int16](rows, columns, 0, math.MinInt16)
			if err != nil {
				return nil, err
			}
		}
		if input.Rows() != rows || input.Columns() != columns {
			return nil, fmt.Errorf(
				"%w: %s is %dx%d but the first input is %dx%d; all inputs must share the same extent",
				ErrInvalidInput, path, input.Rows(), input.Columns(), rows, columns)
		}

		inNodata := input.Nodata()
		label := fmt.Sprintf("Progress (loop %d of %d)", i+1, loops)
		for row := 0; row < rows; row++ {
			for col := 0; col < columns; col++ {
				z := input.Value(row, col)
				if z == inNodata {
					continue
				}
				n := counts.Value(row, col)
				if n == 0 {
					output.SetValue(row, col, z)
					counts.SetValue(row, col, 1)
					continue
				}
				if n == maxCellCount {
					return nil, fmt.Errorf(
						"%w: more than %d rasters contribute to cell (%d,%d)",
						ErrInvalidInput, maxCellCount, row, col)
				}
				output.Increment(row, col, z)
				counts.Increment(row, col, 1)
			}
			prog.row(label, row, rows)
		}
	}

	label := fmt.Sprintf("Progress (loop %d of %d)", loops, loops)
	for row := 0; row < rows; row++ {
		for col := 0; col < columns; col++ {
			if n := counts.Value(row, col); n > 0 {
				output.SetValue(row, col, output.Value(row, col)/float64(n))
			}
		}
		prog.row(label, row, rows)
	}
	return output, nil
}
