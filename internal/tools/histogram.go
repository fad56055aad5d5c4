package tools

import (
	"fmt"
	"os"
	"strconv"

	"github.com/kestrel-gis/rasterkit/internal/raster"
	"github.com/kestrel-gis/rasterkit/internal/report"
	"github.com/kestrel-gis/rasterkit/internal/stats"
)

// Histogram writes an HTML histogram report of a raster's valid cells.
type Histogram struct{}

// NewHistogram constructs the tool.
func NewHistogram() *Histogram { return &Histogram{} }

func (t *Histogram) Name() string { return "Histogram" }

func (t *Histogram) Description() string {
	return "Renders a histogram of a raster's valid cells as an HTML report."
}

func (t *Histogram) Parameters() string {
	return "-i, --input      Input raster file.\n" +
		"-o, --output     Output HTML file.\n" +
		"--bins           Number of histogram bins (default 32).\n"
}

func (t *Histogram) ExampleUsage() string {
	return "rasterkit -run=Histogram -wd=/path/to/data -i=dem.dep -o=dem_hist.html --bins=64"
}

type histogramParams struct {
	Input  string
	Output string
	Bins   int
}

func parseHistogramParams(args []string, workingDir string) (histogramParams, error) {
	if len(args) == 0 {
		return histogramParams{}, fmt.Errorf("%w: tool run with no parameters", ErrInvalidInput)
	}

	p := histogramParams{Bins: 32}
	sc := newArgScanner(args)
	for sc.next() {
		if v, ok := sc.match("-i", "--input"); ok {
			p.Input = v
		} else if v, ok := sc.match("-o", "--output"); ok {
			p.Output = v
		} else if v, ok := sc.match("--bins"); ok {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 {
				return histogramParams{}, fmt.Errorf("%w: bad bin count %q", ErrInvalidInput, v)
			}
			p.Bins = n
		}
	}
	if p.Input == "" {
		return histogramParams{}, fmt.Errorf("%w: no input raster specified", ErrInvalidInput)
	}
	if p.Output == "" {
		return histogramParams{}, fmt.Errorf("%w: no output file specified", ErrInvalidInput)
	}
	p.Input = resolvePath(workingDir, p.Input)
	p.Output = resolvePath(workingDir, p.Output)
	return p, nil
}

func (t *Histogram) Run(args []string, workingDir string, verbose bool) error {
	params, err := parseHistogramParams(args, workingDir)
	if err != nil {
		return err
	}

	r, err := raster.Open(params.Input)
	if err != nil {
		return err
	}
	values, _ := stats.Collect(r)
	bins, err := stats.HistogramBins(values, params.Bins)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	f, err := os.Create(params.Output)
	if err != nil {
		return err
	}
	defer f.Close()

	title := fmt.Sprintf("Histogram of %s", params.Input)
	if err := report.WriteHistogramHTML(f, title, bins); err != nil {
		return err
	}
	return f.Close()
}
