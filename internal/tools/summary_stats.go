package tools

import (
	"fmt"
	"log"

	"github.com/kestrel-gis/rasterkit/internal/raster"
	"github.com/kestrel-gis/rasterkit/internal/stats"
)

// SummaryStats prints nodata-aware summary statistics for one raster.
type SummaryStats struct{}

// NewSummaryStats constructs the tool.
func NewSummaryStats() *SummaryStats { return &SummaryStats{} }

func (t *SummaryStats) Name() string { return "SummaryStats" }

func (t *SummaryStats) Description() string {
	return "Reports summary statistics over a raster's valid cells."
}

func (t *SummaryStats) Parameters() string {
	return "-i, --input      Input raster file.\n"
}

func (t *SummaryStats) ExampleUsage() string {
	return "rasterkit -run=SummaryStats -wd=/path/to/data -i=dem.dep"
}

func parseSingleInput(args []string, workingDir string) (string, error) {
	if len(args) == 0 {
		return "", fmt.Errorf("%w: tool run with no parameters", ErrInvalidInput)
	}
	var input string
	sc := newArgScanner(args)
	for sc.next() {
		if v, ok := sc.match("-i", "--input"); ok {
			input = v
		}
	}
	if input == "" {
		return "", fmt.Errorf("%w: no input raster specified", ErrInvalidInput)
	}
	return resolvePath(workingDir, input), nil
}

func (t *SummaryStats) Run(args []string, workingDir string, verbose bool) error {
	input, err := parseSingleInput(args, workingDir)
	if err != nil {
		return err
	}

	r, err := raster.Open(input)
	if err != nil {
		return err
	}
	s, err := stats.Summarize(r)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	log.Printf("Raster:      %s", input)
	log.Printf("Valid cells: %d (nodata: %d)", s.ValidCells, s.NodataCells)
	log.Printf("Minimum:     %g", s.Min)
	log.Printf("Maximum:     %g", s.Max)
	log.Printf("Mean:        %g", s.Mean)
	log.Printf("Median:      %g", s.Median)
	log.Printf("Std dev:     %g", s.StdDev)
	return nil
}
