package tools

import (
	"fmt"

	"github.com/kestrel-gis/rasterkit/internal/raster"
	"github.com/kestrel-gis/rasterkit/internal/report"
)

// ExportHeatmap renders a raster as a PNG heat map image.
type ExportHeatmap struct{}

// NewExportHeatmap constructs the tool.
func NewExportHeatmap() *ExportHeatmap { return &ExportHeatmap{} }

func (t *ExportHeatmap) Name() string { return "ExportHeatmap" }

func (t *ExportHeatmap) Description() string {
	return "Renders a raster as a PNG heat map image."
}

func (t *ExportHeatmap) Parameters() string {
	return "-i, --input      Input raster file.\n" +
		"-o, --output     Output PNG file.\n"
}

func (t *ExportHeatmap) ExampleUsage() string {
	return "rasterkit -run=ExportHeatmap -wd=/path/to/data -i=mean.dep -o=mean.png"
}

func (t *ExportHeatmap) Run(args []string, workingDir string, verbose bool) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: tool run with no parameters", ErrInvalidInput)
	}

	var input, output string
	sc := newArgScanner(args)
	for sc.next() {
		if v, ok := sc.match("-i", "--input"); ok {
			input = v
		} else if v, ok := sc.match("-o", "--output"); ok {
			output = v
		}
	}
	if input == "" || output == "" {
		return fmt.Errorf("%w: both an input raster and an output image are required", ErrInvalidInput)
	}

	r, err := raster.Open(resolvePath(workingDir, input))
	if err != nil {
		return err
	}
	return report.SaveHeatmapPNG(r, resolvePath(workingDir, output))
}
