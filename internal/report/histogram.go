// Package report renders raster analysis results to files: histogram
// charts as standalone HTML pages and raster heatmaps as PNG images.
package report

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/kestrel-gis/rasterkit/internal/stats"
)

// WriteHistogramHTML renders the bins as a bar chart in a standalone HTML
// page. Bin labels carry the lower bound of each bucket.
func WriteHistogramHTML(w io.Writer, title string, bins []stats.Bin) error {
	if len(bins) == 0 {
		return fmt.Errorf("report: no histogram bins to render")
	}

	x := make([]string, len(bins))
	y := make([]opts.BarData, len(bins))
	for i, b := range bins {
		x[i] = fmt.Sprintf("%.4g", b.Lower)
		y[i] = opts.BarData{Value: b.Count}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "1200px", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: fmt.Sprintf("%d bins", len(bins))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "cell value"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "cells"}),
	)
	bar.SetXAxis(x).AddSeries("cells", y)
	return bar.Render(w)
}
