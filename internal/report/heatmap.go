package report

import (
	"math"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/kestrel-gis/rasterkit/internal/raster"
)

// rasterGrid adapts a raster to plotter.GridXYZ. Nodata cells map to NaN,
// which the heat map leaves undrawn. Plot rows run south to north, so the
// raster's row order is flipped.
type rasterGrid struct {
	r *raster.Raster
}

func (g rasterGrid) Dims() (c, r int) {
	return g.r.Columns(), g.r.Rows()
}

func (g rasterGrid) Z(c, r int) float64 {
	v := g.r.Value(g.r.Rows()-1-r, c)
	if v == g.r.Nodata() {
		return math.NaN()
	}
	return v
}

func (g rasterGrid) X(c int) float64 {
	cfg := g.r.Configs
	width := (cfg.East - cfg.West) / float64(cfg.Columns)
	return cfg.West + (float64(c)+0.5)*width
}

func (g rasterGrid) Y(r int) float64 {
	cfg := g.r.Configs
	height := (cfg.North - cfg.South) / float64(cfg.Rows)
	return cfg.South + (float64(r)+0.5)*height
}

// SaveHeatmapPNG renders the raster as a heat map image at path.
func SaveHeatmapPNG(r *raster.Raster, path string) error {
	p := plot.New()
	p.Title.Text = filepath.Base(r.FileName)
	p.X.Label.Text = "easting"
	p.Y.Label.Text = "northing"

	hm := plotter.NewHeatMap(rasterGrid{r: r}, palette.Heat(16, 1))
	p.Add(hm)

	return p.Save(8*vg.Inch, 8*vg.Inch, path)
}
