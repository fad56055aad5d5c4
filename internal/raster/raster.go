// Package raster reads and writes Whitebox-format rasters: an ASCII .dep
// header describing the grid alongside a raw row-major .tas payload. Tools
// consume rasters through per-cell float64 access regardless of the
// on-disk sample type.
package raster

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"
)

// Raster is an in-memory grid plus the header that describes it. Cell data
// is held as float64 whatever the on-disk sample type.
type Raster struct {
	FileName string
	Configs  Config

	data []float64
}

// Open reads the raster header and payload at path. The path names the
// .dep header; the .tas payload is located next to it.
func Open(path string) (*Raster, error) {
	cfg, err := readHeader(path)
	if err != nil {
		return nil, err
	}
	data, err := readData(dataPath(path), cfg)
	if err != nil {
		return nil, err
	}
	return &Raster{FileName: path, Configs: cfg, data: data}, nil
}

// NewFromTemplate creates a writable raster at path inheriting the
// template's georeference, dimensions, sample type and nodata value. Every
// cell starts at the template's nodata value.
func NewFromTemplate(path string, template *Raster) *Raster {
	cfg := template.Configs
	cfg.Metadata = nil
	cfg.Min = math.MaxFloat64
	cfg.Max = -math.MaxFloat64

	r := &Raster{
		FileName: path,
		Configs:  cfg,
		data:     make([]float64, cfg.Rows*cfg.Columns),
	}
	for i := range r.data {
		r.data[i] = cfg.Nodata
	}
	return r
}

// Rows returns the grid's row count.
func (r *Raster) Rows() int { return r.Configs.Rows }

// Columns returns the grid's column count.
func (r *Raster) Columns() int { return r.Configs.Columns }

// Nodata returns the sentinel marking cells with no valid measurement.
func (r *Raster) Nodata() float64 { return r.Configs.Nodata }

// Value returns the cell at (row, col), or the nodata sentinel when the
// address is outside the grid.
func (r *Raster) Value(row, col int) float64 {
	if row < 0 || row >= r.Configs.Rows || col < 0 || col >= r.Configs.Columns {
		return r.Configs.Nodata
	}
	return r.data[row*r.Configs.Columns+col]
}

// SetValue writes the cell at (row, col). Out-of-range writes are ignored.
func (r *Raster) SetValue(row, col int, value float64) {
	if row < 0 || row >= r.Configs.Rows || col < 0 || col >= r.Configs.Columns {
		return
	}
	r.data[row*r.Configs.Columns+col] = value
}

// Increment adds delta to the cell at (row, col) in place.
func (r *Raster) Increment(row, col int, delta float64) {
	if row < 0 || row >= r.Configs.Rows || col < 0 || col >= r.Configs.Columns {
		return
	}
	r.data[row*r.Configs.Columns+col] += delta
}

// AddMetadataEntry appends a provenance line to the header's metadata.
func (r *Raster) AddMetadataEntry(entry string) {
	entry = strings.TrimSpace(entry)
	if entry == "" {
		return
	}
	r.Configs.Metadata = append(r.Configs.Metadata, entry)
}

// Write persists the header and payload. The header's display min/max are
// recomputed over valid cells first.
func (r *Raster) Write() error {
	r.updateMinMax()
	if err := writeHeader(r.FileName, r.Configs); err != nil {
		return err
	}
	return writeData(dataPath(r.FileName), r.Configs, r.data)
}

func (r *Raster) updateMinMax() {
	min, max := math.MaxFloat64, -math.MaxFloat64
	for _, v := range r.data {
		if v == r.Configs.Nodata {
			continue
		}
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	if min <= max {
		r.Configs.Min = min
		r.Configs.Max = max
	}
}

// dataPath maps a .dep header path onto its .tas payload path.
func dataPath(headerPath string) string {
	ext := filepath.Ext(headerPath)
	return strings.TrimSuffix(headerPath, ext) + ".tas"
}

func cellCount(cfg Config) (int, error) {
	if cfg.Rows <= 0 || cfg.Columns <= 0 {
		return 0, fmt.Errorf("raster: invalid dimensions %dx%d", cfg.Rows, cfg.Columns)
	}
	return cfg.Rows * cfg.Columns, nil
}
