package raster

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"
)

func sampleSize(t DataType) int {
	switch t {
	case TypeDouble:
		return 8
	case TypeFloat:
		return 4
	case TypeInteger:
		return 2
	default:
		return 1
	}
}

func byteOrder(cfg Config) binary.ByteOrder {
	if cfg.ByteOrder == BigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// readData decodes a .tas payload into float64 cells. The payload length
// must match the header's dimensions exactly.
func readData(path string, cfg Config) ([]float64, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("raster: open data: %w", err)
	}

	cells, err := cellCount(cfg)
	if err != nil {
		return nil, err
	}
	size := sampleSize(cfg.DataType)
	if len(raw) != cells*size {
		return nil, fmt.Errorf("raster: %s: payload is %d bytes, header implies %d",
			path, len(raw), cells*size)
	}

	ord := byteOrder(cfg)
	data := make([]float64, cells)
	switch cfg.DataType {
	case TypeDouble:
		for i := 0; i < cells; i++ {
			data[i] = math.Float64frombits(ord.Uint64(raw[i*8:]))
		}
	case TypeFloat:
		for i := 0; i < cells; i++ {
			data[i] = float64(math.Float32frombits(ord.Uint32(raw[i*4:])))
		}
	case TypeInteger:
		for i := 0; i < cells; i++ {
			data[i] = float64(int16(ord.Uint16(raw[i*2:])))
		}
	case TypeByte:
		for i := 0; i < cells; i++ {
			data[i] = float64(raw[i])
		}
	}
	return data, nil
}

// writeData encodes float64 cells into a .tas payload using the header's
// sample type and byte order. Integer and byte samples are rounded.
func writeData(path string, cfg Config, data []float64) error {
	cells, err := cellCount(cfg)
	if err != nil {
		return err
	}
	if len(data) != cells {
		return fmt.Errorf("raster: %s: %d cells in memory, header implies %d", path, len(data), cells)
	}

	ord := byteOrder(cfg)
	size := sampleSize(cfg.DataType)
	raw := make([]byte, cells*size)
	switch cfg.DataType {
	case TypeDouble:
		for i, v := range data {
			ord.PutUint64(raw[i*8:], math.Float64bits(v))
		}
	case TypeFloat:
		for i, v := range data {
			ord.PutUint32(raw[i*4:], math.Float32bits(float32(v)))
		}
	case TypeInteger:
		for i, v := range data {
			ord.PutUint16(raw[i*2:], uint16(int16(math.Round(v))))
		}
	case TypeByte:
		for i, v := range data {
			raw[i] = byte(math.Round(v))
		}
	}

	if err := os.WriteFile(path, raw, 0644); err != nil {
		return fmt.Errorf("raster: write data: %w", err)
	}
	return nil
}
