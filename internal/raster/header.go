package raster

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// DataType names the on-disk sample encoding of a raster payload.
type DataType string

// Sample encodings supported by the .tas payload.
const (
	TypeDouble  DataType = "double"  // 8-byte IEEE 754
	TypeFloat   DataType = "float"   // 4-byte IEEE 754
	TypeInteger DataType = "integer" // 2-byte signed
	TypeByte    DataType = "byte"    // 1-byte unsigned
)

// Byte orders accepted in the header. Anything other than big-endian is
// treated as little-endian, which is what every producer we have seen emits.
const (
	LittleEndian = "LITTLE_ENDIAN"
	BigEndian    = "BIG_ENDIAN"
)

// Config mirrors the .dep header: georeference, dimensions, sample type,
// nodata sentinel, display hints and free-form metadata entries.
type Config struct {
	North   float64
	South   float64
	East    float64
	West    float64
	Rows    int
	Columns int

	DataType  DataType
	DataScale string
	Nodata    float64
	ByteOrder string

	Min        float64
	Max        float64
	ZUnits     string
	XYUnits    string
	Projection string
	Palette    string

	Metadata []string
}

// readHeader parses a .dep header file into a Config. Unknown keys are
// skipped so headers written by newer tools still load.
func readHeader(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("raster: open header: %w", err)
	}
	defer f.Close()

	cfg := Config{
		DataType:   TypeDouble,
		DataScale:  "continuous",
		ByteOrder:  LittleEndian,
		ZUnits:     "not specified",
		XYUnits:    "not specified",
		Projection: "not specified",
		Palette:    "spectrum.plt",
	}

	sc := bufio.NewScanner(f)
	line := 0
	for sc.Scan() {
		line++
		raw := sc.Text()
		key, val, ok := strings.Cut(raw, ":")
		if !ok {
			continue
		}
		val = strings.TrimSpace(val)
		if err := setHeaderField(&cfg, strings.ToLower(strings.TrimSpace(key)), val); err != nil {
			return Config{}, fmt.Errorf("raster: %s line %d: %w", path, line, err)
		}
	}
	if err := sc.Err(); err != nil {
		return Config{}, fmt.Errorf("raster: read header: %w", err)
	}
	if cfg.Rows <= 0 || cfg.Columns <= 0 {
		return Config{}, fmt.Errorf("raster: %s: header missing rows/columns", path)
	}
	return cfg, nil
}

func setHeaderField(cfg *Config, key, val string) error {
	parseF := func(dst *float64) error {
		v, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return fmt.Errorf("bad value %q for %s", val, key)
		}
		*dst = v
		return nil
	}
	parseI := func(dst *int) error {
		v, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("bad value %q for %s", val, key)
		}
		*dst = v
		return nil
	}

	switch key {
	case "min":
		return parseF(&cfg.Min)
	case "max":
		return parseF(&cfg.Max)
	case "north":
		return parseF(&cfg.North)
	case "south":
		return parseF(&cfg.South)
	case "east":
		return parseF(&cfg.East)
	case "west":
		return parseF(&cfg.West)
	case "rows":
		return parseI(&cfg.Rows)
	case "cols", "columns":
		return parseI(&cfg.Columns)
	case "nodata":
		return parseF(&cfg.Nodata)
	case "data type":
		switch strings.ToLower(val) {
		case "double":
			cfg.DataType = TypeDouble
		case "float":
			cfg.DataType = TypeFloat
		case "integer":
			cfg.DataType = TypeInteger
		case "byte":
			cfg.DataType = TypeByte
		default:
			return fmt.Errorf("unknown data type %q", val)
		}
	case "data scale":
		cfg.DataScale = strings.ToLower(val)
	case "byte order":
		if strings.EqualFold(val, BigEndian) {
			cfg.ByteOrder = BigEndian
		} else {
			cfg.ByteOrder = LittleEndian
		}
	case "z units":
		cfg.ZUnits = val
	case "xy units":
		cfg.XYUnits = val
	case "projection":
		cfg.Projection = val
	case "preferred palette":
		cfg.Palette = val
	case "metadata entry":
		if val != "" {
			cfg.Metadata = append(cfg.Metadata, val)
		}
	}
	// Unknown keys are ignored.
	return nil
}

// writeHeader emits a .dep header. Field order follows the conventional
// layout so existing readers parse it without surprises.
func writeHeader(path string, cfg Config) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("raster: create header: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	p := func(key string, val interface{}) {
		fmt.Fprintf(w, "%s:\t%v\n", key, val)
	}
	p("Min", strconv.FormatFloat(cfg.Min, 'f', -1, 64))
	p("Max", strconv.FormatFloat(cfg.Max, 'f', -1, 64))
	p("North", strconv.FormatFloat(cfg.North, 'f', -1, 64))
	p("South", strconv.FormatFloat(cfg.South, 'f', -1, 64))
	p("East", strconv.FormatFloat(cfg.East, 'f', -1, 64))
	p("West", strconv.FormatFloat(cfg.West, 'f', -1, 64))
	p("Cols", cfg.Columns)
	p("Rows", cfg.Rows)
	p("Data Type", strings.ToUpper(string(cfg.DataType)))
	p("Z Units", cfg.ZUnits)
	p("XY Units", cfg.XYUnits)
	p("Projection", cfg.Projection)
	p("Data Scale", cfg.DataScale)
	p("Preferred Palette", cfg.Palette)
	p("NoData", strconv.FormatFloat(cfg.Nodata, 'f', -1, 64))
	p("Byte Order", cfg.ByteOrder)
	for _, m := range cfg.Metadata {
		p("Metadata Entry", m)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("raster: write header: %w", err)
	}
	return nil
}
