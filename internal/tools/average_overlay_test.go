package tools

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kestrel-gis/rasterkit/internal/raster"
)

// writeRaster persists a test raster and returns its header path.
func writeRaster(t *testing.T, dir, name string, nodata float64, values [][]float64) string {
	t.Helper()
	path := filepath.Join(dir, name)
	template := &raster.Raster{
		FileName: path,
		Configs: raster.Config{
			Rows: len(values), Columns: len(values[0]),
			North: float64(len(values)), East: float64(len(values[0])),
			DataType: raster.TypeDouble, Nodata: nodata,
			ByteOrder: raster.LittleEndian,
			DataScale: "continuous",
		},
	}
	r := raster.NewFromTemplate(path, template)
	for row := range values {
		for col := range values[row] {
			r.SetValue(row, col, values[row][col])
		}
	}
	if err := r.Write(); err != nil {
		t.Fatalf("write raster %s: %v", name, err)
	}
	return path
}

func runOverlay(t *testing.T, dir string, inputs []string, output string) (*raster.Raster, error) {
	t.Helper()
	args := []string{
		"-i=" + strings.Join(inputs, ";"),
		"-o=" + output,
	}
	err := NewAverageOverlay().Run(args, dir, false)
	if err != nil {
		return nil, err
	}
	out, err := raster.Open(filepath.Join(dir, output))
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	return out, nil
}

func TestAverageOverlayExample(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	a := writeRaster(t, dir, "a.dep", -9999, [][]float64{
		{1, -9999},
		{3, 4},
	})
	b := writeRaster(t, dir, "b.dep", -9999, [][]float64{
		{5, 6},
		{-9999, 8},
	})

	out, err := runOverlay(t, dir, []string{a, b}, "mean.dep")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := [][]float64{
		{3, 6},
		{3, 6},
	}
	for row := range want {
		for col := range want[row] {
			if got := out.Value(row, col); got != want[row][col] {
				t.Errorf("cell (%d,%d) = %v, want %v", row, col, got, want[row][col])
			}
		}
	}
}

func TestMeanSkipsNodataContributions(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	a := writeRaster(t, dir, "a.dep", -9999, [][]float64{{2}})
	b := writeRaster(t, dir, "b.dep", -9999, [][]float64{{4}})
	c := writeRaster(t, dir, "c.dep", -9999, [][]float64{{-9999}})

	out, err := runOverlay(t, dir, []string{a, b, c}, "mean.dep")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := out.Value(0, 0); got != 3 {
		t.Errorf("cell (0,0) = %v, want (2+4)/2 = 3", got)
	}
}

func TestFirstValidValueStaysExact(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	a := writeRaster(t, dir, "a.dep", -9999, [][]float64{{-9999}})
	b := writeRaster(t, dir, "b.dep", -9999, [][]float64{{7.25}})
	c := writeRaster(t, dir, "c.dep", -9999, [][]float64{{-9999}})

	out, err := runOverlay(t, dir, []string{a, b, c}, "mean.dep")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := out.Value(0, 0); got != 7.25 {
		t.Errorf("cell (0,0) = %v, want exactly 7.25", got)
	}
}

func TestNodataPropagation(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	// The second input uses a different sentinel; the output's nodata is
	// fixed from the first input.
	a := writeRaster(t, dir, "a.dep", -9999, [][]float64{{-9999, 1}})
	b := writeRaster(t, dir, "b.dep", -1, [][]float64{{-1, 3}})

	out, err := runOverlay(t, dir, []string{a, b}, "mean.dep")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := out.Nodata(); got != -9999 {
		t.Errorf("output nodata = %v, want -9999 (from first input)", got)
	}
	if got := out.Value(0, 0); got != -9999 {
		t.Errorf("cell (0,0) = %v, want nodata", got)
	}
	if got := out.Value(0, 1); got != 2 {
		t.Errorf("cell (0,1) = %v, want 2", got)
	}
}

func TestOrderIndependence(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	a := writeRaster(t, dir, "a.dep", -9999, [][]float64{
		{1, -9999, 2.5},
		{-9999, -9999, 4},
	})
	b := writeRaster(t, dir, "b.dep", -9999, [][]float64{
		{3, 6, -9999},
		{-9999, 1, 8},
	})
	c := writeRaster(t, dir, "c.dep", -9999, [][]float64{
		{5, -9999, 1.5},
		{-9999, 2, 0},
	})

	first, err := runOverlay(t, dir, []string{a, b, c}, "abc.dep")
	if err != nil {
		t.Fatalf("Run abc: %v", err)
	}
	second, err := runOverlay(t, dir, []string{c, a, b}, "cab.dep")
	if err != nil {
		t.Fatalf("Run cab: %v", err)
	}

	for row := 0; row < first.Rows(); row++ {
		for col := 0; col < first.Columns(); col++ {
			if first.Value(row, col) != second.Value(row, col) {
				t.Errorf("cell (%d,%d) differs across input orders: %v vs %v",
					row, col, first.Value(row, col), second.Value(row, col))
			}
		}
	}
}

func TestDimensionMismatch(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	a := writeRaster(t, dir, "a.dep", -9999, [][]float64{{1, 2}})
	b := writeRaster(t, dir, "b.dep", -9999, [][]float64{{1}, {2}})

	_, err := runOverlay(t, dir, []string{a, b}, "mean.dep")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
	if _, statErr := os.Stat(filepath.Join(dir, "mean.dep")); !os.IsNotExist(statErr) {
		t.Error("no output should be written on a dimension mismatch")
	}
}

func TestMinimumCardinality(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	a := writeRaster(t, dir, "a.dep", -9999, [][]float64{{1}})

	t.Run("single input", func(t *testing.T) {
		t.Parallel()
		err := NewAverageOverlay().Run([]string{"-i=" + a, "-o=out.dep"}, dir, false)
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("err = %v, want ErrInvalidInput", err)
		}
	})

	t.Run("no arguments", func(t *testing.T) {
		t.Parallel()
		err := NewAverageOverlay().Run(nil, dir, false)
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("err = %v, want ErrInvalidInput", err)
		}
	})

	t.Run("blank entries do not count", func(t *testing.T) {
		t.Parallel()
		err := NewAverageOverlay().Run([]string{"-i=" + a + ";; ;", "-o=out.dep"}, dir, false)
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("err = %v, want ErrInvalidInput", err)
		}
	})
}

func TestCommaSeparatedInputs(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	writeRaster(t, dir, "a.dep", -9999, [][]float64{{2}})
	writeRaster(t, dir, "b.dep", -9999, [][]float64{{6}})

	// Bare filenames resolve against the working directory.
	err := NewAverageOverlay().Run([]string{"--inputs='a.dep,b.dep'", "--output=mean.dep"}, dir, false)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	out, err := raster.Open(filepath.Join(dir, "mean.dep"))
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	if got := out.Value(0, 0); got != 4 {
		t.Errorf("cell (0,0) = %v, want 4", got)
	}
}

func TestMissingInputPropagatesIOError(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	a := writeRaster(t, dir, "a.dep", -9999, [][]float64{{1}})
	missing := filepath.Join(dir, "missing.dep")

	_, err := runOverlay(t, dir, []string{a, missing}, "mean.dep")
	if err == nil {
		t.Fatal("expected an error for a missing input")
	}
	if errors.Is(err, ErrInvalidInput) {
		t.Errorf("I/O failures must not be classified as invalid input: %v", err)
	}
}

func TestRerunProducesIdenticalOutput(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	a := writeRaster(t, dir, "a.dep", -9999, [][]float64{{1, -9999}, {3.5, 4}})
	b := writeRaster(t, dir, "b.dep", -9999, [][]float64{{2, 9}, {-9999, 5}})

	if _, err := runOverlay(t, dir, []string{a, b}, "one.dep"); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if _, err := runOverlay(t, dir, []string{a, b}, "two.dep"); err != nil {
		t.Fatalf("second run: %v", err)
	}

	// The payloads must match bitwise; headers differ only in timing metadata.
	one, err := os.ReadFile(filepath.Join(dir, "one.tas"))
	if err != nil {
		t.Fatalf("read first payload: %v", err)
	}
	two, err := os.ReadFile(filepath.Join(dir, "two.tas"))
	if err != nil {
		t.Fatalf("read second payload: %v", err)
	}
	if string(one) != string(two) {
		t.Error("re-running with identical inputs must produce a bitwise-identical grid")
	}
}

func TestProvenanceMetadata(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	a := writeRaster(t, dir, "a.dep", -9999, [][]float64{{1}})
	b := writeRaster(t, dir, "b.dep", -9999, [][]float64{{3}})

	out, err := runOverlay(t, dir, []string{a, b}, "mean.dep")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	var created, elapsed bool
	for _, m := range out.Configs.Metadata {
		if strings.Contains(m, "AverageOverlay") {
			created = true
		}
		if strings.Contains(m, "Elapsed Time") {
			elapsed = true
		}
	}
	if !created || !elapsed {
		t.Errorf("metadata missing provenance entries: %v", out.Configs.Metadata)
	}
}

func TestManyInputs(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	var inputs []string
	for i := 0; i < 10; i++ {
		inputs = append(inputs, writeRaster(t, dir, fmt.Sprintf("in%d.dep", i), -9999,
			[][]float64{{float64(i)}}))
	}

	out, err := runOverlay(t, dir, inputs, "mean.dep")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := out.Value(0, 0); got != 4.5 {
		t.Errorf("cell (0,0) = %v, want mean of 0..9 = 4.5", got)
	}
}
