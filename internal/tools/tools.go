// Package tools holds the raster analysis tools and the registry the CLI
// dispatches through. Every tool resolves its arguments into a typed
// params struct before any computation runs.
package tools

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// ErrInvalidInput marks precondition failures: missing or malformed
// parameters, too few inputs, mismatched raster extents. I/O failures are
// propagated verbatim and never wrap this sentinel.
var ErrInvalidInput = errors.New("invalid input")

// Tool is a named operation over rasters, dispatched by the CLI.
type Tool interface {
	// Name returns the registry name, matched case-insensitively.
	Name() string

	// Description is a one-line summary for tool listings.
	Description() string

	// Parameters describes the accepted flags, one per line.
	Parameters() string

	// ExampleUsage shows a complete invocation.
	ExampleUsage() string

	// Run executes the tool. Relative raster paths resolve against
	// workingDir; verbose enables per-row progress reporting.
	Run(args []string, workingDir string, verbose bool) error
}

var factories = []func() Tool{
	func() Tool { return NewAverageOverlay() },
	func() Tool { return NewSummaryStats() },
	func() Tool { return NewHistogram() },
	func() Tool { return NewExportHeatmap() },
}

// All returns every registered tool, sorted by name.
func All() []Tool {
	list := make([]Tool, 0, len(factories))
	for _, f := range factories {
		list = append(list, f())
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name() < list[j].Name() })
	return list
}

// Lookup finds a tool by name, case-insensitively.
func Lookup(name string) (Tool, error) {
	for _, f := range factories {
		t := f()
		if strings.EqualFold(t.Name(), name) {
			return t, nil
		}
	}
	return nil, fmt.Errorf("%w: unrecognised tool %q", ErrInvalidInput, name)
}

// SplitList splits a multi-value parameter on semicolons, falling back to
// commas when semicolons yield a single token. Blank entries are dropped.
func SplitList(s string) []string {
	parts := strings.Split(s, ";")
	if len(parts) == 1 {
		parts = strings.Split(s, ",")
	}
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// resolvePath joins bare filenames onto the working directory. Paths that
// already carry a separator pass through untouched.
func resolvePath(workingDir, path string) string {
	if path == "" || strings.ContainsAny(path, `/\`) {
		return path
	}
	return filepath.Join(workingDir, path)
}
