package tools

import "log"

// progress reports row-sweep completion percentages. It only logs when the
// integer percentage changes, so a full sweep emits at most 100 lines.
type progress struct {
	verbose bool
	last    int
}

func newProgress(verbose bool) *progress {
	return &progress{verbose: verbose, last: -1}
}

// row reports completion of row out of rows under the given label.
func (p *progress) row(label string, row, rows int) {
	if !p.verbose || rows < 2 {
		return
	}
	pct := int(100 * float64(row) / float64(rows-1))
	if pct != p.last {
		log.Printf("%s: %d%%", label, pct)
		p.last = pct
	}
}

// note emits a phase message, such as "Reading data...".
func (p *progress) note(msg string) {
	if p.verbose {
		log.Print(msg)
	}
}
