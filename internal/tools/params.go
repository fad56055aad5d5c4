package tools

import "strings"

// argScanner walks a raw argument list, matching flags given as
// "-name=value", "--name=value" or "-name value". Quote characters around
// values are stripped. Unrecognised arguments are skipped, matching the
// permissive behaviour tools have always had.
type argScanner struct {
	args []string
	i    int
}

func newArgScanner(args []string) *argScanner {
	return &argScanner{args: args, i: -1}
}

func (s *argScanner) next() bool {
	s.i++
	return s.i < len(s.args)
}

func stripQuotes(s string) string {
	s = strings.ReplaceAll(s, `"`, "")
	return strings.ReplaceAll(s, `'`, "")
}

// match reports whether the current argument is one of the given flag
// names, returning its value. A value attached with '=' is preferred;
// otherwise the following argument is consumed.
func (s *argScanner) match(names ...string) (string, bool) {
	arg := stripQuotes(s.args[s.i])
	key, val, hasVal := strings.Cut(arg, "=")
	key = strings.ToLower(key)
	for _, name := range names {
		if key != name {
			continue
		}
		if hasVal {
			return strings.TrimSpace(val), true
		}
		if s.i+1 < len(s.args) {
			s.i++
			return strings.TrimSpace(stripQuotes(s.args[s.i])), true
		}
		return "", true
	}
	return "", false
}
