// Package pathutil provides path manipulation for served paths and archive member names.
package pathutil

import (
	"path/filepath"
	"strings"
)

const sep = string(filepath.Separator)

// Join joins path elements the way a served path is built from a base path.
//
// Unlike filepath.Join it does not clean the result:
//   - Empty elements are skipped: Join("", "a") → "a"
//   - No separator is doubled: Join("out/", "a") → "out/a"
//   - An absolute element discards everything before it: Join("out", "/a") → "/a"
//   - A trailing empty element keeps a trailing separator: Join("out", "") → "out/"
func Join(elem ...string) string {
	if len(elem) == 0 {
		return ""
	}
	p := elem[0]
	for _, e := range elem[1:] {
		switch {
		case strings.HasPrefix(e, sep):
			p = e
		case p == "" || strings.HasSuffix(p, sep):
			p += e
		default:
			p += sep + e
		}
	}
	return p
}

// Strip splits a slash-separated name and drops its first n components.
// ok is false when no components remain.
func Strip(name string, n int) (rest []string, ok bool) {
	parts := strings.Split(name, "/")
	if n >= len(parts) {
		return nil, false
	}
	return parts[n:], true
}
