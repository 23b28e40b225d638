package stango

import (
	"path/filepath"

	"github.com/meigma/stango/internal/pathutil"
)

// ServedPath computes the path under which filename is served.
//
// When strip is positive, the first strip slash-separated components of
// filename are removed and the remainder is joined with the OS separator.
// If nothing remains, ServedPath returns "", meaning the name cannot be
// served. The result is joined onto basePath without cleaning:
//   - ServedPath("out", "a/b/c.txt", 1) → "out/b/c.txt"
//   - ServedPath("out", "a/b/c.txt", 0) → "out/a/b/c.txt"
//   - ServedPath("", "a/b/c.txt", 0) → "a/b/c.txt"
//   - ServedPath("out", "a", 1) → ""
func ServedPath(basePath, filename string, strip int) string {
	name := filename
	if strip > 0 {
		parts, ok := pathutil.Strip(filename, strip)
		if !ok {
			return ""
		}
		name = pathutil.Join(parts...)
	}
	return filepath.ToSlash(pathutil.Join(basePath, name))
}
