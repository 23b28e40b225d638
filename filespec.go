package stango

import (
	"fmt"
	"maps"
	"reflect"
	"strings"

	"github.com/meigma/stango/internal/pathutil"
)

// Filespec describes one servable resource: the served path, the view that
// produces its content and the parameters passed to that view.
//
// A Filespec is immutable once built. The zero value is not valid; use
// NewFilespec.
type Filespec struct {
	path   string
	view   View
	params Params
}

// NewFilespec validates and returns a Filespec.
//
// params is optional; at most one mapping may be given. A missing or nil
// mapping is stored as an empty one. The mapping is copied, so later changes
// by the caller do not affect the Filespec.
func NewFilespec(path string, view View, params ...Params) (Filespec, error) {
	if len(params) > 1 {
		return Filespec{}, fmt.Errorf("%q: %w", path, ErrArity)
	}
	if strings.HasPrefix(path, "/") {
		return Filespec{}, fmt.Errorf("%q: %w", path, ErrAbsolutePath)
	}
	if view == nil {
		return Filespec{}, fmt.Errorf("%q: %w", path, ErrNotCallable)
	}

	p := Params{}
	if len(params) == 1 && params[0] != nil {
		p = maps.Clone(params[0])
	}
	return Filespec{path: path, view: view, params: p}, nil
}

// Path returns the served path.
func (f Filespec) Path() string {
	return f.path
}

// View returns the view that produces the content.
func (f Filespec) View() View {
	return f.view
}

// Params returns a copy of the view parameters.
func (f Filespec) Params() Params {
	return maps.Clone(f.params)
}

// Param returns a single view parameter.
func (f Filespec) Param(key string) (any, bool) {
	v, ok := f.params[key]
	return v, ok
}

// IsDir reports whether the path denotes a directory, meaning it is empty or
// ends with "/".
func (f Filespec) IsDir() bool {
	return f.path == "" || strings.HasSuffix(f.path, "/")
}

// RealPath returns the name of the file served for this entry.
//
// For a directory, indexFile is appended to the path; ErrNoIndexFile is
// returned when indexFile is empty. Other paths are returned unchanged.
// The result is not cleaned.
func (f Filespec) RealPath(indexFile string) (string, error) {
	if !f.IsDir() {
		return f.path, nil
	}
	if indexFile == "" {
		return "", fmt.Errorf("%q: %w", f.path, ErrNoIndexFile)
	}
	return pathutil.Join(f.path, indexFile), nil
}

// Serve invokes the view with the served path and the stored parameters.
func (f Filespec) Serve() ([]byte, error) {
	return f.view(f.path, f.Params())
}

// Equal reports whether f and other have the same path, the same view
// function and deeply equal parameters.
//
// Views are compared by the code pointer reflect reports for them. Captured
// variables are not compared, and copies of one literal inlined at different
// call sites get different code, so closure equality is only meaningful for
// values created at the same site.
func (f Filespec) Equal(other Filespec) bool {
	return f.path == other.path &&
		sameView(f.view, other.view) &&
		reflect.DeepEqual(f.params, other.params)
}

// String returns a short description for logs.
func (f Filespec) String() string {
	return fmt.Sprintf("%s -> %s %v", f.path, viewName(f.view), f.params)
}

func sameView(a, b View) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
}

// viewName returns the short name of the built-in views, or "view" otherwise.
func viewName(v View) string {
	switch {
	case sameView(v, StaticFile):
		return "static_file"
	case sameView(v, FileFromTar):
		return "file_from_tar"
	default:
		return "view"
	}
}
