package stango

import (
	"fmt"
	"os"
)

// View produces the content served at path from the parameters stored in a Filespec.
// Views are never invoked while a manifest is built.
type View func(path string, params Params) ([]byte, error)

// Params holds the named parameters passed to a View.
type Params map[string]any

// Parameter names used by the built-in views.
const (
	// ParamPath is the filesystem path read by StaticFile.
	ParamPath = "path"

	// ParamArchive is the *Archive read by FileFromTar.
	ParamArchive = "archive"

	// ParamMember is the archive member name read by FileFromTar.
	ParamMember = "member"
)

// StaticFile serves the file named by params[ParamPath].
func StaticFile(path string, params Params) ([]byte, error) {
	name, err := param[string](path, params, ParamPath)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(name) //nolint:gosec // manifest paths come from the scanned tree
}

// FileFromTar serves member params[ParamMember] of the archive params[ParamArchive].
func FileFromTar(path string, params Params) ([]byte, error) {
	archive, err := param[*Archive](path, params, ParamArchive)
	if err != nil {
		return nil, err
	}
	if archive == nil {
		return nil, fmt.Errorf("%q: %w %q", path, ErrMissingParam, ParamArchive)
	}
	member, err := param[string](path, params, ParamMember)
	if err != nil {
		return nil, err
	}
	return archive.ReadMember(member)
}

func param[T any](path string, params Params, key string) (T, error) {
	v, ok := params[key].(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("%q: %w %q", path, ErrMissingParam, key)
	}
	return v, nil
}
