package stango

import "errors"

// Validation errors returned when building a Filespec or mutating Files.
var (
	// ErrNotCallable is returned when a Filespec has a nil view.
	ErrNotCallable = errors.New("stango: view must be callable")

	// ErrAbsolutePath is returned when a served path starts with a separator.
	ErrAbsolutePath = errors.New("stango: path must not start with /")

	// ErrArity is returned when a tuple carries more than one parameter mapping.
	ErrArity = errors.New("stango: expected a tuple of the form (path, view[, params])")

	// ErrNotFilespec is returned when an item cannot be stored as a single Filespec.
	ErrNotFilespec = errors.New("stango: expected a Filespec or tuple")
)

// Path contract and lookup errors.
var (
	// ErrNoIndexFile is returned when a directory path is resolved without an index file.
	ErrNoIndexFile = errors.New("stango: directory path and no index file")

	// ErrIndexOutOfRange is returned when a Files index is outside the collection.
	ErrIndexOutOfRange = errors.New("stango: index out of range")

	// ErrNilFiles is returned when entries are added to a nil *Files.
	ErrNilFiles = errors.New("stango: nil Files")

	// ErrMissingParam is returned when a view is invoked without a required parameter.
	ErrMissingParam = errors.New("stango: missing view parameter")
)
