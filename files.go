package stango

import (
	"fmt"
	"iter"
	"slices"
)

// Files is an ordered, mutable manifest of Filespec values.
//
// Every value stored in Files is a validated Filespec: tuples are converted on
// insertion and rejected with the same errors as NewFilespec. Indexes follow
// list semantics, so negative indexes count from the end.
//
// The zero value is an empty manifest. A nil *Files reads as empty, but
// adding entries to it fails with ErrNilFiles. Files is not safe for
// concurrent mutation.
type Files struct {
	data []Filespec
}

// NewFiles builds a manifest from items.
//
// A Filespec or Tuple becomes one entry. A Group, Seq or *Files contributes
// each of its elements in order. Construction stops at the first invalid item.
func NewFiles(items ...Item) (*Files, error) {
	fs := &Files{}
	if err := fs.Extend(items...); err != nil {
		return nil, err
	}
	return fs, nil
}

// Len returns the number of entries.
func (fs *Files) Len() int {
	if fs == nil {
		return 0
	}
	return len(fs.data)
}

// At returns the entry at index i.
func (fs *Files) At(i int) (Filespec, error) {
	idx, err := fs.index(i)
	if err != nil {
		return Filespec{}, err
	}
	return fs.data[idx], nil
}

// Set replaces the entry at index i.
func (fs *Files) Set(i int, it Item) error {
	idx, err := fs.index(i)
	if err != nil {
		return err
	}
	f, err := verify(it)
	if err != nil {
		return err
	}
	fs.data[idx] = f
	return nil
}

// Delete removes the entry at index i.
func (fs *Files) Delete(i int) error {
	idx, err := fs.index(i)
	if err != nil {
		return err
	}
	fs.data = slices.Delete(fs.data, idx, idx+1)
	return nil
}

// Insert inserts an entry before index i, shifting later entries.
// Out-of-range indexes are clamped, so Insert never fails on the index.
func (fs *Files) Insert(i int, it Item) error {
	if fs == nil {
		return ErrNilFiles
	}
	f, err := verify(it)
	if err != nil {
		return err
	}
	n := fs.Len()
	if i < 0 {
		i = max(i+n, 0)
	}
	i = min(i, n)
	fs.data = slices.Insert(fs.data, i, f)
	return nil
}

// Append adds an entry at the end.
func (fs *Files) Append(it Item) error {
	return fs.Insert(fs.Len(), it)
}

// Extend appends items the same way NewFiles does.
// Entries added before an invalid item are kept.
func (fs *Files) Extend(items ...Item) error {
	if fs == nil {
		return ErrNilFiles
	}
	for _, it := range items {
		if it == nil {
			return fmt.Errorf("%w, got nil", ErrNotFilespec)
		}
		for e := range expand(it) {
			if err := fs.Append(e); err != nil {
				return err
			}
		}
	}
	return nil
}

// Slice returns a new manifest holding entries [i, j).
// Negative indexes count from the end and out-of-range indexes are clamped.
func (fs *Files) Slice(i, j int) *Files {
	n := fs.Len()
	clamp := func(k int) int {
		if k < 0 {
			k += n
		}
		return min(max(k, 0), n)
	}
	i, j = clamp(i), clamp(j)
	if j <= i {
		return &Files{}
	}
	return &Files{data: slices.Clone(fs.data[i:j])}
}

// All returns an iterator over index and entry pairs in order.
func (fs *Files) All() iter.Seq2[int, Filespec] {
	return func(yield func(int, Filespec) bool) {
		if fs == nil {
			return
		}
		for i, f := range fs.data {
			if !yield(i, f) {
				return
			}
		}
	}
}

// Values returns an iterator over the entries in order.
func (fs *Files) Values() iter.Seq[Filespec] {
	return func(yield func(Filespec) bool) {
		for _, f := range fs.All() {
			if !yield(f) {
				return
			}
		}
	}
}

// Equal reports whether both manifests have the same length and equal
// entries in the same order.
func (fs *Files) Equal(other *Files) bool {
	if fs.Len() != other.Len() {
		return false
	}
	for i := range fs.Len() {
		if !fs.data[i].Equal(other.data[i]) {
			return false
		}
	}
	return true
}

// AddPrefix returns a new manifest where every path is prefixed with prefix.
// Views and parameters are unchanged and fs is not modified.
func (fs *Files) AddPrefix(prefix string) (*Files, error) {
	out := &Files{data: make([]Filespec, 0, fs.Len())}
	for _, f := range fs.All() {
		if err := out.Append(T(prefix+f.path, f.view, f.params)); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Lookup returns the first entry whose real path equals path.
// Directory entries are resolved with indexFile; they are ignored when
// indexFile is empty.
func (fs *Files) Lookup(path, indexFile string) (Filespec, bool) {
	for _, f := range fs.All() {
		name, err := f.RealPath(indexFile)
		if err != nil {
			continue
		}
		if name == path {
			return f, true
		}
	}
	return Filespec{}, false
}

// index resolves a possibly negative index against the current length.
func (fs *Files) index(i int) (int, error) {
	n := fs.Len()
	idx := i
	if idx < 0 {
		idx += n
	}
	if idx < 0 || idx >= n {
		return 0, fmt.Errorf("%w: %d (len %d)", ErrIndexOutOfRange, i, n)
	}
	return idx, nil
}
