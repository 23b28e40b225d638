package stango

import (
	"fmt"
	"iter"
)

// Item is a value accepted by Files.
//
// The admissible shapes are a Filespec, a Tuple built with T, and the
// iterables Group, Seq and *Files. Iterables are only accepted where several
// entries can be added at once (NewFiles and Files.Extend); they are expanded
// one level and each element must itself be a Filespec or Tuple.
type Item interface {
	item()
}

// Tuple is an unvalidated (path, view[, params]) triple. It is validated
// when it is stored in Files.
type Tuple struct {
	path   string
	view   View
	params []Params
}

// T returns a Tuple. At most one parameter mapping may be given; more fail
// validation with ErrArity.
func T(path string, view View, params ...Params) Tuple {
	return Tuple{path: path, view: view, params: params}
}

// Group is a list of items added in order.
type Group []Item

// Seq is a single-pass sequence of items added in iteration order.
type Seq iter.Seq[Item]

func (Filespec) item() {}
func (Tuple) item()    {}
func (Group) item()    {}
func (Seq) item()      {}
func (*Files) item()   {}

// verify converts a single item to a Filespec.
// Every write into Files goes through verify.
func verify(it Item) (Filespec, error) {
	switch v := it.(type) {
	case Filespec:
		if v.view == nil {
			return Filespec{}, fmt.Errorf("%q: %w", v.path, ErrNotCallable)
		}
		return v, nil
	case Tuple:
		return NewFilespec(v.path, v.view, v.params...)
	default:
		return Filespec{}, fmt.Errorf("%w, got %T", ErrNotFilespec, it)
	}
}

// expand yields the items contained in it: the elements of an iterable, or
// it itself otherwise.
func expand(it Item) iter.Seq[Item] {
	return func(yield func(Item) bool) {
		switch v := it.(type) {
		case Group:
			for _, e := range v {
				if !yield(e) {
					return
				}
			}
		case Seq:
			if v == nil {
				return
			}
			for e := range v {
				if !yield(e) {
					return
				}
			}
		case *Files:
			if v == nil {
				return
			}
			for _, f := range v.data {
				if !yield(f) {
					return
				}
			}
		default:
			yield(it)
		}
	}
}
