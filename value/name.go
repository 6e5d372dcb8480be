package value

import "sync"

// Name is an interned identifier used for response keys and enum values. Two Names built from
// equal strings always share the same backing storage, so comparing and cloning a Name never
// touches the heap after the first occurrence has been interned.
type Name struct {
	s string
}

var namePool sync.Map // string -> string

// NewName interns s and returns the corresponding Name.
func NewName(s string) Name {
	if existing, ok := namePool.Load(s); ok {
		return Name{s: existing.(string)}
	}
	actual, _ := namePool.LoadOrStore(s, s)
	return Name{s: actual.(string)}
}

// String returns the underlying identifier text.
func (n Name) String() string {
	return n.s
}

// IsZero reports whether n is the zero Name (never interned).
func (n Name) IsZero() bool {
	return n.s == ""
}

// Equal reports whether n and o name the same identifier.
func (n Name) Equal(o Name) bool {
	return n.s == o.s
}
