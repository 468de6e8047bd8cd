// Package commodity interns currency and unit codes. Codes must be
// declared with a `unit` statement before use; referencing an undeclared
// code is an error, which catches typos instead of silently creating
// spurious currencies.
package commodity

import (
	"fmt"
	"unicode"

	"github.com/plainbook/plainbook/lib/syntax"
)

// Store is a registry of declared commodity codes. Indices are assigned in
// declaration order and are stable for the lifetime of the store.
type Store struct {
	names []string
	index map[string]int
}

// NewStore creates an empty commodity store.
func NewStore() *Store {
	return &Store{
		index: make(map[string]int),
	}
}

// Declare registers a commodity code. Declaring a code twice is allowed
// and returns the original index.
func (s *Store) Declare(name string) (int, error) {
	if idx, ok := s.index[name]; ok {
		return idx, nil
	}
	if !isValidCommodity(name) {
		return 0, fmt.Errorf("invalid commodity name %q", name)
	}
	idx := len(s.names)
	s.names = append(s.names, name)
	s.index[name] = idx
	return idx, nil
}

// Create declares a commodity token from the parse tree.
func (s *Store) Create(c syntax.Commodity) (int, error) {
	idx, err := s.Declare(c.Extract())
	if err != nil {
		return 0, syntax.Error{Range: c.Range, Message: "declaring commodity", Wrapped: err}
	}
	return idx, nil
}

// Lookup resolves a declared commodity code to its index.
func (s *Store) Lookup(name string) (int, error) {
	idx, ok := s.index[name]
	if !ok {
		return 0, fmt.Errorf("undeclared commodity %q", name)
	}
	return idx, nil
}

// Name is the reverse lookup, for diagnostics and printing.
func (s *Store) Name(idx int) (string, bool) {
	if idx < 0 || idx >= len(s.names) {
		return "", false
	}
	return s.names[idx], true
}

func isValidCommodity(s string) bool {
	if len(s) == 0 {
		return false
	}
	for _, c := range s {
		if !(unicode.IsLetter(c) || unicode.IsDigit(c)) {
			return false
		}
	}
	return true
}
