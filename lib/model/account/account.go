// Package account models ledger accounts. A parsed Account carries its
// path segments as strings; a TxnAccount references the same path as
// indices into the store's shared segment table and is only meaningful
// together with the store that produced it.
package account

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/plainbook/plainbook/lib/syntax"
)

// Type is the kind of an account.
type Type int

const (
	// ASSETS represents an asset account.
	ASSETS Type = iota
	// EXPENSES represents an expenses account.
	EXPENSES
	// LIABILITIES represents a liability account.
	LIABILITIES
	// INCOME represents an income account.
	INCOME
	// EQUITY represents an equity account.
	EQUITY
)

func (t Type) String() string {
	switch t {
	case ASSETS:
		return "Assets"
	case EXPENSES:
		return "Expenses"
	case LIABILITIES:
		return "Liabilities"
	case INCOME:
		return "Income"
	case EQUITY:
		return "Equity"
	}
	return ""
}

// Types is an array with the ordered account types.
var Types = []Type{ASSETS, EXPENSES, LIABILITIES, INCOME, EQUITY}

var types = map[string]Type{
	"Assets":      ASSETS,
	"Expenses":    EXPENSES,
	"Liabilities": LIABILITIES,
	"Income":      INCOME,
	"Equity":      EQUITY,
}

// Account is a parsed account reference: a kind and its path segments.
type Account struct {
	Type     Type
	Segments []string
}

// Parse parses an account name of the form `Kind:Segment:...`.
func Parse(name string) (Account, error) {
	segments := strings.Split(name, ":")
	if len(segments) < 2 {
		return Account{}, fmt.Errorf("invalid account name: %q", name)
	}
	head, tail := segments[0], segments[1:]
	at, ok := types[head]
	if !ok {
		return Account{}, fmt.Errorf("account name %q has an invalid account type %q", name, head)
	}
	for _, s := range tail {
		if !isValidSegment(s) {
			return Account{}, fmt.Errorf("account name %q has an invalid segment %q", name, s)
		}
	}
	return Account{Type: at, Segments: tail}, nil
}

// Create parses an account token from the parse tree.
func Create(a syntax.Account) (Account, error) {
	acc, err := Parse(a.Extract())
	if err != nil {
		return acc, syntax.Error{Range: a.Range, Message: "parsing account", Wrapped: err}
	}
	return acc, nil
}

func (a Account) String() string {
	return a.Type.String() + ":" + strings.Join(a.Segments, ":")
}

// Level returns the number of path segments, excluding the kind.
func (a Account) Level() int {
	return len(a.Segments)
}

func isValidSegment(s string) bool {
	if len(s) == 0 {
		return false
	}
	for _, c := range s {
		if !isSegmentRune(c) {
			return false
		}
	}
	return true
}

func isSegmentRune(c rune) bool {
	return c == '-' || unicode.IsLetter(c) || unicode.IsDigit(c)
}

// TxnAccount is a resolved account reference: the kind and the path as
// indices into the owning store's segment table.
type TxnAccount struct {
	Type     Type
	Segments []int
}
