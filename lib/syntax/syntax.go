// Package syntax defines the typed parse tree for ledger statements. Every
// node embeds a Range pointing back into the source text, so errors can be
// located without carrying the text around separately.
package syntax

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Range struct {
	Start, End int
	Path, Text string
}

func (r Range) Extract() string {
	return r.Text[r.Start:r.End]
}

func (r *Range) SetRange(r2 Range) {
	*r = r2
}

func (r Range) Empty() bool {
	return r.Start == r.End
}

func (r Range) Location() Location {
	loc := Location{Line: 1, Col: 1}
	for pos, ch := range r.Text {
		if pos == r.Start {
			return loc
		}
		if ch == '\n' {
			loc.Line++
			loc.Col = 1
		} else {
			loc.Col++
		}
	}
	return loc
}

func SetRange[T any, P interface {
	*T
	SetRange(Range)
}](t P, r Range) T {
	t.SetRange(r)
	return *t
}

type Location struct {
	Line, Col int
}

func (l Location) String() string {
	return fmt.Sprintf("%d:%d", l.Line, l.Col)
}

// Date is a YYYY-MM-DD token.
type Date struct{ Range }

func (d Date) Parse() (time.Time, error) {
	date, err := time.Parse("2006-01-02", d.Extract())
	if err != nil {
		return date, Error{
			Message: "parsing date",
			Range:   d.Range,
			Wrapped: err,
		}
	}
	return date, nil
}

// Decimal is a numeric token with an optional sign and fraction.
type Decimal struct{ Range }

func (d Decimal) Parse() (decimal.Decimal, error) {
	dec, err := decimal.NewFromString(d.Extract())
	if err != nil {
		return dec, Error{
			Message: "parsing decimal",
			Range:   d.Range,
			Wrapped: err,
		}
	}
	return dec, nil
}

type Commodity struct{ Range }

type Account struct{ Range }

type QuotedString struct {
	Range
	Content Range
}

// Amount is a decimal quantity with a commodity and an optional price
// annotation (`50 USD @ 0.92 EUR`). Prices may nest, although the grammar
// produces at most one level per amount.
type Amount struct {
	Range
	Quantity  Decimal
	Commodity Commodity
	Price     *Amount
}

// Exchange is one leg of a transaction. Amount is nil when the leg is
// elided in source.
type Exchange struct {
	Range
	Account Account
	Amount  *Amount
}

// State is the transaction state marker: `*`, `!` or `#`.
type State struct{ Range }

type Transaction struct {
	Range
	Date      Date
	State     State
	Payee     QuotedString
	Title     QuotedString
	Exchanges []Exchange
}

// HasPayee reports whether a payee string was present in source. The first
// quoted string is the title unless a second one follows.
func (t Transaction) HasPayee() bool {
	return !t.Payee.Empty()
}

type Custom struct {
	Range
	Date Date
	Args []QuotedString
}

type Open struct {
	Range
	Date    Date
	Account Account
}

type Close struct {
	Range
	Date    Date
	Account Account
}

type Pad struct {
	Range
	Date           Date
	Target, Source Account
}

type Balance struct {
	Range
	Date    Date
	Account Account
	Amount  Amount
}

type Price struct {
	Range
	Date              Date
	Commodity, Target Commodity
	Rate              Decimal
}

type Option struct {
	Range
	Key, Value QuotedString
}

type Unit struct {
	Range
	Commodity Commodity
}

type Include struct {
	Range
	IncludePath QuotedString
}

type Directive struct {
	Range
	Directive any
}

type File struct {
	Range
	Directives []Directive
}

var _ error = Error{}

// Error is a located syntax or semantic error.
type Error struct {
	Range
	Message string
	Wrapped error
}

func (e Error) Error() string {
	var s strings.Builder
	if len(e.Path) > 0 {
		s.WriteString(e.Path)
		s.WriteString(": ")
	}
	s.WriteString(e.Location().String())
	s.WriteString(" ")
	s.WriteString(e.Message)
	if e.Wrapped != nil {
		s.WriteString(": ")
		s.WriteString(e.Wrapped.Error())
	}
	return s.String()
}

func (e Error) Unwrap() error {
	return e.Wrapped
}
