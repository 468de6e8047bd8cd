// Package transaction implements transactions and the balancing algorithm:
// at most one exchange leg may omit its amount, and the omitted amount is
// inferred so that the transaction sums to zero.
package transaction

import (
	"errors"
	"fmt"

	"github.com/plainbook/plainbook/lib/model/account"
	"github.com/plainbook/plainbook/lib/model/amount"
	"github.com/plainbook/plainbook/lib/syntax"
)

// State is the settlement state of a transaction.
type State int

const (
	// Settled marks a completed transaction (`*`).
	Settled State = iota
	// Unsettled marks a pending transaction (`!`).
	Unsettled
	// Recurring marks a recurring transaction (`#`).
	Recurring
	// Virtual marks a transaction inserted internally, with no marker in
	// source.
	Virtual
)

func (s State) String() string {
	switch s {
	case Settled:
		return "*"
	case Unsettled:
		return "!"
	case Recurring:
		return "#"
	}
	return ""
}

// ParseState parses a transaction state token.
func ParseState(s syntax.State) (State, error) {
	switch s.Extract() {
	case "*":
		return Settled, nil
	case "!":
		return Unsettled, nil
	case "#":
		return Recurring, nil
	}
	return Settled, syntax.Error{Range: s.Range, Message: "invalid transaction state"}
}

// Exchange is one leg of a transaction. Elided marks the leg whose amount
// was not written in source and was computed by the balancer.
type Exchange struct {
	Account account.TxnAccount
	Amount  amount.Amount
	Elided  bool
}

// Transaction is a balanced list of exchanges with a header. Payee is
// empty when no payee was given.
type Transaction struct {
	State     State
	Payee     string
	Title     string
	Exchanges []Exchange
}

// Leg is one balancer input position: an account with an optional amount.
// A nil amount marks the leg as elided.
type Leg struct {
	Account account.TxnAccount
	Amount  *amount.Amount
}

// ErrTooManyElided reports more than one exchange without an amount.
var ErrTooManyElided = errors.New("only one account may have its amount elided")

// ErrNoAnchor reports an elided exchange with no explicit amount to
// balance against.
var ErrNoAnchor = errors.New("cannot infer an elided amount without an explicit amount")

// Balance builds a transaction from its legs, inferring the single elided
// amount if one exists. The first explicit amount's commodity anchors the
// fold; explicit amounts in other commodities must carry a price quote
// into the anchor commodity.
func Balance(state State, payee, title string, legs []Leg) (*Transaction, error) {
	var elided int
	for _, leg := range legs {
		if leg.Amount == nil {
			elided++
		}
	}
	if elided > 1 {
		return nil, ErrTooManyElided
	}
	var (
		exchanges = make([]Exchange, len(legs))
		total     amount.Amount
		anchored  bool
		inferred  = -1
	)
	for i, leg := range legs {
		if leg.Amount == nil {
			inferred = i
			exchanges[i] = Exchange{Account: leg.Account}
			continue
		}
		if !anchored {
			total = amount.Zero(leg.Amount.Commodity)
			anchored = true
		}
		var err error
		if total, err = total.Add(*leg.Amount); err != nil {
			return nil, err
		}
		exchanges[i] = Exchange{Account: leg.Account, Amount: *leg.Amount}
	}
	if inferred >= 0 {
		if !anchored {
			return nil, ErrNoAnchor
		}
		rest, err := amount.Zero(total.Commodity).Sub(total)
		if err != nil {
			return nil, err
		}
		exchanges[inferred] = Exchange{Account: legs[inferred].Account, Amount: rest, Elided: true}
	}
	return &Transaction{
		State:     state,
		Payee:     payee,
		Title:     title,
		Exchanges: exchanges,
	}, nil
}

// Sum folds all exchanges, elided included, into the anchor commodity of
// the first non-elided exchange. A balanced transaction sums to zero.
func (t *Transaction) Sum() (amount.Amount, error) {
	total := amount.Zero(t.anchor())
	for _, e := range t.Exchanges {
		var err error
		if total, err = total.Add(e.Amount); err != nil {
			return total, err
		}
	}
	return total, nil
}

// TotalDebited sums the positive exchanges in the anchor commodity.
func (t *Transaction) TotalDebited() (amount.Amount, error) {
	return t.sumIf(func(e Exchange) bool { return e.Amount.Nominal.IsPositive() })
}

// TotalCredited sums the negative exchanges in the anchor commodity,
// reported as a positive magnitude.
func (t *Transaction) TotalCredited() (amount.Amount, error) {
	total, err := t.sumIf(func(e Exchange) bool { return e.Amount.Nominal.IsNegative() })
	return total.Neg(), err
}

func (t *Transaction) sumIf(pred func(Exchange) bool) (amount.Amount, error) {
	total := amount.Zero(t.anchor())
	for _, e := range t.Exchanges {
		if !pred(e) {
			continue
		}
		var err error
		if total, err = total.Add(e.Amount); err != nil {
			return total, err
		}
	}
	return total, nil
}

func (t *Transaction) anchor() int {
	for _, e := range t.Exchanges {
		if !e.Elided {
			return e.Amount.Commodity
		}
	}
	return 0
}

// Check selects the balance-check strategy.
type Check int

const (
	// WithoutSum checks the exchange structure only.
	WithoutSum Check = iota
	// WithSum additionally recomputes the sum and requires it to be zero.
	WithSum
)

// ErrUnbalanced reports a transaction with fewer than two exchanges.
var ErrUnbalanced = errors.New("transaction has fewer than two exchanges")

// NotZeroSumError reports a transaction whose exchanges do not sum to
// zero.
type NotZeroSumError struct {
	Sum amount.Amount
}

func (e NotZeroSumError) Error() string {
	return fmt.Sprintf("transaction does not sum to zero: remainder is %s", e.Sum.Nominal)
}

// Errors reports balance-check diagnostics. These are advisory: a ledger
// builds successfully even when transactions fail the check, and callers
// decide whether to treat the diagnostics as fatal.
func (t *Transaction) Errors(check Check) error {
	if len(t.Exchanges) <= 1 {
		return ErrUnbalanced
	}
	if check != WithSum {
		return nil
	}
	sum, err := t.Sum()
	if err != nil {
		return fmt.Errorf("computing transaction sum: %w", err)
	}
	if !sum.IsZero() {
		return NotZeroSumError{Sum: sum}
	}
	return nil
}
