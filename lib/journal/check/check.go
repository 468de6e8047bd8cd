// Package check walks a ledger and reports balance-check diagnostics.
// Unlike parse-time failures these are advisory: the ledger has already
// been built, and callers choose whether to treat the result as fatal.
package check

import (
	"fmt"

	"go.uber.org/multierr"

	"github.com/plainbook/plainbook/lib/journal"
	"github.com/plainbook/plainbook/lib/model/transaction"
)

// Checker verifies the transactions of a ledger.
type Checker struct {
	Mode transaction.Check
}

// Ledger checks every transaction in date order and returns the combined
// diagnostics, or nil if all transactions pass.
func (c Checker) Ledger(l *journal.Ledger) error {
	var errs error
	for _, day := range l.Days() {
		for _, trx := range day.Transactions {
			if err := trx.Errors(c.Mode); err != nil {
				errs = multierr.Append(errs, fmt.Errorf("%s %q: %w", day.Date.Format("2006-01-02"), trx.Title, err))
			}
		}
	}
	return errs
}
