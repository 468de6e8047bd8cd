// Package journal builds a validated ledger from parsed statements. The
// ledger owns the account and commodity stores and accumulates bookings
// into date-indexed day-books, applying statements strictly in source
// order: a statement can only reference accounts and commodities declared
// by an earlier statement.
package journal

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"github.com/plainbook/plainbook/lib/common/compare"
	"github.com/plainbook/plainbook/lib/common/dict"
	"github.com/plainbook/plainbook/lib/common/set"
	"github.com/plainbook/plainbook/lib/model/account"
	"github.com/plainbook/plainbook/lib/model/amount"
	"github.com/plainbook/plainbook/lib/model/commodity"
	"github.com/plainbook/plainbook/lib/model/transaction"
	"github.com/plainbook/plainbook/lib/syntax"
	"github.com/plainbook/plainbook/lib/syntax/parser"
)

// PadTransaction records the intent to balance the target account against
// the source account. No balancing transaction is synthesized here; that
// is left to a reporting collaborator.
type PadTransaction struct {
	Target, Source account.TxnAccount
}

// BalanceAssertion asserts an account's expected amount at a date, to be
// checked by a reporting collaborator.
type BalanceAssertion struct {
	Account account.TxnAccount
	Amount  amount.Amount
}

// Price is a dated price quote: one unit of Commodity equals Rate units
// of Target.
type Price struct {
	Commodity, Target int
	Rate              decimal.Decimal
}

// DayBook collects the bookings of one calendar date, in source order.
type DayBook struct {
	Date         time.Time
	Customs      [][]string
	Pads         []PadTransaction
	Assertions   []BalanceAssertion
	Prices       []Price
	Transactions []*transaction.Transaction
}

// Ledger is the result of one parse call.
type Ledger struct {
	Accounts *account.Store
	Units    *commodity.Store

	days    map[time.Time]*DayBook
	options map[string]string
}

// New creates an empty ledger.
func New() *Ledger {
	return &Ledger{
		Accounts: account.NewStore(),
		Units:    commodity.NewStore(),
		days:     make(map[time.Time]*DayBook),
		options:  make(map[string]string),
	}
}

// SetOption sets a ledger option.
func (l *Ledger) SetOption(key, value string) {
	l.options[key] = value
}

// Option returns a ledger option.
func (l *Ledger) Option(key string) (string, bool) {
	value, ok := l.options[key]
	return value, ok
}

// Day returns the day-book for the given date, if any.
func (l *Ledger) Day(date time.Time) (*DayBook, bool) {
	day, ok := l.days[date]
	return day, ok
}

func (l *Ledger) day(date time.Time) *DayBook {
	return dict.GetDefault(l.days, date, func() *DayBook {
		return &DayBook{Date: date}
	})
}

// Days returns all day-books in date order.
func (l *Ledger) Days() []*DayBook {
	days := make([]*DayBook, 0, len(l.days))
	for _, date := range dict.SortedKeys(l.days, compare.Time) {
		days = append(days, l.days[date])
	}
	return days
}

// Parse parses ledger text into the given ledger, creating a new one if
// nil. Include paths are resolved relative to the working directory. The
// first error aborts the call; no partially updated ledger is returned.
func Parse(text string, ledger *Ledger) (*Ledger, error) {
	if ledger == nil {
		ledger = New()
	}
	b := builder{ledger: ledger, read: readFile, visited: set.New[string]()}
	if err := b.text(text, "", "."); err != nil {
		return nil, err
	}
	return ledger, nil
}

// ParseFile reads and parses the ledger file at path into the given
// ledger, creating a new one if nil. Nested includes thread the ledger
// through as an accumulator, depth-first and left to right.
func ParseFile(path string, ledger *Ledger) (*Ledger, error) {
	if ledger == nil {
		ledger = New()
	}
	b := builder{ledger: ledger, read: readFile, visited: set.New[string]()}
	if err := b.file(path); err != nil {
		return nil, err
	}
	return ledger, nil
}

func readFile(path string) (string, error) {
	text, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(text), nil
}

// builder drives one parse call. visited guards against include cycles.
type builder struct {
	ledger  *Ledger
	read    func(path string) (string, error)
	visited set.Set[string]
}

func (b *builder) file(path string) error {
	cleaned := filepath.Clean(path)
	if b.visited.Has(cleaned) {
		return fmt.Errorf("include cycle: file %s is already being included", path)
	}
	b.visited.Add(cleaned)
	text, err := b.read(path)
	if err != nil {
		return fmt.Errorf("reading file %s: %w", path, err)
	}
	return b.text(text, path, filepath.Dir(path))
}

func (b *builder) text(text, path, dir string) error {
	file, err := parser.Parse(text, path)
	if err != nil {
		return err
	}
	for _, d := range file.Directives {
		if inc, ok := d.Directive.(syntax.Include); ok {
			if err := b.file(filepath.Join(dir, inc.IncludePath.Content.Extract())); err != nil {
				return err
			}
			continue
		}
		if err := b.ledger.process(d); err != nil {
			return err
		}
	}
	return nil
}

func (l *Ledger) process(d syntax.Directive) error {
	var err error
	switch s := d.Directive.(type) {
	case syntax.Option:
		l.SetOption(s.Key.Content.Extract(), s.Value.Content.Extract())
	case syntax.Unit:
		_, err = l.Units.Create(s.Commodity)
	case syntax.Custom:
		err = l.custom(s)
	case syntax.Open:
		err = l.openAccount(s)
	case syntax.Close:
		err = l.closeAccount(s)
	case syntax.Pad:
		err = l.pad(s)
	case syntax.Balance:
		err = l.balance(s)
	case syntax.Price:
		err = l.price(s)
	case syntax.Transaction:
		err = l.transaction(s)
	default:
		err = fmt.Errorf("unknown statement type %T", s)
	}
	if err != nil {
		if _, ok := err.(syntax.Error); ok {
			return err
		}
		return syntax.Error{Range: d.Range, Message: "processing statement", Wrapped: err}
	}
	return nil
}

func (l *Ledger) custom(s syntax.Custom) error {
	date, err := s.Date.Parse()
	if err != nil {
		return err
	}
	args := make([]string, 0, len(s.Args))
	for _, arg := range s.Args {
		args = append(args, arg.Content.Extract())
	}
	day := l.day(date)
	day.Customs = append(day.Customs, args)
	return nil
}

func (l *Ledger) openAccount(s syntax.Open) error {
	date, err := s.Date.Parse()
	if err != nil {
		return err
	}
	acc, err := account.Create(s.Account)
	if err != nil {
		return err
	}
	return l.Accounts.Open(acc, date)
}

func (l *Ledger) closeAccount(s syntax.Close) error {
	date, err := s.Date.Parse()
	if err != nil {
		return err
	}
	acc, err := account.Create(s.Account)
	if err != nil {
		return err
	}
	return l.Accounts.Close(acc, date)
}

func (l *Ledger) pad(s syntax.Pad) error {
	date, err := s.Date.Parse()
	if err != nil {
		return err
	}
	var pad PadTransaction
	if pad.Target, err = l.resolve(s.Target, date); err != nil {
		return err
	}
	if pad.Source, err = l.resolve(s.Source, date); err != nil {
		return err
	}
	day := l.day(date)
	day.Pads = append(day.Pads, pad)
	return nil
}

func (l *Ledger) balance(s syntax.Balance) error {
	date, err := s.Date.Parse()
	if err != nil {
		return err
	}
	var assertion BalanceAssertion
	if assertion.Account, err = l.resolve(s.Account, date); err != nil {
		return err
	}
	if assertion.Amount, err = amount.Create(l.Units, s.Amount); err != nil {
		return err
	}
	day := l.day(date)
	day.Assertions = append(day.Assertions, assertion)
	return nil
}

func (l *Ledger) price(s syntax.Price) error {
	date, err := s.Date.Parse()
	if err != nil {
		return err
	}
	var price Price
	if price.Commodity, err = l.lookupCommodity(s.Commodity); err != nil {
		return err
	}
	if price.Target, err = l.lookupCommodity(s.Target); err != nil {
		return err
	}
	if price.Rate, err = s.Rate.Parse(); err != nil {
		return err
	}
	day := l.day(date)
	day.Prices = append(day.Prices, price)
	return nil
}

func (l *Ledger) transaction(s syntax.Transaction) error {
	date, err := s.Date.Parse()
	if err != nil {
		return err
	}
	state, err := transaction.ParseState(s.State)
	if err != nil {
		return err
	}
	var payee string
	if s.HasPayee() {
		payee = s.Payee.Content.Extract()
	}
	legs := make([]transaction.Leg, 0, len(s.Exchanges))
	for _, e := range s.Exchanges {
		var leg transaction.Leg
		if leg.Account, err = l.resolve(e.Account, date); err != nil {
			return err
		}
		if e.Amount != nil {
			amt, err := amount.Create(l.Units, *e.Amount)
			if err != nil {
				return err
			}
			leg.Amount = &amt
		}
		legs = append(legs, leg)
	}
	trx, err := transaction.Balance(state, payee, s.Title.Content.Extract(), legs)
	if err != nil {
		return syntax.Error{Range: s.Range, Message: "balancing transaction", Wrapped: err}
	}
	day := l.day(date)
	day.Transactions = append(day.Transactions, trx)
	return nil
}

func (l *Ledger) resolve(a syntax.Account, date time.Time) (account.TxnAccount, error) {
	acc, err := account.Create(a)
	if err != nil {
		return account.TxnAccount{}, err
	}
	txn, err := l.Accounts.Resolve(acc, date)
	if err != nil {
		return account.TxnAccount{}, syntax.Error{Range: a.Range, Message: "resolving account", Wrapped: err}
	}
	return txn, nil
}

func (l *Ledger) lookupCommodity(c syntax.Commodity) (int, error) {
	idx, err := l.Units.Lookup(c.Extract())
	if err != nil {
		return 0, syntax.Error{Range: c.Range, Message: "resolving commodity", Wrapped: err}
	}
	return idx, nil
}
