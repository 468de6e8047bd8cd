package journal

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
)

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("time.Parse(%q) = %v, want nil", s, err)
	}
	return d
}

func TestParse(t *testing.T) {
	text := strings.Join([]string{
		`option "title" "my ledger"`,
		"unit USD",
		"unit CHF",
		"2021-10-01 open Assets:Bank:Swiss",
		"2021-10-01 open Expenses:Dining",
		"2021-10-01 open Equity:Opening-Balance",
		"2021-10-02 pad Assets:Bank:Swiss Equity:Opening-Balance",
		"2021-10-03 balance Assets:Bank:Swiss 1000 USD",
		"2021-10-04 price USD 0.92 CHF",
		`2021-10-05 custom "author" "team rocket"`,
		`2021-11-01 * "Coffee Corner" "Morning coffee"`,
		"    Expenses:Dining 4.50 USD",
		"    Assets:Bank:Swiss",
		"",
	}, "\n")

	ledger, err := Parse(text, nil)

	if err != nil {
		t.Fatalf("Parse() returned error %v, want nil", err)
	}
	if title, ok := ledger.Option("title"); !ok || title != "my ledger" {
		t.Errorf("ledger.Option(%q) = %q, %t, want \"my ledger\", true", "title", title, ok)
	}
	usd, err := ledger.Units.Lookup("USD")
	if err != nil {
		t.Fatalf("ledger.Units.Lookup() = %v, want nil", err)
	}
	chf, err := ledger.Units.Lookup("CHF")
	if err != nil {
		t.Fatalf("ledger.Units.Lookup() = %v, want nil", err)
	}

	var dates []string
	for _, day := range ledger.Days() {
		dates = append(dates, day.Date.Format("2006-01-02"))
	}
	want := []string{"2021-10-02", "2021-10-03", "2021-10-04", "2021-10-05", "2021-11-01"}
	if diff := cmp.Diff(want, dates); diff != "" {
		t.Fatalf("ledger.Days() returned unexpected dates (-want/+got)\n%s\n", diff)
	}

	day, ok := ledger.Day(date(t, "2021-10-02"))
	if !ok || len(day.Pads) != 1 {
		t.Fatal("pad statement was not recorded")
	}
	target, err := ledger.Accounts.Unresolve(day.Pads[0].Target)
	if err != nil {
		t.Fatalf("ledger.Accounts.Unresolve() = %v, want nil", err)
	}
	if target.String() != "Assets:Bank:Swiss" {
		t.Errorf("pad target = %s, want Assets:Bank:Swiss", target)
	}

	day, ok = ledger.Day(date(t, "2021-10-03"))
	if !ok || len(day.Assertions) != 1 {
		t.Fatal("balance statement was not recorded")
	}
	if assertion := day.Assertions[0]; !assertion.Amount.Nominal.Equal(decimal.New(1000, 0)) || assertion.Amount.Commodity != usd {
		t.Errorf("assertion amount = %v %d, want 1000 %d", assertion.Amount.Nominal, assertion.Amount.Commodity, usd)
	}

	day, ok = ledger.Day(date(t, "2021-10-04"))
	if !ok || len(day.Prices) != 1 {
		t.Fatal("price statement was not recorded")
	}
	if price := day.Prices[0]; price.Commodity != usd || price.Target != chf || !price.Rate.Equal(decimal.New(92, -2)) {
		t.Errorf("price = %+v, want USD to CHF at 0.92", price)
	}

	day, ok = ledger.Day(date(t, "2021-10-05"))
	if !ok {
		t.Fatal("custom statement was not recorded")
	}
	if diff := cmp.Diff([][]string{{"author", "team rocket"}}, day.Customs); diff != "" {
		t.Errorf("day.Customs returned unexpected diff (-want/+got)\n%s\n", diff)
	}

	day, ok = ledger.Day(date(t, "2021-11-01"))
	if !ok || len(day.Transactions) != 1 {
		t.Fatal("transaction was not recorded")
	}
	trx := day.Transactions[0]
	if trx.Payee != "Coffee Corner" || trx.Title != "Morning coffee" {
		t.Errorf("transaction header = %q %q, want \"Coffee Corner\" \"Morning coffee\"", trx.Payee, trx.Title)
	}
	if len(trx.Exchanges) != 2 {
		t.Fatalf("transaction has %d exchanges, want 2", len(trx.Exchanges))
	}
	inferred := trx.Exchanges[1]
	if !inferred.Elided {
		t.Fatal("second exchange is not marked elided")
	}
	if !inferred.Amount.Nominal.Equal(decimal.New(-450, -2)) || inferred.Amount.Commodity != usd {
		t.Errorf("inferred amount = %v %d, want -4.50 %d", inferred.Amount.Nominal, inferred.Amount.Commodity, usd)
	}
}

func TestParseErrors(t *testing.T) {
	for _, test := range []struct {
		desc string
		text string
	}{
		{
			desc: "undeclared commodity",
			text: strings.Join([]string{
				"2021-01-01 open Assets:Cash",
				"2021-01-01 open Expenses:Dining",
				`2021-02-01 * "lunch"`,
				"    Expenses:Dining 10 USD",
				"    Assets:Cash",
				"",
			}, "\n"),
		},
		{
			desc: "account not open",
			text: strings.Join([]string{
				"unit USD",
				"2021-03-01 open Assets:Cash",
				"2021-03-01 open Expenses:Dining",
				`2021-02-01 * "lunch"`,
				"    Expenses:Dining 10 USD",
				"    Assets:Cash",
				"",
			}, "\n"),
		},
		{
			desc: "two elided legs",
			text: strings.Join([]string{
				"unit USD",
				"2021-01-01 open Assets:Cash",
				"2021-01-01 open Expenses:Dining",
				`2021-02-01 * "lunch"`,
				"    Expenses:Dining",
				"    Assets:Cash",
				"",
			}, "\n"),
		},
		{
			desc: "close before open",
			text: "2021-01-01 close Assets:Cash\n",
		},
		{
			desc: "price in undeclared commodity",
			text: "unit USD\n2021-01-01 price USD 0.92 CHF\n",
		},
	} {
		t.Run(test.desc, func(t *testing.T) {
			if _, err := Parse(test.text, nil); err == nil {
				t.Fatal("Parse() = nil, want an error")
			}
		})
	}
}

func TestParseFileInclude(t *testing.T) {
	dir := t.TempDir()
	sub := strings.Join([]string{
		"unit USD",
		"2021-01-01 open Assets:Cash",
		"2021-01-01 open Expenses:Dining",
		"",
	}, "\n")
	main := strings.Join([]string{
		`include "accounts.book"`,
		`2021-02-01 * "lunch"`,
		"    Expenses:Dining 10 USD",
		"    Assets:Cash",
		"",
	}, "\n")
	if err := os.WriteFile(filepath.Join(dir, "accounts.book"), []byte(sub), 0644); err != nil {
		t.Fatalf("os.WriteFile() = %v, want nil", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "main.book"), []byte(main), 0644); err != nil {
		t.Fatalf("os.WriteFile() = %v, want nil", err)
	}

	ledger, err := ParseFile(filepath.Join(dir, "main.book"), nil)

	if err != nil {
		t.Fatalf("ParseFile() returned error %v, want nil", err)
	}
	day, ok := ledger.Day(date(t, "2021-02-01"))
	if !ok || len(day.Transactions) != 1 {
		t.Fatal("transaction from the including file was not recorded")
	}
}

func TestParseFileIncludeCycle(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.book"), []byte("include \"b.book\"\n"), 0644); err != nil {
		t.Fatalf("os.WriteFile() = %v, want nil", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "b.book"), []byte("include \"a.book\"\n"), 0644); err != nil {
		t.Fatalf("os.WriteFile() = %v, want nil", err)
	}

	_, err := ParseFile(filepath.Join(dir, "a.book"), nil)

	if err == nil {
		t.Fatal("ParseFile() = nil, want an error")
	}
	if !strings.Contains(err.Error(), "include cycle") {
		t.Fatalf("error %q does not mention the include cycle", err)
	}
}

func TestParseFileMissing(t *testing.T) {
	if _, err := ParseFile(filepath.Join(t.TempDir(), "missing.book"), nil); err == nil {
		t.Fatal("ParseFile() = nil, want an error")
	}
}
