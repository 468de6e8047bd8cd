package account

import (
	"strings"
	"testing"
	"time"
)

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("time.Parse(%q) = %v, want nil", s, err)
	}
	return d
}

func mustParse(t *testing.T, name string) Account {
	t.Helper()
	acc, err := Parse(name)
	if err != nil {
		t.Fatalf("Parse(%q) = %v, want nil", name, err)
	}
	return acc
}

func TestResolve(t *testing.T) {
	store := NewStore()
	dining := mustParse(t, "Expenses:Dining")
	if err := store.Open(dining, date(t, "2021-10-28")); err != nil {
		t.Fatalf("store.Open() = %v, want nil", err)
	}

	if _, err := store.Resolve(dining, date(t, "2021-10-28")); err != nil {
		t.Fatalf("store.Resolve() at the opening date = %v, want nil", err)
	}
	if _, err := store.Resolve(dining, date(t, "2021-11-01")); err != nil {
		t.Fatalf("store.Resolve() after the opening date = %v, want nil", err)
	}

	_, err := store.Resolve(dining, date(t, "2021-10-25"))
	if err == nil {
		t.Fatal("store.Resolve() before the opening date = nil, want an error")
	}
	for _, part := range []string{"Expenses:Dining", "2021-10-25"} {
		if !strings.Contains(err.Error(), part) {
			t.Errorf("error %q does not mention %q", err, part)
		}
	}
}

func TestResolveUnopened(t *testing.T) {
	store := NewStore()

	if _, err := store.Resolve(mustParse(t, "Assets:Cash"), date(t, "2021-10-28")); err == nil {
		t.Fatal("store.Resolve() of an unopened account = nil, want an error")
	}
}

func TestClose(t *testing.T) {
	store := NewStore()
	cash := mustParse(t, "Assets:Cash")
	if err := store.Open(cash, date(t, "2021-01-01")); err != nil {
		t.Fatalf("store.Open() = %v, want nil", err)
	}

	if err := store.Close(cash, date(t, "2020-12-31")); err == nil {
		t.Fatal("store.Close() before the opening date = nil, want an error")
	}
	if err := store.Close(cash, date(t, "2021-06-30")); err != nil {
		t.Fatalf("store.Close() = %v, want nil", err)
	}

	if _, err := store.Resolve(cash, date(t, "2021-03-01")); err != nil {
		t.Fatalf("store.Resolve() inside the window = %v, want nil", err)
	}
	if _, err := store.Resolve(cash, date(t, "2021-06-30")); err == nil {
		t.Fatal("store.Resolve() at the closing date = nil, want an error")
	}
}

func TestCloseUnopened(t *testing.T) {
	store := NewStore()

	if err := store.Close(mustParse(t, "Assets:Cash"), date(t, "2021-06-30")); err == nil {
		t.Fatal("store.Close() of an unopened account = nil, want an error")
	}
}

func TestReopen(t *testing.T) {
	store := NewStore()
	cash := mustParse(t, "Assets:Cash")
	if err := store.Open(cash, date(t, "2021-01-01")); err != nil {
		t.Fatalf("store.Open() = %v, want nil", err)
	}
	if err := store.Close(cash, date(t, "2021-06-30")); err != nil {
		t.Fatalf("store.Close() = %v, want nil", err)
	}
	if err := store.Open(cash, date(t, "2022-01-01")); err != nil {
		t.Fatalf("store.Open() = %v, want nil", err)
	}

	if _, err := store.Resolve(cash, date(t, "2021-09-01")); err == nil {
		t.Fatal("store.Resolve() between the windows = nil, want an error")
	}
	if _, err := store.Resolve(cash, date(t, "2022-02-01")); err != nil {
		t.Fatalf("store.Resolve() in the reopened window = %v, want nil", err)
	}
}

func TestSharedSegments(t *testing.T) {
	store := NewStore()
	opened := date(t, "2021-01-01")
	jawir := mustParse(t, "Assets:Bank:Jawir")
	card := mustParse(t, "Liabilities:Bank:CreditCard")
	if err := store.Open(jawir, opened); err != nil {
		t.Fatalf("store.Open() = %v, want nil", err)
	}
	if err := store.Open(card, opened); err != nil {
		t.Fatalf("store.Open() = %v, want nil", err)
	}

	a, err := store.Resolve(jawir, opened)
	if err != nil {
		t.Fatalf("store.Resolve() = %v, want nil", err)
	}
	l, err := store.Resolve(card, opened)
	if err != nil {
		t.Fatalf("store.Resolve() = %v, want nil", err)
	}

	// "Bank" is interned once, across account kinds
	if a.Segments[0] != l.Segments[0] {
		t.Fatalf("segment indices for %q differ: %d vs %d", "Bank", a.Segments[0], l.Segments[0])
	}
	if a.Segments[1] == l.Segments[1] {
		t.Fatalf("segment indices for distinct segments coincide: %d", a.Segments[1])
	}
}

func TestUnresolve(t *testing.T) {
	store := NewStore()
	swiss := mustParse(t, "Assets:Bank:Swiss")
	opened := date(t, "2021-01-01")
	if err := store.Open(swiss, opened); err != nil {
		t.Fatalf("store.Open() = %v, want nil", err)
	}
	txn, err := store.Resolve(swiss, opened)
	if err != nil {
		t.Fatalf("store.Resolve() = %v, want nil", err)
	}

	got, err := store.Unresolve(txn)

	if err != nil {
		t.Fatalf("store.Unresolve() = %v, want nil", err)
	}
	if got.String() != "Assets:Bank:Swiss" {
		t.Fatalf("store.Unresolve() = %s, want Assets:Bank:Swiss", got)
	}
	if _, err := store.Unresolve(TxnAccount{Type: ASSETS, Segments: []int{42}}); err == nil {
		t.Fatal("store.Unresolve() with an undefined index = nil, want an error")
	}
}
