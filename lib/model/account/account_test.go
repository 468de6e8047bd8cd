package account

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	for _, test := range []struct {
		name    string
		want    Account
		wantErr bool
	}{
		{
			name: "Assets:Bank:Swiss",
			want: Account{Type: ASSETS, Segments: []string{"Bank", "Swiss"}},
		},
		{
			name: "Expenses:Dining",
			want: Account{Type: EXPENSES, Segments: []string{"Dining"}},
		},
		{
			name: "Liabilities:CreditCard",
			want: Account{Type: LIABILITIES, Segments: []string{"CreditCard"}},
		},
		{
			name: "Income:Salary",
			want: Account{Type: INCOME, Segments: []string{"Salary"}},
		},
		{
			name: "Equity:Opening-Balance",
			want: Account{Type: EQUITY, Segments: []string{"Opening-Balance"}},
		},
		{
			name:    "Assets",
			wantErr: true,
		},
		{
			name:    "Foo:Bar",
			wantErr: true,
		},
		{
			name:    "Assets:",
			wantErr: true,
		},
		{
			name:    "Assets:Bank Swiss",
			wantErr: true,
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			got, err := Parse(test.name)

			if (err != nil) != test.wantErr {
				t.Fatalf("Parse(%q) returned error %v, want error presence %t", test.name, err, test.wantErr)
			}
			if test.wantErr {
				return
			}
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Fatalf("Parse(%q) returned unexpected diff (-want/+got)\n%s\n", test.name, diff)
			}
			if got.String() != test.name {
				t.Fatalf("got.String() = %q, want %q", got.String(), test.name)
			}
		})
	}
}

func TestLevel(t *testing.T) {
	acc, err := Parse("Assets:Bank:Swiss")
	if err != nil {
		t.Fatalf("Parse() returned error %v, want nil", err)
	}
	if acc.Level() != 2 {
		t.Fatalf("acc.Level() = %d, want 2", acc.Level())
	}
}
