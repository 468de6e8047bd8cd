// Package printer renders a parse tree back to canonical ledger text.
package printer

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/plainbook/plainbook/lib/syntax"
)

// Printer prints statements.
type Printer struct {
	Padding int
}

// New creates a new Printer.
func New() *Printer {
	return new(Printer)
}

// PrintDirective prints a statement to the given Writer.
func (p Printer) PrintDirective(w io.Writer, directive syntax.Directive) (n int, err error) {
	switch d := directive.Directive.(type) {
	case syntax.Option:
		return fmt.Fprintf(w, "option \"%s\" \"%s\"", d.Key.Content.Extract(), d.Value.Content.Extract())
	case syntax.Unit:
		return fmt.Fprintf(w, "unit %s", d.Commodity.Extract())
	case syntax.Include:
		return fmt.Fprintf(w, "include \"%s\"", d.IncludePath.Content.Extract())
	case syntax.Custom:
		return p.printCustom(w, d)
	case syntax.Open:
		return fmt.Fprintf(w, "%s open %s", d.Date.Extract(), d.Account.Extract())
	case syntax.Close:
		return fmt.Fprintf(w, "%s close %s", d.Date.Extract(), d.Account.Extract())
	case syntax.Pad:
		return fmt.Fprintf(w, "%s pad %s %s", d.Date.Extract(), d.Target.Extract(), d.Source.Extract())
	case syntax.Balance:
		return fmt.Fprintf(w, "%s balance %s %s", d.Date.Extract(), d.Account.Extract(), amountText(d.Amount))
	case syntax.Price:
		return fmt.Fprintf(w, "%s price %s %s %s", d.Date.Extract(), d.Commodity.Extract(), d.Rate.Extract(), d.Target.Extract())
	case syntax.Transaction:
		return p.printTransaction(w, d)
	}
	return 0, fmt.Errorf("unknown statement: %v", directive)
}

func (p Printer) printCustom(w io.Writer, c syntax.Custom) (n int, err error) {
	n, err = fmt.Fprintf(w, "%s custom", c.Date.Extract())
	if err != nil {
		return n, err
	}
	for _, arg := range c.Args {
		c, err := fmt.Fprintf(w, " \"%s\"", arg.Content.Extract())
		n += c
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

func (p Printer) printTransaction(w io.Writer, t syntax.Transaction) (n int, err error) {
	n, err = fmt.Fprintf(w, "%s %s", t.Date.Extract(), t.State.Extract())
	if err != nil {
		return n, err
	}
	if t.HasPayee() {
		c, err := fmt.Fprintf(w, " \"%s\"", t.Payee.Content.Extract())
		n += c
		if err != nil {
			return n, err
		}
	}
	c, err := fmt.Fprintf(w, " \"%s\"", t.Title.Content.Extract())
	n += c
	if err != nil {
		return n, err
	}
	for _, e := range t.Exchanges {
		c, err := p.printExchange(w, e)
		n += c
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

func (p Printer) printExchange(w io.Writer, e syntax.Exchange) (int, error) {
	if e.Amount == nil {
		return fmt.Fprintf(w, "\n    %s", e.Account.Extract())
	}
	return fmt.Fprintf(w, "\n    %-*s %s", p.Padding, e.Account.Extract(), amountText(*e.Amount))
}

func amountText(a syntax.Amount) string {
	var b strings.Builder
	b.WriteString(a.Quantity.Extract())
	b.WriteString(" ")
	b.WriteString(a.Commodity.Extract())
	for price := a.Price; price != nil; price = price.Price {
		b.WriteString(" @ ")
		b.WriteString(price.Quantity.Extract())
		b.WriteString(" ")
		b.WriteString(price.Commodity.Extract())
	}
	return b.String()
}

// PrintFile prints all statements of a file, one per line.
func (p *Printer) PrintFile(w io.Writer, f syntax.File) (int, error) {
	var n int
	for _, d := range f.Directives {
		c, err := p.PrintDirective(w, d)
		n += c
		if err != nil {
			return n, err
		}
		c, err = io.WriteString(w, "\n")
		n += c
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

// Initialize computes the account padding from the exchange legs of all
// transactions.
func (p *Printer) Initialize(directives []syntax.Directive) {
	for _, d := range directives {
		t, ok := d.Directive.(syntax.Transaction)
		if !ok {
			continue
		}
		for _, e := range t.Exchanges {
			if l := utf8.RuneCountInString(e.Account.Extract()); l > p.Padding {
				p.Padding = l
			}
		}
	}
}

// Format reprints the given file in canonical form, preserving any text
// between statements.
func (p *Printer) Format(f syntax.File, w io.Writer) error {
	p.Initialize(f.Directives)
	text := f.Text
	var pos int
	for _, d := range f.Directives {
		// transaction ranges swallow their trailing line ending; leave
		// it to the source text
		end := d.End
		for end > d.Start && (text[end-1] == '\n' || text[end-1] == ' ' || text[end-1] == '\t' || text[end-1] == '\r') {
			end--
		}
		if _, err := w.Write([]byte(text[pos:d.Start])); err != nil {
			return err
		}
		if _, err := p.PrintDirective(w, d); err != nil {
			return err
		}
		pos = end
	}
	_, err := w.Write([]byte(text[pos:]))
	return err
}
