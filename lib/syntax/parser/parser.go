// Package parser parses ledger source text into a statement-level parse
// tree. One statement begins per non-indented line; the exchange legs of a
// transaction are indented under their header line.
package parser

import (
	"fmt"
	"unicode"

	"github.com/plainbook/plainbook/lib/syntax"
	"github.com/plainbook/plainbook/lib/syntax/scanner"
)

// Parser parses a ledger file.
type Parser struct {
	scanner.Scanner
}

// New creates a new parser for the given text.
func New(text, path string) *Parser {
	return &Parser{
		Scanner: *scanner.New(text, path),
	}
}

// Parse parses the text into a File in one call.
func Parse(text, path string) (syntax.File, error) {
	p := New(text, path)
	if err := p.Advance(); err != nil {
		return syntax.File{}, err
	}
	return p.ParseFile()
}

func (p *Parser) annotate(start int, msg string, err error) error {
	return syntax.Error{
		Range:   p.Range(start),
		Message: msg,
		Wrapped: err,
	}
}

// ParseFile parses the entire input.
func (p *Parser) ParseFile() (syntax.File, error) {
	var file syntax.File
	start := p.Offset()
	for p.Current() != scanner.EOF {
		switch {
		case p.Current() == '*' || p.Current() == '#' || p.Current() == '/' || p.Current() == ';':
			if err := p.readComment(); err != nil {
				return syntax.SetRange(&file, p.Range(start)), err
			}

		case isAlphanumeric(p.Current()):
			dir, err := p.parseDirective()
			if err != nil {
				return syntax.SetRange(&file, p.Range(start)), err
			}
			file.Directives = append(file.Directives, dir)
			if _, ok := dir.Directive.(syntax.Transaction); ok {
				// the exchange list consumes its own line endings
				continue
			}
		}
		if p.Current() == scanner.EOF {
			break
		}
		if err := p.readRestOfWhitespaceLine(); err != nil {
			return syntax.SetRange(&file, p.Range(start)), err
		}
	}
	return syntax.SetRange(&file, p.Range(start)), nil
}

func (p *Parser) readComment() error {
	if _, err := p.ReadAlternative([]string{"*", "//", "#", ";"}); err != nil {
		return err
	}
	_, err := p.ReadWhile(func(r rune) bool { return r != '\n' })
	return err
}

func (p *Parser) parseDirective() (syntax.Directive, error) {
	var dir syntax.Directive
	start := p.Offset()
	var err error
	switch {
	case unicode.IsDigit(p.Current()):
		dir.Directive, err = p.parseDatedStatement()
	case p.Current() == 'o':
		dir.Directive, err = p.parseOption()
	case p.Current() == 'u':
		dir.Directive, err = p.parseUnit()
	case p.Current() == 'i':
		dir.Directive, err = p.parseInclude()
	default:
		err = fmt.Errorf("unexpected character `%c` at start of statement", p.Current())
	}
	if err != nil {
		return syntax.SetRange(&dir, p.Range(start)), p.annotate(start, "parsing statement", err)
	}
	return syntax.SetRange(&dir, p.Range(start)), nil
}

func (p *Parser) parseDatedStatement() (any, error) {
	date, err := p.parseDate()
	if err != nil {
		return nil, err
	}
	if err := p.readWhitespace1(); err != nil {
		return nil, err
	}
	if p.Current() == '*' || p.Current() == '!' || p.Current() == '#' {
		return p.parseTransaction(date)
	}
	r, err := p.ReadAlternative([]string{"custom", "close", "open", "pad", "balance", "price"})
	if err != nil {
		return nil, err
	}
	if err := p.readWhitespace1(); err != nil {
		return nil, err
	}
	switch r.Extract() {
	case "custom":
		return p.parseCustom(date)
	case "open":
		return p.parseOpen(date)
	case "close":
		return p.parseClose(date)
	case "pad":
		return p.parsePad(date)
	case "balance":
		return p.parseBalance(date)
	default:
		return p.parsePrice(date)
	}
}

func (p *Parser) parseOption() (syntax.Option, error) {
	var (
		option syntax.Option
		err    error
	)
	start := p.Offset()
	if _, err := p.ReadString("option"); err != nil {
		return syntax.SetRange(&option, p.Range(start)), err
	}
	if err := p.readWhitespace1(); err != nil {
		return syntax.SetRange(&option, p.Range(start)), err
	}
	if option.Key, err = p.parseQuotedString(); err != nil {
		return syntax.SetRange(&option, p.Range(start)), err
	}
	if err := p.readWhitespace1(); err != nil {
		return syntax.SetRange(&option, p.Range(start)), err
	}
	if option.Value, err = p.parseQuotedString(); err != nil {
		return syntax.SetRange(&option, p.Range(start)), err
	}
	return syntax.SetRange(&option, p.Range(start)), nil
}

func (p *Parser) parseUnit() (syntax.Unit, error) {
	var (
		unit syntax.Unit
		err  error
	)
	start := p.Offset()
	if _, err := p.ReadString("unit"); err != nil {
		return syntax.SetRange(&unit, p.Range(start)), err
	}
	if err := p.readWhitespace1(); err != nil {
		return syntax.SetRange(&unit, p.Range(start)), err
	}
	if unit.Commodity, err = p.parseCommodity(); err != nil {
		return syntax.SetRange(&unit, p.Range(start)), err
	}
	return syntax.SetRange(&unit, p.Range(start)), nil
}

func (p *Parser) parseInclude() (syntax.Include, error) {
	var (
		include syntax.Include
		err     error
	)
	start := p.Offset()
	if _, err := p.ReadString("include"); err != nil {
		return syntax.SetRange(&include, p.Range(start)), err
	}
	if err := p.readWhitespace1(); err != nil {
		return syntax.SetRange(&include, p.Range(start)), err
	}
	if include.IncludePath, err = p.parseQuotedString(); err != nil {
		return syntax.SetRange(&include, p.Range(start)), err
	}
	return syntax.SetRange(&include, p.Range(start)), nil
}

func (p *Parser) parseCustom(date syntax.Date) (syntax.Custom, error) {
	custom := syntax.Custom{Date: date}
	start := date.Start
	for {
		arg, err := p.parseQuotedString()
		if err != nil {
			return syntax.SetRange(&custom, p.Range(start)), err
		}
		custom.Args = append(custom.Args, arg)
		if _, err := p.ReadWhile(isWhitespace); err != nil {
			return syntax.SetRange(&custom, p.Range(start)), err
		}
		if p.Current() != '"' {
			return syntax.SetRange(&custom, p.Range(start)), nil
		}
	}
}

func (p *Parser) parseOpen(date syntax.Date) (syntax.Open, error) {
	var (
		open = syntax.Open{Date: date}
		err  error
	)
	open.Account, err = p.parseAccount()
	return syntax.SetRange(&open, p.Range(date.Start)), err
}

func (p *Parser) parseClose(date syntax.Date) (syntax.Close, error) {
	var (
		close = syntax.Close{Date: date}
		err   error
	)
	close.Account, err = p.parseAccount()
	return syntax.SetRange(&close, p.Range(date.Start)), err
}

func (p *Parser) parsePad(date syntax.Date) (syntax.Pad, error) {
	var (
		pad = syntax.Pad{Date: date}
		err error
	)
	start := date.Start
	if pad.Target, err = p.parseAccount(); err != nil {
		return syntax.SetRange(&pad, p.Range(start)), err
	}
	if err := p.readWhitespace1(); err != nil {
		return syntax.SetRange(&pad, p.Range(start)), err
	}
	if pad.Source, err = p.parseAccount(); err != nil {
		return syntax.SetRange(&pad, p.Range(start)), err
	}
	return syntax.SetRange(&pad, p.Range(start)), nil
}

func (p *Parser) parseBalance(date syntax.Date) (syntax.Balance, error) {
	var (
		balance = syntax.Balance{Date: date}
		err     error
	)
	start := date.Start
	if balance.Account, err = p.parseAccount(); err != nil {
		return syntax.SetRange(&balance, p.Range(start)), err
	}
	if err := p.readWhitespace1(); err != nil {
		return syntax.SetRange(&balance, p.Range(start)), err
	}
	if balance.Amount, err = p.parseAmount(); err != nil {
		return syntax.SetRange(&balance, p.Range(start)), err
	}
	return syntax.SetRange(&balance, p.Range(start)), nil
}

func (p *Parser) parsePrice(date syntax.Date) (syntax.Price, error) {
	var (
		price = syntax.Price{Date: date}
		err   error
	)
	start := date.Start
	if price.Commodity, err = p.parseCommodity(); err != nil {
		return syntax.SetRange(&price, p.Range(start)), err
	}
	if err := p.readWhitespace1(); err != nil {
		return syntax.SetRange(&price, p.Range(start)), err
	}
	if price.Rate, err = p.parseDecimal(); err != nil {
		return syntax.SetRange(&price, p.Range(start)), err
	}
	if err := p.readWhitespace1(); err != nil {
		return syntax.SetRange(&price, p.Range(start)), err
	}
	if price.Target, err = p.parseCommodity(); err != nil {
		return syntax.SetRange(&price, p.Range(start)), err
	}
	return syntax.SetRange(&price, p.Range(start)), nil
}

func (p *Parser) parseTransaction(date syntax.Date) (syntax.Transaction, error) {
	var (
		trx = syntax.Transaction{Date: date}
		err error
	)
	start := date.Start
	if trx.State, err = p.parseState(); err != nil {
		return syntax.SetRange(&trx, p.Range(start)), err
	}
	if err := p.readWhitespace1(); err != nil {
		return syntax.SetRange(&trx, p.Range(start)), err
	}
	if trx.Title, err = p.parseQuotedString(); err != nil {
		return syntax.SetRange(&trx, p.Range(start)), err
	}
	if _, err := p.ReadWhile(isWhitespace); err != nil {
		return syntax.SetRange(&trx, p.Range(start)), err
	}
	// two quoted strings: the first was the payee after all
	if p.Current() == '"' {
		trx.Payee = trx.Title
		if trx.Title, err = p.parseQuotedString(); err != nil {
			return syntax.SetRange(&trx, p.Range(start)), err
		}
	}
	if err := p.readRestOfWhitespaceLine(); err != nil {
		return syntax.SetRange(&trx, p.Range(start)), err
	}
	for isWhitespace(p.Current()) {
		if _, err := p.ReadWhile1("whitespace", isWhitespace); err != nil {
			return syntax.SetRange(&trx, p.Range(start)), err
		}
		if p.Current() == '\n' || p.Current() == scanner.EOF {
			// a blank line ends the exchange list
			break
		}
		exchange, err := p.parseExchange()
		if err != nil {
			return syntax.SetRange(&trx, p.Range(start)), err
		}
		trx.Exchanges = append(trx.Exchanges, exchange)
		if p.Current() == scanner.EOF {
			break
		}
		if err := p.readRestOfWhitespaceLine(); err != nil {
			return syntax.SetRange(&trx, p.Range(start)), err
		}
	}
	return syntax.SetRange(&trx, p.Range(start)), nil
}

func (p *Parser) parseState() (syntax.State, error) {
	var state syntax.State
	start := p.Offset()
	_, err := p.ReadCharacterWith("a transaction state (`*`, `!` or `#`)", func(r rune) bool {
		return r == '*' || r == '!' || r == '#'
	})
	return syntax.SetRange(&state, p.Range(start)), err
}

func (p *Parser) parseExchange() (syntax.Exchange, error) {
	var (
		exchange syntax.Exchange
		err      error
	)
	start := p.Offset()
	if exchange.Account, err = p.parseAccount(); err != nil {
		return syntax.SetRange(&exchange, p.Range(start)), err
	}
	if _, err := p.ReadWhile(isWhitespace); err != nil {
		return syntax.SetRange(&exchange, p.Range(start)), err
	}
	if p.Current() == '\n' || p.Current() == scanner.EOF {
		// elided amount
		return syntax.SetRange(&exchange, p.Range(start)), nil
	}
	amount, err := p.parseAmount()
	if err != nil {
		return syntax.SetRange(&exchange, p.Range(start)), err
	}
	exchange.Amount = &amount
	return syntax.SetRange(&exchange, p.Range(start)), nil
}

func (p *Parser) parseAmount() (syntax.Amount, error) {
	var (
		amount syntax.Amount
		err    error
	)
	start := p.Offset()
	if amount.Quantity, err = p.parseDecimal(); err != nil {
		return syntax.SetRange(&amount, p.Range(start)), err
	}
	if err := p.readWhitespace1(); err != nil {
		return syntax.SetRange(&amount, p.Range(start)), err
	}
	if amount.Commodity, err = p.parseCommodity(); err != nil {
		return syntax.SetRange(&amount, p.Range(start)), err
	}
	if _, err := p.ReadWhile(isWhitespace); err != nil {
		return syntax.SetRange(&amount, p.Range(start)), err
	}
	if p.Current() != '@' {
		return syntax.SetRange(&amount, p.Range(start)), nil
	}
	if _, err := p.ReadCharacter('@'); err != nil {
		return syntax.SetRange(&amount, p.Range(start)), err
	}
	if err := p.readWhitespace1(); err != nil {
		return syntax.SetRange(&amount, p.Range(start)), err
	}
	price, err := p.parseAmount()
	if err != nil {
		return syntax.SetRange(&amount, p.Range(start)), err
	}
	amount.Price = &price
	return syntax.SetRange(&amount, p.Range(start)), nil
}

func (p *Parser) parseAccount() (syntax.Account, error) {
	start := p.Offset()
	if _, err := p.ReadWhile1("a letter or a digit", isSegmentRune); err != nil {
		return syntax.Account{Range: p.Range(start)}, err
	}
	for {
		if p.Current() != ':' {
			return syntax.Account{Range: p.Range(start)}, nil
		}
		if _, err := p.ReadCharacter(':'); err != nil {
			return syntax.Account{Range: p.Range(start)}, err
		}
		if _, err := p.ReadWhile1("a letter or a digit", isSegmentRune); err != nil {
			return syntax.Account{Range: p.Range(start)}, err
		}
	}
}

func (p *Parser) parseCommodity() (syntax.Commodity, error) {
	var commodity syntax.Commodity
	start := p.Offset()
	_, err := p.ReadWhile1("a letter or a digit", isAlphanumeric)
	return syntax.SetRange(&commodity, p.Range(start)), err
}

func (p *Parser) parseDecimal() (syntax.Decimal, error) {
	start := p.Offset()
	if p.Current() == '-' {
		if _, err := p.ReadCharacter('-'); err != nil {
			return syntax.Decimal{Range: p.Range(start)}, err
		}
	}
	if _, err := p.ReadWhile1("a digit", unicode.IsDigit); err != nil {
		return syntax.Decimal{Range: p.Range(start)}, err
	}
	if p.Current() != '.' {
		return syntax.Decimal{Range: p.Range(start)}, nil
	}
	if _, err := p.ReadCharacter('.'); err != nil {
		return syntax.Decimal{Range: p.Range(start)}, err
	}
	if _, err := p.ReadWhile1("a digit", unicode.IsDigit); err != nil {
		return syntax.Decimal{Range: p.Range(start)}, err
	}
	return syntax.Decimal{Range: p.Range(start)}, nil
}

func (p *Parser) parseDate() (syntax.Date, error) {
	start := p.Offset()
	for i := 0; i < 4; i++ {
		if _, err := p.ReadCharacterWith("a digit", unicode.IsDigit); err != nil {
			return syntax.Date{Range: p.Range(start)}, err
		}
	}
	for i := 0; i < 2; i++ {
		if _, err := p.ReadCharacter('-'); err != nil {
			return syntax.Date{Range: p.Range(start)}, err
		}
		for j := 0; j < 2; j++ {
			if _, err := p.ReadCharacterWith("a digit", unicode.IsDigit); err != nil {
				return syntax.Date{Range: p.Range(start)}, err
			}
		}
	}
	return syntax.Date{Range: p.Range(start)}, nil
}

func (p *Parser) parseQuotedString() (syntax.QuotedString, error) {
	var (
		qs  syntax.QuotedString
		err error
	)
	start := p.Offset()
	if _, err := p.ReadCharacter('"'); err != nil {
		return syntax.SetRange(&qs, p.Range(start)), err
	}
	if qs.Content, err = p.ReadWhile(func(r rune) bool { return r != '"' && r != '\n' }); err != nil {
		return syntax.SetRange(&qs, p.Range(start)), err
	}
	if _, err := p.ReadCharacter('"'); err != nil {
		return syntax.SetRange(&qs, p.Range(start)), err
	}
	return syntax.SetRange(&qs, p.Range(start)), nil
}

func (p *Parser) readWhitespace1() error {
	if !isWhitespaceOrNewline(p.Current()) && p.Current() != scanner.EOF {
		return fmt.Errorf("unexpected character `%c`, want whitespace", p.Current())
	}
	_, err := p.ReadWhile(isWhitespace)
	return err
}

func (p *Parser) readRestOfWhitespaceLine() error {
	if _, err := p.ReadWhile(isWhitespace); err != nil {
		return err
	}
	if p.Current() == scanner.EOF {
		return nil
	}
	_, err := p.ReadCharacter('\n')
	return err
}

func isAlphanumeric(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isSegmentRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-'
}

func isWhitespace(ch rune) bool {
	return ch == ' ' || ch == '\t' || ch == '\r'
}

func isWhitespaceOrNewline(ch rune) bool {
	return ch == '\n' || isWhitespace(ch)
}
