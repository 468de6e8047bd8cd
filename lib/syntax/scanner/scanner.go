// Package scanner provides a rune-level scanner over ledger source text.
package scanner

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/plainbook/plainbook/lib/syntax"
)

// EOF is a rune representing the end of a file.
const EOF = rune(0)

// Scanner reads runes from a string, tracking the current offset.
type Scanner struct {
	Text string
	Path string

	// current contains the current rune
	current    rune
	currentLen int
	pos        int
}

// New creates a new Scanner. Advance must be called once before use.
func New(text, path string) *Scanner {
	return &Scanner{
		Text: text,
		Path: path,
	}
}

// Current returns the current rune.
func (s *Scanner) Current() rune {
	return s.current
}

// Offset returns the current offset.
func (s *Scanner) Offset() int {
	return s.pos
}

// Advance reads a rune.
func (s *Scanner) Advance() error {
	s.pos += s.currentLen
	if s.pos == len(s.Text) {
		s.current = EOF
		s.currentLen = 0
		return nil
	}
	s.current, s.currentLen = utf8.DecodeRuneInString(s.Text[s.pos:])
	if s.current == utf8.RuneError {
		switch s.currentLen {
		case 0:
			return fmt.Errorf("unexpected end of file")
		case 1:
			return fmt.Errorf("invalid UTF-8 sequence")
		}
	}
	return nil
}

// ReadWhile reads runes while the predicate holds.
func (s *Scanner) ReadWhile(pred func(r rune) bool) (syntax.Range, error) {
	start := s.pos
	for pred(s.Current()) && s.Current() != EOF {
		if err := s.Advance(); err != nil {
			return s.Range(start), err
		}
	}
	return s.Range(start), nil
}

// ReadWhile1 reads runes while the predicate holds. The predicate must be
// satisfied at least once; desc names the expected class of runes.
func (s *Scanner) ReadWhile1(desc string, pred func(r rune) bool) (syntax.Range, error) {
	start := s.pos
	if s.Current() == EOF {
		return s.Range(start), fmt.Errorf("unexpected end of file, want %s", desc)
	}
	if !pred(s.Current()) {
		return s.Range(start), fmt.Errorf("unexpected character `%c`, want %s", s.Current(), desc)
	}
	for pred(s.Current()) && s.Current() != EOF {
		if err := s.Advance(); err != nil {
			return s.Range(start), err
		}
	}
	return s.Range(start), nil
}

// ReadCharacter consumes the given rune.
func (s *Scanner) ReadCharacter(r rune) (syntax.Range, error) {
	if s.Current() != r {
		return s.Range(s.pos), fmt.Errorf("unexpected character `%c`, want `%c`", s.Current(), r)
	}
	start := s.pos
	err := s.Advance()
	return s.Range(start), err
}

// ReadCharacterWith consumes one rune matching the predicate.
func (s *Scanner) ReadCharacterWith(desc string, pred func(rune) bool) (syntax.Range, error) {
	if s.Current() == EOF {
		return s.Range(s.pos), fmt.Errorf("unexpected end of file, want %s", desc)
	}
	if !pred(s.Current()) {
		return s.Range(s.pos), fmt.Errorf("unexpected character `%c`, want %s", s.Current(), desc)
	}
	start := s.pos
	err := s.Advance()
	return s.Range(start), err
}

// ReadString consumes the given string.
func (s *Scanner) ReadString(str string) (syntax.Range, error) {
	start := s.pos
	for _, ch := range str {
		if ch != s.Current() {
			return s.Range(start), fmt.Errorf("unexpected input `%s`, want `%s`", s.Text[start:s.pos], str)
		}
		if err := s.Advance(); err != nil {
			return s.Range(start), err
		}
	}
	return s.Range(start), nil
}

// ReadAlternative consumes the first of the given strings which matches
// the upcoming input.
func (s *Scanner) ReadAlternative(alts []string) (syntax.Range, error) {
	for _, alt := range alts {
		if strings.HasPrefix(s.Text[s.pos:], alt) {
			return s.ReadString(alt)
		}
	}
	return s.Range(s.pos), fmt.Errorf("unexpected input, want one of {%s}", strings.Join(alts, ", "))
}

// Range creates a Range starting at the given offset and ending at the
// current position.
func (s *Scanner) Range(start int) syntax.Range {
	return syntax.Range{
		Start: start,
		End:   s.Offset(),
		Path:  s.Path,
		Text:  s.Text,
	}
}
