package scanner

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/bingcicle/rox/pkg/diagnostics"
	"github.com/bingcicle/rox/pkg/token"
)

// Error is a lexical error reported at a source line.
type Error struct {
	Line    int
	Message string
}

func (e *Error) Error() string {
	return diagnostics.Format(e.Line, "", e.Message)
}

// Scanner converts source text into tokens in a single forward pass.
type Scanner struct {
	source []byte
	tokens []token.Token
	errs   diagnostics.List

	start   int
	current int
	line    int
}

// New constructs a scanner over source.
func New(source string) *Scanner {
	return &Scanner{source: []byte(source), line: 1}
}

// Scan is shorthand for New(source).ScanTokens().
func Scan(source string) ([]token.Token, error) {
	return New(source).ScanTokens()
}

// ScanTokens consumes the whole input and returns the token stream, always
// terminated by an EOF token. Lexical errors do not stop scanning; they are
// returned together as a diagnostics.List.
func (s *Scanner) ScanTokens() ([]token.Token, error) {
	for !s.isAtEnd() {
		s.start = s.current
		s.scanToken()
	}
	s.tokens = append(s.tokens, token.New(token.EOF, "", nil, s.line))
	return s.tokens, s.errs.Err()
}

func (s *Scanner) scanToken() {
	c := s.advance()
	switch c {
	case '(':
		s.addToken(token.LeftParen)
	case ')':
		s.addToken(token.RightParen)
	case '{':
		s.addToken(token.LeftBrace)
	case '}':
		s.addToken(token.RightBrace)
	case ',':
		s.addToken(token.Comma)
	case '.':
		s.addToken(token.Dot)
	case '-':
		s.addToken(token.Minus)
	case '+':
		s.addToken(token.Plus)
	case ';':
		s.addToken(token.Semicolon)
	case '*':
		s.addToken(token.Star)
	case '!':
		s.addToken(s.either('=', token.BangEqual, token.Bang))
	case '=':
		s.addToken(s.either('=', token.EqualEqual, token.Equal))
	case '<':
		s.addToken(s.either('=', token.LessEqual, token.Less))
	case '>':
		s.addToken(s.either('=', token.GreaterEqual, token.Greater))
	case '/':
		if s.match('/') {
			for s.peek() != '\n' && !s.isAtEnd() {
				s.advance()
			}
			return
		}
		s.addToken(token.Slash)
	case ' ', '\r', '\t':
	case '\n':
		s.line++
	case '"':
		s.stringLiteral()
	default:
		switch {
		case isDigit(c):
			s.number()
		case isAlpha(c):
			s.identifier()
		default:
			r, size := utf8.DecodeRune(s.source[s.start:])
			s.current = s.start + size
			s.report(fmt.Sprintf("Unexpected character '%c'.", r))
		}
	}
}

func (s *Scanner) stringLiteral() {
	for s.peek() != '"' && !s.isAtEnd() {
		if s.peek() == '\n' {
			s.line++
		}
		s.advance()
	}
	if s.isAtEnd() {
		s.report("Unterminated string.")
		return
	}
	// closing quote
	s.advance()

	value := string(s.source[s.start+1 : s.current-1])
	s.addLiteral(token.String, value)
}

func (s *Scanner) number() {
	for isDigit(s.peek()) {
		s.advance()
	}
	if s.peek() == '.' && isDigit(s.peekNext()) {
		s.advance()
		for isDigit(s.peek()) {
			s.advance()
		}
	}
	text := string(s.source[s.start:s.current])
	value, err := strconv.ParseFloat(text, 64)
	if err != nil {
		s.report(fmt.Sprintf("Invalid number literal '%s'.", text))
		return
	}
	s.addLiteral(token.Number, value)
}

func (s *Scanner) identifier() {
	for isAlphaNumeric(s.peek()) {
		s.advance()
	}
	text := string(s.source[s.start:s.current])
	s.addToken(token.LookupIdentifier(text))
}

func (s *Scanner) either(next byte, matched, single token.Kind) token.Kind {
	if s.match(next) {
		return matched
	}
	return single
}

func (s *Scanner) match(expected byte) bool {
	if s.isAtEnd() || s.source[s.current] != expected {
		return false
	}
	s.current++
	return true
}

func (s *Scanner) advance() byte {
	c := s.source[s.current]
	s.current++
	return c
}

func (s *Scanner) peek() byte {
	if s.isAtEnd() {
		return 0
	}
	return s.source[s.current]
}

func (s *Scanner) peekNext() byte {
	if s.current+1 >= len(s.source) {
		return 0
	}
	return s.source[s.current+1]
}

func (s *Scanner) isAtEnd() bool {
	return s.current >= len(s.source)
}

func (s *Scanner) addToken(kind token.Kind) {
	s.addLiteral(kind, nil)
}

func (s *Scanner) addLiteral(kind token.Kind, literal any) {
	lexeme := string(s.source[s.start:s.current])
	s.tokens = append(s.tokens, token.New(kind, lexeme, literal, s.line))
}

func (s *Scanner) report(message string) {
	s.errs.Add(&Error{Line: s.line, Message: message})
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

func isAlphaNumeric(c byte) bool {
	return isAlpha(c) || isDigit(c)
}
