package lexer

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/example/formjs/token"
)

// Error is a lexical error annotated with its position in the source.
type Error struct {
	Offset int
	Line   int
	Column int
	Msg    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("lex error at %d:%d: %s", e.Line, e.Column, e.Msg)
}

// LineCol converts a byte offset into a 1-based line and column.
func LineCol(source string, offset int) (int, int) {
	line, col := 1, 1
	for i, r := range source {
		if i >= offset {
			break
		}
		if r == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}

type Lexer struct {
	input   string
	pos     int // current position in input (points to current char)
	readPos int // current reading position (after current char)
	ch      rune

	prev    token.Token // most recently emitted token, for slash disambiguation
	hasPrev bool
}

func New(input string) *Lexer {
	l := &Lexer{input: input}
	l.readChar()
	return l
}

// Tokenize scans the whole input, returning the token slice terminated by an
// EOF token. Comments and whitespace are discarded. An unrecognized character
// aborts the scan with a position-annotated error.
func Tokenize(input string) ([]token.Token, error) {
	l := New(input)
	var tokens []token.Token
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF {
			return tokens, nil
		}
		l.prev = tok
		l.hasPrev = true
	}
}

func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0
		l.pos = l.readPos
		l.readPos++
		return
	}
	r, size := utf8.DecodeRuneInString(l.input[l.readPos:])
	l.ch = r
	l.pos = l.readPos
	l.readPos += size
}

func (l *Lexer) peekChar() rune {
	if l.readPos >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPos:])
	return r
}

func (l *Lexer) errorf(offset int, format string, args ...interface{}) error {
	line, col := LineCol(l.input, offset)
	return &Error{Offset: offset, Line: line, Column: col, Msg: fmt.Sprintf(format, args...)}
}

func (l *Lexer) skipWhitespaceAndComments() error {
	for {
		for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\n' || l.ch == '\v' || l.ch == '\f' {
			l.readChar()
		}
		if l.ch == '/' && l.peekChar() == '/' {
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
			continue
		}
		if l.ch == '/' && l.peekChar() == '*' {
			start := l.pos
			l.readChar()
			l.readChar()
			for {
				if l.ch == 0 {
					return l.errorf(start, "unterminated block comment")
				}
				if l.ch == '*' && l.peekChar() == '/' {
					l.readChar()
					l.readChar()
					break
				}
				l.readChar()
			}
			continue
		}
		return nil
	}
}

// patternAllowed implements the slash-disambiguation lookback rule: a pattern
// literal may begin only where an expression may begin.
func (l *Lexer) patternAllowed() bool {
	if !l.hasPrev {
		return true
	}
	switch l.prev.Kind {
	case token.LeftParen, token.LeftBrace, token.LeftBracket,
		token.Comma, token.Semicolon, token.Colon, token.QuestionMark:
		return true
	case token.Return, token.Case, token.Throw, token.Else,
		token.New, token.Typeof, token.Instanceof, token.Delete, token.Void:
		return true
	}
	return l.prev.Kind.IsOperator()
}

func (l *Lexer) next() (token.Token, error) {
	if err := l.skipWhitespaceAndComments(); err != nil {
		return token.Token{}, err
	}

	start := l.pos
	tok := func(k token.Kind, lit string) token.Token {
		return token.Token{Kind: k, Literal: lit, Start: start, End: l.pos}
	}

	switch {
	case l.ch == 0:
		return tok(token.EOF, ""), nil

	case l.ch == '(':
		l.readChar()
		return tok(token.LeftParen, "("), nil
	case l.ch == ')':
		l.readChar()
		return tok(token.RightParen, ")"), nil
	case l.ch == '{':
		l.readChar()
		return tok(token.LeftBrace, "{"), nil
	case l.ch == '}':
		l.readChar()
		return tok(token.RightBrace, "}"), nil
	case l.ch == '[':
		l.readChar()
		return tok(token.LeftBracket, "["), nil
	case l.ch == ']':
		l.readChar()
		return tok(token.RightBracket, "]"), nil
	case l.ch == ';':
		l.readChar()
		return tok(token.Semicolon, ";"), nil
	case l.ch == ':':
		l.readChar()
		return tok(token.Colon, ":"), nil
	case l.ch == ',':
		l.readChar()
		return tok(token.Comma, ","), nil
	case l.ch == '?':
		l.readChar()
		return tok(token.QuestionMark, "?"), nil
	case l.ch == '~':
		l.readChar()
		return tok(token.BitwiseNot, "~"), nil

	case l.ch == '.':
		if isDigit(l.peekChar()) {
			return l.readNumber(start)
		}
		l.readChar()
		return tok(token.Dot, "."), nil

	case l.ch == '+':
		l.readChar()
		if l.ch == '+' {
			l.readChar()
			return tok(token.Increment, "++"), nil
		}
		if l.ch == '=' {
			l.readChar()
			return tok(token.PlusAssign, "+="), nil
		}
		return tok(token.Plus, "+"), nil

	case l.ch == '-':
		l.readChar()
		if l.ch == '-' {
			l.readChar()
			return tok(token.Decrement, "--"), nil
		}
		if l.ch == '=' {
			l.readChar()
			return tok(token.MinusAssign, "-="), nil
		}
		return tok(token.Minus, "-"), nil

	case l.ch == '*':
		l.readChar()
		if l.ch == '=' {
			l.readChar()
			return tok(token.StarAssign, "*="), nil
		}
		return tok(token.Star, "*"), nil

	case l.ch == '/':
		if l.patternAllowed() {
			return l.readPattern(start)
		}
		l.readChar()
		if l.ch == '=' {
			l.readChar()
			return tok(token.SlashAssign, "/="), nil
		}
		return tok(token.Slash, "/"), nil

	case l.ch == '%':
		l.readChar()
		if l.ch == '=' {
			l.readChar()
			return tok(token.PercentAssign, "%="), nil
		}
		return tok(token.Percent, "%"), nil

	case l.ch == '=':
		l.readChar()
		if l.ch == '>' {
			l.readChar()
			return tok(token.Arrow, "=>"), nil
		}
		if l.ch == '=' {
			l.readChar()
			if l.ch == '=' {
				l.readChar()
				return tok(token.StrictEqual, "==="), nil
			}
			return tok(token.Equal, "=="), nil
		}
		return tok(token.Assign, "="), nil

	case l.ch == '!':
		l.readChar()
		if l.ch == '=' {
			l.readChar()
			if l.ch == '=' {
				l.readChar()
				return tok(token.StrictNotEqual, "!=="), nil
			}
			return tok(token.NotEqual, "!="), nil
		}
		return tok(token.Not, "!"), nil

	case l.ch == '<':
		l.readChar()
		if l.ch == '<' {
			l.readChar()
			if l.ch == '=' {
				l.readChar()
				return tok(token.LeftShiftAssign, "<<="), nil
			}
			return tok(token.LeftShift, "<<"), nil
		}
		if l.ch == '=' {
			l.readChar()
			return tok(token.LessThanOrEqual, "<="), nil
		}
		return tok(token.LessThan, "<"), nil

	case l.ch == '>':
		l.readChar()
		if l.ch == '>' {
			l.readChar()
			if l.ch == '>' {
				l.readChar()
				if l.ch == '=' {
					l.readChar()
					return tok(token.UnsignedRightShiftAssign, ">>>="), nil
				}
				return tok(token.UnsignedRightShift, ">>>"), nil
			}
			if l.ch == '=' {
				l.readChar()
				return tok(token.RightShiftAssign, ">>="), nil
			}
			return tok(token.RightShift, ">>"), nil
		}
		if l.ch == '=' {
			l.readChar()
			return tok(token.GreaterThanOrEqual, ">="), nil
		}
		return tok(token.GreaterThan, ">"), nil

	case l.ch == '&':
		l.readChar()
		if l.ch == '&' {
			l.readChar()
			return tok(token.And, "&&"), nil
		}
		if l.ch == '=' {
			l.readChar()
			return tok(token.AmpersandAssign, "&="), nil
		}
		return tok(token.BitwiseAnd, "&"), nil

	case l.ch == '|':
		l.readChar()
		if l.ch == '|' {
			l.readChar()
			return tok(token.Or, "||"), nil
		}
		if l.ch == '=' {
			l.readChar()
			return tok(token.PipeAssign, "|="), nil
		}
		return tok(token.BitwiseOr, "|"), nil

	case l.ch == '^':
		l.readChar()
		if l.ch == '=' {
			l.readChar()
			return tok(token.CaretAssign, "^="), nil
		}
		return tok(token.BitwiseXor, "^"), nil

	case l.ch == '"' || l.ch == '\'':
		return l.readString(start)

	case isDigit(l.ch):
		return l.readNumber(start)

	case isIdentStart(l.ch):
		return l.readIdentifier(start), nil

	default:
		return token.Token{}, l.errorf(start, "unrecognized character %q", l.ch)
	}
}

func (l *Lexer) readIdentifier(start int) token.Token {
	for isIdentPart(l.ch) {
		l.readChar()
	}
	literal := l.input[start:l.pos]
	return token.Token{Kind: token.LookupIdentifier(literal), Literal: literal, Start: start, End: l.pos}
}

func (l *Lexer) readString(start int) (token.Token, error) {
	quote := l.ch
	l.readChar()
	var buf strings.Builder

	for l.ch != quote {
		if l.ch == 0 || l.ch == '\n' {
			return token.Token{}, l.errorf(start, "unterminated string literal")
		}
		if l.ch == '\\' {
			l.readChar()
			switch l.ch {
			case 'n':
				buf.WriteByte('\n')
			case 'r':
				buf.WriteByte('\r')
			case 't':
				buf.WriteByte('\t')
			case 'b':
				buf.WriteByte('\b')
			case 'f':
				buf.WriteByte('\f')
			case 'v':
				buf.WriteByte('\v')
			case '\\':
				buf.WriteByte('\\')
			case '\'':
				buf.WriteByte('\'')
			case '"':
				buf.WriteByte('"')
			case 'x':
				l.readChar()
				d1 := hexVal(l.ch)
				l.readChar()
				d2 := hexVal(l.ch)
				if d1 < 0 || d2 < 0 {
					return token.Token{}, l.errorf(l.pos, "invalid hex escape")
				}
				buf.WriteRune(rune(d1*16 + d2))
			case 'u':
				val := 0
				for i := 0; i < 4; i++ {
					l.readChar()
					d := hexVal(l.ch)
					if d < 0 {
						return token.Token{}, l.errorf(l.pos, "invalid unicode escape")
					}
					val = val*16 + d
				}
				buf.WriteRune(rune(val))
			case '\n':
				// line continuation
			default:
				buf.WriteRune(l.ch)
			}
			l.readChar()
			continue
		}
		buf.WriteRune(l.ch)
		l.readChar()
	}
	l.readChar() // closing quote
	return token.Token{Kind: token.String, Literal: buf.String(), Start: start, End: l.pos}, nil
}

func (l *Lexer) readNumber(start int) (token.Token, error) {
	if l.ch == '0' && (l.peekChar() == 'x' || l.peekChar() == 'X') {
		l.readChar()
		l.readChar()
		if !isHexDigit(l.ch) {
			return token.Token{}, l.errorf(start, "invalid hex literal")
		}
		for isHexDigit(l.ch) {
			l.readChar()
		}
		return token.Token{Kind: token.Number, Literal: l.input[start:l.pos], Start: start, End: l.pos}, nil
	}

	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	if l.ch == 'e' || l.ch == 'E' {
		l.readChar()
		if l.ch == '+' || l.ch == '-' {
			l.readChar()
		}
		if !isDigit(l.ch) {
			return token.Token{}, l.errorf(start, "invalid number literal: missing exponent digits")
		}
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	return token.Token{Kind: token.Number, Literal: l.input[start:l.pos], Start: start, End: l.pos}, nil
}

// readPattern greedily matches up to an unescaped closing '/' plus trailing
// flag letters. The token literal is the raw source text, flags included.
func (l *Lexer) readPattern(start int) (token.Token, error) {
	l.readChar() // opening /

	inClass := false
	for {
		if l.ch == 0 || l.ch == '\n' {
			return token.Token{}, l.errorf(start, "unterminated pattern literal")
		}
		if l.ch == '\\' {
			l.readChar()
			if l.ch == 0 || l.ch == '\n' {
				return token.Token{}, l.errorf(start, "unterminated pattern literal")
			}
			l.readChar()
			continue
		}
		if l.ch == '[' {
			inClass = true
		} else if l.ch == ']' {
			inClass = false
		}
		if l.ch == '/' && !inClass {
			l.readChar()
			break
		}
		l.readChar()
	}
	for isIdentPart(l.ch) {
		l.readChar()
	}
	return token.Token{Kind: token.Pattern, Literal: l.input[start:l.pos], Start: start, End: l.pos}, nil
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch rune) bool {
	return (ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func isIdentStart(ch rune) bool {
	return ch == '_' || ch == '$' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch > 127 && unicode.IsLetter(ch))
}

func isIdentPart(ch rune) bool {
	return isIdentStart(ch) || isDigit(ch)
}

func hexVal(ch rune) int {
	switch {
	case ch >= '0' && ch <= '9':
		return int(ch - '0')
	case ch >= 'a' && ch <= 'f':
		return int(ch-'a') + 10
	case ch >= 'A' && ch <= 'F':
		return int(ch-'A') + 10
	default:
		return -1
	}
}
