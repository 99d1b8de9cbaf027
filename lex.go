package devm

import (
	"strconv"
	"strings"
	"unicode"
)

type token struct {
	text string
	kind tokenKind
	pos  int
}

func (t token) String() string {
	return t.kind.String() + ":" + t.text + "@" + strconv.Itoa(t.pos)
}

type tokenKind uint8

const (
	tokenNone tokenKind = iota
	// tokenEOF indicates the end of the input.
	tokenEOF
	// tokenNum is a decimal, hex, binary, octal, fractional or scientific literal.
	tokenNum
	// tokenIdent is a constant, unit, keyword or function name.
	tokenIdent
	// tokenString is a quoted string; text holds the unescaped contents.
	tokenString
	// tokenOp is an operator.
	tokenOp
	// tokenOpen is (.
	tokenOpen
	// tokenClose is ).
	tokenClose
	// tokenSep is the argument separator ,.
	tokenSep
)

var tokenKindNames = [...]string{
	tokenNone:   "None",
	tokenEOF:    "EOF",
	tokenNum:    "Num",
	tokenIdent:  "Ident",
	tokenString: "String",
	tokenOp:     "Op",
	tokenOpen:   "Open",
	tokenClose:  "Close",
	tokenSep:    "Sep",
}

func (k tokenKind) String() string {
	if int(k) < len(tokenKindNames) {
		return tokenKindNames[k]
	}
	return "tokenKind(" + strconv.Itoa(int(k)) + ")"
}

// Operators recognized by the lexer, longest first so that ** wins over *.
var operators = []string{"**", "<<", ">>", "+", "-", "*", "/", "%"}

type lexer struct {
	src []rune
	pos int
	buf strings.Builder
}

// lex splits a whole line into tokens. The final token is always tokenEOF.
func lex(line string) ([]token, error) {
	l := &lexer{src: []rune(line)}
	toks := make([]token, 0, 16)
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.kind == tokenEOF {
			return toks, nil
		}
	}
}

func (l *lexer) peek(off int) rune {
	if l.pos+off >= len(l.src) {
		return 0
	}
	return l.src[l.pos+off]
}

func (l *lexer) next() (token, error) {
	for l.pos < len(l.src) && unicode.IsSpace(l.src[l.pos]) {
		l.pos++
	}
	tok := token{pos: l.pos}
	if l.pos >= len(l.src) {
		tok.kind = tokenEOF
		return tok, nil
	}
	r := l.src[l.pos]
	switch {
	case isDigit(r), r == '.' && isDigit(l.peek(1)):
		tok.kind = tokenNum
		text, err := l.scanNum()
		tok.text = text
		return tok, err
	case r == '_', unicode.IsLetter(r):
		tok.kind = tokenIdent
		tok.text = l.scanIdent()
		return tok, nil
	case r == '"', r == '\'':
		tok.kind = tokenString
		text, err := l.scanString(r)
		tok.text = text
		return tok, err
	case r == '(':
		l.pos++
		tok.kind, tok.text = tokenOpen, "("
		return tok, nil
	case r == ')':
		l.pos++
		tok.kind, tok.text = tokenClose, ")"
		return tok, nil
	case r == ',':
		l.pos++
		tok.kind, tok.text = tokenSep, ","
		return tok, nil
	}
	for _, op := range operators {
		if l.hasPrefix(op) {
			l.pos += len(op)
			tok.kind, tok.text = tokenOp, op
			return tok, nil
		}
	}
	return tok, &SyntaxError{Pos: l.pos, Msg: "unexpected character " + strconv.QuoteRune(r)}
}

func (l *lexer) hasPrefix(s string) bool {
	i := 0
	for _, r := range s {
		if l.peek(i) != r {
			return false
		}
		i++
	}
	return true
}

// scanNum consumes a numeric literal. Validation of digits against the base
// happens when the literal is converted, so that the error can name the literal.
func (l *lexer) scanNum() (string, error) {
	start := l.pos
	if l.src[l.pos] == '0' && strings.ContainsRune("xXbBoO", l.peek(1)) {
		l.pos += 2
		for l.pos < len(l.src) && (isAlnum(l.src[l.pos]) || l.src[l.pos] == '_') {
			l.pos++
		}
		return string(l.src[start:l.pos]), nil
	}
	var dot, exp bool
	for l.pos < len(l.src) {
		r := l.src[l.pos]
		switch {
		case isDigit(r), r == '_':
		case r == '.' && !dot && !exp:
			dot = true
		case (r == 'e' || r == 'E') && !exp:
			exp = true
			if s := l.peek(1); s == '+' || s == '-' {
				l.pos++
			}
		case isAlnum(r) || r == '.':
			// Something like 12abc or 1.2.3; swallow it so the error shows it whole.
			for l.pos < len(l.src) && (isAlnum(l.src[l.pos]) || l.src[l.pos] == '.') {
				l.pos++
			}
			text := string(l.src[start:l.pos])
			return text, &LiteralError{Pos: start, Text: text, Reason: "malformed number"}
		default:
			return string(l.src[start:l.pos]), nil
		}
		l.pos++
	}
	return string(l.src[start:l.pos]), nil
}

func (l *lexer) scanIdent() string {
	start := l.pos
	for l.pos < len(l.src) && (isAlnum(l.src[l.pos]) || l.src[l.pos] == '_') {
		l.pos++
	}
	return string(l.src[start:l.pos])
}

func (l *lexer) scanString(quote rune) (string, error) {
	start := l.pos
	l.pos++
	defer l.buf.Reset()
	for l.pos < len(l.src) {
		r := l.src[l.pos]
		l.pos++
		switch r {
		case quote:
			return l.buf.String(), nil
		case '\\':
			if l.pos >= len(l.src) {
				return "", &SyntaxError{Pos: l.pos, Msg: "unterminated escape"}
			}
			esc := l.src[l.pos]
			l.pos++
			switch esc {
			case 'n':
				l.buf.WriteByte('\n')
			case 't':
				l.buf.WriteByte('\t')
			case '\\', '"', '\'':
				l.buf.WriteRune(esc)
			default:
				return "", &SyntaxError{Pos: l.pos - 2, Msg: "unknown escape \\" + string(esc)}
			}
		default:
			l.buf.WriteRune(r)
		}
	}
	return "", &SyntaxError{Pos: start, Msg: "unterminated string"}
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

func isAlnum(r rune) bool {
	return isDigit(r) || unicode.IsLetter(r)
}
