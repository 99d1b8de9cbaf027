package devm

import (
	"errors"
	"strings"
	"testing"
)

func TestLex(t *testing.T) {
	toks, err := lex(`sqrt(0x1f) ** 2 << 'a\'b' , x`)
	if err != nil {
		t.Fatalf("lex failed: %v", err)
	}

	want := []struct {
		kind tokenKind
		text string
		pos  int
	}{
		{tokenIdent, "sqrt", 0},
		{tokenOpen, "(", 4},
		{tokenNum, "0x1f", 5},
		{tokenClose, ")", 9},
		{tokenOp, "**", 11},
		{tokenNum, "2", 14},
		{tokenOp, "<<", 16},
		{tokenString, "a'b", 19},
		{tokenSep, ",", 26},
		{tokenIdent, "x", 28},
		{tokenEOF, "", 29},
	}
	if len(toks) != len(want) {
		t.Fatalf("Expected %d tokens, got %d: %v", len(want), len(toks), toks)
	}
	for i, w := range want {
		if toks[i].kind != w.kind || toks[i].text != w.text || toks[i].pos != w.pos {
			t.Errorf("token %d: expected %v %q at %d, got %v %q at %d",
				i, w.kind, w.text, w.pos, toks[i].kind, toks[i].text, toks[i].pos)
		}
	}
}

func TestLexErrors(t *testing.T) {
	tests := []struct {
		input string
		pos   int
		is    error
	}{
		{"1 $ 2", 2, ErrSyntax},
		{`"open`, 0, ErrSyntax},
		{`"bad \q"`, 5, ErrSyntax},
		{"12abc", 0, ErrInvalidLiteral},
		{"1.2.3", 0, ErrInvalidLiteral},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := lex(tt.input)
			if !errors.Is(err, tt.is) {
				t.Fatalf("Expected %v, got %v", tt.is, err)
			}
			var se *SyntaxError
			var le *LiteralError
			switch {
			case errors.As(err, &se):
				if se.Pos != tt.pos {
					t.Errorf("Expected position %d, got %d", tt.pos, se.Pos)
				}
			case errors.As(err, &le):
				if le.Pos != tt.pos {
					t.Errorf("Expected position %d, got %d", tt.pos, le.Pos)
				}
			}
		})
	}
}

func TestParsePrecedence(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1 + 2 * 3", "(1 + (2 * 3))"},
		{"(1 + 2) * 3", "((1 + 2) * 3)"},
		{"10 - 2 - 3", "((10 - 2) - 3)"},
		{"2 ** 3 ** 2", "(2 ** (3 ** 2))"},
		{"-2 ** 2", "((-2) ** 2)"},
		{"1 + 2 << 3", "((1 + 2) << 3)"},
		{"1 << 2 + 3", "(1 << (2 + 3))"},
		{"8 / 2 % 3", "((8 / 2) % 3)"},
		{"+5", "5"},
		{"1 ether to gwei", "(1 ether to gwei)"},
		{"1 + 2 gwei", "(1 + (2 gwei))"},
		{"1 + 2 to gwei", "((1 + 2) to gwei)"},
		{"1 ether to gwei to wei", "((1 ether to gwei) to wei)"},
		{"(2 days + 3 hours) to minutes", "(((2 days) + (3 hours)) to minutes)"},
		{"unchecked(0 - 1)", "unchecked((0 - 1))"},
		{`selector("transfer(address,uint256)")`, `selector("transfer(address,uint256)")`},
		{"root(125, 3)", "root(125, 3)"},
		{"f()", "f()"},
		{"max_uint", "max_uint"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expr, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			if got := expr.String(); got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
			if expr.Source() != tt.input {
				t.Errorf("Expected source %q, got %q", tt.input, expr.Source())
			}
		})
	}
}

func TestParseSyntaxErrors(t *testing.T) {
	tests := []struct {
		input string
		pos   int
	}{
		{"", 0},
		{"1 +", 3},
		{"(1", 2},
		{"1 )", 2},
		{"1 2", 2},
		{"sqrt(1,", 7},
		{"sqrt(1 2)", 7},
		{"1 to", 4},
		{"1 to parsecs", 5},
		{"unchecked(1, 2)", 0},
		{"* 2", 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expr, err := Parse(tt.input)
			if expr != nil {
				t.Error("Expected no expression on error")
			}
			var se *SyntaxError
			if !errors.As(err, &se) {
				t.Fatalf("Expected SyntaxError, got %v", err)
			}
			if se.Pos != tt.pos {
				t.Errorf("Expected position %d, got %d (%v)", tt.pos, se.Pos, err)
			}
		})
	}
}

func TestParseNumbers(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"0", "0"},
		{"1_000_000", "1000000"},
		{"0x1F", "31"},
		{"0b1010", "10"},
		{"0o17", "15"},
		{"1.2e18", "1200000000000000000"},
		{"1e3", "1000"},
		{"2.5", "3"},
		{"2.4", "2"},
		{".5", "1"},
		{"1e-1", "0"},
		{"15e-1", "2"},
		{"115792089237316195423570985008687907853269984665640564039457584007913129639935", "115792089237316195423570985008687907853269984665640564039457584007913129639935"},
		{"0xffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff", "115792089237316195423570985008687907853269984665640564039457584007913129639935"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			n, err := parseNumber(token{kind: tokenNum, text: tt.input})
			if err != nil {
				t.Fatalf("parseNumber failed: %v", err)
			}
			u, ok := n.(*literal).val.(*Uint)
			if !ok {
				t.Fatalf("Expected Uint literal, got %T", n.(*literal).val)
			}
			if got := u.Int().Dec(); got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestParseNumberErrors(t *testing.T) {
	tests := []string{
		"115792089237316195423570985008687907853269984665640564039457584007913129639936",
		"0x1ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff",
		"1e78",
		"1e1000000",
		"0x",
		"0xzz",
		"0b102",
		"1e",
	}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			_, err := parseNumber(token{kind: tokenNum, text: input})
			if !errors.Is(err, ErrInvalidLiteral) {
				t.Errorf("Expected ErrInvalidLiteral, got %v", err)
			}
		})
	}
}

func TestParseRecursionLimit(t *testing.T) {
	t.Run("parentheses", func(t *testing.T) {
		input := strings.Repeat("(", 100) + "1" + strings.Repeat(")", 100)
		_, err := Parse(input)
		if !errors.Is(err, ErrRecursionLimit) {
			t.Errorf("Expected ErrRecursionLimit, got %v", err)
		}
	})

	t.Run("unary chain", func(t *testing.T) {
		_, err := Parse(strings.Repeat("-", 100) + "1")
		if !errors.Is(err, ErrRecursionLimit) {
			t.Errorf("Expected ErrRecursionLimit, got %v", err)
		}
	})

	t.Run("within limit", func(t *testing.T) {
		input := strings.Repeat("(", 10) + "1" + strings.Repeat(")", 10)
		if _, err := Parse(input); err != nil {
			t.Errorf("Expected success, got %v", err)
		}
	})

	t.Run("operator chain", func(t *testing.T) {
		for _, op := range []string{" + ", " - ", " * ", " / ", " % ", " << ", " >> "} {
			input := "1" + strings.Repeat(op+"1", 500)
			if _, err := Parse(input); !errors.Is(err, ErrRecursionLimit) {
				t.Errorf("%q chain: expected ErrRecursionLimit, got %v", op, err)
			}
		}
	})

	t.Run("conversion chain", func(t *testing.T) {
		input := "1 ether" + strings.Repeat(" to gwei to wei", 50)
		if _, err := Parse(input); !errors.Is(err, ErrRecursionLimit) {
			t.Errorf("Expected ErrRecursionLimit, got %v", err)
		}
	})

	t.Run("short operator chain", func(t *testing.T) {
		input := "1" + strings.Repeat(" + 1", 50)
		if _, err := Parse(input); err != nil {
			t.Errorf("Expected success, got %v", err)
		}
	})
}
