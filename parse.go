package devm

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

// Line       = Conversion EOF
// Conversion = Shift { "to" unit }
// Shift      = Additive { ("<<" | ">>") Additive }
// Additive   = Term { ("+" | "-") Term }
// Term       = Power { ("*" | "/" | "%") Power }
// Power      = Unary [ "**" Power ]
// Unary      = ("-" | "+") Unary | Postfix
// Postfix    = Primary [ unit ]
// Primary    = num | string | name | name "(" [ Conversion { "," Conversion } ] ")"
//            | "unchecked" "(" Conversion ")" | "(" Conversion ")"

// DefaultMaxDepth bounds expression nesting for parsing and evaluation.
const DefaultMaxDepth = 64

// Parse parses one input line into an expression tree. Either a complete
// tree is returned or an error, never both.
func Parse(line string) (*Expr, error) {
	return parse(line, DefaultMaxDepth)
}

func parse(line string, maxDepth int) (*Expr, error) {
	toks, err := lex(line)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks, maxDepth: maxDepth}
	root, err := p.conversion()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.kind != tokenEOF {
		return nil, p.unexpected(tok)
	}
	return &Expr{root: root, src: line}, nil
}

type parser struct {
	toks     []token
	i        int
	depth    int
	maxDepth int
}

func (p *parser) peek() token {
	return p.toks[p.i]
}

func (p *parser) advance() token {
	tok := p.toks[p.i]
	if tok.kind != tokenEOF {
		p.i++
	}
	return tok
}

func (p *parser) isOp(ops ...string) bool {
	tok := p.peek()
	if tok.kind != tokenOp {
		return false
	}
	for _, op := range ops {
		if tok.text == op {
			return true
		}
	}
	return false
}

func (p *parser) expect(kind tokenKind, what string) (token, error) {
	tok := p.peek()
	if tok.kind != kind {
		if tok.kind == tokenEOF {
			return tok, &SyntaxError{Pos: tok.pos, Msg: "expected " + what + " but reached end of input"}
		}
		return tok, &SyntaxError{Pos: tok.pos, Msg: fmt.Sprintf("expected %s, found %q", what, tok.text)}
	}
	return p.advance(), nil
}

func (p *parser) unexpected(tok token) error {
	if tok.kind == tokenEOF {
		return &SyntaxError{Pos: tok.pos, Msg: "unexpected end of input"}
	}
	return &SyntaxError{Pos: tok.pos, Msg: fmt.Sprintf("unexpected %q", tok.text)}
}

// enter bumps the nesting depth, failing fast on pathological input.
func (p *parser) enter() error {
	p.depth++
	if p.depth > p.maxDepth {
		return fmt.Errorf("%w: nesting deeper than %d at position %d", ErrRecursionLimit, p.maxDepth, p.peek().pos)
	}
	return nil
}

func (p *parser) leave() {
	p.depth--
}

// conversion parses a chain of "to" conversions. Each link after the first
// converts from the unit the previous link produced.
func (p *parser) conversion() (node, error) {
	depth := p.depth
	defer func() { p.depth = depth }()

	x, err := p.shift()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		if tok.kind != tokenIdent || tok.text != "to" {
			return x, nil
		}
		p.advance()
		target, err := p.expect(tokenIdent, "unit")
		if err != nil {
			return nil, err
		}
		if _, ok := lookupUnit(target.text); !ok {
			return nil, &SyntaxError{Pos: target.pos, Msg: fmt.Sprintf("unknown unit %q", target.text)}
		}
		// "1 ether to gwei" folds into a single conversion.
		if c, ok := x.(*conversion); ok && c.to == "" {
			c.to = target.text
			continue
		}
		if err := p.enter(); err != nil {
			return nil, err
		}
		x = &conversion{at: tok.pos, x: x, from: unitOf(x), to: target.text}
	}
}

func (p *parser) shift() (node, error) {
	return p.binaryLevel(p.additive, "<<", ">>")
}

func (p *parser) additive() (node, error) {
	return p.binaryLevel(p.term, "+", "-")
}

func (p *parser) term() (node, error) {
	return p.binaryLevel(p.power, "*", "/", "%")
}

// binaryLevel parses a left-associative chain of operators sharing one
// precedence. Every operator folded in deepens the tree by one level.
func (p *parser) binaryLevel(next func() (node, error), ops ...string) (node, error) {
	depth := p.depth
	defer func() { p.depth = depth }()

	x, err := next()
	if err != nil {
		return nil, err
	}
	for p.isOp(ops...) {
		op := p.advance()
		if err := p.enter(); err != nil {
			return nil, err
		}
		y, err := next()
		if err != nil {
			return nil, err
		}
		u, err := combineUnits(op, x, y)
		if err != nil {
			return nil, err
		}
		x = &binary{at: op.pos, op: op.text, x: x, y: y, unit: u}
	}
	return x, nil
}

// combineUnits returns the unit of x op y. Adding, subtracting or reducing
// amounts of different units is an error; scaling keeps the amount's unit.
func combineUnits(op token, x, y node) (string, error) {
	ux, uy := unitOf(x), unitOf(y)
	switch op.text {
	case "+", "-", "%":
		if ux != "" && uy != "" && ux != uy {
			return "", &OpError{Op: `"` + op.text + `"`, Pos: op.pos, Err: &ConversionError{From: uy, To: ux}}
		}
	case "*":
		if ux != "" && uy != "" {
			return "", nil
		}
	case "/":
		if uy != "" {
			return "", nil
		}
		return ux, nil
	default:
		return ux, nil
	}
	if ux != "" {
		return ux, nil
	}
	return uy, nil
}

// power is right-associative: 2 ** 3 ** 2 is 2 ** (3 ** 2).
func (p *parser) power() (node, error) {
	x, err := p.unary()
	if err != nil {
		return nil, err
	}
	if !p.isOp("**") {
		return x, nil
	}
	op := p.advance()
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()
	y, err := p.power()
	if err != nil {
		return nil, err
	}
	return &binary{at: op.pos, op: op.text, x: x, y: y, unit: unitOf(x)}, nil
}

func (p *parser) unary() (node, error) {
	if !p.isOp("-", "+") {
		return p.postfix()
	}
	op := p.advance()
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()
	x, err := p.unary()
	if err != nil {
		return nil, err
	}
	if op.text == "+" {
		return x, nil
	}
	return &unary{at: op.pos, op: op.text, x: x}, nil
}

func (p *parser) postfix() (node, error) {
	x, err := p.primary()
	if err != nil {
		return nil, err
	}
	tok := p.peek()
	if tok.kind != tokenIdent || tok.text == "to" {
		return x, nil
	}
	if _, ok := lookupUnit(tok.text); !ok {
		return x, nil
	}
	if u := unitOf(x); u != "" {
		return nil, &SyntaxError{Pos: tok.pos, Msg: fmt.Sprintf("amount already in %s, use \"to %s\"", u, tok.text)}
	}
	p.advance()
	return &conversion{at: x.pos(), x: x, from: tok.text}, nil
}

func (p *parser) primary() (node, error) {
	tok := p.peek()
	switch tok.kind {
	case tokenNum:
		p.advance()
		return parseNumber(tok)
	case tokenString:
		p.advance()
		return &literal{at: tok.pos, text: tok.text, val: Text(tok.text)}, nil
	case tokenOpen:
		p.advance()
		if err := p.enter(); err != nil {
			return nil, err
		}
		defer p.leave()
		x, err := p.conversion()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokenClose, `")"`); err != nil {
			return nil, err
		}
		return x, nil
	case tokenIdent:
		p.advance()
		if p.peek().kind != tokenOpen {
			return &ident{at: tok.pos, name: tok.text}, nil
		}
		p.advance()
		if err := p.enter(); err != nil {
			return nil, err
		}
		defer p.leave()
		args, err := p.arguments()
		if err != nil {
			return nil, err
		}
		if tok.text == "unchecked" {
			if len(args) != 1 {
				return nil, &SyntaxError{Pos: tok.pos, Msg: "unchecked takes exactly one expression"}
			}
			return &unchecked{at: tok.pos, x: args[0]}, nil
		}
		return &call{at: tok.pos, name: tok.text, args: args}, nil
	default:
		return nil, p.unexpected(tok)
	}
}

// arguments parses a comma-separated list up to and including the closing paren.
func (p *parser) arguments() ([]node, error) {
	var args []node
	if p.peek().kind == tokenClose {
		p.advance()
		return args, nil
	}
	for {
		arg, err := p.conversion()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		tok := p.advance()
		switch tok.kind {
		case tokenSep:
			continue
		case tokenClose:
			return args, nil
		default:
			return nil, &SyntaxError{Pos: tok.pos, Msg: `expected "," or ")" in argument list`}
		}
	}
}

// parseNumber converts a numeric token. Values that don't fit in 256 bits are
// rejected here rather than truncated.
func parseNumber(tok token) (node, error) {
	text := tok.text
	bad := func(reason string) error {
		return &LiteralError{Pos: tok.pos, Text: text, Reason: reason}
	}
	digits := strings.ReplaceAll(text, "_", "")
	if strings.HasPrefix(digits, ".") {
		digits = "0" + digits
	}

	base := 10
	if len(digits) > 1 && digits[0] == '0' {
		switch digits[1] {
		case 'x', 'X':
			base = 16
		case 'b', 'B':
			base = 2
		case 'o', 'O':
			base = 8
		}
	}
	if base != 10 {
		digits = digits[2:]
		if digits == "" {
			return nil, bad("missing digits")
		}
		n, ok := new(big.Int).SetString(digits, base)
		if !ok {
			return nil, bad(fmt.Sprintf("invalid base-%d digits", base))
		}
		v, overflow := uint256.FromBig(n)
		if overflow {
			return nil, bad("exceeds 256 bits")
		}
		return &literal{at: tok.pos, text: text, val: NewUint(v)}, nil
	}

	if !strings.ContainsAny(digits, ".eE") {
		n, ok := new(big.Int).SetString(digits, 10)
		if !ok {
			return nil, bad("invalid decimal digits")
		}
		v, overflow := uint256.FromBig(n)
		if overflow {
			return nil, bad("exceeds 256 bits")
		}
		return &literal{at: tok.pos, text: text, val: NewUint(v)}, nil
	}

	d, err := decimal.NewFromString(digits)
	if err != nil {
		return nil, bad("invalid decimal")
	}
	v, err := decimalToUint(d)
	if err != nil {
		return nil, bad("exceeds 256 bits")
	}
	return &literal{at: tok.pos, text: text, val: NewUint(v), exact: &d}, nil
}

// maxUintDigits is the number of decimal digits in 2^256 - 1.
const maxUintDigits = 78

// decimalToUint rounds d half away from zero to an integer in [0, 2^256-1].
// Magnitudes are checked before materializing the integer so that literals
// like 1e1000000 fail fast.
func decimalToUint(d decimal.Decimal) (*uint256.Int, error) {
	if d.IsZero() {
		return new(uint256.Int), nil
	}
	intDigits := int64(d.NumDigits()) + int64(d.Exponent())
	if intDigits > maxUintDigits {
		return nil, ErrOverflow
	}
	if intDigits < 0 {
		// |d| < 0.1 rounds to zero.
		return new(uint256.Int), nil
	}
	rounded := d.Round(0)
	if rounded.Sign() < 0 {
		return nil, ErrUnderflow
	}
	v, overflow := uint256.FromBig(rounded.BigInt())
	if overflow {
		return nil, ErrOverflow
	}
	return v, nil
}
