package devm

import (
	"strings"

	"github.com/shopspring/decimal"
)

// node is a node in the abstract syntax tree of one input line. The tree is
// built by parse, owned by a single evaluation, and never shared.
type node interface {
	// pos is the character offset of the token that starts the node.
	pos() int
	fmt(b *strings.Builder)
}

// literal is a constant value. exact is set for decimal literals with a
// fraction or exponent so that a following unit can scale them without loss.
type literal struct {
	at    int
	text  string
	val   Value
	exact *decimal.Decimal
}

// ident is a named constant such as max_uint or now.
type ident struct {
	at   int
	name string
}

type unary struct {
	at int
	op string
	x  node
}

// binary is an arithmetic or shift operation. unit is the unit the result
// is expressed in, empty for a plain number.
type binary struct {
	at   int
	op   string
	x, y node
	unit string
}

// conversion scales x from one unit to another. An empty from means x is a
// plain number read in the base unit of to's family; an empty to means the
// base unit.
type conversion struct {
	at       int
	x        node
	from, to string
}

// call is a function call. Arguments are full expressions; quoted strings
// arrive as Text literals and the registry decides how to read them.
type call struct {
	at   int
	name string
	args []node
}

// unchecked evaluates x with wrapping arithmetic.
type unchecked struct {
	at int
	x  node
}

func (n *literal) pos() int    { return n.at }
func (n *ident) pos() int      { return n.at }
func (n *unary) pos() int      { return n.at }
func (n *binary) pos() int     { return n.at }
func (n *conversion) pos() int { return n.at }
func (n *call) pos() int       { return n.at }
func (n *unchecked) pos() int  { return n.at }

// unitOf returns the unit n's value is expressed in, or "" for a plain number.
func unitOf(n node) string {
	switch n := n.(type) {
	case *conversion:
		if n.to != "" {
			u, _ := lookupUnit(n.to)
			return u.name
		}
		u, _ := lookupUnit(n.from)
		return baseUnit(u.family).name
	case *binary:
		return n.unit
	case *unary:
		return unitOf(n.x)
	case *unchecked:
		return unitOf(n.x)
	}
	return ""
}

func (n *literal) fmt(b *strings.Builder) {
	if t, ok := n.val.(Text); ok {
		b.WriteString(quoteText(string(t)))
		return
	}
	b.WriteString(n.text)
}

func (n *ident) fmt(b *strings.Builder) {
	b.WriteString(n.name)
}

func (n *unary) fmt(b *strings.Builder) {
	b.WriteByte('(')
	b.WriteString(n.op)
	n.x.fmt(b)
	b.WriteByte(')')
}

func (n *binary) fmt(b *strings.Builder) {
	b.WriteByte('(')
	n.x.fmt(b)
	b.WriteByte(' ')
	b.WriteString(n.op)
	b.WriteByte(' ')
	n.y.fmt(b)
	b.WriteByte(')')
}

func (n *conversion) fmt(b *strings.Builder) {
	b.WriteByte('(')
	n.x.fmt(b)
	if n.from != "" && unitOf(n.x) == "" {
		b.WriteByte(' ')
		b.WriteString(n.from)
	}
	if n.to != "" {
		b.WriteString(" to ")
		b.WriteString(n.to)
	}
	b.WriteByte(')')
}

func (n *call) fmt(b *strings.Builder) {
	b.WriteString(n.name)
	b.WriteByte('(')
	for i, arg := range n.args {
		if i > 0 {
			b.WriteString(", ")
		}
		arg.fmt(b)
	}
	b.WriteByte(')')
}

func (n *unchecked) fmt(b *strings.Builder) {
	b.WriteString("unchecked(")
	n.x.fmt(b)
	b.WriteByte(')')
}

func quoteText(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\t", `\t`)
	return `"` + r.Replace(s) + `"`
}

// Expr is a parsed input line.
type Expr struct {
	root node
	src  string
}

// String renders the parse tree with every operation parenthesized.
func (e *Expr) String() string {
	var b strings.Builder
	e.root.fmt(&b)
	return b.String()
}

// Source returns the line the expression was parsed from.
func (e *Expr) Source() string {
	return e.src
}
