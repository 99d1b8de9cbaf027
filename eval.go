package devm

import (
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/holiman/uint256"
)

// Evaluator parses and evaluates input lines. It holds only immutable
// configuration, so one Evaluator may be used from many goroutines.
type Evaluator struct {
	cfg *config
	out formatter
}

// New creates an Evaluator with the given options.
func New(opts ...Option) *Evaluator {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return &Evaluator{cfg: cfg, out: formatter{fullWords: cfg.fullWords}}
}

var defaultEvaluator = New()

// Evaluate evaluates line with the default configuration and returns its
// display string.
func Evaluate(line string) (string, error) {
	return defaultEvaluator.Evaluate(line)
}

// Evaluate evaluates line and returns its display string.
func (e *Evaluator) Evaluate(line string) (string, error) {
	v, err := e.Eval(line)
	if err != nil {
		return "", err
	}
	return e.Format(v), nil
}

// Eval parses and evaluates line, returning the typed result.
func (e *Evaluator) Eval(line string) (Value, error) {
	start := time.Now()
	expr, err := parse(line, e.cfg.maxDepth)
	if err != nil {
		e.logger().Debug("Failed to parse expression", "input", line, "kind", KindOf(err), "err", err)
		return nil, err
	}
	v, err := e.run(expr)
	if err != nil {
		e.logger().Debug("Failed to evaluate expression", "input", line, "kind", KindOf(err), "err", err)
		return nil, err
	}
	e.logger().Trace("Evaluated expression", "input", line, "kind", v.Kind(), "elapsed", common.PrettyDuration(time.Since(start)))
	return v, nil
}

// EvalExpr evaluates an already parsed expression.
func (e *Evaluator) EvalExpr(expr *Expr) (Value, error) {
	if expr == nil || expr.root == nil {
		return nil, &SyntaxError{Msg: "empty expression"}
	}
	return e.run(expr)
}

// Format renders v as a display string.
func (e *Evaluator) Format(v Value) string {
	return e.out.format(v)
}

func (e *Evaluator) logger() log.Logger {
	if e.cfg.logger != nil {
		return e.cfg.logger
	}
	return log.Root()
}

// run evaluates expr on fresh state. A panic in a handler is reported as an
// error rather than taking down the host.
func (e *Evaluator) run(expr *Expr) (v Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			v, err = nil, fmt.Errorf("devm: internal error evaluating %q: %v", expr.src, r)
		}
	}()
	s := newEvalState(e.cfg)
	return s.eval(expr.root, checkedArith)
}

// eval walks n depth-first. The arithmetic mode is passed down so that an
// unchecked block only affects its own subtree.
func (s *evalState) eval(n node, a arith) (Value, error) {
	switch n := n.(type) {
	case *literal:
		return n.val, nil
	case *ident:
		return s.constant(n)
	case *unary:
		return s.evalUnary(n, a)
	case *binary:
		return s.evalBinary(n, a)
	case *conversion:
		return s.evalConversion(n, a)
	case *call:
		return s.evalCall(n, a)
	case *unchecked:
		if err := s.enter(n); err != nil {
			return nil, err
		}
		defer s.leave()
		return s.eval(n.x, wrappingArith)
	default:
		panic(fmt.Sprintf("devm: unhandled node %T", n))
	}
}

// evalOperand evaluates n and reads it as a 256-bit word.
func (s *evalState) evalOperand(n node, a arith) (*uint256.Int, error) {
	v, err := s.eval(n, a)
	if err != nil {
		return nil, err
	}
	return operand(v)
}

func (s *evalState) evalUnary(n *unary, a arith) (Value, error) {
	if err := s.enter(n); err != nil {
		return nil, err
	}
	defer s.leave()
	x, err := s.evalOperand(n.x, a)
	if err != nil {
		return nil, err
	}
	z, err := a.neg(x)
	if err != nil {
		return nil, &OpError{Op: "negation", Pos: n.at, Err: err}
	}
	return NewUint(z), nil
}

func (s *evalState) evalBinary(n *binary, a arith) (Value, error) {
	if err := s.enter(n); err != nil {
		return nil, err
	}
	defer s.leave()
	x, err := s.evalOperand(n.x, a)
	if err != nil {
		return nil, err
	}
	y, err := s.evalOperand(n.y, a)
	if err != nil {
		return nil, err
	}

	var z *uint256.Int
	switch n.op {
	case "+":
		z, err = a.add(x, y)
	case "-":
		z, err = a.sub(x, y)
	case "*":
		z, err = a.mul(x, y)
	case "/":
		z, err = a.div(x, y)
	case "%":
		z, err = a.mod(x, y)
	case "**":
		z, err = a.exp(x, y)
	case "<<":
		z = shl(x, y)
	case ">>":
		z = shr(x, y)
	default:
		panic("devm: unhandled operator " + n.op)
	}
	if err != nil {
		return nil, &OpError{Op: `"` + n.op + `"`, Pos: n.at, Err: err}
	}
	return NewUint(z), nil
}

func (s *evalState) evalConversion(n *conversion, a arith) (Value, error) {
	// Scale decimal literals before rounding so that 1.5 ether is exact.
	if lit, ok := n.x.(*literal); ok && lit.exact != nil && n.from != "" {
		z, err := convertExact(*lit.exact, n.from, n.to)
		if err != nil {
			return nil, conversionErr(n, err)
		}
		return NewUint(z), nil
	}
	x, err := s.evalOperand(n.x, a)
	if err != nil {
		return nil, err
	}
	z, err := convertUnits(a, x, n.from, n.to)
	if err != nil {
		return nil, conversionErr(n, err)
	}
	return NewUint(z), nil
}

func conversionErr(n *conversion, err error) error {
	if _, ok := err.(*ConversionError); ok {
		return err
	}
	return &OpError{Op: "unit conversion", Pos: n.at, Err: err}
}

// evalCall checks arity before evaluating any argument, then evaluates the
// arguments left to right in the caller's arithmetic mode.
func (s *evalState) evalCall(n *call, a arith) (Value, error) {
	b, err := lookupFunc(n.name)
	if err != nil {
		return nil, err
	}
	if err := b.checkArity(len(n.args)); err != nil {
		return nil, err
	}
	if err := s.enter(n); err != nil {
		return nil, err
	}
	defer s.leave()

	args := make([]Value, len(n.args))
	for i, arg := range n.args {
		if b.isSigned(i) {
			args[i], err = s.evalSigned(arg, a)
		} else {
			args[i], err = s.eval(arg, a)
		}
		if err != nil {
			return nil, err
		}
	}
	return b.invoke(&s.ctx, args)
}

// evalSigned evaluates a signed argument. A leading minus negates the
// magnitude instead of underflowing, so -100 reads as Text("-100").
func (s *evalState) evalSigned(n node, a arith) (Value, error) {
	neg, ok := n.(*unary)
	if !ok || neg.op != "-" {
		return s.eval(n, a)
	}
	if err := s.enter(neg); err != nil {
		return nil, err
	}
	defer s.leave()
	v, err := s.eval(neg.x, a)
	if err != nil {
		return nil, err
	}
	switch v := v.(type) {
	case *Uint:
		return Text("-" + v.n.Dec()), nil
	case Text:
		// -min_tick
		if t := strings.TrimSpace(string(v)); strings.HasPrefix(t, "-") {
			return Text(t[1:]), nil
		}
	}
	x, err := operand(v)
	if err != nil {
		return nil, err
	}
	return Text("-" + x.Dec()), nil
}
