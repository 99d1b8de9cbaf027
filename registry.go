package devm

import (
	"fmt"
	"sort"
)

// handler computes a built-in function from already-evaluated arguments.
type handler func(ctx *callContext, args []Value) (Value, error)

// builtin is one entry of the static function table.
type builtin struct {
	name string
	// minArgs and maxArgs bound the argument count; maxArgs < 0 is variadic.
	minArgs, maxArgs int
	// signed marks argument positions read as signed integers, where a
	// leading minus is a sign rather than a negation.
	signed uint64
	fn     handler
}

func (b *builtin) isSigned(i int) bool {
	return i < 64 && b.signed&(1<<uint(i)) != 0
}

// checkArity validates the argument count before any argument is evaluated.
func (b *builtin) checkArity(n int) error {
	if n >= b.minArgs && (b.maxArgs < 0 || n <= b.maxArgs) {
		return nil
	}
	var want string
	switch {
	case b.maxArgs < 0:
		want = fmt.Sprintf("at least %d", b.minArgs)
	case b.minArgs == b.maxArgs:
		want = fmt.Sprint(b.minArgs)
	default:
		want = fmt.Sprintf("%d to %d", b.minArgs, b.maxArgs)
	}
	return &ArityError{Func: b.name, Got: n, Want: want}
}

// invoke runs the handler, wrapping any failure with the function name.
func (b *builtin) invoke(ctx *callContext, args []Value) (Value, error) {
	v, err := b.fn(ctx, args)
	if err != nil {
		return nil, &CallError{Func: b.name, Err: err}
	}
	return v, nil
}

// fixed declares a builtin with an exact arity.
func fixed(name string, n int, fn handler) *builtin {
	return &builtin{name: name, minArgs: n, maxArgs: n, fn: fn}
}

// registry maps every recognized function name to its handler. It is built
// once at package initialization and read-only afterwards.
var registry = buildRegistry(mathFuncs, evmFuncs, stringFuncs, timeFuncs, formatFuncs, uniswapFuncs)

func buildRegistry(families ...[]*builtin) map[string]*builtin {
	m := make(map[string]*builtin)
	for _, family := range families {
		for _, b := range family {
			if _, dup := m[b.name]; dup {
				panic("devm: duplicate builtin " + b.name)
			}
			m[b.name] = b
		}
	}
	return m
}

// lookupFunc returns the builtin registered under name.
func lookupFunc(name string) (*builtin, error) {
	b, ok := registry[name]
	if !ok {
		return nil, &IdentifierError{Name: name, Func: true}
	}
	return b, nil
}

// HasFunction returns true if name is a built-in function.
func HasFunction(name string) bool {
	_, ok := registry[name]
	return ok
}

// FunctionNames returns the names of all built-in functions, sorted.
func FunctionNames() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
