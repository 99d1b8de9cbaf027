package devm

import (
	"fmt"
	"strconv"

	"github.com/holiman/uint256"
)

// evalState is the per-line state of one evaluation: the settings handlers
// read and the current nesting depth. It is never shared between lines.
type evalState struct {
	ctx      callContext
	depth    int
	maxDepth int
}

// newEvalState snapshots cfg. The clock is read once so that every now and
// unix() in a line sees the same instant.
func newEvalState(cfg *config) *evalState {
	return &evalState{
		ctx: callContext{
			now:            cfg.clock(),
			pricePrecision: cfg.pricePrecision,
			timeLayout:     cfg.timeLayout,
			contracts:      cfg.contracts,
		},
		maxDepth: cfg.maxDepth,
	}
}

// enter bumps the nesting depth for nodes that open a new level.
func (s *evalState) enter(n node) error {
	s.depth++
	if s.depth > s.maxDepth {
		return fmt.Errorf("%w: nesting deeper than %d at position %d", ErrRecursionLimit, s.maxDepth, n.pos())
	}
	return nil
}

func (s *evalState) leave() {
	s.depth--
}

// constant resolves a named constant.
func (s *evalState) constant(n *ident) (Value, error) {
	switch n.name {
	case "max_uint":
		return NewUint(new(uint256.Int).SetAllOne()), nil
	case "now":
		ts := s.ctx.now.Unix()
		if ts < 0 {
			ts = 0
		}
		return Uint64(uint64(ts)), nil
	case "true":
		return Bool(true), nil
	case "false":
		return Bool(false), nil
	case "min_tick":
		return Text(strconv.Itoa(MinTick)), nil
	case "max_tick":
		return Uint64(MaxTick), nil
	case "min_sqrt_ratio":
		return NewUint(MinSqrtRatio), nil
	case "max_sqrt_ratio":
		return NewUint(MaxSqrtRatio), nil
	case "q96":
		return NewUint(Q96), nil
	}
	return nil, &IdentifierError{Name: n.name}
}
