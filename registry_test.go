package devm

import (
	"errors"
	"sort"
	"testing"
)

func TestFunctionNames(t *testing.T) {
	want := []string{
		"abi_decode", "abi_encode", "abi_encode_with_selector", "address",
		"b64_decode", "b64_encode", "checksum", "count", "debug",
		"format_ether", "format_units",
		"get_amount0_from_liquidity", "get_amount1_from_liquidity",
		"get_liquidity_from_amount0", "get_liquidity_from_amount1",
		"get_price_from_tick", "get_sqrt_ratio_from_tick", "get_tick_from_sqrt_ratio",
		"keccak256", "len", "lower", "root", "selector", "sqrt", "unix", "upper",
	}

	got := FunctionNames()
	if !sort.StringsAreSorted(got) {
		t.Error("Expected FunctionNames to be sorted")
	}
	if len(got) != len(want) {
		t.Fatalf("Expected %d functions, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Expected function %d to be %s, got %s", i, want[i], got[i])
		}
		if !HasFunction(want[i]) {
			t.Errorf("Expected HasFunction(%q) to be true", want[i])
		}
	}
	if HasFunction("unchecked") || HasFunction("max_uint") {
		t.Error("Expected keywords and constants not to be functions")
	}
}

func TestBuildRegistryRejectsDuplicates(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Expected duplicate builtin to panic")
		}
	}()
	buildRegistry(mathFuncs, mathFuncs)
}

func TestCheckArity(t *testing.T) {
	tests := []struct {
		name     string
		b        *builtin
		n        int
		wantErr  bool
		wantText string
	}{
		{"exact ok", fixed("f", 2, nil), 2, false, ""},
		{"exact too few", fixed("f", 2, nil), 1, true, "devm: f expects 2 arguments, got 1"},
		{"range ok", &builtin{name: "g", minArgs: 1, maxArgs: 3}, 3, false, ""},
		{"range too many", &builtin{name: "g", minArgs: 1, maxArgs: 3}, 4, true, "devm: g expects 1 to 3 arguments, got 4"},
		{"variadic ok", &builtin{name: "h", minArgs: 1, maxArgs: -1}, 10, false, ""},
		{"variadic too few", &builtin{name: "h", minArgs: 1, maxArgs: -1}, 0, true, "devm: h expects at least 1 arguments, got 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.b.checkArity(tt.n)
			if !tt.wantErr {
				if err != nil {
					t.Errorf("Unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, ErrArityMismatch) {
				t.Fatalf("Expected ErrArityMismatch, got %v", err)
			}
			if err.Error() != tt.wantText {
				t.Errorf("Expected %q, got %q", tt.wantText, err.Error())
			}
		})
	}
}

func TestSignedPositions(t *testing.T) {
	for _, name := range []string{"get_sqrt_ratio_from_tick", "get_price_from_tick"} {
		b, err := lookupFunc(name)
		if err != nil {
			t.Fatalf("lookupFunc(%s): %v", name, err)
		}
		if !b.isSigned(0) || b.isSigned(1) {
			t.Errorf("Expected only the tick of %s to be signed", name)
		}
	}

	b, _ := lookupFunc("sqrt")
	if b.isSigned(0) || b.isSigned(64) {
		t.Error("Expected sqrt to take no signed arguments")
	}
}

func TestInvokeWrapsErrors(t *testing.T) {
	b := fixed("boom", 0, func(*callContext, []Value) (Value, error) {
		return nil, ErrInvalidArgument
	})
	_, err := b.invoke(&callContext{}, nil)
	var ce *CallError
	if !errors.As(err, &ce) || ce.Func != "boom" {
		t.Fatalf("Expected CallError from boom, got %v", err)
	}
	if err.Error() != "devm: boom: invalid argument" {
		t.Errorf("Unexpected message %q", err.Error())
	}
}
