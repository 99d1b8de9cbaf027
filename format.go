package devm

import (
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
)

// formatter renders values to their display strings.
type formatter struct {
	// fullWords renders every Uint as a zero-padded 32-byte hex word.
	fullWords bool
}

func (f formatter) format(v Value) string {
	var b strings.Builder
	f.write(&b, v, "")
	return b.String()
}

func (f formatter) write(b *strings.Builder, v Value, indent string) {
	switch val := v.(type) {
	case *Uint:
		if f.fullWords {
			word := val.n.Bytes32()
			b.WriteString(hexutil.Encode(word[:]))
			return
		}
		b.WriteString(val.n.Dec())
	case Text:
		b.WriteString(string(val))
	case Bytes:
		b.WriteString(hexutil.Encode(val))
	case Bool:
		if val {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case List:
		for i, e := range val {
			if i > 0 {
				b.WriteByte('\n')
			}
			b.WriteString(indent)
			b.WriteString(entryLabel(e, i))
			b.WriteString(":")
			if nested, ok := e.Value.(List); ok {
				b.WriteByte('\n')
				f.write(b, nested, indent+"  ")
				continue
			}
			b.WriteByte(' ')
			f.write(b, e.Value, indent)
		}
	default:
		panic("devm: unhandled value type " + v.Kind())
	}
}

// entryLabel renders "type name", falling back to the index when both are empty.
func entryLabel(e Entry, i int) string {
	label := strings.TrimSpace(e.Type + " " + e.Name)
	if label == "" {
		return "[" + strconv.Itoa(i) + "]"
	}
	return label
}

// formatUnits renders x / 10^decimals as a fixed-point string with exactly
// decimals fractional digits. The division is exact so no rounding occurs.
func formatUnits(x *uint256.Int, decimals uint) string {
	s := x.Dec()
	if decimals == 0 {
		return s
	}
	if pad := int(decimals) + 1 - len(s); pad > 0 {
		s = strings.Repeat("0", pad) + s
	}
	cut := len(s) - int(decimals)
	return s[:cut] + "." + s[cut:]
}
