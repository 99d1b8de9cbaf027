package devm

import (
	"fmt"
	"strings"
	"time"

	"github.com/ncruces/go-strftime"
)

// DefaultTimeLayout is the strftime layout unix(ts) renders with.
const DefaultTimeLayout = "%Y-%m-%dT%H:%M:%SZ"

// maxTimestamp is 9999-12-31T23:59:59Z, the last second with a four-digit year.
const maxTimestamp = 253402300799

// timeLayouts are the date-time shapes unix("...") accepts, tried in order.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

var timeFuncs = []*builtin{
	{name: "unix", minArgs: 1, maxArgs: 6, fn: unix},
}

// unix is overloaded by shape:
//
//	unix("2024-01-02T03:04:05Z")  timestamp of a date-time string
//	unix(ts)                      ts rendered with the default layout
//	unix(ts, "%Y")                ts rendered with a strftime layout
//	unix(y, mo, d, h, mi, s)      timestamp of a UTC date-time
func unix(ctx *callContext, args []Value) (Value, error) {
	switch len(args) {
	case 1:
		if text, ok := args[0].(Text); ok {
			return parseTimestamp(string(text))
		}
		return formatTimestamp(args, ctx.timeLayout)
	case 2:
		layout, err := argText(args, 1)
		if err != nil {
			return nil, err
		}
		return formatTimestamp(args, layout)
	case 6:
		return dateTimestamp(args)
	}
	return nil, &ArityError{Func: "unix", Got: len(args), Want: "1, 2 or 6"}
}

func parseTimestamp(s string) (Value, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		t, err := time.ParseInLocation(layout, s, time.UTC)
		if err != nil {
			continue
		}
		ts := t.Unix()
		if ts < 0 {
			return nil, fmt.Errorf("%w: %q is before the Unix epoch", ErrUnderflow, s)
		}
		return Uint64(uint64(ts)), nil
	}
	return nil, &ArgumentError{Index: 0, Err: fmt.Errorf("%w: %q is not a date-time", ErrInvalidLiteral, s)}
}

func formatTimestamp(args []Value, layout string) (Value, error) {
	ts, err := argSmall(args, 0, maxTimestamp)
	if err != nil {
		return nil, err
	}
	if layout == "" {
		layout = DefaultTimeLayout
	}
	return Text(strftime.Format(layout, time.Unix(int64(ts), 0).UTC())), nil
}

// dateFields bounds each of the six unix() components.
var dateFields = [6]struct {
	name     string
	min, max uint64
}{
	{"year", 1970, 9999},
	{"month", 1, 12},
	{"day", 1, 31},
	{"hour", 0, 23},
	{"minute", 0, 59},
	{"second", 0, 59},
}

func dateTimestamp(args []Value) (Value, error) {
	var f [6]int
	for i, field := range dateFields {
		n, err := argSmall(args, i, field.max)
		if err != nil {
			return nil, err
		}
		if n < field.min {
			return nil, &ArgumentError{Index: i, Err: fmt.Errorf("%w: %s %d is below %d", ErrInvalidArgument, field.name, n, field.min)}
		}
		f[i] = int(n)
	}
	t := time.Date(f[0], time.Month(f[1]), f[2], f[3], f[4], f[5], 0, time.UTC)
	// time.Date normalizes Feb 30 into March; reject instead.
	if t.Day() != f[2] {
		return nil, &ArgumentError{Index: 2, Err: fmt.Errorf("%w: %04d-%02d has no day %d", ErrInvalidArgument, f[0], f[1], f[2])}
	}
	return Uint64(uint64(t.Unix())), nil
}
