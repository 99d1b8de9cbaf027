package devm

import (
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/log"
)

func TestDefaultConfig(t *testing.T) {
	config := defaultConfig()

	t.Run("max depth is DefaultMaxDepth by default", func(t *testing.T) {
		if config.maxDepth != DefaultMaxDepth {
			t.Errorf("Expected maxDepth to be %d, got %d", DefaultMaxDepth, config.maxDepth)
		}
	})

	t.Run("full words disabled by default", func(t *testing.T) {
		if config.fullWords {
			t.Error("Expected fullWords to be false by default")
		}
	})

	t.Run("price precision is 6 by default", func(t *testing.T) {
		if config.pricePrecision != DefaultPricePrecision {
			t.Errorf("Expected pricePrecision to be %d, got %d", DefaultPricePrecision, config.pricePrecision)
		}
	})

	t.Run("time layout is ISO 8601 by default", func(t *testing.T) {
		if config.timeLayout != DefaultTimeLayout {
			t.Errorf("Expected timeLayout to be %q, got %q", DefaultTimeLayout, config.timeLayout)
		}
	})

	t.Run("no logger by default", func(t *testing.T) {
		if config.logger != nil {
			t.Error("Expected logger to be nil by default")
		}
	})
}

func TestWithMaxDepth(t *testing.T) {
	t.Run("sets custom max depth", func(t *testing.T) {
		config := defaultConfig()
		WithMaxDepth(8)(config)

		if config.maxDepth != 8 {
			t.Errorf("Expected maxDepth to be 8, got %d", config.maxDepth)
		}
	})

	t.Run("ignores non-positive depth", func(t *testing.T) {
		config := defaultConfig()
		WithMaxDepth(0)(config)
		WithMaxDepth(-1)(config)

		if config.maxDepth != DefaultMaxDepth {
			t.Errorf("Expected maxDepth to stay %d, got %d", DefaultMaxDepth, config.maxDepth)
		}
	})
}

func TestWithClock(t *testing.T) {
	t.Run("sets clock", func(t *testing.T) {
		config := defaultConfig()
		WithClock(fixedClock)(config)

		if !config.clock().Equal(newYear) {
			t.Errorf("Expected clock to return %v, got %v", newYear, config.clock())
		}
	})

	t.Run("ignores nil clock", func(t *testing.T) {
		config := defaultConfig()
		WithClock(nil)(config)

		if config.clock == nil {
			t.Error("Expected clock to remain set")
		}
	})
}

func TestWithFullWords(t *testing.T) {
	config := defaultConfig()
	WithFullWords(true)(config)
	if !config.fullWords {
		t.Error("Expected fullWords to be true")
	}

	WithFullWords(false)(config)
	if config.fullWords {
		t.Error("Expected fullWords to be false")
	}
}

func TestWithPricePrecision(t *testing.T) {
	tests := []struct {
		name   string
		places int
		want   int32
	}{
		{"custom", 2, 2},
		{"zero", 0, 0},
		{"negative clamps to zero", -3, 0},
		{"large clamps to max", 1000, maxPricePrecision},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := defaultConfig()
			WithPricePrecision(tt.places)(config)

			if config.pricePrecision != tt.want {
				t.Errorf("Expected pricePrecision to be %d, got %d", tt.want, config.pricePrecision)
			}
		})
	}
}

func TestWithTimeLayout(t *testing.T) {
	config := defaultConfig()
	WithTimeLayout("%s")(config)
	if config.timeLayout != "%s" {
		t.Errorf("Expected timeLayout to be %%s, got %q", config.timeLayout)
	}

	WithTimeLayout("")(config)
	if config.timeLayout != "%s" {
		t.Errorf("Expected empty layout to be ignored, got %q", config.timeLayout)
	}
}

func TestWithContracts(t *testing.T) {
	a := NewContract("A", MustParseABI(erc20ABI))
	b := NewContract("B", MustParseABI(erc20ABI))

	config := defaultConfig()
	WithContracts(a)(config)
	WithContracts(b)(config)

	if len(config.contracts) != 2 || config.contracts[0] != a || config.contracts[1] != b {
		t.Errorf("Expected contracts [A B], got %v", config.contracts)
	}
}

func TestWithLogger(t *testing.T) {
	logger := log.New("component", "test")

	config := defaultConfig()
	WithLogger(logger)(config)
	if config.logger != logger {
		t.Error("Expected logger to be set")
	}

	ev := New(WithLogger(logger))
	if ev.logger() != logger {
		t.Error("Expected evaluator to use the configured logger")
	}
	if New().logger() != log.Root() {
		t.Error("Expected evaluator to default to the root logger")
	}
}

func TestMultipleOptions(t *testing.T) {
	ev := New(
		WithMaxDepth(16),
		WithFullWords(true),
		WithPricePrecision(4),
		WithClock(func() time.Time { return time.Unix(42, 0) }),
	)

	if ev.cfg.maxDepth != 16 {
		t.Errorf("Expected maxDepth to be 16, got %d", ev.cfg.maxDepth)
	}
	if !ev.cfg.fullWords || !ev.out.fullWords {
		t.Error("Expected full words on both config and formatter")
	}
	if ev.cfg.pricePrecision != 4 {
		t.Errorf("Expected pricePrecision to be 4, got %d", ev.cfg.pricePrecision)
	}
	if got := ev.cfg.clock().Unix(); got != 42 {
		t.Errorf("Expected clock to return 42, got %d", got)
	}
}
