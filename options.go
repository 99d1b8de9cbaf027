package devm

import (
	"time"

	"github.com/ethereum/go-ethereum/log"
)

// Option configures an Evaluator.
type Option func(*config)

// config holds the settings of an Evaluator.
type config struct {
	maxDepth       int
	clock          func() time.Time
	fullWords      bool
	pricePrecision int32
	timeLayout     string
	logger         log.Logger // nil means log.Root() at evaluation time
	contracts      []*Contract
}

// DefaultPricePrecision is the number of decimal places get_price_from_tick
// renders unless WithPricePrecision says otherwise.
const DefaultPricePrecision = 6

// maxPricePrecision keeps price rendering bounded.
const maxPricePrecision = 78

// defaultConfig returns the default evaluator configuration.
func defaultConfig() *config {
	return &config{
		maxDepth:       DefaultMaxDepth,
		clock:          time.Now,
		pricePrecision: DefaultPricePrecision,
		timeLayout:     DefaultTimeLayout,
	}
}

// WithMaxDepth sets the maximum nesting depth of an expression.
// Default is 64. Values below 1 are ignored.
func WithMaxDepth(depth int) Option {
	return func(c *config) {
		if depth > 0 {
			c.maxDepth = depth
		}
	}
}

// WithClock sets the time source for now and unix(). Default is time.Now.
func WithClock(clock func() time.Time) Option {
	return func(c *config) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithFullWords renders every Uint result as a zero-padded 32-byte hex word.
func WithFullWords(enabled bool) Option {
	return func(c *config) {
		c.fullWords = enabled
	}
}

// WithPricePrecision sets the decimal places of get_price_from_tick.
// Default is 6; values are clamped to [0, 78].
func WithPricePrecision(places int) Option {
	return func(c *config) {
		switch {
		case places < 0:
			places = 0
		case places > maxPricePrecision:
			places = maxPricePrecision
		}
		c.pricePrecision = int32(places)
	}
}

// WithTimeLayout sets the strftime layout of unix(ts).
// Default is "%Y-%m-%dT%H:%M:%SZ".
func WithTimeLayout(layout string) Option {
	return func(c *config) {
		if layout != "" {
			c.timeLayout = layout
		}
	}
}

// WithContracts registers ABIs whose methods may then be named without
// their parameter list, as in selector("transfer"). Earlier contracts win
// when several define the same method name.
func WithContracts(contracts ...*Contract) Option {
	return func(c *config) {
		c.contracts = append(c.contracts, contracts...)
	}
}

// WithLogger sets the logger evaluations are traced to. Default is log.Root().
func WithLogger(logger log.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}
