package engine

// ============================================================================
// ENGINE OPTIONS — Functional options for Execute()
// ============================================================================

// Option configures engine behavior via functional options pattern.
type Option func(*config)

type config struct {
	DefaultMeasure string // measure key used when QuerySpec.Measure is empty
	Units          map[string]string
}

// WithDefaultMeasure sets the measure to aggregate when QuerySpec.Measure is empty.
func WithDefaultMeasure(measure string) Option {
	return func(c *config) {
		c.DefaultMeasure = measure
	}
}

// WithUnit sets the display unit for a measure (e.g. "$" for worldwide_gross).
// Count aggregations never carry a unit.
func WithUnit(measure, unit string) Option {
	return func(c *config) {
		if c.Units == nil {
			c.Units = make(map[string]string)
		}
		c.Units[measure] = unit
	}
}

// applyOptions creates a config from functional options.
func applyOptions(opts []Option) *config {
	cfg := &config{
		DefaultMeasure: "worldwide_gross",
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

func (c *config) unitFor(measure, aggregation string) string {
	if aggregation == AggCount {
		return ""
	}
	return c.Units[measure]
}
