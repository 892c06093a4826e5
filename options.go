package georand

import (
	"math/rand/v2"

	log "github.com/inconshreveable/log15"
)

// Config contains configuration options for Registry construction and
// shape assembly.
type Config struct {
	Logger        log.Logger // Receives lookup misses and locator warnings (default: discard)
	FuzzyDistance int        // Max edit distance for misspelt identifiers (0 = disabled)
	Holes         bool       // Treat inner rings as exclusion zones instead of flattening them
}

// Option is a functional option for configuring a Registry.
type Option func(*Config)

// WithLogger sets the logger used by the registry.
func WithLogger(l log.Logger) Option {
	return func(c *Config) {
		c.Logger = l
	}
}

// WithFuzzyDistance enables Levenshtein matching of identifiers that miss
// an exact lookup. Values above maxFuzzyDistance are capped.
func WithFuzzyDistance(n int) Option {
	return func(c *Config) {
		if n < 0 {
			n = 0
		}
		if n > maxFuzzyDistance {
			n = maxFuzzyDistance
		}
		c.FuzzyDistance = n
	}
}

// WithHoles makes shape assembly keep inner rings as holes. By default a
// Polygon keeps only its outer ring and every ring of a MultiPolygon becomes
// a solid polygon of its own.
func WithHoles(keep bool) Option {
	return func(c *Config) {
		c.Holes = keep
	}
}

// discardLogger returns a logger that drops everything.
func discardLogger() log.Logger {
	l := log.New()
	l.SetHandler(log.DiscardHandler())
	return l
}

// defaultConfig returns the default configuration.
func defaultConfig() *Config {
	return &Config{
		Logger: discardLogger(),
	}
}

// SamplerOption is a functional option for configuring a Sampler.
type SamplerOption func(*Sampler)

// WithRand sets the random source. A Sampler is not safe for concurrent use
// and neither is r, so give every goroutine its own.
func WithRand(r *rand.Rand) SamplerOption {
	return func(s *Sampler) {
		s.rng = r
	}
}

// WithSeed seeds a PCG source so that runs are reproducible.
func WithSeed(seed1, seed2 uint64) SamplerOption {
	return func(s *Sampler) {
		s.rng = rand.New(rand.NewPCG(seed1, seed2))
	}
}

// WithMaxAttempts caps the total number of candidate draws. Zero means no
// cap, in which case a sliver-shaped boundary can keep the sampler busy for
// an arbitrarily long time.
func WithMaxAttempts(n int) SamplerOption {
	return func(s *Sampler) {
		s.maxAttempts = n
	}
}

// WithGeohash attaches a geohash of the given precision to every record.
func WithGeohash(precision int) SamplerOption {
	return func(s *Sampler) {
		s.geohashPrecision = precision
	}
}

// WithSamplerLogger sets the logger used to report finished runs.
func WithSamplerLogger(l log.Logger) SamplerOption {
	return func(s *Sampler) {
		s.logger = l
	}
}
