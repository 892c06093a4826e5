package georand

import (
	"context"
	"math/rand/v2"
	"runtime"

	"github.com/cockroachdb/errors"
	"golang.org/x/sync/errgroup"
)

// Request asks for Count points inside the boundary of Country, which may
// be any identifier the registry knows.
type Request struct {
	Country string
	Count   int
}

// BatchOptions configures GenerateMany.
type BatchOptions struct {
	// Seed, when non-zero, makes the run reproducible: request i samples
	// from a PCG source seeded with (Seed, i).
	Seed uint64
	// Concurrency bounds the number of requests sampled at once
	// (default: GOMAXPROCS).
	Concurrency int
	// Sampler options applied to every request. Options that set the
	// random source are overridden.
	SamplerOptions []SamplerOption
}

// GenerateMany samples every request concurrently against one shared
// registry. Each request gets its own random source so the sequences are
// independent. Results are returned in request order; the first failure
// cancels the remaining requests.
func GenerateMany(
	ctx context.Context, reg *Registry, reqs []Request, opts BatchOptions,
) ([][]PointRecord, error) {
	limit := opts.Concurrency
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	results := make([][]PointRecord, len(reqs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, req := range reqs {
		g.Go(func() error {
			shape, err := reg.Shape(req.Country)
			if err != nil {
				return errors.Wrapf(err, "request %d", i)
			}
			seed := opts.Seed
			if seed == 0 {
				seed = rand.Uint64()
			}
			sopts := append(opts.SamplerOptions[:len(opts.SamplerOptions):len(opts.SamplerOptions)],
				WithSeed(seed, uint64(i)))
			points, err := GenerateRandom(ctx, shape, req.Count, req.Country, sopts...)
			if err != nil {
				return errors.Wrapf(err, "request %d", i)
			}
			results[i] = points
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
