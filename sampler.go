package georand

import (
	"context"
	"iter"
	"math/rand/v2"

	"github.com/cockroachdb/errors"
	log "github.com/inconshreveable/log15"
)

// ctxCheckInterval is how many draws may pass between context checks.
const ctxCheckInterval = 1024

// maxPrealloc bounds the result capacity GenerateRandom reserves.
const maxPrealloc = 1024

// Sampler draws uniformly distributed points inside a Shape by rejection
// sampling over the shape's bounding box. A Sampler is not safe for
// concurrent use.
type Sampler struct {
	shape   *Shape
	bbox    BoundingBox
	country string

	rng              *rand.Rand
	maxAttempts      int
	geohashPrecision int
	logger           log.Logger

	attempts int
	accepted int
}

// NewSampler returns a Sampler for shape whose records are labelled with
// country. Without WithRand or WithSeed the sampler gets its own randomly
// seeded source.
func NewSampler(shape *Shape, country string, opts ...SamplerOption) *Sampler {
	s := &Sampler{
		shape:   shape,
		bbox:    shape.Bounds(),
		country: country,
		logger:  discardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return s
}

// uniform returns a float in [lo, hi).
func (s *Sampler) uniform(lo, hi float64) float64 {
	return lo + s.rng.Float64()*(hi-lo)
}

// Next draws candidates until one lies within the shape and returns it as
// the next record. It fails with ErrTooManyAttempts once the attempt cap is
// spent, or with the context's error if ctx is done.
func (s *Sampler) Next(ctx context.Context) (PointRecord, error) {
	for n := 0; ; n++ {
		if n%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return PointRecord{}, err
			}
		}
		if s.maxAttempts > 0 && s.attempts >= s.maxAttempts {
			return PointRecord{}, errors.Wrapf(ErrTooManyAttempts,
				"%d attempts, %d accepted for %q", s.attempts, s.accepted, s.country)
		}
		s.attempts++
		lng := s.uniform(s.bbox.MinLng, s.bbox.MaxLng)
		lat := s.uniform(s.bbox.MinLat, s.bbox.MaxLat)
		if !s.shape.Contains(lng, lat) {
			continue
		}
		s.accepted++
		rec := PointRecord{Lng: lng, Lat: lat, Index: s.accepted, Country: s.country}
		if s.geohashPrecision > 0 {
			rec.Geohash = encodeGeohash(lat, lng, s.geohashPrecision)
		}
		return rec, nil
	}
}

// Points returns an iterator over the next count records. Iteration stops
// after count records, at the first error (which is yielded), or when the
// consumer stops.
func (s *Sampler) Points(ctx context.Context, count int) iter.Seq2[PointRecord, error] {
	return func(yield func(PointRecord, error) bool) {
		for i := 0; i < count; i++ {
			rec, err := s.Next(ctx)
			if !yield(rec, err) || err != nil {
				return
			}
		}
	}
}

// Attempts returns the number of candidates drawn so far.
func (s *Sampler) Attempts() int { return s.attempts }

// Accepted returns the number of records emitted so far.
func (s *Sampler) Accepted() int { return s.accepted }

// GenerateRandom returns count random points within shape, labelled with
// country and indexed 1..count in the order they were accepted. A count of
// zero returns an empty slice without drawing.
func GenerateRandom(
	ctx context.Context, shape *Shape, count int, country string, opts ...SamplerOption,
) ([]PointRecord, error) {
	if count < 0 {
		return nil, errors.Wrapf(ErrInvalidCount, "got %d", count)
	}
	// count may be far larger than what the attempt cap or ctx lets
	// through, so only a bounded prefix is reserved up front.
	points := make([]PointRecord, 0, min(count, maxPrealloc))
	if count == 0 {
		return points, nil
	}
	s := NewSampler(shape, country, opts...)
	for rec, err := range s.Points(ctx, count) {
		if err != nil {
			return nil, err
		}
		points = append(points, rec)
	}
	s.logger.Debug("sampling finished", "country", country, "points", s.accepted,
		"attempts", s.attempts, "rate", float64(s.accepted)/float64(s.attempts))
	return points, nil
}
