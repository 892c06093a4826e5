package georand

import "github.com/cockroachdb/errors"

// Lookup and assembly failures. Callers match them with errors.Is; the
// returned errors carry the offending identifier or code in their message.
var (
	// ErrUnknownCountry is returned when an identifier matches no FIPS,
	// ISO2, ISO3 or NAME key.
	ErrUnknownCountry = errors.New("georand: unknown country identifier")
	// ErrMissingBoundary is returned when a UN code resolved from an
	// identifier has no stored boundary.
	ErrMissingBoundary = errors.New("georand: no boundary for UN code")
	// ErrMalformedShape is returned when a boundary is neither a Polygon nor
	// a MultiPolygon, or cannot be decoded into one.
	ErrMalformedShape = errors.New("georand: malformed shape")
	// ErrMalformedDataset is returned when a dataset feature lacks one of
	// the required properties or its geometry.
	ErrMalformedDataset = errors.New("georand: malformed dataset")
	// ErrInvalidCount is returned for a negative point count.
	ErrInvalidCount = errors.New("georand: point count must not be negative")
	// ErrTooManyAttempts is returned when a sampler exhausts its attempt cap.
	ErrTooManyAttempts = errors.New("georand: sampling attempt limit reached")
)
