package georand

import (
	"io"
	"strconv"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/twpayne/go-geom/encoding/geojson"
)

// Key is a registry key: either a textual country identifier (FIPS, ISO2,
// ISO3 or name) or a numeric UN code. Identifier("380") and UNCode(380) are
// different keys.
type Key struct {
	name    string
	un      int
	numeric bool
}

// Identifier returns the key for a FIPS, ISO2, ISO3 or NAME value.
func Identifier(s string) Key { return Key{name: s} }

// UNCode returns the key for a UN numeric country code.
func UNCode(n int) Key { return Key{un: n, numeric: true} }

func (k Key) String() string {
	if k.numeric {
		return strconv.Itoa(k.un)
	}
	return k.name
}

// Value is what a Key resolves to. Textual keys resolve to a UN code, UN
// codes resolve to the raw boundary geometry.
type Value struct {
	UN       int
	Boundary *geojson.Geometry
}

// IsBoundary reports whether v holds a boundary rather than a UN code.
func (v Value) IsBoundary() bool { return v.Boundary != nil }

// Country holds the identifiers of one dataset feature.
type Country struct {
	FIPS string
	ISO2 string
	ISO3 string
	Name string
	UN   int
}

// Registry maps every known identifier of a country to its UN code, and
// every UN code to its boundary. It is immutable once built and safe for
// concurrent use.
type Registry struct {
	entries   map[Key]Value
	countries []Country
	config    *Config

	locator func() *locator
}

// LoadRegistry builds a Registry from the GeoJSON FeatureCollection at
// path. Files ending in .bz2 or .gz are decompressed.
//
// Example:
//
//	reg, err := LoadRegistry("./georand-data/countries.geojson")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	shape, err := reg.Shape("Italy")
func LoadRegistry(path string, opts ...Option) (*Registry, error) {
	r, cleanup, err := openDataset(path)
	if err != nil {
		return nil, err
	}
	defer cleanup()
	reg, err := NewRegistry(r, opts...)
	if err != nil {
		return nil, errors.Wrapf(err, "loading %s", path)
	}
	return reg, nil
}

// NewRegistry builds a Registry from a GeoJSON FeatureCollection read from r.
// Every feature contributes five entries: FIPS, ISO2, ISO3 and NAME map to
// the UN code, the UN code maps to the geometry. Later features overwrite
// earlier ones on key collisions.
func NewRegistry(r io.Reader, opts ...Option) (*Registry, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	ds, err := decodeDataset(r)
	if err != nil {
		return nil, err
	}

	reg := &Registry{
		entries:   make(map[Key]Value, 5*len(ds.Features)),
		countries: make([]Country, 0, len(ds.Features)),
		config:    cfg,
	}
	for i := range ds.Features {
		f := &ds.Features[i]
		c, err := f.country(i)
		if err != nil {
			return nil, err
		}
		un := Value{UN: c.UN}
		reg.entries[Identifier(c.FIPS)] = un
		reg.entries[Identifier(c.ISO2)] = un
		reg.entries[Identifier(c.ISO3)] = un
		reg.entries[Identifier(c.Name)] = un
		reg.entries[UNCode(c.UN)] = Value{UN: c.UN, Boundary: f.Geometry}
		reg.countries = append(reg.countries, c)
	}
	reg.locator = sync.OnceValue(reg.buildLocator)
	return reg, nil
}

// Get looks key up. A miss is an expected outcome: it is logged at debug
// level and reported through the boolean, never as an error.
func (r *Registry) Get(key Key) (Value, bool) {
	v, ok := r.entries[key]
	if !ok {
		r.config.Logger.Debug("key not found", "key", key.String())
	}
	return v, ok
}

// Code returns the UN code for a FIPS, ISO2, ISO3 or NAME identifier.
func (r *Registry) Code(identifier string) (int, bool) {
	v, ok := r.Get(Identifier(identifier))
	if !ok || v.IsBoundary() {
		return 0, false
	}
	return v.UN, true
}

// Boundary returns the raw boundary geometry stored for a UN code.
func (r *Registry) Boundary(un int) (*geojson.Geometry, bool) {
	v, ok := r.Get(UNCode(un))
	if !ok || !v.IsBoundary() {
		return nil, false
	}
	return v.Boundary, true
}

// Resolve maps identifier to its UN code, then the UN code to its boundary.
// The first hop fails with ErrUnknownCountry, the second with
// ErrMissingBoundary. When fuzzy matching is enabled, an identifier that
// misses the exact lookup is retried against the closest known identifier.
func (r *Registry) Resolve(identifier string) (int, *geojson.Geometry, error) {
	un, ok := r.Code(identifier)
	if !ok && r.config.FuzzyDistance > 0 {
		var match string
		if match, ok = r.fuzzyIdentifier(identifier); ok {
			r.config.Logger.Debug("fuzzy identifier match", "query", identifier, "match", match)
			un, ok = r.Code(match)
		}
	}
	if !ok {
		return 0, nil, errors.Wrapf(ErrUnknownCountry, "%q", identifier)
	}
	g, ok := r.Boundary(un)
	if !ok {
		return un, nil, errors.Wrapf(ErrMissingBoundary, "%d (resolved from %q)", un, identifier)
	}
	return un, g, nil
}

// Countries returns the countries in dataset order.
func (r *Registry) Countries() []Country {
	out := make([]Country, len(r.countries))
	copy(out, r.countries)
	return out
}

// Len returns the number of distinct keys.
func (r *Registry) Len() int {
	return len(r.entries)
}
