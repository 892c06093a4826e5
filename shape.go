package georand

import (
	"github.com/cockroachdb/errors"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	"github.com/twpayne/go-geom/xy"
	"github.com/twpayne/go-geom/xy/location"
)

// Shape kinds.
const (
	KindPolygon      = "Polygon"
	KindMultiPolygon = "MultiPolygon"
)

// BoundingBox is the axis-aligned envelope of a Shape, in degrees.
type BoundingBox struct {
	MinLng, MinLat float64
	MaxLng, MaxLat float64
}

// part is one simple polygon of a Shape: a closed outer ring plus the holes
// kept for it, all as flat XY coordinates.
type part struct {
	outer []float64
	holes [][]float64
}

// Shape is a country boundary ready for sampling.
type Shape struct {
	kind     string
	parts    []part
	geometry geom.T
	bounds   BoundingBox
}

// Shape resolves identifier and assembles its boundary. See NewShape for
// how Polygon and MultiPolygon boundaries are interpreted.
func (r *Registry) Shape(identifier string) (*Shape, error) {
	un, raw, err := r.Resolve(identifier)
	if err != nil {
		return nil, err
	}
	return r.assemble(un, raw)
}

// ShapeByCode assembles the boundary stored under a UN code.
func (r *Registry) ShapeByCode(un int) (*Shape, error) {
	raw, ok := r.Boundary(un)
	if !ok {
		return nil, errors.Wrapf(ErrMissingBoundary, "%d", un)
	}
	return r.assemble(un, raw)
}

func (r *Registry) assemble(un int, raw *geojson.Geometry) (*Shape, error) {
	g, err := raw.Decode()
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "decoding boundary of %d", un), ErrMalformedShape)
	}
	s, err := NewShape(g, r.config.Holes)
	if err != nil {
		return nil, errors.Wrapf(err, "boundary of %d", un)
	}
	return s, nil
}

// NewShape assembles a Shape from a decoded geometry.
//
// A Polygon contributes its outer ring only. A MultiPolygon contributes
// every ring of every group as a solid polygon of its own, so inner rings
// are not holes. With holes set, inner rings of both kinds are kept as
// exclusion zones instead. Any other geometry fails with ErrMalformedShape.
func NewShape(g geom.T, holes bool) (*Shape, error) {
	var groups [][][]geom.Coord
	var kind string
	switch t := g.(type) {
	case *geom.Polygon:
		kind = KindPolygon
		if t != nil {
			groups = [][][]geom.Coord{t.Coords()}
		}
	case *geom.MultiPolygon:
		kind = KindMultiPolygon
		if t != nil {
			groups = t.Coords()
		}
	case nil:
		return nil, errors.Wrap(ErrMalformedShape, "no geometry")
	default:
		return nil, errors.Wrapf(ErrMalformedShape, "unsupported geometry %T", g)
	}

	s := &Shape{kind: kind}
	for _, rings := range groups {
		if len(rings) == 0 {
			continue
		}
		switch {
		case holes:
			p := part{outer: closeRing(rings[0])}
			for _, h := range rings[1:] {
				if hole := closeRing(h); hole != nil {
					p.holes = append(p.holes, hole)
				}
			}
			s.parts = append(s.parts, p)
		case kind == KindPolygon:
			s.parts = append(s.parts, part{outer: closeRing(rings[0])})
		default:
			for _, ring := range rings {
				s.parts = append(s.parts, part{outer: closeRing(ring)})
			}
		}
	}
	if len(s.parts) == 0 {
		return nil, errors.Wrapf(ErrMalformedShape, "empty %s", kind)
	}
	for _, p := range s.parts {
		if len(p.outer) == 0 {
			return nil, errors.Wrapf(ErrMalformedShape, "empty ring in %s", kind)
		}
	}
	s.geometry = s.buildGeometry()
	s.bounds = boundsOf(s.geometry.Bounds())
	return s, nil
}

// closeRing flattens ring to XY, dropping any Z or M ordinates, and repeats
// the first vertex at the end if the ring is open.
func closeRing(ring []geom.Coord) []float64 {
	if len(ring) == 0 {
		return nil
	}
	flat := make([]float64, 0, 2*len(ring)+2)
	for _, c := range ring {
		if len(c) < 2 {
			return nil
		}
		flat = append(flat, c[0], c[1])
	}
	n := len(flat)
	if flat[0] != flat[n-2] || flat[1] != flat[n-1] || n == 2 {
		flat = append(flat, flat[0], flat[1])
	}
	return flat
}

// buildGeometry returns the assembled parts as a go-geom geometry: a
// Polygon for a single part of a Polygon boundary, a MultiPolygon otherwise.
func (s *Shape) buildGeometry() geom.T {
	var flat []float64
	endss := make([][]int, 0, len(s.parts))
	for _, p := range s.parts {
		flat = append(flat, p.outer...)
		ends := []int{len(flat)}
		for _, h := range p.holes {
			flat = append(flat, h...)
			ends = append(ends, len(flat))
		}
		endss = append(endss, ends)
	}
	if s.kind == KindPolygon && len(s.parts) == 1 {
		return geom.NewPolygonFlat(geom.XY, flat, endss[0])
	}
	return geom.NewMultiPolygonFlat(geom.XY, flat, endss)
}

func boundsOf(b *geom.Bounds) BoundingBox {
	return BoundingBox{
		MinLng: b.Min(0),
		MinLat: b.Min(1),
		MaxLng: b.Max(0),
		MaxLat: b.Max(1),
	}
}

// Kind returns KindPolygon or KindMultiPolygon.
func (s *Shape) Kind() string { return s.kind }

// Geometry returns the assembled geometry.
func (s *Shape) Geometry() geom.T { return s.geometry }

// NumParts returns the number of simple polygons in s.
func (s *Shape) NumParts() int { return len(s.parts) }

// Bounds returns the envelope of s.
func (s *Shape) Bounds() BoundingBox { return s.bounds }

// MinLng returns the smallest longitude of s.
func (s *Shape) MinLng() float64 { return s.bounds.MinLng }

// MinLat returns the smallest latitude of s.
func (s *Shape) MinLat() float64 { return s.bounds.MinLat }

// MaxLng returns the largest longitude of s.
func (s *Shape) MaxLng() float64 { return s.bounds.MaxLng }

// MaxLat returns the largest latitude of s.
func (s *Shape) MaxLat() float64 { return s.bounds.MaxLat }

// Contains reports whether (lng, lat) lies strictly within s: in the
// interior of some part and outside that part's holes. Points on a ring are
// not within.
func (s *Shape) Contains(lng, lat float64) bool {
	b := s.bounds
	if lng < b.MinLng || lng > b.MaxLng || lat < b.MinLat || lat > b.MaxLat {
		return false
	}
	p := geom.Coord{lng, lat}
	for _, pt := range s.parts {
		if xy.LocatePointInRing(geom.XY, p, pt.outer) != location.Interior {
			continue
		}
		inHole := false
		for _, h := range pt.holes {
			if xy.LocatePointInRing(geom.XY, p, h) != location.Exterior {
				inHole = true
				break
			}
		}
		if !inHole {
			return true
		}
	}
	return false
}
