package georand

import (
	"github.com/golang/geo/r1"
	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

// locatorMaxCells bounds the S2 covering of each country's bounding box.
// Candidates from the index still go through the exact within test.
const locatorMaxCells = 8

// locatorMaxLevel is the finest cell level used in coverings (~150m cells).
const locatorMaxLevel = 16

type located struct {
	country Country
	shape   *Shape
}

// locator is an S2 cell index over country bounding boxes.
type locator struct {
	cells  map[s2.CellID][]int
	shapes []located
}

// buildLocator assembles every country's shape and indexes its bounding box.
// Countries whose boundary cannot be assembled are skipped.
func (r *Registry) buildLocator() *locator {
	loc := &locator{cells: make(map[s2.CellID][]int)}
	coverer := &s2.RegionCoverer{MaxLevel: locatorMaxLevel, LevelMod: 1, MaxCells: locatorMaxCells}
	// The registry keeps the last boundary stored under a UN code, so the
	// last feature's identifiers are the ones that match it.
	last := make(map[int]int, len(r.countries))
	for i, c := range r.countries {
		last[c.UN] = i
	}
	for i, c := range r.countries {
		if last[c.UN] != i {
			continue
		}
		shape, err := r.ShapeByCode(c.UN)
		if err != nil {
			r.config.Logger.Warn("skipping country in locator", "un", c.UN, "name", c.Name, "err", err)
			continue
		}
		idx := len(loc.shapes)
		loc.shapes = append(loc.shapes, located{country: c, shape: shape})
		for _, cell := range coverer.Covering(rectOf(shape.Bounds())) {
			loc.cells[cell] = append(loc.cells[cell], idx)
		}
	}
	return loc
}

// rectOf converts a bounding box in degrees to an S2 lat/lng rectangle.
func rectOf(b BoundingBox) s2.Rect {
	deg := func(d float64) float64 { return (s1.Angle(d) * s1.Degree).Radians() }
	lng := s1.Interval{Lo: deg(b.MinLng), Hi: deg(b.MaxLng)}
	if b.MaxLng-b.MinLng >= 360 {
		lng = s1.FullInterval()
	}
	return s2.Rect{
		Lat: r1.Interval{Lo: deg(b.MinLat), Hi: deg(b.MaxLat)},
		Lng: lng,
	}
}

// Locate returns the country whose boundary strictly contains (lng, lat).
// The index is built on first use.
func (r *Registry) Locate(lng, lat float64) (Country, bool) {
	loc := r.locator()
	leaf := s2.CellIDFromLatLng(s2.LatLngFromDegrees(lat, lng))
	checked := make(map[int]bool)
	for level := leaf.Level(); level >= 0; level-- {
		for _, idx := range loc.cells[leaf.Parent(level)] {
			if checked[idx] {
				continue
			}
			checked[idx] = true
			if l := loc.shapes[idx]; l.shape.Contains(lng, lat) {
				return l.country, true
			}
		}
	}
	return Country{}, false
}
