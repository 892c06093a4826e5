package georand

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
)

func TestUnitSquareBounds(t *testing.T) {
	reg := loadTestRegistry(t)
	shape, err := reg.Shape("Italy")
	require.NoError(t, err)

	require.Equal(t, KindPolygon, shape.Kind())
	require.Equal(t, 0.0, shape.MinLng())
	require.Equal(t, 1.0, shape.MaxLng())
	require.Equal(t, 0.0, shape.MinLat())
	require.Equal(t, 1.0, shape.MaxLat())
	require.Equal(t, BoundingBox{MinLng: 0, MinLat: 0, MaxLng: 1, MaxLat: 1}, shape.Bounds())
}

func TestMultiPolygonUnionEnvelope(t *testing.T) {
	reg := loadTestRegistry(t)
	shape, err := reg.Shape("TWL")
	require.NoError(t, err)

	require.Equal(t, KindMultiPolygon, shape.Kind())
	require.Equal(t, 2, shape.NumParts())
	require.Equal(t, BoundingBox{MinLng: 10, MinLat: 10, MaxLng: 13, MaxLat: 13}, shape.Bounds())
	require.IsType(t, &geom.MultiPolygon{}, shape.Geometry())
}

func TestMalformedShapes(t *testing.T) {
	reg := loadTestRegistry(t)

	_, err := reg.Shape("Lineland")
	require.True(t, errors.Is(err, ErrMalformedShape), "err = %v", err)
	require.False(t, errors.Is(err, ErrUnknownCountry))

	unknown, err := LoadRegistry("testdata/unknown_type.geojson")
	require.NoError(t, err, "unknown geometry types are only rejected at shape setup")
	_, err = unknown.Shape("Circleland")
	require.True(t, errors.Is(err, ErrMalformedShape), "err = %v", err)

	_, err = reg.Shape("Atlantis")
	require.True(t, errors.Is(err, ErrUnknownCountry), "err = %v", err)
	require.False(t, errors.Is(err, ErrMalformedShape))
}

func TestNewShapeRejects(t *testing.T) {
	tests := []struct {
		name string
		g    geom.T
	}{
		{"nil", nil},
		{"nil polygon", (*geom.Polygon)(nil)},
		{"empty polygon", geom.NewPolygon(geom.XY)},
		{"empty multipolygon", geom.NewMultiPolygon(geom.XY)},
		{"point", geom.NewPointFlat(geom.XY, []float64{1, 2})},
		{"linestring", geom.NewLineStringFlat(geom.XY, []float64{0, 0, 1, 1})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewShape(tt.g, false)
			require.Nil(t, s)
			require.True(t, errors.Is(err, ErrMalformedShape), "err = %v", err)
		})
	}
}

func TestContains(t *testing.T) {
	reg := loadTestRegistry(t)
	square, err := reg.Shape("Italy")
	require.NoError(t, err)

	tests := []struct {
		name     string
		lng, lat float64
		want     bool
	}{
		{"center", 0.5, 0.5, true},
		{"near corner", 1e-9, 1e-9, true},
		{"edge", 0.5, 0, false},
		{"closing edge", 0, 0.5, false},
		{"vertex", 1, 1, false},
		{"outside", 1.5, 0.5, false},
		{"far away", -120, 45, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, square.Contains(tt.lng, tt.lat))
		})
	}
}

func TestHoleHandling(t *testing.T) {
	tests := []struct {
		name      string
		country   string
		holes     bool
		wantParts int
		inHole    bool
	}{
		// A Polygon keeps only its outer ring.
		{"polygon flattened", "Ringland", false, 1, true},
		{"polygon with holes", "Ringland", true, 1, false},
		// Every MultiPolygon ring becomes a solid polygon.
		{"multipolygon flattened", "Lakeland", false, 2, true},
		{"multipolygon with holes", "Lakeland", true, 1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := loadTestRegistry(t, WithHoles(tt.holes))
			shape, err := reg.Shape(tt.country)
			require.NoError(t, err)
			require.Equal(t, tt.wantParts, shape.NumParts())

			b := shape.Bounds()
			midLng, midLat := (b.MinLng+b.MaxLng)/2, (b.MinLat+b.MaxLat)/2
			require.Equal(t, tt.inHole, shape.Contains(midLng, midLat))
			// Between the outer ring and the hole is always within.
			require.True(t, shape.Contains(b.MinLng+0.5, b.MinLat+0.5))
			// The hole's own ring is never within when holes are kept.
			if tt.holes {
				require.False(t, shape.Contains(b.MinLng+1, midLat))
			}
		})
	}
}

func TestOpenRingIsClosed(t *testing.T) {
	open := geom.NewPolygon(geom.XY).MustSetCoords([][]geom.Coord{
		{{0, 0}, {4, 0}, {0, 4}},
	})
	shape, err := NewShape(open, false)
	require.NoError(t, err)
	require.True(t, shape.Contains(1, 1))
	// The closing edge from (0,4) back to (0,0) is a boundary.
	require.False(t, shape.Contains(0, 2))
	require.False(t, shape.Contains(3, 3))
}

func TestDegenerateBounds(t *testing.T) {
	point := geom.NewPolygon(geom.XY).MustSetCoords([][]geom.Coord{{{7, 8}}})
	shape, err := NewShape(point, false)
	require.NoError(t, err)
	b := shape.Bounds()
	require.Equal(t, b.MinLng, b.MaxLng)
	require.Equal(t, b.MinLat, b.MaxLat)
	require.False(t, shape.Contains(7, 8))

	line := geom.NewPolygon(geom.XY).MustSetCoords([][]geom.Coord{{{0, 0}, {2, 0}}})
	shape, err = NewShape(line, false)
	require.NoError(t, err)
	require.Equal(t, 0.0, shape.MinLat())
	require.Equal(t, 0.0, shape.MaxLat())
	require.Equal(t, 2.0, shape.MaxLng())
}

func TestThreeDimensionalRingsAreFlattened(t *testing.T) {
	g := geom.NewPolygon(geom.XYZ).MustSetCoords([][]geom.Coord{
		{{0, 0, 100}, {2, 0, 100}, {2, 2, 100}, {0, 2, 100}, {0, 0, 100}},
	})
	shape, err := NewShape(g, false)
	require.NoError(t, err)
	require.Equal(t, geom.XY, shape.Geometry().Layout())
	require.True(t, shape.Contains(1, 1))
}
