package georand

import (
	"encoding/json"
	"strconv"

	geohash "github.com/TomiHiltunen/geohash-golang"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
)

// PointRecord is one accepted point of a sampling run.
type PointRecord struct {
	Lng     float64
	Lat     float64
	Index   int    // 1-based position within the run
	Country string // label supplied by the caller
	Geohash string // empty unless the sampler was built WithGeohash
}

// Feature returns r as a GeoJSON Point feature with properties "point" (the
// index as a string) and "country", plus "geohash" when set.
func (r PointRecord) Feature() *geojson.Feature {
	props := map[string]interface{}{
		"point":   strconv.Itoa(r.Index),
		"country": r.Country,
	}
	if r.Geohash != "" {
		props["geohash"] = r.Geohash
	}
	return &geojson.Feature{
		Geometry:   geom.NewPointFlat(geom.XY, []float64{r.Lng, r.Lat}),
		Properties: props,
	}
}

// FeatureCollection wraps records in a GeoJSON FeatureCollection.
func FeatureCollection(records []PointRecord) *geojson.FeatureCollection {
	fc := &geojson.FeatureCollection{
		Features: make([]*geojson.Feature, 0, len(records)),
	}
	for _, r := range records {
		fc.Features = append(fc.Features, r.Feature())
	}
	return fc
}

// EncodeFeatures encodes records as a GeoJSON FeatureCollection. Coordinates
// are written with the shortest representation that round-trips.
func EncodeFeatures(records []PointRecord) ([]byte, error) {
	return json.Marshal(FeatureCollection(records))
}

func encodeGeohash(lat, lng float64, precision int) string {
	return geohash.EncodeWithPrecision(lat, lng, precision)
}
