package geo

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"geomap/api/log"
)

// collectionSchema checks only the envelope. Feature and vertex problems are skipped during
// parsing instead of rejecting the whole file.
const collectionSchema = `{
  "type": "object",
  "required": ["type", "features"],
  "properties": {
    "type": {"enum": ["FeatureCollection"]},
    "features": {
      "type": "array",
      "items": {"type": "object"}
    }
  }
}`

var collectionLoader = gojsonschema.NewStringLoader(collectionSchema)

// ValidateCollection checks that data is a FeatureCollection with a features array.
func ValidateCollection(data []byte) error {
	res, err := gojsonschema.Validate(collectionLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("validate geojson: %w", err)
	}
	if !res.Valid() {
		msgs := make([]string, 0, len(res.Errors()))
		for _, e := range res.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("invalid geojson: %s", strings.Join(msgs, "; "))
	}
	return nil
}

type rawCollection struct {
	Features []rawFeature `json:"features"`
}

type rawFeature struct {
	Properties struct {
		Name string `json:"name"`
	} `json:"properties"`
	Geometry *struct {
		Type        string          `json:"type"`
		Coordinates json.RawMessage `json:"coordinates"`
	} `json:"geometry"`
}

// LoadFile reads and parses a GeoJSON FeatureCollection from disk.
func LoadFile(path string) ([]Region, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return LoadFeatureCollection(data)
}

// LoadFeatureCollection parses regions in document order. Features whose geometry is missing or
// of an unsupported type are dropped; vertices that are not a numeric pair are dropped.
func LoadFeatureCollection(data []byte) ([]Region, error) {
	if err := ValidateCollection(data); err != nil {
		return nil, err
	}
	var fc rawCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("decode geojson: %w", err)
	}

	regions := make([]Region, 0, len(fc.Features))
	for i, f := range fc.Features {
		if f.Geometry == nil {
			log.Debugf("geojson feature %d (%s): no geometry", i, f.Properties.Name)
			continue
		}
		r := Region{Name: f.Properties.Name, Kind: f.Geometry.Type}
		switch f.Geometry.Type {
		case KindPolygon:
			var rings []json.RawMessage
			if err := json.Unmarshal(f.Geometry.Coordinates, &rings); err != nil {
				log.Debugf("geojson feature %d (%s): bad polygon: %v", i, r.Name, err)
				continue
			}
			r.Polygons = []Polygon{parsePolygon(rings)}
		case KindMultiPolygon:
			var parts [][]json.RawMessage
			if err := json.Unmarshal(f.Geometry.Coordinates, &parts); err != nil {
				log.Debugf("geojson feature %d (%s): bad multipolygon: %v", i, r.Name, err)
				continue
			}
			for _, part := range parts {
				r.Polygons = append(r.Polygons, parsePolygon(part))
			}
		default:
			log.Debugf("geojson feature %d (%s): unsupported geometry %q", i, r.Name, f.Geometry.Type)
			continue
		}
		regions = append(regions, r)
	}
	return regions, nil
}

func parsePolygon(rings []json.RawMessage) Polygon {
	poly := make(Polygon, 0, len(rings))
	for _, raw := range rings {
		poly = append(poly, parseRing(raw))
	}
	return poly
}

// parseRing keeps only vertices that decode as exactly two numbers.
func parseRing(raw json.RawMessage) Ring {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	ring := make(Ring, 0, len(items))
	for _, it := range items {
		var pair []any
		if err := json.Unmarshal(it, &pair); err != nil || len(pair) != 2 {
			continue
		}
		lon, okLon := pair[0].(float64)
		lat, okLat := pair[1].(float64)
		if !okLon || !okLat {
			continue
		}
		ring = append(ring, LonLat{Lon: lon, Lat: lat})
	}
	return ring
}
