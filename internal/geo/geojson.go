// Package geo handles geographic data structures and their text encodings.
package geo

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

var ErrUnsupportedGeometry = errors.New("unsupported geometry type")

// Supported GeoJSON geometry types.
var supported = map[string]bool{
	"Point":           true,
	"MultiPoint":      true,
	"LineString":      true,
	"MultiLineString": true,
	"Polygon":         true,
	"MultiPolygon":    true,
}

// Geometry is a decoded GeoJSON geometry object (Point, Polygon, etc.).
type Geometry struct {
	geom orb.Geometry
	Type string
}

// ParseGeometry decodes a GeoJSON geometry object.
func ParseGeometry(data []byte) (Geometry, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return Geometry{}, fmt.Errorf("decode geometry: %w", err)
	}

	if !supported[head.Type] {
		return Geometry{}, fmt.Errorf("%w: %q", ErrUnsupportedGeometry, head.Type)
	}

	g, err := geojson.UnmarshalGeometry(data)
	if err != nil {
		return Geometry{}, fmt.Errorf("decode %s: %w", head.Type, err)
	}

	return Geometry{Type: head.Type, geom: g.Geometry()}, nil
}
