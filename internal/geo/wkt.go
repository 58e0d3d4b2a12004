package geo

import "github.com/paulmach/orb/encoding/wkt"

// WKT encodes the geometry as compact Well-Known Text,
// e.g. POLYGON((0 0,1 0,1 1,0 0)). Altitude is not kept.
func (g Geometry) WKT() string {
	return wkt.MarshalString(g.geom)
}
