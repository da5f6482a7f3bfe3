package domain

import "fmt"

// Place is a geocoding candidate as returned by the provider (a GeoJSON
// feature). Geometry coordinates are ordered (longitude, latitude).
type Place struct {
	ID        string    `json:"id"`
	Type      string    `json:"type,omitempty"`
	PlaceType []string  `json:"place_type,omitempty"`
	Relevance float64   `json:"relevance,omitempty"`
	Text      string    `json:"text,omitempty"`
	PlaceName string    `json:"place_name"`
	Center    []float64 `json:"center,omitempty"`
	Geometry  Geometry  `json:"geometry"`
}

type Geometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

// Coordinates extracts the (lon, lat) pair from the place geometry.
func (p Place) Coordinates() (Coordinates, error) {
	if len(p.Geometry.Coordinates) != 2 {
		return Coordinates{}, fmt.Errorf("place %q: invalid coordinate format (got %d values)", p.PlaceName, len(p.Geometry.Coordinates))
	}
	return Coordinates{
		Lon: p.Geometry.Coordinates[0],
		Lat: p.Geometry.Coordinates[1],
	}, nil
}
