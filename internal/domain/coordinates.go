package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Immutable geographic coordinates (longitude, latitude).
type Coordinates struct {
	Lon float64 `validate:"min=-180,max=180"`
	Lat float64 `validate:"min=-90,max=90"`
}

// Return coordinates as [lon, lat] for external API compatibility.
func (c Coordinates) CoordsToList() []float64 { return []float64{c.Lon, c.Lat} }

// CoordinateOrder selects which axis comes first in a CoordinateResult.
type CoordinateOrder int

const (
	// LngLat is the provider's native order and the default.
	LngLat CoordinateOrder = iota
	// LatLng is the "reversed" order many form backends expect.
	LatLng
)

func (o CoordinateOrder) String() string {
	if o == LatLng {
		return "latlng"
	}
	return "lnglat"
}

// ParseCoordinateOrder accepts "lnglat"/"lonlat" and "latlng"/"latlon".
// An empty string yields the default LngLat.
func ParseCoordinateOrder(s string) (CoordinateOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "lnglat", "lonlat":
		return LngLat, nil
	case "latlng", "latlon":
		return LatLng, nil
	default:
		return LngLat, fmt.Errorf("unknown coordinate order %q", s)
	}
}

// CoordinateResult is the coordinate pair produced by a selection, in the
// configured order, together with its canonical string form.
type CoordinateResult struct {
	Pair  [2]float64
	Value string
	Order CoordinateOrder
}

// NewCoordinateResult orders c according to order and formats it.
func NewCoordinateResult(c Coordinates, order CoordinateOrder) CoordinateResult {
	pair := [2]float64{c.Lon, c.Lat}
	if order == LatLng {
		pair = [2]float64{c.Lat, c.Lon}
	}
	return CoordinateResult{
		Pair:  pair,
		Value: FormatPair(pair[0], pair[1]),
		Order: order,
	}
}

// Coordinates converts the result back to lon/lat regardless of order.
func (r CoordinateResult) Coordinates() Coordinates {
	if r.Order == LatLng {
		return Coordinates{Lon: r.Pair[1], Lat: r.Pair[0]}
	}
	return Coordinates{Lon: r.Pair[0], Lat: r.Pair[1]}
}

// IsZero reports whether the result holds no selection.
func (r CoordinateResult) IsZero() bool {
	return r.Value == ""
}

// FormatPair joins two numbers with a comma using the shortest decimal
// representation that round-trips, e.g. "-122.4357,47.2366".
func FormatPair(a, b float64) string {
	return strconv.FormatFloat(a, 'f', -1, 64) + "," + strconv.FormatFloat(b, 'f', -1, 64)
}

// ParseCoordinateResult parses "<a>,<b>" written in the given order.
func ParseCoordinateResult(s string, order CoordinateOrder) (CoordinateResult, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return CoordinateResult{}, fmt.Errorf("parse coordinates %q: want two comma-separated numbers", s)
	}

	var pair [2]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return CoordinateResult{}, fmt.Errorf("parse coordinates %q: %w", s, err)
		}
		pair[i] = f
	}

	return CoordinateResult{
		Pair:  pair,
		Value: FormatPair(pair[0], pair[1]),
		Order: order,
	}, nil
}
