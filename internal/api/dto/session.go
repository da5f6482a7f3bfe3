package dto

import (
	"places-autocomplete/internal/domain"
	"time"
)

type CreateSessionRequest struct {
	InitialValue       string `json:"initial_value"`
	InitialCoordinates string `json:"initial_coordinates" binding:"omitempty,coordpair"`
	// "lnglat" (default) or "latlng".
	CoordinateOrder string `json:"coordinate_order" binding:"omitempty,oneof=lnglat lonlat latlng latlon"`

	// Geocoding filters. When all are unset the server defaults apply.
	Countries []string  `json:"countries"`
	Types     []string  `json:"types"`
	Proximity []float64 `json:"proximity" binding:"omitempty,len=2"`
	Limit     int       `json:"limit" binding:"min=0,max=10"`
	Language  string    `json:"language"`
}

type UpdateInputRequest struct {
	Value *string `json:"value" binding:"required"`
}

type FetchSuggestionsRequest struct {
	Value *string `json:"value"`
}

type SelectRequest struct {
	Index *int `json:"index" binding:"required,min=0"`
}

type SuggestionResponse struct {
	Label       string    `json:"label"`
	PlaceID     string    `json:"place_id"`
	PlaceName   string    `json:"place_name"`
	Coordinates []float64 `json:"coordinates"`
}

type SessionResponse struct {
	ID              string               `json:"id"`
	Value           string               `json:"value"`
	Coordinates     string               `json:"coordinates"`
	CoordinateOrder string               `json:"coordinate_order"`
	Suggestions     []SuggestionResponse `json:"suggestions"`
}

type SelectionResponse struct {
	Coordinates [2]float64   `json:"coordinates"`
	Value       string       `json:"value"`
	Place       domain.Place `json:"place"`
}

type StoredCoordinatesResponse struct {
	Coordinates string `json:"coordinates"`
}

type SelectionRecordResponse struct {
	SessionID       string    `json:"session_id"`
	PlaceID         string    `json:"place_id"`
	PlaceName       string    `json:"place_name"`
	Lon             float64   `json:"lon"`
	Lat             float64   `json:"lat"`
	Coordinates     string    `json:"coordinates"`
	CoordinateOrder string    `json:"coordinate_order"`
	SelectedAt      time.Time `json:"selected_at"`
}

type ListSelectionsResponse struct {
	Selections []SelectionRecordResponse `json:"selections"`
}
