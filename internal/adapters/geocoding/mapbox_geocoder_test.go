package geocoding

import (
	"context"
	"net/http"
	"net/http/httptest"
	"places-autocomplete/internal/domain"
	"places-autocomplete/internal/platform/apperr"
	"strings"
	"sync/atomic"
	"testing"
)

const tacomaResponse = `{
	"type": "FeatureCollection",
	"query": ["tacoma"],
	"features": [
		{
			"id": "place.123",
			"type": "Feature",
			"place_type": ["place"],
			"relevance": 1,
			"text": "Tacoma",
			"place_name": "Tacoma, Washington, United States",
			"center": [-122.4357, 47.2366],
			"geometry": {"type": "Point", "coordinates": [-122.4357, 47.2366]}
		},
		{
			"id": "poi.456",
			"type": "Feature",
			"place_type": ["poi"],
			"relevance": 0.9,
			"text": "Tacoma Dome",
			"place_name": "Tacoma Dome, 2727 E D St, Tacoma, Washington 98421, United States",
			"center": [-122.4269, 47.2364],
			"geometry": {"type": "Point", "coordinates": [-122.4269, 47.2364]}
		}
	]
}`

func newTestGeocoder(t *testing.T, h http.HandlerFunc) *MapboxGeocoder {
	t.Helper()

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	g, err := NewMapboxGeocoder(MapboxConfig{AccessToken: "pk.secret", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return g
}

func TestForwardGeocodeSendsQueryAndFilters(t *testing.T) {
	var hits int32
	g := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)

		if r.URL.Path != "/geocoding/v5/mapbox.places/Tacoma WA.json" {
			t.Errorf("path = %q", r.URL.Path)
		}
		q := r.URL.Query()
		want := map[string]string{
			"access_token": "pk.secret",
			"autocomplete": "true",
			"country":      "us,ca",
			"types":        "place,poi",
			"proximity":    "-122.4357428,47.2365706",
			"limit":        "5",
			"language":     "en",
		}
		for k, v := range want {
			if got := q.Get(k); got != v {
				t.Errorf("param %s = %q, want %q", k, got, v)
			}
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(tacomaResponse))
	})

	opts := domain.QueryOptions{
		Countries: []string{"US", "CA"},
		Types:     []string{"place", "poi"},
		Proximity: &domain.Coordinates{Lon: -122.4357428, Lat: 47.2365706},
		Limit:     5,
		Language:  "en",
	}

	places, err := g.ForwardGeocode(context.Background(), "  Tacoma   WA ", opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if hits != 1 {
		t.Fatalf("requests = %d, want 1", hits)
	}
	if len(places) != 2 {
		t.Fatalf("places = %d, want 2", len(places))
	}
	if places[0].PlaceName != "Tacoma, Washington, United States" {
		t.Errorf("first place = %q", places[0].PlaceName)
	}
	c, err := places[1].Coordinates()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Lon != -122.4269 || c.Lat != 47.2364 {
		t.Errorf("second place coordinates = %+v", c)
	}
}

func TestForwardGeocodeOmitsUnsetFilters(t *testing.T) {
	g := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		for _, k := range []string{"country", "types", "proximity", "limit", "language"} {
			if q.Has(k) {
				t.Errorf("unexpected param %s=%q", k, q.Get(k))
			}
		}
		_, _ = w.Write([]byte(`{"type":"FeatureCollection","features":[]}`))
	})

	places, err := g.ForwardGeocode(context.Background(), "nowhere", domain.QueryOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if places == nil || len(places) != 0 {
		t.Fatalf("places = %v, want empty non-nil slice", places)
	}
}

func TestForwardGeocodeRejectsBlankQuery(t *testing.T) {
	g := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for a blank query")
	})

	_, err := g.ForwardGeocode(context.Background(), "   ", domain.QueryOptions{})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("err = %v, want validation error", err)
	}
}

func TestForwardGeocodeUpstreamStatus(t *testing.T) {
	var hits int32
	g := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		http.Error(w, `{"message":"Not Authorized - Invalid Token"}`, http.StatusUnauthorized)
	})

	_, err := g.ForwardGeocode(context.Background(), "Tacoma", domain.QueryOptions{})
	if err == nil {
		t.Fatal("expected error")
	}
	if !apperr.Is(err, apperr.KindUpstream) {
		t.Errorf("err kind = %d, want KindUpstream", apperr.GetKind(err))
	}
	if !IsStatus(err, http.StatusUnauthorized) {
		t.Errorf("expected 401 status error, got %v", err)
	}
	if hits != 1 {
		t.Errorf("requests = %d, want exactly 1 (no retry)", hits)
	}
}

func TestForwardGeocodeTransportErrorRedactsToken(t *testing.T) {
	g, err := NewMapboxGeocoder(MapboxConfig{AccessToken: "pk.secret", BaseURL: "http://127.0.0.1:1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = g.ForwardGeocode(context.Background(), "Tacoma", domain.QueryOptions{})
	if err == nil {
		t.Fatal("expected transport error")
	}
	if strings.Contains(err.Error(), "pk.secret") {
		t.Fatalf("error leaks access token: %v", err)
	}
}

func TestNewMapboxGeocoderRequiresToken(t *testing.T) {
	_, err := NewMapboxGeocoder(MapboxConfig{})
	if !apperr.Is(err, apperr.KindConfiguration) {
		t.Fatalf("err = %v, want configuration error", err)
	}
}
