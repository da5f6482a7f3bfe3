package services

import (
	"context"
	"errors"
	"places-autocomplete/internal/adapters/geocoding"
	"places-autocomplete/internal/adapters/store"
	"places-autocomplete/internal/domain"
	"places-autocomplete/internal/platform/apperr"
	"places-autocomplete/internal/ports"
	"sync"
	"testing"
	"time"
)

var tacoma = domain.Place{
	ID:        "place.123",
	PlaceName: "Tacoma, Washington, United States",
	Geometry:  domain.Geometry{Type: "Point", Coordinates: []float64{-122.4357, 47.2366}},
}

type memorySelections struct {
	mu   sync.Mutex
	recs []ports.SelectionRecord
	err  error
}

func (m *memorySelections) Record(_ context.Context, rec ports.SelectionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.recs = append(m.recs, rec)
	return nil
}

func (m *memorySelections) ListRecent(_ context.Context, limit int) ([]ports.SelectionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]ports.SelectionRecord, 0, len(m.recs))
	for i := len(m.recs) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.recs[i])
	}
	return out, nil
}

func newTestService(t *testing.T, sel ports.SelectionRepository) (*SessionService, *geocoding.MockGeocoder, *store.MemoryCoordinateStore) {
	t.Helper()

	g := geocoding.NewMockGeocoder(map[string][]domain.Place{"tacoma": {tacoma}})
	coords := store.NewMemoryCoordinateStore(time.Hour)
	svc, err := NewSessionService(SessionServiceConfig{
		Geocoder:    g,
		Coordinates: coords,
		Selections:  sel,
		Defaults:    domain.QueryOptions{Countries: []string{"US"}},
		IdleTTL:     time.Minute,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return svc, g, coords
}

func TestSessionSelectStoresAndRecords(t *testing.T) {
	sel := &memorySelections{}
	svc, g, _ := newTestService(t, sel)
	ctx := context.Background()

	sess, err := svc.Create(ctx, CreateSessionParams{Order: domain.LatLng})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := svc.UpdateInput(ctx, sess.ID, "Tacoma"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.FetchSuggestions(ctx, sess.ID, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	calls := g.Calls()
	if len(calls) != 1 || calls[0].Query != "Tacoma" || calls[0].Options.Countries[0] != "US" {
		t.Fatalf("calls = %+v", calls)
	}

	got, err := svc.Select(ctx, sess.ID, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Value != "47.2366,-122.4357" {
		t.Errorf("Value = %q", got.Value)
	}

	stored, err := svc.StoredCoordinates(ctx, sess.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored != "47.2366,-122.4357" {
		t.Errorf("stored = %q", stored)
	}

	recent, err := svc.RecentSelections(ctx, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recent) != 1 || recent[0].SessionID != sess.ID || recent[0].Coordinates.Lon != -122.4357 {
		t.Fatalf("recent = %+v", recent)
	}
}

func TestSessionEmptyInputRemovesStoredCoordinates(t *testing.T) {
	svc, _, _ := newTestService(t, nil)
	ctx := context.Background()

	sess, err := svc.Create(ctx, CreateSessionParams{InitialValue: "Tacoma", InitialCoordinates: "-122.4357,47.2366"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored, err := svc.StoredCoordinates(ctx, sess.ID)
	if err != nil || stored != "-122.4357,47.2366" {
		t.Fatalf("stored = %q, err = %v", stored, err)
	}

	if _, err := svc.UpdateInput(ctx, sess.ID, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored, err = svc.StoredCoordinates(ctx, sess.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored != "" {
		t.Fatalf("stored = %q, want empty", stored)
	}
}

func TestSessionFetchWithValueUpdatesInput(t *testing.T) {
	svc, g, _ := newTestService(t, nil)
	ctx := context.Background()

	sess, err := svc.Create(ctx, CreateSessionParams{InitialValue: "Tac", InitialCoordinates: "1,2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	value := "Tacoma"
	if _, err := svc.FetchSuggestions(ctx, sess.ID, &value); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := sess.AC.Value(); got != "Tacoma" {
		t.Errorf("Value = %q, want Tacoma", got)
	}
	if n := len(sess.AC.Suggestions()); n != 1 {
		t.Errorf("suggestions = %d, want 1", n)
	}
	if calls := g.Calls(); len(calls) != 1 || calls[0].Query != "Tacoma" {
		t.Fatalf("calls = %+v", calls)
	}

	// A blank fetch empties the input and with it the stored coordinates.
	blank := " "
	if _, err := svc.FetchSuggestions(ctx, sess.ID, &blank); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := len(sess.AC.Suggestions()); n != 0 {
		t.Errorf("suggestions after blank fetch = %d, want 0", n)
	}
	stored, err := svc.StoredCoordinates(ctx, sess.ID)
	if err != nil || stored != "" {
		t.Fatalf("stored = %q, err = %v, want empty", stored, err)
	}
	if n := len(g.Calls()); n != 1 {
		t.Errorf("calls = %d, want 1", n)
	}
}

func TestSessionFetchUpstreamError(t *testing.T) {
	svc, g, _ := newTestService(t, nil)
	ctx := context.Background()

	sess, err := svc.Create(ctx, CreateSessionParams{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	g.FailWith(errors.New("connection reset"))
	value := "Tacoma"
	_, err = svc.FetchSuggestions(ctx, sess.ID, &value)
	if !apperr.Is(err, apperr.KindUpstream) {
		t.Fatalf("err = %v, want upstream error", err)
	}
}

func TestSessionLookupErrors(t *testing.T) {
	svc, _, _ := newTestService(t, nil)

	if _, err := svc.Get("not-a-uuid"); !apperr.Is(err, apperr.KindBadRequest) {
		t.Errorf("err = %v, want bad request", err)
	}
	if _, err := svc.Get("6f1c2d7e-8f5b-4a0e-9c1d-2b3a4c5d6e7f"); !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("err = %v, want not found", err)
	}
	if _, err := svc.RecentSelections(context.Background(), 10); !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("err = %v, want not found without repository", err)
	}
}

func TestSessionCreateRejectsBadOptions(t *testing.T) {
	svc, _, _ := newTestService(t, nil)

	_, err := svc.Create(context.Background(), CreateSessionParams{InitialCoordinates: "north"})
	if !apperr.Is(err, apperr.KindConfiguration) {
		t.Fatalf("err = %v, want configuration error", err)
	}
}

func TestSweepExpiresIdleSessions(t *testing.T) {
	svc, _, coords := newTestService(t, nil)
	ctx := context.Background()

	now := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	sess, err := svc.Create(ctx, CreateSessionParams{InitialValue: "Tacoma", InitialCoordinates: "1,2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	now = now.Add(30 * time.Second)
	if n := svc.Sweep(ctx); n != 0 {
		t.Fatalf("swept %d sessions before TTL", n)
	}

	now = now.Add(2 * time.Minute)
	if n := svc.Sweep(ctx); n != 1 {
		t.Fatalf("swept %d sessions, want 1", n)
	}
	if _, err := svc.Get(sess.ID); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("err = %v, want not found after sweep", err)
	}
	if _, err := coords.Get(ctx, sess.ID); !errors.Is(err, ports.ErrCoordinatesNotFound) {
		t.Fatalf("coordinates should be removed with the session, err = %v", err)
	}
}

func TestTemplateRenderer(t *testing.T) {
	render, err := TemplateRenderer("<h5>{{.PlaceName}}</h5>")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := render(domain.Place{PlaceName: "Fish & Chips <Tacoma>"})
	if want := "<h5>Fish &amp; Chips &lt;Tacoma&gt;</h5>"; got != want {
		t.Fatalf("render = %q, want %q", got, want)
	}

	if _, err := TemplateRenderer("{{.PlaceName"); err == nil {
		t.Fatal("expected parse error")
	}
}
