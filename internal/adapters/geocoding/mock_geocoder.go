package geocoding

import (
	"context"
	"places-autocomplete/internal/domain"
	"strings"
	"sync"
)

// MockGeocoder returns canned places keyed by query (case-insensitive) and
// records every call it receives.
type MockGeocoder struct {
	mu      sync.Mutex
	results map[string][]domain.Place
	err     error
	calls   []MockCall
}

type MockCall struct {
	Query   string
	Options domain.QueryOptions
}

func NewMockGeocoder(results map[string][]domain.Place) *MockGeocoder {
	m := make(map[string][]domain.Place, len(results))
	for q, places := range results {
		m[strings.ToLower(q)] = places
	}
	return &MockGeocoder{results: m}
}

// FailWith makes every subsequent call return err.
func (g *MockGeocoder) FailWith(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.err = err
}

func (g *MockGeocoder) ForwardGeocode(ctx context.Context, query string, opts domain.QueryOptions) ([]domain.Place, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.calls = append(g.calls, MockCall{Query: query, Options: opts})
	if g.err != nil {
		return nil, g.err
	}
	return g.results[strings.ToLower(query)], nil
}

// Calls returns a copy of the calls received so far.
func (g *MockGeocoder) Calls() []MockCall {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]MockCall(nil), g.calls...)
}
