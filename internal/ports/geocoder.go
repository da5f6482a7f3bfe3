package ports

import (
	"context"
	"places-autocomplete/internal/domain"
)

// Contract for forward geocoding a free-text query into candidate places.
type Geocoder interface {
	// Return candidate places for query, best match first. An empty slice
	// means the provider found nothing.
	ForwardGeocode(ctx context.Context, query string, opts domain.QueryOptions) ([]domain.Place, error)
}
