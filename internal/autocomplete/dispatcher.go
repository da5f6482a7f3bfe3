package autocomplete

import (
	"context"
	"log/slog"
	"places-autocomplete/internal/domain"
	"places-autocomplete/internal/platform/logger"
	"places-autocomplete/internal/ports"
)

// FetchResult is the settled outcome of one dispatched query.
type FetchResult struct {
	Query  string
	Places []domain.Place
	Err    error
}

// QueryDispatcher turns input values into geocoding requests.
//
// Every Dispatch issues its own request: nothing is de-duplicated, retried or
// cancelled when a newer query supersedes it.
type QueryDispatcher struct {
	geocoder ports.Geocoder
	opts     domain.QueryOptions
	log      *logger.Logger
}

func NewQueryDispatcher(geocoder ports.Geocoder, opts domain.QueryOptions, log *logger.Logger) *QueryDispatcher {
	if log == nil {
		log = logger.Discard()
	}
	return &QueryDispatcher{geocoder: geocoder, opts: opts, log: log}
}

// Dispatch issues one asynchronous request for value. The returned channel
// receives exactly one FetchResult. For a blank value no request is made and
// ok is false.
func (d *QueryDispatcher) Dispatch(ctx context.Context, value string) (_ <-chan FetchResult, ok bool) {
	if IsBlank(value) {
		return nil, false
	}

	out := make(chan FetchResult, 1)
	go func() {
		d.log.WithContext(ctx).Debug("geocode dispatch", slog.String("query", value))

		places, err := d.geocoder.ForwardGeocode(ctx, value, d.opts)
		out <- FetchResult{Query: value, Places: places, Err: err}
	}()
	return out, true
}
