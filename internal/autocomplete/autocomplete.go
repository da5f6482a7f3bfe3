// Package autocomplete implements the suggestion-fetch-and-select workflow of
// a place search box: keystrokes dispatch geocoding queries, the latest
// settled response becomes the candidate list, and choosing a candidate
// produces a coordinate value and notifies the host.
//
// Fetches are not cancelled when a newer one starts. Whichever response
// settles last replaces the list, even if it answers an older query.
package autocomplete

import (
	"context"
	"fmt"
	"log/slog"
	"places-autocomplete/internal/domain"
	"places-autocomplete/internal/platform/apperr"
	"places-autocomplete/internal/platform/logger"
	"places-autocomplete/internal/ports"
	"strings"
	"sync"
)

// Suggestion is a candidate together with its rendered label.
type Suggestion struct {
	Label string
	Place domain.Place
}

// PlaceAutocomplete is one search box instance. It is safe for concurrent use.
type PlaceAutocomplete struct {
	dispatcher      *QueryDispatcher
	state           *SuggestionState
	resolver        *SelectionResolver
	render          RenderFunc
	suggestionValue ValueFunc
	log             *logger.Logger

	mu     sync.RWMutex
	coords domain.CoordinateResult

	inflight sync.WaitGroup
}

// New validates opts and builds a PlaceAutocomplete. Invalid options, including
// a missing OnSelect, fail with an apperr.KindConfiguration error.
func New(geocoder ports.Geocoder, opts Options) (*PlaceAutocomplete, error) {
	if geocoder == nil {
		return nil, apperr.Configuration("a geocoder is required").WithOp("autocomplete.New")
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}

	resolver, err := NewSelectionResolver(opts.Order, opts.OnSelect)
	if err != nil {
		return nil, err
	}

	var coords domain.CoordinateResult
	if opts.InitialCoordinates != "" {
		coords, err = domain.ParseCoordinateResult(opts.InitialCoordinates, opts.Order)
		if err != nil {
			return nil, apperr.Wrap(apperr.KindConfiguration, "invalid initial coordinates", err).WithOp("autocomplete.New")
		}
	}

	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}

	render := opts.RenderSuggestion
	if render == nil {
		render = DefaultRender
	}
	value := opts.GetSuggestionValue
	if value == nil {
		value = DefaultRender
	}

	return &PlaceAutocomplete{
		dispatcher:      NewQueryDispatcher(geocoder, opts.Query, log),
		state:           NewSuggestionState(opts.InitialValue),
		resolver:        resolver,
		render:          render,
		suggestionValue: value,
		log:             log,
		coords:          coords,
	}, nil
}

// Value returns the current input text.
func (p *PlaceAutocomplete) Value() string {
	return p.state.Value()
}

// Coordinates returns the coordinate result of the last selection, or the
// zero value when there is none.
func (p *PlaceAutocomplete) Coordinates() domain.CoordinateResult {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.coords
}

// CoordinateValue is the formatted coordinate string, "" when unset.
func (p *PlaceAutocomplete) CoordinateValue() string {
	return p.Coordinates().Value
}

func (p *PlaceAutocomplete) Order() domain.CoordinateOrder {
	return p.resolver.Order()
}

// SetValue records a change of the input text. A blank value clears both the
// candidates and the coordinate value so no stale coordinates outlive the
// place name they belong to.
func (p *PlaceAutocomplete) SetValue(value string) {
	if p.state.SetValue(value) {
		p.clearCoordinates()
	}
}

func (p *PlaceAutocomplete) clearCoordinates() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.coords = domain.CoordinateResult{}
}

// RequestSuggestions starts a fetch for value and returns a channel that
// receives the fetch error (nil on success) once the candidate list has been
// updated. A blank value clears the candidates without issuing a request.
//
// A failed fetch leaves the candidate list unchanged.
func (p *PlaceAutocomplete) RequestSuggestions(ctx context.Context, value string) <-chan error {
	done := make(chan error, 1)

	results, ok := p.dispatcher.Dispatch(ctx, value)
	if !ok {
		p.state.Clear()
		done <- nil
		return done
	}

	p.inflight.Add(1)
	go func() {
		defer p.inflight.Done()

		res := <-results
		if res.Err != nil {
			p.log.WithContext(ctx).Warn("fetch suggestions failed",
				slog.String("query", res.Query),
				slog.String("error", res.Err.Error()),
			)
			done <- fmt.Errorf("fetch suggestions %q: %w", res.Query, res.Err)
			return
		}

		p.state.SetPlaces(res.Places)
		done <- nil
	}()
	return done
}

// FetchSuggestions is RequestSuggestions followed by waiting for the result.
func (p *PlaceAutocomplete) FetchSuggestions(ctx context.Context, value string) error {
	return <-p.RequestSuggestions(ctx, value)
}

// ClearSuggestions empties the candidate list.
func (p *PlaceAutocomplete) ClearSuggestions() {
	p.state.Clear()
}

// Suggestions returns the current candidates with their rendered labels.
func (p *PlaceAutocomplete) Suggestions() []Suggestion {
	places := p.state.Places()
	out := make([]Suggestion, 0, len(places))
	for _, pl := range places {
		out = append(out, Suggestion{Label: p.render(pl), Place: pl})
	}
	return out
}

// Select chooses the candidate at index.
func (p *PlaceAutocomplete) Select(ctx context.Context, index int) (Selection, error) {
	place, ok := p.state.At(index)
	if !ok {
		return Selection{}, apperr.NotFound(fmt.Sprintf("no suggestion at index %d", index)).WithOp("autocomplete.Select")
	}
	return p.SelectPlace(ctx, place)
}

// SelectPlace resolves place, writes its display value back into the input,
// stores the coordinate value, clears the candidates and finally invokes the
// host callback. A blank suggestion value falls back to the place name; a
// place with neither is rejected so coordinates never sit behind an empty
// input.
func (p *PlaceAutocomplete) SelectPlace(ctx context.Context, place domain.Place) (Selection, error) {
	sel, err := p.resolver.Resolve(place)
	if err != nil {
		return Selection{}, err
	}

	value := p.suggestionValue(place)
	if IsBlank(value) {
		value = place.PlaceName
	}
	if IsBlank(value) {
		return Selection{}, apperr.Validation("selected place has no display value").WithOp("autocomplete.SelectPlace")
	}

	p.state.SetValue(value)
	p.state.Clear()

	p.mu.Lock()
	p.coords = sel.Result
	p.mu.Unlock()

	p.resolver.Notify(ctx, sel)
	return sel, nil
}

// Wait blocks until every fetch started so far has settled.
func (p *PlaceAutocomplete) Wait() {
	p.inflight.Wait()
}

// IsBlank reports whether s counts as an empty input.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
