package autocomplete

import (
	"context"
	"places-autocomplete/internal/domain"
	"places-autocomplete/internal/platform/apperr"
	"places-autocomplete/internal/platform/logger"
	"places-autocomplete/internal/platform/validator"
)

// SelectFunc is the host callback invoked after a place is selected.
type SelectFunc func(ctx context.Context, sel Selection)

// RenderFunc renders one suggestion for display.
type RenderFunc func(place domain.Place) string

// ValueFunc derives the input text written back when a suggestion is chosen.
type ValueFunc func(place domain.Place) string

// Options configure a PlaceAutocomplete. OnSelect is required.
type Options struct {
	InitialValue string
	// InitialCoordinates is a pre-existing coordinate value ("<a>,<b>" in
	// Order), e.g. from a form being edited.
	InitialCoordinates string                 `validate:"omitempty,coordpair"`
	Order              domain.CoordinateOrder `validate:"min=0,max=1"`
	Query              domain.QueryOptions

	RenderSuggestion   RenderFunc
	GetSuggestionValue ValueFunc
	OnSelect           SelectFunc `validate:"required"`

	Logger *logger.Logger `validate:"-"`
}

// DefaultRender shows the place's display name.
func DefaultRender(place domain.Place) string {
	return place.PlaceName
}

var optionsValidator = validator.New()

func (o Options) validate() error {
	if err := optionsValidator.Struct(o); err != nil {
		return apperr.Wrap(apperr.KindConfiguration, "invalid autocomplete options", err).
			WithOp("autocomplete.New").
			WithDetails(validator.FieldErrors(err))
	}
	return nil
}
