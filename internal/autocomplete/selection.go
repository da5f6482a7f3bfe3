package autocomplete

import (
	"context"
	"places-autocomplete/internal/domain"
	"places-autocomplete/internal/platform/apperr"
)

// Selection is what the host receives when a place is chosen.
type Selection struct {
	// Pair is the coordinate pair in the configured order.
	Pair  [2]float64
	Value string
	Place domain.Place

	Result domain.CoordinateResult
}

// SelectionResolver derives coordinates from a chosen place and notifies the
// host.
type SelectionResolver struct {
	order    domain.CoordinateOrder
	onSelect SelectFunc
}

func NewSelectionResolver(order domain.CoordinateOrder, onSelect SelectFunc) (*SelectionResolver, error) {
	if onSelect == nil {
		return nil, apperr.Configuration("a selection callback is required").WithOp("autocomplete.NewSelectionResolver")
	}
	if order != domain.LngLat && order != domain.LatLng {
		return nil, apperr.Configuration("unknown coordinate order").WithOp("autocomplete.NewSelectionResolver")
	}
	return &SelectionResolver{order: order, onSelect: onSelect}, nil
}

func (r *SelectionResolver) Order() domain.CoordinateOrder {
	return r.order
}

// Resolve computes the Selection for place without notifying anyone.
func (r *SelectionResolver) Resolve(place domain.Place) (Selection, error) {
	c, err := place.Coordinates()
	if err != nil {
		return Selection{}, apperr.Wrap(apperr.KindValidation, "place has no usable coordinates", err).WithOp("autocomplete.Resolve")
	}

	res := domain.NewCoordinateResult(c, r.order)
	return Selection{
		Pair:   res.Pair,
		Value:  res.Value,
		Place:  place,
		Result: res,
	}, nil
}

// Notify invokes the host callback.
func (r *SelectionResolver) Notify(ctx context.Context, sel Selection) {
	r.onSelect(ctx, sel)
}
