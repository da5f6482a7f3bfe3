package ports

import (
	"context"
	"places-autocomplete/internal/domain"
	"time"
)

// A place chosen by a user together with the coordinate value it produced.
type SelectionRecord struct {
	SessionID   string
	PlaceID     string
	PlaceName   string
	Coordinates domain.Coordinates
	Value       string
	Order       domain.CoordinateOrder
	SelectedAt  time.Time
}

// Port: append-only history of selections.
type SelectionRepository interface {
	Record(ctx context.Context, rec SelectionRecord) error
	// Return the most recent selections, newest first.
	ListRecent(ctx context.Context, limit int) ([]SelectionRecord, error)
}
