package ports

import (
	"context"
	"errors"
)

// ErrCoordinatesNotFound is returned when a session has no stored coordinates.
var ErrCoordinatesNotFound = errors.New("coordinates not found")

// Port: holds the coordinate value of a session, the server-side counterpart
// of the widget's coordinate input.
type CoordinateStore interface {
	Put(ctx context.Context, sessionID string, value string) error
	Get(ctx context.Context, sessionID string) (string, error)
	Delete(ctx context.Context, sessionID string) error
}
