package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"places-autocomplete/internal/domain"
	"places-autocomplete/internal/platform/logger"
	"places-autocomplete/internal/platform/obs"
	"places-autocomplete/internal/ports"
	"strings"
)

const maxListLimit = 100

// SQLSelectionRepository stores selections in Postgres.
type SQLSelectionRepository struct {
	DB  *sql.DB
	Log *logger.Logger
}

func NewSQLSelectionRepository(db *sql.DB, log *logger.Logger) *SQLSelectionRepository {
	return &SQLSelectionRepository{DB: db, Log: log}
}

// Append one selection to the history.
func (s *SQLSelectionRepository) Record(ctx context.Context, rec ports.SelectionRecord) (err error) {
	defer obs.Time(ctx, s.Log, "selections.Record")(&err)

	if s.DB == nil {
		return errors.New("selection repository: db is nil")
	}
	if strings.TrimSpace(rec.SessionID) == "" {
		return errors.New("record selection: empty session id")
	}

	q := `
	INSERT INTO place_selections (
		session_id,
		place_id,
		place_name,
		lon,
		lat,
		coordinate_value,
		coordinate_order,
		selected_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`

	_, err = s.DB.ExecContext(ctx, q,
		rec.SessionID,
		rec.PlaceID,
		rec.PlaceName,
		rec.Coordinates.Lon,
		rec.Coordinates.Lat,
		rec.Value,
		rec.Order.String(),
		rec.SelectedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("record selection session=%s: %w", rec.SessionID, err)
	}
	return nil
}

// Fetch the most recent selections, newest first.
func (s *SQLSelectionRepository) ListRecent(ctx context.Context, limit int) (_ []ports.SelectionRecord, err error) {
	defer obs.Time(ctx, s.Log, "selections.ListRecent")(&err)

	if s.DB == nil {
		return nil, errors.New("selection repository: db is nil")
	}
	if limit <= 0 || limit > maxListLimit {
		limit = maxListLimit
	}

	q := `
	SELECT session_id, place_id, place_name, lon, lat, coordinate_value, coordinate_order, selected_at
	FROM place_selections
	ORDER BY selected_at DESC, id DESC
	LIMIT $1;
	`

	rows, err := s.DB.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("list selections: query place_selections table: %w", err)
	}
	defer rows.Close()

	out := make([]ports.SelectionRecord, 0, limit)
	for rows.Next() {
		var rec ports.SelectionRecord
		var order string
		if err := rows.Scan(
			&rec.SessionID,
			&rec.PlaceID,
			&rec.PlaceName,
			&rec.Coordinates.Lon,
			&rec.Coordinates.Lat,
			&rec.Value,
			&order,
			&rec.SelectedAt,
		); err != nil {
			return nil, fmt.Errorf("list selections: scan rows: %w", err)
		}

		rec.Order, err = domain.ParseCoordinateOrder(order)
		if err != nil {
			return nil, fmt.Errorf("list selections: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list selections: row iteration: %w", err)
	}

	return out, nil
}
