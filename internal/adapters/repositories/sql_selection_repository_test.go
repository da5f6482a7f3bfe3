package repositories

import (
	"context"
	"places-autocomplete/internal/domain"
	"places-autocomplete/internal/ports"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestRecordSelection(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	at := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	rec := ports.SelectionRecord{
		SessionID:   "s-1",
		PlaceID:     "place.123",
		PlaceName:   "Tacoma, Washington, United States",
		Coordinates: domain.Coordinates{Lon: -122.4357, Lat: 47.2366},
		Value:       "47.2366,-122.4357",
		Order:       domain.LatLng,
		SelectedAt:  at,
	}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO place_selections")).
		WithArgs("s-1", "place.123", rec.PlaceName, -122.4357, 47.2366, "47.2366,-122.4357", "latlng", at).
		WillReturnResult(sqlmock.NewResult(1, 1))

	repo := NewSQLSelectionRepository(db, nil)
	if err := repo.Record(context.Background(), rec); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRecordSelectionRequiresSession(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	repo := NewSQLSelectionRepository(db, nil)
	if err := repo.Record(context.Background(), ports.SelectionRecord{}); err == nil {
		t.Fatal("expected error for empty session id")
	}
}

func TestListRecentSelections(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	at := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"session_id", "place_id", "place_name", "lon", "lat", "coordinate_value", "coordinate_order", "selected_at",
	}).
		AddRow("s-2", "place.2", "Spokane", -117.426, 47.6588, "-117.426,47.6588", "lnglat", at.Add(time.Minute)).
		AddRow("s-1", "place.1", "Tacoma", -122.4357, 47.2366, "47.2366,-122.4357", "latlng", at)

	mock.ExpectQuery(regexp.QuoteMeta("FROM place_selections")).
		WithArgs(100).
		WillReturnRows(rows)

	repo := NewSQLSelectionRepository(db, nil)
	got, err := repo.ListRecent(context.Background(), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].PlaceName != "Spokane" || got[0].Order != domain.LngLat {
		t.Errorf("first = %+v", got[0])
	}
	if got[1].Order != domain.LatLng || got[1].Coordinates.Lat != 47.2366 {
		t.Errorf("second = %+v", got[1])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestInitSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS place_selections")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("CREATE INDEX IF NOT EXISTS idx_place_selections_selected_at")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	if err := InitSchema(context.Background(), db); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
