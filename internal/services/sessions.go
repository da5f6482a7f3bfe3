package services

import (
	"context"
	"errors"
	"log/slog"
	"places-autocomplete/internal/autocomplete"
	"places-autocomplete/internal/domain"
	"places-autocomplete/internal/platform/apperr"
	"places-autocomplete/internal/platform/logger"
	"places-autocomplete/internal/ports"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session is one live search box driven over HTTP.
type Session struct {
	ID        string
	CreatedAt time.Time
	AC        *autocomplete.PlaceAutocomplete

	lastSeen time.Time
}

type CreateSessionParams struct {
	InitialValue       string
	InitialCoordinates string
	Order              domain.CoordinateOrder
	// Query overrides the service defaults when non-nil.
	Query *domain.QueryOptions
}

type SessionServiceConfig struct {
	Geocoder    ports.Geocoder
	Coordinates ports.CoordinateStore
	// Selections is optional; without it selections are not persisted.
	Selections ports.SelectionRepository
	Defaults   domain.QueryOptions
	Render     autocomplete.RenderFunc
	IdleTTL    time.Duration
	Logger     *logger.Logger
}

// SessionService owns the PlaceAutocomplete instances behind the preview API
// and plays the host role for them: selections are written to the coordinate
// store and the selection history, and emptied inputs remove the stored
// coordinates.
type SessionService struct {
	geocoder   ports.Geocoder
	coords     ports.CoordinateStore
	selections ports.SelectionRepository
	defaults   domain.QueryOptions
	render     autocomplete.RenderFunc
	idleTTL    time.Duration
	log        *logger.Logger
	now        func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewSessionService(cfg SessionServiceConfig) (*SessionService, error) {
	if cfg.Geocoder == nil {
		return nil, errors.New("session service: geocoder is nil")
	}
	if cfg.Coordinates == nil {
		return nil, errors.New("session service: coordinate store is nil")
	}

	log := cfg.Logger
	if log == nil {
		log = logger.Discard()
	}

	return &SessionService{
		geocoder:   cfg.Geocoder,
		coords:     cfg.Coordinates,
		selections: cfg.Selections,
		defaults:   cfg.Defaults,
		render:     cfg.Render,
		idleTTL:    cfg.IdleTTL,
		log:        log,
		now:        time.Now,
		sessions:   make(map[string]*Session),
	}, nil
}

// Create builds a new PlaceAutocomplete for a session.
func (s *SessionService) Create(ctx context.Context, p CreateSessionParams) (*Session, error) {
	id := uuid.NewString()

	query := s.defaults
	if p.Query != nil {
		query = *p.Query
	}

	ac, err := autocomplete.New(s.geocoder, autocomplete.Options{
		InitialValue:       p.InitialValue,
		InitialCoordinates: p.InitialCoordinates,
		Order:              p.Order,
		Query:              query,
		RenderSuggestion:   s.render,
		OnSelect:           s.onSelect(id),
		Logger:             s.log,
	})
	if err != nil {
		return nil, err
	}

	if v := ac.CoordinateValue(); v != "" {
		if err := s.coords.Put(ctx, id, v); err != nil {
			return nil, apperr.Wrap(apperr.KindInternal, "store initial coordinates", err)
		}
	}

	now := s.now()
	sess := &Session{ID: id, CreatedAt: now, AC: ac, lastSeen: now}

	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()

	s.log.WithContext(ctx).Info("session created", slog.String("session_id", id), slog.String("order", p.Order.String()))
	return sess, nil
}

// onSelect is the host callback of session id.
func (s *SessionService) onSelect(id string) autocomplete.SelectFunc {
	return func(ctx context.Context, sel autocomplete.Selection) {
		log := s.log.WithContext(ctx).With(slog.String("session_id", id))

		if err := s.coords.Put(ctx, id, sel.Value); err != nil {
			log.Error("store coordinates failed", slog.String("error", err.Error()))
		}

		if s.selections == nil {
			return
		}
		rec := ports.SelectionRecord{
			SessionID:   id,
			PlaceID:     sel.Place.ID,
			PlaceName:   sel.Place.PlaceName,
			Coordinates: sel.Result.Coordinates(),
			Value:       sel.Value,
			Order:       sel.Result.Order,
			SelectedAt:  s.now(),
		}
		if err := s.selections.Record(ctx, rec); err != nil {
			log.Error("record selection failed", slog.String("error", err.Error()))
		}
	}
}

// Get returns the session with id.
func (s *SessionService) Get(id string) (*Session, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperr.BadRequest("invalid session id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, apperr.NotFound("session not found")
	}
	sess.lastSeen = s.now()
	return sess, nil
}

// Delete drops the session and its stored coordinates.
func (s *SessionService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(id); err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()

	if err := s.coords.Delete(ctx, id); err != nil {
		return apperr.Wrap(apperr.KindInternal, "delete coordinates", err)
	}
	return nil
}

// UpdateInput applies a keystroke. An emptied input also removes the stored
// coordinate value.
func (s *SessionService) UpdateInput(ctx context.Context, id string, value string) (*Session, error) {
	sess, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if err := s.setInput(ctx, sess, value); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *SessionService) setInput(ctx context.Context, sess *Session, value string) error {
	sess.AC.SetValue(value)
	if sess.AC.CoordinateValue() == "" {
		if err := s.coords.Delete(ctx, sess.ID); err != nil {
			return apperr.Wrap(apperr.KindInternal, "delete coordinates", err)
		}
	}
	return nil
}

// FetchSuggestions fetches candidates for the current input and waits for the
// list to update. A non-nil value is applied as the new input first, like a
// keystroke followed by a fetch.
func (s *SessionService) FetchSuggestions(ctx context.Context, id string, value *string) (*Session, error) {
	sess, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if value != nil {
		if err := s.setInput(ctx, sess, *value); err != nil {
			return nil, err
		}
	}

	if err := sess.AC.FetchSuggestions(ctx, sess.AC.Value()); err != nil {
		if apperr.GetKind(err) == apperr.KindUnknown {
			return nil, apperr.Upstream("geocoding request failed", err)
		}
		return nil, err
	}
	return sess, nil
}

func (s *SessionService) ClearSuggestions(id string) (*Session, error) {
	sess, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	sess.AC.ClearSuggestions()
	return sess, nil
}

// Select chooses the candidate at index in session id.
func (s *SessionService) Select(ctx context.Context, id string, index int) (autocomplete.Selection, error) {
	sess, err := s.Get(id)
	if err != nil {
		return autocomplete.Selection{}, err
	}
	return sess.AC.Select(ctx, index)
}

// StoredCoordinates returns the coordinate value held in the store, which is
// what a form submission for the session would carry.
func (s *SessionService) StoredCoordinates(ctx context.Context, id string) (string, error) {
	if _, err := s.Get(id); err != nil {
		return "", err
	}

	v, err := s.coords.Get(ctx, id)
	if errors.Is(err, ports.ErrCoordinatesNotFound) {
		return "", nil
	}
	if err != nil {
		return "", apperr.Wrap(apperr.KindInternal, "read coordinates", err)
	}
	return v, nil
}

// RecentSelections lists the selection history. Returns KindNotFound when no
// repository is configured.
func (s *SessionService) RecentSelections(ctx context.Context, limit int) ([]ports.SelectionRecord, error) {
	if s.selections == nil {
		return nil, apperr.NotFound("selection history is not enabled")
	}
	recs, err := s.selections.ListRecent(ctx, limit)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "list selections", err)
	}
	return recs, nil
}

// Sweep removes sessions idle for longer than the configured TTL and returns
// how many were removed. A zero TTL disables expiry.
func (s *SessionService) Sweep(ctx context.Context) int {
	if s.idleTTL <= 0 {
		return 0
	}
	cutoff := s.now().Add(-s.idleTTL)

	var expired []string
	s.mu.Lock()
	for id, sess := range s.sessions {
		if sess.lastSeen.Before(cutoff) {
			expired = append(expired, id)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for _, id := range expired {
		if err := s.coords.Delete(ctx, id); err != nil {
			s.log.Warn("delete coordinates of expired session failed", slog.String("session_id", id), slog.String("error", err.Error()))
		}
	}
	return len(expired)
}

// RunJanitor sweeps idle sessions every interval until ctx is done.
func (s *SessionService) RunJanitor(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := s.Sweep(ctx); n > 0 {
				s.log.Info("expired idle sessions", slog.Int("count", n))
			}
		}
	}
}
