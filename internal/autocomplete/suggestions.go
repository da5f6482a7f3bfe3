package autocomplete

import (
	"places-autocomplete/internal/domain"
	"sync"
)

// SuggestionState holds the input text and the current candidate list.
type SuggestionState struct {
	mu     sync.RWMutex
	value  string
	places []domain.Place
}

func NewSuggestionState(initialValue string) *SuggestionState {
	return &SuggestionState{value: initialValue}
}

func (s *SuggestionState) Value() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// SetValue stores the input text. Emptying it clears the candidates; the
// return value reports whether the new value is blank.
func (s *SuggestionState) SetValue(value string) (blank bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.value = value
	if IsBlank(value) {
		s.places = nil
		return true
	}
	return false
}

// Places returns a copy of the current candidates.
func (s *SuggestionState) Places() []domain.Place {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Place(nil), s.places...)
}

// At returns the candidate at index i.
func (s *SuggestionState) At(i int) (domain.Place, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i < 0 || i >= len(s.places) {
		return domain.Place{}, false
	}
	return s.places[i], true
}

// SetPlaces replaces the candidates unconditionally.
func (s *SuggestionState) SetPlaces(places []domain.Place) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.places = append([]domain.Place(nil), places...)
}

func (s *SuggestionState) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.places = nil
}
