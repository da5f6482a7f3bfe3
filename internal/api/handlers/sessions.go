package handlers

import (
	"errors"
	"io"
	"net/http"
	"places-autocomplete/internal/api/dto"
	"places-autocomplete/internal/autocomplete"
	"places-autocomplete/internal/domain"
	"places-autocomplete/internal/platform/logger"
	"places-autocomplete/internal/services"
	"strings"

	"github.com/gin-gonic/gin"
)

// SessionHandler drives PlaceAutocomplete sessions for the preview page.
type SessionHandler struct {
	Sessions *services.SessionService
	Log      *logger.Logger
}

func (h *SessionHandler) Create(c *gin.Context) {
	var req dto.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		writeBindError(c, "invalid request body", err)
		return
	}

	order, err := domain.ParseCoordinateOrder(req.CoordinateOrder)
	if err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}

	params := services.CreateSessionParams{
		InitialValue:       req.InitialValue,
		InitialCoordinates: req.InitialCoordinates,
		Order:              order,
		Query:              queryOptions(req),
	}

	sess, err := h.Sessions.Create(c.Request.Context(), params)
	if err != nil {
		handleError(c, h.Log, err)
		return
	}

	c.JSON(http.StatusCreated, sessionResponse(sess))
}

// queryOptions returns nil when the request sets no filter at all.
func queryOptions(req dto.CreateSessionRequest) *domain.QueryOptions {
	if len(req.Countries) == 0 && len(req.Types) == 0 && len(req.Proximity) == 0 && req.Limit == 0 && req.Language == "" {
		return nil
	}

	q := &domain.QueryOptions{
		Countries: make([]string, 0, len(req.Countries)),
		Types:     req.Types,
		Limit:     req.Limit,
		Language:  req.Language,
	}
	for _, cc := range req.Countries {
		q.Countries = append(q.Countries, strings.ToUpper(strings.TrimSpace(cc)))
	}
	if len(req.Proximity) == 2 {
		q.Proximity = &domain.Coordinates{Lon: req.Proximity[0], Lat: req.Proximity[1]}
	}
	return q
}

func (h *SessionHandler) Get(c *gin.Context) {
	sess, err := h.Sessions.Get(c.Param("id"))
	if err != nil {
		handleError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, sessionResponse(sess))
}

func (h *SessionHandler) Delete(c *gin.Context) {
	if err := h.Sessions.Delete(c.Request.Context(), c.Param("id")); err != nil {
		handleError(c, h.Log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UpdateInput handles a keystroke.
func (h *SessionHandler) UpdateInput(c *gin.Context) {
	var req dto.UpdateInputRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, "value is required", err)
		return
	}

	sess, err := h.Sessions.UpdateInput(c.Request.Context(), c.Param("id"), *req.Value)
	if err != nil {
		handleError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, sessionResponse(sess))
}

// FetchSuggestions geocodes the body's value, or the session's current input
// when the body is empty.
func (h *SessionHandler) FetchSuggestions(c *gin.Context) {
	var req dto.FetchSuggestionsRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(c, http.StatusBadRequest, "invalid json body")
		return
	}

	sess, err := h.Sessions.FetchSuggestions(c.Request.Context(), c.Param("id"), req.Value)
	if err != nil {
		handleError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, sessionResponse(sess))
}

func (h *SessionHandler) ClearSuggestions(c *gin.Context) {
	sess, err := h.Sessions.ClearSuggestions(c.Param("id"))
	if err != nil {
		handleError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, sessionResponse(sess))
}

func (h *SessionHandler) Select(c *gin.Context) {
	var req dto.SelectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, "index is required and must be >= 0", err)
		return
	}

	sel, err := h.Sessions.Select(c.Request.Context(), c.Param("id"), *req.Index)
	if err != nil {
		handleError(c, h.Log, err)
		return
	}

	c.JSON(http.StatusOK, dto.SelectionResponse{
		Coordinates: sel.Pair,
		Value:       sel.Value,
		Place:       sel.Place,
	})
}

// Coordinates returns the stored coordinate value of the session.
func (h *SessionHandler) Coordinates(c *gin.Context) {
	v, err := h.Sessions.StoredCoordinates(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, dto.StoredCoordinatesResponse{Coordinates: v})
}

func sessionResponse(sess *services.Session) dto.SessionResponse {
	suggestions := sess.AC.Suggestions()

	res := dto.SessionResponse{
		ID:              sess.ID,
		Value:           sess.AC.Value(),
		Coordinates:     sess.AC.CoordinateValue(),
		CoordinateOrder: sess.AC.Order().String(),
		Suggestions:     make([]dto.SuggestionResponse, 0, len(suggestions)),
	}
	for _, s := range suggestions {
		res.Suggestions = append(res.Suggestions, suggestionResponse(s))
	}
	return res
}

func suggestionResponse(s autocomplete.Suggestion) dto.SuggestionResponse {
	return dto.SuggestionResponse{
		Label:       s.Label,
		PlaceID:     s.Place.ID,
		PlaceName:   s.Place.PlaceName,
		Coordinates: s.Place.Geometry.Coordinates,
	}
}
