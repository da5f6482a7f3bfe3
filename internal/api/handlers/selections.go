package handlers

import (
	"net/http"
	"places-autocomplete/internal/api/dto"
	"places-autocomplete/internal/platform/logger"
	"places-autocomplete/internal/services"
	"strconv"

	"github.com/gin-gonic/gin"
)

// SelectionHandler exposes the read-only selection history.
type SelectionHandler struct {
	Sessions *services.SessionService
	Log      *logger.Logger
}

func (h *SelectionHandler) List(c *gin.Context) {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 100 {
			writeError(c, http.StatusBadRequest, "limit must be between 1 and 100")
			return
		}
		limit = n
	}

	recs, err := h.Sessions.RecentSelections(c.Request.Context(), limit)
	if err != nil {
		handleError(c, h.Log, err)
		return
	}

	res := dto.ListSelectionsResponse{
		Selections: make([]dto.SelectionRecordResponse, 0, len(recs)),
	}
	for _, r := range recs {
		res.Selections = append(res.Selections, dto.SelectionRecordResponse{
			SessionID:       r.SessionID,
			PlaceID:         r.PlaceID,
			PlaceName:       r.PlaceName,
			Lon:             r.Coordinates.Lon,
			Lat:             r.Coordinates.Lat,
			Coordinates:     r.Value,
			CoordinateOrder: r.Order.String(),
			SelectedAt:      r.SelectedAt,
		})
	}

	c.JSON(http.StatusOK, res)
}
