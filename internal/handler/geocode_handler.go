package handler

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/peerpath/journey-backend-go/internal/apperr"
	"github.com/peerpath/journey-backend-go/internal/models"
	"github.com/peerpath/journey-backend-go/pkg/response"
)

// LocationSearcher is the geocoding surface the handler needs.
type LocationSearcher interface {
	Search(ctx context.Context, query string) ([]models.LocationSelection, error)
}

// GeocodeHandler handles HTTP requests for location search
type GeocodeHandler struct {
	searcher LocationSearcher
}

// NewGeocodeHandler creates a new geocode handler
func NewGeocodeHandler(searcher LocationSearcher) *GeocodeHandler {
	return &GeocodeHandler{searcher: searcher}
}

// Search handles GET /api/v1/geocode/search?q=...
func (h *GeocodeHandler) Search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))

	results, err := h.searcher.Search(c.Request.Context(), query)
	if err != nil {
		response.Error(c, apperr.HTTPStatus(err), "Location search failed", err)
		return
	}
	response.Success(c, results)
}
