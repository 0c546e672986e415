package recommend

import (
	"net/http"

	"mangashelf/internal/httpx"
	"mangashelf/internal/logging"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

// Get handles GET /api/recommendations
// @Summary Genre-based recommendations
// @Description Picks the user's strongest genre (or the override), digs the catalog for unowned titles and adds trending manga
// @Tags recommendations
// @Produce json
// @Param genre query string false "Genre override"
// @Param userId query string false "Library scope when unauthenticated"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /api/recommendations [get]
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.Recommend(r.Context(), httpx.ScopeFrom(r), r.URL.Query().Get("genre"))
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("recommendation failed")
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to build recommendations", nil)
		return
	}
	httpx.JSONSuccess(w, r, res, nil)
}
