package catalog

import (
	"errors"
	"net/http"
	"strconv"

	"mangashelf/internal/httpx"
	"mangashelf/internal/logging"
)

type HTTPHandler struct {
	svc *Service
}

func NewHTTPHandler(svc *Service) *HTTPHandler {
	return &HTTPHandler{svc: svc}
}

// Search handles GET /api/catalog/search
// @Summary Search the Kitsu catalog
// @Description Text search over Kitsu manga, flagging titles already in the library
// @Tags catalog
// @Produce json
// @Param q query string true "Search text"
// @Param limit query int false "Page size" default(10)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 502 {object} httpx.ErrorResponse
// @Router /api/catalog/search [get]
func (h *HTTPHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	limit, _ := strconv.Atoi(query.Get("limit"))
	offset, _ := strconv.Atoi(query.Get("offset"))

	page, err := h.svc.Search(r.Context(), httpx.ScopeFrom(r), query.Get("q"), limit, offset)
	if err != nil {
		if errors.Is(err, ErrEmptyQuery) {
			httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Query parameter q is required", nil)
			return
		}
		logging.Ctx(r.Context()).Error().Err(err).Msg("catalog search failed")
		httpx.JSONError(w, r, http.StatusBadGateway, "UPSTREAM_ERROR", "Catalog search failed", nil)
		return
	}

	httpx.JSONSuccess(w, r, page.Items, map[string]any{
		"total":  page.Total,
		"limit":  page.Limit,
		"offset": page.Offset,
	})
}
