package library

import (
	"errors"
	"net/http"
	"strings"

	"mangashelf/internal/httpx"
	"mangashelf/internal/logging"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

type createReq struct {
	KitsuID    string   `json:"kitsuId" validate:"required"`
	Title      string   `json:"title" validate:"required"`
	CoverImage string   `json:"coverImage"`
	Synopsis   string   `json:"synopsis"`
	Genres     []string `json:"genres"`
	Status     string   `json:"status" validate:"required,library_status"`
	Rating     *int     `json:"rating" validate:"omitempty,gte=1,lte=10"`
}

type progressReq struct {
	Status string `json:"status" validate:"omitempty,library_status"`
	Rating *int   `json:"rating" validate:"omitempty,gte=1,lte=10"`
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Manga not found", nil)
	case errors.Is(err, ErrAlreadyOwned):
		httpx.JSONError(w, r, http.StatusConflict, "CONFLICT", "Manga already in library", nil)
	case errors.Is(err, ErrInvalidStatus), errors.Is(err, ErrInvalidRating):
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
	default:
		logging.Ctx(r.Context()).Error().Err(err).Msg("library request failed")
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
	}
}

// List handles GET /api/manga
// @Summary List library entries
// @Tags library
// @Produce json
// @Param userId query string false "Library scope when unauthenticated"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /api/manga [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.List(r.Context(), httpx.ScopeFrom(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, entries, map[string]any{"total": len(entries)})
}

// Create handles POST /api/manga
// @Summary Add a manga to the library
// @Tags library
// @Accept json
// @Produce json
// @Param request body createReq true "Catalog item and progress"
// @Success 201 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 409 {object} httpx.ErrorResponse
// @Router /api/manga [post]
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}
	req.KitsuID = strings.TrimSpace(req.KitsuID)
	req.Title = strings.TrimSpace(req.Title)

	if details := httpx.ValidateStruct(req); len(details) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", details)
		return
	}

	status, err := ParseStatus(req.Status)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	entry, err := h.service.Save(r.Context(), httpx.ScopeFrom(r), NewCandidate{
		KitsuID:    req.KitsuID,
		Title:      req.Title,
		Genres:     req.Genres,
		Synopsis:   req.Synopsis,
		CoverImage: req.CoverImage,
	}, Progress{Status: status, Rating: req.Rating})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccessCreated(w, r, entry)
}

// Get handles GET /api/manga/{id}
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	entry, err := h.service.Get(r.Context(), httpx.ScopeFrom(r), r.PathValue("id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, entry, nil)
}

// Update handles PATCH /api/manga/{id}
// @Summary Update reading status or rating
// @Tags library
// @Accept json
// @Produce json
// @Param id path string true "Entry id"
// @Param request body progressReq true "Fields to change"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /api/manga/{id} [patch]
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req progressReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}
	if details := httpx.ValidateStruct(req); len(details) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", details)
		return
	}

	var p Progress
	if req.Status != "" {
		status, err := ParseStatus(req.Status)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		p.Status = status
	}
	p.Rating = req.Rating

	entry, err := h.service.Save(r.Context(), httpx.ScopeFrom(r), OwnedEntry{ID: r.PathValue("id")}, p)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, entry, nil)
}

// Delete handles DELETE /api/manga/{id}
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), httpx.ScopeFrom(r), r.PathValue("id")); err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccessNoContent(w)
}
