package controllers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"courtfind/internal/availability"
	h "courtfind/internal/delivery/http/helpers"
	"courtfind/internal/delivery/http/middleware"
	"courtfind/internal/domain"
)

// CreateArenaRequest is the request body for POST /arenas.
type CreateArenaRequest struct {
	Name        string `json:"name"`
	Location    string `json:"location"`
	Description string `json:"description"`
}

// Validate implements Validator.
func (c CreateArenaRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.Name) == "" {
		errs = append(errs, "name is required")
	}
	if strings.TrimSpace(c.Location) == "" {
		errs = append(errs, "location is required")
	}
	return errs
}

// UpdateArenaRequest is the request body for PATCH /arenas/{arenaID}. Omitted fields are unchanged.
type UpdateArenaRequest struct {
	Name        *string `json:"name"`
	Location    *string `json:"location"`
	Description *string `json:"description"`
}

// Validate implements Validator.
func (u UpdateArenaRequest) Validate() []string {
	var errs []string
	if u.Name != nil && strings.TrimSpace(*u.Name) == "" {
		errs = append(errs, "name must not be empty")
	}
	if u.Location != nil && strings.TrimSpace(*u.Location) == "" {
		errs = append(errs, "location must not be empty")
	}
	return errs
}

// CreateCourtRequest is the request body for POST /arenas/{arenaID}/courts.
// Availability maps weekday names to {"open":"9:00","close":"17:00"}; missing days are closed.
type CreateCourtRequest struct {
	Name         string                          `json:"name"`
	Sport        string                          `json:"sport"`
	Size         string                          `json:"size"`
	HourlyRate   int64                           `json:"hourly_rate"`
	Availability availability.WeeklyAvailability `json:"availability" swaggertype:"object"`
}

// Validate implements Validator.
func (c CreateCourtRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.Name) == "" {
		errs = append(errs, "name is required")
	}
	if strings.TrimSpace(c.Sport) == "" {
		errs = append(errs, "sport is required")
	}
	if c.HourlyRate <= 0 {
		errs = append(errs, "hourly_rate must be greater than 0")
	}
	return errs
}

// ArenaSuccessResponse is the success envelope for endpoints returning one arena.
type ArenaSuccessResponse struct {
	Data  *domain.Arena `json:"data"`
	Error *h.APIError   `json:"error"`
}

// ArenaListSuccessResponse is the success envelope for GET /arenas/me (200).
type ArenaListSuccessResponse struct {
	Data  []*domain.Arena `json:"data"`
	Error *h.APIError     `json:"error"`
}

// SearchArenasResponse is the response body for GET /arenas/search.
type SearchArenasResponse struct {
	Items      []*domain.Arena  `json:"items"`
	Pagination h.PaginationMeta `json:"pagination"`
}

// SearchArenasSuccessResponse is the success envelope for GET /arenas/search (200).
type SearchArenasSuccessResponse struct {
	Data  SearchArenasResponse `json:"data"`
	Error *h.APIError          `json:"error"`
}

// CourtSuccessResponse is the success envelope for endpoints returning one court.
type CourtSuccessResponse struct {
	Data  *domain.Court `json:"data"`
	Error *h.APIError   `json:"error"`
}

// CourtListSuccessResponse is the success envelope for GET /arenas/{arenaID}/courts (200).
type CourtListSuccessResponse struct {
	Data  []*domain.Court `json:"data"`
	Error *h.APIError     `json:"error"`
}

type ArenaController struct {
	Logger  *slog.Logger
	Service domain.ArenaService
}

func NewArenaController(logger *slog.Logger, svc domain.ArenaService) *ArenaController {
	return &ArenaController{
		Logger:  logger,
		Service: svc,
	}
}

// SearchArenas godoc
// @Summary Search arenas
// @Description Public catalogue. sport matches any court's sport (case-insensitive); venue matches arena name or location as a substring.
// @Tags arenas
// @Produce json
// @Param sport query string false "Sport, e.g. tennis"
// @Param venue query string false "Part of the arena name or location"
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} controllers.SearchArenasSuccessResponse
// @Failure 500 {object} h.APIResponse "error.code: internal_error"
// @Router /arenas/search [get]
func (c *ArenaController) SearchArenas(w http.ResponseWriter, r *http.Request) {
	params := h.ParsePagination(r)
	filter := domain.ArenaSearch{
		Sport: strings.TrimSpace(r.URL.Query().Get("sport")),
		Venue: strings.TrimSpace(r.URL.Query().Get("venue")),
	}
	list, total, err := c.Service.SearchArenas(r.Context(), filter, params)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	if list == nil {
		list = []*domain.Arena{}
	}
	meta := h.NewPaginationMeta(params.Page, params.PageSize, total)
	h.WriteJSONSuccess(w, http.StatusOK, SearchArenasResponse{Items: list, Pagination: meta})
}

// CreateArena godoc
// @Summary Create an arena
// @Description Creates an arena owned by the authenticated owner.
// @Tags arenas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateArenaRequest true "Arena data"
// @Success 201 {object} controllers.ArenaSuccessResponse
// @Failure 400 {object} h.APIResponse "error.code: bad_request"
// @Failure 401 {object} h.APIResponse "error.code: unauthorized"
// @Failure 403 {object} h.APIResponse "error.code: forbidden (not an owner)"
// @Failure 500 {object} h.APIResponse "error.code: internal_error"
// @Router /arenas [post]
func (c *ArenaController) CreateArena(w http.ResponseWriter, r *http.Request) {
	var req CreateArenaRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	ownerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	now := time.Now()
	arena := domain.NewArena(ownerID, req.Name, req.Location, req.Description, now, now)
	if err := c.Service.CreateArena(r.Context(), arena); err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, arena)
}

// ListMyArenas godoc
// @Summary List my arenas
// @Description Arenas owned by the authenticated owner.
// @Tags arenas
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.ArenaListSuccessResponse
// @Failure 401 {object} h.APIResponse "error.code: unauthorized"
// @Failure 403 {object} h.APIResponse "error.code: forbidden"
// @Failure 500 {object} h.APIResponse "error.code: internal_error"
// @Router /arenas/me [get]
func (c *ArenaController) ListMyArenas(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	list, err := c.Service.ListMyArenas(r.Context(), ownerID)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	if list == nil {
		list = []*domain.Arena{}
	}
	h.WriteJSONSuccess(w, http.StatusOK, list)
}

// UpdateArena godoc
// @Summary Update an arena
// @Description Updates name, location and description. Only the arena owner can update.
// @Tags arenas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param arenaID path string true "Arena ID (UUID)"
// @Param body body UpdateArenaRequest true "Fields to update (all optional)"
// @Success 200 {object} controllers.ArenaSuccessResponse
// @Failure 400 {object} h.APIResponse "error.code: bad_request"
// @Failure 401 {object} h.APIResponse "error.code: unauthorized"
// @Failure 403 {object} h.APIResponse "error.code: forbidden (not owner)"
// @Failure 404 {object} h.APIResponse "error.code: not_found"
// @Failure 500 {object} h.APIResponse "error.code: internal_error"
// @Router /arenas/{arenaID} [patch]
func (c *ArenaController) UpdateArena(w http.ResponseWriter, r *http.Request) {
	arenaID, ok := h.PathParam(w, r, "arenaID")
	if !ok {
		return
	}
	var req UpdateArenaRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	ownerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	arena, err := c.Service.UpdateArena(r.Context(), arenaID, ownerID, req.Name, req.Location, req.Description)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, arena)
}

// DeleteArena godoc
// @Summary Delete an arena
// @Description Deletes an arena and its courts. Only the arena owner can delete.
// @Tags arenas
// @Security BearerAuth
// @Param arenaID path string true "Arena ID (UUID)"
// @Success 204 "No Content"
// @Failure 401 {object} h.APIResponse "error.code: unauthorized"
// @Failure 403 {object} h.APIResponse "error.code: forbidden (not owner)"
// @Failure 404 {object} h.APIResponse "error.code: not_found"
// @Failure 500 {object} h.APIResponse "error.code: internal_error"
// @Router /arenas/{arenaID} [delete]
func (c *ArenaController) DeleteArena(w http.ResponseWriter, r *http.Request) {
	arenaID, ok := h.PathParam(w, r, "arenaID")
	if !ok {
		return
	}
	ownerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	if err := c.Service.DeleteArena(r.Context(), arenaID, ownerID); err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListCourts godoc
// @Summary List courts of an arena
// @Tags courts
// @Produce json
// @Param arenaID path string true "Arena ID (UUID)"
// @Success 200 {object} controllers.CourtListSuccessResponse
// @Failure 404 {object} h.APIResponse "error.code: not_found"
// @Failure 500 {object} h.APIResponse "error.code: internal_error"
// @Router /arenas/{arenaID}/courts [get]
func (c *ArenaController) ListCourts(w http.ResponseWriter, r *http.Request) {
	arenaID, ok := h.PathParam(w, r, "arenaID")
	if !ok {
		return
	}
	list, err := c.Service.ListCourtsByArena(r.Context(), arenaID)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	if list == nil {
		list = []*domain.Court{}
	}
	h.WriteJSONSuccess(w, http.StatusOK, list)
}

// CreateCourt godoc
// @Summary Add a court to an arena
// @Description Weekly availability is validated: opening hours must be whole hours with open before close.
// @Tags courts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param arenaID path string true "Arena ID (UUID)"
// @Param body body CreateCourtRequest true "Court data"
// @Success 201 {object} controllers.CourtSuccessResponse
// @Failure 400 {object} h.APIResponse "error.code: bad_request"
// @Failure 401 {object} h.APIResponse "error.code: unauthorized"
// @Failure 403 {object} h.APIResponse "error.code: forbidden (not owner)"
// @Failure 404 {object} h.APIResponse "error.code: not_found"
// @Failure 500 {object} h.APIResponse "error.code: internal_error"
// @Router /arenas/{arenaID}/courts [post]
func (c *ArenaController) CreateCourt(w http.ResponseWriter, r *http.Request) {
	arenaID, ok := h.PathParam(w, r, "arenaID")
	if !ok {
		return
	}
	var req CreateCourtRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	ownerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	now := time.Now()
	court := domain.NewCourt(arenaID, strings.TrimSpace(req.Name), strings.TrimSpace(req.Sport), strings.TrimSpace(req.Size), req.HourlyRate, req.Availability, now, now)
	if err := c.Service.CreateCourt(r.Context(), ownerID, court); err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, court)
}
