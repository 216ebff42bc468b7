package handler

import (
	"net/http"

	"github.com/festo/gala/api/internal/middleware"
	"github.com/festo/gala/api/internal/model"
	"github.com/festo/gala/api/internal/service"
)

// AppealHandler handles suspension appeal HTTP requests
type AppealHandler struct {
	appealService *service.AppealService
}

// NewAppealHandler creates a new appeal handler
func NewAppealHandler(appealService *service.AppealService) *AppealHandler {
	return &AppealHandler{appealService: appealService}
}

// RegisterRoutes registers appeal routes
func (h *AppealHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/appeals", h.Submit)
	mux.HandleFunc("GET /v1/appeals/{appealId}", h.Get)

	// Admin adjudication
	mux.HandleFunc("GET /v1/admin/appeals", h.ListPending)
	mux.HandleFunc("POST /v1/admin/appeals/{appealId}/decide", h.Decide)
}

// Submit handles POST /v1/appeals
func (h *AppealHandler) Submit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	var req model.SubmitAppealRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	appeal, err := h.appealService.Submit(ctx, userID, &req)
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "submit appeal"))
		return
	}

	WriteData(w, http.StatusCreated, appeal, nil)
}

// Get handles GET /v1/appeals/{appealId}. Users may read their own appeals;
// admins may read any.
func (h *AppealHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims := middleware.GetClaims(ctx)
	if claims == nil {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	appeal, err := h.appealService.Get(ctx, r.PathValue("appealId"))
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "get appeal"))
		return
	}

	if appeal.UserID != claims.UserID && !claims.IsAdmin() {
		WriteError(w, model.NewForbiddenError("not your appeal"))
		return
	}

	WriteData(w, http.StatusOK, appeal, nil)
}

// ListPending handles GET /v1/admin/appeals
func (h *AppealHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if !requireAdmin(w, r) {
		return
	}

	limit, offset := paginationParams(r)

	appeals, err := h.appealService.ListPending(ctx, limit, offset)
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "list appeals"))
		return
	}

	WriteCollection(w, http.StatusOK, appeals, &PaginationInfo{
		HasMore: len(appeals) == limit,
	}, nil)
}

// Decide handles POST /v1/admin/appeals/{appealId}/decide
func (h *AppealHandler) Decide(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims := middleware.GetClaims(ctx)
	if !requireAdmin(w, r) {
		return
	}

	var req model.DecideAppealRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	appeal, err := h.appealService.Decide(ctx, r.PathValue("appealId"), claims.UserID, &req)
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "decide appeal"))
		return
	}

	WriteData(w, http.StatusOK, appeal, nil)
}
