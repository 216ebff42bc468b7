package handler

import (
	"context"
	"net/http"

	"github.com/festo/gala/api/internal/middleware"
	"github.com/festo/gala/api/internal/model"
	"github.com/festo/gala/api/internal/service"
)

// StandingHandler handles trust & safety standing HTTP requests
type StandingHandler struct {
	standingService *service.StandingService
	appealService   *service.AppealService
	tierService     *service.TierService
}

// NewStandingHandler creates a new standing handler
func NewStandingHandler(standingService *service.StandingService, appealService *service.AppealService, tierService *service.TierService) *StandingHandler {
	return &StandingHandler{
		standingService: standingService,
		appealService:   appealService,
		tierService:     tierService,
	}
}

// RegisterRoutes registers standing routes
func (h *StandingHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /v1/standing", h.GetOwnStanding)

	// Admin
	mux.HandleFunc("GET /v1/admin/users/{userId}/standing", h.GetStanding)
	mux.HandleFunc("POST /v1/admin/users/{userId}/recompute", h.Recompute)
	mux.HandleFunc("POST /v1/admin/users/{userId}/suspend", h.ForceSuspend)
	mux.HandleFunc("POST /v1/admin/users/{userId}/reinstate", h.Reinstate)
	mux.HandleFunc("POST /v1/admin/users/{userId}/reset-warnings", h.ResetWarnings)

	// Metric ingestion, called by the booking, review and messaging services
	mux.HandleFunc("POST /v1/internal/metrics/booking-completed", h.BookingCompleted)
	mux.HandleFunc("POST /v1/internal/metrics/booking-cancelled", h.BookingCancelled)
	mux.HandleFunc("POST /v1/internal/metrics/review", h.ReviewRecorded)
	mux.HandleFunc("POST /v1/internal/metrics/response-sample", h.ResponseSample)
}

// GetOwnStanding handles GET /v1/standing. Users see the projected view, not
// the raw internal score.
func (h *StandingHandler) GetOwnStanding(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	standing, err := h.standingService.GetStanding(ctx, userID)
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "get standing"))
		return
	}

	view := model.StandingView{
		UserID:           standing.UserID,
		SafetyStatus:     standing.SafetyStatus,
		Badges:           standing.Badges,
		SuspensionEndsOn: standing.SuspensionEndsOn,
	}

	if classification, err := h.tierService.ClassifySupplier(ctx, userID); err == nil {
		view.Tier = classification.Tier
	}

	canAppeal, err := h.appealService.CanAppeal(ctx, standing)
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "get standing"))
		return
	}
	view.CanAppeal = canAppeal

	WriteData(w, http.StatusOK, view, nil)
}

// GetStanding handles GET /v1/admin/users/{userId}/standing, returning the
// full record including score, metrics and stamps
func (h *StandingHandler) GetStanding(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if !requireAdmin(w, r) {
		return
	}

	standing, err := h.standingService.GetStanding(ctx, r.PathValue("userId"))
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "get standing"))
		return
	}

	WriteData(w, http.StatusOK, standing, nil)
}

// Recompute handles POST /v1/admin/users/{userId}/recompute
func (h *StandingHandler) Recompute(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if !requireAdmin(w, r) {
		return
	}

	standing, err := h.standingService.Recompute(ctx, r.PathValue("userId"))
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "recompute standing"))
		return
	}

	WriteData(w, http.StatusOK, standing, nil)
}

// ForceSuspend handles POST /v1/admin/users/{userId}/suspend
func (h *StandingHandler) ForceSuspend(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if !requireAdmin(w, r) {
		return
	}

	var req model.ForceSuspendRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	standing, err := h.standingService.ForceSuspend(ctx, r.PathValue("userId"), &req)
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "force suspend"))
		return
	}

	WriteData(w, http.StatusOK, standing, nil)
}

// Reinstate handles POST /v1/admin/users/{userId}/reinstate
func (h *StandingHandler) Reinstate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if !requireAdmin(w, r) {
		return
	}

	standing, err := h.standingService.AdminReinstate(ctx, r.PathValue("userId"))
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "reinstate"))
		return
	}

	WriteData(w, http.StatusOK, standing, nil)
}

// ResetWarnings handles POST /v1/admin/users/{userId}/reset-warnings
func (h *StandingHandler) ResetWarnings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if !requireAdmin(w, r) {
		return
	}

	standing, err := h.standingService.ResetWarnings(ctx, r.PathValue("userId"))
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "reset warnings"))
		return
	}

	WriteData(w, http.StatusOK, standing, nil)
}

// Metric ingestion payloads

type metricEventRequest struct {
	UserID string `json:"user_id"`
}

type reviewEventRequest struct {
	UserID string  `json:"user_id"`
	Rating float64 `json:"rating"`
}

type responseSampleRequest struct {
	UserID    string `json:"user_id"`
	Responded bool   `json:"responded"`
	OnTime    bool   `json:"on_time"`
}

// BookingCompleted handles POST /v1/internal/metrics/booking-completed
func (h *StandingHandler) BookingCompleted(w http.ResponseWriter, r *http.Request) {
	h.ingestBooking(w, r, h.standingService.RecordBookingCompleted)
}

// BookingCancelled handles POST /v1/internal/metrics/booking-cancelled
func (h *StandingHandler) BookingCancelled(w http.ResponseWriter, r *http.Request) {
	h.ingestBooking(w, r, h.standingService.RecordBookingCancelled)
}

func (h *StandingHandler) ingestBooking(w http.ResponseWriter, r *http.Request, record func(ctx context.Context, userID string) (*model.Standing, error)) {
	ctx := r.Context()
	if !requireAdmin(w, r) {
		return
	}

	var req metricEventRequest
	if err := DecodeJSON(r, &req); err != nil || req.UserID == "" {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	standing, err := record(ctx, req.UserID)
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "record booking"))
		return
	}

	WriteData(w, http.StatusOK, standing, nil)
}

// ReviewRecorded handles POST /v1/internal/metrics/review
func (h *StandingHandler) ReviewRecorded(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if !requireAdmin(w, r) {
		return
	}

	var req reviewEventRequest
	if err := DecodeJSON(r, &req); err != nil || req.UserID == "" {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	standing, err := h.standingService.RecordReview(ctx, req.UserID, req.Rating)
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "record review"))
		return
	}

	WriteData(w, http.StatusOK, standing, nil)
}

// ResponseSample handles POST /v1/internal/metrics/response-sample
func (h *StandingHandler) ResponseSample(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if !requireAdmin(w, r) {
		return
	}

	var req responseSampleRequest
	if err := DecodeJSON(r, &req); err != nil || req.UserID == "" {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	standing, err := h.standingService.RecordResponseSample(ctx, req.UserID, req.Responded, req.OnTime)
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "record response sample"))
		return
	}

	WriteData(w, http.StatusOK, standing, nil)
}
