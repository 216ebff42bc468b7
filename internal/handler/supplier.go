package handler

import (
	"context"
	"net/http"

	"github.com/festo/gala/api/internal/middleware"
	"github.com/festo/gala/api/internal/model"
	"github.com/festo/gala/api/internal/service"
)

// SupplierHandler handles supplier onboarding and verification HTTP requests
type SupplierHandler struct {
	onboardingService *service.OnboardingService
	tierService       *service.TierService
}

// NewSupplierHandler creates a new supplier handler
func NewSupplierHandler(onboardingService *service.OnboardingService, tierService *service.TierService) *SupplierHandler {
	return &SupplierHandler{
		onboardingService: onboardingService,
		tierService:       tierService,
	}
}

// RegisterRoutes registers supplier routes
func (h *SupplierHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/suppliers", h.Register)
	mux.HandleFunc("GET /v1/suppliers/me", h.GetOwn)
	mux.HandleFunc("GET /v1/suppliers/me/tier", h.GetOwnTier)
	mux.HandleFunc("POST /v1/suppliers/me/clarification", h.ResubmitClarification)
	mux.HandleFunc("POST /v1/suppliers/me/identity", h.ResubmitIdentity)
	mux.HandleFunc("GET /v1/suppliers/{userId}/eligibility", h.Eligibility)

	// Admin review queues and decisions
	mux.HandleFunc("GET /v1/admin/suppliers", h.ListByStatus)
	mux.HandleFunc("POST /v1/admin/suppliers/{userId}/review", h.ReviewAccount)
	mux.HandleFunc("POST /v1/admin/suppliers/{userId}/reopen", h.ReopenRejected)
	mux.HandleFunc("POST /v1/admin/suppliers/{userId}/suspend", h.SuspendAccount)
	mux.HandleFunc("POST /v1/admin/suppliers/{userId}/reinstate", h.ReinstateAccount)
	mux.HandleFunc("POST /v1/admin/suppliers/{userId}/identity/review", h.ReviewIdentity)
	mux.HandleFunc("POST /v1/admin/suppliers/{userId}/identity/revoke", h.RevokeIdentity)
}

// Register handles POST /v1/suppliers
func (h *SupplierHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	var req model.RegisterSupplierRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	supplier, err := h.onboardingService.Register(ctx, userID, &req)
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "register supplier"))
		return
	}

	WriteData(w, http.StatusCreated, supplier, nil)
}

// GetOwn handles GET /v1/suppliers/me
func (h *SupplierHandler) GetOwn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	supplier, err := h.onboardingService.Get(ctx, userID)
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "get supplier"))
		return
	}

	WriteData(w, http.StatusOK, supplier, nil)
}

// GetOwnTier handles GET /v1/suppliers/me/tier
func (h *SupplierHandler) GetOwnTier(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	classification, err := h.tierService.ClassifySupplier(ctx, userID)
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "classify supplier"))
		return
	}

	WriteData(w, http.StatusOK, classification, nil)
}

// ResubmitClarification handles POST /v1/suppliers/me/clarification
func (h *SupplierHandler) ResubmitClarification(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	supplier, err := h.onboardingService.ResubmitClarification(ctx, userID)
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "resubmit clarification"))
		return
	}

	WriteData(w, http.StatusOK, supplier, nil)
}

type resubmitIdentityRequest struct {
	IdentityDocumentIDs []string `json:"identity_document_ids"`
}

// ResubmitIdentity handles POST /v1/suppliers/me/identity
func (h *SupplierHandler) ResubmitIdentity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	var req resubmitIdentityRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	supplier, err := h.onboardingService.ResubmitIdentity(ctx, userID, req.IdentityDocumentIDs)
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "resubmit identity"))
		return
	}

	WriteData(w, http.StatusOK, supplier, nil)
}

// Eligibility handles GET /v1/suppliers/{userId}/eligibility
func (h *SupplierHandler) Eligibility(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if middleware.GetUserID(ctx) == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	eligibility, err := h.onboardingService.BookingEligibility(ctx, r.PathValue("userId"))
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "booking eligibility"))
		return
	}

	WriteData(w, http.StatusOK, eligibility, nil)
}

// ListByStatus handles GET /v1/admin/suppliers?status=pending_review
func (h *SupplierHandler) ListByStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if !requireAdmin(w, r) {
		return
	}

	status := r.URL.Query().Get("status")
	if status == "" {
		status = string(model.AccountStatusPendingReview)
	}
	limit, offset := paginationParams(r)

	suppliers, err := h.onboardingService.ListByAccountStatus(ctx, status, limit, offset)
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "list suppliers"))
		return
	}

	WriteCollection(w, http.StatusOK, suppliers, &PaginationInfo{
		HasMore: len(suppliers) == limit,
	}, nil)
}

// ReviewAccount handles POST /v1/admin/suppliers/{userId}/review
func (h *SupplierHandler) ReviewAccount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims := middleware.GetClaims(ctx)
	if !requireAdmin(w, r) {
		return
	}

	var req model.ReviewAccountRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	supplier, err := h.onboardingService.ReviewAccount(ctx, r.PathValue("userId"), claims.UserID, &req)
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "review account"))
		return
	}

	WriteData(w, http.StatusOK, supplier, nil)
}

type adminNoteRequest struct {
	Note *string `json:"note,omitempty"`
}

// ReopenRejected handles POST /v1/admin/suppliers/{userId}/reopen
func (h *SupplierHandler) ReopenRejected(w http.ResponseWriter, r *http.Request) {
	h.accountAction(w, r, "reopen rejected", h.onboardingService.ReopenRejected)
}

// SuspendAccount handles POST /v1/admin/suppliers/{userId}/suspend
func (h *SupplierHandler) SuspendAccount(w http.ResponseWriter, r *http.Request) {
	h.accountAction(w, r, "suspend account", h.onboardingService.SuspendAccount)
}

// ReinstateAccount handles POST /v1/admin/suppliers/{userId}/reinstate
func (h *SupplierHandler) ReinstateAccount(w http.ResponseWriter, r *http.Request) {
	h.accountAction(w, r, "reinstate account", h.onboardingService.ReinstateAccount)
}

func (h *SupplierHandler) accountAction(w http.ResponseWriter, r *http.Request, operation string, action func(ctx context.Context, userID, adminID string, note *string) (*model.Supplier, error)) {
	ctx := r.Context()
	claims := middleware.GetClaims(ctx)
	if !requireAdmin(w, r) {
		return
	}

	var req adminNoteRequest
	if r.ContentLength > 0 {
		if err := DecodeJSON(r, &req); err != nil {
			WriteError(w, model.NewBadRequestError("invalid request body"))
			return
		}
	}

	supplier, err := action(ctx, r.PathValue("userId"), claims.UserID, req.Note)
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, operation))
		return
	}

	WriteData(w, http.StatusOK, supplier, nil)
}

// ReviewIdentity handles POST /v1/admin/suppliers/{userId}/identity/review
func (h *SupplierHandler) ReviewIdentity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims := middleware.GetClaims(ctx)
	if !requireAdmin(w, r) {
		return
	}

	var req model.ReviewIdentityRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	supplier, err := h.onboardingService.ReviewIdentity(ctx, r.PathValue("userId"), claims.UserID, &req)
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "review identity"))
		return
	}

	WriteData(w, http.StatusOK, supplier, nil)
}

// RevokeIdentity handles POST /v1/admin/suppliers/{userId}/identity/revoke
func (h *SupplierHandler) RevokeIdentity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims := middleware.GetClaims(ctx)
	if !requireAdmin(w, r) {
		return
	}

	supplier, err := h.onboardingService.RevokeIdentity(ctx, r.PathValue("userId"), claims.UserID)
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "revoke identity"))
		return
	}

	WriteData(w, http.StatusOK, supplier, nil)
}
