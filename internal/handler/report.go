package handler

import (
	"net/http"
	"strconv"

	"github.com/festo/gala/api/internal/middleware"
	"github.com/festo/gala/api/internal/model"
	"github.com/festo/gala/api/internal/service"
)

// ReportHandler handles violation report HTTP requests
type ReportHandler struct {
	reportService *service.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// RegisterRoutes registers report routes
func (h *ReportHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/reports", h.FileReport)

	// Admin review queue
	mux.HandleFunc("GET /v1/admin/reports", h.ListReports)
	mux.HandleFunc("GET /v1/admin/reports/{reportId}", h.GetReport)
	mux.HandleFunc("GET /v1/admin/users/{userId}/reports", h.ListReportsAgainstUser)
	mux.HandleFunc("POST /v1/admin/reports/{reportId}/investigate", h.InvestigateReport)
	mux.HandleFunc("POST /v1/admin/reports/{reportId}/resolve", h.ResolveReport)
	mux.HandleFunc("POST /v1/admin/reports/{reportId}/severity", h.OverrideSeverity)
}

// FileReport handles POST /v1/reports
func (h *ReportHandler) FileReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims := middleware.GetClaims(ctx)
	if claims == nil {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	var req model.FileReportRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	report, err := h.reportService.File(ctx, claims.UserID, model.UserRole(claims.Role), &req)
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "file report"))
		return
	}

	WriteData(w, http.StatusCreated, report, nil)
}

// GetReport handles GET /v1/admin/reports/{reportId}
func (h *ReportHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if !requireAdmin(w, r) {
		return
	}

	report, err := h.reportService.Get(ctx, r.PathValue("reportId"))
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "get report"))
		return
	}

	WriteData(w, http.StatusOK, report, nil)
}

// ListReports handles GET /v1/admin/reports?status=pending&limit=20&offset=0
func (h *ReportHandler) ListReports(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if !requireAdmin(w, r) {
		return
	}

	status := r.URL.Query().Get("status")
	if status == "" {
		status = string(model.ReportStatusPending)
	}
	limit, offset := paginationParams(r)

	reports, err := h.reportService.ListByStatus(ctx, status, limit, offset)
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "list reports"))
		return
	}

	WriteCollection(w, http.StatusOK, summarize(reports), &PaginationInfo{
		HasMore: len(reports) == limit,
	}, nil)
}

// ListReportsAgainstUser handles GET /v1/admin/users/{userId}/reports
func (h *ReportHandler) ListReportsAgainstUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if !requireAdmin(w, r) {
		return
	}

	reports, err := h.reportService.ListAgainstUser(ctx, r.PathValue("userId"))
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "list reports against user"))
		return
	}

	WriteCollection(w, http.StatusOK, reports, nil, nil)
}

// InvestigateReport handles POST /v1/admin/reports/{reportId}/investigate
func (h *ReportHandler) InvestigateReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if !requireAdmin(w, r) {
		return
	}

	report, err := h.reportService.Investigate(ctx, r.PathValue("reportId"))
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "investigate report"))
		return
	}

	WriteData(w, http.StatusOK, report, nil)
}

// ResolveReport handles POST /v1/admin/reports/{reportId}/resolve
func (h *ReportHandler) ResolveReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims := middleware.GetClaims(ctx)
	if !requireAdmin(w, r) {
		return
	}

	var req model.ResolveReportRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	report, err := h.reportService.Resolve(ctx, r.PathValue("reportId"), claims.UserID, &req)
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "resolve report"))
		return
	}

	WriteData(w, http.StatusOK, report, nil)
}

// OverrideSeverity handles POST /v1/admin/reports/{reportId}/severity
func (h *ReportHandler) OverrideSeverity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if !requireAdmin(w, r) {
		return
	}

	var req model.OverrideSeverityRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	report, err := h.reportService.OverrideSeverity(ctx, r.PathValue("reportId"), &req)
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "override severity"))
		return
	}

	WriteData(w, http.StatusOK, report, nil)
}

func summarize(reports []*model.Report) []model.ReportSummary {
	summaries := make([]model.ReportSummary, 0, len(reports))
	for _, report := range reports {
		summaries = append(summaries, model.ReportSummary{
			ID:                report.ID,
			ReportedUserID:    report.ReportedUserID,
			Category:          report.Category,
			EffectiveSeverity: report.EffectiveSeverity,
			Status:            report.Status,
			CreatedOn:         report.CreatedOn,
		})
	}
	return summaries
}

// requireAdmin gates a handler on the admin role claim. Writes the error
// response itself; callers just return on false.
func requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	claims := middleware.GetClaims(r.Context())
	if claims == nil {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return false
	}
	if !claims.IsAdmin() {
		WriteError(w, model.NewForbiddenError("admin access required"))
		return false
	}
	return true
}

// paginationParams reads limit/offset query parameters with defaults
func paginationParams(r *http.Request) (int, int) {
	limit := 20
	offset := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			offset = n
		}
	}
	return limit, offset
}
