package service

import (
	"context"
	"errors"
	"strings"

	"github.com/festo/gala/api/internal/database"
	"github.com/festo/gala/api/internal/model"
)

// ReportRepository defines the interface for violation ledger data access
type ReportRepository interface {
	CreateWithCounters(ctx context.Context, report *model.Report) error
	GetByID(ctx context.Context, id string) (*model.Report, error)
	ListByStatus(ctx context.Context, status model.ReportStatus, limit, offset int) ([]*model.Report, error)
	ListAgainstUser(ctx context.Context, userID string) ([]*model.Report, error)
	UpdateStatus(ctx context.Context, report *model.Report, to model.ReportStatus, resolution *string, actions []string, adminID string) error
	OverrideSeverity(ctx context.Context, report *model.Report, to model.ReportSeverity) error
	CountOpenAgainstUser(ctx context.Context, userID string) (int, error)
}

// StandingRecomputer is the slice of the standing engine the report service
// drives: counter bumps land in the ledger transaction, then the standing is
// re-derived.
type StandingRecomputer interface {
	GetStanding(ctx context.Context, userID string) (*model.Standing, error)
	Recompute(ctx context.Context, userID string) (*model.Standing, error)
}

// ReportService owns the violation report lifecycle
type ReportService struct {
	reportRepo ReportRepository
	standings  StandingRecomputer
	eventHub   *EventHub
}

// NewReportService creates a new report service
func NewReportService(reportRepo ReportRepository, standings StandingRecomputer, eventHub *EventHub) *ReportService {
	return &ReportService{
		reportRepo: reportRepo,
		standings:  standings,
		eventHub:   eventHub,
	}
}

// File validates and files a report against a user. The reported user's
// standing counters are bumped in the same transaction as the ledger write,
// then the standing is recomputed so the penalty lands immediately.
func (s *ReportService) File(ctx context.Context, reporterID string, reporterRole model.UserRole, req *model.FileReportRequest) (*model.Report, error) {
	if req.ReportedUserID == reporterID {
		return nil, ErrCannotReportSelf
	}
	if !model.IsValidReportCategory(req.Category) {
		return nil, ErrInvalidCategory
	}

	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return nil, ErrReasonRequired
	}
	if len(reason) > model.MaxReportReasonLength {
		return nil, ErrReasonTooLong
	}

	if len(req.Evidence) > model.MaxEvidenceItems {
		return nil, ErrTooManyEvidenceItems
	}
	for _, url := range req.Evidence {
		if len(url) > model.MaxEvidenceURLLength {
			return nil, ErrEvidenceURLTooLong
		}
	}

	reportedRole := model.UserRole(req.ReportedRole)
	if !model.IsValidUserRole(req.ReportedRole) {
		reportedRole = model.UserRoleCustomer
	}

	category := model.ReportCategory(req.Category)
	severity := model.SuggestedSeverity(category)

	// Ensure a standing row exists before the counter bump targets it
	if _, err := s.standings.GetStanding(ctx, req.ReportedUserID); err != nil {
		return nil, err
	}

	report := &model.Report{
		ReporterUserID:    reporterID,
		ReporterRole:      reporterRole,
		ReportedUserID:    req.ReportedUserID,
		ReportedRole:      reportedRole,
		BookingID:         req.BookingID,
		ReviewID:          req.ReviewID,
		ChatID:            req.ChatID,
		Category:          category,
		Reason:            reason,
		Evidence:          req.Evidence,
		SuggestedSeverity: severity,
		EffectiveSeverity: severity,
		Status:            model.ReportStatusPending,
	}

	if err := s.reportRepo.CreateWithCounters(ctx, report); err != nil {
		return nil, err
	}

	if _, err := s.standings.Recompute(ctx, req.ReportedUserID); err != nil {
		// The ledger write stands; the next recompute picks the counters up
		if !errors.Is(err, ErrRecomputeConflict) {
			return nil, err
		}
	}

	if s.eventHub != nil {
		s.eventHub.Publish(&Event{
			Type:   EventReportFiled,
			UserID: report.ReportedUserID,
			Data: map[string]interface{}{
				"report_id": report.ID,
				"category":  report.Category,
				"severity":  report.EffectiveSeverity,
			},
		})
	}

	return report, nil
}

// Get retrieves a report by ID
func (s *ReportService) Get(ctx context.Context, id string) (*model.Report, error) {
	report, err := s.reportRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}
	return report, nil
}

// ListByStatus lists reports in a lifecycle state for the admin review queue
func (s *ReportService) ListByStatus(ctx context.Context, status string, limit, offset int) ([]*model.Report, error) {
	if !model.IsValidReportStatus(status) {
		return nil, ErrInvalidReportTransition
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.reportRepo.ListByStatus(ctx, model.ReportStatus(status), limit, offset)
}

// ListAgainstUser lists the full report history for a user
func (s *ReportService) ListAgainstUser(ctx context.Context, userID string) ([]*model.Report, error) {
	return s.reportRepo.ListAgainstUser(ctx, userID)
}

// Investigate moves a pending report into investigation
func (s *ReportService) Investigate(ctx context.Context, id string) (*model.Report, error) {
	report, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.transition(ctx, report, model.ReportStatusInvestigating, nil, nil, ""); err != nil {
		return nil, err
	}
	return report, nil
}

// Resolve records an admin decision on a report. Resolved and dismissed are
// terminal; either way the reported user's standing is recomputed so the
// active-report penalty is released.
func (s *ReportService) Resolve(ctx context.Context, id string, adminID string, req *model.ResolveReportRequest) (*model.Report, error) {
	var target model.ReportStatus
	switch req.Outcome {
	case "resolved":
		target = model.ReportStatusResolved
	case "dismissed":
		target = model.ReportStatusDismissed
	case "escalated":
		target = model.ReportStatusEscalated
	default:
		return nil, ErrInvalidResolutionOutcome
	}

	if len(req.Resolution) > model.MaxResolutionNoteLength {
		return nil, ErrResolutionNoteTooLong
	}

	report, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	var resolution *string
	if note := strings.TrimSpace(req.Resolution); note != "" {
		resolution = &note
	}

	if err := s.transition(ctx, report, target, resolution, req.ActionsTaken, adminID); err != nil {
		return nil, err
	}

	if model.IsTerminalReportStatus(target) {
		if _, err := s.standings.Recompute(ctx, report.ReportedUserID); err != nil {
			if !errors.Is(err, ErrRecomputeConflict) {
				return nil, err
			}
		}

		if s.eventHub != nil {
			s.eventHub.Publish(&Event{
				Type:   EventReportResolved,
				UserID: report.ReportedUserID,
				Data: map[string]interface{}{
					"report_id": report.ID,
					"outcome":   report.Status,
				},
			})
		}
	}

	return report, nil
}

// transition enforces the forward-only lifecycle table and applies the move
func (s *ReportService) transition(ctx context.Context, report *model.Report, to model.ReportStatus, resolution *string, actions []string, adminID string) error {
	if model.IsTerminalReportStatus(report.Status) {
		return ErrReportAlreadyClosed
	}
	if !model.CanTransitionReport(report.Status, to) {
		return ErrInvalidReportTransition
	}

	if err := s.reportRepo.UpdateStatus(ctx, report, to, resolution, actions, adminID); err != nil {
		return err
	}

	report.Status = to
	report.Resolution = resolution
	report.ActionsTaken = actions
	if model.IsTerminalReportStatus(to) && adminID != "" {
		report.ResolvedByID = &adminID
	}
	return nil
}

// OverrideSeverity replaces a report's effective severity by admin decision.
// The suggested severity stays on record for audit; the standing is
// recomputed because the severity counters moved.
func (s *ReportService) OverrideSeverity(ctx context.Context, id string, req *model.OverrideSeverityRequest) (*model.Report, error) {
	if !model.IsValidReportSeverity(req.Severity) {
		return nil, ErrInvalidSeverity
	}

	report, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if model.IsTerminalReportStatus(report.Status) {
		return nil, ErrReportAlreadyClosed
	}

	to := model.ReportSeverity(req.Severity)
	if to == report.EffectiveSeverity {
		return report, nil
	}

	if err := s.reportRepo.OverrideSeverity(ctx, report, to); err != nil {
		return nil, err
	}
	report.EffectiveSeverity = to

	if _, err := s.standings.Recompute(ctx, report.ReportedUserID); err != nil {
		if !errors.Is(err, ErrRecomputeConflict) {
			return nil, err
		}
	}

	return report, nil
}
