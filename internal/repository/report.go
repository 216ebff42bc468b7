package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/festo/gala/api/internal/database"
	"github.com/festo/gala/api/internal/model"
)

// ReportRepository handles violation ledger data access
type ReportRepository struct {
	db database.Database
}

// NewReportRepository creates a new report repository
func NewReportRepository(db database.Database) *ReportRepository {
	return &ReportRepository{db: db}
}

// CreateWithCounters creates a report and bumps the reported user's standing
// counters in a single transaction. The severity counter matches the report's
// effective severity at filing time.
func (r *ReportRepository) CreateWithCounters(ctx context.Context, report *model.Report) error {
	batch := database.NewAtomicBatch()

	// Client-generated ID so the create can ride in a batch and still hand
	// the caller a stable record reference.
	rid := uuid.NewString()

	batch.Add(`
		CREATE type::thing("report", $rid) CONTENT {
			reporter_user_id: $reporter_user_id,
			reporter_role: $reporter_role,
			reported_user_id: $reported_user_id,
			reported_role: $reported_role,
			booking_id: $booking_id,
			review_id: $review_id,
			chat_id: $chat_id,
			category: $category,
			reason: $reason,
			evidence: $evidence,
			suggested_severity: $suggested_severity,
			effective_severity: $effective_severity,
			status: $status,
			created_on: time::now(),
			updated_on: time::now()
		}
	`, map[string]interface{}{
		"rid":                rid,
		"reporter_user_id":   report.ReporterUserID,
		"reporter_role":      report.ReporterRole,
		"reported_user_id":   report.ReportedUserID,
		"reported_role":      report.ReportedRole,
		"booking_id":         report.BookingID,
		"review_id":          report.ReviewID,
		"chat_id":            report.ChatID,
		"category":           report.Category,
		"reason":             report.Reason,
		"evidence":           report.Evidence,
		"suggested_severity": report.SuggestedSeverity,
		"effective_severity": report.EffectiveSeverity,
		"status":             report.Status,
	})

	counterQuery := `
		UPDATE standing SET
			metrics.total_reports += 1,
			updated_on = time::now()
		WHERE user_id = $user_id
	`
	switch report.EffectiveSeverity {
	case model.SeverityCritical:
		counterQuery = `
			UPDATE standing SET
				metrics.total_reports += 1,
				metrics.critical_reports += 1,
				updated_on = time::now()
			WHERE user_id = $user_id
		`
	case model.SeverityHigh:
		counterQuery = `
			UPDATE standing SET
				metrics.total_reports += 1,
				metrics.high_reports += 1,
				updated_on = time::now()
			WHERE user_id = $user_id
		`
	}
	batch.Add(counterQuery, map[string]interface{}{
		"user_id": report.ReportedUserID,
	})

	if err := batch.Execute(ctx, r.db); err != nil {
		return err
	}

	now := time.Now().UTC()
	report.ID = "report:" + rid
	report.CreatedOn = now
	report.UpdatedOn = now
	return nil
}

// GetByID retrieves a report by its record ID
func (r *ReportRepository) GetByID(ctx context.Context, id string) (*model.Report, error) {
	query := `SELECT * FROM report WHERE id = type::record($id) LIMIT 1`
	vars := map[string]interface{}{"id": id}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	return parseReportResult(result)
}

// ListByStatus lists reports in a given lifecycle state, newest first
func (r *ReportRepository) ListByStatus(ctx context.Context, status model.ReportStatus, limit, offset int) ([]*model.Report, error) {
	query := `
		SELECT * FROM report
		WHERE status = $status
		ORDER BY created_on DESC
		LIMIT $limit START $offset
	`
	vars := map[string]interface{}{
		"status": status,
		"limit":  limit,
		"offset": offset,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	return parseReportsResult(result)
}

// ListAgainstUser lists all reports filed against a user, newest first
func (r *ReportRepository) ListAgainstUser(ctx context.Context, userID string) ([]*model.Report, error) {
	query := `
		SELECT * FROM report
		WHERE reported_user_id = $user_id
		ORDER BY created_on DESC
	`
	vars := map[string]interface{}{"user_id": userID}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	return parseReportsResult(result)
}

// UpdateStatus moves a report to a new lifecycle state. Terminal outcomes
// stamp resolved_on and record the deciding admin; counter bumps for the
// reported user's standing ride in the same transaction.
func (r *ReportRepository) UpdateStatus(ctx context.Context, report *model.Report, to model.ReportStatus, resolution *string, actions []string, adminID string) error {
	batch := database.NewAtomicBatch()

	if model.IsTerminalReportStatus(to) {
		batch.Add(`
			UPDATE report SET
				status = $status,
				resolution = $resolution,
				actions_taken = $actions_taken,
				resolved_by_id = $resolved_by_id,
				resolved_on = time::now(),
				updated_on = time::now()
			WHERE id = type::record($id)
		`, map[string]interface{}{
			"id":             report.ID,
			"status":         to,
			"resolution":     resolution,
			"actions_taken":  actions,
			"resolved_by_id": adminID,
		})

		counterField := "metrics.resolved_reports"
		if to == model.ReportStatusDismissed {
			counterField = "metrics.dismissed_reports"
		}
		batch.Add(`
			UPDATE standing SET
				`+counterField+` += 1,
				updated_on = time::now()
			WHERE user_id = $user_id
		`, map[string]interface{}{
			"user_id": report.ReportedUserID,
		})
	} else {
		batch.Add(`
			UPDATE report SET
				status = $status,
				updated_on = time::now()
			WHERE id = type::record($id)
		`, map[string]interface{}{
			"id":     report.ID,
			"status": to,
		})
	}

	return batch.Execute(ctx, r.db)
}

// OverrideSeverity replaces the effective severity of a report and adjusts
// the reported user's severity counters to match. The suggested severity is
// immutable.
func (r *ReportRepository) OverrideSeverity(ctx context.Context, report *model.Report, to model.ReportSeverity) error {
	batch := database.NewAtomicBatch()

	batch.Add(`
		UPDATE report SET
			effective_severity = $severity,
			updated_on = time::now()
		WHERE id = type::record($id)
	`, map[string]interface{}{
		"id":       report.ID,
		"severity": to,
	})

	adjustments := severityCounterAdjustments(report.EffectiveSeverity, to)
	if len(adjustments) > 0 {
		query := `UPDATE standing SET `
		for i, adj := range adjustments {
			if i > 0 {
				query += ", "
			}
			query += adj
		}
		query += `, updated_on = time::now() WHERE user_id = $user_id`
		batch.Add(query, map[string]interface{}{
			"user_id": report.ReportedUserID,
		})
	}

	return batch.Execute(ctx, r.db)
}

// severityCounterAdjustments returns the SET clauses that move the standing's
// severity counters when a report's effective severity changes. Only critical
// and high severities are tracked by dedicated counters.
func severityCounterAdjustments(from, to model.ReportSeverity) []string {
	var clauses []string
	if from == to {
		return clauses
	}
	switch from {
	case model.SeverityCritical:
		clauses = append(clauses, "metrics.critical_reports -= 1")
	case model.SeverityHigh:
		clauses = append(clauses, "metrics.high_reports -= 1")
	}
	switch to {
	case model.SeverityCritical:
		clauses = append(clauses, "metrics.critical_reports += 1")
	case model.SeverityHigh:
		clauses = append(clauses, "metrics.high_reports += 1")
	}
	return clauses
}

// CountOpenAgainstUser counts reports still open against a user
func (r *ReportRepository) CountOpenAgainstUser(ctx context.Context, userID string) (int, error) {
	query := `
		SELECT count() as cnt FROM report
		WHERE reported_user_id = $user_id
		  AND status IN ["pending", "investigating", "escalated"]
		GROUP ALL
	`
	vars := map[string]interface{}{"user_id": userID}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}

	if data, ok := result.(map[string]interface{}); ok {
		return getInt(data, "cnt"), nil
	}
	return 0, nil
}

// Helper functions

func parseReportResult(result interface{}) (*model.Report, error) {
	if result == nil {
		return nil, database.ErrNotFound
	}

	data, ok := result.(map[string]interface{})
	if !ok {
		return nil, errors.New("unexpected result format")
	}

	if id, ok := data["id"]; ok {
		data["id"] = convertSurrealID(id)
	}

	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	var report model.Report
	if err := json.Unmarshal(jsonBytes, &report); err != nil {
		return nil, err
	}

	if t := getTime(data, "created_on"); t != nil {
		report.CreatedOn = *t
	}
	if t := getTime(data, "updated_on"); t != nil {
		report.UpdatedOn = *t
	}
	report.ResolvedOn = getTime(data, "resolved_on")

	return &report, nil
}

func parseReportsResult(result []interface{}) ([]*model.Report, error) {
	reports := make([]*model.Report, 0)

	for _, res := range result {
		if resp, ok := res.(map[string]interface{}); ok {
			if resultData, ok := resp["result"].([]interface{}); ok {
				for _, item := range resultData {
					report, err := parseReportResult(item)
					if err != nil {
						continue
					}
					reports = append(reports, report)
				}
				continue
			}
		}

		report, err := parseReportResult(res)
		if err != nil {
			continue
		}
		reports = append(reports, report)
	}

	return reports, nil
}
