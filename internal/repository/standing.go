package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/festo/gala/api/internal/database"
	"github.com/festo/gala/api/internal/model"
)

// StandingRepository handles trust & safety standing data access
type StandingRepository struct {
	db database.Database
}

// NewStandingRepository creates a new standing repository
func NewStandingRepository(db database.Database) *StandingRepository {
	return &StandingRepository{db: db}
}

// GetByUserID retrieves the standing record for a user
func (r *StandingRepository) GetByUserID(ctx context.Context, userID string) (*model.Standing, error) {
	query := `SELECT * FROM standing WHERE user_id = $user_id LIMIT 1`
	vars := map[string]interface{}{"user_id": userID}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	return parseStandingResult(result)
}

// Create creates a fresh standing record with neutral defaults
func (r *StandingRepository) Create(ctx context.Context, standing *model.Standing) error {
	query := `
		CREATE standing CONTENT {
			user_id: $user_id,
			safety_score: $safety_score,
			safety_status: $safety_status,
			warning_count: 0,
			admin_suspended: false,
			badges: [],
			metrics: $metrics,
			revision: 0,
			created_on: time::now(),
			updated_on: time::now()
		}
	`
	vars := map[string]interface{}{
		"user_id":       standing.UserID,
		"safety_score":  standing.SafetyScore,
		"safety_status": standing.SafetyStatus,
		"metrics":       metricsVars(standing.Metrics),
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return err
	}

	created, err := extractCreatedRecord(result)
	if err != nil {
		return err
	}

	standing.ID = created.ID
	standing.Revision = 0
	standing.CreatedOn = created.CreatedOn
	standing.UpdatedOn = created.UpdatedOn
	return nil
}

// UpdateSnapshot writes a derived standing snapshot guarded by the revision
// the caller read. The write succeeds only if no concurrent writer bumped the
// revision in the meantime; otherwise database.ErrConflict is returned and the
// caller should re-read and recompute.
//
// Only derived fields and stamps are written here. Metric counters are
// maintained exclusively by the atomic increment methods so a slow snapshot
// write can never clobber a concurrent counter bump.
func (r *StandingRepository) UpdateSnapshot(ctx context.Context, standing *model.Standing) error {
	query := `
		UPDATE standing SET
			safety_score = $safety_score,
			safety_status = $safety_status,
			warning_count = $warning_count,
			last_warning_on = $last_warning_on,
			probation_started_on = $probation_started_on,
			suspension_started_on = $suspension_started_on,
			suspension_ends_on = $suspension_ends_on,
			admin_suspended = $admin_suspended,
			badges = $badges,
			metrics.overall_rating = $overall_rating,
			metrics.completion_rate = $completion_rate,
			metrics.cancellation_rate = $cancellation_rate,
			metrics.response_rate = $response_rate,
			metrics.on_time_rate = $on_time_rate,
			revision = $next_revision,
			updated_on = time::now()
		WHERE user_id = $user_id AND revision = $revision
		RETURN AFTER
	`
	vars := map[string]interface{}{
		"user_id":               standing.UserID,
		"revision":              standing.Revision,
		"next_revision":         standing.Revision + 1,
		"safety_score":          standing.SafetyScore,
		"safety_status":         standing.SafetyStatus,
		"warning_count":         standing.WarningCount,
		"last_warning_on":       standing.LastWarningOn,
		"probation_started_on":  standing.ProbationStartedOn,
		"suspension_started_on": standing.SuspensionStartedOn,
		"suspension_ends_on":    standing.SuspensionEndsOn,
		"admin_suspended":       standing.AdminSuspended,
		"badges":                badgesVars(standing.Badges),
		"overall_rating":        standing.Metrics.OverallRating,
		"completion_rate":       standing.Metrics.CompletionRate,
		"cancellation_rate":     standing.Metrics.CancellationRate,
		"response_rate":         standing.Metrics.ResponseRate,
		"on_time_rate":          standing.Metrics.OnTimeRate,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return err
	}

	// An empty result set means the guard failed: no row matched the revision
	if rows, ok := extractQueryResults(result); !ok || len(rows) == 0 {
		return database.ErrConflict
	}

	standing.Revision++
	return nil
}

// IncrementBookingCompleted atomically records a completed booking and
// refreshes the derived completion and cancellation rates.
func (r *StandingRepository) IncrementBookingCompleted(ctx context.Context, userID string) error {
	return r.bumpBookingCounters(ctx, userID, "metrics.completed_bookings += 1")
}

// IncrementBookingCancelled atomically records a supplier-cancelled booking
func (r *StandingRepository) IncrementBookingCancelled(ctx context.Context, userID string) error {
	return r.bumpBookingCounters(ctx, userID, "metrics.cancelled_bookings += 1")
}

func (r *StandingRepository) bumpBookingCounters(ctx context.Context, userID, bump string) error {
	// The rate refresh rides in a second statement of the same transaction
	// so readers never observe counters and rates out of sync.
	batch := database.NewAtomicBatch()
	batch.Add(`
		UPDATE standing SET
			`+bump+`,
			updated_on = time::now()
		WHERE user_id = $user_id
	`, map[string]interface{}{"user_id": userID})
	batch.Add(`
		UPDATE standing SET
			metrics.completion_rate = IF metrics.completed_bookings + metrics.cancelled_bookings > 0
				THEN metrics.completed_bookings / (metrics.completed_bookings + metrics.cancelled_bookings)
				ELSE 0 END,
			metrics.cancellation_rate = IF metrics.completed_bookings + metrics.cancelled_bookings > 0
				THEN metrics.cancelled_bookings / (metrics.completed_bookings + metrics.cancelled_bookings)
				ELSE 0 END
		WHERE user_id = $user_id
	`, map[string]interface{}{"user_id": userID})
	return batch.Execute(ctx, r.db)
}

// IncrementReview atomically folds a review rating into the rating accumulator
func (r *StandingRepository) IncrementReview(ctx context.Context, userID string, rating float64) error {
	batch := database.NewAtomicBatch()
	batch.Add(`
		UPDATE standing SET
			metrics.rating_sum += $rating,
			metrics.total_reviews += 1,
			updated_on = time::now()
		WHERE user_id = $user_id
	`, map[string]interface{}{
		"user_id": userID,
		"rating":  rating,
	})
	batch.Add(`
		UPDATE standing SET
			metrics.overall_rating = IF metrics.total_reviews > 0
				THEN metrics.rating_sum / metrics.total_reviews
				ELSE 0 END
		WHERE user_id = $user_id
	`, map[string]interface{}{"user_id": userID})
	return batch.Execute(ctx, r.db)
}

// IncrementResponseSample atomically records a response-time sample
func (r *StandingRepository) IncrementResponseSample(ctx context.Context, userID string, responded, onTime bool) error {
	respondedInc := 0
	if responded {
		respondedInc = 1
	}
	onTimeInc := 0
	if onTime {
		onTimeInc = 1
	}

	batch := database.NewAtomicBatch()
	batch.Add(`
		UPDATE standing SET
			metrics.response_samples += 1,
			metrics.responded_samples += $responded,
			metrics.on_time_samples += $on_time,
			updated_on = time::now()
		WHERE user_id = $user_id
	`, map[string]interface{}{
		"user_id":   userID,
		"responded": respondedInc,
		"on_time":   onTimeInc,
	})
	batch.Add(`
		UPDATE standing SET
			metrics.response_rate = IF metrics.response_samples > 0
				THEN metrics.responded_samples / metrics.response_samples
				ELSE 0 END,
			metrics.on_time_rate = IF metrics.response_samples > 0
				THEN metrics.on_time_samples / metrics.response_samples
				ELSE 0 END
		WHERE user_id = $user_id
	`, map[string]interface{}{"user_id": userID})
	return batch.Execute(ctx, r.db)
}

// ResetWarnings zeroes the warning counter. This is the only code path that
// ever decrements it.
func (r *StandingRepository) ResetWarnings(ctx context.Context, userID string) error {
	query := `
		UPDATE standing SET
			warning_count = 0,
			last_warning_on = NONE,
			updated_on = time::now()
		WHERE user_id = $user_id
	`
	return r.db.Execute(ctx, query, map[string]interface{}{"user_id": userID})
}

// ListExpiredSuspensions returns standings whose time-boxed suspension has
// lapsed. Indefinite suspensions (no end date) are never returned.
func (r *StandingRepository) ListExpiredSuspensions(ctx context.Context, now time.Time) ([]*model.Standing, error) {
	query := `
		SELECT * FROM standing
		WHERE safety_status = "suspended"
		  AND suspension_ends_on != NONE
		  AND suspension_ends_on < $now
	`
	vars := map[string]interface{}{"now": now}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	return parseStandingsResult(result)
}

// Helper functions

func metricsVars(m model.StandingMetrics) map[string]interface{} {
	data, _ := json.Marshal(m)
	var out map[string]interface{}
	_ = json.Unmarshal(data, &out)
	return out
}

func badgesVars(badges []model.Badge) []interface{} {
	out := make([]interface{}, 0, len(badges))
	for _, b := range badges {
		data, _ := json.Marshal(b)
		var m map[string]interface{}
		_ = json.Unmarshal(data, &m)
		out = append(out, m)
	}
	return out
}

func parseStandingResult(result interface{}) (*model.Standing, error) {
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

	var standing model.Standing
	if err := json.Unmarshal(jsonBytes, &standing); err != nil {
		return nil, err
	}

	if t := getTime(data, "created_on"); t != nil {
		standing.CreatedOn = *t
	}
	if t := getTime(data, "updated_on"); t != nil {
		standing.UpdatedOn = *t
	}
	standing.LastWarningOn = getTime(data, "last_warning_on")
	standing.ProbationStartedOn = getTime(data, "probation_started_on")
	standing.SuspensionStartedOn = getTime(data, "suspension_started_on")
	standing.SuspensionEndsOn = getTime(data, "suspension_ends_on")

	return &standing, nil
}

func parseStandingsResult(result []interface{}) ([]*model.Standing, error) {
	standings := make([]*model.Standing, 0)

	for _, res := range result {
		if resp, ok := res.(map[string]interface{}); ok {
			if resultData, ok := resp["result"].([]interface{}); ok {
				for _, item := range resultData {
					standing, err := parseStandingResult(item)
					if err != nil {
						continue
					}
					standings = append(standings, standing)
				}
				continue
			}
		}

		standing, err := parseStandingResult(res)
		if err != nil {
			continue
		}
		standings = append(standings, standing)
	}

	return standings, nil
}
