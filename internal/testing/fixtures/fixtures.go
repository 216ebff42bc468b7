// Package fixtures provides test data factories for e2e testing.
//
// Each factory method creates entities with sensible defaults while allowing
// customization via option functions. Factories handle database insertion
// and return fully populated models.
//
// Usage:
//
//	f := fixtures.New(tdb.DB)
//	user := f.CreateUser(t)
//	supplier := f.CreateSupplier(t, user)
//	report := f.CreateReport(t, reporter, user)
package fixtures

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/festo/gala/api/internal/database"
	"github.com/festo/gala/api/internal/model"

	"golang.org/x/crypto/bcrypt"
)

// Factory creates test entities in the database
type Factory struct {
	db database.Database
}

// New creates a new fixture factory
func New(db database.Database) *Factory {
	return &Factory{db: db}
}

// randomID generates a random hex ID
func randomID() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// ctx returns a context with timeout
func ctx() context.Context {
	c, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	// Store cancel to prevent leak warning
	_ = cancel
	return c
}

// ============================================================================
// User Fixtures
// ============================================================================

// UserOpts customizes user creation
type UserOpts struct {
	Email       string
	DisplayName string
	Password    string
	Role        model.UserRole
}

// CreateUser creates a user with optional customizations
func (f *Factory) CreateUser(t *testing.T, opts ...func(*UserOpts)) *model.User {
	t.Helper()

	o := &UserOpts{
		Email:       fmt.Sprintf("user_%s@test.local", randomID()),
		DisplayName: fmt.Sprintf("User %s", randomID()),
		Password:    "testpass123",
		Role:        model.UserRoleCustomer,
	}
	for _, fn := range opts {
		fn(o)
	}

	// Hash password
	hash, err := bcrypt.GenerateFromPassword([]byte(o.Password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("fixtures: failed to hash password: %v", err)
	}

	query := `
		CREATE user CONTENT {
			email: $email,
			display_name: $display_name,
			hash: $hash,
			role: $role,
			created_on: time::now(),
			updated_on: time::now()
		}
	`
	vars := map[string]interface{}{
		"email":        o.Email,
		"display_name": o.DisplayName,
		"hash":         string(hash),
		"role":         string(o.Role),
	}

	results, err := f.db.Query(ctx(), query, vars)
	if err != nil {
		t.Fatalf("fixtures: failed to create user: %v", err)
	}

	user := parseUserResult(t, results)
	user.Hash = nil // Don't expose hash in fixture
	return user
}

// CreateAdmin creates an admin user
func (f *Factory) CreateAdmin(t *testing.T) *model.User {
	return f.CreateUser(t, func(o *UserOpts) {
		o.Role = model.UserRoleAdmin
	})
}

// CreateSupplierUser creates a user with the supplier role
func (f *Factory) CreateSupplierUser(t *testing.T) *model.User {
	return f.CreateUser(t, func(o *UserOpts) {
		o.Role = model.UserRoleSupplier
	})
}

// ============================================================================
// Supplier Fixtures
// ============================================================================

// SupplierOpts customizes supplier creation
type SupplierOpts struct {
	BusinessName   string
	Description    string
	ServiceCount   int
	AccountStatus  model.SupplierAccountStatus
	IdentityStatus model.IdentityVerificationStatus
	CreatedOn      *time.Time
}

// CreateSupplier creates a supplier record for a user. Defaults to an active,
// identity-verified supplier so booking eligibility checks pass.
func (f *Factory) CreateSupplier(t *testing.T, user *model.User, opts ...func(*SupplierOpts)) *model.Supplier {
	t.Helper()

	o := &SupplierOpts{
		BusinessName:   fmt.Sprintf("Business %s", randomID()),
		Description:    "Event services",
		ServiceCount:   3,
		AccountStatus:  model.AccountStatusActive,
		IdentityStatus: model.IdentityStatusVerified,
	}
	for _, fn := range opts {
		fn(o)
	}

	createdOn := "time::now()"
	vars := map[string]interface{}{
		"user_id":         user.ID,
		"business_name":   o.BusinessName,
		"description":     o.Description,
		"service_count":   o.ServiceCount,
		"account_status":  string(o.AccountStatus),
		"identity_status": string(o.IdentityStatus),
	}
	if o.CreatedOn != nil {
		createdOn = "$created_on"
		vars["created_on"] = o.CreatedOn.UTC().Format(time.RFC3339Nano)
	}

	query := `
		CREATE supplier CONTENT {
			user_id: $user_id,
			business_name: $business_name,
			description: $description,
			service_count: $service_count,
			account_status: $account_status,
			identity_status: $identity_status,
			identity_document_ids: [],
			created_on: ` + createdOn + `,
			updated_on: time::now()
		}
	`

	results, err := f.db.Query(ctx(), query, vars)
	if err != nil {
		t.Fatalf("fixtures: failed to create supplier: %v", err)
	}

	return parseSupplierResult(t, results)
}

// ============================================================================
// Standing Fixtures
// ============================================================================

// StandingOpts customizes standing creation
type StandingOpts struct {
	SafetyScore  float64
	SafetyStatus model.SafetyStatus
	WarningCount int
	Metrics      model.StandingMetrics
}

// CreateStanding creates a standing record for a user. Defaults to a clean
// new-user record: score 100, safe, no history.
func (f *Factory) CreateStanding(t *testing.T, user *model.User, opts ...func(*StandingOpts)) *model.Standing {
	t.Helper()

	o := &StandingOpts{
		SafetyScore:  100,
		SafetyStatus: model.SafetyStatusSafe,
	}
	for _, fn := range opts {
		fn(o)
	}

	query := `
		CREATE standing CONTENT {
			user_id: $user_id,
			safety_score: $safety_score,
			safety_status: $safety_status,
			warning_count: $warning_count,
			admin_suspended: false,
			badges: [],
			metrics: $metrics,
			revision: 0,
			created_on: time::now(),
			updated_on: time::now()
		}
	`
	vars := map[string]interface{}{
		"user_id":       user.ID,
		"safety_score":  o.SafetyScore,
		"safety_status": string(o.SafetyStatus),
		"warning_count": o.WarningCount,
		"metrics": map[string]interface{}{
			"overall_rating":     o.Metrics.OverallRating,
			"total_reviews":      o.Metrics.TotalReviews,
			"rating_sum":         o.Metrics.RatingSum,
			"completed_bookings": o.Metrics.CompletedBookings,
			"cancelled_bookings": o.Metrics.CancelledBookings,
			"completion_rate":    o.Metrics.CompletionRate,
			"cancellation_rate":  o.Metrics.CancellationRate,
			"response_rate":      o.Metrics.ResponseRate,
			"on_time_rate":       o.Metrics.OnTimeRate,
			"response_samples":   o.Metrics.ResponseSamples,
			"responded_samples":  o.Metrics.RespondedSamples,
			"on_time_samples":    o.Metrics.OnTimeSamples,
			"total_reports":      o.Metrics.TotalReports,
			"critical_reports":   o.Metrics.CriticalReports,
			"high_reports":       o.Metrics.HighReports,
			"resolved_reports":   o.Metrics.ResolvedReports,
			"dismissed_reports":  o.Metrics.DismissedReports,
		},
	}

	results, err := f.db.Query(ctx(), query, vars)
	if err != nil {
		t.Fatalf("fixtures: failed to create standing: %v", err)
	}

	return parseStandingResult(t, results)
}

// CreateSuspendedStanding creates a standing already in the suspended state
// with a suspension episode stamp, ready for appeal tests.
func (f *Factory) CreateSuspendedStanding(t *testing.T, user *model.User, endsOn *time.Time) *model.Standing {
	t.Helper()

	vars := map[string]interface{}{
		"user_id": user.ID,
	}
	endsOnValue := "NONE"
	if endsOn != nil {
		endsOnValue = "$ends_on"
		vars["ends_on"] = endsOn.UTC().Format(time.RFC3339Nano)
	}

	query := `
		CREATE standing CONTENT {
			user_id: $user_id,
			safety_score: 20,
			safety_status: 'suspended',
			warning_count: 3,
			admin_suspended: false,
			suspension_started_on: time::now(),
			suspension_ends_on: ` + endsOnValue + `,
			badges: [],
			metrics: {
				overall_rating: 1.5,
				total_reviews: 10,
				rating_sum: 15,
				completed_bookings: 5,
				cancelled_bookings: 5,
				completion_rate: 0.5,
				cancellation_rate: 0.5,
				response_rate: 0.5,
				on_time_rate: 0.5,
				response_samples: 10,
				responded_samples: 5,
				on_time_samples: 5,
				total_reports: 4,
				critical_reports: 1,
				high_reports: 1,
				resolved_reports: 0,
				dismissed_reports: 0
			},
			revision: 0,
			created_on: time::now(),
			updated_on: time::now()
		}
	`

	results, err := f.db.Query(ctx(), query, vars)
	if err != nil {
		t.Fatalf("fixtures: failed to create suspended standing: %v", err)
	}

	return parseStandingResult(t, results)
}

// ============================================================================
// Report Fixtures
// ============================================================================

// ReportOpts customizes report creation
type ReportOpts struct {
	Category model.ReportCategory
	Reason   string
	Status   model.ReportStatus
	Evidence []string
}

// CreateReport creates a report filed by one user against another. The
// standing counters are NOT bumped; use the report service when counter
// consistency matters.
func (f *Factory) CreateReport(t *testing.T, reporter, reported *model.User, opts ...func(*ReportOpts)) *model.Report {
	t.Helper()

	o := &ReportOpts{
		Category: model.ReportCategoryNoShow,
		Reason:   "Supplier did not show up to the booked event.",
		Status:   model.ReportStatusPending,
	}
	for _, fn := range opts {
		fn(o)
	}

	severity := model.SuggestedSeverity(o.Category)

	query := `
		CREATE report CONTENT {
			reporter_user_id: $reporter_user_id,
			reporter_role: $reporter_role,
			reported_user_id: $reported_user_id,
			reported_role: $reported_role,
			category: $category,
			reason: $reason,
			evidence: $evidence,
			suggested_severity: $severity,
			effective_severity: $severity,
			status: $status,
			actions_taken: [],
			created_on: time::now(),
			updated_on: time::now()
		}
	`
	vars := map[string]interface{}{
		"reporter_user_id": reporter.ID,
		"reporter_role":    string(reporter.Role),
		"reported_user_id": reported.ID,
		"reported_role":    string(reported.Role),
		"category":         string(o.Category),
		"reason":           o.Reason,
		"evidence":         o.Evidence,
		"severity":         string(severity),
		"status":           string(o.Status),
	}

	results, err := f.db.Query(ctx(), query, vars)
	if err != nil {
		t.Fatalf("fixtures: failed to create report: %v", err)
	}

	return parseReportResult(t, results)
}

// ============================================================================
// Appeal Fixtures
// ============================================================================

// CreateAppeal creates a pending appeal against a suspension episode
func (f *Factory) CreateAppeal(t *testing.T, user *model.User, episode time.Time) *model.Appeal {
	t.Helper()

	query := `
		CREATE appeal CONTENT {
			user_id: $user_id,
			episode: $episode,
			message: $message,
			status: 'pending',
			created_on: time::now()
		}
	`
	vars := map[string]interface{}{
		"user_id": user.ID,
		"episode": episode.UTC().Format(time.RFC3339Nano),
		"message": "I believe this suspension was issued in error and ask for a review.",
	}

	results, err := f.db.Query(ctx(), query, vars)
	if err != nil {
		t.Fatalf("fixtures: failed to create appeal: %v", err)
	}

	return parseAppealResult(t, results)
}

// ============================================================================
// Result Parsing Helpers
// ============================================================================

func parseUserResult(t *testing.T, results []interface{}) *model.User {
	t.Helper()
	data := extractFirstResult(t, results)
	return &model.User{
		ID:          getString(data, "id"),
		Email:       getString(data, "email"),
		DisplayName: getStringPtr(data, "display_name"),
		Role:        model.UserRole(getString(data, "role")),
		CreatedOn:   getTime(data, "created_on"),
		UpdatedOn:   getTime(data, "updated_on"),
	}
}

func parseSupplierResult(t *testing.T, results []interface{}) *model.Supplier {
	t.Helper()
	data := extractFirstResult(t, results)
	return &model.Supplier{
		ID:             getString(data, "id"),
		UserID:         getString(data, "user_id"),
		BusinessName:   getString(data, "business_name"),
		Description:    getStringPtr(data, "description"),
		ServiceCount:   getInt(data, "service_count"),
		AccountStatus:  model.SupplierAccountStatus(getString(data, "account_status")),
		IdentityStatus: model.IdentityVerificationStatus(getString(data, "identity_status")),
		CreatedOn:      getTime(data, "created_on"),
		UpdatedOn:      getTime(data, "updated_on"),
	}
}

func parseStandingResult(t *testing.T, results []interface{}) *model.Standing {
	t.Helper()
	data := extractFirstResult(t, results)
	standing := &model.Standing{
		ID:             getString(data, "id"),
		UserID:         getString(data, "user_id"),
		SafetyScore:    getFloat(data, "safety_score"),
		SafetyStatus:   model.SafetyStatus(getString(data, "safety_status")),
		WarningCount:   getInt(data, "warning_count"),
		AdminSuspended: getBool(data, "admin_suspended"),
		Revision:       getInt(data, "revision"),
		CreatedOn:      getTime(data, "created_on"),
		UpdatedOn:      getTime(data, "updated_on"),
	}
	standing.SuspensionStartedOn = getTimePtr(data, "suspension_started_on")
	standing.SuspensionEndsOn = getTimePtr(data, "suspension_ends_on")

	if metrics, ok := data["metrics"].(map[string]interface{}); ok {
		standing.Metrics = model.StandingMetrics{
			OverallRating:     getFloat(metrics, "overall_rating"),
			TotalReviews:      getInt(metrics, "total_reviews"),
			RatingSum:         getFloat(metrics, "rating_sum"),
			CompletedBookings: getInt(metrics, "completed_bookings"),
			CancelledBookings: getInt(metrics, "cancelled_bookings"),
			CompletionRate:    getFloat(metrics, "completion_rate"),
			CancellationRate:  getFloat(metrics, "cancellation_rate"),
			ResponseRate:      getFloat(metrics, "response_rate"),
			OnTimeRate:        getFloat(metrics, "on_time_rate"),
			ResponseSamples:   getInt(metrics, "response_samples"),
			RespondedSamples:  getInt(metrics, "responded_samples"),
			OnTimeSamples:     getInt(metrics, "on_time_samples"),
			TotalReports:      getInt(metrics, "total_reports"),
			CriticalReports:   getInt(metrics, "critical_reports"),
			HighReports:       getInt(metrics, "high_reports"),
			ResolvedReports:   getInt(metrics, "resolved_reports"),
			DismissedReports:  getInt(metrics, "dismissed_reports"),
		}
	}

	return standing
}

func parseReportResult(t *testing.T, results []interface{}) *model.Report {
	t.Helper()
	data := extractFirstResult(t, results)
	return &model.Report{
		ID:                getString(data, "id"),
		ReporterUserID:    getString(data, "reporter_user_id"),
		ReporterRole:      model.UserRole(getString(data, "reporter_role")),
		ReportedUserID:    getString(data, "reported_user_id"),
		ReportedRole:      model.UserRole(getString(data, "reported_role")),
		Category:          model.ReportCategory(getString(data, "category")),
		Reason:            getString(data, "reason"),
		SuggestedSeverity: model.ReportSeverity(getString(data, "suggested_severity")),
		EffectiveSeverity: model.ReportSeverity(getString(data, "effective_severity")),
		Status:            model.ReportStatus(getString(data, "status")),
		CreatedOn:         getTime(data, "created_on"),
		UpdatedOn:         getTime(data, "updated_on"),
	}
}

func parseAppealResult(t *testing.T, results []interface{}) *model.Appeal {
	t.Helper()
	data := extractFirstResult(t, results)
	return &model.Appeal{
		ID:        getString(data, "id"),
		UserID:    getString(data, "user_id"),
		Episode:   getTime(data, "episode"),
		Message:   getString(data, "message"),
		Status:    model.AppealStatus(getString(data, "status")),
		CreatedOn: getTime(data, "created_on"),
	}
}

// ============================================================================
// Data Extraction Helpers
// ============================================================================

func extractFirstResult(t *testing.T, results []interface{}) map[string]interface{} {
	t.Helper()
	if len(results) == 0 {
		t.Fatal("fixtures: no results returned")
	}

	// Handle SurrealDB response wrapper
	resp, ok := results[0].(map[string]interface{})
	if !ok {
		t.Fatalf("fixtures: unexpected result type: %T", results[0])
	}

	result, ok := resp["result"]
	if !ok {
		t.Fatal("fixtures: no result in response")
	}

	// Handle array result
	if arr, ok := result.([]interface{}); ok {
		if len(arr) == 0 {
			t.Fatal("fixtures: empty result array")
		}
		data, ok := arr[0].(map[string]interface{})
		if !ok {
			t.Fatalf("fixtures: unexpected array item type: %T", arr[0])
		}
		return data
	}

	// Handle single result
	data, ok := result.(map[string]interface{})
	if !ok {
		t.Fatalf("fixtures: unexpected result type: %T", result)
	}
	return data
}

func getString(data map[string]interface{}, key string) string {
	if v, ok := data[key].(string); ok {
		return v
	}
	// Handle SurrealDB 3 record ID type - could be a struct or map
	if v := data[key]; v != nil {
		// Try to get the ID as a map with "tb" (table) and "id" fields
		if m, ok := v.(map[string]interface{}); ok {
			if tb, ok := m["tb"].(string); ok {
				if id := m["id"]; id != nil {
					return fmt.Sprintf("%s:%v", tb, id)
				}
			}
		}
		// Fallback: use string conversion but fix the format if needed
		s := fmt.Sprintf("%v", v)
		// Convert "{table id}" to "table:id"
		if len(s) > 2 && s[0] == '{' && s[len(s)-1] == '}' {
			inner := s[1 : len(s)-1]
			for i, c := range inner {
				if c == ' ' {
					return inner[:i] + ":" + inner[i+1:]
				}
			}
		}
		return s
	}
	return ""
}

func getStringPtr(data map[string]interface{}, key string) *string {
	if v, ok := data[key].(string); ok {
		return &v
	}
	return nil
}

func getBool(data map[string]interface{}, key string) bool {
	if v, ok := data[key].(bool); ok {
		return v
	}
	return false
}

func getInt(data map[string]interface{}, key string) int {
	if v, ok := data[key].(float64); ok {
		return int(v)
	}
	return 0
}

func getFloat(data map[string]interface{}, key string) float64 {
	if v, ok := data[key].(float64); ok {
		return v
	}
	return 0
}

func getTime(data map[string]interface{}, key string) time.Time {
	if v, ok := data[key].(string); ok {
		t, _ := time.Parse(time.RFC3339Nano, v)
		return t
	}
	return time.Time{}
}

func getTimePtr(data map[string]interface{}, key string) *time.Time {
	if v, ok := data[key].(string); ok {
		if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
			return &t
		}
	}
	return nil
}
