package model

import "time"

// SafetyStatus represents a user's overall trust & safety state
type SafetyStatus string

const (
	SafetyStatusSafe      SafetyStatus = "safe"
	SafetyStatusWarning   SafetyStatus = "warning"
	SafetyStatusProbation SafetyStatus = "probation"
	SafetyStatusSuspended SafetyStatus = "suspended"
)

// statusRank orders safety statuses from best to worst
var statusRank = map[SafetyStatus]int{
	SafetyStatusSafe:      0,
	SafetyStatusWarning:   1,
	SafetyStatusProbation: 2,
	SafetyStatusSuspended: 3,
}

// IsWorseStatus reports whether a is a worse standing than b
func IsWorseStatus(a, b SafetyStatus) bool {
	return statusRank[a] > statusRank[b]
}

// Valid safety statuses
func IsValidSafetyStatus(status string) bool {
	_, ok := statusRank[SafetyStatus(status)]
	return ok
}

// StandingMetrics holds the rolling behavioral metrics a standing is derived
// from. All rates are normalized to [0,1]; OverallRating is on the [0,5]
// review scale.
type StandingMetrics struct {
	OverallRating     float64 `json:"overall_rating"`
	TotalReviews      int     `json:"total_reviews"`
	RatingSum         float64 `json:"rating_sum"` // authoritative accumulator for OverallRating
	CompletedBookings int     `json:"completed_bookings"`
	CancelledBookings int     `json:"cancelled_bookings"`
	CompletionRate    float64 `json:"completion_rate"`
	CancellationRate  float64 `json:"cancellation_rate"`
	ResponseRate      float64 `json:"response_rate"`
	OnTimeRate        float64 `json:"on_time_rate"`

	// Raw accumulators behind ResponseRate and OnTimeRate
	ResponseSamples  int `json:"response_samples"`
	RespondedSamples int `json:"responded_samples"`
	OnTimeSamples    int `json:"on_time_samples"`

	// Report counters, maintained by atomic increments from the ledger
	TotalReports     int `json:"total_reports"`
	CriticalReports  int `json:"critical_reports"`
	HighReports      int `json:"high_reports"`
	ResolvedReports  int `json:"resolved_reports"`
	DismissedReports int `json:"dismissed_reports"`
}

// ActiveReports returns the number of reports still open against the user.
// Invariant: resolved + dismissed <= total, so the result is never negative.
func (m StandingMetrics) ActiveReports() int {
	active := m.TotalReports - m.ResolvedReports - m.DismissedReports
	if active < 0 {
		return 0
	}
	return active
}

// Standing is the per-user trust & safety record. The score, status, badges
// and tier are derived fields recomputed from the metrics; the stamps record
// when the user entered the corresponding status. Revision is the optimistic
// concurrency token for snapshot writes.
type Standing struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`

	SafetyScore  float64      `json:"safety_score"` // [0,100]
	SafetyStatus SafetyStatus `json:"safety_status"`

	// WarningCount is monotonic: recomputation never decrements it.
	// Only an explicit admin reset may zero it.
	WarningCount  int        `json:"warning_count"`
	LastWarningOn *time.Time `json:"last_warning_on,omitempty"`

	ProbationStartedOn  *time.Time `json:"probation_started_on,omitempty"`
	SuspensionStartedOn *time.Time `json:"suspension_started_on,omitempty"`
	// Absent SuspensionEndsOn means an indefinite suspension.
	SuspensionEndsOn *time.Time `json:"suspension_ends_on,omitempty"`

	// AdminSuspended marks a suspension forced by an admin rather than the
	// score floor; only admin reinstatement clears it.
	AdminSuspended bool `json:"admin_suspended"`

	Badges []Badge `json:"badges,omitempty"`

	Metrics StandingMetrics `json:"metrics"`

	Revision  int       `json:"revision"`
	CreatedOn time.Time `json:"created_on"`
	UpdatedOn time.Time `json:"updated_on"`
}

// HasUnresolvedCritical reports whether any critical report is still open.
// The counters track severities only for open + closed totals, so this is a
// conservative check: critical reports count until resolved or dismissed.
func (s *Standing) HasUnresolvedCritical() bool {
	return s.Metrics.CriticalReports > 0 && s.Metrics.ActiveReports() > 0
}

// SuspensionExpired reports whether a time-boxed suspension has lapsed
func (s *Standing) SuspensionExpired(now time.Time) bool {
	return s.SafetyStatus == SafetyStatusSuspended &&
		s.SuspensionEndsOn != nil &&
		now.After(*s.SuspensionEndsOn)
}

// StandingView is the user-visible projection of a standing. Suspended users
// see reason categories and the appeal affordance, never raw internal scores.
type StandingView struct {
	UserID           string       `json:"user_id"`
	SafetyStatus     SafetyStatus `json:"safety_status"`
	Badges           []Badge      `json:"badges,omitempty"`
	Tier             SupplierTier `json:"tier,omitempty"`
	SuspensionEndsOn *time.Time   `json:"suspension_ends_on,omitempty"`
	CanAppeal        bool         `json:"can_appeal"`
}

// ForceSuspendRequest represents an admin-forced suspension
type ForceSuspendRequest struct {
	Reason string     `json:"reason"`
	EndsOn *time.Time `json:"ends_on,omitempty"` // absent = indefinite
}
