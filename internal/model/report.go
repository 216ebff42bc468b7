package model

import "time"

// ReportCategory represents the type of complaint filed against a user
type ReportCategory string

const (
	// Critical safety categories
	ReportCategoryViolence     ReportCategory = "violence"
	ReportCategorySafetyThreat ReportCategory = "safety_threat"
	ReportCategoryThreatening  ReportCategory = "threatening_behavior"

	// High-severity conduct categories
	ReportCategoryHarassment     ReportCategory = "harassment"
	ReportCategoryDiscrimination ReportCategory = "discrimination"
	ReportCategoryFraud          ReportCategory = "fraud"
	ReportCategoryScam           ReportCategory = "scam"

	// Medium-severity service categories
	ReportCategoryUnprofessional ReportCategory = "unprofessional"
	ReportCategoryNoShow         ReportCategory = "no_show"
	ReportCategoryPoorQuality    ReportCategory = "poor_quality"
	ReportCategoryOvercharging   ReportCategory = "overcharging"
	ReportCategoryUnderdelivery  ReportCategory = "underdelivery"
	ReportCategoryFakeProfile    ReportCategory = "fake_profile"
	ReportCategoryInappropriate  ReportCategory = "inappropriate_content"

	// Low-severity categories
	ReportCategorySpam  ReportCategory = "spam"
	ReportCategoryOther ReportCategory = "other"
)

// ReportSeverity represents how serious a report is treated by the standing engine
type ReportSeverity string

const (
	SeverityLow      ReportSeverity = "low"
	SeverityMedium   ReportSeverity = "medium"
	SeverityHigh     ReportSeverity = "high"
	SeverityCritical ReportSeverity = "critical"
)

// severityByCategory is the fixed severity lookup table. Every category maps
// to exactly one severity; SuggestedSeverity falls back to low for unknown
// input so the table stays total.
var severityByCategory = map[ReportCategory]ReportSeverity{
	ReportCategoryViolence:     SeverityCritical,
	ReportCategorySafetyThreat: SeverityCritical,
	ReportCategoryThreatening:  SeverityCritical,

	ReportCategoryHarassment:     SeverityHigh,
	ReportCategoryDiscrimination: SeverityHigh,
	ReportCategoryFraud:          SeverityHigh,
	ReportCategoryScam:           SeverityHigh,

	ReportCategoryUnprofessional: SeverityMedium,
	ReportCategoryNoShow:         SeverityMedium,
	ReportCategoryPoorQuality:    SeverityMedium,
	ReportCategoryOvercharging:   SeverityMedium,
	ReportCategoryUnderdelivery:  SeverityMedium,
	ReportCategoryFakeProfile:    SeverityMedium,
	ReportCategoryInappropriate:  SeverityMedium,

	ReportCategorySpam:  SeverityLow,
	ReportCategoryOther: SeverityLow,
}

// SuggestedSeverity returns the computed default severity for a category.
// Admins may override the effective severity on a report, but the suggested
// value is immutable for audit purposes.
func SuggestedSeverity(cat ReportCategory) ReportSeverity {
	if sev, ok := severityByCategory[cat]; ok {
		return sev
	}
	return SeverityLow
}

// AllReportCategories returns every valid category. Used by validation and
// by the admin UI to render the report form.
func AllReportCategories() []ReportCategory {
	return []ReportCategory{
		ReportCategoryViolence,
		ReportCategorySafetyThreat,
		ReportCategoryThreatening,
		ReportCategoryHarassment,
		ReportCategoryDiscrimination,
		ReportCategoryFraud,
		ReportCategoryScam,
		ReportCategoryUnprofessional,
		ReportCategoryNoShow,
		ReportCategoryPoorQuality,
		ReportCategoryOvercharging,
		ReportCategoryUnderdelivery,
		ReportCategoryFakeProfile,
		ReportCategoryInappropriate,
		ReportCategorySpam,
		ReportCategoryOther,
	}
}

// ReportStatus represents the lifecycle state of a report
type ReportStatus string

const (
	ReportStatusPending       ReportStatus = "pending"
	ReportStatusInvestigating ReportStatus = "investigating"
	ReportStatusResolved      ReportStatus = "resolved"
	ReportStatusDismissed     ReportStatus = "dismissed"
	ReportStatusEscalated     ReportStatus = "escalated"
)

// reportTransitions is the forward-only lifecycle table. Resolved and
// dismissed are terminal; reports are never reopened.
var reportTransitions = map[ReportStatus][]ReportStatus{
	ReportStatusPending:       {ReportStatusInvestigating, ReportStatusDismissed},
	ReportStatusInvestigating: {ReportStatusResolved, ReportStatusDismissed, ReportStatusEscalated},
	ReportStatusEscalated:     {ReportStatusResolved, ReportStatusDismissed},
	ReportStatusResolved:      {},
	ReportStatusDismissed:     {},
}

// CanTransitionReport reports whether a report may move from one status to another
func CanTransitionReport(from, to ReportStatus) bool {
	for _, next := range reportTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminalReportStatus reports whether a status permits no further transitions
func IsTerminalReportStatus(s ReportStatus) bool {
	return len(reportTransitions[s]) == 0
}

// Report represents a filed complaint against a user.
// Reports are owned by the violation ledger and reference user identities;
// they are retained for audit even if the reported account is deleted.
type Report struct {
	ID             string   `json:"id"`
	ReporterUserID string   `json:"reporter_user_id"`
	ReporterRole   UserRole `json:"reporter_role"`
	ReportedUserID string   `json:"reported_user_id"`
	ReportedRole   UserRole `json:"reported_role"`

	// Optional links to the context the report arose from
	BookingID *string `json:"booking_id,omitempty"`
	ReviewID  *string `json:"review_id,omitempty"`
	ChatID    *string `json:"chat_id,omitempty"`

	Category ReportCategory `json:"category"`
	Reason   string         `json:"reason"`
	Evidence []string       `json:"evidence,omitempty"`

	// SuggestedSeverity is computed from the category and never changes.
	// EffectiveSeverity defaults to it and may be overridden by an admin.
	SuggestedSeverity ReportSeverity `json:"suggested_severity"`
	EffectiveSeverity ReportSeverity `json:"effective_severity"`

	Status       ReportStatus `json:"status"`
	Resolution   *string      `json:"resolution,omitempty"`
	ActionsTaken []string     `json:"actions_taken,omitempty"`
	ResolvedByID *string      `json:"resolved_by_id,omitempty"`

	CreatedOn  time.Time  `json:"created_on"`
	UpdatedOn  time.Time  `json:"updated_on"`
	ResolvedOn *time.Time `json:"resolved_on,omitempty"`
}

// Constraints
const (
	MaxReportReasonLength   = 1000
	MaxResolutionNoteLength = 1000
	MaxEvidenceItems        = 10
	MaxEvidenceURLLength    = 500
)

// FileReportRequest represents a request to file a report
type FileReportRequest struct {
	ReportedUserID string   `json:"reported_user_id"`
	ReportedRole   string   `json:"reported_role"`
	Category       string   `json:"category"`
	Reason         string   `json:"reason"`
	Evidence       []string `json:"evidence,omitempty"`
	BookingID      *string  `json:"booking_id,omitempty"`
	ReviewID       *string  `json:"review_id,omitempty"`
	ChatID         *string  `json:"chat_id,omitempty"`
}

// ResolveReportRequest represents an admin decision on a report
type ResolveReportRequest struct {
	Outcome      string   `json:"outcome"` // resolved, dismissed, escalated
	Resolution   string   `json:"resolution"`
	ActionsTaken []string `json:"actions_taken,omitempty"`
}

// OverrideSeverityRequest represents an admin severity override
type OverrideSeverityRequest struct {
	Severity string `json:"severity"`
}

// ReportSummary provides a lightweight view of a report for listings
type ReportSummary struct {
	ID                string         `json:"id"`
	ReportedUserID    string         `json:"reported_user_id"`
	Category          ReportCategory `json:"category"`
	EffectiveSeverity ReportSeverity `json:"effective_severity"`
	Status            ReportStatus   `json:"status"`
	CreatedOn         time.Time      `json:"created_on"`
}

// Valid report categories
func IsValidReportCategory(cat string) bool {
	_, ok := severityByCategory[ReportCategory(cat)]
	return ok
}

// Valid report severities
func IsValidReportSeverity(sev string) bool {
	switch ReportSeverity(sev) {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

// Valid report statuses
func IsValidReportStatus(status string) bool {
	switch ReportStatus(status) {
	case ReportStatusPending,
		ReportStatusInvestigating,
		ReportStatusResolved,
		ReportStatusDismissed,
		ReportStatusEscalated:
		return true
	}
	return false
}
