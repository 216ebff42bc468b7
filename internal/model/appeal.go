package model

import "time"

// AppealStatus represents the adjudication state of a suspension appeal
type AppealStatus string

const (
	AppealStatusPending    AppealStatus = "pending"
	AppealStatusReinstated AppealStatus = "reinstated"
	AppealStatusUpheld     AppealStatus = "upheld"
)

// Valid appeal statuses
func IsValidAppealStatus(status string) bool {
	switch AppealStatus(status) {
	case AppealStatusPending, AppealStatusReinstated, AppealStatusUpheld:
		return true
	}
	return false
}

// AppealOutcome is an admin decision on an appeal
type AppealOutcome string

const (
	AppealOutcomeReinstate AppealOutcome = "reinstate"
	AppealOutcomeUphold    AppealOutcome = "uphold"
)

// Appeal is a user-submitted request to reverse a suspension.
//
// Episode identifies the suspension window the appeal belongs to: it is the
// suspension's start timestamp. A unique index on (user_id, episode) in the
// store enforces one appeal per suspension episode, including under
// concurrent submissions. A new suspension episode permits exactly one new
// appeal.
type Appeal struct {
	ID      string    `json:"id"`
	UserID  string    `json:"user_id"`
	Episode time.Time `json:"episode"`
	Message string    `json:"message"`

	Status       AppealStatus `json:"status"`
	DecidedByID  *string      `json:"decided_by_id,omitempty"`
	DecisionNote *string      `json:"decision_note,omitempty"`
	DecidedOn    *time.Time   `json:"decided_on,omitempty"`

	CreatedOn time.Time `json:"created_on"`
}

// SubmitAppealRequest represents a user's appeal submission
type SubmitAppealRequest struct {
	Message string `json:"message"`
}

// DecideAppealRequest represents an admin adjudication of an appeal
type DecideAppealRequest struct {
	Outcome string  `json:"outcome"` // reinstate, uphold
	Note    *string `json:"note,omitempty"`
}

// Constraints
const (
	MinAppealMessageLength = 20
	MaxAppealMessageLength = 2000
)
