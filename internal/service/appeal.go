package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/festo/gala/api/internal/database"
	"github.com/festo/gala/api/internal/model"
)

// AppealRepository defines the interface for appeal data access
type AppealRepository interface {
	Create(ctx context.Context, appeal *model.Appeal) error
	GetByID(ctx context.Context, id string) (*model.Appeal, error)
	GetByEpisode(ctx context.Context, userID string, episode time.Time) (*model.Appeal, error)
	ListPending(ctx context.Context, limit, offset int) ([]*model.Appeal, error)
	Decide(ctx context.Context, id string, status model.AppealStatus, adminID string, note *string) error
}

// AppealStandings is the slice of the standing engine the appeal workflow
// drives
type AppealStandings interface {
	GetStanding(ctx context.Context, userID string) (*model.Standing, error)
	AdminReinstate(ctx context.Context, userID string) (*model.Standing, error)
}

// AppealService owns the suspension appeal workflow. One appeal per
// suspension episode: the episode key is the suspension's start timestamp,
// and the store's unique index enforces the limit under concurrency.
type AppealService struct {
	appealRepo AppealRepository
	standings  AppealStandings
	eventHub   *EventHub
}

// NewAppealService creates a new appeal service
func NewAppealService(appealRepo AppealRepository, standings AppealStandings, eventHub *EventHub) *AppealService {
	return &AppealService{
		appealRepo: appealRepo,
		standings:  standings,
		eventHub:   eventHub,
	}
}

// Submit files an appeal for the caller's current suspension episode
func (s *AppealService) Submit(ctx context.Context, userID string, req *model.SubmitAppealRequest) (*model.Appeal, error) {
	message := strings.TrimSpace(req.Message)
	if len(message) < model.MinAppealMessageLength {
		return nil, ErrAppealMessageTooShort
	}
	if len(message) > model.MaxAppealMessageLength {
		return nil, ErrAppealMessageTooLong
	}

	standing, err := s.standings.GetStanding(ctx, userID)
	if err != nil {
		return nil, err
	}
	if standing.SafetyStatus != model.SafetyStatusSuspended || standing.SuspensionStartedOn == nil {
		return nil, ErrNotSuspended
	}
	episode := *standing.SuspensionStartedOn

	// Cheap pre-check for a friendly error; the unique index is what actually
	// holds the line under concurrent submissions.
	existing, err := s.appealRepo.GetByEpisode(ctx, userID, episode)
	if err != nil && !errors.Is(err, database.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		if existing.Status == model.AppealStatusPending {
			return nil, ErrAppealAlreadyPending
		}
		return nil, ErrAppealAlreadyDecided
	}

	appeal := &model.Appeal{
		UserID:  userID,
		Episode: episode,
		Message: message,
		Status:  model.AppealStatusPending,
	}

	if err := s.appealRepo.Create(ctx, appeal); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, ErrAppealAlreadyPending
		}
		return nil, err
	}

	if s.eventHub != nil {
		s.eventHub.Publish(&Event{
			Type:   EventAppealSubmitted,
			UserID: userID,
			Data: map[string]interface{}{
				"appeal_id": appeal.ID,
				"user_id":   userID,
			},
		})
	}

	return appeal, nil
}

// Get retrieves an appeal by ID
func (s *AppealService) Get(ctx context.Context, id string) (*model.Appeal, error) {
	appeal, err := s.appealRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrAppealNotFound
		}
		return nil, err
	}
	return appeal, nil
}

// ListPending lists undecided appeals for the admin queue, oldest first
func (s *AppealService) ListPending(ctx context.Context, limit, offset int) ([]*model.Appeal, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.appealRepo.ListPending(ctx, limit, offset)
}

// Decide adjudicates a pending appeal. The store's status guard makes the
// decision first-writer-wins; a reinstate outcome lifts the suspension
// through the standing engine.
func (s *AppealService) Decide(ctx context.Context, id string, adminID string, req *model.DecideAppealRequest) (*model.Appeal, error) {
	var target model.AppealStatus
	switch model.AppealOutcome(req.Outcome) {
	case model.AppealOutcomeReinstate:
		target = model.AppealStatusReinstated
	case model.AppealOutcomeUphold:
		target = model.AppealStatusUpheld
	default:
		return nil, ErrInvalidAppealOutcome
	}

	appeal, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if appeal.Status != model.AppealStatusPending {
		return nil, ErrAppealAlreadyDecided
	}

	if err := s.appealRepo.Decide(ctx, id, target, adminID, req.Note); err != nil {
		if errors.Is(err, database.ErrConflict) {
			return nil, ErrAppealAlreadyDecided
		}
		return nil, err
	}

	appeal.Status = target
	appeal.DecidedByID = &adminID
	appeal.DecisionNote = req.Note
	now := time.Now().UTC()
	appeal.DecidedOn = &now

	if target == model.AppealStatusReinstated {
		if _, err := s.standings.AdminReinstate(ctx, appeal.UserID); err != nil {
			// The user may have been reinstated already, e.g. by the
			// suspension sweep; the decision still stands.
			if !errors.Is(err, ErrNotSuspended) {
				return nil, err
			}
		}
	}

	if s.eventHub != nil {
		s.eventHub.Publish(&Event{
			Type:   EventAppealDecided,
			UserID: appeal.UserID,
			Data: map[string]interface{}{
				"appeal_id": appeal.ID,
				"user_id":   appeal.UserID,
				"outcome":   appeal.Status,
			},
		})
	}

	return appeal, nil
}

// CanAppeal reports whether a standing permits filing a new appeal: the user
// is suspended and the current episode has no appeal yet
func (s *AppealService) CanAppeal(ctx context.Context, standing *model.Standing) (bool, error) {
	if standing.SafetyStatus != model.SafetyStatusSuspended || standing.SuspensionStartedOn == nil {
		return false, nil
	}

	existing, err := s.appealRepo.GetByEpisode(ctx, standing.UserID, *standing.SuspensionStartedOn)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return true, nil
		}
		return false, err
	}
	return existing == nil, nil
}
