package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/festo/gala/api/internal/database"
	"github.com/festo/gala/api/internal/model"
)

// AppealRepository handles suspension appeal data access
type AppealRepository struct {
	db database.Database
}

// NewAppealRepository creates a new appeal repository
func NewAppealRepository(db database.Database) *AppealRepository {
	return &AppealRepository{db: db}
}

// Create files an appeal for a suspension episode. The unique index on
// (user_id, episode) rejects a second appeal for the same episode even under
// concurrent submissions; that race surfaces as database.ErrDuplicate.
func (r *AppealRepository) Create(ctx context.Context, appeal *model.Appeal) error {
	query := `
		CREATE appeal CONTENT {
			user_id: $user_id,
			episode: $episode,
			message: $message,
			status: $status,
			created_on: time::now()
		}
	`
	vars := map[string]interface{}{
		"user_id": appeal.UserID,
		"episode": appeal.Episode,
		"message": appeal.Message,
		"status":  appeal.Status,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		if isUniqueConstraintError(err) {
			return database.ErrDuplicate
		}
		return err
	}

	created, err := extractCreatedRecord(result)
	if err != nil {
		return err
	}

	appeal.ID = created.ID
	appeal.CreatedOn = created.CreatedOn
	return nil
}

// GetByID retrieves an appeal by its record ID
func (r *AppealRepository) GetByID(ctx context.Context, id string) (*model.Appeal, error) {
	query := `SELECT * FROM appeal WHERE id = type::record($id) LIMIT 1`
	vars := map[string]interface{}{"id": id}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	return parseAppealResult(result)
}

// GetByEpisode retrieves the appeal for a specific suspension episode, if any
func (r *AppealRepository) GetByEpisode(ctx context.Context, userID string, episode time.Time) (*model.Appeal, error) {
	query := `
		SELECT * FROM appeal
		WHERE user_id = $user_id AND episode = $episode
		LIMIT 1
	`
	vars := map[string]interface{}{
		"user_id": userID,
		"episode": episode,
	}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	return parseAppealResult(result)
}

// ListPending lists undecided appeals, oldest first
func (r *AppealRepository) ListPending(ctx context.Context, limit, offset int) ([]*model.Appeal, error) {
	query := `
		SELECT * FROM appeal
		WHERE status = $status
		ORDER BY created_on ASC
		LIMIT $limit START $offset
	`
	vars := map[string]interface{}{
		"status": model.AppealStatusPending,
		"limit":  limit,
		"offset": offset,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	return parseAppealsResult(result)
}

// Decide records an admin decision on a pending appeal. The status guard in
// the query makes the decision first-writer-wins: a second concurrent
// decision matches no rows and returns database.ErrConflict.
func (r *AppealRepository) Decide(ctx context.Context, id string, status model.AppealStatus, adminID string, note *string) error {
	query := `
		UPDATE appeal SET
			status = $status,
			decided_by_id = $admin_id,
			decision_note = $note,
			decided_on = time::now()
		WHERE id = type::record($id) AND status = $pending
		RETURN AFTER
	`
	vars := map[string]interface{}{
		"id":       id,
		"status":   status,
		"admin_id": adminID,
		"note":     note,
		"pending":  model.AppealStatusPending,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return err
	}

	if rows, ok := extractQueryResults(result); !ok || len(rows) == 0 {
		return database.ErrConflict
	}
	return nil
}

// Helper functions

func parseAppealResult(result interface{}) (*model.Appeal, error) {
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

	var appeal model.Appeal
	if err := json.Unmarshal(jsonBytes, &appeal); err != nil {
		return nil, err
	}

	if t := getTime(data, "created_on"); t != nil {
		appeal.CreatedOn = *t
	}
	if t := getTime(data, "episode"); t != nil {
		appeal.Episode = *t
	}
	appeal.DecidedOn = getTime(data, "decided_on")

	return &appeal, nil
}

func parseAppealsResult(result []interface{}) ([]*model.Appeal, error) {
	appeals := make([]*model.Appeal, 0)

	for _, res := range result {
		if resp, ok := res.(map[string]interface{}); ok {
			if resultData, ok := resp["result"].([]interface{}); ok {
				for _, item := range resultData {
					appeal, err := parseAppealResult(item)
					if err != nil {
						continue
					}
					appeals = append(appeals, appeal)
				}
				continue
			}
		}

		appeal, err := parseAppealResult(res)
		if err != nil {
			continue
		}
		appeals = append(appeals, appeal)
	}

	return appeals, nil
}
