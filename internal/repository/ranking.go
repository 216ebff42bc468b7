package repository

import (
	"context"

	"github.com/festo/gala/api/internal/database"
)

// RankingRepository answers top-performer queries against the standing table.
// A supplier is a top performer when they rank inside the leaderboard window
// ordered by rating and safety score, with enough reviews for the rating to
// mean something.
type RankingRepository struct {
	db         database.Database
	windowSize int
	minReviews int
}

// NewRankingRepository creates a new ranking repository
func NewRankingRepository(db database.Database, windowSize, minReviews int) *RankingRepository {
	if windowSize <= 0 {
		windowSize = 50
	}
	if minReviews <= 0 {
		minReviews = 10
	}
	return &RankingRepository{
		db:         db,
		windowSize: windowSize,
		minReviews: minReviews,
	}
}

// IsTopPerformer reports whether the user sits inside the leaderboard window
func (r *RankingRepository) IsTopPerformer(ctx context.Context, userID string) (bool, error) {
	query := `
		SELECT user_id FROM standing
		WHERE metrics.total_reviews >= $min_reviews
			AND safety_status = 'safe'
		ORDER BY metrics.overall_rating DESC, safety_score DESC
		LIMIT $window
	`
	vars := map[string]interface{}{
		"min_reviews": r.minReviews,
		"window":      r.windowSize,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return false, err
	}

	rows, ok := extractQueryResults(result)
	if !ok {
		return false, nil
	}
	for _, row := range rows {
		data, ok := row.(map[string]interface{})
		if !ok {
			continue
		}
		if id, ok := data["user_id"].(string); ok && id == userID {
			return true, nil
		}
	}
	return false, nil
}
