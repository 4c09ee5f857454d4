package repository

import (
	"context"
	"fmt"

	"stockdigest/database"
	"stockdigest/models"

	"github.com/jackc/pgx/v5"
)

// SubscriptionRepository reads user_stocks rows joined with the owner's profile email
type SubscriptionRepository struct {
	db *database.DB
}

// NewSubscriptionRepository creates a new subscription repository
func NewSubscriptionRepository(db *database.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// ListWithEmail returns every subscription with the owning user's email.
// Rows whose profile is missing or has a blank email come back with a nil Email.
func (r *SubscriptionRepository) ListWithEmail(ctx context.Context) ([]models.Subscription, error) {
	query := `
		SELECT
			s.id,
			s.user_id::text AS user_id,
			s.ticker,
			LOWER(s.category) AS category,
			NULLIF(TRIM(p.email), '') AS email,
			s.created_at
		FROM user_stocks s
		LEFT JOIN profiles p ON p.id = s.user_id
		ORDER BY s.created_at, s.id
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query subscriptions: %w", err)
	}

	subscriptions, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Subscription])
	if err != nil {
		return nil, fmt.Errorf("failed to scan subscriptions: %w", err)
	}

	return subscriptions, nil
}
