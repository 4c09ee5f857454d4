package testutil

import (
	"context"
	"testing"

	"stockdigest/database"
	"stockdigest/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// CreateTestProfile inserts a profile and returns its id. An empty email is stored as NULL.
func CreateTestProfile(t *testing.T, db *database.DB, email string) string {
	t.Helper()

	id := uuid.NewString()
	var emailArg any
	if email != "" {
		emailArg = email
	}

	_, err := db.Exec(context.Background(),
		`INSERT INTO profiles (id, email) VALUES ($1, $2)`, id, emailArg)
	require.NoError(t, err)

	return id
}

// CreateTestSubscription inserts a user_stocks row as the subscription UI would
func CreateTestSubscription(t *testing.T, db *database.DB, userID, ticker string, category models.Category) {
	t.Helper()

	_, err := db.Exec(context.Background(),
		`INSERT INTO user_stocks (user_id, ticker, category) VALUES ($1, $2, $3)`,
		userID, ticker, string(category))
	require.NoError(t, err)
}
