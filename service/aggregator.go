package service

import (
	"strings"

	"stockdigest/models"

	log "github.com/sirupsen/logrus"
)

// Aggregation is the per-run grouping of subscriptions by user
type Aggregation struct {
	Groups      map[string]*models.UserGroup
	UserOrder   []string // user ids in first-seen order
	Tickers     []string // unique normalized tickers in first-seen order
	DroppedRows int
}

// Group returns the user group for a user id
func (a *Aggregation) Group(userID string) *models.UserGroup {
	return a.Groups[userID]
}

// Aggregate groups subscription rows by user and collects the unique ticker set.
// Rows without a resolvable email or with a blank ticker are dropped and logged.
func Aggregate(subscriptions []models.Subscription, logger *log.Entry) *Aggregation {
	agg := &Aggregation{
		Groups: make(map[string]*models.UserGroup),
	}
	seenTickers := make(map[string]struct{})
	unresolved := make(map[string]int)
	var unresolvedOrder []string

	for _, sub := range subscriptions {
		if sub.Email == nil || strings.TrimSpace(*sub.Email) == "" {
			if _, ok := unresolved[sub.UserID]; !ok {
				unresolvedOrder = append(unresolvedOrder, sub.UserID)
			}
			unresolved[sub.UserID]++
			agg.DroppedRows++
			continue
		}

		ticker := models.NormalizeTicker(sub.Ticker)
		if ticker == "" {
			logger.WithFields(log.Fields{
				"user_id":         sub.UserID,
				"subscription_id": sub.ID,
			}).Warn("Dropping subscription with blank ticker")
			agg.DroppedRows++
			continue
		}

		group, ok := agg.Groups[sub.UserID]
		if !ok {
			group = &models.UserGroup{
				UserID:     sub.UserID,
				Email:      *sub.Email,
				Categories: make(map[string]models.Category),
			}
			agg.Groups[sub.UserID] = group
			agg.UserOrder = append(agg.UserOrder, sub.UserID)
		}
		group.AddTicker(ticker, sub.Category)

		if _, ok := seenTickers[ticker]; !ok {
			seenTickers[ticker] = struct{}{}
			agg.Tickers = append(agg.Tickers, ticker)
		}
	}

	for _, userID := range unresolvedOrder {
		logger.WithFields(log.Fields{
			"user_id": userID,
			"rows":    unresolved[userID],
		}).Warn("Dropping subscriptions for user without a resolvable email")
	}

	return agg
}
