package service

import (
	"context"
	"fmt"
	"time"

	"stockdigest/models"

	log "github.com/sirupsen/logrus"
)

// DigestSubject returns the subject line for a digest sent at t
func DigestSubject(t time.Time) string {
	return fmt.Sprintf("Your Friday Stock Market Recap - %s", t.Format("Monday, Jan 2"))
}

// Dispatcher sends rendered digests, one attempt per user
type Dispatcher struct {
	notifier Notifier
	clock    Clock
}

// NewDispatcher creates a dispatcher
func NewDispatcher(notifier Notifier, clock Clock) *Dispatcher {
	return &Dispatcher{
		notifier: notifier,
		clock:    clock,
	}
}

// Dispatch sends one digest. A failure is logged and returned as a failed result;
// it never stops the caller from moving on to the next user.
func (d *Dispatcher) Dispatch(ctx context.Context, digest *models.DigestContent, logger *log.Entry) models.DispatchResult {
	digest.Subject = DigestSubject(d.clock.Now())

	if err := d.notifier.Send(ctx, digest.RecipientEmail, digest.Subject, digest.Body); err != nil {
		err = fmt.Errorf("%w: %w", ErrDispatch, err)
		logger.WithFields(log.Fields{
			"recipient": digest.RecipientEmail,
			"user_id":   digest.UserID,
			"error":     err.Error(),
		}).Error("Failed to send digest")

		return models.DispatchResult{
			RecipientEmail: digest.RecipientEmail,
			Outcome:        models.DispatchOutcomeFailed,
			Reason:         err.Error(),
		}
	}

	logger.WithFields(log.Fields{
		"recipient": digest.RecipientEmail,
		"tickers":   len(digest.Tickers),
	}).Info("Successfully dispatched digest")

	return models.DispatchResult{
		RecipientEmail: digest.RecipientEmail,
		Outcome:        models.DispatchOutcomeSent,
	}
}
