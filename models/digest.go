package models

import (
	"time"
)

// DigestContent is a rendered digest ready to send
type DigestContent struct {
	UserID         string
	RecipientEmail string
	Subject        string
	Body           string
	Tickers        []string // tickers that made it into the body, in render order
}

// DispatchOutcome is the result of one send attempt
type DispatchOutcome string

const (
	DispatchOutcomeSent   DispatchOutcome = "sent"
	DispatchOutcomeFailed DispatchOutcome = "failed"
)

// DispatchResult records a single send attempt for the run summary
type DispatchResult struct {
	RecipientEmail string
	Outcome        DispatchOutcome
	Reason         string
}

// RunSummary holds the counts reported at the end of a run
type RunSummary struct {
	RunID            string
	StartedAt        time.Time
	Duration         time.Duration
	UsersConsidered  int
	UsersDispatched  int
	UsersSkipped     int // users whose every ticker failed to fetch
	TickersFetched   int
	TickersFailed    int
	SendsFailed      int
	FailedTickers    []string
	FailedRecipients []string
}
