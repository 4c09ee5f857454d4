package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultResendBaseURL = "https://api.resend.com"

// ErrSendRejected is returned when the email provider refuses a message
var ErrSendRejected = errors.New("email provider rejected message")

type resendEmailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

type resendEmailResponse struct {
	ID string `json:"id"`
}

// ResendSender sends HTML email through the Resend API
type ResendSender struct {
	baseURL    string
	apiKey     string
	from       string
	httpClient *http.Client
}

// NewResendSender creates a sender that delivers from the given address
func NewResendSender(baseURL, apiKey, from string, timeout time.Duration) *ResendSender {
	if baseURL == "" {
		baseURL = defaultResendBaseURL
	}
	return &ResendSender{
		baseURL: baseURL,
		apiKey:  apiKey,
		from:    from,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Send delivers one HTML email to a single recipient
func (s *ResendSender) Send(ctx context.Context, to, subject, body string) error {
	payload, err := json.Marshal(resendEmailRequest{
		From:    s.from,
		To:      []string{to},
		Subject: subject,
		HTML:    body,
	})
	if err != nil {
		return fmt.Errorf("failed to encode email: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/emails", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: %d %s", ErrSendRejected, resp.StatusCode, string(detail))
	}

	var result resendEmailResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("failed to decode send response: %w", err)
	}
	if result.ID == "" {
		return fmt.Errorf("%w: response carried no message id", ErrSendRejected)
	}

	return nil
}
