package notification

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"stockdigest/models"

	"github.com/bwmarrin/discordgo"
)

// Embed colors
const (
	colorSuccess = 0x57F287
	colorWarning = 0xFEE75C
)

// maxListedFailures caps the tickers/recipients listed in one embed field
const maxListedFailures = 15

// DiscordReporter posts run summaries to an operator channel through a webhook
type DiscordReporter struct {
	session   *discordgo.Session
	webhookID string
	token     string
}

// NewDiscordReporter creates a reporter from a webhook URL of the form
// https://discord.com/api/webhooks/{id}/{token}
func NewDiscordReporter(webhookURL string, timeout time.Duration) (*DiscordReporter, error) {
	webhookID, token, err := parseWebhookURL(webhookURL)
	if err != nil {
		return nil, err
	}

	// Webhooks authenticate with the token in the path, so no bot token is needed
	session, err := discordgo.New("")
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}
	session.Client = &http.Client{Timeout: timeout}

	return &DiscordReporter{
		session:   session,
		webhookID: webhookID,
		token:     token,
	}, nil
}

// Report posts the summary as a single embed
func (r *DiscordReporter) Report(ctx context.Context, summary *models.RunSummary) error {
	params := &discordgo.WebhookParams{
		Username: "Stock Digest",
		Embeds:   []*discordgo.MessageEmbed{buildSummaryEmbed(summary)},
	}

	if _, err := r.session.WebhookExecute(r.webhookID, r.token, false, params, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to post run report: %w", err)
	}

	return nil
}

func buildSummaryEmbed(summary *models.RunSummary) *discordgo.MessageEmbed {
	color := colorSuccess
	if summary.TickersFailed > 0 || summary.SendsFailed > 0 {
		color = colorWarning
	}

	fields := []*discordgo.MessageEmbedField{
		{Name: "👥 Users", Value: fmt.Sprintf("%d considered / %d sent / %d skipped", summary.UsersConsidered, summary.UsersDispatched, summary.UsersSkipped), Inline: false},
		{Name: "📈 Tickers fetched", Value: fmt.Sprintf("%d", summary.TickersFetched), Inline: true},
		{Name: "⚠️ Tickers failed", Value: fmt.Sprintf("%d", summary.TickersFailed), Inline: true},
		{Name: "✉️ Sends failed", Value: fmt.Sprintf("%d", summary.SendsFailed), Inline: true},
	}

	if len(summary.FailedTickers) > 0 {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:  "Failed tickers",
			Value: formatList(summary.FailedTickers),
		})
	}
	if len(summary.FailedRecipients) > 0 {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:  "Failed recipients",
			Value: formatList(summary.FailedRecipients),
		})
	}

	return &discordgo.MessageEmbed{
		Title:     "📬 Weekly digest run",
		Color:     color,
		Fields:    fields,
		Timestamp: summary.StartedAt.UTC().Format(time.RFC3339),
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("run %s · %s", summary.RunID, summary.Duration.Round(time.Second)),
		},
	}
}

func formatList(items []string) string {
	if len(items) <= maxListedFailures {
		return strings.Join(items, ", ")
	}
	return fmt.Sprintf("%s and %d more", strings.Join(items[:maxListedFailures], ", "), len(items)-maxListedFailures)
}

func parseWebhookURL(raw string) (string, string, error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf("invalid webhook URL: %w", err)
	}

	parts := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	for i := 0; i+2 < len(parts); i++ {
		if parts[i] == "webhooks" && parts[i+1] != "" && parts[i+2] != "" {
			return parts[i+1], parts[i+2], nil
		}
	}

	return "", "", fmt.Errorf("invalid webhook URL: expected .../webhooks/{id}/{token}, got path %q", parsed.Path)
}
