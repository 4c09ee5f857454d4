package notification

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"stockdigest/models"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// redirectTransport sends every request to the test server, keeping the path
type redirectTransport struct {
	target *url.URL
}

func (rt redirectTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.URL.Scheme = rt.target.Scheme
	req.URL.Host = rt.target.Host
	return http.DefaultTransport.RoundTrip(req)
}

func TestParseWebhookURL(t *testing.T) {
	id, token, err := parseWebhookURL("https://discord.com/api/webhooks/123456/abc-DEF_token")
	require.NoError(t, err)
	assert.Equal(t, "123456", id)
	assert.Equal(t, "abc-DEF_token", token)

	_, _, err = parseWebhookURL("https://discord.com/api/channels/123")
	assert.Error(t, err)
}

func TestBuildSummaryEmbed(t *testing.T) {
	clean := &models.RunSummary{RunID: "run-1", UsersConsidered: 3, UsersDispatched: 3, TickersFetched: 4}
	embed := buildSummaryEmbed(clean)
	assert.Equal(t, colorSuccess, embed.Color)
	assert.Len(t, embed.Fields, 4)
	assert.Contains(t, embed.Footer.Text, "run-1")

	partial := &models.RunSummary{
		RunID:            "run-2",
		UsersConsidered:  2,
		UsersDispatched:  1,
		TickersFetched:   1,
		TickersFailed:    1,
		SendsFailed:      1,
		FailedTickers:    []string{"AAPL"},
		FailedRecipients: []string{"bob@example.com"},
	}
	embed = buildSummaryEmbed(partial)
	assert.Equal(t, colorWarning, embed.Color)
	require.Len(t, embed.Fields, 6)
	assert.Equal(t, "AAPL", embed.Fields[4].Value)
	assert.Equal(t, "bob@example.com", embed.Fields[5].Value)
}

func TestFormatList_Truncates(t *testing.T) {
	items := make([]string, 20)
	for i := range items {
		items[i] = "T"
	}
	assert.Contains(t, formatList(items), "and 5 more")
}

func TestDiscordReporter_Report(t *testing.T) {
	var gotPath string
	var params discordgo.WebhookParams
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&params))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	reporter, err := NewDiscordReporter("https://discord.com/api/webhooks/42/secret", time.Second)
	require.NoError(t, err)

	target, err := url.Parse(server.URL)
	require.NoError(t, err)
	reporter.session.Client = &http.Client{Transport: redirectTransport{target: target}}

	err = reporter.Report(context.Background(), &models.RunSummary{RunID: "run-3", StartedAt: time.Now()})
	require.NoError(t, err)

	assert.Contains(t, gotPath, "/webhooks/42/secret")
	require.Len(t, params.Embeds, 1)
	assert.Equal(t, "📬 Weekly digest run", params.Embeds[0].Title)
}
