package service

import (
	"fmt"
	"html/template"
	"strings"

	"stockdigest/models"

	"github.com/shopspring/decimal"
)

const notAvailable = "N/A"

type digestSectionView struct {
	Ticker     string
	Category   string
	ClosePrice string
	WeeklyHigh string
	WeeklyLow  string
	Headlines  []string
}

type digestView struct {
	DisplayName string
	Sections    []digestSectionView
}

var digestTemplate = template.Must(template.New("digest").Parse(digestHTMLTemplate))

// DigestComposer renders a user's digest from the frozen snapshot cache
type DigestComposer struct{}

// NewDigestComposer creates a digest composer
func NewDigestComposer() *DigestComposer {
	return &DigestComposer{}
}

// Compose renders one section per cached ticker in the order the user added them.
// Tickers missing from the cache are skipped; if none remain it returns nil.
func (c *DigestComposer) Compose(group *models.UserGroup, cache *SnapshotCache) (*models.DigestContent, error) {
	view := digestView{
		DisplayName: group.Email,
	}
	var tickers []string

	for _, ticker := range group.Tickers {
		snapshot, ok := cache.Get(ticker)
		if !ok {
			continue
		}
		view.Sections = append(view.Sections, digestSectionView{
			Ticker:     ticker,
			Category:   group.Categories[ticker].Label(),
			ClosePrice: formatPrice(snapshot.ClosePrice),
			WeeklyHigh: formatPrice(snapshot.WeeklyHigh),
			WeeklyLow:  formatPrice(snapshot.WeeklyLow),
			Headlines:  snapshot.DisplayHeadlines(),
		})
		tickers = append(tickers, ticker)
	}

	if len(view.Sections) == 0 {
		return nil, nil
	}

	var body strings.Builder
	if err := digestTemplate.Execute(&body, view); err != nil {
		return nil, fmt.Errorf("failed to render digest for user %s: %w", group.UserID, err)
	}

	return &models.DigestContent{
		UserID:         group.UserID,
		RecipientEmail: group.Email,
		Body:           body.String(),
		Tickers:        tickers,
	}, nil
}

func formatPrice(value decimal.NullDecimal) string {
	if !value.Valid {
		return notAvailable
	}
	return "$" + value.Decimal.StringFixed(2)
}

const digestHTMLTemplate = `<!DOCTYPE html>
<html>
<body style="font-family: sans-serif; padding: 20px; background-color: #f4f4f9;">
  <div style="max-width: 600px; margin: auto; background: white; padding: 20px; border-radius: 8px; box-shadow: 0 4px 8px rgba(0,0,0,0.1);">
    <h1 style="color: #1e40af;">Hello {{.DisplayName}}, Your Friday Recap is Here!</h1>
    <p style="color: #4b5563;">A curated summary of your holdings and watchlist for the week.</p>
    <hr style="border: 0; border-top: 1px solid #e5e7eb; margin: 20px 0;">
{{- range .Sections}}
    <div class="ticker-section" style="margin-bottom: 20px; padding: 15px; border: 1px solid #d1d5db; border-radius: 6px; background-color: #f9f9f9;">
      <h2 style="font-size: 1.5rem; color: #1f2937; margin-top: 0;">{{.Ticker}}{{if .Category}} <span style="font-size: 0.8rem; color: #6b7280;">{{.Category}}</span>{{end}}</h2>
      <p><strong>Friday Closing Price:</strong> <span style="font-weight: bold; color: #10b981;">{{.ClosePrice}}</span></p>
      <p style="margin-top: 5px;"><strong>Weekly High:</strong> {{.WeeklyHigh}}</p>
      <p><strong>Weekly Low:</strong> {{.WeeklyLow}}</p>
{{- range .Headlines}}
      <p style="margin-top: 10px;"><strong>Top News:</strong> {{.}}</p>
{{- end}}
    </div>
{{- end}}
    <p style="font-size: 0.8rem; color: #9ca3af; margin-top: 30px;">
      Disclaimer: This email is for informational purposes only.
    </p>
  </div>
</body>
</html>
`
