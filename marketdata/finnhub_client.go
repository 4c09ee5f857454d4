// Package marketdata implements the market data capability on top of the Finnhub REST API.
package marketdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"stockdigest/models"
)

const defaultBaseURL = "https://finnhub.io/api/v1"

// ErrUnexpectedStatus is returned when Finnhub answers with a non-200 status
var ErrUnexpectedStatus = errors.New("unexpected status from finnhub")

type quoteResponse struct {
	Close float64 `json:"c"`
	High  float64 `json:"h"`
	Low   float64 `json:"l"`
}

type candleResponse struct {
	Highs  []float64 `json:"h"`
	Lows   []float64 `json:"l"`
	Status string    `json:"s"` // "ok" or "no_data"
}

type newsResponseItem struct {
	Headline string `json:"headline"`
	Datetime int64  `json:"datetime"`
	URL      string `json:"url"`
	Source   string `json:"source"`
}

// FinnhubClient reads quotes, daily candles and company news for a single symbol
type FinnhubClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewFinnhubClient creates a client. The timeout bounds every individual request.
func NewFinnhubClient(baseURL, apiKey string, timeout time.Duration) *FinnhubClient {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &FinnhubClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// GetQuote returns the current quote for a ticker
func (c *FinnhubClient) GetQuote(ctx context.Context, ticker string) (*models.Quote, error) {
	var resp quoteResponse
	params := url.Values{"symbol": {ticker}}
	if err := c.get(ctx, "/quote", params, &resp); err != nil {
		return nil, fmt.Errorf("failed to get quote for %s: %w", ticker, err)
	}

	return &models.Quote{
		Close: resp.Close,
		High:  resp.High,
		Low:   resp.Low,
	}, nil
}

// GetDailySeries returns daily highs and lows between from and to
func (c *FinnhubClient) GetDailySeries(ctx context.Context, ticker string, from, to time.Time) (*models.DailySeries, error) {
	var resp candleResponse
	params := url.Values{
		"symbol":     {ticker},
		"resolution": {"D"},
		"from":       {strconv.FormatInt(from.Unix(), 10)},
		"to":         {strconv.FormatInt(to.Unix(), 10)},
	}
	if err := c.get(ctx, "/stock/candle", params, &resp); err != nil {
		return nil, fmt.Errorf("failed to get daily series for %s: %w", ticker, err)
	}

	if resp.Status == "no_data" {
		return &models.DailySeries{}, nil
	}

	return &models.DailySeries{
		Highs: resp.Highs,
		Lows:  resp.Lows,
	}, nil
}

// GetNews returns company news between from and to, newest first
func (c *FinnhubClient) GetNews(ctx context.Context, ticker string, from, to time.Time) ([]models.NewsItem, error) {
	var resp []newsResponseItem
	params := url.Values{
		"symbol": {ticker},
		"from":   {from.UTC().Format("2006-01-02")},
		"to":     {to.UTC().Format("2006-01-02")},
	}
	if err := c.get(ctx, "/company-news", params, &resp); err != nil {
		return nil, fmt.Errorf("failed to get news for %s: %w", ticker, err)
	}

	items := make([]models.NewsItem, 0, len(resp))
	for _, item := range resp {
		if item.Headline == "" {
			continue
		}
		items = append(items, models.NewsItem{
			Headline:    item.Headline,
			PublishedAt: item.Datetime,
			URL:         item.URL,
			Source:      item.Source,
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].PublishedAt > items[j].PublishedAt
	})

	return items, nil
}

func (c *FinnhubClient) get(ctx context.Context, path string, params url.Values, out any) error {
	params.Set("token", c.apiKey)
	endpoint := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: %d %s", ErrUnexpectedStatus, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
