package service

import (
	"context"
	"time"

	"stockdigest/models"

	"github.com/stretchr/testify/mock"
)

// MockSubscriptionReader is a mock implementation of SubscriptionReader
type MockSubscriptionReader struct {
	mock.Mock
}

func (m *MockSubscriptionReader) ListWithEmail(ctx context.Context) ([]models.Subscription, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Subscription), args.Error(1)
}

// MockMarketDataProvider is a mock implementation of MarketDataProvider
type MockMarketDataProvider struct {
	mock.Mock
}

func (m *MockMarketDataProvider) GetQuote(ctx context.Context, ticker string) (*models.Quote, error) {
	args := m.Called(ctx, ticker)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Quote), args.Error(1)
}

func (m *MockMarketDataProvider) GetDailySeries(ctx context.Context, ticker string, from, to time.Time) (*models.DailySeries, error) {
	args := m.Called(ctx, ticker, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DailySeries), args.Error(1)
}

func (m *MockMarketDataProvider) GetNews(ctx context.Context, ticker string, from, to time.Time) ([]models.NewsItem, error) {
	args := m.Called(ctx, ticker, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.NewsItem), args.Error(1)
}

// MockNotifier is a mock implementation of Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Send(ctx context.Context, to, subject, body string) error {
	args := m.Called(ctx, to, subject, body)
	return args.Error(0)
}

// MockRunReporter is a mock implementation of RunReporter
type MockRunReporter struct {
	mock.Mock
}

func (m *MockRunReporter) Report(ctx context.Context, summary *models.RunSummary) error {
	args := m.Called(ctx, summary)
	return args.Error(0)
}

// MockTickerFetcher is a mock implementation of TickerFetcher
type MockTickerFetcher struct {
	mock.Mock
}

func (m *MockTickerFetcher) Build(ctx context.Context, ticker string) (*models.MarketSnapshot, error) {
	args := m.Called(ctx, ticker)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MarketSnapshot), args.Error(1)
}
