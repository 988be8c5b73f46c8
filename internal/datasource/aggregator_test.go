package datasource

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/seenimoa/cryptodash/pkg/models"
)

type fakeMarket struct {
	detail    *models.AssetDetail
	detailErr error
}

func (f *fakeMarket) Name() string { return "fake" }

func (f *fakeMarket) ListMarkets(context.Context) (*models.Snapshot, error) {
	return models.NewSnapshot("fake", "usd", nil), nil
}

func (f *fakeMarket) GetAssetDetail(_ context.Context, id string) (*models.AssetDetail, error) {
	if f.detailErr != nil {
		return nil, f.detailErr
	}
	return f.detail, nil
}

func TestFetchAssetReportWithNews(t *testing.T) {
	srv := newFeedServer(t, nil)
	news := NewNews([]NewsSource{{Name: "Test", RSSURL: srv.URL + "/rss"}}, time.Minute, testLogger())
	agg := NewAggregator(&fakeMarket{detail: &models.AssetDetail{ID: "bitcoin", Name: "Bitcoin"}}, news, testLogger())

	summary := &models.AssetSummary{ID: "bitcoin", Symbol: "btc", Name: "Bitcoin"}
	report, err := agg.FetchAssetReport(context.Background(), "bitcoin", summary, true, 5)
	if err != nil {
		t.Fatalf("FetchAssetReport() error = %v", err)
	}
	if report.Detail == nil || report.Detail.ID != "bitcoin" || report.Summary != summary {
		t.Errorf("report = %+v", report)
	}
	if len(report.News) != 1 || report.Sentiment == nil || report.Sentiment.ArticleCount != 1 {
		t.Fatalf("news = %d, sentiment = %+v", len(report.News), report.Sentiment)
	}
	if report.Sentiment.Sources[0].Score <= 0 {
		t.Errorf("record-high headline should score bullish, got %f", report.Sentiment.Sources[0].Score)
	}
}

func TestFetchAssetReportNewsFailureIsWarning(t *testing.T) {
	srv := newFeedServer(t, nil)
	news := NewNews([]NewsSource{{Name: "Broken", RSSURL: srv.URL + "/broken"}}, time.Minute, testLogger())
	agg := NewAggregator(&fakeMarket{detail: &models.AssetDetail{ID: "bitcoin"}}, news, testLogger())

	report, err := agg.FetchAssetReport(context.Background(), "bitcoin", nil, true, 5)
	if err != nil {
		t.Fatalf("FetchAssetReport() error = %v", err)
	}
	if len(report.Warnings) != 1 || report.News != nil {
		t.Errorf("warnings = %v, news = %v", report.Warnings, report.News)
	}
}

func TestFetchAssetReportDetailFailure(t *testing.T) {
	agg := NewAggregator(&fakeMarket{detailErr: ErrAssetNotFound}, nil, testLogger())
	if _, err := agg.FetchAssetReport(context.Background(), "nope", nil, true, 5); !errors.Is(err, ErrAssetNotFound) {
		t.Errorf("error = %v, want ErrAssetNotFound", err)
	}

	boom := errors.New("boom")
	agg = NewAggregator(&fakeMarket{detailErr: boom}, nil, testLogger())
	if _, err := agg.FetchAssetReport(context.Background(), "x", nil, false, 0); !errors.Is(err, boom) {
		t.Errorf("error = %v, want boom", err)
	}
}

func TestMarketNews(t *testing.T) {
	agg := NewAggregator(&fakeMarket{}, nil, testLogger())
	if _, _, err := agg.MarketNews(context.Background(), 5); !errors.Is(err, ErrNotSupported) {
		t.Errorf("MarketNews without news source error = %v", err)
	}

	srv := newFeedServer(t, nil)
	news := NewNews([]NewsSource{{Name: "Test", RSSURL: srv.URL + "/rss"}}, time.Minute, testLogger())
	agg = NewAggregator(&fakeMarket{}, news, testLogger())
	articles, sent, err := agg.MarketNews(context.Background(), 2)
	if err != nil {
		t.Fatalf("MarketNews() error = %v", err)
	}
	if len(articles) != 2 || sent == nil || sent.ArticleCount != 2 {
		t.Errorf("articles = %d, sentiment = %+v", len(articles), sent)
	}
}
