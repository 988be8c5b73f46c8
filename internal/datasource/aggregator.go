package datasource

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/seenimoa/cryptodash/internal/analysis/sentiment"
	"github.com/seenimoa/cryptodash/pkg/models"
)

// AssetReport is the detail view of one asset: the market-list row (when
// known), the detail record, and optionally related news with sentiment.
type AssetReport struct {
	Summary   *models.AssetSummary        `json:"summary,omitempty"`
	Detail    *models.AssetDetail         `json:"detail"`
	News      []models.NewsArticle        `json:"news,omitempty"`
	Sentiment *models.AggregatedSentiment `json:"sentiment,omitempty"`
	Warnings  []string                    `json:"warnings,omitempty"`
	FetchedAt time.Time                   `json:"fetched_at"`
}

// Aggregator combines the market source and the news source.
type Aggregator struct {
	market MarketSource
	news   *News
	log    logrus.FieldLogger
}

// NewAggregator creates an aggregator. news may be nil, in which case
// reports never carry news.
func NewAggregator(market MarketSource, news *News, log logrus.FieldLogger) *Aggregator {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Aggregator{market: market, news: news, log: log}
}

// Market returns the underlying market source.
func (a *Aggregator) Market() MarketSource { return a.market }

// News returns the news source, which may be nil.
func (a *Aggregator) News() *News { return a.news }

// FetchAssetReport fetches the detail record and, when withNews is set,
// related news concurrently. A detail failure fails the report; a news
// failure only adds a warning. summary may be nil.
func (a *Aggregator) FetchAssetReport(ctx context.Context, id string, summary *models.AssetSummary, withNews bool, newsLimit int) (*AssetReport, error) {
	report := &AssetReport{Summary: summary, FetchedAt: time.Now().UTC()}

	ref := AssetRef{ID: id}
	if summary != nil {
		ref.Symbol = summary.Symbol
		ref.Name = summary.Name
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		d, err := a.market.GetAssetDetail(gctx, id)
		if err != nil {
			return err
		}
		mu.Lock()
		report.Detail = d
		mu.Unlock()
		return nil
	})

	if withNews && a.news != nil {
		g.Go(func() error {
			articles, err := a.news.GetAssetNews(gctx, ref, newsLimit)
			if err != nil {
				if gctx.Err() != nil {
					return nil
				}
				a.log.WithField("asset", id).WithError(err).Warn("asset news unavailable")
				mu.Lock()
				report.Warnings = append(report.Warnings, fmt.Sprintf("news: %v", err))
				mu.Unlock()
				return nil // non-fatal
			}
			agg := sentiment.ScoreArticles(id, articles)
			mu.Lock()
			report.News = articles
			report.Sentiment = &agg
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		if errors.Is(err, ErrAssetNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("asset report %s: %w", id, err)
	}
	return report, nil
}

// MarketNews returns recent market news with an overall sentiment.
func (a *Aggregator) MarketNews(ctx context.Context, limit int) ([]models.NewsArticle, *models.AggregatedSentiment, error) {
	if a.news == nil {
		return nil, nil, ErrNotSupported
	}
	articles, err := a.news.GetMarketNews(ctx, limit)
	if err != nil {
		return nil, nil, err
	}
	agg := sentiment.ScoreArticles("market", articles)
	return articles, &agg, nil
}
