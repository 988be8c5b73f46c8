package datasource

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	"github.com/sirupsen/logrus"

	"github.com/seenimoa/cryptodash/internal/infra"
	"github.com/seenimoa/cryptodash/pkg/models"
)

// NewsSource is one RSS feed.
type NewsSource struct {
	Name   string `mapstructure:"name" json:"name"`
	RSSURL string `mapstructure:"url" json:"url"`
}

// DefaultNewsSources lists the crypto news feeds used when none are
// configured.
var DefaultNewsSources = []NewsSource{
	{Name: "CoinDesk", RSSURL: "https://www.coindesk.com/arc/outboundfeeds/rss/"},
	{Name: "Cointelegraph", RSSURL: "https://cointelegraph.com/rss"},
	{Name: "Decrypt", RSSURL: "https://decrypt.co/feed"},
}

// AssetRef identifies an asset for news matching.
type AssetRef struct {
	ID     string
	Symbol string
	Name   string
}

// News fetches crypto news from RSS feeds.
type News struct {
	sources []NewsSource
	cache   *infra.Cache[[]models.NewsArticle]
	limiter *infra.RateLimiter
	parser  *gofeed.Parser
	log     logrus.FieldLogger
}

// NewNews creates a news source. Empty sources fall back to
// DefaultNewsSources; a nil logger uses the logrus standard logger.
func NewNews(sources []NewsSource, cacheTTL time.Duration, log logrus.FieldLogger) *News {
	if len(sources) == 0 {
		sources = DefaultNewsSources
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	parser := gofeed.NewParser()
	parser.UserAgent = DefaultUserAgent
	parser.Client = &http.Client{Timeout: 20 * time.Second}

	return &News{
		sources: sources,
		cache:   infra.NewCache[[]models.NewsArticle](cacheTTL),
		limiter: infra.NewRateLimiter(2, time.Second),
		parser:  parser,
		log:     log.WithField("source", "news"),
	}
}

// Name returns the data source name.
func (n *News) Name() string { return "Crypto News" }

// Sources returns the configured feeds.
func (n *News) Sources() []NewsSource { return n.sources }

// GetMarketNews returns recent articles from every feed, newest first.
// Feeds that fail are skipped; an error is returned only when all fail.
func (n *News) GetMarketNews(ctx context.Context, limit int) ([]models.NewsArticle, error) {
	all, err := n.allArticles(ctx)
	if err != nil {
		return nil, err
	}
	return truncate(all, limit), nil
}

// GetAssetNews returns articles mentioning the asset's id, name or symbol.
func (n *News) GetAssetNews(ctx context.Context, asset AssetRef, limit int) ([]models.NewsArticle, error) {
	all, err := n.allArticles(ctx)
	if err != nil {
		return nil, err
	}

	keywords := assetKeywords(asset)
	var matched []models.NewsArticle
	for _, a := range all {
		if matchesAny(a.Title+" "+a.Summary, keywords) {
			a.Assets = append(slices.Clone(a.Assets), asset.ID)
			matched = append(matched, a)
		}
	}
	return truncate(matched, limit), nil
}

func (n *News) allArticles(ctx context.Context) ([]models.NewsArticle, error) {
	const cacheKey = "news:all"
	if cached, ok := n.cache.Get(cacheKey); ok {
		return cached, nil
	}

	var (
		all    = []models.NewsArticle{}
		failed int
	)
	for _, src := range n.sources {
		articles, err := n.fetchRSS(ctx, src)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			failed++
			n.log.WithField("feed", src.Name).WithError(err).Warn("skipping news feed")
			continue
		}
		all = append(all, articles...)
	}
	if len(n.sources) > 0 && failed == len(n.sources) {
		return nil, fmt.Errorf("all %d news feeds failed", failed)
	}

	slices.SortStableFunc(all, func(a, b models.NewsArticle) int {
		return b.PublishedAt.Compare(a.PublishedAt)
	})

	n.cache.Set(cacheKey, all)
	return all, nil
}

// fetchRSS parses one feed.
func (n *News) fetchRSS(ctx context.Context, src NewsSource) ([]models.NewsArticle, error) {
	if err := n.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	feed, err := n.parser.ParseURLWithContext(src.RSSURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse RSS %s: %w", src.Name, err)
	}

	articles := make([]models.NewsArticle, 0, len(feed.Items))
	for _, item := range feed.Items {
		a := models.NewsArticle{
			Title:   strings.TrimSpace(item.Title),
			URL:     item.Link,
			Source:  src.Name,
			Summary: cleanHTML(item.Description),
		}
		if item.PublishedParsed != nil {
			a.PublishedAt = *item.PublishedParsed
		}
		articles = append(articles, a)
	}
	return articles, nil
}

// cleanHTML strips HTML tags from a string using goquery.
func cleanHTML(s string) string {
	if s == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<body>" + s + "</body>"))
	if err != nil {
		return s
	}
	return strings.TrimSpace(doc.Text())
}

// assetKeywords returns lower-cased search terms for an asset, e.g.
// bitcoin → ["bitcoin", "btc"].
func assetKeywords(a AssetRef) []string {
	seen := map[string]bool{}
	var out []string
	add := func(s string) {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" || seen[s] {
			return
		}
		seen[s] = true
		out = append(out, s)
	}
	add(a.ID)
	add(a.Name)
	add(a.Symbol)
	return out
}

// matchesAny reports whether text contains any keyword as a whole word or
// phrase (case-insensitive), so "sol" does not match "solution".
func matchesAny(text string, keywords []string) bool {
	joined := " " + strings.Join(words(text), " ") + " "
	for _, kw := range keywords {
		kwWords := words(kw)
		if len(kwWords) == 0 {
			continue
		}
		if strings.Contains(joined, " "+strings.Join(kwWords, " ")+" ") {
			return true
		}
	}
	return false
}

// words splits s into lower-cased letter/digit runs ("render-token" →
// ["render", "token"]).
func words(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// truncate returns a copy of at most limit articles; limit <= 0 keeps all.
func truncate(articles []models.NewsArticle, limit int) []models.NewsArticle {
	if limit > 0 && len(articles) > limit {
		articles = articles[:limit]
	}
	return slices.Clone(articles)
}
