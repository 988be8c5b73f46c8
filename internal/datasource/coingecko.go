package datasource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/seenimoa/cryptodash/internal/infra"
	"github.com/seenimoa/cryptodash/pkg/models"
)

const (
	// DefaultCoinGeckoURL is the public v3 API root.
	DefaultCoinGeckoURL = "https://api.coingecko.com/api/v3"

	coinGeckoKeyHeader = "x-cg-demo-api-key"
)

// CoinGeckoOptions configures the CoinGecko client. Zero values fall back
// to the defaults in NewCoinGecko.
type CoinGeckoOptions struct {
	BaseURL         string
	APIKey          string
	VsCurrency      string
	PerPage         int
	MaxRetries      int
	RetryDelay      time.Duration
	Timeout         time.Duration
	CacheTTL        time.Duration
	RateLimitPerSec float64
}

// CoinGecko implements MarketSource against the CoinGecko public API.
type CoinGecko struct {
	opts    CoinGeckoOptions
	client  *http.Client
	markets *infra.Cache[*models.Snapshot]
	details *infra.Cache[*models.AssetDetail]
	limiter *infra.RateLimiter
	log     logrus.FieldLogger

	// sleep waits between attempts; replaced in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewCoinGecko creates a CoinGecko client. A nil logger uses the logrus
// standard logger.
func NewCoinGecko(opts CoinGeckoOptions, log logrus.FieldLogger) *CoinGecko {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultCoinGeckoURL
	}
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	if opts.VsCurrency == "" {
		opts.VsCurrency = "usd"
	}
	if opts.PerPage <= 0 {
		opts.PerPage = 50
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 3
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = time.Second
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &CoinGecko{
		opts:    opts,
		client:  &http.Client{Timeout: opts.Timeout},
		markets: infra.NewCache[*models.Snapshot](opts.CacheTTL),
		details: infra.NewCache[*models.AssetDetail](opts.CacheTTL),
		limiter: infra.PerSecond(opts.RateLimitPerSec),
		log:     log.WithField("source", "coingecko"),
		sleep:   sleepCtx,
	}
}

// Name returns the data source name.
func (c *CoinGecko) Name() string { return "CoinGecko" }

// VsCurrency returns the quote currency of every price.
func (c *CoinGecko) VsCurrency() string { return c.opts.VsCurrency }

// InvalidateCache drops every cached response so the next call refetches.
func (c *CoinGecko) InvalidateCache() {
	c.markets.Flush()
	c.details.Flush()
}

// ListMarkets fetches the top assets by market cap (one fixed page).
func (c *CoinGecko) ListMarkets(ctx context.Context) (*models.Snapshot, error) {
	const cacheKey = "markets"
	if snap, ok := c.markets.Get(cacheKey); ok {
		return snap, nil
	}

	q := url.Values{}
	q.Set("vs_currency", c.opts.VsCurrency)
	q.Set("order", "market_cap_desc")
	q.Set("per_page", fmt.Sprint(c.opts.PerPage))
	q.Set("page", "1")
	q.Set("sparkline", "false")
	q.Set("locale", "en")

	var assets []models.AssetSummary
	if err := c.fetchJSON(ctx, c.opts.BaseURL+"/coins/markets?"+q.Encode(), &assets); err != nil {
		return nil, fmt.Errorf("list markets: %w", err)
	}

	snap := models.NewSnapshot(c.Name(), c.opts.VsCurrency, assets)
	c.log.WithFields(logrus.Fields{"snapshot": snap.ID, "assets": snap.Len()}).Debug("fetched market list")
	c.markets.Set(cacheKey, snap)
	return snap, nil
}

// GetAssetDetail fetches the extended record for id. An unknown id returns
// ErrAssetNotFound without retrying.
func (c *CoinGecko) GetAssetDetail(ctx context.Context, id string) (*models.AssetDetail, error) {
	id = strings.ToLower(strings.TrimSpace(id))
	if id == "" {
		return nil, ErrAssetNotFound
	}
	if d, ok := c.details.Get(id); ok {
		return d, nil
	}

	q := url.Values{}
	q.Set("localization", "false")
	q.Set("tickers", "false")
	q.Set("market_data", "true")
	q.Set("community_data", "true")
	q.Set("developer_data", "false")
	q.Set("sparkline", "true")

	var raw coinGeckoDetail
	endpoint := c.opts.BaseURL + "/coins/" + url.PathEscape(id) + "?" + q.Encode()
	if err := c.fetchJSON(ctx, endpoint, &raw); err != nil {
		var httpErr *ErrHTTP
		if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%s: %w", id, ErrAssetNotFound)
		}
		return nil, fmt.Errorf("asset detail %s: %w", id, err)
	}

	d := raw.toModel(c.opts.VsCurrency)
	c.details.Set(id, d)
	return d, nil
}

// fetchJSON GETs endpoint and decodes the body into out, retrying up to
// MaxRetries attempts. HTTP 429 backs off RetryDelay*attempt; other
// failures wait RetryDelay. A 404 is returned immediately as *ErrHTTP.
func (c *CoinGecko) fetchJSON(ctx context.Context, endpoint string, out any) error {
	headers := map[string]string{}
	if c.opts.APIKey != "" {
		headers[coinGeckoKeyHeader] = c.opts.APIKey
	}

	var lastErr error
	for attempt := 1; attempt <= c.opts.MaxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		err := c.getOnce(ctx, endpoint, headers, out)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		var httpErr *ErrHTTP
		delay := c.opts.RetryDelay
		if errors.As(err, &httpErr) {
			switch httpErr.StatusCode {
			case http.StatusNotFound:
				return err
			case http.StatusTooManyRequests:
				err = fmt.Errorf("%w: %v", ErrRateLimited, err)
				delay = c.opts.RetryDelay * time.Duration(attempt)
			}
		}
		lastErr = err

		c.log.WithFields(logrus.Fields{
			"attempt": attempt,
			"max":     c.opts.MaxRetries,
		}).WithError(err).Warn("coingecko request failed")

		if attempt < c.opts.MaxRetries {
			if err := c.sleep(ctx, delay); err != nil {
				return err
			}
		}
	}

	return fmt.Errorf("failed after %d attempts: %w", c.opts.MaxRetries, lastErr)
}

func (c *CoinGecko) getOnce(ctx context.Context, endpoint string, headers map[string]string, out any) error {
	body, _, err := doGet(ctx, c.client, endpoint, headers)
	if err != nil {
		return err
	}
	defer body.Close()

	if err := json.NewDecoder(body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// --- Upstream response shapes ---

type coinGeckoDetail struct {
	ID          string   `json:"id"`
	Symbol      string   `json:"symbol"`
	Name        string   `json:"name"`
	Categories  []string `json:"categories"`
	GenesisDate string   `json:"genesis_date"`
	Image       struct {
		Large string `json:"large"`
	} `json:"image"`
	Description struct {
		En string `json:"en"`
	} `json:"description"`
	Links struct {
		Homepage       []string `json:"homepage"`
		BlockchainSite []string `json:"blockchain_site"`
		ReposURL       struct {
			GitHub []string `json:"github"`
		} `json:"repos_url"`
	} `json:"links"`
	MarketData *struct {
		CurrentPrice             map[string]float64 `json:"current_price"`
		ATH                      map[string]float64 `json:"ath"`
		PriceChangePercentage7d  *float64           `json:"price_change_percentage_7d"`
		PriceChangePercentage30d *float64           `json:"price_change_percentage_30d"`
		CirculatingSupply        *float64           `json:"circulating_supply"`
		TotalSupply              *float64           `json:"total_supply"`
		MaxSupply                *float64           `json:"max_supply"`
		Sparkline7d              struct {
			Price []float64 `json:"price"`
		} `json:"sparkline_7d"`
	} `json:"market_data"`
	CommunityData *struct {
		TwitterFollowers  *int64 `json:"twitter_followers"`
		RedditSubscribers *int64 `json:"reddit_subscribers"`
	} `json:"community_data"`
}

func (r *coinGeckoDetail) toModel(vsCurrency string) *models.AssetDetail {
	d := &models.AssetDetail{
		ID:          r.ID,
		Symbol:      r.Symbol,
		Name:        r.Name,
		Image:       r.Image.Large,
		Description: cleanHTML(r.Description.En),
		GenesisDate: r.GenesisDate,
		Links: models.Links{
			Homepage:       firstNonEmpty(r.Links.Homepage),
			BlockchainSite: firstNonEmpty(r.Links.BlockchainSite),
			GitHub:         firstNonEmpty(r.Links.ReposURL.GitHub),
		},
	}
	for _, c := range r.Categories {
		if c != "" {
			d.Categories = append(d.Categories, c)
		}
	}

	if md := r.MarketData; md != nil {
		if v, ok := md.CurrentPrice[vsCurrency]; ok {
			d.CurrentPrice = models.Float64(v)
		}
		if v, ok := md.ATH[vsCurrency]; ok {
			d.ATH = models.Float64(v)
		}
		d.PriceChangePercentage7d = md.PriceChangePercentage7d
		d.PriceChangePercentage30d = md.PriceChangePercentage30d
		d.Sparkline7d = md.Sparkline7d.Price
		d.Supply = models.Supply{
			Circulating: md.CirculatingSupply,
			Total:       md.TotalSupply,
			Max:         md.MaxSupply,
		}
	}
	if cd := r.CommunityData; cd != nil {
		d.Community = models.Community{
			TwitterFollowers:  cd.TwitterFollowers,
			RedditSubscribers: cd.RedditSubscribers,
		}
	}
	return d
}

func firstNonEmpty(values []string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
