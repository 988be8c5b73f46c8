package models

import "time"

// AssetSummary is one entry of the market list as returned by the
// /coins/markets endpoint. Optional upstream fields are pointers; nil means
// the upstream sent null or omitted the field.
type AssetSummary struct {
	ID                       string   `json:"id"`
	Symbol                   string   `json:"symbol"`
	Name                     string   `json:"name"`
	Image                    string   `json:"image,omitempty"`
	CurrentPrice             float64  `json:"current_price"`
	MarketCap                float64  `json:"market_cap"`
	MarketCapRank            int      `json:"market_cap_rank"`
	TotalVolume              float64  `json:"total_volume"`
	PriceChangePercentage24h *float64 `json:"price_change_percentage_24h"`

	High24h           *float64   `json:"high_24h,omitempty"`
	Low24h            *float64   `json:"low_24h,omitempty"`
	CirculatingSupply *float64   `json:"circulating_supply,omitempty"`
	TotalSupply       *float64   `json:"total_supply,omitempty"`
	MaxSupply         *float64   `json:"max_supply,omitempty"`
	ATH               *float64   `json:"ath,omitempty"`
	LastUpdated       *time.Time `json:"last_updated,omitempty"`
}

// Change returns the 24h price change percentage and whether it is known.
func (a AssetSummary) Change() (float64, bool) {
	if a.PriceChangePercentage24h == nil {
		return 0, false
	}
	return *a.PriceChangePercentage24h, true
}

// AssetDetail is the extended record for a single asset, fetched separately
// from the market list. Every nested field is optional.
type AssetDetail struct {
	ID          string   `json:"id"`
	Symbol      string   `json:"symbol"`
	Name        string   `json:"name"`
	Image       string   `json:"image,omitempty"`
	Description string   `json:"description,omitempty"`
	Categories  []string `json:"categories,omitempty"`
	GenesisDate string   `json:"genesis_date,omitempty"`

	CurrentPrice             *float64  `json:"current_price,omitempty"`
	ATH                      *float64  `json:"ath,omitempty"`
	PriceChangePercentage7d  *float64  `json:"price_change_percentage_7d,omitempty"`
	PriceChangePercentage30d *float64  `json:"price_change_percentage_30d,omitempty"`
	Sparkline7d              []float64 `json:"sparkline_7d,omitempty"`

	Supply    Supply    `json:"supply"`
	Community Community `json:"community"`
	Links     Links     `json:"links"`
}

// Supply holds circulating/total/max supply figures.
type Supply struct {
	Circulating *float64 `json:"circulating,omitempty"`
	Total       *float64 `json:"total,omitempty"`
	Max         *float64 `json:"max,omitempty"`
}

// Community holds social follower counts.
type Community struct {
	TwitterFollowers  *int64 `json:"twitter_followers,omitempty"`
	RedditSubscribers *int64 `json:"reddit_subscribers,omitempty"`
}

// Links holds the first usable external link of each kind.
type Links struct {
	Homepage       string `json:"homepage,omitempty"`
	BlockchainSite string `json:"blockchain_site,omitempty"`
	GitHub         string `json:"github,omitempty"`
}

// HasCommunity reports whether any community figure is known.
func (d *AssetDetail) HasCommunity() bool {
	return d.Community.TwitterFollowers != nil || d.Community.RedditSubscribers != nil
}

// Float64 returns a pointer to v. Handy for building fixtures.
func Float64(v float64) *float64 { return &v }
