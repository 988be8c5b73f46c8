package models

import "time"

// Confidence is a 0.0-1.0 score.
type Confidence float64

// NewsArticle is a single crypto news item.
type NewsArticle struct {
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Source      string    `json:"source"`
	Summary     string    `json:"summary,omitempty"`
	PublishedAt time.Time `json:"published_at"`
	Assets      []string  `json:"assets,omitempty"` // related asset ids
}

// SentimentScore is the keyword sentiment of one headline.
type SentimentScore struct {
	Source      string     `json:"source"`
	Headline    string     `json:"headline"`
	Score       float64    `json:"score"` // -1.0 (very bearish) to +1.0 (very bullish)
	Confidence  Confidence `json:"confidence"`
	URL         string     `json:"url,omitempty"`
	PublishedAt time.Time  `json:"published_at"`
}

// AggregatedSentiment combines headline scores for one asset.
type AggregatedSentiment struct {
	Asset        string           `json:"asset"`
	Score        float64          `json:"score"`
	Confidence   Confidence       `json:"confidence"`
	Label        string           `json:"label"` // "Bullish", "Bearish", "Neutral"
	Sources      []SentimentScore `json:"sources"`
	ArticleCount int              `json:"article_count"`
	Timestamp    time.Time        `json:"timestamp"`
}
