// Package sentiment scores crypto news headlines with a keyword lexicon.
package sentiment

import (
	"math"
	"strings"
	"time"

	"github.com/seenimoa/cryptodash/pkg/models"
)

// bullish / bearish keyword dictionaries (lowercase).
var bullishWords = map[string]float64{
	"bullish": 0.7, "rally": 0.6, "surge": 0.7, "soar": 0.7,
	"pump": 0.5, "moon": 0.5, "breakout": 0.6, "upgrade": 0.5,
	"all-time high": 0.8, "record high": 0.7, "adoption": 0.5,
	"etf approval": 0.8, "inflows": 0.5, "partnership": 0.4,
	"accumulate": 0.5, "recovery": 0.5, "gain": 0.4, "launch": 0.3,
	"mainnet": 0.4, "integration": 0.3,
}

var bearishWords = map[string]float64{
	"bearish": 0.7, "crash": 0.8, "plunge": 0.7, "slump": 0.6,
	"dump": 0.6, "selloff": 0.7, "sell-off": 0.7, "hack": 0.8,
	"exploit": 0.8, "rug pull": 0.9, "scam": 0.8, "fraud": 0.8,
	"lawsuit": 0.6, "sec charges": 0.7, "ban": 0.6, "delist": 0.6,
	"outflows": 0.5, "liquidation": 0.5, "decline": 0.5, "drop": 0.4,
	"warning": 0.4, "insolvent": 0.8,
}

// ScoreHeadline returns a sentiment score for a single headline.
// Score ranges from -1.0 (very bearish) to +1.0 (very bullish).
func ScoreHeadline(headline string) (score float64, confidence float64) {
	lower := strings.ToLower(headline)

	bullScore := 0.0
	bearScore := 0.0
	matches := 0

	for word, weight := range bullishWords {
		if strings.Contains(lower, word) {
			bullScore += weight
			matches++
		}
	}
	for word, weight := range bearishWords {
		if strings.Contains(lower, word) {
			bearScore += weight
			matches++
		}
	}

	total := bullScore + bearScore
	if matches == 0 || total == 0 {
		return 0, 0.1 // no signal
	}

	score = (bullScore - bearScore) / total
	confidence = math.Min(float64(matches)*0.15+0.2, 0.85)
	return score, confidence
}

// ScoreArticle scores a news article.
func ScoreArticle(article models.NewsArticle) models.SentimentScore {
	text := article.Title
	if article.Summary != "" {
		text += " " + article.Summary
	}

	score, confidence := ScoreHeadline(text)

	return models.SentimentScore{
		Source:      article.Source,
		Headline:    article.Title,
		Score:       score,
		Confidence:  models.Confidence(confidence),
		URL:         article.URL,
		PublishedAt: article.PublishedAt,
	}
}

// AggregateSentiment computes a time-weighted aggregate from headline scores.
// Weights halve every 24 hours of article age.
func AggregateSentiment(asset string, scores []models.SentimentScore) models.AggregatedSentiment {
	return aggregateAt(asset, scores, time.Now())
}

func aggregateAt(asset string, scores []models.SentimentScore, now time.Time) models.AggregatedSentiment {
	if len(scores) == 0 {
		return models.AggregatedSentiment{
			Asset:     asset,
			Label:     "Neutral",
			Sources:   []models.SentimentScore{},
			Timestamp: now,
		}
	}

	weightedSum := 0.0
	totalWeight := 0.0
	confSum := 0.0

	for _, s := range scores {
		age := now.Sub(s.PublishedAt).Hours()
		if age < 0 {
			age = 0
		}
		w := math.Exp(-math.Ln2*age/24) * float64(s.Confidence)

		weightedSum += s.Score * w
		totalWeight += w
		confSum += float64(s.Confidence)
	}

	avgScore := 0.0
	if totalWeight > 0 {
		avgScore = weightedSum / totalWeight
	} else {
		// Every article is old enough for its weight to underflow.
		for _, s := range scores {
			avgScore += s.Score
		}
		avgScore /= float64(len(scores))
	}

	return models.AggregatedSentiment{
		Asset:        asset,
		Score:        avgScore,
		Confidence:   models.Confidence(confSum / float64(len(scores))),
		Label:        Label(avgScore),
		Sources:      scores,
		ArticleCount: len(scores),
		Timestamp:    now,
	}
}

// Label maps an aggregate score onto a five-step scale.
func Label(score float64) string {
	switch {
	case score > 0.3:
		return "Bullish"
	case score > 0.1:
		return "Slightly Bullish"
	case score < -0.3:
		return "Bearish"
	case score < -0.1:
		return "Slightly Bearish"
	}
	return "Neutral"
}

// ScoreArticles scores every article and aggregates the result for asset.
func ScoreArticles(asset string, articles []models.NewsArticle) models.AggregatedSentiment {
	scores := make([]models.SentimentScore, 0, len(articles))
	for _, a := range articles {
		scores = append(scores, ScoreArticle(a))
	}
	return AggregateSentiment(asset, scores)
}
