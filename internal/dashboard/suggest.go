package dashboard

import (
	"errors"
	"fmt"

	"github.com/seenimoa/cryptodash/pkg/models"
)

// ErrUnknownSuggestion is returned by ApplySuggestion for an unknown key.
var ErrUnknownSuggestion = errors.New("unknown suggestion")

// Suggestion keys.
const (
	SuggestHighPerformers = "high-performers"
	SuggestBlueChips      = "blue-chips"
	SuggestBudget         = "budget"
)

// Suggestion proposes a filter change based on the current market.
type Suggestion struct {
	Key         string                              `json:"key"`
	Title       string                              `json:"title"`
	Description string                              `json:"description"`
	Action      func(FilterCriteria) FilterCriteria `json:"-"`
}

var suggestionActions = map[string]func(FilterCriteria) FilterCriteria{
	SuggestHighPerformers: func(c FilterCriteria) FilterCriteria { return c.WithChangeBand(ChangeHighGain) },
	SuggestBlueChips:      func(c FilterCriteria) FilterCriteria { return c.WithMarketCapBand(CapLarge) },
	SuggestBudget:         func(c FilterCriteria) FilterCriteria { return c.WithPriceBand(PriceUnder1) },
}

// GenerateSuggestions evaluates each rule independently and returns every
// match, in the order high performers, blue chips, budget.
func GenerateSuggestions(assets []models.AssetSummary) []Suggestion {
	out := make([]Suggestion, 0, 3)
	if len(assets) == 0 {
		return out
	}

	var highGainers, largeCaps, underOne int
	for _, a := range assets {
		if change, ok := a.Change(); ok && change > BigMoveThreshold {
			highGainers++
		}
		if a.MarketCap >= LargeCapMin {
			largeCaps++
		}
		if a.CurrentPrice < 1 {
			underOne++
		}
	}

	if highGainers > 5 {
		out = append(out, Suggestion{
			Key:         SuggestHighPerformers,
			Title:       "High Performers",
			Description: fmt.Sprintf("%d coins are up more than 10%% in 24h", highGainers),
			Action:      suggestionActions[SuggestHighPerformers],
		})
	}
	if largeCaps > 10 {
		out = append(out, Suggestion{
			Key:         SuggestBlueChips,
			Title:       "Blue Chip Coins",
			Description: fmt.Sprintf("Focus on the %d large-cap coins above $10B", largeCaps),
			Action:      suggestionActions[SuggestBlueChips],
		})
	}
	if underOne > 15 {
		out = append(out, Suggestion{
			Key:         SuggestBudget,
			Title:       "Budget Picks",
			Description: fmt.Sprintf("%d coins trade under $1", underOne),
			Action:      suggestionActions[SuggestBudget],
		})
	}
	return out
}

// ApplySuggestion applies the suggestion identified by key to c.
func ApplySuggestion(key string, c FilterCriteria) (FilterCriteria, error) {
	action, ok := suggestionActions[key]
	if !ok {
		return c, fmt.Errorf("%w: %q", ErrUnknownSuggestion, key)
	}
	return action(c), nil
}
