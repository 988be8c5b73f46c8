package dashboard

import (
	"time"

	"github.com/google/uuid"

	"github.com/seenimoa/cryptodash/pkg/models"
)

// TopChartSize is the number of bars in the market-cap chart.
const TopChartSize = 10

// View is everything the presentation layer renders for one snapshot and
// one set of criteria.
type View struct {
	SnapshotID   uuid.UUID             `json:"snapshot_id"`
	FetchedAt    time.Time             `json:"fetched_at"`
	Criteria     FilterCriteria        `json:"criteria"`
	Filtered     []models.AssetSummary `json:"filtered"`
	Shown        int                   `json:"shown"`
	Total        int                   `json:"total"`
	IsFiltered   bool                  `json:"is_filtered"`
	ActiveCount  int                   `json:"active_filters"`
	Stats        Stats                 `json:"stats"`
	Insights     *Insights             `json:"insights"`
	Suggestions  []Suggestion          `json:"suggestions"`
	Distribution []DistributionSlice   `json:"distribution"`
	TopAssets    []TopAsset            `json:"top_assets"`
}

// BuildView validates criteria and recomputes every derived view from the
// snapshot. Stats, insights, suggestions and charts describe the raw
// collection; only Filtered depends on criteria.
func BuildView(snap *models.Snapshot, criteria FilterCriteria) (*View, error) {
	if err := criteria.Validate(); err != nil {
		return nil, err
	}
	criteria = criteria.normalized()

	var assets []models.AssetSummary
	v := &View{Criteria: criteria}
	if snap != nil {
		assets = snap.Assets
		v.SnapshotID = snap.ID
		v.FetchedAt = snap.FetchedAt
	}

	v.Filtered = ApplyFilters(assets, criteria)
	v.Shown = len(v.Filtered)
	v.Total = len(assets)
	v.ActiveCount = criteria.ActiveCount()
	v.IsFiltered = v.ActiveCount > 0
	v.Stats = ComputeStats(assets)
	if ins, err := ComputeInsights(assets); err == nil {
		v.Insights = &ins
	}
	v.Suggestions = GenerateSuggestions(assets)
	v.Distribution = MarketCapDistribution(assets)
	v.TopAssets = TopByMarketCap(assets, TopChartSize)
	return v, nil
}
