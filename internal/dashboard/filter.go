package dashboard

import (
	"math"
	"strings"

	"github.com/seenimoa/cryptodash/pkg/models"
)

// ApplyFilters returns the assets that satisfy every active criterion, in
// input order. The input slice is not modified.
//
// The volume window is always scaled against the min/max volume of the
// whole input, not of the subset left by the other filters, so the window
// stays put while the other filters are toggled.
func ApplyFilters(assets []models.AssetSummary, criteria FilterCriteria) []models.AssetSummary {
	out := make([]models.AssetSummary, 0, len(assets))
	if len(assets) == 0 {
		return out
	}

	c := criteria.normalized()
	query := strings.ToLower(c.SearchQuery)
	minVol, maxVol, _ := VolumeBounds(assets)
	volLow, volHigh := c.volumeWindow(minVol, maxVol)

	for _, a := range assets {
		if query != "" && !matchesSearch(a, query) {
			continue
		}
		if c.PriceBand != PriceAll && !inPriceBand(a.CurrentPrice, c.PriceBand) {
			continue
		}
		if c.HasCustomPrice() && !c.inCustomRange(a.CurrentPrice) {
			continue
		}
		if c.MarketCapBand != CapAll && !inMarketCapBand(a.MarketCap, c.MarketCapBand) {
			continue
		}
		if c.ChangeBand != ChangeAll && !inChangeBand(a, c.ChangeBand) {
			continue
		}
		if a.TotalVolume < volLow || a.TotalVolume > volHigh {
			continue
		}
		out = append(out, a)
	}
	return out
}

// VolumeBounds returns the smallest and largest TotalVolume in assets.
// ok is false for an empty collection.
func VolumeBounds(assets []models.AssetSummary) (min, max float64, ok bool) {
	if len(assets) == 0 {
		return 0, 0, false
	}
	min, max = assets[0].TotalVolume, assets[0].TotalVolume
	for _, a := range assets[1:] {
		if a.TotalVolume < min {
			min = a.TotalVolume
		}
		if a.TotalVolume > max {
			max = a.TotalVolume
		}
	}
	return min, max, true
}

// volumeWindow maps the percentage window linearly onto [minVol, maxVol].
// The 0 and 100 ends map to minVol and maxVol exactly.
func (c FilterCriteria) volumeWindow(minVol, maxVol float64) (float64, float64) {
	span := maxVol - minVol
	low, high := minVol, maxVol
	if c.VolumeRange.Low > 0 {
		low = minVol + span*(float64(c.VolumeRange.Low)/100)
	}
	if c.VolumeRange.High < 100 {
		high = minVol + span*(float64(c.VolumeRange.High)/100)
	}
	return low, high
}

func matchesSearch(a models.AssetSummary, lowerQuery string) bool {
	return strings.Contains(strings.ToLower(a.Name), lowerQuery) ||
		strings.Contains(strings.ToLower(a.Symbol), lowerQuery)
}

func inPriceBand(price float64, band PriceBand) bool {
	switch band {
	case PriceUnder1:
		return price < 1
	case Price1To100:
		return price >= 1 && price <= 100
	case Price100To1000:
		return price > 100 && price <= 1000
	case PriceOver1000:
		return price > 1000
	}
	return true
}

func (c FilterCriteria) inCustomRange(price float64) bool {
	min, max := 0.0, math.Inf(1)
	if c.CustomPriceMin != nil {
		min = *c.CustomPriceMin
	}
	if c.CustomPriceMax != nil {
		max = *c.CustomPriceMax
	}
	return price >= min && price <= max
}

func inMarketCapBand(marketCap float64, band MarketCapBand) bool {
	switch band {
	case CapLarge:
		return marketCap >= LargeCapMin
	case CapMedium:
		return marketCap >= MidCapMin && marketCap < LargeCapMin
	case CapSmall:
		return marketCap >= SmallCapMin && marketCap < MidCapMin
	case CapMicro:
		return marketCap < SmallCapMin
	}
	return true
}

// inChangeBand never matches an asset whose 24h change is unknown.
func inChangeBand(a models.AssetSummary, band ChangeBand) bool {
	change, ok := a.Change()
	if !ok {
		return false
	}
	switch band {
	case ChangePositive:
		return change > 0
	case ChangeNegative:
		return change < 0
	case ChangeHighGain:
		return change > BigMoveThreshold
	case ChangeHighLoss:
		return change < -BigMoveThreshold
	}
	return true
}
