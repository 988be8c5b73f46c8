// Package dashboard derives the dashboard views from a fetched market list:
// the filtered table, summary statistics, market insights, chart series and
// filter suggestions. Every function here is pure and synchronous.
package dashboard

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// PriceBand is a quick price filter.
type PriceBand string

const (
	PriceAll       PriceBand = "all"
	PriceUnder1    PriceBand = "under1"
	Price1To100    PriceBand = "1to100"
	Price100To1000 PriceBand = "100to1000"
	PriceOver1000  PriceBand = "over1000"
)

// MarketCapBand is a market capitalisation filter.
type MarketCapBand string

const (
	CapAll    MarketCapBand = "all"
	CapLarge  MarketCapBand = "large"  // >= $10B
	CapMedium MarketCapBand = "medium" // $1B-$10B
	CapSmall  MarketCapBand = "small"  // $100M-$1B
	CapMicro  MarketCapBand = "micro"  // < $100M
)

// ChangeBand is a 24h price change filter.
type ChangeBand string

const (
	ChangeAll      ChangeBand = "all"
	ChangePositive ChangeBand = "positive"
	ChangeNegative ChangeBand = "negative"
	ChangeHighGain ChangeBand = "high-gain" // > +10%
	ChangeHighLoss ChangeBand = "high-loss" // < -10%
)

// Market-cap tier boundaries shared by filters, insights and charts.
const (
	LargeCapMin = 10e9
	MidCapMin   = 1e9
	SmallCapMin = 100e6

	// BigMoveThreshold is the absolute 24h change that counts as a big move.
	BigMoveThreshold = 10.0
)

// ErrInvalidCriteria is returned when filter criteria fail validation.
var ErrInvalidCriteria = errors.New("invalid filter criteria")

// VolumeRange is a [Low, High] percentage window over the volume span of
// the raw collection.
type VolumeRange struct {
	Low  int `json:"low"  validate:"min=0,max=100"`
	High int `json:"high" validate:"min=0,max=100,gtefield=Low"`
}

// FilterCriteria is the full set of user filter selections. It is a value:
// the With* methods return a modified copy and never touch the receiver.
type FilterCriteria struct {
	SearchQuery    string        `json:"search_query"`
	PriceBand      PriceBand     `json:"price_band"       validate:"oneof=all under1 1to100 100to1000 over1000"`
	CustomPriceMin *float64      `json:"custom_price_min" validate:"omitempty,gte=0"`
	CustomPriceMax *float64      `json:"custom_price_max" validate:"omitempty,gte=0"`
	MarketCapBand  MarketCapBand `json:"market_cap_band"  validate:"oneof=all large medium small micro"`
	ChangeBand     ChangeBand    `json:"change_band"      validate:"oneof=all positive negative high-gain high-loss"`
	VolumeRange    VolumeRange   `json:"volume_range"`
}

// DefaultCriteria returns criteria with every filter disabled.
func DefaultCriteria() FilterCriteria {
	return FilterCriteria{
		PriceBand:     PriceAll,
		MarketCapBand: CapAll,
		ChangeBand:    ChangeAll,
		VolumeRange:   VolumeRange{Low: 0, High: 100},
	}
}

// ClearAll resets every filter at once.
func (c FilterCriteria) ClearAll() FilterCriteria {
	return DefaultCriteria()
}

// WithSearch returns a copy with the search query replaced.
func (c FilterCriteria) WithSearch(q string) FilterCriteria {
	c.SearchQuery = q
	return c
}

// WithPriceBand returns a copy with the quick price band replaced.
func (c FilterCriteria) WithPriceBand(b PriceBand) FilterCriteria {
	c.PriceBand = b
	return c
}

// WithCustomPrice returns a copy with the custom price bounds replaced.
// A nil bound is unbounded on that side.
func (c FilterCriteria) WithCustomPrice(min, max *float64) FilterCriteria {
	c.CustomPriceMin = copyFloat(min)
	c.CustomPriceMax = copyFloat(max)
	return c
}

// WithMarketCapBand returns a copy with the market-cap band replaced.
func (c FilterCriteria) WithMarketCapBand(b MarketCapBand) FilterCriteria {
	c.MarketCapBand = b
	return c
}

// WithChangeBand returns a copy with the change band replaced.
func (c FilterCriteria) WithChangeBand(b ChangeBand) FilterCriteria {
	c.ChangeBand = b
	return c
}

// WithVolumeRange returns a copy with the volume window replaced.
func (c FilterCriteria) WithVolumeRange(low, high int) FilterCriteria {
	c.VolumeRange = VolumeRange{Low: low, High: high}
	return c
}

// normalized fills zero-valued bands with "all" so a zero FilterCriteria
// behaves like DefaultCriteria for the band fields.
func (c FilterCriteria) normalized() FilterCriteria {
	if c.PriceBand == "" {
		c.PriceBand = PriceAll
	}
	if c.MarketCapBand == "" {
		c.MarketCapBand = CapAll
	}
	if c.ChangeBand == "" {
		c.ChangeBand = ChangeAll
	}
	return c
}

// HasCustomPrice reports whether either custom price bound is set.
func (c FilterCriteria) HasCustomPrice() bool {
	return c.CustomPriceMin != nil || c.CustomPriceMax != nil
}

// ActiveCount returns how many filters differ from their defaults.
func (c FilterCriteria) ActiveCount() int {
	c = c.normalized()
	n := 0
	if c.SearchQuery != "" {
		n++
	}
	if c.PriceBand != PriceAll {
		n++
	}
	if c.HasCustomPrice() {
		n++
	}
	if c.MarketCapBand != CapAll {
		n++
	}
	if c.ChangeBand != ChangeAll {
		n++
	}
	if c.VolumeRange != (VolumeRange{Low: 0, High: 100}) {
		n++
	}
	return n
}

// IsDefault reports whether no filter is active.
func (c FilterCriteria) IsDefault() bool {
	return c.ActiveCount() == 0
}

var validate = validator.New()

// Validate checks band membership, price bounds and the volume window.
func (c FilterCriteria) Validate() error {
	c = c.normalized()
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%w: %s failed %q (value %v)", ErrInvalidCriteria, fe.Namespace(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("%w: %v", ErrInvalidCriteria, err)
	}
	if c.CustomPriceMin != nil && math.IsNaN(*c.CustomPriceMin) ||
		c.CustomPriceMax != nil && math.IsNaN(*c.CustomPriceMax) {
		return fmt.Errorf("%w: custom price is not a number", ErrInvalidCriteria)
	}
	return nil
}

// ParsePriceBound parses a custom price input. An empty string is unbounded.
func ParsePriceBound(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) {
		return nil, fmt.Errorf("%w: price bound %q is not a number", ErrInvalidCriteria, s)
	}
	if v < 0 {
		return nil, fmt.Errorf("%w: price bound %q is negative", ErrInvalidCriteria, s)
	}
	return &v, nil
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
