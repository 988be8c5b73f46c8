package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/seenimoa/cryptodash/internal/dashboard"
	"github.com/seenimoa/cryptodash/pkg/models"
)

func parseFilterFlags(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "markets"}
	addFilterFlags(cmd)
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatalf("ParseFlags(%v): %v", args, err)
	}
	return cmd
}

func TestCriteriaFromFlags(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		active  int
		wantErr bool
	}{
		{"defaults", nil, 0, false},
		{"search and cap", []string{"--search", " sol ", "--cap", "large"}, 2, false},
		{"custom price", []string{"--min", "1", "--max", "100"}, 1, false},
		{"volume window", []string{"--vol-low", "20", "--vol-high", "80"}, 1, false},
		{"change band", []string{"--change", "high-loss"}, 1, false},
		{"bad band", []string{"--price", "cheap"}, 0, true},
		{"negative min", []string{"--min", "-1"}, 0, true},
		{"non-numeric max", []string{"--max", "lots"}, 0, true},
		{"inverted volume", []string{"--vol-low", "70", "--vol-high", "30"}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := criteriaFromFlags(parseFilterFlags(t, tt.args...))
			if tt.wantErr {
				if !errors.Is(err, dashboard.ErrInvalidCriteria) {
					t.Fatalf("expected ErrInvalidCriteria, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := c.ActiveCount(); got != tt.active {
				t.Errorf("ActiveCount = %d, want %d (%+v)", got, tt.active, c)
			}
		})
	}
}

func TestCriteriaFromFlagsKeepsRawSearch(t *testing.T) {
	c, err := criteriaFromFlags(parseFilterFlags(t, "--search", "  eth  "))
	if err != nil {
		t.Fatal(err)
	}
	if c.SearchQuery != "  eth  " {
		t.Errorf("SearchQuery = %q, want %q", c.SearchQuery, "  eth  ")
	}
}

func TestPrintView(t *testing.T) {
	change := 4.2
	snap := models.NewSnapshot("test", "usd", []models.AssetSummary{
		{ID: "bitcoin", Symbol: "btc", Name: "Bitcoin", MarketCapRank: 1, CurrentPrice: 65000, MarketCap: 1.2e12, TotalVolume: 30e9, PriceChangePercentage24h: &change},
		{ID: "dogecoin", Symbol: "doge", Name: "Dogecoin", MarketCapRank: 8, CurrentPrice: 0.15, MarketCap: 20e9, TotalVolume: 1e9},
	})

	t.Run("unfiltered", func(t *testing.T) {
		v, err := dashboard.BuildView(snap, dashboard.DefaultCriteria())
		if err != nil {
			t.Fatal(err)
		}
		var buf bytes.Buffer
		printView(&buf, v)
		out := buf.String()
		for _, want := range []string{"Showing 2 coins", "Bitcoin (BTC)", "$65,000", "+4.20%", "$1.20T", "N/A"} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("no matches", func(t *testing.T) {
		v, err := dashboard.BuildView(snap, dashboard.DefaultCriteria().WithSearch("zzz"))
		if err != nil {
			t.Fatal(err)
		}
		var buf bytes.Buffer
		printView(&buf, v)
		out := buf.String()
		if !strings.Contains(out, "Showing 0 of 2 coins (1 filters active)") {
			t.Errorf("unexpected header:\n%s", out)
		}
		if !strings.Contains(out, "No coins match") {
			t.Errorf("expected empty-state message:\n%s", out)
		}
	})
}
