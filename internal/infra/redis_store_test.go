package infra

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/seenimoa/cryptodash/pkg/models"
)

// Set CRYPTODASH_TEST_REDIS_URL (e.g. redis://localhost:6379/15) to run.
func TestRedisStore(t *testing.T) {
	url := os.Getenv("CRYPTODASH_TEST_REDIS_URL")
	if url == "" {
		t.Skip("CRYPTODASH_TEST_REDIS_URL not set")
	}

	ctx := context.Background()
	s, err := NewRedisStore(ctx, url, time.Minute)
	if err != nil {
		t.Fatalf("NewRedisStore() error = %v", err)
	}
	defer s.Close()
	s.key = "cryptodash:test:" + t.Name()
	defer s.client.Del(ctx, s.key)

	if _, err := s.Latest(ctx); !errors.Is(err, ErrNoSnapshot) {
		t.Fatalf("Latest() on empty key = %v", err)
	}

	change := 3.2
	snap := models.NewSnapshot("coingecko", "usd", []models.AssetSummary{
		{ID: "bitcoin", Symbol: "btc", CurrentPrice: 67000, PriceChangePercentage24h: &change},
	})
	if err := s.Save(ctx, snap); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := s.Latest(ctx)
	if err != nil {
		t.Fatalf("Latest() error = %v", err)
	}
	if got.ID != snap.ID || len(got.Assets) != 1 || *got.Assets[0].PriceChangePercentage24h != change {
		t.Errorf("Latest() = %+v", got)
	}
}
