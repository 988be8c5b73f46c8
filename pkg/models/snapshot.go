package models

import (
	"time"

	"github.com/google/uuid"
)

// Snapshot is the raw market list of one refresh cycle. The Assets slice is
// treated as read-only once the snapshot is built.
type Snapshot struct {
	ID         uuid.UUID      `json:"id"`
	FetchedAt  time.Time      `json:"fetched_at"`
	Source     string         `json:"source"`
	VsCurrency string         `json:"vs_currency"`
	Assets     []AssetSummary `json:"assets"`
}

// NewSnapshot stamps a fresh id and fetch time onto assets.
func NewSnapshot(source, vsCurrency string, assets []AssetSummary) *Snapshot {
	if assets == nil {
		assets = []AssetSummary{}
	}
	return &Snapshot{
		ID:         uuid.New(),
		FetchedAt:  time.Now().UTC(),
		Source:     source,
		VsCurrency: vsCurrency,
		Assets:     assets,
	}
}

// Find returns the asset with the given id.
func (s *Snapshot) Find(id string) (AssetSummary, bool) {
	for _, a := range s.Assets {
		if a.ID == id {
			return a, true
		}
	}
	return AssetSummary{}, false
}

// Len returns the number of assets in the snapshot.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Assets)
}
