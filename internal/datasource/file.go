package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/seenimoa/cryptodash/pkg/models"
)

// FileSource serves a market list saved from the /coins/markets endpoint.
// It is used for offline runs and demos; it has no detail records.
type FileSource struct {
	path       string
	vsCurrency string
}

// NewFileSource reads markets from path on every ListMarkets call.
func NewFileSource(path, vsCurrency string) *FileSource {
	if vsCurrency == "" {
		vsCurrency = "usd"
	}
	return &FileSource{path: path, vsCurrency: vsCurrency}
}

// Name returns the data source name.
func (f *FileSource) Name() string { return "file" }

// ListMarkets decodes the file as a JSON array of market rows.
func (f *FileSource) ListMarkets(ctx context.Context) (*models.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("read markets file: %w", err)
	}
	var assets []models.AssetSummary
	if err := json.Unmarshal(data, &assets); err != nil {
		return nil, fmt.Errorf("decode markets file %s: %w", f.path, err)
	}
	return models.NewSnapshot(f.Name(), f.vsCurrency, assets), nil
}

// GetAssetDetail is not supported by the file source.
func (f *FileSource) GetAssetDetail(_ context.Context, _ string) (*models.AssetDetail, error) {
	return nil, ErrNotSupported
}
