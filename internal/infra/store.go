package infra

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/seenimoa/cryptodash/pkg/models"
)

// ErrNoSnapshot is returned when no snapshot has been stored yet, or the
// stored one has expired.
var ErrNoSnapshot = errors.New("no snapshot stored")

// SnapshotStore keeps the most recent market snapshot.
type SnapshotStore interface {
	Save(ctx context.Context, snap *models.Snapshot) error
	Latest(ctx context.Context) (*models.Snapshot, error)
	Close() error
}

// MemoryStore holds the latest snapshot in process.
type MemoryStore struct {
	mu    sync.RWMutex
	snap  *models.Snapshot
	saved time.Time
	ttl   time.Duration
}

// NewMemoryStore returns a store whose snapshot expires after ttl. A
// non-positive ttl keeps it until replaced.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{ttl: ttl}
}

func (m *MemoryStore) Save(_ context.Context, snap *models.Snapshot) error {
	if snap == nil {
		return fmt.Errorf("save snapshot: nil snapshot")
	}
	m.mu.Lock()
	m.snap = snap
	m.saved = time.Now()
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Latest(_ context.Context) (*models.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.snap == nil {
		return nil, ErrNoSnapshot
	}
	if m.ttl > 0 && time.Since(m.saved) > m.ttl {
		return nil, ErrNoSnapshot
	}
	return m.snap, nil
}

func (m *MemoryStore) Close() error { return nil }

// StoreOptions selects and configures a snapshot store backend.
type StoreOptions struct {
	Backend  string // "memory" or "redis"
	RedisURL string
	TTL      time.Duration
}

// NewSnapshotStore builds the store named by opts.Backend. The redis
// backend is pinged before it is returned.
func NewSnapshotStore(ctx context.Context, opts StoreOptions) (SnapshotStore, error) {
	switch opts.Backend {
	case "", "memory":
		return NewMemoryStore(opts.TTL), nil
	case "redis":
		return NewRedisStore(ctx, opts.RedisURL, opts.TTL)
	default:
		return nil, fmt.Errorf("unknown cache backend %q", opts.Backend)
	}
}
