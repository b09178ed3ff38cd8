package cache

import (
	"context"
	"path"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	types "github.com/yungbote/petfit-backend/internal/domain"
)

// Store is the ephemeral key-value tier.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	SetWithTTL(ctx context.Context, key string, val []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) (int64, error)
	// ScanByPattern uses glob patterns with '*' only. Used for bulk invalidation.
	ScanByPattern(ctx context.Context, pattern string) ([]string, error)
}

// RunStore is the durable, append-only run history.
type RunStore interface {
	CreateRun(ctx context.Context, run *types.RecommendationRun, items []*types.RecommendationRunItem) error
	LatestRun(ctx context.Context, petID uuid.UUID) (*types.RecommendationRun, error)
	ItemsForRun(ctx context.Context, runID uuid.UUID, limit int) ([]*types.RecommendationRunItem, error)
}

type memoryEntry struct {
	val       []byte
	expiresAt time.Time
}

// MemoryStore is an in-process Store for tests and single-node runs without Redis.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: map[string]memoryEntry{}, now: time.Now}
}

func (m *MemoryStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		return nil, false, nil
	}
	if !e.expiresAt.IsZero() && !m.now().Before(e.expiresAt) {
		delete(m.entries, key)
		return nil, false, nil
	}
	out := make([]byte, len(e.val))
	copy(out, e.val)
	return out, true, nil
}

func (m *MemoryStore) SetWithTTL(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e := memoryEntry{val: append([]byte(nil), val...)}
	if ttl > 0 {
		e.expiresAt = m.now().Add(ttl)
	}
	m.mu.Lock()
	m.entries[key] = e
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, keys ...string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, k := range keys {
		if _, ok := m.entries[k]; ok {
			delete(m.entries, k)
			n++
		}
	}
	return n, nil
}

func (m *MemoryStore) ScanByPattern(ctx context.Context, pattern string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for k := range m.entries {
		if ok, _ := path.Match(pattern, k); ok {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out, nil
}
