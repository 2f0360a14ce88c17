package memory

import (
	"context"
	"sync"
	"time"

	"solemate-be/internal/repository/contract"
	"solemate-be/pkg/store"

	"github.com/patrickmn/go-cache"
)

// HistoryRepository keeps transcripts in process memory
type HistoryRepository struct {
	mu    sync.Mutex
	cache *cache.Cache
}

var _ contract.HistoryRepository = &HistoryRepository{}

// NewHistoryRepository creates the store. A ttl of zero keeps sessions for the
// process lifetime; otherwise idle sessions expire after ttl.
func NewHistoryRepository(ttl time.Duration) *HistoryRepository {
	expiration := cache.NoExpiration
	if ttl > 0 {
		expiration = ttl
	}
	return &HistoryRepository{
		cache: cache.New(expiration, 10*time.Minute),
	}
}

func (r *HistoryRepository) Load(_ context.Context, sessionID string) ([]store.Turn, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	x, found := r.cache.Get(sessionID)
	if !found {
		r.cache.Set(sessionID, []store.Turn{}, cache.DefaultExpiration)
		return []store.Turn{}, nil
	}
	turns := x.([]store.Turn)
	out := make([]store.Turn, len(turns))
	copy(out, turns)
	return out, nil
}

func (r *HistoryRepository) Append(_ context.Context, sessionID string, turns ...store.Turn) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var existing []store.Turn
	if x, found := r.cache.Get(sessionID); found {
		existing = x.([]store.Turn)
	}
	next := make([]store.Turn, 0, len(existing)+len(turns))
	next = append(next, existing...)
	next = append(next, turns...)
	r.cache.Set(sessionID, next, cache.DefaultExpiration)
	return nil
}

func (r *HistoryRepository) Delete(_ context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache.Delete(sessionID)
	return nil
}

// Count returns the number of live sessions
func (r *HistoryRepository) Count() int {
	return r.cache.ItemCount()
}
