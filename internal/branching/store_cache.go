package branching

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// CachedStore wraps another Store with a short-TTL Redis cache keyed by
// (workflow, step). Branch configuration changes are infrequent relative
// to evaluation volume, so bounded staleness is acceptable.
//
// The cache is best-effort: Redis faults fall through to the underlying
// store and never surface to the caller.
type CachedStore struct {
	Next Store
	RDB  *redis.Client
	TTL  time.Duration
}

func NewCachedStore(next Store, rdb *redis.Client, ttl time.Duration) *CachedStore {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &CachedStore{Next: next, RDB: rdb, TTL: ttl}
}

func (s *CachedStore) LoadActiveBranches(ctx context.Context, workflowID, stepID string) ([]WorkflowBranch, error) {
	key := "branches:" + workflowID + ":" + stepID

	if s.RDB != nil {
		if raw, err := s.RDB.Get(ctx, key).Bytes(); err == nil {
			var cached []WorkflowBranch
			if err := json.Unmarshal(raw, &cached); err == nil {
				orderBranches(cached)
				return cached, nil
			}
		}
	}

	branches, err := s.Next.LoadActiveBranches(ctx, workflowID, stepID)
	if err != nil {
		return nil, err
	}

	if s.RDB != nil {
		if raw, err := json.Marshal(branches); err == nil {
			_ = s.RDB.Set(ctx, key, raw, s.TTL).Err()
		}
	}
	return branches, nil
}
