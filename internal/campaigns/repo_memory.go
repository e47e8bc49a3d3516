package campaigns

import (
	"context"
	"sync"
)

// MemoryRepo is an in-memory campaign repository useful for tests.
type MemoryRepo struct {
	mu        sync.RWMutex
	campaigns map[string]Campaign
	audience  map[string]int
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		campaigns: make(map[string]Campaign),
		audience:  make(map[string]int),
	}
}

func (r *MemoryRepo) Put(c Campaign, audienceSize int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.campaigns[c.TenantID+"/"+c.ID] = c
	r.audience[c.TenantID+"/"+c.ID] = audienceSize
}

func (r *MemoryRepo) GetByID(ctx context.Context, tenantID, campaignID string) (Campaign, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.campaigns[tenantID+"/"+campaignID]
	if !ok {
		return Campaign{}, ErrNotFound
	}
	return c, nil
}

func (r *MemoryRepo) CountAudience(ctx context.Context, tenantID, campaignID string) (int, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.audience[tenantID+"/"+campaignID], nil
}
