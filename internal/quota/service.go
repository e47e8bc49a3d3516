// Package quota tracks the authoritative per-campaign daily send counters.
//
// The scheduling planner only produces an advisory projection; live
// dispatch must serialize quota accounting since multiple workers can
// race on "contacts sent today". The counters live in Redis and are
// updated atomically via Lua, with a TTL so a crashed worker never
// leaks a day's counter into the next.
package quota

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var reserveScript = redis.NewScript(`
-- KEYS[1] = daily counter key
-- ARGV[1] = contacts requested (int)
-- ARGV[2] = daily limit (int)
-- ARGV[3] = ttl_seconds (int)
--
-- Returns the new counter value on success, -1 if the reservation
-- would exceed the daily limit.
local current = redis.call('INCRBY', KEYS[1], ARGV[1])
if redis.call('TTL', KEYS[1]) < 0 then
  redis.call('EXPIRE', KEYS[1], ARGV[3])
end
if current > tonumber(ARGV[2]) then
  redis.call('DECRBY', KEYS[1], ARGV[1])
  return -1
end
return current
`)

var releaseScript = redis.NewScript(`
-- KEYS[1] = daily counter key
-- ARGV[1] = contacts to release (int)
local current = redis.call('DECRBY', KEYS[1], ARGV[1])
if current <= 0 then
  redis.call('DEL', KEYS[1])
end
return 1
`)

// Service provides atomic daily-quota accounting for campaign dispatch.
type Service struct {
	rdb   *redis.Client
	clock func() time.Time
}

func NewService(rdb *redis.Client) *Service {
	return &Service{rdb: rdb, clock: time.Now}
}

// Reserve atomically claims count contacts of today's quota for a
// campaign. It returns the running total for the day, or granted=false
// when the reservation would exceed dailyLimit (counter unchanged).
func (s *Service) Reserve(ctx context.Context, tenantID, campaignID string, count, dailyLimit int) (granted bool, sentToday int, err error) {
	if err := s.validate(tenantID, campaignID); err != nil {
		return false, 0, err
	}
	if count <= 0 {
		return false, 0, fmt.Errorf("quota: count must be > 0, got %d", count)
	}
	if dailyLimit <= 0 {
		return false, 0, fmt.Errorf("quota: daily limit must be > 0, got %d", dailyLimit)
	}

	now := s.clock().UTC()
	key := s.dayKey(tenantID, campaignID, now)
	ttl := secondsUntilEndOfDay(now)

	n, err := reserveScript.Run(ctx, s.rdb, []string{key}, count, dailyLimit, ttl).Int()
	if err != nil {
		return false, 0, fmt.Errorf("quota: reserve: %w", err)
	}
	if n < 0 {
		used, err := s.SentToday(ctx, tenantID, campaignID)
		if err != nil {
			return false, 0, err
		}
		return false, used, nil
	}
	return true, n, nil
}

// Release returns previously reserved contacts to today's quota, e.g.
// when a dispatch batch fails before any send happens.
func (s *Service) Release(ctx context.Context, tenantID, campaignID string, count int) error {
	if err := s.validate(tenantID, campaignID); err != nil {
		return err
	}
	if count <= 0 {
		return fmt.Errorf("quota: count must be > 0, got %d", count)
	}

	key := s.dayKey(tenantID, campaignID, s.clock().UTC())
	_, err := releaseScript.Run(ctx, s.rdb, []string{key}, count).Result()
	if err != nil {
		return fmt.Errorf("quota: release: %w", err)
	}
	return nil
}

// SentToday reads the current daily counter (0 when absent).
func (s *Service) SentToday(ctx context.Context, tenantID, campaignID string) (int, error) {
	if err := s.validate(tenantID, campaignID); err != nil {
		return 0, err
	}

	key := s.dayKey(tenantID, campaignID, s.clock().UTC())
	n, err := s.rdb.Get(ctx, key).Int()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("quota: read: %w", err)
	}
	return n, nil
}

func (s *Service) validate(tenantID, campaignID string) error {
	if s.rdb == nil {
		return fmt.Errorf("quota: redis client is nil")
	}
	if tenantID == "" || campaignID == "" {
		return fmt.Errorf("quota: tenant and campaign ids are required")
	}
	return nil
}

func (s *Service) dayKey(tenantID, campaignID string, now time.Time) string {
	return fmt.Sprintf("quota:%s:%s:%s", tenantID, campaignID, now.Format("2006-01-02"))
}

func secondsUntilEndOfDay(now time.Time) int {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
	secs := int(midnight.Sub(now).Seconds())
	if secs < 1 {
		secs = 1
	}
	return secs
}
