package hours

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Source supplies the per-tenant business-hours configuration.
//
// Implementations must be safe for concurrent use. Callers that cannot
// tolerate a failing source should fall back to DefaultConfig(); the
// engine itself never retries internally.
type Source interface {
	GetBusinessHours(ctx context.Context, tenantID string) (BusinessHoursConfig, error)
}

var ErrNotConfigured = errors.New("hours: tenant has no business hours configured")

// MemorySource is an in-memory source useful for tests and early development.
type MemorySource struct {
	Configs map[string]BusinessHoursConfig
}

func (s *MemorySource) GetBusinessHours(ctx context.Context, tenantID string) (BusinessHoursConfig, error) {
	_ = ctx
	cfg, ok := s.Configs[tenantID]
	if !ok {
		return BusinessHoursConfig{}, ErrNotConfigured
	}
	return cfg, nil
}

// PostgresSource reads the configuration from the tenant settings table.
// The weekly window is stored as a JSON document alongside the timezone.
type PostgresSource struct {
	DB *sql.DB
}

func (s *PostgresSource) GetBusinessHours(ctx context.Context, tenantID string) (BusinessHoursConfig, error) {
	if s.DB == nil {
		return BusinessHoursConfig{}, errors.New("hours: db not configured")
	}

	const q = `
		SELECT timezone, business_hours
		FROM tenant_settings
		WHERE tenant_id = $1
	`
	var tz string
	var raw []byte
	err := s.DB.QueryRowContext(ctx, q, tenantID).Scan(&tz, &raw)
	if errors.Is(err, sql.ErrNoRows) {
		return BusinessHoursConfig{}, ErrNotConfigured
	}
	if err != nil {
		return BusinessHoursConfig{}, fmt.Errorf("hours: load settings: %w", err)
	}

	cfg := BusinessHoursConfig{Timezone: tz}
	if err := json.Unmarshal(raw, &cfg.Days); err != nil {
		return BusinessHoursConfig{}, fmt.Errorf("hours: decode business_hours: %w", err)
	}
	if cfg.Timezone == "" {
		cfg.Timezone = "UTC"
	}
	return cfg, nil
}

// CachedSource wraps another Source with a short-TTL Redis cache.
// Configuration changes are infrequent relative to evaluation volume,
// so stale reads within the TTL are acceptable.
//
// Cache failures are best-effort: any Redis error falls through to the
// underlying source.
type CachedSource struct {
	Next Source
	RDB  *redis.Client
	TTL  time.Duration
}

func (s *CachedSource) GetBusinessHours(ctx context.Context, tenantID string) (BusinessHoursConfig, error) {
	if s.Next == nil {
		return BusinessHoursConfig{}, errors.New("hours: cached source has no underlying source")
	}

	key := cacheKey(tenantID)
	if s.RDB != nil {
		if raw, err := s.RDB.Get(ctx, key).Bytes(); err == nil {
			var cfg BusinessHoursConfig
			if err := json.Unmarshal(raw, &cfg); err == nil {
				return cfg, nil
			}
		}
	}

	cfg, err := s.Next.GetBusinessHours(ctx, tenantID)
	if err != nil {
		return BusinessHoursConfig{}, err
	}

	if s.RDB != nil {
		ttl := s.TTL
		if ttl <= 0 {
			ttl = 5 * time.Minute
		}
		if raw, err := json.Marshal(cfg); err == nil {
			_ = s.RDB.Set(ctx, key, raw, ttl).Err()
		}
	}
	return cfg, nil
}

func cacheKey(tenantID string) string {
	return "hours:" + tenantID
}
