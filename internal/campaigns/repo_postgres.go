package campaigns

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// PostgresRepo reads campaigns and audience counts from Postgres.
// Tenancy invariant: every query filters by tenant_id.
type PostgresRepo struct {
	DB *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo { return &PostgresRepo{DB: db} }

func (r *PostgresRepo) GetByID(ctx context.Context, tenantID, campaignID string) (Campaign, error) {
	if r.DB == nil {
		return Campaign{}, errors.New("campaigns: db not configured")
	}

	const q = `
		SELECT id, tenant_id, name, channel, status,
		       batch_size, daily_limit, batch_interval_minutes, respect_business_hours,
		       start_datetime, created_at, updated_at
		FROM campaigns
		WHERE tenant_id = $1 AND id = $2
	`
	var c Campaign
	err := r.DB.QueryRowContext(ctx, q, tenantID, campaignID).Scan(
		&c.ID, &c.TenantID, &c.Name, &c.Channel, &c.Status,
		&c.BatchSize, &c.DailyLimit, &c.BatchIntervalMinutes, &c.RespectBusinessHours,
		&c.StartDatetime, &c.CreatedAt, &c.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Campaign{}, ErrNotFound
	}
	if err != nil {
		return Campaign{}, fmt.Errorf("campaigns: load: %w", err)
	}
	return c, nil
}

func (r *PostgresRepo) CountAudience(ctx context.Context, tenantID, campaignID string) (int, error) {
	if r.DB == nil {
		return 0, errors.New("campaigns: db not configured")
	}

	const q = `
		SELECT COUNT(*)
		FROM campaign_contacts
		WHERE tenant_id = $1 AND campaign_id = $2
	`
	var n int
	if err := r.DB.QueryRowContext(ctx, q, tenantID, campaignID).Scan(&n); err != nil {
		return 0, fmt.Errorf("campaigns: count audience: %w", err)
	}
	return n, nil
}
