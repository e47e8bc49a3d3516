package audit

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// PostgresRepo appends decision events to the decision_events table.
// INSERT-only; retention is handled by table partitioning, not deletes.
type PostgresRepo struct {
	DB *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo { return &PostgresRepo{DB: db} }

func (r *PostgresRepo) Append(ctx context.Context, e Event) error {
	if r.DB == nil {
		return errors.New("audit: db not configured")
	}

	const q = `
		INSERT INTO decision_events
			(id, tenant_id, type, workflow_id, step_id, branch_id, lead_id, campaign_id, message, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.DB.ExecContext(ctx, q,
		e.ID, e.TenantID, string(e.Type),
		e.WorkflowID, e.StepID, e.BranchID, e.LeadID, e.CampaignID,
		e.Message, e.Metadata, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("audit: append: %w", err)
	}
	return nil
}
