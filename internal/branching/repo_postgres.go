package branching

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

// PostgresStore reads workflow branches from Postgres.
//
// condition_value and branch_steps are JSONB columns; condition values
// decode into their natural Go forms (float64 for numbers, []any for
// sets) which is what the comparator expects.
type PostgresStore struct {
	DB *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore { return &PostgresStore{DB: db} }

func (s *PostgresStore) LoadActiveBranches(ctx context.Context, workflowID, stepID string) ([]WorkflowBranch, error) {
	if s.DB == nil {
		return nil, fmt.Errorf("%w: db not configured", ErrStoreUnavailable)
	}

	const q = `
		SELECT id, workflow_id, parent_step_id,
		       condition_type, condition_operator, condition_value,
		       branch_steps, branch_name, priority, is_active, created_at
		FROM workflow_branches
		WHERE workflow_id = $1
		  AND parent_step_id = $2
		  AND is_active = TRUE
		ORDER BY priority DESC, id ASC
	`
	rows, err := s.DB.QueryContext(ctx, q, workflowID, stepID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var out []WorkflowBranch
	for rows.Next() {
		var b WorkflowBranch
		var rawValue []byte
		var branchName sql.NullString
		if err := rows.Scan(
			&b.ID, &b.WorkflowID, &b.ParentStepID,
			&b.ConditionType, &b.ConditionOperator, &rawValue,
			&b.BranchSteps, &branchName, &b.Priority, &b.IsActive, &b.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: scan: %v", ErrStoreUnavailable, err)
		}
		b.BranchName = branchName.String
		if len(rawValue) > 0 {
			if err := json.Unmarshal(rawValue, &b.ConditionValue); err != nil {
				// A malformed value disables only this branch at comparison
				// time; loading must not fail wholesale.
				b.ConditionValue = string(rawValue)
			}
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return out, nil
}
