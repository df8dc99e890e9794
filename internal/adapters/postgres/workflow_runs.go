package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"ipwatch/internal/domain"
)

// RunStore persists terminated workflow runs over database/sql.
type RunStore struct {
	db *sql.DB
}

func NewRunStore(db *sql.DB) *RunStore { return &RunStore{db: db} }

func (s *RunStore) SaveRun(ctx context.Context, run domain.WorkflowRun) error {
	steps := run.Steps
	if steps == nil {
		steps = []domain.WorkflowStep{}
	}
	raw, err := json.Marshal(steps)
	if err != nil {
		return fmt.Errorf("encode steps: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO workflow_runs (id, case_id, document_type, steps, total_tokens, total_cost, success, error, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, run.ID, run.CaseID, run.DocumentType, raw, run.TotalTokens, run.TotalCost, run.Success, run.Error, run.StartedAt, run.FinishedAt)
	if err != nil {
		return fmt.Errorf("save workflow run %s: %w", run.ID, err)
	}
	return nil
}
