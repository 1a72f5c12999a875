package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/velles/review-cycle-service/internal/domain"
)

type EvaluationRepo struct {
	db *sql.DB
}

func NewEvaluationRepo(db *sql.DB) *EvaluationRepo {
	return &EvaluationRepo{db: db}
}

func (r *EvaluationRepo) GetCycle(ctx context.Context, cycleID string) (*domain.ReviewCycle, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, card_id, project_id, cycle_number, opened_at, closed_at, locked_at, is_final
         FROM review_cycles
         WHERE id = $1`,
		cycleID,
	)
	return scanCycle(row)
}

// Upsert stores an evaluation keyed by (cycle, reviewer) and replaces its
// scores in the same transaction. Resubmission keeps the original row id.
func (r *EvaluationRepo) Upsert(ctx context.Context, eval domain.Evaluation) (string, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin upsert evaluation tx: %w", err)
	}
	defer func() {
		// #nosec G104 -- error is ignored in defer rollback
		_ = tx.Rollback()
	}()

	var storedID string
	err = tx.QueryRowContext(ctx,
		`INSERT INTO evaluations (id, cycle_id, reviewer_id)
         VALUES ($1, $2, $3)
         ON CONFLICT (cycle_id, reviewer_id) DO UPDATE
         SET updated_at = now()
         RETURNING id`,
		eval.ID, eval.CycleID, eval.ReviewerID,
	).Scan(&storedID)
	if err != nil {
		return "", fmt.Errorf("upsert evaluation: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM dimension_scores WHERE evaluation_id = $1`,
		storedID,
	); err != nil {
		return "", fmt.Errorf("delete old scores: %w", err)
	}

	for _, score := range eval.Scores {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO dimension_scores (evaluation_id, dimension_id, score)
             VALUES ($1, $2, $3)`,
			storedID, score.DimensionID, string(score.Value),
		); err != nil {
			return "", fmt.Errorf("insert score for dimension %s: %w", score.DimensionID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit upsert evaluation tx: %w", err)
	}

	return storedID, nil
}
