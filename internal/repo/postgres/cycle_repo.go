package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/velles/review-cycle-service/internal/domain"
	"github.com/velles/review-cycle-service/internal/service"
)

type CycleRepo struct {
	db *sql.DB
}

func NewCycleRepo(db *sql.DB) *CycleRepo {
	return &CycleRepo{db: db}
}

// InTransition runs fn against one card's cycles inside a single
// transaction. Any error rolls the whole transition back.
func (r *CycleRepo) InTransition(ctx context.Context, cardID string, fn func(tx service.CycleTx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transition tx: %w", err)
	}
	defer func() {
		// #nosec G104 -- error is ignored in defer rollback
		_ = tx.Rollback()
	}()

	if err := fn(&cycleTx{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transition tx: %w", err)
	}
	return nil
}

type cycleTx struct {
	tx *sql.Tx
}

func scanCycle(row *sql.Row) (*domain.ReviewCycle, error) {
	var (
		c         domain.ReviewCycle
		closedRaw sql.NullTime
		lockedRaw sql.NullTime
	)
	if err := row.Scan(&c.ID, &c.CardID, &c.ProjectID, &c.CycleNumber, &c.OpenedAt, &closedRaw, &lockedRaw, &c.IsFinal); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan review_cycle: %w", err)
	}
	if closedRaw.Valid {
		t := closedRaw.Time
		c.ClosedAt = &t
	}
	if lockedRaw.Valid {
		t := lockedRaw.Time
		c.LockedAt = &t
	}
	return &c, nil
}

func (t *cycleTx) OpenCycle(ctx context.Context, cardID string) (*domain.ReviewCycle, error) {
	row := t.tx.QueryRowContext(ctx,
		`SELECT id, card_id, project_id, cycle_number, opened_at, closed_at, locked_at, is_final
         FROM review_cycles
         WHERE card_id = $1 AND closed_at IS NULL`,
		cardID,
	)
	return scanCycle(row)
}

func (t *cycleTx) MaxCycleNumber(ctx context.Context, cardID string) (int, error) {
	var max int
	err := t.tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(cycle_number), 0) FROM review_cycles WHERE card_id = $1`,
		cardID,
	).Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("max cycle number: %w", err)
	}
	return max, nil
}

func (t *cycleTx) CreateCycle(ctx context.Context, cycle domain.ReviewCycle) (bool, error) {
	res, err := t.tx.ExecContext(ctx,
		`INSERT INTO review_cycles (id, card_id, project_id, cycle_number, opened_at)
         VALUES ($1, $2, $3, $4, $5)
         ON CONFLICT (card_id) WHERE closed_at IS NULL DO NOTHING`,
		cycle.ID, cycle.CardID, cycle.ProjectID, cycle.CycleNumber, cycle.OpenedAt,
	)
	if err != nil {
		return false, fmt.Errorf("insert review_cycle: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert review_cycle rows affected: %w", err)
	}
	return affected == 1, nil
}

func (t *cycleTx) CloseCycle(ctx context.Context, cycleID string, closedAt time.Time) error {
	if _, err := t.tx.ExecContext(ctx,
		`UPDATE review_cycles SET closed_at = $2 WHERE id = $1`,
		cycleID, closedAt,
	); err != nil {
		return fmt.Errorf("close review_cycle: %w", err)
	}
	return nil
}

func (t *cycleTx) DeleteCycle(ctx context.Context, cycleID string) error {
	if _, err := t.tx.ExecContext(ctx,
		`DELETE FROM review_cycles WHERE id = $1`,
		cycleID,
	); err != nil {
		return fmt.Errorf("delete review_cycle: %w", err)
	}
	return nil
}

func (t *cycleTx) CountEvaluations(ctx context.Context, cycleID string) (int, error) {
	var count int
	err := t.tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM evaluations WHERE cycle_id = $1`,
		cycleID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count evaluations: %w", err)
	}
	return count, nil
}

func (t *cycleTx) LatestCycle(ctx context.Context, cardID string) (*domain.ReviewCycle, error) {
	row := t.tx.QueryRowContext(ctx,
		`SELECT id, card_id, project_id, cycle_number, opened_at, closed_at, locked_at, is_final
         FROM review_cycles
         WHERE card_id = $1
         ORDER BY cycle_number DESC
         LIMIT 1`,
		cardID,
	)
	return scanCycle(row)
}

func (t *cycleTx) ClearFinal(ctx context.Context, cardID string) error {
	if _, err := t.tx.ExecContext(ctx,
		`UPDATE review_cycles SET is_final = FALSE WHERE card_id = $1 AND is_final`,
		cardID,
	); err != nil {
		return fmt.Errorf("clear final: %w", err)
	}
	return nil
}

func (t *cycleTx) MarkFinal(ctx context.Context, cycleID string) error {
	if _, err := t.tx.ExecContext(ctx,
		`UPDATE review_cycles SET is_final = TRUE WHERE id = $1`,
		cycleID,
	); err != nil {
		return fmt.Errorf("mark final: %w", err)
	}
	return nil
}

func (t *cycleTx) LockAll(ctx context.Context, cardID string, lockedAt time.Time) error {
	if _, err := t.tx.ExecContext(ctx,
		`UPDATE review_cycles SET locked_at = $2 WHERE card_id = $1 AND locked_at IS NULL`,
		cardID, lockedAt,
	); err != nil {
		return fmt.Errorf("lock cycles: %w", err)
	}
	return nil
}

func (t *cycleTx) ClearLocks(ctx context.Context, cardID string) error {
	if _, err := t.tx.ExecContext(ctx,
		`UPDATE review_cycles SET locked_at = NULL WHERE card_id = $1 AND locked_at IS NOT NULL`,
		cardID,
	); err != nil {
		return fmt.Errorf("clear locks: %w", err)
	}
	return nil
}
