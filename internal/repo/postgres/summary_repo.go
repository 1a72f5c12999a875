package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/velles/review-cycle-service/internal/domain"
)

type SummaryRepo struct {
	db *sql.DB
}

func NewSummaryRepo(db *sql.DB) *SummaryRepo {
	return &SummaryRepo{db: db}
}

func (r *SummaryRepo) GetCycle(ctx context.Context, cycleID string) (*domain.ReviewCycle, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, card_id, project_id, cycle_number, opened_at, closed_at, locked_at, is_final
         FROM review_cycles
         WHERE id = $1`,
		cycleID,
	)
	return scanCycle(row)
}

func (r *SummaryRepo) ListEvaluations(ctx context.Context, cycleID string) ([]domain.Evaluation, error) {
	evalRows, err := r.db.QueryContext(ctx,
		`SELECT id, cycle_id, reviewer_id
         FROM evaluations
         WHERE cycle_id = $1
         ORDER BY id`,
		cycleID,
	)
	if err != nil {
		return nil, fmt.Errorf("list evaluations: %w", err)
	}
	defer func() {
		_ = evalRows.Close()
	}()

	evals := make([]domain.Evaluation, 0)
	index := make(map[string]int)
	for evalRows.Next() {
		var e domain.Evaluation
		if err := evalRows.Scan(&e.ID, &e.CycleID, &e.ReviewerID); err != nil {
			return nil, fmt.Errorf("scan evaluation: %w", err)
		}
		index[e.ID] = len(evals)
		evals = append(evals, e)
	}
	if err := evalRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate evaluations: %w", err)
	}

	scoreRows, err := r.db.QueryContext(ctx,
		`SELECT s.evaluation_id, s.dimension_id, s.score
         FROM dimension_scores s
         INNER JOIN evaluations e ON e.id = s.evaluation_id
         WHERE e.cycle_id = $1
         ORDER BY s.evaluation_id, s.dimension_id`,
		cycleID,
	)
	if err != nil {
		return nil, fmt.Errorf("list dimension_scores: %w", err)
	}
	defer func() {
		_ = scoreRows.Close()
	}()

	for scoreRows.Next() {
		var evalID, dimID, score string
		if err := scoreRows.Scan(&evalID, &dimID, &score); err != nil {
			return nil, fmt.Errorf("scan dimension_score: %w", err)
		}
		if i, ok := index[evalID]; ok {
			evals[i].Scores = append(evals[i].Scores, domain.DimensionScore{
				DimensionID: dimID,
				Value:       domain.ScoreValue(score),
			})
		}
	}
	if err := scoreRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate dimension_scores: %w", err)
	}

	return evals, nil
}

func (r *SummaryRepo) ListReviewerRoleNames(ctx context.Context, reviewerIDs []string) (map[string][]string, error) {
	out := make(map[string][]string, len(reviewerIDs))
	for _, id := range reviewerIDs {
		if _, ok := out[id]; ok {
			continue
		}
		names, err := r.roleNames(ctx, id)
		if err != nil {
			return nil, err
		}
		out[id] = names
	}
	return out, nil
}

func (r *SummaryRepo) roleNames(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT role_name FROM board_user_roles WHERE user_id = $1 ORDER BY role_name`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list role names for %s: %w", userID, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan role name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate role names: %w", err)
	}
	return names, nil
}

func (r *SummaryRepo) ListFinalCycles(ctx context.Context, projectID string) ([]domain.ReviewCycle, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, card_id, project_id, cycle_number, opened_at, closed_at, locked_at, is_final
         FROM review_cycles
         WHERE project_id = $1 AND is_final
         ORDER BY card_id`,
		projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("list final cycles: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	cycles := make([]domain.ReviewCycle, 0)
	for rows.Next() {
		var (
			c         domain.ReviewCycle
			closedRaw sql.NullTime
			lockedRaw sql.NullTime
		)
		if err := rows.Scan(&c.ID, &c.CardID, &c.ProjectID, &c.CycleNumber, &c.OpenedAt, &closedRaw, &lockedRaw, &c.IsFinal); err != nil {
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
		cycles = append(cycles, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate final cycles: %w", err)
	}

	return cycles, nil
}

func (r *SummaryRepo) ListEvaluationsForCycles(ctx context.Context, cycleIDs []string) (map[string][]domain.Evaluation, error) {
	out := make(map[string][]domain.Evaluation, len(cycleIDs))
	for _, id := range cycleIDs {
		if _, ok := out[id]; ok {
			continue
		}
		evals, err := r.ListEvaluations(ctx, id)
		if err != nil {
			return nil, err
		}
		out[id] = evals
	}
	return out, nil
}

func (r *SummaryRepo) CycleCountsByCard(ctx context.Context, projectID string) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT card_id, COUNT(*)
         FROM review_cycles
         WHERE project_id = $1
         GROUP BY card_id`,
		projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("count cycles by card: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	counts := make(map[string]int)
	for rows.Next() {
		var cardID string
		var count int
		if err := rows.Scan(&cardID, &count); err != nil {
			return nil, fmt.Errorf("scan cycle count: %w", err)
		}
		counts[cardID] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cycle counts: %w", err)
	}

	return counts, nil
}
