package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/velles/review-cycle-service/internal/domain"
)

type DimensionRepo struct {
	db *sql.DB
}

func NewDimensionRepo(db *sql.DB) *DimensionRepo {
	return &DimensionRepo{db: db}
}

func (r *DimensionRepo) ListActive(ctx context.Context) ([]domain.ReviewDimension, error) {
	return r.list(ctx, true)
}

func (r *DimensionRepo) ListAll(ctx context.Context) ([]domain.ReviewDimension, error) {
	return r.list(ctx, false)
}

func (r *DimensionRepo) list(ctx context.Context, onlyActive bool) ([]domain.ReviewDimension, error) {
	query := `SELECT id, name, description, position, is_active
              FROM review_dimensions`
	if onlyActive {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY position, name`

	dbRows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list review_dimensions: %w", err)
	}
	defer func() {
		_ = dbRows.Close()
	}()

	dims := make([]domain.ReviewDimension, 0)
	index := make(map[string]int)
	for dbRows.Next() {
		var d domain.ReviewDimension
		if err := dbRows.Scan(&d.ID, &d.Name, &d.Description, &d.Position, &d.IsActive); err != nil {
			return nil, fmt.Errorf("scan review_dimension: %w", err)
		}
		index[d.ID] = len(dims)
		dims = append(dims, d)
	}
	if err := dbRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate review_dimensions: %w", err)
	}

	roleRows, err := r.db.QueryContext(ctx,
		`SELECT dimension_id, role FROM dimension_roles ORDER BY dimension_id, role`,
	)
	if err != nil {
		return nil, fmt.Errorf("list dimension_roles: %w", err)
	}
	defer func() {
		_ = roleRows.Close()
	}()

	for roleRows.Next() {
		var dimID, role string
		if err := roleRows.Scan(&dimID, &role); err != nil {
			return nil, fmt.Errorf("scan dimension_role: %w", err)
		}
		if i, ok := index[dimID]; ok {
			dims[i].Roles = append(dims[i].Roles, domain.EvaluatorRole(role))
		}
	}
	if err := roleRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate dimension_roles: %w", err)
	}

	return dims, nil
}

func (r *DimensionRepo) GetByID(ctx context.Context, id string) (*domain.ReviewDimension, error) {
	var d domain.ReviewDimension
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, description, position, is_active
         FROM review_dimensions
         WHERE id = $1`,
		id,
	).Scan(&d.ID, &d.Name, &d.Description, &d.Position, &d.IsActive)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get review_dimension: %w", err)
	}

	roleRows, err := r.db.QueryContext(ctx,
		`SELECT role FROM dimension_roles WHERE dimension_id = $1 ORDER BY role`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("list dimension roles: %w", err)
	}
	defer func() {
		_ = roleRows.Close()
	}()

	for roleRows.Next() {
		var role string
		if err := roleRows.Scan(&role); err != nil {
			return nil, fmt.Errorf("scan dimension role: %w", err)
		}
		d.Roles = append(d.Roles, domain.EvaluatorRole(role))
	}
	if err := roleRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate dimension roles: %w", err)
	}

	return &d, nil
}

func (r *DimensionRepo) Create(ctx context.Context, dim domain.ReviewDimension) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create dimension tx: %w", err)
	}
	defer func() {
		// #nosec G104 -- error is ignored in defer rollback
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO review_dimensions (id, name, description, position, is_active)
         VALUES ($1, $2, $3, $4, $5)`,
		dim.ID, dim.Name, dim.Description, dim.Position, dim.IsActive,
	); err != nil {
		return fmt.Errorf("insert review_dimension: %w", err)
	}

	if err := insertDimensionRoles(ctx, tx, dim); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create dimension tx: %w", err)
	}
	return nil
}

func (r *DimensionRepo) Update(ctx context.Context, dim domain.ReviewDimension) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update dimension tx: %w", err)
	}
	defer func() {
		// #nosec G104 -- error is ignored in defer rollback
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx,
		`UPDATE review_dimensions
         SET name = $2, description = $3, position = $4, is_active = $5
         WHERE id = $1`,
		dim.ID, dim.Name, dim.Description, dim.Position, dim.IsActive,
	); err != nil {
		return fmt.Errorf("update review_dimension: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM dimension_roles WHERE dimension_id = $1`,
		dim.ID,
	); err != nil {
		return fmt.Errorf("delete dimension roles: %w", err)
	}

	if err := insertDimensionRoles(ctx, tx, dim); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit update dimension tx: %w", err)
	}
	return nil
}

func insertDimensionRoles(ctx context.Context, tx *sql.Tx, dim domain.ReviewDimension) error {
	for _, role := range dim.Roles {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO dimension_roles (dimension_id, role) VALUES ($1, $2)`,
			dim.ID, string(role),
		); err != nil {
			return fmt.Errorf("insert dimension role %s: %w", role, err)
		}
	}
	return nil
}
