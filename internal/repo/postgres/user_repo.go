package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/velles/review-cycle-service/internal/domain"
)

type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*domain.BoardUser, error) {
	var u domain.BoardUser
	err := r.db.QueryRowContext(ctx,
		`SELECT id, username, permission
         FROM board_users
         WHERE id = $1`,
		id,
	).Scan(&u.ID, &u.Username, &u.Permission)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get board_user: %w", err)
	}

	roleRows, err := r.db.QueryContext(ctx,
		`SELECT role_name FROM board_user_roles WHERE user_id = $1 ORDER BY role_name`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("list user role names: %w", err)
	}
	defer func() {
		_ = roleRows.Close()
	}()

	for roleRows.Next() {
		var name string
		if err := roleRows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan role name: %w", err)
		}
		u.RoleNames = append(u.RoleNames, name)
	}
	if err := roleRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate role names: %w", err)
	}

	return &u, nil
}

func (r *UserRepo) UpsertAll(ctx context.Context, users []domain.BoardUser) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin upsert users tx: %w", err)
	}
	defer func() {
		// #nosec G104 -- error is ignored in defer rollback
		_ = tx.Rollback()
	}()

	upsert := `
INSERT INTO board_users (id, username, permission)
VALUES ($1, $2, $3)
ON CONFLICT (id) DO UPDATE
SET username = EXCLUDED.username,
    permission = EXCLUDED.permission,
    updated_at = now()
`
	for _, u := range users {
		if _, err := tx.ExecContext(ctx, upsert, u.ID, u.Username, string(u.Permission)); err != nil {
			return fmt.Errorf("upsert board_user %s: %w", u.ID, err)
		}

		if _, err := tx.ExecContext(ctx,
			`DELETE FROM board_user_roles WHERE user_id = $1`,
			u.ID,
		); err != nil {
			return fmt.Errorf("delete role names for %s: %w", u.ID, err)
		}

		for _, name := range u.RoleNames {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO board_user_roles (user_id, role_name) VALUES ($1, $2)`,
				u.ID, name,
			); err != nil {
				return fmt.Errorf("insert role name for %s: %w", u.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert users tx: %w", err)
	}
	return nil
}
