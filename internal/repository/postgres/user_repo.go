package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dtpt/matchday/internal/domain/user"
)

var _ user.Repo = (*UserRepo)(nil)

type UserRepo struct {
	db *DB
}

func NewUserRepo(db *DB) *UserRepo { return &UserRepo{db: db} }

const (
	qUserList = `
SELECT id, email, timezone
FROM users
ORDER BY id;`

	qUserByID = `
SELECT id, email, timezone
FROM users
WHERE id = $1;`
)

func (r *UserRepo) List(ctx context.Context) ([]*user.User, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.Pool.Query(ctx, qUserList)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	var out []*user.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	return scanUser(r.db.Pool.QueryRow(ctx, qUserByID, id))
}

func scanUser(row pgx.Row) (*user.User, error) {
	var u user.User
	if err := row.Scan(&u.ID, &u.Email, &u.Timezone); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	if err := u.Validate(); err != nil {
		return nil, fmt.Errorf("user %s: %w", u.ID, err)
	}
	return &u, nil
}
