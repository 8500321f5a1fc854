package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/gymlog/internal/gymlog"
	"github.com/2beens/gymlog/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UsersRepo struct {
	db *pgxpool.Pool
}

func NewUsersRepo(db *pgxpool.Pool) *UsersRepo {
	return &UsersRepo{
		db: db,
	}
}

func (r *UsersRepo) Create(ctx context.Context, username, passwordHash string) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	user := User{
		Username:     username,
		PasswordHash: passwordHash,
	}
	if err := r.db.QueryRow(
		ctx,
		`INSERT INTO gymlog_user (username, password_hash) VALUES ($1, $2) RETURNING id, created_at`,
		username,
		passwordHash,
	).Scan(&user.ID, &user.CreatedAt); err != nil {
		return nil, fmt.Errorf("create user [query row]: %w", err)
	}

	return &user, nil
}

func (r *UsersRepo) GetByUsername(ctx context.Context, username string) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.get_by_username")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var user User
	if err := r.db.QueryRow(
		ctx,
		`SELECT id, username, password_hash, created_at FROM gymlog_user WHERE username = $1`,
		username,
	).Scan(&user.ID, &user.Username, &user.PasswordHash, &user.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", username, gymlog.ErrNotFound)
		}
		return nil, fmt.Errorf("get user [query row]: %w", err)
	}

	return &user, nil
}
