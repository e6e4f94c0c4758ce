package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/rahman-03/todoapp/internal/models"
)

// UserStore persists user records. The table enforces email/username
// uniqueness; Create does no pre-check and maps the constraint violation.
type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	ByUsername(ctx context.Context, username string) (models.User, error)
	ByID(ctx context.Context, id int64) (models.User, error)
	Update(ctx context.Context, u *models.User) error
}

type userStore struct {
	db *sqlx.DB
}

func NewUserStore(db *sqlx.DB) UserStore {
	return &userStore{db: db}
}

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func (s *userStore) Create(ctx context.Context, u *models.User) error {
	err := s.db.QueryRowxContext(ctx, `
		INSERT INTO "user" (email, username, firstname, lastname, hashed_pass, is_active, role, phone_no)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`, u.Email, u.Username, u.Firstname, u.Lastname, u.Password, u.IsActive, u.Role, u.PhoneNo).
		Scan(&u.ID)

	if isUniqueViolation(err) {
		return ErrConflict
	}
	if err != nil {
		return fmt.Errorf("users: insert: %w", err)
	}
	return nil
}

func (s *userStore) ByUsername(ctx context.Context, username string) (models.User, error) {
	var u models.User
	err := s.db.GetContext(ctx, &u, `SELECT * FROM "user" WHERE username=$1`, username)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("users: by username: %w", err)
	}
	return u, nil
}

func (s *userStore) ByID(ctx context.Context, id int64) (models.User, error) {
	var u models.User
	err := s.db.GetContext(ctx, &u, `SELECT * FROM "user" WHERE id=$1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("users: by id: %w", err)
	}
	return u, nil
}

// Update rewrites the self-service mutable columns. Role and active flag are
// deliberately not part of this statement.
func (s *userStore) Update(ctx context.Context, u *models.User) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE "user"
		SET email=$1, username=$2, firstname=$3, lastname=$4, hashed_pass=$5, phone_no=$6
		WHERE id=$7
	`, u.Email, u.Username, u.Firstname, u.Lastname, u.Password, u.PhoneNo, u.ID)

	if isUniqueViolation(err) {
		return ErrConflict
	}
	if err != nil {
		return fmt.Errorf("users: update: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("users: update: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
