package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/rahman-03/todoapp/internal/models"
)

// TodoStore persists tasks. The ForOwner variants restrict every match to
// rows whose owner_id equals the caller; the unscoped variants back the
// admin surface.
type TodoStore interface {
	ListByOwner(ctx context.Context, ownerID int64) ([]models.Todo, error)
	ListAll(ctx context.Context) ([]models.Todo, error)

	ByID(ctx context.Context, id int64) (models.Todo, error)
	ByIDForOwner(ctx context.Context, id, ownerID int64) (models.Todo, error)

	Create(ctx context.Context, t *models.Todo) error

	Update(ctx context.Context, t *models.Todo) error
	UpdateForOwner(ctx context.Context, t *models.Todo) error

	Delete(ctx context.Context, id int64) error
	DeleteForOwner(ctx context.Context, id, ownerID int64) error
}

type todoStore struct {
	db *sqlx.DB
}

func NewTodoStore(db *sqlx.DB) TodoStore {
	return &todoStore{db: db}
}

func (s *todoStore) ListByOwner(ctx context.Context, ownerID int64) ([]models.Todo, error) {
	todos := []models.Todo{}
	err := s.db.SelectContext(ctx, &todos, `SELECT * FROM todo WHERE owner_id=$1 ORDER BY id`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("todos: list by owner: %w", err)
	}
	return todos, nil
}

func (s *todoStore) ListAll(ctx context.Context) ([]models.Todo, error) {
	todos := []models.Todo{}
	err := s.db.SelectContext(ctx, &todos, `SELECT * FROM todo ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("todos: list all: %w", err)
	}
	return todos, nil
}

func (s *todoStore) ByID(ctx context.Context, id int64) (models.Todo, error) {
	var t models.Todo
	err := s.db.GetContext(ctx, &t, `SELECT * FROM todo WHERE id=$1`, id)
	return t, mapGetErr(err, "by id")
}

func (s *todoStore) ByIDForOwner(ctx context.Context, id, ownerID int64) (models.Todo, error) {
	var t models.Todo
	err := s.db.GetContext(ctx, &t, `SELECT * FROM todo WHERE id=$1 AND owner_id=$2`, id, ownerID)
	return t, mapGetErr(err, "by id for owner")
}

func (s *todoStore) Create(ctx context.Context, t *models.Todo) error {
	err := s.db.QueryRowxContext(ctx, `
		INSERT INTO todo (title, description, priority, complete, owner_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, t.Title, t.Description, t.Priority, t.Complete, t.OwnerID).Scan(&t.ID)

	if err != nil {
		return fmt.Errorf("todos: insert: %w", err)
	}
	return nil
}

func (s *todoStore) Update(ctx context.Context, t *models.Todo) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE todo SET title=$1, description=$2, priority=$3, complete=$4
		WHERE id=$5
	`, t.Title, t.Description, t.Priority, t.Complete, t.ID)
	return mapExecErr(res, err, "update")
}

func (s *todoStore) UpdateForOwner(ctx context.Context, t *models.Todo) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE todo SET title=$1, description=$2, priority=$3, complete=$4
		WHERE id=$5 AND owner_id=$6
	`, t.Title, t.Description, t.Priority, t.Complete, t.ID, t.OwnerID)
	return mapExecErr(res, err, "update for owner")
}

func (s *todoStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM todo WHERE id=$1`, id)
	return mapExecErr(res, err, "delete")
}

func (s *todoStore) DeleteForOwner(ctx context.Context, id, ownerID int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM todo WHERE id=$1 AND owner_id=$2`, id, ownerID)
	return mapExecErr(res, err, "delete for owner")
}

func mapGetErr(err error, op string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("todos: %s: %w", op, err)
	}
	return nil
}

// mapExecErr turns a zero-row mutation into ErrNotFound; a write racing a
// concurrent delete simply loses with "not found".
func mapExecErr(res sql.Result, err error, op string) error {
	if err != nil {
		return fmt.Errorf("todos: %s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("todos: %s: %w", op, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
