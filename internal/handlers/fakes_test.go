package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rahman-03/todoapp/internal/auth"
	"github.com/rahman-03/todoapp/internal/middleware"
	"github.com/rahman-03/todoapp/internal/models"
	"github.com/rahman-03/todoapp/internal/repository"
)

// ---------------------- store fakes ----------------------

type fakeUserStore struct {
	nextID int64
	users  map[int64]models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[int64]models.User{}}
}

func (s *fakeUserStore) Create(_ context.Context, u *models.User) error {
	for _, e := range s.users {
		if e.Email == u.Email || e.Username == u.Username {
			return repository.ErrConflict
		}
	}
	s.nextID++
	u.ID = s.nextID
	s.users[u.ID] = *u
	return nil
}

func (s *fakeUserStore) ByUsername(_ context.Context, username string) (models.User, error) {
	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return models.User{}, repository.ErrNotFound
}

func (s *fakeUserStore) ByID(_ context.Context, id int64) (models.User, error) {
	u, ok := s.users[id]
	if !ok {
		return models.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (s *fakeUserStore) Update(_ context.Context, u *models.User) error {
	stored, ok := s.users[u.ID]
	if !ok {
		return repository.ErrNotFound
	}
	for id, e := range s.users {
		if id != u.ID && (e.Email == u.Email || e.Username == u.Username) {
			return repository.ErrConflict
		}
	}
	// Role and active flag stay as stored, like the real statement.
	u.Role = stored.Role
	u.IsActive = stored.IsActive
	s.users[u.ID] = *u
	return nil
}

type fakeTodoStore struct {
	nextID int64
	todos  map[int64]models.Todo
}

func newFakeTodoStore() *fakeTodoStore {
	return &fakeTodoStore{todos: map[int64]models.Todo{}}
}

func (s *fakeTodoStore) ListByOwner(_ context.Context, ownerID int64) ([]models.Todo, error) {
	out := []models.Todo{}
	for _, t := range s.todos {
		if t.OwnerID == ownerID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *fakeTodoStore) ListAll(_ context.Context) ([]models.Todo, error) {
	out := []models.Todo{}
	for _, t := range s.todos {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *fakeTodoStore) ByID(_ context.Context, id int64) (models.Todo, error) {
	t, ok := s.todos[id]
	if !ok {
		return models.Todo{}, repository.ErrNotFound
	}
	return t, nil
}

func (s *fakeTodoStore) ByIDForOwner(_ context.Context, id, ownerID int64) (models.Todo, error) {
	t, ok := s.todos[id]
	if !ok || t.OwnerID != ownerID {
		return models.Todo{}, repository.ErrNotFound
	}
	return t, nil
}

func (s *fakeTodoStore) Create(_ context.Context, t *models.Todo) error {
	s.nextID++
	t.ID = s.nextID
	s.todos[t.ID] = *t
	return nil
}

func (s *fakeTodoStore) Update(_ context.Context, t *models.Todo) error {
	stored, ok := s.todos[t.ID]
	if !ok {
		return repository.ErrNotFound
	}
	t.OwnerID = stored.OwnerID
	s.todos[t.ID] = *t
	return nil
}

func (s *fakeTodoStore) UpdateForOwner(_ context.Context, t *models.Todo) error {
	stored, ok := s.todos[t.ID]
	if !ok || stored.OwnerID != t.OwnerID {
		return repository.ErrNotFound
	}
	s.todos[t.ID] = *t
	return nil
}

func (s *fakeTodoStore) Delete(_ context.Context, id int64) error {
	if _, ok := s.todos[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.todos, id)
	return nil
}

func (s *fakeTodoStore) DeleteForOwner(_ context.Context, id, ownerID int64) error {
	t, ok := s.todos[id]
	if !ok || t.OwnerID != ownerID {
		return repository.ErrNotFound
	}
	delete(s.todos, id)
	return nil
}

// ---------------------- harness ----------------------

type env struct {
	users  *fakeUserStore
	todos  *fakeTodoStore
	tokens *auth.TokenService
	h      *Handler
}

func newEnv(t *testing.T) *env {
	t.Helper()
	tokens, err := auth.NewTokenService("test-secret", "HS256", 20*time.Minute)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	users := newFakeUserStore()
	todos := newFakeTodoStore()
	return &env{
		users:  users,
		todos:  todos,
		tokens: tokens,
		h:      New(users, todos, tokens),
	}
}

// router mirrors the route table from cmd/api without the auth middleware;
// identity injection happens per request in do().
func (e *env) router() chi.Router {
	r := chi.NewRouter()
	r.Get("/healthy", Healthy)
	r.Post("/auth/", e.h.Auth.Register)
	r.Post("/auth/token", e.h.Auth.Login)
	r.Get("/users/", e.h.Users.Me)
	r.Put("/users/change_pass", e.h.Users.ChangePassword)
	r.Put("/users/details_change", e.h.Users.ChangeDetails)
	r.Get("/todos/", e.h.Todos.List)
	r.Post("/todos/todo", e.h.Todos.Create)
	r.Get("/todos/todo/{id}", e.h.Todos.Get)
	r.Put("/todos/todo/{id}", e.h.Todos.Update)
	r.Delete("/todos/todo/{id}", e.h.Todos.Delete)
	r.Get("/admin/", e.h.Admin.List)
	r.Post("/admin/todo", e.h.Admin.Create)
	r.Get("/admin/todo/{id}", e.h.Admin.Get)
	r.Put("/admin/todo/{id}", e.h.Admin.Update)
	r.Delete("/admin/todo/{id}", e.h.Admin.Delete)
	return r
}

func (e *env) do(t *testing.T, id *auth.Identity, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		buf, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(buf)
	}

	req := httptest.NewRequest(method, target, reader)
	if s, ok := body.(string); ok && s != "" {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if id != nil {
		req = req.WithContext(middleware.WithIdentity(req.Context(), *id))
	}

	rec := httptest.NewRecorder()
	e.router().ServeHTTP(rec, req)
	return rec
}

// register creates a user directly through the store and returns its
// identity; password is "Secret123" unless overridden elsewhere.
func (e *env) register(t *testing.T, username, role string) auth.Identity {
	t.Helper()
	hash, err := auth.HashPassword("Secret123")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	u := models.User{
		Email:     username + "@example.com",
		Username:  username,
		Firstname: "First",
		Lastname:  "Last",
		Password:  hash,
		IsActive:  true,
		Role:      role,
	}
	if err := e.users.Create(context.Background(), &u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return auth.Identity{ID: u.ID, Username: u.Username, Role: u.Role}
}

func (e *env) addTodo(t *testing.T, ownerID int64, title string) models.Todo {
	t.Helper()
	todo := models.Todo{
		Title:       title,
		Description: "some details",
		Priority:    3,
		OwnerID:     ownerID,
	}
	if err := e.todos.Create(context.Background(), &todo); err != nil {
		t.Fatalf("create todo: %v", err)
	}
	return todo
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

var _ repository.UserStore = (*fakeUserStore)(nil)
var _ repository.TodoStore = (*fakeTodoStore)(nil)

