package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rahman-03/todoapp/internal/models"
	"github.com/rahman-03/todoapp/internal/repository"
	"github.com/rahman-03/todoapp/internal/utils"
)

type TodoHandler struct {
	Todos repository.TodoStore
}

type todoReq struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    int    `json:"priority"`
	Complete    bool   `json:"complete"`
}

// validate enforces the field rules before any mutation happens.
func (t *todoReq) validate() error {
	if len(t.Title) < 3 {
		return errors.New("title must be at least 3 characters")
	}
	if len(t.Description) < 3 || len(t.Description) > 100 {
		return errors.New("description must be between 3 and 100 characters")
	}
	if t.Priority < 1 || t.Priority > 5 {
		return errors.New("priority must be between 1 and 5")
	}
	return nil
}

func parseTodoID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		utils.JSONError(w, http.StatusBadRequest, "invalid todo id")
		return 0, false
	}
	return id, true
}

// ---------------------- LIST ----------------------

func (h *TodoHandler) List(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	todos, err := h.Todos.ListByOwner(r.Context(), id.ID)
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "db error")
		return
	}

	utils.JSON(w, http.StatusOK, todos)
}

// ---------------------- GET ONE ----------------------

func (h *TodoHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	todoID, ok := parseTodoID(w, r)
	if !ok {
		return
	}

	todo, err := h.Todos.ByIDForOwner(r.Context(), todoID, id.ID)
	if errors.Is(err, repository.ErrNotFound) {
		utils.JSONError(w, http.StatusNotFound, "item not found")
		return
	}
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "db error")
		return
	}

	utils.JSON(w, http.StatusOK, todo)
}

// ---------------------- CREATE ----------------------

func (h *TodoHandler) Create(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	var req todoReq
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		return
	}
	if err := req.validate(); err != nil {
		utils.JSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	todo := models.Todo{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Complete:    req.Complete,
		OwnerID:     id.ID,
	}

	if err := h.Todos.Create(r.Context(), &todo); err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "db error")
		return
	}

	utils.JSON(w, http.StatusCreated, todo)
}

// ---------------------- UPDATE ----------------------

func (h *TodoHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	todoID, ok := parseTodoID(w, r)
	if !ok {
		return
	}

	var req todoReq
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		return
	}
	if err := req.validate(); err != nil {
		utils.JSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	todo := models.Todo{
		ID:          todoID,
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Complete:    req.Complete,
		OwnerID:     id.ID,
	}

	err := h.Todos.UpdateForOwner(r.Context(), &todo)
	if errors.Is(err, repository.ErrNotFound) {
		utils.JSONError(w, http.StatusNotFound, "item not found")
		return
	}
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "db error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ---------------------- DELETE ----------------------

func (h *TodoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	todoID, ok := parseTodoID(w, r)
	if !ok {
		return
	}

	err := h.Todos.DeleteForOwner(r.Context(), todoID, id.ID)
	if errors.Is(err, repository.ErrNotFound) {
		utils.JSONError(w, http.StatusNotFound, "item not found")
		return
	}
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "db error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
