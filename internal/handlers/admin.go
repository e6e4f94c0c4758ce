package handlers

import (
	"errors"
	"net/http"

	"github.com/rahman-03/todoapp/internal/auth"
	"github.com/rahman-03/todoapp/internal/models"
	"github.com/rahman-03/todoapp/internal/repository"
	"github.com/rahman-03/todoapp/internal/utils"
)

// AdminHandler serves the unscoped task surface. A non-admin caller gets the
// same 401 as a missing token; the two cases are intentionally not
// distinguishable from outside.
type AdminHandler struct {
	Todos repository.TodoStore
}

const adminRole = "admin"

func admin(w http.ResponseWriter, r *http.Request) (auth.Identity, bool) {
	id, ok := identity(w, r)
	if !ok {
		return auth.Identity{}, false
	}
	if id.Role != adminRole {
		utils.JSONError(w, http.StatusUnauthorized, "could not validate the user")
		return auth.Identity{}, false
	}
	return id, true
}

func (h *AdminHandler) List(w http.ResponseWriter, r *http.Request) {
	if _, ok := admin(w, r); !ok {
		return
	}

	todos, err := h.Todos.ListAll(r.Context())
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "db error")
		return
	}

	utils.JSON(w, http.StatusOK, todos)
}

func (h *AdminHandler) Get(w http.ResponseWriter, r *http.Request) {
	if _, ok := admin(w, r); !ok {
		return
	}
	todoID, ok := parseTodoID(w, r)
	if !ok {
		return
	}

	todo, err := h.Todos.ByID(r.Context(), todoID)
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

// Create inserts with the acting admin as owner. There is no way to create a
// task on behalf of another user; see DESIGN.md.
func (h *AdminHandler) Create(w http.ResponseWriter, r *http.Request) {
	id, ok := admin(w, r)
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

func (h *AdminHandler) Update(w http.ResponseWriter, r *http.Request) {
	if _, ok := admin(w, r); !ok {
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
	}

	err := h.Todos.Update(r.Context(), &todo)
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

func (h *AdminHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if _, ok := admin(w, r); !ok {
		return
	}
	todoID, ok := parseTodoID(w, r)
	if !ok {
		return
	}

	err := h.Todos.Delete(r.Context(), todoID)
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
