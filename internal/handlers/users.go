package handlers

import (
	"errors"
	"net/http"

	"github.com/rahman-03/todoapp/internal/auth"
	"github.com/rahman-03/todoapp/internal/repository"
	"github.com/rahman-03/todoapp/internal/utils"
)

type UserHandler struct {
	Users repository.UserStore
}

type passChangeReq struct {
	OldPass  string `json:"old_pass"`
	NewPass  string `json:"new_pass"`
	ConfPass string `json:"conf_pass"`
}

type detailsChangeReq struct {
	Password  string `json:"password"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	PhoneNo   string `json:"phone_no"`
}

// Me returns the caller's own profile, never another user's.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	user, err := h.Users.ByID(r.Context(), id.ID)
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "db error")
		return
	}

	utils.JSON(w, http.StatusOK, user)
}

// ChangePassword requires the current password before storing a new hash.
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	var req passChangeReq
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		return
	}

	user, err := h.Users.ByID(r.Context(), id.ID)
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "db error")
		return
	}

	if !auth.CheckPassword(req.OldPass, user.Password) {
		utils.JSONError(w, http.StatusUnauthorized, "could not validate the user")
		return
	}

	if req.NewPass != req.ConfPass {
		utils.JSONError(w, http.StatusBadRequest, "password not matched")
		return
	}

	hash, err := auth.HashPassword(req.NewPass)
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "internal error")
		return
	}
	user.Password = hash

	if err := h.Users.Update(r.Context(), &user); err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "db error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ChangeDetails applies only the fields present in the request. Role is not
// reachable through this path.
func (h *UserHandler) ChangeDetails(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	var req detailsChangeReq
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		return
	}

	user, err := h.Users.ByID(r.Context(), id.ID)
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "db error")
		return
	}

	if !auth.CheckPassword(req.Password, user.Password) {
		utils.JSONError(w, http.StatusUnauthorized, "could not validate the user")
		return
	}

	if req.Email != "" {
		user.Email = req.Email
	}
	if req.Username != "" {
		user.Username = req.Username
	}
	if req.Firstname != "" {
		user.Firstname = req.Firstname
	}
	if req.Lastname != "" {
		user.Lastname = req.Lastname
	}
	if req.PhoneNo != "" {
		user.PhoneNo = &req.PhoneNo
	}

	if err := h.Users.Update(r.Context(), &user); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			utils.JSONError(w, http.StatusConflict, "email or username already exists")
			return
		}
		utils.JSONError(w, http.StatusInternalServerError, "db error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
