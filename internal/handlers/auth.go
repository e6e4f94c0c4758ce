package handlers

import (
	"errors"
	"net/http"

	"github.com/rahman-03/todoapp/internal/auth"
	"github.com/rahman-03/todoapp/internal/models"
	"github.com/rahman-03/todoapp/internal/repository"
	"github.com/rahman-03/todoapp/internal/utils"
)

type AuthHandler struct {
	Users  repository.UserStore
	Tokens *auth.TokenService
}

type registerReq struct {
	Email     string  `json:"email"`
	Username  string  `json:"username"`
	Firstname string  `json:"firstname"`
	Lastname  string  `json:"lastname"`
	Password  string  `json:"password"`
	Role      string  `json:"role"`
	PhoneNo   *string `json:"phone_no"`
}

type tokenResp struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Register creates a user with a hashed credential. Uniqueness of email and
// username is enforced by the store, not pre-checked here.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerReq
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		return
	}

	if req.Email == "" || req.Username == "" || req.Password == "" {
		utils.JSONError(w, http.StatusBadRequest, "email, username and password required")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "internal error")
		return
	}

	user := models.User{
		Email:     req.Email,
		Username:  req.Username,
		Firstname: req.Firstname,
		Lastname:  req.Lastname,
		Password:  hash,
		IsActive:  true,
		Role:      req.Role,
		PhoneNo:   req.PhoneNo,
	}

	if err := h.Users.Create(r.Context(), &user); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			utils.JSONError(w, http.StatusConflict, "email or username already exists")
			return
		}
		utils.JSONError(w, http.StatusInternalServerError, "db error")
		return
	}

	utils.JSON(w, http.StatusCreated, map[string]string{"message": "user created"})
}

// Login authenticates form-encoded credentials and issues a bearer token.
// Unknown user and wrong password are indistinguishable to the caller.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid form body")
		return
	}

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")
	if username == "" || password == "" {
		utils.JSONError(w, http.StatusBadRequest, "username and password required")
		return
	}

	user, err := h.Users.ByUsername(r.Context(), username)
	if errors.Is(err, repository.ErrNotFound) {
		utils.JSONError(w, http.StatusUnauthorized, "could not validate the user")
		return
	}
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "db error")
		return
	}

	if !auth.CheckPassword(password, user.Password) {
		utils.JSONError(w, http.StatusUnauthorized, "could not validate the user")
		return
	}

	token, err := h.Tokens.Issue(user.ID, user.Username, user.Role)
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "token error")
		return
	}

	utils.JSON(w, http.StatusOK, tokenResp{AccessToken: token, TokenType: "bearer"})
}
