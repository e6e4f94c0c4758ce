package handlers

import (
	"net/http"

	"github.com/rahman-03/todoapp/internal/auth"
	"github.com/rahman-03/todoapp/internal/middleware"
	"github.com/rahman-03/todoapp/internal/repository"
	"github.com/rahman-03/todoapp/internal/utils"
)

type Handler struct {
	Auth  *AuthHandler
	Users *UserHandler
	Todos *TodoHandler
	Admin *AdminHandler
}

func New(users repository.UserStore, todos repository.TodoStore, tokens *auth.TokenService) *Handler {
	return &Handler{
		Auth:  &AuthHandler{Users: users, Tokens: tokens},
		Users: &UserHandler{Users: users},
		Todos: &TodoHandler{Todos: todos},
		Admin: &AdminHandler{Todos: todos},
	}
}

// Healthy is the unauthenticated liveness probe.
func Healthy(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, http.StatusOK, map[string]string{"msg": "healthy"})
}

// identity pulls the resolved caller out of the context; the auth middleware
// guarantees it on protected routes, so a miss is answered with 401 anyway.
func identity(w http.ResponseWriter, r *http.Request) (auth.Identity, bool) {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		utils.JSONError(w, http.StatusUnauthorized, "could not validate the user")
	}
	return id, ok
}
