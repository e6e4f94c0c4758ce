package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/rahman-03/todoapp/internal/auth"
	"github.com/rahman-03/todoapp/internal/utils"
)

type ctxKey string

const identityKey ctxKey = "identity"

// AccessTokenCookie is the browser-flow fallback carrier for the token.
const AccessTokenCookie = "access_token"

// IdentityFromContext returns the resolved caller placed there by the auth
// middleware.
func IdentityFromContext(ctx context.Context) (auth.Identity, bool) {
	id, ok := ctx.Value(identityKey).(auth.Identity)
	return id, ok
}

// WithIdentity returns a context carrying the resolved identity.
func WithIdentity(ctx context.Context, id auth.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// Authenticator resolves the caller's identity from a request. The API mode
// fails closed with 401; the page mode fails open to the login page.
type Authenticator struct {
	Tokens *auth.TokenService
}

func NewAuthenticator(tokens *auth.TokenService) *Authenticator {
	return &Authenticator{Tokens: tokens}
}

// extractToken prefers the Authorization header and falls back to the
// access_token cookie so browser pages work without the header.
func extractToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}

	if cookie, err := r.Cookie(AccessTokenCookie); err == nil {
		return cookie.Value
	}
	return ""
}

func (a *Authenticator) resolve(r *http.Request) (auth.Identity, bool) {
	token := extractToken(r)
	if token == "" {
		return auth.Identity{}, false
	}

	identity, err := a.Tokens.Verify(token)
	if err != nil {
		return auth.Identity{}, false
	}
	return identity, true
}

// RequireUser guards the JSON API: missing or invalid identity is a hard 401.
func (a *Authenticator) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := a.resolve(r)
		if !ok {
			utils.JSONError(w, http.StatusUnauthorized, "could not validate the user")
			return
		}

		ctx := WithIdentity(r.Context(), identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequirePage guards browser pages: any resolution failure redirects to the
// login page and clears a stale token cookie instead of rejecting.
func (a *Authenticator) RequirePage(loginURL string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := a.resolve(r)
			if !ok {
				http.SetCookie(w, &http.Cookie{
					Name:     AccessTokenCookie,
					Value:    "",
					Path:     "/",
					MaxAge:   -1,
					HttpOnly: true,
				})
				http.Redirect(w, r, loginURL, http.StatusFound)
				return
			}

			ctx := WithIdentity(r.Context(), identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
