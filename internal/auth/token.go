package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Identity is the resolved caller derived from a verified token.
type Identity struct {
	ID       int64
	Username string
	Role     string
}

// Claims carries the wire contract: sub (username), id, role, exp.
type Claims struct {
	UserID int64  `json:"id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies stateless bearer tokens. Verification is
// pure computation; claims are trusted until expiry and never re-checked
// against the user table.
type TokenService struct {
	secret []byte
	method jwt.SigningMethod
	ttl    time.Duration
}

// NewTokenService fails on an unknown or non-HMAC algorithm so that a
// misconfigured process dies at startup rather than per request.
func NewTokenService(secret, algorithm string, ttl time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("auth: signing secret not configured")
	}

	method := jwt.GetSigningMethod(algorithm)
	if method == nil {
		return nil, fmt.Errorf("auth: unknown signing algorithm %q", algorithm)
	}
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("auth: algorithm %q is not an HMAC method", algorithm)
	}

	return &TokenService{secret: []byte(secret), method: method, ttl: ttl}, nil
}

func (s *TokenService) Issue(userID int64, username, role string) (string, error) {
	now := time.Now()

	claims := Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	return jwt.NewWithClaims(s.method, claims).SignedString(s.secret)
}

func (s *TokenService) Verify(tokenStr string) (Identity, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{s.method.Alg()}))

	var claims Claims
	_, err := parser.ParseWithClaims(tokenStr, &claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return Identity{}, err
	}

	if claims.ExpiresAt == nil || time.Until(claims.ExpiresAt.Time) <= 0 {
		return Identity{}, errors.New("token expired")
	}

	// sub and id are mandatory; role may be empty for pre-role tokens.
	if claims.Subject == "" || claims.UserID == 0 {
		return Identity{}, errors.New("token missing identity claims")
	}

	return Identity{
		ID:       claims.UserID,
		Username: claims.Subject,
		Role:     claims.Role,
	}, nil
}
