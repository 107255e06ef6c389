// internal/app/system/auth/auth.go

// Package auth resolves the bearer token minted by the external identity
// service into the current request user. The core never stores credentials
// or profile fields; it only needs a verified user ID (and display name)
// for permission evaluation and audit attribution.
package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// User is the authenticated caller extracted from the bearer token.
type User struct {
	ID   primitive.ObjectID
	Name string
}

type ctxKey struct{}

// Verifier validates bearer tokens issued by the identity service.
// Tokens are HS256 JWTs whose subject is the user's ObjectID hex.
type Verifier struct {
	key []byte
	log *zap.Logger
}

// NewVerifier builds a Verifier. The key must match the identity service's
// signing key; an empty key is a configuration error.
func NewVerifier(key string, log *zap.Logger) (*Verifier, error) {
	if strings.TrimSpace(key) == "" {
		return nil, errors.New("auth token key must be configured")
	}
	return &Verifier{key: []byte(key), log: log}, nil
}

type tokenClaims struct {
	Name string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// Parse validates raw and returns the user it identifies.
func (v *Verifier) Parse(raw string) (User, error) {
	var claims tokenClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		return v.key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return User{}, err
	}
	id, err := primitive.ObjectIDFromHex(claims.Subject)
	if err != nil {
		return User{}, errors.New("token subject is not a valid user id")
	}
	return User{ID: id, Name: claims.Name}, nil
}

// RequireUser rejects requests without a valid bearer token and puts the
// resolved user into the request context.
func (v *Verifier) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := bearerToken(r)
		if raw == "" {
			unauthorized(w, "missing bearer token")
			return
		}
		user, err := v.Parse(raw)
		if err != nil {
			v.log.Debug("bearer token rejected", zap.Error(err))
			unauthorized(w, "invalid bearer token")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, user)))
	})
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(h) > len(prefix) && strings.EqualFold(h[:len(prefix)], prefix) {
		return strings.TrimSpace(h[len(prefix):])
	}
	return ""
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized","message":"` + msg + `"}`))
}

// CurrentUser returns the authenticated user for the request, if any.
func CurrentUser(r *http.Request) (User, bool) {
	u, ok := r.Context().Value(ctxKey{}).(User)
	return u, ok
}

// WithTestUser injects a user directly into the request context,
// bypassing token verification. Tests only.
func WithTestUser(r *http.Request, u User) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), ctxKey{}, u))
}
