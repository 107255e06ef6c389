package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/circlehub/internal/app/system/auth"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const testKey = "test-signing-key-0123456789"

func mintToken(t *testing.T, key string, subject, name string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":  subject,
		"name": name,
		"exp":  time.Now().Add(time.Hour).Unix(),
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return raw
}

func TestNewVerifier_EmptyKey(t *testing.T) {
	if _, err := auth.NewVerifier("  ", zap.NewNop()); err == nil {
		t.Error("expected error for empty key")
	}
}

func TestParse(t *testing.T) {
	v, err := auth.NewVerifier(testKey, zap.NewNop())
	if err != nil {
		t.Fatalf("NewVerifier: %v", err)
	}

	userID := primitive.NewObjectID()
	u, err := v.Parse(mintToken(t, testKey, userID.Hex(), "Dana"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if u.ID != userID || u.Name != "Dana" {
		t.Errorf("user: got %+v", u)
	}

	if _, err := v.Parse(mintToken(t, "wrong-key-wrong-key-wrong", userID.Hex(), "Dana")); err == nil {
		t.Error("token signed with wrong key accepted")
	}
	if _, err := v.Parse(mintToken(t, testKey, "not-an-objectid", "Dana")); err == nil {
		t.Error("token with bad subject accepted")
	}
}

func TestRequireUser(t *testing.T) {
	v, err := auth.NewVerifier(testKey, zap.NewNop())
	if err != nil {
		t.Fatalf("NewVerifier: %v", err)
	}

	userID := primitive.NewObjectID()
	var seen auth.User
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = auth.CurrentUser(r)
		w.WriteHeader(http.StatusOK)
	})
	handler := v.RequireUser(next)

	t.Run("valid token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/groups", nil)
		req.Header.Set("Authorization", "Bearer "+mintToken(t, testKey, userID.Hex(), "Dana"))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("status: got %d, want 200", rec.Code)
		}
		if seen.ID != userID {
			t.Errorf("context user: got %v, want %v", seen.ID, userID)
		}
	})

	t.Run("missing token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/groups", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status: got %d, want 401", rec.Code)
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/groups", nil)
		req.Header.Set("Authorization", "Bearer not.a.jwt")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status: got %d, want 401", rec.Code)
		}
	})
}
