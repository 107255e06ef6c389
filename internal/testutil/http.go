// internal/testutil/http.go
package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/circlehub/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NewUser returns an authenticated test user with a fresh ID.
func NewUser(name string) auth.User {
	return auth.User{ID: primitive.NewObjectID(), Name: name}
}

// WithUser adds a user to the request context for testing authenticated
// handlers, bypassing the bearer-token middleware.
func WithUser(r *http.Request, u auth.User) *http.Request {
	return auth.WithTestUser(r, u)
}

// NewJSONRequest creates a request with body marshaled as JSON and the
// user injected into context.
func NewJSONRequest(t *testing.T, method, target string, body any, u auth.User) *http.Request {
	t.Helper()
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, rd)
	req.Header.Set("Content-Type", "application/json")
	return WithUser(req, u)
}

// DecodeJSON unmarshals a recorded response body into dst.
func DecodeJSON(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode response body: %v\nbody: %s", err, rec.Body.String())
	}
}
