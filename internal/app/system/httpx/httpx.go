// internal/app/system/httpx/httpx.go

// Package httpx renders the JSON envelopes every endpoint uses and maps the
// apperr taxonomy onto HTTP status codes. Unexpected errors are logged with
// full detail and surfaced as a generic failure.
package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/dalemusser/circlehub/internal/app/system/apperr"
	"go.uber.org/zap"
)

// maxBodyBytes caps request bodies; group/post payloads are small documents.
const maxBodyBytes = 1 << 20

// errorBody is the error envelope: {"error": "...", "message": "..."}.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// resultBody wraps successful mutation results.
type resultBody struct {
	Result any    `json:"result"`
	Msg    string `json:"message,omitempty"`
}

// Status returns the HTTP status for an error kind.
func Status(kind apperr.Kind) int {
	switch kind {
	case apperr.NotFound:
		return http.StatusNotFound
	case apperr.Forbidden:
		return http.StatusForbidden
	case apperr.InvalidArgument:
		return http.StatusBadRequest
	case apperr.Conflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteResult writes a mutation result envelope with 200.
func WriteResult(w http.ResponseWriter, result any, message string) {
	WriteJSON(w, http.StatusOK, resultBody{Result: result, Msg: message})
}

// WriteCreated writes a mutation result envelope with 201.
func WriteCreated(w http.ResponseWriter, result any, message string) {
	WriteJSON(w, http.StatusCreated, resultBody{Result: result, Msg: message})
}

// WriteError maps err to its status and envelope. Unexpected errors are
// logged with full detail; the caller only sees a generic message.
func WriteError(w http.ResponseWriter, log *zap.Logger, err error) {
	kind := apperr.KindOf(err)
	msg := err.Error()
	if kind == apperr.Unexpected {
		if log != nil {
			log.Error("request failed", zap.Error(err))
		}
		msg = "an internal error occurred"
	}
	WriteJSON(w, Status(kind), errorBody{Error: kind.Code(), Message: msg})
}

// DecodeBody decodes a JSON request body into dst, rejecting unknown junk
// sizes and malformed payloads as InvalidArgument.
func DecodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperr.New(apperr.InvalidArgument, "request body is required")
		}
		return apperr.New(apperr.InvalidArgument, "malformed JSON body")
	}
	return nil
}
