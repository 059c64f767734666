package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-tempcred-api/internal/domain"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg})
}

// httpStatus maps a service error to its status code. Unknown errors are 500.
func httpStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrMalformedInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrTokenExpired),
		errors.Is(err, domain.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrUserAlreadyExists):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeServiceError renders err without leaking infrastructure detail: only
// domain sentinels reach the client verbatim.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := httpStatus(err)
	msg := "internal server error"
	switch {
	case status == http.StatusBadRequest:
		msg = err.Error()
	case errors.Is(err, domain.ErrIssuanceFailed):
		msg = domain.ErrIssuanceFailed.Error()
	case status != http.StatusInternalServerError:
		msg = sentinelMessage(err)
	}
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	}
	writeError(w, status, msg)
}

var clientSentinels = []error{
	domain.ErrInvalidCredentials,
	domain.ErrUserNotFound,
	domain.ErrTokenExpired,
	domain.ErrInvalidToken,
	domain.ErrUserAlreadyExists,
}

func sentinelMessage(err error) string {
	for _, s := range clientSentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal server error"
}
