package controller

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/api-sage/simple-banking/src/internal/commons"
	"github.com/api-sage/simple-banking/src/internal/domain"
	"github.com/api-sage/simple-banking/src/internal/ledger"
	"github.com/api-sage/simple-banking/src/internal/session"
	"github.com/api-sage/simple-banking/src/internal/usecase/processing"
)

const validationFailed = "validation failed"

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func statusFor[T any](response commons.Response[T], err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case response.Message == validationFailed,
		errors.Is(err, ledger.ErrMissingSelection),
		errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ledger.ErrSameAccount):
		return http.StatusBadRequest
	case errors.Is(err, commons.ErrInvalidCredentials),
		errors.Is(err, commons.ErrSessionNotFound),
		errors.Is(err, session.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, commons.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, processing.ErrSubmissionInFlight):
		return http.StatusConflict
	case errors.Is(err, ledger.ErrInsufficientFunds),
		errors.Is(err, ledger.ErrLimitExceeded):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// requireSession returns the session the auth middleware attached. Routes
// registered without the middleware get a 401.
func requireSession[T any](w http.ResponseWriter, r *http.Request) (domain.Session, bool) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, commons.ErrorResponse[T]("unauthorized"))
		return domain.Session{}, false
	}
	return sess, true
}

func protect(handler http.HandlerFunc, authMiddleware func(http.Handler) http.Handler) http.Handler {
	if authMiddleware == nil {
		return handler
	}
	return authMiddleware(handler)
}
