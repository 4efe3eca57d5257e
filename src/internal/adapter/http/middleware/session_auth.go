package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/api-sage/simple-banking/src/internal/commons"
	"github.com/api-sage/simple-banking/src/internal/domain"
	"github.com/api-sage/simple-banking/src/internal/logger"
	"github.com/api-sage/simple-banking/src/internal/session"
)

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (domain.Session, error)
}

// SessionAuth requires an "Authorization: Bearer <token>" header naming a
// live session and stores that session on the request context.
func SessionAuth(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if auth == nil {
				logger.Error("session auth middleware missing authenticator", nil, logger.Fields{
					"method": r.Method,
					"path":   r.URL.Path,
				})
				http.Error(w, "server auth configuration is missing", http.StatusInternalServerError)
				return
			}

			token, ok := bearerToken(r)
			if !ok {
				logger.Info("session auth middleware unauthorized request", logger.Fields{
					"method":      r.Method,
					"path":        r.URL.Path,
					"credentials": "missing",
				})
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			sess, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				if errors.Is(err, session.ErrInvalidToken) || errors.Is(err, commons.ErrSessionNotFound) {
					logger.Info("session auth middleware unauthorized request", logger.Fields{
						"method":      r.Method,
						"path":        r.URL.Path,
						"credentials": "invalid_or_expired",
					})
					http.Error(w, "unauthorized", http.StatusUnauthorized)
					return
				}
				logger.Error("session auth middleware lookup failed", err, logger.Fields{
					"method": r.Method,
					"path":   r.URL.Path,
				})
				http.Error(w, "unable to verify session", http.StatusInternalServerError)
				return
			}

			logger.Info("session auth middleware authorized request", logger.Fields{
				"method":    r.Method,
				"path":      r.URL.Path,
				"sessionId": sess.ID,
			})
			next.ServeHTTP(w, r.WithContext(session.WithSession(r.Context(), sess)))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
