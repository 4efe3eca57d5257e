package session

import (
	"context"

	"github.com/api-sage/simple-banking/src/internal/domain"
)

type contextKey struct{}

func WithSession(ctx context.Context, sess domain.Session) context.Context {
	return context.WithValue(ctx, contextKey{}, sess)
}

func FromContext(ctx context.Context) (domain.Session, bool) {
	sess, ok := ctx.Value(contextKey{}).(domain.Session)
	return sess, ok
}
