package implementations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/api-sage/simple-banking/src/internal/commons"
	"github.com/api-sage/simple-banking/src/internal/domain"
	"github.com/api-sage/simple-banking/src/internal/logger"
	"github.com/lib/pq"
)

const uniqueViolation = "23505"

var ErrDuplicateSession = errors.New("session already exists")

type SessionRepository struct {
	db *sql.DB
}

func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(ctx context.Context, session domain.Session) error {
	logger.Info("session repository create", logger.Fields{
		"sessionId": session.ID,
		"userId":    session.UserID,
	})

	const query = `
INSERT INTO sessions (id, user_id, issued_at, expires_at)
VALUES ($1, $2, $3, $4)`

	if _, err := r.db.ExecContext(ctx, query, session.ID, session.UserID, session.IssuedAt, session.ExpiresAt); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("create session %s: %w", session.ID, ErrDuplicateSession)
		}
		logger.Error("session repository create failed", err, logger.Fields{
			"sessionId": session.ID,
		})
		return fmt.Errorf("create session: %w", err)
	}

	return nil
}

func (r *SessionRepository) Get(ctx context.Context, id string) (domain.Session, error) {
	const query = `
SELECT id, user_id, issued_at, expires_at
FROM sessions
WHERE id = $1`

	var session domain.Session
	if err := r.db.QueryRowContext(ctx, query, id).Scan(
		&session.ID,
		&session.UserID,
		&session.IssuedAt,
		&session.ExpiresAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Session{}, commons.ErrSessionNotFound
		}
		logger.Error("session repository get failed", err, logger.Fields{
			"sessionId": id,
		})
		return domain.Session{}, fmt.Errorf("get session: %w", err)
	}

	return session, nil
}

func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	logger.Info("session repository delete", logger.Fields{
		"sessionId": id,
	})

	result, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	if err != nil {
		logger.Error("session repository delete failed", err, logger.Fields{
			"sessionId": id,
		})
		return fmt.Errorf("delete session: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("read rows affected: %w", err)
	}
	if rows == 0 {
		return commons.ErrSessionNotFound
	}
	return nil
}
