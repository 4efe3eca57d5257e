package implementations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/api-sage/simple-banking/src/internal/commons"
	"github.com/api-sage/simple-banking/src/internal/domain"
	"github.com/api-sage/simple-banking/src/internal/logger"
)

type UserRepository struct {
	db *sql.DB
}

type rowScanner interface {
	Scan(dest ...any) error
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, name, email, login_account_number, password_hash, pin_hash, created_at`

func (r *UserRepository) GetByID(ctx context.Context, id string) (domain.User, error) {
	return r.getOne(ctx, "id", `WHERE id = $1`, strings.TrimSpace(id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.getOne(ctx, "email", `WHERE LOWER(email) = LOWER($1)`, strings.TrimSpace(email))
}

func (r *UserRepository) GetByLoginAccountNumber(ctx context.Context, accountNumber string) (domain.User, error) {
	return r.getOne(ctx, "login account number", `WHERE login_account_number = $1`, strings.TrimSpace(accountNumber))
}

func (r *UserRepository) getOne(ctx context.Context, by string, where string, arg string) (domain.User, error) {
	logger.Info("user repository get by "+by, nil)

	query := `
SELECT ` + userColumns + `
FROM users
` + where

	var user domain.User
	if err := scanUser(r.db.QueryRowContext(ctx, query, arg), &user); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			logger.Info("user repository record not found", logger.Fields{
				"by": by,
			})
			return domain.User{}, commons.ErrRecordNotFound
		}
		logger.Error("user repository get by "+by+" failed", err, nil)
		return domain.User{}, fmt.Errorf("get user by %s: %w", by, err)
	}

	logger.Info("user repository get success", logger.Fields{
		"userId": user.ID,
	})

	return user, nil
}

func scanUser(row rowScanner, user *domain.User) error {
	return row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.LoginAccountNumber,
		&user.PasswordHash,
		&user.PinHash,
		&user.CreatedAt,
	)
}
