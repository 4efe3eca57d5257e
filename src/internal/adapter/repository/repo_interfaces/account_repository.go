package repo_interfaces

import (
	"context"

	"github.com/api-sage/simple-banking/src/internal/domain"
)

//go:generate mockgen -destination=mocks/mock_repositories.go -package=mocks -source=account_repository.go
type AccountRepository interface {
	ListByUserID(ctx context.Context, userID string) ([]domain.Account, error)
	GetByID(ctx context.Context, userID string, accountID string) (domain.Account, error)
}

// TransactionRepository lists a user's ledger entries most recent first and
// posts new ones. Post applies every entry and its balance change, or none of
// them; a debit that would take an account below zero fails with
// commons.ErrInsufficientBalance. Posted entries carry BalanceAfter.
type TransactionRepository interface {
	ListByUserID(ctx context.Context, userID string) ([]domain.Transaction, error)
	Post(ctx context.Context, entries []domain.Transaction) ([]domain.Transaction, error)
}

type UserRepository interface {
	GetByID(ctx context.Context, id string) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	GetByLoginAccountNumber(ctx context.Context, accountNumber string) (domain.User, error)
}

type SessionRepository interface {
	Create(ctx context.Context, session domain.Session) error
	Get(ctx context.Context, id string) (domain.Session, error)
	Delete(ctx context.Context, id string) error
}
