package implementations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/api-sage/simple-banking/src/internal/commons"
	"github.com/api-sage/simple-banking/src/internal/domain"
	"github.com/api-sage/simple-banking/src/internal/logger"
)

type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

const accountColumns = `id, user_id, account_type, account_number, balance, created_at, updated_at`

func (r *AccountRepository) ListByUserID(ctx context.Context, userID string) ([]domain.Account, error) {
	logger.Info("account repository list by user id", logger.Fields{
		"userId": userID,
	})

	query := `
SELECT ` + accountColumns + `
FROM accounts
WHERE user_id = $1
ORDER BY created_at ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		logger.Error("account repository list failed", err, logger.Fields{
			"userId": userID,
		})
		return nil, fmt.Errorf("list accounts by user id: %w", err)
	}
	defer rows.Close()

	accounts := make([]domain.Account, 0)
	for rows.Next() {
		var account domain.Account
		if err := scanAccount(rows, &account); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate accounts: %w", err)
	}

	logger.Info("account repository list success", logger.Fields{
		"userId": userID,
		"count":  len(accounts),
	})

	return accounts, nil
}

func (r *AccountRepository) GetByID(ctx context.Context, userID string, accountID string) (domain.Account, error) {
	logger.Info("account repository get by id", logger.Fields{
		"userId":    userID,
		"accountId": accountID,
	})

	query := `
SELECT ` + accountColumns + `
FROM accounts
WHERE id = $1
  AND user_id = $2`

	var account domain.Account
	if err := scanAccount(r.db.QueryRowContext(ctx, query, accountID, userID), &account); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			logger.Info("account repository record not found", logger.Fields{
				"accountId": accountID,
			})
			return domain.Account{}, commons.ErrRecordNotFound
		}
		logger.Error("account repository get failed", err, logger.Fields{
			"accountId": accountID,
		})
		return domain.Account{}, fmt.Errorf("get account by id: %w", err)
	}

	logger.Info("account repository get success", logger.Fields{
		"accountId":     account.ID,
		"accountNumber": account.AccountNumber,
	})

	return account, nil
}

func scanAccount(row rowScanner, account *domain.Account) error {
	return row.Scan(
		&account.ID,
		&account.UserID,
		&account.Type,
		&account.AccountNumber,
		&account.Balance,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
}
