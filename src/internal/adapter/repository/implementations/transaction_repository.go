package implementations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/api-sage/simple-banking/src/internal/commons"
	"github.com/api-sage/simple-banking/src/internal/domain"
	"github.com/api-sage/simple-banking/src/internal/logger"
	"github.com/shopspring/decimal"
)

type TransactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Newest posting date first, then newest batch; legs of one batch keep the
// order they were posted in.
func (r *TransactionRepository) ListByUserID(ctx context.Context, userID string) ([]domain.Transaction, error) {
	logger.Info("transaction repository list by user id", logger.Fields{
		"userId": userID,
	})

	const query = `
SELECT id, user_id, account_id, account_name, posted_on, description, amount, txn_type, created_at
FROM transactions
WHERE user_id = $1
ORDER BY posted_on DESC, batch_id DESC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		logger.Error("transaction repository list failed", err, logger.Fields{
			"userId": userID,
		})
		return nil, fmt.Errorf("list transactions by user id: %w", err)
	}
	defer rows.Close()

	transactions := make([]domain.Transaction, 0)
	for rows.Next() {
		var entry domain.Transaction
		if err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.AccountID,
			&entry.Account,
			&entry.Date,
			&entry.Description,
			&entry.Amount,
			&entry.Type,
			&entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		transactions = append(transactions, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}

	logger.Info("transaction repository list success", logger.Fields{
		"userId": userID,
		"count":  len(transactions),
	})

	return transactions, nil
}

// Post applies every entry's amount to its account and records the entries
// in one database transaction. A debit that would take a balance below zero
// fails the whole batch with commons.ErrInsufficientBalance.
func (r *TransactionRepository) Post(ctx context.Context, entries []domain.Transaction) (posted []domain.Transaction, err error) {
	if len(entries) == 0 {
		return nil, nil
	}

	logger.Info("transaction repository post", logger.Fields{
		"entries": len(entries),
		"userId":  entries[0].UserID,
	})

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("transaction repository begin tx failed", err, nil)
		return nil, fmt.Errorf("begin posting transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	// Rows are locked in account id order so concurrent batches cannot deadlock.
	type movement struct {
		userID    string
		accountID string
		amount    decimal.Decimal
	}
	byAccount := make(map[string]*movement, len(entries))
	for _, entry := range entries {
		m, ok := byAccount[entry.AccountID]
		if !ok {
			m = &movement{userID: entry.UserID, accountID: entry.AccountID}
			byAccount[entry.AccountID] = m
		}
		m.amount = m.amount.Add(entry.Amount)
	}
	movements := make([]*movement, 0, len(byAccount))
	for _, m := range byAccount {
		movements = append(movements, m)
	}
	sort.Slice(movements, func(i, j int) bool { return movements[i].accountID < movements[j].accountID })

	const applyQuery = `
UPDATE accounts
SET balance = balance + $3::numeric,
    updated_at = NOW()
WHERE id = $1
  AND user_id = $2
  AND ($3::numeric >= 0 OR balance + $3::numeric >= 0)
RETURNING balance`
	finals := make(map[string]decimal.Decimal, len(movements))
	for _, m := range movements {
		var balance decimal.Decimal
		if err = tx.QueryRowContext(ctx, applyQuery, m.accountID, m.userID, m.amount).Scan(&balance); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				err = r.explainMissedUpdate(ctx, tx, m.accountID, m.userID)
			} else {
				err = fmt.Errorf("apply balance for account %s: %w", m.accountID, err)
			}
			logger.Error("transaction repository apply balance failed", err, logger.Fields{
				"accountId": m.accountID,
			})
			return nil, err
		}
		finals[m.accountID] = balance
	}

	var batchID int64
	if err = tx.QueryRowContext(ctx, `SELECT nextval('posting_batches')`).Scan(&batchID); err != nil {
		return nil, fmt.Errorf("allocate posting batch: %w", err)
	}

	const insertQuery = `
INSERT INTO transactions (
	batch_id,
	user_id,
	account_id,
	account_name,
	description,
	amount,
	txn_type
) VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id, posted_on, created_at`

	posted = make([]domain.Transaction, 0, len(entries))
	for _, entry := range entries {
		if err = tx.QueryRowContext(
			ctx,
			insertQuery,
			batchID,
			entry.UserID,
			entry.AccountID,
			entry.Account,
			entry.Description,
			entry.Amount,
			entry.Type,
		).Scan(&entry.ID, &entry.Date, &entry.CreatedAt); err != nil {
			logger.Error("transaction repository insert failed", err, logger.Fields{
				"accountId": entry.AccountID,
			})
			return nil, fmt.Errorf("insert transaction: %w", err)
		}
		posted = append(posted, entry)
	}

	// Walk back from each account's final balance so every leg reports the
	// balance right after it.
	for i := len(posted) - 1; i >= 0; i-- {
		accountID := posted[i].AccountID
		posted[i].BalanceAfter = finals[accountID]
		finals[accountID] = finals[accountID].Sub(posted[i].Amount)
	}

	if err = tx.Commit(); err != nil {
		logger.Error("transaction repository commit tx failed", err, nil)
		return nil, fmt.Errorf("commit posting transaction: %w", err)
	}

	logger.Info("transaction repository post success", logger.Fields{
		"batchId": batchID,
		"entries": len(posted),
	})

	return posted, nil
}

func (r *TransactionRepository) explainMissedUpdate(ctx context.Context, tx *sql.Tx, accountID string, userID string) error {
	var exists bool
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM accounts WHERE id = $1 AND user_id = $2)`, accountID, userID).Scan(&exists); err != nil {
		return fmt.Errorf("check account %s: %w", accountID, err)
	}
	if !exists {
		return fmt.Errorf("post entry for account %s: %w", accountID, commons.ErrRecordNotFound)
	}
	return fmt.Errorf("post entry for account %s: %w", accountID, commons.ErrInsufficientBalance)
}
