package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeCredit   TransactionType = "credit"
	TransactionTypeDebit    TransactionType = "debit"
	TransactionTypeTransfer TransactionType = "transfer"
)

// Transaction is an immutable ledger entry. The sign of Amount is the source
// of truth for direction; Type is informational.
type Transaction struct {
	ID          int64
	UserID      string
	AccountID   string
	Account     string
	Date        time.Time
	Description string
	Amount      decimal.Decimal
	Type        TransactionType
	CreatedAt   time.Time

	// BalanceAfter is the account balance once this entry was applied. Only
	// entries returned from a post carry it; it is not stored.
	BalanceAfter decimal.Decimal
}

func (t Transaction) IsCredit() bool {
	return t.Amount.IsPositive()
}

func (t Transaction) IsDebit() bool {
	return t.Amount.IsNegative()
}
