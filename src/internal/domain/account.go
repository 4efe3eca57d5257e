package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Account types seen in the seed data. The set is open; any tag is accepted.
const (
	AccountTypeChecking = "Checking"
	AccountTypeSavings  = "Savings"
)

type Account struct {
	ID            string
	UserID        string
	Type          string
	AccountNumber string
	Balance       decimal.Decimal
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// DisplayName is the name transactions use to reference the account.
func (a Account) DisplayName() string {
	return a.Type
}

func (a Account) Display() string {
	return fmt.Sprintf("%s (%s) - $%s", a.Type, a.AccountNumber, a.Balance.StringFixed(2))
}
