package memory

import (
	"fmt"
	"time"

	"github.com/api-sage/simple-banking/src/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

// Demo credentials. Both schemes sign in as the same user.
const (
	DemoUserID        = "user-1"
	DemoEmail         = "demo@bank.com"
	DemoPassword      = "demo123"
	DemoAccountNumber = "1234567890"
	DemoPIN           = "1234"
)

// Seed loads the demo user, the two accounts and the opening transactions.
// cost is the bcrypt cost used for the credential hashes.
func Seed(s *Store, cost int) error {
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), cost)
	if err != nil {
		return fmt.Errorf("hash demo password: %w", err)
	}
	pinHash, err := bcrypt.GenerateFromPassword([]byte(DemoPIN), cost)
	if err != nil {
		return fmt.Errorf("hash demo pin: %w", err)
	}

	created := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)

	s.AddUser(domain.User{
		ID:                 DemoUserID,
		Name:               "John Doe",
		Email:              DemoEmail,
		LoginAccountNumber: DemoAccountNumber,
		PasswordHash:       string(passwordHash),
		PinHash:            string(pinHash),
		CreatedAt:          created,
	})

	s.AddAccount(domain.Account{
		ID:            "acc1",
		UserID:        DemoUserID,
		Type:          domain.AccountTypeChecking,
		AccountNumber: "****1234",
		Balance:       decimal.RequireFromString("5420.75"),
		CreatedAt:     created,
		UpdatedAt:     created,
	})
	s.AddAccount(domain.Account{
		ID:            "acc2",
		UserID:        DemoUserID,
		Type:          domain.AccountTypeSavings,
		AccountNumber: "****5678",
		Balance:       decimal.RequireFromString("15750.25"),
		CreatedAt:     created,
		UpdatedAt:     created,
	})

	day := func(d int) time.Time { return time.Date(2025, 12, d, 0, 0, 0, 0, time.UTC) }
	entry := func(id int64, date time.Time, description string, amount string, kind domain.TransactionType, accountID string, account string) domain.Transaction {
		return domain.Transaction{
			ID:          id,
			UserID:      DemoUserID,
			AccountID:   accountID,
			Account:     account,
			Date:        date,
			Description: description,
			Amount:      decimal.RequireFromString(amount),
			Type:        kind,
			CreatedAt:   date,
		}
	}

	s.AddTransactions(
		entry(1, day(26), "Grocery Store", "-85.50", domain.TransactionTypeDebit, "acc1", domain.AccountTypeChecking),
		entry(2, day(25), "Salary Deposit", "3500.00", domain.TransactionTypeCredit, "acc1", domain.AccountTypeChecking),
		entry(3, day(24), "Gas Station", "-42.30", domain.TransactionTypeDebit, "acc1", domain.AccountTypeChecking),
		entry(4, day(23), "Transfer to Savings", "-500.00", domain.TransactionTypeTransfer, "acc1", domain.AccountTypeChecking),
		entry(5, day(23), "Transfer from Checking", "500.00", domain.TransactionTypeTransfer, "acc2", domain.AccountTypeSavings),
	)

	return nil
}
