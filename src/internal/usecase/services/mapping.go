package services

import (
	"github.com/api-sage/simple-banking/src/internal/adapter/http/models"
	"github.com/api-sage/simple-banking/src/internal/domain"
	"github.com/api-sage/simple-banking/src/internal/ledger"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

func money(amount decimal.Decimal) string {
	return amount.StringFixed(ledger.Scale)
}

func toAccountResponse(account domain.Account) models.AccountResponse {
	return models.AccountResponse{
		ID:            account.ID,
		Type:          account.Type,
		AccountNumber: account.AccountNumber,
		Balance:       money(account.Balance),
		Display:       account.Display(),
	}
}

func toAccountResponses(accounts []domain.Account) []models.AccountResponse {
	out := make([]models.AccountResponse, 0, len(accounts))
	for _, account := range accounts {
		out = append(out, toAccountResponse(account))
	}
	return out
}

func toTransactionResponse(entry domain.Transaction) models.TransactionResponse {
	date := ""
	if !entry.Date.IsZero() {
		date = entry.Date.Format(dateLayout)
	}
	return models.TransactionResponse{
		ID:          entry.ID,
		Date:        date,
		Description: entry.Description,
		Amount:      money(entry.Amount),
		Type:        string(entry.Type),
		Account:     entry.Account,
		AccountID:   entry.AccountID,
	}
}

func toTransactionResponses(entries []domain.Transaction) []models.TransactionResponse {
	out := make([]models.TransactionResponse, 0, len(entries))
	for _, entry := range entries {
		out = append(out, toTransactionResponse(entry))
	}
	return out
}

func toBalanceChange(effect ledger.Effect) models.BalanceChange {
	return models.BalanceChange{
		AccountID:       effect.AccountID,
		Account:         effect.Entry.Account,
		PreviousBalance: money(effect.PreviousBalance),
		NewBalance:      money(effect.NewBalance),
	}
}

// toPostedBalanceChange reports what a post actually applied, which may differ
// from the validated snapshot when another posting landed in between.
func toPostedBalanceChange(entry domain.Transaction) models.BalanceChange {
	return models.BalanceChange{
		AccountID:       entry.AccountID,
		Account:         entry.Account,
		PreviousBalance: money(entry.BalanceAfter.Sub(entry.Amount)),
		NewBalance:      money(entry.BalanceAfter),
	}
}
