package ledger

import (
	"strings"

	"github.com/api-sage/simple-banking/src/internal/domain"
	"github.com/shopspring/decimal"
)

// Wildcard matches every transaction type or account.
const Wildcard = "all"

// Criteria selects transactions. Empty Type or Account behave like Wildcard;
// empty SearchText matches every description.
type Criteria struct {
	Type       string
	Account    string
	SearchText string
}

func (c Criteria) matches(t domain.Transaction) bool {
	return matchesTag(c.Type, string(t.Type)) &&
		matchesTag(c.Account, t.Account) &&
		strings.Contains(strings.ToLower(t.Description), strings.ToLower(c.SearchText))
}

func matchesTag(want string, got string) bool {
	want = strings.TrimSpace(want)
	return want == "" || strings.EqualFold(want, Wildcard) || strings.EqualFold(want, got)
}

type Summary struct {
	TotalCredits decimal.Decimal
	TotalDebits  decimal.Decimal
	NetChange    decimal.Decimal
	Count        int
}

func TotalBalance(accounts []domain.Account) decimal.Decimal {
	total := decimal.Zero
	for _, account := range accounts {
		total = total.Add(account.Balance)
	}
	return total
}

// FilterTransactions keeps the input order.
func FilterTransactions(transactions []domain.Transaction, criteria Criteria) []domain.Transaction {
	out := make([]domain.Transaction, 0, len(transactions))
	for _, t := range transactions {
		if criteria.matches(t) {
			out = append(out, t)
		}
	}
	return out
}

// Summarize totals credits and the absolute value of debits. NetChange is
// always TotalCredits minus TotalDebits.
func Summarize(transactions []domain.Transaction) Summary {
	summary := Summary{
		TotalCredits: decimal.Zero,
		TotalDebits:  decimal.Zero,
		NetChange:    decimal.Zero,
		Count:        len(transactions),
	}

	for _, t := range transactions {
		switch {
		case t.IsCredit():
			summary.TotalCredits = summary.TotalCredits.Add(t.Amount)
		case t.IsDebit():
			summary.TotalDebits = summary.TotalDebits.Add(t.Amount.Abs())
		}
		summary.NetChange = summary.NetChange.Add(t.Amount)
	}

	return summary
}

// RecentTransactions returns the first n entries as given. Callers pass lists
// that are already most recent first.
func RecentTransactions(transactions []domain.Transaction, n int) []domain.Transaction {
	if n <= 0 {
		return []domain.Transaction{}
	}
	if n > len(transactions) {
		n = len(transactions)
	}
	out := make([]domain.Transaction, n)
	copy(out, transactions[:n])
	return out
}
