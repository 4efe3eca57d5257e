package ledger

import (
	"github.com/api-sage/simple-banking/src/internal/domain"
	"github.com/shopspring/decimal"
)

// Limits holds the per operation ceilings. Transfers have none.
type Limits struct {
	DepositCeiling    decimal.Decimal
	WithdrawalCeiling decimal.Decimal
}

func DefaultLimits() Limits {
	return Limits{
		DepositCeiling:    decimal.NewFromInt(10000),
		WithdrawalCeiling: decimal.NewFromInt(500),
	}
}

// Effect is the outcome of a validated operation on one account: the balance
// before and after, and the entry to record. Entry has no ID or date yet.
type Effect struct {
	AccountID       string
	PreviousBalance decimal.Decimal
	NewBalance      decimal.Decimal
	Entry           domain.Transaction
}

func (e Effect) Entries() []domain.Transaction {
	return []domain.Transaction{e.Entry}
}

// TransferEffect pairs the two legs of a transfer. The legs are only ever
// produced together and their amounts sum to zero.
type TransferEffect struct {
	From Effect
	To   Effect
}

func (e TransferEffect) Entries() []domain.Transaction {
	return []domain.Transaction{e.From.Entry, e.To.Entry}
}

// Validator decides whether an operation may proceed against an account
// snapshot and computes its effect. It never mutates the accounts it is given.
// A nil account is an unselected one.
type Validator struct {
	limits Limits
}

func NewValidator(limits Limits) *Validator {
	return &Validator{limits: limits}
}

func (v *Validator) Limits() Limits {
	return v.limits
}

func (v *Validator) ValidateDeposit(account *domain.Account, amount decimal.Decimal) (Effect, error) {
	if account == nil {
		return Effect{}, ErrMissingSelection
	}

	if !amount.IsPositive() {
		return Effect{}, ErrInvalidAmount
	}
	if amount.GreaterThan(v.limits.DepositCeiling) {
		return Effect{}, reject(ErrLimitExceeded, "Daily deposit limit is $"+FormatCurrency(v.limits.DepositCeiling))
	}

	return applyEffect(*account, amount, domain.TransactionTypeCredit), nil
}

// ValidateWithdrawal checks funds before the ceiling, so an amount that is
// both over balance and over the ceiling reports insufficient funds.
func (v *Validator) ValidateWithdrawal(account *domain.Account, amount decimal.Decimal) (Effect, error) {
	if account == nil {
		return Effect{}, ErrMissingSelection
	}

	if !amount.IsPositive() {
		return Effect{}, ErrInvalidAmount
	}
	if amount.GreaterThan(account.Balance) {
		return Effect{}, ErrInsufficientFunds
	}
	if amount.GreaterThan(v.limits.WithdrawalCeiling) {
		return Effect{}, reject(ErrLimitExceeded, "Daily withdrawal limit is $"+FormatCurrency(v.limits.WithdrawalCeiling))
	}

	return applyEffect(*account, amount.Neg(), domain.TransactionTypeDebit), nil
}

// CheckTransferSelection runs the account checks of ValidateTransfer alone,
// for callers that must report them ahead of amount parsing.
func (v *Validator) CheckTransferSelection(from *domain.Account, to *domain.Account) error {
	if from == nil || to == nil {
		return ErrMissingSelection
	}
	if from.ID == to.ID {
		return ErrSameAccount
	}
	return nil
}

func (v *Validator) ValidateTransfer(from *domain.Account, to *domain.Account, amount decimal.Decimal) (TransferEffect, error) {
	if err := v.CheckTransferSelection(from, to); err != nil {
		return TransferEffect{}, err
	}

	if !amount.IsPositive() {
		return TransferEffect{}, ErrInvalidAmount
	}
	if amount.GreaterThan(from.Balance) {
		return TransferEffect{}, reject(ErrInsufficientFunds, "Insufficient funds in the source account")
	}

	return TransferEffect{
		From: applyEffect(*from, amount.Neg(), domain.TransactionTypeTransfer),
		To:   applyEffect(*to, amount, domain.TransactionTypeTransfer),
	}, nil
}

// applyEffect rounds the signed amount to Scale. Checks above it compare the
// amount as entered.
func applyEffect(account domain.Account, signed decimal.Decimal, kind domain.TransactionType) Effect {
	signed = signed.Round(Scale)
	return Effect{
		AccountID:       account.ID,
		PreviousBalance: account.Balance,
		NewBalance:      account.Balance.Add(signed).Round(Scale),
		Entry: domain.Transaction{
			UserID:    account.UserID,
			AccountID: account.ID,
			Account:   account.DisplayName(),
			Amount:    signed,
			Type:      kind,
		},
	}
}
