package models

import (
	"errors"
	"strings"
	"unicode/utf8"
)

const (
	maxDescriptionLength = 140
	maxFormIDLength      = 128
)

// Missing accounts and amounts are reported by the ledger, not here, so the
// caller sees the same rejection codes as the form would.
type DepositRequest struct {
	FormID      string `json:"formId,omitempty"`
	AccountID   string `json:"accountId"`
	Amount      string `json:"amount"`
	Description string `json:"description,omitempty"`
}

func (r DepositRequest) Validate() error {
	return validateFormFields(r.FormID, r.Description)
}

type WithdrawalRequest struct {
	FormID      string `json:"formId,omitempty"`
	AccountID   string `json:"accountId"`
	Amount      string `json:"amount"`
	Description string `json:"description,omitempty"`
}

func (r WithdrawalRequest) Validate() error {
	return validateFormFields(r.FormID, r.Description)
}

type TransferRequest struct {
	FormID        string `json:"formId,omitempty"`
	FromAccountID string `json:"fromAccountId"`
	ToAccountID   string `json:"toAccountId"`
	Amount        string `json:"amount"`
	Description   string `json:"description,omitempty"`
}

func (r TransferRequest) Validate() error {
	return validateFormFields(r.FormID, r.Description)
}

func validateFormFields(formID string, description string) error {
	var errs []string

	if utf8.RuneCountInString(strings.TrimSpace(formID)) > maxFormIDLength {
		errs = append(errs, "formId must be at most 128 characters")
	}
	if utf8.RuneCountInString(strings.TrimSpace(description)) > maxDescriptionLength {
		errs = append(errs, "description must be at most 140 characters")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

type BalanceChange struct {
	AccountID       string `json:"accountId"`
	Account         string `json:"account"`
	PreviousBalance string `json:"previousBalance"`
	NewBalance      string `json:"newBalance"`
}

// PostingResponse describes an accepted operation. Posted is false when the
// server only previews effects.
type PostingResponse struct {
	FormID       string                `json:"formId"`
	Posted       bool                  `json:"posted"`
	Changes      []BalanceChange       `json:"changes"`
	Transactions []TransactionResponse `json:"transactions"`
}
