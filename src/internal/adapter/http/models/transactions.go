package models

import (
	"errors"
	"strings"
)

type AccountResponse struct {
	ID            string `json:"id"`
	Type          string `json:"type"`
	AccountNumber string `json:"accountNumber"`
	Balance       string `json:"balance"`
	Display       string `json:"display"`
}

type TransactionResponse struct {
	ID          int64  `json:"id"`
	Date        string `json:"date"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Type        string `json:"type"`
	Account     string `json:"account"`
	AccountID   string `json:"accountId"`
}

type DashboardResponse struct {
	UserName           string                `json:"userName"`
	TotalBalance       string                `json:"totalBalance"`
	Accounts           []AccountResponse     `json:"accounts"`
	RecentTransactions []TransactionResponse `json:"recentTransactions"`
}

type TransactionQuery struct {
	Type    string `json:"type,omitempty"`
	Account string `json:"account,omitempty"`
	Search  string `json:"search,omitempty"`
}

func (q TransactionQuery) Validate() error {
	var errs []string

	switch strings.ToLower(strings.TrimSpace(q.Type)) {
	case "", "all", "credit", "debit", "transfer":
	default:
		errs = append(errs, "type must be one of all, credit, debit, transfer")
	}
	if len(q.Search) > 200 {
		errs = append(errs, "search must be at most 200 characters")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

type TransactionSummaryResponse struct {
	TotalCredits string `json:"totalCredits"`
	TotalDebits  string `json:"totalDebits"`
	NetChange    string `json:"netChange"`
	Count        int    `json:"count"`
}

type TransactionHistoryResponse struct {
	Transactions []TransactionResponse     `json:"transactions"`
	Summary      TransactionSummaryResponse `json:"summary"`
}
