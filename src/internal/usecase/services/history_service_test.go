package services

import (
	"context"
	"errors"
	"testing"

	"github.com/api-sage/simple-banking/src/internal/adapter/http/models"
	"github.com/api-sage/simple-banking/src/internal/adapter/repository/memory"
	"github.com/api-sage/simple-banking/src/internal/adapter/repository/repo_interfaces/mocks"
	"github.com/api-sage/simple-banking/src/internal/commons"
	"github.com/api-sage/simple-banking/src/internal/domain"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHistoryService(t *testing.T, recent int) *HistoryService {
	t.Helper()
	store := seededStore(t)
	return NewHistoryService(store.Users(), store.Accounts(), store.Transactions(), recent)
}

func TestGetAccounts(t *testing.T) {
	svc := newHistoryService(t, 5)

	resp, err := svc.GetAccounts(context.Background(), demoSession)
	require.NoError(t, err)
	require.Len(t, *resp.Data, 2)
	assert.Equal(t, "Checking (****1234) - $5420.75", (*resp.Data)[0].Display)
	assert.Equal(t, "15750.25", (*resp.Data)[1].Balance)
}

func TestGetDashboard(t *testing.T) {
	svc := newHistoryService(t, 3)

	resp, err := svc.GetDashboard(context.Background(), demoSession)
	require.NoError(t, err)
	assert.Equal(t, "John Doe", resp.Data.UserName)
	assert.Equal(t, "21171.00", resp.Data.TotalBalance)
	require.Len(t, resp.Data.RecentTransactions, 3)
	assert.Equal(t, "Grocery Store", resp.Data.RecentTransactions[0].Description)
	assert.Equal(t, "2025-12-26", resp.Data.RecentTransactions[0].Date)
}

func TestGetDashboardPropagatesFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	users := mocks.NewMockUserRepository(ctrl)
	accounts := mocks.NewMockAccountRepository(ctrl)
	transactions := mocks.NewMockTransactionRepository(ctrl)

	users.EXPECT().GetByID(gomock.Any(), memory.DemoUserID).Return(domain.User{}, commons.ErrRecordNotFound)
	accounts.EXPECT().ListByUserID(gomock.Any(), memory.DemoUserID).Return(nil, nil).AnyTimes()
	transactions.EXPECT().ListByUserID(gomock.Any(), memory.DemoUserID).Return(nil, nil).AnyTimes()

	svc := NewHistoryService(users, accounts, transactions, 5)

	resp, err := svc.GetDashboard(context.Background(), demoSession)
	require.ErrorIs(t, err, commons.ErrRecordNotFound)
	assert.Equal(t, "user not found", resp.Message)
}

func TestGetTransactionsFiltersAndSummarizes(t *testing.T) {
	svc := newHistoryService(t, 5)

	cases := []struct {
		name    string
		query   models.TransactionQuery
		ids     []int64
		credits string
		debits  string
		net     string
	}{
		{"everything", models.TransactionQuery{Type: "all", Account: "all"}, []int64{1, 2, 3, 4, 5}, "4000.00", "627.80", "3372.20"},
		{"debits", models.TransactionQuery{Type: "debit"}, []int64{1, 3}, "0.00", "127.80", "-127.80"},
		{"transfers on savings", models.TransactionQuery{Type: "Transfer", Account: "savings"}, []int64{5}, "500.00", "0.00", "500.00"},
		{"search", models.TransactionQuery{Search: "STORE"}, []int64{1}, "0.00", "85.50", "-85.50"},
		{"no match", models.TransactionQuery{Search: "rent"}, nil, "0.00", "0.00", "0.00"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := svc.GetTransactions(context.Background(), demoSession, tc.query)
			require.NoError(t, err)

			var got []int64
			for _, entry := range resp.Data.Transactions {
				got = append(got, entry.ID)
			}
			assert.Equal(t, tc.ids, got)
			assert.Equal(t, len(tc.ids), resp.Data.Summary.Count)
			assert.Equal(t, tc.credits, resp.Data.Summary.TotalCredits)
			assert.Equal(t, tc.debits, resp.Data.Summary.TotalDebits)
			assert.Equal(t, tc.net, resp.Data.Summary.NetChange)
		})
	}
}

func TestGetTransactionsValidation(t *testing.T) {
	svc := newHistoryService(t, 5)

	resp, err := svc.GetTransactions(context.Background(), demoSession, models.TransactionQuery{Type: "refund"})
	require.Error(t, err)
	assert.Equal(t, "validation failed", resp.Message)
}

func TestGetTransactionsRepositoryFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	transactions := mocks.NewMockTransactionRepository(ctrl)
	transactions.EXPECT().ListByUserID(gomock.Any(), memory.DemoUserID).Return(nil, errors.New("timeout"))

	svc := NewHistoryService(mocks.NewMockUserRepository(ctrl), mocks.NewMockAccountRepository(ctrl), transactions, 5)

	resp, err := svc.GetTransactions(context.Background(), demoSession, models.TransactionQuery{})
	require.Error(t, err)
	assert.Equal(t, "failed to get transactions", resp.Message)
}
