package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/api-sage/simple-banking/src/internal/adapter/http/models"
	"github.com/api-sage/simple-banking/src/internal/adapter/repository/memory"
	"github.com/api-sage/simple-banking/src/internal/adapter/repository/repo_interfaces/mocks"
	"github.com/api-sage/simple-banking/src/internal/commons"
	"github.com/api-sage/simple-banking/src/internal/domain"
	"github.com/api-sage/simple-banking/src/internal/ledger"
	"github.com/api-sage/simple-banking/src/internal/usecase/processing"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func balance(t *testing.T, store *memory.Store, accountID string) string {
	t.Helper()
	account, err := store.Accounts().GetByID(context.Background(), memory.DemoUserID, accountID)
	require.NoError(t, err)
	return account.Balance.StringFixed(2)
}

func TestDepositPostsEntry(t *testing.T) {
	store := seededStore(t)
	svc := newBankingService(store, true)

	resp, err := svc.Deposit(context.Background(), demoSession, models.DepositRequest{
		AccountID: "acc1",
		Amount:    "250",
	})
	require.NoError(t, err)
	require.True(t, resp.Success)
	require.NotNil(t, resp.Data)

	assert.True(t, resp.Data.Posted)
	assert.Equal(t, "sess-1:deposit", resp.Data.FormID)
	require.Len(t, resp.Data.Changes, 1)
	assert.Equal(t, "5420.75", resp.Data.Changes[0].PreviousBalance)
	assert.Equal(t, "5670.75", resp.Data.Changes[0].NewBalance)
	require.Len(t, resp.Data.Transactions, 1)
	assert.Equal(t, int64(6), resp.Data.Transactions[0].ID)
	assert.Equal(t, "Deposit", resp.Data.Transactions[0].Description)
	assert.Equal(t, "2025-12-27", resp.Data.Transactions[0].Date)
	assert.Equal(t, "credit", resp.Data.Transactions[0].Type)

	assert.Equal(t, "5670.75", balance(t, store, "acc1"))
}

func TestDepositRejections(t *testing.T) {
	cases := []struct {
		name string
		req  models.DepositRequest
		want error
		msg  string
	}{
		{"no account", models.DepositRequest{Amount: "10"}, ledger.ErrMissingSelection, "Please fill in all required fields"},
		{"no amount", models.DepositRequest{AccountID: "acc1"}, ledger.ErrMissingSelection, "Please fill in all required fields"},
		{"not a number", models.DepositRequest{AccountID: "acc1", Amount: "ten"}, ledger.ErrInvalidAmount, "Please enter a valid amount greater than 0"},
		{"zero", models.DepositRequest{AccountID: "acc1", Amount: "0"}, ledger.ErrInvalidAmount, "Please enter a valid amount greater than 0"},
		{"over ceiling", models.DepositRequest{AccountID: "acc1", Amount: "10000.01"}, ledger.ErrLimitExceeded, "Daily deposit limit is $10,000"},
		{"over ceiling below a cent", models.DepositRequest{AccountID: "acc1", Amount: "10000.004"}, ledger.ErrLimitExceeded, "Daily deposit limit is $10,000"},
		{"huge exponent", models.DepositRequest{AccountID: "acc1", Amount: "1e200000000"}, ledger.ErrInvalidAmount, "Please enter a valid amount greater than 0"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := seededStore(t)
			svc := newBankingService(store, true)

			resp, err := svc.Deposit(context.Background(), demoSession, tc.req)
			require.ErrorIs(t, err, tc.want)
			assert.False(t, resp.Success)
			assert.Equal(t, tc.msg, resp.Message)
			assert.Equal(t, "5420.75", balance(t, store, "acc1"))
		})
	}
}

func TestWithdrawChecksFundsBeforeCeiling(t *testing.T) {
	store := seededStore(t)
	svc := newBankingService(store, true)

	resp, err := svc.Withdraw(context.Background(), demoSession, models.WithdrawalRequest{AccountID: "acc1", Amount: "6000"})
	require.ErrorIs(t, err, ledger.ErrInsufficientFunds)
	assert.Equal(t, string(ledger.CodeInsufficientFunds), resp.Code)

	resp, err = svc.Withdraw(context.Background(), demoSession, models.WithdrawalRequest{AccountID: "acc1", Amount: "600"})
	require.ErrorIs(t, err, ledger.ErrLimitExceeded)
	assert.Equal(t, "Daily withdrawal limit is $500", resp.Message)

	_, err = svc.Withdraw(context.Background(), demoSession, models.WithdrawalRequest{AccountID: "acc1", Amount: "500.004"})
	require.ErrorIs(t, err, ledger.ErrLimitExceeded)

	resp, err = svc.Withdraw(context.Background(), demoSession, models.WithdrawalRequest{AccountID: "acc1", Amount: "500", Description: "ATM"})
	require.NoError(t, err)
	assert.Equal(t, "ATM", resp.Data.Transactions[0].Description)
	assert.Equal(t, "-500.00", resp.Data.Transactions[0].Amount)
	assert.Equal(t, "4920.75", balance(t, store, "acc1"))
}

func TestTransferPostsBothLegs(t *testing.T) {
	store := seededStore(t)
	svc := newBankingService(store, true)

	resp, err := svc.Transfer(context.Background(), demoSession, models.TransferRequest{
		FromAccountID: "acc2",
		ToAccountID:   "acc1",
		Amount:        "15750.25",
	})
	require.NoError(t, err)
	require.Len(t, resp.Data.Transactions, 2)
	assert.Equal(t, "Transfer to Checking", resp.Data.Transactions[0].Description)
	assert.Equal(t, "-15750.25", resp.Data.Transactions[0].Amount)
	assert.Equal(t, "Transfer from Savings", resp.Data.Transactions[1].Description)
	assert.Equal(t, "15750.25", resp.Data.Transactions[1].Amount)

	assert.Equal(t, "0.00", balance(t, store, "acc2"))
	assert.Equal(t, "21171.00", balance(t, store, "acc1"))
}

func TestTransferRejectionOrder(t *testing.T) {
	cases := []struct {
		name string
		req  models.TransferRequest
		want error
	}{
		{"missing amount beats same account", models.TransferRequest{FromAccountID: "acc1", ToAccountID: "acc1"}, ledger.ErrMissingSelection},
		{"same account beats bad amount", models.TransferRequest{FromAccountID: "acc1", ToAccountID: "acc1", Amount: "abc"}, ledger.ErrSameAccount},
		{"missing destination", models.TransferRequest{FromAccountID: "acc1", Amount: "1"}, ledger.ErrMissingSelection},
		{"bad amount", models.TransferRequest{FromAccountID: "acc1", ToAccountID: "acc2", Amount: "-5"}, ledger.ErrInvalidAmount},
		{"over balance", models.TransferRequest{FromAccountID: "acc1", ToAccountID: "acc2", Amount: "5420.76"}, ledger.ErrInsufficientFunds},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := newBankingService(seededStore(t), true)
			_, err := svc.Transfer(context.Background(), demoSession, tc.req)
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestTransferUnknownAccount(t *testing.T) {
	svc := newBankingService(seededStore(t), true)

	resp, err := svc.Transfer(context.Background(), demoSession, models.TransferRequest{
		FromAccountID: "acc1",
		ToAccountID:   "acc9",
		Amount:        "1",
	})
	require.ErrorIs(t, err, commons.ErrRecordNotFound)
	assert.Equal(t, "account not found", resp.Message)
}

func TestPreviewModeLeavesStoreUntouched(t *testing.T) {
	store := seededStore(t)
	svc := newBankingService(store, false)

	resp, err := svc.Transfer(context.Background(), demoSession, models.TransferRequest{
		FromAccountID: "acc1",
		ToAccountID:   "acc2",
		Amount:        "100",
	})
	require.NoError(t, err)
	assert.False(t, resp.Data.Posted)
	assert.Equal(t, "5320.75", resp.Data.Changes[0].NewBalance)
	assert.Equal(t, "15850.25", resp.Data.Changes[1].NewBalance)
	assert.Equal(t, int64(0), resp.Data.Transactions[0].ID)

	assert.Equal(t, "5420.75", balance(t, store, "acc1"))
	txs, err := store.Transactions().ListByUserID(context.Background(), memory.DemoUserID)
	require.NoError(t, err)
	assert.Len(t, txs, 5)
}

func TestSecondSubmissionForSameFormIsRejected(t *testing.T) {
	store := seededStore(t)
	svc := NewBankingService(
		store.Accounts(),
		store.Transactions(),
		ledger.NewValidator(ledger.DefaultLimits()),
		processing.NewProcessor(200*time.Millisecond, 0),
		true,
	)

	req := models.DepositRequest{FormID: "deposit-form", AccountID: "acc1", Amount: "10"}

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Deposit(context.Background(), demoSession, req)
		}(i)
		time.Sleep(20 * time.Millisecond)
	}
	wg.Wait()

	inFlight := 0
	for _, err := range errs {
		if errors.Is(err, processing.ErrSubmissionInFlight) {
			inFlight++
		} else {
			require.NoError(t, err)
		}
	}
	assert.Equal(t, 1, inFlight)
	assert.Equal(t, "5430.75", balance(t, store, "acc1"))
}

func TestCancelledSubmissionPostsNothing(t *testing.T) {
	store := seededStore(t)
	svc := NewBankingService(
		store.Accounts(),
		store.Transactions(),
		ledger.NewValidator(ledger.DefaultLimits()),
		processing.NewProcessor(time.Second, 0),
		true,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	resp, err := svc.Deposit(ctx, demoSession, models.DepositRequest{AccountID: "acc1", Amount: "10"})
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, "request cancelled", resp.Message)

	// Let the task observe the cancellation before checking the store.
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, "5420.75", balance(t, store, "acc1"))
}

func TestDepositBelowACentPostsRoundedEntry(t *testing.T) {
	store := seededStore(t)
	svc := newBankingService(store, true)

	resp, err := svc.Deposit(context.Background(), demoSession, models.DepositRequest{AccountID: "acc1", Amount: "0.004"})
	require.NoError(t, err)
	assert.Equal(t, "0.00", resp.Data.Transactions[0].Amount)
	assert.Equal(t, "5420.75", resp.Data.Changes[0].NewBalance)
	assert.Equal(t, "5420.75", balance(t, store, "acc1"))
}

func TestConcurrentPostingsReportAppliedBalances(t *testing.T) {
	store := seededStore(t)
	svc := NewBankingService(
		store.Accounts(),
		store.Transactions(),
		ledger.NewValidator(ledger.DefaultLimits()),
		processing.NewProcessor(100*time.Millisecond, 0),
		true,
	)

	var (
		wg                  sync.WaitGroup
		deposit, withdrawal commons.Response[models.PostingResponse]
		depositErr, wdErr   error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		deposit, depositErr = svc.Deposit(context.Background(), demoSession, models.DepositRequest{AccountID: "acc1", Amount: "1000"})
	}()
	go func() {
		defer wg.Done()
		withdrawal, wdErr = svc.Withdraw(context.Background(), demoSession, models.WithdrawalRequest{AccountID: "acc1", Amount: "100"})
	}()
	wg.Wait()

	require.NoError(t, depositErr)
	require.NoError(t, wdErr)
	require.Equal(t, "6320.75", balance(t, store, "acc1"))
	require.Len(t, deposit.Data.Changes, 1)
	require.Len(t, withdrawal.Data.Changes, 1)

	dep, wd := deposit.Data.Changes[0], withdrawal.Data.Changes[0]
	depositFirst := dep.PreviousBalance == "5420.75" && dep.NewBalance == "6420.75" &&
		wd.PreviousBalance == "6420.75" && wd.NewBalance == "6320.75"
	withdrawalFirst := wd.PreviousBalance == "5420.75" && wd.NewBalance == "5320.75" &&
		dep.PreviousBalance == "5320.75" && dep.NewBalance == "6320.75"
	assert.Truef(t, depositFirst || withdrawalFirst,
		"changes must chain to the final balance: deposit %s -> %s, withdrawal %s -> %s",
		dep.PreviousBalance, dep.NewBalance, wd.PreviousBalance, wd.NewBalance)
}

func TestPostingFinishesWhenCallerLeavesAfterSettle(t *testing.T) {
	ctrl := gomock.NewController(t)
	accounts := mocks.NewMockAccountRepository(ctrl)
	transactions := mocks.NewMockTransactionRepository(ctrl)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	accounts.EXPECT().
		GetByID(gomock.Any(), memory.DemoUserID, "acc1").
		Return(domain.Account{ID: "acc1", UserID: memory.DemoUserID, Type: "Checking", Balance: decimal.NewFromInt(100)}, nil)
	transactions.EXPECT().
		Post(gomock.Any(), gomock.Len(1)).
		DoAndReturn(func(postCtx context.Context, entries []domain.Transaction) ([]domain.Transaction, error) {
			cancel()
			assert.NoError(t, postCtx.Err())

			posted := entries[0]
			posted.ID = 9
			posted.Date = testNow
			posted.BalanceAfter = decimal.NewFromInt(150)
			return []domain.Transaction{posted}, nil
		})

	svc := NewBankingService(accounts, transactions, ledger.NewValidator(ledger.DefaultLimits()), processing.NewProcessor(0, 0), true)

	resp, err := svc.Deposit(ctx, demoSession, models.DepositRequest{AccountID: "acc1", Amount: "50"})
	require.NoError(t, err)
	require.True(t, resp.Success)
	assert.Equal(t, int64(9), resp.Data.Transactions[0].ID)
	assert.Equal(t, "100.00", resp.Data.Changes[0].PreviousBalance)
	assert.Equal(t, "150.00", resp.Data.Changes[0].NewBalance)
}

func TestStaleSnapshotOverdraftMapsToInsufficientFunds(t *testing.T) {
	ctrl := gomock.NewController(t)
	accounts := mocks.NewMockAccountRepository(ctrl)
	transactions := mocks.NewMockTransactionRepository(ctrl)

	accounts.EXPECT().
		GetByID(gomock.Any(), memory.DemoUserID, "acc1").
		Return(domain.Account{ID: "acc1", UserID: memory.DemoUserID, Type: "Checking", Balance: decimal.NewFromInt(100)}, nil)
	transactions.EXPECT().
		Post(gomock.Any(), gomock.Len(1)).
		Return(nil, commons.ErrInsufficientBalance)

	svc := NewBankingService(accounts, transactions, ledger.NewValidator(ledger.DefaultLimits()), processing.NewProcessor(0, 0), true)

	resp, err := svc.Withdraw(context.Background(), demoSession, models.WithdrawalRequest{AccountID: "acc1", Amount: "50"})
	require.ErrorIs(t, err, ledger.ErrInsufficientFunds)
	assert.Equal(t, "INSUFFICIENT_FUNDS", resp.Code)
}

func TestPostFailureIsReportedAsServerError(t *testing.T) {
	ctrl := gomock.NewController(t)
	accounts := mocks.NewMockAccountRepository(ctrl)
	transactions := mocks.NewMockTransactionRepository(ctrl)

	accounts.EXPECT().
		GetByID(gomock.Any(), memory.DemoUserID, "acc1").
		Return(domain.Account{ID: "acc1", UserID: memory.DemoUserID, Type: "Checking", Balance: decimal.NewFromInt(100)}, nil)
	transactions.EXPECT().
		Post(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("connection reset"))

	svc := NewBankingService(accounts, transactions, ledger.NewValidator(ledger.DefaultLimits()), processing.NewProcessor(0, 0), true)

	resp, err := svc.Deposit(context.Background(), demoSession, models.DepositRequest{AccountID: "acc1", Amount: "50"})
	require.Error(t, err)
	assert.Equal(t, "failed to process deposit", resp.Message)
	assert.Empty(t, resp.Code)
}

func TestValidationFailureSkipsRepositories(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := NewBankingService(
		mocks.NewMockAccountRepository(ctrl),
		mocks.NewMockTransactionRepository(ctrl),
		ledger.NewValidator(ledger.DefaultLimits()),
		processing.NewProcessor(0, 0),
		true,
	)

	long := make([]byte, 141)
	for i := range long {
		long[i] = 'x'
	}

	resp, err := svc.Deposit(context.Background(), demoSession, models.DepositRequest{AccountID: "acc1", Amount: "1", Description: string(long)})
	require.Error(t, err)
	assert.Equal(t, "validation failed", resp.Message)
}
