package services

import (
	"testing"
	"time"

	"github.com/api-sage/simple-banking/src/internal/adapter/repository/memory"
	"github.com/api-sage/simple-banking/src/internal/domain"
	"github.com/api-sage/simple-banking/src/internal/ledger"
	"github.com/api-sage/simple-banking/src/internal/usecase/processing"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var testNow = time.Date(2025, 12, 27, 9, 0, 0, 0, time.UTC)

var demoSession = domain.Session{
	ID:        "sess-1",
	UserID:    memory.DemoUserID,
	IssuedAt:  testNow,
	ExpiresAt: testNow.Add(time.Hour),
}

func seededStore(t *testing.T) *memory.Store {
	t.Helper()
	store := memory.NewStore(func() time.Time { return testNow })
	require.NoError(t, memory.Seed(store, bcrypt.MinCost))
	return store
}

func newBankingService(store *memory.Store, post bool) *BankingService {
	return NewBankingService(
		store.Accounts(),
		store.Transactions(),
		ledger.NewValidator(ledger.DefaultLimits()),
		processing.NewProcessor(0, 0),
		post,
	)
}
