package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/api-sage/simple-banking/src/internal/commons"
	"github.com/api-sage/simple-banking/src/internal/domain"
	"github.com/api-sage/simple-banking/src/internal/ledger"
	"github.com/api-sage/simple-banking/src/internal/logger"
	"github.com/shopspring/decimal"
)

// Store keeps users, accounts and transactions for the lifetime of the
// process. Accounts keep insertion order; transactions are kept most recent
// first and new postings go to the front.
type Store struct {
	mu  sync.RWMutex
	now func() time.Time

	users        map[string]domain.User
	accounts     []domain.Account
	transactions []domain.Transaction
	nextTxID     int64
}

func NewStore(now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{
		now:      now,
		users:    make(map[string]domain.User),
		nextTxID: 1,
	}
}

func (s *Store) Accounts() *AccountRepository {
	return &AccountRepository{store: s}
}

func (s *Store) Transactions() *TransactionRepository {
	return &TransactionRepository{store: s}
}

func (s *Store) Users() *UserRepository {
	return &UserRepository{store: s}
}

func (s *Store) AddUser(user domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = user
}

func (s *Store) AddAccount(account domain.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts = append(s.accounts, account)
}

// AddTransactions appends seed entries in display order, keeping their IDs.
// Later postings continue numbering after the highest ID seen.
func (s *Store) AddTransactions(entries ...domain.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, entry := range entries {
		s.transactions = append(s.transactions, entry)
		if entry.ID >= s.nextTxID {
			s.nextTxID = entry.ID + 1
		}
	}
}

type AccountRepository struct {
	store *Store
}

func (r *AccountRepository) ListByUserID(_ context.Context, userID string) ([]domain.Account, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]domain.Account, 0, len(r.store.accounts))
	for _, account := range r.store.accounts {
		if account.UserID == userID {
			out = append(out, account)
		}
	}
	return out, nil
}

func (r *AccountRepository) GetByID(_ context.Context, userID string, accountID string) (domain.Account, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	idx := r.store.accountIndex(accountID)
	if idx < 0 || r.store.accounts[idx].UserID != userID {
		return domain.Account{}, commons.ErrRecordNotFound
	}
	return r.store.accounts[idx], nil
}

type TransactionRepository struct {
	store *Store
}

func (r *TransactionRepository) ListByUserID(_ context.Context, userID string) ([]domain.Transaction, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]domain.Transaction, 0, len(r.store.transactions))
	for _, entry := range r.store.transactions {
		if entry.UserID == userID {
			out = append(out, entry)
		}
	}
	return out, nil
}

func (r *TransactionRepository) Post(ctx context.Context, entries []domain.Transaction) ([]domain.Transaction, error) {
	if len(entries) == 0 {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	// Work on a copy of the balances so a failing leg leaves nothing applied.
	balances := make(map[int]domain.Account, len(entries))
	after := make([]decimal.Decimal, len(entries))
	for i, entry := range entries {
		idx := s.accountIndex(entry.AccountID)
		if idx < 0 || s.accounts[idx].UserID != entry.UserID {
			logger.Error("memory store post account not found", commons.ErrRecordNotFound, logger.Fields{
				"accountId": entry.AccountID,
			})
			return nil, fmt.Errorf("post entry for account %s: %w", entry.AccountID, commons.ErrRecordNotFound)
		}

		account, ok := balances[idx]
		if !ok {
			account = s.accounts[idx]
		}
		next := account.Balance.Add(entry.Amount).Round(ledger.Scale)
		if entry.Amount.IsNegative() && next.IsNegative() {
			return nil, fmt.Errorf("post entry for account %s: %w", entry.AccountID, commons.ErrInsufficientBalance)
		}
		account.Balance = next
		balances[idx] = account
		after[i] = next
	}

	now := s.now().UTC()
	date := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	posted := make([]domain.Transaction, 0, len(entries))
	for _, entry := range entries {
		entry.ID = s.nextTxID
		s.nextTxID++
		entry.Date = date
		entry.CreatedAt = now
		entry.Amount = entry.Amount.Round(ledger.Scale)
		entry.BalanceAfter = decimal.Zero
		posted = append(posted, entry)
	}

	indexes := make([]int, 0, len(balances))
	for idx := range balances {
		indexes = append(indexes, idx)
	}
	sort.Ints(indexes)
	for _, idx := range indexes {
		account := balances[idx]
		account.UpdatedAt = now
		s.accounts[idx] = account
	}

	s.transactions = append(append(make([]domain.Transaction, 0, len(posted)+len(s.transactions)), posted...), s.transactions...)

	logger.Info("memory store post success", logger.Fields{
		"entries": len(posted),
		"firstId": posted[0].ID,
	})

	out := make([]domain.Transaction, len(posted))
	copy(out, posted)
	for i := range out {
		out[i].BalanceAfter = after[i]
	}
	return out, nil
}

type UserRepository struct {
	store *Store
}

func (r *UserRepository) GetByID(_ context.Context, id string) (domain.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	user, ok := r.store.users[id]
	if !ok {
		return domain.User{}, commons.ErrRecordNotFound
	}
	return user, nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (domain.User, error) {
	return r.find(func(u domain.User) bool {
		return strings.EqualFold(u.Email, strings.TrimSpace(email))
	})
}

func (r *UserRepository) GetByLoginAccountNumber(_ context.Context, accountNumber string) (domain.User, error) {
	return r.find(func(u domain.User) bool {
		return u.LoginAccountNumber == strings.TrimSpace(accountNumber)
	})
}

func (r *UserRepository) find(match func(domain.User) bool) (domain.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, user := range r.store.users {
		if match(user) {
			return user, nil
		}
	}
	return domain.User{}, commons.ErrRecordNotFound
}

func (s *Store) accountIndex(accountID string) int {
	for i, account := range s.accounts {
		if account.ID == accountID {
			return i
		}
	}
	return -1
}
