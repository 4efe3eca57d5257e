package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/api-sage/simple-banking/src/internal/adapter/http/middleware"
	"github.com/api-sage/simple-banking/src/internal/adapter/repository/memory"
	"github.com/api-sage/simple-banking/src/internal/ledger"
	"github.com/api-sage/simple-banking/src/internal/session"
	"github.com/api-sage/simple-banking/src/internal/usecase/processing"
	"github.com/api-sage/simple-banking/src/internal/usecase/services"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Code    string          `json:"code"`
	Data    json.RawMessage `json:"data"`
}

func newTestRouter(t *testing.T) *mux.Router {
	t.Helper()

	store := memory.NewStore(nil)
	require.NoError(t, memory.Seed(store, bcrypt.MinCost))

	auth := services.NewAuthService(store.Users(), memory.NewSessionRepository(), session.NewManager("test-secret", time.Hour))
	banking := services.NewBankingService(
		store.Accounts(),
		store.Transactions(),
		ledger.NewValidator(ledger.DefaultLimits()),
		processing.NewProcessor(0, 0),
		true,
	)
	history := services.NewHistoryService(store.Users(), store.Accounts(), store.Transactions(), 5)

	router := mux.NewRouter()
	authMiddleware := middleware.SessionAuth(auth)
	NewAuthController(auth).RegisterRoutes(router, authMiddleware)
	NewBankingController(banking).RegisterRoutes(router, authMiddleware)
	NewTransactionController(history).RegisterRoutes(router, authMiddleware)
	return router
}

func do(t *testing.T, router http.Handler, method string, path string, token string, body any) (int, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	var out envelope
	if rr.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	}
	return rr.Code, out
}

func login(t *testing.T, router http.Handler) string {
	t.Helper()

	status, resp := do(t, router, http.MethodPost, "/auth/login", "", map[string]string{
		"email":    "demo@bank.com",
		"password": "demo123",
	})
	require.Equal(t, http.StatusOK, status)

	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	require.NotEmpty(t, data.Token)
	return data.Token
}

func TestLoginStatusCodes(t *testing.T) {
	router := newTestRouter(t)

	status, resp := do(t, router, http.MethodPost, "/auth/login", "", map[string]string{"email": "demo@bank.com", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Invalid credentials", resp.Message)

	status, _ = do(t, router, http.MethodPost, "/auth/login", "", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = do(t, router, http.MethodPost, "/auth/login", "", map[string]string{"accountNumber": "1234567890", "pin": "1234"})
	assert.Equal(t, http.StatusOK, status)
}

func TestProtectedRoutesNeedSession(t *testing.T) {
	router := newTestRouter(t)

	for _, path := range []string{"/accounts", "/dashboard", "/transactions"} {
		status, _ := do(t, router, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, status, path)
	}
	status, _ := do(t, router, http.MethodPost, "/deposits", "forged", map[string]string{"accountId": "acc1", "amount": "1"})
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestDepositAndDashboard(t *testing.T) {
	router := newTestRouter(t)
	token := login(t, router)

	status, resp := do(t, router, http.MethodPost, "/deposits", token, map[string]string{"accountId": "acc1", "amount": "100"})
	require.Equal(t, http.StatusCreated, status)
	assert.True(t, resp.Success)

	status, resp = do(t, router, http.MethodGet, "/dashboard", token, nil)
	require.Equal(t, http.StatusOK, status)

	var dashboard struct {
		TotalBalance       string `json:"totalBalance"`
		RecentTransactions []struct {
			Description string `json:"description"`
		} `json:"recentTransactions"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &dashboard))
	assert.Equal(t, "21271.00", dashboard.TotalBalance)
	require.Len(t, dashboard.RecentTransactions, 5)
	assert.Equal(t, "Deposit", dashboard.RecentTransactions[0].Description)
}

func TestRejectionStatusCodes(t *testing.T) {
	router := newTestRouter(t)
	token := login(t, router)

	cases := []struct {
		path   string
		body   map[string]string
		status int
		code   string
	}{
		{"/deposits", map[string]string{"accountId": "acc1"}, http.StatusBadRequest, "MISSING_SELECTION"},
		{"/deposits", map[string]string{"accountId": "acc1", "amount": "-1"}, http.StatusBadRequest, "INVALID_AMOUNT"},
		{"/deposits", map[string]string{"accountId": "acc1", "amount": "20000"}, http.StatusUnprocessableEntity, "LIMIT_EXCEEDED"},
		{"/withdrawals", map[string]string{"accountId": "acc1", "amount": "9999"}, http.StatusUnprocessableEntity, "INSUFFICIENT_FUNDS"},
		{"/transfers", map[string]string{"fromAccountId": "acc1", "toAccountId": "acc1", "amount": "1"}, http.StatusBadRequest, "SAME_ACCOUNT"},
		{"/transfers", map[string]string{"fromAccountId": "acc1", "toAccountId": "acc7", "amount": "1"}, http.StatusNotFound, ""},
	}

	for _, tc := range cases {
		status, resp := do(t, router, http.MethodPost, tc.path, token, tc.body)
		assert.Equal(t, tc.status, status, "%s %v", tc.path, tc.body)
		assert.Equal(t, tc.code, resp.Code, "%s %v", tc.path, tc.body)
		assert.False(t, resp.Success)
	}
}

func TestTransactionsQuery(t *testing.T) {
	router := newTestRouter(t)
	token := login(t, router)

	status, resp := do(t, router, http.MethodGet, "/transactions?type=debit&account=Checking", token, nil)
	require.Equal(t, http.StatusOK, status)

	var history struct {
		Transactions []struct {
			ID int64 `json:"id"`
		} `json:"transactions"`
		Summary struct {
			TotalDebits string `json:"totalDebits"`
			Count       int    `json:"count"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &history))
	assert.Equal(t, 2, history.Summary.Count)
	assert.Equal(t, "127.80", history.Summary.TotalDebits)

	status, _ = do(t, router, http.MethodGet, "/transactions?type=refund", token, nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestLogoutEndsSession(t *testing.T) {
	router := newTestRouter(t)
	token := login(t, router)

	status, _ := do(t, router, http.MethodPost, "/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, status)

	status, _ = do(t, router, http.MethodGet, "/accounts", token, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}
