package controller

import (
	"net/http"
	"time"

	"github.com/api-sage/simple-banking/src/internal/adapter/http/models"
	"github.com/api-sage/simple-banking/src/internal/usecase/service_interfaces"
	"github.com/gorilla/mux"
)

type TransactionController struct {
	service service_interfaces.HistoryService
}

func NewTransactionController(service service_interfaces.HistoryService) *TransactionController {
	return &TransactionController{service: service}
}

func (c *TransactionController) RegisterRoutes(router *mux.Router, authMiddleware func(http.Handler) http.Handler) {
	router.Handle("/accounts", protect(c.getAccounts, authMiddleware)).Methods(http.MethodGet)
	router.Handle("/dashboard", protect(c.getDashboard, authMiddleware)).Methods(http.MethodGet)
	router.Handle("/transactions", protect(c.getTransactions, authMiddleware)).Methods(http.MethodGet)
}

func (c *TransactionController) getAccounts(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	sess, ok := requireSession[[]models.AccountResponse](w, r)
	if !ok {
		return
	}

	response, err := c.service.GetAccounts(r.Context(), sess)
	status := statusFor(response, err)
	if err != nil {
		logError(r, err, nil)
	}
	logResponse(r, status, response, start)
	writeJSON(w, status, response)
}

func (c *TransactionController) getDashboard(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	sess, ok := requireSession[models.DashboardResponse](w, r)
	if !ok {
		return
	}

	response, err := c.service.GetDashboard(r.Context(), sess)
	status := statusFor(response, err)
	if err != nil {
		logError(r, err, nil)
	}
	logResponse(r, status, response, start)
	writeJSON(w, status, response)
}

func (c *TransactionController) getTransactions(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	values := r.URL.Query()
	query := models.TransactionQuery{
		Type:    values.Get("type"),
		Account: values.Get("account"),
		Search:  values.Get("search"),
	}
	logRequest(r, query)

	sess, ok := requireSession[models.TransactionHistoryResponse](w, r)
	if !ok {
		return
	}

	response, err := c.service.GetTransactions(r.Context(), sess, query)
	status := statusFor(response, err)
	if err != nil {
		logError(r, err, nil)
	}
	logResponse(r, status, response, start)
	writeJSON(w, status, response)
}
