package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/api-sage/simple-banking/src/internal/adapter/http/models"
	"github.com/api-sage/simple-banking/src/internal/commons"
	"github.com/api-sage/simple-banking/src/internal/domain"
	"github.com/api-sage/simple-banking/src/internal/usecase/service_interfaces"
	"github.com/gorilla/mux"
)

type BankingController struct {
	service service_interfaces.BankingService
}

func NewBankingController(service service_interfaces.BankingService) *BankingController {
	return &BankingController{service: service}
}

func (c *BankingController) RegisterRoutes(router *mux.Router, authMiddleware func(http.Handler) http.Handler) {
	router.Handle("/deposits", protect(c.deposit, authMiddleware)).Methods(http.MethodPost)
	router.Handle("/withdrawals", protect(c.withdraw, authMiddleware)).Methods(http.MethodPost)
	router.Handle("/transfers", protect(c.transfer, authMiddleware)).Methods(http.MethodPost)
}

func (c *BankingController) deposit(w http.ResponseWriter, r *http.Request) {
	handlePosting(w, r, c.service.Deposit)
}

func (c *BankingController) withdraw(w http.ResponseWriter, r *http.Request) {
	handlePosting(w, r, c.service.Withdraw)
}

func (c *BankingController) transfer(w http.ResponseWriter, r *http.Request) {
	handlePosting(w, r, c.service.Transfer)
}

// handlePosting decodes a form request of type Req and hands it to call.
// Accepted operations answer 201.
func handlePosting[Req any](
	w http.ResponseWriter,
	r *http.Request,
	call func(context.Context, domain.Session, Req) (commons.Response[models.PostingResponse], error),
) {
	start := time.Now()

	sess, ok := requireSession[models.PostingResponse](w, r)
	if !ok {
		return
	}

	var req Req
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		writeJSON(w, http.StatusBadRequest, commons.ErrorResponse[models.PostingResponse]("invalid request body", err.Error()))
		return
	}
	logRequest(r, req)

	response, err := call(r.Context(), sess, req)
	if err != nil {
		status := statusFor(response, err)
		logError(r, err, nil)
		logResponse(r, status, response, start)
		writeJSON(w, status, response)
		return
	}

	logResponse(r, http.StatusCreated, response, start)
	writeJSON(w, http.StatusCreated, response)
}
