package service_interfaces

import (
	"context"

	"github.com/api-sage/simple-banking/src/internal/adapter/http/models"
	"github.com/api-sage/simple-banking/src/internal/commons"
	"github.com/api-sage/simple-banking/src/internal/domain"
)

type BankingService interface {
	Deposit(ctx context.Context, sess domain.Session, req models.DepositRequest) (commons.Response[models.PostingResponse], error)
	Withdraw(ctx context.Context, sess domain.Session, req models.WithdrawalRequest) (commons.Response[models.PostingResponse], error)
	Transfer(ctx context.Context, sess domain.Session, req models.TransferRequest) (commons.Response[models.PostingResponse], error)
}
