package service_interfaces

import (
	"context"

	"github.com/api-sage/simple-banking/src/internal/adapter/http/models"
	"github.com/api-sage/simple-banking/src/internal/commons"
	"github.com/api-sage/simple-banking/src/internal/domain"
)

type HistoryService interface {
	GetAccounts(ctx context.Context, sess domain.Session) (commons.Response[[]models.AccountResponse], error)
	GetDashboard(ctx context.Context, sess domain.Session) (commons.Response[models.DashboardResponse], error)
	GetTransactions(ctx context.Context, sess domain.Session, query models.TransactionQuery) (commons.Response[models.TransactionHistoryResponse], error)
}
