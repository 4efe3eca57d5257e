package services

import (
	"context"
	"errors"
	"strings"

	"github.com/api-sage/simple-banking/src/internal/adapter/http/models"
	"github.com/api-sage/simple-banking/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/simple-banking/src/internal/commons"
	"github.com/api-sage/simple-banking/src/internal/domain"
	"github.com/api-sage/simple-banking/src/internal/ledger"
	"github.com/api-sage/simple-banking/src/internal/logger"
	"golang.org/x/sync/errgroup"
)

type HistoryService struct {
	userRepo        repo_interfaces.UserRepository
	accountRepo     repo_interfaces.AccountRepository
	transactionRepo repo_interfaces.TransactionRepository
	recent          int
}

func NewHistoryService(
	userRepo repo_interfaces.UserRepository,
	accountRepo repo_interfaces.AccountRepository,
	transactionRepo repo_interfaces.TransactionRepository,
	recent int,
) *HistoryService {
	return &HistoryService{
		userRepo:        userRepo,
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		recent:          recent,
	}
}

func (s *HistoryService) GetAccounts(ctx context.Context, sess domain.Session) (commons.Response[[]models.AccountResponse], error) {
	logger.Info("history service get accounts request", logger.Fields{
		"userId": sess.UserID,
	})

	accounts, err := s.accountRepo.ListByUserID(ctx, sess.UserID)
	if err != nil {
		logger.Error("history service get accounts failed", err, logger.Fields{
			"userId": sess.UserID,
		})
		return commons.ErrorResponse[[]models.AccountResponse]("failed to get accounts", "Unable to fetch accounts right now"), err
	}

	logger.Info("history service get accounts success", logger.Fields{
		"userId": sess.UserID,
		"count":  len(accounts),
	})

	return commons.SuccessResponse("accounts fetched successfully", toAccountResponses(accounts)), nil
}

// GetDashboard loads the user, accounts and transactions concurrently.
func (s *HistoryService) GetDashboard(ctx context.Context, sess domain.Session) (commons.Response[models.DashboardResponse], error) {
	logger.Info("history service get dashboard request", logger.Fields{
		"userId": sess.UserID,
	})

	var (
		user         domain.User
		accounts     []domain.Account
		transactions []domain.Transaction
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		user, err = s.userRepo.GetByID(gctx, sess.UserID)
		return err
	})
	g.Go(func() error {
		var err error
		accounts, err = s.accountRepo.ListByUserID(gctx, sess.UserID)
		return err
	})
	g.Go(func() error {
		var err error
		transactions, err = s.transactionRepo.ListByUserID(gctx, sess.UserID)
		return err
	})

	if err := g.Wait(); err != nil {
		logger.Error("history service get dashboard failed", err, logger.Fields{
			"userId": sess.UserID,
		})
		if errors.Is(err, commons.ErrRecordNotFound) {
			return commons.ErrorResponse[models.DashboardResponse]("user not found", "User not found"), err
		}
		return commons.ErrorResponse[models.DashboardResponse]("failed to get dashboard", "Unable to fetch dashboard right now"), err
	}

	response := models.DashboardResponse{
		UserName:           user.Name,
		TotalBalance:       money(ledger.TotalBalance(accounts)),
		Accounts:           toAccountResponses(accounts),
		RecentTransactions: toTransactionResponses(ledger.RecentTransactions(transactions, s.recent)),
	}

	logger.Info("history service get dashboard success", logger.Fields{
		"userId":   sess.UserID,
		"accounts": len(accounts),
	})

	return commons.SuccessResponse("dashboard fetched successfully", response), nil
}

func (s *HistoryService) GetTransactions(ctx context.Context, sess domain.Session, query models.TransactionQuery) (commons.Response[models.TransactionHistoryResponse], error) {
	logger.Info("history service get transactions request", logger.Fields{
		"userId": sess.UserID,
		"query":  logger.SanitizePayload(query),
	})

	if err := query.Validate(); err != nil {
		logger.Error("history service get transactions validation failed", err, nil)
		return commons.ErrorResponse[models.TransactionHistoryResponse]("validation failed", err.Error()), err
	}

	transactions, err := s.transactionRepo.ListByUserID(ctx, sess.UserID)
	if err != nil {
		logger.Error("history service get transactions failed", err, logger.Fields{
			"userId": sess.UserID,
		})
		return commons.ErrorResponse[models.TransactionHistoryResponse]("failed to get transactions", "Unable to fetch transactions right now"), err
	}

	filtered := ledger.FilterTransactions(transactions, ledger.Criteria{
		Type:       strings.TrimSpace(query.Type),
		Account:    strings.TrimSpace(query.Account),
		SearchText: query.Search,
	})
	summary := ledger.Summarize(filtered)

	response := models.TransactionHistoryResponse{
		Transactions: toTransactionResponses(filtered),
		Summary: models.TransactionSummaryResponse{
			TotalCredits: money(summary.TotalCredits),
			TotalDebits:  money(summary.TotalDebits),
			NetChange:    money(summary.NetChange),
			Count:        summary.Count,
		},
	}

	logger.Info("history service get transactions success", logger.Fields{
		"userId": sess.UserID,
		"count":  summary.Count,
	})

	return commons.SuccessResponse("transactions fetched successfully", response), nil
}
