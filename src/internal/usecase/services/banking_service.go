package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/api-sage/simple-banking/src/internal/adapter/http/models"
	"github.com/api-sage/simple-banking/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/simple-banking/src/internal/commons"
	"github.com/api-sage/simple-banking/src/internal/domain"
	"github.com/api-sage/simple-banking/src/internal/ledger"
	"github.com/api-sage/simple-banking/src/internal/logger"
	"github.com/api-sage/simple-banking/src/internal/usecase/processing"
)

const (
	operationDeposit    = "deposit"
	operationWithdrawal = "withdrawal"
	operationTransfer   = "transfer"

	defaultDepositDescription    = "Deposit"
	defaultWithdrawalDescription = "Withdrawal"

	postingTimeout = 15 * time.Second
)

// BankingService validates form submissions against the current account
// snapshot and, when posting is enabled, records the resulting entries.
type BankingService struct {
	accountRepo     repo_interfaces.AccountRepository
	transactionRepo repo_interfaces.TransactionRepository
	validator       *ledger.Validator
	processor       *processing.Processor
	post            bool
}

func NewBankingService(
	accountRepo repo_interfaces.AccountRepository,
	transactionRepo repo_interfaces.TransactionRepository,
	validator *ledger.Validator,
	processor *processing.Processor,
	post bool,
) *BankingService {
	return &BankingService{
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		validator:       validator,
		processor:       processor,
		post:            post,
	}
}

func (s *BankingService) Deposit(ctx context.Context, sess domain.Session, req models.DepositRequest) (commons.Response[models.PostingResponse], error) {
	logger.Info("banking service deposit request", logger.Fields{
		"payload": logger.SanitizePayload(req),
		"userId":  sess.UserID,
	})

	if err := req.Validate(); err != nil {
		logger.Error("banking service deposit validation failed", err, nil)
		return commons.ErrorResponse[models.PostingResponse]("validation failed", err.Error()), err
	}

	formID := formIDFor(sess, req.FormID, operationDeposit)
	task := processing.Submit(ctx, s.processor, formID, func(ctx context.Context) (models.PostingResponse, error) {
		account, err := s.selectAccount(ctx, sess.UserID, req.AccountID)
		if err != nil {
			return models.PostingResponse{}, err
		}
		if account == nil {
			return models.PostingResponse{}, ledger.ErrMissingSelection
		}
		amount, err := ledger.ParseAmount(req.Amount)
		if err != nil {
			return models.PostingResponse{}, err
		}

		effect, err := s.validator.ValidateDeposit(account, amount)
		if err != nil {
			return models.PostingResponse{}, err
		}
		effect.Entry.Description = describe(req.Description, defaultDepositDescription)

		return s.settle(ctx, formID, []ledger.Effect{effect})
	})

	return s.respond(ctx, operationDeposit, formID, task, "deposit processed successfully")
}

func (s *BankingService) Withdraw(ctx context.Context, sess domain.Session, req models.WithdrawalRequest) (commons.Response[models.PostingResponse], error) {
	logger.Info("banking service withdrawal request", logger.Fields{
		"payload": logger.SanitizePayload(req),
		"userId":  sess.UserID,
	})

	if err := req.Validate(); err != nil {
		logger.Error("banking service withdrawal validation failed", err, nil)
		return commons.ErrorResponse[models.PostingResponse]("validation failed", err.Error()), err
	}

	formID := formIDFor(sess, req.FormID, operationWithdrawal)
	task := processing.Submit(ctx, s.processor, formID, func(ctx context.Context) (models.PostingResponse, error) {
		account, err := s.selectAccount(ctx, sess.UserID, req.AccountID)
		if err != nil {
			return models.PostingResponse{}, err
		}
		if account == nil {
			return models.PostingResponse{}, ledger.ErrMissingSelection
		}
		amount, err := ledger.ParseAmount(req.Amount)
		if err != nil {
			return models.PostingResponse{}, err
		}

		effect, err := s.validator.ValidateWithdrawal(account, amount)
		if err != nil {
			return models.PostingResponse{}, err
		}
		effect.Entry.Description = describe(req.Description, defaultWithdrawalDescription)

		return s.settle(ctx, formID, []ledger.Effect{effect})
	})

	return s.respond(ctx, operationWithdrawal, formID, task, "withdrawal processed successfully")
}

func (s *BankingService) Transfer(ctx context.Context, sess domain.Session, req models.TransferRequest) (commons.Response[models.PostingResponse], error) {
	logger.Info("banking service transfer request", logger.Fields{
		"payload": logger.SanitizePayload(req),
		"userId":  sess.UserID,
	})

	if err := req.Validate(); err != nil {
		logger.Error("banking service transfer validation failed", err, nil)
		return commons.ErrorResponse[models.PostingResponse]("validation failed", err.Error()), err
	}

	formID := formIDFor(sess, req.FormID, operationTransfer)
	task := processing.Submit(ctx, s.processor, formID, func(ctx context.Context) (models.PostingResponse, error) {
		from, err := s.selectAccount(ctx, sess.UserID, req.FromAccountID)
		if err != nil {
			return models.PostingResponse{}, err
		}
		to, err := s.selectAccount(ctx, sess.UserID, req.ToAccountID)
		if err != nil {
			return models.PostingResponse{}, err
		}

		// Blank fields are reported before the same account check.
		if from == nil || to == nil || strings.TrimSpace(req.Amount) == "" {
			return models.PostingResponse{}, ledger.ErrMissingSelection
		}
		if err := s.validator.CheckTransferSelection(from, to); err != nil {
			return models.PostingResponse{}, err
		}
		amount, err := ledger.ParseAmount(req.Amount)
		if err != nil {
			return models.PostingResponse{}, err
		}

		effect, err := s.validator.ValidateTransfer(from, to, amount)
		if err != nil {
			return models.PostingResponse{}, err
		}
		effect.From.Entry.Description = describe(req.Description, "Transfer to "+to.DisplayName())
		effect.To.Entry.Description = describe(req.Description, "Transfer from "+from.DisplayName())

		return s.settle(ctx, formID, []ledger.Effect{effect.From, effect.To})
	})

	return s.respond(ctx, operationTransfer, formID, task, "transfer processed successfully")
}

// settle waits out the processing time and then posts the effects as one
// batch, or just reports them when posting is disabled. Once the wait is over
// the post runs to completion even if the caller has gone away.
func (s *BankingService) settle(ctx context.Context, formID string, effects []ledger.Effect) (models.PostingResponse, error) {
	if err := s.processor.Settle(ctx); err != nil {
		return models.PostingResponse{}, err
	}

	entries := make([]domain.Transaction, 0, len(effects))
	changes := make([]models.BalanceChange, 0, len(effects))
	for _, effect := range effects {
		entries = append(entries, effect.Entry)
		changes = append(changes, toBalanceChange(effect))
	}

	if s.post {
		postCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), postingTimeout)
		defer cancel()

		posted, err := s.transactionRepo.Post(postCtx, entries)
		if err != nil {
			if errors.Is(err, commons.ErrInsufficientBalance) {
				return models.PostingResponse{}, ledger.ErrInsufficientFunds
			}
			return models.PostingResponse{}, err
		}
		entries = posted

		changes = changes[:0]
		for _, entry := range posted {
			changes = append(changes, toPostedBalanceChange(entry))
		}
	}

	return models.PostingResponse{
		FormID:       formID,
		Posted:       s.post,
		Changes:      changes,
		Transactions: toTransactionResponses(entries),
	}, nil
}

func (s *BankingService) respond(
	ctx context.Context,
	operation string,
	formID string,
	task *processing.Task[models.PostingResponse],
	successMessage string,
) (commons.Response[models.PostingResponse], error) {
	// The task gives up on its own while ctx can still stop it, so waiting
	// past cancellation reports what actually happened to the form.
	result, err := task.Wait(context.WithoutCancel(ctx))
	if err == nil {
		logger.Info("banking service "+operation+" success", logger.Fields{
			"formId": formID,
			"posted": result.Posted,
		})
		return commons.SuccessResponse(successMessage, result), nil
	}

	fields := logger.Fields{"formId": formID}

	var rejection *ledger.RejectionError
	switch {
	case errors.As(err, &rejection):
		logger.Warn("banking service "+operation+" rejected", err, fields)
		return commons.RejectionResponse[models.PostingResponse](string(rejection.Code), rejection.Message), err
	case errors.Is(err, processing.ErrSubmissionInFlight):
		logger.Warn("banking service "+operation+" already in flight", err, fields)
		return commons.ErrorResponse[models.PostingResponse]("submission in progress", "This form is already being processed"), err
	case errors.Is(err, commons.ErrRecordNotFound):
		logger.Warn("banking service "+operation+" account not found", err, fields)
		return commons.ErrorResponse[models.PostingResponse]("account not found", "Account not found"), err
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		logger.Warn("banking service "+operation+" abandoned", err, fields)
		return commons.ErrorResponse[models.PostingResponse]("request cancelled", "The request ended before processing finished"), err
	default:
		logger.Error("banking service "+operation+" failed", err, fields)
		return commons.ErrorResponse[models.PostingResponse]("failed to process "+operation, "Unable to process "+operation+" right now"), err
	}
}

// selectAccount returns nil for a blank selection.
func (s *BankingService) selectAccount(ctx context.Context, userID string, accountID string) (*domain.Account, error) {
	accountID = strings.TrimSpace(accountID)
	if accountID == "" {
		return nil, nil
	}

	account, err := s.accountRepo.GetByID(ctx, userID, accountID)
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func formIDFor(sess domain.Session, formID string, operation string) string {
	formID = strings.TrimSpace(formID)
	if formID == "" {
		return sess.ID + ":" + operation
	}
	// Scoped to the session so one user cannot block another's form.
	return sess.ID + ":" + formID
}

func describe(given string, fallback string) string {
	if trimmed := strings.TrimSpace(given); trimmed != "" {
		return trimmed
	}
	return fallback
}
