package main

import (
	"context"
	"database/sql"
	"errors"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/api-sage/simple-banking/src/internal/adapter/http/controller"
	"github.com/api-sage/simple-banking/src/internal/adapter/http/middleware"
	"github.com/api-sage/simple-banking/src/internal/adapter/http/router"
	"github.com/api-sage/simple-banking/src/internal/adapter/repository/implementations"
	"github.com/api-sage/simple-banking/src/internal/adapter/repository/memory"
	"github.com/api-sage/simple-banking/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/simple-banking/src/internal/config"
	"github.com/api-sage/simple-banking/src/internal/ledger"
	"github.com/api-sage/simple-banking/src/internal/logger"
	"github.com/api-sage/simple-banking/src/internal/session"
	"github.com/api-sage/simple-banking/src/internal/usecase/processing"
	"github.com/api-sage/simple-banking/src/internal/usecase/services"
	"github.com/api-sage/simple-banking/src/migrations"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"
)

type repositories struct {
	users        repo_interfaces.UserRepository
	accounts     repo_interfaces.AccountRepository
	transactions repo_interfaces.TransactionRepository
	sessions     repo_interfaces.SessionRepository
	db           *sql.DB
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, err := openRepositories(ctx, cfg)
	if err != nil {
		log.Fatalf("open storage: %v", err)
	}
	if repos.db != nil {
		defer repos.db.Close()
	}

	tokens := session.NewManager(cfg.SessionSecret, cfg.SessionTTL)
	validator := ledger.NewValidator(ledger.Limits{
		DepositCeiling:    cfg.DepositCeiling,
		WithdrawalCeiling: cfg.WithdrawalCeiling,
	})

	authService := services.NewAuthService(repos.users, repos.sessions, tokens)
	bankingService := services.NewBankingService(
		repos.accounts,
		repos.transactions,
		validator,
		processing.NewProcessor(cfg.ProcessingDelay, cfg.ProcessingConcurrency),
		cfg.PostingMode == config.PostingSession,
	)
	historyService := services.NewHistoryService(repos.users, repos.accounts, repos.transactions, cfg.RecentTransactions)

	handler := router.New(
		controller.NewAuthController(authService),
		controller.NewBankingController(bankingService),
		controller.NewTransactionController(historyService),
		middleware.SessionAuth(authService),
	)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		// Form submissions hold the request for the processing delay.
		WriteTimeout: cfg.ProcessingDelay + 30*time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("http server listening", logger.Fields{
			"addr":        cfg.HTTPAddr,
			"storage":     cfg.StorageDriver,
			"postingMode": cfg.PostingMode,
		})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ProcessingDelay+10*time.Second)
		defer cancel()
		logger.Info("http server shutting down", nil)
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("http server: %v", err)
	}
}

func openRepositories(ctx context.Context, cfg config.Config) (repositories, error) {
	if cfg.StorageDriver == config.StorageMemory {
		store := memory.NewStore(time.Now)
		if err := memory.Seed(store, bcrypt.DefaultCost); err != nil {
			return repositories{}, err
		}
		return repositories{
			users:        store.Users(),
			accounts:     store.Accounts(),
			transactions: store.Transactions(),
			sessions:     memory.NewSessionRepository(),
		}, nil
	}

	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	db, err := implementations.Open(connectCtx, cfg.DatabaseDSN)
	if err != nil {
		return repositories{}, err
	}

	var migrationsFS fs.FS = migrations.FS
	if dir := cfg.MigrationsPath(); dir != "" {
		migrationsFS = os.DirFS(dir)
	}
	if err := implementations.RunMigrations(connectCtx, db, migrationsFS); err != nil {
		_ = db.Close()
		return repositories{}, err
	}

	return repositories{
		users:        implementations.NewUserRepository(db),
		accounts:     implementations.NewAccountRepository(db),
		transactions: implementations.NewTransactionRepository(db),
		sessions:     implementations.NewSessionRepository(db),
		db:           db,
	}, nil
}
