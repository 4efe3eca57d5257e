package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/api-sage/simple-banking/src/internal/adapter/http/models"
	"github.com/api-sage/simple-banking/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/simple-banking/src/internal/commons"
	"github.com/api-sage/simple-banking/src/internal/domain"
	"github.com/api-sage/simple-banking/src/internal/logger"
	"github.com/api-sage/simple-banking/src/internal/session"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	userRepo    repo_interfaces.UserRepository
	sessionRepo repo_interfaces.SessionRepository
	tokens      *session.Manager
	now         func() time.Time
}

func NewAuthService(
	userRepo repo_interfaces.UserRepository,
	sessionRepo repo_interfaces.SessionRepository,
	tokens *session.Manager,
) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		tokens:      tokens,
		now:         time.Now,
	}
}

func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (commons.Response[models.LoginResponse], error) {
	logger.Info("auth service login request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		logger.Error("auth service login validation failed", err, nil)
		return commons.ErrorResponse[models.LoginResponse]("validation failed", err.Error()), err
	}

	user, err := s.verifyCredentials(ctx, req)
	if err != nil {
		if errors.Is(err, commons.ErrInvalidCredentials) {
			logger.Warn("auth service login rejected", err, nil)
			return commons.ErrorResponse[models.LoginResponse](commons.ErrInvalidCredentials.Error()), err
		}
		logger.Error("auth service login lookup failed", err, nil)
		return commons.ErrorResponse[models.LoginResponse]("failed to sign in", "Unable to sign in right now"), err
	}

	sess, token, err := s.tokens.Issue(user.ID)
	if err != nil {
		logger.Error("auth service issue token failed", err, logger.Fields{
			"userId": user.ID,
		})
		return commons.ErrorResponse[models.LoginResponse]("failed to sign in", "Unable to sign in right now"), err
	}

	if err := s.sessionRepo.Create(ctx, sess); err != nil {
		logger.Error("auth service create session failed", err, logger.Fields{
			"userId": user.ID,
		})
		return commons.ErrorResponse[models.LoginResponse]("failed to sign in", "Unable to sign in right now"), err
	}

	response := models.LoginResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresAt: sess.ExpiresAt.Format(time.RFC3339),
		User: models.UserResponse{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
		},
	}

	logger.Info("auth service login success", logger.Fields{
		"userId":    user.ID,
		"sessionId": sess.ID,
	})

	return commons.SuccessResponse("signed in successfully", response), nil
}

// verifyCredentials collapses unknown users and wrong secrets into
// commons.ErrInvalidCredentials so callers cannot tell them apart.
func (s *AuthService) verifyCredentials(ctx context.Context, req models.LoginRequest) (domain.User, error) {
	var (
		user   domain.User
		err    error
		hash   string
		secret string
	)

	if req.UsesAccountNumber() {
		user, err = s.userRepo.GetByLoginAccountNumber(ctx, strings.TrimSpace(req.AccountNumber))
		hash, secret = user.PinHash, strings.TrimSpace(req.PIN)
	} else {
		user, err = s.userRepo.GetByEmail(ctx, strings.TrimSpace(req.Email))
		hash, secret = user.PasswordHash, req.Password
	}
	if err != nil {
		if errors.Is(err, commons.ErrRecordNotFound) {
			return domain.User{}, commons.ErrInvalidCredentials
		}
		return domain.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)); err != nil {
		return domain.User{}, commons.ErrInvalidCredentials
	}

	return user, nil
}

func (s *AuthService) Logout(ctx context.Context, sess domain.Session) (commons.Response[models.LogoutResponse], error) {
	logger.Info("auth service logout request", logger.Fields{
		"sessionId": sess.ID,
		"userId":    sess.UserID,
	})

	if err := s.sessionRepo.Delete(ctx, sess.ID); err != nil {
		if errors.Is(err, commons.ErrSessionNotFound) {
			return commons.ErrorResponse[models.LogoutResponse]("session not found", "Session has already ended"), err
		}
		logger.Error("auth service logout failed", err, logger.Fields{
			"sessionId": sess.ID,
		})
		return commons.ErrorResponse[models.LogoutResponse]("failed to sign out", "Unable to sign out right now"), err
	}

	logger.Info("auth service logout success", logger.Fields{
		"sessionId": sess.ID,
	})

	return commons.SuccessResponse("signed out successfully", models.LogoutResponse{SessionID: sess.ID}), nil
}

// Authenticate resolves a bearer token to its live session. A well signed
// token whose session was logged out is rejected.
func (s *AuthService) Authenticate(ctx context.Context, token string) (domain.Session, error) {
	claimed, err := s.tokens.Parse(token)
	if err != nil {
		return domain.Session{}, err
	}

	stored, err := s.sessionRepo.Get(ctx, claimed.ID)
	if err != nil {
		return domain.Session{}, err
	}
	if stored.UserID != claimed.UserID {
		return domain.Session{}, fmt.Errorf("%w: subject mismatch", session.ErrInvalidToken)
	}
	if stored.Expired(s.now()) {
		return domain.Session{}, fmt.Errorf("%w: session expired", session.ErrInvalidToken)
	}

	return stored, nil
}
