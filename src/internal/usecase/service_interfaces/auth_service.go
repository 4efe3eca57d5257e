package service_interfaces

import (
	"context"

	"github.com/api-sage/simple-banking/src/internal/adapter/http/models"
	"github.com/api-sage/simple-banking/src/internal/commons"
	"github.com/api-sage/simple-banking/src/internal/domain"
)

type AuthService interface {
	Login(ctx context.Context, req models.LoginRequest) (commons.Response[models.LoginResponse], error)
	Logout(ctx context.Context, sess domain.Session) (commons.Response[models.LogoutResponse], error)
	Authenticate(ctx context.Context, token string) (domain.Session, error)
}
