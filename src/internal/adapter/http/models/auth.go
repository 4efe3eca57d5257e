package models

import (
	"errors"
	"strings"
)

// LoginRequest accepts either email and password or account number and PIN.
type LoginRequest struct {
	Email         string `json:"email,omitempty"`
	Password      string `json:"password,omitempty"`
	AccountNumber string `json:"accountNumber,omitempty"`
	PIN           string `json:"pin,omitempty"`
}

func (r LoginRequest) UsesAccountNumber() bool {
	return strings.TrimSpace(r.Email) == "" && strings.TrimSpace(r.AccountNumber) != ""
}

func (r LoginRequest) Validate() error {
	var errs []string

	email := strings.TrimSpace(r.Email)
	accountNumber := strings.TrimSpace(r.AccountNumber)

	switch {
	case email == "" && accountNumber == "":
		errs = append(errs, "email or accountNumber is required")
	case email != "" && accountNumber != "":
		errs = append(errs, "use either email or accountNumber, not both")
	case email != "":
		if !strings.Contains(email, "@") {
			errs = append(errs, "email is invalid")
		}
		if r.Password == "" {
			errs = append(errs, "password is required")
		}
	default:
		for _, ch := range accountNumber {
			if ch < '0' || ch > '9' {
				errs = append(errs, "accountNumber must contain digits only")
				break
			}
		}
		if strings.TrimSpace(r.PIN) == "" {
			errs = append(errs, "pin is required")
		}
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

type UserResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type LoginResponse struct {
	Token     string       `json:"token"`
	TokenType string       `json:"tokenType"`
	ExpiresAt string       `json:"expiresAt"`
	User      UserResponse `json:"user"`
}

type LogoutResponse struct {
	SessionID string `json:"sessionId"`
}
