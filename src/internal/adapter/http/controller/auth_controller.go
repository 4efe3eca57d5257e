package controller

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/api-sage/simple-banking/src/internal/adapter/http/models"
	"github.com/api-sage/simple-banking/src/internal/commons"
	"github.com/api-sage/simple-banking/src/internal/usecase/service_interfaces"
	"github.com/gorilla/mux"
)

type AuthController struct {
	service service_interfaces.AuthService
}

func NewAuthController(service service_interfaces.AuthService) *AuthController {
	return &AuthController{service: service}
}

func (c *AuthController) RegisterRoutes(router *mux.Router, authMiddleware func(http.Handler) http.Handler) {
	router.HandleFunc("/auth/login", c.login).Methods(http.MethodPost)
	router.Handle("/auth/logout", protect(c.logout, authMiddleware)).Methods(http.MethodPost)
}

func (c *AuthController) login(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		writeJSON(w, http.StatusBadRequest, commons.ErrorResponse[models.LoginResponse]("invalid request body", err.Error()))
		return
	}
	logRequest(r, req)

	if err := req.Validate(); err != nil {
		response := commons.ErrorResponse[models.LoginResponse](validationFailed, err.Error())
		logResponse(r, http.StatusBadRequest, response, start)
		writeJSON(w, http.StatusBadRequest, response)
		return
	}

	response, err := c.service.Login(r.Context(), req)
	status := statusFor(response, err)
	if err != nil {
		logError(r, err, nil)
	}
	logResponse(r, status, response, start)
	writeJSON(w, status, response)
}

func (c *AuthController) logout(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	sess, ok := requireSession[models.LogoutResponse](w, r)
	if !ok {
		return
	}

	response, err := c.service.Logout(r.Context(), sess)
	status := statusFor(response, err)
	if err != nil {
		logError(r, err, nil)
	}
	logResponse(r, status, response, start)
	writeJSON(w, status, response)
}
