package adaptor

import (
	"encoding/json"
	"net/http"

	"identity-service/internal/dto/request"
	"identity-service/internal/usecase"
	"identity-service/pkg/utils"

	"go.uber.org/zap"
)

type AuthHandler struct {
	service usecase.AuthService
	log     *zap.Logger
}

func NewAuthHandler(service usecase.AuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		log:     log,
	}
}

// Register handles POST /v1/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest

	// Decode request body
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body")
		return
	}

	// Validate request
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseValidationError(w, validationErrors)
		return
	}

	if err := h.service.Register(r.Context(), &req); err != nil {
		writeError(w, h.log, err, "register")
		return
	}

	utils.ResponseCreated(w, map[string]string{
		"message": "Your email has been successfully registered. Please check your email to verify email",
	})
}

// Login handles POST /v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body")
		return
	}

	// Validate request
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseValidationError(w, validationErrors)
		return
	}

	resp, err := h.service.Login(r.Context(), &req)
	if err != nil {
		writeError(w, h.log, err, "login")
		return
	}

	utils.ResponseSuccess(w, resp)
}

// VerifyEmail handles GET /v1/auth/verify-email?token=<token>
func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		utils.ResponseBadRequest(w, "Missing token")
		return
	}

	if err := h.service.VerifyEmail(r.Context(), token); err != nil {
		writeError(w, h.log, err, "verify email")
		return
	}

	utils.ResponseSuccess(w, map[string]string{
		"message": "Email verified successfully",
	})
}
