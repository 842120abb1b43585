package wire

import (
	"identity-service/internal/adaptor"
	"identity-service/pkg/middleware"
	"identity-service/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// wireUser configures profile routes behind bearer-token auth
func wireUser(r chi.Router, userHandler *adaptor.UserHandler, config *utils.Config, log *zap.Logger) {
	auth := middleware.Auth([]byte(config.JWT.Secret), log)

	r.Route("/v1/users", func(r chi.Router) {
		r.With(auth).Get("/profile", userHandler.GetProfile)
		r.With(auth).Put("/profile", userHandler.UpdateProfile)
	})
}
