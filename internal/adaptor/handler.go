package adaptor

import (
	"errors"
	"net/http"

	"identity-service/internal/apperr"
	"identity-service/internal/usecase"
	"identity-service/pkg/utils"

	"go.uber.org/zap"
)

// Handler groups all HTTP handlers for wiring
type Handler struct {
	Auth *AuthHandler
	User *UserHandler
}

func NewHandler(service *usecase.Service, logger *zap.Logger) *Handler {
	return &Handler{
		Auth: NewAuthHandler(service.Auth, logger),
		User: NewUserHandler(service.User, logger),
	}
}

// writeError renders a service error through the kind-to-status mapping
// table. Errors outside the taxonomy, and internal kinds, get the fixed
// generic 500 body; raw error text never reaches the client.
func writeError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) ||
		appErr.Kind == apperr.PersistenceFailure ||
		appErr.Kind == apperr.DispatchFailure {
		log.Error("Failed to "+operation, zap.Error(err))
		utils.ResponseInternalError(w)
		return
	}

	log.Warn(operation+" failed",
		zap.String("kind", apperr.TypeName(appErr.Kind)),
		zap.Error(err),
	)
	utils.ResponseError(w, apperr.HTTPStatus(appErr.Kind), apperr.TypeName(appErr.Kind), appErr.Message)
}
