package middleware

import (
	"net/http"
	"strings"

	"identity-service/pkg/token"
	"identity-service/pkg/utils"

	"go.uber.org/zap"
)

// Auth validates the bearer session token and injects the authenticated
// user's id and email into the request context.
func Auth(jwtSecret []byte, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				utils.ResponseUnauthorized(w, "Missing authorization token")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				utils.ResponseUnauthorized(w, "Invalid token format. Use: Bearer <token>")
				return
			}

			claims, err := token.ParseSessionToken(strings.TrimSpace(parts[1]), jwtSecret)
			if err != nil {
				logger.Warn("Invalid session token", zap.Error(err))
				utils.ResponseUnauthorized(w, "Invalid or expired token")
				return
			}

			userID, err := claims.UserID()
			if err != nil {
				logger.Warn("Session token with non-numeric subject", zap.String("sub", claims.Subject))
				utils.ResponseUnauthorized(w, "Invalid or expired token")
				return
			}

			ctx := utils.SetUserContext(r.Context(), userID, claims.Email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
