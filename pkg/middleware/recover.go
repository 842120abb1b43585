package middleware

import (
	"net/http"

	"go.uber.org/zap"
)

// Recover middleware maps panics to the fixed generic 500 body
func Recover(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("PANIC recovered",
						zap.Any("error", err),
						zap.String("path", r.URL.Path),
						zap.String("method", r.Method),
						zap.Stack("stack"),
					)

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					w.Write([]byte(`{"error":{"type":"InternalServerError","message":"An unexpected error occurred."}}`))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
