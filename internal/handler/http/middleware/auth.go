package middleware

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/response"
	"github.com/go-chi/jwtauth/v5"
)

// AuthRequired admits requests whose token passed jwtauth.Verifier and is an
// access token. Refresh or otherwise typed tokens are rejected.
func AuthRequired(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil || token == nil {
			slog.Debug("Rejected request without a verified token", "path", r.URL.Path, "error", err)
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}

		if tokenType, _ := claims["type"].(string); tokenType != "access" {
			slog.Debug("Rejected non-access token", "path", r.URL.Path, "type", claims["type"])
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}

		next.ServeHTTP(w, r)
	})
}
