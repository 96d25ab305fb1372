package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/response"
	"github.com/go-chi/jwtauth/v5"
)

// RequireEmployee rejects tokens that carry no company_id or employee_id,
// such as accounts still in onboarding.
func RequireEmployee(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.HandleError(w, user.ErrCompanyIDRequired)
			return
		}

		companyID, ok := claims["company_id"].(string)
		if !ok || companyID == "" {
			response.HandleError(w, user.ErrCompanyIDRequired)
			return
		}

		employeeID, ok := claims["employee_id"].(string)
		if !ok || employeeID == "" {
			response.HandleError(w, user.ErrEmployeeIDRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}
