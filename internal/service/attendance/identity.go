package attendance

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
)

// identity is the caller as described by the verified access token.
type identity struct {
	companyID  string
	employeeID string
	userID     string
	role       user.Role
}

func (i identity) isManager() bool {
	return i.role.IsManager()
}

func identityFromContext(ctx context.Context) (identity, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return identity{}, fmt.Errorf("failed to extract claims from context: %w", err)
	}

	companyID, ok := claims["company_id"].(string)
	if !ok || companyID == "" {
		return identity{}, fmt.Errorf("company_id claim is missing or invalid: %w", attendance.ErrUnauthorized)
	}

	employeeID, ok := claims["employee_id"].(string)
	if !ok || employeeID == "" {
		return identity{}, fmt.Errorf("employee_id claim is missing or invalid: %w", attendance.ErrUnauthorized)
	}

	userID, _ := claims["user_id"].(string)
	role, _ := claims["role"].(string)

	return identity{
		companyID:  companyID,
		employeeID: employeeID,
		userID:     userID,
		role:       user.Role(role),
	}, nil
}
