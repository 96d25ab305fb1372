package user

type Role string

const (
	RoleOwner    Role = "owner"    // Company owner - full access
	RoleManager  Role = "manager"  // Can clear attendance and review adjustments
	RoleEmployee Role = "employee" // Regular employee
	RolePending  Role = "pending"  // Still in onboarding
)

// IsManager checks if role is manager or owner
func (r Role) IsManager() bool {
	return r == RoleManager || r == RoleOwner
}
