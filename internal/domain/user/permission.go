package user

type Permission string

const (
	// Punching
	PermissionAttendancePunch   Permission = "attendance.punch"
	PermissionAttendanceViewOwn Permission = "attendance.view_own"

	// Attendance Management
	PermissionAttendanceViewAll Permission = "attendance.view_all"
	PermissionAttendanceClear   Permission = "attendance.clear"

	// Adjustment Requests
	PermissionAdjustmentCreate Permission = "adjustment.create"
	PermissionAdjustmentReview Permission = "adjustment.review"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleOwner: {
		PermissionAttendancePunch,
		PermissionAttendanceViewOwn,
		PermissionAttendanceViewAll,
		PermissionAttendanceClear,
		PermissionAdjustmentCreate,
		PermissionAdjustmentReview,
	},
	RoleManager: {
		PermissionAttendancePunch,
		PermissionAttendanceViewOwn,
		PermissionAttendanceViewAll,
		PermissionAttendanceClear,
		PermissionAdjustmentCreate,
		PermissionAdjustmentReview,
	},
	RoleEmployee: {
		PermissionAttendancePunch,
		PermissionAttendanceViewOwn,
		PermissionAdjustmentCreate,
	},
	RolePending: {
		// Pending role has no permissions
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}

	return false
}
