package models

import "time"

// UserRole is the single role carried by a user and by access token claims.
// Wire values match what the web client sends at registration.
type UserRole string

const (
	RoleCitizen UserRole = "USER"
	RoleWorker  UserRole = "WORKER"
	RoleAdmin   UserRole = "ADMIN"
)

// ParseRole maps a wire value to a known role. Unknown values are rejected
// so a forged or stale claim never falls back to a default role.
func ParseRole(s string) (UserRole, bool) {
	switch UserRole(s) {
	case RoleCitizen, RoleWorker, RoleAdmin:
		return UserRole(s), true
	}
	return "", false
}

// Department routes reports to the crew responsible for them. Only workers
// carry a department.
type Department string

const (
	DepartmentWasteManagement    Department = "WASTE_MANAGEMENT"
	DepartmentParkingEnforcement Department = "PARKING_ENFORCEMENT"
	DepartmentRoadMaintenance    Department = "ROAD_MAINTENANCE"
)

// Departments lists every known department.
var Departments = []Department{
	DepartmentWasteManagement,
	DepartmentParkingEnforcement,
	DepartmentRoadMaintenance,
}

func ParseDepartment(s string) (Department, bool) {
	for _, d := range Departments {
		if Department(s) == d {
			return d, true
		}
	}
	return "", false
}

type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         UserRole
	MobileNumber string
	AvatarURL    *string
	// Workers register inactive and are switched on by admin approval.
	Active     bool
	Department *Department
	IDCardURL  *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
