package model

import "time"

// Role names stored in User.role.
const (
	RoleAdmin         = "admin"
	RoleShelterWorker = "shelter_worker"
	RoleAdopter       = "adopter"
	RoleGeneral       = "general"
)

// Roles lists every role in privilege order, highest first.
var Roles = []string{RoleAdmin, RoleShelterWorker, RoleAdopter, RoleGeneral}

// ValidRole reports whether r is one of the known roles.
func ValidRole(r string) bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

// rank is the position of r in Roles; unknown roles rank below every known one.
func rank(r string) int {
	for i, known := range Roles {
		if r == known {
			return i
		}
	}
	return len(Roles)
}

// Covers reports whether a user holding held already has role or a role
// above it, so granting role would be a no-op or a demotion.
func Covers(held, role string) bool {
	return rank(held) <= rank(role)
}

// User mirrors the `User` table.  The password hash never leaves the
// database: it is computed and compared there with SHA2(?, 256).
type User struct {
	ID        uint64    `json:"user_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Phone     *string   `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// UserSummary is a row of the admin user list, with application counts.
type UserSummary struct {
	User
	ApprovedApplications int `json:"approved_applications"`
	TotalApplications    int `json:"total_applications"`
}

// UserOption is an entry of an adopter dropdown.
type UserOption struct {
	ID   uint64 `json:"user_id"`
	Name string `json:"name"`
}

// ShelterWorker maps a user to the worker identity used as approved_by.
type ShelterWorker struct {
	WorkerID  uint64 `json:"worker_id"`
	UserID    uint64 `json:"user_id"`
	ShelterID uint64 `json:"shelter_id"`
}

// WorkerMapping is a ShelterWorker row with the user's identity, shown to
// admins so they can tell staff which worker id to approve with.
type WorkerMapping struct {
	ShelterWorker
	Name        string `json:"name"`
	Email       string `json:"email"`
	ShelterName string `json:"shelter_name"`
}
