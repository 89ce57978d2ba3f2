package models

import "time"

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleApprover Role = "approver"
	RoleUser     Role = "user"
)

// DefaultRole is assigned when registration does not name one.
const DefaultRole = RoleUser

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleApprover, RoleUser:
		return true
	}
	return false
}

type User struct {
	ID           string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}
