package models

import "time"

// AccountRole represents the available operator roles.
type AccountRole string

const (
	RoleAdmin   AccountRole = "admin"
	RoleManager AccountRole = "manager"
	RoleUser    AccountRole = "user"
)

// ValidRole reports whether the value belongs to the role set.
func ValidRole(value string) bool {
	switch AccountRole(value) {
	case RoleAdmin, RoleManager, RoleUser:
		return true
	}
	return false
}

// Account represents a human operator stored in the accounts table.
// The password hash is never serialized.
type Account struct {
	ID           int64       `db:"id" json:"id"`
	Username     string      `db:"username" json:"username"`
	Email        string      `db:"email" json:"email"`
	PasswordHash string      `db:"password_hash" json:"-"`
	FullName     string      `db:"full_name" json:"full_name"`
	Role         AccountRole `db:"role" json:"role"`
	Department   string      `db:"department" json:"department"`
	Phone        string      `db:"phone" json:"phone"`
	IsActive     bool        `db:"is_active" json:"is_active"`
	CreatedAt    time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time   `db:"updated_at" json:"updated_at"`
}
