package models

import "time"

// UserRole is the role stored on the account.
type UserRole string

const (
	RoleProfessor UserRole = "professor"
	RoleGestao    UserRole = "gestao"
)

// User represents an account stored in the users table.
type User struct {
	ID           int64     `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         UserRole  `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// ProfessorSummary is the public projection of a user in administrative reports.
type ProfessorSummary struct {
	ID       int64    `db:"id" json:"id"`
	Username string   `db:"username" json:"username"`
	Role     UserRole `db:"role" json:"role"`
}
