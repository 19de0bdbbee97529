package user

import "time"

type Role string

const (
	RoleAdmin    Role = "admin"    // Manages employees and attendance corrections
	RoleEmployee Role = "employee" // Records own attendance
)

type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	EmployeeCode *string
	Position     *string
	Phone        *string
	Address      *string
	City         *string
	ZipCode      *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin checks if user holds the admin capability tag
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
