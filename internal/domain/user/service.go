package user

import "context"

// UserService covers the admin employee-roster operations plus the
// authenticated user's own profile view.
type UserService interface {
	Me(ctx context.Context) (UserResponse, error)
	ListEmployees(ctx context.Context) ([]UserResponse, error)
	GetEmployee(ctx context.Context, id string) (UserResponse, error)
	UpdateEmployee(ctx context.Context, req UpdateUserRequest) (UserResponse, error)
	DeleteEmployee(ctx context.Context, id string) error
}
