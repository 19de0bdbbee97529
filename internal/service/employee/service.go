package employee

import (
	"context"
	"fmt"
	"time"

	"github.com/attendly/attendly-backend-go/internal/domain/user"
	"github.com/attendly/attendly-backend-go/internal/pkg/database"
	"github.com/go-chi/jwtauth/v5"
)

type EmployeeServiceImpl struct {
	db *database.DB
	user.UserRepository
}

func NewEmployeeService(db *database.DB, userRepository user.UserRepository) user.UserService {
	return &EmployeeServiceImpl{
		db:             db,
		UserRepository: userRepository,
	}
}

func toUserResponse(u user.User) user.UserResponse {
	return user.UserResponse{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Role:         string(u.Role),
		EmployeeCode: u.EmployeeCode,
		Position:     u.Position,
		Phone:        u.Phone,
		Address:      u.Address,
		City:         u.City,
		ZipCode:      u.ZipCode,
		CreatedAt:    u.CreatedAt.Format(time.RFC3339),
	}
}

// Me implements user.UserService. Identity comes from the verified JWT
// claims, so any authenticated user can read their own profile.
func (s *EmployeeServiceImpl) Me(ctx context.Context) (user.UserResponse, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return user.UserResponse{}, fmt.Errorf("failed to extract claims from context: %w", err)
	}
	id, ok := claims["user_id"].(string)
	if !ok || id == "" {
		return user.UserResponse{}, fmt.Errorf("user_id claim is missing or invalid")
	}

	u, err := s.UserRepository.GetByID(ctx, id)
	if err != nil {
		return user.UserResponse{}, err
	}
	return toUserResponse(u), nil
}

// ListEmployees implements user.UserService.
func (s *EmployeeServiceImpl) ListEmployees(ctx context.Context) ([]user.UserResponse, error) {
	employees, err := s.UserRepository.ListByRole(ctx, user.RoleEmployee)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	responses := make([]user.UserResponse, 0, len(employees))
	for _, u := range employees {
		responses = append(responses, toUserResponse(u))
	}
	return responses, nil
}

// GetEmployee implements user.UserService.
func (s *EmployeeServiceImpl) GetEmployee(ctx context.Context, id string) (user.UserResponse, error) {
	u, err := s.UserRepository.GetByID(ctx, id)
	if err != nil {
		return user.UserResponse{}, err
	}
	return toUserResponse(u), nil
}

// UpdateEmployee implements user.UserService.
func (s *EmployeeServiceImpl) UpdateEmployee(ctx context.Context, req user.UpdateUserRequest) (user.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	if err := s.UserRepository.Update(ctx, req); err != nil {
		return user.UserResponse{}, err
	}

	updated, err := s.UserRepository.GetByID(ctx, req.ID)
	if err != nil {
		return user.UserResponse{}, err
	}
	return toUserResponse(updated), nil
}

// DeleteEmployee implements user.UserService.
func (s *EmployeeServiceImpl) DeleteEmployee(ctx context.Context, id string) error {
	return s.UserRepository.Delete(ctx, id)
}
