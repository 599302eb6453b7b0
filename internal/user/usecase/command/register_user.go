package command

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/almast/trendmart/internal/user/domain"
	"github.com/almast/trendmart/pkg/auth"
)

// RegisterUserCommand represents the command to register a new account.
type RegisterUserCommand struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      string // optional, defaults to customer
}

// RegisterUserHandler handles account registration.
type RegisterUserHandler struct {
	repo domain.UserRepository
}

func NewRegisterUserHandler(repo domain.UserRepository) *RegisterUserHandler {
	return &RegisterUserHandler{repo: repo}
}

// Handle validates the input, hashes the password and stores the user.
func (h *RegisterUserHandler) Handle(cmd RegisterUserCommand) (*domain.User, error) {
	if cmd.Email == "" || !strings.Contains(cmd.Email, "@") {
		return nil, &domain.ValidationError{Field: "email", Reason: "a valid email is required"}
	}
	if len(cmd.Password) < 6 {
		return nil, &domain.ValidationError{Field: "password", Reason: "password must be at least 6 characters"}
	}
	if cmd.FirstName == "" {
		return nil, &domain.ValidationError{Field: "firstName", Reason: "first name is required"}
	}

	if existing, err := h.repo.FindByEmail(cmd.Email); err == nil && existing != nil {
		return nil, domain.ErrDuplicateEmail
	} else if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hashed, err := auth.HashPassword(cmd.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role := cmd.Role
	if role == "" {
		role = domain.RoleCustomer
	}
	if role != domain.RoleCustomer && role != domain.RoleAdmin {
		return nil, &domain.ValidationError{Field: "role", Reason: "invalid role"}
	}

	user := &domain.User{
		Email:     cmd.Email,
		Password:  hashed,
		FirstName: cmd.FirstName,
		LastName:  cmd.LastName,
		Role:      role,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := h.repo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}
