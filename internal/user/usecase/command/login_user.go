package command

import (
	"errors"
	"fmt"

	"github.com/almast/trendmart/internal/user/domain"
	"github.com/almast/trendmart/pkg/auth"
)

// LoginUserCommand represents the command to log a user in.
type LoginUserCommand struct {
	Email    string
	Password string
}

// LoginResponse represents the response after successful login.
type LoginResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// LoginUserHandler handles the login command.
type LoginUserHandler struct {
	repo domain.UserRepository
}

func NewLoginUserHandler(repo domain.UserRepository) *LoginUserHandler {
	return &LoginUserHandler{repo: repo}
}

// Handle verifies the credentials and issues a bearer token. Unknown
// email and wrong password fail with the same error.
func (h *LoginUserHandler) Handle(cmd LoginUserCommand) (*LoginResponse, error) {
	if cmd.Email == "" {
		return nil, &domain.ValidationError{Field: "email", Reason: "email is required"}
	}
	if cmd.Password == "" {
		return nil, &domain.ValidationError{Field: "password", Reason: "password is required"}
	}

	user, err := h.repo.FindByEmail(cmd.Email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !auth.CheckPassword(user.Password, cmd.Password) {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &LoginResponse{Token: token, User: user}, nil
}
