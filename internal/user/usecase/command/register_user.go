package command

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/warungos/datastore/internal/user/domain"
	"github.com/warungos/datastore/pkg/auth"
	"github.com/warungos/datastore/pkg/database"
)

// RegisterUserCommand represents the command to register a staff account.
type RegisterUserCommand struct {
	Name     string
	Email    string
	Password string // optional; accounts without one must set it on first login
	Role     domain.Role
}

// RegisterUserHandler handles staff account registration.
type RegisterUserHandler struct {
	repo domain.UserRepository
}

// NewRegisterUserHandler creates a new register user handler.
func NewRegisterUserHandler(repo domain.UserRepository) *RegisterUserHandler {
	return &RegisterUserHandler{repo: repo}
}

// Handle executes the register user command.
func (h *RegisterUserHandler) Handle(ctx context.Context, cmd RegisterUserCommand) (*domain.User, error) {
	if cmd.Name == "" {
		return nil, database.Validationf("name is required")
	}
	email := strings.ToLower(strings.TrimSpace(cmd.Email))
	if email == "" {
		return nil, database.Validationf("email is required")
	}
	role := cmd.Role
	if role == "" {
		role = domain.RoleCashier
	}
	if !role.Valid() {
		return nil, database.Validationf("invalid role %q", role)
	}

	user := &domain.User{
		Name:  cmd.Name,
		Email: email,
		Role:  role,
	}

	if cmd.Password != "" {
		if len(cmd.Password) < 8 {
			return nil, database.Validationf("password must be at least 8 characters")
		}
		hash, err := auth.HashPassword(cmd.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = &hash
	} else {
		user.MustChangePassword = true
	}

	if err := h.repo.Create(ctx, user); err != nil {
		if errors.Is(err, database.ErrUniqueViolation) {
			return nil, fmt.Errorf("email already registered: %w", err)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}
