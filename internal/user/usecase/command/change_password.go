package command

import (
	"context"
	"fmt"

	"github.com/warungos/datastore/internal/user/domain"
	"github.com/warungos/datastore/pkg/auth"
	"github.com/warungos/datastore/pkg/database"
)

// ChangePasswordCommand sets a new password for a staff account and clears
// the must-change flag.
type ChangePasswordCommand struct {
	UserID      uint
	NewPassword string
}

// ChangePasswordHandler handles password rotation.
type ChangePasswordHandler struct {
	repo domain.UserRepository
}

// NewChangePasswordHandler creates a new change password handler.
func NewChangePasswordHandler(repo domain.UserRepository) *ChangePasswordHandler {
	return &ChangePasswordHandler{repo: repo}
}

// Handle executes the change password command.
func (h *ChangePasswordHandler) Handle(ctx context.Context, cmd ChangePasswordCommand) (*domain.User, error) {
	if cmd.UserID == 0 {
		return nil, database.Validationf("invalid user id")
	}
	if len(cmd.NewPassword) < 8 {
		return nil, database.Validationf("password must be at least 8 characters")
	}

	hash, err := auth.HashPassword(cmd.NewPassword)
	if err != nil {
		return nil, err
	}

	user, err := h.repo.Update(ctx, "id", cmd.UserID, map[string]any{
		"password_hash":        hash,
		"must_change_password": false,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update password: %w", err)
	}
	return user, nil
}
