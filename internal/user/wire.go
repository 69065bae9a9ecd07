//go:build wireinject
// +build wireinject

package user

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/warungos/datastore/internal/user/domain"
	"github.com/warungos/datastore/internal/user/repository"
	"github.com/warungos/datastore/internal/user/usecase/command"
)

// ProvideUserRepository provides the user repository
func ProvideUserRepository(db *gorm.DB) domain.UserRepository {
	return repository.NewGormUserRepository(db)
}

// Command Handlers Providers
func ProvideRegisterUserHandler(repo domain.UserRepository) *command.RegisterUserHandler {
	return command.NewRegisterUserHandler(repo)
}

func ProvideChangePasswordHandler(repo domain.UserRepository) *command.ChangePasswordHandler {
	return command.NewChangePasswordHandler(repo)
}

// CommandHandlers is a struct that holds all command handlers
type CommandHandlers struct {
	RegisterHandler       *command.RegisterUserHandler
	ChangePasswordHandler *command.ChangePasswordHandler
}

// ProvideCommandHandlers provides all command handlers
func ProvideCommandHandlers(
	registerHandler *command.RegisterUserHandler,
	changePasswordHandler *command.ChangePasswordHandler,
) *CommandHandlers {
	return &CommandHandlers{
		RegisterHandler:       registerHandler,
		ChangePasswordHandler: changePasswordHandler,
	}
}

// Wire sets
var RepositorySet = wire.NewSet(
	ProvideUserRepository,
)

var CommandHandlerSet = wire.NewSet(
	ProvideRegisterUserHandler,
	ProvideChangePasswordHandler,
	ProvideCommandHandlers,
)

// InitializeCommandHandlers initializes the handler bundle with all dependencies
func InitializeCommandHandlers(db *gorm.DB) (*CommandHandlers, error) {
	wire.Build(
		RepositorySet,
		CommandHandlerSet,
	)
	return nil, nil
}
