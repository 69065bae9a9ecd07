//go:build wireinject
// +build wireinject

package sales

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/warungos/datastore/events"
	invdomain "github.com/warungos/datastore/internal/inventory/domain"
	invrepo "github.com/warungos/datastore/internal/inventory/repository"
	paydomain "github.com/warungos/datastore/internal/payment/domain"
	payrepo "github.com/warungos/datastore/internal/payment/repository"
	"github.com/warungos/datastore/internal/sales/domain"
	"github.com/warungos/datastore/internal/sales/repository"
	"github.com/warungos/datastore/internal/sales/usecase/command"
	"github.com/warungos/datastore/pkg/database"
)

// Repository Providers
func ProvideSaleRepository(db *gorm.DB) domain.SaleRepository {
	return repository.NewGormSaleRepository(db)
}

func ProvideItemRepository(db *gorm.DB) domain.ItemRepository {
	return repository.NewGormItemRepository(db)
}

func ProvidePaymentRepository(db *gorm.DB) paydomain.PaymentRepository {
	return payrepo.NewGormPaymentRepository(db)
}

func ProvideInventoryRepository(db *gorm.DB) invdomain.InventoryRepository {
	return invrepo.NewGormInventoryRepository(db)
}

func ProvideMovementRepository(db *gorm.DB) invdomain.MovementRepository {
	return invrepo.NewGormMovementRepository(db)
}

// Command Handlers Providers
func ProvideFinalizeSaleHandler(
	tx database.TxManager,
	sales domain.SaleRepository,
	items domain.ItemRepository,
	payments paydomain.PaymentRepository,
	stock invdomain.InventoryRepository,
	movements invdomain.MovementRepository,
	sink events.Sink,
) *command.FinalizeSaleHandler {
	return command.NewFinalizeSaleHandler(tx, sales, items, payments, stock, movements, sink)
}

func ProvideCancelSaleHandler(tx database.TxManager, sales domain.SaleRepository) *command.CancelSaleHandler {
	return command.NewCancelSaleHandler(tx, sales)
}

// CommandHandlers is a struct that holds all command handlers
type CommandHandlers struct {
	FinalizeHandler *command.FinalizeSaleHandler
	CancelHandler   *command.CancelSaleHandler
}

// ProvideCommandHandlers provides all command handlers
func ProvideCommandHandlers(
	finalizeHandler *command.FinalizeSaleHandler,
	cancelHandler *command.CancelSaleHandler,
) *CommandHandlers {
	return &CommandHandlers{
		FinalizeHandler: finalizeHandler,
		CancelHandler:   cancelHandler,
	}
}

// Wire sets
var RepositorySet = wire.NewSet(
	ProvideSaleRepository,
	ProvideItemRepository,
	ProvidePaymentRepository,
	ProvideInventoryRepository,
	ProvideMovementRepository,
)

var CommandHandlerSet = wire.NewSet(
	ProvideFinalizeSaleHandler,
	ProvideCancelSaleHandler,
	ProvideCommandHandlers,
)

// InitializeCommandHandlers initializes the handler bundle with all dependencies
func InitializeCommandHandlers(db *gorm.DB, tx database.TxManager, sink events.Sink) (*CommandHandlers, error) {
	wire.Build(
		RepositorySet,
		CommandHandlerSet,
	)
	return nil, nil
}
