//go:build wireinject
// +build wireinject

package user

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	httpDelivery "github.com/almast/trendmart/internal/user/delivery/http"
	"github.com/almast/trendmart/internal/user/domain"
	"github.com/almast/trendmart/internal/user/repository"
	"github.com/almast/trendmart/internal/user/usecase/command"
	"github.com/almast/trendmart/internal/user/usecase/query"
)

// ProvideUserRepository provides the user repository
func ProvideUserRepository(db *gorm.DB) domain.UserRepository {
	return repository.NewGormUserRepository(db)
}

// ProviderSet is the Wire provider set for the user module
var ProviderSet = wire.NewSet(
	ProvideUserRepository,
	command.NewRegisterUserHandler,
	command.NewLoginUserHandler,
	query.NewGetUserHandler,
	httpDelivery.NewUserHandlerWithDI,
)

// InitializeUserHandler wires the user HTTP handler
func InitializeUserHandler(db *gorm.DB) (*httpDelivery.UserHandler, error) {
	wire.Build(ProviderSet)
	return nil, nil
}
