package handlers

import (
	"context"

	"github.com/polkiloo/coffeeshop/internal/catalog"
	"github.com/polkiloo/coffeeshop/internal/domain/model"
)

// OrderFacade encapsulates customer order operations exposed via HTTP.
type OrderFacade interface {
	CreateOrder(ctx context.Context, req model.CreateOrderRequest) (*model.Order, error)
	Order(ctx context.Context, id string) (*model.Order, error)
	CancelOrder(ctx context.Context, id string) (*model.CancelConfirmation, error)
	Refund(ctx context.Context, id string) (*model.RefundInfo, error)
	Menu() *catalog.Catalog
}

// AdminFacade describes staff capabilities required by handlers.
type AdminFacade interface {
	Login(ctx context.Context, username, password string) (string, error)
	ParseToken(token string) (string, error)
	Orders(ctx context.Context) ([]model.ListedOrder, error)
	UpdateStatus(ctx context.Context, id, status, pickupCode string) (*model.Order, error)
}

// HealthFacade reports backing store availability.
type HealthFacade interface {
	HealthCheck(ctx context.Context) error
}

// CoffeeFacade aggregates the full set of operations used across handlers.
type CoffeeFacade interface {
	OrderFacade
	AdminFacade
	HealthFacade
}
