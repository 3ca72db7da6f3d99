package app

import (
	"context"

	"github.com/polkiloo/coffeeshop/internal/catalog"
	"github.com/polkiloo/coffeeshop/internal/domain/model"
	"github.com/polkiloo/coffeeshop/internal/domain/repository"
	"github.com/polkiloo/coffeeshop/internal/usecase"
)

type CoffeeFacade struct {
	admin  *usecase.AdminAuthUseCase
	orders *usecase.OrderUseCase
	health repository.HealthChecker
}

func NewCoffeeFacade(admin *usecase.AdminAuthUseCase, orders *usecase.OrderUseCase, health repository.HealthChecker) *CoffeeFacade {
	return &CoffeeFacade{admin: admin, orders: orders, health: health}
}

func (f *CoffeeFacade) Login(ctx context.Context, username, password string) (string, error) {
	return f.admin.Login(ctx, username, password)
}

func (f *CoffeeFacade) ParseToken(token string) (string, error) {
	return f.admin.ParseToken(token)
}

func (f *CoffeeFacade) Menu() *catalog.Catalog {
	return f.orders.Menu()
}

func (f *CoffeeFacade) CreateOrder(ctx context.Context, req model.CreateOrderRequest) (*model.Order, error) {
	return f.orders.Create(ctx, req)
}

func (f *CoffeeFacade) Order(ctx context.Context, id string) (*model.Order, error) {
	return f.orders.Get(ctx, id)
}

func (f *CoffeeFacade) CancelOrder(ctx context.Context, id string) (*model.CancelConfirmation, error) {
	return f.orders.Cancel(ctx, id)
}

func (f *CoffeeFacade) Refund(ctx context.Context, id string) (*model.RefundInfo, error) {
	return f.orders.Refund(ctx, id)
}

func (f *CoffeeFacade) Orders(ctx context.Context) ([]model.ListedOrder, error) {
	return f.orders.List(ctx)
}

func (f *CoffeeFacade) UpdateStatus(ctx context.Context, id, status, pickupCode string) (*model.Order, error) {
	return f.orders.AdvanceStatus(ctx, id, status, pickupCode)
}

func (f *CoffeeFacade) HealthCheck(ctx context.Context) error {
	return f.health.HealthCheck(ctx)
}
