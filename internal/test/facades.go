package test

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/polkiloo/coffeeshop/internal/catalog"
	"github.com/polkiloo/coffeeshop/internal/domain/model"
)

// OrderFacadeStub provides controllable behaviour for customer endpoints.
type OrderFacadeStub struct {
	CreateFn func(context.Context, model.CreateOrderRequest) (*model.Order, error)
	OrderFn  func(context.Context, string) (*model.Order, error)
	CancelFn func(context.Context, string) (*model.CancelConfirmation, error)
	RefundFn func(context.Context, string) (*model.RefundInfo, error)
	MenuVal  *catalog.Catalog
}

// CreateOrder delegates to provided function or echoes a pending order.
func (s OrderFacadeStub) CreateOrder(ctx context.Context, req model.CreateOrderRequest) (*model.Order, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, req)
	}
	return &model.Order{ID: "abcd1234", CustomerName: req.CustomerName, Status: model.OrderStatusPending, Currency: "INR"}, nil
}

// Order returns a single order by id.
func (s OrderFacadeStub) Order(ctx context.Context, id string) (*model.Order, error) {
	if s.OrderFn != nil {
		return s.OrderFn(ctx, id)
	}
	return &model.Order{ID: id, Status: model.OrderStatusPending, Currency: "INR"}, nil
}

// CancelOrder returns a successful cancellation by default.
func (s OrderFacadeStub) CancelOrder(ctx context.Context, id string) (*model.CancelConfirmation, error) {
	if s.CancelFn != nil {
		return s.CancelFn(ctx, id)
	}
	return &model.CancelConfirmation{
		Order:         &model.Order{ID: id, Status: model.OrderStatusCancelled},
		Message:       "Order cancelled successfully.",
		RefundMessage: "Refund initiated.",
	}, nil
}

// Refund returns refund details for id.
func (s OrderFacadeStub) Refund(ctx context.Context, id string) (*model.RefundInfo, error) {
	if s.RefundFn != nil {
		return s.RefundFn(ctx, id)
	}
	return &model.RefundInfo{OrderID: id, Amount: 100, Currency: "INR", RefundMessage: "Refund initiated."}, nil
}

// Menu returns configured catalog or the built-in one.
func (s OrderFacadeStub) Menu() *catalog.Catalog {
	if s.MenuVal != nil {
		return s.MenuVal
	}
	return catalog.Default()
}

// AdminFacadeStub simulates staff operations.
type AdminFacadeStub struct {
	LoginFn        func(context.Context, string, string) (string, error)
	ParseFn        func(string) (string, error)
	OrdersFn       func(context.Context) ([]model.ListedOrder, error)
	UpdateStatusFn func(context.Context, string, string, string) (*model.Order, error)
}

// Login returns a token for successful authentication scenarios.
func (s AdminFacadeStub) Login(ctx context.Context, username, password string) (string, error) {
	if s.LoginFn != nil {
		return s.LoginFn(ctx, username, password)
	}
	return "token", nil
}

// ParseToken returns the admin subject for any token.
func (s AdminFacadeStub) ParseToken(token string) (string, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	return "admin", nil
}

// Orders returns the staff board.
func (s AdminFacadeStub) Orders(ctx context.Context) ([]model.ListedOrder, error) {
	if s.OrdersFn != nil {
		return s.OrdersFn(ctx)
	}
	return []model.ListedOrder{{Order: model.Order{ID: "abcd1234", Status: model.OrderStatusPending}}}, nil
}

// UpdateStatus applies a staff status change.
func (s AdminFacadeStub) UpdateStatus(ctx context.Context, id, status, code string) (*model.Order, error) {
	if s.UpdateStatusFn != nil {
		return s.UpdateStatusFn(ctx, id, status, code)
	}
	return &model.Order{ID: id, Status: model.OrderStatus(status)}, nil
}

// HealthFacadeStub reports the configured health error.
type HealthFacadeStub struct {
	Err error
}

// HealthCheck returns the configured error.
func (s HealthFacadeStub) HealthCheck(context.Context) error {
	return s.Err
}

// CoffeeFacadeStub aggregates facade dependencies for HTTP layer tests.
type CoffeeFacadeStub struct {
	OrderFacadeStub
	AdminFacadeStub
	HealthFacadeStub
}

// OrderBoardStub serves prepared board snapshots to the due-soon notifier.
// Once Boards is exhausted the last snapshot is repeated.
type OrderBoardStub struct {
	Boards   [][]model.ListedOrder
	OrdersFn func(context.Context) ([]model.ListedOrder, error)
	calls    int32
}

// Orders returns the next prepared snapshot.
func (s *OrderBoardStub) Orders(ctx context.Context) ([]model.ListedOrder, error) {
	if s.OrdersFn != nil {
		return s.OrdersFn(ctx)
	}
	call := int(atomic.AddInt32(&s.calls, 1))
	if len(s.Boards) == 0 {
		return nil, nil
	}
	if call > len(s.Boards) {
		call = len(s.Boards)
	}
	return s.Boards[call-1], nil
}

// Calls reports how many times Orders was invoked.
func (s *OrderBoardStub) Calls() int {
	return int(atomic.LoadInt32(&s.calls))
}

// GaugeStub records due-soon gauge updates.
type GaugeStub struct {
	mu     sync.Mutex
	Values []int
}

// SetDueSoon records n.
func (g *GaugeStub) SetDueSoon(n int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Values = append(g.Values, n)
}

// Snapshot returns a copy of recorded values.
func (g *GaugeStub) Snapshot() []int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]int(nil), g.Values...)
}
