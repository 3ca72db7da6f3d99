package test

import (
	"context"
	"sync"

	domainErrors "github.com/polkiloo/coffeeshop/internal/domain/errors"
	"github.com/polkiloo/coffeeshop/internal/domain/model"
	"github.com/polkiloo/coffeeshop/internal/domain/repository"
)

// OrderRepositoryStub stores orders in-memory for tests. The Fn overrides
// run before the in-memory behaviour and replace it when set.
type OrderRepositoryStub struct {
	mu     sync.Mutex
	Orders map[string]*model.Order
	Seq    []string

	CreateFn       func(context.Context, *model.Order) error
	GetFn          func(context.Context, string) (*model.Order, error)
	ListFn         func(context.Context) ([]model.Order, error)
	UpdateStatusFn func(context.Context, string, model.OrderStatus, model.OrderStatus) error
	CompleteFn     func(context.Context, string, model.OrderStatus) (int64, error)
}

// NewOrderRepositoryStub constructs an empty stub repository.
func NewOrderRepositoryStub() *OrderRepositoryStub {
	return &OrderRepositoryStub{Orders: make(map[string]*model.Order)}
}

// Put stores a copy of order directly, bypassing Create.
func (s *OrderRepositoryStub) Put(order model.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.put(order)
}

func (s *OrderRepositoryStub) put(order model.Order) {
	if s.Orders == nil {
		s.Orders = make(map[string]*model.Order)
	}
	if _, exists := s.Orders[order.ID]; !exists {
		s.Seq = append(s.Seq, order.ID)
	}
	stored := cloneOrder(order)
	s.Orders[order.ID] = &stored
}

// Create stores order unless its identifier is taken.
func (s *OrderRepositoryStub) Create(ctx context.Context, order *model.Order) error {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, order)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.Orders[order.ID]; exists {
		return domainErrors.ErrAlreadyExists
	}
	s.put(*order)
	return nil
}

// Get returns a copy of the stored order.
func (s *OrderRepositoryStub) Get(ctx context.Context, id string) (*model.Order, error) {
	if s.GetFn != nil {
		return s.GetFn(ctx, id)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.Orders[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	out := cloneOrder(*order)
	return &out, nil
}

// List returns stored orders in insertion order.
func (s *OrderRepositoryStub) List(ctx context.Context) ([]model.Order, error) {
	if s.ListFn != nil {
		return s.ListFn(ctx)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Order, 0, len(s.Seq))
	for _, id := range s.Seq {
		out = append(out, cloneOrder(*s.Orders[id]))
	}
	return out, nil
}

// UpdateStatus applies the change only if the order is still in status from.
func (s *OrderRepositoryStub) UpdateStatus(ctx context.Context, id string, from, to model.OrderStatus) error {
	if s.UpdateStatusFn != nil {
		return s.UpdateStatusFn(ctx, id, from, to)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.Orders[id]
	if !ok {
		return domainErrors.ErrNotFound
	}
	if order.Status != from || order.CompletionQueue != nil {
		return domainErrors.ErrConflict
	}
	order.Status = to
	return nil
}

// Complete marks the order completed with the next queue number.
func (s *OrderRepositoryStub) Complete(ctx context.Context, id string, from model.OrderStatus) (int64, error) {
	if s.CompleteFn != nil {
		return s.CompleteFn(ctx, id, from)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.Orders[id]
	if !ok {
		return 0, domainErrors.ErrNotFound
	}
	if order.Status != from || order.CompletionQueue != nil {
		return 0, domainErrors.ErrConflict
	}
	next := s.maxQueue() + 1
	order.Status = model.OrderStatusCompleted
	order.CompletionQueue = &next
	return next, nil
}

// MaxCompletionQueue returns the highest assigned queue number.
// It lets tests inspect the queue without going through the repository port.
func (s *OrderRepositoryStub) MaxCompletionQueue(context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.maxQueue(), nil
}

func (s *OrderRepositoryStub) maxQueue() int64 {
	var current int64
	for _, order := range s.Orders {
		if order.CompletionQueue != nil && *order.CompletionQueue > current {
			current = *order.CompletionQueue
		}
	}
	return current
}

func cloneOrder(order model.Order) model.Order {
	out := order
	out.Items = append([]model.OrderItem(nil), order.Items...)
	if order.CompletionQueue != nil {
		queue := *order.CompletionQueue
		out.CompletionQueue = &queue
	}
	return out
}

// HealthCheckerStub reports the configured error.
type HealthCheckerStub struct {
	Err error
}

// HealthCheck returns the configured error.
func (h HealthCheckerStub) HealthCheck(context.Context) error {
	return h.Err
}

var (
	_ repository.OrderRepository = (*OrderRepositoryStub)(nil)
	_ repository.HealthChecker   = HealthCheckerStub{}
)
