package repository

import (
	"context"

	"github.com/polkiloo/coffeeshop/internal/domain/model"
)

// OrderRepository describes persistence operations with orders.
type OrderRepository interface {
	// Create stores the order with its items. A duplicate id yields ErrAlreadyExists.
	Create(ctx context.Context, order *model.Order) error
	Get(ctx context.Context, id string) (*model.Order, error)
	// List returns unscheduled orders first, then by scheduled time ascending,
	// then by creation time descending.
	List(ctx context.Context) ([]model.Order, error)
	// UpdateStatus moves the order from status to status only while it is
	// still in from. ErrConflict is returned otherwise.
	UpdateStatus(ctx context.Context, id string, from, to model.OrderStatus) error
	// Complete atomically assigns the next completion queue number and marks
	// the order completed, provided it is still in from.
	Complete(ctx context.Context, id string, from model.OrderStatus) (int64, error)
}
