package model

import "time"

// OrderStatus describes fulfillment lifecycle.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// ParseOrderStatus returns the status named by s and whether it is known.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	switch status := OrderStatus(s); status {
	case OrderStatusPending, OrderStatusPreparing, OrderStatusReady, OrderStatusCompleted, OrderStatusCancelled:
		return status, true
	default:
		return "", false
	}
}

// Closed reports whether the order no longer takes customer actions.
func (s OrderStatus) Closed() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// OrderItem is an immutable priced line of an order.
type OrderItem struct {
	DrinkKey    string
	DisplayName string
	Size        string
	Qty         int
	SugarLevel  string
	MilkType    string
	ExtraShot   bool
	PricePerCup int64
	LineTotal   int64
}

// Order is a customer coffee order.
type Order struct {
	ID              string
	CustomerName    string
	SRN             string
	Status          OrderStatus
	Items           []OrderItem
	Total           int64
	Currency        string
	CreatedAt       time.Time
	CompletionCode  string
	IsScheduled     bool
	ScheduledFor    string
	CompletionQueue *int64
}

// ListedOrder is an order annotated with its due-soon flag at listing time.
type ListedOrder struct {
	Order
	DueSoon bool
}

// FulfillmentSchedule marks a scheduled pickup request.
const FulfillmentSchedule = "schedule"

// LineItemRequest is an unpriced line as submitted by a customer. Qty keeps
// the raw token so that coercion failures can be reported.
type LineItemRequest struct {
	Drink      string
	Size       string
	Qty        string
	SugarLevel string
	MilkType   string
	ExtraShot  bool
}

// CreateOrderRequest carries everything needed to place an order.
type CreateOrderRequest struct {
	CustomerName    string
	SRN             string
	Items           []LineItemRequest
	FulfillmentMode string
	ScheduledTime   string
}

// CancelConfirmation is returned after a successful customer cancellation.
type CancelConfirmation struct {
	Order         *Order
	Message       string
	RefundMessage string
}

// RefundInfo describes the refund of a cancelled order.
type RefundInfo struct {
	OrderID       string
	Amount        int64
	Currency      string
	RefundMessage string
}
