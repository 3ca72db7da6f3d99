package usecase

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/big"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/polkiloo/coffeeshop/internal/catalog"
	domainErrors "github.com/polkiloo/coffeeshop/internal/domain/errors"
	"github.com/polkiloo/coffeeshop/internal/domain/lifecycle"
	"github.com/polkiloo/coffeeshop/internal/domain/model"
	"github.com/polkiloo/coffeeshop/internal/domain/policy"
	"github.com/polkiloo/coffeeshop/internal/domain/repository"
	"github.com/polkiloo/coffeeshop/internal/pkg/clock"
)

const (
	defaultCustomerName = "Guest"
	defaultSize         = "small"
	regularSizeAlias    = "regular"
	regularSizeBucket   = "medium"
	defaultSugarLevel   = "normal"
	defaultMilkType     = "regular"

	orderIDLength       = 8
	maxIDAttempts       = 3
	maxConflictAttempts = 3
	completionCodeSpace = 10000
	createdAtLayout     = "2006-01-02 15:04:05"

	CancelledMessage = "Order cancelled successfully."
	RefundMessage    = "Refund initiated and will be reaching you within 2 working days."

	msgNoItems          = "no items in order"
	msgNoValidItems     = "all quantities zero or invalid"
	msgTotalTooLarge    = "order total is too large"
	msgOrderIDRequired  = "order id is required"
	msgRefundNotAllowed = "refund is only available for cancelled orders"
)

// OrderObserver receives order lifecycle events.
type OrderObserver interface {
	OrderCreated(order *model.Order)
	OrderCancelled(order *model.Order)
	StatusChanged(from, to model.OrderStatus)
	ConflictRetried(operation string)
}

type nopObserver struct{}

func (nopObserver) OrderCreated(*model.Order)            {}
func (nopObserver) OrderCancelled(*model.Order)          {}
func (nopObserver) StatusChanged(_, _ model.OrderStatus) {}
func (nopObserver) ConflictRetried(string)               {}

// OrderUseCase places orders and drives them through their lifecycle.
type OrderUseCase struct {
	orders   repository.OrderRepository
	menu     *catalog.Catalog
	clock    clock.Clock
	observer OrderObserver
	logger   *slog.Logger

	newID   func() string
	newCode func() (string, error)
}

// NewOrderUseCase constructs OrderUseCase. A nil observer discards events.
func NewOrderUseCase(
	orders repository.OrderRepository,
	menu *catalog.Catalog,
	clk clock.Clock,
	observer OrderObserver,
	logger *slog.Logger,
) *OrderUseCase {
	if observer == nil {
		observer = nopObserver{}
	}
	return &OrderUseCase{
		orders:   orders,
		menu:     menu,
		clock:    clk,
		observer: observer,
		logger:   logger,
		newID:    newOrderID,
		newCode:  newCompletionCode,
	}
}

func newOrderID() string {
	return uuid.NewString()[:orderIDLength]
}

func newCompletionCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(completionCodeSpace))
	if err != nil {
		return "", fmt.Errorf("generate completion code: %w", err)
	}
	return fmt.Sprintf("%04d", n.Int64()), nil
}

// Menu returns the catalog orders are priced against.
func (u *OrderUseCase) Menu() *catalog.Catalog {
	return u.menu
}

// Create prices the requested lines and stores a new pending order.
func (u *OrderUseCase) Create(ctx context.Context, req model.CreateOrderRequest) (*model.Order, error) {
	if len(req.Items) == 0 {
		return nil, domainErrors.NewValidationError("items", msgNoItems)
	}

	items := make([]model.OrderItem, 0, len(req.Items))
	var total int64
	for _, line := range req.Items {
		item, keep, err := u.priceLine(line)
		if err != nil {
			return nil, err
		}
		if !keep {
			continue
		}
		if total > math.MaxInt64-item.LineTotal {
			return nil, domainErrors.NewValidationError("items", msgTotalTooLarge)
		}
		items = append(items, item)
		total += item.LineTotal
	}
	if len(items) == 0 {
		return nil, domainErrors.NewValidationError("items", msgNoValidItems)
	}

	code, err := u.newCode()
	if err != nil {
		return nil, err
	}

	now := u.clock.Now().Truncate(time.Second)
	order := &model.Order{
		CustomerName:   customerName(req.CustomerName),
		SRN:            strings.TrimSpace(req.SRN),
		Status:         model.OrderStatusPending,
		Items:          items,
		Total:          total,
		Currency:       u.menu.Currency,
		CreatedAt:      now,
		CompletionCode: code,
	}
	order.IsScheduled, order.ScheduledFor = schedule(req.FulfillmentMode, req.ScheduledTime, now)

	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		order.ID = u.newID()
		err = u.orders.Create(ctx, order)
		if err == nil {
			u.observer.OrderCreated(order)
			u.logger.Info("order created",
				slog.String("order_id", order.ID),
				slog.Int64("total", order.Total),
				slog.Bool("scheduled", order.IsScheduled),
			)
			return order, nil
		}
		if !errors.Is(err, domainErrors.ErrAlreadyExists) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("allocate order id: %w", err)
}

func (u *OrderUseCase) priceLine(line model.LineItemRequest) (model.OrderItem, bool, error) {
	drink := strings.TrimSpace(line.Drink)
	size := strings.ToLower(strings.TrimSpace(line.Size))
	if size == "" {
		size = defaultSize
	}
	priceKey := size
	if size == regularSizeAlias {
		priceKey = regularSizeBucket
	}

	if !u.menu.HasDrink(drink) {
		return model.OrderItem{}, false, domainErrors.NewValidationError("drink", fmt.Sprintf("invalid drink: %s", drink))
	}
	price, ok := u.menu.Lookup(drink, priceKey)
	if !ok {
		return model.OrderItem{}, false, domainErrors.NewValidationError("size", fmt.Sprintf("invalid size '%s' for %s", size, drink))
	}

	qty, err := parseQuantity(line.Qty)
	if err != nil {
		return model.OrderItem{}, false, domainErrors.NewValidationError("qty", fmt.Sprintf("invalid quantity for %s", drink))
	}
	if qty <= 0 {
		return model.OrderItem{}, false, nil
	}

	if line.ExtraShot {
		price += u.menu.ExtraShotSurcharge
	}
	if price > 0 && int64(qty) > math.MaxInt64/price {
		return model.OrderItem{}, false, domainErrors.NewValidationError("qty", fmt.Sprintf("invalid quantity for %s", drink))
	}

	return model.OrderItem{
		DrinkKey:    drink,
		DisplayName: u.menu.DisplayName(drink),
		Size:        size,
		Qty:         qty,
		SugarLevel:  withDefault(line.SugarLevel, defaultSugarLevel),
		MilkType:    withDefault(line.MilkType, defaultMilkType),
		ExtraShot:   line.ExtraShot,
		PricePerCup: price,
		LineTotal:   price * int64(qty),
	}, true, nil
}

func parseQuantity(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 1, nil
	}
	return strconv.Atoi(raw)
}

func customerName(raw string) string {
	return withDefault(raw, defaultCustomerName)
}

func withDefault(raw, def string) string {
	if v := strings.TrimSpace(raw); v != "" {
		return v
	}
	return def
}

func schedule(mode, raw string, now time.Time) (bool, string) {
	raw = strings.TrimSpace(raw)
	if strings.EqualFold(strings.TrimSpace(mode), model.FulfillmentSchedule) && raw != "" {
		return true, strings.ReplaceAll(raw, "T", " ")
	}
	return false, now.Format(createdAtLayout)
}

// Get returns a single order.
func (u *OrderUseCase) Get(ctx context.Context, id string) (*model.Order, error) {
	id, err := requireOrderID(id)
	if err != nil {
		return nil, err
	}
	return u.orders.Get(ctx, id)
}

func requireOrderID(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", domainErrors.NewValidationError("order_id", msgOrderIDRequired)
	}
	return id, nil
}

// Cancel applies a customer cancellation when the time window allows it.
func (u *OrderUseCase) Cancel(ctx context.Context, id string) (*model.CancelConfirmation, error) {
	id, err := requireOrderID(id)
	if err != nil {
		return nil, err
	}

	for attempt := 0; attempt < maxConflictAttempts; attempt++ {
		order, err := u.orders.Get(ctx, id)
		if err != nil {
			return nil, err
		}

		tr, err := lifecycle.CustomerCancel(order, u.clock.Now())
		if err != nil {
			return nil, err
		}

		err = u.orders.UpdateStatus(ctx, id, tr.From, tr.To)
		if errors.Is(err, domainErrors.ErrConflict) {
			u.observer.ConflictRetried("cancel")
			continue
		}
		if err != nil {
			return nil, err
		}

		order.Status = tr.To
		u.observer.OrderCancelled(order)
		u.logger.Info("order cancelled", slog.String("order_id", id), slog.String("from", string(tr.From)))
		return &model.CancelConfirmation{
			Order:         order,
			Message:       CancelledMessage,
			RefundMessage: RefundMessage,
		}, nil
	}
	return nil, fmt.Errorf("cancel order %s: %w", id, domainErrors.ErrConflict)
}

// AdvanceStatus applies a staff status change. Completion requires the
// order's pickup code and assigns the next completion queue number.
func (u *OrderUseCase) AdvanceStatus(ctx context.Context, id, requested, pickupCode string) (*model.Order, error) {
	status, err := lifecycle.ValidateStatus(requested)
	if err != nil {
		return nil, err
	}
	id, err = requireOrderID(id)
	if err != nil {
		return nil, err
	}

	for attempt := 0; attempt < maxConflictAttempts; attempt++ {
		order, err := u.orders.Get(ctx, id)
		if err != nil {
			return nil, err
		}

		tr, err := lifecycle.StaffTransition(order, status, pickupCode)
		if err != nil {
			return nil, err
		}

		if tr.AssignsQueue() {
			var queue int64
			queue, err = u.orders.Complete(ctx, id, tr.From)
			if err == nil {
				order.CompletionQueue = &queue
			}
		} else {
			err = u.orders.UpdateStatus(ctx, id, tr.From, tr.To)
		}
		if errors.Is(err, domainErrors.ErrConflict) {
			u.observer.ConflictRetried(string(tr.To))
			continue
		}
		if err != nil {
			return nil, err
		}

		order.Status = tr.To
		u.observer.StatusChanged(tr.From, tr.To)
		attrs := []any{
			slog.String("order_id", id),
			slog.String("from", string(tr.From)),
			slog.String("to", string(tr.To)),
		}
		if order.CompletionQueue != nil {
			attrs = append(attrs, slog.Int64("queue", *order.CompletionQueue))
		}
		u.logger.Info("order status changed", attrs...)
		return order, nil
	}
	return nil, fmt.Errorf("advance order %s: %w", id, domainErrors.ErrConflict)
}

// List returns every order for the staff board, annotated with due-soon
// flags computed at call time.
func (u *OrderUseCase) List(ctx context.Context) ([]model.ListedOrder, error) {
	orders, err := u.orders.List(ctx)
	if err != nil {
		return nil, err
	}
	sortForBoard(orders)

	now := u.clock.Now()
	listed := make([]model.ListedOrder, len(orders))
	for i := range orders {
		listed[i] = model.ListedOrder{Order: orders[i], DueSoon: policy.IsDueSoon(&orders[i], now)}
	}
	return listed, nil
}

// sortForBoard orders unscheduled first, then by scheduled time ascending,
// then newest first.
func sortForBoard(orders []model.Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		a, b := orders[i], orders[j]
		if a.IsScheduled != b.IsScheduled {
			return !a.IsScheduled
		}
		if a.ScheduledFor != b.ScheduledFor {
			return a.ScheduledFor < b.ScheduledFor
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
}

// Refund describes the refund of a cancelled order.
func (u *OrderUseCase) Refund(ctx context.Context, id string) (*model.RefundInfo, error) {
	order, err := u.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Status != model.OrderStatusCancelled {
		return nil, domainErrors.NewPolicyError(msgRefundNotAllowed)
	}
	return &model.RefundInfo{
		OrderID:       order.ID,
		Amount:        order.Total,
		Currency:      order.Currency,
		RefundMessage: RefundMessage,
	}, nil
}
