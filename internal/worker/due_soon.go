package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/polkiloo/coffeeshop/internal/domain/model"
)

// OrderBoard exposes the staff order listing the notifier scans.
type OrderBoard interface {
	Orders(ctx context.Context) ([]model.ListedOrder, error)
}

// DueSoonGauge receives the number of open orders currently due soon.
type DueSoonGauge interface {
	SetDueSoon(n int)
}

// DueSoonNotifier periodically scans the order board and announces open
// scheduled orders as they enter the due-soon window.
type DueSoonNotifier struct {
	board    OrderBoard
	gauge    DueSoonGauge
	interval time.Duration
	logger   *slog.Logger

	announced map[string]struct{}
	wg        sync.WaitGroup
	cancel    context.CancelFunc
	mu        sync.Mutex
}

// NewDueSoonNotifier constructs the notifier. A non-positive interval
// selects one minute.
func NewDueSoonNotifier(board OrderBoard, gauge DueSoonGauge, interval time.Duration, logger *slog.Logger) *DueSoonNotifier {
	if interval <= 0 {
		interval = time.Minute
	}
	return &DueSoonNotifier{
		board:     board,
		gauge:     gauge,
		interval:  interval,
		logger:    logger.With(slog.String("component", "due_soon_notifier")),
		announced: make(map[string]struct{}),
	}
}

// Start launches background scanning.
func (n *DueSoonNotifier) Start(ctx context.Context) {
	n.mu.Lock()
	defer n.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	n.cancel = cancel

	n.wg.Add(1)
	go n.run(runCtx)
}

// Stop cancels scanning and waits for the loop to exit.
func (n *DueSoonNotifier) Stop() {
	n.mu.Lock()
	if n.cancel != nil {
		n.cancel()
		n.cancel = nil
	}
	n.mu.Unlock()

	n.wg.Wait()
}

func (n *DueSoonNotifier) run(ctx context.Context) {
	defer n.wg.Done()
	ticker := time.NewTicker(n.interval)
	defer ticker.Stop()

	n.scan(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n.scan(ctx)
		}
	}
}

func (n *DueSoonNotifier) scan(ctx context.Context) {
	orders, err := n.board.Orders(ctx)
	if err != nil {
		if ctx.Err() == nil {
			n.logger.Error("list orders failed", slog.String("error", err.Error()))
		}
		return
	}

	current := make(map[string]struct{})
	for _, o := range orders {
		if !o.DueSoon || o.Status.Closed() {
			continue
		}
		current[o.ID] = struct{}{}
		if _, seen := n.announced[o.ID]; seen {
			continue
		}
		n.logger.Info("order due soon",
			slog.String("order_id", o.ID),
			slog.String("customer", o.CustomerName),
			slog.String("scheduled_for", o.ScheduledFor),
			slog.String("status", string(o.Status)),
		)
	}
	n.announced = current
	n.gauge.SetDueSoon(len(current))
}
