package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/polkiloo/coffeeshop/internal/domain/errors"
	"github.com/polkiloo/coffeeshop/internal/domain/model"
	"github.com/polkiloo/coffeeshop/internal/domain/repository"
)

const uniqueViolation = "23505"

// completionQueueLock serialises completion queue assignment across connections.
const completionQueueLock int64 = 0x636f6d706c

type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pgxPool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   pgxPool
	logger *slog.Logger
}

type orderRepository struct {
	storage *Storage
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	logger.Info("storage schema ready")

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Orders returns the order repository.
func (s *Storage) Orders() repository.OrderRepository {
	return &orderRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS orders (
            order_id TEXT PRIMARY KEY,
            customer_name TEXT NOT NULL,
            srn TEXT NOT NULL DEFAULT '',
            status TEXT NOT NULL,
            total BIGINT NOT NULL,
            currency TEXT NOT NULL,
            created_at TIMESTAMP NOT NULL,
            completion_code TEXT NOT NULL,
            is_scheduled BOOLEAN NOT NULL DEFAULT FALSE,
            scheduled_for TEXT NOT NULL,
            completion_queue BIGINT UNIQUE
        )`,
		`CREATE TABLE IF NOT EXISTS order_items (
            id BIGSERIAL PRIMARY KEY,
            order_id TEXT NOT NULL REFERENCES orders(order_id) ON DELETE CASCADE,
            position INT NOT NULL,
            drink_key TEXT NOT NULL,
            display_name TEXT NOT NULL,
            size TEXT NOT NULL,
            qty INT NOT NULL,
            sugar_level TEXT NOT NULL,
            milk_type TEXT NOT NULL,
            extra_shot BOOLEAN NOT NULL DEFAULT FALSE,
            price_per_cup BIGINT NOT NULL,
            line_total BIGINT NOT NULL
        )`,
		`CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id, position)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_listing ON orders(is_scheduled, scheduled_for, created_at DESC)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

const orderColumns = `order_id, customer_name, srn, status, total, currency, created_at,
                      completion_code, is_scheduled, scheduled_for, completion_queue`

func scanOrder(row pgx.Row, o *model.Order) error {
	return row.Scan(
		&o.ID, &o.CustomerName, &o.SRN, &o.Status, &o.Total, &o.Currency, &o.CreatedAt,
		&o.CompletionCode, &o.IsScheduled, &o.ScheduledFor, &o.CompletionQueue,
	)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// --- OrderRepository implementation ---

func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	const insertOrder = `INSERT INTO orders (` + orderColumns + `)
                         VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NULL)`
	const insertItem = `INSERT INTO order_items
                        (order_id, position, drink_key, display_name, size, qty, sugar_level,
                         milk_type, extra_shot, price_per_cup, line_total)
                        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, insertOrder,
			order.ID, order.CustomerName, order.SRN, order.Status, order.Total, order.Currency,
			order.CreatedAt, order.CompletionCode, order.IsScheduled, order.ScheduledFor,
		); err != nil {
			return err
		}
		for i, it := range order.Items {
			if _, err := tx.Exec(ctx, insertItem,
				order.ID, i, it.DrinkKey, it.DisplayName, it.Size, it.Qty, it.SugarLevel,
				it.MilkType, it.ExtraShot, it.PricePerCup, it.LineTotal,
			); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if isUniqueViolation(err) {
			return domainErrors.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *orderRepository) Get(ctx context.Context, id string) (*model.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders WHERE order_id=$1`
	var order model.Order
	if err := scanOrder(r.storage.pool.QueryRow(ctx, query, id), &order); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}

	items, err := r.loadItems(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	order.Items = items[id]
	return &order, nil
}

func (r *orderRepository) List(ctx context.Context) ([]model.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders
                   ORDER BY is_scheduled ASC, scheduled_for ASC, created_at DESC`
	rows, err := r.storage.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Order
	for rows.Next() {
		var o model.Order
		if err := scanOrder(rows, &o); err != nil {
			return nil, err
		}
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(result) == 0 {
		return result, nil
	}

	ids := make([]string, len(result))
	for i := range result {
		ids[i] = result[i].ID
	}
	items, err := r.loadItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range result {
		result[i].Items = items[result[i].ID]
	}
	return result, nil
}

func (r *orderRepository) loadItems(ctx context.Context, ids []string) (map[string][]model.OrderItem, error) {
	const query = `SELECT order_id, drink_key, display_name, size, qty, sugar_level, milk_type,
                          extra_shot, price_per_cup, line_total
                   FROM order_items WHERE order_id = ANY($1) ORDER BY order_id, position`
	rows, err := r.storage.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make(map[string][]model.OrderItem, len(ids))
	for rows.Next() {
		var (
			orderID string
			it      model.OrderItem
		)
		if err := rows.Scan(&orderID, &it.DrinkKey, &it.DisplayName, &it.Size, &it.Qty, &it.SugarLevel,
			&it.MilkType, &it.ExtraShot, &it.PricePerCup, &it.LineTotal); err != nil {
			return nil, err
		}
		items[orderID] = append(items[orderID], it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id string, from, to model.OrderStatus) error {
	const query = `UPDATE orders SET status=$1 WHERE order_id=$2 AND status=$3 AND completion_queue IS NULL`
	tag, err := r.storage.pool.Exec(ctx, query, to, id, from)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrConflict
	}
	return nil
}

func (r *orderRepository) Complete(ctx context.Context, id string, from model.OrderStatus) (int64, error) {
	const (
		lockQuery   = `SELECT pg_advisory_xact_lock($1)`
		maxQuery    = `SELECT COALESCE(MAX(completion_queue), 0) FROM orders`
		updateQuery = `UPDATE orders SET completion_queue=$1, status=$2
                       WHERE order_id=$3 AND status=$4 AND completion_queue IS NULL`
	)

	var next int64
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, lockQuery, completionQueueLock); err != nil {
			return err
		}
		var current int64
		if err := tx.QueryRow(ctx, maxQuery).Scan(&current); err != nil {
			return err
		}
		next = current + 1
		tag, err := tx.Exec(ctx, updateQuery, next, model.OrderStatusCompleted, id, from)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domainErrors.ErrConflict
		}
		return nil
	})
	if err != nil {
		if isUniqueViolation(err) {
			return 0, domainErrors.ErrConflict
		}
		return 0, err
	}
	return next, nil
}

// WithinTransaction executes function inside transaction boundary.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}
