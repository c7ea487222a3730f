package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/decoteen/orderdesk/internal/domain/errors"
	"github.com/decoteen/orderdesk/internal/domain/model"
	"github.com/decoteen/orderdesk/internal/domain/repository"
)

// pgxPool is the subset of pgxpool.Pool the storage relies on. Narrowed
// so the pool can be replaced by pgxmock in tests.
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

type customerRepository struct {
	storage *Storage
}

type orderRepository struct {
	storage *Storage
}

type scheduleRepository struct {
	storage *Storage
}

type outboxRepository struct {
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

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Factory methods for domain repositories.
func (s *Storage) Customers() repository.CustomerRepository {
	return &customerRepository{storage: s}
}

func (s *Storage) Orders() repository.OrderRepository {
	return &orderRepository{storage: s}
}

func (s *Storage) Schedules() repository.ScheduleRepository {
	return &scheduleRepository{storage: s}
}

func (s *Storage) Outbox() repository.OutboxRepository {
	return &outboxRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS customers (
            customer_id TEXT PRIMARY KEY,
            name TEXT NOT NULL,
            city TEXT NOT NULL,
            chat_id BIGINT UNIQUE NOT NULL,
            code_hash TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS orders (
            id TEXT PRIMARY KEY,
            user_id BIGINT NOT NULL,
            customer JSONB NOT NULL,
            cart_items JSONB NOT NULL,
            payment_method TEXT NOT NULL,
            subtotal BIGINT NOT NULL,
            discount_rate DOUBLE PRECISION NOT NULL,
            discount BIGINT NOT NULL,
            tax BIGINT NOT NULL,
            total BIGINT NOT NULL,
            status TEXT NOT NULL,
            hesabfa_invoice_id TEXT,
            hesabfa_invoice_number TEXT,
            created_at TIMESTAMPTZ NOT NULL,
            updated_at TIMESTAMPTZ NOT NULL
        )`,
		`CREATE TABLE IF NOT EXISTS order_events (
            id SERIAL PRIMARY KEY,
            order_id TEXT NOT NULL REFERENCES orders(id),
            status TEXT NOT NULL,
            actor TEXT NOT NULL DEFAULT '',
            note TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS schedules (
            id TEXT PRIMARY KEY,
            user_id BIGINT NOT NULL,
            customer JSONB NOT NULL,
            order_id TEXT NOT NULL,
            total_amount BIGINT NOT NULL,
            advance_paid BIGINT NOT NULL,
            remaining_amount BIGINT NOT NULL,
            plan TEXT NOT NULL,
            monthly_amount BIGINT NOT NULL DEFAULT 0,
            payment_dates DATE[] NOT NULL,
            payments_made INT[] NOT NULL DEFAULT '{}',
            status TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL
        )`,
		`CREATE TABLE IF NOT EXISTS invoice_outbox (
            id TEXT PRIMARY KEY,
            order_id TEXT NOT NULL REFERENCES orders(id),
            status TEXT NOT NULL DEFAULT 'pending',
            attempts INT NOT NULL DEFAULT 0,
            last_error TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE SEQUENCE IF NOT EXISTS order_seq`,
		`CREATE INDEX IF NOT EXISTS idx_orders_user ON orders(user_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_order_events_order ON order_events(order_id, id)`,
		`CREATE INDEX IF NOT EXISTS idx_schedules_status ON schedules(status)`,
		`CREATE INDEX IF NOT EXISTS idx_outbox_status ON invoice_outbox(status, created_at)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// --- CustomerRepository implementation ---

func (r *customerRepository) Create(ctx context.Context, account *model.CustomerAccount) error {
	const query = `INSERT INTO customers (customer_id, name, city, chat_id, code_hash)
                   VALUES ($1, $2, $3, $4, $5) RETURNING created_at`
	err := r.storage.pool.QueryRow(ctx, query, account.CustomerID, account.Name, account.City, account.ChatID, account.CodeHash).
		Scan(&account.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domainErrors.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *customerRepository) GetByCustomerID(ctx context.Context, customerID string) (*model.CustomerAccount, error) {
	const query = `SELECT customer_id, name, city, chat_id, code_hash, created_at
                   FROM customers WHERE customer_id=$1`
	return r.scanAccount(r.storage.pool.QueryRow(ctx, query, customerID))
}

func (r *customerRepository) GetByChatID(ctx context.Context, chatID int64) (*model.CustomerAccount, error) {
	const query = `SELECT customer_id, name, city, chat_id, code_hash, created_at
                   FROM customers WHERE chat_id=$1`
	return r.scanAccount(r.storage.pool.QueryRow(ctx, query, chatID))
}

func (r *customerRepository) scanAccount(row pgx.Row) (*model.CustomerAccount, error) {
	var a model.CustomerAccount
	err := row.Scan(&a.CustomerID, &a.Name, &a.City, &a.ChatID, &a.CodeHash, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// --- OrderRepository implementation ---

func (r *orderRepository) NextID(ctx context.Context) (string, error) {
	var n int64
	if err := r.storage.pool.QueryRow(ctx, `SELECT nextval('order_seq')`).Scan(&n); err != nil {
		return "", err
	}
	return fmt.Sprintf("%05d", n), nil
}

func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	return r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const insertOrder = `INSERT INTO orders
            (id, user_id, customer, cart_items, payment_method,
             subtotal, discount_rate, discount, tax, total,
             status, created_at, updated_at)
            VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`
		_, err := tx.Exec(ctx, insertOrder,
			order.ID, order.UserID, order.Customer, order.CartItems, order.PaymentMethod,
			order.Pricing.Subtotal, order.Pricing.DiscountRate, order.Pricing.Discount,
			order.Pricing.Tax, order.Pricing.Total,
			order.Status, order.CreatedAt, order.UpdatedAt)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return domainErrors.ErrAlreadyExists
			}
			return err
		}

		for _, event := range order.History {
			const insertEvent = `INSERT INTO order_events (order_id, status, actor, note, created_at)
                                 VALUES ($1,$2,$3,$4,$5)`
			if _, err := tx.Exec(ctx, insertEvent, order.ID, event.Status, event.Actor, event.Note, event.CreatedAt); err != nil {
				return err
			}
		}
		return nil
	})
}

const orderColumns = `id, user_id, customer, cart_items, payment_method,
                      subtotal, discount_rate, discount, tax, total,
                      status, hesabfa_invoice_id, hesabfa_invoice_number,
                      created_at, updated_at`

func scanOrder(row pgx.Row) (*model.Order, error) {
	var o model.Order
	err := row.Scan(&o.ID, &o.UserID, &o.Customer, &o.CartItems, &o.PaymentMethod,
		&o.Pricing.Subtotal, &o.Pricing.DiscountRate, &o.Pricing.Discount,
		&o.Pricing.Tax, &o.Pricing.Total,
		&o.Status, &o.InvoiceID, &o.InvoiceNumber,
		&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *orderRepository) GetByID(ctx context.Context, orderID string) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id=$1`
	order, err := scanOrder(r.storage.pool.QueryRow(ctx, query, orderID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}

	const eventsQuery = `SELECT status, actor, note, created_at
                         FROM order_events WHERE order_id=$1 ORDER BY id`
	rows, err := r.storage.pool.Query(ctx, eventsQuery, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var e model.StatusEvent
		if err := rows.Scan(&e.Status, &e.Actor, &e.Note, &e.CreatedAt); err != nil {
			return nil, err
		}
		order.History = append(order.History, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) listOrders(ctx context.Context, query string, args ...any) ([]model.Order, error) {
	rows, err := r.storage.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *orderRepository) ListByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE user_id=$1 ORDER BY created_at DESC`
	return r.listOrders(ctx, query, userID)
}

func (r *orderRepository) ListByDay(ctx context.Context, day time.Time) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders
              WHERE (created_at AT TIME ZONE 'UTC')::date = $1::date
              ORDER BY created_at DESC`
	return r.listOrders(ctx, query, day.UTC())
}

func (r *orderRepository) ListAll(ctx context.Context, status *model.OrderStatus) ([]model.Order, error) {
	if status == nil {
		query := `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC`
		return r.listOrders(ctx, query)
	}
	query := `SELECT ` + orderColumns + ` FROM orders WHERE status=$1 ORDER BY created_at DESC`
	return r.listOrders(ctx, query, *status)
}

func (r *orderRepository) UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus, actor, note string, enqueueInvoice bool) (bool, error) {
	applied := false
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		var current model.OrderStatus
		var invoiceID *string
		err := tx.QueryRow(ctx, `SELECT status, hesabfa_invoice_id FROM orders WHERE id=$1 FOR UPDATE`, orderID).
			Scan(&current, &invoiceID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domainErrors.ErrNotFound
			}
			return err
		}

		if current.Terminal() {
			r.storage.logger.Warn("transition out of terminal status rejected",
				slog.String("order", orderID),
				slog.String("current", string(current)),
				slog.String("requested", string(status)))
			return nil
		}

		if _, err := tx.Exec(ctx, `UPDATE orders SET status=$1, updated_at=NOW() WHERE id=$2`, status, orderID); err != nil {
			return err
		}

		const insertEvent = `INSERT INTO order_events (order_id, status, actor, note) VALUES ($1,$2,$3,$4)`
		if _, err := tx.Exec(ctx, insertEvent, orderID, string(status), actor, note); err != nil {
			return err
		}

		if enqueueInvoice && invoiceID == nil {
			const insertRequest = `INSERT INTO invoice_outbox (id, order_id) VALUES ($1,$2)`
			if _, err := tx.Exec(ctx, insertRequest, uuid.NewString(), orderID); err != nil {
				return err
			}
		}

		applied = true
		return nil
	})
	return applied, err
}

func (r *orderRepository) RecordInvoice(ctx context.Context, orderID, invoiceID, invoiceNumber, note string) error {
	return r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const update = `UPDATE orders SET hesabfa_invoice_id=$1, hesabfa_invoice_number=$2, updated_at=NOW()
                        WHERE id=$3 AND hesabfa_invoice_id IS NULL`
		tag, err := tx.Exec(ctx, update, invoiceID, invoiceNumber, orderID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			// invoice reference is set at most once
			return nil
		}

		const insertEvent = `INSERT INTO order_events (order_id, status, actor, note) VALUES ($1,$2,$3,$4)`
		_, err = tx.Exec(ctx, insertEvent, orderID, model.EventInvoiceCreated, "system", note)
		return err
	})
}

func (r *orderRepository) RecordInvoiceError(ctx context.Context, orderID, note string) error {
	const insertEvent = `INSERT INTO order_events (order_id, status, actor, note) VALUES ($1,$2,$3,$4)`
	_, err := r.storage.pool.Exec(ctx, insertEvent, orderID, model.EventInvoiceError, "system", note)
	return err
}

func (r *orderRepository) Statistics(ctx context.Context, today time.Time) (*model.OrderStats, error) {
	stats := &model.OrderStats{StatusDistribution: make(map[model.OrderStatus]int)}

	const byStatus = `SELECT status, COUNT(*), COALESCE(SUM(total),0) FROM orders GROUP BY status`
	rows, err := r.storage.pool.Query(ctx, byStatus)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var status model.OrderStatus
		var count int
		var revenue int64
		if err := rows.Scan(&status, &count, &revenue); err != nil {
			return nil, err
		}
		stats.StatusDistribution[status] = count
		stats.TotalOrders += count
		stats.TotalRevenue += revenue
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	const todayQuery = `SELECT COUNT(*), COALESCE(SUM(total),0) FROM orders
                        WHERE (created_at AT TIME ZONE 'UTC')::date = $1::date`
	if err := r.storage.pool.QueryRow(ctx, todayQuery, today.UTC()).Scan(&stats.TodayOrders, &stats.TodayRevenue); err != nil {
		return nil, err
	}
	return stats, nil
}

// --- ScheduleRepository implementation ---

func (r *scheduleRepository) Create(ctx context.Context, schedule *model.PaymentSchedule) error {
	const query = `INSERT INTO schedules
        (id, user_id, customer, order_id, total_amount, advance_paid, remaining_amount,
         plan, monthly_amount, payment_dates, payments_made, status, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`
	_, err := r.storage.pool.Exec(ctx, query,
		schedule.ID, schedule.UserID, schedule.Customer, schedule.OrderID,
		schedule.TotalAmount, schedule.AdvancePaid, schedule.RemainingAmount,
		schedule.Plan, schedule.MonthlyAmount, schedule.PaymentDates,
		schedule.PaymentsMade, schedule.Status, schedule.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domainErrors.ErrAlreadyExists
		}
		return err
	}
	return nil
}

const scheduleColumns = `id, user_id, customer, order_id, total_amount, advance_paid,
                         remaining_amount, plan, monthly_amount, payment_dates,
                         payments_made, status, created_at`

func scanSchedule(row pgx.Row) (*model.PaymentSchedule, error) {
	var s model.PaymentSchedule
	err := row.Scan(&s.ID, &s.UserID, &s.Customer, &s.OrderID, &s.TotalAmount, &s.AdvancePaid,
		&s.RemainingAmount, &s.Plan, &s.MonthlyAmount, &s.PaymentDates,
		&s.PaymentsMade, &s.Status, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *scheduleRepository) GetByID(ctx context.Context, scheduleID string) (*model.PaymentSchedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM schedules WHERE id=$1`
	schedule, err := scanSchedule(r.storage.pool.QueryRow(ctx, query, scheduleID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return schedule, nil
}

func (r *scheduleRepository) listSchedules(ctx context.Context, query string, args ...any) ([]model.PaymentSchedule, error) {
	rows, err := r.storage.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.PaymentSchedule
	for rows.Next() {
		schedule, err := scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *schedule)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *scheduleRepository) ListActive(ctx context.Context) ([]model.PaymentSchedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM schedules WHERE status='active' ORDER BY created_at`
	return r.listSchedules(ctx, query)
}

func (r *scheduleRepository) ListByUser(ctx context.Context, userID int64) ([]model.PaymentSchedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM schedules WHERE user_id=$1 ORDER BY created_at DESC`
	return r.listSchedules(ctx, query, userID)
}

func (r *scheduleRepository) HasActiveForOrder(ctx context.Context, orderID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM schedules WHERE order_id=$1 AND status='active')`
	var exists bool
	if err := r.storage.pool.QueryRow(ctx, query, orderID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *scheduleRepository) MarkPayment(ctx context.Context, scheduleID string, index int) error {
	return r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		var plan model.PaymentPlan
		var made []int32
		err := tx.QueryRow(ctx, `SELECT plan, payments_made FROM schedules WHERE id=$1 FOR UPDATE`, scheduleID).
			Scan(&plan, &made)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domainErrors.ErrNotFound
			}
			return err
		}

		for _, i := range made {
			if int(i) == index {
				return nil
			}
		}
		made = append(made, int32(index))

		installments := 3
		if plan == model.Plan60Day {
			installments = 1
		}
		status := model.ScheduleStatusActive
		if len(made) >= installments {
			status = model.ScheduleStatusCompleted
		}

		const update = `UPDATE schedules SET payments_made=$1, status=$2 WHERE id=$3`
		_, err = tx.Exec(ctx, update, made, status, scheduleID)
		return err
	})
}

func (r *scheduleRepository) Cancel(ctx context.Context, scheduleID string) error {
	tag, err := r.storage.pool.Exec(ctx, `UPDATE schedules SET status='cancelled' WHERE id=$1`, scheduleID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

// --- OutboxRepository implementation ---

func (r *outboxRepository) SelectPending(ctx context.Context, limit, maxAttempts int) ([]model.InvoiceRequest, error) {
	const query = `UPDATE invoice_outbox SET attempts=attempts+1, updated_at=NOW()
                   WHERE id IN (
                       SELECT id FROM invoice_outbox
                       WHERE status='pending' AND attempts < $2
                       ORDER BY created_at
                       LIMIT $1
                       FOR UPDATE SKIP LOCKED
                   )
                   RETURNING id, order_id, status, attempts, last_error, created_at, updated_at`
	rows, err := r.storage.pool.Query(ctx, query, limit, maxAttempts)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.InvoiceRequest
	for rows.Next() {
		var req model.InvoiceRequest
		if err := rows.Scan(&req.ID, &req.OrderID, &req.Status, &req.Attempts, &req.LastError, &req.CreatedAt, &req.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, req)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *outboxRepository) MarkDone(ctx context.Context, requestID string) error {
	_, err := r.storage.pool.Exec(ctx, `UPDATE invoice_outbox SET status='done', updated_at=NOW() WHERE id=$1`, requestID)
	return err
}

func (r *outboxRepository) MarkFailed(ctx context.Context, requestID, lastError string, maxAttempts int) error {
	const query = `UPDATE invoice_outbox
                   SET last_error=$2,
                       status=CASE WHEN attempts >= $3 THEN 'failed' ELSE 'pending' END,
                       updated_at=NOW()
                   WHERE id=$1`
	_, err := r.storage.pool.Exec(ctx, query, requestID, lastError, maxAttempts)
	return err
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

// Logger returns storage logger.
func (s *Storage) Logger() *slog.Logger {
	return s.logger
}
