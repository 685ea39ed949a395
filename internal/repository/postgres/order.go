package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"petonrent-backend/internal/domain"
	"petonrent-backend/internal/logger"
	"petonrent-backend/internal/repository"
)

const orderColumns = `id, user_id, items, contact_info, payment_method, totals, currency, status, payment_status, COALESCE(gateway_order_id, ''), COALESCE(gateway_payment_id, ''), COALESCE(gateway_signature, ''), created_at, updated_at`

type orderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) repository.OrderRepository {
	return &orderRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var o domain.Order
	var itemsJSON, contactJSON, totalsJSON []byte
	err := row.Scan(&o.ID, &o.UserID, &itemsJSON, &contactJSON, &o.PaymentMethod, &totalsJSON, &o.Currency,
		&o.Status, &o.PaymentStatus, &o.GatewayOrderID, &o.GatewayPaymentID, &o.GatewaySignature, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(itemsJSON, &o.Items); err != nil {
		return nil, fmt.Errorf("decode order items: %w", err)
	}
	if err := json.Unmarshal(contactJSON, &o.ContactInfo); err != nil {
		return nil, fmt.Errorf("decode contact info: %w", err)
	}
	if err := json.Unmarshal(totalsJSON, &o.Totals); err != nil {
		return nil, fmt.Errorf("decode order totals: %w", err)
	}
	return &o, nil
}

func (r *orderRepository) Create(ctx context.Context, o *domain.Order) error {
	itemsJSON, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("failed to marshal order items: %w", err)
	}
	contactJSON, err := json.Marshal(o.ContactInfo)
	if err != nil {
		return fmt.Errorf("failed to marshal contact info: %w", err)
	}
	totalsJSON, err := json.Marshal(o.Totals)
	if err != nil {
		return fmt.Errorf("failed to marshal order totals: %w", err)
	}

	now := time.Now().UTC()
	query := `INSERT INTO orders (id, user_id, items, contact_info, payment_method, totals, amount, currency, status, payment_status, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	logger.DatabaseCall("INSERT", "table", "orders", "orderID", o.ID, "userID", o.UserID)
	_, err = r.db.ExecContext(ctx, query, o.ID, o.UserID, itemsJSON, contactJSON, o.PaymentMethod, totalsJSON,
		o.Totals.Amount, o.Currency, o.Status, o.PaymentStatus, now, now)
	if err != nil {
		logger.DatabaseResult("INSERT", 0, err, "orderID", o.ID)
		return fmt.Errorf("insert order: %w", err)
	}
	logger.DatabaseResult("INSERT", 1, nil, "orderID", o.ID)

	o.CreatedAt = now
	o.UpdatedAt = now
	return nil
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	return r.getOne(ctx, "GetByID", query, id)
}

func (r *orderRepository) GetByIDForUser(ctx context.Context, id, userID string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1 AND user_id = $2`
	return r.getOne(ctx, "GetByIDForUser", query, id, userID)
}

func (r *orderRepository) GetByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE gateway_order_id = $1 OR $1 = ANY(superseded_gateway_order_ids)`
	return r.getOne(ctx, "GetByGatewayOrderID", query, gatewayOrderID)
}

func (r *orderRepository) getOne(ctx context.Context, op, query string, args ...any) (*domain.Order, error) {
	logger.DatabaseCall("SELECT", "lookup", op)
	o, err := scanOrder(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		logger.DatabaseResult("SELECT", 0, nil, "lookup", op)
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		logger.DatabaseResult("SELECT", 0, err, "lookup", op)
		return nil, fmt.Errorf("query order: %w", err)
	}
	logger.DatabaseResult("SELECT", 1, nil, "lookup", op, "orderID", o.ID)
	return o, nil
}

func (r *orderRepository) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, "ListByUser", query, userID)
}

func (r *orderRepository) ListPendingOnline(ctx context.Context, createdBefore time.Time) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders
	          WHERE payment_method = 'Online' AND payment_status = 'pending' AND created_at < $1
	          ORDER BY created_at ASC`
	return r.list(ctx, "ListPendingOnline", query, createdBefore)
}

func (r *orderRepository) list(ctx context.Context, op, query string, args ...any) ([]domain.Order, error) {
	logger.DatabaseCall("SELECT", "lookup", op)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.DatabaseResult("SELECT", 0, err, "lookup", op)
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	orders := []domain.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	logger.DatabaseResult("SELECT", int64(len(orders)), nil, "lookup", op)
	return orders, nil
}

// AttachGatewayOrder returns domain.ErrOrderAlreadyPaid when no unpaid order with the id exists.
// A replaced gateway order id is kept in superseded_gateway_order_ids so late
// payments against it still resolve to the order.
func (r *orderRepository) AttachGatewayOrder(ctx context.Context, id, gatewayOrderID string) error {
	query := `UPDATE orders SET gateway_order_id = $2,
	          superseded_gateway_order_ids = CASE
	              WHEN COALESCE(gateway_order_id, '') IN ('', $2) THEN superseded_gateway_order_ids
	              ELSE array_append(superseded_gateway_order_ids, gateway_order_id) END,
	          payment_status = 'pending', updated_at = $3
	          WHERE id = $1 AND payment_status <> 'completed'`

	n, err := r.exec(ctx, "AttachGatewayOrder", query, id, gatewayOrderID, time.Now().UTC())
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrOrderAlreadyPaid
	}
	return nil
}

// MarkPaid matches the current or a superseded gateway order id. The paid one
// becomes the order's gateway_order_id.
func (r *orderRepository) MarkPaid(ctx context.Context, gatewayOrderID, paymentID, signature string) (bool, error) {
	query := `UPDATE orders SET gateway_payment_id = $2, gateway_signature = NULLIF($3, ''),
	          status = 'processing', payment_status = 'completed', updated_at = $4,
	          gateway_order_id = $1,
	          superseded_gateway_order_ids = CASE
	              WHEN COALESCE(gateway_order_id, '') IN ('', $1) THEN superseded_gateway_order_ids
	              ELSE array_append(array_remove(superseded_gateway_order_ids, $1), gateway_order_id) END
	          WHERE (gateway_order_id = $1 OR $1 = ANY(superseded_gateway_order_ids)) AND payment_status <> 'completed'`

	n, err := r.exec(ctx, "MarkPaid", query, gatewayOrderID, paymentID, signature, time.Now().UTC())
	return n > 0, err
}

func (r *orderRepository) MarkPaymentFailed(ctx context.Context, gatewayOrderID, paymentID string) (bool, error) {
	query := `UPDATE orders SET payment_status = 'failed', gateway_payment_id = COALESCE(NULLIF($2, ''), gateway_payment_id), updated_at = $3
	          WHERE gateway_order_id = $1 AND payment_status = 'pending'`

	n, err := r.exec(ctx, "MarkPaymentFailed", query, gatewayOrderID, paymentID, time.Now().UTC())
	return n > 0, err
}

func (r *orderRepository) exec(ctx context.Context, op, query string, args ...any) (int64, error) {
	logger.DatabaseCall("UPDATE", "op", op)
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		logger.DatabaseResult("UPDATE", 0, err, "op", op)
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s rows affected: %w", op, err)
	}
	logger.DatabaseResult("UPDATE", n, nil, "op", op)
	return n, nil
}
