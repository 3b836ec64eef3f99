package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/PauGgimenez/Practica4/internal/domain"
)

type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

func (r *OrderRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

func (r *OrderRepository) GetProduct(ctx context.Context, productID string) (domain.Product, error) {
	const query = `
SELECT id, name, price, stock, category, created_at, updated_at
FROM products
WHERE id = $1`

	var p domain.Product
	err := r.queryRow(ctx, query, productID).
		Scan(&p.ID, &p.Name, &p.Price, &p.Stock, &p.Category, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Product{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Product{}, domain.ErrProductNotFound
		}
		return domain.Product{}, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

func (r *OrderRepository) CreateOrder(ctx context.Context, order domain.Order) error {
	const stmt = `
INSERT INTO orders (id, user_id, status, total, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.exec(ctx, stmt,
		order.ID,
		order.UserID,
		order.Status,
		order.Total,
		order.CreatedAt,
		order.UpdatedAt,
	)
	if err != nil {
		if isSerializationFailure(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("create order: %w", err)
	}
	return nil
}

func (r *OrderRepository) CreateOrderLines(ctx context.Context, orderID string, lines []domain.OrderLine) error {
	const stmt = `
INSERT INTO order_lines (order_id, line_no, product_id, quantity, unit_price, line_total)
VALUES ($1, $2, $3, $4, $5, $6)`

	for i, line := range lines {
		_, err := r.exec(ctx, stmt, orderID, i+1, line.ProductID, line.Quantity, line.UnitPrice, line.LineTotal)
		if err != nil {
			if isForeignKeyViolation(err) {
				return domain.ErrProductNotFound
			}
			if isSerializationFailure(err) {
				return domain.ErrConflict
			}
			return fmt.Errorf("create order line %d: %w", i+1, err)
		}
	}
	return nil
}

// DecrementStock applies the guarded conditional update that serializes
// concurrent orders against the same product. Zero rows affected means the
// guard failed: either the product is gone or stock is short.
func (r *OrderRepository) DecrementStock(ctx context.Context, productID string, quantity int) error {
	const stmt = `
UPDATE products
SET stock = stock - $2, updated_at = NOW()
WHERE id = $1 AND stock >= $2`

	tag, err := r.exec(ctx, stmt, productID, quantity)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		if isSerializationFailure(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("decrement stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := r.queryRow(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`, productID).Scan(&exists); err != nil {
			return fmt.Errorf("check product: %w", err)
		}
		if !exists {
			return domain.ErrProductNotFound
		}
		return domain.ErrInsufficientStock
	}
	return nil
}

func (r *OrderRepository) GetOrderForUpdate(ctx context.Context, orderID string) (domain.Order, error) {
	return r.getOrder(ctx, orderID, true)
}

func (r *OrderRepository) UpdateOrderStatus(ctx context.Context, orderID string, status domain.Status, updatedAt time.Time) error {
	const stmt = `UPDATE orders SET status = $2, updated_at = $3 WHERE id = $1`

	tag, err := r.exec(ctx, stmt, orderID, status, updatedAt)
	if err != nil {
		if isSerializationFailure(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

// GetOrder loads header and lines in one transaction so no concurrent writer
// can slip between the two reads.
func (r *OrderRepository) GetOrder(ctx context.Context, orderID string) (domain.Order, error) {
	var order domain.Order
	err := withTx(ctx, r.pool, func(txCtx context.Context) error {
		var err error
		order, err = r.getOrder(txCtx, orderID, false)
		return err
	})
	if err != nil {
		return domain.Order{}, err
	}
	return order, nil
}

func (r *OrderRepository) AppendEvent(ctx context.Context, topic, eventType, key string, payload any) error {
	const stmt = `
INSERT INTO outbox (topic, event_type, key, payload)
VALUES ($1, $2, $3, $4)`

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if _, err := r.exec(ctx, stmt, topic, eventType, key, data); err != nil {
		return fmt.Errorf("append event: %w", err)
	}
	return nil
}

func (r *OrderRepository) getOrder(ctx context.Context, orderID string, forUpdate bool) (domain.Order, error) {
	headerQuery := `
SELECT id, user_id, status, total, created_at, updated_at
FROM orders
WHERE id = $1`
	if forUpdate {
		headerQuery += `
FOR UPDATE`
	}

	var o domain.Order
	err := r.queryRow(ctx, headerQuery, orderID).
		Scan(&o.ID, &o.UserID, &o.Status, &o.Total, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Order{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, fmt.Errorf("get order: %w", err)
	}

	const linesQuery = `
SELECT product_id, quantity, unit_price, line_total
FROM order_lines
WHERE order_id = $1
ORDER BY line_no ASC`

	rows, err := r.query(ctx, linesQuery, orderID)
	if err != nil {
		return domain.Order{}, fmt.Errorf("get order lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var line domain.OrderLine
		if err := rows.Scan(&line.ProductID, &line.Quantity, &line.UnitPrice, &line.LineTotal); err != nil {
			return domain.Order{}, fmt.Errorf("scan order line: %w", err)
		}
		o.Lines = append(o.Lines, line)
	}
	if rows.Err() != nil {
		return domain.Order{}, fmt.Errorf("iterate order lines: %w", rows.Err())
	}
	return o, nil
}

func (r *OrderRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *OrderRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}

func (r *OrderRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}
