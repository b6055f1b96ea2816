package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/equinox-market/shopbot/internal/adapter/storage"
	"github.com/equinox-market/shopbot/internal/core/domain"
	"github.com/govalues/decimal"
	"github.com/jackc/pgx/v5"
)

type Repository struct {
	db *storage.DB
}

func NewRepository(db *storage.DB) (*Repository, error) {
	return &Repository{db: db}, nil
}

var orderColumns = []string{
	"id", "user_id", "user_name", "items_json", "total_price",
	"contact_json", "status", "payment_status", "created_at",
}

func (or *Repository) CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	itemsJSON, err := json.Marshal(order.Items)
	if err != nil {
		return nil, fmt.Errorf("marshal order items: %w", err)
	}
	contact := order.Contact
	if contact == nil {
		contact = map[string]any{}
	}
	contactJSON, err := json.Marshal(contact)
	if err != nil {
		return nil, fmt.Errorf("marshal order contact: %w", err)
	}

	statement := or.db.QueryBuilder.Insert("orders").
		Columns("user_id", "user_name", "items_json", "total_price", "contact_json").
		Values(order.UserID, order.UserName, itemsJSON, order.TotalPrice, contactJSON).
		Suffix("RETURNING id, status, payment_status, created_at")

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	err = or.db.QueryRow(ctx, sql, args...).Scan(
		&order.ID,
		&order.Status,
		&order.PaymentStatus,
		&order.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return order, nil
}

func (or *Repository) ReadOrder(ctx context.Context, orderID int64) (*domain.Order, error) {
	statement := or.db.QueryBuilder.
		Select(orderColumns...).
		From("orders").
		Where(sq.Eq{"id": orderID})

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	order, err := scanOrder(or.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrDataNotFound
		}
		return nil, err
	}

	return order, nil
}

func (or *Repository) ListOrders(ctx context.Context, status *domain.OrderStatus, limit uint64) ([]*domain.Order, error) {
	statement := or.db.QueryBuilder.
		Select(orderColumns...).
		From("orders").
		OrderBy("created_at DESC").
		Limit(limit)
	if status != nil {
		statement = statement.Where(sq.Eq{"status": *status})
	}

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := or.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*domain.Order, 0)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, order)
	}

	err = rows.Err()
	if err != nil {
		return nil, err
	}

	return list, nil
}

func (or *Repository) UpdateOrderStatus(ctx context.Context, orderID int64, status domain.OrderStatus) (bool, error) {
	statement := or.db.QueryBuilder.
		Update("orders").
		Set("status", status).
		Where(sq.Eq{"id": orderID})

	sql, args, err := statement.ToSql()
	if err != nil {
		return false, err
	}

	tag, err := or.db.Exec(ctx, sql, args...)
	if err != nil {
		return false, err
	}

	return tag.RowsAffected() > 0, nil
}

func (or *Repository) UpdatePaymentStatus(ctx context.Context, orderID int64, status domain.PaymentStatus) error {
	statement := or.db.QueryBuilder.
		Update("orders").
		Set("payment_status", status).
		Where(sq.Eq{"id": orderID})

	sql, args, err := statement.ToSql()
	if err != nil {
		return err
	}

	tag, err := or.db.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrDataNotFound
	}

	return nil
}

func (or *Repository) Stats(ctx context.Context) (*domain.StoreStats, error) {
	statement := or.db.QueryBuilder.
		Select(
			"COUNT(*)",
			"COUNT(*) FILTER (WHERE status = 'new')",
			"COALESCE(SUM(total_price) FILTER (WHERE status <> 'cancelled'), 0)",
		).
		From("orders")

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	stats := domain.StoreStats{Revenue: decimal.Zero}
	err = or.db.QueryRow(ctx, sql, args...).Scan(
		&stats.TotalOrders,
		&stats.NewOrders,
		&stats.Revenue,
	)
	if err != nil {
		return nil, err
	}

	return &stats, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanOrder fully materializes a row: items_json and contact_json come back
// deserialized, never as raw blobs.
func scanOrder(row rowScanner) (*domain.Order, error) {
	var (
		order       domain.Order
		itemsJSON   []byte
		contactJSON []byte
		createdAt   time.Time
	)

	err := row.Scan(
		&order.ID,
		&order.UserID,
		&order.UserName,
		&itemsJSON,
		&order.TotalPrice,
		&contactJSON,
		&order.Status,
		&order.PaymentStatus,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(itemsJSON, &order.Items); err != nil {
		return nil, fmt.Errorf("unmarshal order items: %w", err)
	}
	if err := json.Unmarshal(contactJSON, &order.Contact); err != nil {
		return nil, fmt.Errorf("unmarshal order contact: %w", err)
	}
	order.CreatedAt = createdAt

	return &order, nil
}
