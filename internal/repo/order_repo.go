package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shaiso/Vitrina/internal/domain"
)

// OrderRepo — репозиторий для работы с заказами.
type OrderRepo struct {
	pool *pgxpool.Pool
}

// NewOrderRepo создаёт новый OrderRepo.
func NewOrderRepo(pool *pgxpool.Pool) *OrderRepo {
	return &OrderRepo{pool: pool}
}

const orderColumns = `id, order_date, date_fulfilled, date_delivered,
	       late_notice_sent, review_email_sent, review_submitted, paid, contact`

// GetByID возвращает заказ по ID.
func (r *OrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE id = $1
	`
	var o domain.Order
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&o.ID,
		&o.OrderDate,
		&o.DateFulfilled,
		&o.DateDelivered,
		&o.LateNoticeSent,
		&o.ReviewEmailSent,
		&o.ReviewSubmitted,
		&o.Paid,
		&o.Contact,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan order: %w", err)
	}
	return &o, nil
}

// ListLate возвращает задержавшиеся заказы: не отгружены, оформлены не
// позже cutoff, уведомление о задержке ещё не отправлялось, оплачены
// или оплата неизвестна (NULL для заказов, оформленных до ввода поля).
func (r *OrderRepo) ListLate(ctx context.Context, cutoff time.Time) ([]domain.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE date_fulfilled IS NULL
		  AND order_date <= $1
		  AND late_notice_sent = false
		  AND (paid = true OR paid IS NULL)
	`
	return r.listOrders(ctx, query, cutoff)
}

// ListAwaitingReview возвращает заказы, доставленные не позже cutoff,
// по которым письмо с просьбой об отзыве ещё не отправлялось.
func (r *OrderRepo) ListAwaitingReview(ctx context.Context, cutoff time.Time) ([]domain.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE date_delivered IS NOT NULL
		  AND date_delivered <= $1
		  AND review_email_sent = false
	`
	return r.listOrders(ctx, query, cutoff)
}

// MarkLateNoticeSent выставляет late_notice_sent = true.
//
// Обновление безусловное: предшествующий проход мог уже выставить флаг
// (окно гонки при нескольких экземплярах — осознанный компромисс,
// повторная пометка безвредна).
func (r *OrderRepo) MarkLateNoticeSent(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE orders SET late_notice_sent = true WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("mark late notice sent: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkReviewRequestSent выставляет review_email_sent = true.
// Поле review_submitted подсистема не трогает никогда.
func (r *OrderRepo) MarkReviewRequestSent(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE orders SET review_email_sent = true WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("mark review request sent: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// listOrders выполняет запрос и сканирует строки заказов.
func (r *OrderRepo) listOrders(ctx context.Context, query string, args ...any) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var o domain.Order
		err := rows.Scan(
			&o.ID,
			&o.OrderDate,
			&o.DateFulfilled,
			&o.DateDelivered,
			&o.LateNoticeSent,
			&o.ReviewEmailSent,
			&o.ReviewSubmitted,
			&o.Paid,
			&o.Contact,
		)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}
