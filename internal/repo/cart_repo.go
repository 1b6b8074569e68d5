package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shaiso/Vitrina/internal/domain"
)

// CartRepo — репозиторий для работы с брошенными корзинами.
type CartRepo struct {
	pool *pgxpool.Pool
}

// NewCartRepo создаёт новый CartRepo.
func NewCartRepo(pool *pgxpool.Pool) *CartRepo {
	return &CartRepo{pool: pool}
}

// ListIdle возвращает корзины, не менявшиеся с cutoff или раньше.
func (r *CartRepo) ListIdle(ctx context.Context, cutoff time.Time) ([]domain.AbandonedCart, error) {
	query := `
		SELECT customer_email, cart_snapshot, last_touched_at
		FROM abandoned_carts
		WHERE last_touched_at <= $1
	`
	rows, err := r.pool.Query(ctx, query, cutoff)
	if err != nil {
		return nil, fmt.Errorf("list idle carts: %w", err)
	}
	defer rows.Close()

	var carts []domain.AbandonedCart
	for rows.Next() {
		var c domain.AbandonedCart
		if err := rows.Scan(&c.CustomerEmail, &c.Snapshot, &c.LastTouchedAt); err != nil {
			return nil, fmt.Errorf("scan cart: %w", err)
		}
		carts = append(carts, c)
	}
	return carts, rows.Err()
}

// Delete удаляет корзину по email покупателя.
//
// Отсутствие строки не ошибка: корзину мог удалить сам покупатель,
// оформив заказ, или параллельный проход — повторное удаление безвредно.
func (r *CartRepo) Delete(ctx context.Context, email string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM abandoned_carts WHERE customer_email = $1`, email)
	if err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}
	return nil
}
