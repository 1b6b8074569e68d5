// Package retry реализует повтор операций по явной политике.
//
// Политика — значение Policy, а не размазанные по call-site'ам циклы:
// каждый вызов с повторами проходит через Do с одной и той же механикой
// задержек и учёта попыток.
package retry

import (
	"context"
	"fmt"
	"time"
)

// Policy — политика повторов.
type Policy struct {
	// MaxAttempts — максимальное число попыток (включая первую).
	// Значения меньше 1 трактуются как 1.
	MaxAttempts int

	// Delay возвращает задержку перед следующей попыткой по номеру
	// только что провалившейся (нумерация с 1). nil — без задержек.
	Delay func(attempt int) time.Duration
}

// Linear возвращает функцию линейно растущей задержки: step × attempt.
func Linear(step time.Duration) func(int) time.Duration {
	return func(attempt int) time.Duration {
		return time.Duration(attempt) * step
	}
}

// Fixed возвращает функцию постоянной задержки.
func Fixed(delay time.Duration) func(int) time.Duration {
	return func(int) time.Duration {
		return delay
	}
}

// Do выполняет fn до первого успеха или исчерпания попыток.
//
// Между попытками ждёт policy.Delay(attempt) с учётом контекста:
// отмена контекста прерывает ожидание и возвращает ctx.Err().
// При исчерпании попыток возвращает последнюю ошибку fn.
func Do(ctx context.Context, policy Policy, fn func(ctx context.Context) error) error {
	maxAttempts := policy.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}

		if attempt == maxAttempts {
			break
		}

		var delay time.Duration
		if policy.Delay != nil {
			delay = policy.Delay(attempt)
		}

		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	return fmt.Errorf("after %d attempts: %w", maxAttempts, lastErr)
}
