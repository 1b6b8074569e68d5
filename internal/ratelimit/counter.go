// Package ratelimit реализует счётчик событий со скользящим окном.
//
// Счётчик общий для всего процесса: через него проходит каждый
// error-path, поэтому инкремент обязан быть атомарным — недосчёт при
// конкурентном всплеске пропустил бы лишние алерты в окно.
package ratelimit

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// defaultWindow — окно счётчика по умолчанию.
const defaultWindow = 60 * time.Second

// Counter — счётчик с истечением по ключу.
//
// Первый инкремент в окне взводит истечение; последующие инкременты
// окно не продлевают. По истечении окна счёт начинается с нуля.
type Counter struct {
	window time.Duration
	store  *gocache.Cache
}

// NewCounter создаёт Counter с заданным окном.
// window <= 0 означает окно по умолчанию (60 секунд).
func NewCounter(window time.Duration) *Counter {
	if window <= 0 {
		window = defaultWindow
	}
	return &Counter{
		window: window,
		store:  gocache.New(window, 2*window),
	}
}

// Increment атомарно увеличивает счётчик ключа и возвращает новое
// значение. Для первого инкремента в окне заводит запись с истечением;
// истечение существующей записи не трогает.
func (c *Counter) Increment(key string) int {
	for {
		// Add атомарен и завершается ошибкой, если запись уже есть.
		if err := c.store.Add(key, 1, c.window); err == nil {
			return 1
		}
		if n, err := c.store.IncrementInt(key, 1); err == nil {
			return n
		}
		// Запись истекла между Add и Increment — начинаем окно заново.
	}
}

// Current возвращает текущее значение счётчика ключа.
// Для отсутствующего или истёкшего ключа — 0.
func (c *Counter) Current(key string) int {
	v, found := c.store.Get(key)
	if !found {
		return 0
	}
	n, ok := v.(int)
	if !ok {
		return 0
	}
	return n
}

// Window возвращает длину окна счётчика.
func (c *Counter) Window() time.Duration {
	return c.window
}
