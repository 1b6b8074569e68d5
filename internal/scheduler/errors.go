package scheduler

import "errors"

// Ошибки планировщика.
var (
	// ErrInvalidTrigger — некорректное cron-выражение или timezone.
	ErrInvalidTrigger = errors.New("invalid trigger")

	// ErrDuplicateTrigger — триггер с таким именем уже зарегистрирован.
	ErrDuplicateTrigger = errors.New("trigger already registered")
)
