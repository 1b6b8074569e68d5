package campaign

import "errors"

// Ошибки кампаний.
var (
	// ErrSweepRunning — проход этой кампании уже выполняется.
	ErrSweepRunning = errors.New("sweep already running")
)
