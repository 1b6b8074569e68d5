package alert

import "errors"

// Ошибки канала алертов.
var (
	// ErrPostFailed — доставка сообщения боту не удалась.
	ErrPostFailed = errors.New("operator bot post failed")
)
