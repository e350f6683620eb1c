// Package app реализует сценарии сервера заметок.
package app

import "errors"

// Ошибки уровня бизнес-логики.
var (
	ErrUnauthorized  = errors.New("unauthorized access")
	ErrInvalidParams = errors.New("invalid parameters")
)
