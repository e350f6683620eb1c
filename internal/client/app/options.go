package app

import (
	"time"

	"github.com/google/uuid"
)

// DefaultRequestTimeout ограничивает каждый запрос к удаленному API.
const DefaultRequestTimeout = 10 * time.Second

// Session отдает токен текущего пользователя. Пустой токен - не аутентифицирован.
type Session interface {
	Token() string
}

// Connectivity сообщает, доступен ли удаленный API.
type Connectivity interface {
	IsOnline() bool
}

type options struct {
	now     func() time.Time
	newID   func() string
	timeout time.Duration
}

// Option настраивает компоненты пакета app.
type Option func(*options)

// WithClock подменяет источник времени.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithIDGenerator подменяет генератор локальных id.
func WithIDGenerator(newID func() string) Option {
	return func(o *options) { o.newID = newID }
}

// WithRequestTimeout задает таймаут запросов к удаленному API.
func WithRequestTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.timeout = d
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{
		now:     time.Now,
		newID:   uuid.NewString,
		timeout: DefaultRequestTimeout,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
