package remote

import (
	"context"
	"errors"
	"net/http"

	"notasapp/internal/client/domain/entities"
	"notasapp/internal/client/ports/remote"
	"notasapp/pkg/resilience"
)

// Resilient оборачивает удаленный API повторными попытками и Circuit Breaker.
// Повторяются только идемпотентные вызовы. Ответы 4xx не повторяются и не
// считаются отказом сервиса.
type Resilient struct {
	next remote.Remote
	res  *resilience.ServiceResilience
}

// NewResilient создает обертку над next.
func NewResilient(next remote.Remote, cb resilience.CircuitBreakerConfig, retry resilience.RetryConfig) *Resilient {
	cb.IsFailure = isServiceFailure
	retry.ShouldRetry = shouldRetry
	return &Resilient{
		next: next,
		res:  resilience.NewServiceResilience("notes-api", cb, retry),
	}
}

// isServiceFailure отделяет отказ сервиса от отказа в запросе клиента.
func isServiceFailure(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	var apiErr *remote.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status >= http.StatusInternalServerError
	}
	return true
}

func shouldRetry(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return isServiceFailure(err)
}

// State возвращает состояние Circuit Breaker.
func (r *Resilient) State() resilience.CircuitState {
	return r.res.State()
}

// Health не повторяется: проверка связи должна быстро давать ответ.
func (r *Resilient) Health(ctx context.Context) error {
	return r.res.ExecuteOnce(ctx, func() error { return r.next.Health(ctx) })
}

// Login не проходит через Circuit Breaker: ошибка входа не говорит о сервисе.
func (r *Resilient) Login(ctx context.Context, email, password string) (remote.AuthResult, error) {
	return r.next.Login(ctx, email, password)
}

func (r *Resilient) Register(ctx context.Context, name, email, password string) (remote.AuthResult, error) {
	return r.next.Register(ctx, name, email, password)
}

func (r *Resilient) Me(ctx context.Context, token string) (entities.User, error) {
	return resilience.Call(ctx, r.res, func() (entities.User, error) { return r.next.Me(ctx, token) })
}

func (r *Resilient) ListNotes(ctx context.Context, token string) ([]entities.Note, error) {
	return resilience.Call(ctx, r.res, func() ([]entities.Note, error) { return r.next.ListNotes(ctx, token) })
}

// CreateNote выполняется один раз: сервер назначает новый id на каждый POST.
func (r *Resilient) CreateNote(ctx context.Context, token string, note entities.Note) (entities.Note, error) {
	return resilience.CallOnce(ctx, r.res, func() (entities.Note, error) { return r.next.CreateNote(ctx, token, note) })
}

func (r *Resilient) UpdateNote(ctx context.Context, token string, note entities.Note) (entities.Note, error) {
	return resilience.Call(ctx, r.res, func() (entities.Note, error) { return r.next.UpdateNote(ctx, token, note) })
}

func (r *Resilient) DeleteNote(ctx context.Context, token, id string) error {
	return r.res.Execute(ctx, func() error { return r.next.DeleteNote(ctx, token, id) })
}

func (r *Resilient) SyncNotes(ctx context.Context, token string, notes []entities.Note) ([]entities.Note, error) {
	return resilience.Call(ctx, r.res, func() ([]entities.Note, error) { return r.next.SyncNotes(ctx, token, notes) })
}

func (r *Resilient) ListCategories(ctx context.Context, token string) ([]entities.Category, error) {
	return resilience.Call(ctx, r.res, func() ([]entities.Category, error) { return r.next.ListCategories(ctx, token) })
}

func (r *Resilient) CreateCategory(ctx context.Context, token string, cat entities.Category) (entities.Category, error) {
	return resilience.CallOnce(ctx, r.res, func() (entities.Category, error) { return r.next.CreateCategory(ctx, token, cat) })
}

func (r *Resilient) UpdateCategory(ctx context.Context, token string, cat entities.Category) (entities.Category, error) {
	return resilience.Call(ctx, r.res, func() (entities.Category, error) { return r.next.UpdateCategory(ctx, token, cat) })
}

func (r *Resilient) DeleteCategory(ctx context.Context, token, id string) error {
	return r.res.Execute(ctx, func() error { return r.next.DeleteCategory(ctx, token, id) })
}

func (r *Resilient) SyncCategories(ctx context.Context, token string, cats []entities.Category) ([]entities.Category, error) {
	return resilience.Call(ctx, r.res, func() ([]entities.Category, error) { return r.next.SyncCategories(ctx, token, cats) })
}

var _ remote.Remote = (*Resilient)(nil)
