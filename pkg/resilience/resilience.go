package resilience

import "context"

// ServiceResilience объединяет Circuit Breaker и повторные попытки
// для одного удаленного сервиса.
type ServiceResilience struct {
	circuitBreaker *CircuitBreaker
	retry          *Retry
}

// NewServiceResilience создает обертку отказоустойчивости.
func NewServiceResilience(serviceName string, cb CircuitBreakerConfig, retry RetryConfig) *ServiceResilience {
	return &ServiceResilience{
		circuitBreaker: NewCircuitBreaker(serviceName, cb),
		retry:          NewRetry(serviceName, retry),
	}
}

// Execute выполняет операцию с повторами внутри Circuit Breaker.
func (r *ServiceResilience) Execute(ctx context.Context, operation func() error) error {
	return r.circuitBreaker.Execute(ctx, func() error {
		return r.retry.Execute(ctx, operation)
	})
}

// ExecuteOnce выполняет операцию без повторов, но под защитой Circuit Breaker.
// Используется для неидемпотентных вызовов.
func (r *ServiceResilience) ExecuteOnce(ctx context.Context, operation func() error) error {
	return r.circuitBreaker.Execute(ctx, operation)
}

// State возвращает состояние Circuit Breaker.
func (r *ServiceResilience) State() CircuitState {
	return r.circuitBreaker.State()
}

// Call выполняет операцию с результатом через Execute.
func Call[T any](ctx context.Context, r *ServiceResilience, operation func() (T, error)) (T, error) {
	var result T
	err := r.Execute(ctx, func() error {
		var err error
		result, err = operation()
		return err
	})
	return result, err
}

// CallOnce выполняет операцию с результатом через ExecuteOnce.
func CallOnce[T any](ctx context.Context, r *ServiceResilience, operation func() (T, error)) (T, error) {
	var result T
	err := r.ExecuteOnce(ctx, func() error {
		var err error
		result, err = operation()
		return err
	})
	return result, err
}
