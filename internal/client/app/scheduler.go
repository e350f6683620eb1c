package app

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"notasapp/pkg/logger"
)

const (
	logJobFailed        = "scheduled job failed"
	logSchedulerStart   = "scheduler started"
	logSchedulerStopped = "scheduler stopped"
)

// Job - периодическая задача планировщика.
type Job struct {
	Name  string
	Every time.Duration
	Run   func(ctx context.Context, now time.Time) error
}

type jobState struct {
	Job
	last time.Time
	ran  bool
}

// Scheduler запускает задачи, срок которых наступил, на каждый Tick.
// Время передается снаружи, поэтому тесты управляют им детерминированно.
type Scheduler struct {
	mu   sync.Mutex
	jobs []*jobState
	now  func() time.Time
}

// NewScheduler создает планировщик с набором задач.
func NewScheduler(jobs ...Job) *Scheduler {
	s := &Scheduler{now: time.Now}
	for _, j := range jobs {
		s.jobs = append(s.jobs, &jobState{Job: j})
	}
	return s
}

// Tick выполняет все задачи, срок которых наступил к now, и возвращает их
// имена. Первый Tick выполняет все задачи. Ошибки задач логируются.
func (s *Scheduler) Tick(ctx context.Context, now time.Time) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := logger.Log(ctx).With(zap.String("method", "Scheduler.Tick"))

	var ran []string
	for _, j := range s.jobs {
		if j.ran && now.Sub(j.last) < j.Every {
			continue
		}
		j.ran, j.last = true, now
		ran = append(ran, j.Name)

		if err := j.Run(ctx, now); err != nil {
			log.Warn(ctx, logJobFailed, zap.String("job", j.Name), zap.Error(err))
		}
	}
	return ran
}

// Run вызывает Tick каждые every до отмены ctx. Первый Tick выполняется сразу.
func (s *Scheduler) Run(ctx context.Context, every time.Duration) {
	log := logger.Log(ctx)
	log.Info(ctx, logSchedulerStart, zap.Duration("tick", every))

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	s.Tick(ctx, s.now())
	for {
		select {
		case <-ticker.C:
			s.Tick(ctx, s.now())
		case <-ctx.Done():
			log.Info(ctx, logSchedulerStopped)
			return
		}
	}
}
