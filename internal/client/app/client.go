package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"notasapp/internal/client/ports/remote"
	"notasapp/internal/client/ports/store"
	"notasapp/pkg/logger"
)

// ErrWatchUnsupported возвращается, если хранилище не сообщает об изменениях.
var ErrWatchUnsupported = store.ErrWatchUnsupported

const (
	logStoreChanged = "store changed by another process, reloading"
	logReloadFailed = "failed to reload after store change"
)

// Имена фоновых задач.
const (
	JobSweep        = "expiry-sweep"
	JobPendingCheck = "pending-check"
	JobProbe        = "connectivity-probe"
)

// Intervals - периоды фоновых задач. Нулевой Probe отключает проверку сети.
type Intervals struct {
	Sweep        time.Duration
	PendingCheck time.Duration
	Probe        time.Duration
}

// DefaultIntervals возвращает периоды по умолчанию.
func DefaultIntervals() Intervals {
	return Intervals{
		Sweep:        time.Hour,
		PendingCheck: 30 * time.Second,
		Probe:        15 * time.Second,
	}
}

// Client собирает все компоненты локального клиента поверх одного хранилища.
type Client struct {
	Repository *Repository
	Library    *Library
	Auth       *AuthGate
	Sync       *SyncCoordinator
	Notes      *NoteUseCase
	Categories *CategoryUseCase
	Sweeper    *Sweeper
	Backup     *Backup
	Bootstrap  *Bootstrap

	store store.BlobStore
}

// NewClient связывает компоненты. Хранилище закрывается через Close.
func NewClient(s store.BlobStore, rem remote.Remote, opts ...Option) *Client {
	repo := NewRepository(s)
	lib := NewLibrary(repo)
	auth := NewAuthGate(repo, rem)
	syncer := NewSyncCoordinator(lib, rem, auth, opts...)
	notes := NewNoteUseCase(lib, rem, auth, syncer, opts...)

	return &Client{
		Repository: repo,
		Library:    lib,
		Auth:       auth,
		Sync:       syncer,
		Notes:      notes,
		Categories: NewCategoryUseCase(lib, rem, auth, syncer, notes, opts...),
		Sweeper:    NewSweeper(notes),
		Backup:     NewBackup(lib, opts...),
		Bootstrap:  NewBootstrap(lib, opts...),
		store:      s,
	}
}

// Open выполняет первичную инициализацию и загружает снимки и токен.
func (c *Client) Open(ctx context.Context) error {
	if _, err := c.Bootstrap.Run(ctx); err != nil {
		return err
	}
	if err := c.Library.Load(ctx); err != nil {
		return err
	}
	return c.Auth.Load(ctx)
}

// Reload перечитывает снимки и токен из хранилища.
func (c *Client) Reload(ctx context.Context) error {
	if err := c.Library.Load(ctx); err != nil {
		return err
	}
	return c.Auth.Load(ctx)
}

// WatchStore перечитывает данные, когда хранилище меняет другой процесс.
// Блокируется до отмены ctx.
func (c *Client) WatchStore(ctx context.Context, debounce time.Duration) error {
	w, ok := c.store.(store.Watcher)
	if !ok {
		return ErrWatchUnsupported
	}
	return w.Watch(ctx, debounce, func(ctx context.Context, keys []string) {
		log := logger.Log(ctx).With(zap.Strings("keys", keys))
		log.Debug(ctx, logStoreChanged)
		if err := c.Reload(ctx); err != nil {
			log.Warn(ctx, logReloadFailed, zap.Error(err))
		}
	})
}

// Scheduler создает планировщик очистки, проверки pending и проверки сети.
func (c *Client) Scheduler(iv Intervals) *Scheduler {
	jobs := []Job{
		{
			Name:  JobSweep,
			Every: iv.Sweep,
			Run: func(ctx context.Context, now time.Time) error {
				_, err := c.Sweeper.Run(ctx, now)
				return err
			},
		},
		{
			Name:  JobPendingCheck,
			Every: iv.PendingCheck,
			Run: func(ctx context.Context, _ time.Time) error {
				_, err := c.Sync.CheckPending(ctx)
				return err
			},
		},
	}
	if iv.Probe > 0 {
		jobs = append(jobs, Job{
			Name:  JobProbe,
			Every: iv.Probe,
			Run: func(ctx context.Context, _ time.Time) error {
				return c.Sync.Probe(ctx)
			},
		})
	}
	return NewScheduler(jobs...)
}

// Close дожидается очереди записи и закрывает хранилище.
func (c *Client) Close() error {
	return c.Repository.Close()
}
