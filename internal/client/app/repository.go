package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"notasapp/internal/client/domain/entities"
	"notasapp/internal/client/domain/services"
	"notasapp/internal/client/ports/store"
	"notasapp/pkg/logger"
)

const (
	logNotesMigrated  = "legacy notes migrated to current schema"
	logRollbackFailed = "failed to restore key after partial write"

	ErrReadKey   = "failed to read key"
	ErrWriteKey  = "failed to write key"
	ErrDecodeKey = "failed to decode key"
	ErrEncodeKey = "failed to encode key"
)

type writeJob struct {
	ctx    context.Context
	fn     func(context.Context) error
	result chan error
}

// Repository дает типизированный доступ к хранилищу. Все записи выполняются
// одной горутиной в порядке поступления.
type Repository struct {
	store store.BlobStore

	mu     sync.RWMutex
	closed bool
	jobs   chan writeJob
	done   chan struct{}
}

// NewRepository запускает очередь записи поверх хранилища.
func NewRepository(s store.BlobStore) *Repository {
	r := &Repository{
		store: s,
		jobs:  make(chan writeJob),
		done:  make(chan struct{}),
	}
	go r.loop()
	return r
}

func (r *Repository) loop() {
	defer close(r.done)
	for job := range r.jobs {
		job.result <- job.fn(job.ctx)
	}
}

// enqueue ставит запись в очередь и ждет ее результата.
func (r *Repository) enqueue(ctx context.Context, fn func(context.Context) error) error {
	job := writeJob{ctx: context.WithoutCancel(ctx), fn: fn, result: make(chan error, 1)}

	r.mu.RLock()
	if r.closed {
		r.mu.RUnlock()
		return ErrRepositoryClosed
	}
	select {
	case r.jobs <- job:
	case <-ctx.Done():
		r.mu.RUnlock()
		return ctx.Err()
	}
	r.mu.RUnlock()

	return <-job.result
}

// Close дожидается выполнения очереди и закрывает хранилище.
func (r *Repository) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	close(r.jobs)
	r.mu.Unlock()

	<-r.done
	return r.store.Close()
}

func (r *Repository) get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := r.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("%s %s: %w", ErrReadKey, key, err)
	}
	return data, true, nil
}

func (r *Repository) set(ctx context.Context, key string, value []byte) error {
	return r.enqueue(ctx, func(ctx context.Context) error {
		if err := r.store.Set(ctx, key, value); err != nil {
			return fmt.Errorf("%s %s: %w", ErrWriteKey, key, err)
		}
		return nil
	})
}

func (r *Repository) setJSON(ctx context.Context, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%s %s: %w", ErrEncodeKey, key, err)
	}
	return r.set(ctx, key, data)
}

func (r *Repository) delete(ctx context.Context, key string) error {
	return r.enqueue(ctx, func(ctx context.Context) error {
		if err := r.store.Delete(ctx, key); err != nil {
			return fmt.Errorf("%s %s: %w", ErrWriteKey, key, err)
		}
		return nil
	})
}

// blobWrite - одна запись пакета saveAll.
type blobWrite struct {
	key   string
	value interface{}
}

type prevBlob struct {
	data   []byte
	exists bool
}

// saveAll записывает ключи по порядку. Если очередная запись не удалась,
// уже записанные ключи возвращаются к прежнему содержимому.
func (r *Repository) saveAll(ctx context.Context, writes []blobWrite) error {
	encoded := make([][]byte, len(writes))
	for i, w := range writes {
		data, err := json.Marshal(w.value)
		if err != nil {
			return fmt.Errorf("%s %s: %w", ErrEncodeKey, w.key, err)
		}
		encoded[i] = data
	}

	prev := make([]prevBlob, len(writes))
	for i, w := range writes {
		data, ok, err := r.get(ctx, w.key)
		if err != nil {
			return err
		}
		prev[i] = prevBlob{data: data, exists: ok}
	}

	for i, w := range writes {
		if err := r.set(ctx, w.key, encoded[i]); err != nil {
			r.rollback(ctx, writes[:i], prev[:i])
			return err
		}
	}
	return nil
}

func (r *Repository) rollback(ctx context.Context, writes []blobWrite, prev []prevBlob) {
	for i := len(writes) - 1; i >= 0; i-- {
		var err error
		if prev[i].exists {
			err = r.set(ctx, writes[i].key, prev[i].data)
		} else {
			err = r.delete(ctx, writes[i].key)
		}
		if err != nil {
			logger.Log(ctx).Error(ctx, logRollbackFailed, zap.String("key", writes[i].key), zap.Error(err))
		}
	}
}

// LoadNotes читает заметки, приводя старый формат к текущей схеме.
// Мигрированная коллекция сохраняется обратно.
func (r *Repository) LoadNotes(ctx context.Context) ([]entities.Note, error) {
	data, ok, err := r.get(ctx, store.KeyNotes)
	if err != nil || !ok {
		return []entities.Note{}, err
	}

	notes, migrated, err := services.MigrateLegacyNotes(data)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", ErrDecodeKey, store.KeyNotes, err)
	}
	if migrated {
		logger.Log(ctx).Info(ctx, logNotesMigrated, zap.Int("count", len(notes)))
		if err := r.SaveNotes(ctx, notes); err != nil {
			return nil, err
		}
	}
	return notes, nil
}

// SaveNotes записывает коллекцию заметок.
func (r *Repository) SaveNotes(ctx context.Context, notes []entities.Note) error {
	if notes == nil {
		notes = []entities.Note{}
	}
	return r.setJSON(ctx, store.KeyNotes, notes)
}

// LoadCategories читает категории.
func (r *Repository) LoadCategories(ctx context.Context) ([]entities.Category, error) {
	data, ok, err := r.get(ctx, store.KeyCategories)
	if err != nil || !ok {
		return []entities.Category{}, err
	}

	var cats []entities.Category
	if err := json.Unmarshal(data, &cats); err != nil {
		return nil, fmt.Errorf("%s %s: %w", ErrDecodeKey, store.KeyCategories, err)
	}
	if cats == nil {
		cats = []entities.Category{}
	}
	return cats, nil
}

// HasCategories сообщает, сохранялись ли категории.
func (r *Repository) HasCategories(ctx context.Context) (bool, error) {
	_, ok, err := r.get(ctx, store.KeyCategories)
	return ok, err
}

// SaveCategories записывает коллекцию категорий.
func (r *Repository) SaveCategories(ctx context.Context, cats []entities.Category) error {
	if cats == nil {
		cats = []entities.Category{}
	}
	return r.setJSON(ctx, store.KeyCategories, cats)
}

// LoadSettings читает настройки. ok=false, если они еще не сохранялись.
func (r *Repository) LoadSettings(ctx context.Context) (settings entities.AppSettings, ok bool, err error) {
	data, ok, err := r.get(ctx, store.KeySettings)
	if err != nil || !ok {
		return entities.DefaultSettings(), false, err
	}

	settings = entities.DefaultSettings()
	if err := json.Unmarshal(data, &settings); err != nil {
		return entities.DefaultSettings(), false, fmt.Errorf("%s %s: %w", ErrDecodeKey, store.KeySettings, err)
	}
	return settings, true, nil
}

// SaveSettings записывает настройки.
func (r *Repository) SaveSettings(ctx context.Context, settings entities.AppSettings) error {
	return r.setJSON(ctx, store.KeySettings, settings)
}

// LoadToken возвращает сохраненный токен или пустую строку.
func (r *Repository) LoadToken(ctx context.Context) (string, error) {
	data, _, err := r.get(ctx, store.KeyAuthToken)
	return string(data), err
}

// SaveToken сохраняет токен.
func (r *Repository) SaveToken(ctx context.Context, token string) error {
	return r.set(ctx, store.KeyAuthToken, []byte(token))
}

// ClearToken удаляет токен.
func (r *Repository) ClearToken(ctx context.Context) error {
	return r.delete(ctx, store.KeyAuthToken)
}

// IsInitialized сообщает, выполнялась ли первичная инициализация.
func (r *Repository) IsInitialized(ctx context.Context) (bool, error) {
	data, ok, err := r.get(ctx, store.KeyAppInitialized)
	if err != nil || !ok {
		return false, err
	}
	return string(data) == "true", nil
}

// MarkInitialized отмечает завершение первичной инициализации.
func (r *Repository) MarkInitialized(ctx context.Context) error {
	return r.set(ctx, store.KeyAppInitialized, []byte("true"))
}

// Clear удаляет все ключи клиента.
func (r *Repository) Clear(ctx context.Context) error {
	for _, key := range store.AllKeys {
		if err := r.delete(ctx, key); err != nil {
			return err
		}
	}
	return nil
}
