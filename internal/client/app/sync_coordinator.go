package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"notasapp/internal/client/domain/entities"
	"notasapp/internal/client/domain/services"
	"notasapp/internal/client/ports/remote"
	"notasapp/pkg/logger"
	"notasapp/pkg/resilience"
)

// SyncState - состояние координатора синхронизации.
type SyncState string

// Возможные значения SyncState.
const (
	StateIdle    SyncState = "idle"
	StateSyncing SyncState = "syncing"
	StateSuccess SyncState = "success"
	StateError   SyncState = "error"
)

// ConnectionStatus - доступность удаленного API.
type ConnectionStatus string

// Возможные значения ConnectionStatus.
const (
	Online  ConnectionStatus = "online"
	Offline ConnectionStatus = "offline"
)

const (
	logSyncStarted       = "sync started"
	logSyncSucceeded     = "sync succeeded"
	logSyncFailed        = "sync failed"
	logConnectivity      = "connectivity changed"
	logAutoSyncTriggered = "connectivity restored, starting sync"
)

// SyncStatus - снимок состояния координатора.
type SyncStatus struct {
	State          SyncState        `json:"state"`
	Connectivity   ConnectionStatus `json:"connectivity"`
	LastSyncTime   *time.Time       `json:"lastSyncTime"`
	PendingChanges int              `json:"pendingChanges"`
	LastError      string           `json:"lastError,omitempty"`
}

// SyncReport - итог успешной синхронизации.
type SyncReport struct {
	NotesSent              int
	NotesAcknowledged      int
	CategoriesSent         int
	CategoriesAcknowledged int
}

// AuthState сообщает токен и признак аутентификации.
type AuthState interface {
	Session
	IsAuthenticated() bool
}

// SyncCoordinator отправляет pending-изменения пакетами и фиксирует
// подтверждения сервера только после успеха всех пакетов.
type SyncCoordinator struct {
	lib    *Library
	remote remote.Remote
	auth   AuthState
	opts   options

	mu       sync.Mutex
	state    SyncState
	conn     ConnectionStatus
	lastSync *time.Time
	lastErr  error
	pending  int
}

// NewSyncCoordinator создает координатор в состоянии idle и offline.
func NewSyncCoordinator(lib *Library, rem remote.Remote, auth AuthState, opts ...Option) *SyncCoordinator {
	return &SyncCoordinator{
		lib:    lib,
		remote: rem,
		auth:   auth,
		opts:   buildOptions(opts),
		state:  StateIdle,
		conn:   Offline,
	}
}

// IsOnline сообщает, доступен ли удаленный API.
func (c *SyncCoordinator) IsOnline() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn == Online
}

// Status возвращает текущее состояние.
func (c *SyncCoordinator) Status() SyncStatus {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := SyncStatus{
		State:          c.state,
		Connectivity:   c.conn,
		PendingChanges: c.pending,
	}
	if c.lastSync != nil {
		t := *c.lastSync
		st.LastSyncTime = &t
	}
	if c.lastErr != nil {
		st.LastError = c.lastErr.Error()
	}
	return st
}

// PendingCount считает pending-заметки и категории в хранилище, а не в
// снимке, чтобы учитывать изменения других процессов.
func (c *SyncCoordinator) PendingCount(ctx context.Context) (int, error) {
	repo := c.lib.Repository()
	notes, err := repo.LoadNotes(ctx)
	if err != nil {
		return 0, err
	}
	cats, err := repo.LoadCategories(ctx)
	if err != nil {
		return 0, err
	}
	return services.CountPending(notes) + services.CountPendingCategories(cats), nil
}

// CheckPending пересчитывает число pending-изменений и запоминает его.
func (c *SyncCoordinator) CheckPending(ctx context.Context) (int, error) {
	n, err := c.PendingCount(ctx)
	if err != nil {
		return 0, err
	}
	c.mu.Lock()
	c.pending = n
	c.mu.Unlock()
	return n, nil
}

// SetConnectivity обновляет доступность API. Переход offline -> online при
// наличии pending-изменений и токена запускает SyncNow один раз.
func (c *SyncCoordinator) SetConnectivity(ctx context.Context, status ConnectionStatus) error {
	log := logger.Log(ctx).With(zap.String("method", "SyncCoordinator.SetConnectivity"))

	c.mu.Lock()
	prev := c.conn
	c.conn = status
	c.mu.Unlock()

	if prev == status {
		return nil
	}
	log.Info(ctx, logConnectivity, zap.String("from", string(prev)), zap.String("to", string(status)))

	if status != Online || !c.auth.IsAuthenticated() {
		return nil
	}
	pending, err := c.CheckPending(ctx)
	if err != nil || pending == 0 {
		return err
	}

	log.Info(ctx, logAutoSyncTriggered, zap.Int("pending", pending))
	_, err = c.SyncNow(ctx)
	return err
}

// Probe проверяет доступность API и обновляет статус соединения.
func (c *SyncCoordinator) Probe(ctx context.Context) error {
	pctx, cancel := context.WithTimeout(ctx, c.opts.timeout)
	err := c.remote.Health(pctx)
	cancel()

	status := Online
	if err != nil {
		status = Offline
	}
	return c.SetConnectivity(ctx, status)
}

// SyncNow отправляет pending-заметки и категории. Без токена, без сети или
// при уже идущей синхронизации возвращает ошибку, не меняя состояние.
// Открытый circuit breaker переводит координатор в offline.
func (c *SyncCoordinator) SyncNow(ctx context.Context) (SyncReport, error) {
	log := logger.Log(ctx).With(zap.String("method", "SyncCoordinator.SyncNow"))

	if !c.auth.IsAuthenticated() {
		return SyncReport{}, ErrNotAuthenticated
	}

	c.mu.Lock()
	switch {
	case c.conn != Online:
		c.mu.Unlock()
		return SyncReport{}, ErrOffline
	case c.state == StateSyncing:
		c.mu.Unlock()
		return SyncReport{}, ErrSyncInProgress
	}
	c.state = StateSyncing
	c.mu.Unlock()

	log.Info(ctx, logSyncStarted)
	report, err := c.run(ctx, c.auth.Token())

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.state = StateError
		c.lastErr = err
		log.Warn(ctx, logSyncFailed, zap.Error(err))
		if errors.Is(err, resilience.ErrCircuitOpen) && c.conn != Offline {
			log.Info(ctx, logConnectivity, zap.String("from", string(c.conn)), zap.String("to", string(Offline)))
			c.conn = Offline
		}
		return SyncReport{}, fmt.Errorf("%w: %w", ErrSyncFailed, err)
	}

	now := c.opts.now()
	c.state = StateSuccess
	c.lastSync = &now
	c.lastErr = nil
	c.pending = services.CountPending(c.lib.Notes()) + services.CountPendingCategories(c.lib.Categories())
	log.Info(ctx, logSyncSucceeded,
		zap.Int("notes_acked", report.NotesAcknowledged),
		zap.Int("categories_acked", report.CategoriesAcknowledged))
	return report, nil
}

func (c *SyncCoordinator) run(ctx context.Context, token string) (SyncReport, error) {
	if err := c.lib.Load(ctx); err != nil {
		return SyncReport{}, err
	}
	notes := services.PendingNotes(c.lib.Notes())
	cats := services.PendingCategories(c.lib.Categories())
	report := SyncReport{NotesSent: len(notes), CategoriesSent: len(cats)}

	var noteAcks, catAcks []services.Ack

	if len(notes) > 0 {
		bctx, cancel := context.WithTimeout(ctx, c.opts.timeout)
		all, err := c.remote.SyncNotes(bctx, token, notes)
		cancel()
		if err != nil {
			return SyncReport{}, fmt.Errorf("notes batch: %w", err)
		}
		byID := make(map[string]entities.Note, len(all))
		for _, n := range all {
			byID[n.ID] = n
		}
		for _, n := range notes {
			if srv, ok := byID[n.ID]; ok {
				noteAcks = append(noteAcks, services.Ack{ID: n.ID, LocalVersion: n.LocalVersion, ServerVersion: srv.ServerVersion})
			}
		}
	}

	if len(cats) > 0 {
		bctx, cancel := context.WithTimeout(ctx, c.opts.timeout)
		all, err := c.remote.SyncCategories(bctx, token, cats)
		cancel()
		if err != nil {
			return SyncReport{}, fmt.Errorf("categories batch: %w", err)
		}
		byID := make(map[string]entities.Category, len(all))
		for _, cat := range all {
			byID[cat.ID] = cat
		}
		for _, cat := range cats {
			if srv, ok := byID[cat.ID]; ok {
				catAcks = append(catAcks, services.Ack{ID: cat.ID, LocalVersion: cat.LocalVersion, ServerVersion: srv.ServerVersion})
			}
		}
	}

	err := c.lib.Update(ctx, func(m *Mutation) error {
		if next, marked := services.MarkNotesSynced(m.Notes, noteAcks); marked > 0 {
			m.SetNotes(next)
			report.NotesAcknowledged = marked
		}
		if next, marked := services.MarkCategoriesSynced(m.Categories, catAcks); marked > 0 {
			m.SetCategories(next)
			report.CategoriesAcknowledged = marked
		}
		return nil
	})
	if err != nil {
		return SyncReport{}, err
	}
	return report, nil
}
