package commands_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"notasapp/internal/client/adapters/store/memory"
	"notasapp/internal/client/app"
	"notasapp/internal/client/commands"
	"notasapp/internal/client/config"
	"notasapp/internal/client/domain/entities"
	"notasapp/internal/client/ports/remote"
	"notasapp/internal/client/ports/store"
	"notasapp/pkg/logger"
)

var errDown = errors.New("connection refused")

// fakeRemote - сервер в памяти; пока up=false все вызовы падают.
type fakeRemote struct {
	mu    sync.Mutex
	up    bool
	notes map[string]entities.Note
	cats  map[string]entities.Category
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{notes: map[string]entities.Note{}, cats: map[string]entities.Category{}}
}

func (f *fakeRemote) check(token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.up {
		return errDown
	}
	if token != "tok" {
		return &remote.APIError{Status: 401, Message: "invalid or expired token"}
	}
	return nil
}

func (f *fakeRemote) Health(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.up {
		return errDown
	}
	return nil
}

func (f *fakeRemote) Login(_ context.Context, email, password string) (remote.AuthResult, error) {
	if err := f.Health(context.Background()); err != nil {
		return remote.AuthResult{}, err
	}
	if password != "123456" {
		return remote.AuthResult{}, &remote.APIError{Status: 401, Message: "invalid credentials"}
	}
	return remote.AuthResult{Token: "tok", User: entities.User{ID: "u1", Name: "Ana", Email: email}}, nil
}

func (f *fakeRemote) Register(ctx context.Context, name, email, password string) (remote.AuthResult, error) {
	res, err := f.Login(ctx, email, password)
	res.User.Name = name
	return res, err
}

func (f *fakeRemote) Me(_ context.Context, token string) (entities.User, error) {
	if err := f.check(token); err != nil {
		return entities.User{}, err
	}
	return entities.User{ID: "u1", Name: "Ana", Email: "ana@example.com"}, nil
}

func (f *fakeRemote) ListNotes(_ context.Context, token string) ([]entities.Note, error) {
	if err := f.check(token); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]entities.Note, 0, len(f.notes))
	for _, n := range f.notes {
		out = append(out, n)
	}
	return out, nil
}

func (f *fakeRemote) CreateNote(_ context.Context, token string, note entities.Note) (entities.Note, error) {
	if err := f.check(token); err != nil {
		return entities.Note{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	note.ID = "srv-" + note.ID
	note.ServerVersion = 1
	f.notes[note.ID] = note
	return note, nil
}

func (f *fakeRemote) UpdateNote(_ context.Context, token string, note entities.Note) (entities.Note, error) {
	if err := f.check(token); err != nil {
		return entities.Note{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	note.ServerVersion = f.notes[note.ID].ServerVersion + 1
	f.notes[note.ID] = note
	return note, nil
}

func (f *fakeRemote) DeleteNote(_ context.Context, token, id string) error {
	if err := f.check(token); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.notes, id)
	return nil
}

func (f *fakeRemote) SyncNotes(ctx context.Context, token string, notes []entities.Note) ([]entities.Note, error) {
	if err := f.check(token); err != nil {
		return nil, err
	}
	f.mu.Lock()
	for _, n := range notes {
		n.ServerVersion = f.notes[n.ID].ServerVersion + 1
		f.notes[n.ID] = n
	}
	f.mu.Unlock()
	return f.ListNotes(ctx, token)
}

func (f *fakeRemote) ListCategories(_ context.Context, token string) ([]entities.Category, error) {
	if err := f.check(token); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]entities.Category, 0, len(f.cats))
	for _, c := range f.cats {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeRemote) CreateCategory(_ context.Context, token string, cat entities.Category) (entities.Category, error) {
	if err := f.check(token); err != nil {
		return entities.Category{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	cat.ServerVersion = 1
	f.cats[cat.ID] = cat
	return cat, nil
}

func (f *fakeRemote) UpdateCategory(ctx context.Context, token string, cat entities.Category) (entities.Category, error) {
	return f.CreateCategory(ctx, token, cat)
}

func (f *fakeRemote) DeleteCategory(_ context.Context, token, id string) error {
	if err := f.check(token); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.cats, id)
	return nil
}

func (f *fakeRemote) SyncCategories(ctx context.Context, token string, cats []entities.Category) ([]entities.Category, error) {
	if err := f.check(token); err != nil {
		return nil, err
	}
	f.mu.Lock()
	for _, c := range cats {
		c.ServerVersion = f.cats[c.ID].ServerVersion + 1
		f.cats[c.ID] = c
	}
	f.mu.Unlock()
	return f.ListCategories(ctx, token)
}

type harness struct {
	env    *commands.Env
	store  *memory.Store
	remote *fakeRemote
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	logger.SetGlobalLogger(logger.NewNop())
	t.Cleanup(func() { logger.SetGlobalLogger(nil) })

	h := &harness{store: memory.New(), remote: newFakeRemote()}
	var seq atomic.Int64
	h.env = &commands.Env{
		Config: &config.Config{
			Store:     config.StoreConfig{Backend: config.BackendMemory, Profile: "test"},
			Remote:    config.RemoteConfig{Timeout: time.Second},
			Scheduler: config.SchedulerConfig{TickEvery: 10 * time.Millisecond},
			Shutdown:  config.ShutdownConfig{Timeout: 1},
		},
		OpenStore: func(context.Context, *config.Config) (store.BlobStore, error) {
			return h.store, nil
		},
		NewRemote: func(*config.Config) remote.Remote { return h.remote },
		ReadPassword: func(string) (string, error) {
			return "", errors.New("no terminal")
		},
		Options: []app.Option{app.WithIDGenerator(func() string {
			return fmt.Sprintf("local-%d", seq.Add(1))
		})},
	}
	return h
}

func (h *harness) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	app := commands.NewApp(h.env)
	app.Writer = &buf
	app.ErrWriter = io.Discard
	app.ExitErrHandler = func(*cli.Context, error) {}
	err := app.RunContext(context.Background(), append([]string{"notas"}, args...))
	return buf.String(), err
}

func (h *harness) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := h.run(t, args...)
	require.NoError(t, err, "notas %s", strings.Join(args, " "))
	return out
}

func (h *harness) listNotes(t *testing.T, args ...string) []entities.Note {
	t.Helper()
	out := h.mustRun(t, append([]string{"note", "list", "--json"}, args...)...)
	var notes []entities.Note
	require.NoError(t, json.Unmarshal([]byte(out), &notes))
	return notes
}

func exitCode(t *testing.T, err error) int {
	t.Helper()
	var coder cli.ExitCoder
	require.True(t, errors.As(err, &coder), "expected exit error, got %v", err)
	return coder.ExitCode()
}

func titles(notes []entities.Note) []string {
	out := make([]string, 0, len(notes))
	for _, n := range notes {
		out = append(out, n.Title)
	}
	return out
}

func TestNoteLifecycle(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun(t, "note", "add", "--title", "Mercado", "--content", "leite", "--tag", "compras", "--favorite")
	assert.Contains(t, out, "created local-")

	notes := h.listNotes(t, "--category", "favorites")
	require.Len(t, notes, 1)
	id := notes[0].ID
	assert.Equal(t, "Mercado", notes[0].Title)
	assert.Equal(t, entities.SyncPending, notes[0].SyncStatus)

	h.mustRun(t, "note", "edit", "--title", "Feira", id)
	h.mustRun(t, "note", "trash", id)
	assert.Contains(t, titles(h.listNotes(t, "--category", "trash")), "Feira")
	assert.NotContains(t, titles(h.listNotes(t)), "Feira")

	h.mustRun(t, "note", "restore", id)
	assert.Contains(t, titles(h.listNotes(t, "--query", "feira")), "Feira")

	h.mustRun(t, "note", "trash", id)
	out = h.mustRun(t, "note", "empty-trash")
	assert.Equal(t, "removed 1 notes\n", out)

	_, err := h.run(t, "note", "show", id)
	assert.Equal(t, 1, exitCode(t, err))
}

func TestNoteAddRejectsEmpty(t *testing.T) {
	h := newHarness(t)

	_, err := h.run(t, "note", "add")
	require.Error(t, err)
	assert.Equal(t, 1, exitCode(t, err))
}

func TestTaskAndQuickNotes(t *testing.T) {
	h := newHarness(t)

	h.mustRun(t, "note", "add", "--title", "Hoje", "--task", "lavar", "--task", "passar")
	h.mustRun(t, "note", "add", "--content", "lembrar", "--quick")

	tasks := h.listNotes(t, "--category", "tasks")
	require.Len(t, tasks, 1)
	assert.Len(t, tasks[0].TaskItems, 2)

	quick := h.listNotes(t, "--category", "quick-notes")
	require.Len(t, quick, 1)
	require.NotNil(t, quick[0].ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(entities.QuickNoteTTL), *quick[0].ExpiresAt, time.Minute)
}

func TestCategories(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun(t, "category", "add", "--color", "#00ff00", "Viagem")
	id := strings.TrimSpace(strings.TrimPrefix(out, "created "))
	require.NotEmpty(t, id)

	h.mustRun(t, "note", "add", "--title", "Passagem", "--category", id)
	assert.Contains(t, h.mustRun(t, "category", "list"), "Viagem")

	h.mustRun(t, "category", "edit", "--name", "Ferias", id)
	assert.Contains(t, h.mustRun(t, "category", "list"), "Ferias")

	h.mustRun(t, "category", "delete", id)
	assert.NotContains(t, h.mustRun(t, "category", "list"), "Ferias")

	for _, n := range h.listNotes(t) {
		assert.NotContains(t, n.Categories, id)
	}

	_, err := h.run(t, "category", "delete", "favoritos")
	assert.Error(t, err)
}

func TestSyncRequiresLogin(t *testing.T) {
	h := newHarness(t)

	_, err := h.run(t, "sync")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not authenticated")
}

func TestLoginThenSync(t *testing.T) {
	h := newHarness(t)

	h.mustRun(t, "--offline", "note", "add", "--title", "Offline")

	_, err := h.run(t, "login", "--email", "ana@example.com", "--password", "123456")
	require.Error(t, err)
	assert.Contains(t, err.Error(), errDown.Error())
	h.remote.up = true

	_, err = h.run(t, "login", "--email", "ana@example.com", "--password", "wrong")
	require.Error(t, err)

	out := h.mustRun(t, "login", "--email", "ana@example.com", "--password", "123456")
	assert.Contains(t, out, "ana@example.com")

	out = h.mustRun(t, "sync")
	assert.Contains(t, out, "pending: 0")

	var synced []string
	for _, n := range h.remote.notes {
		synced = append(synced, n.Title)
	}
	assert.Contains(t, synced, "Offline")

	for _, n := range h.listNotes(t) {
		assert.Equal(t, entities.SyncSynced, n.SyncStatus, n.Title)
	}

	var status map[string]any
	require.NoError(t, json.Unmarshal([]byte(h.mustRun(t, "status")), &status))
	assert.Equal(t, true, status["authenticated"])
	assert.Equal(t, "online", status["connectivity"])

	h.mustRun(t, "logout")
	_, err = h.run(t, "whoami")
	assert.Error(t, err)
}

func TestOnlineAddUsesServerID(t *testing.T) {
	h := newHarness(t)
	h.remote.up = true
	h.mustRun(t, "login", "--email", "ana@example.com", "--password", "123456")

	out := h.mustRun(t, "note", "add", "--title", "Online")
	assert.Contains(t, out, "created srv-")
	assert.Contains(t, out, "(synced)")
}

func TestLoginWithoutPassword(t *testing.T) {
	h := newHarness(t)
	h.remote.up = true

	_, err := h.run(t, "login", "--email", "ana@example.com")
	require.Error(t, err)
	assert.Equal(t, 2, exitCode(t, err))
}

func TestBackupAndReset(t *testing.T) {
	h := newHarness(t)
	path := filepath.Join(t.TempDir(), "backup.json")

	h.mustRun(t, "note", "add", "--title", "Guardar")
	h.mustRun(t, "backup", "export", "--out", path)

	_, err := h.run(t, "reset")
	assert.Equal(t, 2, exitCode(t, err))

	h.mustRun(t, "reset", "--yes")
	assert.NotContains(t, titles(h.listNotes(t)), "Guardar")

	h.mustRun(t, "backup", "import", path)
	assert.Contains(t, titles(h.listNotes(t)), "Guardar")

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o600))
	_, err = h.run(t, "backup", "import", bad)
	assert.Error(t, err)
	assert.Contains(t, titles(h.listNotes(t)), "Guardar")
}

func TestSweep(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun(t, "sweep")
	assert.Equal(t, "trashed 0, removed 0\n", out)
}

func TestDaemonStopsOnCancel(t *testing.T) {
	h := newHarness(t)

	ctx, cancel := context.WithCancel(context.Background())
	app := commands.NewApp(h.env)
	app.Writer = io.Discard
	app.ExitErrHandler = func(*cli.Context, error) {}

	done := make(chan error, 1)
	go func() {
		done <- app.RunContext(ctx, []string{"notas", "--offline", "daemon"})
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("daemon did not stop")
	}
}
