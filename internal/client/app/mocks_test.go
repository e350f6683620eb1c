package app_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"notasapp/internal/client/adapters/store/memory"
	"notasapp/internal/client/app"
	"notasapp/internal/client/domain/entities"
	"notasapp/internal/client/ports/remote"
	"notasapp/internal/client/ports/store"
)

var t0 = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

type mockRemote struct {
	mock.Mock
}

func (m *mockRemote) Health(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockRemote) Login(ctx context.Context, email, password string) (remote.AuthResult, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(remote.AuthResult), args.Error(1)
}

func (m *mockRemote) Register(ctx context.Context, name, email, password string) (remote.AuthResult, error) {
	args := m.Called(ctx, name, email, password)
	return args.Get(0).(remote.AuthResult), args.Error(1)
}

func (m *mockRemote) Me(ctx context.Context, token string) (entities.User, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(entities.User), args.Error(1)
}

func (m *mockRemote) ListNotes(ctx context.Context, token string) ([]entities.Note, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Note), args.Error(1)
}

func (m *mockRemote) CreateNote(ctx context.Context, token string, note entities.Note) (entities.Note, error) {
	args := m.Called(ctx, token, note)
	return args.Get(0).(entities.Note), args.Error(1)
}

func (m *mockRemote) UpdateNote(ctx context.Context, token string, note entities.Note) (entities.Note, error) {
	args := m.Called(ctx, token, note)
	return args.Get(0).(entities.Note), args.Error(1)
}

func (m *mockRemote) DeleteNote(ctx context.Context, token, id string) error {
	return m.Called(ctx, token, id).Error(0)
}

func (m *mockRemote) SyncNotes(ctx context.Context, token string, notes []entities.Note) ([]entities.Note, error) {
	args := m.Called(ctx, token, notes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Note), args.Error(1)
}

func (m *mockRemote) ListCategories(ctx context.Context, token string) ([]entities.Category, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Category), args.Error(1)
}

func (m *mockRemote) CreateCategory(ctx context.Context, token string, cat entities.Category) (entities.Category, error) {
	args := m.Called(ctx, token, cat)
	return args.Get(0).(entities.Category), args.Error(1)
}

func (m *mockRemote) UpdateCategory(ctx context.Context, token string, cat entities.Category) (entities.Category, error) {
	args := m.Called(ctx, token, cat)
	return args.Get(0).(entities.Category), args.Error(1)
}

func (m *mockRemote) DeleteCategory(ctx context.Context, token, id string) error {
	return m.Called(ctx, token, id).Error(0)
}

func (m *mockRemote) SyncCategories(ctx context.Context, token string, cats []entities.Category) ([]entities.Category, error) {
	args := m.Called(ctx, token, cats)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Category), args.Error(1)
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func seqIDs(prefix string) func() string {
	var (
		mu sync.Mutex
		n  int
	)
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

type testEnv struct {
	client *app.Client
	remote *mockRemote
	store  *memory.Store
	clock  *testClock
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	mem := memory.New()
	return newTestEnvOn(t, mem, mem)
}

// newTestEnvOn строит клиент поверх s; mem - память, в которую пишет s.
func newTestEnvOn(t *testing.T, s store.BlobStore, mem *memory.Store) *testEnv {
	t.Helper()

	env := &testEnv{
		remote: new(mockRemote),
		store:  mem,
		clock:  &testClock{now: t0},
	}
	env.client = app.NewClient(s, env.remote,
		app.WithClock(env.clock.Now),
		app.WithIDGenerator(seqIDs("local")),
		app.WithRequestTimeout(time.Second),
	)
	t.Cleanup(func() {
		_ = env.client.Close()
		env.remote.AssertExpectations(t)
	})
	return env
}

// login сохраняет токен через мок и переводит клиент в online без pending-изменений.
func (e *testEnv) login(t *testing.T) {
	t.Helper()
	ctx := context.Background()

	e.remote.On("Login", mock.Anything, "ana@example.com", "secret").
		Return(remote.AuthResult{Token: "tok", User: entities.User{ID: "u1", Email: "ana@example.com"}}, nil).Once()
	_, err := e.client.Auth.Login(ctx, "ana@example.com", "secret")
	require.NoError(t, err)
}

func (e *testEnv) goOnline(t *testing.T) {
	t.Helper()
	require.NoError(t, e.client.Sync.SetConnectivity(context.Background(), app.Online))
}

func noteIDs(notes []entities.Note) []string {
	out := make([]string, 0, len(notes))
	for _, n := range notes {
		out = append(out, n.ID)
	}
	return out
}

func withID(note entities.Note, id string, serverVersion int64) entities.Note {
	n := note.Clone()
	n.ID = id
	n.ServerVersion = serverVersion
	return n
}
