package app_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"notasapp/internal/client/adapters/store/file"
	"notasapp/internal/client/app"
	"notasapp/internal/client/domain/entities"
)

func TestClient_OpenSeedsOnce(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.client.Open(ctx))

	assert.Len(t, env.client.Categories.List(), 7)
	welcome, ok := env.client.Notes.Get(entities.WelcomeNoteID)
	require.True(t, ok)
	assert.Equal(t, entities.SyncSynced, welcome.SyncStatus)

	settings, ok, err := env.client.Repository.LoadSettings(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, entities.DefaultSettings(), settings)

	_, err = env.client.Notes.Delete(ctx, entities.WelcomeNoteID)
	require.NoError(t, err)

	seeded, err := env.client.Bootstrap.Run(ctx)
	require.NoError(t, err)
	assert.False(t, seeded)
	_, ok = env.client.Notes.Get(entities.WelcomeNoteID)
	assert.False(t, ok)

	pending, err := env.client.Sync.PendingCount(ctx)
	require.NoError(t, err)
	assert.Zero(t, pending)
}

func TestClient_OpenKeepsExistingCategories(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.client.Categories.Add(ctx, "Minha", "#000")
	require.NoError(t, err)
	require.NoError(t, env.client.Open(ctx))

	assert.Len(t, env.client.Categories.List(), 1)
	_, ok := env.client.Notes.Get(entities.WelcomeNoteID)
	assert.True(t, ok)
}

func TestClient_Reset(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	require.NoError(t, env.client.Open(ctx))

	require.NoError(t, env.client.Bootstrap.Reset(ctx))
	assert.Empty(t, env.client.Notes.List("", ""))
	assert.Empty(t, env.client.Categories.List())

	seeded, err := env.client.Bootstrap.Run(ctx)
	require.NoError(t, err)
	assert.True(t, seeded)
}

func TestClient_SchedulerJobs(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	s := env.client.Scheduler(app.Intervals{Sweep: time.Hour, PendingCheck: 30 * time.Second})
	assert.Equal(t, []string{app.JobSweep, app.JobPendingCheck}, s.Tick(ctx, t0))

	env.remote.On("Health", mock.Anything).Return(nil).Once()
	s = env.client.Scheduler(app.DefaultIntervals())
	assert.Equal(t, []string{app.JobSweep, app.JobPendingCheck, app.JobProbe}, s.Tick(ctx, t0))
	assert.True(t, env.client.Sync.IsOnline())
}

func TestClient_WatchStoreReloadsExternalChanges(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dir := t.TempDir()
	open := func(prefix string) *app.Client {
		s, err := file.New(dir)
		require.NoError(t, err)
		c := app.NewClient(s, new(mockRemote), app.WithIDGenerator(seqIDs(prefix)))
		require.NoError(t, c.Open(ctx))
		t.Cleanup(func() { _ = c.Close() })
		return c
	}

	daemon := open("daemon")
	cli := open("cli")

	done := make(chan error, 1)
	go func() { done <- daemon.WatchStore(ctx, 20*time.Millisecond) }()

	require.Eventually(t, func() bool {
		if _, err := cli.Notes.Add(ctx, entities.NewNoteParams{Title: "from cli"}); err != nil {
			return false
		}
		for _, n := range daemon.Library.Notes() {
			if n.Title == "from cli" {
				return true
			}
		}
		return false
	}, 3*time.Second, 100*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}

func TestClient_WatchStoreUnsupported(t *testing.T) {
	env := newTestEnv(t)
	err := env.client.WatchStore(context.Background(), time.Millisecond)
	assert.ErrorIs(t, err, app.ErrWatchUnsupported)
}
