package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notasapp/internal/client/domain/entities"
	"notasapp/internal/client/domain/services"
)

var t0 = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func mustAdd(t *testing.T, notes []entities.Note, id string, p entities.NewNoteParams, now time.Time) []entities.Note {
	t.Helper()
	next, _, err := services.AddNote(notes, p, id, now)
	require.NoError(t, err)
	return next
}

func assertTrashInvariant(t *testing.T, notes []entities.Note) {
	t.Helper()
	for _, n := range notes {
		assert.Equal(t, n.IsInTrash, n.DeletedAt != nil, "note %s", n.ID)
	}
}

func TestAddNote(t *testing.T) {
	t.Run("prepends pending note", func(t *testing.T) {
		notes := mustAdd(t, nil, "a", entities.NewNoteParams{Title: "A"}, t0)
		notes, created, err := services.AddNote(notes, entities.NewNoteParams{Title: "B", Tags: []string{"x"}}, "b", t0.Add(time.Minute))
		require.NoError(t, err)

		require.Len(t, notes, 2)
		assert.Equal(t, "b", notes[0].ID)
		assert.Equal(t, "b", created.ID)
		assert.Equal(t, entities.SyncPending, created.SyncStatus)
		assert.False(t, created.IsArchived)
		assert.False(t, created.IsInTrash)
		assert.Nil(t, created.DeletedAt)
		assert.Nil(t, created.ExpiresAt)
		assert.Equal(t, int64(1), created.LocalVersion)
		assert.NotNil(t, notes[1].Categories)
	})

	t.Run("quick note expires five days after creation", func(t *testing.T) {
		_, created, err := services.AddNote(nil, entities.NewNoteParams{Title: "Q", IsQuickNote: true}, "q", t0)
		require.NoError(t, err)
		require.NotNil(t, created.ExpiresAt)
		assert.Equal(t, t0.Add(5*24*time.Hour), *created.ExpiresAt)
	})

	t.Run("task items only for tasks", func(t *testing.T) {
		items := []entities.TaskItem{{ID: "1", Text: "buy milk"}}
		_, task, err := services.AddNote(nil, entities.NewNoteParams{Title: "T", IsTask: true, TaskItems: items}, "t", t0)
		require.NoError(t, err)
		assert.Len(t, task.TaskItems, 1)

		_, plain, err := services.AddNote(nil, entities.NewNoteParams{Title: "P", TaskItems: items}, "p", t0)
		require.NoError(t, err)
		assert.Empty(t, plain.TaskItems)
	})

	t.Run("empty note is rejected without mutation", func(t *testing.T) {
		notes := mustAdd(t, nil, "a", entities.NewNoteParams{Title: "A"}, t0)
		next, _, err := services.AddNote(notes, entities.NewNoteParams{Title: "  "}, "b", t0)
		assert.ErrorIs(t, err, services.ErrEmptyNote)
		assert.Equal(t, notes, next)
	})
}

func TestUpdateNote(t *testing.T) {
	notes := mustAdd(t, nil, "q", entities.NewNoteParams{Title: "Q", IsQuickNote: true}, t0)
	stored := notes[0]

	t.Run("keeps identity fields and bumps version", func(t *testing.T) {
		edited := stored.Clone()
		edited.Title = "Q2"
		edited.CreatedAt = t0.Add(time.Hour)
		edited.ExpiresAt = nil
		edited.IsQuickNote = false

		next, ok := services.UpdateNote(notes, edited, t0.Add(time.Hour))
		require.True(t, ok)
		got := next[0]
		assert.Equal(t, "Q2", got.Title)
		assert.Equal(t, stored.CreatedAt, got.CreatedAt)
		assert.Equal(t, stored.ExpiresAt, got.ExpiresAt)
		assert.Equal(t, stored.LocalVersion+1, got.LocalVersion)
		assert.Equal(t, t0.Add(time.Hour), got.UpdatedAt)
		assert.Equal(t, entities.SyncPending, got.SyncStatus)
		assert.Equal(t, "Q", notes[0].Title, "input must not be mutated")
	})

	t.Run("unknown id is a no-op", func(t *testing.T) {
		ghost := stored.Clone()
		ghost.ID = "ghost"
		next, ok := services.UpdateNote(notes, ghost, t0)
		assert.False(t, ok)
		assert.Equal(t, notes, next)
	})

	t.Run("trash flag keeps deletedAt invariant", func(t *testing.T) {
		edited := stored.Clone()
		edited.IsInTrash = true
		next, ok := services.UpdateNote(notes, edited, t0.Add(time.Hour))
		require.True(t, ok)
		assertTrashInvariant(t, next)

		restored := next[0].Clone()
		restored.IsInTrash = false
		next, ok = services.UpdateNote(next, restored, t0.Add(2*time.Hour))
		require.True(t, ok)
		assertTrashInvariant(t, next)
	})
}

func TestLifecycleScenario(t *testing.T) {
	notes := mustAdd(t, nil, "a", entities.NewNoteParams{Title: "A"}, t0)

	all := services.Filter(notes, services.FilterAll, "")
	require.Len(t, all, 1)
	assert.Equal(t, "A", all[0].Title)

	notes, ok := services.ToggleFavorite(notes, "a", t0.Add(time.Minute))
	require.True(t, ok)
	assert.Len(t, services.Filter(notes, services.FilterFavorites, ""), 1)

	notes, ok = services.MoveToTrash(notes, "a", t0.Add(2*time.Minute))
	require.True(t, ok)
	assertTrashInvariant(t, notes)
	assert.Empty(t, services.Filter(notes, services.FilterAll, ""))
	assert.Empty(t, services.Filter(notes, services.FilterFavorites, ""))
	assert.Len(t, services.Filter(notes, services.FilterTrash, ""), 1)

	notes, ok = services.RestoreFromTrash(notes, "a", t0.Add(3*time.Minute))
	require.True(t, ok)
	assertTrashInvariant(t, notes)
	all = services.Filter(notes, services.FilterAll, "")
	require.Len(t, all, 1)
	assert.False(t, all[0].IsInTrash)
	assert.Nil(t, all[0].DeletedAt)
	assert.Equal(t, int64(4), all[0].LocalVersion)
}

func TestToggleArchive(t *testing.T) {
	notes := mustAdd(t, nil, "a", entities.NewNoteParams{Title: "A"}, t0)

	notes, ok := services.ToggleArchive(notes, "a", t0)
	require.True(t, ok)
	assert.True(t, notes[0].IsArchived)
	assert.Len(t, services.Filter(notes, services.FilterArchive, ""), 1)

	_, ok = services.ToggleArchive(notes, "missing", t0)
	assert.False(t, ok)
}

func TestEmptyTrash(t *testing.T) {
	var notes []entities.Note
	for _, id := range []string{"a", "b", "c", "d"} {
		notes = mustAdd(t, notes, id, entities.NewNoteParams{Title: id}, t0)
	}
	notes, _ = services.MoveToTrash(notes, "b", t0)
	notes, _ = services.MoveToTrash(notes, "d", t0)

	next, removed := services.EmptyTrash(notes)
	assert.ElementsMatch(t, []string{"b", "d"}, removed)
	assert.Len(t, next, len(notes)-2)
	for _, n := range next {
		assert.False(t, n.IsInTrash)
	}

	again, removed := services.EmptyTrash(next)
	assert.Empty(t, removed)
	assert.Equal(t, next, again)
}

func TestDeleteNote(t *testing.T) {
	notes := mustAdd(t, nil, "a", entities.NewNoteParams{Title: "A"}, t0)

	next, ok := services.DeleteNote(notes, "a")
	assert.True(t, ok)
	assert.Empty(t, next)

	next, ok = services.DeleteNote(notes, "missing")
	assert.False(t, ok)
	assert.Equal(t, notes, next)
}

func TestMarkNotesSynced(t *testing.T) {
	notes := mustAdd(t, nil, "a", entities.NewNoteParams{Title: "A"}, t0)
	notes = mustAdd(t, notes, "b", entities.NewNoteParams{Title: "B"}, t0)

	// b изменена после отправки
	acks := []services.Ack{
		{ID: "a", LocalVersion: 1, ServerVersion: 7},
		{ID: "b", LocalVersion: 1, ServerVersion: 8},
	}
	notes, _ = services.ToggleFavorite(notes, "b", t0.Add(time.Second))

	next, marked := services.MarkNotesSynced(notes, acks)
	assert.Equal(t, 1, marked)
	a, _ := services.FindNote(next, "a")
	b, _ := services.FindNote(next, "b")
	assert.Equal(t, entities.SyncSynced, a.SyncStatus)
	assert.Equal(t, int64(7), a.ServerVersion)
	assert.Equal(t, entities.SyncPending, b.SyncStatus)
	assert.Equal(t, 1, services.CountPending(next))
}

func TestReplaceNoteID(t *testing.T) {
	notes := mustAdd(t, nil, "local", entities.NewNoteParams{Title: "A", Tags: []string{"t"}}, t0)
	notes = mustAdd(t, notes, "other", entities.NewNoteParams{Title: "B"}, t0)

	next, ok := services.ReplaceNoteID(notes, "local", "server")
	require.True(t, ok)
	got, found := services.FindNote(next, "server")
	require.True(t, found)
	assert.Equal(t, "A", got.Title)
	assert.Equal(t, []string{"t"}, got.Tags)
	_, found = services.FindNote(next, "local")
	assert.False(t, found)

	_, ok = services.ReplaceNoteID(next, "server", "other")
	assert.False(t, ok, "colliding id must be refused")
}
