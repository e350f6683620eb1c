package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notasapp/internal/client/domain/entities"
	"notasapp/internal/client/domain/services"
)

const day = 24 * time.Hour

func TestSweepQuickNoteComposedTTL(t *testing.T) {
	notes := mustAdd(t, nil, "q", entities.NewNoteParams{Title: "Q", IsQuickNote: true}, t0)

	next, changed := services.Sweep(notes, t0.Add(4*day))
	assert.False(t, changed)
	assert.Equal(t, notes, next)

	trashedAt := t0.Add(5*day + time.Second)
	next, changed = services.Sweep(next, trashedAt)
	require.True(t, changed)
	require.Len(t, next, 1)
	assert.True(t, next[0].IsInTrash)
	require.NotNil(t, next[0].DeletedAt)
	assert.Equal(t, trashedAt, *next[0].DeletedAt)
	assert.Equal(t, entities.SyncPending, next[0].SyncStatus)

	next, changed = services.Sweep(next, trashedAt.Add(30*day))
	assert.False(t, changed, "exactly 30 days is not expired yet")
	require.Len(t, next, 1)

	next, changed = services.Sweep(next, trashedAt.Add(30*day+time.Second))
	assert.True(t, changed)
	assert.Empty(t, next)
}

func TestSweepArchive(t *testing.T) {
	notes := mustAdd(t, nil, "a", entities.NewNoteParams{Title: "A"}, t0)
	notes, _ = services.ToggleArchive(notes, "a", t0)

	next, changed := services.Sweep(notes, t0.Add(29*day))
	assert.False(t, changed)

	next, changed = services.Sweep(next, t0.Add(31*day))
	require.True(t, changed)
	assert.True(t, next[0].IsInTrash)
	assertTrashInvariant(t, next)
}

func TestSweepOneTransitionPerPass(t *testing.T) {
	old := t0.Add(-100 * day)
	notes := []entities.Note{
		// архивная быстрая заметка ловится первым правилом
		{ID: "qa", IsQuickNote: true, IsArchived: true, CreatedAt: old, UpdatedAt: old, Tags: []string{}, Categories: []string{}},
		{ID: "keep", CreatedAt: old, UpdatedAt: old, Tags: []string{}, Categories: []string{}},
	}

	next, res := services.SweepDetailed(notes, t0)
	assert.Equal(t, []string{"qa"}, res.Trashed)
	assert.Empty(t, res.Removed)
	require.Len(t, next, 2)
	assert.True(t, next[0].IsInTrash)
	assert.Equal(t, t0, *next[0].DeletedAt)
	assert.Equal(t, notes[1], next[1])
	assert.False(t, notes[0].IsInTrash, "input must not be mutated")
}
