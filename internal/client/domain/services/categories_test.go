package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notasapp/internal/client/domain/entities"
	"notasapp/internal/client/domain/services"
)

func TestAddCategory(t *testing.T) {
	cats, c, err := services.AddCategory(nil, " Work ", "#fff", "c1", t0)
	require.NoError(t, err)
	require.Len(t, cats, 1)
	assert.Equal(t, "Work", c.Name)
	assert.Equal(t, entities.DefaultCategoryIcon, c.Icon)
	assert.Equal(t, entities.SyncPending, c.SyncStatus)
	assert.False(t, c.IsDefault)

	_, _, err = services.AddCategory(cats, "", "#000", "c2", t0)
	assert.ErrorIs(t, err, services.ErrEmptyCategoryName)
}

func TestUpdateCategory(t *testing.T) {
	cats, _, err := services.AddCategory(nil, "Work", "#fff", "c1", t0)
	require.NoError(t, err)
	cats, _ = services.MarkCategoriesSynced(cats, []services.Ack{{ID: "c1", LocalVersion: 1, ServerVersion: 1}})

	name, icon := "Job", "briefcase"
	next, ok, err := services.UpdateCategory(cats, "c1", entities.CategoryPatch{Name: &name, Icon: &icon}, t0.Add(time.Hour))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Job", next[0].Name)
	assert.Equal(t, "briefcase", next[0].Icon)
	assert.Equal(t, "#fff", next[0].Color)
	assert.Equal(t, int64(2), next[0].LocalVersion)
	assert.Equal(t, entities.SyncPending, next[0].SyncStatus)

	empty := " "
	_, _, err = services.UpdateCategory(cats, "c1", entities.CategoryPatch{Name: &empty}, t0)
	assert.ErrorIs(t, err, services.ErrEmptyCategoryName)

	_, ok, err = services.UpdateCategory(cats, "missing", entities.CategoryPatch{Name: &name}, t0)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDeleteCategoryCascades(t *testing.T) {
	cats := []entities.Category{
		{ID: "favoritos", Name: "Favoritos", IsDefault: true},
		{ID: "work", Name: "Work"},
	}
	notes := mustAdd(t, nil, "n1", entities.NewNoteParams{Title: "A", Categories: []string{"work", "home"}}, t0)
	notes = mustAdd(t, notes, "n2", entities.NewNoteParams{Title: "B", Categories: []string{"home"}}, t0)

	nextCats, nextNotes, touched, err := services.DeleteCategory(cats, notes, "work", t0.Add(time.Hour))
	require.NoError(t, err)
	assert.Len(t, nextCats, 1)
	assert.Equal(t, []string{"n1"}, touched)
	n1, _ := services.FindNote(nextNotes, "n1")
	assert.Equal(t, []string{"home"}, n1.Categories)
	assert.Equal(t, int64(2), n1.LocalVersion)

	_, _, _, err = services.DeleteCategory(cats, notes, "favoritos", t0)
	assert.ErrorIs(t, err, services.ErrDefaultCategory)

	same, _, touched, err := services.DeleteCategory(cats, notes, "missing", t0)
	require.NoError(t, err)
	assert.Equal(t, cats, same)
	assert.Empty(t, touched)
}

func TestReplaceCategoryID(t *testing.T) {
	cats, _, err := services.AddCategory(nil, "Work", "#fff", "local", t0)
	require.NoError(t, err)
	notes := mustAdd(t, nil, "n1", entities.NewNoteParams{Title: "A", Categories: []string{"local"}}, t0)

	notes = mustAdd(t, notes, "n2", entities.NewNoteParams{Title: "B"}, t0)
	notes, _ = services.MarkNotesSynced(notes, []services.Ack{
		{ID: "n1", LocalVersion: 1, ServerVersion: 4},
		{ID: "n2", LocalVersion: 1, ServerVersion: 5},
	})

	later := t0.Add(time.Minute)
	nextCats, nextNotes, touched, ok := services.ReplaceCategoryID(cats, notes, "local", "srv", later)
	require.True(t, ok)
	assert.Equal(t, "srv", nextCats[0].ID)
	assert.Equal(t, []string{"n1"}, touched)
	assert.Equal(t, []string{"local"}, notes[1].Categories, "input must not be mutated")
	assert.Equal(t, 1, services.CountPendingCategories(nextCats))

	rewritten, _ := services.FindNote(nextNotes, "n1")
	assert.Equal(t, []string{"srv"}, rewritten.Categories)
	assert.Equal(t, entities.SyncPending, rewritten.SyncStatus)
	assert.Equal(t, int64(2), rewritten.LocalVersion)
	assert.Equal(t, later, rewritten.UpdatedAt)

	other, _ := services.FindNote(nextNotes, "n2")
	assert.Equal(t, entities.SyncSynced, other.SyncStatus)
	assert.Equal(t, int64(1), other.LocalVersion)

	_, _, _, ok = services.ReplaceCategoryID(nextCats, nextNotes, "srv", "srv", later)
	assert.False(t, ok)
}
