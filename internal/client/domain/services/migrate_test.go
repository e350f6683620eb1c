package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notasapp/internal/client/domain/entities"
	"notasapp/internal/client/domain/services"
)

func TestMigrateLegacyNotes(t *testing.T) {
	raw := []byte(`[
		{"id":"w","title":"Welcome","category":"minhas-notas","isDeleted":false,"tags":["boas-vindas"],
		 "createdAt":"2025-01-01T00:00:00Z","updatedAt":"2025-01-01T00:00:00Z","syncStatus":"synced"},
		{"id":"old","title":"Old","categoryId":"work","isTrashed":true,
		 "createdAt":"2025-01-01T00:00:00Z","updatedAt":"2025-01-02T00:00:00Z"},
		{"id":"q","title":"Quick","isQuickNote":true,"createdAt":"2025-01-01T00:00:00Z","updatedAt":"2025-01-01T00:00:00Z"}
	]`)

	notes, migrated, err := services.MigrateLegacyNotes(raw)
	require.NoError(t, err)
	require.True(t, migrated)
	require.Len(t, notes, 3)

	assert.Equal(t, []string{"minhas-notas"}, notes[0].Categories)
	assert.Equal(t, entities.SyncSynced, notes[0].SyncStatus)
	assert.Equal(t, entities.CurrentSchemaVersion, notes[0].SchemaVersion)

	assert.Equal(t, []string{"work"}, notes[1].Categories)
	assert.True(t, notes[1].IsInTrash)
	require.NotNil(t, notes[1].DeletedAt)
	assert.Equal(t, notes[1].UpdatedAt, *notes[1].DeletedAt)
	assert.Equal(t, entities.SyncPending, notes[1].SyncStatus)
	assert.NotNil(t, notes[1].Tags)

	require.NotNil(t, notes[2].ExpiresAt)
	assert.Equal(t, notes[2].CreatedAt.Add(entities.QuickNoteTTL), *notes[2].ExpiresAt)
}

func TestMigrateCurrentNotesUntouched(t *testing.T) {
	raw := []byte(`[{"id":"a","title":"A","categories":["x"],"tags":[],"schemaVersion":2,"syncStatus":"pending"}]`)

	notes, migrated, err := services.MigrateLegacyNotes(raw)
	require.NoError(t, err)
	assert.False(t, migrated)
	assert.Equal(t, []string{"x"}, notes[0].Categories)
}

func TestMigrateInvalidJSON(t *testing.T) {
	_, _, err := services.MigrateLegacyNotes([]byte(`{`))
	assert.Error(t, err)
}
