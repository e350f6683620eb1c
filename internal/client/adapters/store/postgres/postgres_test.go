package postgres_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notasapp/internal/client/adapters/store/postgres"
	"notasapp/internal/client/ports/store"
)

func TestStoreGet(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("SELECT value FROM blobs").
			WithArgs("default", store.KeyNotes).
			WillReturnRows(pgxmock.NewRows([]string{"value"}).AddRow([]byte(`[]`)))

		got, err := postgres.New(mock, "default").Get(ctx, store.KeyNotes)
		require.NoError(t, err)
		assert.Equal(t, []byte(`[]`), got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("SELECT value FROM blobs").
			WithArgs("default", store.KeyNotes).
			WillReturnError(pgx.ErrNoRows)

		_, err = postgres.New(mock, "default").Get(ctx, store.KeyNotes)
		assert.ErrorIs(t, err, store.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("database error", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("SELECT value FROM blobs").
			WithArgs("default", store.KeyNotes).
			WillReturnError(errors.New("connection reset"))

		_, err = postgres.New(mock, "default").Get(ctx, store.KeyNotes)
		require.Error(t, err)
		assert.NotErrorIs(t, err, store.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestStoreSetAndDelete(t *testing.T) {
	ctx := context.Background()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("INSERT INTO blobs").
		WithArgs("p1", store.KeySettings, []byte(`{}`)).
		WillReturnResult(pgconn.NewCommandTag("INSERT 0 1"))
	mock.ExpectExec("DELETE FROM blobs").
		WithArgs("p1", store.KeySettings).
		WillReturnResult(pgconn.NewCommandTag("DELETE 1"))
	mock.ExpectExec("INSERT INTO blobs").
		WithArgs("p1", store.KeySettings, []byte(`{}`)).
		WillReturnError(errors.New("disk full"))

	s := postgres.New(mock, "p1")
	require.NoError(t, s.Set(ctx, store.KeySettings, []byte(`{}`)))
	require.NoError(t, s.Delete(ctx, store.KeySettings))
	assert.ErrorContains(t, s.Set(ctx, store.KeySettings, []byte(`{}`)), "error writing blob")
	assert.NoError(t, mock.ExpectationsWereMet())
}
