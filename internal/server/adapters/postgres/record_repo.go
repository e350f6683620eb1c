package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"notasapp/internal/server/domain/entities"
	"notasapp/internal/server/ports/repositories"
	"notasapp/pkg/logger"
)

// ErrUnknownCollection возвращается для коллекции без таблицы.
var ErrUnknownCollection = errors.New("unknown collection")

type recordQueries struct {
	list, create, update, upsert, delete string
}

func queriesFor(table string) recordQueries {
	return recordQueries{
		list: fmt.Sprintf(`
        SELECT id, user_id, payload, server_version, updated_at
        FROM %s
        WHERE user_id = $1
        ORDER BY updated_at DESC`, table),
		create: fmt.Sprintf(`
        INSERT INTO %s (id, user_id, payload, server_version, updated_at)
        VALUES ($1, $2, $3, 1, NOW())
        RETURNING server_version, updated_at`, table),
		update: fmt.Sprintf(`
        UPDATE %s
        SET payload = $3, server_version = server_version + 1, updated_at = NOW()
        WHERE user_id = $1 AND id = $2
        RETURNING server_version, updated_at`, table),
		upsert: fmt.Sprintf(`
        INSERT INTO %[1]s (id, user_id, payload, server_version, updated_at)
        VALUES ($1, $2, $3, 1, NOW())
        ON CONFLICT (user_id, id) DO UPDATE
        SET payload = EXCLUDED.payload, server_version = %[1]s.server_version + 1, updated_at = NOW()`, table),
		delete: fmt.Sprintf(`
        DELETE FROM %s
        WHERE user_id = $1 AND id = $2`, table),
	}
}

// RecordRepository хранит документы одной коллекции в jsonb.
type RecordRepository struct {
	pool       PgxPoolInterface
	collection entities.Collection
	q          recordQueries
}

// NewRecordRepository создает репозиторий для коллекции notes или categories.
func NewRecordRepository(pool PgxPoolInterface, collection entities.Collection) (repositories.RecordRepository, error) {
	switch collection {
	case entities.Notes, entities.Categories:
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownCollection, collection)
	}
	return &RecordRepository{pool: pool, collection: collection, q: queriesFor(string(collection))}, nil
}

func (r *RecordRepository) log(ctx context.Context, method string) *logger.Logger {
	return logger.Log(ctx).With(zap.String("repository", string(r.collection)), zap.String("method", method))
}

// List возвращает документы пользователя, новые первыми.
func (r *RecordRepository) List(ctx context.Context, userID string) ([]entities.Record, error) {
	log := r.log(ctx, "List")

	rows, err := r.pool.Query(ctx, r.q.list, userID)
	if err != nil {
		log.Error(ctx, "failed to list records", zap.Error(err))
		return nil, fmt.Errorf("failed to list %s: %w", r.collection, err)
	}
	defer rows.Close()

	recs := make([]entities.Record, 0)
	for rows.Next() {
		var rec entities.Record
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.Payload, &rec.ServerVersion, &rec.UpdatedAt); err != nil {
			log.Error(ctx, "failed to scan record", zap.Error(err))
			return nil, fmt.Errorf("failed to scan %s: %w", r.collection, err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		log.Error(ctx, "error iterating rows", zap.Error(err))
		return nil, fmt.Errorf("error iterating %s: %w", r.collection, err)
	}
	return recs, nil
}

// Create вставляет документ с serverVersion=1.
func (r *RecordRepository) Create(ctx context.Context, rec entities.Record) (entities.Record, error) {
	log := r.log(ctx, "Create")

	err := r.pool.QueryRow(ctx, r.q.create, rec.ID, rec.UserID, rec.Payload).Scan(&rec.ServerVersion, &rec.UpdatedAt)
	if err != nil {
		log.Error(ctx, "failed to create record", zap.Error(err))
		return entities.Record{}, fmt.Errorf("failed to create %s: %w", r.collection, err)
	}
	log.Debug(ctx, "record created", zap.String("id", rec.ID))
	return rec, nil
}

// Update заменяет payload и увеличивает serverVersion.
func (r *RecordRepository) Update(ctx context.Context, rec entities.Record) (entities.Record, error) {
	log := r.log(ctx, "Update")

	err := r.pool.QueryRow(ctx, r.q.update, rec.UserID, rec.ID, rec.Payload).Scan(&rec.ServerVersion, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "record not found", zap.String("id", rec.ID))
			return entities.Record{}, entities.ErrRecordNotFound
		}
		log.Error(ctx, "failed to update record", zap.Error(err))
		return entities.Record{}, fmt.Errorf("failed to update %s: %w", r.collection, err)
	}
	return rec, nil
}

// Upsert записывает пакет документов в одной транзакции. Последняя запись побеждает.
func (r *RecordRepository) Upsert(ctx context.Context, userID string, recs []entities.Record) error {
	log := r.log(ctx, "Upsert")

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		log.Error(ctx, "failed to begin transaction", zap.Error(err))
		return fmt.Errorf("failed to begin %s upsert: %w", r.collection, err)
	}

	for _, rec := range recs {
		if _, err := tx.Exec(ctx, r.q.upsert, rec.ID, userID, rec.Payload); err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				log.Error(ctx, "failed to rollback transaction", zap.Error(rbErr))
			}
			log.Error(ctx, "failed to upsert record", zap.String("id", rec.ID), zap.Error(err))
			return fmt.Errorf("failed to upsert %s: %w", r.collection, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		log.Error(ctx, "failed to commit transaction", zap.Error(err))
		return fmt.Errorf("failed to commit %s upsert: %w", r.collection, err)
	}
	log.Debug(ctx, "records upserted", zap.Int("count", len(recs)))
	return nil
}

// Delete удаляет документ пользователя.
func (r *RecordRepository) Delete(ctx context.Context, userID, id string) error {
	log := r.log(ctx, "Delete")

	result, err := r.pool.Exec(ctx, r.q.delete, userID, id)
	if err != nil {
		log.Error(ctx, "failed to delete record", zap.Error(err))
		return fmt.Errorf("failed to delete %s: %w", r.collection, err)
	}
	if result.RowsAffected() == 0 {
		return entities.ErrRecordNotFound
	}
	return nil
}
