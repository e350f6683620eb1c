package repositories

import (
	"context"

	"notasapp/internal/server/domain/entities"
)

// RecordRepository определяет операции с документами одной коллекции.
type RecordRepository interface {
	List(ctx context.Context, userID string) ([]entities.Record, error)

	Create(ctx context.Context, rec entities.Record) (entities.Record, error)

	Update(ctx context.Context, rec entities.Record) (entities.Record, error)

	Upsert(ctx context.Context, userID string, recs []entities.Record) error

	Delete(ctx context.Context, userID, id string) error
}
