package app

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"notasapp/internal/server/domain/entities"
	"notasapp/internal/server/ports/api"
	"notasapp/internal/server/ports/repositories"
	"notasapp/pkg/logger"
)

const logBatchSynced = "batch synced"

// RecordUseCase хранит документы клиента одной коллекции. Сервер не
// разбирает содержимое документа, кроме поля id.
type RecordUseCase struct {
	repo       repositories.RecordRepository
	collection entities.Collection
	newID      func() string
}

// NewRecordUseCase создает новый экземпляр RecordUseCase.
func NewRecordUseCase(repo repositories.RecordRepository, collection entities.Collection) *RecordUseCase {
	return &RecordUseCase{repo: repo, collection: collection, newID: uuid.NewString}
}

var _ api.RecordService = (*RecordUseCase)(nil)

// List возвращает документы пользователя.
func (uc *RecordUseCase) List(ctx context.Context, userID string) ([]json.RawMessage, error) {
	recs, err := uc.repo.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", uc.collection, err)
	}
	return documents(recs)
}

// Create сохраняет документ под новым серверным id.
func (uc *RecordUseCase) Create(ctx context.Context, userID string, doc json.RawMessage) (json.RawMessage, error) {
	if _, err := entities.DecodeDocument(doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidParams, err)
	}

	rec, err := uc.repo.Create(ctx, entities.Record{ID: uc.newID(), UserID: userID, Payload: doc})
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", uc.collection, err)
	}
	return rec.Document()
}

// Update заменяет документ id.
func (uc *RecordUseCase) Update(ctx context.Context, userID, id string, doc json.RawMessage) (json.RawMessage, error) {
	if id == "" {
		return nil, ErrInvalidParams
	}
	if _, err := entities.DecodeDocument(doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidParams, err)
	}

	rec, err := uc.repo.Update(ctx, entities.Record{ID: id, UserID: userID, Payload: doc})
	if err != nil {
		return nil, fmt.Errorf("failed to update %s: %w", uc.collection, err)
	}
	return rec.Document()
}

// Delete удаляет документ id.
func (uc *RecordUseCase) Delete(ctx context.Context, userID, id string) error {
	if id == "" {
		return ErrInvalidParams
	}
	if err := uc.repo.Delete(ctx, userID, id); err != nil {
		return fmt.Errorf("failed to delete %s: %w", uc.collection, err)
	}
	return nil
}

// Sync записывает пакет документов под их собственными id и возвращает
// все документы пользователя. Документ без id получает серверный id.
func (uc *RecordUseCase) Sync(ctx context.Context, userID string, docs []json.RawMessage) ([]json.RawMessage, error) {
	recs := make([]entities.Record, 0, len(docs))
	for _, doc := range docs {
		id, err := entities.DocumentID(doc)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidParams, err)
		}
		if id == "" {
			id = uc.newID()
		}
		recs = append(recs, entities.Record{ID: id, UserID: userID, Payload: doc})
	}

	if len(recs) > 0 {
		if err := uc.repo.Upsert(ctx, userID, recs); err != nil {
			return nil, fmt.Errorf("failed to sync %s: %w", uc.collection, err)
		}
	}
	logger.Log(ctx).Info(ctx, logBatchSynced,
		zap.String("collection", string(uc.collection)), zap.Int("count", len(recs)))

	return uc.List(ctx, userID)
}

func documents(recs []entities.Record) ([]json.RawMessage, error) {
	out := make([]json.RawMessage, 0, len(recs))
	for _, rec := range recs {
		doc, err := rec.Document()
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, nil
}
