package postgres

import (
	"context"

	"taxifrota/pkg/logger"
	"taxifrota/pkg/models"
	"taxifrota/storage"
)

type statusLogRepo struct {
	changes *Collection[models.StatusChange, *models.StatusChange]
}

func NewStatusLogRepo(db querier, log logger.ILogger) storage.IStatusLogStorage {
	return &statusLogRepo{changes: NewCollection[models.StatusChange](db, storage.CollectionStatusChanges, log)}
}

func (r *statusLogRepo) Record(ctx context.Context, change *models.StatusChange) error {
	saved, err := r.changes.Add(ctx, change)
	if err != nil {
		return err
	}
	*change = *saved
	return nil
}

func (r *statusLogRepo) GetByDocument(ctx context.Context, collection, documentID string) ([]*models.StatusChange, error) {
	return r.changes.Find(ctx, storage.Query{
		Filters: map[string]any{"collection": collection, "document_id": documentID},
		OrderBy: storage.OrderCreatedAt,
		Asc:     true,
	})
}
