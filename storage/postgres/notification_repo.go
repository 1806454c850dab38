package postgres

import (
	"context"

	"taxifrota/pkg/logger"
	"taxifrota/pkg/models"
	"taxifrota/storage"
)

type notificationRepo struct {
	*Collection[models.Notification, *models.Notification]
}

func NewNotificationRepo(db querier, log logger.ILogger) storage.INotificationStorage {
	return &notificationRepo{NewCollection[models.Notification](db, storage.CollectionNotifications, log)}
}

func (r *notificationRepo) GetUnread(ctx context.Context) ([]*models.Notification, error) {
	return r.Find(ctx, storage.ByNewest(map[string]any{"read": false}))
}

func (r *notificationRepo) MarkRead(ctx context.Context, id string) error {
	_, err := r.Update(ctx, id, map[string]any{"read": true})
	return err
}
