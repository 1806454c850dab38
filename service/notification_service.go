package service

import (
	"context"

	"taxifrota/pkg/logger"
	"taxifrota/pkg/models"
	"taxifrota/storage"
)

type NotificationService interface {
	ListUnread(ctx context.Context) ([]*models.Notification, error)
	MarkRead(ctx context.Context, id string) error
}

type notificationService struct {
	stg storage.IStorage
	log logger.ILogger
}

func NewNotificationService(stg storage.IStorage, log logger.ILogger) NotificationService {
	return &notificationService{stg: stg, log: log}
}

func (s *notificationService) ListUnread(ctx context.Context) ([]*models.Notification, error) {
	return s.stg.Notification().GetUnread(ctx)
}

func (s *notificationService) MarkRead(ctx context.Context, id string) error {
	return s.stg.Notification().MarkRead(ctx, id)
}
