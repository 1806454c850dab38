package service

import (
	"context"
	"time"

	"taxifrota/pkg/models"
	"taxifrota/storage"
)

func recordChange(ctx context.Context, tx storage.IStorage, collection, id, from, to, actor string, at time.Time) error {
	if actor == "" {
		actor = "system"
	}
	return tx.StatusLog().Record(ctx, &models.StatusChange{
		Collection: collection,
		DocumentID: id,
		From:       from,
		To:         to,
		Actor:      actor,
		At:         at,
	})
}
