package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"taxifrota/pkg/logger"
	"taxifrota/pkg/models"
	"taxifrota/storage"
)

type applicationRepo struct {
	*Collection[models.Application, *models.Application]
	log logger.ILogger
}

func NewApplicationRepo(db querier, log logger.ILogger) storage.IApplicationStorage {
	return &applicationRepo{
		Collection: NewCollection[models.Application](db, storage.CollectionApplications, log),
		log:        log,
	}
}

func (r *applicationRepo) GetByStatus(ctx context.Context, status models.ApplicationStatus, orderBy string, asc bool) ([]*models.Application, error) {
	if orderBy == "" {
		orderBy = storage.OrderCreatedAt
	}
	return r.Find(ctx, storage.Query{
		Filters: map[string]any{"status": status},
		OrderBy: orderBy,
		Asc:     asc,
	})
}

func (r *applicationRepo) AppendReview(ctx context.Context, id string, review models.Review) (*models.Application, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, storage.ErrNotFound
	}
	raw, err := json.Marshal(review)
	if err != nil {
		return nil, err
	}
	query := `
		UPDATE applications
		SET data = jsonb_set(data, '{reviews}', COALESCE(data->'reviews', '[]'::jsonb) || jsonb_build_array($2::jsonb))
			|| jsonb_build_object('status', $3::text),
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + selectColumns
	app, err := r.queryOne(ctx, query, id, string(raw), string(review.Status))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		r.log.Error("failed to append review", logger.String("id", id), logger.Error(err))
		return nil, err
	}
	return app, nil
}
