package postgres

import (
	"context"

	"taxifrota/pkg/logger"
	"taxifrota/pkg/models"
	"taxifrota/storage"
)

type evaluationRepo struct {
	*Collection[models.Evaluation, *models.Evaluation]
}

func NewEvaluationRepo(db querier, log logger.ILogger) storage.IEvaluationStorage {
	return &evaluationRepo{NewCollection[models.Evaluation](db, storage.CollectionEvaluations, log)}
}

func (r *evaluationRepo) GetByDriver(ctx context.Context, driverID string) ([]*models.Evaluation, error) {
	return r.Find(ctx, storage.ByNewest(map[string]any{"driver_id": driverID}))
}

func (r *evaluationRepo) GetByStatus(ctx context.Context, status models.EvaluationStatus) ([]*models.Evaluation, error) {
	return r.Find(ctx, storage.ByNewest(map[string]any{"status": status}))
}

// GetPublished lists testimonials fit for the public site.
func (r *evaluationRepo) GetPublished(ctx context.Context, limit int) ([]*models.Evaluation, error) {
	q := storage.ByNewest(map[string]any{"status": models.EvaluationPublished, "is_public": true})
	q.Limit = limit
	return r.Find(ctx, q)
}
