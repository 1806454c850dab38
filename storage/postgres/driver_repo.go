package postgres

import (
	"context"

	"taxifrota/pkg/logger"
	"taxifrota/pkg/models"
	"taxifrota/storage"
)

type driverRepo struct {
	*Collection[models.Driver, *models.Driver]
	log logger.ILogger
}

func NewDriverRepo(db querier, log logger.ILogger) storage.IDriverStorage {
	return &driverRepo{
		Collection: NewCollection[models.Driver](db, storage.CollectionDrivers, log),
		log:        log,
	}
}

func (r *driverRepo) GetByStatus(ctx context.Context, status models.DriverStatus) ([]*models.Driver, error) {
	return r.Find(ctx, storage.ByNewest(map[string]any{"status": status}))
}

// GetByCPF expects the digits-only form the services store.
func (r *driverRepo) GetByCPF(ctx context.Context, cpf string) (*models.Driver, error) {
	drivers, err := r.Find(ctx, storage.Query{Filters: map[string]any{"cpf": cpf}, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(drivers) == 0 {
		return nil, nil
	}
	return drivers[0], nil
}
