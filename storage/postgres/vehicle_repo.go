package postgres

import (
	"context"

	"taxifrota/pkg/logger"
	"taxifrota/pkg/models"
	"taxifrota/storage"
)

type vehicleRepo struct {
	*Collection[models.Vehicle, *models.Vehicle]
}

func NewVehicleRepo(db querier, log logger.ILogger) storage.IVehicleStorage {
	return &vehicleRepo{NewCollection[models.Vehicle](db, storage.CollectionVehicles, log)}
}

func (r *vehicleRepo) Catalog(ctx context.Context, f storage.VehicleFilter) ([]*models.Vehicle, error) {
	return r.Find(ctx, storage.Query{Filters: f.Filters(), OrderBy: "daily_price", Asc: true})
}
