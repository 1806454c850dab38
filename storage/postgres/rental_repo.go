package postgres

import (
	"context"

	"taxifrota/pkg/logger"
	"taxifrota/pkg/models"
	"taxifrota/storage"
)

type rentalRepo struct {
	*Collection[models.RentalRequest, *models.RentalRequest]
}

func NewRentalRepo(db querier, log logger.ILogger) storage.IRentalStorage {
	return &rentalRepo{NewCollection[models.RentalRequest](db, storage.CollectionRentals, log)}
}

func (r *rentalRepo) GetByDriver(ctx context.Context, driverID string) ([]*models.RentalRequest, error) {
	return r.Find(ctx, storage.ByNewest(map[string]any{"driver_id": driverID}))
}

func (r *rentalRepo) GetByVehicle(ctx context.Context, vehicleID string) ([]*models.RentalRequest, error) {
	return r.Find(ctx, storage.ByNewest(map[string]any{"vehicle_id": vehicleID}))
}

func (r *rentalRepo) GetByStatus(ctx context.Context, status models.RentalStatus) ([]*models.RentalRequest, error) {
	return r.Find(ctx, storage.ByNewest(map[string]any{"status": status}))
}
