package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"taxifrota/pkg/logger"
	"taxifrota/pkg/models"
	"taxifrota/storage"
)

type RentalInput struct {
	DriverID    string                 `json:"driver_id" validate:"required"`
	DriverName  string                 `json:"driver_name"`
	VehicleID   string                 `json:"vehicle_id"`
	VehicleType string                 `json:"vehicle_type" validate:"required"`
	StartDate   time.Time              `json:"start_date" validate:"required"`
	EndDate     time.Time              `json:"end_date" validate:"required,gtefield=StartDate"`
	DailyRate   float64                `json:"daily_rate" validate:"gte=0"`
	TotalAmount float64                `json:"total_amount" validate:"gte=0"`
	Documents   models.RentalDocuments `json:"documents"`
	Notes       string                 `json:"notes"`
}

type RentalFilter struct {
	Status    models.RentalStatus
	DriverID  string
	VehicleID string
}

type RentalService interface {
	Create(ctx context.Context, in RentalInput) (*models.RentalRequest, error)
	List(ctx context.Context, f RentalFilter) ([]*models.RentalRequest, error)
	Get(ctx context.Context, id string) (*models.RentalRequest, error)
	ChangeStatus(ctx context.Context, id string, to models.RentalStatus, actor string) (*models.RentalRequest, error)
	UpdatePaymentStatus(ctx context.Context, id string, status models.PaymentStatus) (*models.RentalRequest, error)
	Delete(ctx context.Context, id string) error
}

type rentalService struct {
	stg storage.IStorage
	d   *deps
	log logger.ILogger
}

func NewRentalService(stg storage.IStorage, d *deps, log logger.ILogger) RentalService {
	return &rentalService{stg: stg, d: d, log: log}
}

func (s *rentalService) Create(ctx context.Context, in RentalInput) (*models.RentalRequest, error) {
	if err := check(in); err != nil {
		return nil, err
	}

	driverName := in.DriverName
	driver, err := s.stg.Driver().Get(ctx, in.DriverID)
	if err != nil {
		return nil, err
	}
	if driver == nil {
		return nil, invalid("driver_id", "motorista não encontrado")
	}
	if driverName == "" {
		driverName = driver.FullName()
	}

	rate := in.DailyRate
	if in.VehicleID != "" {
		vehicle, err := s.stg.Vehicle().Get(ctx, in.VehicleID)
		if err != nil {
			return nil, err
		}
		if vehicle == nil {
			return nil, invalid("vehicle_id", "veículo não encontrado")
		}
		if rate == 0 {
			rate = vehicle.DailyPrice
		}
	}

	days := models.RentalDays(in.StartDate, in.EndDate)
	total := in.TotalAmount
	if total == 0 {
		total = math.Round(float64(days)*rate*100) / 100
	}

	saved, err := s.stg.Rental().Add(ctx, &models.RentalRequest{
		DriverID:      in.DriverID,
		DriverName:    driverName,
		VehicleID:     in.VehicleID,
		VehicleType:   in.VehicleType,
		StartDate:     in.StartDate,
		EndDate:       in.EndDate,
		TotalDays:     days,
		DailyRate:     rate,
		TotalAmount:   total,
		Status:        models.RentalPending,
		PaymentStatus: models.PaymentPending,
		Documents:     in.Documents,
		Notes:         in.Notes,
	})
	if err != nil {
		return nil, err
	}
	s.d.cache.Invalidate(ctx)
	return saved, nil
}

func (s *rentalService) List(ctx context.Context, f RentalFilter) ([]*models.RentalRequest, error) {
	filters := map[string]any{}
	if f.Status != "" {
		if !f.Status.Valid() {
			return nil, fmt.Errorf("%w: %q", models.ErrInvalidStatus, f.Status)
		}
		filters["status"] = f.Status
	}
	if f.DriverID != "" {
		filters["driver_id"] = f.DriverID
	}
	if f.VehicleID != "" {
		filters["vehicle_id"] = f.VehicleID
	}
	return s.stg.Rental().Find(ctx, storage.ByNewest(filters))
}

func (s *rentalService) Get(ctx context.Context, id string) (*models.RentalRequest, error) {
	r, err := s.stg.Rental().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, storage.ErrNotFound
	}
	return r, nil
}

func (s *rentalService) ChangeStatus(ctx context.Context, id string, to models.RentalStatus, actor string) (*models.RentalRequest, error) {
	var out *models.RentalRequest
	err := s.stg.WithTx(ctx, func(tx storage.IStorage) error {
		r, err := tx.Rental().Get(ctx, id)
		if err != nil {
			return err
		}
		if r == nil {
			return storage.ErrNotFound
		}
		next, err := r.Status.Transition(to)
		if err != nil {
			return err
		}
		out, err = tx.Rental().Update(ctx, id, map[string]any{"status": next})
		if err != nil {
			return err
		}
		return recordChange(ctx, tx, storage.CollectionRentals, id, string(r.Status), string(next), actor, s.d.now())
	})
	if err != nil {
		return nil, err
	}
	s.d.cache.Invalidate(ctx)

	if out.Status == models.RentalApproved {
		out = s.syncCalendar(ctx, out)
	}
	return out, nil
}

// syncCalendar adds the approved rental to the fleet calendar. Failures
// leave the rental approved without a link.
func (s *rentalService) syncCalendar(ctx context.Context, r *models.RentalRequest) *models.RentalRequest {
	link, err := s.d.calendar.AddRental(ctx, r)
	if err != nil {
		s.log.Warning("failed to add rental to calendar", logger.String("id", r.ID), logger.Error(err))
		return r
	}
	if link == "" {
		return r
	}
	updated, err := s.stg.Rental().Update(ctx, r.ID, map[string]any{"calendar_link": link})
	if err != nil {
		s.log.Warning("failed to store calendar link", logger.String("id", r.ID), logger.Error(err))
		return r
	}
	return updated
}

func (s *rentalService) UpdatePaymentStatus(ctx context.Context, id string, status models.PaymentStatus) (*models.RentalRequest, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", models.ErrInvalidStatus, status)
	}
	return s.stg.Rental().Update(ctx, id, map[string]any{"payment_status": status})
}

func (s *rentalService) Delete(ctx context.Context, id string) error {
	if err := s.stg.Rental().Delete(ctx, id); err != nil {
		return err
	}
	s.d.cache.Invalidate(ctx)
	return nil
}
