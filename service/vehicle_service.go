package service

import (
	"context"
	"strings"

	"taxifrota/pkg/logger"
	"taxifrota/pkg/models"
	"taxifrota/pkg/validation"
	"taxifrota/storage"
)

type VehicleInput struct {
	Make         string   `json:"make" validate:"required"`
	Model        string   `json:"model" validate:"required"`
	Year         string   `json:"year" validate:"required"`
	Category     string   `json:"category" validate:"required"`
	Fuel         string   `json:"fuel"`
	Plate        string   `json:"plate"`
	DailyPrice   float64  `json:"daily_price" validate:"gt=0"`
	WeeklyPrice  float64  `json:"weekly_price" validate:"gte=0"`
	MonthlyPrice float64  `json:"monthly_price" validate:"gte=0"`
	Features     []string `json:"features"`
	ImageURL     string   `json:"image_url"`
	Available    bool     `json:"available"`
	Featured     bool     `json:"featured"`
	Accessible   bool     `json:"accessible"`
}

type VehicleService interface {
	Catalog(ctx context.Context, f storage.VehicleFilter) ([]*models.Vehicle, error)
	Get(ctx context.Context, id string) (*models.Vehicle, error)
	Create(ctx context.Context, in VehicleInput) (*models.Vehicle, error)
	Update(ctx context.Context, id string, in VehicleInput) (*models.Vehicle, error)
	ToggleAvailability(ctx context.Context, id string) (*models.Vehicle, error)
	ToggleFeatured(ctx context.Context, id string) (*models.Vehicle, error)
	Delete(ctx context.Context, id string) error
}

type vehicleService struct {
	stg storage.IStorage
	log logger.ILogger
}

func NewVehicleService(stg storage.IStorage, log logger.ILogger) VehicleService {
	return &vehicleService{stg: stg, log: log}
}

func (s *vehicleService) Catalog(ctx context.Context, f storage.VehicleFilter) ([]*models.Vehicle, error) {
	return s.stg.Vehicle().Catalog(ctx, f)
}

func (s *vehicleService) Get(ctx context.Context, id string) (*models.Vehicle, error) {
	v, err := s.stg.Vehicle().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, storage.ErrNotFound
	}
	return v, nil
}

func vehicleFromInput(in VehicleInput) (*models.Vehicle, error) {
	if err := check(in); err != nil {
		return nil, err
	}
	plate := validation.NormalizePlate(in.Plate)
	if plate != "" && !validation.ValidPlate(plate) {
		return nil, invalid("plate", "placa inválida")
	}
	features := in.Features
	if features == nil {
		features = []string{}
	}
	return &models.Vehicle{
		Make:         strings.TrimSpace(in.Make),
		Model:        strings.TrimSpace(in.Model),
		Year:         strings.TrimSpace(in.Year),
		Category:     strings.ToLower(strings.TrimSpace(in.Category)),
		Fuel:         in.Fuel,
		Plate:        plate,
		DailyPrice:   in.DailyPrice,
		WeeklyPrice:  in.WeeklyPrice,
		MonthlyPrice: in.MonthlyPrice,
		Features:     features,
		ImageURL:     in.ImageURL,
		Available:    in.Available,
		Featured:     in.Featured,
		Accessible:   in.Accessible,
	}, nil
}

func (s *vehicleService) Create(ctx context.Context, in VehicleInput) (*models.Vehicle, error) {
	v, err := vehicleFromInput(in)
	if err != nil {
		return nil, err
	}
	return s.stg.Vehicle().Add(ctx, v)
}

func (s *vehicleService) Update(ctx context.Context, id string, in VehicleInput) (*models.Vehicle, error) {
	v, err := vehicleFromInput(in)
	if err != nil {
		return nil, err
	}
	return s.stg.Vehicle().Replace(ctx, id, v)
}

func (s *vehicleService) ToggleAvailability(ctx context.Context, id string) (*models.Vehicle, error) {
	v, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.stg.Vehicle().Update(ctx, id, map[string]any{"available": !v.Available})
}

func (s *vehicleService) ToggleFeatured(ctx context.Context, id string) (*models.Vehicle, error) {
	v, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.stg.Vehicle().Update(ctx, id, map[string]any{"featured": !v.Featured})
}

func (s *vehicleService) Delete(ctx context.Context, id string) error {
	return s.stg.Vehicle().Delete(ctx, id)
}
