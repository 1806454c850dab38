package service

import (
	"context"
	"fmt"
	"strings"

	"taxifrota/pkg/logger"
	"taxifrota/pkg/models"
	"taxifrota/storage"
)

const publicFeedLimit = 20

// EvaluationInput is the customer rating modal.
type EvaluationInput struct {
	DriverID        string   `json:"driver_id" validate:"required"`
	DriverName      string   `json:"driver_name"`
	Rating          int      `json:"rating" validate:"required,min=1,max=5"`
	Comment         string   `json:"comment" validate:"required"`
	EvaluatorName   string   `json:"evaluator_name" validate:"required"`
	EvaluatorEmail  string   `json:"evaluator_email" validate:"omitempty,email"`
	EvaluatorRole   string   `json:"evaluator_role"`
	VehicleType     string   `json:"vehicle_type"`
	RentalPeriod    string   `json:"rental_period"`
	Strengths       []string `json:"strengths"`
	Weaknesses      []string `json:"weaknesses"`
	Recommendations string   `json:"recommendations"`
}

type EvaluationFilter struct {
	Status   models.EvaluationStatus
	DriverID string
}

type EvaluationService interface {
	Submit(ctx context.Context, in EvaluationInput) (*models.Evaluation, error)
	List(ctx context.Context, f EvaluationFilter) ([]*models.Evaluation, error)
	Get(ctx context.Context, id string) (*models.Evaluation, error)
	ChangeStatus(ctx context.Context, id string, to models.EvaluationStatus, actor string) (*models.Evaluation, error)
	TogglePublic(ctx context.Context, id string) (*models.Evaluation, error)
	Delete(ctx context.Context, id string) error
	PublicFeed(ctx context.Context) ([]*models.Evaluation, error)
	DriverSummary(ctx context.Context, driverID string) (models.RatingSummary, error)
}

type evaluationService struct {
	stg storage.IStorage
	d   *deps
	log logger.ILogger
}

func NewEvaluationService(stg storage.IStorage, d *deps, log logger.ILogger) EvaluationService {
	return &evaluationService{stg: stg, d: d, log: log}
}

func (s *evaluationService) Submit(ctx context.Context, in EvaluationInput) (*models.Evaluation, error) {
	if err := check(in); err != nil {
		return nil, err
	}
	driver, err := s.stg.Driver().Get(ctx, in.DriverID)
	if err != nil {
		return nil, err
	}
	if driver == nil {
		return nil, invalid("driver_id", "motorista não encontrado")
	}
	driverName := strings.TrimSpace(in.DriverName)
	if driverName == "" {
		driverName = driver.FullName()
	}

	saved, err := s.stg.Evaluation().Add(ctx, &models.Evaluation{
		DriverID:        in.DriverID,
		DriverName:      driverName,
		Rating:          in.Rating,
		Comment:         strings.TrimSpace(in.Comment),
		EvaluatorName:   strings.TrimSpace(in.EvaluatorName),
		EvaluatorEmail:  strings.ToLower(strings.TrimSpace(in.EvaluatorEmail)),
		EvaluatorRole:   in.EvaluatorRole,
		VehicleType:     in.VehicleType,
		RentalPeriod:    in.RentalPeriod,
		Strengths:       in.Strengths,
		Weaknesses:      in.Weaknesses,
		Recommendations: in.Recommendations,
		Status:          models.EvaluationPending,
	})
	if err != nil {
		return nil, err
	}
	s.d.cache.Invalidate(ctx)
	return saved, nil
}

func (s *evaluationService) List(ctx context.Context, f EvaluationFilter) ([]*models.Evaluation, error) {
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
	return s.stg.Evaluation().Find(ctx, storage.ByNewest(filters))
}

func (s *evaluationService) Get(ctx context.Context, id string) (*models.Evaluation, error) {
	e, err := s.stg.Evaluation().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, storage.ErrNotFound
	}
	return e, nil
}

// ChangeStatus moves an evaluation through moderation. Publishing also
// makes it public and stamps who approved it.
func (s *evaluationService) ChangeStatus(ctx context.Context, id string, to models.EvaluationStatus, actor string) (*models.Evaluation, error) {
	var out *models.Evaluation
	err := s.stg.WithTx(ctx, func(tx storage.IStorage) error {
		e, err := tx.Evaluation().Get(ctx, id)
		if err != nil {
			return err
		}
		if e == nil {
			return storage.ErrNotFound
		}
		from, err := models.ParseEvaluationStatus(string(e.Status))
		if err != nil {
			return err
		}
		next, err := from.Transition(to)
		if err != nil {
			return err
		}

		now := s.d.now()
		patch := map[string]any{"status": next}
		switch next {
		case models.EvaluationApproved, models.EvaluationPublished:
			patch["approved_at"] = now
			patch["approved_by"] = actor
			if next == models.EvaluationPublished {
				patch["is_public"] = true
			}
		case models.EvaluationArchived:
			patch["is_public"] = false
		}
		out, err = tx.Evaluation().Update(ctx, id, patch)
		if err != nil {
			return err
		}
		return recordChange(ctx, tx, storage.CollectionEvaluations, id, string(from), string(next), actor, now)
	})
	if err != nil {
		return nil, err
	}
	s.d.cache.Invalidate(ctx)
	return out, nil
}

func (s *evaluationService) TogglePublic(ctx context.Context, id string) (*models.Evaluation, error) {
	e, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.stg.Evaluation().Update(ctx, id, map[string]any{"is_public": !e.IsPublic})
}

func (s *evaluationService) Delete(ctx context.Context, id string) error {
	if err := s.stg.Evaluation().Delete(ctx, id); err != nil {
		return err
	}
	s.d.cache.Invalidate(ctx)
	return nil
}

func (s *evaluationService) PublicFeed(ctx context.Context) ([]*models.Evaluation, error) {
	return s.stg.Evaluation().GetPublished(ctx, publicFeedLimit)
}

func (s *evaluationService) DriverSummary(ctx context.Context, driverID string) (models.RatingSummary, error) {
	evals, err := s.stg.Evaluation().GetByDriver(ctx, driverID)
	if err != nil {
		return models.RatingSummary{}, err
	}
	return models.RatingSummary{Average: models.AverageRating(evals), Count: len(evals)}, nil
}
