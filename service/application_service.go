package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"taxifrota/pkg/logger"
	"taxifrota/pkg/models"
	"taxifrota/pkg/search"
	"taxifrota/pkg/validation"
	"taxifrota/storage"
)

// ApplicationInput is the public registration form.
type ApplicationInput struct {
	FirstName    string `json:"first_name" validate:"required"`
	LastName     string `json:"last_name" validate:"required"`
	Email        string `json:"email" validate:"required,email"`
	Phone        string `json:"phone" validate:"required,phone_br"`
	CPF          string `json:"cpf" validate:"required,cpf"`
	Condutax     string `json:"condutax" validate:"required"`
	CEP          string `json:"cep" validate:"required,cep"`
	Street       string `json:"street" validate:"required"`
	Number       string `json:"number" validate:"required"`
	Complement   string `json:"complement"`
	Neighborhood string `json:"neighborhood" validate:"required"`
	City         string `json:"city" validate:"required"`
	State        string `json:"state" validate:"required,uf"`
	Rating       int    `json:"rating" validate:"min=0,max=5"`
}

// ApplicationEdit replaces the editable part of an application.
type ApplicationEdit struct {
	FirstName  string                      `json:"first_name" validate:"required"`
	LastName   string                      `json:"last_name" validate:"required"`
	Email      string                      `json:"email" validate:"required,email"`
	Phone      string                      `json:"phone" validate:"required,phone_br"`
	CPF        string                      `json:"cpf" validate:"required,cpf"`
	Condutax   string                      `json:"condutax"`
	Address    models.Address              `json:"address"`
	Rating     int                         `json:"rating" validate:"min=0,max=5"`
	Documents  models.ApplicationDocuments `json:"documents"`
	Experience models.Experience           `json:"experience"`
	References []models.Reference          `json:"references" validate:"dive"`
	Notes      string                      `json:"notes"`
}

// SubRecordsEdit is what the reanalysis screen may change.
type SubRecordsEdit struct {
	Documents  *models.ApplicationDocuments `json:"documents"`
	Experience *models.Experience           `json:"experience"`
	References []models.Reference           `json:"references"`
	Notes      string                       `json:"notes"`
}

type ReviewInput struct {
	Comment            string                   `json:"comment" validate:"required"`
	Status             models.ApplicationStatus `json:"status" validate:"required"`
	DocumentsVerified  bool                     `json:"documents_verified"`
	BackgroundVerified bool                     `json:"background_verified"`
	ExperienceVerified bool                     `json:"experience_verified"`
	ReferencesVerified bool                     `json:"references_verified"`
}

type ApplicationFilter struct {
	Status  models.ApplicationStatus
	Search  string
	OrderBy string
	Asc     bool
}

// Sortable application fields besides the timestamps.
var applicationOrderFields = map[string]bool{
	storage.OrderCreatedAt: true,
	storage.OrderUpdatedAt: true,
	"full_name":            true,
	"rating":               true,
	"status":               true,
}

type ApplicationService interface {
	Submit(ctx context.Context, in ApplicationInput) (*models.Application, error)
	List(ctx context.Context, f ApplicationFilter) ([]*models.Application, error)
	Get(ctx context.Context, id string) (*models.Application, error)
	Edit(ctx context.Context, id string, in ApplicationEdit) (*models.Application, error)
	ChangeStatus(ctx context.Context, id string, to models.ApplicationStatus, actor string) (*models.Application, error)
	AddReview(ctx context.Context, id string, in ReviewInput, actor string) (*models.Application, error)
	RequestReanalysis(ctx context.Context, id string, edit *SubRecordsEdit, actor string) (*models.Application, error)
	Delete(ctx context.Context, id string) error
	Counts(ctx context.Context) (models.StatusCounts, error)
	History(ctx context.Context, id string) ([]*models.StatusChange, error)
}

type applicationService struct {
	stg storage.IStorage
	d   *deps
	log logger.ILogger
}

func NewApplicationService(stg storage.IStorage, d *deps, log logger.ILogger) ApplicationService {
	return &applicationService{stg: stg, d: d, log: log}
}

func (s *applicationService) Submit(ctx context.Context, in ApplicationInput) (*models.Application, error) {
	if err := check(in); err != nil {
		return nil, err
	}

	app := &models.Application{
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Email:     strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:     validation.OnlyDigits(in.Phone),
		CPF:       validation.OnlyDigits(in.CPF),
		Condutax:  strings.TrimSpace(in.Condutax),
		Address: models.Address{
			CEP:          validation.FormatCEP(in.CEP),
			Street:       in.Street,
			Number:       in.Number,
			Complement:   in.Complement,
			Neighborhood: in.Neighborhood,
			City:         in.City,
			State:        strings.ToUpper(in.State),
		},
		Rating: in.Rating,
		Status: models.ApplicationPending,
	}
	app.Normalize()

	var saved *models.Application
	err := s.stg.WithTx(ctx, func(tx storage.IStorage) error {
		var err error
		saved, err = tx.Application().Add(ctx, app)
		if err != nil {
			return err
		}
		_, err = tx.Notification().Add(ctx, &models.Notification{
			Type:          models.NotificationNewApplication,
			Title:         "Nova Solicitação de Cadastro",
			Message:       fmt.Sprintf("Nova solicitação recebida de %s - Avaliação: %d estrelas", saved.FullName, saved.Rating),
			Status:        string(saved.Status),
			Rating:        saved.Rating,
			ApplicationID: saved.ID,
		})
		return err
	})
	if err != nil {
		s.log.Error("failed to submit application", logger.Error(err))
		return nil, err
	}

	s.d.cache.Invalidate(ctx)
	s.d.notifier.NewApplication(ctx, saved)
	s.log.Info("application submitted", logger.String("id", saved.ID))
	return saved, nil
}

func (s *applicationService) List(ctx context.Context, f ApplicationFilter) ([]*models.Application, error) {
	orderBy := f.OrderBy
	if orderBy == "" {
		orderBy = storage.OrderCreatedAt
	}
	if !applicationOrderFields[orderBy] {
		return nil, invalid("order_by", "campo de ordenação não permitido")
	}

	q := storage.Query{OrderBy: orderBy, Asc: f.Asc}
	if f.Status != "" {
		if !f.Status.Valid() {
			return nil, fmt.Errorf("%w: %q", models.ErrInvalidStatus, f.Status)
		}
		q.Filters = map[string]any{"status": f.Status}
	}

	apps, err := s.stg.Application().Find(ctx, q)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(f.Search) == "" {
		return apps, nil
	}

	out := make([]*models.Application, 0, len(apps))
	for _, a := range apps {
		if search.Match(f.Search, search.Fields{
			Text:   []string{a.FullName, a.Email, a.Condutax},
			Digits: []string{a.CPF, a.Phone},
		}) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *applicationService) Get(ctx context.Context, id string) (*models.Application, error) {
	app, err := s.stg.Application().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if app == nil {
		return nil, storage.ErrNotFound
	}
	app.Normalize()
	return app, nil
}

func (s *applicationService) Edit(ctx context.Context, id string, in ApplicationEdit) (*models.Application, error) {
	if err := check(in); err != nil {
		return nil, err
	}
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	current.FirstName = strings.TrimSpace(in.FirstName)
	current.LastName = strings.TrimSpace(in.LastName)
	current.FullName = ""
	current.Email = strings.ToLower(strings.TrimSpace(in.Email))
	current.Phone = validation.OnlyDigits(in.Phone)
	current.CPF = validation.OnlyDigits(in.CPF)
	current.Condutax = strings.TrimSpace(in.Condutax)
	current.Address = in.Address
	current.Rating = in.Rating
	current.Documents = in.Documents
	current.Experience = in.Experience
	current.References = in.References
	current.Notes = in.Notes
	current.Normalize()

	return s.stg.Application().Replace(ctx, id, current)
}

func (s *applicationService) ChangeStatus(ctx context.Context, id string, to models.ApplicationStatus, actor string) (*models.Application, error) {
	var out *models.Application
	err := s.stg.WithTx(ctx, func(tx storage.IStorage) error {
		app, err := tx.Application().Get(ctx, id)
		if err != nil {
			return err
		}
		if app == nil {
			return storage.ErrNotFound
		}
		from, err := models.ParseApplicationStatus(string(app.Status))
		if err != nil {
			return err
		}
		next, err := from.Transition(to)
		if err != nil {
			return err
		}
		out, err = tx.Application().Update(ctx, id, map[string]any{"status": next})
		if err != nil {
			return err
		}
		return recordChange(ctx, tx, storage.CollectionApplications, id, string(from), string(next), actor, s.d.now())
	})
	if err != nil {
		return nil, err
	}

	s.d.cache.Invalidate(ctx)
	s.log.Info("application status changed", logger.String("id", id), logger.String("status", string(out.Status)), logger.String("actor", actor))
	return out, nil
}

// AddReview appends an analyst review. The review's status becomes the
// application status, so it must be reachable from the current one.
func (s *applicationService) AddReview(ctx context.Context, id string, in ReviewInput, actor string) (*models.Application, error) {
	if err := check(in); err != nil {
		return nil, err
	}
	to, err := models.ParseApplicationStatus(string(in.Status))
	if err != nil {
		return nil, err
	}

	var out *models.Application
	err = s.stg.WithTx(ctx, func(tx storage.IStorage) error {
		app, err := tx.Application().Get(ctx, id)
		if err != nil {
			return err
		}
		if app == nil {
			return storage.ErrNotFound
		}
		from, err := models.ParseApplicationStatus(string(app.Status))
		if err != nil {
			return err
		}
		if from != to {
			if _, err := from.Transition(to); err != nil {
				return err
			}
		}

		review := models.Review{
			ID:                 uuid.NewString(),
			Analyst:            actor,
			Date:               s.d.now(),
			Comment:            strings.TrimSpace(in.Comment),
			Status:             to,
			DocumentsVerified:  in.DocumentsVerified,
			BackgroundVerified: in.BackgroundVerified,
			ExperienceVerified: in.ExperienceVerified,
			ReferencesVerified: in.ReferencesVerified,
		}
		out, err = tx.Application().AppendReview(ctx, id, review)
		if err != nil {
			return err
		}
		if from == to {
			return nil
		}
		return recordChange(ctx, tx, storage.CollectionApplications, id, string(from), string(to), actor, review.Date)
	})
	if err != nil {
		return nil, err
	}

	s.d.cache.Invalidate(ctx)
	return out, nil
}

// RequestReanalysis moves a rejected application back into review,
// optionally with corrected sub-records.
func (s *applicationService) RequestReanalysis(ctx context.Context, id string, edit *SubRecordsEdit, actor string) (*models.Application, error) {
	var out *models.Application
	err := s.stg.WithTx(ctx, func(tx storage.IStorage) error {
		app, err := tx.Application().Get(ctx, id)
		if err != nil {
			return err
		}
		if app == nil {
			return storage.ErrNotFound
		}
		from, err := models.ParseApplicationStatus(string(app.Status))
		if err != nil {
			return err
		}
		next, err := from.Transition(models.ApplicationReanalysis)
		if err != nil {
			return err
		}

		patch := map[string]any{"status": next}
		if edit != nil {
			if edit.Documents != nil {
				if edit.Documents.Others == nil {
					edit.Documents.Others = []models.OtherDocument{}
				}
				patch["documents"] = edit.Documents
			}
			if edit.Experience != nil {
				if edit.Experience.Rentals == nil {
					edit.Experience.Rentals = []models.RentalHistory{}
				}
				patch["experience"] = edit.Experience
			}
			if edit.References != nil {
				patch["references"] = edit.References
			}
			if edit.Notes != "" {
				patch["notes"] = edit.Notes
			}
		}
		out, err = tx.Application().Update(ctx, id, patch)
		if err != nil {
			return err
		}
		return recordChange(ctx, tx, storage.CollectionApplications, id, string(from), string(next), actor, s.d.now())
	})
	if err != nil {
		return nil, err
	}

	s.d.cache.Invalidate(ctx)
	return out, nil
}

func (s *applicationService) Delete(ctx context.Context, id string) error {
	if err := s.stg.Application().Delete(ctx, id); err != nil {
		return err
	}
	s.d.cache.Invalidate(ctx)
	return nil
}

func (s *applicationService) Counts(ctx context.Context) (models.StatusCounts, error) {
	counts := models.StatusCounts{}
	for _, st := range []models.ApplicationStatus{
		models.ApplicationPending,
		models.ApplicationWaiting,
		models.ApplicationApproved,
		models.ApplicationRejected,
		models.ApplicationReanalysis,
	} {
		n, err := s.stg.Application().Count(ctx, map[string]any{"status": st})
		if err != nil {
			return nil, err
		}
		counts[string(st)] = n
	}
	return counts, nil
}

func (s *applicationService) History(ctx context.Context, id string) ([]*models.StatusChange, error) {
	return s.stg.StatusLog().GetByDocument(ctx, storage.CollectionApplications, id)
}
