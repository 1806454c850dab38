package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"taxifrota/pkg/logger"
	"taxifrota/pkg/models"
	"taxifrota/pkg/search"
	"taxifrota/pkg/validation"
	"taxifrota/storage"
	"taxifrota/storage/files"
)

// DriverRegistration is the short public sign-up form.
type DriverRegistration struct {
	Name          string              `json:"name" validate:"required"`
	Phone         string              `json:"phone" validate:"required,phone_br"`
	Email         string              `json:"email" validate:"required,email"`
	CPF           string              `json:"cpf" validate:"required,cpf"`
	LicenseNumber string              `json:"license_number" validate:"required"`
	Vehicle       *models.VehicleInfo `json:"vehicle_info"`
}

// DriverInput is the full admin driver form.
type DriverInput struct {
	FirstName        string                  `json:"first_name" validate:"required"`
	LastName         string                  `json:"last_name" validate:"required"`
	Email            string                  `json:"email" validate:"required,email"`
	Phone            string                  `json:"phone" validate:"required,phone_br"`
	CPF              string                  `json:"cpf" validate:"required,cpf"`
	BirthDate        string                  `json:"birth_date"`
	Condutax         string                  `json:"condutax"`
	CondutaxValidity string                  `json:"condutax_validity"`
	LicenseNumber    string                  `json:"license_number"`
	Vehicle          *models.VehicleInfo     `json:"vehicle"`
	Address          models.Address          `json:"address"`
	Background       models.RentalBackground `json:"background"`
	References       []models.Reference      `json:"references" validate:"max=2"`
}

type DriverFilter struct {
	Status models.DriverStatus
	Search string
}

type DriverService interface {
	Register(ctx context.Context, in DriverRegistration) (*models.Driver, error)
	Create(ctx context.Context, in DriverInput) (*models.Driver, error)
	List(ctx context.Context, f DriverFilter) ([]*models.Driver, error)
	Get(ctx context.Context, id string) (*models.Driver, error)
	Update(ctx context.Context, id string, in DriverInput) (*models.Driver, error)
	ChangeStatus(ctx context.Context, id string, to models.DriverStatus, actor string) (*models.Driver, error)
	Delete(ctx context.Context, id string) error
	UploadFile(ctx context.Context, id string, kind models.FileKind, r io.Reader, size int64, contentType string) (*models.Driver, error)
}

type driverService struct {
	stg storage.IStorage
	d   *deps
	log logger.ILogger
}

func NewDriverService(stg storage.IStorage, d *deps, log logger.ILogger) DriverService {
	return &driverService{stg: stg, d: d, log: log}
}

func (s *driverService) Register(ctx context.Context, in DriverRegistration) (*models.Driver, error) {
	if err := check(in); err != nil {
		return nil, err
	}
	first, last, _ := strings.Cut(strings.TrimSpace(in.Name), " ")
	driver := &models.Driver{
		FirstName:     first,
		LastName:      strings.TrimSpace(last),
		Email:         strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:         validation.OnlyDigits(in.Phone),
		CPF:           validation.OnlyDigits(in.CPF),
		LicenseNumber: strings.TrimSpace(in.LicenseNumber),
		Vehicle:       in.Vehicle,
		References:    []models.Reference{},
		Status:        models.DriverPending,
	}
	if driver.Vehicle != nil {
		driver.Vehicle.Plate = validation.NormalizePlate(driver.Vehicle.Plate)
	}

	saved, err := s.add(ctx, driver)
	if err != nil {
		return nil, err
	}
	s.d.notifier.NewDriver(ctx, saved)
	return saved, nil
}

func (s *driverService) Create(ctx context.Context, in DriverInput) (*models.Driver, error) {
	if err := check(in); err != nil {
		return nil, err
	}
	driver := driverFromInput(in)
	driver.Status = models.DriverPending
	return s.add(ctx, driver)
}

// add rejects a second driver with the same CPF and records the sign-up
// notification with the driver.
func (s *driverService) add(ctx context.Context, driver *models.Driver) (*models.Driver, error) {
	var saved *models.Driver
	err := s.stg.WithTx(ctx, func(tx storage.IStorage) error {
		existing, err := tx.Driver().GetByCPF(ctx, driver.CPF)
		if err != nil {
			return err
		}
		if existing != nil {
			return fmt.Errorf("%w: driver with cpf %s", ErrConflict, validation.FormatCPF(driver.CPF))
		}
		saved, err = tx.Driver().Add(ctx, driver)
		if err != nil {
			return conflictOnDuplicate(err, "driver with cpf "+validation.FormatCPF(driver.CPF))
		}
		_, err = tx.Notification().Add(ctx, &models.Notification{
			Type:     models.NotificationNewDriver,
			Title:    "Novo Motorista Cadastrado",
			Message:  fmt.Sprintf("Novo cadastro de motorista: %s", saved.FullName()),
			Status:   string(saved.Status),
			DriverID: saved.ID,
		})
		return err
	})
	if err != nil {
		if !errors.Is(err, ErrConflict) {
			s.log.Error("failed to add driver", logger.Error(err))
		}
		return nil, err
	}

	s.d.cache.Invalidate(ctx)
	s.log.Info("driver added", logger.String("id", saved.ID))
	return saved, nil
}

func driverFromInput(in DriverInput) *models.Driver {
	refs := in.References
	if refs == nil {
		refs = []models.Reference{}
	}
	for i := range refs {
		refs[i].Phone = validation.OnlyDigits(refs[i].Phone)
	}
	addr := in.Address
	if addr.CEP != "" {
		addr.CEP = validation.FormatCEP(addr.CEP)
	}
	addr.State = strings.ToUpper(addr.State)
	vehicle := in.Vehicle
	if vehicle != nil {
		vehicle.Plate = validation.NormalizePlate(vehicle.Plate)
	}
	return &models.Driver{
		FirstName:        strings.TrimSpace(in.FirstName),
		LastName:         strings.TrimSpace(in.LastName),
		Email:            strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:            validation.OnlyDigits(in.Phone),
		CPF:              validation.OnlyDigits(in.CPF),
		BirthDate:        in.BirthDate,
		Condutax:         strings.TrimSpace(in.Condutax),
		CondutaxValidity: in.CondutaxValidity,
		LicenseNumber:    strings.TrimSpace(in.LicenseNumber),
		Vehicle:          vehicle,
		Address:          addr,
		Background:       in.Background,
		References:       refs,
	}
}

func (s *driverService) List(ctx context.Context, f DriverFilter) ([]*models.Driver, error) {
	var (
		drivers []*models.Driver
		err     error
	)
	if f.Status != "" {
		if !f.Status.Valid() {
			return nil, fmt.Errorf("%w: %q", models.ErrInvalidStatus, f.Status)
		}
		drivers, err = s.stg.Driver().GetByStatus(ctx, f.Status)
	} else {
		drivers, err = s.stg.Driver().Find(ctx, storage.ByNewest(nil))
	}
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(f.Search) == "" {
		return drivers, nil
	}

	out := make([]*models.Driver, 0, len(drivers))
	for _, d := range drivers {
		if search.Match(f.Search, search.Fields{
			Text:   []string{d.FullName(), d.Email, d.Condutax},
			Digits: []string{d.CPF, d.Phone},
		}) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (s *driverService) Get(ctx context.Context, id string) (*models.Driver, error) {
	driver, err := s.stg.Driver().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if driver == nil {
		return nil, storage.ErrNotFound
	}
	return driver, nil
}

// Update replaces the form fields and keeps status, files and timestamps.
func (s *driverService) Update(ctx context.Context, id string, in DriverInput) (*models.Driver, error) {
	if err := check(in); err != nil {
		return nil, err
	}
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	next := driverFromInput(in)
	if next.CPF != current.CPF {
		other, err := s.stg.Driver().GetByCPF(ctx, next.CPF)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != id {
			return nil, fmt.Errorf("%w: driver with cpf %s", ErrConflict, validation.FormatCPF(next.CPF))
		}
	}
	next.Status = current.Status
	next.Files = current.Files
	next.LastStatusAt = current.LastStatusAt

	out, err := s.stg.Driver().Replace(ctx, id, next)
	if err != nil {
		return nil, conflictOnDuplicate(err, "driver with cpf "+validation.FormatCPF(next.CPF))
	}
	s.d.cache.Invalidate(ctx)
	return out, nil
}

func (s *driverService) ChangeStatus(ctx context.Context, id string, to models.DriverStatus, actor string) (*models.Driver, error) {
	var out *models.Driver
	err := s.stg.WithTx(ctx, func(tx storage.IStorage) error {
		driver, err := tx.Driver().Get(ctx, id)
		if err != nil {
			return err
		}
		if driver == nil {
			return storage.ErrNotFound
		}
		from, err := models.ParseDriverStatus(string(driver.Status))
		if err != nil {
			return err
		}
		next, err := from.Transition(to)
		if err != nil {
			return err
		}
		now := s.d.now()
		out, err = tx.Driver().Update(ctx, id, map[string]any{"status": next, "last_status_at": now})
		if err != nil {
			return err
		}
		return recordChange(ctx, tx, storage.CollectionDrivers, id, string(from), string(next), actor, now)
	})
	if err != nil {
		return nil, err
	}

	s.d.cache.Invalidate(ctx)
	s.log.Info("driver status changed", logger.String("id", id), logger.String("status", string(out.Status)), logger.String("actor", actor))
	return out, nil
}

func (s *driverService) Delete(ctx context.Context, id string) error {
	driver, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.stg.Driver().Delete(ctx, id); err != nil {
		return err
	}
	for kind, url := range driver.Files {
		if err := s.d.files.Delete(ctx, url); err != nil {
			s.log.Warning("failed to delete driver file", logger.String("id", id), logger.String("kind", string(kind)), logger.Error(err))
		}
	}
	s.d.cache.Invalidate(ctx)
	return nil
}

func (s *driverService) UploadFile(ctx context.Context, id string, kind models.FileKind, r io.Reader, size int64, contentType string) (*models.Driver, error) {
	if !kind.Valid() {
		return nil, invalid("kind", "tipo de arquivo não permitido")
	}
	driver, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	url, err := s.d.files.Upload(ctx, files.DriverPath(driver.CPF, kind, s.d.now()), r, size, contentType)
	if err != nil {
		s.log.Error("failed to upload driver file", logger.String("id", id), logger.String("kind", string(kind)), logger.Error(err))
		return nil, err
	}

	previous := driver.Files[kind]
	fileMap := make(map[models.FileKind]string, len(driver.Files)+1)
	for k, v := range driver.Files {
		fileMap[k] = v
	}
	fileMap[kind] = url

	out, err := s.stg.Driver().Update(ctx, id, map[string]any{"files": fileMap})
	if err != nil {
		return nil, err
	}
	if previous != "" && previous != url {
		if err := s.d.files.Delete(ctx, previous); err != nil {
			s.log.Warning("failed to delete replaced driver file", logger.String("id", id), logger.Error(err))
		}
	}
	return out, nil
}
