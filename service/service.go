package service

import (
	"time"

	"github.com/google/uuid"

	"taxifrota/pkg/auth"
	"taxifrota/pkg/logger"
	"taxifrota/pkg/notify"
	"taxifrota/storage"
	"taxifrota/storage/files"
	"taxifrota/storage/redis"
)

type IServiceManager interface {
	Application() ApplicationService
	Driver() DriverService
	Evaluation() EvaluationService
	Rental() RentalService
	Vehicle() VehicleService
	Content() ContentService
	Notification() NotificationService
	Dashboard() DashboardService
	Auth() AuthService
	Address() AddressService
}

type deps struct {
	files    files.Store
	notifier notify.Notifier
	calendar notify.Calendar
	cache    storage.IStatsCache
	tokens   *auth.TokenManager
	cep      AddressLookup
	now      func() time.Time
}

type Option func(*deps)

func WithFiles(f files.Store) Option              { return func(d *deps) { d.files = f } }
func WithNotifier(n notify.Notifier) Option       { return func(d *deps) { d.notifier = n } }
func WithCalendar(c notify.Calendar) Option       { return func(d *deps) { d.calendar = c } }
func WithStatsCache(c storage.IStatsCache) Option { return func(d *deps) { d.cache = c } }
func WithTokens(t *auth.TokenManager) Option      { return func(d *deps) { d.tokens = t } }
func WithAddressLookup(l AddressLookup) Option    { return func(d *deps) { d.cep = l } }
func WithClock(now func() time.Time) Option       { return func(d *deps) { d.now = now } }

type service struct {
	applicationService  ApplicationService
	driverService       DriverService
	evaluationService   EvaluationService
	rentalService       RentalService
	vehicleService      VehicleService
	contentService      ContentService
	notificationService NotificationService
	dashboardService    DashboardService
	authService         AuthService
	addressService      AddressService
}

func New(stg storage.IStorage, log logger.ILogger, opts ...Option) IServiceManager {
	d := &deps{
		files:    files.Nop{},
		notifier: notify.NewNop(),
		calendar: notify.NewNopCalendar(),
		cache:    redis.NewNopCache(),
		tokens:   auth.NewTokenManager(uuid.NewString(), 12*time.Hour, "taxifrota"),
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(d)
	}

	return &service{
		applicationService:  NewApplicationService(stg, d, log),
		driverService:       NewDriverService(stg, d, log),
		evaluationService:   NewEvaluationService(stg, d, log),
		rentalService:       NewRentalService(stg, d, log),
		vehicleService:      NewVehicleService(stg, log),
		contentService:      NewContentService(stg, log),
		notificationService: NewNotificationService(stg, log),
		dashboardService:    NewDashboardService(stg, d, log),
		authService:         NewAuthService(stg, d, log),
		addressService:      NewAddressService(d, log),
	}
}

func (s *service) Application() ApplicationService   { return s.applicationService }
func (s *service) Driver() DriverService             { return s.driverService }
func (s *service) Evaluation() EvaluationService     { return s.evaluationService }
func (s *service) Rental() RentalService             { return s.rentalService }
func (s *service) Vehicle() VehicleService           { return s.vehicleService }
func (s *service) Content() ContentService           { return s.contentService }
func (s *service) Notification() NotificationService { return s.notificationService }
func (s *service) Dashboard() DashboardService       { return s.dashboardService }
func (s *service) Auth() AuthService                 { return s.authService }
func (s *service) Address() AddressService           { return s.addressService }
