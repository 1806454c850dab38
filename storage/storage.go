package storage

import (
	"context"
	"errors"

	"taxifrota/pkg/models"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("already exists")
)

// Collection names double as table names.
const (
	CollectionDrivers       = "drivers"
	CollectionApplications  = "applications"
	CollectionEvaluations   = "evaluations"
	CollectionRentals       = "rental_requests"
	CollectionVehicles      = "vehicles"
	CollectionArticles      = "articles"
	CollectionBanners       = "hero_banners"
	CollectionNotifications = "notifications"
	CollectionStatusChanges = "status_changes"
)

const (
	OrderCreatedAt = "created_at"
	OrderUpdatedAt = "updated_at"
)

// Query is the filter/order contract of the generic collection: Filters are
// matched by equality on top-level document fields, OrderBy is created_at,
// updated_at or a document field.
type Query struct {
	Filters map[string]any
	OrderBy string
	Asc     bool
	Limit   int
}

// ByNewest is the default listing order.
func ByNewest(filters map[string]any) Query {
	return Query{Filters: filters, OrderBy: OrderCreatedAt}
}

type IStorage interface {
	Driver() IDriverStorage
	Application() IApplicationStorage
	Evaluation() IEvaluationStorage
	Rental() IRentalStorage
	Vehicle() IVehicleStorage
	Article() IArticleStorage
	Banner() IBannerStorage
	Notification() INotificationStorage
	StatusLog() IStatusLogStorage
	AdminUser() IAdminUserStorage
	// WithTx runs fn against a transaction-bound storage. fn's error rolls
	// the transaction back.
	WithTx(ctx context.Context, fn func(stg IStorage) error) error
	// Reset truncates the operational collections, keeping the catalog and
	// admin users.
	Reset(ctx context.Context) error
	Close()
}

// ICollection is the generic document contract every repository embeds.
type ICollection[T any] interface {
	Find(ctx context.Context, q Query) ([]*T, error)
	Get(ctx context.Context, id string) (*T, error)
	Add(ctx context.Context, doc *T) (*T, error)
	Update(ctx context.Context, id string, patch map[string]any) (*T, error)
	Replace(ctx context.Context, id string, doc *T) (*T, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context, filters map[string]any) (int, error)
}

type IDriverStorage interface {
	ICollection[models.Driver]
	GetByStatus(ctx context.Context, status models.DriverStatus) ([]*models.Driver, error)
	GetByCPF(ctx context.Context, cpf string) (*models.Driver, error)
}

type IApplicationStorage interface {
	ICollection[models.Application]
	GetByStatus(ctx context.Context, status models.ApplicationStatus, orderBy string, asc bool) ([]*models.Application, error)
	// AppendReview pushes a review onto the document and sets its status in
	// a single statement.
	AppendReview(ctx context.Context, id string, review models.Review) (*models.Application, error)
}

type IEvaluationStorage interface {
	ICollection[models.Evaluation]
	GetByDriver(ctx context.Context, driverID string) ([]*models.Evaluation, error)
	GetByStatus(ctx context.Context, status models.EvaluationStatus) ([]*models.Evaluation, error)
	GetPublished(ctx context.Context, limit int) ([]*models.Evaluation, error)
}

type IRentalStorage interface {
	ICollection[models.RentalRequest]
	GetByDriver(ctx context.Context, driverID string) ([]*models.RentalRequest, error)
	GetByVehicle(ctx context.Context, vehicleID string) ([]*models.RentalRequest, error)
	GetByStatus(ctx context.Context, status models.RentalStatus) ([]*models.RentalRequest, error)
}

type VehicleFilter struct {
	Category       string
	FeaturedOnly   bool
	AvailableOnly  bool
	AccessibleOnly bool
}

func (f VehicleFilter) Filters() map[string]any {
	filters := map[string]any{}
	if f.Category != "" {
		filters["category"] = f.Category
	}
	if f.FeaturedOnly {
		filters["featured"] = true
	}
	if f.AvailableOnly {
		filters["available"] = true
	}
	if f.AccessibleOnly {
		filters["accessible"] = true
	}
	return filters
}

type IVehicleStorage interface {
	ICollection[models.Vehicle]
	Catalog(ctx context.Context, f VehicleFilter) ([]*models.Vehicle, error)
}

type ArticleFilter struct {
	Published *bool
	Featured  bool
	Category  string
}

func (f ArticleFilter) Filters() map[string]any {
	filters := map[string]any{}
	if f.Published != nil {
		filters["published"] = *f.Published
	}
	if f.Featured {
		filters["featured"] = true
	}
	if f.Category != "" {
		filters["category"] = f.Category
	}
	return filters
}

type IArticleStorage interface {
	ICollection[models.Article]
	List(ctx context.Context, f ArticleFilter) ([]*models.Article, error)
	GetBySlug(ctx context.Context, slug string, publishedOnly bool) (*models.Article, error)
}

type IBannerStorage interface {
	ICollection[models.HeroBanner]
	List(ctx context.Context, onlyActive bool) ([]*models.HeroBanner, error)
}

type INotificationStorage interface {
	ICollection[models.Notification]
	GetUnread(ctx context.Context) ([]*models.Notification, error)
	MarkRead(ctx context.Context, id string) error
}

type IStatusLogStorage interface {
	Record(ctx context.Context, change *models.StatusChange) error
	GetByDocument(ctx context.Context, collection, documentID string) ([]*models.StatusChange, error)
}

type IAdminUserStorage interface {
	Create(ctx context.Context, user *models.AdminUser) (*models.AdminUser, error)
	GetByID(ctx context.Context, id string) (*models.AdminUser, error)
	GetByEmail(ctx context.Context, email string) (*models.AdminUser, error)
	GetAll(ctx context.Context) ([]*models.AdminUser, error)
	SetActive(ctx context.Context, id string, active bool) error
	UpdatePassword(ctx context.Context, id, hash string) error
	Count(ctx context.Context) (int, error)
}

// IStatsCache holds the computed dashboard. Implementations swallow their
// own failures: a broken cache behaves like an empty one.
type IStatsCache interface {
	Get(ctx context.Context) (*models.DashboardStats, bool)
	Set(ctx context.Context, stats *models.DashboardStats)
	Invalidate(ctx context.Context)
}
