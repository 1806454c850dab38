package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"taxifrota/pkg/models"
	"taxifrota/storage"
)

type driverRepo struct {
	*collection[models.Driver, *models.Driver]
}

func (r *driverRepo) GetByStatus(ctx context.Context, status models.DriverStatus) ([]*models.Driver, error) {
	return r.Find(ctx, storage.ByNewest(map[string]any{"status": status}))
}

func (r *driverRepo) GetByCPF(ctx context.Context, cpf string) (*models.Driver, error) {
	return first(r.Find(ctx, storage.Query{Filters: map[string]any{"cpf": cpf}, Limit: 1}))
}

type applicationRepo struct {
	*collection[models.Application, *models.Application]
}

func (r *applicationRepo) GetByStatus(ctx context.Context, status models.ApplicationStatus, orderBy string, asc bool) ([]*models.Application, error) {
	if orderBy == "" {
		orderBy = storage.OrderCreatedAt
	}
	return r.Find(ctx, storage.Query{Filters: map[string]any{"status": status}, OrderBy: orderBy, Asc: asc})
}

func (r *applicationRepo) AppendReview(ctx context.Context, id string, review models.Review) (*models.Application, error) {
	r.s.st.mu.Lock()
	defer r.s.st.mu.Unlock()

	rec, ok := r.s.st.tables[r.table][id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	app, err := r.decode(id, rec)
	if err != nil {
		return nil, err
	}
	r.s.touch(r.table, id)
	app.Reviews = append(app.Reviews, review)
	app.Status = review.Status
	fields, err := encode(app)
	if err != nil {
		return nil, err
	}
	rec.fields = fields
	rec.updated, _ = r.s.st.stamp()
	return r.decode(id, rec)
}

type evaluationRepo struct {
	*collection[models.Evaluation, *models.Evaluation]
}

func (r *evaluationRepo) GetByDriver(ctx context.Context, driverID string) ([]*models.Evaluation, error) {
	return r.Find(ctx, storage.ByNewest(map[string]any{"driver_id": driverID}))
}

func (r *evaluationRepo) GetByStatus(ctx context.Context, status models.EvaluationStatus) ([]*models.Evaluation, error) {
	return r.Find(ctx, storage.ByNewest(map[string]any{"status": status}))
}

func (r *evaluationRepo) GetPublished(ctx context.Context, limit int) ([]*models.Evaluation, error) {
	q := storage.ByNewest(map[string]any{"status": models.EvaluationPublished, "is_public": true})
	q.Limit = limit
	return r.Find(ctx, q)
}

type rentalRepo struct {
	*collection[models.RentalRequest, *models.RentalRequest]
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

type vehicleRepo struct {
	*collection[models.Vehicle, *models.Vehicle]
}

func (r *vehicleRepo) Catalog(ctx context.Context, f storage.VehicleFilter) ([]*models.Vehicle, error) {
	return r.Find(ctx, storage.Query{Filters: f.Filters(), OrderBy: "daily_price", Asc: true})
}

type articleRepo struct {
	*collection[models.Article, *models.Article]
}

func (r *articleRepo) List(ctx context.Context, f storage.ArticleFilter) ([]*models.Article, error) {
	return r.Find(ctx, storage.ByNewest(f.Filters()))
}

func (r *articleRepo) GetBySlug(ctx context.Context, slug string, publishedOnly bool) (*models.Article, error) {
	filters := map[string]any{"slug": slug}
	if publishedOnly {
		filters["published"] = true
	}
	return first(r.Find(ctx, storage.Query{Filters: filters, Limit: 1}))
}

type bannerRepo struct {
	*collection[models.HeroBanner, *models.HeroBanner]
}

func (r *bannerRepo) List(ctx context.Context, onlyActive bool) ([]*models.HeroBanner, error) {
	var filters map[string]any
	if onlyActive {
		filters = map[string]any{"active": true}
	}
	return r.Find(ctx, storage.Query{Filters: filters, OrderBy: "order", Asc: true})
}

type notificationRepo struct {
	*collection[models.Notification, *models.Notification]
}

func (r *notificationRepo) GetUnread(ctx context.Context) ([]*models.Notification, error) {
	return r.Find(ctx, storage.ByNewest(map[string]any{"read": false}))
}

func (r *notificationRepo) MarkRead(ctx context.Context, id string) error {
	_, err := r.Update(ctx, id, map[string]any{"read": true})
	return err
}

type statusLogRepo struct {
	changes *collection[models.StatusChange, *models.StatusChange]
}

func (r *statusLogRepo) Record(ctx context.Context, change *models.StatusChange) error {
	saved, err := r.changes.Add(ctx, change)
	if err != nil {
		return err
	}
	*change = *saved
	return nil
}

func (r *statusLogRepo) GetByDocument(ctx context.Context, collection, documentID string) ([]*models.StatusChange, error) {
	return r.changes.Find(ctx, storage.Query{
		Filters: map[string]any{"collection": collection, "document_id": documentID},
		OrderBy: storage.OrderCreatedAt,
		Asc:     true,
	})
}

type adminUserRepo struct {
	s *Store
}

func (r *adminUserRepo) Create(ctx context.Context, user *models.AdminUser) (*models.AdminUser, error) {
	r.s.st.mu.Lock()
	defer r.s.st.mu.Unlock()

	email := strings.ToLower(user.Email)
	for _, u := range r.s.st.users {
		if u.Email == email {
			return nil, storage.ErrDuplicate
		}
	}
	now, _ := r.s.st.stamp()
	saved := *user
	saved.ID = uuid.NewString()
	saved.Email = email
	saved.CreatedAt = now
	saved.UpdatedAt = now
	r.s.touchUser(saved.ID)
	r.s.st.users[saved.ID] = &saved

	out := saved
	return &out, nil
}

func (r *adminUserRepo) GetByID(ctx context.Context, id string) (*models.AdminUser, error) {
	r.s.st.mu.RLock()
	defer r.s.st.mu.RUnlock()
	u, ok := r.s.st.users[id]
	if !ok {
		return nil, nil
	}
	out := *u
	return &out, nil
}

func (r *adminUserRepo) GetByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	r.s.st.mu.RLock()
	defer r.s.st.mu.RUnlock()
	email = strings.ToLower(email)
	for _, u := range r.s.st.users {
		if u.Email == email {
			out := *u
			return &out, nil
		}
	}
	return nil, nil
}

func (r *adminUserRepo) GetAll(ctx context.Context) ([]*models.AdminUser, error) {
	r.s.st.mu.RLock()
	defer r.s.st.mu.RUnlock()
	users := make([]*models.AdminUser, 0, len(r.s.st.users))
	for _, u := range r.s.st.users {
		out := *u
		users = append(users, &out)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.Before(users[j].CreatedAt) })
	return users, nil
}

func (r *adminUserRepo) SetActive(ctx context.Context, id string, active bool) error {
	return r.update(id, func(u *models.AdminUser) { u.Active = active })
}

func (r *adminUserRepo) UpdatePassword(ctx context.Context, id, hash string) error {
	return r.update(id, func(u *models.AdminUser) { u.PasswordHash = hash })
}

func (r *adminUserRepo) update(id string, apply func(u *models.AdminUser)) error {
	r.s.st.mu.Lock()
	defer r.s.st.mu.Unlock()
	u, ok := r.s.st.users[id]
	if !ok {
		return storage.ErrNotFound
	}
	r.s.touchUser(id)
	apply(u)
	u.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *adminUserRepo) Count(ctx context.Context) (int, error) {
	r.s.st.mu.RLock()
	defer r.s.st.mu.RUnlock()
	return len(r.s.st.users), nil
}

func first[T any](docs []*T, err error) (*T, error) {
	if err != nil || len(docs) == 0 {
		return nil, err
	}
	return docs[0], nil
}
