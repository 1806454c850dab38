package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"taxifrota/pkg/logger"
	"taxifrota/pkg/models"
	"taxifrota/storage"
	"taxifrota/storage/files"
	"taxifrota/storage/memory"
)

type fakeNotifier struct {
	mu      sync.Mutex
	apps    []*models.Application
	drivers []*models.Driver
}

func (f *fakeNotifier) NewApplication(_ context.Context, app *models.Application) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.apps = append(f.apps, app)
}

func (f *fakeNotifier) NewDriver(_ context.Context, d *models.Driver) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.drivers = append(f.drivers, d)
}

type fakeCalendar struct {
	link  string
	err   error
	calls int
}

func (f *fakeCalendar) AddRental(context.Context, *models.RentalRequest) (string, error) {
	f.calls++
	return f.link, f.err
}

type fakeCache struct {
	stats       *models.DashboardStats
	sets        int
	invalidated int
}

func (f *fakeCache) Get(context.Context) (*models.DashboardStats, bool) {
	return f.stats, f.stats != nil
}

func (f *fakeCache) Set(_ context.Context, stats *models.DashboardStats) {
	f.sets++
	f.stats = stats
}

func (f *fakeCache) Invalidate(context.Context) {
	f.invalidated++
	f.stats = nil
}

// tickingClock advances one second per call so file paths never collide.
func tickingClock() func() time.Time {
	var mu sync.Mutex
	t := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Second)
		return t
	}
}

type env struct {
	stg      storage.IStorage
	svc      IServiceManager
	notifier *fakeNotifier
	calendar *fakeCalendar
	cache    *fakeCache
	files    *files.Memory
}

func newEnv(t *testing.T, opts ...Option) *env {
	t.Helper()
	e := &env{
		stg:      memory.New(logger.NewNop()),
		notifier: &fakeNotifier{},
		calendar: &fakeCalendar{},
		cache:    &fakeCache{},
		files:    files.NewMemory("https://files.test"),
	}
	base := []Option{
		WithNotifier(e.notifier),
		WithCalendar(e.calendar),
		WithStatsCache(e.cache),
		WithFiles(e.files),
		WithClock(tickingClock()),
	}
	e.svc = New(e.stg, logger.NewNop(), append(base, opts...)...)
	return e
}

func validApplication() ApplicationInput {
	return ApplicationInput{
		FirstName:    "João",
		LastName:     "Souza",
		Email:        "Joao@Example.com",
		Phone:        "(11) 98765-4321",
		CPF:          "529.982.247-25",
		Condutax:     "CTX-123",
		CEP:          "01310100",
		Street:       "Av. Paulista",
		Number:       "1000",
		Neighborhood: "Bela Vista",
		City:         "São Paulo",
		State:        "sp",
		Rating:       4,
	}
}
