package service

import (
	"context"
	"math"

	"golang.org/x/sync/errgroup"

	"taxifrota/pkg/logger"
	"taxifrota/pkg/models"
	"taxifrota/storage"
)

const recentLimit = 5

type DashboardService interface {
	Stats(ctx context.Context) (*models.DashboardStats, error)
}

type dashboardService struct {
	stg storage.IStorage
	d   *deps
	log logger.ILogger
}

func NewDashboardService(stg storage.IStorage, d *deps, log logger.ILogger) DashboardService {
	return &dashboardService{stg: stg, d: d, log: log}
}

// DashboardData is the raw input of ComputeStats, newest first.
type DashboardData struct {
	Drivers      []*models.Driver
	Applications []*models.Application
	Evaluations  []*models.Evaluation
	Rentals      []*models.RentalRequest
}

func (s *dashboardService) Stats(ctx context.Context) (*models.DashboardStats, error) {
	if stats, ok := s.d.cache.Get(ctx); ok {
		return stats, nil
	}

	var data DashboardData
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		data.Drivers, err = s.stg.Driver().Find(gctx, storage.ByNewest(nil))
		return err
	})
	g.Go(func() (err error) {
		data.Applications, err = s.stg.Application().Find(gctx, storage.ByNewest(nil))
		return err
	})
	g.Go(func() (err error) {
		data.Evaluations, err = s.stg.Evaluation().Find(gctx, storage.ByNewest(nil))
		return err
	})
	g.Go(func() (err error) {
		data.Rentals, err = s.stg.Rental().Find(gctx, storage.ByNewest(nil))
		return err
	})
	if err := g.Wait(); err != nil {
		s.log.Error("failed to load dashboard data", logger.Error(err))
		return nil, err
	}

	stats := ComputeStats(data)
	s.d.cache.Set(ctx, stats)
	return stats, nil
}

// ComputeStats aggregates the dashboard. Stored statuses are read through
// the legacy aliases, so old spellings count under their canonical value.
func ComputeStats(data DashboardData) *models.DashboardStats {
	stats := &models.DashboardStats{
		Drivers:           models.StatusCounts{},
		Applications:      models.StatusCounts{},
		Evaluations:       models.StatusCounts{},
		Rentals:           models.StatusCounts{},
		TotalDrivers:      len(data.Drivers),
		TotalApplications: len(data.Applications),
		TotalEvaluations:  len(data.Evaluations),
		TotalRentals:      len(data.Rentals),
		AverageRating:     models.AverageRating(data.Evaluations),
	}

	for _, d := range data.Drivers {
		stats.Drivers[canonical(string(d.Status), func(raw string) (string, error) {
			s, err := models.ParseDriverStatus(raw)
			return string(s), err
		})]++
	}
	for _, a := range data.Applications {
		stats.Applications[canonical(string(a.Status), func(raw string) (string, error) {
			s, err := models.ParseApplicationStatus(raw)
			return string(s), err
		})]++
	}
	for _, e := range data.Evaluations {
		stats.Evaluations[canonical(string(e.Status), func(raw string) (string, error) {
			s, err := models.ParseEvaluationStatus(raw)
			return string(s), err
		})]++
		switch {
		case e.Rating >= 4:
			stats.PositiveEvaluations++
		case e.Rating <= 2:
			stats.NegativeEvaluations++
		}
	}
	for _, r := range data.Rentals {
		stats.Rentals[string(r.Status)]++
	}

	stats.ActiveDriversPercent = percent(stats.Drivers[string(models.DriverActive)], stats.TotalDrivers)
	stats.PendingAppsPercent = percent(stats.Applications[string(models.ApplicationPending)], stats.TotalApplications)

	stats.RecentDrivers = head(data.Drivers, recentLimit)
	stats.RecentEvaluations = head(data.Evaluations, recentLimit)
	stats.RecentRentals = head(data.Rentals, recentLimit)
	return stats
}

func canonical(raw string, parse func(string) (string, error)) string {
	s, err := parse(raw)
	if err != nil {
		return raw
	}
	return s
}

func percent(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}

func head[T any](items []*T, n int) []*T {
	if len(items) > n {
		items = items[:n]
	}
	if items == nil {
		return []*T{}
	}
	return items
}
