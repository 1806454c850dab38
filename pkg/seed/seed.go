// Package seed loads the starter catalog shipped with the binary.
package seed

import (
	"context"
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"taxifrota/pkg/logger"
	"taxifrota/pkg/models"
	"taxifrota/storage"
)

//go:embed data/*.yaml
var data embed.FS

type Result struct {
	Collection string
	Inserted   int
	Existing   int
}

func (r Result) Skipped() bool { return r.Existing > 0 }

func Vehicles() ([]*models.Vehicle, error) {
	var out []*models.Vehicle
	return out, load("data/vehicles.yaml", &out)
}

func Banners() ([]*models.HeroBanner, error) {
	var out []*models.HeroBanner
	return out, load("data/banners.yaml", &out)
}

func load(name string, out any) error {
	raw, err := data.ReadFile(name)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}

// Run inserts vehicles and banners. A collection that already has rows is
// left alone.
func Run(ctx context.Context, stg storage.IStorage, log logger.ILogger) ([]Result, error) {
	vehicles, err := Vehicles()
	if err != nil {
		return nil, err
	}
	banners, err := Banners()
	if err != nil {
		return nil, err
	}

	var results []Result
	err = stg.WithTx(ctx, func(tx storage.IStorage) error {
		res, err := seedCollection[models.Vehicle](ctx, storage.CollectionVehicles, tx.Vehicle(), vehicles)
		if err != nil {
			return err
		}
		results = append(results, res)

		res, err = seedCollection[models.HeroBanner](ctx, storage.CollectionBanners, tx.Banner(), banners)
		if err != nil {
			return err
		}
		results = append(results, res)
		return nil
	})
	if err != nil {
		log.Error("seed failed", logger.Error(err))
		return nil, err
	}

	for _, r := range results {
		if r.Skipped() {
			log.Info("seed skipped", logger.String("collection", r.Collection), logger.Int("existing", r.Existing))
			continue
		}
		log.Info("seed inserted", logger.String("collection", r.Collection), logger.Int("count", r.Inserted))
	}
	return results, nil
}

func seedCollection[T any](ctx context.Context, name string, repo storage.ICollection[T], docs []*T) (Result, error) {
	res := Result{Collection: name}
	n, err := repo.Count(ctx, nil)
	if err != nil {
		return res, fmt.Errorf("count %s: %w", name, err)
	}
	if n > 0 {
		res.Existing = n
		return res, nil
	}
	for _, doc := range docs {
		if _, err := repo.Add(ctx, doc); err != nil {
			return res, fmt.Errorf("insert %s: %w", name, err)
		}
		res.Inserted++
	}
	return res, nil
}
