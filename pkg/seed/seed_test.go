package seed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxifrota/pkg/logger"
	"taxifrota/pkg/models"
	"taxifrota/storage"
	"taxifrota/storage/memory"
)

func TestEmbeddedCatalog(t *testing.T) {
	vehicles, err := Vehicles()
	require.NoError(t, err)
	require.Len(t, vehicles, 5)

	accessible := 0
	for _, v := range vehicles {
		assert.Greater(t, v.DailyPrice, 0.0, v.Model)
		assert.NotEmpty(t, v.Features, v.Model)
		if v.Accessible {
			accessible++
		}
	}
	assert.Equal(t, 1, accessible)

	banners, err := Banners()
	require.NoError(t, err)
	require.Len(t, banners, 3)
	assert.Equal(t, "Solicite seu táxi", banners[0].ButtonText)
	assert.Equal(t, 3, banners[2].Order)
}

func TestRunSkipsNonEmptyCollections(t *testing.T) {
	ctx := context.Background()
	stg := memory.New(logger.NewNop())

	_, err := stg.Banner().Add(ctx, &models.HeroBanner{Title: "Existente", Active: true})
	require.NoError(t, err)

	results, err := Run(ctx, stg, logger.NewNop())
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, storage.CollectionVehicles, results[0].Collection)
	assert.Equal(t, 5, results[0].Inserted)
	assert.False(t, results[0].Skipped())

	assert.True(t, results[1].Skipped())
	assert.Equal(t, 1, results[1].Existing)

	n, err := stg.Banner().Count(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// A second run inserts nothing.
	results, err = Run(ctx, stg, logger.NewNop())
	require.NoError(t, err)
	assert.True(t, results[0].Skipped())
	assert.Zero(t, results[0].Inserted)
}
