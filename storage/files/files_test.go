package files

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxifrota/config"
	"taxifrota/pkg/logger"
	"taxifrota/pkg/models"
)

func TestDriverPath(t *testing.T) {
	at := time.UnixMilli(1700000000123)
	assert.Equal(t, "drivers/52998224725/cnh_1700000000123", DriverPath("52998224725", models.FileCNH, at))
	assert.Equal(t, "drivers/1/profilePhoto_1700000000123", DriverPath("1", models.FileProfilePhoto, at))
}

func TestKeyFrom(t *testing.T) {
	base := "https://cdn.example.com/fleet/"
	assert.Equal(t, "drivers/1/cnh_1", keyFrom(base, "https://cdn.example.com/fleet/drivers/1/cnh_1"))
	assert.Equal(t, "drivers/1/cnh_1", keyFrom(base, "drivers/1/cnh_1"))
	assert.Equal(t, "drivers/1/cnh_1", keyFrom("", "/drivers/1/cnh_1"))
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	m := NewMemory("https://files.local")

	url, err := m.Upload(ctx, "drivers/1/cnh_1", strings.NewReader("pdf"), 3, "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, "https://files.local/drivers/1/cnh_1", url)
	assert.True(t, m.Has("drivers/1/cnh_1"))

	require.NoError(t, m.Delete(ctx, url))
	assert.Equal(t, 0, m.Len())
}

func TestNewNone(t *testing.T) {
	s, err := New(context.Background(), config.Config{FileStore: config.FileStoreNone}, logger.NewNop())
	require.NoError(t, err)
	_, err = s.Upload(context.Background(), "x", strings.NewReader(""), 0, "")
	assert.ErrorIs(t, err, ErrDisabled)

	_, err = New(context.Background(), config.Config{FileStore: "ftp"}, logger.NewNop())
	assert.Error(t, err)
}
