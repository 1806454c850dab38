package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_PORT", "")
	t.Setenv("FILE_STORE", "")
	t.Setenv("STORAGE_BACKEND", "")

	cfg := Load()

	assert.Equal(t, 8080, cfg.AppPort)
	assert.Equal(t, FileStoreNone, cfg.FileStore)
	assert.Equal(t, StorageBackendPostgres, cfg.StorageBackend)
	assert.Equal(t, 30*time.Second, cfg.StatsCacheTTL)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("JWT_TTL_MINUTES", "15")
	t.Setenv("ADMIN_CHAT_IDS", "111, 222,,abc,0")

	cfg := Load()

	assert.Equal(t, 9090, cfg.AppPort)
	assert.Equal(t, 15*time.Minute, cfg.JWTTTL)
	assert.Equal(t, []int64{111, 222}, cfg.AdminChatIDs)
}
