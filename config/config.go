package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

const (
	FileStoreS3   = "s3"
	FileStoreGCS  = "gcs"
	FileStoreNone = "none"

	StorageBackendPostgres = "postgres"
	StorageBackendMemory   = "memory"
)

type Config struct {
	ServiceName string
	LoggerLevel string

	AppPort         int
	CORSAllowOrigin string
	PublicRateRPS   float64
	PublicRateBurst int

	StorageBackend string

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	MigrationsPath   string

	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	StatsCacheTTL time.Duration

	JWTSecret string
	JWTTTL    time.Duration

	FileStore          string
	S3Bucket           string
	S3Region           string
	S3Endpoint         string
	GCSBucket          string
	FilesPublicBaseURL string

	AdminBotToken string
	AdminChatIDs  []int64

	GoogleCredentialsFile string
	GoogleCalendarID      string

	CEPBaseURL string
}

func Load() Config {
	_ = godotenv.Load(".env")

	cfg := Config{}

	cfg.ServiceName = cast.ToString(getOrReturnDefault("SERVICE_NAME", "taxifrota"))
	cfg.LoggerLevel = cast.ToString(getOrReturnDefault("LOGGER_LEVEL", "debug"))
	cfg.AppPort = cast.ToInt(getOrReturnDefault("APP_PORT", 8080))
	cfg.CORSAllowOrigin = cast.ToString(getOrReturnDefault("CORS_ALLOW_ORIGIN", "*"))
	cfg.PublicRateRPS = cast.ToFloat64(getOrReturnDefault("PUBLIC_RATE_RPS", 1))
	cfg.PublicRateBurst = cast.ToInt(getOrReturnDefault("PUBLIC_RATE_BURST", 5))

	cfg.StorageBackend = cast.ToString(getOrReturnDefault("STORAGE_BACKEND", StorageBackendPostgres))

	cfg.PostgresHost = cast.ToString(getOrReturnDefault("POSTGRES_HOST", "localhost"))
	cfg.PostgresPort = cast.ToString(getOrReturnDefault("POSTGRES_PORT", "5432"))
	cfg.PostgresUser = cast.ToString(getOrReturnDefault("POSTGRES_USER", "postgres"))
	cfg.PostgresPassword = cast.ToString(getOrReturnDefault("POSTGRES_PASSWORD", "1234"))
	cfg.PostgresDB = cast.ToString(getOrReturnDefault("POSTGRES_DB", "taxifrota"))
	cfg.MigrationsPath = cast.ToString(getOrReturnDefault("MIGRATIONS_PATH", ""))

	cfg.RedisHost = cast.ToString(getOrReturnDefault("REDIS_HOST", "localhost"))
	cfg.RedisPort = cast.ToString(getOrReturnDefault("REDIS_PORT", "6379"))
	cfg.RedisPassword = cast.ToString(getOrReturnDefault("REDIS_PASSWORD", ""))
	cfg.RedisDB = cast.ToInt(getOrReturnDefault("REDIS_DB", 0))
	cfg.StatsCacheTTL = time.Duration(cast.ToInt(getOrReturnDefault("STATS_CACHE_TTL_SECONDS", 30))) * time.Second

	cfg.JWTSecret = cast.ToString(getOrReturnDefault("JWT_SECRET", "change-me"))
	cfg.JWTTTL = time.Duration(cast.ToInt(getOrReturnDefault("JWT_TTL_MINUTES", 720))) * time.Minute

	cfg.FileStore = cast.ToString(getOrReturnDefault("FILE_STORE", FileStoreNone))
	cfg.S3Bucket = cast.ToString(getOrReturnDefault("S3_BUCKET", ""))
	cfg.S3Region = cast.ToString(getOrReturnDefault("S3_REGION", "sa-east-1"))
	cfg.S3Endpoint = cast.ToString(getOrReturnDefault("S3_ENDPOINT", ""))
	cfg.GCSBucket = cast.ToString(getOrReturnDefault("GCS_BUCKET", ""))
	cfg.FilesPublicBaseURL = cast.ToString(getOrReturnDefault("FILES_PUBLIC_BASE_URL", ""))

	cfg.AdminBotToken = cast.ToString(getOrReturnDefault("ADMIN_BOT_TOKEN", ""))
	cfg.AdminChatIDs = parseIDList(cast.ToString(getOrReturnDefault("ADMIN_CHAT_IDS", "")))

	cfg.GoogleCredentialsFile = cast.ToString(getOrReturnDefault("GOOGLE_CREDENTIALS_FILE", ""))
	cfg.GoogleCalendarID = cast.ToString(getOrReturnDefault("GOOGLE_CALENDAR_ID", ""))

	cfg.CEPBaseURL = cast.ToString(getOrReturnDefault("CEP_BASE_URL", "https://viacep.com.br/ws"))

	return cfg
}

// RedisAddr is host:port for go-redis.
func (c Config) RedisAddr() string {
	return c.RedisHost + ":" + c.RedisPort
}

func getOrReturnDefault(key string, defaultValue interface{}) interface{} {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}

func parseIDList(raw string) []int64 {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := cast.ToInt64E(part)
		if err != nil || id == 0 {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
