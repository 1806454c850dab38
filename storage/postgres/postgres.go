package postgres

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"taxifrota/config"
	"taxifrota/pkg/logger"
	"taxifrota/storage"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Store struct {
	pool *pgxpool.Pool
	db   querier
	inTx bool
	log  logger.ILogger
}

func URL(cfg config.Config) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		cfg.PostgresUser,
		cfg.PostgresPassword,
		cfg.PostgresHost,
		cfg.PostgresPort,
		cfg.PostgresDB,
	)
}

func New(ctx context.Context, cfg config.Config, log logger.ILogger) (*Store, error) {
	url := URL(cfg)

	poolConfig, err := pgxpool.ParseConfig(url)
	if err != nil {
		log.Error("error while parsing Postgres config", logger.Error(err))
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		log.Error("failed to connect Postgres", logger.Error(err))
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		log.Error("postgres ping failed", logger.Error(err))
		return nil, err
	}

	if err := Migrate(cfg, log, true); err != nil {
		pool.Close()
		return nil, err
	}

	log.Info("Postgres connected")

	return &Store{
		pool: pool,
		db:   pool,
		log:  log,
	}, nil
}

// MigrationsDir resolves the migration folder: MIGRATIONS_PATH when set,
// else ./migrations/postgres, else ./migrations.
func MigrationsDir(cfg config.Config) string {
	if cfg.MigrationsPath != "" {
		return cfg.MigrationsPath
	}
	cwd, _ := os.Getwd()
	mPath := filepath.Join(cwd, "migrations")
	if _, err := os.Stat(filepath.Join(cwd, "migrations", "postgres")); err == nil {
		mPath = filepath.Join(cwd, "migrations", "postgres")
	}
	return mPath
}

// Migrate applies all pending migrations (up) or rolls back one step.
func Migrate(cfg config.Config, log logger.ILogger, up bool) error {
	m, err := migrate.New("file://"+MigrationsDir(cfg), URL(cfg))
	if err != nil {
		log.Error("migration init error", logger.Error(err))
		return err
	}
	defer m.Close()

	if up {
		err = m.Up()
	} else {
		err = m.Steps(-1)
	}
	if errors.Is(err, migrate.ErrNoChange) {
		log.Info("no migrations to apply")
		return nil
	}
	if err != nil {
		log.Error("migration error", logger.Bool("up", up), logger.Error(err))
		return err
	}
	return nil
}

func (s *Store) Close() {
	if s.pool != nil && !s.inTx {
		s.pool.Close()
	}
}

func (s *Store) WithTx(ctx context.Context, fn func(stg storage.IStorage) error) error {
	if s.inTx {
		return fn(s)
	}
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		return fn(&Store{pool: s.pool, db: tx, inTx: true, log: s.log})
	})
}

func (s *Store) Reset(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `TRUNCATE TABLE drivers, applications, evaluations, rental_requests, notifications, status_changes`)
	if err != nil {
		s.log.Error("failed to truncate tables", logger.Error(err))
		return err
	}
	return nil
}

func (s *Store) Driver() storage.IDriverStorage             { return NewDriverRepo(s.db, s.log) }
func (s *Store) Application() storage.IApplicationStorage   { return NewApplicationRepo(s.db, s.log) }
func (s *Store) Evaluation() storage.IEvaluationStorage     { return NewEvaluationRepo(s.db, s.log) }
func (s *Store) Rental() storage.IRentalStorage             { return NewRentalRepo(s.db, s.log) }
func (s *Store) Vehicle() storage.IVehicleStorage           { return NewVehicleRepo(s.db, s.log) }
func (s *Store) Article() storage.IArticleStorage           { return NewArticleRepo(s.db, s.log) }
func (s *Store) Banner() storage.IBannerStorage             { return NewBannerRepo(s.db, s.log) }
func (s *Store) Notification() storage.INotificationStorage { return NewNotificationRepo(s.db, s.log) }
func (s *Store) StatusLog() storage.IStatusLogStorage       { return NewStatusLogRepo(s.db, s.log) }
func (s *Store) AdminUser() storage.IAdminUserStorage       { return NewAdminUserRepo(s.db, s.log) }
