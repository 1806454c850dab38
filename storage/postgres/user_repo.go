package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"taxifrota/pkg/logger"
	"taxifrota/pkg/models"
	"taxifrota/storage"
)

const adminUserColumns = `id::text, email, name, password_hash, role, active, created_at, updated_at`

type adminUserRepo struct {
	db  querier
	log logger.ILogger
}

func NewAdminUserRepo(db querier, log logger.ILogger) storage.IAdminUserStorage {
	return &adminUserRepo{db: db, log: log}
}

func scanAdminUser(row pgx.Row) (*models.AdminUser, error) {
	var u models.AdminUser
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Role, &u.Active, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *adminUserRepo) Create(ctx context.Context, user *models.AdminUser) (*models.AdminUser, error) {
	query := `
		INSERT INTO admin_users (id, email, name, password_hash, role, active)
		VALUES ($1, LOWER($2), $3, $4, $5, $6)
		RETURNING ` + adminUserColumns
	saved, err := scanAdminUser(r.db.QueryRow(ctx, query,
		uuid.NewString(), user.Email, user.Name, user.PasswordHash, user.Role, user.Active,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, storage.ErrDuplicate
		}
		r.log.Error("failed to create admin user", logger.String("email", user.Email), logger.Error(err))
		return nil, err
	}
	return saved, nil
}

func (r *adminUserRepo) GetByID(ctx context.Context, id string) (*models.AdminUser, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	query := `SELECT ` + adminUserColumns + ` FROM admin_users WHERE id = $1`
	user, err := scanAdminUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.log.Error("failed to get admin user by id", logger.Error(err))
		return nil, err
	}
	return user, nil
}

func (r *adminUserRepo) GetByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	query := `SELECT ` + adminUserColumns + ` FROM admin_users WHERE email = LOWER($1)`
	user, err := scanAdminUser(r.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.log.Error("failed to get admin user by email", logger.Error(err))
		return nil, err
	}
	return user, nil
}

func (r *adminUserRepo) GetAll(ctx context.Context) ([]*models.AdminUser, error) {
	rows, err := r.db.Query(ctx, `SELECT `+adminUserColumns+` FROM admin_users ORDER BY created_at`)
	if err != nil {
		r.log.Error("failed to list admin users", logger.Error(err))
		return nil, err
	}
	defer rows.Close()

	users := []*models.AdminUser{}
	for rows.Next() {
		u, err := scanAdminUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *adminUserRepo) SetActive(ctx context.Context, id string, active bool) error {
	return r.exec(ctx, "UPDATE admin_users SET active=$1, updated_at=NOW() WHERE id=$2", active, id)
}

func (r *adminUserRepo) UpdatePassword(ctx context.Context, id, hash string) error {
	return r.exec(ctx, "UPDATE admin_users SET password_hash=$1, updated_at=NOW() WHERE id=$2", hash, id)
}

func (r *adminUserRepo) exec(ctx context.Context, query string, value any, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return storage.ErrNotFound
	}
	tag, err := r.db.Exec(ctx, query, value, id)
	if err != nil {
		r.log.Error("failed to update admin user", logger.String("id", id), logger.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (r *adminUserRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM admin_users`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
