package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"taxifrota/pkg/logger"
	"taxifrota/pkg/models"
	"taxifrota/storage"
)

type document[T any] interface {
	*T
	models.Document
}

// Collection stores one document type as (id, data jsonb, created_at,
// updated_at) rows. The metadata columns are authoritative: whatever the
// caller puts in ID/CreatedAt/UpdatedAt is ignored on write.
type Collection[T any, PT document[T]] struct {
	db    querier
	table string
	log   logger.ILogger
}

func NewCollection[T any, PT document[T]](db querier, table string, log logger.ILogger) *Collection[T, PT] {
	return &Collection[T, PT]{db: db, table: table, log: log}
}

func (c *Collection[T, PT]) ident() string {
	return pgx.Identifier{c.table}.Sanitize()
}

func (c *Collection[T, PT]) scan(row pgx.Row) (*T, error) {
	var (
		id               string
		data             []byte
		created, updated time.Time
	)
	if err := row.Scan(&id, &data, &created, &updated); err != nil {
		return nil, err
	}

	doc := new(T)
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("decode %s/%s: %w", c.table, id, err)
	}
	meta := PT(doc).Meta()
	meta.ID = id
	meta.CreatedAt = created
	meta.UpdatedAt = updated
	return doc, nil
}

func (c *Collection[T, PT]) queryOne(ctx context.Context, sql string, args ...any) (*T, error) {
	return c.scan(c.db.QueryRow(ctx, sql, args...))
}

func (c *Collection[T, PT]) queryMany(ctx context.Context, sql string, args ...any) ([]*T, error) {
	rows, err := c.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := []*T{}
	for rows.Next() {
		doc, err := c.scan(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func (c *Collection[T, PT]) Find(ctx context.Context, q storage.Query) ([]*T, error) {
	sql, args, err := buildFind(c.table, q)
	if err != nil {
		return nil, err
	}
	docs, err := c.queryMany(ctx, sql, args...)
	if err != nil {
		c.log.Error("failed to list documents", logger.String("collection", c.table), logger.Error(err))
		return nil, err
	}
	return docs, nil
}

// Get returns (nil, nil) when no document has the id.
func (c *Collection[T, PT]) Get(ctx context.Context, id string) (*T, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	doc, err := c.queryOne(ctx, `SELECT `+selectColumns+` FROM `+c.ident()+` WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		c.log.Error("failed to get document", logger.String("collection", c.table), logger.String("id", id), logger.Error(err))
		return nil, err
	}
	return doc, nil
}

func (c *Collection[T, PT]) Add(ctx context.Context, doc *T) (*T, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	query := `
		INSERT INTO ` + c.ident() + ` (id, data, created_at, updated_at)
		VALUES ($1, $2::jsonb ` + metaStrip + `, NOW(), NOW())
		RETURNING ` + selectColumns
	saved, err := c.queryOne(ctx, query, uuid.NewString(), string(data))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, storage.ErrDuplicate
		}
		c.log.Error("failed to add document", logger.String("collection", c.table), logger.Error(err))
		return nil, err
	}
	return saved, nil
}

// Update merges patch into the stored document (top-level keys only).
func (c *Collection[T, PT]) Update(ctx context.Context, id string, patch map[string]any) (*T, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, storage.ErrNotFound
	}
	data, err := json.Marshal(patch)
	if err != nil {
		return nil, err
	}
	query := `
		UPDATE ` + c.ident() + `
		SET data = data || ($2::jsonb ` + metaStrip + `), updated_at = NOW()
		WHERE id = $1
		RETURNING ` + selectColumns
	return c.write(ctx, "update", query, id, string(data))
}

func (c *Collection[T, PT]) Replace(ctx context.Context, id string, doc *T) (*T, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, storage.ErrNotFound
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	query := `
		UPDATE ` + c.ident() + `
		SET data = $2::jsonb ` + metaStrip + `, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + selectColumns
	return c.write(ctx, "replace", query, id, string(data))
}

func (c *Collection[T, PT]) write(ctx context.Context, op, query string, args ...any) (*T, error) {
	saved, err := c.queryOne(ctx, query, args...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		if isUniqueViolation(err) {
			return nil, storage.ErrDuplicate
		}
		c.log.Error("failed to "+op+" document", logger.String("collection", c.table), logger.Error(err))
		return nil, err
	}
	return saved, nil
}

func (c *Collection[T, PT]) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return storage.ErrNotFound
	}
	tag, err := c.db.Exec(ctx, `DELETE FROM `+c.ident()+` WHERE id = $1`, id)
	if err != nil {
		c.log.Error("failed to delete document", logger.String("collection", c.table), logger.String("id", id), logger.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (c *Collection[T, PT]) Count(ctx context.Context, filters map[string]any) (int, error) {
	sql, args, err := buildCount(c.table, filters)
	if err != nil {
		return 0, err
	}
	var n int
	if err := c.db.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		c.log.Error("failed to count documents", logger.String("collection", c.table), logger.Error(err))
		return 0, err
	}
	return n, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
