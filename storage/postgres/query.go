package postgres

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5"

	"taxifrota/storage"
)

const selectColumns = `id::text, data, created_at, updated_at`

// metaStrip removes the columns that live outside the data blob.
const metaStrip = `- 'id' - 'created_at' - 'updated_at'`

var fieldName = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

func buildFind(table string, q storage.Query) (string, []any, error) {
	var (
		sb   strings.Builder
		args []any
	)

	sb.WriteString("SELECT ")
	sb.WriteString(selectColumns)
	sb.WriteString(" FROM ")
	sb.WriteString(pgx.Identifier{table}.Sanitize())

	where, args, err := whereClause(q.Filters, args)
	if err != nil {
		return "", nil, err
	}
	sb.WriteString(where)

	order, args, err := orderClause(q.OrderBy, q.Asc, args)
	if err != nil {
		return "", nil, err
	}
	sb.WriteString(order)

	if q.Limit > 0 {
		args = append(args, q.Limit)
		fmt.Fprintf(&sb, " LIMIT $%d", len(args))
	}
	return sb.String(), args, nil
}

func buildCount(table string, filters map[string]any) (string, []any, error) {
	where, args, err := whereClause(filters, nil)
	if err != nil {
		return "", nil, err
	}
	return "SELECT count(*) FROM " + pgx.Identifier{table}.Sanitize() + where, args, nil
}

// whereClause turns equality filters into a single jsonb containment test,
// which the GIN index on data serves.
func whereClause(filters map[string]any, args []any) (string, []any, error) {
	if len(filters) == 0 {
		return "", args, nil
	}
	for key := range filters {
		if !fieldName.MatchString(key) {
			return "", nil, fmt.Errorf("invalid filter field %q", key)
		}
	}
	raw, err := json.Marshal(filters)
	if err != nil {
		return "", nil, fmt.Errorf("encode filters: %w", err)
	}
	args = append(args, string(raw))
	return fmt.Sprintf(" WHERE data @> $%d::jsonb", len(args)), args, nil
}

func orderClause(orderBy string, asc bool, args []any) (string, []any, error) {
	dir := "DESC"
	if asc {
		dir = "ASC"
	}
	switch orderBy {
	case "":
		return "", args, nil
	case storage.OrderCreatedAt, storage.OrderUpdatedAt:
		return fmt.Sprintf(" ORDER BY %s %s, id", orderBy, dir), args, nil
	}
	if !fieldName.MatchString(orderBy) {
		return "", nil, fmt.Errorf("invalid order field %q", orderBy)
	}
	args = append(args, orderBy)
	return fmt.Sprintf(" ORDER BY data->$%d %s NULLS LAST, id", len(args), dir), args, nil
}
