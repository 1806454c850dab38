package memory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"taxifrota/pkg/models"
	"taxifrota/storage"
)

type document[T any] interface {
	*T
	models.Document
}

type collection[T any, PT document[T]] struct {
	s     *Store
	table string
}

func newCollection[T any, PT document[T]](s *Store, table string) *collection[T, PT] {
	return &collection[T, PT]{s: s, table: table}
}

func encode(v any) (map[string]json.RawMessage, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	delete(fields, "id")
	delete(fields, "created_at")
	delete(fields, "updated_at")
	return fields, nil
}

func (c *collection[T, PT]) decode(id string, r *record) (*T, error) {
	raw, err := json.Marshal(r.fields)
	if err != nil {
		return nil, err
	}
	doc := new(T)
	if err := json.Unmarshal(raw, doc); err != nil {
		return nil, fmt.Errorf("decode %s/%s: %w", c.table, id, err)
	}
	meta := PT(doc).Meta()
	meta.ID = id
	meta.CreatedAt = r.created
	meta.UpdatedAt = r.updated
	return doc, nil
}

func matches(r *record, filters map[string]json.RawMessage) bool {
	for key, want := range filters {
		got, ok := r.fields[key]
		if !ok || !bytes.Equal(got, want) {
			return false
		}
	}
	return true
}

func encodeFilters(filters map[string]any) (map[string]json.RawMessage, error) {
	if len(filters) == 0 {
		return nil, nil
	}
	return encode(filters)
}

// uniqueFields mirrors the partial unique indexes of the postgres schema.
var uniqueFields = map[string]string{
	storage.CollectionDrivers:  "cpf",
	storage.CollectionArticles: "slug",
}

// taken reports whether another record already holds the unique value in
// fields. Callers hold st.mu.
func (c *collection[T, PT]) taken(id string, fields map[string]json.RawMessage) bool {
	key, ok := uniqueFields[c.table]
	if !ok {
		return false
	}
	want, ok := fields[key]
	if !ok || string(want) == `""` || string(want) == "null" {
		return false
	}
	for otherID, r := range c.s.st.tables[c.table] {
		if otherID != id && bytes.Equal(r.fields[key], want) {
			return true
		}
	}
	return false
}

type row struct {
	id string
	r  *record
}

func (c *collection[T, PT]) Find(ctx context.Context, q storage.Query) ([]*T, error) {
	filters, err := encodeFilters(q.Filters)
	if err != nil {
		return nil, err
	}

	c.s.st.mu.RLock()
	var rows []row
	for id, r := range c.s.st.tables[c.table] {
		if matches(r, filters) {
			rows = append(rows, row{id: id, r: r.clone()})
		}
	}
	c.s.st.mu.RUnlock()

	sortRows(rows, q.OrderBy, q.Asc)
	if q.Limit > 0 && len(rows) > q.Limit {
		rows = rows[:q.Limit]
	}

	docs := make([]*T, 0, len(rows))
	for _, rw := range rows {
		doc, err := c.decode(rw.id, rw.r)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func sortRows(rows []row, orderBy string, asc bool) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i].r, rows[j].r
		var cmp int
		switch orderBy {
		case storage.OrderCreatedAt:
			cmp = a.created.Compare(b.created)
		case storage.OrderUpdatedAt:
			cmp = a.updated.Compare(b.updated)
		case "":
		default:
			va, okA := a.fields[orderBy]
			vb, okB := b.fields[orderBy]
			switch {
			case okA && !okB:
				return true
			case !okA && okB:
				return false
			case okA && okB:
				cmp = compareJSON(va, vb)
			}
		}
		if cmp == 0 {
			return a.seq < b.seq
		}
		if asc {
			return cmp < 0
		}
		return cmp > 0
	})
}

func compareJSON(a, b json.RawMessage) int {
	var va, vb any
	_ = json.Unmarshal(a, &va)
	_ = json.Unmarshal(b, &vb)
	switch x := va.(type) {
	case float64:
		if y, ok := vb.(float64); ok {
			switch {
			case x < y:
				return -1
			case x > y:
				return 1
			}
			return 0
		}
	case string:
		if y, ok := vb.(string); ok {
			return strings.Compare(x, y)
		}
	case bool:
		if y, ok := vb.(bool); ok && x != y {
			if !x {
				return -1
			}
			return 1
		}
		return 0
	}
	return bytes.Compare(a, b)
}

func (c *collection[T, PT]) Get(ctx context.Context, id string) (*T, error) {
	c.s.st.mu.RLock()
	r, ok := c.s.st.tables[c.table][id]
	if ok {
		r = r.clone()
	}
	c.s.st.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	return c.decode(id, r)
}

func (c *collection[T, PT]) Add(ctx context.Context, doc *T) (*T, error) {
	fields, err := encode(doc)
	if err != nil {
		return nil, err
	}
	id := uuid.NewString()

	c.s.st.mu.Lock()
	if c.taken(id, fields) {
		c.s.st.mu.Unlock()
		return nil, storage.ErrDuplicate
	}
	c.s.touch(c.table, id)
	now, seq := c.s.st.stamp()
	r := &record{fields: fields, created: now, updated: now, seq: seq}
	c.s.st.table(c.table)[id] = r
	r = r.clone()
	c.s.st.mu.Unlock()

	return c.decode(id, r)
}

func (c *collection[T, PT]) Update(ctx context.Context, id string, patch map[string]any) (*T, error) {
	fields, err := encode(patch)
	if err != nil {
		return nil, err
	}
	return c.write(id, fields, func(r *record) {
		for k, v := range fields {
			r.fields[k] = v
		}
	})
}

func (c *collection[T, PT]) Replace(ctx context.Context, id string, doc *T) (*T, error) {
	fields, err := encode(doc)
	if err != nil {
		return nil, err
	}
	return c.write(id, fields, func(r *record) {
		r.fields = fields
	})
}

func (c *collection[T, PT]) write(id string, fields map[string]json.RawMessage, apply func(r *record)) (*T, error) {
	c.s.st.mu.Lock()
	r, ok := c.s.st.table(c.table)[id]
	if !ok {
		c.s.st.mu.Unlock()
		return nil, storage.ErrNotFound
	}
	if c.taken(id, fields) {
		c.s.st.mu.Unlock()
		return nil, storage.ErrDuplicate
	}
	c.s.touch(c.table, id)
	apply(r)
	r.updated, _ = c.s.st.stamp()
	r = r.clone()
	c.s.st.mu.Unlock()

	return c.decode(id, r)
}

func (c *collection[T, PT]) Delete(ctx context.Context, id string) error {
	c.s.st.mu.Lock()
	defer c.s.st.mu.Unlock()
	t := c.s.st.table(c.table)
	if _, ok := t[id]; !ok {
		return storage.ErrNotFound
	}
	c.s.touch(c.table, id)
	delete(t, id)
	return nil
}

func (c *collection[T, PT]) Count(ctx context.Context, filters map[string]any) (int, error) {
	encoded, err := encodeFilters(filters)
	if err != nil {
		return 0, err
	}
	c.s.st.mu.RLock()
	defer c.s.st.mu.RUnlock()
	n := 0
	for _, r := range c.s.st.tables[c.table] {
		if matches(r, encoded) {
			n++
		}
	}
	return n, nil
}
