// Package memory is a process-local IStorage used by tests and demo runs.
// Documents are kept as top-level JSON fields so filters and ordering behave
// like the postgres jsonb backend.
package memory

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"taxifrota/pkg/logger"
	"taxifrota/pkg/models"
	"taxifrota/storage"
)

type record struct {
	fields  map[string]json.RawMessage
	created time.Time
	updated time.Time
	seq     uint64
}

func (r *record) clone() *record {
	fields := make(map[string]json.RawMessage, len(r.fields))
	for k, v := range r.fields {
		fields[k] = v
	}
	return &record{fields: fields, created: r.created, updated: r.updated, seq: r.seq}
}

type state struct {
	mu     sync.RWMutex
	txMu   sync.Mutex
	tables map[string]map[string]*record
	users  map[string]*models.AdminUser
	last   time.Time
	seq    uint64
}

type Store struct {
	st   *state
	undo *undoLog
	log  logger.ILogger
}

func New(log logger.ILogger) *Store {
	return &Store{
		st: &state{
			tables: map[string]map[string]*record{},
			users:  map[string]*models.AdminUser{},
		},
		log: log,
	}
}

// stamp returns a strictly increasing timestamp so insertion order survives
// ordering by created_at. Callers hold st.mu.
func (st *state) stamp() (time.Time, uint64) {
	now := time.Now().UTC()
	if !now.After(st.last) {
		now = st.last.Add(time.Microsecond)
	}
	st.last = now
	st.seq++
	return now, st.seq
}

func (st *state) table(name string) map[string]*record {
	t, ok := st.tables[name]
	if !ok {
		t = map[string]*record{}
		st.tables[name] = t
	}
	return t
}

// undoLog keeps the state a transaction found before its first write to
// each record. Records the transaction never touched are left alone on
// rollback.
type undoLog struct {
	records map[string]map[string]*record
	users   map[string]*models.AdminUser
}

func newUndoLog() *undoLog {
	return &undoLog{
		records: map[string]map[string]*record{},
		users:   map[string]*models.AdminUser{},
	}
}

// touch records the prior version of table/id. Callers hold st.mu.
func (s *Store) touch(table, id string) {
	if s.undo == nil {
		return
	}
	t, ok := s.undo.records[table]
	if !ok {
		t = map[string]*record{}
		s.undo.records[table] = t
	}
	if _, seen := t[id]; seen {
		return
	}
	if r, ok := s.st.tables[table][id]; ok {
		t[id] = r.clone()
		return
	}
	t[id] = nil
}

// touchUser is touch for admin users. Callers hold st.mu.
func (s *Store) touchUser(id string) {
	if s.undo == nil {
		return
	}
	if _, seen := s.undo.users[id]; seen {
		return
	}
	if u, ok := s.st.users[id]; ok {
		cu := *u
		s.undo.users[id] = &cu
		return
	}
	s.undo.users[id] = nil
}

func (s *Store) rollback() {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	for table, recs := range s.undo.records {
		t := s.st.table(table)
		for id, prior := range recs {
			if prior == nil {
				delete(t, id)
				continue
			}
			t[id] = prior
		}
	}
	for id, prior := range s.undo.users {
		if prior == nil {
			delete(s.st.users, id)
			continue
		}
		s.st.users[id] = prior
	}
}

func (s *Store) Close() {}

// WithTx serializes transactions. When fn fails, every record written
// through the transaction's store is put back the way it was.
func (s *Store) WithTx(ctx context.Context, fn func(stg storage.IStorage) error) error {
	if s.undo != nil {
		return fn(s)
	}
	s.st.txMu.Lock()
	defer s.st.txMu.Unlock()

	tx := &Store{st: s.st, undo: newUndoLog(), log: s.log}
	if err := fn(tx); err != nil {
		tx.rollback()
		return err
	}
	return nil
}

func (s *Store) Reset(ctx context.Context) error {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	for _, name := range []string{
		storage.CollectionDrivers,
		storage.CollectionApplications,
		storage.CollectionEvaluations,
		storage.CollectionRentals,
		storage.CollectionNotifications,
		storage.CollectionStatusChanges,
	} {
		delete(s.st.tables, name)
	}
	return nil
}

func (s *Store) Driver() storage.IDriverStorage {
	return &driverRepo{newCollection[models.Driver](s, storage.CollectionDrivers)}
}

func (s *Store) Application() storage.IApplicationStorage {
	return &applicationRepo{newCollection[models.Application](s, storage.CollectionApplications)}
}

func (s *Store) Evaluation() storage.IEvaluationStorage {
	return &evaluationRepo{newCollection[models.Evaluation](s, storage.CollectionEvaluations)}
}

func (s *Store) Rental() storage.IRentalStorage {
	return &rentalRepo{newCollection[models.RentalRequest](s, storage.CollectionRentals)}
}

func (s *Store) Vehicle() storage.IVehicleStorage {
	return &vehicleRepo{newCollection[models.Vehicle](s, storage.CollectionVehicles)}
}

func (s *Store) Article() storage.IArticleStorage {
	return &articleRepo{newCollection[models.Article](s, storage.CollectionArticles)}
}

func (s *Store) Banner() storage.IBannerStorage {
	return &bannerRepo{newCollection[models.HeroBanner](s, storage.CollectionBanners)}
}

func (s *Store) Notification() storage.INotificationStorage {
	return &notificationRepo{newCollection[models.Notification](s, storage.CollectionNotifications)}
}

func (s *Store) StatusLog() storage.IStatusLogStorage {
	return &statusLogRepo{newCollection[models.StatusChange](s, storage.CollectionStatusChanges)}
}

func (s *Store) AdminUser() storage.IAdminUserStorage {
	return &adminUserRepo{s: s}
}
