// Package store is the typed entity store of the LoveOps client. It keeps
// every collection as a JSON array under a fixed key of the local key/value
// table and offers whole-collection read-modify-write operations on top.
//
// All operations are serialized by one store-wide lock. Multi-collection
// writes (cascading person delete, backup restore) run in one SQLite
// transaction. An optional observer is told about every successful write;
// the sync engine uses it to schedule pushes.
package store

import (
	"context"
	"database/sql"
	"sync"

	"github.com/dmitrijs2005/loveops/internal/client/models"
	"github.com/dmitrijs2005/loveops/internal/client/repositories/kv"
	"github.com/dmitrijs2005/loveops/internal/dbx"
	"github.com/dmitrijs2005/loveops/internal/logging"
)

// Observer is called after a collection has been persisted. It runs on the
// writer's goroutine after the store lock has been released.
type Observer func(ctx context.Context, key string)

type Store struct {
	mu  sync.Mutex
	db  *sql.DB
	kv  kv.Repository
	log logging.Logger

	obsMu    sync.RWMutex
	observer Observer

	Persons     *Persons
	Dates       *Dates
	Milestones  *Milestones
	Impressions *Impressions
	Questions   *Questions
	Plans       *Plans
	Decisions   *Decisions
	Reminders   *Reminders

	scoped []personScoped
}

// New builds a store over the kv table of db.
func New(db *sql.DB, log logging.Logger) *Store {
	s := newStore(kv.NewSQLiteRepository(db), log)
	s.db = db
	return s
}

// NewWithRepository builds a store over an arbitrary repository. Multi-key
// writes are then applied without a transaction.
func NewWithRepository(repo kv.Repository, log logging.Logger) *Store {
	return newStore(repo, log)
}

func newStore(repo kv.Repository, log logging.Logger) *Store {
	s := &Store{kv: repo, log: log.With("component", "store")}

	s.Persons = &Persons{newCollection[models.Person](s, KeyPersons)}

	dates := newCollection[models.DateRecord](s, KeyDates)
	dates.upgrade = func(raw []byte) ([]byte, bool, error) {
		return MigrateDates(raw, models.NewID)
	}
	s.Dates = &Dates{newScoped(dates, func(a, b models.DateRecord) int {
		return compareDesc(a.Date, b.Date)
	})}

	s.Milestones = &Milestones{newScoped(newCollection[models.Milestone](s, KeyMilestones), func(a, b models.Milestone) int {
		return compareAsc(a.Date, b.Date)
	})}
	s.Impressions = &Impressions{newScoped(newCollection[models.Impression](s, KeyImpressions), func(a, b models.Impression) int {
		return compareDesc(a.UpdatedAt, b.UpdatedAt)
	})}
	s.Questions = &Questions{newScoped(newCollection[models.PendingQuestion](s, KeyQuestions), func(a, b models.PendingQuestion) int {
		return compareDesc(a.CreatedAt, b.CreatedAt)
	})}
	s.Plans = &Plans{newScoped(newCollection[models.NextPlan](s, KeyPlans), func(a, b models.NextPlan) int {
		return compareDesc(a.UpdatedAt, b.UpdatedAt)
	})}
	s.Decisions = &Decisions{newScoped(newCollection[models.Decision](s, KeyDecisions), func(a, b models.Decision) int {
		return compareDesc(a.DecidedAt, b.DecidedAt)
	})}
	s.Reminders = &Reminders{newScoped(newCollection[models.Reminder](s, KeyReminders), func(a, b models.Reminder) int {
		return compareAsc(a.Date, b.Date)
	})}

	s.scoped = []personScoped{
		s.Dates, s.Milestones, s.Impressions, s.Questions,
		s.Plans, s.Decisions, s.Reminders,
	}
	return s
}

// SetObserver installs the single after-save subscriber, replacing any
// previous one.
func (s *Store) SetObserver(o Observer) {
	s.obsMu.Lock()
	s.observer = o
	s.obsMu.Unlock()
}

// ClearObserver removes the subscriber.
func (s *Store) ClearObserver() {
	s.SetObserver(nil)
}

func (s *Store) notify(ctx context.Context, keys ...string) {
	s.obsMu.RLock()
	o := s.observer
	s.obsMu.RUnlock()
	if o == nil {
		return
	}
	for _, k := range keys {
		o(ctx, k)
	}
}

// mutate runs fn under the store lock and notifies keys when fn reports a
// change. With tx set and a database attached, fn runs in a transaction and
// observers hear about it only after commit.
func (s *Store) mutate(ctx context.Context, tx bool, notify bool, keys []string, fn func(ctx context.Context, repo kv.Repository) (bool, error)) (bool, error) {
	s.mu.Lock()
	var changed bool
	var err error
	if tx && s.db != nil {
		err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, q dbx.DBTX) error {
			var e error
			changed, e = fn(ctx, kv.NewSQLiteRepository(q))
			return e
		})
	} else {
		changed, err = fn(ctx, s.kv)
	}
	s.mu.Unlock()

	if err != nil {
		return false, err
	}
	if changed && notify {
		s.notify(ctx, keys...)
	}
	return changed, nil
}

func (s *Store) read(ctx context.Context, fn func(ctx context.Context, repo kv.Repository) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(ctx, s.kv)
}

func (s *Store) quarantine(ctx context.Context, repo kv.Repository, key string, raw []byte, cause error) {
	s.log.Warn(ctx, "stored collection is not valid JSON, reading it as empty", "key", key, "error", cause)
	if err := repo.Set(ctx, key+corruptSuffix, raw); err != nil {
		s.log.Error(ctx, "failed to keep a copy of the corrupt collection", "key", key, "error", err)
	}
}
