// Package memory implements the repository ports on top of in-process maps.
// It backs the service and handler tests and mirrors the Postgres semantics:
// soft-deleted rows are invisible, uniqueness is enforced, layouts list default first.
package memory

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/go-dashboard-api/internal/domain/entity"
)

type userRow struct {
	seq  int
	user entity.User
}

type layoutRow struct {
	seq    int
	layout entity.Layout
}

type widgetRow struct {
	seq    int
	widget entity.Widget
}

// Store holds every table. Repositories created from the same Store share state.
type Store struct {
	mu          sync.RWMutex
	seq         int
	users       map[string]userRow
	layouts     map[string]layoutRow
	widgets     map[string]widgetRow
	preferences map[string]entity.Preferences
	audit       []entity.AuditEvent

	Now func() time.Time
}

func NewStore() *Store {
	return &Store{
		users:       map[string]userRow{},
		layouts:     map[string]layoutRow{},
		widgets:     map[string]widgetRow{},
		preferences: map[string]entity.Preferences{},
		Now:         time.Now,
	}
}

func (s *Store) next() (string, int) {
	s.seq++
	return uuid.NewString(), s.seq
}

type snapshot struct {
	seq         int
	users       map[string]userRow
	layouts     map[string]layoutRow
	widgets     map[string]widgetRow
	preferences map[string]entity.Preferences
	audit       []entity.AuditEvent
}

func (s *Store) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshot{
		seq:         s.seq,
		users:       maps.Clone(s.users),
		layouts:     maps.Clone(s.layouts),
		widgets:     maps.Clone(s.widgets),
		preferences: maps.Clone(s.preferences),
		audit:       append([]entity.AuditEvent(nil), s.audit...),
	}
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq = snap.seq
	s.users = snap.users
	s.layouts = snap.layouts
	s.widgets = snap.widgets
	s.preferences = snap.preferences
	s.audit = snap.audit
}

// AuditEvents returns recorded audit events in insertion order.
func (s *Store) AuditEvents() []entity.AuditEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entity.AuditEvent(nil), s.audit...)
}

type txKey struct{}

// Transactor rolls the whole store back when fn fails.
type Transactor struct {
	store *Store
}

func NewTransactor(s *Store) *Transactor { return &Transactor{store: s} }

func (t *Transactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}
	snap := t.store.snapshot()
	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		t.store.restore(snap)
		return err
	}
	return nil
}

func paginate[T any](items []T, page entity.PageRequest) []T {
	start := page.Offset()
	if start >= len(items) {
		return []T{}
	}
	end := start + page.Size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
