package memory

import (
	"context"
	"maps"
	"sort"
	"strings"

	"github.com/oksasatya/go-dashboard-api/internal/domain/entity"
	"github.com/oksasatya/go-dashboard-api/internal/domain/repository"
	"github.com/oksasatya/go-dashboard-api/pkg/apperror"
)

type LayoutRepository struct {
	s *Store
}

func NewLayoutRepository(s *Store) *LayoutRepository { return &LayoutRepository{s: s} }

func (r *LayoutRepository) Create(_ context.Context, l *entity.Layout) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if l.IsDefault && r.hasDefault(l.UserID, "") {
		return apperror.AlreadyExists("default layout already exists")
	}
	id, seq := r.s.next()
	now := r.s.Now()
	l.ID, l.Status, l.CreatedAt, l.UpdatedAt = id, entity.StatusActive, now, now
	r.s.layouts[id] = layoutRow{seq: seq, layout: *l}
	return nil
}

// hasDefault mirrors the partial unique index on (user_id) WHERE is_default.
func (r *LayoutRepository) hasDefault(userID, exceptID string) bool {
	for id, row := range r.s.layouts {
		l := row.layout
		if id != exceptID && l.UserID == userID && l.IsDefault && l.Status == entity.StatusActive {
			return true
		}
	}
	return false
}

func (r *LayoutRepository) GetByID(_ context.Context, id string) (*entity.Layout, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	row, ok := r.s.layouts[id]
	if !ok || row.layout.Status != entity.StatusActive {
		return nil, apperror.NotFound("layout not found")
	}
	l := row.layout
	return &l, nil
}

func (r *LayoutRepository) GetDefault(_ context.Context, userID string) (*entity.Layout, error) {
	defaults := r.sorted(userID, func(l *entity.Layout) bool { return l.IsDefault })
	if len(defaults) == 0 {
		return nil, apperror.NotFound("default layout not found")
	}
	return &defaults[0], nil
}

func (r *LayoutRepository) sorted(userID string, match func(*entity.Layout) bool) []entity.Layout {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rows := make([]layoutRow, 0)
	for _, row := range r.s.layouts {
		if row.layout.UserID == userID && row.layout.Status == entity.StatusActive && match(&row.layout) {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].layout.IsDefault != rows[j].layout.IsDefault {
			return rows[i].layout.IsDefault
		}
		return rows[i].seq < rows[j].seq
	})
	out := make([]entity.Layout, len(rows))
	for i, row := range rows {
		out[i] = row.layout
	}
	return out
}

func (r *LayoutRepository) ListByUser(_ context.Context, userID string, page entity.PageRequest) ([]entity.Layout, int, error) {
	all := r.sorted(userID, func(*entity.Layout) bool { return true })
	return paginate(all, page), len(all), nil
}

func (r *LayoutRepository) ListAllByUser(_ context.Context, userID string) ([]entity.Layout, error) {
	return r.sorted(userID, func(*entity.Layout) bool { return true }), nil
}

func (r *LayoutRepository) Search(_ context.Context, userID, term string, page entity.PageRequest) ([]entity.Layout, int, error) {
	term = strings.ToLower(term)
	all := r.sorted(userID, func(l *entity.Layout) bool {
		return strings.Contains(strings.ToLower(l.Name), term)
	})
	return paginate(all, page), len(all), nil
}

func (r *LayoutRepository) Update(_ context.Context, l *entity.Layout) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.layouts[l.ID]
	if !ok || row.layout.Status != entity.StatusActive {
		return apperror.NotFound("layout not found")
	}
	if l.IsDefault && r.hasDefault(l.UserID, l.ID) {
		return apperror.AlreadyExists("default layout already exists")
	}
	l.UpdatedAt = r.s.Now()
	row.layout = *l
	r.s.layouts[l.ID] = row
	return nil
}

func (r *LayoutRepository) SoftDelete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.layouts[id]
	if !ok || row.layout.Status != entity.StatusActive {
		return apperror.NotFound("layout not found")
	}
	row.layout.Status = entity.StatusDeleted
	row.layout.IsDefault = false
	r.s.layouts[id] = row
	return nil
}

func (r *LayoutRepository) ClearDefault(_ context.Context, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, row := range r.s.layouts {
		if row.layout.UserID == userID && row.layout.IsDefault && row.layout.Status == entity.StatusActive {
			row.layout.IsDefault = false
			row.layout.UpdatedAt = r.s.Now()
			r.s.layouts[id] = row
		}
	}
	return nil
}

type WidgetRepository struct {
	s *Store
}

func NewWidgetRepository(s *Store) *WidgetRepository { return &WidgetRepository{s: s} }

func cloneWidget(w entity.Widget) entity.Widget {
	if w.Config != nil {
		w.Config = maps.Clone(w.Config)
	}
	return w
}

func (r *WidgetRepository) Create(_ context.Context, w *entity.Widget) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if row, ok := r.s.layouts[w.LayoutID]; !ok || row.layout.Status != entity.StatusActive {
		return apperror.NotFound("layout not found")
	}
	id, seq := r.s.next()
	now := r.s.Now()
	w.ID, w.Status, w.CreatedAt, w.UpdatedAt = id, entity.StatusActive, now, now
	r.s.widgets[id] = widgetRow{seq: seq, widget: cloneWidget(*w)}
	return nil
}

func (r *WidgetRepository) GetByID(_ context.Context, id string) (*entity.Widget, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	row, ok := r.s.widgets[id]
	if !ok || row.widget.Status != entity.StatusActive {
		return nil, apperror.NotFound("widget not found")
	}
	w := cloneWidget(row.widget)
	return &w, nil
}

func (r *WidgetRepository) ListByLayout(_ context.Context, layoutID string) ([]entity.Widget, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rows := make([]widgetRow, 0)
	for _, row := range r.s.widgets {
		if row.widget.LayoutID == layoutID && row.widget.Status == entity.StatusActive {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].widget.OrderIndex != rows[j].widget.OrderIndex {
			return rows[i].widget.OrderIndex < rows[j].widget.OrderIndex
		}
		return rows[i].seq < rows[j].seq
	})
	out := make([]entity.Widget, len(rows))
	for i, row := range rows {
		out[i] = cloneWidget(row.widget)
	}
	return out, nil
}

func (r *WidgetRepository) Update(_ context.Context, w *entity.Widget) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.widgets[w.ID]
	if !ok || row.widget.Status != entity.StatusActive {
		return apperror.NotFound("widget not found")
	}
	w.UpdatedAt = r.s.Now()
	row.widget = cloneWidget(*w)
	r.s.widgets[w.ID] = row
	return nil
}

func (r *WidgetRepository) SoftDelete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.widgets[id]
	if !ok || row.widget.Status != entity.StatusActive {
		return apperror.NotFound("widget not found")
	}
	row.widget.Status = entity.StatusDeleted
	r.s.widgets[id] = row
	return nil
}

func (r *WidgetRepository) SoftDeleteByLayout(_ context.Context, layoutID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, row := range r.s.widgets {
		if row.widget.LayoutID == layoutID && row.widget.Status == entity.StatusActive {
			row.widget.Status = entity.StatusDeleted
			r.s.widgets[id] = row
		}
	}
	return nil
}

func (r *WidgetRepository) MaxOrderIndex(_ context.Context, layoutID string) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	highest := 0
	for _, row := range r.s.widgets {
		if row.widget.LayoutID == layoutID && row.widget.Status == entity.StatusActive && row.widget.OrderIndex > highest {
			highest = row.widget.OrderIndex
		}
	}
	return highest, nil
}

type PreferencesRepository struct {
	s *Store
}

func NewPreferencesRepository(s *Store) *PreferencesRepository { return &PreferencesRepository{s: s} }

func (r *PreferencesRepository) Create(_ context.Context, p *entity.Preferences) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.preferences[p.UserID]; ok {
		return apperror.AlreadyExists("preferences already exist")
	}
	id, _ := r.s.next()
	now := r.s.Now()
	p.ID, p.CreatedAt, p.UpdatedAt = id, now, now
	r.s.preferences[p.UserID] = *p
	return nil
}

func (r *PreferencesRepository) GetByUser(_ context.Context, userID string) (*entity.Preferences, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.preferences[userID]
	if !ok {
		return nil, apperror.NotFound("preferences not found")
	}
	return &p, nil
}

func (r *PreferencesRepository) Update(_ context.Context, p *entity.Preferences) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.preferences[p.UserID]; !ok {
		return apperror.NotFound("preferences not found")
	}
	p.UpdatedAt = r.s.Now()
	r.s.preferences[p.UserID] = *p
	return nil
}

func (r *PreferencesRepository) DeleteByUser(_ context.Context, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.preferences[userID]; !ok {
		return apperror.NotFound("preferences not found")
	}
	delete(r.s.preferences, userID)
	return nil
}

var (
	_ repository.LayoutRepository      = (*LayoutRepository)(nil)
	_ repository.WidgetRepository      = (*WidgetRepository)(nil)
	_ repository.PreferencesRepository = (*PreferencesRepository)(nil)
	_ repository.Transactor            = (*Transactor)(nil)
)
