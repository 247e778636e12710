package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/oksasatya/go-dashboard-api/internal/domain/entity"
	"github.com/oksasatya/go-dashboard-api/internal/domain/repository"
	"github.com/oksasatya/go-dashboard-api/pkg/apperror"
)

type UserRepository struct {
	s *Store
}

func NewUserRepository(s *Store) *UserRepository { return &UserRepository{s: s} }

// uniqueTaken checks every row, deleted ones included, like the Postgres unique index.
func (r *UserRepository) uniqueTaken(u *entity.User) bool {
	for id, row := range r.s.users {
		if id == u.ID {
			continue
		}
		if strings.EqualFold(row.user.Email, u.Email) || strings.EqualFold(row.user.Username, u.Username) {
			return true
		}
	}
	return false
}

func (r *UserRepository) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.uniqueTaken(u) {
		return apperror.AlreadyExists("user already exists")
	}
	id, seq := r.s.next()
	now := r.s.Now()
	u.ID, u.Status, u.CreatedAt, u.UpdatedAt = id, entity.StatusActive, now, now
	r.s.users[id] = userRow{seq: seq, user: *u}
	return nil
}

func (r *UserRepository) find(match func(*entity.User) bool) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, row := range r.s.users {
		u := row.user
		if u.Status == entity.StatusActive && match(&u) {
			return &u, nil
		}
	}
	return nil, apperror.NotFound("user not found")
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.ID == id })
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return strings.EqualFold(u.Email, email) })
}

func (r *UserRepository) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return strings.EqualFold(u.Username, username) })
}

func (r *UserRepository) Update(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.users[u.ID]
	if !ok || row.user.Status != entity.StatusActive {
		return apperror.NotFound("user not found")
	}
	if r.uniqueTaken(u) {
		return apperror.AlreadyExists("user already exists")
	}
	u.UpdatedAt = r.s.Now()
	row.user = *u
	r.s.users[u.ID] = row
	return nil
}

func (r *UserRepository) SoftDelete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.users[id]
	if !ok || row.user.Status != entity.StatusActive {
		return apperror.NotFound("user not found")
	}
	row.user.Status = entity.StatusDeleted
	r.s.users[id] = row
	return nil
}

func (r *UserRepository) filter(match func(*entity.User) bool) []entity.User {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rows := make([]userRow, 0, len(r.s.users))
	for _, row := range r.s.users {
		if row.user.Status == entity.StatusActive && match(&row.user) {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq < rows[j].seq })
	out := make([]entity.User, len(rows))
	for i, row := range rows {
		out[i] = row.user
	}
	return out
}

func (r *UserRepository) List(_ context.Context, page entity.PageRequest) ([]entity.User, int, error) {
	all := r.filter(func(*entity.User) bool { return true })
	return paginate(all, page), len(all), nil
}

func (r *UserRepository) Search(_ context.Context, term string, page entity.PageRequest) ([]entity.User, int, error) {
	term = strings.ToLower(term)
	all := r.filter(func(u *entity.User) bool {
		for _, f := range []string{u.FirstName, u.LastName, u.Email, u.Username} {
			if strings.Contains(strings.ToLower(f), term) {
				return true
			}
		}
		return false
	})
	return paginate(all, page), len(all), nil
}

func (r *UserRepository) ListByRole(_ context.Context, role entity.Role, page entity.PageRequest) ([]entity.User, int, error) {
	all := r.filter(func(u *entity.User) bool { return u.Role == role })
	return paginate(all, page), len(all), nil
}

func (r *UserRepository) ListGoogleDriveLinked(_ context.Context) ([]entity.User, error) {
	return r.filter(func(u *entity.User) bool { return u.GoogleDriveLinked }), nil
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	return err == nil, nil
}

func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := r.GetByUsername(ctx, username)
	return err == nil, nil
}

func (r *UserRepository) CountActive(_ context.Context) (int, error) {
	return len(r.filter(func(*entity.User) bool { return true })), nil
}

func (r *UserRepository) CountLoggedInSince(_ context.Context, since time.Time) (int, error) {
	return len(r.filter(func(u *entity.User) bool {
		return u.LastLoginAt != nil && !u.LastLoginAt.Before(since)
	})), nil
}

// AuditRepository appends events to the store.
type AuditRepository struct {
	s *Store
}

func NewAuditRepository(s *Store) *AuditRepository { return &AuditRepository{s: s} }

func (r *AuditRepository) Record(_ context.Context, e entity.AuditEvent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e.CreatedAt = r.s.Now()
	r.s.audit = append(r.s.audit, e)
	return nil
}

var (
	_ repository.UserRepository  = (*UserRepository)(nil)
	_ repository.AuditRepository = (*AuditRepository)(nil)
)
