package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/go-dashboard-api/internal/domain/entity"
	"github.com/oksasatya/go-dashboard-api/internal/domain/repository"
	"github.com/oksasatya/go-dashboard-api/pkg/apperror"
)

const userColumns = `id, email, username, password_hash, first_name, last_name, birth_date,
	address_line, city, postal_code, country, phone, avatar_url, language, timezone, role,
	last_login_at, google_drive_linked, google_drive_refresh_token, reset_pin, reset_pin_expires_at,
	status, created_at, updated_at`

const activeUser = `status = 'active'`

type scanner interface {
	Scan(dest ...any) error
}

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func scanUser(row scanner) (*entity.User, error) {
	u := &entity.User{}
	var role, status string
	if err := row.Scan(&u.ID, &u.Email, &u.Username, &u.Password, &u.FirstName, &u.LastName, &u.BirthDate,
		&u.AddressLine, &u.City, &u.PostalCode, &u.Country, &u.Phone, &u.AvatarURL, &u.Language, &u.Timezone, &role,
		&u.LastLoginAt, &u.GoogleDriveLinked, &u.GoogleDriveRefreshToken, &u.ResetPIN, &u.ResetPINExpiresAt,
		&status, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	u.Role = entity.Role(role)
	u.Status = entity.RecordStatus(status)
	return u, nil
}

func collectUsers(rows pgx.Rows) ([]entity.User, error) {
	defer rows.Close()
	var out []entity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, rows.Err()
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO users (email, username, password_hash, first_name, last_name, birth_date,
			address_line, city, postal_code, country, phone, avatar_url, language, timezone, role)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id, status, created_at, updated_at
	`, u.Email, u.Username, u.Password, u.FirstName, u.LastName, u.BirthDate,
		u.AddressLine, u.City, u.PostalCode, u.Country, u.Phone, u.AvatarURL, u.Language, u.Timezone, string(u.Role))

	var status string
	if err := row.Scan(&u.ID, &status, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return mapErr(err, "user")
	}
	u.Status = entity.RecordStatus(status)
	return nil
}

func (r *UserRepository) getOne(ctx context.Context, where string, arg any) (*entity.User, error) {
	row := conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE `+where+` AND `+activeUser, arg)
	u, err := scanUser(row)
	if err != nil {
		return nil, mapErr(err, "user")
	}
	return u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.getOne(ctx, `id = $1`, id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.getOne(ctx, `lower(email) = lower($1)`, email)
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.getOne(ctx, `lower(username) = lower($1)`, username)
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	u.UpdatedAt = time.Now()
	res, err := conn(ctx, r.pool).Exec(ctx, `
		UPDATE users
		SET email = $1, username = $2, password_hash = $3, first_name = $4, last_name = $5, birth_date = $6,
			address_line = $7, city = $8, postal_code = $9, country = $10, phone = $11, avatar_url = $12,
			language = $13, timezone = $14, role = $15, last_login_at = $16, google_drive_linked = $17,
			google_drive_refresh_token = $18, reset_pin = $19, reset_pin_expires_at = $20, updated_at = $21
		WHERE id = $22 AND `+activeUser,
		u.Email, u.Username, u.Password, u.FirstName, u.LastName, u.BirthDate,
		u.AddressLine, u.City, u.PostalCode, u.Country, u.Phone, u.AvatarURL,
		u.Language, u.Timezone, string(u.Role), u.LastLoginAt, u.GoogleDriveLinked,
		u.GoogleDriveRefreshToken, u.ResetPIN, u.ResetPINExpiresAt, u.UpdatedAt, u.ID)
	if err != nil {
		return mapErr(err, "user")
	}
	if res.RowsAffected() == 0 {
		return apperror.NotFound("user not found")
	}
	return nil
}

func (r *UserRepository) SoftDelete(ctx context.Context, id string) error {
	res, err := conn(ctx, r.pool).Exec(ctx,
		`UPDATE users SET status = 'deleted', updated_at = now() WHERE id = $1 AND `+activeUser, id)
	if err != nil {
		return mapErr(err, "user")
	}
	if res.RowsAffected() == 0 {
		return apperror.NotFound("user not found")
	}
	return nil
}

func (r *UserRepository) page(ctx context.Context, where string, page entity.PageRequest, args ...any) ([]entity.User, int, error) {
	q := conn(ctx, r.pool)
	var total int
	if err := q.QueryRow(ctx, `SELECT count(*) FROM users WHERE `+where+` AND `+activeUser, args...).Scan(&total); err != nil {
		return nil, 0, mapErr(err, "user")
	}
	limit, offset := len(args)+1, len(args)+2
	args = append(args, page.Size, page.Offset())
	rows, err := q.Query(ctx, `SELECT `+userColumns+` FROM users WHERE `+where+` AND `+activeUser+
		` ORDER BY created_at ASC LIMIT `+placeholder(limit)+` OFFSET `+placeholder(offset), args...)
	if err != nil {
		return nil, 0, mapErr(err, "user")
	}
	users, err := collectUsers(rows)
	if err != nil {
		return nil, 0, mapErr(err, "user")
	}
	return users, total, nil
}

func (r *UserRepository) List(ctx context.Context, page entity.PageRequest) ([]entity.User, int, error) {
	return r.page(ctx, `TRUE`, page)
}

func (r *UserRepository) Search(ctx context.Context, term string, page entity.PageRequest) ([]entity.User, int, error) {
	return r.page(ctx, `(first_name ILIKE $1 OR last_name ILIKE $1 OR email ILIKE $1 OR username ILIKE $1)`,
		page, likePattern(term))
}

func (r *UserRepository) ListByRole(ctx context.Context, role entity.Role, page entity.PageRequest) ([]entity.User, int, error) {
	return r.page(ctx, `role = $1`, page, string(role))
}

func (r *UserRepository) ListGoogleDriveLinked(ctx context.Context) ([]entity.User, error) {
	rows, err := conn(ctx, r.pool).Query(ctx,
		`SELECT `+userColumns+` FROM users WHERE google_drive_linked AND `+activeUser+` ORDER BY created_at`)
	if err != nil {
		return nil, mapErr(err, "user")
	}
	users, err := collectUsers(rows)
	if err != nil {
		return nil, mapErr(err, "user")
	}
	return users, nil
}

func (r *UserRepository) exists(ctx context.Context, where string, arg any) (bool, error) {
	var ok bool
	err := conn(ctx, r.pool).QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE `+where+` AND `+activeUser+`)`, arg).Scan(&ok)
	if err != nil {
		return false, mapErr(err, "user")
	}
	return ok, nil
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, `lower(email) = lower($1)`, email)
}

func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, `lower(username) = lower($1)`, username)
}

func (r *UserRepository) CountActive(ctx context.Context) (int, error) {
	var n int
	if err := conn(ctx, r.pool).QueryRow(ctx, `SELECT count(*) FROM users WHERE `+activeUser).Scan(&n); err != nil {
		return 0, mapErr(err, "user")
	}
	return n, nil
}

func (r *UserRepository) CountLoggedInSince(ctx context.Context, since time.Time) (int, error) {
	var n int
	if err := conn(ctx, r.pool).QueryRow(ctx,
		`SELECT count(*) FROM users WHERE last_login_at >= $1 AND `+activeUser, since).Scan(&n); err != nil {
		return 0, mapErr(err, "user")
	}
	return n, nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
