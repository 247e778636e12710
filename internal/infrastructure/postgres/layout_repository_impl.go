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

const layoutColumns = `id, user_id, name, description, is_default, grid_columns, grid_rows,
	background_color, background_image, theme, status, created_at, updated_at`

const activeLayout = `status = 'active'`

type LayoutRepository struct {
	pool *pgxpool.Pool
}

func NewLayoutRepository(pool *pgxpool.Pool) *LayoutRepository {
	return &LayoutRepository{pool: pool}
}

func scanLayout(row scanner) (*entity.Layout, error) {
	l := &entity.Layout{}
	var status string
	if err := row.Scan(&l.ID, &l.UserID, &l.Name, &l.Description, &l.IsDefault, &l.GridColumns, &l.GridRows,
		&l.BackgroundColor, &l.BackgroundImage, &l.Theme, &status, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return nil, err
	}
	l.Status = entity.RecordStatus(status)
	return l, nil
}

func collectLayouts(rows pgx.Rows) ([]entity.Layout, error) {
	defer rows.Close()
	var out []entity.Layout
	for rows.Next() {
		l, err := scanLayout(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *l)
	}
	return out, rows.Err()
}

func (r *LayoutRepository) Create(ctx context.Context, l *entity.Layout) error {
	row := conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO dashboard_layouts (user_id, name, description, is_default, grid_columns, grid_rows,
			background_color, background_image, theme)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, status, created_at, updated_at
	`, l.UserID, l.Name, l.Description, l.IsDefault, l.GridColumns, l.GridRows,
		l.BackgroundColor, l.BackgroundImage, l.Theme)

	var status string
	if err := row.Scan(&l.ID, &status, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return mapErr(err, "layout")
	}
	l.Status = entity.RecordStatus(status)
	return nil
}

func (r *LayoutRepository) GetByID(ctx context.Context, id string) (*entity.Layout, error) {
	row := conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+layoutColumns+` FROM dashboard_layouts WHERE id = $1 AND `+activeLayout, id)
	l, err := scanLayout(row)
	if err != nil {
		return nil, mapErr(err, "layout")
	}
	return l, nil
}

func (r *LayoutRepository) GetDefault(ctx context.Context, userID string) (*entity.Layout, error) {
	row := conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+layoutColumns+` FROM dashboard_layouts WHERE user_id = $1 AND is_default AND `+activeLayout+
			` ORDER BY updated_at DESC LIMIT 1`, userID)
	l, err := scanLayout(row)
	if err != nil {
		return nil, mapErr(err, "default layout")
	}
	return l, nil
}

func (r *LayoutRepository) ListByUser(ctx context.Context, userID string, page entity.PageRequest) ([]entity.Layout, int, error) {
	return r.page(ctx, `user_id = $1`, page, userID)
}

func (r *LayoutRepository) ListAllByUser(ctx context.Context, userID string) ([]entity.Layout, error) {
	rows, err := conn(ctx, r.pool).Query(ctx,
		`SELECT `+layoutColumns+` FROM dashboard_layouts WHERE user_id = $1 AND `+activeLayout+
			` ORDER BY is_default DESC, created_at ASC`, userID)
	if err != nil {
		return nil, mapErr(err, "layout")
	}
	layouts, err := collectLayouts(rows)
	if err != nil {
		return nil, mapErr(err, "layout")
	}
	return layouts, nil
}

func (r *LayoutRepository) Search(ctx context.Context, userID, term string, page entity.PageRequest) ([]entity.Layout, int, error) {
	return r.page(ctx, `user_id = $1 AND name ILIKE $2`, page, userID, likePattern(term))
}

func (r *LayoutRepository) page(ctx context.Context, where string, page entity.PageRequest, args ...any) ([]entity.Layout, int, error) {
	q := conn(ctx, r.pool)
	var total int
	if err := q.QueryRow(ctx, `SELECT count(*) FROM dashboard_layouts WHERE `+where+` AND `+activeLayout, args...).Scan(&total); err != nil {
		return nil, 0, mapErr(err, "layout")
	}
	limit, offset := len(args)+1, len(args)+2
	args = append(args, page.Size, page.Offset())
	rows, err := q.Query(ctx, `SELECT `+layoutColumns+` FROM dashboard_layouts WHERE `+where+` AND `+activeLayout+
		` ORDER BY is_default DESC, created_at ASC LIMIT `+placeholder(limit)+` OFFSET `+placeholder(offset), args...)
	if err != nil {
		return nil, 0, mapErr(err, "layout")
	}
	layouts, err := collectLayouts(rows)
	if err != nil {
		return nil, 0, mapErr(err, "layout")
	}
	return layouts, total, nil
}

func (r *LayoutRepository) Update(ctx context.Context, l *entity.Layout) error {
	l.UpdatedAt = time.Now()
	res, err := conn(ctx, r.pool).Exec(ctx, `
		UPDATE dashboard_layouts
		SET name = $1, description = $2, is_default = $3, grid_columns = $4, grid_rows = $5,
			background_color = $6, background_image = $7, theme = $8, updated_at = $9
		WHERE id = $10 AND `+activeLayout,
		l.Name, l.Description, l.IsDefault, l.GridColumns, l.GridRows,
		l.BackgroundColor, l.BackgroundImage, l.Theme, l.UpdatedAt, l.ID)
	if err != nil {
		return mapErr(err, "layout")
	}
	if res.RowsAffected() == 0 {
		return apperror.NotFound("layout not found")
	}
	return nil
}

func (r *LayoutRepository) SoftDelete(ctx context.Context, id string) error {
	res, err := conn(ctx, r.pool).Exec(ctx,
		`UPDATE dashboard_layouts SET status = 'deleted', is_default = FALSE, updated_at = now() WHERE id = $1 AND `+activeLayout, id)
	if err != nil {
		return mapErr(err, "layout")
	}
	if res.RowsAffected() == 0 {
		return apperror.NotFound("layout not found")
	}
	return nil
}

func (r *LayoutRepository) ClearDefault(ctx context.Context, userID string) error {
	_, err := conn(ctx, r.pool).Exec(ctx,
		`UPDATE dashboard_layouts SET is_default = FALSE, updated_at = now() WHERE user_id = $1 AND is_default AND `+activeLayout, userID)
	return mapErr(err, "layout")
}

var _ repository.LayoutRepository = (*LayoutRepository)(nil)
