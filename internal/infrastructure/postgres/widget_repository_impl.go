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

const widgetColumns = `id, layout_id, widget_type, title, description, pos_x, pos_y, width, height,
	order_index, is_visible, is_minimized, configuration, status, created_at, updated_at`

const activeWidget = `status = 'active'`

type WidgetRepository struct {
	pool *pgxpool.Pool
}

func NewWidgetRepository(pool *pgxpool.Pool) *WidgetRepository {
	return &WidgetRepository{pool: pool}
}

func scanWidget(row scanner) (*entity.Widget, error) {
	w := &entity.Widget{}
	var typ, status string
	if err := row.Scan(&w.ID, &w.LayoutID, &typ, &w.Title, &w.Description, &w.X, &w.Y, &w.Width, &w.Height,
		&w.OrderIndex, &w.Visible, &w.Minimized, &w.Config, &status, &w.CreatedAt, &w.UpdatedAt); err != nil {
		return nil, err
	}
	w.Type = entity.WidgetType(typ)
	w.Status = entity.RecordStatus(status)
	return w, nil
}

func (r *WidgetRepository) Create(ctx context.Context, w *entity.Widget) error {
	row := conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO dashboard_widgets (layout_id, widget_type, title, description, pos_x, pos_y, width, height,
			order_index, is_visible, is_minimized, configuration)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, status, created_at, updated_at
	`, w.LayoutID, string(w.Type), w.Title, w.Description, w.X, w.Y, w.Width, w.Height,
		w.OrderIndex, w.Visible, w.Minimized, w.Config)

	var status string
	if err := row.Scan(&w.ID, &status, &w.CreatedAt, &w.UpdatedAt); err != nil {
		return mapErr(err, "widget")
	}
	w.Status = entity.RecordStatus(status)
	return nil
}

func (r *WidgetRepository) GetByID(ctx context.Context, id string) (*entity.Widget, error) {
	row := conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+widgetColumns+` FROM dashboard_widgets WHERE id = $1 AND `+activeWidget, id)
	w, err := scanWidget(row)
	if err != nil {
		return nil, mapErr(err, "widget")
	}
	return w, nil
}

func (r *WidgetRepository) ListByLayout(ctx context.Context, layoutID string) ([]entity.Widget, error) {
	rows, err := conn(ctx, r.pool).Query(ctx,
		`SELECT `+widgetColumns+` FROM dashboard_widgets WHERE layout_id = $1 AND `+activeWidget+
			` ORDER BY order_index ASC, created_at ASC`, layoutID)
	if err != nil {
		return nil, mapErr(err, "widget")
	}
	widgets, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.Widget, error) {
		w, err := scanWidget(row)
		if err != nil {
			return entity.Widget{}, err
		}
		return *w, nil
	})
	if err != nil {
		return nil, mapErr(err, "widget")
	}
	return widgets, nil
}

func (r *WidgetRepository) Update(ctx context.Context, w *entity.Widget) error {
	w.UpdatedAt = time.Now()
	res, err := conn(ctx, r.pool).Exec(ctx, `
		UPDATE dashboard_widgets
		SET widget_type = $1, title = $2, description = $3, pos_x = $4, pos_y = $5, width = $6, height = $7,
			order_index = $8, is_visible = $9, is_minimized = $10, configuration = $11, updated_at = $12
		WHERE id = $13 AND `+activeWidget,
		string(w.Type), w.Title, w.Description, w.X, w.Y, w.Width, w.Height,
		w.OrderIndex, w.Visible, w.Minimized, w.Config, w.UpdatedAt, w.ID)
	if err != nil {
		return mapErr(err, "widget")
	}
	if res.RowsAffected() == 0 {
		return apperror.NotFound("widget not found")
	}
	return nil
}

func (r *WidgetRepository) SoftDelete(ctx context.Context, id string) error {
	res, err := conn(ctx, r.pool).Exec(ctx,
		`UPDATE dashboard_widgets SET status = 'deleted', updated_at = now() WHERE id = $1 AND `+activeWidget, id)
	if err != nil {
		return mapErr(err, "widget")
	}
	if res.RowsAffected() == 0 {
		return apperror.NotFound("widget not found")
	}
	return nil
}

func (r *WidgetRepository) SoftDeleteByLayout(ctx context.Context, layoutID string) error {
	_, err := conn(ctx, r.pool).Exec(ctx,
		`UPDATE dashboard_widgets SET status = 'deleted', updated_at = now() WHERE layout_id = $1 AND `+activeWidget, layoutID)
	return mapErr(err, "widget")
}

func (r *WidgetRepository) MaxOrderIndex(ctx context.Context, layoutID string) (int, error) {
	var n int
	err := conn(ctx, r.pool).QueryRow(ctx,
		`SELECT COALESCE(max(order_index), 0) FROM dashboard_widgets WHERE layout_id = $1 AND `+activeWidget, layoutID).Scan(&n)
	if err != nil {
		return 0, mapErr(err, "widget")
	}
	return n, nil
}

var _ repository.WidgetRepository = (*WidgetRepository)(nil)
