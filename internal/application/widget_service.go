package application

import (
	"context"
	"maps"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-dashboard-api/internal/domain/entity"
	repo "github.com/oksasatya/go-dashboard-api/internal/domain/repository"
	"github.com/oksasatya/go-dashboard-api/pkg/apperror"
	"github.com/oksasatya/go-dashboard-api/pkg/helpers"
)

type CreateWidgetInput struct {
	Type        entity.WidgetType `json:"widget_type" binding:"required,widgettype"`
	Title       string            `json:"title" binding:"required,max=100"`
	Description string            `json:"description" binding:"max=500"`
	X           int               `json:"x" binding:"min=0"`
	Y           int               `json:"y" binding:"min=0"`
	Width       int               `json:"width" binding:"required,min=1"`
	Height      int               `json:"height" binding:"required,min=1"`
	OrderIndex  int               `json:"order_index"`
	Visible     *bool             `json:"is_visible"`
	Minimized   bool              `json:"is_minimized"`
	Config      map[string]any    `json:"configuration"`
}

// UpdateWidgetInput is a patch: nil fields are left unchanged. A non-nil Config replaces the stored one.
type UpdateWidgetInput struct {
	Title       *string        `json:"title" binding:"omitempty,min=1,max=100"`
	Description *string        `json:"description" binding:"omitempty,max=500"`
	X           *int           `json:"x" binding:"omitempty,min=0"`
	Y           *int           `json:"y" binding:"omitempty,min=0"`
	Width       *int           `json:"width" binding:"omitempty,min=1"`
	Height      *int           `json:"height" binding:"omitempty,min=1"`
	OrderIndex  *int           `json:"order_index"`
	Visible     *bool          `json:"is_visible"`
	Minimized   *bool          `json:"is_minimized"`
	Config      map[string]any `json:"configuration"`
}

type WidgetPosition struct {
	WidgetID   string `json:"widget_id" binding:"required"`
	X          int    `json:"x"`
	Y          int    `json:"y"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	OrderIndex *int   `json:"order_index"`
}

type WidgetService struct {
	Layouts *LayoutService
	Widgets repo.WidgetRepository
	Tx      repo.Transactor
	Logger  *logrus.Logger
	Now     func() time.Time
}

func NewWidgetService(layouts *LayoutService, widgets repo.WidgetRepository, tx repo.Transactor, logger *logrus.Logger) *WidgetService {
	return &WidgetService{Layouts: layouts, Widgets: widgets, Tx: tx, Logger: helpers.OrNop(logger), Now: time.Now}
}

// owned loads a widget through its layout so foreign widgets read as missing.
func (s *WidgetService) owned(ctx context.Context, userID, layoutID, widgetID string) (*entity.Widget, error) {
	if _, err := s.Layouts.owned(ctx, userID, layoutID); err != nil {
		return nil, err
	}
	w, err := s.Widgets.GetByID(ctx, widgetID)
	if err != nil {
		return nil, err
	}
	if w.LayoutID != layoutID {
		return nil, apperror.NotFound("widget not found")
	}
	return w, nil
}

func (s *WidgetService) CreateWidget(ctx context.Context, userID, layoutID string, in CreateWidgetInput) (*WidgetDTO, error) {
	if !in.Type.Valid() {
		return nil, apperror.Validation("unknown widget type %q", in.Type)
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, apperror.Validation("widget title is required")
	}
	if err := entity.ValidateGeometry(in.X, in.Y, in.Width, in.Height); err != nil {
		return nil, err
	}
	visible := true
	if in.Visible != nil {
		visible = *in.Visible
	}
	w := &entity.Widget{
		LayoutID:    layoutID,
		Type:        in.Type,
		Title:       title,
		Description: in.Description,
		X:           in.X,
		Y:           in.Y,
		Width:       in.Width,
		Height:      in.Height,
		OrderIndex:  in.OrderIndex,
		Visible:     visible,
		Minimized:   in.Minimized,
		Config:      maps.Clone(in.Config),
	}
	err := s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.Layouts.owned(ctx, userID, layoutID); err != nil {
			return err
		}
		if w.OrderIndex == 0 {
			highest, err := s.Widgets.MaxOrderIndex(ctx, layoutID)
			if err != nil {
				return err
			}
			w.OrderIndex = highest + 1
		}
		return s.Widgets.Create(ctx, w)
	})
	if err != nil {
		return nil, err
	}
	s.Logger.WithFields(logrus.Fields{"layout_id": layoutID, "widget_id": w.ID, "type": w.Type}).Info("widget created")
	dto := toWidgetDTO(w)
	return &dto, nil
}

func (s *WidgetService) GetWidget(ctx context.Context, userID, layoutID, widgetID string) (*WidgetDTO, error) {
	w, err := s.owned(ctx, userID, layoutID, widgetID)
	if err != nil {
		return nil, err
	}
	dto := toWidgetDTO(w)
	return &dto, nil
}

func (s *WidgetService) ListWidgets(ctx context.Context, userID, layoutID string) ([]WidgetDTO, error) {
	if _, err := s.Layouts.owned(ctx, userID, layoutID); err != nil {
		return nil, err
	}
	widgets, err := s.Widgets.ListByLayout(ctx, layoutID)
	if err != nil {
		return nil, err
	}
	return toWidgetDTOs(widgets), nil
}

func (s *WidgetService) UpdateWidget(ctx context.Context, userID, layoutID, widgetID string, in UpdateWidgetInput) (*WidgetDTO, error) {
	w, err := s.owned(ctx, userID, layoutID, widgetID)
	if err != nil {
		return nil, err
	}
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, apperror.Validation("widget title is required")
		}
		w.Title = title
	}
	if in.Description != nil {
		w.Description = *in.Description
	}
	w.X = intOr(in.X, w.X)
	w.Y = intOr(in.Y, w.Y)
	w.Width = intOr(in.Width, w.Width)
	w.Height = intOr(in.Height, w.Height)
	w.OrderIndex = intOr(in.OrderIndex, w.OrderIndex)
	if err := entity.ValidateGeometry(w.X, w.Y, w.Width, w.Height); err != nil {
		return nil, err
	}
	if in.Visible != nil {
		w.Visible = *in.Visible
	}
	if in.Minimized != nil {
		w.Minimized = *in.Minimized
	}
	if in.Config != nil {
		w.Config = maps.Clone(in.Config)
	}
	if err := s.Widgets.Update(ctx, w); err != nil {
		return nil, err
	}
	dto := toWidgetDTO(w)
	return &dto, nil
}

func (s *WidgetService) DeleteWidget(ctx context.Context, userID, layoutID, widgetID string) error {
	w, err := s.owned(ctx, userID, layoutID, widgetID)
	if err != nil {
		return err
	}
	if err := s.Widgets.SoftDelete(ctx, w.ID); err != nil {
		return err
	}
	s.Logger.WithFields(logrus.Fields{"layout_id": layoutID, "widget_id": w.ID}).Info("widget deleted")
	return nil
}

// UpdatePositions moves several widgets at once. Every position is checked
// before anything is written, and all writes share one transaction.
func (s *WidgetService) UpdatePositions(ctx context.Context, userID, layoutID string, positions []WidgetPosition) ([]WidgetDTO, error) {
	if len(positions) == 0 {
		return nil, apperror.Validation("no positions given")
	}
	for _, p := range positions {
		if err := entity.ValidateGeometry(p.X, p.Y, p.Width, p.Height); err != nil {
			return nil, err
		}
	}
	var out []WidgetDTO
	err := s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.Layouts.owned(ctx, userID, layoutID); err != nil {
			return err
		}
		current, err := s.Widgets.ListByLayout(ctx, layoutID)
		if err != nil {
			return err
		}
		byID := make(map[string]*entity.Widget, len(current))
		for i := range current {
			byID[current[i].ID] = &current[i]
		}
		for _, p := range positions {
			if _, ok := byID[p.WidgetID]; !ok {
				return apperror.NotFound("widget %s not found in layout", p.WidgetID)
			}
		}
		for _, p := range positions {
			w := byID[p.WidgetID]
			w.X, w.Y, w.Width, w.Height = p.X, p.Y, p.Width, p.Height
			w.OrderIndex = intOr(p.OrderIndex, w.OrderIndex)
			if err := s.Widgets.Update(ctx, w); err != nil {
				return err
			}
			out = append(out, toWidgetDTO(w))
		}
		return nil
	})
	if err != nil {
		s.Logger.WithError(err).WithField("layout_id", layoutID).Warn("bulk position update rolled back")
		return nil, err
	}
	return out, nil
}

// WidgetsByType lists the user's widgets of one type across all active layouts.
func (s *WidgetService) WidgetsByType(ctx context.Context, userID string, t entity.WidgetType) ([]WidgetDTO, error) {
	if !t.Valid() {
		return nil, apperror.Validation("unknown widget type %q", t)
	}
	layouts, err := s.Layouts.listAll(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]WidgetDTO, 0)
	for _, l := range layouts {
		widgets, err := s.Widgets.ListByLayout(ctx, l.ID)
		if err != nil {
			return nil, err
		}
		for i := range widgets {
			if widgets[i].Type == t {
				out = append(out, toWidgetDTO(&widgets[i]))
			}
		}
	}
	return out, nil
}

func (s *WidgetService) WidgetData(ctx context.Context, userID, layoutID, widgetID string) (map[string]any, error) {
	w, err := s.owned(ctx, userID, layoutID, widgetID)
	if err != nil {
		return nil, err
	}
	return s.widgetData(w), nil
}

// widgetData is the placeholder payload every widget type currently serves.
func (s *WidgetService) widgetData(w *entity.Widget) map[string]any {
	return map[string]any{
		"title":        w.Title,
		"description":  w.Description,
		"last_updated": s.Now().UTC(),
	}
}

func (s *WidgetService) WidgetTypes() []entity.WidgetTypeInfo {
	return entity.WidgetTypes()
}
