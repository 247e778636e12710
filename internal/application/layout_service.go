package application

import (
	"context"
	"errors"
	"maps"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-dashboard-api/internal/domain/entity"
	repo "github.com/oksasatya/go-dashboard-api/internal/domain/repository"
	"github.com/oksasatya/go-dashboard-api/pkg/apperror"
	"github.com/oksasatya/go-dashboard-api/pkg/helpers"
)

type CreateLayoutInput struct {
	Name            string `json:"name" binding:"required,max=100"`
	Description     string `json:"description" binding:"max=500"`
	IsDefault       bool   `json:"is_default"`
	GridColumns     *int   `json:"grid_columns" binding:"omitempty,gridcols"`
	GridRows        *int   `json:"grid_rows" binding:"omitempty,gridrows"`
	BackgroundColor string `json:"background_color" binding:"max=20"`
	BackgroundImage string `json:"background_image" binding:"max=500"`
	Theme           string `json:"theme" binding:"max=50"`
}

// UpdateLayoutInput is a patch: nil fields are left unchanged.
type UpdateLayoutInput struct {
	Name            *string `json:"name" binding:"omitempty,min=1,max=100"`
	Description     *string `json:"description" binding:"omitempty,max=500"`
	IsDefault       *bool   `json:"is_default"`
	GridColumns     *int    `json:"grid_columns" binding:"omitempty,gridcols"`
	GridRows        *int    `json:"grid_rows" binding:"omitempty,gridrows"`
	BackgroundColor *string `json:"background_color" binding:"omitempty,max=20"`
	BackgroundImage *string `json:"background_image" binding:"omitempty,max=500"`
	Theme           *string `json:"theme" binding:"omitempty,max=50"`
}

type LayoutDataDTO struct {
	Layout         LayoutDTO   `json:"layout"`
	Widgets        []WidgetDTO `json:"widgets"`
	TotalWidgets   int         `json:"total_widgets"`
	VisibleCount   int         `json:"visible_widgets"`
	MinimizedCount int         `json:"minimized_widgets"`
}

type LayoutService struct {
	Layouts repo.LayoutRepository
	Widgets repo.WidgetRepository
	Tx      repo.Transactor
	Logger  *logrus.Logger
}

func NewLayoutService(layouts repo.LayoutRepository, widgets repo.WidgetRepository, tx repo.Transactor, logger *logrus.Logger) *LayoutService {
	return &LayoutService{Layouts: layouts, Widgets: widgets, Tx: tx, Logger: helpers.OrNop(logger)}
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func intOr(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}

// owned loads a layout and hides it from anyone but its owner.
func (s *LayoutService) owned(ctx context.Context, userID, layoutID string) (*entity.Layout, error) {
	l, err := s.Layouts.GetByID(ctx, layoutID)
	if err != nil {
		return nil, err
	}
	if l.UserID != userID {
		return nil, apperror.NotFound("layout not found")
	}
	return l, nil
}

func (s *LayoutService) newLayout(userID string, in CreateLayoutInput) (*entity.Layout, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperror.Validation("layout name is required")
	}
	cols := intOr(in.GridColumns, entity.DefaultGridColumns)
	rows := intOr(in.GridRows, entity.DefaultGridRows)
	if err := entity.ValidateGrid(cols, rows); err != nil {
		return nil, err
	}
	return &entity.Layout{
		UserID:          userID,
		Name:            name,
		Description:     in.Description,
		IsDefault:       in.IsDefault,
		GridColumns:     cols,
		GridRows:        rows,
		BackgroundColor: orDefault(in.BackgroundColor, entity.DefaultBackgroundColor),
		BackgroundImage: in.BackgroundImage,
		Theme:           orDefault(in.Theme, entity.DefaultTheme),
	}, nil
}

// insert stores l, demoting the previous default first when l is the new default.
func (s *LayoutService) insert(ctx context.Context, l *entity.Layout) error {
	if l.IsDefault {
		if err := s.Layouts.ClearDefault(ctx, l.UserID); err != nil {
			return err
		}
	}
	return s.Layouts.Create(ctx, l)
}

func (s *LayoutService) CreateLayout(ctx context.Context, userID string, in CreateLayoutInput) (*LayoutDTO, error) {
	return s.create(ctx, userID, in, false)
}

// CreateDashboard creates a layout seeded with the starter widgets.
func (s *LayoutService) CreateDashboard(ctx context.Context, userID string, in CreateLayoutInput) (*LayoutDTO, error) {
	return s.create(ctx, userID, in, true)
}

func (s *LayoutService) create(ctx context.Context, userID string, in CreateLayoutInput, starter bool) (*LayoutDTO, error) {
	l, err := s.newLayout(userID, in)
	if err != nil {
		return nil, err
	}
	err = s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.insert(ctx, l); err != nil {
			return err
		}
		if starter {
			return s.addStarterWidgets(ctx, l.ID)
		}
		return nil
	})
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", userID).Warn("create layout failed")
		return nil, err
	}
	s.Logger.WithFields(logrus.Fields{"user_id": userID, "layout_id": l.ID, "starter": starter}).Info("layout created")
	dto := toLayoutDTO(l)
	return &dto, nil
}

func (s *LayoutService) addStarterWidgets(ctx context.Context, layoutID string) error {
	for _, sw := range entity.StarterWidgets() {
		w := &entity.Widget{
			LayoutID:   layoutID,
			Type:       sw.Type,
			Title:      sw.Title,
			X:          sw.X,
			Y:          sw.Y,
			Width:      sw.Width,
			Height:     sw.Height,
			OrderIndex: sw.OrderIndex,
			Visible:    true,
		}
		if err := s.Widgets.Create(ctx, w); err != nil {
			return err
		}
	}
	return nil
}

func (s *LayoutService) GetLayout(ctx context.Context, userID, layoutID string) (*LayoutDTO, error) {
	l, err := s.owned(ctx, userID, layoutID)
	if err != nil {
		return nil, err
	}
	dto := toLayoutDTO(l)
	return &dto, nil
}

// GetDefaultLayout never provisions; a user without a default gets NotFound.
func (s *LayoutService) GetDefaultLayout(ctx context.Context, userID string) (*LayoutDTO, error) {
	l, err := s.Layouts.GetDefault(ctx, userID)
	if err != nil {
		return nil, err
	}
	dto := toLayoutDTO(l)
	return &dto, nil
}

// EnsureDefaultLayout returns the user's default layout, creating one when missing.
// An existing layout is promoted before a new starter dashboard is created.
func (s *LayoutService) EnsureDefaultLayout(ctx context.Context, userID string) (*entity.Layout, error) {
	l, err := s.Layouts.GetDefault(ctx, userID)
	if err == nil {
		return l, nil
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		return nil, err
	}

	var out *entity.Layout
	err = s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		all, err := s.Layouts.ListAllByUser(ctx, userID)
		if err != nil {
			return err
		}
		if len(all) > 0 {
			out = &all[0]
			out.IsDefault = true
			return s.Layouts.Update(ctx, out)
		}
		out = &entity.Layout{
			UserID:          userID,
			Name:            entity.DefaultLayoutName,
			IsDefault:       true,
			GridColumns:     entity.DefaultGridColumns,
			GridRows:        entity.DefaultGridRows,
			BackgroundColor: entity.DefaultBackgroundColor,
			Theme:           entity.DefaultTheme,
		}
		if err := s.Layouts.Create(ctx, out); err != nil {
			return err
		}
		return s.addStarterWidgets(ctx, out.ID)
	})
	if err != nil {
		return nil, err
	}
	s.Logger.WithFields(logrus.Fields{"user_id": userID, "layout_id": out.ID}).Info("default layout provisioned")
	return out, nil
}

func (s *LayoutService) ListLayouts(ctx context.Context, userID string, page entity.PageRequest) (entity.Page[LayoutDTO], error) {
	page = page.Normalize()
	items, total, err := s.Layouts.ListByUser(ctx, userID, page)
	if err != nil {
		return entity.Page[LayoutDTO]{}, err
	}
	return mapPage(items, total, page, toLayoutDTOs), nil
}

func (s *LayoutService) SearchLayouts(ctx context.Context, userID, term string, page entity.PageRequest) (entity.Page[LayoutDTO], error) {
	page = page.Normalize()
	items, total, err := s.Layouts.Search(ctx, userID, strings.TrimSpace(term), page)
	if err != nil {
		return entity.Page[LayoutDTO]{}, err
	}
	return mapPage(items, total, page, toLayoutDTOs), nil
}

func (s *LayoutService) UpdateLayout(ctx context.Context, userID, layoutID string, in UpdateLayoutInput) (*LayoutDTO, error) {
	var l *entity.Layout
	err := s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		if l, err = s.owned(ctx, userID, layoutID); err != nil {
			return err
		}
		if in.Name != nil {
			name := strings.TrimSpace(*in.Name)
			if name == "" {
				return apperror.Validation("layout name is required")
			}
			l.Name = name
		}
		if in.Description != nil {
			l.Description = *in.Description
		}
		l.GridColumns = intOr(in.GridColumns, l.GridColumns)
		l.GridRows = intOr(in.GridRows, l.GridRows)
		if err := entity.ValidateGrid(l.GridColumns, l.GridRows); err != nil {
			return err
		}
		if in.BackgroundColor != nil {
			l.BackgroundColor = *in.BackgroundColor
		}
		if in.BackgroundImage != nil {
			l.BackgroundImage = *in.BackgroundImage
		}
		if in.Theme != nil {
			l.Theme = *in.Theme
		}
		if in.IsDefault != nil && *in.IsDefault != l.IsDefault {
			if *in.IsDefault {
				if err := s.Layouts.ClearDefault(ctx, userID); err != nil {
					return err
				}
			}
			l.IsDefault = *in.IsDefault
		}
		return s.Layouts.Update(ctx, l)
	})
	if err != nil {
		return nil, err
	}
	dto := toLayoutDTO(l)
	return &dto, nil
}

// DeleteLayout soft-deletes a non-default layout and its widgets.
func (s *LayoutService) DeleteLayout(ctx context.Context, userID, layoutID string) error {
	return s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		l, err := s.owned(ctx, userID, layoutID)
		if err != nil {
			return err
		}
		if l.IsDefault {
			return apperror.Validation("the default layout cannot be deleted")
		}
		if err := s.Widgets.SoftDeleteByLayout(ctx, l.ID); err != nil {
			return err
		}
		if err := s.Layouts.SoftDelete(ctx, l.ID); err != nil {
			return err
		}
		s.Logger.WithFields(logrus.Fields{"user_id": userID, "layout_id": l.ID}).Info("layout deleted")
		return nil
	})
}

func (s *LayoutService) SetDefault(ctx context.Context, userID, layoutID string) (*LayoutDTO, error) {
	var l *entity.Layout
	err := s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		if l, err = s.owned(ctx, userID, layoutID); err != nil {
			return err
		}
		if err := s.Layouts.ClearDefault(ctx, userID); err != nil {
			return err
		}
		l.IsDefault = true
		return s.Layouts.Update(ctx, l)
	})
	if err != nil {
		return nil, err
	}
	dto := toLayoutDTO(l)
	return &dto, nil
}

// DuplicateLayout deep-copies a layout with its widgets. The copy is never the default.
func (s *LayoutService) DuplicateLayout(ctx context.Context, userID, layoutID, newName string) (*LayoutDTO, error) {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return nil, apperror.Validation("new layout name is required")
	}
	var cp *entity.Layout
	err := s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		src, err := s.owned(ctx, userID, layoutID)
		if err != nil {
			return err
		}
		widgets, err := s.Widgets.ListByLayout(ctx, src.ID)
		if err != nil {
			return err
		}
		cp = &entity.Layout{
			UserID:          userID,
			Name:            newName,
			Description:     copyDescription(src.Description),
			GridColumns:     src.GridColumns,
			GridRows:        src.GridRows,
			BackgroundColor: src.BackgroundColor,
			BackgroundImage: src.BackgroundImage,
			Theme:           src.Theme,
		}
		if err := s.Layouts.Create(ctx, cp); err != nil {
			return err
		}
		for _, w := range widgets {
			w.ID = ""
			w.LayoutID = cp.ID
			w.Config = maps.Clone(w.Config)
			if err := s.Widgets.Create(ctx, &w); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	dto := toLayoutDTO(cp)
	return &dto, nil
}

// LayoutData returns the layout with its widgets and counters.
func (s *LayoutService) LayoutData(ctx context.Context, userID, layoutID string) (*LayoutDataDTO, error) {
	l, err := s.owned(ctx, userID, layoutID)
	if err != nil {
		return nil, err
	}
	widgets, err := s.Widgets.ListByLayout(ctx, l.ID)
	if err != nil {
		return nil, err
	}
	out := &LayoutDataDTO{Layout: toLayoutDTO(l), Widgets: toWidgetDTOs(widgets), TotalWidgets: len(widgets)}
	for _, w := range widgets {
		if w.Visible {
			out.VisibleCount++
		}
		if w.Minimized {
			out.MinimizedCount++
		}
	}
	return out, nil
}

func (s *LayoutService) listAll(ctx context.Context, userID string) ([]entity.Layout, error) {
	return s.Layouts.ListAllByUser(ctx, userID)
}

// copyDescription marks a duplicated description. An empty one stays empty.
func copyDescription(desc string) string {
	if strings.TrimSpace(desc) == "" {
		return ""
	}
	return desc + " (Copy)"
}
