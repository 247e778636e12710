package application

import (
	"context"
	"maps"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-dashboard-api/internal/domain/entity"
	repo "github.com/oksasatya/go-dashboard-api/internal/domain/repository"
	"github.com/oksasatya/go-dashboard-api/pkg/apperror"
	"github.com/oksasatya/go-dashboard-api/pkg/helpers"
)

const (
	dashboardVersion = "1.0"
	noWidgetType     = "N/A"
	importedName     = "Imported Layout"
	importedSuffix   = " (Imported)"
	restoredSuffix   = " (Restaurado)"
)

type DashboardMetadata struct {
	LastUpdated  time.Time `json:"last_updated"`
	Version      string    `json:"version"`
	Theme        string    `json:"theme"`
	TotalWidgets int       `json:"total_widgets"`
	TotalLayouts int       `json:"total_layouts"`
	IsOnline     bool      `json:"is_online"`
}

type CompleteDashboardDTO struct {
	Layout           LayoutDTO                 `json:"layout"`
	Widgets          []WidgetDTO               `json:"widgets"`
	Preferences      PreferencesDTO            `json:"preferences"`
	AvailableLayouts []LayoutDTO               `json:"available_layouts"`
	WidgetData       map[string]map[string]any `json:"widget_data,omitempty"`
	User             *UserDTO                  `json:"user,omitempty"`
	Metadata         DashboardMetadata         `json:"metadata"`
}

type DashboardStatsDTO struct {
	TotalLayouts            int            `json:"total_layouts"`
	TotalWidgets            int            `json:"total_widgets"`
	MostUsedWidgetType      string         `json:"most_used_widget_type"`
	AverageWidgetsPerLayout float64        `json:"average_widgets_per_layout"`
	WidgetsByType           map[string]int `json:"widgets_by_type"`
	LastAccessDate          *time.Time     `json:"last_access_date"`
	CreationDate            *time.Time     `json:"creation_date"`
}

// ExportDocument is the portable form of one layout.
type ExportDocument struct {
	Layout     LayoutDTO   `json:"layout"`
	Widgets    []WidgetDTO `json:"widgets"`
	ExportDate time.Time   `json:"export_date"`
	Version    string      `json:"version"`
}

// ImportDocument accepts an ExportDocument. Missing layout fields fall back to defaults.
type ImportDocument struct {
	Layout  ImportLayout   `json:"layout"`
	Widgets []ImportWidget `json:"widgets"`
	Version string         `json:"version"`
}

type ImportLayout struct {
	Name            *string `json:"name"`
	Description     *string `json:"description"`
	GridColumns     *int    `json:"grid_columns"`
	GridRows        *int    `json:"grid_rows"`
	BackgroundColor *string `json:"background_color"`
	BackgroundImage *string `json:"background_image"`
	Theme           *string `json:"theme"`
}

type ImportWidget struct {
	Type        entity.WidgetType `json:"widget_type"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	X           int               `json:"x"`
	Y           int               `json:"y"`
	Width       int               `json:"width"`
	Height      int               `json:"height"`
	OrderIndex  int               `json:"order_index"`
	Visible     *bool             `json:"is_visible"`
	Minimized   bool              `json:"is_minimized"`
	Config      map[string]any    `json:"configuration"`
}

type BackupLayout struct {
	LayoutDTO
	Widgets []WidgetDTO `json:"widgets"`
}

type BackupDocument struct {
	Version     string          `json:"version"`
	BackupDate  time.Time       `json:"backup_date"`
	UserID      string          `json:"user_id"`
	Layouts     []BackupLayout  `json:"layouts"`
	Preferences *PreferencesDTO `json:"preferences,omitempty"`
}

type RestoreResult struct {
	RestoredLayouts     []LayoutDTO `json:"restored_layouts"`
	PreferencesRestored bool        `json:"preferences_restored"`
}

type DashboardService struct {
	Layouts     *LayoutService
	Widgets     *WidgetService
	Preferences *PreferencesService
	Users       repo.UserRepository
	Tx          repo.Transactor
	Logger      *logrus.Logger
	Now         func() time.Time
}

func NewDashboardService(layouts *LayoutService, widgets *WidgetService, prefs *PreferencesService, users repo.UserRepository, tx repo.Transactor, logger *logrus.Logger) *DashboardService {
	return &DashboardService{
		Layouts:     layouts,
		Widgets:     widgets,
		Preferences: prefs,
		Users:       users,
		Tx:          tx,
		Logger:      helpers.OrNop(logger),
		Now:         time.Now,
	}
}

// CompleteDashboard assembles everything the client needs to render one layout.
// Without a layoutID the user's default is used, provisioned on first access.
func (s *DashboardService) CompleteDashboard(ctx context.Context, userID, layoutID string, includeWidgetData bool) (*CompleteDashboardDTO, error) {
	var (
		layout *entity.Layout
		err    error
	)
	if layoutID != "" {
		layout, err = s.Layouts.owned(ctx, userID, layoutID)
	} else {
		layout, err = s.Layouts.EnsureDefaultLayout(ctx, userID)
	}
	if err != nil {
		return nil, err
	}

	prefs, err := s.Preferences.getOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	widgets, err := s.Layouts.Widgets.ListByLayout(ctx, layout.ID)
	if err != nil {
		return nil, err
	}
	all, err := s.Layouts.listAll(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := &CompleteDashboardDTO{
		Layout:           toLayoutDTO(layout),
		Widgets:          toWidgetDTOs(widgets),
		Preferences:      toPreferencesDTO(prefs),
		AvailableLayouts: toLayoutDTOs(all),
		Metadata: DashboardMetadata{
			LastUpdated:  s.Now().UTC(),
			Version:      dashboardVersion,
			Theme:        prefs.DashboardTheme,
			TotalWidgets: len(widgets),
			TotalLayouts: len(all),
			IsOnline:     true,
		},
	}
	if includeWidgetData {
		out.WidgetData = make(map[string]map[string]any, len(widgets))
		for i := range widgets {
			out.WidgetData[widgets[i].ID] = s.Widgets.widgetData(&widgets[i])
		}
	}
	if u, uErr := s.Users.GetByID(ctx, userID); uErr == nil {
		dto := toUserDTO(u)
		out.User = &dto
	} else {
		s.Logger.WithError(uErr).WithField("user_id", userID).Warn("dashboard without user profile")
	}
	return out, nil
}

// Initialize makes sure preferences and a default layout exist, then renders the default.
func (s *DashboardService) Initialize(ctx context.Context, userID string, includeWidgetData bool) (*CompleteDashboardDTO, error) {
	if _, err := s.Preferences.getOrCreate(ctx, userID); err != nil {
		return nil, err
	}
	l, err := s.Layouts.EnsureDefaultLayout(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.Logger.WithField("user_id", userID).Info("dashboard initialized")
	return s.CompleteDashboard(ctx, userID, l.ID, includeWidgetData)
}

func (s *DashboardService) Stats(ctx context.Context, userID string) (*DashboardStatsDTO, error) {
	layouts, err := s.Layouts.listAll(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := &DashboardStatsDTO{
		TotalLayouts:       len(layouts),
		MostUsedWidgetType: noWidgetType,
		WidgetsByType:      map[string]int{},
	}
	for i := range layouts {
		widgets, err := s.Layouts.Widgets.ListByLayout(ctx, layouts[i].ID)
		if err != nil {
			return nil, err
		}
		out.TotalWidgets += len(widgets)
		for _, w := range widgets {
			out.WidgetsByType[string(w.Type)]++
		}
		if out.CreationDate == nil || layouts[i].CreatedAt.Before(*out.CreationDate) {
			created := layouts[i].CreatedAt
			out.CreationDate = &created
		}
	}
	if len(layouts) > 0 {
		out.AverageWidgetsPerLayout = float64(out.TotalWidgets) / float64(len(layouts))
	}
	out.MostUsedWidgetType = mostUsed(out.WidgetsByType)
	if u, uErr := s.Users.GetByID(ctx, userID); uErr == nil {
		out.LastAccessDate = u.LastLoginAt
	}
	return out, nil
}

// mostUsed picks the highest count; ties go to the alphabetically first type.
func mostUsed(counts map[string]int) string {
	if len(counts) == 0 {
		return noWidgetType
	}
	types := make([]string, 0, len(counts))
	for t := range counts {
		types = append(types, t)
	}
	sort.Strings(types)
	best := types[0]
	for _, t := range types[1:] {
		if counts[t] > counts[best] {
			best = t
		}
	}
	return best
}

func (s *DashboardService) ExportConfig(ctx context.Context, userID, layoutID string) (*ExportDocument, error) {
	l, err := s.Layouts.owned(ctx, userID, layoutID)
	if err != nil {
		return nil, err
	}
	widgets, err := s.Layouts.Widgets.ListByLayout(ctx, l.ID)
	if err != nil {
		return nil, err
	}
	return &ExportDocument{
		Layout:     toLayoutDTO(l),
		Widgets:    toWidgetDTOs(widgets),
		ExportDate: s.Now().UTC(),
		Version:    dashboardVersion,
	}, nil
}

// ImportConfig creates a new non-default layout from doc. Widgets of unknown type
// or with impossible geometry are skipped.
func (s *DashboardService) ImportConfig(ctx context.Context, userID string, doc ImportDocument) (*LayoutDTO, error) {
	name := ""
	if doc.Layout.Name != nil {
		name = strings.TrimSpace(*doc.Layout.Name)
	}
	if name == "" {
		name = importedName
	}
	l := &entity.Layout{
		UserID:          userID,
		Name:            name + importedSuffix,
		Description:     strOr(doc.Layout.Description, "Imported layout"),
		GridColumns:     intOr(doc.Layout.GridColumns, entity.DefaultGridColumns),
		GridRows:        intOr(doc.Layout.GridRows, entity.DefaultGridRows),
		BackgroundColor: orDefault(strOr(doc.Layout.BackgroundColor, ""), entity.DefaultBackgroundColor),
		BackgroundImage: strOr(doc.Layout.BackgroundImage, ""),
		Theme:           orDefault(strOr(doc.Layout.Theme, ""), entity.DefaultTheme),
	}
	if err := entity.ValidateGrid(l.GridColumns, l.GridRows); err != nil {
		return nil, err
	}

	skipped := 0
	err := s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.Layouts.Layouts.Create(ctx, l); err != nil {
			return err
		}
		for i, iw := range doc.Widgets {
			if !iw.Type.Valid() || entity.ValidateGeometry(iw.X, iw.Y, iw.Width, iw.Height) != nil {
				skipped++
				continue
			}
			visible := true
			if iw.Visible != nil {
				visible = *iw.Visible
			}
			order := iw.OrderIndex
			if order == 0 {
				order = i + 1
			}
			w := &entity.Widget{
				LayoutID:    l.ID,
				Type:        iw.Type,
				Title:       orDefault(iw.Title, string(iw.Type)),
				Description: iw.Description,
				X:           iw.X,
				Y:           iw.Y,
				Width:       iw.Width,
				Height:      iw.Height,
				OrderIndex:  order,
				Visible:     visible,
				Minimized:   iw.Minimized,
				Config:      maps.Clone(iw.Config),
			}
			if err := s.Layouts.Widgets.Create(ctx, w); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.Logger.WithFields(logrus.Fields{"user_id": userID, "layout_id": l.ID, "skipped_widgets": skipped}).Info("layout imported")
	dto := toLayoutDTO(l)
	return &dto, nil
}

func strOr(v *string, def string) string {
	if v == nil {
		return def
	}
	return *v
}

// Backup snapshots all of the user's layouts with their widgets, plus preferences.
func (s *DashboardService) Backup(ctx context.Context, userID string) (*BackupDocument, error) {
	layouts, err := s.Layouts.listAll(ctx, userID)
	if err != nil {
		return nil, err
	}
	doc := &BackupDocument{
		Version:    dashboardVersion,
		BackupDate: s.Now().UTC(),
		UserID:     userID,
		Layouts:    make([]BackupLayout, 0, len(layouts)),
	}
	for i := range layouts {
		widgets, err := s.Layouts.Widgets.ListByLayout(ctx, layouts[i].ID)
		if err != nil {
			return nil, err
		}
		doc.Layouts = append(doc.Layouts, BackupLayout{LayoutDTO: toLayoutDTO(&layouts[i]), Widgets: toWidgetDTOs(widgets)})
	}
	if p, pErr := s.Preferences.Get(ctx, userID); pErr == nil {
		doc.Preferences = p
	}
	return doc, nil
}

// Restore applies a backup made for the same user. Preferences are reset to the
// defaults overlaid with the backed-up settings, and every layout is recreated as a new non-default layout. Widgets are not restored.
func (s *DashboardService) Restore(ctx context.Context, userID string, doc BackupDocument) (*RestoreResult, error) {
	if doc.UserID != userID {
		return nil, apperror.Validation("backup belongs to another user")
	}
	out := &RestoreResult{RestoredLayouts: []LayoutDTO{}}
	err := s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		if doc.Preferences != nil {
			if err := s.Preferences.replace(ctx, userID, doc.Preferences); err != nil {
				return err
			}
			out.PreferencesRestored = true
		}
		for _, bl := range doc.Layouts {
			cols, rows := bl.GridColumns, bl.GridRows
			if entity.ValidateGrid(cols, rows) != nil {
				cols, rows = entity.DefaultGridColumns, entity.DefaultGridRows
			}
			l := &entity.Layout{
				UserID:          userID,
				Name:            orDefault(bl.Name, entity.DefaultLayoutName) + restoredSuffix,
				Description:     bl.Description,
				GridColumns:     cols,
				GridRows:        rows,
				BackgroundColor: orDefault(bl.BackgroundColor, entity.DefaultBackgroundColor),
				BackgroundImage: bl.BackgroundImage,
				Theme:           orDefault(bl.Theme, entity.DefaultTheme),
			}
			if err := s.Layouts.Layouts.Create(ctx, l); err != nil {
				return err
			}
			out.RestoredLayouts = append(out.RestoredLayouts, toLayoutDTO(l))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.Logger.WithFields(logrus.Fields{"user_id": userID, "layouts": len(out.RestoredLayouts)}).Info("dashboard restored")
	return out, nil
}
