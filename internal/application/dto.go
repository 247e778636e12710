package application

import (
	"encoding/json"
	"maps"
	"time"

	"github.com/oksasatya/go-dashboard-api/internal/domain/entity"
)

type UserDTO struct {
	ID                string      `json:"id"`
	Email             string      `json:"email"`
	Username          string      `json:"username"`
	FirstName         string      `json:"first_name"`
	LastName          string      `json:"last_name"`
	BirthDate         *time.Time  `json:"birth_date,omitempty"`
	AddressLine       string      `json:"address_line"`
	City              string      `json:"city"`
	PostalCode        string      `json:"postal_code"`
	Country           string      `json:"country"`
	Phone             string      `json:"phone"`
	AvatarURL         string      `json:"avatar_url"`
	Language          string      `json:"language"`
	Timezone          string      `json:"timezone"`
	Role              entity.Role `json:"role"`
	LastLoginAt       *time.Time  `json:"last_login_at,omitempty"`
	GoogleDriveLinked bool        `json:"google_drive_linked"`
	CreatedAt         time.Time   `json:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at"`
}

func toUserDTO(u *entity.User) UserDTO {
	return UserDTO{
		ID:                u.ID,
		Email:             u.Email,
		Username:          u.Username,
		FirstName:         u.FirstName,
		LastName:          u.LastName,
		BirthDate:         u.BirthDate,
		AddressLine:       u.AddressLine,
		City:              u.City,
		PostalCode:        u.PostalCode,
		Country:           u.Country,
		Phone:             u.Phone,
		AvatarURL:         u.AvatarURL,
		Language:          u.Language,
		Timezone:          u.Timezone,
		Role:              u.Role,
		LastLoginAt:       u.LastLoginAt,
		GoogleDriveLinked: u.GoogleDriveLinked,
		CreatedAt:         u.CreatedAt,
		UpdatedAt:         u.UpdatedAt,
	}
}

func toUserDTOs(users []entity.User) []UserDTO {
	out := make([]UserDTO, len(users))
	for i := range users {
		out[i] = toUserDTO(&users[i])
	}
	return out
}

type LayoutDTO struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	IsDefault       bool      `json:"is_default"`
	GridColumns     int       `json:"grid_columns"`
	GridRows        int       `json:"grid_rows"`
	BackgroundColor string    `json:"background_color"`
	BackgroundImage string    `json:"background_image"`
	Theme           string    `json:"theme"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func toLayoutDTO(l *entity.Layout) LayoutDTO {
	return LayoutDTO{
		ID:              l.ID,
		UserID:          l.UserID,
		Name:            l.Name,
		Description:     l.Description,
		IsDefault:       l.IsDefault,
		GridColumns:     l.GridColumns,
		GridRows:        l.GridRows,
		BackgroundColor: l.BackgroundColor,
		BackgroundImage: l.BackgroundImage,
		Theme:           l.Theme,
		CreatedAt:       l.CreatedAt,
		UpdatedAt:       l.UpdatedAt,
	}
}

func toLayoutDTOs(layouts []entity.Layout) []LayoutDTO {
	out := make([]LayoutDTO, len(layouts))
	for i := range layouts {
		out[i] = toLayoutDTO(&layouts[i])
	}
	return out
}

type WidgetDTO struct {
	ID          string            `json:"id"`
	LayoutID    string            `json:"layout_id"`
	Type        entity.WidgetType `json:"widget_type"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	X           int               `json:"x"`
	Y           int               `json:"y"`
	Width       int               `json:"width"`
	Height      int               `json:"height"`
	OrderIndex  int               `json:"order_index"`
	Visible     bool              `json:"is_visible"`
	Minimized   bool              `json:"is_minimized"`
	Config      map[string]any    `json:"configuration,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

func toWidgetDTO(w *entity.Widget) WidgetDTO {
	return WidgetDTO{
		ID:          w.ID,
		LayoutID:    w.LayoutID,
		Type:        w.Type,
		Title:       w.Title,
		Description: w.Description,
		X:           w.X,
		Y:           w.Y,
		Width:       w.Width,
		Height:      w.Height,
		OrderIndex:  w.OrderIndex,
		Visible:     w.Visible,
		Minimized:   w.Minimized,
		Config:      maps.Clone(w.Config),
		CreatedAt:   w.CreatedAt,
		UpdatedAt:   w.UpdatedAt,
	}
}

func toWidgetDTOs(widgets []entity.Widget) []WidgetDTO {
	out := make([]WidgetDTO, len(widgets))
	for i := range widgets {
		out[i] = toWidgetDTO(&widgets[i])
	}
	return out
}

type PreferencesDTO struct {
	ID              string  `json:"id"`
	UserID          string  `json:"user_id"`
	DefaultLayoutID *string `json:"default_layout_id"`

	DashboardTheme   string `json:"dashboard_theme"`
	SidebarCollapsed bool   `json:"sidebar_collapsed"`
	SidebarPosition  string `json:"sidebar_position"`

	CalendarView      string `json:"calendar_view"`
	CalendarStartHour int    `json:"calendar_start_hour"`
	CalendarEndHour   int    `json:"calendar_end_hour"`
	FirstDayOfWeek    int    `json:"first_day_of_week"`

	TasksDefaultPriority string `json:"tasks_default_priority"`
	TasksAutoArchive     bool   `json:"tasks_auto_archive"`
	TasksShowCompleted   bool   `json:"tasks_show_completed"`
	TasksSortBy          string `json:"tasks_sort_by"`
	TasksSortOrder       string `json:"tasks_sort_order"`

	NotificationsEnabled      bool    `json:"notifications_enabled"`
	EmailNotifications        bool    `json:"email_notifications"`
	PushNotifications         bool    `json:"push_notifications"`
	NotificationSound         bool    `json:"notification_sound"`
	NotificationSoundFile     *string `json:"notification_sound_file"`
	NotesDefaultFormat        string  `json:"notes_default_format"`
	NotesAutoSave             bool    `json:"notes_auto_save"`
	NotesAutoSaveIntervalSecs int     `json:"notes_auto_save_interval"`

	FilesDefaultView string `json:"files_default_view"`
	FilesShowHidden  bool   `json:"files_show_hidden"`
	FilesSortBy      string `json:"files_sort_by"`
	FilesSortOrder   string `json:"files_sort_order"`

	UIDensity      string `json:"ui_density"`
	UIAnimations   bool   `json:"ui_animations"`
	UIFontSize     string `json:"ui_font_size"`
	UIHighContrast bool   `json:"ui_high_contrast"`

	DataExportFormat    string `json:"data_export_format"`
	AutoBackup          bool   `json:"auto_backup"`
	AutoBackupFrequency string `json:"auto_backup_frequency"`

	PomodoroWorkMinutes       int `json:"pomodoro_work_minutes"`
	PomodoroShortBreakMinutes int `json:"pomodoro_short_break_minutes"`
	PomodoroLongBreakMinutes  int `json:"pomodoro_long_break_minutes"`
	DailyGoalTasks            int `json:"daily_goal_tasks"`
	WeeklyGoalTasks           int `json:"weekly_goal_tasks"`

	CustomPreferences map[string]any `json:"custom_preferences"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toPreferencesDTO(p *entity.Preferences) PreferencesDTO {
	return PreferencesDTO{
		ID:                        p.ID,
		UserID:                    p.UserID,
		DefaultLayoutID:           p.DefaultLayoutID,
		DashboardTheme:            p.DashboardTheme,
		SidebarCollapsed:          p.SidebarCollapsed,
		SidebarPosition:           p.SidebarPosition,
		CalendarView:              p.CalendarView,
		CalendarStartHour:         p.CalendarStartHour,
		CalendarEndHour:           p.CalendarEndHour,
		FirstDayOfWeek:            p.FirstDayOfWeek,
		TasksDefaultPriority:      p.TasksDefaultPriority,
		TasksAutoArchive:          p.TasksAutoArchive,
		TasksShowCompleted:        p.TasksShowCompleted,
		TasksSortBy:               p.TasksSortBy,
		TasksSortOrder:            p.TasksSortOrder,
		NotificationsEnabled:      p.NotificationsEnabled,
		EmailNotifications:        p.EmailNotifications,
		PushNotifications:         p.PushNotifications,
		NotificationSound:         p.NotificationSound,
		NotificationSoundFile:     p.NotificationSoundFile,
		NotesDefaultFormat:        p.NotesDefaultFormat,
		NotesAutoSave:             p.NotesAutoSave,
		NotesAutoSaveIntervalSecs: p.NotesAutoSaveIntervalSecs,
		FilesDefaultView:          p.FilesDefaultView,
		FilesShowHidden:           p.FilesShowHidden,
		FilesSortBy:               p.FilesSortBy,
		FilesSortOrder:            p.FilesSortOrder,
		UIDensity:                 p.UIDensity,
		UIAnimations:              p.UIAnimations,
		UIFontSize:                p.UIFontSize,
		UIHighContrast:            p.UIHighContrast,
		DataExportFormat:          p.DataExportFormat,
		AutoBackup:                p.AutoBackup,
		AutoBackupFrequency:       p.AutoBackupFrequency,
		PomodoroWorkMinutes:       p.PomodoroWorkMinutes,
		PomodoroShortBreakMinutes: p.PomodoroShortBreakMinutes,
		PomodoroLongBreakMinutes:  p.PomodoroLongBreakMinutes,
		DailyGoalTasks:            p.DailyGoalTasks,
		WeeklyGoalTasks:           p.WeeklyGoalTasks,
		CustomPreferences:         maps.Clone(p.CustomPreferences),
		CreatedAt:                 p.CreatedAt,
		UpdatedAt:                 p.UpdatedAt,
	}
}

// UnmarshalJSON fills settings missing from the document with their defaults.
func (d *PreferencesDTO) UnmarshalJSON(b []byte) error {
	type plain PreferencesDTO
	v := plain(toPreferencesDTO(entity.DefaultPreferences("")))
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*d = PreferencesDTO(v)
	return nil
}

func stringOr(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func positiveOr(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

// restoreOnto resets p to the defaults and overlays the settings in d.
// Identity and the default layout link are kept. Empty strings and
// non-positive durations fall back to the default.
func (d *PreferencesDTO) restoreOnto(p *entity.Preferences) {
	def := entity.DefaultPreferences(p.UserID)
	def.ID = p.ID
	def.DefaultLayoutID = p.DefaultLayoutID
	def.CreatedAt = p.CreatedAt
	def.UpdatedAt = p.UpdatedAt

	def.DashboardTheme = stringOr(d.DashboardTheme, def.DashboardTheme)
	def.SidebarCollapsed = d.SidebarCollapsed
	def.SidebarPosition = stringOr(d.SidebarPosition, def.SidebarPosition)
	def.CalendarView = stringOr(d.CalendarView, def.CalendarView)
	def.CalendarStartHour = d.CalendarStartHour
	def.CalendarEndHour = positiveOr(d.CalendarEndHour, def.CalendarEndHour)
	def.FirstDayOfWeek = d.FirstDayOfWeek
	def.TasksDefaultPriority = stringOr(d.TasksDefaultPriority, def.TasksDefaultPriority)
	def.TasksAutoArchive = d.TasksAutoArchive
	def.TasksShowCompleted = d.TasksShowCompleted
	def.TasksSortBy = stringOr(d.TasksSortBy, def.TasksSortBy)
	def.TasksSortOrder = stringOr(d.TasksSortOrder, def.TasksSortOrder)
	def.NotificationsEnabled = d.NotificationsEnabled
	def.EmailNotifications = d.EmailNotifications
	def.PushNotifications = d.PushNotifications
	def.NotificationSound = d.NotificationSound
	def.NotificationSoundFile = d.NotificationSoundFile
	def.NotesDefaultFormat = stringOr(d.NotesDefaultFormat, def.NotesDefaultFormat)
	def.NotesAutoSave = d.NotesAutoSave
	def.NotesAutoSaveIntervalSecs = positiveOr(d.NotesAutoSaveIntervalSecs, def.NotesAutoSaveIntervalSecs)
	def.FilesDefaultView = stringOr(d.FilesDefaultView, def.FilesDefaultView)
	def.FilesShowHidden = d.FilesShowHidden
	def.FilesSortBy = stringOr(d.FilesSortBy, def.FilesSortBy)
	def.FilesSortOrder = stringOr(d.FilesSortOrder, def.FilesSortOrder)
	def.UIDensity = stringOr(d.UIDensity, def.UIDensity)
	def.UIAnimations = d.UIAnimations
	def.UIFontSize = stringOr(d.UIFontSize, def.UIFontSize)
	def.UIHighContrast = d.UIHighContrast
	def.DataExportFormat = stringOr(d.DataExportFormat, def.DataExportFormat)
	def.AutoBackup = d.AutoBackup
	def.AutoBackupFrequency = stringOr(d.AutoBackupFrequency, def.AutoBackupFrequency)
	def.PomodoroWorkMinutes = positiveOr(d.PomodoroWorkMinutes, def.PomodoroWorkMinutes)
	def.PomodoroShortBreakMinutes = positiveOr(d.PomodoroShortBreakMinutes, def.PomodoroShortBreakMinutes)
	def.PomodoroLongBreakMinutes = positiveOr(d.PomodoroLongBreakMinutes, def.PomodoroLongBreakMinutes)
	def.DailyGoalTasks = d.DailyGoalTasks
	def.WeeklyGoalTasks = d.WeeklyGoalTasks
	def.CustomPreferences = maps.Clone(d.CustomPreferences)
	*p = *def
}

// mapPage converts a repository page into a DTO page.
func mapPage[E, D any](items []E, total int, req entity.PageRequest, conv func([]E) []D) entity.Page[D] {
	return entity.NewPage(conv(items), total, req)
}
