package application

import (
	"context"
	"errors"
	"maps"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-dashboard-api/internal/domain/entity"
	repo "github.com/oksasatya/go-dashboard-api/internal/domain/repository"
	"github.com/oksasatya/go-dashboard-api/pkg/apperror"
	"github.com/oksasatya/go-dashboard-api/pkg/helpers"
)

// UpdatePreferencesInput is a patch: nil fields are left unchanged.
type UpdatePreferencesInput struct {
	DefaultLayoutID *string `json:"default_layout_id"`

	DashboardTheme   *string `json:"dashboard_theme" binding:"omitempty,oneof=light dark auto"`
	SidebarCollapsed *bool   `json:"sidebar_collapsed"`
	SidebarPosition  *string `json:"sidebar_position" binding:"omitempty,oneof=left right"`

	CalendarView      *string `json:"calendar_view" binding:"omitempty,oneof=day week month agenda"`
	CalendarStartHour *int    `json:"calendar_start_hour" binding:"omitempty,min=0,max=23"`
	CalendarEndHour   *int    `json:"calendar_end_hour" binding:"omitempty,min=1,max=24"`
	FirstDayOfWeek    *int    `json:"first_day_of_week" binding:"omitempty,min=0,max=6"`

	TasksDefaultPriority *string `json:"tasks_default_priority" binding:"omitempty,oneof=LOW MEDIUM HIGH URGENT"`
	TasksAutoArchive     *bool   `json:"tasks_auto_archive"`
	TasksShowCompleted   *bool   `json:"tasks_show_completed"`
	TasksSortBy          *string `json:"tasks_sort_by"`
	TasksSortOrder       *string `json:"tasks_sort_order" binding:"omitempty,oneof=asc desc"`

	NotificationsEnabled      *bool   `json:"notifications_enabled"`
	EmailNotifications        *bool   `json:"email_notifications"`
	PushNotifications         *bool   `json:"push_notifications"`
	NotificationSound         *bool   `json:"notification_sound"`
	NotificationSoundFile     *string `json:"notification_sound_file"`
	NotesDefaultFormat        *string `json:"notes_default_format" binding:"omitempty,oneof=markdown plain html"`
	NotesAutoSave             *bool   `json:"notes_auto_save"`
	NotesAutoSaveIntervalSecs *int    `json:"notes_auto_save_interval" binding:"omitempty,min=5,max=3600"`

	FilesDefaultView *string `json:"files_default_view" binding:"omitempty,oneof=grid list"`
	FilesShowHidden  *bool   `json:"files_show_hidden"`
	FilesSortBy      *string `json:"files_sort_by"`
	FilesSortOrder   *string `json:"files_sort_order" binding:"omitempty,oneof=asc desc"`

	UIDensity      *string `json:"ui_density" binding:"omitempty,oneof=compact comfortable spacious"`
	UIAnimations   *bool   `json:"ui_animations"`
	UIFontSize     *string `json:"ui_font_size" binding:"omitempty,oneof=small medium large"`
	UIHighContrast *bool   `json:"ui_high_contrast"`

	DataExportFormat    *string `json:"data_export_format" binding:"omitempty,oneof=json csv"`
	AutoBackup          *bool   `json:"auto_backup"`
	AutoBackupFrequency *string `json:"auto_backup_frequency" binding:"omitempty,oneof=daily weekly monthly"`

	PomodoroWorkMinutes       *int `json:"pomodoro_work_minutes" binding:"omitempty,min=1,max=180"`
	PomodoroShortBreakMinutes *int `json:"pomodoro_short_break_minutes" binding:"omitempty,min=1,max=60"`
	PomodoroLongBreakMinutes  *int `json:"pomodoro_long_break_minutes" binding:"omitempty,min=1,max=120"`
	DailyGoalTasks            *int `json:"daily_goal_tasks" binding:"omitempty,min=0"`
	WeeklyGoalTasks           *int `json:"weekly_goal_tasks" binding:"omitempty,min=0"`

	CustomPreferences map[string]any `json:"custom_preferences"`
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

// optional turns an empty string into a cleared optional field.
func optional(v *string) *string {
	if v == nil || *v == "" {
		return nil
	}
	s := *v
	return &s
}

func (in *UpdatePreferencesInput) apply(p *entity.Preferences) {
	if in.DefaultLayoutID != nil {
		p.DefaultLayoutID = optional(in.DefaultLayoutID)
	}
	setString(&p.DashboardTheme, in.DashboardTheme)
	setBool(&p.SidebarCollapsed, in.SidebarCollapsed)
	setString(&p.SidebarPosition, in.SidebarPosition)
	setString(&p.CalendarView, in.CalendarView)
	setInt(&p.CalendarStartHour, in.CalendarStartHour)
	setInt(&p.CalendarEndHour, in.CalendarEndHour)
	setInt(&p.FirstDayOfWeek, in.FirstDayOfWeek)
	setString(&p.TasksDefaultPriority, in.TasksDefaultPriority)
	setBool(&p.TasksAutoArchive, in.TasksAutoArchive)
	setBool(&p.TasksShowCompleted, in.TasksShowCompleted)
	setString(&p.TasksSortBy, in.TasksSortBy)
	setString(&p.TasksSortOrder, in.TasksSortOrder)
	setBool(&p.NotificationsEnabled, in.NotificationsEnabled)
	setBool(&p.EmailNotifications, in.EmailNotifications)
	setBool(&p.PushNotifications, in.PushNotifications)
	setBool(&p.NotificationSound, in.NotificationSound)
	if in.NotificationSoundFile != nil {
		p.NotificationSoundFile = optional(in.NotificationSoundFile)
	}
	setString(&p.NotesDefaultFormat, in.NotesDefaultFormat)
	setBool(&p.NotesAutoSave, in.NotesAutoSave)
	setInt(&p.NotesAutoSaveIntervalSecs, in.NotesAutoSaveIntervalSecs)
	setString(&p.FilesDefaultView, in.FilesDefaultView)
	setBool(&p.FilesShowHidden, in.FilesShowHidden)
	setString(&p.FilesSortBy, in.FilesSortBy)
	setString(&p.FilesSortOrder, in.FilesSortOrder)
	setString(&p.UIDensity, in.UIDensity)
	setBool(&p.UIAnimations, in.UIAnimations)
	setString(&p.UIFontSize, in.UIFontSize)
	setBool(&p.UIHighContrast, in.UIHighContrast)
	setString(&p.DataExportFormat, in.DataExportFormat)
	setBool(&p.AutoBackup, in.AutoBackup)
	setString(&p.AutoBackupFrequency, in.AutoBackupFrequency)
	setInt(&p.PomodoroWorkMinutes, in.PomodoroWorkMinutes)
	setInt(&p.PomodoroShortBreakMinutes, in.PomodoroShortBreakMinutes)
	setInt(&p.PomodoroLongBreakMinutes, in.PomodoroLongBreakMinutes)
	setInt(&p.DailyGoalTasks, in.DailyGoalTasks)
	setInt(&p.WeeklyGoalTasks, in.WeeklyGoalTasks)
	if in.CustomPreferences != nil {
		p.CustomPreferences = maps.Clone(in.CustomPreferences)
	}
}

type PreferencesService struct {
	Repo    repo.PreferencesRepository
	Layouts repo.LayoutRepository
	Logger  *logrus.Logger
}

func NewPreferencesService(prefs repo.PreferencesRepository, layouts repo.LayoutRepository, logger *logrus.Logger) *PreferencesService {
	return &PreferencesService{Repo: prefs, Layouts: layouts, Logger: helpers.OrNop(logger)}
}

func (s *PreferencesService) Get(ctx context.Context, userID string) (*PreferencesDTO, error) {
	p, err := s.Repo.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	dto := toPreferencesDTO(p)
	return &dto, nil
}

// CreateDefault stores the default settings. A user that already has preferences gets AlreadyExists.
func (s *PreferencesService) CreateDefault(ctx context.Context, userID string) (*PreferencesDTO, error) {
	p := entity.DefaultPreferences(userID)
	if err := s.Repo.Create(ctx, p); err != nil {
		return nil, err
	}
	s.Logger.WithField("user_id", userID).Info("default preferences created")
	dto := toPreferencesDTO(p)
	return &dto, nil
}

func (s *PreferencesService) getOrCreate(ctx context.Context, userID string) (*entity.Preferences, error) {
	p, err := s.Repo.GetByUser(ctx, userID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		return nil, err
	}
	p = entity.DefaultPreferences(userID)
	if err := s.Repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PreferencesService) GetOrCreate(ctx context.Context, userID string) (*PreferencesDTO, error) {
	p, err := s.getOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	dto := toPreferencesDTO(p)
	return &dto, nil
}

// Update patches the user's preferences, creating the defaults first when none exist.
func (s *PreferencesService) Update(ctx context.Context, userID string, in UpdatePreferencesInput) (*PreferencesDTO, error) {
	p, err := s.getOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	in.apply(p)
	if p.DefaultLayoutID != nil {
		l, err := s.Layouts.GetByID(ctx, *p.DefaultLayoutID)
		if errors.Is(err, apperror.ErrNotFound) || (err == nil && l.UserID != userID) {
			return nil, apperror.Validation("default layout does not exist")
		}
		if err != nil {
			return nil, err
		}
	}
	if err := validatePreferences(p); err != nil {
		return nil, err
	}
	if err := s.Repo.Update(ctx, p); err != nil {
		return nil, err
	}
	dto := toPreferencesDTO(p)
	return &dto, nil
}

func (s *PreferencesService) Delete(ctx context.Context, userID string) error {
	return s.Repo.DeleteByUser(ctx, userID)
}

// replace resets the user's settings to the defaults overlaid with d.
func (s *PreferencesService) replace(ctx context.Context, userID string, d *PreferencesDTO) error {
	p, err := s.getOrCreate(ctx, userID)
	if err != nil {
		return err
	}
	d.restoreOnto(p)
	if err := validatePreferences(p); err != nil {
		return err
	}
	return s.Repo.Update(ctx, p)
}

// validatePreferences checks the numeric settings that request binding cannot see together.
func validatePreferences(p *entity.Preferences) error {
	switch {
	case p.CalendarStartHour < 0 || p.CalendarEndHour > 24:
		return apperror.Validation("calendar hours must be within 0 and 24")
	case p.CalendarStartHour >= p.CalendarEndHour:
		return apperror.Validation("calendar start hour must be before end hour")
	case p.FirstDayOfWeek < 0 || p.FirstDayOfWeek > 6:
		return apperror.Validation("first day of week must be within 0 and 6")
	case p.NotesAutoSaveIntervalSecs < 5 || p.NotesAutoSaveIntervalSecs > 3600:
		return apperror.Validation("auto save interval must be within 5 and 3600 seconds")
	case p.PomodoroWorkMinutes < 1 || p.PomodoroShortBreakMinutes < 1 || p.PomodoroLongBreakMinutes < 1:
		return apperror.Validation("pomodoro durations must be positive")
	case p.DailyGoalTasks < 0 || p.WeeklyGoalTasks < 0:
		return apperror.Validation("task goals cannot be negative")
	}
	return nil
}
