package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/go-dashboard-api/internal/domain/entity"
	"github.com/oksasatya/go-dashboard-api/internal/domain/repository"
	"github.com/oksasatya/go-dashboard-api/pkg/apperror"
)

// preferenceFields lists the mutable columns, in the order of preferenceArgs.
const preferenceFields = `default_layout_id, dashboard_theme, sidebar_collapsed, sidebar_position,
	calendar_view, calendar_start_hour, calendar_end_hour, first_day_of_week,
	tasks_default_priority, tasks_auto_archive, tasks_show_completed, tasks_sort_by, tasks_sort_order,
	notifications_enabled, email_notifications, push_notifications, notification_sound, notification_sound_file,
	notes_default_format, notes_auto_save, notes_auto_save_interval,
	files_default_view, files_show_hidden, files_sort_by, files_sort_order,
	ui_density, ui_animations, ui_font_size, ui_high_contrast,
	data_export_format, auto_backup, auto_backup_frequency,
	pomodoro_work_minutes, pomodoro_short_break_minutes, pomodoro_long_break_minutes,
	daily_goal_tasks, weekly_goal_tasks, custom_preferences`

const preferenceFieldCount = 38

type PreferencesRepository struct {
	pool *pgxpool.Pool
}

func NewPreferencesRepository(pool *pgxpool.Pool) *PreferencesRepository {
	return &PreferencesRepository{pool: pool}
}

func preferenceArgs(p *entity.Preferences) []any {
	return []any{
		p.DefaultLayoutID, p.DashboardTheme, p.SidebarCollapsed, p.SidebarPosition,
		p.CalendarView, p.CalendarStartHour, p.CalendarEndHour, p.FirstDayOfWeek,
		p.TasksDefaultPriority, p.TasksAutoArchive, p.TasksShowCompleted, p.TasksSortBy, p.TasksSortOrder,
		p.NotificationsEnabled, p.EmailNotifications, p.PushNotifications, p.NotificationSound, p.NotificationSoundFile,
		p.NotesDefaultFormat, p.NotesAutoSave, p.NotesAutoSaveIntervalSecs,
		p.FilesDefaultView, p.FilesShowHidden, p.FilesSortBy, p.FilesSortOrder,
		p.UIDensity, p.UIAnimations, p.UIFontSize, p.UIHighContrast,
		p.DataExportFormat, p.AutoBackup, p.AutoBackupFrequency,
		p.PomodoroWorkMinutes, p.PomodoroShortBreakMinutes, p.PomodoroLongBreakMinutes,
		p.DailyGoalTasks, p.WeeklyGoalTasks, p.CustomPreferences,
	}
}

func preferenceDest(p *entity.Preferences) []any {
	return []any{
		&p.DefaultLayoutID, &p.DashboardTheme, &p.SidebarCollapsed, &p.SidebarPosition,
		&p.CalendarView, &p.CalendarStartHour, &p.CalendarEndHour, &p.FirstDayOfWeek,
		&p.TasksDefaultPriority, &p.TasksAutoArchive, &p.TasksShowCompleted, &p.TasksSortBy, &p.TasksSortOrder,
		&p.NotificationsEnabled, &p.EmailNotifications, &p.PushNotifications, &p.NotificationSound, &p.NotificationSoundFile,
		&p.NotesDefaultFormat, &p.NotesAutoSave, &p.NotesAutoSaveIntervalSecs,
		&p.FilesDefaultView, &p.FilesShowHidden, &p.FilesSortBy, &p.FilesSortOrder,
		&p.UIDensity, &p.UIAnimations, &p.UIFontSize, &p.UIHighContrast,
		&p.DataExportFormat, &p.AutoBackup, &p.AutoBackupFrequency,
		&p.PomodoroWorkMinutes, &p.PomodoroShortBreakMinutes, &p.PomodoroLongBreakMinutes,
		&p.DailyGoalTasks, &p.WeeklyGoalTasks, &p.CustomPreferences,
	}
}

func valuesList(from, count int) string {
	out := ""
	for i := 0; i < count; i++ {
		if i > 0 {
			out += ", "
		}
		out += placeholder(from + i)
	}
	return out
}

func (r *PreferencesRepository) Create(ctx context.Context, p *entity.Preferences) error {
	args := append([]any{p.UserID}, preferenceArgs(p)...)
	row := conn(ctx, r.pool).QueryRow(ctx,
		`INSERT INTO user_preferences (user_id, `+preferenceFields+`)
		VALUES ($1, `+valuesList(2, preferenceFieldCount)+`)
		RETURNING id, created_at, updated_at`, args...)
	if err := row.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return mapErr(err, "preferences")
	}
	return nil
}

func (r *PreferencesRepository) GetByUser(ctx context.Context, userID string) (*entity.Preferences, error) {
	p := &entity.Preferences{}
	dest := append([]any{&p.ID, &p.UserID}, preferenceDest(p)...)
	dest = append(dest, &p.CreatedAt, &p.UpdatedAt)
	err := conn(ctx, r.pool).QueryRow(ctx,
		`SELECT id, user_id, `+preferenceFields+`, created_at, updated_at
		FROM user_preferences WHERE user_id = $1`, userID).Scan(dest...)
	if err != nil {
		return nil, mapErr(err, "preferences")
	}
	return p, nil
}

func (r *PreferencesRepository) Update(ctx context.Context, p *entity.Preferences) error {
	p.UpdatedAt = time.Now()
	args := append(preferenceArgs(p), p.UpdatedAt, p.UserID)
	res, err := conn(ctx, r.pool).Exec(ctx,
		`UPDATE user_preferences SET (`+preferenceFields+`, updated_at)
		= (`+valuesList(1, preferenceFieldCount+1)+`)
		WHERE user_id = `+placeholder(preferenceFieldCount+2), args...)
	if err != nil {
		return mapErr(err, "preferences")
	}
	if res.RowsAffected() == 0 {
		return apperror.NotFound("preferences not found")
	}
	return nil
}

func (r *PreferencesRepository) DeleteByUser(ctx context.Context, userID string) error {
	res, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM user_preferences WHERE user_id = $1`, userID)
	if err != nil {
		return mapErr(err, "preferences")
	}
	if res.RowsAffected() == 0 {
		return apperror.NotFound("preferences not found")
	}
	return nil
}

var _ repository.PreferencesRepository = (*PreferencesRepository)(nil)
