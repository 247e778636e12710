package application

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-dashboard-api/internal/domain/entity"
	"github.com/oksasatya/go-dashboard-api/pkg/apperror"
)

func TestPreferences_Lifecycle(t *testing.T) {
	a := newTestApp(t)
	u := a.createUser(t, "pam")
	ctx := context.Background()

	_, err := a.prefs.Get(ctx, u.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	p, err := a.prefs.CreateDefault(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "light", p.DashboardTheme)
	assert.Equal(t, 25, p.PomodoroWorkMinutes)
	assert.Nil(t, p.DefaultLayoutID)

	_, err = a.prefs.CreateDefault(ctx, u.ID)
	assert.ErrorIs(t, err, apperror.ErrAlreadyExists)

	updated, err := a.prefs.Update(ctx, u.ID, UpdatePreferencesInput{DashboardTheme: ptr("dark"), DailyGoalTasks: ptr(8)})
	require.NoError(t, err)
	assert.Equal(t, "dark", updated.DashboardTheme)
	assert.Equal(t, 8, updated.DailyGoalTasks)
	assert.Equal(t, "month", updated.CalendarView)

	_, err = a.prefs.Update(ctx, u.ID, UpdatePreferencesInput{CalendarStartHour: ptr(21)})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = a.prefs.Update(ctx, u.ID, UpdatePreferencesInput{DefaultLayoutID: ptr("missing")})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	require.NoError(t, a.prefs.Delete(ctx, u.ID))
	assert.ErrorIs(t, a.prefs.Delete(ctx, u.ID), apperror.ErrNotFound)
}

func TestCompleteDashboard_ProvisionsOneDefault(t *testing.T) {
	a := newTestApp(t)
	u := a.createUser(t, "quinn")
	ctx := context.Background()

	first, err := a.dashboard.CompleteDashboard(ctx, u.ID, "", true)
	require.NoError(t, err)
	assert.True(t, first.Layout.IsDefault)
	assert.Len(t, first.Widgets, 4)
	assert.Len(t, first.WidgetData, 4)
	assert.Equal(t, "1.0", first.Metadata.Version)
	assert.Equal(t, 1, first.Metadata.TotalLayouts)
	assert.Equal(t, 4, first.Metadata.TotalWidgets)
	assert.True(t, first.Metadata.IsOnline)
	require.NotNil(t, first.User)
	assert.Equal(t, u.ID, first.User.ID)

	second, err := a.dashboard.CompleteDashboard(ctx, u.ID, "", false)
	require.NoError(t, err)
	assert.Equal(t, first.Layout.ID, second.Layout.ID)
	assert.Nil(t, second.WidgetData)
	assert.Equal(t, 1, countDefaults(t, a, u.ID))
}

func TestCompleteDashboard_PromotesExistingLayout(t *testing.T) {
	a := newTestApp(t)
	u := a.createUser(t, "rita")
	l := a.createLayout(t, u.ID, "Mine", false)

	got, err := a.dashboard.CompleteDashboard(context.Background(), u.ID, "", false)
	require.NoError(t, err)
	assert.Equal(t, l.ID, got.Layout.ID)
	assert.True(t, got.Layout.IsDefault)
	assert.Len(t, got.AvailableLayouts, 1)
}

func TestCompleteDashboard_ForeignLayout(t *testing.T) {
	a := newTestApp(t)
	owner := a.createUser(t, "sam")
	other := a.createUser(t, "tom")
	l := a.createLayout(t, owner.ID, "Private", false)

	_, err := a.dashboard.CompleteDashboard(context.Background(), other.ID, l.ID, false)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestInitialize_CreatesPreferencesAndDefault(t *testing.T) {
	a := newTestApp(t)
	u := a.createUser(t, "uma")
	ctx := context.Background()

	got, err := a.dashboard.Initialize(ctx, u.ID, false)
	require.NoError(t, err)
	assert.True(t, got.Layout.IsDefault)
	_, err = a.prefs.Get(ctx, u.ID)
	assert.NoError(t, err)
}

func TestStats(t *testing.T) {
	a := newTestApp(t)
	u := a.createUser(t, "vic")
	ctx := context.Background()

	empty, err := a.dashboard.Stats(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "N/A", empty.MostUsedWidgetType)
	assert.Zero(t, empty.AverageWidgetsPerLayout)

	l1 := a.createLayout(t, u.ID, "One", false)
	l2 := a.createLayout(t, u.ID, "Two", false)
	a.createWidget(t, u.ID, l1.ID, entity.WidgetNotes, 0, 0)
	a.createWidget(t, u.ID, l2.ID, entity.WidgetNotes, 0, 0)
	a.createWidget(t, u.ID, l2.ID, entity.WidgetClock, 2, 0)

	stats, err := a.dashboard.Stats(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalLayouts)
	assert.Equal(t, 3, stats.TotalWidgets)
	assert.Equal(t, string(entity.WidgetNotes), stats.MostUsedWidgetType)
	assert.InDelta(t, 1.5, stats.AverageWidgetsPerLayout, 0.001)
	assert.NotNil(t, stats.CreationDate)
}

func TestExportImport_RoundTrip(t *testing.T) {
	a := newTestApp(t)
	u := a.createUser(t, "wes")
	ctx := context.Background()
	src, err := a.layouts.CreateDashboard(ctx, u.ID, CreateLayoutInput{Name: "Board", GridColumns: ptr(16), Theme: "dark"})
	require.NoError(t, err)

	exported, err := a.dashboard.ExportConfig(ctx, u.ID, src.ID)
	require.NoError(t, err)
	raw, err := json.Marshal(exported)
	require.NoError(t, err)

	var doc ImportDocument
	require.NoError(t, json.Unmarshal(raw, &doc))
	imported, err := a.dashboard.ImportConfig(ctx, u.ID, doc)
	require.NoError(t, err)

	assert.Equal(t, "Board (Imported)", imported.Name)
	assert.False(t, imported.IsDefault)
	assert.Equal(t, 16, imported.GridColumns)
	assert.Equal(t, "dark", imported.Theme)

	before, err := a.widgets.ListWidgets(ctx, u.ID, src.ID)
	require.NoError(t, err)
	after, err := a.widgets.ListWidgets(ctx, u.ID, imported.ID)
	require.NoError(t, err)
	require.Len(t, after, len(before))
	for i := range before {
		assert.Equal(t, before[i].Type, after[i].Type)
		assert.Equal(t, before[i].X, after[i].X)
		assert.Equal(t, before[i].Width, after[i].Width)
		assert.Equal(t, before[i].OrderIndex, after[i].OrderIndex)
	}
}

func TestImportConfig_FallbacksAndUnknownTypes(t *testing.T) {
	a := newTestApp(t)
	u := a.createUser(t, "xena")
	ctx := context.Background()

	doc := ImportDocument{
		Layout: ImportLayout{Name: ptr("Bare")},
		Widgets: []ImportWidget{
			{Type: entity.WidgetClock, Title: "Clock", Width: 2, Height: 2},
			{Type: "RETIRED_WIDGET", Title: "Old", Width: 2, Height: 2},
		},
	}
	l, err := a.dashboard.ImportConfig(ctx, u.ID, doc)
	require.NoError(t, err)
	assert.Equal(t, 12, l.GridColumns)
	assert.Equal(t, 8, l.GridRows)
	assert.Equal(t, "light", l.Theme)

	widgets, err := a.widgets.ListWidgets(ctx, u.ID, l.ID)
	require.NoError(t, err)
	require.Len(t, widgets, 1)
	assert.Equal(t, entity.WidgetClock, widgets[0].Type)

}

func TestImportConfig_MissingNameUsesDefault(t *testing.T) {
	a := newTestApp(t)
	u := a.createUser(t, "xavier")
	ctx := context.Background()

	l, err := a.dashboard.ImportConfig(ctx, u.ID, ImportDocument{})
	require.NoError(t, err)
	assert.Equal(t, "Imported Layout (Imported)", l.Name)
	assert.Equal(t, "Imported layout", l.Description)
	assert.Equal(t, 12, l.GridColumns)
	assert.Equal(t, 8, l.GridRows)
	assert.Equal(t, "light", l.Theme)
	assert.False(t, l.IsDefault)

	l, err = a.dashboard.ImportConfig(ctx, u.ID, ImportDocument{Layout: ImportLayout{Name: ptr("   ")}})
	require.NoError(t, err)
	assert.Equal(t, "Imported Layout (Imported)", l.Name)
}

func TestBackupRestore(t *testing.T) {
	a := newTestApp(t)
	u := a.createUser(t, "yuri")
	other := a.createUser(t, "zoe")
	ctx := context.Background()
	_, err := a.layouts.CreateDashboard(ctx, u.ID, CreateLayoutInput{Name: "Main", IsDefault: true})
	require.NoError(t, err)
	_, err = a.prefs.Update(ctx, u.ID, UpdatePreferencesInput{DashboardTheme: ptr("dark")})
	require.NoError(t, err)

	backup, err := a.dashboard.Backup(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.ID, backup.UserID)
	require.Len(t, backup.Layouts, 1)
	assert.Len(t, backup.Layouts[0].Widgets, 4)
	require.NotNil(t, backup.Preferences)

	_, err = a.dashboard.Restore(ctx, other.ID, *backup)
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = a.prefs.Update(ctx, u.ID, UpdatePreferencesInput{DashboardTheme: ptr("light")})
	require.NoError(t, err)

	res, err := a.dashboard.Restore(ctx, u.ID, *backup)
	require.NoError(t, err)
	assert.True(t, res.PreferencesRestored)
	require.Len(t, res.RestoredLayouts, 1)
	assert.Equal(t, "Main (Restaurado)", res.RestoredLayouts[0].Name)
	assert.False(t, res.RestoredLayouts[0].IsDefault)

	widgets, err := a.widgets.ListWidgets(ctx, u.ID, res.RestoredLayouts[0].ID)
	require.NoError(t, err)
	assert.Empty(t, widgets)

	p, err := a.prefs.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "dark", p.DashboardTheme)
	assert.Equal(t, 1, countDefaults(t, a, u.ID))
}

func TestRestore_PartialPreferencesKeepDefaults(t *testing.T) {
	a := newTestApp(t)
	u := a.createUser(t, "yara")
	ctx := context.Background()
	_, err := a.prefs.Update(ctx, u.ID, UpdatePreferencesInput{
		CalendarStartHour:   ptr(6),
		CalendarEndHour:     ptr(22),
		PomodoroWorkMinutes: ptr(50),
		UIDensity:           ptr("compact"),
	})
	require.NoError(t, err)

	doc := BackupDocument{UserID: u.ID, Preferences: &PreferencesDTO{DashboardTheme: "dark"}}
	res, err := a.dashboard.Restore(ctx, u.ID, doc)
	require.NoError(t, err)
	assert.True(t, res.PreferencesRestored)

	p, err := a.prefs.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "dark", p.DashboardTheme)
	assert.Equal(t, 0, p.CalendarStartHour)
	assert.Equal(t, 20, p.CalendarEndHour)
	assert.Equal(t, "month", p.CalendarView)
	assert.Equal(t, "comfortable", p.UIDensity)
	assert.Equal(t, 25, p.PomodoroWorkMinutes)
	assert.Equal(t, 30, p.NotesAutoSaveIntervalSecs)

	_, err = a.prefs.Update(ctx, u.ID, UpdatePreferencesInput{})
	require.NoError(t, err)
}

func TestRestore_PreferencesFromJSONDocument(t *testing.T) {
	a := newTestApp(t)
	u := a.createUser(t, "yusuf")
	ctx := context.Background()

	raw := `{"version":"1.0","user_id":"` + u.ID + `","layouts":[],"preferences":{"dashboard_theme":"dark","calendar_start_hour":9}}`
	var doc BackupDocument
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))

	_, err := a.dashboard.Restore(ctx, u.ID, doc)
	require.NoError(t, err)

	p, err := a.prefs.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "dark", p.DashboardTheme)
	assert.Equal(t, 9, p.CalendarStartHour)
	assert.Equal(t, 20, p.CalendarEndHour)
	assert.Equal(t, 1, p.FirstDayOfWeek)
	assert.True(t, p.NotificationsEnabled)
	assert.True(t, p.TasksAutoArchive)
	assert.Equal(t, 5, p.DailyGoalTasks)
}

func TestRestore_RejectsInvalidPreferences(t *testing.T) {
	a := newTestApp(t)
	u := a.createUser(t, "yves")
	ctx := context.Background()

	doc := BackupDocument{
		UserID:      u.ID,
		Layouts:     []BackupLayout{{LayoutDTO: LayoutDTO{Name: "Main", GridColumns: 12, GridRows: 8}}},
		Preferences: &PreferencesDTO{CalendarStartHour: 22, CalendarEndHour: 10},
	}
	_, err := a.dashboard.Restore(ctx, u.ID, doc)
	assert.ErrorIs(t, err, apperror.ErrValidation)

	p, err := a.prefs.GetOrCreate(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, p.CalendarStartHour)
	assert.Equal(t, 20, p.CalendarEndHour)
}
