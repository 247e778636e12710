package entity

import (
	"time"

	"github.com/oksasatya/go-dashboard-api/pkg/apperror"
)

// WidgetType is the fixed set of widget kinds a layout can host.
type WidgetType string

const (
	WidgetWelcome           WidgetType = "WELCOME"
	WidgetTasksSummary      WidgetType = "TASKS_SUMMARY"
	WidgetCalendarEvents    WidgetType = "CALENDAR_EVENTS"
	WidgetQuickNotes        WidgetType = "QUICK_NOTES"
	WidgetWeather           WidgetType = "WEATHER"
	WidgetClock             WidgetType = "CLOCK"
	WidgetHabitsTracker     WidgetType = "HABITS_TRACKER"
	WidgetRecentDocuments   WidgetType = "RECENT_DOCUMENTS"
	WidgetPhotoMemories     WidgetType = "PHOTO_MEMORIES"
	WidgetQuickStats        WidgetType = "QUICK_STATS"
	WidgetReminders         WidgetType = "REMINDERS"
	WidgetRecentActivities  WidgetType = "RECENT_ACTIVITIES"
	WidgetCustomHTML        WidgetType = "CUSTOM_HTML"
	WidgetNotesPreview      WidgetType = "NOTES_PREVIEW"
	WidgetFileManager       WidgetType = "FILE_MANAGER"
	WidgetGoogleCalendar    WidgetType = "GOOGLE_CALENDAR"
	WidgetMotivationalQuote WidgetType = "MOTIVATIONAL_QUOTE"
	WidgetProgressTracker   WidgetType = "PROGRESS_TRACKER"
	WidgetNotifications     WidgetType = "NOTIFICATIONS"
	WidgetSearch            WidgetType = "SEARCH_WIDGET"
	WidgetShortcutMenu      WidgetType = "SHORTCUT_MENU"
	WidgetPomodoroTimer     WidgetType = "POMODORO_TIMER"
	WidgetWeatherWidget     WidgetType = "WEATHER_WIDGET"
	WidgetRSSFeed           WidgetType = "RSS_FEED"
	WidgetShortcuts         WidgetType = "SHORTCUTS"
	WidgetTasks             WidgetType = "TASKS"
	WidgetNotes             WidgetType = "NOTES"
	WidgetRecentActivity    WidgetType = "RECENT_ACTIVITY"
	WidgetCalendar          WidgetType = "CALENDAR"
)

// WidgetTypeInfo is one entry of the widget catalogue.
type WidgetTypeInfo struct {
	Type        WidgetType `json:"type"`
	DisplayName string     `json:"display_name"`
	Description string     `json:"description"`
}

var widgetCatalogue = []WidgetTypeInfo{
	{WidgetWelcome, "Welcome", "Greeting with a short summary of the day"},
	{WidgetTasksSummary, "Tasks summary", "Pending, due and completed task counts"},
	{WidgetCalendarEvents, "Calendar events", "Upcoming events from the calendar"},
	{WidgetQuickNotes, "Quick notes", "Scratchpad for short notes"},
	{WidgetWeather, "Weather", "Current conditions for a location"},
	{WidgetClock, "Clock", "Local time and date"},
	{WidgetHabitsTracker, "Habits tracker", "Daily habit streaks"},
	{WidgetRecentDocuments, "Recent documents", "Recently opened documents"},
	{WidgetPhotoMemories, "Photo memories", "Photos from this day in past years"},
	{WidgetQuickStats, "Quick stats", "Key productivity numbers"},
	{WidgetReminders, "Reminders", "Upcoming reminders"},
	{WidgetRecentActivities, "Recent activities", "Latest actions across the workspace"},
	{WidgetCustomHTML, "Custom HTML", "User supplied HTML snippet"},
	{WidgetNotesPreview, "Notes preview", "Preview of the latest notes"},
	{WidgetFileManager, "File manager", "Browse stored files"},
	{WidgetGoogleCalendar, "Google Calendar", "Events from a linked Google Calendar"},
	{WidgetMotivationalQuote, "Motivational quote", "A quote to start the day"},
	{WidgetProgressTracker, "Progress tracker", "Progress towards daily and weekly goals"},
	{WidgetNotifications, "Notifications", "Unread notifications"},
	{WidgetSearch, "Search", "Search across notes, tasks and documents"},
	{WidgetShortcutMenu, "Shortcut menu", "Menu of frequently used actions"},
	{WidgetPomodoroTimer, "Pomodoro timer", "Focus timer with breaks"},
	{WidgetWeatherWidget, "Weather (extended)", "Multi-day forecast"},
	{WidgetRSSFeed, "RSS feed", "Headlines from an RSS feed"},
	{WidgetShortcuts, "Shortcuts", "Links to favourite pages"},
	{WidgetTasks, "Tasks", "Task list"},
	{WidgetNotes, "Notes", "Notes list"},
	{WidgetRecentActivity, "Recent activity", "Activity timeline"},
	{WidgetCalendar, "Calendar", "Month calendar"},
}

var widgetTypeSet = func() map[WidgetType]WidgetTypeInfo {
	m := make(map[WidgetType]WidgetTypeInfo, len(widgetCatalogue))
	for _, info := range widgetCatalogue {
		m[info.Type] = info
	}
	return m
}()

func (t WidgetType) Valid() bool {
	_, ok := widgetTypeSet[t]
	return ok
}

// Info returns the catalogue entry for t.
func (t WidgetType) Info() (WidgetTypeInfo, bool) {
	info, ok := widgetTypeSet[t]
	return info, ok
}

// WidgetTypes returns a copy of the catalogue in declaration order.
func WidgetTypes() []WidgetTypeInfo {
	out := make([]WidgetTypeInfo, len(widgetCatalogue))
	copy(out, widgetCatalogue)
	return out
}

// Widget is a positioned, typed element inside a layout. Overlapping widgets are allowed.
type Widget struct {
	ID          string
	LayoutID    string
	Type        WidgetType
	Title       string
	Description string
	X           int
	Y           int
	Width       int
	Height      int
	OrderIndex  int
	Visible     bool
	Minimized   bool
	Config      map[string]any
	Status      RecordStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ValidateGeometry enforces x,y >= 0 and width,height >= 1.
func ValidateGeometry(x, y, width, height int) error {
	if x < 0 || y < 0 {
		return apperror.Validation("widget position must be non-negative")
	}
	if width < 1 || height < 1 {
		return apperror.Validation("widget size must be at least 1x1")
	}
	return nil
}

// StarterWidget is a widget template placed on layouts created through the dashboard shortcut.
type StarterWidget struct {
	Type       WidgetType
	Title      string
	X, Y       int
	Width      int
	Height     int
	OrderIndex int
}

// StarterWidgets returns the four widgets seeded onto a new dashboard.
func StarterWidgets() []StarterWidget {
	return []StarterWidget{
		{Type: WidgetWelcome, Title: "Welcome!", X: 0, Y: 0, Width: 6, Height: 2, OrderIndex: 1},
		{Type: WidgetQuickStats, Title: "Quick stats", X: 6, Y: 0, Width: 6, Height: 2, OrderIndex: 2},
		{Type: WidgetCalendar, Title: "Calendar", X: 0, Y: 2, Width: 8, Height: 4, OrderIndex: 3},
		{Type: WidgetNotes, Title: "Recent notes", X: 8, Y: 2, Width: 4, Height: 4, OrderIndex: 4},
	}
}
