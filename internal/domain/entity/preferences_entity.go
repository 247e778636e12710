package entity

import "time"

// Preferences holds one user's UI and productivity settings. At most one row exists per user.
type Preferences struct {
	ID              string
	UserID          string
	DefaultLayoutID *string

	DashboardTheme   string
	SidebarCollapsed bool
	SidebarPosition  string

	CalendarView      string
	CalendarStartHour int
	CalendarEndHour   int
	FirstDayOfWeek    int

	TasksDefaultPriority string
	TasksAutoArchive     bool
	TasksShowCompleted   bool
	TasksSortBy          string
	TasksSortOrder       string

	NotificationsEnabled      bool
	EmailNotifications        bool
	PushNotifications         bool
	NotificationSound         bool
	NotificationSoundFile     *string
	NotesDefaultFormat        string
	NotesAutoSave             bool
	NotesAutoSaveIntervalSecs int

	FilesDefaultView string
	FilesShowHidden  bool
	FilesSortBy      string
	FilesSortOrder   string

	UIDensity      string
	UIAnimations   bool
	UIFontSize     string
	UIHighContrast bool

	DataExportFormat    string
	AutoBackup          bool
	AutoBackupFrequency string

	PomodoroWorkMinutes       int
	PomodoroShortBreakMinutes int
	PomodoroLongBreakMinutes  int
	DailyGoalTasks            int
	WeeklyGoalTasks           int

	CustomPreferences map[string]any

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DefaultPreferences returns the settings a new user starts with.
func DefaultPreferences(userID string) *Preferences {
	return &Preferences{
		UserID: userID,

		DashboardTheme:   "light",
		SidebarCollapsed: false,
		SidebarPosition:  "left",

		CalendarView:      "month",
		CalendarStartHour: 8,
		CalendarEndHour:   20,
		FirstDayOfWeek:    1,

		TasksDefaultPriority: "MEDIUM",
		TasksAutoArchive:     true,
		TasksShowCompleted:   true,
		TasksSortBy:          "dueDate",
		TasksSortOrder:       "asc",

		NotificationsEnabled:      true,
		EmailNotifications:        true,
		PushNotifications:         true,
		NotificationSound:         true,
		NotesDefaultFormat:        "markdown",
		NotesAutoSave:             true,
		NotesAutoSaveIntervalSecs: 30,

		FilesDefaultView: "grid",
		FilesShowHidden:  false,
		FilesSortBy:      "name",
		FilesSortOrder:   "asc",

		UIDensity:      "comfortable",
		UIAnimations:   true,
		UIFontSize:     "medium",
		UIHighContrast: false,

		DataExportFormat:    "json",
		AutoBackup:          true,
		AutoBackupFrequency: "weekly",

		PomodoroWorkMinutes:       25,
		PomodoroShortBreakMinutes: 5,
		PomodoroLongBreakMinutes:  15,
		DailyGoalTasks:            5,
		WeeklyGoalTasks:           30,
	}
}
