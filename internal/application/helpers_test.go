package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/go-dashboard-api/internal/domain/entity"
	"github.com/oksasatya/go-dashboard-api/internal/infrastructure/memory"
	"github.com/oksasatya/go-dashboard-api/pkg/helpers"
)

type testApp struct {
	store     *memory.Store
	users     *UserService
	auth      *AuthService
	layouts   *LayoutService
	widgets   *WidgetService
	prefs     *PreferencesService
	dashboard *DashboardService
	notifier  *recordingNotifier
}

type sentPIN struct {
	email, pin string
	expiresAt  time.Time
}

type recordingNotifier struct {
	pins     []sentPIN
	welcomes []string
}

func (n *recordingNotifier) SendResetPIN(_ context.Context, email, _, pin string, expiresAt time.Time) error {
	n.pins = append(n.pins, sentPIN{email: email, pin: pin, expiresAt: expiresAt})
	return nil
}

func (n *recordingNotifier) SendWelcome(_ context.Context, email, _ string) error {
	n.welcomes = append(n.welcomes, email)
	return nil
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	store := memory.NewStore()
	helpers.PasswordCost = bcrypt.MinCost
	tx := memory.NewTransactor(store)
	userRepo := memory.NewUserRepository(store)
	layoutRepo := memory.NewLayoutRepository(store)
	widgetRepo := memory.NewWidgetRepository(store)
	prefsRepo := memory.NewPreferencesRepository(store)
	logger := helpers.NopLogger()
	notifier := &recordingNotifier{}

	users := NewUserService(userRepo, notifier, nil, nil, logger)
	jwt := helpers.NewJWTManager("access-secret", "refresh-secret", time.Hour, 24*time.Hour)
	layouts := NewLayoutService(layoutRepo, widgetRepo, tx, logger)
	widgets := NewWidgetService(layouts, widgetRepo, tx, logger)
	prefs := NewPreferencesService(prefsRepo, layoutRepo, logger)
	return &testApp{
		store:     store,
		users:     users,
		auth:      NewAuthService(users, jwt, nil, memory.NewAuditRepository(store), logger),
		layouts:   layouts,
		widgets:   widgets,
		prefs:     prefs,
		dashboard: NewDashboardService(layouts, widgets, prefs, userRepo, tx, logger),
		notifier:  notifier,
	}
}

func (a *testApp) createUser(t *testing.T, username string) *UserDTO {
	t.Helper()
	u, err := a.users.Create(context.Background(), CreateUserInput{
		Email:     username + "@example.com",
		Username:  username,
		Password:  "Secret123!",
		FirstName: "Test",
		LastName:  username,
	})
	require.NoError(t, err)
	return u
}

func (a *testApp) createLayout(t *testing.T, userID, name string, isDefault bool) *LayoutDTO {
	t.Helper()
	l, err := a.layouts.CreateLayout(context.Background(), userID, CreateLayoutInput{Name: name, IsDefault: isDefault})
	require.NoError(t, err)
	return l
}

func (a *testApp) createWidget(t *testing.T, userID, layoutID string, typ entity.WidgetType, x, y int) *WidgetDTO {
	t.Helper()
	w, err := a.widgets.CreateWidget(context.Background(), userID, layoutID, CreateWidgetInput{
		Type: typ, Title: string(typ), X: x, Y: y, Width: 2, Height: 2,
	})
	require.NoError(t, err)
	return w
}

func ptr[T any](v T) *T { return &v }
