package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-dashboard-api/internal/domain/entity"
	"github.com/oksasatya/go-dashboard-api/pkg/apperror"
)

func TestCreateUser_DefaultsAndDuplicates(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()
	u := a.createUser(t, "alice")
	assert.Equal(t, entity.RoleUser, u.Role)
	assert.Equal(t, entity.DefaultLanguage, u.Language)
	assert.Equal(t, entity.DefaultTimezone, u.Timezone)

	_, err := a.users.Create(ctx, CreateUserInput{Email: "ALICE@example.com", Username: "other", Password: "Secret123!", FirstName: "A"})
	assert.ErrorIs(t, err, apperror.ErrAlreadyExists)

	_, err = a.users.Create(ctx, CreateUserInput{Email: "new@example.com", Username: "alice", Password: "Secret123!", FirstName: "A"})
	assert.ErrorIs(t, err, apperror.ErrAlreadyExists)
}

func TestLookupsIgnoreDeletedUsers(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()
	u := a.createUser(t, "bob")

	got, err := a.users.GetByUsername(ctx, "BOB")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	require.NoError(t, a.users.Delete(ctx, u.ID))
	_, err = a.users.GetByID(ctx, u.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	_, err = a.users.GetByEmail(ctx, "bob@example.com")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	exists, err := a.users.ExistsByEmail(ctx, "bob@example.com")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestUpdateProfile_PatchAndUniqueness(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()
	u := a.createUser(t, "carl")
	a.createUser(t, "dina")

	got, err := a.users.UpdateProfile(ctx, u.ID, UpdateUserInput{City: ptr("Sevilla")})
	require.NoError(t, err)
	assert.Equal(t, "Sevilla", got.City)
	assert.Equal(t, "Test", got.FirstName)

	_, err = a.users.UpdateProfile(ctx, u.ID, UpdateUserInput{Email: ptr("dina@example.com")})
	assert.ErrorIs(t, err, apperror.ErrAlreadyExists)
}

func TestUpdatePassword(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()
	u := a.createUser(t, "ed")

	err := a.users.UpdatePassword(ctx, u.ID, "wrong", "NewSecret1!")
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)

	require.NoError(t, a.users.UpdatePassword(ctx, u.ID, "Secret123!", "NewSecret1!"))
	_, err = a.auth.Signin(ctx, SigninInput{Login: "ed", Password: "NewSecret1!"}, RequestMeta{})
	assert.NoError(t, err)
}

func TestSearchAndListByRole(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()
	a.createUser(t, "frida")
	a.createUser(t, "george")
	_, err := a.users.Create(ctx, CreateUserInput{Email: "root@example.com", Username: "root", Password: "Secret123!", FirstName: "Root", Role: entity.RoleAdmin})
	require.NoError(t, err)

	page, err := a.users.Search(ctx, "FRI", entity.PageRequest{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "frida", page.Items[0].Username)

	admins, err := a.users.ListByRole(ctx, entity.RoleAdmin, entity.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, 1, admins.Total)

	_, err = a.users.ListByRole(ctx, "OWNER", entity.PageRequest{})
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestGoogleDriveLink(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()
	u := a.createUser(t, "hugo")

	got, err := a.users.SetGoogleDriveLink(ctx, u.ID, true, "refresh-1")
	require.NoError(t, err)
	assert.True(t, got.GoogleDriveLinked)
	linked, err := a.users.ListGoogleDriveLinked(ctx)
	require.NoError(t, err)
	assert.Len(t, linked, 1)

	_, err = a.users.SetGoogleDriveLink(ctx, u.ID, false, "")
	require.NoError(t, err)
	stored, err := a.users.Repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.GoogleDriveRefreshToken)
}

func TestResetPIN_ExpiresAfterFifteenMinutes(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()
	a.createUser(t, "ines")
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	a.users.Now = func() time.Time { return now }

	pin, err := a.users.GenerateResetPIN(ctx, "ines@example.com")
	require.NoError(t, err)
	assert.Len(t, pin, 6)
	require.Len(t, a.notifier.pins, 1)
	assert.Equal(t, pin, a.notifier.pins[0].pin)
	assert.Equal(t, now.Add(15*time.Minute), a.notifier.pins[0].expiresAt)

	a.users.Now = func() time.Time { return now.Add(16 * time.Minute) }
	err = a.users.ResetPassword(ctx, "ines@example.com", pin, "Fresh123!")
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)

	pin, err = a.users.GenerateResetPIN(ctx, "ines@example.com")
	require.NoError(t, err)
	a.users.Now = func() time.Time { return now.Add(30 * time.Minute) }
	assert.ErrorIs(t, a.users.ResetPassword(ctx, "ines@example.com", "000000x", "Fresh123!"), apperror.ErrUnauthorized)
	require.NoError(t, a.users.ResetPassword(ctx, "ines@example.com", pin, "Fresh123!"))

	assert.ErrorIs(t, a.users.ResetPassword(ctx, "ines@example.com", pin, "Again123!"), apperror.ErrUnauthorized)

	_, err = a.users.GenerateResetPIN(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestStats_CountsRecentLogins(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()
	u1 := a.createUser(t, "jon")
	a.createUser(t, "kim")
	now := time.Now()
	a.users.Now = func() time.Time { return now.Add(-10 * 24 * time.Hour) }
	require.NoError(t, a.users.TouchLastLogin(ctx, u1.ID))
	a.users.Now = func() time.Time { return now }

	stats, err := a.users.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalActive)
	assert.Equal(t, 1, stats.ActiveLastMonth)
	assert.Equal(t, 0, stats.ActiveLastWeek)
	assert.Equal(t, 1, stats.InactiveLastMonth)
}

func TestAuth_SignupSigninRefresh(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()
	meta := RequestMeta{IP: "10.0.0.1", UserAgent: "test"}

	res, err := a.auth.Signup(ctx, CreateUserInput{
		Email: "lena@example.com", Username: "lena", Password: "Secret123!", FirstName: "Lena", Role: entity.RoleSuperAdmin,
	}, meta)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleUser, res.User.Role)
	assert.NotEmpty(t, res.Tokens.AccessToken)
	assert.Equal(t, []string{"lena@example.com"}, a.notifier.welcomes)

	_, err = a.auth.Signin(ctx, SigninInput{Login: "lena", Password: "bad"}, meta)
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)

	in, err := a.auth.Signin(ctx, SigninInput{Login: "LENA@example.com", Password: "Secret123!"}, meta)
	require.NoError(t, err)
	claims, err := a.auth.JWT.ParseAccessToken(in.Tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, claims.UserID)
	assert.Equal(t, "USER", claims.Role)
	assert.Equal(t, "lena", claims.Username)

	stored, err := a.users.GetByID(ctx, res.User.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored.LastLoginAt)

	pair, err := a.auth.Refresh(ctx, in.Tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)

	_, err = a.auth.Refresh(ctx, in.Tokens.AccessToken)
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)

	actions := make([]string, 0)
	for _, ev := range a.store.AuditEvents() {
		actions = append(actions, ev.Action)
	}
	assert.Equal(t, []string{"signup", "signin_failed", "signin"}, actions)
}
