package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/oksasatya/go-dashboard-api/pkg/apperror"
)

func TestValidateGrid(t *testing.T) {
	assert.NoError(t, ValidateGrid(12, 8))
	assert.NoError(t, ValidateGrid(6, 4))
	assert.NoError(t, ValidateGrid(24, 16))
	assert.ErrorIs(t, ValidateGrid(5, 8), apperror.ErrValidation)
	assert.ErrorIs(t, ValidateGrid(25, 8), apperror.ErrValidation)
	assert.ErrorIs(t, ValidateGrid(12, 3), apperror.ErrValidation)
	assert.ErrorIs(t, ValidateGrid(12, 17), apperror.ErrValidation)
}

func TestValidateGeometry(t *testing.T) {
	assert.NoError(t, ValidateGeometry(0, 0, 1, 1))
	assert.ErrorIs(t, ValidateGeometry(-1, 0, 1, 1), apperror.ErrValidation)
	assert.ErrorIs(t, ValidateGeometry(0, 0, 0, 1), apperror.ErrValidation)
}

func TestWidgetCatalogue(t *testing.T) {
	types := WidgetTypes()
	assert.Len(t, types, 29)
	for _, info := range types {
		assert.True(t, info.Type.Valid(), info.Type)
		assert.NotEmpty(t, info.DisplayName)
	}
	assert.False(t, WidgetType("SPREADSHEET").Valid())

	types[0].DisplayName = "mutated"
	info, _ := WidgetWelcome.Info()
	assert.Equal(t, "Welcome", info.DisplayName)
}

func TestStarterWidgetsFitDefaultGrid(t *testing.T) {
	for _, sw := range StarterWidgets() {
		assert.LessOrEqual(t, sw.X+sw.Width, DefaultGridColumns)
		assert.NoError(t, ValidateGeometry(sw.X, sw.Y, sw.Width, sw.Height))
	}
}

func TestResetPINValid(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	exp := now.Add(15 * time.Minute)
	u := &User{ResetPIN: "123456", ResetPINExpiresAt: &exp}

	assert.True(t, u.ResetPINValid("123456", now.Add(14*time.Minute)))
	assert.False(t, u.ResetPINValid("654321", now))
	assert.False(t, u.ResetPINValid("12345", now))
	assert.False(t, u.ResetPINValid("1234567", now))
	assert.False(t, u.ResetPINValid("", now))
	assert.False(t, u.ResetPINValid("123456", now.Add(16*time.Minute)))

	u.ClearResetPIN()
	assert.False(t, u.ResetPINValid("123456", now))
}

func TestPageRequestNormalize(t *testing.T) {
	p := PageRequest{Page: -2, Size: 1000}.Normalize()
	assert.Equal(t, 0, p.Page)
	assert.Equal(t, MaxPageSize, p.Size)

	page := NewPage([]int{1, 2}, 45, PageRequest{Page: 1, Size: 20})
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, []string{}, NewPage[string](nil, 0, PageRequest{Size: 20}).Items)
}
