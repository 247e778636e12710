package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-dashboard-api/internal/domain/entity"
	"github.com/oksasatya/go-dashboard-api/pkg/apperror"
)

func TestCreateWidget_OrderIndexDefaultsToNext(t *testing.T) {
	a := newTestApp(t)
	u := a.createUser(t, "amy")
	l := a.createLayout(t, u.ID, "Board", false)

	first := a.createWidget(t, u.ID, l.ID, entity.WidgetClock, 0, 0)
	second := a.createWidget(t, u.ID, l.ID, entity.WidgetWeather, 2, 0)
	assert.Equal(t, 1, first.OrderIndex)
	assert.Equal(t, 2, second.OrderIndex)
	assert.True(t, first.Visible)
}

func TestCreateWidget_Rejections(t *testing.T) {
	a := newTestApp(t)
	u := a.createUser(t, "ben")
	other := a.createUser(t, "cat")
	l := a.createLayout(t, u.ID, "Board", false)
	ctx := context.Background()

	_, err := a.widgets.CreateWidget(ctx, u.ID, l.ID, CreateWidgetInput{Type: "BOGUS", Title: "x", Width: 1, Height: 1})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = a.widgets.CreateWidget(ctx, u.ID, l.ID, CreateWidgetInput{Type: entity.WidgetClock, Title: "x", Width: 0, Height: 1})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = a.widgets.CreateWidget(ctx, other.ID, l.ID, CreateWidgetInput{Type: entity.WidgetClock, Title: "x", Width: 1, Height: 1})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestUpdateWidget_PartialPatch(t *testing.T) {
	a := newTestApp(t)
	u := a.createUser(t, "dan")
	l := a.createLayout(t, u.ID, "Board", false)
	ctx := context.Background()
	w, err := a.widgets.CreateWidget(ctx, u.ID, l.ID, CreateWidgetInput{
		Type: entity.WidgetWeather, Title: "Weather", Description: "city", X: 1, Y: 2, Width: 3, Height: 4,
		Config: map[string]any{"city": "Madrid"},
	})
	require.NoError(t, err)

	got, err := a.widgets.UpdateWidget(ctx, u.ID, l.ID, w.ID, UpdateWidgetInput{Title: ptr("Forecast")})
	require.NoError(t, err)
	assert.Equal(t, "Forecast", got.Title)
	assert.Equal(t, "city", got.Description)
	assert.Equal(t, []int{1, 2, 3, 4}, []int{got.X, got.Y, got.Width, got.Height})
	assert.Equal(t, "Madrid", got.Config["city"])

	_, err = a.widgets.UpdateWidget(ctx, u.ID, l.ID, w.ID, UpdateWidgetInput{Width: ptr(0)})
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestUpdatePositions_AllOrNothing(t *testing.T) {
	a := newTestApp(t)
	u := a.createUser(t, "eve")
	ctx := context.Background()
	l := a.createLayout(t, u.ID, "Board", false)
	other := a.createLayout(t, u.ID, "Other", false)
	w1 := a.createWidget(t, u.ID, l.ID, entity.WidgetClock, 0, 0)
	w2 := a.createWidget(t, u.ID, l.ID, entity.WidgetWeather, 2, 0)
	foreign := a.createWidget(t, u.ID, other.ID, entity.WidgetNotes, 0, 0)

	_, err := a.widgets.UpdatePositions(ctx, u.ID, l.ID, []WidgetPosition{
		{WidgetID: w1.ID, X: 5, Y: 5, Width: 2, Height: 2},
		{WidgetID: foreign.ID, X: 6, Y: 6, Width: 2, Height: 2},
	})
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	got, err := a.widgets.GetWidget(ctx, u.ID, l.ID, w1.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.X)
	assert.Equal(t, 0, got.Y)

	moved, err := a.widgets.UpdatePositions(ctx, u.ID, l.ID, []WidgetPosition{
		{WidgetID: w1.ID, X: 4, Y: 1, Width: 3, Height: 2, OrderIndex: ptr(2)},
		{WidgetID: w2.ID, X: 0, Y: 0, Width: 2, Height: 2, OrderIndex: ptr(1)},
	})
	require.NoError(t, err)
	assert.Len(t, moved, 2)

	list, err := a.widgets.ListWidgets(ctx, u.ID, l.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, w2.ID, list[0].ID)
	assert.Equal(t, 4, list[1].X)
}

func TestUpdatePositions_InvalidGeometryWritesNothing(t *testing.T) {
	a := newTestApp(t)
	u := a.createUser(t, "fay")
	l := a.createLayout(t, u.ID, "Board", false)
	w := a.createWidget(t, u.ID, l.ID, entity.WidgetClock, 0, 0)

	_, err := a.widgets.UpdatePositions(context.Background(), u.ID, l.ID, []WidgetPosition{
		{WidgetID: w.ID, X: -1, Y: 0, Width: 1, Height: 1},
	})
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestDeleteWidget(t *testing.T) {
	a := newTestApp(t)
	u := a.createUser(t, "gus")
	ctx := context.Background()
	l := a.createLayout(t, u.ID, "Board", false)
	w := a.createWidget(t, u.ID, l.ID, entity.WidgetClock, 0, 0)

	require.NoError(t, a.widgets.DeleteWidget(ctx, u.ID, l.ID, w.ID))
	_, err := a.widgets.GetWidget(ctx, u.ID, l.ID, w.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	assert.ErrorIs(t, a.widgets.DeleteWidget(ctx, u.ID, l.ID, w.ID), apperror.ErrNotFound)
}

func TestWidgetsByType_AcrossLayouts(t *testing.T) {
	a := newTestApp(t)
	u := a.createUser(t, "hal")
	ctx := context.Background()
	l1 := a.createLayout(t, u.ID, "One", false)
	l2 := a.createLayout(t, u.ID, "Two", false)
	a.createWidget(t, u.ID, l1.ID, entity.WidgetClock, 0, 0)
	a.createWidget(t, u.ID, l2.ID, entity.WidgetClock, 0, 0)
	a.createWidget(t, u.ID, l2.ID, entity.WidgetNotes, 2, 0)

	clocks, err := a.widgets.WidgetsByType(ctx, u.ID, entity.WidgetClock)
	require.NoError(t, err)
	assert.Len(t, clocks, 2)

	_, err = a.widgets.WidgetsByType(ctx, u.ID, "NOPE")
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestWidgetData_Placeholder(t *testing.T) {
	a := newTestApp(t)
	u := a.createUser(t, "ivy")
	l := a.createLayout(t, u.ID, "Board", false)
	w := a.createWidget(t, u.ID, l.ID, entity.WidgetClock, 0, 0)

	data, err := a.widgets.WidgetData(context.Background(), u.ID, l.ID, w.ID)
	require.NoError(t, err)
	assert.Equal(t, w.Title, data["title"])
	assert.Contains(t, data, "last_updated")
	assert.Len(t, a.widgets.WidgetTypes(), 29)
}
