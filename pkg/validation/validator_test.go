package validation

import (
	"encoding/json"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type layoutReq struct {
	Name    string `json:"name" validate:"required,max=10"`
	Columns int    `json:"grid_columns" validate:"gridcols"`
	Rows    int    `json:"grid_rows" validate:"gridrows"`
}

type widgetReq struct {
	Type string `json:"widget_type" validate:"required,widgettype"`
	Role string `json:"role" validate:"omitempty,role"`
	Pwd  string `json:"password" validate:"pwd"`
}

func newValidate() *validator.Validate {
	v := validator.New()
	Register(v)
	return v
}

func TestRegister_GridAliases(t *testing.T) {
	v := newValidate()
	require.NoError(t, v.Struct(layoutReq{Name: "ok", Columns: 12, Rows: 8}))

	err := v.Struct(layoutReq{Name: "", Columns: 5, Rows: 17})
	require.Error(t, err)
	details := ToDetails(err)
	assert.Equal(t, "is required", details["name"])
	assert.Equal(t, "must be between 6 and 24", details["grid_columns"])
	assert.Equal(t, "must be between 4 and 16", details["grid_rows"])
}

func TestRegister_CustomValidators(t *testing.T) {
	v := newValidate()
	require.NoError(t, v.Struct(widgetReq{Type: "CLOCK", Role: "ADMIN", Pwd: "Secret123!"}))

	details := ToDetails(v.Struct(widgetReq{Type: "BOGUS", Role: "OWNER", Pwd: "short"}))
	assert.Equal(t, "must be a known widget type", details["widget_type"])
	assert.Contains(t, details["role"], "SUPER_ADMIN")
	assert.Contains(t, details["password"], "8")
}

func TestToDetails_JSONErrors(t *testing.T) {
	var dst map[string]any
	err := json.Unmarshal([]byte("{"), &dst)
	assert.Equal(t, map[string]string{"payload": "invalid json"}, ToDetails(err))
	assert.Nil(t, ToDetails(nil))
}

func TestMessages_Sorted(t *testing.T) {
	got := Messages(map[string]string{"b": "is required", "a": "must be at most 3"})
	assert.Equal(t, []string{"a must be at most 3", "b is required"}, got)
}
