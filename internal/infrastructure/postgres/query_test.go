package postgres

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oksasatya/go-dashboard-api/internal/domain/entity"
)

func TestValuesList(t *testing.T) {
	assert.Equal(t, "$2, $3, $4", valuesList(2, 3))
	assert.Equal(t, "", valuesList(1, 0))
}

func TestPreferenceColumnsMatchArgs(t *testing.T) {
	p := entity.DefaultPreferences("u1")
	columns := strings.Split(preferenceFields, ",")

	assert.Len(t, columns, preferenceFieldCount)
	assert.Len(t, preferenceArgs(p), preferenceFieldCount)
	assert.Len(t, preferenceDest(p), preferenceFieldCount)
}

func TestNullable(t *testing.T) {
	assert.Nil(t, nullable(""))
	assert.Equal(t, "x", *nullable("x"))
}
