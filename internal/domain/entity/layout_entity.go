package entity

import (
	"time"

	"github.com/oksasatya/go-dashboard-api/pkg/apperror"
)

const (
	DefaultGridColumns     = 12
	DefaultGridRows        = 8
	MinGridColumns         = 6
	MaxGridColumns         = 24
	MinGridRows            = 4
	MaxGridRows            = 16
	DefaultTheme           = "light"
	DefaultBackgroundColor = "#ffffff"
	DefaultLayoutName      = "My Dashboard"
)

// Layout is a named grid canvas owned by a user. It exclusively owns its widgets.
type Layout struct {
	ID              string
	UserID          string
	Name            string
	Description     string
	IsDefault       bool
	GridColumns     int
	GridRows        int
	BackgroundColor string
	BackgroundImage string
	Theme           string
	Status          RecordStatus
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ValidateGrid enforces columns in [6,24] and rows in [4,16].
func ValidateGrid(columns, rows int) error {
	if columns < MinGridColumns || columns > MaxGridColumns {
		return apperror.Validation("grid columns must be between %d and %d", MinGridColumns, MaxGridColumns)
	}
	if rows < MinGridRows || rows > MaxGridRows {
		return apperror.Validation("grid rows must be between %d and %d", MinGridRows, MaxGridRows)
	}
	return nil
}
