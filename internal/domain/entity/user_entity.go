package entity

import (
	"crypto/subtle"
	"strings"
	"time"
)

const (
	DefaultLanguage = "es"
	DefaultTimezone = "Europe/Madrid"
)

// User is the aggregate root for the user directory.
// Password holds a bcrypt hash, never the plain value.
type User struct {
	ID          string
	Email       string
	Username    string
	Password    string
	FirstName   string
	LastName    string
	BirthDate   *time.Time
	AddressLine string
	City        string
	PostalCode  string
	Country     string
	Phone       string
	AvatarURL   string
	Language    string
	Timezone    string
	Role        Role
	LastLoginAt *time.Time

	GoogleDriveLinked       bool
	GoogleDriveRefreshToken string

	ResetPIN          string
	ResetPINExpiresAt *time.Time

	Status    RecordStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// ResetPINValid reports whether pin matches the stored PIN and has not expired at now.
func (u *User) ResetPINValid(pin string, now time.Time) bool {
	if u.ResetPIN == "" || u.ResetPINExpiresAt == nil {
		return false
	}
	if subtle.ConstantTimeCompare([]byte(u.ResetPIN), []byte(pin)) != 1 {
		return false
	}
	return now.Before(*u.ResetPINExpiresAt)
}

// ClearResetPIN drops the one-time PIN after use.
func (u *User) ClearResetPIN() {
	u.ResetPIN = ""
	u.ResetPINExpiresAt = nil
}
