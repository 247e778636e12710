package templates

import (
	"fmt"
	"time"
)

// Branding carries the product details every email shows.
type Branding struct {
	AppName        string
	CompanyName    string
	CompanyAddress string
	LogoURL        string
	SupportURL     string
	ResetURL       string
	LoginURL       string
}

type Option func(*EmailData)

func WithCode(code string) Option { return func(d *EmailData) { d.Code = code } }

func WithExpiresAt(t, now time.Time) Option {
	return func(d *EmailData) {
		utc := t.UTC()
		d.ExpiresAt = utc
		d.ExpiresAtText = utc.Format("02 January 2006, 15:04 UTC")
		if mins := int(t.Sub(now).Round(time.Minute).Minutes()); mins > 0 {
			d.ExpiresInText = fmt.Sprintf("%d minutes", mins)
		}
	}
}

func NewBaseEmailData(b Branding, typ, name, email string, opts ...Option) EmailData {
	d := EmailData{
		Name:  name,
		Email: email,
		Type:  typ,

		CompanyName:    b.CompanyName,
		CompanyAddress: b.CompanyAddress,
		AppName:        b.AppName,

		LogoURL:    b.LogoURL,
		SupportURL: b.SupportURL,
		ResetURL:   b.ResetURL,
		LoginURL:   b.LoginURL,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

// NewResetPINData builds the payload for the password reset PIN email.
func NewResetPINData(b Branding, name, email, pin string, expiresAt time.Time) EmailData {
	return NewBaseEmailData(b, ResetPIN, name, email, WithCode(pin), WithExpiresAt(expiresAt, time.Now()))
}

func NewWelcomeData(b Branding, name, email string) EmailData {
	return NewBaseEmailData(b, Welcome, name, email)
}
