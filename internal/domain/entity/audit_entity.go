package entity

import "time"

// AuditEvent records a security-relevant action such as a sign-in or password reset.
type AuditEvent struct {
	UserID    string
	Email     string
	Action    string
	IP        string
	UserAgent string
	Metadata  map[string]any
	CreatedAt time.Time
}
