package entity

// RecordStatus replaces ad-hoc deleted flags. Repositories only return active rows.
type RecordStatus string

const (
	StatusActive  RecordStatus = "active"
	StatusDeleted RecordStatus = "deleted"
)
