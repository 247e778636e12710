package entity

import "time"

// BackupFile describes a stored database dump.
type BackupFile struct {
	Name       string    `json:"name"`
	Size       int64     `json:"size"`
	ModifiedAt time.Time `json:"modified_at"`
}
