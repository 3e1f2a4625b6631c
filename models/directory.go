package models

import "time"

// Directory records one batch-upload grant: a unique storage path plus the
// slugified filenames the client may put under it. Rows are immutable after
// creation; a new batch gets a new Directory.
type Directory struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UploaderID uint      `gorm:"not null;index" json:"-"`
	Uploader   *User     `gorm:"constraint:OnDelete:CASCADE" json:"uploader,omitempty"`
	Path       string    `gorm:"size:256;uniqueIndex;not null" json:"path"`
	Filenames  []string  `gorm:"serializer:json" json:"filenames"`
	CreatedAt  time.Time `json:"created_at"`
}
