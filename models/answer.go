package models

import "time"

// Answer is a reply to a Q&A post. The composite unique index backs the
// "one answer per user per post" rule so concurrent submissions cannot slip
// past the handler-level check.
type Answer struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;index:idx_answers_post_writer,unique" json:"post"`
	WriterID  *uint     `gorm:"index:idx_answers_post_writer,unique" json:"-"`
	Writer    *User     `gorm:"constraint:OnDelete:SET NULL" json:"writer,omitempty"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
