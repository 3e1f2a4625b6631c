package models

import "time"

// Story is a free-text lecture review on the agora board. Unlike Q&A content
// it is removed together with its writer.
type Story struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	LectureID uint      `gorm:"not null;index" json:"lecture"`
	Lecture   *Lecture  `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	WriterID  uint      `gorm:"not null;index" json:"-"`
	Writer    *User     `gorm:"constraint:OnDelete:CASCADE" json:"writer,omitempty"`
	Title     string    `gorm:"size:150;not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
