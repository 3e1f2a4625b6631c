package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a community member. Passwords are stored as bcrypt hashes only.
type User struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Email        string     `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Username     string     `gorm:"size:30;not null" json:"username"`
	PasswordHash string     `gorm:"size:255" json:"-"`
	ProfileImage string     `gorm:"size:512" json:"profile_image"`
	BirthDate    *time.Time `json:"birth_date"`
	IsActive     bool       `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// BeforeCreate ensures timestamps are set even when the row is built by hand.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	now := time.Now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	return nil
}

// BeforeUpdate refreshes the UpdatedAt timestamp.
func (u *User) BeforeUpdate(tx *gorm.DB) error {
	u.UpdatedAt = time.Now()
	return nil
}

// Public returns the subset of user fields safe to embed in other resources.
func (u *User) Public() map[string]interface{} {
	return map[string]interface{}{
		"id":            u.ID,
		"username":      u.Username,
		"profile_image": u.ProfileImage,
	}
}
