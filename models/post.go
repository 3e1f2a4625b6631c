package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// Validation failures for answer acceptance transitions.
var (
	ErrAnswerWrongPost = errors.New("only answers on this post can be accepted")
	ErrSelfAccept      = errors.New("cannot accept your own answer")
)

// Post is a question on the Q&A board.
type Post struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	FieldID          *uint     `gorm:"index" json:"-"`
	Field            *Field    `gorm:"constraint:OnDelete:SET NULL" json:"field,omitempty"`
	WriterID         *uint     `gorm:"index" json:"-"`
	Writer           *User     `gorm:"constraint:OnDelete:SET NULL" json:"writer,omitempty"`
	Title            string    `gorm:"size:50;not null" json:"title"`
	Content          string    `gorm:"type:text;not null" json:"content"`
	Tags             []string  `gorm:"serializer:json" json:"tags"`
	AcceptedAnswerID *uint     `gorm:"uniqueIndex" json:"accepted_answer"`
	IsPrivate        bool      `gorm:"default:false" json:"is_private"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// BeforeSave keeps the acceptance invariant: a freshly created post never has
// an accepted answer, and a stale acceptance whose answer moved to another
// post is force-reset to none.
func (p *Post) BeforeSave(tx *gorm.DB) error {
	if p.ID == 0 {
		p.AcceptedAnswerID = nil
		return nil
	}
	if p.AcceptedAnswerID == nil {
		return nil
	}
	var answer Answer
	if err := tx.Select("id", "post_id").First(&answer, *p.AcceptedAnswerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			p.AcceptedAnswerID = nil
			return nil
		}
		return err
	}
	if answer.PostID != p.ID {
		p.AcceptedAnswerID = nil
	}
	return nil
}

// ValidateAcceptance checks whether answer may become the accepted answer of
// post: it must belong to the post and must not be the post writer's own.
func ValidateAcceptance(post *Post, answer *Answer) error {
	if answer.PostID != post.ID {
		return ErrAnswerWrongPost
	}
	if post.WriterID != nil && answer.WriterID != nil && *post.WriterID == *answer.WriterID {
		return ErrSelfAccept
	}
	return nil
}

// Private reports the post's visibility flag for permission checks.
func (p *Post) Private() bool { return p.IsPrivate }
