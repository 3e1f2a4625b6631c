package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrReplyDepth is returned when a comment targets a comment that is itself a
// reply. Replies nest exactly one level.
var ErrReplyDepth = errors.New("replies can only nest one level deep")

// TargetKind tags the entity a comment is attached to.
type TargetKind string

const (
	TargetPost    TargetKind = "post"
	TargetAnswer  TargetKind = "answer"
	TargetComment TargetKind = "comment"
)

// Valid reports whether the kind is one of the three attachable entities.
func (k TargetKind) Valid() bool {
	return k == TargetPost || k == TargetAnswer || k == TargetComment
}

// Comment attaches to a post, an answer, or another comment through a
// (target_kind, target_id) pair. There is no database-level foreign key on
// target_id; existence is validated by the target resolver at write time.
type Comment struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	WriterID     *uint      `gorm:"index" json:"-"`
	Writer       *User      `gorm:"constraint:OnDelete:SET NULL" json:"writer,omitempty"`
	Content      string     `gorm:"type:text;not null" json:"content"`
	TargetKind   TargetKind `gorm:"size:16;not null;index:idx_comments_target" json:"target_kind"`
	TargetID     uint       `gorm:"not null;index:idx_comments_target" json:"target_id"`
	RepliesCount int64      `gorm:"-" json:"replies_count"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// CreateComment persists a comment, enforcing the one-level reply cap. The
// parent comment is locked for the duration of the insert so two concurrent
// replies cannot both observe a non-reply parent that one of them then
// deepens.
func CreateComment(db *gorm.DB, comment *Comment) error {
	if comment.TargetKind != TargetComment {
		return db.Create(comment).Error
	}
	return db.Transaction(func(tx *gorm.DB) error {
		q := tx
		// sqlite has no FOR UPDATE; its single-writer model already
		// serializes this path.
		if tx.Dialector.Name() != "sqlite" {
			q = q.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		var parent Comment
		if err := q.First(&parent, comment.TargetID).Error; err != nil {
			return err
		}
		if parent.TargetKind == TargetComment {
			return ErrReplyDepth
		}
		return tx.Create(comment).Error
	})
}

// AttachRepliesCount fills RepliesCount for each comment with a single grouped
// query over the reply rows.
func AttachRepliesCount(db *gorm.DB, comments []Comment) error {
	if len(comments) == 0 {
		return nil
	}
	ids := make([]uint, 0, len(comments))
	for _, c := range comments {
		ids = append(ids, c.ID)
	}
	type row struct {
		TargetID uint
		N        int64
	}
	var rows []row
	err := db.Model(&Comment{}).
		Select("target_id, COUNT(*) AS n").
		Where("target_kind = ? AND target_id IN ?", TargetComment, ids).
		Group("target_id").
		Scan(&rows).Error
	if err != nil {
		return err
	}
	counts := make(map[uint]int64, len(rows))
	for _, r := range rows {
		counts[r.TargetID] = r.N
	}
	for i := range comments {
		comments[i].RepliesCount = counts[comments[i].ID]
	}
	return nil
}
