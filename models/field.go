package models

// Field is a hierarchical topic category for Q&A posts. The tree shape is
// guaranteed by construction: a node only ever points at an existing parent.
type Field struct {
	ID       uint    `gorm:"primaryKey" json:"id"`
	Name     string  `gorm:"size:20;not null" json:"name"`
	ParentID *uint   `gorm:"index" json:"parent_id"`
	Children []Field `gorm:"foreignKey:ParentID;constraint:OnDelete:CASCADE" json:"children,omitempty"`
}
