package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Comment represents a comment on a post.
type Comment struct {
	ID      string `gorm:"primaryKey;size:36" json:"_id"`
	Comment string `gorm:"type:text;not null" json:"comment"`
	// Author is the commenter's display name.
	Author    string         `gorm:"size:30;not null" json:"author"`
	AuthorID  string         `gorm:"size:36;index" json:"authorId,omitempty"`
	PostID    string         `gorm:"size:36;index;not null" json:"post"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (c *Comment) BeforeCreate(_ *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
