package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultCategory is used when a post is created without one.
const DefaultCategory = "general"

// Post represents a post in the SportPulse application.
type Post struct {
	ID       string `gorm:"primaryKey;size:36" json:"_id"`
	Title    string `gorm:"size:200;not null" json:"title"`
	Text     string `gorm:"type:text;not null" json:"text"`
	ImgURL   string `gorm:"size:255" json:"imgUrl"`
	Category string `gorm:"size:50;index;not null" json:"category"`
	AuthorID string `gorm:"size:36;index;not null" json:"author"`
	// Username is the author's display name at the time of posting.
	Username  string         `gorm:"size:30" json:"username"`
	Views     int            `gorm:"not null;default:0" json:"views"`
	Comments  []Comment      `gorm:"foreignKey:PostID" json:"comments"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (p *Post) BeforeCreate(_ *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Category == "" {
		p.Category = DefaultCategory
	}
	return nil
}
