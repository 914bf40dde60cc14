package models

import "time"

// Post is a blog publication. PubDate may be set in the future for scheduled
// publishing; such posts stay out of public listings until the date arrives.
type Post struct {
	ID      uint      `gorm:"primaryKey" json:"id"`
	Title   string    `gorm:"size:256;not null" json:"title"`
	Text    string    `gorm:"type:text;not null" json:"text"`
	PubDate time.Time `gorm:"index;not null" json:"pub_date"`
	Image   string    `gorm:"size:512" json:"image,omitempty"`
	PublishedMeta

	AuthorID   uint      `gorm:"index;not null" json:"author_id"`
	Author     User      `json:"author"`
	LocationID *uint     `gorm:"index" json:"location_id"`
	Location   *Location `json:"location,omitempty"`
	CategoryID *uint     `gorm:"index" json:"category_id"`
	Category   *Category `json:"category,omitempty"`
	Comments   []Comment `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"comments,omitempty"`

	// CommentCount is filled by feed queries; it counts every comment on the
	// post, hidden ones included.
	CommentCount int64 `gorm:"->;-:migration" json:"comment_count"`
}
