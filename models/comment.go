package models

// Comment is a reply to a post. The publish flag exists on comments but
// listings never filter on it; hidden comments still appear and still count.
type Comment struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Text string `gorm:"type:text;not null" json:"text"`
	PublishedMeta

	PostID   uint `gorm:"index;not null" json:"post_id"`
	AuthorID uint `gorm:"index;not null" json:"author_id"`
	Author   User `json:"author"`
}
