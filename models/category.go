package models

// Category groups posts under a unique URL slug. Categories are managed only
// through the admin surface; they have no owner.
type Category struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Title       string `gorm:"size:256;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	Slug        string `gorm:"size:64;uniqueIndex;not null" json:"slug"`
	PublishedMeta
	Posts []Post `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`
}
