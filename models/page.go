package models

// Page is a static informational page served by its URL slug. Inactive pages
// behave as if they do not exist.
type Page struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Title    string `gorm:"size:200;not null" json:"title"`
	Content  string `gorm:"type:text" json:"content"`
	URL      string `gorm:"size:64;uniqueIndex;not null" json:"url"`
	IsActive bool   `gorm:"not null" json:"is_active"`
}
