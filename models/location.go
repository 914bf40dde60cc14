package models

// Location is an optional place tag on posts, managed only through the admin
// surface.
type Location struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:256;not null" json:"name"`
	PublishedMeta
	Posts []Post `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`
}
