package models

import "time"

// PublishedMeta carries the shared publish flag and creation timestamp embedded
// into every hideable entity. Unchecking IsPublished hides the record from
// public listings without deleting it.
type PublishedMeta struct {
	IsPublished bool      `gorm:"not null" json:"is_published"`
	CreatedAt   time.Time `json:"created_at"`
}
