package models

import "time"

// Tag names are case-sensitive and unique across the store.
type Tag struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	Name      string    `json:"name" gorm:"size:20;uniqueIndex;not null"`
	CreatedAt time.Time `json:"created_at"`
}

const MaxTagNameLength = 20
