package model

import "time"

// Section is a named, ordered grouping of shortcuts. Sections occupy a single
// global position scope; deleting a section never deletes its members, it
// returns them to the unsectioned bucket.
type Section struct {
	ID          int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string `json:"name" gorm:"not null"`
	Position    int    `json:"position" gorm:"not null;default:0"`
	IsCollapsed bool   `json:"is_collapsed" gorm:"not null;default:false"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}
