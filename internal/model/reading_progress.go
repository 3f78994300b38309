package model

import "time"

// ReadingProgress is an upsert-only projection: one row per (user, book),
// always overwritten with the latest position.
type ReadingProgress struct {
	UserID          int64     `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	BookID          int64     `gorm:"primaryKey;autoIncrement:false" json:"book_id"`
	LastReadPage    int64     `gorm:"not null" json:"last_read_page"`
	LastReadPassage int64     `gorm:"not null" json:"last_read_passage"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ReadingProgress) TableName() string {
	return "reading_progress"
}
