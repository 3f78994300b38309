package model

import "time"

// RatingStatus tracks moderator triage of a rating, not its content.
type RatingStatus string

const (
	RatingNotViewed RatingStatus = "not viewed"
	RatingViewed    RatingStatus = "viewed"
	RatingDismissed RatingStatus = "dismissed"
)

func (s RatingStatus) Valid() bool {
	switch s {
	case RatingNotViewed, RatingViewed, RatingDismissed:
		return true
	}
	return false
}

type Rating struct {
	ID            int64        `gorm:"column:rating_id;primaryKey;autoIncrement" json:"rating_id"`
	TranslationID int64        `gorm:"not null;index" json:"translation_id"`
	UserID        int64        `gorm:"not null;index" json:"user_id"`
	Rating        float64      `gorm:"not null" json:"rating"`
	Feedback      string       `gorm:"type:text" json:"feedback"`
	Status        RatingStatus `gorm:"not null;size:20;default:'not viewed'" json:"status"`
	CreationDate  time.Time    `gorm:"column:creation_date;autoCreateTime" json:"creation_date"`
}

func (Rating) TableName() string {
	return "ratings"
}
