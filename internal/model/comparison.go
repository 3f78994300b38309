package model

import "time"

type ComparisonStatus string

const (
	ComparisonProposed ComparisonStatus = "proposed"
	ComparisonApproved ComparisonStatus = "approved"
	ComparisonRejected ComparisonStatus = "rejected"
)

func (s ComparisonStatus) Valid() bool {
	switch s {
	case ComparisonProposed, ComparisonApproved, ComparisonRejected:
		return true
	}
	return false
}

// Comparison records a judged preference between two candidate translations
// of the same passage. The pair is order-significant: "one" is the baseline,
// "two" the challenger; rating expresses the delta between them.
type Comparison struct {
	ID               int64            `gorm:"column:comparison_id;primaryKey;autoIncrement" json:"comparison_id"`
	TranslationOneID int64            `gorm:"not null;index" json:"translation_one_id"`
	TranslationTwoID int64            `gorm:"not null;index" json:"translation_two_id"`
	Rating           float64          `json:"rating"`
	VersionName      string           `gorm:"size:100" json:"version_name"`
	Status           ComparisonStatus `gorm:"not null;size:20;default:'proposed'" json:"status"`
	Notes            string           `gorm:"type:text" json:"notes"`
	CreationDate     time.Time        `gorm:"column:creation_date;autoCreateTime" json:"creation_date"`
}

func (Comparison) TableName() string {
	return "comparisons"
}
