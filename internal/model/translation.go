package model

import "time"

// TranslationStatus is the moderation state of a candidate translation.
// Transitions: proposed -> approved/rejected, approved -> published,
// published -> redacted (when a newer candidate is published).
// rejected and redacted are terminal; a reversal is a new row.
type TranslationStatus string

const (
	TranslationProposed  TranslationStatus = "proposed"
	TranslationApproved  TranslationStatus = "approved"
	TranslationRejected  TranslationStatus = "rejected"
	TranslationPublished TranslationStatus = "published"
	TranslationRedacted  TranslationStatus = "redacted"
)

func (s TranslationStatus) Valid() bool {
	switch s {
	case TranslationProposed, TranslationApproved, TranslationRejected,
		TranslationPublished, TranslationRedacted:
		return true
	}
	return false
}

// VersionNameUser labels translations submitted through the edit endpoint,
// as opposed to named imports (e.g. a source archive or a model run).
const VersionNameUser = "user"

// Translation text, version_name and notes are written once at creation;
// only status changes afterwards. Corrections are new rows.
type Translation struct {
	ID           int64             `gorm:"column:translation_id;primaryKey;autoIncrement" json:"translation_id"`
	PassageID    int64             `gorm:"not null;index" json:"passage_id"`
	UserID       int64             `gorm:"not null;index" json:"user_id"`
	Text         string            `gorm:"type:text;not null" json:"text"`
	VersionName  string            `gorm:"not null;size:100" json:"version_name"`
	Status       TranslationStatus `gorm:"not null;size:20;default:'proposed'" json:"status"`
	Notes        string            `gorm:"type:text" json:"notes"`
	CreationDate time.Time         `gorm:"column:creation_date;autoCreateTime" json:"creation_date"`
}

func (Translation) TableName() string {
	return "translations"
}
