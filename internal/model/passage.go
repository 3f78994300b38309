package model

type Passage struct {
	ID            int64  `gorm:"column:passage_id;primaryKey;autoIncrement" json:"passage_id"`
	PageID        int64  `gorm:"not null;index" json:"page_id"`
	BookID        int64  `gorm:"not null;index" json:"book_id"`
	HebrewText    string `gorm:"type:text;not null" json:"hebrew_text"`
	PassageNumber int    `gorm:"not null" json:"passage_number"`
}

func (Passage) TableName() string {
	return "passages"
}
