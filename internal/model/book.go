package model

import "gorm.io/datatypes"

type Section struct {
	ID   int64  `gorm:"column:section_id;primaryKey;autoIncrement" json:"section_id"`
	Name string `gorm:"not null;size:100" json:"name"`
}

func (Section) TableName() string {
	return "sections"
}

// Book metadata holds the raw index payload from the source archive
// (titles, categories, publication info) and is never interpreted here.
type Book struct {
	ID        int64          `gorm:"column:book_id;primaryKey;autoIncrement" json:"book_id"`
	Name      string         `gorm:"uniqueIndex;not null;size:255" json:"name"`
	Length    int            `gorm:"not null" json:"length"`
	SectionID int64          `gorm:"not null;index" json:"section_id"`
	Metadata  datatypes.JSON `json:"metadata"`
}

func (Book) TableName() string {
	return "books"
}
