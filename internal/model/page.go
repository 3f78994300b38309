package model

// Page is a folio side within a book, e.g. "2a". Ordering of page numbers
// is handled by the pageref package, not by this column's collation.
type Page struct {
	ID         int64  `gorm:"column:page_id;primaryKey;autoIncrement" json:"page_id"`
	BookID     int64  `gorm:"not null;index" json:"book_id"`
	PageNumber string `gorm:"not null;size:10" json:"page_number"`
}

func (Page) TableName() string {
	return "pages"
}
