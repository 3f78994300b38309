package database

import (
	"github.com/tanakh-review/api/internal/config"
	"github.com/tanakh-review/api/internal/model"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func Connect(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})
	if err != nil {
		return nil, err
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.Section{},
		&model.Book{},
		&model.Page{},
		&model.Passage{},
		&model.User{},
		&model.Translation{},
		&model.Rating{},
		&model.Comparison{},
		&model.RefreshToken{},
		&model.ReadingProgress{},
	)
	if err != nil {
		return err
	}

	// The published-lookup join and the publish redaction step both probe
	// translations by (passage_id, status).
	db.Exec("CREATE INDEX IF NOT EXISTS idx_translations_passage_status ON translations(passage_id, status)")

	// One page number per book.
	db.Exec("CREATE UNIQUE INDEX IF NOT EXISTS idx_pages_book_page_number ON pages(book_id, page_number)")

	return nil
}
