// Import-translations applies bulk text corrections from a CSV file with
// translation_id,text columns. All updates run in one transaction: a single
// unknown id rolls the whole file back.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/tanakh-review/api/internal/config"
	"github.com/tanakh-review/api/internal/database"
	"github.com/tanakh-review/api/internal/model"
	"gorm.io/gorm"
)

type update struct {
	TranslationID int64
	Text          string
}

func main() {
	filePath := flag.String("file", "", "Path to CSV file (translation_id,text)")
	flag.Parse()

	if *filePath == "" {
		log.Fatal("-file is required")
	}

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	cfg := config.Load()

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	updates, err := readCSV(*filePath)
	if err != nil {
		log.Fatalf("Failed to read CSV: %v", err)
	}
	log.Printf("Loaded %d updates from %s", len(updates), *filePath)

	err = db.Transaction(func(tx *gorm.DB) error {
		for _, u := range updates {
			result := tx.Model(&model.Translation{}).
				Where("translation_id = ?", u.TranslationID).
				Update("text", u.Text)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return fmt.Errorf("translation %d not found", u.TranslationID)
			}
		}
		return nil
	})
	if err != nil {
		log.Fatalf("Import aborted, no rows changed: %v", err)
	}

	log.Printf("Updated %d translations", len(updates))
}

func readCSV(path string) ([]update, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)

	header, err := reader.Read()
	if err != nil {
		return nil, err
	}
	idCol, textCol := -1, -1
	for i, name := range header {
		switch name {
		case "translation_id":
			idCol = i
		case "text":
			textCol = i
		}
	}
	if idCol < 0 || textCol < 0 {
		return nil, fmt.Errorf("CSV must have translation_id and text columns")
	}

	var updates []update
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		id, err := strconv.ParseInt(record[idCol], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid translation_id %q: %w", record[idCol], err)
		}
		updates = append(updates, update{TranslationID: id, Text: record[textCol]})
	}

	return updates, nil
}
