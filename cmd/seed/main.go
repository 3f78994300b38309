// Seed loads a book dump (pages, passages, optional seed translations) into
// the store and can create login users. One-shot administrative tooling; it
// never runs on the serving path.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/tanakh-review/api/internal/config"
	"github.com/tanakh-review/api/internal/database"
	"github.com/tanakh-review/api/internal/model"
	"github.com/tanakh-review/api/internal/pageref"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type bookDump struct {
	Name        string          `json:"name"`
	Length      int             `json:"length"`
	Section     string          `json:"section"`
	Metadata    json.RawMessage `json:"metadata"`
	VersionName string          `json:"version_name"`
	Pages       []pageDump      `json:"pages"`
}

type pageDump struct {
	PageNumber string        `json:"page_number"`
	Passages   []passageDump `json:"passages"`
}

type passageDump struct {
	PassageNumber int    `json:"passage_number"`
	HebrewText    string `json:"hebrew_text"`
	EnglishText   string `json:"english_text"`
}

func main() {
	filePath := flag.String("file", "", "Path to book dump JSON file")
	seedStatus := flag.String("seed-status", "proposed", "Status for seed translations (proposed or published)")
	adminSpec := flag.String("admin", "", "Create an admin user, format username:password")
	userSpec := flag.String("user", "", "Create a standard user, format username:password")
	email := flag.String("email", "", "Email for the created user")
	name := flag.String("name", "", "Display name for the created user")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	status := model.TranslationStatus(*seedStatus)
	if status != model.TranslationProposed && status != model.TranslationPublished {
		log.Fatalf("Invalid seed status %q: must be proposed or published", *seedStatus)
	}

	cfg := config.Load()

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	var seedUserID int64 = 1
	if *adminSpec != "" {
		seedUserID = createUser(db, *adminSpec, *email, *name, model.PrivilegeAdmin)
	}
	if *userSpec != "" {
		seedUserID = createUser(db, *userSpec, *email, *name, model.PrivilegeStandard)
	}

	if *filePath == "" {
		return
	}

	dump, err := loadBookDump(*filePath)
	if err != nil {
		log.Fatalf("Failed to load book dump: %v", err)
	}

	if err := insertBook(db, dump, status, seedUserID); err != nil {
		log.Fatalf("Failed to insert book %s: %v", dump.Name, err)
	}
}

func createUser(db *gorm.DB, spec, email, name, privilege string) int64 {
	parts := strings.SplitN(spec, ":", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		log.Fatalf("Invalid user spec %q: expected username:password", spec)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(parts[1]), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	user := model.User{
		Username:       parts[0],
		Email:          email,
		HashedPassword: string(hashed),
		Name:           name,
		PrivilegeLevel: privilege,
	}
	if err := db.Create(&user).Error; err != nil {
		log.Fatalf("Failed to create user %s: %v", parts[0], err)
	}

	log.Printf("Created %s user %s (id=%d)", privilege, user.Username, user.ID)
	return user.ID
}

func loadBookDump(path string) (*bookDump, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var dump bookDump
	if err := json.Unmarshal(data, &dump); err != nil {
		return nil, err
	}
	return &dump, nil
}

func insertBook(db *gorm.DB, dump *bookDump, status model.TranslationStatus, userID int64) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var existing model.Book
		if err := tx.Where("name = ?", dump.Name).First(&existing).Error; err == nil {
			log.Printf("Book %s already exists (id=%d), skipping", dump.Name, existing.ID)
			return nil
		}

		section := model.Section{Name: dump.Section}
		if err := tx.Where("name = ?", dump.Section).FirstOrCreate(&section).Error; err != nil {
			return err
		}

		book := model.Book{
			Name:      dump.Name,
			Length:    dump.Length,
			SectionID: section.ID,
			Metadata:  datatypes.JSON(dump.Metadata),
		}
		if err := tx.Create(&book).Error; err != nil {
			return err
		}

		passages := 0
		translations := 0
		for _, pageData := range dump.Pages {
			if !pageref.Valid(pageData.PageNumber) {
				return fmt.Errorf("invalid page reference %q in dump", pageData.PageNumber)
			}
			page := model.Page{BookID: book.ID, PageNumber: pageData.PageNumber}
			if err := tx.Create(&page).Error; err != nil {
				return err
			}

			for _, passageData := range pageData.Passages {
				passage := model.Passage{
					PageID:        page.ID,
					BookID:        book.ID,
					HebrewText:    passageData.HebrewText,
					PassageNumber: passageData.PassageNumber,
				}
				if err := tx.Create(&passage).Error; err != nil {
					return err
				}
				passages++

				if passageData.EnglishText == "" {
					continue
				}
				versionName := dump.VersionName
				if versionName == "" {
					versionName = "import"
				}
				translation := model.Translation{
					PassageID:   passage.ID,
					UserID:      userID,
					Text:        passageData.EnglishText,
					VersionName: versionName,
					Status:      status,
				}
				if err := tx.Create(&translation).Error; err != nil {
					return err
				}
				translations++
			}
		}

		log.Printf("Inserted book %s: %d pages, %d passages, %d translations",
			book.Name, len(dump.Pages), passages, translations)
		return nil
	})
}
