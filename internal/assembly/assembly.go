// Package assembly joins passages with the right translation rows for a
// page view. A selector picks which candidate accompanies each passage:
// the currently published one, an explicitly named version, or all of them.
package assembly

import (
	"context"
	"errors"
	"time"

	"github.com/tanakh-review/api/internal/model"
	"gorm.io/gorm"
)

type Selector string

const (
	SelectorPublished Selector = "published"
	SelectorAll       Selector = "all"
	// Any other value names an explicit translation version.
)

var ErrMissingArgument = errors.New("book and page are required")

// PassageView is the flat page row: one passage, at most one translation.
// EnglishText is the empty string, never null, when no translation matches.
type PassageView struct {
	ID            int64  `json:"id"`
	HebrewText    string `json:"hebrew_text"`
	EnglishText   string `json:"english_text"`
	PassageNumber int    `json:"passage_number"`
	TranslationID *int64 `json:"translation_id"`
	VersionName   string `json:"version_name,omitempty"`
	Length        int    `json:"length"`
}

// Candidate is one translation inside a grouped comparison view.
type Candidate struct {
	TranslationID int64                   `json:"translation_id"`
	Text          string                  `json:"text"`
	VersionName   string                  `json:"version_name"`
	Status        model.TranslationStatus `json:"status"`
	Notes         string                  `json:"notes,omitempty"`
	CreationDate  time.Time               `json:"creation_date"`
}

// ComparisonPassage carries every candidate for a passage, for side-by-side
// review. Passages with no candidates appear with an empty list.
type ComparisonPassage struct {
	ID            int64       `json:"id"`
	HebrewText    string      `json:"hebrew_text"`
	PassageNumber int         `json:"passage_number"`
	Translations  []Candidate `json:"translations"`
}

// PageRef names a page by book name and page number, the unit of cache
// invalidation after a publish.
type PageRef struct {
	Book string `gorm:"column:name" json:"book"`
	Page string `gorm:"column:page_number" json:"page"`
}

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

type passageRow struct {
	PassageID     int64
	HebrewText    string
	PassageNumber int
	EnglishText   *string
	TranslationID *int64
	VersionName   *string
	Length        int
}

// GetPage returns the passages of one page in passage order, each joined to
// the translation the selector picks. For SelectorAll the result is one row
// per (passage, translation) pair actually in storage.
func (s *Store) GetPage(ctx context.Context, book, page string, sel Selector) ([]PassageView, error) {
	if book == "" || page == "" {
		return nil, ErrMissingArgument
	}

	q := s.db.WithContext(ctx).Table("passages").
		Select(`passages.passage_id, passages.hebrew_text, passages.passage_number,
			translations.text AS english_text, translations.translation_id,
			translations.version_name, books.length`).
		Joins("JOIN pages ON passages.page_id = pages.page_id").
		Joins("JOIN books ON passages.book_id = books.book_id")

	switch sel {
	case SelectorPublished:
		q = q.Joins(
			"LEFT JOIN translations ON translations.passage_id = passages.passage_id AND translations.status = ?",
			model.TranslationPublished).
			Order("passages.passage_number ASC")
	case SelectorAll:
		q = q.Joins("JOIN translations ON translations.passage_id = passages.passage_id").
			Order("passages.passage_number ASC, translations.translation_id ASC")
	default:
		// Explicit version. The data model allows several rows per
		// (passage, version); the lowest translation_id wins so the
		// result is deterministic.
		q = q.Joins(
			`LEFT JOIN translations ON translations.passage_id = passages.passage_id
				AND translations.version_name = ?
				AND translations.translation_id = (
					SELECT MIN(t2.translation_id) FROM translations t2
					WHERE t2.passage_id = passages.passage_id AND t2.version_name = ?)`,
			string(sel), string(sel)).
			Order("passages.passage_number ASC")
	}

	var rows []passageRow
	if err := q.Where("books.name = ? AND pages.page_number = ?", book, page).
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	views := make([]PassageView, 0, len(rows))
	for _, row := range rows {
		view := PassageView{
			ID:            row.PassageID,
			HebrewText:    row.HebrewText,
			PassageNumber: row.PassageNumber,
			TranslationID: row.TranslationID,
			Length:        row.Length,
		}
		if row.EnglishText != nil {
			view.EnglishText = *row.EnglishText
		}
		if row.VersionName != nil {
			view.VersionName = *row.VersionName
		}
		views = append(views, view)
	}

	return views, nil
}

type comparisonRow struct {
	PassageID     int64
	HebrewText    string
	PassageNumber int
	TranslationID *int64
	Text          *string
	VersionName   *string
	Status        *string
	Notes         *string
	CreationDate  *time.Time
}

// GetComparisonPage groups every candidate translation under its passage so
// the caller receives {passage, translations: [...]} rather than flat rows.
func (s *Store) GetComparisonPage(ctx context.Context, book, page string) ([]ComparisonPassage, error) {
	if book == "" || page == "" {
		return nil, ErrMissingArgument
	}

	var rows []comparisonRow
	err := s.db.WithContext(ctx).Table("passages").
		Select(`passages.passage_id, passages.hebrew_text, passages.passage_number,
			translations.translation_id, translations.text, translations.version_name,
			translations.status, translations.notes, translations.creation_date`).
		Joins("JOIN pages ON passages.page_id = pages.page_id").
		Joins("JOIN books ON passages.book_id = books.book_id").
		Joins("LEFT JOIN translations ON translations.passage_id = passages.passage_id").
		Where("books.name = ? AND pages.page_number = ?", book, page).
		Order("passages.passage_number ASC, translations.translation_id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	var result []ComparisonPassage
	byPassage := make(map[int64]int)
	for _, row := range rows {
		idx, ok := byPassage[row.PassageID]
		if !ok {
			result = append(result, ComparisonPassage{
				ID:            row.PassageID,
				HebrewText:    row.HebrewText,
				PassageNumber: row.PassageNumber,
				Translations:  []Candidate{},
			})
			idx = len(result) - 1
			byPassage[row.PassageID] = idx
		}
		if row.TranslationID == nil {
			continue
		}
		candidate := Candidate{
			TranslationID: *row.TranslationID,
			Text:          deref(row.Text),
			VersionName:   deref(row.VersionName),
			Status:        model.TranslationStatus(deref(row.Status)),
			Notes:         deref(row.Notes),
		}
		if row.CreationDate != nil {
			candidate.CreationDate = *row.CreationDate
		}
		result[idx].Translations = append(result[idx].Translations, candidate)
	}

	return result, nil
}

// GetTranslationVersions lists the distinct version names present on a page.
func (s *Store) GetTranslationVersions(ctx context.Context, book, page string) ([]string, error) {
	if book == "" || page == "" {
		return nil, ErrMissingArgument
	}

	var versions []string
	err := s.db.WithContext(ctx).Table("translations").
		Distinct("translations.version_name").
		Joins("JOIN passages ON translations.passage_id = passages.passage_id").
		Joins("JOIN pages ON passages.page_id = pages.page_id").
		Joins("JOIN books ON passages.book_id = books.book_id").
		Where("books.name = ? AND pages.page_number = ?", book, page).
		Order("translations.version_name ASC").
		Pluck("translations.version_name", &versions).Error
	if err != nil {
		return nil, err
	}

	return versions, nil
}

// PassageDetail is the by-ids lookup row, with book/page context attached.
type PassageDetail struct {
	PassageID     int64  `json:"passage_id"`
	HebrewText    string `json:"hebrew_text"`
	Text          string `json:"text"`
	TranslationID int64  `json:"translation_id"`
	Name          string `json:"name"`
	PageNumber    string `json:"page_number"`
}

// GetPassagesByIDs returns the requested passages joined to each of their
// translations, with book name and page number for display.
func (s *Store) GetPassagesByIDs(ctx context.Context, ids []int64) ([]PassageDetail, error) {
	var details []PassageDetail
	err := s.db.WithContext(ctx).Table("passages").
		Select(`passages.passage_id, passages.hebrew_text, translations.text,
			translations.translation_id, books.name, pages.page_number`).
		Joins("JOIN pages ON passages.page_id = pages.page_id").
		Joins("JOIN books ON passages.book_id = books.book_id").
		Joins("JOIN translations ON passages.passage_id = translations.passage_id").
		Where("passages.passage_id IN ?", ids).
		Order("passages.passage_id ASC, translations.translation_id ASC").
		Scan(&details).Error
	if err != nil {
		return nil, err
	}

	return details, nil
}

// PagesForPassages resolves the (book, page) pairs the given passages live
// on. Used to purge cached page views after their published text changes.
func (s *Store) PagesForPassages(ctx context.Context, passageIDs []int64) ([]PageRef, error) {
	if len(passageIDs) == 0 {
		return nil, nil
	}

	var refs []PageRef
	err := s.db.WithContext(ctx).Table("passages").
		Distinct("books.name, pages.page_number").
		Joins("JOIN pages ON passages.page_id = pages.page_id").
		Joins("JOIN books ON passages.book_id = books.book_id").
		Where("passages.passage_id IN ?", passageIDs).
		Scan(&refs).Error
	if err != nil {
		return nil, err
	}

	return refs, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
