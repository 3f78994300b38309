// Package moderation implements the translation lifecycle: how candidate
// translations, their ratings and pairwise comparisons move through review
// statuses, and the batch processor admins drive those transitions with.
package moderation

import (
	"context"
	"errors"
	"fmt"

	"github.com/tanakh-review/api/internal/model"
	"gorm.io/gorm"
)

// ErrNotFound marks a referenced row (translation, passage, rating,
// comparison) that does not exist. Inside a batch it aborts the whole
// transaction.
var ErrNotFound = errors.New("not found")

type Engine struct {
	db *gorm.DB
}

func NewEngine(db *gorm.DB) *Engine {
	return &Engine{db: db}
}

// Submit creates a proposed translation for a passage. Multiple proposals
// for the same passage coexist; there is no uniqueness rule here.
func (e *Engine) Submit(ctx context.Context, passageID, userID int64, text, notes string) (int64, error) {
	var translation model.Translation

	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var passage model.Passage
		if err := tx.Select("passage_id").First(&passage, "passage_id = ?", passageID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("passage %d: %w", passageID, ErrNotFound)
			}
			return err
		}

		translation = model.Translation{
			PassageID:   passageID,
			UserID:      userID,
			Text:        text,
			VersionName: model.VersionNameUser,
			Status:      model.TranslationProposed,
			Notes:       notes,
		}
		return tx.Create(&translation).Error
	})
	if err != nil {
		return 0, err
	}

	return translation.ID, nil
}

// SubmitRating records a reviewer's judgment of one translation. The rating
// starts untriaged and only moves through the batch processor.
func (e *Engine) SubmitRating(ctx context.Context, userID, translationID int64, score float64, feedback string) (int64, error) {
	var rating model.Rating

	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := translationExists(tx, translationID); err != nil {
			return err
		}

		rating = model.Rating{
			TranslationID: translationID,
			UserID:        userID,
			Rating:        score,
			Feedback:      feedback,
			Status:        model.RatingNotViewed,
		}
		return tx.Create(&rating).Error
	})
	if err != nil {
		return 0, err
	}

	return rating.ID, nil
}

// SubmitComparison records a judged preference between two translations.
// Both rows must exist; the comparison is created whole in one call.
func (e *Engine) SubmitComparison(ctx context.Context, cmp *model.Comparison) (int64, error) {
	if cmp.Status == "" {
		cmp.Status = model.ComparisonProposed
	}
	if !cmp.Status.Valid() {
		return 0, fmt.Errorf("invalid comparison status %q", cmp.Status)
	}

	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := translationExists(tx, cmp.TranslationOneID); err != nil {
			return err
		}
		if err := translationExists(tx, cmp.TranslationTwoID); err != nil {
			return err
		}
		return tx.Create(cmp).Error
	})
	if err != nil {
		return 0, err
	}

	return cmp.ID, nil
}

func translationExists(tx *gorm.DB, id int64) error {
	var count int64
	if err := tx.Model(&model.Translation{}).Where("translation_id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("translation %d: %w", id, ErrNotFound)
	}
	return nil
}

// publish promotes one translation to the single published rendering of its
// passage. Any previously published sibling is redacted first, inside the
// same transaction, so the at-most-one-published invariant holds even under
// concurrent publishes: the redaction UPDATE takes row locks on the
// passage's published rows and serializes competing transactions.
// Publishing an already-published row is a no-op in observable state.
func publish(tx *gorm.DB, translationID int64) (passageID int64, err error) {
	var translation model.Translation
	if err := tx.Select("translation_id, passage_id").
		First(&translation, "translation_id = ?", translationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, fmt.Errorf("translation %d: %w", translationID, ErrNotFound)
		}
		return 0, err
	}

	if err := tx.Model(&model.Translation{}).
		Where("passage_id = ? AND status = ?", translation.PassageID, model.TranslationPublished).
		Update("status", model.TranslationRedacted).Error; err != nil {
		return 0, err
	}

	if err := tx.Model(&model.Translation{}).
		Where("translation_id = ?", translationID).
		Update("status", model.TranslationPublished).Error; err != nil {
		return 0, err
	}

	return translation.PassageID, nil
}

// setStatus applies an unconditional status update to one row of the given
// model, reporting ErrNotFound when no row matched. Existence is validated
// uniformly for every operation, reject included.
func setStatus(tx *gorm.DB, entity interface{}, idColumn string, id int64, status interface{}) error {
	result := tx.Model(entity).Where(idColumn+" = ?", id).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%s %d: %w", idColumn, id, ErrNotFound)
	}
	return nil
}
