package moderation

import (
	"context"
	"errors"
	"testing"

	"github.com/tanakh-review/api/internal/model"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	// :memory: gives each connection its own database; pin to one.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&model.Section{}, &model.Book{}, &model.Page{}, &model.Passage{},
		&model.User{}, &model.Translation{}, &model.Rating{}, &model.Comparison{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

func seedPassage(t *testing.T, db *gorm.DB) *model.Passage {
	t.Helper()

	book := model.Book{Name: "Megillah", Length: 32, SectionID: 1}
	if err := db.Create(&book).Error; err != nil {
		t.Fatalf("failed to seed book: %v", err)
	}
	page := model.Page{BookID: book.ID, PageNumber: "2a"}
	if err := db.Create(&page).Error; err != nil {
		t.Fatalf("failed to seed page: %v", err)
	}
	passage := model.Passage{PageID: page.ID, BookID: book.ID, HebrewText: "בראשית", PassageNumber: 1}
	if err := db.Create(&passage).Error; err != nil {
		t.Fatalf("failed to seed passage: %v", err)
	}
	return &passage
}

func seedTranslation(t *testing.T, db *gorm.DB, passageID int64, status model.TranslationStatus) *model.Translation {
	t.Helper()

	translation := model.Translation{
		PassageID:   passageID,
		UserID:      1,
		Text:        "In the beginning",
		VersionName: model.VersionNameUser,
		Status:      status,
	}
	if err := db.Create(&translation).Error; err != nil {
		t.Fatalf("failed to seed translation: %v", err)
	}
	return &translation
}

func translationStatus(t *testing.T, db *gorm.DB, id int64) model.TranslationStatus {
	t.Helper()

	var translation model.Translation
	if err := db.First(&translation, "translation_id = ?", id).Error; err != nil {
		t.Fatalf("failed to load translation %d: %v", id, err)
	}
	return translation.Status
}

func publishedCount(t *testing.T, db *gorm.DB, passageID int64) int64 {
	t.Helper()

	var count int64
	err := db.Model(&model.Translation{}).
		Where("passage_id = ? AND status = ?", passageID, model.TranslationPublished).
		Count(&count).Error
	if err != nil {
		t.Fatalf("failed to count published translations: %v", err)
	}
	return count
}

func TestSubmit_CreatesProposedTranslation(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db)
	passage := seedPassage(t, db)

	id, err := engine.Submit(context.Background(), passage.ID, 7, "a rendering", "first try")
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	var translation model.Translation
	if err := db.First(&translation, "translation_id = ?", id).Error; err != nil {
		t.Fatalf("submitted translation not found: %v", err)
	}
	if translation.Status != model.TranslationProposed {
		t.Errorf("expected status proposed, got %s", translation.Status)
	}
	if translation.VersionName != model.VersionNameUser {
		t.Errorf("expected version_name %q, got %q", model.VersionNameUser, translation.VersionName)
	}
	if translation.UserID != 7 {
		t.Errorf("expected user_id 7, got %d", translation.UserID)
	}
}

func TestSubmit_MissingPassage(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db)

	_, err := engine.Submit(context.Background(), 9999, 1, "text", "")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSubmit_MultipleProposalsCoexist(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db)
	passage := seedPassage(t, db)

	for i := 0; i < 3; i++ {
		if _, err := engine.Submit(context.Background(), passage.ID, int64(i+1), "text", ""); err != nil {
			t.Fatalf("Submit %d failed: %v", i, err)
		}
	}

	var count int64
	db.Model(&model.Translation{}).Where("passage_id = ?", passage.ID).Count(&count)
	if count != 3 {
		t.Errorf("expected 3 coexisting proposals, got %d", count)
	}
}

func TestPublish_RedactsPreviouslyPublished(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db)
	passage := seedPassage(t, db)

	a := seedTranslation(t, db, passage.ID, model.TranslationPublished)
	b := seedTranslation(t, db, passage.ID, model.TranslationApproved)

	if _, err := engine.ApplyBatch(context.Background(), OpPublish, []int64{b.ID}); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	if got := translationStatus(t, db, a.ID); got != model.TranslationRedacted {
		t.Errorf("expected previous translation redacted, got %s", got)
	}
	if got := translationStatus(t, db, b.ID); got != model.TranslationPublished {
		t.Errorf("expected new translation published, got %s", got)
	}
	if count := publishedCount(t, db, passage.ID); count != 1 {
		t.Errorf("expected exactly 1 published translation, got %d", count)
	}
}

func TestPublish_Idempotent(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db)
	passage := seedPassage(t, db)

	a := seedTranslation(t, db, passage.ID, model.TranslationApproved)
	b := seedTranslation(t, db, passage.ID, model.TranslationApproved)

	for i := 0; i < 2; i++ {
		if _, err := engine.ApplyBatch(context.Background(), OpPublish, []int64{a.ID}); err != nil {
			t.Fatalf("publish %d failed: %v", i, err)
		}
	}

	if got := translationStatus(t, db, a.ID); got != model.TranslationPublished {
		t.Errorf("expected translation still published, got %s", got)
	}
	if got := translationStatus(t, db, b.ID); got != model.TranslationApproved {
		t.Errorf("expected sibling untouched, got %s", got)
	}
	if count := publishedCount(t, db, passage.ID); count != 1 {
		t.Errorf("expected exactly 1 published translation, got %d", count)
	}
}

func TestPublish_NotFound(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db)

	_, err := engine.ApplyBatch(context.Background(), OpPublish, []int64{12345})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestApproveAndReject_ValidateExistenceUniformly(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db)

	// Reject is validated the same way as approve: unknown ids abort.
	for _, op := range []Op{OpApprove, OpReject} {
		if _, err := engine.ApplyBatch(context.Background(), op, []int64{777}); !errors.Is(err, ErrNotFound) {
			t.Errorf("%s: expected ErrNotFound, got %v", op, err)
		}
	}
}

func TestApproveAndReject_SetStatus(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db)
	passage := seedPassage(t, db)

	a := seedTranslation(t, db, passage.ID, model.TranslationProposed)
	b := seedTranslation(t, db, passage.ID, model.TranslationProposed)

	if _, err := engine.ApplyBatch(context.Background(), OpApprove, []int64{a.ID}); err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if _, err := engine.ApplyBatch(context.Background(), OpReject, []int64{b.ID}); err != nil {
		t.Fatalf("reject failed: %v", err)
	}

	if got := translationStatus(t, db, a.ID); got != model.TranslationApproved {
		t.Errorf("expected approved, got %s", got)
	}
	if got := translationStatus(t, db, b.ID); got != model.TranslationRejected {
		t.Errorf("expected rejected, got %s", got)
	}
}

func TestSubmitRating_Lifecycle(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db)
	passage := seedPassage(t, db)
	translation := seedTranslation(t, db, passage.ID, model.TranslationProposed)

	id, err := engine.SubmitRating(context.Background(), 3, translation.ID, 4.5, "solid")
	if err != nil {
		t.Fatalf("SubmitRating failed: %v", err)
	}

	var rating model.Rating
	if err := db.First(&rating, "rating_id = ?", id).Error; err != nil {
		t.Fatalf("rating not found: %v", err)
	}
	if rating.Status != model.RatingNotViewed {
		t.Errorf("expected status %q, got %q", model.RatingNotViewed, rating.Status)
	}

	if _, err := engine.ApplyBatch(context.Background(), OpViewRating, []int64{id}); err != nil {
		t.Fatalf("view failed: %v", err)
	}
	db.First(&rating, "rating_id = ?", id)
	if rating.Status != model.RatingViewed {
		t.Errorf("expected viewed, got %s", rating.Status)
	}

	if _, err := engine.ApplyBatch(context.Background(), OpDismissRating, []int64{id}); err != nil {
		t.Fatalf("dismiss failed: %v", err)
	}
	db.First(&rating, "rating_id = ?", id)
	if rating.Status != model.RatingDismissed {
		t.Errorf("expected dismissed, got %s", rating.Status)
	}
}

func TestSubmitRating_MissingTranslation(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db)

	_, err := engine.SubmitRating(context.Background(), 1, 9999, 3, "")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSubmitComparison_DefaultsAndTransitions(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db)
	passage := seedPassage(t, db)
	one := seedTranslation(t, db, passage.ID, model.TranslationProposed)
	two := seedTranslation(t, db, passage.ID, model.TranslationProposed)

	cmp := model.Comparison{TranslationOneID: one.ID, TranslationTwoID: two.ID, Rating: 1}
	id, err := engine.SubmitComparison(context.Background(), &cmp)
	if err != nil {
		t.Fatalf("SubmitComparison failed: %v", err)
	}

	var stored model.Comparison
	if err := db.First(&stored, "comparison_id = ?", id).Error; err != nil {
		t.Fatalf("comparison not found: %v", err)
	}
	if stored.Status != model.ComparisonProposed {
		t.Errorf("expected default status proposed, got %s", stored.Status)
	}

	if _, err := engine.ApplyBatch(context.Background(), OpApproveComparison, []int64{id}); err != nil {
		t.Fatalf("approve comparison failed: %v", err)
	}
	db.First(&stored, "comparison_id = ?", id)
	if stored.Status != model.ComparisonApproved {
		t.Errorf("expected approved, got %s", stored.Status)
	}

	// Approving a comparison has no cross-row side effect.
	if got := translationStatus(t, db, one.ID); got != model.TranslationProposed {
		t.Errorf("expected translation untouched, got %s", got)
	}
}

func TestSubmitComparison_MissingReference(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db)
	passage := seedPassage(t, db)
	one := seedTranslation(t, db, passage.ID, model.TranslationProposed)

	cmp := model.Comparison{TranslationOneID: one.ID, TranslationTwoID: 9999}
	if _, err := engine.SubmitComparison(context.Background(), &cmp); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSubmitComparison_InvalidStatus(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db)

	cmp := model.Comparison{TranslationOneID: 1, TranslationTwoID: 2, Status: "bogus"}
	if _, err := engine.SubmitComparison(context.Background(), &cmp); err == nil {
		t.Error("expected error for invalid status")
	}
}
