package moderation

import (
	"context"
	"errors"
	"testing"

	"github.com/tanakh-review/api/internal/model"
)

func TestApplyBatch_UnknownOperation(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db)

	if _, err := engine.ApplyBatch(context.Background(), Op("promote"), []int64{1}); err == nil {
		t.Error("expected error for unknown operation")
	}
}

func TestApplyBatch_EmptyIDsIsNoOp(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db)

	passages, err := engine.ApplyBatch(context.Background(), OpApprove, nil)
	if err != nil {
		t.Fatalf("empty batch failed: %v", err)
	}
	if passages != nil {
		t.Errorf("expected nil passage ids, got %v", passages)
	}
}

func TestApplyBatch_RollsBackOnMissingID(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db)
	passage := seedPassage(t, db)

	first := seedTranslation(t, db, passage.ID, model.TranslationProposed)
	third := seedTranslation(t, db, passage.ID, model.TranslationProposed)

	_, err := engine.ApplyBatch(context.Background(), OpApprove, []int64{first.ID, 9999, third.ID})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	// The id before the failure must be rolled back too.
	if got := translationStatus(t, db, first.ID); got != model.TranslationProposed {
		t.Errorf("expected first translation rolled back to proposed, got %s", got)
	}
	if got := translationStatus(t, db, third.ID); got != model.TranslationProposed {
		t.Errorf("expected third translation untouched, got %s", got)
	}
}

func TestApplyBatch_PublishRollsBackWholeBatch(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db)
	passage := seedPassage(t, db)

	published := seedTranslation(t, db, passage.ID, model.TranslationPublished)
	candidate := seedTranslation(t, db, passage.ID, model.TranslationApproved)

	_, err := engine.ApplyBatch(context.Background(), OpPublish, []int64{candidate.ID, 9999})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	// The failed batch must not have swapped the published row.
	if got := translationStatus(t, db, published.ID); got != model.TranslationPublished {
		t.Errorf("expected original publication intact, got %s", got)
	}
	if got := translationStatus(t, db, candidate.ID); got != model.TranslationApproved {
		t.Errorf("expected candidate rolled back to approved, got %s", got)
	}
}

func TestApplyBatch_PublishReturnsPassageIDs(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db)
	passage := seedPassage(t, db)

	a := seedTranslation(t, db, passage.ID, model.TranslationApproved)

	other := model.Passage{PageID: 1, BookID: passage.BookID, HebrewText: "ויאמר", PassageNumber: 2}
	if err := db.Create(&other).Error; err != nil {
		t.Fatalf("failed to seed passage: %v", err)
	}
	b := seedTranslation(t, db, other.ID, model.TranslationApproved)

	passages, err := engine.ApplyBatch(context.Background(), OpPublish, []int64{a.ID, b.ID})
	if err != nil {
		t.Fatalf("publish batch failed: %v", err)
	}

	if len(passages) != 2 || passages[0] != passage.ID || passages[1] != other.ID {
		t.Errorf("expected passage ids [%d %d], got %v", passage.ID, other.ID, passages)
	}
}

func TestApplyBatch_LastPublishWinsWithinBatch(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db)
	passage := seedPassage(t, db)

	a := seedTranslation(t, db, passage.ID, model.TranslationApproved)
	b := seedTranslation(t, db, passage.ID, model.TranslationApproved)

	// Publishing two candidates for the same passage in one batch applies
	// in order: the later id ends up published, the earlier one redacted.
	if _, err := engine.ApplyBatch(context.Background(), OpPublish, []int64{a.ID, b.ID}); err != nil {
		t.Fatalf("publish batch failed: %v", err)
	}

	if got := translationStatus(t, db, a.ID); got != model.TranslationRedacted {
		t.Errorf("expected earlier candidate redacted, got %s", got)
	}
	if got := translationStatus(t, db, b.ID); got != model.TranslationPublished {
		t.Errorf("expected later candidate published, got %s", got)
	}
	if count := publishedCount(t, db, passage.ID); count != 1 {
		t.Errorf("expected exactly 1 published translation, got %d", count)
	}
}
