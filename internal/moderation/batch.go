package moderation

import (
	"context"
	"fmt"

	"github.com/tanakh-review/api/internal/model"
	"gorm.io/gorm"
)

// Op is the closed set of transitions the batch processor can apply.
type Op string

const (
	OpPublish           Op = "publish"
	OpApprove           Op = "approve"
	OpReject            Op = "reject"
	OpViewRating        Op = "view_rating"
	OpDismissRating     Op = "dismiss_rating"
	OpApproveComparison Op = "approve_comparison"
	OpRejectComparison  Op = "reject_comparison"
)

func (op Op) valid() bool {
	switch op {
	case OpPublish, OpApprove, OpReject, OpViewRating, OpDismissRating,
		OpApproveComparison, OpRejectComparison:
		return true
	}
	return false
}

// ApplyBatch applies one transition to every id, in order, inside a single
// transaction. The first failure (unknown id included) rolls the whole batch
// back; there is no partial application and no per-id result. For publish
// batches the ids of the affected passages are returned so callers can
// invalidate any derived page views.
func (e *Engine) ApplyBatch(ctx context.Context, op Op, ids []int64) ([]int64, error) {
	if !op.valid() {
		return nil, fmt.Errorf("unknown batch operation %q", op)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	var passageIDs []int64

	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, id := range ids {
			if err := applyOne(tx, op, id, &passageIDs); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return passageIDs, nil
}

func applyOne(tx *gorm.DB, op Op, id int64, passageIDs *[]int64) error {
	switch op {
	case OpPublish:
		passageID, err := publish(tx, id)
		if err != nil {
			return err
		}
		*passageIDs = append(*passageIDs, passageID)
		return nil
	case OpApprove:
		return setStatus(tx, &model.Translation{}, "translation_id", id, model.TranslationApproved)
	case OpReject:
		return setStatus(tx, &model.Translation{}, "translation_id", id, model.TranslationRejected)
	case OpViewRating:
		return setStatus(tx, &model.Rating{}, "rating_id", id, model.RatingViewed)
	case OpDismissRating:
		return setStatus(tx, &model.Rating{}, "rating_id", id, model.RatingDismissed)
	case OpApproveComparison:
		return setStatus(tx, &model.Comparison{}, "comparison_id", id, model.ComparisonApproved)
	case OpRejectComparison:
		return setStatus(tx, &model.Comparison{}, "comparison_id", id, model.ComparisonRejected)
	}
	return fmt.Errorf("unknown batch operation %q", op)
}
