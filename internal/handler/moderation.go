package handler

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tanakh-review/api/internal/assembly"
	"github.com/tanakh-review/api/internal/cache"
	"github.com/tanakh-review/api/internal/middleware"
	"github.com/tanakh-review/api/internal/moderation"
)

// ModerationHandler exposes the admin batch endpoints. Every endpoint binds
// a list of ids, applies one transition to all of them atomically, and
// reports a single success or failure for the whole batch.
type ModerationHandler struct {
	engine *moderation.Engine
	store  *assembly.Store
	cache  *cache.RedisCache
}

func NewModerationHandler(engine *moderation.Engine, store *assembly.Store, redisCache *cache.RedisCache) *ModerationHandler {
	return &ModerationHandler{engine: engine, store: store, cache: redisCache}
}

type TranslationBatchRequest struct {
	TranslationIDs []int64 `json:"translation_ids" binding:"required"`
}

type RatingBatchRequest struct {
	RatingIDs []int64 `json:"rating_ids" binding:"required"`
}

type ComparisonBatchRequest struct {
	ComparisonIDs []int64 `json:"comparison_ids" binding:"required"`
}

func (h *ModerationHandler) PublishEdits(c *gin.Context) {
	var req TranslationBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "translation_ids is required"})
		return
	}

	passageIDs, err := h.engine.ApplyBatch(c.Request.Context(), moderation.OpPublish, req.TranslationIDs)
	middleware.RecordBatch(string(moderation.OpPublish), err == nil, len(req.TranslationIDs))
	if err != nil {
		h.batchError(c, "Error publishing edits", err)
		return
	}

	h.purgePages(c.Request.Context(), passageIDs)

	c.JSON(http.StatusOK, gin.H{"message": "Edits published successfully"})
}

func (h *ModerationHandler) ApproveEdits(c *gin.Context) {
	h.translationBatch(c, moderation.OpApprove, "Edits approved successfully", "Error approving edits")
}

func (h *ModerationHandler) RejectEdits(c *gin.Context) {
	h.translationBatch(c, moderation.OpReject, "Edits rejected successfully", "Error rejecting edits")
}

func (h *ModerationHandler) translationBatch(c *gin.Context, op moderation.Op, okMsg, errMsg string) {
	var req TranslationBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "translation_ids is required"})
		return
	}

	_, err := h.engine.ApplyBatch(c.Request.Context(), op, req.TranslationIDs)
	middleware.RecordBatch(string(op), err == nil, len(req.TranslationIDs))
	if err != nil {
		h.batchError(c, errMsg, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": okMsg})
}

func (h *ModerationHandler) ViewRatings(c *gin.Context) {
	h.ratingBatch(c, moderation.OpViewRating, "Ratings viewed successfully", "Error viewing ratings")
}

func (h *ModerationHandler) DismissRatings(c *gin.Context) {
	h.ratingBatch(c, moderation.OpDismissRating, "Ratings dismissed successfully", "Error dismissing ratings")
}

func (h *ModerationHandler) ratingBatch(c *gin.Context, op moderation.Op, okMsg, errMsg string) {
	var req RatingBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "rating_ids is required"})
		return
	}

	_, err := h.engine.ApplyBatch(c.Request.Context(), op, req.RatingIDs)
	middleware.RecordBatch(string(op), err == nil, len(req.RatingIDs))
	if err != nil {
		h.batchError(c, errMsg, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": okMsg})
}

func (h *ModerationHandler) ApproveComparisons(c *gin.Context) {
	h.comparisonBatch(c, moderation.OpApproveComparison, "Comparisons approved successfully", "Error approving comparisons")
}

func (h *ModerationHandler) RejectComparisons(c *gin.Context) {
	h.comparisonBatch(c, moderation.OpRejectComparison, "Comparisons rejected successfully", "Error rejecting comparisons")
}

func (h *ModerationHandler) comparisonBatch(c *gin.Context, op moderation.Op, okMsg, errMsg string) {
	var req ComparisonBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "comparison_ids is required"})
		return
	}

	_, err := h.engine.ApplyBatch(c.Request.Context(), op, req.ComparisonIDs)
	middleware.RecordBatch(string(op), err == nil, len(req.ComparisonIDs))
	if err != nil {
		h.batchError(c, errMsg, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": okMsg})
}

// batchError maps a failed batch to a response. Unknown ids are client
// errors; anything else stays opaque.
func (h *ModerationHandler) batchError(c *gin.Context, msg string, err error) {
	if errors.Is(err, moderation.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	log.Printf("%s: %v", msg, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}

// purgePages drops cached published-page views whose passages just changed.
// Cache trouble is logged, not surfaced: the publish already committed.
func (h *ModerationHandler) purgePages(ctx context.Context, passageIDs []int64) {
	if h.cache == nil || len(passageIDs) == 0 {
		return
	}

	refs, err := h.store.PagesForPassages(ctx, passageIDs)
	if err != nil {
		log.Printf("Failed to resolve pages for cache purge: %v", err)
		return
	}

	keys := make([]string, 0, len(refs))
	for _, ref := range refs {
		keys = append(keys, cache.PageKey(ref.Book, ref.Page))
	}
	if err := h.cache.Delete(ctx, keys...); err != nil {
		log.Printf("Failed to purge page cache: %v", err)
	}
}
