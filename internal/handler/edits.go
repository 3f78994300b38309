package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tanakh-review/api/internal/model"
	"github.com/tanakh-review/api/internal/moderation"
	"gorm.io/gorm"
)

// EditsHandler covers the user-facing submission endpoints: candidate
// translations, ratings and comparisons.
type EditsHandler struct {
	db     *gorm.DB
	engine *moderation.Engine
}

func NewEditsHandler(db *gorm.DB, engine *moderation.Engine) *EditsHandler {
	return &EditsHandler{db: db, engine: engine}
}

type SubmitEditRequest struct {
	PassageID  int64  `json:"passage_id" binding:"required"`
	EditedText string `json:"edited_text" binding:"required"`
	Notes      string `json:"notes"`
}

func (h *EditsHandler) SubmitEdit(c *gin.Context) {
	var req SubmitEditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "passage_id and edited_text are required"})
		return
	}

	userID := c.GetInt64("userID")

	id, err := h.engine.Submit(c.Request.Context(), req.PassageID, userID, req.EditedText, req.Notes)
	if err != nil {
		if errors.Is(err, moderation.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "passage not found"})
			return
		}
		log.Printf("Error submitting edit: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error submitting edit"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id, "message": "Edit submitted successfully"})
}

type SubmitRatingRequest struct {
	TranslationID int64   `json:"translation_id" binding:"required"`
	Rating        float64 `json:"rating" binding:"required"`
	Feedback      string  `json:"feedback"`
}

func (h *EditsHandler) SubmitRating(c *gin.Context) {
	var req SubmitRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "translation_id and rating are required"})
		return
	}

	userID := c.GetInt64("userID")

	id, err := h.engine.SubmitRating(c.Request.Context(), userID, req.TranslationID, req.Rating, req.Feedback)
	if err != nil {
		if errors.Is(err, moderation.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "translation not found"})
			return
		}
		log.Printf("Error submitting rating: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error submitting rating"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id, "message": "Rating submitted successfully"})
}

type SubmitComparisonRequest struct {
	TranslationOneID int64   `json:"translation_one_id" binding:"required"`
	TranslationTwoID int64   `json:"translation_two_id" binding:"required"`
	Rating           float64 `json:"rating"`
	VersionName      string  `json:"version_name"`
	Status           string  `json:"status"`
	Notes            string  `json:"notes"`
}

func (h *EditsHandler) SubmitComparison(c *gin.Context) {
	var req SubmitComparisonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "translation_one_id and translation_two_id are required"})
		return
	}

	cmp := model.Comparison{
		TranslationOneID: req.TranslationOneID,
		TranslationTwoID: req.TranslationTwoID,
		Rating:           req.Rating,
		VersionName:      req.VersionName,
		Status:           model.ComparisonStatus(req.Status),
		Notes:            req.Notes,
	}

	id, err := h.engine.SubmitComparison(c.Request.Context(), &cmp)
	if err != nil {
		if errors.Is(err, moderation.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "translation not found"})
			return
		}
		if !cmp.Status.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid comparison status"})
			return
		}
		log.Printf("Error submitting comparison: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error submitting comparison"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id, "message": "Comparison submitted successfully"})
}
