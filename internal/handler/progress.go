package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tanakh-review/api/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProgressHandler tracks the last position a user read per book. It is a
// pure upsert projection, outside the moderation lifecycle.
type ProgressHandler struct {
	db *gorm.DB
}

func NewProgressHandler(db *gorm.DB) *ProgressHandler {
	return &ProgressHandler{db: db}
}

type UpdateProgressRequest struct {
	BookID          int64 `json:"book_id" binding:"required"`
	LastReadPage    int64 `json:"last_read_page" binding:"required"`
	LastReadPassage int64 `json:"last_read_passage" binding:"required"`
}

func (h *ProgressHandler) UpdateProgress(c *gin.Context) {
	var req UpdateProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "book_id, last_read_page and last_read_passage are required"})
		return
	}

	userID := c.GetInt64("userID")

	progress := model.ReadingProgress{
		UserID:          userID,
		BookID:          req.BookID,
		LastReadPage:    req.LastReadPage,
		LastReadPassage: req.LastReadPassage,
		UpdatedAt:       time.Now(),
	}

	err := h.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "book_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"last_read_page", "last_read_passage", "updated_at"}),
	}).Create(&progress).Error
	if err != nil {
		log.Printf("Error updating reading progress: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error updating reading progress"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Reading progress updated successfully"})
}

type progressRow struct {
	BookID          int64  `json:"book_id"`
	BookName        string `json:"book_name"`
	PageNumber      string `json:"page_number"`
	LastReadPassage int64  `json:"last_read_passage"`
}

// GetProgress returns the most recently updated position, optionally scoped
// to one book.
func (h *ProgressHandler) GetProgress(c *gin.Context) {
	userID := c.GetInt64("userID")

	query := h.db.Table("reading_progress").
		Select(`reading_progress.book_id, books.name AS book_name,
			pages.page_number, reading_progress.last_read_passage`).
		Joins("JOIN books ON reading_progress.book_id = books.book_id").
		Joins("JOIN pages ON reading_progress.last_read_page = pages.page_id").
		Where("reading_progress.user_id = ?", userID)

	if bookID := c.Query("book_id"); bookID != "" {
		id, err := strconv.ParseInt(bookID, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid book_id"})
			return
		}
		query = query.Where("reading_progress.book_id = ?", id)
	}

	var row progressRow
	err := query.Order("reading_progress.updated_at DESC").Limit(1).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no reading progress found"})
			return
		}
		log.Printf("Error fetching reading progress: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error fetching reading progress"})
		return
	}

	c.JSON(http.StatusOK, row)
}
