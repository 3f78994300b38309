package handler

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ListingHandler serves the admin triage tables: filtered, paginated
// listings of edits, ratings and comparisons with their join context.
type ListingHandler struct {
	db *gorm.DB
}

func NewListingHandler(db *gorm.DB) *ListingHandler {
	return &ListingHandler{db: db}
}

func listingParams(c *gin.Context) (page, limit int, fetchAll bool) {
	page, _ = strconv.Atoi(c.DefaultQuery("currentPage", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	fetchAll, _ = strconv.ParseBool(c.DefaultQuery("fetchAll", "false"))

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit, fetchAll
}

type EditRow struct {
	TranslationID int64     `json:"translation_id"`
	Text          string    `json:"text"`
	Notes         string    `json:"notes"`
	CreationDate  time.Time `json:"creation_date"`
	Status        string    `json:"status"`
	HebrewText    string    `json:"hebrew_text"`
	PageNumber    string    `json:"page_number"`
	PassageID     int64     `json:"passage_id"`
	BookName      string    `json:"book_name"`
	Username      string    `json:"username"`
}

// AllEdits lists translations with passage/book/user context, filtered by
// status and ILIKE substring matches on book, page number and username.
func (h *ListingHandler) AllEdits(c *gin.Context) {
	page, limit, fetchAll := listingParams(c)
	offset := (page - 1) * limit

	query := h.db.Table("translations").
		Select(`translations.translation_id, translations.text, translations.notes,
			translations.creation_date, translations.status,
			passages.hebrew_text, pages.page_number, passages.passage_id,
			books.name AS book_name, users.username`).
		Joins("JOIN passages ON translations.passage_id = passages.passage_id").
		Joins("JOIN pages ON passages.page_id = pages.page_id").
		Joins("JOIN books ON pages.book_id = books.book_id").
		Joins("JOIN users ON translations.user_id = users.user_id")

	if status := c.Query("status"); status != "" && status != "all" {
		query = query.Where("translations.status = ?", status)
	}
	if book := c.Query("book"); book != "" {
		query = query.Where("books.name ILIKE ?", "%"+book+"%")
	}
	if pageNumber := c.Query("page_number"); pageNumber != "" {
		query = query.Where("pages.page_number ILIKE ?", "%"+pageNumber+"%")
	}
	if username := c.Query("username"); username != "" {
		query = query.Where("users.username ILIKE ?", "%"+username+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		log.Printf("Error counting edits: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error fetching edits"})
		return
	}

	if !fetchAll {
		query = query.Limit(limit).Offset(offset)
	}

	var edits []EditRow
	if err := query.Scan(&edits).Error; err != nil {
		log.Printf("Error fetching edits: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error fetching edits"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"edits":      edits,
		"totalPages": totalPages(total, limit),
	})
}

type RatingRow struct {
	RatingID          int64     `json:"rating_id"`
	Rating            float64   `json:"rating"`
	Feedback          string    `json:"feedback"`
	CreationDate      time.Time `json:"creation_date"`
	Status            string    `json:"status"`
	Text              string    `json:"text"`
	TranslationStatus string    `json:"translation_status"`
	HebrewText        string    `json:"hebrew_text"`
	PassageID         int64     `json:"passage_id"`
	PageNumber        string    `json:"page_number"`
	BookName          string    `json:"book_name"`
	Username          string    `json:"username"`
}

// AllRatings lists ratings with the rated translation and its context.
func (h *ListingHandler) AllRatings(c *gin.Context) {
	page, limit, fetchAll := listingParams(c)
	offset := (page - 1) * limit

	query := h.db.Table("ratings").
		Select(`ratings.rating_id, ratings.rating, ratings.feedback,
			ratings.creation_date, ratings.status,
			translations.text, translations.status AS translation_status,
			passages.hebrew_text, passages.passage_id, pages.page_number,
			books.name AS book_name, users.username`).
		Joins("JOIN translations ON ratings.translation_id = translations.translation_id").
		Joins("JOIN passages ON translations.passage_id = passages.passage_id").
		Joins("JOIN pages ON passages.page_id = pages.page_id").
		Joins("JOIN books ON pages.book_id = books.book_id").
		Joins("JOIN users ON ratings.user_id = users.user_id")

	if username := c.Query("username"); username != "" {
		query = query.Where("users.username ILIKE ?", "%"+username+"%")
	}
	if ts := c.Query("translation_status"); ts != "" && ts != "all" {
		query = query.Where("translations.status = ?", ts)
	}
	if rs := c.Query("rating_status"); rs != "" && rs != "all" {
		query = query.Where("ratings.status = ?", rs)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		log.Printf("Error counting ratings: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error fetching ratings"})
		return
	}

	if !fetchAll {
		query = query.Limit(limit).Offset(offset)
	}

	var ratings []RatingRow
	if err := query.Scan(&ratings).Error; err != nil {
		log.Printf("Error fetching ratings: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error fetching ratings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ratings":    ratings,
		"totalPages": totalPages(total, limit),
	})
}

type ComparisonRow struct {
	ComparisonID     int64     `json:"comparison_id"`
	Rating           float64   `json:"rating"`
	VersionName      string    `json:"version_name"`
	Status           string    `json:"status"`
	Notes            string    `json:"notes"`
	CreationDate     time.Time `json:"creation_date"`
	TranslationOneID int64     `json:"translation_one_id"`
	TextOne          string    `json:"text_one"`
	TranslationTwoID int64     `json:"translation_two_id"`
	TextTwo          string    `json:"text_two"`
	HebrewText       string    `json:"hebrew_text"`
	PassageID        int64     `json:"passage_id"`
	PageNumber       string    `json:"page_number"`
	BookName         string    `json:"book_name"`
}

// AllComparisons lists comparisons with both candidate texts, anchored on
// the first translation's passage for display context.
func (h *ListingHandler) AllComparisons(c *gin.Context) {
	page, limit, fetchAll := listingParams(c)
	offset := (page - 1) * limit

	query := h.db.Table("comparisons").
		Select(`comparisons.comparison_id, comparisons.rating, comparisons.version_name,
			comparisons.status, comparisons.notes, comparisons.creation_date,
			t1.translation_id AS translation_one_id, t1.text AS text_one,
			t2.translation_id AS translation_two_id, t2.text AS text_two,
			passages.hebrew_text, passages.passage_id, pages.page_number,
			books.name AS book_name`).
		Joins("JOIN translations t1 ON comparisons.translation_one_id = t1.translation_id").
		Joins("JOIN translations t2 ON comparisons.translation_two_id = t2.translation_id").
		Joins("JOIN passages ON t1.passage_id = passages.passage_id").
		Joins("JOIN pages ON passages.page_id = pages.page_id").
		Joins("JOIN books ON pages.book_id = books.book_id")

	if status := c.Query("status"); status != "" && status != "all" {
		query = query.Where("comparisons.status = ?", status)
	}
	if book := c.Query("book"); book != "" {
		query = query.Where("books.name ILIKE ?", "%"+book+"%")
	}
	if version := c.Query("version_name"); version != "" {
		query = query.Where("comparisons.version_name ILIKE ?", "%"+version+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		log.Printf("Error counting comparisons: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error fetching comparisons"})
		return
	}

	if !fetchAll {
		query = query.Limit(limit).Offset(offset)
	}

	var comparisons []ComparisonRow
	if err := query.Scan(&comparisons).Error; err != nil {
		log.Printf("Error fetching comparisons: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error fetching comparisons"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"comparisons": comparisons,
		"totalPages":  totalPages(total, limit),
	})
}

func totalPages(total int64, limit int) int {
	return int((total + int64(limit) - 1) / int64(limit))
}
