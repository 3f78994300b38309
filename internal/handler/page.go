package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tanakh-review/api/internal/assembly"
	"github.com/tanakh-review/api/internal/cache"
	"github.com/tanakh-review/api/internal/middleware"
	"github.com/tanakh-review/api/internal/model"
	"github.com/tanakh-review/api/internal/pageref"
	"gorm.io/gorm"
)

// PageHandler serves the read path: assembled pages, comparison views,
// version lists and book metadata.
type PageHandler struct {
	db    *gorm.DB
	store *assembly.Store
	cache *cache.RedisCache
}

func NewPageHandler(db *gorm.DB, store *assembly.Store, redisCache *cache.RedisCache) *PageHandler {
	return &PageHandler{db: db, store: store, cache: redisCache}
}

// GetPage returns the passages of a page joined to translations per the
// translation_version selector (default: published). Published-mode
// responses are cached until the next publish touches the page.
func (h *PageHandler) GetPage(c *gin.Context) {
	book := c.Query("book")
	page := c.Query("page")
	if book == "" || page == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "book and page are required"})
		return
	}

	selector := assembly.Selector(c.DefaultQuery("translation_version", string(assembly.SelectorPublished)))

	ctx := c.Request.Context()

	if selector == assembly.SelectorPublished && h.cache != nil {
		if cached, err := h.cache.Get(ctx, cache.PageKey(book, page)); err == nil {
			middleware.RecordPageFetch(true, string(selector))
			c.Data(http.StatusOK, "application/json", cached)
			return
		}
	}

	views, err := h.store.GetPage(ctx, book, page, selector)
	if err != nil {
		log.Printf("Error fetching page %s/%s: %v", book, page, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error fetching page"})
		return
	}
	middleware.RecordPageFetch(false, string(selector))

	if selector == assembly.SelectorPublished && h.cache != nil {
		if payload, err := json.Marshal(views); err == nil {
			if err := h.cache.Set(ctx, cache.PageKey(book, page), payload); err != nil {
				log.Printf("Failed to cache page %s/%s: %v", book, page, err)
			}
		}
	}

	c.JSON(http.StatusOK, views)
}

// GetComparisonPage returns each passage with its full candidate list.
func (h *PageHandler) GetComparisonPage(c *gin.Context) {
	book := c.Query("book")
	page := c.Query("page")
	if book == "" || page == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "book and page are required"})
		return
	}

	passages, err := h.store.GetComparisonPage(c.Request.Context(), book, page)
	if err != nil {
		log.Printf("Error fetching comparison page %s/%s: %v", book, page, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error fetching comparison page"})
		return
	}

	c.JSON(http.StatusOK, passages)
}

// GetTranslationVersions lists the distinct version names on a page.
func (h *PageHandler) GetTranslationVersions(c *gin.Context) {
	book := c.Query("book")
	page := c.Query("page")

	versions, err := h.store.GetTranslationVersions(c.Request.Context(), book, page)
	if err != nil {
		if errors.Is(err, assembly.ErrMissingArgument) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "book and page are required"})
			return
		}
		log.Printf("Error fetching translation versions %s/%s: %v", book, page, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error fetching translation versions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"versions": versions})
}

// GetBookInfo returns one book row by name, with its page numbers in
// reading order ("2a", "2b", "10a" — not lexicographic).
func (h *PageHandler) GetBookInfo(c *gin.Context) {
	name := c.Query("book")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "book is required"})
		return
	}

	var book model.Book
	if err := h.db.Where("name = ?", name).First(&book).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "book not found"})
			return
		}
		log.Printf("Error fetching book info: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error fetching book info"})
		return
	}

	var pages []string
	if err := h.db.Model(&model.Page{}).
		Where("book_id = ?", book.ID).
		Pluck("page_number", &pages).Error; err != nil {
		log.Printf("Error fetching pages for book %s: %v", name, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error fetching book info"})
		return
	}
	pageref.Sort(pages)

	c.JSON(http.StatusOK, gin.H{"book": book, "pages": pages})
}

// GetPassagesByIDs returns an arbitrary set of passages with their
// translations and book/page context. IDs come comma-separated.
func (h *PageHandler) GetPassagesByIDs(c *gin.Context) {
	raw := c.Query("passage_ids")
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "passage_ids is required"})
		return
	}

	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid passage id: " + part})
			return
		}
		ids = append(ids, id)
	}

	details, err := h.store.GetPassagesByIDs(c.Request.Context(), ids)
	if err != nil {
		log.Printf("Error getting passages by IDs: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error getting passages by IDs"})
		return
	}

	c.JSON(http.StatusOK, details)
}
