package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tanakh-review/api/internal/client"
)

// QueryHandler proxies retrieval questions and answer feedback to the
// external query service.
type QueryHandler struct {
	client *client.QueryClient
}

func NewQueryHandler(queryClient *client.QueryClient) *QueryHandler {
	return &QueryHandler{client: queryClient}
}

func (h *QueryHandler) Query(c *gin.Context) {
	query := c.Query("query")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query is required"})
		return
	}

	result, err := h.client.Query(c.Request.Context(), query)
	if err != nil {
		log.Printf("Error querying retrieval service: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error querying retrieval service"})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *QueryHandler) Feedback(c *gin.Context) {
	score := c.Query("score")
	runID := c.Query("run_id")
	if score == "" || runID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "score and run_id are required"})
		return
	}

	result, err := h.client.Feedback(c.Request.Context(), score, c.Query("comment"), runID)
	if err != nil {
		log.Printf("Error submitting feedback: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error submitting feedback"})
		return
	}

	c.JSON(http.StatusOK, result)
}
