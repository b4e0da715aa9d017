package search

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Index *Index
}

func NewHandler(ix *Index) *Handler {
	return &Handler{Index: ix}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/search", h.search)
	rg.GET("/cards/details", h.cardDetails)
}

func (h *Handler) search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusOK, []Match{})
		return
	}
	c.JSON(http.StatusOK, h.Index.Search(query, DefaultLimit))
}

func (h *Handler) cardDetails(c *gin.Context) {
	cardID := strings.TrimSpace(c.Query("card_id"))
	if cardID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "card_id required"})
		return
	}
	card := h.Index.ByID(cardID)
	if card == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "card not found"})
		return
	}
	c.JSON(http.StatusOK, card)
}
