package album

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{Store: store}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/album", h.create)
	rg.GET("/album/:name", h.get)
	rg.POST("/album/:name/add_cards", h.addCards)
	rg.GET("/album/:name/cards", h.listCards)
}

func (h *Handler) create(c *gin.Context) {
	var a Album
	if err := c.ShouldBindJSON(&a); err != nil || strings.TrimSpace(a.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "album_name required"})
		return
	}
	if err := h.Store.Save(a.Name, &a); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "album saved"})
}

func (h *Handler) get(c *gin.Context) {
	a, err := h.Store.Load(c.Param("name"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if a == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "album not found"})
		return
	}
	c.JSON(http.StatusOK, a)
}

type addCardsReq struct {
	CardID       string `json:"card_id"`
	CountNormal  *int   `json:"count_normal"`
	CountReverse *int   `json:"count_reverse"`
}

func (h *Handler) addCards(c *gin.Context) {
	var req addCardsReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.CardID) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "card_id required"})
		return
	}
	normal, reverse := 1, 0
	if req.CountNormal != nil {
		normal = *req.CountNormal
	}
	if req.CountReverse != nil {
		reverse = *req.CountReverse
	}

	if _, err := h.Store.AddCard(c.Param("name"), req.CardID, normal, reverse); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "card added"})
}

func (h *Handler) listCards(c *gin.Context) {
	a, err := h.Store.Load(c.Param("name"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if a == nil {
		c.JSON(http.StatusOK, gin.H{"cards": []Card{}, "total_cards": 0})
		return
	}
	c.JSON(http.StatusOK, gin.H{"cards": a.Cards, "total_cards": a.TotalCards()})
}
