package clients

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/atelierhq/agency-backend/internal/realtime"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	repo      *Repo
	broadcast *realtime.Broadcaster
}

func Register(rg *gin.RouterGroup, repo *Repo, broadcast *realtime.Broadcaster) {
	h := &Handler{repo: repo, broadcast: broadcast}

	rg.GET("", h.list)
	rg.POST("", h.create)
	rg.PUT("/:id", h.update)
	rg.DELETE("/:id", h.delete)
}

type clientReq struct {
	Name  string  `json:"name"`
	Email *string `json:"email"`
	Phone *string `json:"phone"`
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.repo.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) create(c *gin.Context) {
	var req clientReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	client, err := h.repo.Create(c.Request.Context(), strings.TrimSpace(req.Name), req.Email, req.Phone)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.broadcast.Publish(c.Request.Context(), realtime.EventClientCreated, client)
	c.JSON(http.StatusOK, client)
}

func (h *Handler) update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid client id"})
		return
	}

	var req clientReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	client, err := h.repo.Update(c.Request.Context(), id, strings.TrimSpace(req.Name), req.Email, req.Phone)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Client not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.broadcast.Publish(c.Request.Context(), realtime.EventClientUpdated, client)
	c.JSON(http.StatusOK, client)
}

func (h *Handler) delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid client id"})
		return
	}

	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, ErrHasProjects):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Cannot delete client with associated projects"})
		case errors.Is(err, ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "Client not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	h.broadcast.Publish(c.Request.Context(), realtime.EventClientDeleted, gin.H{"id": id})
	c.JSON(http.StatusOK, gin.H{"message": "Client deleted successfully"})
}
