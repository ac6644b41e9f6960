package files

import (
	"errors"
	"net/http"

	"github.com/atelierhq/agency-backend/internal/realtime"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	store     *Store
	broadcast *realtime.Broadcaster
}

func Register(rg *gin.RouterGroup, store *Store, broadcast *realtime.Broadcaster) {
	h := &Handler{store: store, broadcast: broadcast}

	rg.GET("", h.list)
	rg.POST("/upload", h.upload)
	rg.GET("/:name", h.download)
	rg.DELETE("/:name", h.delete)
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.store.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) upload(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	info, err := h.store.Save(fh)
	if err != nil {
		if errors.Is(err, ErrBadName) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.broadcast.Publish(c.Request.Context(), realtime.EventFileUploaded, info)
	c.JSON(http.StatusOK, info)
}

func (h *Handler) download(c *gin.Context) {
	path, err := h.store.Path(c.Param("name"))
	if err != nil {
		switch {
		case errors.Is(err, ErrBadName):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "File not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.File(path)
}

func (h *Handler) delete(c *gin.Context) {
	name := c.Param("name")
	if err := h.store.Delete(name); err != nil {
		switch {
		case errors.Is(err, ErrBadName):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "File not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	h.broadcast.Publish(c.Request.Context(), realtime.EventFileDeleted, gin.H{"name": name})
	c.JSON(http.StatusOK, gin.H{"message": "File deleted successfully"})
}
