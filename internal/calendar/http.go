package calendar

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

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
	rg.GET("/:id", h.get)
	rg.POST("", h.create)
	rg.PUT("/:id", h.update)
	rg.DELETE("/:id", h.delete)
}

type eventReq struct {
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	StartTime   *time.Time `json:"start_time"`
	EndTime     *time.Time `json:"end_time"`
	EventType   string     `json:"event_type"`
	ProjectID   *int64     `json:"project_id"`
	CreatedBy   *int64     `json:"created_by"`
}

func (req *eventReq) validate() error {
	if strings.TrimSpace(req.Title) == "" {
		return errors.New("title is required")
	}
	if req.StartTime == nil || req.EndTime == nil {
		return errors.New("start_time and end_time are required")
	}
	return nil
}

func (req *eventReq) params() EventParams {
	return EventParams{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		StartTime:   *req.StartTime,
		EndTime:     *req.EndTime,
		EventType:   req.EventType,
		ProjectID:   req.ProjectID,
		CreatedBy:   req.CreatedBy,
	}
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.repo.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	event, err := h.repo.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Event not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, event)
}

func (h *Handler) create(c *gin.Context) {
	var req eventReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	if err := req.validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event, err := h.repo.Create(c.Request.Context(), req.params())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.broadcast.Publish(c.Request.Context(), realtime.EventCalendarEventCreated, event)
	c.JSON(http.StatusOK, event)
}

func (h *Handler) update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	var req eventReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	if err := req.validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event, err := h.repo.Update(c.Request.Context(), id, req.params())
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Event not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.broadcast.Publish(c.Request.Context(), realtime.EventCalendarEventUpdated, event)
	c.JSON(http.StatusOK, event)
}

func (h *Handler) delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Event not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.broadcast.Publish(c.Request.Context(), realtime.EventCalendarEventDeleted, gin.H{"id": id})
	c.JSON(http.StatusOK, gin.H{"message": "Event deleted successfully"})
}
