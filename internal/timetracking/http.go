package timetracking

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/atelierhq/agency-backend/internal/realtime"
	"github.com/gin-gonic/gin"
)

// Controller is the timer surface the handlers talk to. Start and Stop carry
// the single-active-timer rule; the rest is plain entry CRUD.
type Controller interface {
	List(ctx context.Context) ([]Entry, error)
	Start(ctx context.Context, p StartParams) (*Entry, error)
	Stop(ctx context.Context, id int64) (*Entry, error)
	Create(ctx context.Context, p EntryParams) (*Entry, error)
	Update(ctx context.Context, id int64, p EntryParams) (*Entry, error)
	Delete(ctx context.Context, id int64) error
}

type Handler struct {
	ctrl      Controller
	broadcast *realtime.Broadcaster
}

func Register(rg *gin.RouterGroup, ctrl Controller, broadcast *realtime.Broadcaster) {
	h := &Handler{ctrl: ctrl, broadcast: broadcast}

	rg.GET("", h.list)
	rg.POST("/start", h.start)
	rg.PUT("/:id/stop", h.stop)
	rg.POST("", h.create)
	rg.PUT("/:id", h.update)
	rg.DELETE("/:id", h.delete)
}

type startReq struct {
	ProjectID *int64     `json:"project_id"`
	TaskID    *int64     `json:"task_id"`
	MemberID  *int64     `json:"member_id"`
	StartTime *time.Time `json:"start_time"`
}

type entryReq struct {
	ProjectID   *int64     `json:"project_id"`
	TaskID      *int64     `json:"task_id"`
	MemberID    *int64     `json:"member_id"`
	StartTime   *time.Time `json:"start_time"`
	EndTime     *time.Time `json:"end_time"`
	Description *string    `json:"description"`
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.ctrl.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) start(c *gin.Context) {
	var req startReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	entry, err := h.ctrl.Start(c.Request.Context(), StartParams{
		ProjectID: req.ProjectID,
		TaskID:    req.TaskID,
		MemberID:  req.MemberID,
		StartTime: req.StartTime,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrTimerRunning):
			c.JSON(http.StatusBadRequest, gin.H{"error": "There is already an active timer"})
		case errors.Is(err, ErrInvalidEntry):
			c.JSON(http.StatusBadRequest, gin.H{"error": "project_id is required"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	h.broadcast.Publish(c.Request.Context(), realtime.EventTimerStarted, entry)
	c.JSON(http.StatusOK, entry)
}

func (h *Handler) stop(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid entry id"})
		return
	}

	entry, err := h.ctrl.Stop(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "Time entry not found"})
		case errors.Is(err, ErrAlreadyStopped):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Time entry is already stopped"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	h.broadcast.Publish(c.Request.Context(), realtime.EventTimerStopped, entry)
	c.JSON(http.StatusOK, entry)
}

func (h *Handler) create(c *gin.Context) {
	var req entryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	entry, err := h.ctrl.Create(c.Request.Context(), EntryParams(req))
	if err != nil {
		if errors.Is(err, ErrInvalidEntry) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.broadcast.Publish(c.Request.Context(), realtime.EventTimeEntryCreated, entry)
	c.JSON(http.StatusOK, entry)
}

func (h *Handler) update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid entry id"})
		return
	}

	var req entryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	entry, err := h.ctrl.Update(c.Request.Context(), id, EntryParams(req))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "Time entry not found"})
		case errors.Is(err, ErrInvalidEntry):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	h.broadcast.Publish(c.Request.Context(), realtime.EventTimeEntryUpdated, entry)
	c.JSON(http.StatusOK, entry)
}

func (h *Handler) delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid entry id"})
		return
	}

	if err := h.ctrl.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Time entry not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.broadcast.Publish(c.Request.Context(), realtime.EventTimeEntryDeleted, gin.H{"id": id})
	c.JSON(http.StatusOK, gin.H{"message": "Time entry deleted successfully"})
}
