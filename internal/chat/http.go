package chat

import (
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

// Register mounts the project and task message threads on their parent
// resource groups.
func Register(projects, tasks *gin.RouterGroup, repo *Repo, broadcast *realtime.Broadcaster) {
	h := &Handler{repo: repo, broadcast: broadcast}

	projects.GET("/:id/messages", h.listByProject)
	projects.POST("/:id/messages", h.createForProject)
	tasks.GET("/:id/messages", h.listByTask)
	tasks.POST("/:id/messages", h.createForTask)
}

type messageReq struct {
	MemberID *int64  `json:"member_id"`
	Content  string  `json:"content"`
	Mentions []int64 `json:"mentions"`
}

func (h *Handler) listByProject(c *gin.Context) {
	projectID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
		return
	}

	items, err := h.repo.ListByProject(c.Request.Context(), projectID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) listByTask(c *gin.Context) {
	taskID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		return
	}

	items, err := h.repo.ListByTask(c.Request.Context(), taskID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) createForProject(c *gin.Context) {
	projectID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
		return
	}
	h.create(c, &projectID, nil)
}

func (h *Handler) createForTask(c *gin.Context) {
	taskID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		return
	}
	h.create(c, nil, &taskID)
}

func (h *Handler) create(c *gin.Context, projectID, taskID *int64) {
	var req messageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "content is required"})
		return
	}

	msg, err := h.repo.Create(c.Request.Context(), MessageParams{
		ProjectID: projectID,
		TaskID:    taskID,
		MemberID:  req.MemberID,
		Content:   req.Content,
		Mentions:  req.Mentions,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.broadcast.Publish(c.Request.Context(), realtime.EventMessageCreated, msg)
	c.JSON(http.StatusOK, msg)
}
