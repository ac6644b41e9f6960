package members

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
	rg.GET("/availability", h.availability)
	rg.POST("", h.create)
	rg.PUT("/:id", h.update)
	rg.DELETE("/:id", h.delete)
}

type memberReq struct {
	Name               string   `json:"name"`
	Email              *string  `json:"email"`
	Role               *string  `json:"role"`
	Skills             []string `json:"skills"`
	HourlyRate         *float64 `json:"hourly_rate"`
	AvailabilityStatus string   `json:"availability_status"`
}

func (req *memberReq) params() MemberParams {
	return MemberParams{
		Name:               strings.TrimSpace(req.Name),
		Email:              req.Email,
		Role:               req.Role,
		Skills:             req.Skills,
		HourlyRate:         req.HourlyRate,
		AvailabilityStatus: req.AvailabilityStatus,
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

func (h *Handler) availability(c *gin.Context) {
	items, err := h.repo.ListAvailability(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) create(c *gin.Context) {
	var req memberReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	member, err := h.repo.Create(c.Request.Context(), req.params())
	if err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Email already in use"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.broadcast.Publish(c.Request.Context(), realtime.EventMemberCreated, member)
	c.JSON(http.StatusOK, member)
}

func (h *Handler) update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid team member id"})
		return
	}

	var req memberReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	member, err := h.repo.Update(c.Request.Context(), id, req.params())
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "Team member not found"})
		case errors.Is(err, ErrDuplicateEmail):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Email already in use"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	h.broadcast.Publish(c.Request.Context(), realtime.EventMemberUpdated, member)
	c.JSON(http.StatusOK, member)
}

func (h *Handler) delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid team member id"})
		return
	}

	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, ErrHasAssignments):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Cannot delete team member with assigned tasks"})
		case errors.Is(err, ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "Team member not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	h.broadcast.Publish(c.Request.Context(), realtime.EventMemberDeleted, gin.H{"id": id})
	c.JSON(http.StatusOK, gin.H{"message": "Team member deleted successfully"})
}
