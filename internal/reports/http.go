package reports

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	repo *Repo
}

func Register(rg *gin.RouterGroup, repo *Repo) {
	h := &Handler{repo: repo}

	rg.GET("/time/projects", h.timeByProject)
	rg.GET("/time/members", h.timeByMember)
}

func (h *Handler) timeByProject(c *gin.Context) {
	items, err := h.repo.TimeByProject(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) timeByMember(c *gin.Context) {
	items, err := h.repo.TimeByMember(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, items)
}
