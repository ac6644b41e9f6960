package invoices

import (
	"errors"
	"net/http"
	"strconv"
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
	rg.GET("/status/overdue", h.listOverdue)
	rg.GET("/project/:projectId", h.listByProject)
	rg.GET("/:id", h.get)
	rg.POST("", h.create)
	rg.PUT("/:id", h.update)
	rg.DELETE("/:id", h.delete)
}

type invoiceReq struct {
	ProjectID   *int64     `json:"project_id"`
	ClientID    *int64     `json:"client_id"`
	Amount      float64    `json:"amount"`
	Status      string     `json:"status"`
	DueDate     *time.Time `json:"due_date"`
	PaymentDate *time.Time `json:"payment_date"`
	Notes       *string    `json:"notes"`
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.repo.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) listOverdue(c *gin.Context) {
	items, err := h.repo.ListOverdue(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) listByProject(c *gin.Context) {
	projectID, err := strconv.ParseInt(c.Param("projectId"), 10, 64)
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

func (h *Handler) get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid invoice id"})
		return
	}

	inv, err := h.repo.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Invoice not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, inv)
}

func (h *Handler) create(c *gin.Context) {
	var req invoiceReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	inv, err := h.repo.Create(c.Request.Context(), InvoiceParams(req))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.broadcast.Publish(c.Request.Context(), realtime.EventInvoiceCreated, inv)
	c.JSON(http.StatusOK, inv)
}

func (h *Handler) update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid invoice id"})
		return
	}

	var req invoiceReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	inv, err := h.repo.Update(c.Request.Context(), id, InvoiceParams(req))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Invoice not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.broadcast.Publish(c.Request.Context(), realtime.EventInvoiceUpdated, inv)
	c.JSON(http.StatusOK, inv)
}

func (h *Handler) delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid invoice id"})
		return
	}

	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Invoice not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.broadcast.Publish(c.Request.Context(), realtime.EventInvoiceDeleted, gin.H{"id": id})
	c.JSON(http.StatusOK, gin.H{"message": "Invoice deleted successfully"})
}
