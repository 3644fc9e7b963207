package submissions

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// AdminHandler exposes the reviewer to signed-in administrators.
type AdminHandler struct {
	Reviewer *Reviewer
}

func NewAdminHandler(r *Reviewer) *AdminHandler {
	return &AdminHandler{Reviewer: r}
}

func (h *AdminHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.pending)             // GET /admin/submissions
	rg.GET("/stats", h.stats)         // GET /admin/submissions/stats
	rg.POST("/:n/approve", h.approve) // POST /admin/submissions/:n/approve
	rg.POST("/:n/reject", h.reject)   // POST /admin/submissions/:n/reject
}

func (h *AdminHandler) pending(c *gin.Context) {
	items, err := h.Reviewer.Pending(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "sheet unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"total": len(items), "items": items})
}

func (h *AdminHandler) stats(c *gin.Context) {
	st, err := h.Reviewer.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "sheet unavailable"})
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *AdminHandler) approve(c *gin.Context) {
	n, ok := rowParam(c)
	if !ok {
		return
	}
	dryRun, _ := strconv.ParseBool(c.Query("dry_run"))
	a, err := h.Reviewer.Approve(c.Request.Context(), n, dryRun)
	if err != nil {
		writeReviewError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"row": a.N, "case": a.Case, "total": a.Total, "written": a.Written})
}

func (h *AdminHandler) reject(c *gin.Context) {
	n, ok := rowParam(c)
	if !ok {
		return
	}
	row, err := h.Reviewer.Reject(c.Request.Context(), n)
	if err != nil {
		writeReviewError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"row": n, "title": row.Title, "status": row.Status})
}

func rowParam(c *gin.Context) (int, bool) {
	n, err := strconv.Atoi(c.Param("n"))
	if err != nil || n < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid row number"})
		return 0, false
	}
	return n, true
}

func writeReviewError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrRowOutOfRange):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, ErrNotPending), errors.Is(err, ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, ErrInvalid):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "review failed"})
	}
}
