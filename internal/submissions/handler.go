package submissions

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler accepts public submissions and appends them to the sheet.
type Handler struct {
	Store   Store
	Limiter *RateLimiter
	Now     func() time.Time
	Logger  *zap.Logger
}

func NewHandler(store Store, limiter *RateLimiter, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{Store: store, Limiter: limiter, Now: time.Now, Logger: logger}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.submit) // POST /submissions
}

type submitResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

func (h *Handler) submit(c *gin.Context) {
	var f Form
	if err := c.ShouldBind(&f); err != nil {
		c.JSON(http.StatusBadRequest, submitResult{Error: "invalid request body"})
		return
	}

	if f.IsSpam() {
		h.Logger.Info("honeypot triggered", zap.String("ip", c.ClientIP()))
		c.JSON(http.StatusBadRequest, submitResult{Error: "Spam detected."})
		return
	}
	if h.Limiter != nil && !h.Limiter.Allow() {
		c.JSON(http.StatusTooManyRequests, submitResult{Error: "Too many submissions. Please try again later."})
		return
	}

	row, err := f.Check(h.Now())
	if err != nil {
		var fe *FormError
		if errors.As(err, &fe) {
			c.JSON(http.StatusBadRequest, submitResult{Error: fe.Message})
			return
		}
		if errors.Is(err, ErrSpam) {
			c.JSON(http.StatusBadRequest, submitResult{Error: "Spam detected."})
			return
		}
		h.Logger.Error("check submission", zap.Error(err))
		c.JSON(http.StatusInternalServerError, submitResult{Error: "Something went wrong. Please try again later."})
		return
	}

	if err := h.Store.Append(c.Request.Context(), row); err != nil {
		h.Logger.Error("append submission", zap.Error(err))
		c.JSON(http.StatusInternalServerError, submitResult{Error: "Something went wrong. Please try again later."})
		return
	}

	h.Logger.Info("submission stored", zap.String("title", row.Title))
	c.JSON(http.StatusOK, submitResult{Success: true})
}
