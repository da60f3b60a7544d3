package share

import (
	"github.com/gin-gonic/gin"

	"resume-builder/internal/shared/apperr"
	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/share/email", h.email)
}

func (h *Handler) email(c *gin.Context) {
	var in Input
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.Fail(c, apperr.Validation("invalid request body"))
		return
	}
	c.Set("resumeId", in.ResumeID)
	c.Set("exportFormat", in.Format)
	res, err := h.Svc.Email(c.Request.Context(), middleware.UserIDFromContext(c), in)
	if err != nil {
		respond.Fail(c, err)
		return
	}
	message := "Resume sent"
	if res.Mock {
		message = "Email transport not configured; resume rendered but not sent"
	}
	respond.OK(c, gin.H{
		"mock":     res.Mock,
		"filename": res.Filename,
		"format":   res.Format,
		"message":  message,
	})
}
