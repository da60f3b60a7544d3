package resumes

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/export"
	"resume-builder/internal/shared/apperr"
	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches resume routes to a session-protected group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/templates", h.templates)
	rg.POST("/resumes", h.create)
	rg.GET("/resumes", h.list)
	rg.GET("/resumes/:id", h.get)
	rg.PUT("/resumes/:id", h.update)
	rg.DELETE("/resumes/:id", h.delete)
	rg.POST("/resumes/:id/export", h.export)
	rg.GET("/resumes/:id/pdf", h.pdf)
}

func (h *Handler) templates(c *gin.Context) {
	ids := export.Templates()
	items := make([]gin.H, 0, len(ids))
	for _, id := range ids {
		style := export.ResolveStyle(id)
		items = append(items, gin.H{
			"id":          style.ID,
			"fontFamily":  style.FontFamily,
			"accentColor": "#" + style.AccentColor,
			"default":     id == export.DefaultTemplate,
		})
	}
	respond.OK(c, gin.H{"templates": items})
}

func (h *Handler) create(c *gin.Context) {
	var in CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.Fail(c, apperr.Validation("invalid request body"))
		return
	}
	resume, err := h.Svc.Create(c.Request.Context(), middleware.UserIDFromContext(c), in)
	if err != nil {
		respond.Fail(c, err)
		return
	}
	c.Set("resumeId", resume.ID)
	respond.Created(c, gin.H{"resume": resume})
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.Svc.List(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		respond.Fail(c, err)
		return
	}
	respond.OK(c, gin.H{"resumes": items})
}

func (h *Handler) get(c *gin.Context) {
	resumeID := c.Param("id")
	c.Set("resumeId", resumeID)
	resume, err := h.Svc.Get(c.Request.Context(), middleware.UserIDFromContext(c), resumeID)
	if err != nil {
		respond.Fail(c, err)
		return
	}
	respond.OK(c, gin.H{"resume": resume})
}

func (h *Handler) update(c *gin.Context) {
	resumeID := c.Param("id")
	c.Set("resumeId", resumeID)
	var in UpdateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.Fail(c, apperr.Validation("invalid request body"))
		return
	}
	resume, err := h.Svc.Update(c.Request.Context(), middleware.UserIDFromContext(c), resumeID, in)
	if err != nil {
		respond.Fail(c, err)
		return
	}
	respond.OK(c, gin.H{"resume": resume})
}

func (h *Handler) delete(c *gin.Context) {
	resumeID := c.Param("id")
	c.Set("resumeId", resumeID)
	if err := h.Svc.Delete(c.Request.Context(), middleware.UserIDFromContext(c), resumeID); err != nil {
		respond.Fail(c, err)
		return
	}
	respond.OK(c, gin.H{"message": "resume deleted"})
}

func (h *Handler) export(c *gin.Context) {
	resumeID := c.Param("id")
	c.Set("resumeId", resumeID)
	var in ExportInput
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&in); err != nil {
			respond.Fail(c, apperr.Validation("invalid request body"))
			return
		}
	}
	c.Set("exportFormat", in.Format)
	out, err := h.Svc.Export(c.Request.Context(), middleware.UserIDFromContext(c), resumeID, in)
	if err != nil {
		respond.Fail(c, err)
		return
	}
	attachment(c, out)
}

func (h *Handler) pdf(c *gin.Context) {
	resumeID := c.Param("id")
	c.Set("resumeId", resumeID)
	c.Set("exportFormat", string(export.FormatPDF))
	out, err := h.Svc.PDF(c.Request.Context(), middleware.UserIDFromContext(c), resumeID)
	if err != nil {
		respond.Fail(c, err)
		return
	}
	attachment(c, out)
}

func attachment(c *gin.Context, out export.Output) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", out.Filename))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, out.MimeType, out.Bytes)
}
