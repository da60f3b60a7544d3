package ai

import (
	"github.com/gin-gonic/gin"

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

// RegisterRoutes attaches the /ai routes. The group is expected to carry
// session auth and the AI rate limit.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	ai := rg.Group("/ai")
	ai.POST("/analyze-ats", h.analyzeATS)
	ai.POST("/check-grammar", h.checkGrammar)
	ai.POST("/check-plagiarism", h.checkPlagiarism)
	ai.POST("/generate-resume", h.generateResume)
}

func (h *Handler) bindCheck(c *gin.Context) (CheckInput, bool) {
	var in CheckInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.Fail(c, apperr.Validation("invalid request body"))
		return CheckInput{}, false
	}
	if in.ResumeID != "" {
		c.Set("resumeId", in.ResumeID)
	}
	return in, true
}

func (h *Handler) analyzeATS(c *gin.Context) {
	in, ok := h.bindCheck(c)
	if !ok {
		return
	}
	res, err := h.Svc.AnalyzeATS(c.Request.Context(), middleware.UserIDFromContext(c), in)
	if err != nil {
		respond.Fail(c, err)
		return
	}
	respond.OK(c, gin.H{
		"score":           res.Score,
		"keywords":        res.Keywords,
		"missingKeywords": res.MissingKeywords,
		"suggestions":     res.Suggestions,
		"mock":            res.Mock,
	})
}

func (h *Handler) checkGrammar(c *gin.Context) {
	in, ok := h.bindCheck(c)
	if !ok {
		return
	}
	res, err := h.Svc.CheckGrammar(c.Request.Context(), middleware.UserIDFromContext(c), in)
	if err != nil {
		respond.Fail(c, err)
		return
	}
	respond.OK(c, gin.H{
		"score":       res.Score,
		"errors":      res.Errors,
		"suggestions": res.Suggestions,
		"mock":        res.Mock,
	})
}

func (h *Handler) checkPlagiarism(c *gin.Context) {
	in, ok := h.bindCheck(c)
	if !ok {
		return
	}
	res, err := h.Svc.CheckPlagiarism(c.Request.Context(), middleware.UserIDFromContext(c), in)
	if err != nil {
		respond.Fail(c, err)
		return
	}
	respond.OK(c, gin.H{
		"score":           res.Score,
		"flaggedSections": res.FlaggedSections,
		"suggestions":     res.Suggestions,
		"mock":            res.Mock,
	})
}

func (h *Handler) generateResume(c *gin.Context) {
	var in GenerateInput
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&in); err != nil {
			respond.Fail(c, apperr.Validation("invalid request body"))
			return
		}
	}
	res, err := h.Svc.GenerateResume(c.Request.Context(), middleware.UserIDFromContext(c), in)
	if err != nil {
		respond.Fail(c, err)
		return
	}
	respond.OK(c, gin.H{
		"content": res.Content,
		"source":  res.Source,
		"mock":    res.Source == SourceLocal,
	})
}
