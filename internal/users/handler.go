package users

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/shared/apperr"
	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
)

type Handler struct {
	Svc          *Service
	SecureCookie bool
}

func NewHandler(svc *Service, secureCookie bool) *Handler {
	return &Handler{Svc: svc, SecureCookie: secureCookie}
}

// RegisterPublicRoutes attaches routes reachable without a session.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/register", h.register)
	rg.POST("/auth/login", h.login)
}

// RegisterRoutes attaches session-protected routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/logout", h.logout)
	rg.GET("/auth/me", h.me)
	rg.GET("/profile", h.getProfile)
	rg.PUT("/profile", h.putProfile)
}

func (h *Handler) register(c *gin.Context) {
	var in RegisterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.Fail(c, apperr.Validation("invalid request body"))
		return
	}
	session, err := h.Svc.Register(c.Request.Context(), in)
	if err != nil {
		respond.Fail(c, err)
		return
	}
	h.setCookie(c, session.Token, session.ExpiresAt)
	respond.Created(c, sessionResponse(session))
}

func (h *Handler) login(c *gin.Context) {
	var in LoginInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.Fail(c, apperr.Validation("invalid request body"))
		return
	}
	session, err := h.Svc.Login(c.Request.Context(), in)
	if err != nil {
		respond.Fail(c, err)
		return
	}
	h.setCookie(c, session.Token, session.ExpiresAt)
	respond.OK(c, sessionResponse(session))
}

func (h *Handler) logout(c *gin.Context) {
	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		respond.Fail(c, apperr.ErrUnauthenticated)
		return
	}
	if err := h.Svc.Logout(c.Request.Context(), claims); err != nil {
		respond.Fail(c, err)
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.TokenCookie, "", -1, "/", "", h.SecureCookie, true)
	respond.OK(c, gin.H{"message": "logged out"})
}

func (h *Handler) me(c *gin.Context) {
	user, err := h.Svc.GetByID(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		respond.Fail(c, err)
		return
	}
	respond.OK(c, gin.H{"user": toResponse(user)})
}

func (h *Handler) getProfile(c *gin.Context) {
	user, err := h.Svc.GetByID(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		respond.Fail(c, err)
		return
	}
	respond.OK(c, gin.H{"profile": user.Profile})
}

func (h *Handler) putProfile(c *gin.Context) {
	var profile Profile
	if err := c.ShouldBindJSON(&profile); err != nil {
		respond.Fail(c, apperr.Validation("invalid request body"))
		return
	}
	user, err := h.Svc.UpdateProfile(c.Request.Context(), middleware.UserIDFromContext(c), profile)
	if err != nil {
		respond.Fail(c, err)
		return
	}
	respond.OK(c, gin.H{"profile": user.Profile})
}

func (h *Handler) setCookie(c *gin.Context, token string, expires time.Time) {
	maxAge := int(time.Until(expires).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.TokenCookie, token, maxAge, "/", "", h.SecureCookie, true)
}

func sessionResponse(s Session) gin.H {
	return gin.H{
		"token":     s.Token,
		"expiresAt": s.ExpiresAt,
		"user":      toResponse(s.User),
	}
}

func toResponse(u User) gin.H {
	return gin.H{
		"id":        u.ID,
		"name":      u.Name,
		"email":     u.Email,
		"profile":   u.Profile,
		"createdAt": u.CreatedAt,
	}
}
