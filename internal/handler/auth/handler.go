package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/clinic-dashboard/internal/handler"
	"github.com/jwalitptl/clinic-dashboard/internal/model"
	"github.com/jwalitptl/clinic-dashboard/internal/service/auth"
	"github.com/jwalitptl/clinic-dashboard/pkg/httputil"
)

// SessionListener is told when a session ends.
type SessionListener interface {
	Forget(sess *model.Session)
}

type Handler struct {
	svc       *auth.Service
	listeners []SessionListener
}

func NewHandler(svc *auth.Service, listeners ...SessionListener) *Handler {
	return &Handler{svc: svc, listeners: listeners}
}

// RegisterRoutes mounts login and register publicly and logout behind requireSession.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup, requireSession gin.HandlerFunc) {
	auth := r.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/logout", requireSession, h.Logout)
	}
}

func (h *Handler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if !handler.Bind(c, &req) {
		return
	}

	res, err := h.svc.Register(c.Request.Context(), &req)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	httputil.RespondWithCreated(c, res)
}

func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if !handler.Bind(c, &req) {
		return
	}

	tokens, err := h.svc.Login(c.Request.Context(), &req)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	httputil.RespondWithSuccess(c, tokens)
}

func (h *Handler) Logout(c *gin.Context) {
	sess, ok := handler.Session(c)
	if !ok {
		return
	}
	if err := h.svc.Logout(c.Request.Context(), sess); err != nil {
		handler.Fail(c, err)
		return
	}
	for _, l := range h.listeners {
		l.Forget(sess)
	}
	c.JSON(http.StatusOK, httputil.Response{Success: true, Data: model.MessageResponse{Message: "logged out"}})
}
