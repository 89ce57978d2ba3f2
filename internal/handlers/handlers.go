package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/christiansio/hris-auth/internal/config"
	"github.com/christiansio/hris-auth/internal/database"
	"github.com/christiansio/hris-auth/internal/middleware"
	"github.com/christiansio/hris-auth/internal/service"
)

type HandlerSet struct {
	log  zerolog.Logger
	cfg  *config.AppConfig
	auth *service.AuthService
	db   *database.Gateway
}

func NewHandlerSet(log zerolog.Logger, cfg *config.AppConfig, auth *service.AuthService, db *database.Gateway) HandlerSet {
	return HandlerSet{
		log:  log,
		cfg:  cfg,
		auth: auth,
		db:   db,
	}
}

func (h HandlerSet) Register(router gin.IRouter) {
	router.GET("/healthz", h.Health)

	auth := router.Group("/auth")
	auth.POST("/register", h.RegisterUser)
	auth.POST("/login", h.Login)
	auth.POST("/logout", h.Logout)

	protected := router.Group("/auth")
	protected.Use(middleware.Auth(h.auth, h.cfg.Session.CookieName))
	protected.GET("/me", h.Me)
}
