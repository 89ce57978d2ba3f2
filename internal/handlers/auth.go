package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/christiansio/hris-auth/internal/middleware"
	"github.com/christiansio/hris-auth/internal/models"
	"github.com/christiansio/hris-auth/internal/repository"
	"github.com/christiansio/hris-auth/internal/service"
)

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"`
}

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (h HandlerSet) RegisterUser(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid_request"})
		return
	}

	user, err := h.auth.Register(c.Request.Context(), service.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Role:     models.Role(req.Role),
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateEmail):
			c.JSON(http.StatusBadRequest, gin.H{"detail": "email_already_exists"})
		case errors.Is(err, service.ErrInvalidEmail),
			errors.Is(err, service.ErrEmptyPassword),
			errors.Is(err, service.ErrInvalidRole):
			c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid_request"})
		default:
			h.serverError(c, err, "register failed")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "registered",
		"email":   user.Email,
		"role":    string(user.Role),
	})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h HandlerSet) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid_request"})
		return
	}

	cookieID, _ := c.Cookie(h.cfg.Session.CookieName)

	result, err := h.auth.Login(c.Request.Context(), req.Email, req.Password, cookieID)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "invalid_credentials"})
			return
		}
		h.serverError(c, err, "login failed")
		return
	}

	h.setSessionCookie(c, result.SessionID)

	message := "ok"
	if result.SessionID == cookieID {
		message = "loggedIn"
	}

	c.JSON(http.StatusOK, gin.H{
		"message": message,
		"user": userResponse{
			ID:    result.User.ID,
			Email: result.User.Email,
			Role:  string(result.User.Role),
		},
		"sessionId": result.SessionID,
	})
}

func (h HandlerSet) Me(c *gin.Context) {
	userVal, exists := c.Get(middleware.CurrentUserKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "unauthorized"})
		return
	}
	user, ok := userVal.(models.User)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "unauthorized"})
		return
	}

	c.JSON(http.StatusOK, userResponse{
		ID:    user.ID,
		Email: user.Email,
		Role:  string(user.Role),
	})
}

func (h HandlerSet) Logout(c *gin.Context) {
	sessionID, _ := c.Cookie(h.cfg.Session.CookieName)

	if err := h.auth.Logout(c.Request.Context(), sessionID); err != nil {
		h.serverError(c, err, "logout failed")
		return
	}

	h.clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "logged_out"})
}

// serverError logs the cause and answers with a generic body; internal
// detail never reaches the client.
func (h HandlerSet) serverError(c *gin.Context, err error, msg string) {
	h.log.Error().Err(err).Msg(msg)
	c.JSON(http.StatusInternalServerError, gin.H{"detail": "internal_error"})
}
