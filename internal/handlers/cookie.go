package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Session cookies are HttpOnly with SameSite=Lax; Secure is forced on in
// production regardless of configuration.
func (h HandlerSet) setSessionCookie(c *gin.Context, sessionID string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(
		h.cfg.Session.CookieName,
		sessionID,
		int(h.cfg.Session.TTL.Seconds()),
		"/",
		"",
		h.cookieSecure(),
		true,
	)
}

func (h HandlerSet) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(
		h.cfg.Session.CookieName,
		"",
		-1,
		"/",
		"",
		h.cookieSecure(),
		true,
	)
}

func (h HandlerSet) cookieSecure() bool {
	return h.cfg.Session.CookieSecure || h.cfg.Production()
}
