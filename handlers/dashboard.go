package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mentai-server/clients"
	"mentai-server/logger"
	"mentai-server/middleware"
)

// Dashboard renders the learning dashboard: course progress for signed-in
// users, a sign-in prompt for guests.
// GET /dashboard
func Dashboard(progress *clients.ProgressClient, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(middleware.CtxAuthStatus) != middleware.StatusAuthenticated {
			c.HTML(http.StatusOK, "dashboard", gin.H{
				"SignedIn": false,
			})
			return
		}

		email := c.GetString(middleware.CtxUserEmail)
		courses, err := progress.Dashboard(c.Request.Context(), email)
		if err != nil {
			// Progress listing is best-effort; render the page empty.
			log.Warn("dashboard fetch failed", "email", email, "error", err)
			courses = nil
		}

		c.HTML(http.StatusOK, "dashboard", gin.H{
			"SignedIn": true,
			"Name":     c.GetString(middleware.CtxUserName),
			"Courses":  courses,
		})
	}
}

// DashboardJSON is the same listing for API consumers.
// GET /api/v1/dashboard
func DashboardJSON(progress *clients.ProgressClient, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := c.GetString(middleware.CtxUserEmail)
		courses, err := progress.Dashboard(c.Request.Context(), email)
		if err != nil {
			log.Warn("dashboard fetch failed", "email", email, "error", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to load progress"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"courses": courses})
	}
}
