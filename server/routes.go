package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/skillsenselab/classboard/auth/jwt"
	"github.com/skillsenselab/classboard/server/middleware"
	"github.com/skillsenselab/classboard/version"
)

// RegisterRoutes mounts the public auth routes and the protected classroom
// routes on the engine. The credential endpoints are rate limited per client
// IP at authRateLimit requests per minute; OAuth redirects and callbacks are
// not, since the provider round-trip already throttles them.
func RegisterRoutes(engine *gin.Engine, authRateLimit int, tokens *jwt.Service, authH *AuthHandler, classH *ClassroomHandler) {
	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})
	engine.GET("/info", func(c *gin.Context) {
		c.JSON(http.StatusOK, version.Get())
	})

	credLimit := middleware.RateLimit(middleware.RateLimitConfig{RequestsPerMinute: authRateLimit})

	authGroup := engine.Group("/api/auth")
	{
		authGroup.POST("/register", credLimit, authH.Register)
		authGroup.POST("/login", credLimit, authH.Login)

		authGroup.GET("/google", authH.Redirect("google"))
		authGroup.GET("/google/callback", authH.Callback("google"))
		authGroup.GET("/github", authH.Redirect("github"))
		authGroup.GET("/github/callback", authH.Callback("github"))
	}

	classGroup := engine.Group("/api/classrooms", middleware.Auth(tokens))
	{
		classGroup.GET("", classH.List)
		classGroup.POST("", classH.Create)
		classGroup.GET("/teacher", classH.ByTeacher)
		classGroup.GET("/enrolled", classH.Enrolled)
		classGroup.POST("/join", classH.Join)
		classGroup.GET("/:id", classH.Get)
		classGroup.GET("/:id/students", classH.Students)
		classGroup.PATCH("/:id/archive", classH.Archive)
		classGroup.GET("/:id/announcements", classH.ListAnnouncements)
		classGroup.POST("/:id/announcements", classH.CreateAnnouncement)
		classGroup.GET("/:id/assignments", classH.ListAssignments)
		classGroup.POST("/:id/assignments", classH.CreateAssignment)
		classGroup.POST("/:id/grades", classH.CreateGrade)
	}
}
