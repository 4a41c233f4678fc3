package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"talenthub-backend/internal/shared/middleware"
	"talenthub-backend/pkg/container"
)

// SetupRouter wires every route group onto a gin engine. Handlers come
// from the container; the auth middleware is built once and shared.
func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(),
		middleware.Metrics(),
	)

	authRequired := middleware.AuthMiddleware(c.JWTManager, c.UserRepo)

	// Prometheus scrape endpoint, outside the API prefix
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupAuthRoutes(v1, c)
		setupUserRoutes(v1, c, authRequired)
		setupTalentRoutes(v1, c, authRequired)
		setupBookingRoutes(v1, c, authRequired)
		setupNotificationRoutes(v1, c, authRequired)
		setupReviewRoutes(v1, c, authRequired)
	}

	return router
}

// =====================================================
// AUTH ROUTES
// =====================================================

func setupAuthRoutes(v1 *gin.RouterGroup, c *container.Container) {
	auth := v1.Group("/auth")
	{
		auth.POST("/signup", c.UserHandler.Signup)
		auth.POST("/login", c.UserHandler.Login)
		auth.POST("/refresh", c.UserHandler.RefreshToken)
		auth.POST("/logout", c.UserHandler.Logout)
	}
}

// =====================================================
// USER ROUTES
// =====================================================

func setupUserRoutes(v1 *gin.RouterGroup, c *container.Container, authRequired gin.HandlerFunc) {
	users := v1.Group("/users")
	users.Use(authRequired)
	{
		users.GET("/me", c.UserHandler.Me)
		users.PUT("/me", c.UserHandler.UpdateProfile)
		users.POST("/me/image", c.UserHandler.UploadProfileImage)
		users.PUT("/me/password", c.UserHandler.ChangePassword)
	}
}

// =====================================================
// TALENT ROUTES
// =====================================================

func setupTalentRoutes(v1 *gin.RouterGroup, c *container.Container, authRequired gin.HandlerFunc) {
	talents := v1.Group("/talents")
	{
		// Public catalog surface
		talents.GET("", c.TalentHandler.List)

		// Authed routes are registered before the :id wildcards so
		// "/my" never collides with a talent lookup.
		talents.POST("", authRequired, c.TalentHandler.Create)
		talents.GET("/my", authRequired, c.TalentHandler.MyTalents)

		talents.GET("/:id", c.TalentHandler.Get)
		talents.GET("/:id/schedules", c.TalentHandler.ListSchedules)

		talents.PUT("/:id", authRequired, c.TalentHandler.Update)
		talents.DELETE("/:id", authRequired, c.TalentHandler.Delete)
		talents.POST("/:id/image", authRequired, c.TalentHandler.UploadImage)
		talents.POST("/:id/schedules", authRequired, c.TalentHandler.AddSchedule)
	}
}

// =====================================================
// BOOKING ROUTES
// =====================================================

func setupBookingRoutes(v1 *gin.RouterGroup, c *container.Container, authRequired gin.HandlerFunc) {
	bookings := v1.Group("/bookings")
	bookings.Use(authRequired)
	{
		bookings.POST("", c.BookingHandler.Create)
		bookings.GET("", c.BookingHandler.ListMy)
		bookings.GET("/received", c.BookingHandler.ListReceived)
		bookings.GET("/received/export", c.BookingHandler.ExportReceived)
		bookings.GET("/:id", c.BookingHandler.Get)
		bookings.PUT("/:id", c.BookingHandler.Update)
		bookings.DELETE("/:id", c.BookingHandler.Cancel)
	}
}

// =====================================================
// NOTIFICATION ROUTES
// =====================================================

func setupNotificationRoutes(v1 *gin.RouterGroup, c *container.Container, authRequired gin.HandlerFunc) {
	notifications := v1.Group("/notifications")
	notifications.Use(authRequired)
	{
		notifications.GET("", c.NotificationHandler.List)
		notifications.GET("/unread-count", c.NotificationHandler.UnreadCount)
		notifications.PUT("/read-all", c.NotificationHandler.MarkAllRead)
		notifications.PUT("/:id/read", c.NotificationHandler.MarkRead)
		notifications.DELETE("/:id", c.NotificationHandler.Delete)
	}
}

// =====================================================
// REVIEW ROUTES
// =====================================================

func setupReviewRoutes(v1 *gin.RouterGroup, c *container.Container, authRequired gin.HandlerFunc) {
	reviews := v1.Group("/reviews")
	{
		// Public listings
		reviews.GET("/talent/:talentId", c.ReviewHandler.ListByTalent)
		reviews.GET("/provider/:providerId", c.ReviewHandler.ListByProvider)

		reviews.POST("", authRequired, c.ReviewHandler.Create)
		reviews.GET("/my", authRequired, c.ReviewHandler.MyReviews)
		reviews.GET("/can-review/:bookingId", authRequired, c.ReviewHandler.CanReview)
		reviews.PUT("/:id", authRequired, c.ReviewHandler.Update)
		reviews.DELETE("/:id", authRequired, c.ReviewHandler.Delete)
	}
}

// =====================================================
// HEALTH CHECK
// =====================================================

func healthCheckHandler(c *container.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		health := gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   c.Config.App.Version,
		}

		services := gin.H{}

		checkCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
		defer cancel()

		dbStatus := "ok"
		if err := c.DB.HealthCheck(checkCtx); err != nil {
			dbStatus = "error"
			health["status"] = "degraded"
		}
		services["database"] = dbStatus

		redisStatus := "ok"
		if err := c.Cache.Ping(checkCtx); err != nil {
			// Redis is optional, the API degrades without it
			redisStatus = "error"
		}
		services["redis"] = redisStatus

		health["services"] = services

		status := http.StatusOK
		if health["status"] != "ok" {
			status = http.StatusServiceUnavailable
		}
		ctx.JSON(status, health)
	}
}
