package main

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func setupRoutes(router *gin.Engine, app *App) {
	router.GET("/health", healthHandler)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		api.POST("/login", app.loginHandler)
		api.POST("/logout", app.logoutHandler)

		authed := api.Group("", app.requireAuth())
		{
			authed.GET("/me", meHandler)
			authed.POST("/profile", app.profileHandler)
			authed.POST("/resume", app.resumeHandler)
			authed.POST("/recommendations", app.recommendationsHandler)

			authed.POST("/plans", app.createPlanHandler)
			authed.GET("/plans", app.listPlansHandler)
			authed.PATCH("/plans/:id", app.updatePlanHandler)

			authed.POST("/mentor-requests", app.createMentorRequestHandler)
			authed.GET("/mentor-requests", app.listMentorRequestsHandler)
			authed.POST("/mentor-requests/:id/respond", requireMentor(), app.respondMentorRequestHandler)
			authed.GET("/mentor/dashboard", requireMentor(), app.dashboardHandler)

			authed.GET("/notifications", app.notificationsHandler)
			authed.POST("/notifications/:id/read", app.markNotificationReadHandler)
		}
	}
}

func newRouter(app *App) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), app.requestLogger())
	setupRoutes(router, app)
	return router
}
