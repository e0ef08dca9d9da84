package v1

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes attaches all v1 endpoints.
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	auth := api.Group("/auth")
	{
		auth.POST("/anonymous", h.signInAnonymously)
	}

	authed := api.Group("")
	authed.Use(SessionAuthMiddleware(h.sessions, h.logger))
	{
		authed.POST("/auth/signout", h.signOut)

		me := authed.Group("/me")
		{
			me.GET("/profile", h.getMyProfile)
			me.PUT("/profile", h.createMyProfile)
			me.GET("/profile/stream", h.streamMyProfile)
		}

		reports := authed.Group("/reports")
		{
			reports.POST("", h.createReport)
			reports.GET("", h.listReports)
			reports.GET("/stream", h.streamReports)
			reports.GET("/stats", h.getStats)
			reports.GET("/:id", h.getReport)
			reports.POST("/:id/claim", h.claimReport)
			reports.POST("/:id/proof", h.submitProof)
			reports.POST("/:id/approve", h.approveReport)
			reports.POST("/:id/reject", h.rejectReport)
		}
	}

	api.GET("/system/health", h.healthCheck)
}
