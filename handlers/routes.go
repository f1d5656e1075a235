package handlers

import "github.com/gin-gonic/gin"

// RegisterRoutes wires the JSON API and the public redirect route.
func RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api")
	{
		api.POST("/urls", CreateURL)
		api.POST("/urls/bulk", CreateBulkURLs)
		api.GET("/urls", GetAllURLs)
		api.GET("/urls/:id", GetURL)
		api.GET("/urls/:id/analytics", GetURLAnalytics)
		api.DELETE("/urls/:id", DeleteURL)

		api.GET("/stats", GetStats)
		api.GET("/check-code/:code", CheckCode)
		api.POST("/cleanup", Cleanup)
	}

	router.GET("/:code", Redirect)
}
