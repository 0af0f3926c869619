package handlers

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts every API route under the /api/arcade group.
func RegisterRoutes(router *gin.Engine, accounts *AccountHandler, queries *QueryHandler) {
	api := router.Group("/api/arcade")
	{
		api.POST("/register", accounts.Register)
		api.POST("/deposit", accounts.Deposit)
		api.POST("/withdraw", accounts.Withdraw)
		api.POST("/update-balance", accounts.UpdateBalance)
		api.POST("/update-realbalance", accounts.UpdateRealBalance)
		api.POST("/player-lost", accounts.PlayerLost)
		api.POST("/player-reallost", accounts.PlayerRealLost)

		api.GET("/users", queries.ListUsers)
		api.GET("/user/:externalId", queries.GetUser)
		api.GET("/dashboard/:dashboardToken", queries.GetDashboard)
		api.GET("/transaction/:dashboardToken", queries.TransactionHistory)
		api.GET("/invited-users/:externalId", queries.InvitedUsers)
		api.GET("/scoreboard", queries.Scoreboard)
		api.POST("/reset-scores", queries.ResetScores)
	}
}
