package server

import (
	live "auction-live/internal/liveService"
	handler "auction-live/services/live/handler"

	"github.com/gin-gonic/gin"
)

// SetupRouter configures all Gin routes for the application
func SetupRouter(liveService *live.Service, sendBuffer int) *gin.Engine {
	router := gin.New() // New router without default middleware for full control over middleware and logging

	router.Use(gin.Recovery())          // recover from panics
	router.Use(RequestLoggerMiddleware) // custom request logging

	liveHandler := handler.NewLiveHandler(liveService, sendBuffer)

	router.GET("/ws", liveHandler.ServeWS)

	auctions := router.Group("/auctions")
	{
		auctions.GET("/:auction_id/bid", liveHandler.GetCurrentBidHandler)
		auctions.GET("/:auction_id/bids", liveHandler.GetBidHistoryHandler)
		auctions.GET("/:auction_id/watchers", liveHandler.GetWatchersHandler)
		auctions.POST("/:auction_id/bids", liveHandler.ProposeBidHandler)
	}

	return router
}
