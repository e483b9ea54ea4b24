package server

import (
	"auction-engine/internal/auction"
	handler "auction-engine/services/auction/handler"

	"github.com/gin-gonic/gin"
)

// SetupRouter configures all Gin routes for the application
func SetupRouter(auctionService *auction.AuctionService) *gin.Engine {
	router := gin.New() // New router without default middleware for full control over middleware and logging

	router.Use(gin.Recovery())          // recover from panics
	router.Use(RequestLoggerMiddleware) // custom request logging

	auctionHandler := handler.NewAuctionHandler(auctionService)

	bids := router.Group("/bids")
	{
		bids.POST("", auctionHandler.PlaceBidHandler)
	}

	listings := router.Group("/listings")
	{
		listings.GET("/:listing_id/auction", auctionHandler.GetAuctionStateHandler)
		listings.GET("/:listing_id/bids", auctionHandler.GetBidsByListingHandler)
		listings.GET("/:listing_id/invoice", auctionHandler.GetInvoiceHandler)
	}

	users := router.Group("/users")
	{
		users.GET("/:user_id/listings", auctionHandler.GetListingsByUserHandler)
	}

	return router
}
