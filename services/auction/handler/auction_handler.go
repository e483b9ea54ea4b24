package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"auction-engine/internal/auction"
	"auction-engine/internal/auctionerrors"
	"auction-engine/internal/billing"
	model "auction-engine/internal/models"
	"auction-engine/services/auction/helpers"
	"auction-engine/utils"

	"github.com/gin-gonic/gin"
)

type AuctionServiceInterface interface {
	PlaceBid(listingID, bidderID string, maxBid int64) (auction.BidResult, error)
	AuctionState(listingID string) (auction.StateView, error)
	BidsForListing(listingID string) ([]model.Bid, error)
	ListingsByBidder(userID string) ([]model.Listing, error)
	Invoice(listingID string) (billing.Invoice, error)
}

type AuctionHandler struct {
	service AuctionServiceInterface
}

func NewAuctionHandler(service AuctionServiceInterface) *AuctionHandler {
	return &AuctionHandler{service: service}
}

// PlaceBidHandler handles POST /bids
func (h *AuctionHandler) PlaceBidHandler(c *gin.Context) {
	var req helpers.PlaceBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "PlaceBidHandler", err)
		return
	}

	result, err := h.service.PlaceBid(req.ListingID, req.BidderID, req.MaxBid)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Error("PlaceBidHandler: failed to place bid", map[string]any{
			"handler":    "PlaceBidHandler",
			"listing_id": req.ListingID,
			"bidder_id":  req.BidderID,
			"error":      err.Error(),
		})
		return
	}

	resp := helpers.PlaceBidResponse{
		Success:         true,
		Message:         result.Message,
		CurrentPrice:    result.CurrentPrice,
		BidCount:        result.BidCount,
		WasOutbid:       result.WasOutbid,
		ReserveMet:      result.ReserveMet,
		AuctionExtended: result.AuctionExtended,
	}

	utils.JSONResponse(c, http.StatusOK, resp, "bid settled successfully")
	helpers.LogSuccess("PlaceBidHandler", "bid settled successfully", map[string]any{
		"listing_id":    req.ListingID,
		"bidder_id":     req.BidderID,
		"current_price": result.CurrentPrice,
		"bid_count":     result.BidCount,
		"was_outbid":    result.WasOutbid,
		"extended":      result.AuctionExtended,
	})
}

// GetAuctionStateHandler handles GET /listings/:listing_id/auction
func (h *AuctionHandler) GetAuctionStateHandler(c *gin.Context) {
	listingID := c.Param("listing_id")
	state, err := h.service.AuctionState(listingID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("GetAuctionStateHandler: error retrieving state", map[string]any{"listing_id": listingID, "error": err.Error()})
		return
	}

	resp := helpers.AuctionStateResponse{
		ListingID:       state.ListingID,
		Title:           state.Title,
		CurrentPrice:    state.CurrentPrice,
		MinimumNextBid:  state.MinimumNextBid,
		BidCount:        state.BidCount,
		HasReserve:      state.HasReserve,
		ReserveMet:      state.ReserveMet,
		WinningBidderID: state.WinningBidderID,
		EndTime:         state.EndTime.UTC().Format(time.RFC3339),
		SecondsLeft:     int64(state.TimeRemaining.Seconds()),
		Ended:           state.Ended,
	}
	if !state.OriginalEndTime.IsZero() {
		resp.OriginalEndTime = state.OriginalEndTime.UTC().Format(time.RFC3339)
	}

	utils.JSONResponse(c, http.StatusOK, resp, "auction state retrieved successfully")
	helpers.LogSuccess("GetAuctionStateHandler", "auction state retrieved successfully", map[string]any{
		"listing_id":    state.ListingID,
		"current_price": state.CurrentPrice,
		"bid_count":     state.BidCount,
	})
}

// GetBidsByListingHandler handles GET /listings/:listing_id/bids
func (h *AuctionHandler) GetBidsByListingHandler(c *gin.Context) {
	listingID := c.Param("listing_id")
	bids, err := h.service.BidsForListing(listingID)
	if err != nil && !errors.Is(err, auctionerrors.ErrNoBids) {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("GetBidsByListingHandler: error retrieving bids", map[string]any{"listing_id": listingID, "error": err.Error()})
		return
	}

	views := make([]helpers.BidView, 0, len(bids))
	for _, bid := range bids {
		views = append(views, helpers.BidView{
			BidID:     bid.BidID,
			ListingID: bid.ListingID,
			BidderID:  bid.BidderID,
			Amount:    bid.Amount,
			Status:    string(bid.Status),
			IsAutoBid: bid.IsAutoBid,
			CreatedAt: bid.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	utils.JSONResponse(c, http.StatusOK, views, "bids retrieved successfully")
	helpers.LogSuccess("GetBidsByListingHandler", "bids retrieved successfully", map[string]any{
		"listing_id": listingID,
		"count":      len(views),
	})
}

// GetListingsByUserHandler handles GET /users/:user_id/listings
func (h *AuctionHandler) GetListingsByUserHandler(c *gin.Context) {
	userID := c.Param("user_id")
	listings, err := h.service.ListingsByBidder(userID)
	if err != nil && !errors.Is(err, auctionerrors.ErrUserNoBids) {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("GetListingsByUserHandler: error retrieving listings", map[string]any{"user_id": userID, "error": err.Error()})
		return
	}

	if listings == nil {
		listings = []model.Listing{}
	}

	utils.JSONResponse(c, http.StatusOK, listings, "listings retrieved successfully")
	helpers.LogSuccess("GetListingsByUserHandler", "listings retrieved successfully", map[string]any{
		"user_id":        userID,
		"listings_count": len(listings),
	})
}

// GetInvoiceHandler handles GET /listings/:listing_id/invoice
func (h *AuctionHandler) GetInvoiceHandler(c *gin.Context) {
	listingID := c.Param("listing_id")
	invoice, err := h.service.Invoice(listingID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("GetInvoiceHandler: invoice error", map[string]any{"listing_id": listingID, "error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusOK, invoice, "invoice generated successfully")
	helpers.LogSuccess("GetInvoiceHandler", "invoice generated successfully", map[string]any{
		"listing_id": invoice.ListingID,
		"buyer_id":   invoice.BuyerID,
		"total":      invoice.Total,
	})
}
