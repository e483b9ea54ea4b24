package helpers

import (
	"errors"
	"fmt"
	"net/http"

	"auction-engine/internal/auctionerrors"
	"auction-engine/utils"

	"github.com/gin-gonic/gin"
)

// HandleBindError sends a standardized JSON error for binding failures
func HandleBindError(c *gin.Context, handlerName string, err error) {
	wrappedErr := fmt.Errorf("invalid request payload: %w", err)
	utils.JSONError(c, http.StatusBadRequest, wrappedErr, "invalid request payload")
	utils.Warn(handlerName+": binding error", map[string]any{"error": err.Error()})
}

// MapErrorToHTTP maps domain/service errors to HTTP status code and message
func MapErrorToHTTP(err error) (int, string) {
	switch {
	case errors.Is(err, auctionerrors.ErrListingNotFound):
		return http.StatusNotFound, "listing not found"
	case errors.Is(err, auctionerrors.ErrUserNotFound):
		return http.StatusNotFound, "user not found"
	case errors.Is(err, auctionerrors.ErrInvalidAmount):
		return http.StatusBadRequest, "bid amount must be a positive amount"
	case errors.Is(err, auctionerrors.ErrInvalidBid):
		return http.StatusBadRequest, "invalid bid details"
	case errors.Is(err, auctionerrors.ErrSelfBidForbidden):
		return http.StatusForbidden, "sellers cannot bid on their own listings"
	case errors.Is(err, auctionerrors.ErrBidTooLow):
		return http.StatusConflict, "bid amount too low"
	case errors.Is(err, auctionerrors.ErrAlreadyHighBidder):
		return http.StatusConflict, "already the high bidder"
	case errors.Is(err, auctionerrors.ErrAuctionClosed):
		return http.StatusConflict, "auction has ended"
	case errors.Is(err, auctionerrors.ErrAuctionOpen):
		return http.StatusConflict, "auction is still open"
	case errors.Is(err, auctionerrors.ErrReserveNotMet):
		return http.StatusConflict, "reserve price was not met"
	case errors.Is(err, auctionerrors.ErrNoBids):
		return http.StatusNotFound, "no bids found for listing"
	case errors.Is(err, auctionerrors.ErrUserNoBids):
		return http.StatusOK, "no listings found for user"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// LogSuccess is a small helper to standardize logging of successful operations
func LogSuccess(handlerName, message string, ctx map[string]any) {
	utils.Info(handlerName+": "+message, ctx)
}
