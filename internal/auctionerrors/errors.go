package auctionerrors

import "errors"

// Repository-level errors
var (
	ErrListingNotFound = errors.New("listing not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrNoBids          = errors.New("no bids found for listing")
	ErrUserNoBids      = errors.New("user has not placed any bids")
)

// business logic errors
var (
	ErrInvalidBid        = errors.New("invalid bid")
	ErrInvalidAmount     = errors.New("bid amount must be a positive amount")
	ErrBidTooLow         = errors.New("bid amount too low")
	ErrSelfBidForbidden  = errors.New("sellers cannot bid on their own listings")
	ErrAlreadyHighBidder = errors.New("already the high bidder with an equal or higher maximum")
	ErrAuctionClosed     = errors.New("auction has ended")
)

// settlement errors
var (
	ErrAuctionOpen   = errors.New("auction is still open")
	ErrReserveNotMet = errors.New("reserve price was not met")
)
