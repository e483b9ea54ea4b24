package billing

import (
	"fmt"
	"time"

	"auction-engine/internal/auctionerrors"
	model "auction-engine/internal/models"

	"github.com/shopspring/decimal"
)

// Invoice is the settlement bill for a closed auction: hammer price plus
// the buyer premium, charged to the winning bidder.
type Invoice struct {
	ListingID      string    `json:"listing_id"`
	ListingTitle   string    `json:"listing_title"`
	SellerID       string    `json:"seller_id"`
	BuyerID        string    `json:"buyer_id"`
	HammerPrice    int64     `json:"hammer_price"`
	PremiumPercent float64   `json:"premium_percent"`
	BuyerPremium   int64     `json:"buyer_premium"`
	Total          int64     `json:"total"`
	IssuedAt       time.Time `json:"issued_at"`
}

// BuyerPremium computes the premium on a hammer price as a percentage,
// rounded half away from zero to whole currency units. Decimal arithmetic
// keeps percentages like 7.5 exact.
func BuyerPremium(hammerPrice int64, percent float64) int64 {
	if percent <= 0 || hammerPrice <= 0 {
		return 0
	}
	premium := decimal.NewFromInt(hammerPrice).
		Mul(decimal.NewFromFloat(percent)).
		Div(decimal.NewFromInt(100))
	return premium.Round(0).IntPart()
}

// NewInvoice bills the winning bid of an ended auction. It fails while the
// auction is still open and when the reserve was never reached.
func NewInvoice(listing model.Listing, winning model.Bid, premiumPercent float64, now time.Time) (Invoice, error) {
	if now.Before(listing.EndTime) {
		return Invoice{}, fmt.Errorf("invoice for listing %s: %w", listing.ListingID, auctionerrors.ErrAuctionOpen)
	}
	if listing.HasReserve() && winning.Amount < listing.ReservePrice {
		return Invoice{}, fmt.Errorf("invoice for listing %s: %w", listing.ListingID, auctionerrors.ErrReserveNotMet)
	}

	premium := BuyerPremium(winning.Amount, premiumPercent)
	return Invoice{
		ListingID:      listing.ListingID,
		ListingTitle:   listing.Title,
		SellerID:       listing.SellerID,
		BuyerID:        winning.BidderID,
		HammerPrice:    winning.Amount,
		PremiumPercent: premiumPercent,
		BuyerPremium:   premium,
		Total:          winning.Amount + premium,
		IssuedAt:       now,
	}, nil
}
