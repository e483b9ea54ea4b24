package models

import "time"

// BidStatus tracks whether a bid currently leads its listing.
type BidStatus string

const (
	BidStatusWinning BidStatus = "winning"
	BidStatusOutbid  BidStatus = "outbid"
)

// User represents a participant in the marketplace
type User struct {
	UserID       string `json:"user_id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	OutbidEmails bool   `json:"outbid_emails"` // opt-in for outbid emails
}

// Listing represents an auction listing. Amounts are whole currency units.
type Listing struct {
	ListingID     string    `json:"listing_id"`
	SellerID      string    `json:"seller_id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	StartingPrice int64     `json:"starting_price"`
	ReservePrice  int64     `json:"reserve_price"` // 0 = no reserve
	CurrentPrice  int64     `json:"current_price"`
	BidCount      int       `json:"bid_count"`
	EndTime       time.Time `json:"end_time"`
	// OriginalEndTime is zero until the first soft-close extension, then
	// holds the end time as it stood before that extension. Set exactly once.
	OriginalEndTime time.Time `json:"original_end_time,omitempty"`
}

// HasReserve reports whether the seller set a reserve price.
func (l Listing) HasReserve() bool {
	return l.ReservePrice > 0
}

// Bid represents a proxy bid on a listing. Amount is the displayed bid;
// MaxBid is the bidder's private ceiling and must never reach clients.
type Bid struct {
	BidID     string    `json:"bid_id"`
	ListingID string    `json:"listing_id"`
	BidderID  string    `json:"bidder_id"`
	Amount    int64     `json:"amount"`
	MaxBid    int64     `json:"-"`
	Status    BidStatus `json:"status"`
	IsAutoBid bool      `json:"is_auto_bid"`
	CreatedAt time.Time `json:"created_at"`
}
