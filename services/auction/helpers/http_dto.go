package helpers

// Request/Response DTOs
type PlaceBidRequest struct {
	ListingID string `json:"listing_id" binding:"required"`
	BidderID  string `json:"bidder_id" binding:"required"`
	MaxBid    int64  `json:"max_bid" binding:"required,gt=0"`
}

type PlaceBidResponse struct {
	Success         bool   `json:"success"`
	Message         string `json:"message"`
	CurrentPrice    int64  `json:"current_price"`
	BidCount        int    `json:"bid_count"`
	WasOutbid       bool   `json:"was_outbid"`
	ReserveMet      bool   `json:"reserve_met"`
	AuctionExtended bool   `json:"auction_extended"`
}

type AuctionStateResponse struct {
	ListingID       string `json:"listing_id"`
	Title           string `json:"title"`
	CurrentPrice    int64  `json:"current_price"`
	MinimumNextBid  int64  `json:"minimum_next_bid"`
	BidCount        int    `json:"bid_count"`
	HasReserve      bool   `json:"has_reserve"`
	ReserveMet      bool   `json:"reserve_met"`
	WinningBidderID string `json:"winning_bidder_id,omitempty"`
	EndTime         string `json:"end_time"`
	OriginalEndTime string `json:"original_end_time,omitempty"`
	SecondsLeft     int64  `json:"seconds_left"`
	Ended           bool   `json:"ended"`
}

// BidView is the public shape of a bid: the private maximum stays hidden.
type BidView struct {
	BidID     string `json:"bid_id"`
	ListingID string `json:"listing_id"`
	BidderID  string `json:"bidder_id"`
	Amount    int64  `json:"amount"`
	Status    string `json:"status"`
	IsAutoBid bool   `json:"is_auto_bid"`
	CreatedAt string `json:"created_at"`
}
