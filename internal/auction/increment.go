package auction

import "auction-engine/internal/models"

// IncrementFor returns the bid increment for a given current price.
// The ladder widens as prices climb so displayed prices stay round.
func IncrementFor(price int64) int64 {
	switch {
	case price < 250:
		return 1
	case price < 1_000:
		return 10
	case price < 10_000:
		return 50
	case price < 100_000:
		return 100
	case price < 500_000:
		return 500
	default:
		return 1_000
	}
}

// NextIncrement returns the lowest bid that beats the given price.
func NextIncrement(price int64) int64 {
	return price + IncrementFor(price)
}

// MinimumBid returns the lowest acceptable maximum for a new bid. The first
// bid on a listing only has to match the starting price; after that a bid
// must clear the current price by one ladder increment.
func MinimumBid(listing models.Listing, hasBids bool) int64 {
	if !hasBids && listing.StartingPrice > 0 {
		return listing.StartingPrice
	}
	return NextIncrement(listing.CurrentPrice)
}
