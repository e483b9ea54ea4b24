package auction

import (
	"fmt"
	"time"

	"auction-engine/internal/auctionerrors"
	"auction-engine/internal/models"
)

// SoftCloseWindow is the anti-sniping window: any accepted bid landing this
// close to the end time pushes the end time out to now + SoftCloseWindow.
const SoftCloseWindow = 2 * time.Minute

// Outcome identifies which settlement case an accepted bid fell into.
type Outcome string

const (
	// OutcomeFirstBid - no prior bids, the bidder leads immediately.
	OutcomeFirstBid Outcome = "first_bid"
	// OutcomeNewLeader - the bidder overtook the previous leader, either
	// transparently (reserve not met) or through proxy settlement.
	OutcomeNewLeader Outcome = "new_leader"
	// OutcomeLeaderRaised - the current leader re-bid before the reserve was
	// met; a fresh row is recorded but leadership does not change.
	OutcomeLeaderRaised Outcome = "leader_raised"
	// OutcomeCeilingRaised - the current leader raised their private maximum
	// after the reserve was met; the existing row is updated in place.
	OutcomeCeilingRaised Outcome = "ceiling_raised"
	// OutcomeOutbidByProxy - the bid was beaten on arrival by the leader's
	// standing maximum.
	OutcomeOutbidByProxy Outcome = "outbid_by_proxy"
	// OutcomeBelowLeader - transparent phase only: the bid did not exceed the
	// leader's shown amount and is recorded as already outbid.
	OutcomeBelowLeader Outcome = "below_leader"
)

// Decision is the full settlement result for one accepted bid. The caller
// applies it inside the listing's transaction: insert NewBid and AutoBid
// when set, raise the leader's ceiling when RaiseMaxTo is set, flip every
// other bid to outbid when a winning row was written, then save Listing.
type Decision struct {
	Outcome Outcome
	Message string

	// Listing is the updated listing row: current price, bid count and any
	// soft-close extension already applied.
	Listing models.Listing

	// NewBid is the row for the submitted bid; nil for an in-place ceiling
	// raise. IDs and timestamps are left for the caller to fill.
	NewBid *models.Bid
	// AutoBid is a synthesized counter-bid on behalf of the standing leader;
	// only set when their maximum instantly defeats the submitted bid.
	AutoBid *models.Bid
	// RaiseMaxTo, when positive, raises the ceiling of LeaderBidID in place.
	RaiseMaxTo  int64
	LeaderBidID string

	// OutbidUserID names the party displaced (or instantly defeated) by this
	// bid; empty when nobody needs an outbid notification.
	OutbidUserID string

	WasOutbid      bool
	ReserveMet     bool
	ReserveJustMet bool
	Extended       bool
}

// reserveSatisfied reports whether the shown amount clears the listing's
// reserve. A listing without a reserve is always satisfied.
func reserveSatisfied(listing models.Listing, amount int64) bool {
	return !listing.HasReserve() || amount >= listing.ReservePrice
}

// cappedAtReserve returns the transparent-phase display amount:
// the bidder's full maximum, capped at the reserve once it is reached.
func cappedAtReserve(listing models.Listing, maxBid int64) int64 {
	if listing.HasReserve() && maxBid > listing.ReservePrice {
		return listing.ReservePrice
	}
	return maxBid
}

// Decide runs the settlement case analysis for one incoming proxy bid.
// high is the current winning bid, nil when the listing has none. Decide is
// pure: it validates, picks the case and returns every write the caller
// must apply atomically.
func Decide(listing models.Listing, high *models.Bid, bidderID string, maxBid int64, now time.Time) (Decision, error) {
	if maxBid <= 0 {
		return Decision{}, fmt.Errorf("engine: %w", auctionerrors.ErrInvalidAmount)
	}
	if bidderID == listing.SellerID {
		return Decision{}, fmt.Errorf("engine: %w", auctionerrors.ErrSelfBidForbidden)
	}
	if !now.Before(listing.EndTime) {
		return Decision{}, fmt.Errorf("engine: %w", auctionerrors.ErrAuctionClosed)
	}

	minBid := MinimumBid(listing, high != nil)
	if maxBid < minBid {
		return Decision{}, fmt.Errorf("engine: %w - minimum next bid is %d", auctionerrors.ErrBidTooLow, minBid)
	}

	reserveMetBefore := high != nil && reserveSatisfied(listing, high.Amount)

	d := Decision{Listing: listing}
	bidRows := 0

	switch {
	case high == nil:
		// First bid: the bidder leads at the reserve (if covered), their own
		// amount (reserve not covered), or the auction floor (no reserve).
		amount := cappedAtReserve(listing, maxBid)
		if !listing.HasReserve() {
			amount = minBid
		}
		d.Outcome = OutcomeFirstBid
		d.Message = "bid accepted - you are the high bidder"
		d.NewBid = &models.Bid{BidderID: bidderID, Amount: amount, MaxBid: maxBid, Status: models.BidStatusWinning}
		d.Listing.CurrentPrice = amount
		bidRows = 1

	case bidderID == high.BidderID:
		if maxBid <= high.MaxBid {
			return Decision{}, fmt.Errorf("engine: %w", auctionerrors.ErrAlreadyHighBidder)
		}
		if !reserveMetBefore {
			// Transparent phase: the raise is shown like any other bid.
			amount := cappedAtReserve(listing, maxBid)
			d.Outcome = OutcomeLeaderRaised
			d.Message = "bid increased - you are still the high bidder"
			d.NewBid = &models.Bid{BidderID: bidderID, Amount: amount, MaxBid: maxBid, Status: models.BidStatusWinning}
			d.Listing.CurrentPrice = amount
			bidRows = 1
		} else {
			// Proxy phase: the ceiling is private, so nothing visible moves.
			d.Outcome = OutcomeCeilingRaised
			d.Message = "maximum bid updated - current price unchanged"
			d.RaiseMaxTo = maxBid
			d.LeaderBidID = high.BidID
		}

	case !reserveMetBefore:
		// Transparent phase, different bidder: shown amounts compete
		// directly and a tie does not take the lead.
		amount := cappedAtReserve(listing, maxBid)
		if amount > high.Amount {
			d.Outcome = OutcomeNewLeader
			d.Message = "bid accepted - you are the new high bidder"
			d.NewBid = &models.Bid{BidderID: bidderID, Amount: amount, MaxBid: maxBid, Status: models.BidStatusWinning}
			d.Listing.CurrentPrice = amount
			d.OutbidUserID = high.BidderID
		} else {
			d.Outcome = OutcomeBelowLeader
			d.Message = "bid accepted - you are not the high bidder"
			d.NewBid = &models.Bid{BidderID: bidderID, Amount: amount, MaxBid: maxBid, Status: models.BidStatusOutbid}
			d.WasOutbid = true
		}
		bidRows = 1

	case maxBid > high.MaxBid:
		// Proxy overtake: price lands one increment above the displaced
		// leader's ceiling, never above the new leader's own ceiling.
		amount := NextIncrement(high.MaxBid)
		if amount > maxBid {
			amount = maxBid
		}
		d.Outcome = OutcomeNewLeader
		d.Message = "bid accepted - you are the new high bidder"
		d.NewBid = &models.Bid{BidderID: bidderID, Amount: amount, MaxBid: maxBid, Status: models.BidStatusWinning}
		d.Listing.CurrentPrice = amount
		d.OutbidUserID = high.BidderID
		bidRows = 1

	default:
		// The standing maximum defeats the bid on arrival. The price steps
		// up one increment via a synthesized bid for the leader, unless the
		// ladder step after that would overrun the leader's ceiling - then
		// the leader's own row stands at its last shown amount.
		d.Outcome = OutcomeOutbidByProxy
		d.Message = "bid accepted - instantly outbid by another bidder's maximum"
		d.NewBid = &models.Bid{BidderID: bidderID, Amount: maxBid, MaxBid: maxBid, Status: models.BidStatusOutbid}
		d.WasOutbid = true
		d.OutbidUserID = bidderID
		bidRows = 1

		step := NextIncrement(listing.CurrentPrice)
		if NextIncrement(step) <= high.MaxBid {
			d.AutoBid = &models.Bid{
				BidderID:  high.BidderID,
				Amount:    step,
				MaxBid:    high.MaxBid,
				Status:    models.BidStatusWinning,
				IsAutoBid: true,
			}
			d.Listing.CurrentPrice = step
			bidRows = 2
		}
	}

	d.Listing.BidCount += bidRows

	winningAmount := d.Listing.CurrentPrice
	if d.Outcome == OutcomeBelowLeader {
		winningAmount = high.Amount
	}
	d.ReserveMet = reserveSatisfied(d.Listing, winningAmount)
	d.ReserveJustMet = d.Listing.HasReserve() && !reserveMetBefore && d.ReserveMet

	if d.Listing.EndTime.Sub(now) <= SoftCloseWindow {
		if d.Listing.OriginalEndTime.IsZero() {
			d.Listing.OriginalEndTime = d.Listing.EndTime
		}
		d.Listing.EndTime = now.Add(SoftCloseWindow)
		d.Extended = true
	}

	return d, nil
}
