package auction

import (
	"errors"
	"fmt"
	"time"

	"auction-engine/internal/auctionerrors"
	"auction-engine/internal/billing"
	"auction-engine/internal/models"
	"auction-engine/internal/notify"
	"auction-engine/internal/repository"
	"auction-engine/utils"
)

// BidResult is returned to the bidder after a successful PlaceBid call.
type BidResult struct {
	Message         string
	CurrentPrice    int64
	BidCount        int
	WasOutbid       bool
	ReserveMet      bool
	AuctionExtended bool
}

// StateView is the public read model of a listing's auction.
type StateView struct {
	ListingID       string
	Title           string
	CurrentPrice    int64
	MinimumNextBid  int64
	BidCount        int
	HasReserve      bool
	ReserveMet      bool
	WinningBidderID string
	EndTime         time.Time
	OriginalEndTime time.Time
	TimeRemaining   time.Duration
	Ended           bool
}

// AuctionService defines the business logic for proxy-bid settlement
type AuctionService struct {
	repo           repository.AuctionDB
	sink           notify.Sink
	premiumPercent float64
	now            func() time.Time
}

// NewAuctionService creates a new AuctionService instance
func NewAuctionService(repo repository.AuctionDB, sink notify.Sink, premiumPercent float64) *AuctionService {
	return &AuctionService{
		repo:           repo,
		sink:           sink,
		premiumPercent: premiumPercent,
		now:            time.Now,
	}
}

// PlaceBid validates and settles a user's proxy bid on a listing. All reads
// and writes for the call run inside the listing's critical section;
// notifications go out only after the transaction committed.
func (s *AuctionService) PlaceBid(listingID, bidderID string, maxBid int64) (BidResult, error) {
	if listingID == "" || bidderID == "" {
		return BidResult{}, fmt.Errorf("service: %w - missing listingID or bidderID", auctionerrors.ErrInvalidBid)
	}
	if maxBid <= 0 {
		return BidResult{}, fmt.Errorf("service: %w", auctionerrors.ErrInvalidAmount)
	}

	now := s.now()
	var result BidResult
	var events []notify.Event

	err := s.repo.UpdateListingTx(listingID, func(tx repository.AuctionTx) error {
		listing, err := tx.Listing()
		if err != nil {
			return err
		}

		var high *models.Bid
		if winning, err := tx.WinningBid(); err == nil {
			high = &winning
		} else if !errors.Is(err, auctionerrors.ErrNoBids) {
			return err
		}

		d, err := Decide(listing, high, bidderID, maxBid, now)
		if err != nil {
			return err
		}

		if d.RaiseMaxTo > 0 {
			if err := tx.RaiseMaxBid(d.LeaderBidID, d.RaiseMaxTo); err != nil {
				return err
			}
		}

		winningRowID := ""
		if d.NewBid != nil {
			d.NewBid.BidID = utils.GenerateID()
			d.NewBid.ListingID = listingID
			d.NewBid.CreatedAt = now
			if err := tx.InsertBid(*d.NewBid); err != nil {
				return err
			}
			if d.NewBid.Status == models.BidStatusWinning {
				winningRowID = d.NewBid.BidID
			}
		}
		if d.AutoBid != nil {
			d.AutoBid.BidID = utils.GenerateID()
			d.AutoBid.ListingID = listingID
			d.AutoBid.CreatedAt = now
			if err := tx.InsertBid(*d.AutoBid); err != nil {
				return err
			}
			winningRowID = d.AutoBid.BidID
		}
		if winningRowID != "" {
			if err := tx.MarkOthersOutbid(winningRowID); err != nil {
				return err
			}
		}

		if err := tx.SaveListing(d.Listing); err != nil {
			return err
		}

		result = BidResult{
			Message:         d.Message,
			CurrentPrice:    d.Listing.CurrentPrice,
			BidCount:        d.Listing.BidCount,
			WasOutbid:       d.WasOutbid,
			ReserveMet:      d.ReserveMet,
			AuctionExtended: d.Extended,
		}
		events = buildEvents(d, listing)
		return nil
	})
	if err != nil {
		return BidResult{}, fmt.Errorf("service: place bid on listing %s by user %s: %w", listingID, bidderID, err)
	}

	s.publish(events)
	return result, nil
}

// buildEvents assembles the outbound notifications for one settled bid.
// The seller always hears about an accepted bid; the reserve-met event
// fires only on the false-to-true flip; at most one party gets an outbid
// event.
func buildEvents(d Decision, before models.Listing) []notify.Event {
	events := []notify.Event{{
		Kind:         notify.KindNewBid,
		UserID:       before.SellerID,
		ListingID:    before.ListingID,
		ListingTitle: before.Title,
		Amount:       d.Listing.CurrentPrice,
	}}
	if d.ReserveJustMet {
		events = append(events, notify.Event{
			Kind:         notify.KindReserveMet,
			UserID:       before.SellerID,
			ListingID:    before.ListingID,
			ListingTitle: before.Title,
			Amount:       before.ReservePrice,
		})
	}
	if d.OutbidUserID != "" {
		events = append(events, notify.Event{
			Kind:         notify.KindOutbid,
			UserID:       d.OutbidUserID,
			ListingID:    before.ListingID,
			ListingTitle: before.Title,
			Amount:       d.Listing.CurrentPrice,
		})
	}
	return events
}

// publish delivers events best-effort off the request path. Sink failures
// are logged and never surface to the bidder.
func (s *AuctionService) publish(events []notify.Event) {
	if s.sink == nil {
		return
	}
	go func() {
		defer func() {
			if r := recover(); r != nil {
				utils.Error("notification publish panicked", map[string]any{"panic": fmt.Sprint(r)})
			}
		}()
		for _, event := range events {
			if err := s.sink.Publish(event); err != nil {
				utils.Warn("notification delivery failed", map[string]any{
					"kind":       string(event.Kind),
					"user_id":    event.UserID,
					"listing_id": event.ListingID,
					"error":      err.Error(),
				})
			}
		}
	}()
}

// AuctionState returns the public auction state for a listing
func (s *AuctionService) AuctionState(listingID string) (StateView, error) {
	if listingID == "" {
		return StateView{}, fmt.Errorf("service: %w - empty listing ID", auctionerrors.ErrInvalidBid)
	}

	listing, err := s.repo.GetListing(listingID)
	if err != nil {
		return StateView{}, fmt.Errorf("service: get auction state for listing %s: %w", listingID, err)
	}

	var high *models.Bid
	if winning, err := s.repo.GetWinningBid(listingID); err == nil {
		high = &winning
	} else if !errors.Is(err, auctionerrors.ErrNoBids) {
		return StateView{}, fmt.Errorf("service: get auction state for listing %s: %w", listingID, err)
	}

	now := s.now()
	view := StateView{
		ListingID:       listing.ListingID,
		Title:           listing.Title,
		CurrentPrice:    listing.CurrentPrice,
		MinimumNextBid:  MinimumBid(listing, high != nil),
		BidCount:        listing.BidCount,
		HasReserve:      listing.HasReserve(),
		ReserveMet:      !listing.HasReserve() || (high != nil && high.Amount >= listing.ReservePrice),
		EndTime:         listing.EndTime,
		OriginalEndTime: listing.OriginalEndTime,
		Ended:           !now.Before(listing.EndTime),
	}
	if high != nil {
		view.WinningBidderID = high.BidderID
	}
	if !view.Ended {
		view.TimeRemaining = listing.EndTime.Sub(now)
	}
	return view, nil
}

// BidsForListing returns all bids for a specific listing, oldest first
func (s *AuctionService) BidsForListing(listingID string) ([]models.Bid, error) {
	if listingID == "" {
		return nil, fmt.Errorf("service: %w - empty listing ID", auctionerrors.ErrInvalidBid)
	}

	bids, err := s.repo.GetBidsByListing(listingID)
	if err != nil {
		return nil, fmt.Errorf("service: get bids for listing %s: %w", listingID, err)
	}
	return bids, nil
}

// ListingsByBidder returns all listings a user has placed bids on
func (s *AuctionService) ListingsByBidder(userID string) ([]models.Listing, error) {
	if userID == "" {
		return nil, fmt.Errorf("service: %w - empty user ID", auctionerrors.ErrInvalidBid)
	}

	listings, err := s.repo.GetListingsByBidder(userID)
	if err != nil {
		return nil, fmt.Errorf("service: get listings for user %s: %w", userID, err)
	}
	return listings, nil
}

// Invoice bills the winning bidder of an ended auction
func (s *AuctionService) Invoice(listingID string) (billing.Invoice, error) {
	if listingID == "" {
		return billing.Invoice{}, fmt.Errorf("service: %w - empty listing ID", auctionerrors.ErrInvalidBid)
	}

	listing, err := s.repo.GetListing(listingID)
	if err != nil {
		return billing.Invoice{}, fmt.Errorf("service: invoice for listing %s: %w", listingID, err)
	}
	winning, err := s.repo.GetWinningBid(listingID)
	if err != nil {
		return billing.Invoice{}, fmt.Errorf("service: invoice for listing %s: %w", listingID, err)
	}
	return billing.NewInvoice(listing, winning, s.premiumPercent, s.now())
}
