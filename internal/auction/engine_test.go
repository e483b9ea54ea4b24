package auction

import (
	"errors"
	"testing"
	"time"

	"auction-engine/internal/auctionerrors"
	model "auction-engine/internal/models"

	"github.com/stretchr/testify/require"
)

var engineNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

// Helper to create an open listing ending well outside the soft-close window
func openListing(startingPrice, reservePrice, currentPrice int64) model.Listing {
	return model.Listing{
		ListingID:     "listing1",
		SellerID:      "seller1",
		Title:         "title1",
		StartingPrice: startingPrice,
		ReservePrice:  reservePrice,
		CurrentPrice:  currentPrice,
		EndTime:       engineNow.Add(1 * time.Hour),
	}
}

// Helper to create a winning bid
func winningBid(bidderID string, amount, maxBid int64) *model.Bid {
	return &model.Bid{
		BidID:    "bid-high",
		BidderID: bidderID,
		Amount:   amount,
		MaxBid:   maxBid,
		Status:   model.BidStatusWinning,
	}
}

// Tests Decide validation failures
func TestDecide_Validation(t *testing.T) {
	t.Parallel()

	ended := openListing(100, 0, 100)
	ended.EndTime = engineNow.Add(-1 * time.Minute)

	tests := []struct {
		name          string
		listing       model.Listing
		high          *model.Bid
		bidderID      string
		maxBid        int64
		expectedError error
	}{
		{name: "zero_amount", listing: openListing(100, 0, 100), bidderID: "user1", maxBid: 0, expectedError: auctionerrors.ErrInvalidAmount},
		{name: "negative_amount", listing: openListing(100, 0, 100), bidderID: "user1", maxBid: -50, expectedError: auctionerrors.ErrInvalidAmount},
		{name: "seller_bids_own_listing", listing: openListing(100, 0, 100), bidderID: "seller1", maxBid: 500, expectedError: auctionerrors.ErrSelfBidForbidden},
		{name: "auction_ended", listing: ended, bidderID: "user1", maxBid: 500, expectedError: auctionerrors.ErrAuctionClosed},
		{name: "first_bid_below_starting_price", listing: openListing(100, 0, 100), bidderID: "user1", maxBid: 90, expectedError: auctionerrors.ErrBidTooLow},
		{name: "later_bid_below_increment", listing: openListing(100, 0, 100), high: winningBid("user1", 100, 100), bidderID: "user2", maxBid: 100, expectedError: auctionerrors.ErrBidTooLow},
		{name: "leader_lowers_ceiling", listing: openListing(100, 0, 150), high: winningBid("user1", 150, 300), bidderID: "user1", maxBid: 200, expectedError: auctionerrors.ErrAlreadyHighBidder},
		{name: "leader_repeats_ceiling", listing: openListing(100, 0, 150), high: winningBid("user1", 150, 300), bidderID: "user1", maxBid: 300, expectedError: auctionerrors.ErrAlreadyHighBidder},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := Decide(tc.listing, tc.high, tc.bidderID, tc.maxBid, engineNow)
			require.Error(t, err)
			require.True(t, errors.Is(err, tc.expectedError), "expected error: %v, got: %v", tc.expectedError, err)
		})
	}
}

// Tests Decide first-bid settlement
func TestDecide_FirstBid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		listing        model.Listing
		maxBid         int64
		wantPrice      int64
		wantReserveMet bool
		wantJustMet    bool
	}{
		{
			name:           "no_reserve_opens_at_floor",
			listing:        openListing(100, 0, 100),
			maxBid:         100,
			wantPrice:      100,
			wantReserveMet: true,
			wantJustMet:    false,
		},
		{
			name:           "no_reserve_high_ceiling_still_opens_at_floor",
			listing:        openListing(100, 0, 100),
			maxBid:         9_999,
			wantPrice:      100,
			wantReserveMet: true,
		},
		{
			name:           "reserve_not_covered_shows_full_bid",
			listing:        openListing(1_000, 5_000, 1_000),
			maxBid:         3_000,
			wantPrice:      3_000,
			wantReserveMet: false,
		},
		{
			name:           "reserve_covered_shows_reserve",
			listing:        openListing(1_000, 5_000, 1_000),
			maxBid:         6_000,
			wantPrice:      5_000,
			wantReserveMet: true,
			wantJustMet:    true,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			d, err := Decide(tc.listing, nil, "user1", tc.maxBid, engineNow)
			require.NoError(t, err)

			require.Equal(t, OutcomeFirstBid, d.Outcome)
			require.NotNil(t, d.NewBid)
			require.Nil(t, d.AutoBid)
			require.Equal(t, model.BidStatusWinning, d.NewBid.Status)
			require.Equal(t, tc.wantPrice, d.NewBid.Amount)
			require.Equal(t, tc.maxBid, d.NewBid.MaxBid)
			require.Equal(t, tc.wantPrice, d.Listing.CurrentPrice)
			require.Equal(t, 1, d.Listing.BidCount)
			require.Equal(t, tc.wantReserveMet, d.ReserveMet)
			require.Equal(t, tc.wantJustMet, d.ReserveJustMet)
			require.False(t, d.WasOutbid)
			require.Empty(t, d.OutbidUserID)
		})
	}
}

// Tests Decide when the leader raises their own bid
func TestDecide_LeaderRaises(t *testing.T) {
	t.Parallel()

	t.Run("transparent_phase_records_fresh_row", func(t *testing.T) {
		t.Parallel()
		listing := openListing(1_000, 5_000, 3_000)
		d, err := Decide(listing, winningBid("user1", 3_000, 3_000), "user1", 4_000, engineNow)
		require.NoError(t, err)

		require.Equal(t, OutcomeLeaderRaised, d.Outcome)
		require.NotNil(t, d.NewBid)
		require.Equal(t, model.BidStatusWinning, d.NewBid.Status)
		require.Equal(t, int64(4_000), d.NewBid.Amount)
		require.Equal(t, int64(4_000), d.Listing.CurrentPrice)
		require.Equal(t, 1, d.Listing.BidCount)
		require.False(t, d.ReserveMet)
		require.Empty(t, d.OutbidUserID)
	})

	t.Run("transparent_raise_capped_at_reserve", func(t *testing.T) {
		t.Parallel()
		listing := openListing(1_000, 5_000, 3_000)
		d, err := Decide(listing, winningBid("user1", 3_000, 3_000), "user1", 6_000, engineNow)
		require.NoError(t, err)

		require.Equal(t, int64(5_000), d.Listing.CurrentPrice)
		require.True(t, d.ReserveMet)
		require.True(t, d.ReserveJustMet)
	})

	t.Run("proxy_phase_raises_ceiling_in_place", func(t *testing.T) {
		t.Parallel()
		listing := openListing(100, 0, 150)
		d, err := Decide(listing, winningBid("user1", 150, 300), "user1", 500, engineNow)
		require.NoError(t, err)

		require.Equal(t, OutcomeCeilingRaised, d.Outcome)
		require.Nil(t, d.NewBid)
		require.Nil(t, d.AutoBid)
		require.Equal(t, int64(500), d.RaiseMaxTo)
		require.Equal(t, "bid-high", d.LeaderBidID)
		require.Equal(t, int64(150), d.Listing.CurrentPrice, "price must not move on a silent raise")
		require.Equal(t, 0, d.Listing.BidCount)
		require.True(t, d.ReserveMet)
		require.Empty(t, d.OutbidUserID)
	})
}

// Tests Decide in the transparent phase with a different bidder
func TestDecide_TransparentPhase(t *testing.T) {
	t.Parallel()

	t.Run("overtake_shows_capped_amount", func(t *testing.T) {
		t.Parallel()
		listing := openListing(1_000, 5_000, 3_000)
		d, err := Decide(listing, winningBid("user1", 3_000, 3_000), "user2", 6_000, engineNow)
		require.NoError(t, err)

		require.Equal(t, OutcomeNewLeader, d.Outcome)
		require.Equal(t, int64(5_000), d.NewBid.Amount, "display capped at the reserve")
		require.Equal(t, model.BidStatusWinning, d.NewBid.Status)
		require.Equal(t, int64(5_000), d.Listing.CurrentPrice)
		require.True(t, d.ReserveMet)
		require.True(t, d.ReserveJustMet)
		require.Equal(t, "user1", d.OutbidUserID)
	})

	t.Run("bid_not_exceeding_shown_amount_is_recorded_as_outbid", func(t *testing.T) {
		t.Parallel()
		// Current price trails the leader's shown amount, so a bid can clear
		// the minimum and still fall short of the lead.
		listing := openListing(1_000, 5_000, 2_000)
		d, err := Decide(listing, winningBid("user1", 3_000, 3_000), "user2", 2_500, engineNow)
		require.NoError(t, err)

		require.Equal(t, OutcomeBelowLeader, d.Outcome)
		require.Equal(t, model.BidStatusOutbid, d.NewBid.Status)
		require.Equal(t, int64(2_500), d.NewBid.Amount)
		require.Equal(t, int64(2_000), d.Listing.CurrentPrice, "price unchanged when the lead does not change")
		require.Equal(t, 1, d.Listing.BidCount)
		require.True(t, d.WasOutbid)
		require.False(t, d.ReserveMet)
		require.Empty(t, d.OutbidUserID, "no outbid notification for a losing transparent bid")
	})

	t.Run("tie_with_shown_amount_does_not_take_the_lead", func(t *testing.T) {
		t.Parallel()
		listing := openListing(1_000, 5_000, 2_000)
		d, err := Decide(listing, winningBid("user1", 3_000, 3_000), "user2", 3_000, engineNow)
		require.NoError(t, err)

		require.Equal(t, OutcomeBelowLeader, d.Outcome)
		require.Equal(t, model.BidStatusOutbid, d.NewBid.Status)
	})
}

// Tests Decide in the proxy phase
func TestDecide_ProxyPhase(t *testing.T) {
	t.Parallel()

	t.Run("overtake_prices_one_increment_above_old_ceiling", func(t *testing.T) {
		t.Parallel()
		listing := openListing(1_000, 5_000, 5_000)
		d, err := Decide(listing, winningBid("user2", 5_000, 6_000), "user1", 7_000, engineNow)
		require.NoError(t, err)

		require.Equal(t, OutcomeNewLeader, d.Outcome)
		require.Equal(t, int64(6_050), d.NewBid.Amount)
		require.Equal(t, int64(6_050), d.Listing.CurrentPrice)
		require.Equal(t, "user2", d.OutbidUserID)
		require.True(t, d.ReserveMet)
		require.False(t, d.ReserveJustMet)
	})

	t.Run("overtake_never_exceeds_new_ceiling", func(t *testing.T) {
		t.Parallel()
		// Both ceilings inside one ladder step: 312+10 would overshoot 315.
		listing := openListing(100, 0, 300)
		d, err := Decide(listing, winningBid("user2", 300, 312), "user1", 315, engineNow)
		require.NoError(t, err)

		require.Equal(t, OutcomeNewLeader, d.Outcome)
		require.Equal(t, int64(315), d.NewBid.Amount)
		require.Equal(t, int64(315), d.Listing.CurrentPrice)
	})

	t.Run("standing_maximum_defeats_bid_and_autobids", func(t *testing.T) {
		t.Parallel()
		listing := openListing(100, 0, 100)
		d, err := Decide(listing, winningBid("user1", 100, 200), "user2", 150, engineNow)
		require.NoError(t, err)

		require.Equal(t, OutcomeOutbidByProxy, d.Outcome)
		require.Equal(t, model.BidStatusOutbid, d.NewBid.Status)
		require.Equal(t, int64(150), d.NewBid.Amount)
		require.True(t, d.WasOutbid)
		require.Equal(t, "user2", d.OutbidUserID, "the submitter is the one notified")

		require.NotNil(t, d.AutoBid)
		require.True(t, d.AutoBid.IsAutoBid)
		require.Equal(t, "user1", d.AutoBid.BidderID)
		require.Equal(t, model.BidStatusWinning, d.AutoBid.Status)
		require.Equal(t, int64(101), d.AutoBid.Amount, "price steps up one increment")
		require.Equal(t, int64(200), d.AutoBid.MaxBid)
		require.Equal(t, int64(101), d.Listing.CurrentPrice)
		require.Equal(t, 2, d.Listing.BidCount, "losing bid and auto-bid both count")
	})

	t.Run("autobid_skipped_at_ceiling_boundary", func(t *testing.T) {
		t.Parallel()
		// The step after the auto-bid would overrun the leader's ceiling, so
		// the leader's own row stands at its last shown amount.
		listing := openListing(100, 0, 100)
		d, err := Decide(listing, winningBid("user1", 100, 101), "user2", 101, engineNow)
		require.NoError(t, err)

		require.Equal(t, OutcomeOutbidByProxy, d.Outcome)
		require.Nil(t, d.AutoBid)
		require.Equal(t, int64(100), d.Listing.CurrentPrice)
		require.Equal(t, 1, d.Listing.BidCount)
		require.True(t, d.WasOutbid)
	})
}

// Tests Decide soft-close extension
func TestDecide_SoftClose(t *testing.T) {
	t.Parallel()

	t.Run("bid_inside_window_extends", func(t *testing.T) {
		t.Parallel()
		listing := openListing(100, 0, 100)
		originalEnd := engineNow.Add(1 * time.Minute)
		listing.EndTime = originalEnd

		d, err := Decide(listing, nil, "user1", 100, engineNow)
		require.NoError(t, err)

		require.True(t, d.Extended)
		require.Equal(t, engineNow.Add(SoftCloseWindow), d.Listing.EndTime)
		require.Equal(t, originalEnd, d.Listing.OriginalEndTime, "first extension records the pre-extension end time")
	})

	t.Run("re_extension_keeps_original_end_time", func(t *testing.T) {
		t.Parallel()
		listing := openListing(100, 0, 100)
		firstEnd := engineNow.Add(-1 * time.Hour)
		listing.OriginalEndTime = firstEnd
		listing.EndTime = engineNow.Add(90 * time.Second)

		d, err := Decide(listing, nil, "user1", 100, engineNow)
		require.NoError(t, err)

		require.True(t, d.Extended)
		require.Equal(t, engineNow.Add(SoftCloseWindow), d.Listing.EndTime)
		require.Equal(t, firstEnd, d.Listing.OriginalEndTime, "original end time is set exactly once")
	})

	t.Run("bid_outside_window_leaves_end_time_alone", func(t *testing.T) {
		t.Parallel()
		listing := openListing(100, 0, 100)
		end := engineNow.Add(10 * time.Minute)
		listing.EndTime = end

		d, err := Decide(listing, nil, "user1", 100, engineNow)
		require.NoError(t, err)

		require.False(t, d.Extended)
		require.Equal(t, end, d.Listing.EndTime)
		require.True(t, d.Listing.OriginalEndTime.IsZero())
	})
}
