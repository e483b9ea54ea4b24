package repository

import (
	"fmt"
	"sync"

	"auction-engine/internal/auctionerrors"
	model "auction-engine/internal/models"
)

// AuctionDB defines the listing/bid storage interface for the auction system.
// All writes for one PlaceBid call go through UpdateListingTx so they land
// atomically with respect to concurrent calls on the same listing.
type AuctionDB interface {
	GetListing(listingID string) (model.Listing, error)
	GetBidsByListing(listingID string) ([]model.Bid, error)
	GetWinningBid(listingID string) (model.Bid, error)
	GetListingsByBidder(userID string) ([]model.Listing, error)
	GetUser(userID string) (model.User, error)
	AddListing(listing model.Listing) error
	AddUser(user model.User) error
	// UpdateListingTx runs fn inside a critical section scoped to one
	// listing. Writes staged through tx become visible only if fn returns
	// nil; any error discards them all. Calls for different listings do not
	// contend.
	UpdateListingTx(listingID string, fn func(tx AuctionTx) error) error
}

// AuctionTx is the atomic read/write unit handed to UpdateListingTx callers.
type AuctionTx interface {
	Listing() (model.Listing, error)
	// WinningBid returns the bid with winning status, ErrNoBids when the
	// listing has none.
	WinningBid() (model.Bid, error)
	InsertBid(bid model.Bid) error
	// RaiseMaxBid lifts an existing bid's private ceiling in place.
	RaiseMaxBid(bidID string, maxBid int64) error
	// MarkOthersOutbid flips every bid except the given one to outbid,
	// keeping at most one winning row per listing.
	MarkOthersOutbid(winningBidID string) error
	SaveListing(listing model.Listing) error
}

// MemoryRepo is a concurrency-safe in-memory implementation of AuctionDB
type MemoryRepo struct {
	mu           sync.RWMutex
	listings     map[string]model.Listing // key: listingID -> listing
	bids         map[string][]model.Bid   // key: listingID -> list of bids
	users        map[string]model.User    // key: userID -> user
	userListings map[string][]string      // key: userID -> listingIDs user has bid on

	lockMu       sync.Mutex
	listingLocks map[string]*sync.Mutex // per-listing write serialization
}

// NewMemoryRepo creates a new in-memory repository instance
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		listings:     make(map[string]model.Listing),
		bids:         make(map[string][]model.Bid),
		users:        make(map[string]model.User),
		userListings: make(map[string][]string),
		listingLocks: make(map[string]*sync.Mutex),
	}
}

func (r *MemoryRepo) listingLock(listingID string) *sync.Mutex {
	r.lockMu.Lock()
	defer r.lockMu.Unlock()
	lock, ok := r.listingLocks[listingID]
	if !ok {
		lock = &sync.Mutex{}
		r.listingLocks[listingID] = lock
	}
	return lock
}

// GetListing returns a listing by ID
func (r *MemoryRepo) GetListing(listingID string) (model.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	listing, ok := r.listings[listingID]
	if !ok {
		return model.Listing{}, fmt.Errorf("get listing %s: %w", listingID, auctionerrors.ErrListingNotFound)
	}
	return listing, nil
}

// GetBidsByListing returns all bids for a listing in insertion order
func (r *MemoryRepo) GetBidsByListing(listingID string) ([]model.Bid, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bids, ok := r.bids[listingID]
	if !ok || len(bids) == 0 {
		return nil, fmt.Errorf("get bids for listing %s: %w", listingID, auctionerrors.ErrNoBids)
	}
	return append([]model.Bid(nil), bids...), nil
}

// GetWinningBid returns the bid currently marked winning for a listing
func (r *MemoryRepo) GetWinningBid(listingID string) (model.Bid, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, b := range r.bids[listingID] {
		if b.Status == model.BidStatusWinning {
			return b, nil
		}
	}
	return model.Bid{}, fmt.Errorf("get winning bid for listing %s: %w", listingID, auctionerrors.ErrNoBids)
}

// GetListingsByBidder returns all listings a user has bid on
func (r *MemoryRepo) GetListingsByBidder(userID string) ([]model.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	listingIDs, ok := r.userListings[userID]
	if !ok || len(listingIDs) == 0 {
		return nil, fmt.Errorf("get listings for user %s: %w", userID, auctionerrors.ErrUserNoBids)
	}

	listings := make([]model.Listing, 0, len(listingIDs))
	for _, id := range listingIDs {
		if listing, exists := r.listings[id]; exists {
			listings = append(listings, listing)
		}
	}
	return listings, nil
}

// GetUser returns a user profile by ID
func (r *MemoryRepo) GetUser(userID string) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[userID]
	if !ok {
		return model.User{}, fmt.Errorf("get user %s: %w", userID, auctionerrors.ErrUserNotFound)
	}
	return user, nil
}

// AddListing registers a listing. The current price starts at the starting
// price unless already set.
func (r *MemoryRepo) AddListing(listing model.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if listing.CurrentPrice == 0 {
		listing.CurrentPrice = listing.StartingPrice
	}
	r.listings[listing.ListingID] = listing
	return nil
}

// AddUser registers a user profile
func (r *MemoryRepo) AddUser(user model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.UserID] = user
	return nil
}

// UpdateListingTx serializes fn against other transactions on the same
// listing. fn works on staged copies; they replace the live state only when
// fn returns nil, so a failed call never leaves a partial bid visible.
func (r *MemoryRepo) UpdateListingTx(listingID string, fn func(tx AuctionTx) error) error {
	lock := r.listingLock(listingID)
	lock.Lock()
	defer lock.Unlock()

	r.mu.RLock()
	listing, ok := r.listings[listingID]
	bids := append([]model.Bid(nil), r.bids[listingID]...)
	r.mu.RUnlock()

	tx := &memTx{listingID: listingID, listing: listing, found: ok, bids: bids}
	if err := fn(tx); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.listings[listingID] = tx.listing
	r.bids[listingID] = tx.bids
	for _, userID := range tx.bidders {
		r.noteBidderLocked(userID, listingID)
	}
	return nil
}

// noteBidderLocked records that a user has bid on a listing. Caller holds mu.
func (r *MemoryRepo) noteBidderLocked(userID, listingID string) {
	for _, id := range r.userListings[userID] {
		if id == listingID {
			return
		}
	}
	r.userListings[userID] = append(r.userListings[userID], listingID)
}

// memTx stages writes for one listing until the transaction commits.
type memTx struct {
	listingID string
	listing   model.Listing
	found     bool
	bids      []model.Bid
	bidders   []string
}

func (t *memTx) Listing() (model.Listing, error) {
	if !t.found {
		return model.Listing{}, fmt.Errorf("listing tx %s: %w", t.listingID, auctionerrors.ErrListingNotFound)
	}
	return t.listing, nil
}

func (t *memTx) WinningBid() (model.Bid, error) {
	for _, b := range t.bids {
		if b.Status == model.BidStatusWinning {
			return b, nil
		}
	}
	return model.Bid{}, fmt.Errorf("winning bid for listing %s: %w", t.listingID, auctionerrors.ErrNoBids)
}

func (t *memTx) InsertBid(bid model.Bid) error {
	t.bids = append(t.bids, bid)
	t.bidders = append(t.bidders, bid.BidderID)
	return nil
}

func (t *memTx) RaiseMaxBid(bidID string, maxBid int64) error {
	for i := range t.bids {
		if t.bids[i].BidID == bidID {
			t.bids[i].MaxBid = maxBid
			return nil
		}
	}
	return fmt.Errorf("raise max for bid %s: %w", bidID, auctionerrors.ErrNoBids)
}

func (t *memTx) MarkOthersOutbid(winningBidID string) error {
	for i := range t.bids {
		if t.bids[i].BidID != winningBidID {
			t.bids[i].Status = model.BidStatusOutbid
		}
	}
	return nil
}

func (t *memTx) SaveListing(listing model.Listing) error {
	t.listing = listing
	return nil
}
