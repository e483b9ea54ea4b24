package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"auction-engine/internal/auctionerrors"
	model "auction-engine/internal/models"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// SQLStore implements AuctionDB over sqlx, usable with the pure-Go sqlite
// driver or lib/pq Postgres. Timestamps are stored as RFC3339 text so both
// drivers scan them identically.
type SQLStore struct {
	db       *sqlx.DB
	postgres bool
}

// OpenSQLStore opens the store, verifies connectivity and ensures the
// schema. driver is "sqlite" or "postgres".
func OpenSQLStore(driver, dsn string) (*SQLStore, error) {
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", driver, err)
	}
	if driver == "sqlite" {
		// modernc sqlite allows one writer; a single connection avoids
		// SQLITE_BUSY on transaction upgrades.
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping %s store: %w", driver, err)
	}

	s := &SQLStore{db: db, postgres: driver == "postgres"}
	if err := s.ensureSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

// Close releases the underlying connection pool.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

func (s *SQLStore) ensureSchema() error {
	schema := `
CREATE TABLE IF NOT EXISTS users(
  user_id       TEXT PRIMARY KEY,
  username      TEXT NOT NULL,
  email         TEXT NOT NULL DEFAULT '',
  outbid_emails BOOLEAN NOT NULL DEFAULT TRUE
);

CREATE TABLE IF NOT EXISTS listings(
  listing_id        TEXT PRIMARY KEY,
  seller_id         TEXT NOT NULL,
  title             TEXT NOT NULL,
  description       TEXT NOT NULL DEFAULT '',
  starting_price    BIGINT NOT NULL,
  reserve_price     BIGINT NOT NULL DEFAULT 0,
  current_price     BIGINT NOT NULL,
  bid_count         INTEGER NOT NULL DEFAULT 0,
  end_time          TEXT NOT NULL,
  original_end_time TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS bids(
  bid_id      TEXT PRIMARY KEY,
  listing_id  TEXT NOT NULL REFERENCES listings(listing_id),
  bidder_id   TEXT NOT NULL,
  amount      BIGINT NOT NULL,
  max_bid     BIGINT NOT NULL,
  status      TEXT NOT NULL CHECK (status IN ('winning','outbid')),
  is_auto_bid BOOLEAN NOT NULL DEFAULT FALSE,
  created_at  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_bids_listing ON bids(listing_id);
CREATE INDEX IF NOT EXISTS idx_bids_bidder  ON bids(bidder_id);
`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

type listingRow struct {
	ListingID       string `db:"listing_id"`
	SellerID        string `db:"seller_id"`
	Title           string `db:"title"`
	Description     string `db:"description"`
	StartingPrice   int64  `db:"starting_price"`
	ReservePrice    int64  `db:"reserve_price"`
	CurrentPrice    int64  `db:"current_price"`
	BidCount        int    `db:"bid_count"`
	EndTime         string `db:"end_time"`
	OriginalEndTime string `db:"original_end_time"`
}

type bidRow struct {
	BidID     string `db:"bid_id"`
	ListingID string `db:"listing_id"`
	BidderID  string `db:"bidder_id"`
	Amount    int64  `db:"amount"`
	MaxBid    int64  `db:"max_bid"`
	Status    string `db:"status"`
	IsAutoBid bool   `db:"is_auto_bid"`
	CreatedAt string `db:"created_at"`
}

type userRow struct {
	UserID       string `db:"user_id"`
	Username     string `db:"username"`
	Email        string `db:"email"`
	OutbidEmails bool   `db:"outbid_emails"`
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339Nano, s)
}

func (row listingRow) toModel() (model.Listing, error) {
	endTime, err := parseTime(row.EndTime)
	if err != nil {
		return model.Listing{}, fmt.Errorf("parse end_time for listing %s: %w", row.ListingID, err)
	}
	originalEndTime, err := parseTime(row.OriginalEndTime)
	if err != nil {
		return model.Listing{}, fmt.Errorf("parse original_end_time for listing %s: %w", row.ListingID, err)
	}
	return model.Listing{
		ListingID:       row.ListingID,
		SellerID:        row.SellerID,
		Title:           row.Title,
		Description:     row.Description,
		StartingPrice:   row.StartingPrice,
		ReservePrice:    row.ReservePrice,
		CurrentPrice:    row.CurrentPrice,
		BidCount:        row.BidCount,
		EndTime:         endTime,
		OriginalEndTime: originalEndTime,
	}, nil
}

func (row bidRow) toModel() (model.Bid, error) {
	createdAt, err := parseTime(row.CreatedAt)
	if err != nil {
		return model.Bid{}, fmt.Errorf("parse created_at for bid %s: %w", row.BidID, err)
	}
	return model.Bid{
		BidID:     row.BidID,
		ListingID: row.ListingID,
		BidderID:  row.BidderID,
		Amount:    row.Amount,
		MaxBid:    row.MaxBid,
		Status:    model.BidStatus(row.Status),
		IsAutoBid: row.IsAutoBid,
		CreatedAt: createdAt,
	}, nil
}

// GetListing returns a listing by ID
func (s *SQLStore) GetListing(listingID string) (model.Listing, error) {
	var row listingRow
	err := s.db.Get(&row, s.db.Rebind(`SELECT * FROM listings WHERE listing_id = ?`), listingID)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Listing{}, fmt.Errorf("get listing %s: %w", listingID, auctionerrors.ErrListingNotFound)
	}
	if err != nil {
		return model.Listing{}, fmt.Errorf("get listing %s: %w", listingID, err)
	}
	return row.toModel()
}

// GetBidsByListing returns all bids for a listing in insertion order
func (s *SQLStore) GetBidsByListing(listingID string) ([]model.Bid, error) {
	var rows []bidRow
	err := s.db.Select(&rows, s.db.Rebind(
		`SELECT * FROM bids WHERE listing_id = ? ORDER BY created_at, bid_id`), listingID)
	if err != nil {
		return nil, fmt.Errorf("get bids for listing %s: %w", listingID, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("get bids for listing %s: %w", listingID, auctionerrors.ErrNoBids)
	}
	bids := make([]model.Bid, 0, len(rows))
	for _, row := range rows {
		bid, err := row.toModel()
		if err != nil {
			return nil, err
		}
		bids = append(bids, bid)
	}
	return bids, nil
}

// GetWinningBid returns the bid currently marked winning for a listing
func (s *SQLStore) GetWinningBid(listingID string) (model.Bid, error) {
	var row bidRow
	err := s.db.Get(&row, s.db.Rebind(
		`SELECT * FROM bids WHERE listing_id = ? AND status = 'winning'`), listingID)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Bid{}, fmt.Errorf("get winning bid for listing %s: %w", listingID, auctionerrors.ErrNoBids)
	}
	if err != nil {
		return model.Bid{}, fmt.Errorf("get winning bid for listing %s: %w", listingID, err)
	}
	return row.toModel()
}

// GetListingsByBidder returns all listings a user has bid on
func (s *SQLStore) GetListingsByBidder(userID string) ([]model.Listing, error) {
	var rows []listingRow
	err := s.db.Select(&rows, s.db.Rebind(`
		SELECT l.* FROM listings l
		WHERE l.listing_id IN (SELECT DISTINCT listing_id FROM bids WHERE bidder_id = ?)
		ORDER BY l.listing_id`), userID)
	if err != nil {
		return nil, fmt.Errorf("get listings for user %s: %w", userID, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("get listings for user %s: %w", userID, auctionerrors.ErrUserNoBids)
	}
	listings := make([]model.Listing, 0, len(rows))
	for _, row := range rows {
		listing, err := row.toModel()
		if err != nil {
			return nil, err
		}
		listings = append(listings, listing)
	}
	return listings, nil
}

// GetUser returns a user profile by ID
func (s *SQLStore) GetUser(userID string) (model.User, error) {
	var row userRow
	err := s.db.Get(&row, s.db.Rebind(`SELECT * FROM users WHERE user_id = ?`), userID)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, fmt.Errorf("get user %s: %w", userID, auctionerrors.ErrUserNotFound)
	}
	if err != nil {
		return model.User{}, fmt.Errorf("get user %s: %w", userID, err)
	}
	return model.User{
		UserID:       row.UserID,
		Username:     row.Username,
		Email:        row.Email,
		OutbidEmails: row.OutbidEmails,
	}, nil
}

// AddListing registers a listing. The current price starts at the starting
// price unless already set.
func (s *SQLStore) AddListing(listing model.Listing) error {
	if listing.CurrentPrice == 0 {
		listing.CurrentPrice = listing.StartingPrice
	}
	_, err := s.db.Exec(s.db.Rebind(`
		INSERT INTO listings
		  (listing_id, seller_id, title, description, starting_price, reserve_price,
		   current_price, bid_count, end_time, original_end_time)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		listing.ListingID, listing.SellerID, listing.Title, listing.Description,
		listing.StartingPrice, listing.ReservePrice, listing.CurrentPrice,
		listing.BidCount, formatTime(listing.EndTime), formatTime(listing.OriginalEndTime))
	if err != nil {
		return fmt.Errorf("add listing %s: %w", listing.ListingID, err)
	}
	return nil
}

// AddUser registers a user profile
func (s *SQLStore) AddUser(user model.User) error {
	_, err := s.db.Exec(s.db.Rebind(`
		INSERT INTO users (user_id, username, email, outbid_emails)
		VALUES (?, ?, ?, ?)`),
		user.UserID, user.Username, user.Email, user.OutbidEmails)
	if err != nil {
		return fmt.Errorf("add user %s: %w", user.UserID, err)
	}
	return nil
}

// UpdateListingTx runs fn inside one database transaction. On Postgres the
// listing row is locked FOR UPDATE on first read, which serializes
// concurrent settlements per listing while leaving other listings free.
func (s *SQLStore) UpdateListingTx(listingID string, fn func(tx AuctionTx) error) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return fmt.Errorf("begin listing tx %s: %w", listingID, err)
	}

	if err := fn(&sqlTx{tx: tx, listingID: listingID, postgres: s.postgres}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback listing tx %s after %v: %w", listingID, err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit listing tx %s: %w", listingID, err)
	}
	return nil
}

type sqlTx struct {
	tx        *sqlx.Tx
	listingID string
	postgres  bool
}

func (t *sqlTx) Listing() (model.Listing, error) {
	query := `SELECT * FROM listings WHERE listing_id = ?`
	if t.postgres {
		query += ` FOR UPDATE`
	}
	var row listingRow
	err := t.tx.Get(&row, t.tx.Rebind(query), t.listingID)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Listing{}, fmt.Errorf("listing tx %s: %w", t.listingID, auctionerrors.ErrListingNotFound)
	}
	if err != nil {
		return model.Listing{}, fmt.Errorf("listing tx %s: %w", t.listingID, err)
	}
	return row.toModel()
}

func (t *sqlTx) WinningBid() (model.Bid, error) {
	var row bidRow
	err := t.tx.Get(&row, t.tx.Rebind(
		`SELECT * FROM bids WHERE listing_id = ? AND status = 'winning'`), t.listingID)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Bid{}, fmt.Errorf("winning bid for listing %s: %w", t.listingID, auctionerrors.ErrNoBids)
	}
	if err != nil {
		return model.Bid{}, fmt.Errorf("winning bid for listing %s: %w", t.listingID, err)
	}
	return row.toModel()
}

func (t *sqlTx) InsertBid(bid model.Bid) error {
	_, err := t.tx.Exec(t.tx.Rebind(`
		INSERT INTO bids (bid_id, listing_id, bidder_id, amount, max_bid, status, is_auto_bid, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
		bid.BidID, bid.ListingID, bid.BidderID, bid.Amount, bid.MaxBid,
		string(bid.Status), bid.IsAutoBid, formatTime(bid.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert bid %s: %w", bid.BidID, err)
	}
	return nil
}

func (t *sqlTx) RaiseMaxBid(bidID string, maxBid int64) error {
	res, err := t.tx.Exec(t.tx.Rebind(`UPDATE bids SET max_bid = ? WHERE bid_id = ?`), maxBid, bidID)
	if err != nil {
		return fmt.Errorf("raise max for bid %s: %w", bidID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("raise max for bid %s: %w", bidID, auctionerrors.ErrNoBids)
	}
	return nil
}

func (t *sqlTx) MarkOthersOutbid(winningBidID string) error {
	_, err := t.tx.Exec(t.tx.Rebind(
		`UPDATE bids SET status = 'outbid' WHERE listing_id = ? AND bid_id <> ?`),
		t.listingID, winningBidID)
	if err != nil {
		return fmt.Errorf("mark others outbid for listing %s: %w", t.listingID, err)
	}
	return nil
}

func (t *sqlTx) SaveListing(listing model.Listing) error {
	_, err := t.tx.Exec(t.tx.Rebind(`
		UPDATE listings
		SET current_price = ?, bid_count = ?, end_time = ?, original_end_time = ?
		WHERE listing_id = ?`),
		listing.CurrentPrice, listing.BidCount, formatTime(listing.EndTime),
		formatTime(listing.OriginalEndTime), listing.ListingID)
	if err != nil {
		return fmt.Errorf("save listing %s: %w", listing.ListingID, err)
	}
	return nil
}
