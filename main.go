package main

import (
	"fmt"
	"os"
	"time"

	"auction-engine/internal/auction"
	"auction-engine/internal/config"
	model "auction-engine/internal/models"
	"auction-engine/internal/notify"
	"auction-engine/internal/repository"
	"auction-engine/internal/server"
	"auction-engine/utils"
)

func main() {
	cfg := config.Load()
	utils.SetLevel(cfg.LogLevel)

	repo, err := buildRepo(cfg)
	if err != nil {
		utils.Fatal("failed to open store", map[string]any{"driver": cfg.Driver, "error": err.Error()})
	}

	if cfg.Driver == "memory" {
		prepopulate(repo)
	}

	auctionService := auction.NewAuctionService(repo, buildSink(cfg, repo), cfg.BuyerPremiumPercent)

	router := server.SetupRouter(auctionService)

	port := ":" + cfg.Port
	fmt.Printf("Starting auction server on %s...\n", port)
	if err := router.Run(port); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start server: %v\n", err)
		os.Exit(1)
	}
}

// buildRepo selects the listing/bid store from configuration
func buildRepo(cfg *config.Config) (repository.AuctionDB, error) {
	switch cfg.Driver {
	case "sqlite":
		return repository.OpenSQLStore("sqlite", cfg.SQLitePath)
	case "postgres":
		return repository.OpenSQLStore("postgres", cfg.DSN())
	default:
		return repository.NewMemoryRepo(), nil
	}
}

// buildSink assembles the notification fanout: structured log always,
// outbid emails when enabled.
func buildSink(cfg *config.Config, repo repository.AuctionDB) notify.Sink {
	sinks := notify.Fanout{notify.LogSink{}}
	if cfg.OutbidEmailsEnabled {
		sinks = append(sinks, notify.NewEmailSink(repo, notify.LogEmailer{}))
	}
	return sinks
}

// prepopulate adds sample users and listings to the in-memory repo
func prepopulate(repo repository.AuctionDB) {
	users := []model.User{
		{UserID: "seller1", Username: "seller1", Email: "seller1@example.com", OutbidEmails: true},
		{UserID: "user1", Username: "user1", Email: "user1@example.com", OutbidEmails: true},
		{UserID: "user2", Username: "user2", Email: "user2@example.com", OutbidEmails: false},
	}
	for _, user := range users {
		if err := repo.AddUser(user); err != nil {
			utils.Warn("failed to seed user", map[string]any{"user_id": user.UserID, "error": err.Error()})
		}
	}

	now := time.Now().UTC()
	listings := []model.Listing{
		{ListingID: "listing1", SellerID: "seller1", Title: "title1", Description: "description1", StartingPrice: 100, EndTime: now.Add(24 * time.Hour)},
		{ListingID: "listing2", SellerID: "seller1", Title: "title2", Description: "description2", StartingPrice: 200, ReservePrice: 5000, EndTime: now.Add(48 * time.Hour)},
		{ListingID: "listing3", SellerID: "seller1", Title: "title3", Description: "description3", StartingPrice: 150, EndTime: now.Add(30 * time.Minute)},
	}
	for _, listing := range listings {
		if err := repo.AddListing(listing); err != nil {
			utils.Warn("failed to seed listing", map[string]any{"listing_id": listing.ListingID, "error": err.Error()})
		}
	}
}
