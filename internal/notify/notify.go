package notify

import (
	"errors"

	"auction-engine/utils"
)

// Kind identifies an auction notification event.
type Kind string

const (
	// KindNewBid tells the seller a bid was accepted on their listing.
	KindNewBid Kind = "new_bid"
	// KindReserveMet tells the seller their reserve was reached; fires once.
	KindReserveMet Kind = "reserve_met"
	// KindOutbid tells a bidder they no longer hold the lead.
	KindOutbid Kind = "outbid"
)

// Event is one fire-and-forget notification. Amount carries the accepted
// bid amount, the reserve price or the new current price depending on Kind.
type Event struct {
	Kind         Kind
	UserID       string
	ListingID    string
	ListingTitle string
	Amount       int64
}

// Sink consumes notification events. Errors are logged by the dispatcher
// and never affect the bid that produced the event.
type Sink interface {
	Publish(event Event) error
}

// LogSink writes every event to the structured log.
type LogSink struct{}

func (LogSink) Publish(event Event) error {
	utils.Info("auction notification", map[string]any{
		"kind":       string(event.Kind),
		"user_id":    event.UserID,
		"listing_id": event.ListingID,
		"title":      event.ListingTitle,
		"amount":     event.Amount,
	})
	return nil
}

// Fanout delivers each event to every sink. One failing sink does not stop
// the others.
type Fanout []Sink

func (f Fanout) Publish(event Event) error {
	var errs []error
	for _, sink := range f {
		if err := sink.Publish(event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
