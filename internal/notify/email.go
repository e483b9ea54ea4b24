package notify

import (
	"fmt"

	model "auction-engine/internal/models"
	"auction-engine/utils"
)

// UserDirectory resolves a recipient's profile for email delivery.
type UserDirectory interface {
	GetUser(userID string) (model.User, error)
}

// Emailer sends a single email. Delivery mechanics live behind this
// interface; the default implementation only logs.
type Emailer interface {
	Send(to, subject, body string) error
}

// LogEmailer records outgoing mail in the structured log instead of
// delivering it.
type LogEmailer struct{}

func (LogEmailer) Send(to, subject, body string) error {
	utils.Info("outgoing email", map[string]any{
		"to":      to,
		"subject": subject,
		"body":    body,
	})
	return nil
}

// EmailSink mirrors outbid events to the affected bidder's profile email,
// honoring their notification preference.
type EmailSink struct {
	users UserDirectory
	mail  Emailer
}

// NewEmailSink creates an EmailSink over the given directory and sender.
func NewEmailSink(users UserDirectory, mail Emailer) *EmailSink {
	return &EmailSink{users: users, mail: mail}
}

func (s *EmailSink) Publish(event Event) error {
	if event.Kind != KindOutbid {
		return nil
	}

	user, err := s.users.GetUser(event.UserID)
	if err != nil {
		return fmt.Errorf("email sink: lookup user %s: %w", event.UserID, err)
	}
	if !user.OutbidEmails || user.Email == "" {
		return nil
	}

	subject := fmt.Sprintf("You have been outbid on %s", event.ListingTitle)
	body := fmt.Sprintf("The price for %q is now %d. Place a new bid to get back in the auction.",
		event.ListingTitle, event.Amount)
	if err := s.mail.Send(user.Email, subject, body); err != nil {
		return fmt.Errorf("email sink: send to %s: %w", user.Email, err)
	}
	return nil
}
